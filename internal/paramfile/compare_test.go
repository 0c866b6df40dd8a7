package paramfile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/testutil"
)

func TestCompareBlocks(t *testing.T) {
	a := fixtureBlock(t, testutil.CalparbgcTXT, "CMT05")
	b := a.Clone()

	require.Empty(t, CompareBlocks(a, b))

	_, err := b.Set("nmax", 2, 9)
	require.NoError(t, err)
	require.NoError(t, b.AddScalar("kc", 400, Meta{}))

	want := []Difference{
		{Name: "nmax", PFT: 2, A: 2.0, B: 9},
		{Name: "kc", PFT: -1, OnlyIn: "b"},
	}
	if diff := cmp.Diff(want, CompareBlocks(a, b)); diff != "" {
		t.Errorf("CompareBlocks() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareBlocks_AcrossCommunities(t *testing.T) {
	a := fixtureBlock(t, testutil.CalparbgcTXT, "CMT01")
	b := fixtureBlock(t, testutil.CalparbgcTXT, "CMT05")

	diffs := CompareBlocks(a, b)

	var onlyB []string
	for _, d := range diffs {
		if d.OnlyIn == "b" {
			onlyB = append(onlyB, d.Name)
		}
	}
	require.Equal(t, []string{"kra"}, onlyB)
}

func TestCompareBlocks_Tolerance(t *testing.T) {
	a := fixtureBlock(t, testutil.CalparbgcTXT, "CMT05")
	b := a.Clone()

	_, err := b.Set("cmax", 3, 108.2*(1+1e-12))
	require.NoError(t, err)
	_, err = b.Set("kra", 0, 0.0035+1e-12)
	require.NoError(t, err)
	require.Empty(t, CompareBlocks(a, b))

	_, err = b.Set("cmax", 0, 91.001)
	require.NoError(t, err)
	want := []Difference{{Name: "cmax", PFT: 0, A: 91, B: 91.001}}
	if diff := cmp.Diff(want, CompareBlocks(a, b)); diff != "" {
		t.Errorf("CompareBlocks() mismatch (-want +got):\n%s", diff)
	}
}
