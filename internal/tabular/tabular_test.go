package tabular

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/targets"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/testutil"
)

func loadTargets(t *testing.T) *targets.Table {
	t.Helper()
	tt, err := targets.Parse([]byte(testutil.TargetsHCL), "targets.hcl")
	require.NoError(t, err)
	return tt
}

func TestToTable(t *testing.T) {
	dir := testutil.ParamDir(t)

	doc, err := ToTable(context.Background(), dir, "5", loadTargets(t))
	require.NoError(t, err)

	assert.Equal(t, V1, doc.Version)
	assert.Equal(t, "CMT05", doc.Key)
	assert.Equal(t, "Tussock Tundra", doc.Name)
	assert.Equal(t, "Toolik", doc.Comment)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "cmt_bgcsoil.txt", doc.Files[0].File)
	assert.Equal(t, "cmt_calparbgc.txt", doc.Files[1].File)
	require.NotNil(t, doc.Targets)
	assert.Equal(t, "tussock_tundra", doc.Targets.Name)

	b, ok := doc.File("cmt_calparbgc.txt")
	require.True(t, ok)
	assert.Equal(t, []string{"cmax", "nmax", "kra"}, b.Order)
}

func TestToTable_Errors(t *testing.T) {
	dir := testutil.ParamDir(t)

	_, err := ToTable(context.Background(), dir, "CMT44", nil)
	require.ErrorIs(t, err, paramfile.ErrCommunityNotFound)

	_, err = ToTable(context.Background(), dir, "CMT-1", nil)
	require.ErrorIs(t, err, paramfile.ErrInvalidKey)
}

func TestEncodeV1(t *testing.T) {
	doc, err := ToTable(context.Background(), testutil.ParamDir(t), "CMT05", loadTargets(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeV1(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "file,cmtkey,cmtname,comment\ncmt_bgcsoil.txt,CMT05,Tussock Tundra,Toolik\n"))
	assert.Contains(t, out, "calibration_targets,CMT05,tussock_tundra,\n\n\nfile,name,0,1,2,3,4,5,6,7,8,9,units,description,comment,refs\n")
	assert.Contains(t, out, "cmt_calparbgc.txt,pftname,Betula,Decid,EGreen,Sedges,Forbs,Lichens,Feather,Sphag,none,none,,,,\n")
	assert.Contains(t, out, "cmt_calparbgc.txt,cmax,91,40.5,33.2,108.2,20,7.5,3.2,1.1,0,0,gC/m2/month,maximum rate of C assimilation,,\n")
	assert.Contains(t, out, "calibration_targets,VegCarbon.Stem,4.1,161.4,12.2,0,0,0,0,0,0,0,,,,\n")
	assert.Contains(t, out, "\n\n\nfile,name,value,units,description,comment,refs\n")
	assert.Contains(t, out, "cmt_bgcsoil.txt,kdcsoma,0.0001234,1/yr,active SOM C decomposition rate,calibrated,Yi 2010\n")
	assert.Contains(t, out, "calibration_targets,CarbonDeep,5654.1,,,,\n")
	assert.True(t, strings.HasSuffix(out, "\n\n\n"))
}

func TestV1RoundTrip(t *testing.T) {
	want, err := ToTable(context.Background(), testutil.ParamDir(t), "CMT05", loadTargets(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeV1(&buf, want))

	got, err := DecodeV1(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeV1_Lenient(t *testing.T) {
	src := strings.Join([]string{
		"file,cmtkey,cmtname,comment,,",
		"a.txt,cmt7,Bog,,,",
		",,,,,",
		"file,name,value,units,description,comment,refs",
		`a.txt,kc,12.5,ppmv,"half saturation, CO2",,`,
		"",
	}, "\r\n")

	doc, err := DecodeV1(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "CMT07", doc.Key)
	b, ok := doc.File("a.txt")
	require.True(t, ok)
	assert.Equal(t, paramfile.KindScalar, b.Kind)
	v, err := b.Lookup("kc", -1)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
	m, _ := b.Metadata("kc")
	assert.Equal(t, paramfile.Meta{Units: "ppmv", Description: "half saturation, CO2"}, m)
}

func TestDecodeV1_Errors(t *testing.T) {
	meta := "file,cmtkey,cmtname,comment\na.txt,CMT05,Tussock,\n"
	pft := "file,name,0,1,2,3,4,5,6,7,8,9,units,description,comment,refs\n"
	scalar := "file,name,value,units,description,comment,refs\n"

	testCases := []struct {
		name    string
		src     string
		wantErr error
	}{
		{
			name:    "empty",
			src:     "",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "row before header",
			src:     "a.txt,kc,1\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "file without metadata row",
			src:     meta + scalar + "b.txt,kc,1\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "mixed keys",
			src:     meta + "b.txt,CMT06,Other,\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "short pft row",
			src:     meta + pft + "a.txt,cmax,1,2,3\n",
			wantErr: paramfile.ErrCountMismatch,
		},
		{
			name:    "bad number",
			src:     meta + scalar + "a.txt,kc,lots\n",
			wantErr: paramfile.ErrInvalidNumber,
		},
		{
			name:    "duplicate parameter",
			src:     meta + scalar + "a.txt,kc,1\na.txt,kc,2\n",
			wantErr: paramfile.ErrDuplicateParameter,
		},
		{
			name:    "targets rows without metadata",
			src:     meta + scalar + "calibration_targets,GPP,1\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "parent directory file",
			src:     meta + "../escaped.txt,CMT05,Tussock,\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "absolute file",
			src:     meta + "/tmp/escaped.txt,CMT05,Tussock,\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "nested file",
			src:     meta + "sub/b.txt,CMT05,Tussock,\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:    "unknown compartment",
			src:     meta + "calibration_targets,CMT05,t,\n" + pft + "calibration_targets,VegCarbon.Bark,1,2,3,4,5,6,7,8,9,10\n",
			wantErr: ErrMalformedTable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeV1(strings.NewReader(tc.src))
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

const wantV0 = `CMT05,Tussock Tundra,Toolik

CMT_BGCSOIL.TXT
kdcrawc,0.22
kdcsoma,0.0001234
kc,400

CMT_CALPARBGC.TXT,Betula,Decid,EGreen,Sedges,Forbs,Lichens,Feather,Sphag,none,none
cmax,91,40.5,33.2,108.2,20,7.5,3.2,1.1,0,0
nmax,1.25,1.5,2,2.5,3,3.5,4,4.5,0,0
kra,0.0035,0.0035,0.0035,0.0035,0.0035,0.0035,0.0035,0.0035,0.0035,0.0035

`

func TestEncodeV0(t *testing.T) {
	doc, err := ToTable(context.Background(), testutil.ParamDir(t), "CMT05", loadTargets(t))
	require.NoError(t, err)
	doc.Version = V0

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	assert.Equal(t, wantV0, buf.String())
}

func TestDecodeV0(t *testing.T) {
	dir := testutil.ParamDir(t)
	want, err := ToTable(context.Background(), dir, "CMT05", nil)
	require.NoError(t, err)

	got, err := Decode(strings.NewReader(wantV0))
	require.NoError(t, err)

	assert.Equal(t, V0, got.Version)
	assert.Equal(t, "CMT05", got.Key)
	assert.Equal(t, "Tussock Tundra", got.Name)
	require.Len(t, got.Files, 2)
	for i, fb := range got.Files {
		assert.Equal(t, want.Files[i].File, fb.File)
		assert.Equal(t, want.Files[i].Block.Kind, fb.Block.Kind)
		assert.Equal(t, want.Files[i].Block.PFTNames(), fb.Block.PFTNames())
		assert.Empty(t, paramfile.CompareBlocks(want.Files[i].Block, fb.Block))
	}
}

func TestDecodeV0_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		wantErr  error
		wantLine int
	}{
		{
			name:    "empty",
			src:     "\n\n",
			wantErr: ErrMalformedTable,
		},
		{
			name:     "bad key",
			src:      "soil,Tussock,\n",
			wantErr:  paramfile.ErrInvalidKey,
			wantLine: 1,
		},
		{
			name:     "lower case marker",
			src:      "CMT05,Tussock,\n\ncmt_bgcsoil.txt\nkc,400\n",
			wantErr:  ErrMalformedTable,
			wantLine: 3,
		},
		{
			name:     "wrong value count",
			src:      "CMT05,Tussock,\n\nCMT_BGCSOIL.TXT\nkc,400\nkd,1,2,3\n",
			wantErr:  paramfile.ErrCountMismatch,
			wantLine: 5,
		},
		{
			name:     "marker outside directory",
			src:      "CMT05,Tussock,\n\n../CMT_BGCSOIL.TXT\nkc,400\n",
			wantErr:  ErrMalformedTable,
			wantLine: 3,
		},
		{
			name:     "too many pft names",
			src:      "CMT05,Tussock,\n\nCMT_X.TXT,a,b,c,d,e,f,g,h,i,j,k\n",
			wantErr:  paramfile.ErrCountMismatch,
			wantLine: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeV0(strings.NewReader(tc.src))
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantLine > 0 {
				var lerr *paramfile.LineError
				require.ErrorAs(t, err, &lerr)
				assert.Equal(t, tc.wantLine, lerr.Line)
			}
		})
	}
}

func TestFromTable_V1(t *testing.T) {
	dir := testutil.ParamDir(t)
	ctx := context.Background()
	before := testutil.ReadFile(t, filepath.Join(dir, "cmt_calparbgc.txt"))

	doc, err := ToTable(ctx, dir, "CMT05", nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, EncodeV1(&buf, doc))

	edited := strings.Replace(buf.String(), "cmt_calparbgc.txt,cmax,91,", "cmt_calparbgc.txt,cmax,55,", 1)
	back, err := Decode(strings.NewReader(edited))
	require.NoError(t, err)
	require.Equal(t, V1, back.Version)

	var logs testutil.SafeBuffer
	written, err := FromTable(testutil.Context(&logs), back, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "cmt_bgcsoil.txt"),
		filepath.Join(dir, "cmt_calparbgc.txt"),
	}, written)
	assert.Contains(t, logs.String(), "Wrote block from table.")

	b, err := paramfile.LoadBlock(filepath.Join(dir, "cmt_calparbgc.txt"), "CMT05")
	require.NoError(t, err)
	v, err := b.Lookup("cmax", 0)
	require.NoError(t, err)
	assert.Equal(t, 55.0, v)
	assert.Equal(t, []paramfile.Difference{{Name: "cmax", PFT: 0, A: 91, B: 55}},
		paramfile.CompareBlocks(doc.Files[1].Block, b))

	after := testutil.ReadFile(t, filepath.Join(dir, "cmt_calparbgc.txt"))
	cmt01 := strings.SplitAfter(before, "// CMT05")[0]
	assert.True(t, strings.HasPrefix(after, cmt01), "CMT01 block must be kept verbatim")
}

func TestFromTable_V0RestoresMetadata(t *testing.T) {
	dir := testutil.ParamDir(t)

	doc, err := DecodeV0(strings.NewReader(wantV0))
	require.NoError(t, err)
	_, err = FromTable(context.Background(), doc, dir)
	require.NoError(t, err)

	b, err := paramfile.LoadBlock(filepath.Join(dir, "cmt_bgcsoil.txt"), "CMT05")
	require.NoError(t, err)
	m, ok := b.Metadata("kdcsoma")
	require.True(t, ok)
	assert.Equal(t, paramfile.Meta{Units: "1/yr", Description: "active SOM C decomposition rate", Comment: "calibrated", Refs: "Yi 2010"}, m)
}

func TestFromTable_CreatesFiles(t *testing.T) {
	src := testutil.ParamDir(t)
	doc, err := ToTable(context.Background(), src, "CMT01", nil)
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := FromTable(context.Background(), doc, dir)
	require.NoError(t, err)
	require.Len(t, written, 2)

	for _, fb := range doc.Files {
		b, err := paramfile.LoadBlock(filepath.Join(dir, fb.File), "CMT01")
		require.NoError(t, err)
		if diff := cmp.Diff(fb.Block, b); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", fb.File, diff)
		}
	}
}

func TestFromTable_RejectsPathNames(t *testing.T) {
	dir := testutil.ParamDir(t)
	b := paramfile.NewBlock("CMT05", "Tussock", "")
	require.NoError(t, b.AddScalar("kc", 1, paramfile.Meta{}))

	for _, name := range []string{"../escaped.txt", filepath.Join(dir, "abs.txt"), ".."} {
		doc := &Document{Version: V1, Key: "CMT05", Files: []FileBlock{{File: name, Block: b}}}
		written, err := FromTable(context.Background(), doc, dir)
		require.ErrorIs(t, err, ErrMalformedTable, name)
		assert.Empty(t, written, name)
	}
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escaped.txt"))
}

func TestFromTable_MatchesFileCase(t *testing.T) {
	dir := t.TempDir()
	mixed := filepath.Join(dir, "Cmt_Foo.txt")
	require.NoError(t, os.WriteFile(mixed, []byte("// CMT05 // Tussock Tundra // Toolik\n 400 // kc:ppmv // half saturation // //\n"), 0o600))

	doc, err := DecodeV0(strings.NewReader("CMT05,Tussock,\n\nCMT_FOO.TXT\nkc,380\n"))
	require.NoError(t, err)
	require.Equal(t, "cmt_foo.txt", doc.Files[0].File)

	written, err := FromTable(context.Background(), doc, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{mixed}, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	b, err := paramfile.LoadBlock(mixed, "CMT05")
	require.NoError(t, err)
	assert.Equal(t, 380.0, b.Params["kc"].Value)
	m, _ := b.Metadata("kc")
	assert.Equal(t, "ppmv", m.Units)
}
