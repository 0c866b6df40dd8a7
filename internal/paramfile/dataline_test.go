package paramfile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataLine(t *testing.T) {
	testCases := []struct {
		name string
		line string
		want DataLine
	}{
		{
			name: "scalar with all fields",
			line: "  0.38 // kdcrawc:1/yr // raw material // tuned // Yi 2010",
			want: DataLine{
				Name:   "kdcrawc",
				Values: []float64{0.38},
				Meta:   Meta{Units: "1/yr", Description: "raw material", Comment: "tuned", Refs: "Yi 2010"},
			},
		},
		{
			name: "vector",
			line: "1 2 3 4 5 6 7 8 9 10 // cmax:gC/m2/month // max uptake // //",
			want: DataLine{
				Name:   "cmax",
				Values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
				Meta:   Meta{Units: "gC/m2/month", Description: "max uptake"},
			},
		},
		{
			name: "missing trailing fields",
			line: "400 // kc:ppmv",
			want: DataLine{Name: "kc", Values: []float64{400}, Meta: Meta{Units: "ppmv"}},
		},
		{
			name: "empty units",
			line: "1.5e-3 // ratio:",
			want: DataLine{Name: "ratio", Values: []float64{0.0015}},
		},
		{
			name: "extra fields fold into refs",
			line: "1 // a:b // d // c // r1 // r2",
			want: DataLine{Name: "a", Values: []float64{1}, Meta: Meta{Units: "b", Description: "d", Comment: "c", Refs: "r1 // r2"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDataLine(tc.line)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseDataLine() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tc.want.Values) > 1, got.IsVector())
		})
	}
}

func TestParseDataLine_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "nine values", line: "1 2 3 4 5 6 7 8 9 // cmax:g", wantErr: ErrCountMismatch},
		{name: "eleven values", line: "1 2 3 4 5 6 7 8 9 10 11 // cmax:g", wantErr: ErrCountMismatch},
		{name: "no metadata", line: "1.0", wantErr: ErrMalformedMetadata},
		{name: "no units separator", line: "1 // kc // d", wantErr: ErrMalformedMetadata},
		{name: "two units separators", line: "1 // a:b:c", wantErr: ErrMalformedMetadata},
		{name: "empty name", line: "1 // :ppmv", wantErr: ErrMalformedMetadata},
		{name: "not a number", line: "abc // kc:ppmv", wantErr: ErrInvalidNumber},
		{name: "bad token in vector", line: "1 2 3 4 x 6 7 8 9 10 // cmax:g", wantErr: ErrInvalidNumber},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDataLine(tc.line)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseDataLine_CountMismatchDetails(t *testing.T) {
	_, err := ParseDataLine("1 2 3 4 5 6 7 8 9 10 11 // cmax:g")

	var countErr *CountMismatchError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, "cmax", countErr.Name)
	assert.Equal(t, 11, countErr.Got)
}
