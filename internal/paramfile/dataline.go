package paramfile

import (
	"fmt"
	"strconv"
	"strings"
)

// metaFields is the number of `//`-separated metadata fields on a data line.
const metaFields = 4

// DataLine is one parsed data row: a scalar (one value) or a PFT vector
// (NumPFTs values).
type DataLine struct {
	Name   string
	Values []float64
	Meta   Meta
}

// IsVector reports whether the row holds one value per PFT.
func (d DataLine) IsVector() bool { return len(d.Values) > 1 }

// ParseDataLine parses `values // name:units // description // comment // refs`.
func ParseDataLine(line string) (DataLine, error) {
	dataPart, metaPart, ok := strings.Cut(line, CommentMarker)
	if !ok {
		return DataLine{}, fmt.Errorf("%w: no metadata on %q", ErrMalformedMetadata, strings.TrimSpace(line))
	}

	fields := strings.Split(metaPart, CommentMarker)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) > metaFields {
		fields[metaFields-1] = strings.Join(fields[metaFields-1:], noteSeparator)
		fields = fields[:metaFields]
	}
	for len(fields) < metaFields {
		fields = append(fields, "")
	}

	nameUnits := strings.Split(fields[0], ":")
	if len(nameUnits) != 2 {
		return DataLine{}, fmt.Errorf("%w: want name:units, got %q", ErrMalformedMetadata, fields[0])
	}
	d := DataLine{
		Name: strings.TrimSpace(nameUnits[0]),
		Meta: Meta{
			Units:       strings.TrimSpace(nameUnits[1]),
			Description: fields[1],
			Comment:     fields[2],
			Refs:        fields[3],
		},
	}
	if d.Name == "" {
		return DataLine{}, fmt.Errorf("%w: empty parameter name", ErrMalformedMetadata)
	}

	tokens := strings.Fields(dataPart)
	switch {
	case len(tokens) == 0:
		return DataLine{}, fmt.Errorf("%w: %q has no value", ErrMalformedMetadata, d.Name)
	case len(tokens) > 1 && len(tokens) != NumPFTs:
		return DataLine{}, &CountMismatchError{Name: d.Name, Got: len(tokens)}
	}

	d.Values = make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return DataLine{}, fmt.Errorf("%w: %q for %q", ErrInvalidNumber, tok, d.Name)
		}
		d.Values[i] = v
	}
	return d, nil
}
