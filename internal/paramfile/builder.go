package paramfile

import (
	"fmt"
	"strings"
)

// nonBlank drops lines that carry no content.
func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if Classify(l) != LineBlank {
			out = append(out, l)
		}
	}
	return out
}

// parsePFTNames reads the PFT name row. Missing trailing names become
// placeholders.
func parsePFTNames(line string) ([NumPFTs]string, error) {
	var names [NumPFTs]string
	tokens := strings.Fields(uncomment(line))
	if len(tokens) > NumPFTs {
		return names, &CountMismatchError{Name: "pft names", Got: len(tokens)}
	}
	for i := range names {
		if i < len(tokens) {
			names[i] = tokens[i]
		} else {
			names[i] = placeholderName(i)
		}
	}
	return names, nil
}

// BuildBlock assembles a Block from the lines of a single datablock,
// header first. Blank lines are ignored.
func BuildBlock(lines []string) (*Block, error) {
	lines = nonBlank(lines)
	if len(lines) == 0 || Classify(lines[0]) != LineHeader {
		return nil, fmt.Errorf("%w: block does not start with a header", ErrMalformedHeader)
	}

	h, err := ParseHeader(lines[0])
	if err != nil {
		return nil, &LineError{Line: 1, Err: err}
	}
	b := NewBlock(h.Key, h.Name, h.Comment)

	rest := lines[1:]
	if len(rest) > 0 && IsPFTNameRow(rest[0]) {
		names, err := parsePFTNames(rest[0])
		if err != nil {
			return nil, &LineError{Line: 2, Err: err}
		}
		for i := range b.PFTs {
			b.PFTs[i].Name = names[i]
		}
		b.Kind = KindPFT
		rest = rest[1:]
	}

	offset := len(lines) - len(rest)
	for i, line := range rest {
		lineNo := offset + i + 1
		switch Classify(line) {
		case LineDivider, LineComment:
			continue
		case LineHeader:
			return nil, &LineError{Line: lineNo, Err: fmt.Errorf("%w: second header inside block %s", ErrMalformedHeader, b.Key)}
		}

		d, err := ParseDataLine(line)
		if err != nil {
			return nil, &LineError{Line: lineNo, Err: err}
		}
		if d.IsVector() {
			var vals [NumPFTs]float64
			copy(vals[:], d.Values)
			err = b.AddVector(d.Name, vals, d.Meta)
		} else {
			err = b.AddScalar(d.Name, d.Values[0], d.Meta)
		}
		if err != nil {
			return nil, &LineError{Line: lineNo, Err: err}
		}
	}
	return b, nil
}
