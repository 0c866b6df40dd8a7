package paramfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// ColumnWidth is the width every value is right-justified into.
	ColumnWidth = 12
	// Decimals is the fixed precision used when it loses nothing.
	Decimals = 4
)

// FormatValue renders v to at most ColumnWidth characters. Plain notation
// with Decimals places is used when exact, scientific notation otherwise.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	fixed := strconv.FormatFloat(v, 'f', Decimals, 64)
	if len(fixed) <= ColumnWidth && fractionDigits(strconv.FormatFloat(v, 'f', -1, 64)) <= Decimals {
		return fixed
	}

	shortest := strconv.FormatFloat(v, 'e', -1, 64)
	for prec := mantissaDigits(shortest); prec > 0; prec-- {
		if s := strconv.FormatFloat(v, 'e', prec, 64); len(s) <= ColumnWidth {
			return s
		}
	}
	return strconv.FormatFloat(v, 'e', 0, 64)
}

func fractionDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// mantissaDigits counts the fraction digits of a number in 'e' notation.
func mantissaDigits(s string) int {
	mant, _, _ := strings.Cut(s, "e")
	return fractionDigits(mant)
}

func column(s string) string {
	return fmt.Sprintf("%*s ", ColumnWidth, s)
}

// metaTrailer renders `// name:units // description // comment // refs`.
// All four fields are always present so the line parses back.
func metaTrailer(name string, m Meta) string {
	return strings.TrimRight(fmt.Sprintf("%s %s:%s %s %s %s %s %s %s",
		CommentMarker, name, m.Units,
		CommentMarker, m.Description,
		CommentMarker, m.Comment,
		CommentMarker, m.Refs), " ")
}

// pftToken makes a slot name safe for the whitespace-delimited name row.
func pftToken(name string, i int) string {
	tok := strings.Join(strings.Fields(name), "_")
	if tok == "" {
		return placeholderName(i)
	}
	return tok
}

func formatHeader(b *Block) (string, error) {
	if b.Key == "" || strings.TrimSpace(b.Name) == "" {
		return "", fmt.Errorf("%w: block needs a key and a name", ErrMalformedHeader)
	}
	key, err := NormalizeKey(b.Key)
	if err != nil {
		return "", err
	}
	line := fmt.Sprintf("%s %s %s %s", CommentMarker, key, CommentMarker, b.Name)
	if b.Comment != "" {
		line += noteSeparator + b.Comment
	}
	return line, nil
}

func formatNameRow(b *Block) string {
	var sb strings.Builder
	sb.WriteString(CommentMarker)
	for i := range b.PFTs {
		width := ColumnWidth
		if i == 0 {
			width -= len(CommentMarker)
		}
		fmt.Fprintf(&sb, "%*s ", width, pftToken(b.PFTs[i].Name, i))
	}
	return strings.TrimRight(sb.String(), " ")
}

// FormatBlock renders b as fixed-width text. Rows follow order, or the
// block's own declaration order when order is nil. A block parameter that
// order does not list is an error; names in order the block lacks are
// skipped.
func FormatBlock(b *Block, order []string) ([]string, error) {
	if order == nil {
		order = b.Order
	}
	listed := make(map[string]struct{}, len(order))
	for _, name := range order {
		listed[name] = struct{}{}
	}
	for _, name := range b.Order {
		if _, ok := listed[name]; !ok {
			return nil, &OrderingMismatchError{Name: name}
		}
	}

	header, err := formatHeader(b)
	if err != nil {
		return nil, err
	}
	out := []string{header}
	if b.Kind == KindPFT {
		out = append(out, formatNameRow(b))
	}

	for _, name := range order {
		var sb strings.Builder
		switch {
		case b.IsVector(name):
			for i := range b.PFTs {
				sb.WriteString(column(FormatValue(b.PFTs[i].Params[name].Value)))
			}
		case b.IsScalar(name):
			sb.WriteString(column(FormatValue(b.Params[name].Value)))
		default:
			continue
		}
		meta, _ := b.Metadata(name)
		sb.WriteString(metaTrailer(name, meta))
		out = append(out, sb.String())
	}
	return out, nil
}

// ReferenceOrder returns the parameter order of the first block of a
// reference file.
func ReferenceOrder(path string) ([]string, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	spans, err := Spans(lines)
	if err != nil {
		return nil, fmt.Errorf("reference file %s: %w", path, err)
	}
	if len(spans) == 0 {
		return nil, &CommunityNotFoundError{Key: "any", File: path}
	}
	b, err := BuildBlock(BlockLines(lines, spans[0].Span))
	if err != nil {
		return nil, fmt.Errorf("reference file %s: %w", path, err)
	}
	return append([]string(nil), b.Order...), nil
}
