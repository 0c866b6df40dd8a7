package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
)

// EncodeV0 writes doc in the per-file section layout. Metadata and
// calibration targets are not part of this layout and are dropped.
func EncodeV0(w io.Writer, doc *Document) error {
	rows := [][]string{{doc.Key, doc.Name, doc.Comment}, {}}
	for _, fb := range doc.Files {
		b := fb.Block
		marker := []string{strings.ToUpper(fb.File)}
		if b.Kind == paramfile.KindPFT {
			names := b.PFTNames()
			marker = append(marker, names[:]...)
		}
		rows = append(rows, marker)

		for _, name := range b.Order {
			if vals, ok := b.Vector(name); ok {
				rows = append(rows, append([]string{name}, formatVector(vals)...))
				continue
			}
			rows = append(rows, []string{name, formatNumber(b.Params[name].Value)})
		}
		rows = append(rows, []string{})
	}

	if err := csv.NewWriter(w).WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// v0Section is a run of non-blank lines and the line number it starts at.
type v0Section struct {
	start   int
	records [][]string
}

func splitSections(src string) ([]v0Section, error) {
	var (
		out   []v0Section
		group []string
		start int
	)
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		cr := csv.NewReader(strings.NewReader(strings.Join(group, "\n")))
		cr.FieldsPerRecord = -1
		records, err := cr.ReadAll()
		if err != nil {
			return &paramfile.LineError{Line: start, Err: fmt.Errorf("failed to read table: %w", err)}
		}
		out = append(out, v0Section{start: start, records: records})
		group = nil
		return nil
	}

	for i, line := range paramfile.SplitLines(src) {
		if strings.Trim(line, " \t,") == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(group) == 0 {
			start = i + 1
		}
		group = append(group, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeV0 reads a table written by EncodeV0. The returned blocks carry no
// metadata.
func DecodeV0(r io.Reader) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	sections, err := splitSections(string(src))
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrMalformedTable)
	}

	head := pad(trimRecord(sections[0].records[0]), 3)
	key, err := paramfile.NormalizeKey(head[0])
	if err != nil {
		return nil, &paramfile.LineError{Line: sections[0].start, Err: err}
	}
	doc := &Document{Version: V0, Key: key, Name: head[1], Comment: head[2]}

	sections[0].records = sections[0].records[1:]
	sections[0].start++
	for _, sec := range sections {
		if len(sec.records) == 0 {
			continue
		}
		if err := decodeV0Section(doc, sec.records); err != nil {
			var lerr *paramfile.LineError
			if errors.As(err, &lerr) {
				lerr.Line += sec.start - 1
				return nil, lerr
			}
			return nil, &paramfile.LineError{Line: sec.start, Err: err}
		}
	}
	return doc, nil
}

func decodeV0Section(doc *Document, records [][]string) error {
	marker := trimRecord(records[0])
	if len(marker) == 0 || marker[0] != strings.ToUpper(marker[0]) {
		return fmt.Errorf("%w: section marker %q is not an upper case file name", ErrMalformedTable, strings.Join(records[0], ","))
	}
	file := strings.ToLower(strings.TrimSpace(marker[0]))
	if err := checkFileName(file); err != nil {
		return err
	}

	b := paramfile.NewBlock(doc.Key, doc.Name, doc.Comment)
	if len(marker) > 1 {
		names := marker[1:]
		if len(names) > paramfile.NumPFTs {
			return &paramfile.CountMismatchError{Name: pftNameRow, Got: len(names)}
		}
		if err := setPFTNames(b, pad(names, paramfile.NumPFTs)); err != nil {
			return err
		}
	}

	for i, rec := range records[1:] {
		cells := trimRecord(rec)
		if len(cells) == 0 {
			continue
		}
		name := strings.TrimSpace(cells[0])
		var err error
		switch len(cells) {
		case 2:
			var v float64
			if v, err = parseNumber(cells[1]); err == nil {
				err = b.AddScalar(name, v, paramfile.Meta{})
			}
		case paramfile.NumPFTs + 1:
			var vals [paramfile.NumPFTs]float64
			if vals, err = parseVector(name, cells[1:]); err == nil {
				err = b.AddVector(name, vals, paramfile.Meta{})
			}
		default:
			err = &paramfile.CountMismatchError{Name: name, Got: len(cells) - 1}
		}
		if err != nil {
			return &paramfile.LineError{Line: i + 2, Err: err}
		}
	}
	return doc.addFile(file, b)
}
