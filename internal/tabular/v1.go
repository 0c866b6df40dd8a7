package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/targets"
)

const pftNameRow = "pftname"

var (
	metaHeader   = []string{"file", "cmtkey", "cmtname", "comment"}
	pftHeader    = []string{"file", "name", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "units", "description", "comment", "refs"}
	scalarHeader = []string{"file", "name", "value", "units", "description", "comment", "refs"}
)

type section int

const (
	sectionNone section = iota
	sectionMeta
	sectionPFT
	sectionScalar
)

func metaCells(m paramfile.Meta) []string {
	return []string{m.Units, m.Description, m.Comment, m.Refs}
}

func row(cells ...[]string) []string {
	var out []string
	for _, c := range cells {
		out = append(out, c...)
	}
	return out
}

// EncodeV1 writes doc in the three section layout. Each section is followed
// by two empty rows.
func EncodeV1(w io.Writer, doc *Document) error {
	var meta, pft, scalar [][]string
	meta = append(meta, metaHeader)
	pft = append(pft, pftHeader)
	scalar = append(scalar, scalarHeader)
	noMeta := make([]string, 4)

	for _, fb := range doc.Files {
		b := fb.Block
		meta = append(meta, []string{fb.File, b.Key, b.Name, b.Comment})

		if b.Kind == paramfile.KindPFT {
			names := b.PFTNames()
			pft = append(pft, row([]string{fb.File, pftNameRow}, names[:], noMeta))
		}
		for _, name := range b.VectorNames() {
			vals, _ := b.Vector(name)
			m, _ := b.Metadata(name)
			pft = append(pft, row([]string{fb.File, name}, formatVector(vals), metaCells(m)))
		}
		for _, name := range b.ScalarNames() {
			m, _ := b.Metadata(name)
			scalar = append(scalar, row([]string{fb.File, name, formatNumber(b.Params[name].Value)}, metaCells(m)))
		}
	}

	if t := doc.Targets; t != nil {
		key, err := t.Key()
		if err != nil {
			return fmt.Errorf("calibration targets %q: %w", t.Name, err)
		}
		meta = append(meta, []string{TargetsFile, key, t.Name, ""})
		if len(t.PFTNames) > 0 {
			pft = append(pft, row([]string{TargetsFile, pftNameRow}, t.PFTNames, noMeta))
		}
		for _, name := range t.VectorNames() {
			pft = append(pft, row([]string{TargetsFile, name}, formatVector(t.Vectors[name]), noMeta))
		}
		for _, name := range t.CompartmentKeys() {
			comp := t.Compartments[name]
			for _, part := range targets.CompartmentNames {
				vals, _ := comp.Get(part)
				pft = append(pft, row([]string{TargetsFile, name + "." + part}, formatVector(*vals), noMeta))
			}
		}
		for _, name := range t.ScalarNames() {
			scalar = append(scalar, row([]string{TargetsFile, name, formatNumber(t.Scalars[name])}, noMeta))
		}
	}

	cw := csv.NewWriter(w)
	for _, sec := range [][][]string{meta, pft, scalar} {
		sec = append(sec, []string{}, []string{})
		if err := cw.WriteAll(sec); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}
	return nil
}

// trimRecord drops trailing empty cells, which spreadsheet exports add.
func trimRecord(rec []string) []string {
	n := len(rec)
	for n > 0 && strings.TrimSpace(rec[n-1]) == "" {
		n--
	}
	return rec[:n]
}

// pad returns rec extended with empty cells to at least n cells.
func pad(rec []string, n int) []string {
	if len(rec) >= n {
		return rec
	}
	out := make([]string, n)
	copy(out, rec)
	return out
}

// v1Decoder accumulates a document row by row.
type v1Decoder struct {
	doc *Document
}

// DecodeV1 reads a table written by EncodeV1. Rows may come in any order
// within their section, but every file must appear in the metadata section
// before its parameter rows.
func DecodeV1(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	d := &v1Decoder{doc: &Document{Version: V1}}
	sec := sectionNone
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		line, _ := cr.FieldPos(0)

		cells := trimRecord(rec)
		switch {
		case len(cells) == 0:
			continue
		case slices.Equal(cells, metaHeader):
			sec = sectionMeta
			continue
		case slices.Equal(cells, pftHeader):
			sec = sectionPFT
			continue
		case slices.Equal(cells, scalarHeader):
			sec = sectionScalar
			continue
		}

		switch sec {
		case sectionMeta:
			err = d.metaRow(pad(cells, len(metaHeader)))
		case sectionPFT:
			err = d.pftRow(cells)
		case sectionScalar:
			err = d.scalarRow(cells)
		default:
			err = fmt.Errorf("%w: row before the first section header", ErrMalformedTable)
		}
		if err != nil {
			return nil, &paramfile.LineError{Line: line, Err: err}
		}
	}

	if d.doc.Key == "" {
		return nil, fmt.Errorf("%w: no community rows", ErrMalformedTable)
	}
	return d.doc, nil
}

func (d *v1Decoder) metaRow(cells []string) error {
	file := strings.TrimSpace(cells[0])
	key, err := paramfile.NormalizeKey(cells[1])
	if err != nil {
		return err
	}
	if d.doc.Key == "" {
		d.doc.Key = key
	} else if key != d.doc.Key {
		return fmt.Errorf("%w: key %s in a table for %s", ErrMalformedTable, key, d.doc.Key)
	}

	if file == TargetsFile {
		if d.doc.Targets != nil {
			return fmt.Errorf("%w: calibration targets listed twice", ErrMalformedTable)
		}
		n, _ := paramfile.KeyNumber(key)
		d.doc.Targets = targets.NewCommunity(cells[2], n)
		return nil
	}

	if err := checkFileName(file); err != nil {
		return err
	}
	if d.doc.Name == "" && d.doc.Comment == "" {
		d.doc.Name, d.doc.Comment = cells[2], cells[3]
	}
	return d.doc.addFile(file, paramfile.NewBlock(key, cells[2], cells[3]))
}

func (d *v1Decoder) block(file string) (*paramfile.Block, error) {
	b, ok := d.doc.File(file)
	if !ok {
		return nil, fmt.Errorf("%w: file %q has no metadata row", ErrMalformedTable, file)
	}
	return b, nil
}

func (d *v1Decoder) pftRow(cells []string) error {
	if len(cells) < 2 {
		return fmt.Errorf("%w: pft row without a name", ErrMalformedTable)
	}
	file, name := strings.TrimSpace(cells[0]), strings.TrimSpace(cells[1])
	values := cells[2:min(len(cells), 2+paramfile.NumPFTs)]
	rest := pad(cells, len(pftHeader))[2+paramfile.NumPFTs:]
	meta := paramfile.Meta{Units: rest[0], Description: rest[1], Comment: rest[2], Refs: rest[3]}

	if file == TargetsFile {
		return d.targetsPFTRow(name, pad(values, paramfile.NumPFTs))
	}

	b, err := d.block(file)
	if err != nil {
		return err
	}
	if name == pftNameRow {
		return setPFTNames(b, pad(values, paramfile.NumPFTs))
	}
	vals, err := parseVector(name, values)
	if err != nil {
		return err
	}
	return b.AddVector(name, vals, meta)
}

func (d *v1Decoder) targetsPFTRow(name string, values []string) error {
	t := d.doc.Targets
	if t == nil {
		return fmt.Errorf("%w: calibration targets have no metadata row", ErrMalformedTable)
	}
	if name == pftNameRow {
		t.PFTNames = make([]string, len(values))
		for i, v := range values {
			t.PFTNames[i] = strings.TrimSpace(v)
		}
		return nil
	}

	vals, err := parseVector(name, values)
	if err != nil {
		return err
	}
	if table, part, ok := strings.Cut(name, "."); ok {
		comp, exists := t.Compartments[table]
		if !exists {
			comp = &targets.Compartments{}
		}
		slot, known := comp.Get(part)
		if !known {
			return fmt.Errorf("%w: unknown compartment %q", ErrMalformedTable, name)
		}
		*slot = vals
		t.Compartments[table] = comp
		return nil
	}
	t.Vectors[name] = vals
	return nil
}

func (d *v1Decoder) scalarRow(cells []string) error {
	if len(cells) < 3 {
		return fmt.Errorf("%w: scalar row without a value", ErrMalformedTable)
	}
	file, name := strings.TrimSpace(cells[0]), strings.TrimSpace(cells[1])
	v, err := parseNumber(cells[2])
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if file == TargetsFile {
		if d.doc.Targets == nil {
			return fmt.Errorf("%w: calibration targets have no metadata row", ErrMalformedTable)
		}
		d.doc.Targets.Scalars[name] = v
		return nil
	}

	b, err := d.block(file)
	if err != nil {
		return err
	}
	rest := pad(cells, len(scalarHeader))[3:]
	return b.AddScalar(name, v, paramfile.Meta{Units: rest[0], Description: rest[1], Comment: rest[2], Refs: rest[3]})
}
