package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/targets"
)

// Version identifies a table layout.
type Version int

const (
	V0 Version = iota
	V1
)

func (v Version) String() string { return "v" + strconv.Itoa(int(v)) }

// TargetsFile is the file column value used for calibration target rows.
const TargetsFile = "calibration_targets"

// ErrMalformedTable is returned when a table does not follow its layout.
var ErrMalformedTable = errors.New("malformed table")

// FileBlock is the block of one community in one parameter file.
type FileBlock struct {
	// File is the base name of the parameter file.
	File  string
	Block *paramfile.Block
}

// Document is one community type spread across parameter files.
type Document struct {
	Version Version
	Key     string
	Name    string
	Comment string
	Files   []FileBlock
	Targets *targets.Community
}

// File returns the block recorded for a file name.
func (d *Document) File(name string) (*paramfile.Block, bool) {
	for _, fb := range d.Files {
		if fb.File == name {
			return fb.Block, true
		}
	}
	return nil, false
}

func (d *Document) addFile(name string, b *paramfile.Block) error {
	if err := checkFileName(name); err != nil {
		return err
	}
	if _, dup := d.File(name); dup {
		return fmt.Errorf("%w: file %q listed twice", ErrMalformedTable, name)
	}
	d.Files = append(d.Files, FileBlock{File: name, Block: b})
	return nil
}

// checkFileName rejects file column values that are not a bare file name,
// so a table can only address files inside the parameter directory.
func checkFileName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
	case filepath.IsAbs(name), strings.ContainsAny(name, `/\`), filepath.Base(name) != name:
	default:
		return nil
	}
	return fmt.Errorf("%w: file %q is not a bare file name", ErrMalformedTable, name)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", paramfile.ErrInvalidNumber, s)
	}
	return v, nil
}

func parseVector(name string, cells []string) ([paramfile.NumPFTs]float64, error) {
	var out [paramfile.NumPFTs]float64
	if len(cells) != paramfile.NumPFTs {
		return out, &paramfile.CountMismatchError{Name: name, Got: len(cells)}
	}
	for i, c := range cells {
		v, err := parseNumber(c)
		if err != nil {
			return out, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func formatVector(vals [paramfile.NumPFTs]float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatNumber(v)
	}
	return out
}

func setPFTNames(b *paramfile.Block, names []string) error {
	if len(names) != paramfile.NumPFTs {
		return &paramfile.CountMismatchError{Name: "pftname", Got: len(names)}
	}
	for i, n := range names {
		b.PFTs[i].Name = strings.TrimSpace(n)
	}
	b.Kind = paramfile.KindPFT
	return nil
}
