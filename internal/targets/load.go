package targets

import (
	"fmt"
	"os"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// fileRoot is the top level of a targets file.
type fileRoot struct {
	Communities []*communityBlock `hcl:"community,block"`
}

type communityBlock struct {
	Name         string              `hcl:"name,label"`
	CMTNumber    int                 `hcl:"cmtnumber"`
	PFTNames     hcl.Expression      `hcl:"pft_names,optional"`
	Scalars      hcl.Expression      `hcl:"scalars,optional"`
	Vectors      hcl.Expression      `hcl:"vectors,optional"`
	Compartments []*compartmentBlock `hcl:"compartments,block"`
}

type compartmentBlock struct {
	Name string    `hcl:"name,label"`
	Leaf []float64 `hcl:"leaf"`
	Stem []float64 `hcl:"stem"`
	Root []float64 `hcl:"root"`
}

// Load reads a targets file.
func Load(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration targets: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes targets from HCL source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse calibration targets %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode calibration targets %s: %w", filename, diags)
	}

	table := &Table{}
	seen := make(map[int]string)
	for _, cb := range root.Communities {
		c, err := translateCommunity(cb)
		if err != nil {
			return nil, fmt.Errorf("%s: community %q: %w", filename, cb.Name, err)
		}
		if prev, dup := seen[c.CMTNumber]; dup {
			key, _ := c.Key()
			return nil, fmt.Errorf("communities %q and %q: %w", prev, c.Name,
				&paramfile.DuplicateCommunityError{Key: key, File: filename})
		}
		seen[c.CMTNumber] = c.Name
		table.Communities = append(table.Communities, c)
	}
	return table, nil
}

func translateCommunity(cb *communityBlock) (*Community, error) {
	if _, err := paramfile.KeyFromNumber(cb.CMTNumber); err != nil {
		return nil, err
	}
	c := NewCommunity(cb.Name, cb.CMTNumber)

	if err := decodeOptional(cb.PFTNames, &c.PFTNames); err != nil {
		return nil, fmt.Errorf("pft_names: %w", err)
	}
	if len(c.PFTNames) > 0 && len(c.PFTNames) != paramfile.NumPFTs {
		return nil, &paramfile.CountMismatchError{Name: "pft_names", Got: len(c.PFTNames)}
	}

	if err := decodeOptional(cb.Scalars, &c.Scalars); err != nil {
		return nil, fmt.Errorf("scalars: %w", err)
	}
	if c.Scalars == nil {
		c.Scalars = make(map[string]float64)
	}

	var vectors map[string][]float64
	if err := decodeOptional(cb.Vectors, &vectors); err != nil {
		return nil, fmt.Errorf("vectors: %w", err)
	}
	for name, vals := range vectors {
		v, err := toVector(name, vals)
		if err != nil {
			return nil, err
		}
		c.Vectors[name] = v
	}

	for _, comp := range cb.Compartments {
		if _, dup := c.Compartments[comp.Name]; dup {
			return nil, fmt.Errorf("duplicate compartments block %q", comp.Name)
		}
		var cs Compartments
		var err error
		if cs.Leaf, err = toVector(comp.Name+".Leaf", comp.Leaf); err != nil {
			return nil, err
		}
		if cs.Stem, err = toVector(comp.Name+".Stem", comp.Stem); err != nil {
			return nil, err
		}
		if cs.Root, err = toVector(comp.Name+".Root", comp.Root); err != nil {
			return nil, err
		}
		c.Compartments[comp.Name] = &cs
	}
	return c, nil
}

func toVector(name string, vals []float64) (Vector, error) {
	var v Vector
	if len(vals) != len(v) {
		return v, &paramfile.CountMismatchError{Name: name, Got: len(vals)}
	}
	copy(v[:], vals)
	return v, nil
}

// decodeOptional evaluates a static expression into target. A missing or
// null attribute leaves target untouched.
func decodeOptional(expr hcl.Expression, target any) error {
	if expr == nil {
		return nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return nil
	}
	return decode(val, target)
}

// decode converts val to the cty type implied by target and stores it.
func decode(val cty.Value, target any) error {
	ty, err := gocty.ImpliedType(reflect.ValueOf(target).Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, target)
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, target)
}
