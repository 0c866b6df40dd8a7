package targets

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders a table in the same schema Load reads.
func Encode(t *Table) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, c := range t.Communities {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("community", []string{c.Name})
		cb := block.Body()
		cb.SetAttributeValue("cmtnumber", cty.NumberIntVal(int64(c.CMTNumber)))

		if len(c.PFTNames) > 0 {
			names := make([]cty.Value, len(c.PFTNames))
			for j, n := range c.PFTNames {
				names[j] = cty.StringVal(n)
			}
			cb.SetAttributeValue("pft_names", cty.ListVal(names))
		}

		if len(c.Scalars) > 0 {
			attrs := make(map[string]cty.Value, len(c.Scalars))
			for name, v := range c.Scalars {
				attrs[name] = cty.NumberFloatVal(v)
			}
			cb.SetAttributeValue("scalars", cty.ObjectVal(attrs))
		}

		if len(c.Vectors) > 0 {
			attrs := make(map[string]cty.Value, len(c.Vectors))
			for name, v := range c.Vectors {
				attrs[name] = vectorVal(v)
			}
			cb.SetAttributeValue("vectors", cty.ObjectVal(attrs))
		}

		for _, name := range c.CompartmentKeys() {
			comp := c.Compartments[name]
			cb.AppendNewline()
			inner := cb.AppendNewBlock("compartments", []string{name}).Body()
			inner.SetAttributeValue("leaf", vectorVal(comp.Leaf))
			inner.SetAttributeValue("stem", vectorVal(comp.Stem))
			inner.SetAttributeValue("root", vectorVal(comp.Root))
		}
	}
	return f.Bytes()
}

func vectorVal(v Vector) cty.Value {
	vals := make([]cty.Value, len(v))
	for i, x := range v {
		vals[i] = cty.NumberFloatVal(x)
	}
	return cty.ListVal(vals)
}

// Write stores a table at path atomically.
func Write(path string, t *Table) error {
	return fsutil.WriteFileAtomic(path, Encode(t))
}
