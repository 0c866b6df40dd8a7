package paramfile

import (
	"gonum.org/v1/gonum/floats/scalar"
)

// compareTol is the absolute and relative tolerance used by CompareBlocks.
const compareTol = 1e-9

// Difference is one disagreement between two blocks. PFT is -1 for scalars.
// OnlyIn is "a" or "b" when the parameter exists in one block only, and
// "shape" when it is a scalar in one block and a PFT parameter in the other.
type Difference struct {
	Name   string
	PFT    int
	A, B   float64
	OnlyIn string
}

// CompareBlocks lists the value differences between two blocks, following
// a's declaration order and then the names only b defines.
func CompareBlocks(a, b *Block) []Difference {
	var diffs []Difference
	for _, name := range a.Order {
		switch {
		case !b.Has(name):
			diffs = append(diffs, Difference{Name: name, PFT: -1, OnlyIn: "a"})
		case a.IsScalar(name) && b.IsScalar(name):
			va, vb := a.Params[name].Value, b.Params[name].Value
			if !scalar.EqualWithinAbsOrRel(va, vb, compareTol, compareTol) {
				diffs = append(diffs, Difference{Name: name, PFT: -1, A: va, B: vb})
			}
		case a.IsVector(name) && b.IsVector(name):
			va, _ := a.Vector(name)
			vb, _ := b.Vector(name)
			for i := range va {
				if !scalar.EqualWithinAbsOrRel(va[i], vb[i], compareTol, compareTol) {
					diffs = append(diffs, Difference{Name: name, PFT: i, A: va[i], B: vb[i]})
				}
			}
		default:
			diffs = append(diffs, Difference{Name: name, PFT: -1, OnlyIn: "shape"})
		}
	}
	for _, name := range b.Order {
		if !a.Has(name) {
			diffs = append(diffs, Difference{Name: name, PFT: -1, OnlyIn: "b"})
		}
	}
	return diffs
}
