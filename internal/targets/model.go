package targets

import (
	"sort"

	"github.com/uaf-arctic-eco-modeling/dvm-dos-tem-sub000/internal/paramfile"
)

// Vector is one value per PFT slot.
type Vector = [paramfile.NumPFTs]float64

// CompartmentNames lists the compartments in the order they are written.
var CompartmentNames = []string{"Leaf", "Stem", "Root"}

// Compartments splits a PFT quantity across leaf, stem and root.
type Compartments struct {
	Leaf Vector
	Stem Vector
	Root Vector
}

// Get returns the vector of a compartment by name.
func (c *Compartments) Get(name string) (*Vector, bool) {
	switch name {
	case "Leaf":
		return &c.Leaf, true
	case "Stem":
		return &c.Stem, true
	case "Root":
		return &c.Root, true
	}
	return nil, false
}

// Community holds the targets of one community type.
type Community struct {
	Name         string
	CMTNumber    int
	PFTNames     []string
	Scalars      map[string]float64
	Vectors      map[string]Vector
	Compartments map[string]*Compartments
}

// NewCommunity returns an empty community with initialized maps.
func NewCommunity(name string, cmt int) *Community {
	return &Community{
		Name:         name,
		CMTNumber:    cmt,
		Scalars:      make(map[string]float64),
		Vectors:      make(map[string]Vector),
		Compartments: make(map[string]*Compartments),
	}
}

// Key returns the community key, e.g. "CMT05".
func (c *Community) Key() (string, error) {
	return paramfile.KeyFromNumber(c.CMTNumber)
}

// ScalarNames returns the scalar target names, sorted.
func (c *Community) ScalarNames() []string { return sortedKeys(c.Scalars) }

// VectorNames returns the vector target names, sorted.
func (c *Community) VectorNames() []string { return sortedKeys(c.Vectors) }

// CompartmentKeys returns the compartment table names, sorted.
func (c *Community) CompartmentKeys() []string { return sortedKeys(c.Compartments) }

// Table is a set of communities.
type Table struct {
	Communities []*Community
}

// ForKey returns the community for a key in any form NormalizeKey accepts.
func (t *Table) ForKey(key string) (*Community, bool) {
	n, err := paramfile.KeyNumber(key)
	if err != nil {
		return nil, false
	}
	for _, c := range t.Communities {
		if c.CMTNumber == n {
			return c, true
		}
	}
	return nil, false
}

// Put replaces the community with the same CMT number, or appends c.
func (t *Table) Put(c *Community) {
	for i, existing := range t.Communities {
		if existing.CMTNumber == c.CMTNumber {
			t.Communities[i] = c
			return
		}
	}
	t.Communities = append(t.Communities, c)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
