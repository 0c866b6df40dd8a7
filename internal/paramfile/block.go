package paramfile

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// NumPFTs is the fixed number of plant functional type slots in a block.
const NumPFTs = 10

// BlockKind records whether a block carries per-PFT data. It is decided
// once while building and never re-inferred.
type BlockKind int

const (
	KindScalar BlockKind = iota
	KindPFT
)

func (k BlockKind) String() string {
	if k == KindPFT {
		return "pft"
	}
	return "scalar"
}

// Meta is the annotation carried after the values on a data line.
type Meta struct {
	Units       string
	Description string
	Comment     string
	Refs        string
}

// Parameter is a single named value. For PFT parameters there is one
// Parameter per slot, all sharing the same Meta.
type Parameter struct {
	Name  string
	Value float64
	Meta
}

// PFTSlot is one plant functional type column of a block.
type PFTSlot struct {
	Name   string
	Params map[string]*Parameter
}

// Block is one community type datablock.
type Block struct {
	Key     string
	Name    string
	Comment string
	Kind    BlockKind

	// Order lists every parameter name once, in declaration order.
	Order []string

	// Params holds the scalar parameters.
	Params map[string]*Parameter
	PFTs   [NumPFTs]PFTSlot
}

// NewBlock returns an empty scalar block with placeholder PFT names.
func NewBlock(key, name, comment string) *Block {
	b := &Block{
		Key:     key,
		Name:    name,
		Comment: comment,
		Params:  make(map[string]*Parameter),
	}
	for i := range b.PFTs {
		b.PFTs[i] = PFTSlot{Name: placeholderName(i), Params: make(map[string]*Parameter)}
	}
	return b
}

func placeholderName(i int) string { return fmt.Sprintf("pft%d", i) }

// IsPlaceholderPFT reports whether a PFT name marks an unused slot.
func IsPlaceholderPFT(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "none", "misc":
		return true
	}
	for i := 0; i < NumPFTs; i++ {
		if n == placeholderName(i) {
			return true
		}
	}
	return false
}

// Has reports whether the block defines name.
func (b *Block) Has(name string) bool {
	return b.IsScalar(name) || b.IsVector(name)
}

// IsScalar reports whether name is a scalar parameter of the block.
func (b *Block) IsScalar(name string) bool {
	_, ok := b.Params[name]
	return ok
}

// IsVector reports whether name is a PFT parameter of the block.
func (b *Block) IsVector(name string) bool {
	_, ok := b.PFTs[0].Params[name]
	return ok
}

// AddScalar appends a scalar parameter.
func (b *Block) AddScalar(name string, v float64, meta Meta) error {
	if b.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateParameter, name)
	}
	b.Params[name] = &Parameter{Name: name, Value: v, Meta: meta}
	b.Order = append(b.Order, name)
	return nil
}

// AddVector appends a PFT parameter and marks the block as a PFT block.
func (b *Block) AddVector(name string, vals [NumPFTs]float64, meta Meta) error {
	if b.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateParameter, name)
	}
	for i := range b.PFTs {
		b.PFTs[i].Params[name] = &Parameter{Name: name, Value: vals[i], Meta: meta}
	}
	b.Order = append(b.Order, name)
	b.Kind = KindPFT
	return nil
}

// Vector returns the per-PFT values of a PFT parameter.
func (b *Block) Vector(name string) ([NumPFTs]float64, bool) {
	var out [NumPFTs]float64
	if !b.IsVector(name) {
		return out, false
	}
	for i := range b.PFTs {
		out[i] = b.PFTs[i].Params[name].Value
	}
	return out, true
}

// Metadata returns the annotation of a parameter.
func (b *Block) Metadata(name string) (Meta, bool) {
	if p, ok := b.Params[name]; ok {
		return p.Meta, true
	}
	if p, ok := b.PFTs[0].Params[name]; ok {
		return p.Meta, true
	}
	return Meta{}, false
}

// SetMetadata replaces the annotation of a parameter on every slot.
func (b *Block) SetMetadata(name string, meta Meta) bool {
	if p, ok := b.Params[name]; ok {
		p.Meta = meta
		return true
	}
	if !b.IsVector(name) {
		return false
	}
	for i := range b.PFTs {
		b.PFTs[i].Params[name].Meta = meta
	}
	return true
}

// PFTNames returns the slot names in order.
func (b *Block) PFTNames() [NumPFTs]string {
	var names [NumPFTs]string
	for i := range b.PFTs {
		names[i] = b.PFTs[i].Name
	}
	return names
}

// ScalarNames returns the scalar parameter names in declaration order.
func (b *Block) ScalarNames() []string {
	var out []string
	for _, name := range b.Order {
		if b.IsScalar(name) {
			out = append(out, name)
		}
	}
	return out
}

// VectorNames returns the PFT parameter names in declaration order.
func (b *Block) VectorNames() []string {
	var out []string
	for _, name := range b.Order {
		if b.IsVector(name) {
			out = append(out, name)
		}
	}
	return out
}

// checkPFT validates a PFT index against the shape of a parameter. pft is
// -1 for scalars.
func (b *Block) checkPFT(name string, pft int) error {
	switch {
	case b.IsScalar(name):
		if pft != -1 {
			return fmt.Errorf("%w: %q is not a pft parameter", ErrInvalidPFT, name)
		}
	case b.IsVector(name):
		if pft < 0 || pft >= NumPFTs {
			return fmt.Errorf("%w: %d for %q, want 0..%d", ErrInvalidPFT, pft, name, NumPFTs-1)
		}
	default:
		return &ParameterNotFoundError{Name: name, Where: b.Key}
	}
	return nil
}

// Lookup returns the value of name; pft is -1 for scalar parameters.
func (b *Block) Lookup(name string, pft int) (float64, error) {
	if err := b.checkPFT(name, pft); err != nil {
		return 0, err
	}
	if pft == -1 {
		return b.Params[name].Value, nil
	}
	return b.PFTs[pft].Params[name].Value, nil
}

// Set changes one value and returns the previous one.
func (b *Block) Set(name string, pft int, v float64) (float64, error) {
	if err := b.checkPFT(name, pft); err != nil {
		return 0, err
	}
	p := b.Params[name]
	if pft != -1 {
		p = b.PFTs[pft].Params[name]
	}
	old := p.Value
	p.Value = v
	return old, nil
}

// Contributors returns the indices of slots holding a real PFT, as opposed
// to placeholders such as "none" or "pft7".
func (b *Block) Contributors() []int {
	var out []int
	for i := range b.PFTs {
		if !IsPlaceholderPFT(b.PFTs[i].Name) {
			out = append(out, i)
		}
	}
	return out
}

// Sum adds up a PFT parameter over the contributing slots.
func (b *Block) Sum(name string) (float64, error) {
	vals, ok := b.Vector(name)
	if !ok {
		return 0, &ParameterNotFoundError{Name: name, Where: b.Key}
	}
	contrib := b.Contributors()
	picked := make([]float64, 0, len(contrib))
	for _, i := range contrib {
		picked = append(picked, vals[i])
	}
	return floats.Sum(picked), nil
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	c := NewBlock(b.Key, b.Name, b.Comment)
	c.Kind = b.Kind
	c.Order = append([]string(nil), b.Order...)
	for name, p := range b.Params {
		cp := *p
		c.Params[name] = &cp
	}
	for i := range b.PFTs {
		c.PFTs[i].Name = b.PFTs[i].Name
		for name, p := range b.PFTs[i].Params {
			cp := *p
			c.PFTs[i].Params[name] = &cp
		}
	}
	return c
}
