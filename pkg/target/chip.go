package target

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/idcode"
)

// FoldName returns the Unicode case-folded form of a chip name. Two names
// are the same chip name when their folded forms are equal.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// Chip is one exact chip variant, e.g. nRF52832_xxAA.
type Chip struct {
	Name string
	// Part is the value of the chip's PART (or IDCODE part number) register.
	// Nil when the variant cannot be told apart from silicon.
	Part *uint32
	// MemoryMap is kept sorted by start address once registered.
	MemoryMap []MemoryRegion
	// FlashAlgorithms names entries of the owning family's algorithm pool.
	FlashAlgorithms []string
}

// PartID returns a pointer to v, for filling Chip.Part.
func PartID(v uint32) *uint32 {
	return &v
}

// HasPart reports whether the chip carries a part identifier.
func (c *Chip) HasPart() bool {
	return c.Part != nil
}

// PartString formats the part identifier, or "-" when absent.
func (c *Chip) PartString() string {
	if c.Part == nil {
		return "-"
	}
	return fmt.Sprintf("0x%X", *c.Part)
}

// RAM returns the RAM regions in memory map order.
func (c *Chip) RAM() []MemoryRegion {
	return c.regions(RegionRAM)
}

// NVM returns the non-volatile regions in memory map order.
func (c *Chip) NVM() []MemoryRegion {
	return c.regions(RegionNVM)
}

func (c *Chip) regions(kind RegionKind) []MemoryRegion {
	var out []MemoryRegion
	for _, r := range c.MemoryMap {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// RegionAt returns the first region containing addr.
func (c *Chip) RegionAt(addr uint64) (MemoryRegion, bool) {
	for _, r := range c.MemoryMap {
		if r.Range.Contains(addr) {
			return r, true
		}
	}
	return MemoryRegion{}, false
}

func (c *Chip) clone() Chip {
	out := Chip{Name: c.Name}
	if c.Part != nil {
		out.Part = PartID(*c.Part)
	}
	out.MemoryMap = make([]MemoryRegion, len(c.MemoryMap))
	for i, r := range c.MemoryMap {
		r.Cores = append([]string(nil), r.Cores...)
		out.MemoryMap[i] = r
	}
	out.FlashAlgorithms = append([]string(nil), c.FlashAlgorithms...)
	return out
}

// ChipFamily groups related variants and the flash algorithms they share.
type ChipFamily struct {
	Name         string
	Manufacturer *idcode.JEP106
	Variants     []Chip
	// FlashAlgorithms is the family's algorithm pool; names are unique.
	FlashAlgorithms []FlashAlgorithm
	// Source records where the definition came from, for diagnostics.
	Source string
}

// Algorithm returns the pool entry called name.
func (f *ChipFamily) Algorithm(name string) (*FlashAlgorithm, bool) {
	for i := range f.FlashAlgorithms {
		if f.FlashAlgorithms[i].Name == name {
			return &f.FlashAlgorithms[i], true
		}
	}
	return nil, false
}

// Variant returns the chip whose name matches name case-insensitively.
func (f *ChipFamily) Variant(name string) (*Chip, bool) {
	key := FoldName(name)
	for i := range f.Variants {
		if FoldName(f.Variants[i].Name) == key {
			return &f.Variants[i], true
		}
	}
	return nil, false
}

// AlgorithmNames returns the pool names in declaration order.
func (f *ChipFamily) AlgorithmNames() []string {
	names := make([]string, len(f.FlashAlgorithms))
	for i := range f.FlashAlgorithms {
		names[i] = f.FlashAlgorithms[i].Name
	}
	return names
}

// Clone returns a deep copy of the family.
func (f *ChipFamily) Clone() *ChipFamily {
	out := &ChipFamily{Name: f.Name, Source: f.Source}
	if f.Manufacturer != nil {
		m := *f.Manufacturer
		out.Manufacturer = &m
	}
	out.Variants = make([]Chip, len(f.Variants))
	for i := range f.Variants {
		out.Variants[i] = f.Variants[i].clone()
	}
	out.FlashAlgorithms = make([]FlashAlgorithm, len(f.FlashAlgorithms))
	for i := range f.FlashAlgorithms {
		out.FlashAlgorithms[i] = f.FlashAlgorithms[i].clone()
	}
	return out
}
