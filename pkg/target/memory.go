package target

import (
	"fmt"
	"sort"
	"strings"
)

// AddressRange is a half-open address interval [Start, End).
type AddressRange struct {
	Start uint64
	End   uint64
}

// Valid reports whether the range is non-empty.
func (r AddressRange) Valid() bool {
	return r.Start < r.End
}

// Size returns End - Start, or zero for an invalid range.
func (r AddressRange) Size() uint64 {
	if !r.Valid() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether addr lies inside the range.
func (r AddressRange) Contains(addr uint64) bool {
	return addr >= r.Start && addr < r.End
}

// ContainsRange reports whether other lies completely inside r.
func (r AddressRange) ContainsRange(other AddressRange) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Overlaps reports whether the two ranges share at least one address.
func (r AddressRange) Overlaps(other AddressRange) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r AddressRange) String() string {
	return fmt.Sprintf("0x%08X..0x%08X", r.Start, r.End)
}

// RegionKind tags a memory region.
type RegionKind int

const (
	RegionGeneric RegionKind = iota
	RegionRAM
	RegionNVM
)

func (k RegionKind) String() string {
	switch k {
	case RegionRAM:
		return "ram"
	case RegionNVM:
		return "nvm"
	case RegionGeneric:
		return "generic"
	default:
		return fmt.Sprintf("RegionKind(%d)", int(k))
	}
}

// ParseRegionKind accepts "ram", "nvm" and "generic" in any case.
func ParseRegionKind(s string) (RegionKind, error) {
	switch strings.ToLower(s) {
	case "ram":
		return RegionRAM, nil
	case "nvm", "flash":
		return RegionNVM, nil
	case "generic":
		return RegionGeneric, nil
	}
	return RegionGeneric, fmt.Errorf("target: unknown memory region kind %q", s)
}

// MemoryRegion describes one address range of a chip.
type MemoryRegion struct {
	Kind RegionKind
	// Name is optional; it is required for regions taking part in an alias pair.
	Name  string
	Range AddressRange
	// IsBootMemory marks the region the core boots from (RAM and NVM only).
	IsBootMemory bool
	// Alias names the region this one mirrors. Two regions may overlap only
	// when each names the other.
	Alias string
	// Cores lists the cores that can access the region. Empty means all.
	Cores []string
}

// IsAlias reports whether the region mirrors another one.
func (m MemoryRegion) IsAlias() bool {
	return m.Alias != ""
}

// Label is the region name, or its kind when unnamed.
func (m MemoryRegion) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Kind.String()
}

// AliasOf reports whether m and other are declared as mirrors of each other.
func (m MemoryRegion) AliasOf(other MemoryRegion) bool {
	return m.Name != "" && other.Name != "" &&
		m.Alias == other.Name && other.Alias == m.Name
}

func (m MemoryRegion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-7s %s", m.Kind, m.Range)
	if m.Name != "" {
		fmt.Fprintf(&b, " %q", m.Name)
	}
	if m.IsBootMemory {
		b.WriteString(" boot")
	}
	if m.Alias != "" {
		fmt.Fprintf(&b, " alias=%q", m.Alias)
	}
	return b.String()
}

// SortMemoryMap returns a copy of regions ordered by ascending start address.
// Regions starting at the same address keep their relative order.
func SortMemoryMap(regions []MemoryRegion) []MemoryRegion {
	out := make([]MemoryRegion, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start < out[j].Range.Start
	})
	return out
}
