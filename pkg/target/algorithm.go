package target

// FlashAlgorithm is a named flash loader owned by a chip family.
// The blob and entry points are opaque to the registry; they are handed to the
// flashing layer unchanged.
type FlashAlgorithm struct {
	Name        string
	Description string
	// Default marks the algorithm to use when several cover the same range.
	Default bool

	Instructions []byte
	// LoadAddress is where the blob must be placed in RAM. Nil lets the
	// flasher pick a RAM region.
	LoadAddress *uint64

	PCInit        *uint64
	PCUninit      *uint64
	PCProgramPage uint64
	PCEraseSector uint64
	PCEraseAll    *uint64

	DataSectionOffset uint64
	FlashProperties   FlashProperties
}

// FlashProperties describes the flash device an algorithm programs.
type FlashProperties struct {
	AddressRange       AddressRange
	PageSize           uint32
	ErasedByteValue    uint8
	ProgramPageTimeout uint32 // milliseconds
	EraseSectorTimeout uint32 // milliseconds
	Sectors            []SectorDescription
}

// SectorDescription starts a run of equally sized sectors at Address
// (relative to the flash range start) that lasts until the next description.
type SectorDescription struct {
	Size    uint64
	Address uint64
}

// Covers reports whether the algorithm programs addr.
func (a *FlashAlgorithm) Covers(addr uint64) bool {
	return a.FlashProperties.AddressRange.Contains(addr)
}

func (a *FlashAlgorithm) clone() FlashAlgorithm {
	out := *a
	out.Instructions = append([]byte(nil), a.Instructions...)
	out.LoadAddress = cloneU64(a.LoadAddress)
	out.PCInit = cloneU64(a.PCInit)
	out.PCUninit = cloneU64(a.PCUninit)
	out.PCEraseAll = cloneU64(a.PCEraseAll)
	out.FlashProperties.Sectors = append([]SectorDescription(nil), a.FlashProperties.Sectors...)
	return out
}

func cloneU64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
