package tdl

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/idcode"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
)

// Families converts the parsed file into chip families. Only syntax-level
// checks happen here (value ranges, flag placement); consistency checks are
// left to the registry.
func (f *File) Families() ([]*target.ChipFamily, error) {
	out := make([]*target.ChipFamily, 0, len(f.Blocks))
	for _, fam := range f.Blocks {
		cf, err := fam.family()
		if err != nil {
			return nil, err
		}
		out = append(out, cf)
	}
	return out, nil
}

func errorf(pos lexer.Position, format string, args ...any) error {
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}

func (fam *Family) family() (*target.ChipFamily, error) {
	cf := &target.ChipFamily{Name: fam.Name}
	if m := fam.Manufacturer; m != nil {
		if m.Bank > 0xF || m.ID > 0x7F {
			return nil, errorf(m.Pos, "manufacturer %d:%d out of range (bank <= 15, id <= 127)", m.Bank, m.ID)
		}
		cf.Manufacturer = &idcode.JEP106{ContinuationCount: uint8(m.Bank), ID: uint8(m.ID)}
	}
	for _, e := range fam.Entries {
		switch {
		case e.Algorithm != nil:
			a, err := e.Algorithm.algorithm()
			if err != nil {
				return nil, err
			}
			cf.FlashAlgorithms = append(cf.FlashAlgorithms, a)
		case e.Chip != nil:
			c, err := e.Chip.chip()
			if err != nil {
				return nil, err
			}
			cf.Variants = append(cf.Variants, c)
		}
	}
	return cf, nil
}

func (c *Chip) chip() (target.Chip, error) {
	out := target.Chip{Name: c.Name}
	if c.Part != nil {
		if c.Part.Value > math.MaxUint32 {
			return out, errorf(c.Pos, "chip %q: part 0x%X does not fit 32 bits", c.Name, uint64(c.Part.Value))
		}
		out.Part = target.PartID(uint32(c.Part.Value))
	}
	for _, e := range c.Entries {
		switch {
		case e.Region != nil:
			r, err := e.Region.region()
			if err != nil {
				return out, fmt.Errorf("chip %q: %w", c.Name, err)
			}
			out.MemoryMap = append(out.MemoryMap, r)
		case e.Algorithms != nil:
			out.FlashAlgorithms = append(out.FlashAlgorithms, e.Algorithms.Names...)
		}
	}
	return out, nil
}

func (r *Region) region() (target.MemoryRegion, error) {
	kind, err := target.ParseRegionKind(r.Kind)
	if err != nil {
		return target.MemoryRegion{}, errorf(r.Pos, "%v", err)
	}
	out := target.MemoryRegion{
		Kind:  kind,
		Name:  r.Name,
		Range: target.AddressRange{Start: uint64(r.Range.Start), End: uint64(r.Range.End)},
	}
	for _, flag := range r.Flags {
		switch {
		case flag.Boot:
			if kind == target.RegionGeneric {
				return out, errorf(r.Pos, "boot flag only applies to ram and nvm regions")
			}
			out.IsBootMemory = true
		case flag.Alias != "":
			out.Alias = flag.Alias
		case flag.Core != "":
			out.Cores = append(out.Cores, flag.Core)
		}
	}
	return out, nil
}

func (a *Algorithm) algorithm() (target.FlashAlgorithm, error) {
	out := target.FlashAlgorithm{Name: a.Name, Default: a.Default}
	props := &out.FlashProperties
	for _, e := range a.Entries {
		switch {
		case e.Description != nil:
			out.Description = *e.Description
		case e.Instructions != nil:
			blob, err := base64.StdEncoding.DecodeString(*e.Instructions)
			if err != nil {
				return out, errorf(e.Pos, "algorithm %q: instructions: %v", a.Name, err)
			}
			out.Instructions = blob
		case e.Range != nil:
			props.AddressRange = target.AddressRange{Start: uint64(e.Range.Start), End: uint64(e.Range.End)}
		case e.Sector != nil:
			props.Sectors = append(props.Sectors, target.SectorDescription{
				Size:    uint64(e.Sector.Size),
				Address: uint64(e.Sector.Address),
			})
		case e.Field != nil:
			if err := setField(&out, e.Field); err != nil {
				return out, errorf(e.Pos, "algorithm %q: %v", a.Name, err)
			}
		}
	}
	return out, nil
}

func setField(a *target.FlashAlgorithm, f *Field) error {
	v := uint64(f.Value)
	u32 := func(dst *uint32) error {
		if v > math.MaxUint32 {
			return fmt.Errorf("%s 0x%X does not fit 32 bits", f.Key, v)
		}
		*dst = uint32(v)
		return nil
	}
	switch f.Key {
	case "load_address":
		a.LoadAddress = &v
	case "pc_init":
		a.PCInit = &v
	case "pc_uninit":
		a.PCUninit = &v
	case "pc_program_page":
		a.PCProgramPage = v
	case "pc_erase_sector":
		a.PCEraseSector = v
	case "pc_erase_all":
		a.PCEraseAll = &v
	case "data_section_offset":
		a.DataSectionOffset = v
	case "page_size":
		return u32(&a.FlashProperties.PageSize)
	case "program_page_timeout":
		return u32(&a.FlashProperties.ProgramPageTimeout)
	case "erase_sector_timeout":
		return u32(&a.FlashProperties.EraseSectorTimeout)
	case "erased_byte_value":
		if v > math.MaxUint8 {
			return fmt.Errorf("erased_byte_value 0x%X does not fit 8 bits", v)
		}
		a.FlashProperties.ErasedByteValue = uint8(v)
	default:
		return fmt.Errorf("unknown property %q", f.Key)
	}
	return nil
}
