package targetfile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/idcode"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
)

// rawFamily is the YAML-level representation of a chip family.
type rawFamily struct {
	Name            string         `yaml:"name"`
	Manufacturer    *rawJEP106     `yaml:"manufacturer"`
	Variants        []rawChip      `yaml:"variants"`
	FlashAlgorithms []rawAlgorithm `yaml:"flash_algorithms"`
}

type rawJEP106 struct {
	ID uint8 `yaml:"id"`
	CC uint8 `yaml:"cc"`
}

type rawChip struct {
	Name            string      `yaml:"name"`
	Part            *uint32     `yaml:"part"`
	MemoryMap       []rawRegion `yaml:"memory_map"`
	FlashAlgorithms []string    `yaml:"flash_algorithms"`
}

type rawRange struct {
	Start uint64 `yaml:"start"`
	End   uint64 `yaml:"end"`
}

// rawRegion is written as a single-key mapping whose key is the region kind:
//
//	- Ram: {range: {start: 0x20000000, end: 0x20010000}}
type rawRegion struct {
	kind target.RegionKind
	body rawRegionBody
}

type rawRegionBody struct {
	Name         string   `yaml:"name"`
	Range        rawRange `yaml:"range"`
	IsBootMemory bool     `yaml:"is_boot_memory"`
	Alias        string   `yaml:"alias"`
	Cores        []string `yaml:"cores"`
}

func (r *rawRegion) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: memory region must be a mapping with one of Ram, Nvm or Generic", node.Line)
	}
	kind, err := target.ParseRegionKind(node.Content[0].Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Content[0].Line, err)
	}
	r.kind = kind

	body := node.Content[1]
	if err := checkFields(body, "memory region", "name", "range", "is_boot_memory", "alias", "cores"); err != nil {
		return err
	}
	for i := 0; i+1 < len(body.Content); i += 2 {
		if body.Content[i].Value == "range" {
			if err := checkFields(body.Content[i+1], "address range", "start", "end"); err != nil {
				return err
			}
		}
	}
	return body.Decode(&r.body)
}

// checkFields rejects mapping keys outside allowed. Node.Decode does not
// inherit the decoder's KnownFields setting, so region bodies are checked
// by hand.
func checkFields(node *yaml.Node, what string, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: field %s not found in %s", key.Line, key.Value, what)
		}
	}
	return nil
}

type rawAlgorithm struct {
	Name              string             `yaml:"name"`
	Description       string             `yaml:"description"`
	Default           bool               `yaml:"default"`
	Instructions      string             `yaml:"instructions"`
	LoadAddress       *uint64            `yaml:"load_address"`
	PCInit            *uint64            `yaml:"pc_init"`
	PCUninit          *uint64            `yaml:"pc_uninit"`
	PCProgramPage     uint64             `yaml:"pc_program_page"`
	PCEraseSector     uint64             `yaml:"pc_erase_sector"`
	PCEraseAll        *uint64            `yaml:"pc_erase_all"`
	DataSectionOffset uint64             `yaml:"data_section_offset"`
	FlashProperties   rawFlashProperties `yaml:"flash_properties"`
}

type rawFlashProperties struct {
	AddressRange       rawRange    `yaml:"address_range"`
	PageSize           uint32      `yaml:"page_size"`
	ErasedByteValue    uint8       `yaml:"erased_byte_value"`
	ProgramPageTimeout uint32      `yaml:"program_page_timeout"`
	EraseSectorTimeout uint32      `yaml:"erase_sector_timeout"`
	Sectors            []rawSector `yaml:"sectors"`
}

type rawSector struct {
	Size    uint64 `yaml:"size"`
	Address uint64 `yaml:"address"`
}

// Decode reads every YAML document from r as one chip family.
func Decode(r io.Reader) ([]*target.ChipFamily, error) {
	families, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("targetfile: %w", err)
	}
	return families, nil
}

func decode(r io.Reader) ([]*target.ChipFamily, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var families []*target.ChipFamily
	for {
		var raw rawFamily
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return families, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode family #%d: %w", len(families)+1, err)
		}
		f, err := raw.family()
		if err != nil {
			return nil, fmt.Errorf("family %q: %w", raw.Name, err)
		}
		families = append(families, f)
	}
}

// DecodeBytes is Decode for in-memory data.
func DecodeBytes(data []byte) ([]*target.ChipFamily, error) {
	return Decode(bytes.NewReader(data))
}

func (raw *rawFamily) family() (*target.ChipFamily, error) {
	f := &target.ChipFamily{Name: raw.Name}
	if raw.Manufacturer != nil {
		f.Manufacturer = &idcode.JEP106{ContinuationCount: raw.Manufacturer.CC, ID: raw.Manufacturer.ID}
	}
	for _, rc := range raw.Variants {
		chip := target.Chip{
			Name:            rc.Name,
			Part:            rc.Part,
			FlashAlgorithms: rc.FlashAlgorithms,
		}
		for _, rr := range rc.MemoryMap {
			chip.MemoryMap = append(chip.MemoryMap, target.MemoryRegion{
				Kind:         rr.kind,
				Name:         rr.body.Name,
				Range:        target.AddressRange{Start: rr.body.Range.Start, End: rr.body.Range.End},
				IsBootMemory: rr.body.IsBootMemory,
				Alias:        rr.body.Alias,
				Cores:        rr.body.Cores,
			})
		}
		f.Variants = append(f.Variants, chip)
	}
	for _, ra := range raw.FlashAlgorithms {
		a, err := ra.algorithm()
		if err != nil {
			return nil, err
		}
		f.FlashAlgorithms = append(f.FlashAlgorithms, a)
	}
	return f, nil
}

func (ra *rawAlgorithm) algorithm() (target.FlashAlgorithm, error) {
	a := target.FlashAlgorithm{
		Name:              ra.Name,
		Description:       ra.Description,
		Default:           ra.Default,
		LoadAddress:       ra.LoadAddress,
		PCInit:            ra.PCInit,
		PCUninit:          ra.PCUninit,
		PCProgramPage:     ra.PCProgramPage,
		PCEraseSector:     ra.PCEraseSector,
		PCEraseAll:        ra.PCEraseAll,
		DataSectionOffset: ra.DataSectionOffset,
		FlashProperties: target.FlashProperties{
			AddressRange: target.AddressRange{
				Start: ra.FlashProperties.AddressRange.Start,
				End:   ra.FlashProperties.AddressRange.End,
			},
			PageSize:           ra.FlashProperties.PageSize,
			ErasedByteValue:    ra.FlashProperties.ErasedByteValue,
			ProgramPageTimeout: ra.FlashProperties.ProgramPageTimeout,
			EraseSectorTimeout: ra.FlashProperties.EraseSectorTimeout,
		},
	}
	for _, s := range ra.FlashProperties.Sectors {
		a.FlashProperties.Sectors = append(a.FlashProperties.Sectors, target.SectorDescription{Size: s.Size, Address: s.Address})
	}
	if ra.Instructions != "" {
		blob, err := base64.StdEncoding.DecodeString(ra.Instructions)
		if err != nil {
			return a, fmt.Errorf("flash algorithm %q: instructions: %w", ra.Name, err)
		}
		a.Instructions = blob
	}
	return a, nil
}
