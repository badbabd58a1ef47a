package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/idcode"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
)

// ChipInfo is the JSON form of a resolved chip
type ChipInfo struct {
	Name         string          `json:"name"`
	Family       string          `json:"family"`
	Part         string          `json:"part,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Source       string          `json:"source,omitempty"`
	MemoryMap    []RegionInfo    `json:"memory_map,omitempty"`
	Algorithms   []AlgorithmInfo `json:"flash_algorithms,omitempty"`
}

// RegionInfo represents one memory region
type RegionInfo struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Start string   `json:"start"`
	End   string   `json:"end"`
	Boot  bool     `json:"boot,omitempty"`
	Alias string   `json:"alias,omitempty"`
	Cores []string `json:"cores,omitempty"`
}

// AlgorithmInfo summarises a flash algorithm
type AlgorithmInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	PageSize    uint32 `json:"page_size"`
	Size        int    `json:"instructions_size"`
}

// FamilyInfo is the JSON form of a family listing
type FamilyInfo struct {
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Source       string   `json:"source,omitempty"`
	Chips        []string `json:"chips"`
	Algorithms   []string `json:"flash_algorithms,omitempty"`
}

func hex64(v uint64) string {
	return fmt.Sprintf("0x%08X", v)
}

func manufacturerName(m *idcode.JEP106) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func newChipInfo(f *target.ChipFamily, c *target.Chip) ChipInfo {
	info := ChipInfo{
		Name:         c.Name,
		Family:       f.Name,
		Manufacturer: manufacturerName(f.Manufacturer),
	}
	if c.HasPart() {
		info.Part = c.PartString()
	}
	return info
}

// newTargetInfo adds the memory map and the algorithms the lookup resolved.
func newTargetInfo(t *registry.Target) ChipInfo {
	info := newChipInfo(t.Family, t.Chip)
	info.Source = t.Family.Source
	for _, r := range t.Chip.MemoryMap {
		info.MemoryMap = append(info.MemoryMap, RegionInfo{
			Kind:  r.Kind.String(),
			Name:  r.Name,
			Start: hex64(r.Range.Start),
			End:   hex64(r.Range.End),
			Boot:  r.IsBootMemory,
			Alias: r.Alias,
			Cores: r.Cores,
		})
	}
	for _, a := range t.Algorithms {
		info.Algorithms = append(info.Algorithms, AlgorithmInfo{
			Name:        a.Name,
			Description: a.Description,
			Default:     a.Default,
			Start:       hex64(a.FlashProperties.AddressRange.Start),
			End:         hex64(a.FlashProperties.AddressRange.End),
			PageSize:    a.FlashProperties.PageSize,
			Size:        len(a.Instructions),
		})
	}
	return info
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
