package tdl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed definition file. It may declare several families.
type File struct {
	Blocks []*Family `@@*`
}

// Family represents one chip family block
// Example: family "nRF52" manufacturer 0x2:0x44 { ... }
type Family struct {
	Pos lexer.Position

	Name         string         `"family" @String`
	Manufacturer *Manufacturer  `@@?`
	Entries      []*FamilyEntry `"{" @@* "}"`
}

// Manufacturer is a JEP106 bank continuation count and identity code
// Example: manufacturer 0x2:0x44
type Manufacturer struct {
	Pos lexer.Position

	Bank Number `"manufacturer" @(Hex | Binary | Int)`
	ID   Number `":" @(Hex | Binary | Int)`
}

// FamilyEntry is either a flash algorithm or a chip variant
type FamilyEntry struct {
	Algorithm *Algorithm `  @@`
	Chip      *Chip      `| @@`
}

// Chip represents a chip variant block
// Example: chip "nRF52832_xxAA" part 0x52832 { ... }
type Chip struct {
	Pos lexer.Position

	Name    string       `"chip" @String`
	Part    *PartClause  `@@?`
	Entries []*ChipEntry `"{" @@* "}"`
}

// PartClause carries the optional part identifier of a chip
type PartClause struct {
	Value Number `"part" @(Hex | Binary | Int)`
}

// ChipEntry is a memory region or the list of algorithms the chip uses
type ChipEntry struct {
	Region     *Region        `  @@`
	Algorithms *AlgorithmRefs `| @@`
}

// AlgorithmRefs lists flash algorithm names
// Example: algorithms "nrf52_flash", "nrf52_uicr"
type AlgorithmRefs struct {
	Names []string `"algorithms" @String ( "," @String )*`
}

// Region represents one memory region
// Example: nvm "flash" 0x0 .. 0x80000 boot alias "flash_ns"
type Region struct {
	Pos lexer.Position

	Kind  string        `@( "ram" | "nvm" | "generic" )`
	Name  string        `@String?`
	Range *AddressRange `@@`
	Flags []*RegionFlag `@@*`
}

// RegionFlag is a trailing region attribute
type RegionFlag struct {
	Boot  bool   `  @"boot"`
	Alias string `| "alias" @String`
	Core  string `| "core" @String`
}

// AddressRange is a half-open range written start .. end
type AddressRange struct {
	Start Number `@(Hex | Binary | Int)`
	End   Number `".." @(Hex | Binary | Int)`
}

// Algorithm represents a flash algorithm block
// Example: algorithm "nrf52_flash" default { ... }
type Algorithm struct {
	Pos lexer.Position

	Name    string            `"algorithm" @String`
	Default bool              `@"default"?`
	Entries []*AlgorithmEntry `"{" @@* "}"`
}

// AlgorithmEntry is one statement inside an algorithm block
type AlgorithmEntry struct {
	Pos lexer.Position

	Description  *string       `  "description" @String`
	Instructions *string       `| "instructions" @String`
	Range        *AddressRange `| "range" @@`
	Sector       *Sector       `| @@`
	Field        *Field        `| @@`
}

// Sector starts a run of equally sized sectors
// Example: sector 0x0 size 0x1000
type Sector struct {
	Address Number `"sector" @(Hex | Binary | Int)`
	Size    Number `"size" @(Hex | Binary | Int)`
}

// Field is a numeric algorithm property
// Example: page_size 0x1000
type Field struct {
	Key   string `@( "load_address" | "pc_init" | "pc_uninit" | "pc_program_page" | "pc_erase_sector" | "pc_erase_all" | "data_section_offset" | "page_size" | "erased_byte_value" | "program_page_timeout" | "erase_sector_timeout" )`
	Value Number `@(Hex | Binary | Int)`
}

// Number is an unsigned literal in decimal, 0x hex or 0b binary notation.
// Underscores may separate digits.
type Number uint64

// Capture implements participle.Capture.
func (n *Number) Capture(values []string) error {
	s := strings.ReplaceAll(strings.Join(values, ""), "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		s, base = s[2:], 2
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", strings.Join(values, ""), err)
	}
	*n = Number(v)
	return nil
}
