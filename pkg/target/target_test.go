package target

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddressRangeOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b AddressRange
		want bool
	}{
		{"disjoint", AddressRange{0, 0x100}, AddressRange{0x200, 0x300}, false},
		{"adjacent half-open", AddressRange{0, 0x100}, AddressRange{0x100, 0x200}, false},
		{"partial", AddressRange{0, 0x180}, AddressRange{0x100, 0x200}, true},
		{"nested", AddressRange{0, 0x1000}, AddressRange{0x100, 0x200}, true},
		{"identical", AddressRange{0x10, 0x20}, AddressRange{0x10, 0x20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("overlap is not symmetric for %s / %s", tt.a, tt.b)
			}
		})
	}
}

func TestAddressRangeBasics(t *testing.T) {
	r := AddressRange{Start: 0x20000000, End: 0x20010000}
	if !r.Valid() || r.Size() != 0x10000 {
		t.Fatalf("unexpected size %#x for %s", r.Size(), r)
	}
	if !r.Contains(0x20000000) || r.Contains(0x20010000) {
		t.Errorf("Contains must treat the range as half-open")
	}
	if (AddressRange{Start: 5, End: 5}).Valid() {
		t.Errorf("empty range reported as valid")
	}
	if !r.ContainsRange(AddressRange{0x20000100, 0x20000200}) {
		t.Errorf("ContainsRange missed a nested range")
	}
	if r.String() != "0x20000000..0x20010000" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestParseRegionKind(t *testing.T) {
	for in, want := range map[string]RegionKind{"RAM": RegionRAM, "Nvm": RegionNVM, "generic": RegionGeneric} {
		got, err := ParseRegionKind(in)
		if err != nil || got != want {
			t.Errorf("ParseRegionKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseRegionKind("rom"); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}

func TestSortMemoryMap(t *testing.T) {
	in := []MemoryRegion{
		{Kind: RegionRAM, Range: AddressRange{0x20000000, 0x20010000}},
		{Kind: RegionNVM, Name: "flash", Range: AddressRange{0, 0x80000}},
		{Kind: RegionNVM, Name: "uicr", Range: AddressRange{0x10001000, 0x10002000}},
	}
	got := SortMemoryMap(in)
	want := []uint64{0, 0x10001000, 0x20000000}
	for i, r := range got {
		if r.Range.Start != want[i] {
			t.Fatalf("region %d starts at %#x, want %#x", i, r.Range.Start, want[i])
		}
	}
	if in[0].Kind != RegionRAM {
		t.Errorf("SortMemoryMap modified its input")
	}
}

func TestMemoryRegionAliasOf(t *testing.T) {
	a := MemoryRegion{Name: "flash", Alias: "flash_mirror"}
	b := MemoryRegion{Name: "flash_mirror", Alias: "flash"}
	c := MemoryRegion{Name: "other", Alias: "flash"}
	if !a.AliasOf(b) || !b.AliasOf(a) {
		t.Errorf("mutual aliases not recognised")
	}
	if a.AliasOf(c) || c.AliasOf(a) {
		t.Errorf("one-sided alias accepted")
	}
	if (MemoryRegion{}).AliasOf(MemoryRegion{}) {
		t.Errorf("unnamed regions must never alias")
	}
}

func TestChipAccessors(t *testing.T) {
	c := Chip{
		Name: "nRF52832_xxAA",
		Part: PartID(0x52832),
		MemoryMap: []MemoryRegion{
			{Kind: RegionNVM, Range: AddressRange{0, 0x80000}, IsBootMemory: true},
			{Kind: RegionRAM, Range: AddressRange{0x20000000, 0x20010000}},
		},
	}
	if len(c.RAM()) != 1 || len(c.NVM()) != 1 {
		t.Fatalf("RAM/NVM split wrong: %v / %v", c.RAM(), c.NVM())
	}
	r, ok := c.RegionAt(0x20000010)
	if !ok || r.Kind != RegionRAM {
		t.Errorf("RegionAt returned %v, %v", r, ok)
	}
	if _, ok := c.RegionAt(0x30000000); ok {
		t.Errorf("RegionAt found a region outside the map")
	}
	if c.PartString() != "0x52832" {
		t.Errorf("PartString() = %q", c.PartString())
	}
	if (&Chip{}).PartString() != "-" {
		t.Errorf("missing part must print as -")
	}
}

func TestChipFamilyClone(t *testing.T) {
	load := uint64(0x20000000)
	f := &ChipFamily{
		Name: "nRF52",
		Variants: []Chip{{
			Name:            "nRF52832_xxAA",
			Part:            PartID(0x52832),
			MemoryMap:       []MemoryRegion{{Kind: RegionRAM, Range: AddressRange{0x20000000, 0x20010000}, Cores: []string{"main"}}},
			FlashAlgorithms: []string{"nrf52_flash"},
		}},
		FlashAlgorithms: []FlashAlgorithm{{
			Name:         "nrf52_flash",
			Instructions: []byte{1, 2, 3},
			LoadAddress:  &load,
		}},
	}
	c := f.Clone()
	if diff := cmp.Diff(f, c); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	*c.Variants[0].Part = 1
	c.Variants[0].MemoryMap[0].Cores[0] = "other"
	c.Variants[0].FlashAlgorithms[0] = "x"
	c.FlashAlgorithms[0].Instructions[0] = 9
	*c.FlashAlgorithms[0].LoadAddress = 0

	if *f.Variants[0].Part != 0x52832 || f.Variants[0].MemoryMap[0].Cores[0] != "main" ||
		f.Variants[0].FlashAlgorithms[0] != "nrf52_flash" || f.FlashAlgorithms[0].Instructions[0] != 1 ||
		*f.FlashAlgorithms[0].LoadAddress != 0x20000000 {
		t.Fatalf("mutating the clone leaked into the original: %+v", f)
	}
}

func TestChipFamilyLookups(t *testing.T) {
	f := &ChipFamily{
		Variants:        []Chip{{Name: "STM32F407VGTx"}},
		FlashAlgorithms: []FlashAlgorithm{{Name: "stm32f4xx_1024"}, {Name: "stm32f4xx_otp"}},
	}
	if _, ok := f.Variant("stm32f407vgtx"); !ok {
		t.Errorf("Variant lookup is not case-insensitive")
	}
	if FoldName("chipς") != FoldName("CHIPΣ") {
		t.Errorf("final and capital sigma must fold together")
	}
	if _, ok := f.Algorithm("STM32F4XX_1024"); ok {
		t.Errorf("Algorithm lookup must be exact")
	}
	if a, ok := f.Algorithm("stm32f4xx_otp"); !ok || a.Name != "stm32f4xx_otp" {
		t.Errorf("Algorithm lookup failed")
	}
	if diff := cmp.Diff([]string{"stm32f4xx_1024", "stm32f4xx_otp"}, f.AlgorithmNames()); diff != "" {
		t.Errorf("AlgorithmNames mismatch:\n%s", diff)
	}
}
