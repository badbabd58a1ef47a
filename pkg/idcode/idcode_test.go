package idcode

import "testing"

func TestParseIDCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     uint32
		part    uint16
		version uint8
		mfr     JEP106
		vendor  string
	}{
		{"cortex-m debug port", 0x4BA00477, 0xBA00, 4, JEP106{4, 0x3B}, "ARM Ltd"},
		{"stm32f4 boundary scan", 0x06413041, 0x6413, 0, JEP106{0, 0x20}, "STMicroelectronics"},
		{"unknown vendor", 0x10001FFF, 0x0001, 1, JEP106{0xF, 0x7F}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ParseIDCode(tt.raw)
			if !id.HasIDCode {
				t.Fatalf("expected IDCODE marker bit for 0x%08X", tt.raw)
			}
			if id.PartNumber != tt.part {
				t.Errorf("part: got 0x%04X, want 0x%04X", id.PartNumber, tt.part)
			}
			if id.Version != tt.version {
				t.Errorf("version: got %d, want %d", id.Version, tt.version)
			}
			if id.Manufacturer != tt.mfr {
				t.Errorf("manufacturer: got %+v, want %+v", id.Manufacturer, tt.mfr)
			}
			m, ok := LookupManufacturer(id.Manufacturer)
			if ok != (tt.vendor != "") {
				t.Fatalf("lookup ok=%v for %+v", ok, id.Manufacturer)
			}
			if ok && m.Name != tt.vendor {
				t.Errorf("vendor: got %q, want %q", m.Name, tt.vendor)
			}
		})
	}
}

func TestJEP106CodeRoundTrip(t *testing.T) {
	j := JEP106{ContinuationCount: 2, ID: 0x44}
	if got := j.Code(); got != 0x144 {
		t.Fatalf("Code() = 0x%03X, want 0x144", got)
	}
	if FromCode(j.Code()) != j {
		t.Fatalf("FromCode(Code()) did not return the original value")
	}
	if j.String() != "Nordic VLSI ASA" {
		t.Errorf("String() = %q", j.String())
	}
	if s := (JEP106{ContinuationCount: 7, ID: 0x01}).String(); s != "JEP106 cc=0x7 id=0x01" {
		t.Errorf("unknown String() = %q", s)
	}
}
