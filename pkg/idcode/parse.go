package idcode

import "fmt"

// ParseIDCode parses a raw 32-bit IDCODE into its component fields
func ParseIDCode(raw uint32) IDCode {
	return IDCode{
		Raw:          raw,
		Version:      uint8((raw >> 28) & 0xF),
		PartNumber:   uint16((raw >> 12) & 0xFFFF),
		Manufacturer: FromCode(uint16((raw >> 1) & 0x7FF)),
		HasIDCode:    (raw & 0x1) == 0x1,
	}
}

// FromCode splits the 11-bit manufacturer field of an IDCODE into bank
// continuation count ([10:7]) and identity ([6:0]).
func FromCode(code uint16) JEP106 {
	return JEP106{
		ContinuationCount: uint8((code >> 7) & 0xF),
		ID:                uint8(code & 0x7F),
	}
}

// Code returns the 11-bit packed form used in JTAG IDCODEs.
func (j JEP106) Code() uint16 {
	return uint16(j.ContinuationCount&0xF)<<7 | uint16(j.ID&0x7F)
}

// String returns the manufacturer name, or the raw bank/id pair when the code
// is not in the table.
func (j JEP106) String() string {
	if m, ok := LookupManufacturer(j); ok {
		return m.Name
	}
	return fmt.Sprintf("JEP106 cc=0x%X id=0x%02X", j.ContinuationCount, j.ID)
}

func (id IDCode) String() string {
	return fmt.Sprintf("0x%08X (part 0x%04X, %s, rev %d)", id.Raw, id.PartNumber, id.Manufacturer, id.Version)
}
