package idcode

// IDCode represents a parsed IEEE 1149.1 JTAG IDCODE
type IDCode struct {
	Raw          uint32 // full IDCODE
	Version      uint8  // [31:28]
	PartNumber   uint16 // [27:12]
	Manufacturer JEP106 // [11:1]
	HasIDCode    bool   // bit 0 == 1
}

// JEP106 identifies a manufacturer by its JEDEC JEP106 bank and code.
type JEP106 struct {
	ContinuationCount uint8 // number of 0x7F continuation bytes (bank - 1)
	ID                uint8 // 7-bit identity code, parity stripped
}

// Manufacturer represents a JEP106 manufacturer entry
type Manufacturer struct {
	Code         JEP106
	Name         string // "Nordic VLSI ASA"
	Abbreviation string // "Nordic"
}
