package idcode

// manufacturers covers the silicon vendors whose parts show up in target
// definitions. Keyed by the packed 11-bit code.
var manufacturers = map[uint16]Manufacturer{}

func init() {
	for _, m := range []Manufacturer{
		{Code: JEP106{0, 0x01}, Name: "AMD", Abbreviation: "AMD"},
		{Code: JEP106{0, 0x09}, Name: "Intel", Abbreviation: "Intel"},
		{Code: JEP106{0, 0x0E}, Name: "Freescale (Motorola)", Abbreviation: "Freescale"},
		{Code: JEP106{0, 0x15}, Name: "NXP (Philips)", Abbreviation: "NXP"},
		{Code: JEP106{0, 0x17}, Name: "Texas Instruments", Abbreviation: "TI"},
		{Code: JEP106{0, 0x1F}, Name: "Atmel", Abbreviation: "Atmel"},
		{Code: JEP106{0, 0x20}, Name: "STMicroelectronics", Abbreviation: "STM"},
		{Code: JEP106{0, 0x29}, Name: "Microchip Technology", Abbreviation: "Microchip"},
		{Code: JEP106{0, 0x41}, Name: "Infineon", Abbreviation: "Infineon"},
		{Code: JEP106{0, 0x49}, Name: "Xilinx", Abbreviation: "Xilinx"},
		{Code: JEP106{0, 0x6E}, Name: "Altera", Abbreviation: "Altera"},
		{Code: JEP106{2, 0x44}, Name: "Nordic VLSI ASA", Abbreviation: "Nordic"},
		{Code: JEP106{4, 0x3B}, Name: "ARM Ltd", Abbreviation: "ARM"},
		{Code: JEP106{9, 0x13}, Name: "Raspberry Pi Trading Ltd", Abbreviation: "RPi"},
	} {
		manufacturers[m.Code.Code()] = m
	}
}

// LookupManufacturer returns manufacturer info for a JEP106 code
func LookupManufacturer(code JEP106) (Manufacturer, bool) {
	m, ok := manufacturers[code.Code()]
	if !ok {
		return Manufacturer{Code: code, Name: "Unknown", Abbreviation: "Unknown"}, false
	}
	return m, true
}
