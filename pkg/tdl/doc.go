// Package tdl parses target description files, a compact text syntax for
// chip families.
//
//	# Nordic nRF52 series
//	family "nRF52" manufacturer 0x2:0x44 {
//		algorithm "nrf52_flash" default {
//			description "nRF52 internal flash"
//			range 0x0 .. 0x100000
//			page_size 0x1000
//			sector 0x0 size 0x1000
//		}
//		chip "nRF52832_xxAA" part 0x52832 {
//			ram 0x20000000 .. 0x20010000
//			nvm "flash" 0x0 .. 0x80000 boot
//			algorithms "nrf52_flash"
//		}
//	}
//
// Ranges are half-open. Numbers may be decimal, 0x hex or 0b binary with
// optional underscores. Region flags are boot, alias "<name>" and
// core "<name>".
package tdl
