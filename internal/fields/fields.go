// Package fields decomposes a Z80 opcode byte into the x/y/z/p/q fields
// used throughout the Zilog encoding tables. The disassembler and the CPU
// dispatcher both build on this package so the two can never disagree
// about how a byte is carved up.
package fields

import "z80core/mask"

// Opcode holds the decomposed fields of a single non-prefix opcode byte.
type Opcode struct {
	X byte // bits 7:6
	Y byte // bits 5:3
	Z byte // bits 2:0
	P byte // bits 5:4 (Y >> 1)
	Q byte // bit 3 (Y & 1)
}

// Decode splits b into its x/y/z/p/q fields.
func Decode(b byte) Opcode {
	return Opcode{
		X: mask.Range(b, mask.I1, mask.I2),
		Y: mask.Range(b, mask.I3, mask.I5),
		Z: mask.Range(b, mask.I6, mask.I8),
		P: mask.Range(b, mask.I3, mask.I4),
		Q: mask.Range(b, mask.I5, mask.I5),
	}
}

// Signed8 reinterprets b as a signed 8-bit displacement, as used by JR/DJNZ
// relative jumps and the IX+d / IY+d addressing forms.
func Signed8(b byte) int {
	if b&0x80 != 0 {
		return int(b&0x7f) - 128
	}
	return int(b)
}
