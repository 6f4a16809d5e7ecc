// Package disasm turns a byte stream into Z80 mnemonics without
// executing anything: the same decode table opcodes reach via
// internal/fields, replayed against name strings instead of register
// state. Keeping this pure and side-effect-free is what lets it and the
// CPU dispatcher agree on every encoding without duplicating the
// decision tree by hand in two places.
package disasm

import (
	"fmt"

	"z80core/internal/fields"
)

// Reader is the minimal memory access the disassembler needs; *mem.AddrMap
// satisfies it without disasm importing the mem package at all.
type Reader interface {
	Read(addr uint16) byte
}

var (
	regNames  = [8]string{"b", "c", "d", "e", "h", "l", "(hl)", "a"}
	rpNames   = [4]string{"bc", "de", "hl", "sp"}
	rp2Names  = [4]string{"bc", "de", "hl", "af"}
	ccNames   = [8]string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}
	aluNames  = [8]string{"add", "adc", "sub", "sbc", "and", "xor", "or", "cp"}
	aluPrefix = [8]string{"a,", "a,", "", "a,", "", "", "", ""}
	rotNames  = [8]string{"rlc", "rrc", "rl", "rr", "sla", "sra", "sll", "srl"}
	rotaNames = [8]string{"rlca", "rrca", "rla", "rra", "daa", "cpl", "scf", "ccf"}
	imNames   = [8]string{"0", "0", "1", "2", "0", "0", "1", "2"}
	bliNames  = [4][4]string{
		{"ldi", "ldd", "ldir", "lddr"},
		{"cpi", "cpd", "cpir", "cpdr"},
		{"ini", "ind", "inir", "indr"},
		{"outi", "outd", "otir", "otdr"},
	}
)

// dispHex renders a signed 8-bit displacement the way Python's "%02x"
// formatting of a (possibly negative) int does: zero-padded magnitude
// when non-negative, a bare minus and unpadded magnitude otherwise.
func dispHex(d int) string {
	if d < 0 {
		return fmt.Sprintf("-%x", -d)
	}
	return fmt.Sprintf("+%02x", d)
}

func signedDisp(b byte) int {
	if b&0x80 != 0 {
		return int(b&0x7f) - 128
	}
	return int(b)
}

// Disassemble decodes one instruction starting at pc, returning its
// mnemonic, operand string, and byte length.
func Disassemble(m Reader, pc uint16) (string, string, int) {
	m0 := m.Read(pc)
	switch m0 {
	case 0xcb:
		return daCB(m, pc+1)
	case 0xdd:
		return daDDFD(m, pc+1, "ix")
	case 0xed:
		return daED(m, pc+1)
	case 0xfd:
		return daDDFD(m, pc+1, "iy")
	default:
		return daNormal(m, pc)
	}
}

func daNormal(m Reader, pc uint16) (string, string, int) {
	m0 := m.Read(pc)
	m1 := m.Read(pc + 1)
	m2 := m.Read(pc + 2)
	f := fields.Decode(m0)
	n := m1
	nn := uint16(m2)<<8 | uint16(m1)
	d := signedDisp(m1)
	dj := uint16(int(pc) + d + 2)

	switch f.X {
	case 0:
		switch f.Z {
		case 0:
			switch {
			case f.Y == 0:
				return "nop", "", 1
			case f.Y == 1:
				return "ex", "af,af'", 1
			case f.Y == 2:
				return "djnz", fmt.Sprintf("%04x", dj), 2
			case f.Y == 3:
				return "jr", fmt.Sprintf("%04x", dj), 2
			default:
				return "jr", fmt.Sprintf("%s,%04x", ccNames[f.Y-4], dj), 2
			}
		case 1:
			if f.Q == 0 {
				return "ld", fmt.Sprintf("%s,%04x", rpNames[f.P], nn), 3
			}
			return "add", fmt.Sprintf("hl,%s", rpNames[f.P]), 1
		case 2:
			if f.Q == 0 {
				switch f.P {
				case 0:
					return "ld", "(bc),a", 1
				case 1:
					return "ld", "(de),a", 1
				case 2:
					return "ld", fmt.Sprintf("(%04x),hl", nn), 3
				default:
					return "ld", fmt.Sprintf("(%04x),a", nn), 3
				}
			}
			switch f.P {
			case 0:
				return "ld", "a,(bc)", 1
			case 1:
				return "ld", "a,(de)", 1
			case 2:
				return "ld", fmt.Sprintf("hl,(%04x)", nn), 3
			default:
				return "ld", fmt.Sprintf("a,(%04x)", nn), 3
			}
		case 3:
			if f.Q == 0 {
				return "inc", rpNames[f.P], 1
			}
			return "dec", rpNames[f.P], 1
		case 4:
			return "inc", regNames[f.Y], 1
		case 5:
			return "dec", regNames[f.Y], 1
		case 6:
			return "ld", fmt.Sprintf("%s,%02x", regNames[f.Y], n), 2
		default:
			return rotaNames[f.Y], "", 1
		}
	case 1:
		if f.Z == 6 && f.Y == 6 {
			return "halt", "", 1
		}
		return "ld", fmt.Sprintf("%s,%s", regNames[f.Y], regNames[f.Z]), 1
	case 2:
		return aluNames[f.Y], fmt.Sprintf("%s%s", aluPrefix[f.Y], regNames[f.Z]), 1
	default:
		switch f.Z {
		case 0:
			return "ret", ccNames[f.Y], 1
		case 1:
			if f.Q == 0 {
				return "pop", rp2Names[f.P], 1
			}
			switch f.P {
			case 0:
				return "ret", "", 1
			case 1:
				return "exx", "", 1
			case 2:
				return "jp", "hl", 1
			default:
				return "ld", "sp,hl", 1
			}
		case 2:
			return "jp", fmt.Sprintf("%s,%04x", ccNames[f.Y], nn), 3
		case 3:
			switch f.Y {
			case 0:
				return "jp", fmt.Sprintf("%04x", nn), 3
			case 2:
				return "out", fmt.Sprintf("(%02x),a", n), 2
			case 3:
				return "in", fmt.Sprintf("a,(%02x)", n), 2
			case 4:
				return "ex", "(sp),hl", 1
			case 5:
				return "ex", "de,hl", 1
			case 6:
				return "di", "", 1
			default:
				return "ei", "", 1
			}
		case 4:
			return "call", fmt.Sprintf("%s,%04x", ccNames[f.Y], nn), 3
		case 5:
			if f.Q == 0 {
				return "push", rp2Names[f.P], 1
			}
			if f.P == 0 {
				return "call", fmt.Sprintf("%04x", nn), 3
			}
			return "nop", "", 1
		case 6:
			return aluNames[f.Y], fmt.Sprintf("%s%02x", aluPrefix[f.Y], n), 2
		default:
			return "rst", fmt.Sprintf("%02x", f.Y<<3), 1
		}
	}
}

func daIndex(m Reader, pc uint16, ir string) (string, string, int) {
	m0 := m.Read(pc)
	m1 := m.Read(pc + 1)
	m2 := m.Read(pc + 2)
	f := fields.Decode(m0)
	n0 := m1
	n1 := m2
	nn := uint16(m2)<<8 | uint16(m1)
	d := signedDisp(m1)
	dj := uint16(int(pc) + d + 2)

	alt0 := regNames
	alt0[6] = fmt.Sprintf("(%s%s)", ir, dispHex(d))
	alt1 := regNames
	alt1[4] = ir + "h"
	alt1[5] = ir + "l"
	altRP := rpNames
	altRP[2] = ir
	altRP2 := rp2Names
	altRP2[2] = ir

	switch f.X {
	case 0:
		switch f.Z {
		case 0:
			switch {
			case f.Y == 0:
				return "nop", "", 2
			case f.Y == 1:
				return "ex", "af,af'", 2
			case f.Y == 2:
				return "djnz", fmt.Sprintf("%04x", dj), 3
			case f.Y == 3:
				return "jr", fmt.Sprintf("%04x", dj), 3
			default:
				return "jr", fmt.Sprintf("%s,%04x", ccNames[f.Y-4], dj), 3
			}
		case 1:
			if f.Q == 0 {
				return "ld", fmt.Sprintf("%s,%04x", altRP[f.P], nn), 4
			}
			return "add", fmt.Sprintf("%s,%s", ir, altRP[f.P]), 2
		case 2:
			if f.Q == 0 {
				switch f.P {
				case 0:
					return "ld", "(bc),a", 2
				case 1:
					return "ld", "(de),a", 2
				case 2:
					return "ld", fmt.Sprintf("(%04x),%s", nn, ir), 4
				default:
					return "ld", fmt.Sprintf("(%04x),a", nn), 4
				}
			}
			switch f.P {
			case 0:
				return "ld", "a,(bc)", 2
			case 1:
				return "ld", "a,(de)", 2
			case 2:
				return "ld", fmt.Sprintf("%s,(%04x)", ir, nn), 4
			default:
				return "ld", fmt.Sprintf("a,(%04x)", nn), 4
			}
		case 3:
			if f.Q == 0 {
				return "inc", altRP[f.P], 2
			}
			return "dec", altRP[f.P], 2
		case 4:
			if f.Y == 6 {
				return "inc", alt0[f.Y], 3
			}
			return "inc", alt1[f.Y], 2
		case 5:
			if f.Y == 6 {
				return "dec", alt0[f.Y], 3
			}
			return "dec", alt1[f.Y], 2
		case 6:
			if f.Y == 6 {
				return "ld", fmt.Sprintf("%s,%02x", alt0[f.Y], n1), 4
			}
			return "ld", fmt.Sprintf("%s,%02x", alt1[f.Y], n0), 3
		default:
			return rotaNames[f.Y], "", 2
		}
	case 1:
		if f.Z == 6 && f.Y == 6 {
			return "halt", "", 2
		}
		if f.Y == 6 || f.Z == 6 {
			return "ld", fmt.Sprintf("%s,%s", alt0[f.Y], alt0[f.Z]), 3
		}
		return "ld", fmt.Sprintf("%s,%s", alt1[f.Y], alt1[f.Z]), 2
	case 2:
		if f.Z == 6 {
			return aluNames[f.Y], fmt.Sprintf("%s%s", aluPrefix[f.Y], alt0[f.Z]), 3
		}
		return aluNames[f.Y], fmt.Sprintf("%s%s", aluPrefix[f.Y], alt1[f.Z]), 2
	default:
		switch f.Z {
		case 0:
			return "ret", ccNames[f.Y], 2
		case 1:
			if f.Q == 0 {
				return "pop", altRP2[f.P], 2
			}
			switch f.P {
			case 0:
				return "ret", "", 2
			case 1:
				return "exx", "", 2
			case 2:
				return "jp", ir, 2
			default:
				return "ld", fmt.Sprintf("sp,%s", ir), 2
			}
		case 2:
			return "jp", fmt.Sprintf("%s,%04x", ccNames[f.Y], nn), 4
		case 3:
			switch f.Y {
			case 0:
				return "jp", fmt.Sprintf("%04x", nn), 4
			case 2:
				return "out", fmt.Sprintf("(%02x),a", n0), 3
			case 3:
				return "in", fmt.Sprintf("a,(%02x)", n0), 3
			case 4:
				return "ex", fmt.Sprintf("(sp),%s", ir), 2
			case 5:
				return "ex", "de,hl", 2
			case 6:
				return "di", "", 2
			default:
				return "ei", "", 2
			}
		case 4:
			return "call", fmt.Sprintf("%s,%04x", ccNames[f.Y], nn), 4
		case 5:
			if f.Q == 0 {
				return "push", altRP2[f.P], 2
			}
			if f.P == 0 {
				return "call", fmt.Sprintf("%04x", nn), 4
			}
			return "nop", "", 2
		case 6:
			return aluNames[f.Y], fmt.Sprintf("%s%02x", aluPrefix[f.Y], n0), 3
		default:
			return "rst", fmt.Sprintf("%02x", f.Y<<3), 2
		}
	}
}

func daCB(m Reader, pc uint16) (string, string, int) {
	m0 := m.Read(pc)
	f := fields.Decode(m0)
	switch f.X {
	case 0:
		return rotNames[f.Y], regNames[f.Z], 2
	case 1:
		return "bit", fmt.Sprintf("%d,%s", f.Y, regNames[f.Z]), 2
	case 2:
		return "res", fmt.Sprintf("%d,%s", f.Y, regNames[f.Z]), 2
	default:
		return "set", fmt.Sprintf("%d,%s", f.Y, regNames[f.Z]), 2
	}
}

func daIndexedCB(m Reader, pc uint16, ir string) (string, string, int) {
	m0 := m.Read(pc)
	m1 := m.Read(pc + 1)
	f := fields.Decode(m1)
	d := signedDisp(m0)
	loc := fmt.Sprintf("(%s%s)", ir, dispHex(d))

	switch f.X {
	case 0:
		if f.Z == 6 {
			return rotNames[f.Y], loc, 4
		}
		return rotNames[f.Y], fmt.Sprintf("%s,%s", loc, regNames[f.Z]), 4
	case 1:
		return "bit", fmt.Sprintf("%d,%s", f.Y, loc), 4
	case 2:
		if f.Z == 6 {
			return "res", fmt.Sprintf("%d,%s", f.Y, loc), 4
		}
		return "res", fmt.Sprintf("%d,%s,%s", f.Y, loc, regNames[f.Z]), 4
	default:
		if f.Z == 6 {
			return "set", fmt.Sprintf("%d,%s", f.Y, loc), 4
		}
		return "set", fmt.Sprintf("%d,%s,%s", f.Y, loc, regNames[f.Z]), 4
	}
}

func daED(m Reader, pc uint16) (string, string, int) {
	m0 := m.Read(pc)
	m1 := m.Read(pc + 1)
	m2 := m.Read(pc + 2)
	f := fields.Decode(m0)
	nn := uint16(m2)<<8 | uint16(m1)

	switch f.X {
	case 1:
		switch f.Z {
		case 0:
			if f.Y == 6 {
				return "in", "(c)", 2
			}
			return "in", fmt.Sprintf("%s,(c)", regNames[f.Y]), 2
		case 1:
			if f.Y == 6 {
				return "out", "(c)", 2
			}
			return "out", fmt.Sprintf("(c),%s", regNames[f.Y]), 2
		case 2:
			if f.Q == 0 {
				return "sbc", fmt.Sprintf("hl,%s", rpNames[f.P]), 2
			}
			return "adc", fmt.Sprintf("hl,%s", rpNames[f.P]), 2
		case 3:
			if f.Q == 0 {
				return "ld", fmt.Sprintf("(%04x),%s", nn, rpNames[f.P]), 4
			}
			return "ld", fmt.Sprintf("%s,(%04x)", rpNames[f.P], nn), 4
		case 4:
			return "neg", "", 2
		case 5:
			if f.Y == 1 {
				return "reti", "", 2
			}
			return "retn", "", 2
		case 6:
			return "im", imNames[f.Y], 2
		default:
			switch f.Y {
			case 0:
				return "ld", "i,a", 2
			case 1:
				return "ld", "r,a", 2
			case 2:
				return "ld", "a,i", 2
			case 3:
				return "ld", "a,r", 2
			case 4:
				return "rrd", "", 2
			case 5:
				return "rld", "", 2
			default:
				return "nop", "", 2
			}
		}
	case 2:
		if f.Z <= 3 && f.Y >= 4 {
			return bliNames[f.Z][f.Y-4], "", 2
		}
	}
	return "nop", "", 2
}

func daDDFD(m Reader, pc uint16, ir string) (string, string, int) {
	m0 := m.Read(pc)
	switch m0 {
	case 0xdd, 0xed, 0xfd:
		return "nop", "", 1
	case 0xcb:
		return daIndexedCB(m, pc+1, ir)
	default:
		return daIndex(m, pc, ir)
	}
}
