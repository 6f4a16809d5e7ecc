package cpu

import "z80core/internal/fields"

// rotateOp implements the eight CB-prefix rotate/shift operations keyed by
// the y field: rlc, rrc, rl, rr, sla, sra, sll (undocumented, shift left
// setting bit 0), srl. It sets S/Z/P from the result and C from the bit
// shifted out, clearing N and H, matching the original source's
// emit_rot_r_x.
func (c *CPU) rotateOp(y byte, val byte) byte {
	var res, cf byte
	switch y {
	case 0: // RLC
		if val&0x80 != 0 {
			cf = FlagC
		}
		res = val<<1 | val>>7
	case 1: // RRC
		if val&0x01 != 0 {
			cf = FlagC
		}
		res = val>>1 | val<<7
	case 2: // RL
		if val&0x80 != 0 {
			cf = FlagC
		}
		res = val<<1 | (c.F & FlagC)
	case 3: // RR
		if val&0x01 != 0 {
			cf = FlagC
		}
		res = val>>1 | (c.F&FlagC)<<7
	case 4: // SLA
		if val&0x80 != 0 {
			cf = FlagC
		}
		res = val << 1
	case 5: // SRA
		if val&0x01 != 0 {
			cf = FlagC
		}
		res = (val >> 1) | (val & 0x80)
	case 6: // SLL, undocumented
		if val&0x80 != 0 {
			cf = FlagC
		}
		res = (val << 1) | 0x01
	case 7: // SRL
		if val&0x01 != 0 {
			cf = FlagC
		}
		res = val >> 1
	}
	c.F = c.flags.szp[res] | cf
	return res
}

// bitOp tests bit y of val: Z <- NOT val[y], H <- 1, N <- 0, C preserved.
// S is set only when y==7 and the tested bit is set; P/V mirrors Z.
func (c *CPU) bitOp(y byte, val byte) {
	bit := val & (1 << y)
	c.F = (c.F & FlagC) | FlagH
	if bit == 0 {
		c.F |= FlagZ | FlagP
	}
	if y == 7 && val&0x80 != 0 {
		c.F |= FlagS
	}
}

// executeCB runs a plain (unprefixed) 0xCB <op> instruction: x selects
// rotate/bit/res/set, y is the bit number or rotate kind, z selects the
// register/(HL) operand via the same r[] indexing the main table uses.
func (c *CPU) executeCB() (int, error) {
	code := c.fetch8()
	f := fields.Decode(code)

	val := c.getR8(f.Z, prefixNone)
	var cost int
	switch f.X {
	case 0: // rotate/shift
		res := c.rotateOp(f.Y, val)
		c.setR8(f.Z, prefixNone, res)
		cost = regOrMem(f.Z, 4, 11)
	case 1: // BIT
		c.bitOp(f.Y, val)
		cost = regOrMem(f.Z, 4, 8)
	case 2: // RES
		res := val &^ (1 << f.Y)
		c.setR8(f.Z, prefixNone, res)
		cost = regOrMem(f.Z, 4, 11)
	default: // SET
		res := val | (1 << f.Y)
		c.setR8(f.Z, prefixNone, res)
		cost = regOrMem(f.Z, 4, 11)
	}
	return cost + 4, nil
}

func regOrMem(z byte, regCost, memCost int) int {
	if z == 6 {
		return memCost
	}
	return regCost
}

// executeIndexedCB runs a 0xDD/0xFD 0xCB <d> <op> instruction: the
// operand is always (IX+d)/(IY+d); when z != 6 the result is additionally
// stored into r[z], per the undocumented "also target a register"
// encoding spec §4.3 describes.
func (c *CPU) executeIndexedCB(pm prefixMode) int {
	d := fields.Signed8(c.fetch8())
	code := c.fetch8()
	f := fields.Decode(code)

	base := c.IX
	if pm == prefixIY {
		base = c.IY
	}
	addr := uint16(int(base) + d)
	val := c.Mem.Read(addr)

	var res byte
	var opCost int
	switch f.X {
	case 0:
		res = c.rotateOp(f.Y, val)
		c.Mem.Write(addr, res)
		opCost = 11
	case 1:
		c.bitOp(f.Y, val)
		return 8 + 8
	case 2:
		res = val &^ (1 << f.Y)
		c.Mem.Write(addr, res)
		opCost = 11
	default:
		res = val | (1 << f.Y)
		c.Mem.Write(addr, res)
		opCost = 11
	}
	if f.Z != 6 {
		c.setR8(f.Z, prefixNone, res)
	}
	return 8 + opCost
}
