package cpu

// This file centralizes the HL/IX/IY substitution so the main decode
// table, written once, can be replayed unprefixed or under a DD/FD
// prefix just by passing a different prefixMode.

// pairGet returns the current "HL-like" 16-bit pair for pm.
func (c *CPU) pairGet(pm prefixMode) uint16 {
	switch pm {
	case prefixIX:
		return c.IX
	case prefixIY:
		return c.IY
	default:
		return c.GetHL()
	}
}

func (c *CPU) pairSet(pm prefixMode, v uint16) {
	switch pm {
	case prefixIX:
		c.IX = v
	case prefixIY:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

func (c *CPU) hGet(pm prefixMode) byte {
	switch pm {
	case prefixIX:
		return byte(c.IX >> 8)
	case prefixIY:
		return byte(c.IY >> 8)
	default:
		return c.H
	}
}

func (c *CPU) hSet(pm prefixMode, v byte) {
	switch pm {
	case prefixIX:
		c.IX = uint16(v)<<8 | c.IX&0xff
	case prefixIY:
		c.IY = uint16(v)<<8 | c.IY&0xff
	default:
		c.H = v
	}
}

func (c *CPU) lGet(pm prefixMode) byte {
	switch pm {
	case prefixIX:
		return byte(c.IX & 0xff)
	case prefixIY:
		return byte(c.IY & 0xff)
	default:
		return c.L
	}
}

func (c *CPU) lSet(pm prefixMode, v byte) {
	switch pm {
	case prefixIX:
		c.IX = c.IX&0xff00 | uint16(v)
	case prefixIY:
		c.IY = c.IY&0xff00 | uint16(v)
	default:
		c.L = v
	}
}

// resetDisp clears the cached (IX+d)/(IY+d) displacement; called once at
// the start of decoding every instruction that may carry one.
func (c *CPU) resetDisp() {
	c.dispValid = false
}

// fetchDisp returns the signed displacement byte for the instruction
// currently being decoded, fetching and caching it the first time it is
// needed so an instruction that touches the effective address twice
// (INC (IX+d), DEC (IX+d)) only consumes the byte once. DDCB
// instructions read their displacement in executeIndexedCB instead.
func (c *CPU) fetchDisp() int {
	if !c.dispValid {
		b := c.fetch8()
		if b&0x80 != 0 {
			c.displacement = int(b&0x7f) - 128
		} else {
			c.displacement = int(b)
		}
		c.dispValid = true
	}
	return c.displacement
}

// effAddr returns the address r[6] resolves to under pm: HL directly, or
// IX/IY plus the instruction's displacement byte.
func (c *CPU) effAddr(pm prefixMode) uint16 {
	if pm == prefixNone {
		return c.GetHL()
	}
	base := c.IX
	if pm == prefixIY {
		base = c.IY
	}
	return uint16(int(base) + c.fetchDisp())
}

// getR8/setR8 read and write the r[] operand selected by a 3-bit field:
// b, c, d, e, h, l, (hl), a. Under a DD/FD prefix, h/l and (hl) resolve
// to ixh/ixl/(ix+d) or iyh/iyl/(iy+d).
func (c *CPU) getR8(idx byte, pm prefixMode) byte {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.hGet(pm)
	case 5:
		return c.lGet(pm)
	case 6:
		return c.Mem.Read(c.effAddr(pm))
	default:
		return c.A
	}
}

func (c *CPU) setR8(idx byte, pm prefixMode, v byte) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.hSet(pm, v)
	case 5:
		c.lSet(pm, v)
	case 6:
		c.Mem.Write(c.effAddr(pm), v)
	default:
		c.A = v
	}
}

// r8Cost returns baseReg for any index other than 6, baseHL for (hl)
// under no prefix, and baseIndexed for (ix+d)/(iy+d).
func r8Cost(idx byte, pm prefixMode, baseReg, baseHL, baseIndexed int) int {
	if idx != 6 {
		return baseReg
	}
	if pm == prefixNone {
		return baseHL
	}
	return baseIndexed
}

// rpName table index helpers: the four register-pair groups addressed by
// the p field differ between the SP-table (BC,DE,HL,SP) and the AF-table
// (BC,DE,HL,AF) used by PUSH/POP.

func (c *CPU) getRP(p byte, pm prefixMode) uint16 {
	switch p {
	case 0:
		return c.GetBC()
	case 1:
		return c.GetDE()
	case 2:
		return c.pairGet(pm)
	default:
		return c.SP
	}
}

func (c *CPU) setRP(p byte, pm prefixMode, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.pairSet(pm, v)
	default:
		c.SP = v
	}
}

func (c *CPU) getRP2(p byte, pm prefixMode) uint16 {
	switch p {
	case 0:
		return c.GetBC()
	case 1:
		return c.GetDE()
	case 2:
		return c.pairGet(pm)
	default:
		return c.GetAF()
	}
}

func (c *CPU) setRP2(p byte, pm prefixMode, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.pairSet(pm, v)
	default:
		c.SetAF(v)
	}
}

// condition evaluates one of the eight cc codes against F.
func (c *CPU) condition(y byte) bool {
	switch y {
	case 0:
		return c.F&FlagZ == 0
	case 1:
		return c.F&FlagZ != 0
	case 2:
		return c.F&FlagC == 0
	case 3:
		return c.F&FlagC != 0
	case 4:
		return c.F&FlagP == 0
	case 5:
		return c.F&FlagP != 0
	case 6:
		return c.F&FlagS == 0
	default:
		return c.F&FlagS != 0
	}
}
