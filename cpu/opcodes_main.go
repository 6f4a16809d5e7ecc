package cpu

import "z80core/internal/fields"

// executeMain decodes and runs one unprefixed (or DD/FD-substituted)
// opcode byte already consumed from the instruction stream. It is the
// single decode table spec's design notes ask for: x==0 is the
// load/jump/misc group, x==1 is 8-bit LD r,r', x==2 is the 8-bit ALU
// group, x==3 is stack/branch/I/O/RST.
func (c *CPU) executeMain(opcode byte, pm prefixMode) (int, error) {
	f := fields.Decode(opcode)
	switch f.X {
	case 0:
		return c.executeX0(f, pm)
	case 1:
		return c.executeX1(f, pm)
	case 2:
		val := c.getR8(f.Z, pm)
		c.aluOp(f.Y, val)
		return r8Cost(f.Z, pm, 4, 7, 15), nil
	default:
		return c.executeX3(f, pm)
	}
}

func (c *CPU) executeX0(f fields.Opcode, pm prefixMode) (int, error) {
	switch f.Z {
	case 0:
		switch {
		case f.Y == 0: // NOP
			return 4, nil
		case f.Y == 1: // EX AF,AF'
			af := c.GetAF()
			c.SetAF(c.AFshadow)
			c.AFshadow = af
			return 4, nil
		case f.Y == 2: // DJNZ d
			d := fields.Signed8(c.fetch8())
			c.B--
			if c.B != 0 {
				c.PC = uint16(int(c.PC) + d)
				return 13, nil
			}
			return 8, nil
		case f.Y == 3: // JR d
			d := fields.Signed8(c.fetch8())
			c.PC = uint16(int(c.PC) + d)
			return 12, nil
		default: // JR cc,d  (y-4 in nz,z,nc,c)
			d := fields.Signed8(c.fetch8())
			if c.condition(f.Y - 4) {
				c.PC = uint16(int(c.PC) + d)
				return 12, nil
			}
			return 7, nil
		}
	case 1:
		if f.Q == 0 { // LD rp[p],nn
			nn := c.fetch16()
			c.setRP(f.P, pm, nn)
			return 10, nil
		}
		// ADD HL,rp[p]
		d := int(c.pairGet(pm))
		s := int(c.getRP(f.P, pm))
		res := d + s
		c.add16Flags(res, d, s)
		c.pairSet(pm, uint16(res))
		return 11, nil
	case 2:
		return c.execIndirectLoad(f, pm)
	case 3:
		v := c.getRP(f.P, pm)
		if f.Q == 0 {
			c.setRP(f.P, pm, v+1)
		} else {
			c.setRP(f.P, pm, v-1)
		}
		return 6, nil
	case 4:
		return c.incR(f.Y, pm), nil
	case 5:
		return c.decR(f.Y, pm), nil
	case 6:
		return c.ldRN(f.Y, pm), nil
	default: // z==7, accumulator/flag group
		switch f.Y {
		case 0:
			c.rlca()
		case 1:
			c.rrca()
		case 2:
			c.rla()
		case 3:
			c.rra()
		case 4:
			c.daa()
		case 5:
			c.cpl()
		case 6:
			c.scf()
		default:
			c.ccf()
		}
		return 4, nil
	}
}

func (c *CPU) execIndirectLoad(f fields.Opcode, pm prefixMode) (int, error) {
	if f.Q == 0 {
		switch f.P {
		case 0:
			c.Mem.Write(c.GetBC(), c.A)
			return 7, nil
		case 1:
			c.Mem.Write(c.GetDE(), c.A)
			return 7, nil
		case 2:
			nn := c.fetch16()
			c.writeWord(nn, c.pairGet(pm))
			return 16, nil
		default:
			nn := c.fetch16()
			c.Mem.Write(nn, c.A)
			return 13, nil
		}
	}
	switch f.P {
	case 0:
		c.A = c.Mem.Read(c.GetBC())
		return 7, nil
	case 1:
		c.A = c.Mem.Read(c.GetDE())
		return 7, nil
	case 2:
		nn := c.fetch16()
		c.pairSet(pm, c.readWord(nn))
		return 16, nil
	default:
		nn := c.fetch16()
		c.A = c.Mem.Read(nn)
		return 13, nil
	}
}

func (c *CPU) incR(y byte, pm prefixMode) int {
	val := c.getR8(y, pm)
	res := val + 1
	c.setR8(y, pm, res)
	c.F = c.flags.szhvInc[res] | c.F&FlagC
	return r8Cost(y, pm, 4, 11, 19)
}

func (c *CPU) decR(y byte, pm prefixMode) int {
	val := c.getR8(y, pm)
	res := val - 1
	c.setR8(y, pm, res)
	c.F = c.flags.szhvDec[res] | c.F&FlagC
	return r8Cost(y, pm, 4, 11, 19)
}

// ldRN implements LD r[y],n. When y==6 under a DD/FD prefix the
// displacement byte precedes the immediate byte in the instruction
// stream, so it must be fetched first.
func (c *CPU) ldRN(y byte, pm prefixMode) int {
	if y == 6 && pm != prefixNone {
		c.fetchDisp()
	}
	n := c.fetch8()
	c.setR8(y, pm, n)
	return r8Cost(y, pm, 7, 10, 15)
}

func (c *CPU) executeX1(f fields.Opcode, pm prefixMode) (int, error) {
	if f.Y == 6 && f.Z == 6 {
		c.Halted = true
		c.PC--
		return 4, nil
	}
	// When one operand is (IX+d)/(IY+d), the other is the plain
	// register: h/l stay h/l rather than becoming ixh/ixl.
	src, dst := pm, pm
	if f.Y == 6 {
		src = prefixNone
	}
	if f.Z == 6 {
		dst = prefixNone
	}
	val := c.getR8(f.Z, src)
	c.setR8(f.Y, dst, val)
	if f.Y != 6 && f.Z != 6 {
		return 4, nil
	}
	if pm == prefixNone {
		return 7, nil
	}
	return 15, nil
}

func (c *CPU) executeX3(f fields.Opcode, pm prefixMode) (int, error) {
	switch f.Z {
	case 0: // RET cc
		if c.condition(f.Y) {
			c.PC = c.pop()
			return 11, nil
		}
		return 5, nil
	case 1:
		if f.Q == 0 { // POP rp2[p]
			c.setRP2(f.P, pm, c.pop())
			return 10, nil
		}
		switch f.P {
		case 0: // RET
			c.PC = c.pop()
			return 10, nil
		case 1: // EXX
			bc, de, hl := c.GetBC(), c.GetDE(), c.GetHL()
			c.SetBC(c.BCshadow)
			c.SetDE(c.DEshadow)
			c.SetHL(c.HLshadow)
			c.BCshadow, c.DEshadow, c.HLshadow = bc, de, hl
			return 4, nil
		case 2: // JP (HL)/(IX)/(IY)
			c.PC = c.pairGet(pm)
			return 4, nil
		default: // LD SP,HL/IX/IY
			c.SP = c.pairGet(pm)
			return 6, nil
		}
	case 2: // JP cc,nn
		nn := c.fetch16()
		if c.condition(f.Y) {
			c.PC = nn
		}
		return 10, nil
	case 3:
		switch f.Y {
		case 0: // JP nn
			c.PC = c.fetch16()
			return 10, nil
		case 2: // OUT (n),A -- port = (A << 8) | n
			n := c.fetch8()
			c.IO.Write(uint16(c.A)<<8|uint16(n), c.A)
			return 11, nil
		case 3: // IN A,(n) -- port = (A << 8) | n
			n := c.fetch8()
			c.A = c.IO.Read(uint16(c.A)<<8 | uint16(n))
			return 11, nil
		case 4: // EX (SP),HL/IX/IY
			v := c.readWord(c.SP)
			c.writeWord(c.SP, c.pairGet(pm))
			c.pairSet(pm, v)
			return 19, nil
		case 5: // EX DE,HL -- always the plain pair, unaffected by DD/FD
			de := c.GetDE()
			c.SetDE(c.GetHL())
			c.SetHL(de)
			return 4, nil
		case 6: // DI
			c.IFF1, c.IFF2 = false, false
			return 4, nil
		default: // EI
			c.IFF1, c.IFF2 = true, true
			return 4, nil
		}
	case 4: // CALL cc,nn
		nn := c.fetch16()
		if c.condition(f.Y) {
			c.push(c.PC)
			c.PC = nn
			return 17, nil
		}
		return 10, nil
	case 5:
		if f.Q == 0 { // PUSH rp2[p]
			c.push(c.getRP2(f.P, pm))
			return 11, nil
		}
		// p==0: CALL nn; p==1,2,3 are the DD/ED/FD prefixes, already
		// peeled off before executeMain is ever reached with this x/z.
		nn := c.fetch16()
		c.push(c.PC)
		c.PC = nn
		return 17, nil
	case 6: // ALU A,n
		n := c.fetch8()
		c.aluOp(f.Y, n)
		return 7, nil
	default: // RST y*8
		c.push(c.PC)
		c.PC = uint16(f.Y) * 8
		return 11, nil
	}
}

// aluOp applies one of the eight 8-bit ALU operations to A with val:
// add, adc, sub, sbc, and, xor, or, cp.
func (c *CPU) aluOp(y byte, val byte) {
	switch y {
	case 0:
		res := int(c.A) + int(val)
		c.addFlags(res, val)
		c.A = byte(res)
	case 1:
		res := int(c.A) + int(val) + int(c.F&FlagC)
		c.addFlags(res, val)
		c.A = byte(res)
	case 2:
		res := int(c.A) - int(val)
		c.subFlags(res, val)
		c.A = byte(res)
	case 3:
		res := int(c.A) - int(val) - int(c.F&FlagC)
		c.subFlags(res, val)
		c.A = byte(res)
	case 4:
		c.A &= val
		c.F = c.flags.szp[c.A] | FlagH
	case 5:
		c.A ^= val
		c.F = c.flags.szp[c.A]
	case 6:
		c.A |= val
		c.F = c.flags.szp[c.A]
	default: // CP, result discarded
		res := int(c.A) - int(val)
		c.subFlags(res, val)
	}
}

func (c *CPU) rlca() {
	cf := c.A >> 7
	c.A = c.A<<1 | cf
	c.F = c.F&(FlagS|FlagZ|FlagP) | c.A&(FlagY|FlagX) | cf
}

func (c *CPU) rrca() {
	cf := c.A & 0x01
	c.A = c.A>>1 | cf<<7
	c.F = c.F&(FlagS|FlagZ|FlagP) | c.A&(FlagY|FlagX) | cf
}

func (c *CPU) rla() {
	cf := c.A >> 7
	c.A = c.A<<1 | c.F&FlagC
	c.F = c.F&(FlagS|FlagZ|FlagP) | c.A&(FlagY|FlagX) | cf
}

func (c *CPU) rra() {
	cf := c.A & 0x01
	c.A = c.A>>1 | (c.F&FlagC)<<7
	c.F = c.F&(FlagS|FlagZ|FlagP) | c.A&(FlagY|FlagX) | cf
}

// daa applies the BCD correction table following an add or subtract: the
// correction digit is chosen from a 4-way split on (cf, lo>=10, hi<=8 or
// >=10, hf) rather than threading the pre-op flags straight through, and
// the post-op C/H are recomputed from the pre-op nibble values, not
// carried over from the addition/subtraction itself.
func (c *CPU) daa() {
	cf := c.F&FlagC != 0
	nf := c.F&FlagN != 0
	hf := c.F&FlagH != 0
	lo := c.A & 0x0f
	hi := c.A >> 4

	var diff byte
	switch {
	case cf:
		if lo <= 9 && !hf {
			diff = 0x60
		} else {
			diff = 0x66
		}
	case lo >= 10:
		if hi <= 8 {
			diff = 0x06
		} else {
			diff = 0x66
		}
	case hi >= 10:
		if hf {
			diff = 0x66
		} else {
			diff = 0x60
		}
	default:
		if hf {
			diff = 0x06
		} else {
			diff = 0x00
		}
	}

	if nf {
		c.A -= diff
	} else {
		c.A += diff
	}

	c.F = c.flags.szp[c.A] | c.F&FlagN
	if cf {
		c.F |= FlagC
	}
	if lo <= 9 && hi >= 10 {
		c.F |= FlagC
	}
	if lo > 9 && hi >= 9 {
		c.F |= FlagC
	}
	if nf && hf && lo <= 5 {
		c.F |= FlagH
	}
	if !nf && lo >= 10 {
		c.F |= FlagH
	}
}

func (c *CPU) cpl() {
	c.A = ^c.A
	c.F = c.F&(FlagS|FlagZ|FlagP|FlagC) | FlagH | FlagN | c.A&(FlagY|FlagX)
}

func (c *CPU) scf() {
	c.F = c.F&(FlagS|FlagZ|FlagP) | FlagC | c.A&(FlagY|FlagX)
}

func (c *CPU) ccf() {
	oldC := c.F & FlagC
	c.F = c.F&(FlagS|FlagZ|FlagP) | c.A&(FlagY|FlagX) | oldC<<4
	if oldC == 0 {
		c.F |= FlagC
	}
}
