package cpu

import "z80core/internal/fields"

// imTable maps the y field of ED 46/4e/56/5e/66/6e/76/7e to the
// interrupt mode it selects; y values 0,1,4,5 all alias mode 0.
var imTable = [8]byte{0, 0, 1, 2, 0, 0, 1, 2}

// executeED decodes an ED-prefixed instruction. startPC is the address
// of the ED byte itself, used to tag InvalidOpcodeError for the block
// I/O group this core does not implement.
func (c *CPU) executeED(startPC uint16) (int, error) {
	code := c.fetch8()
	f := fields.Decode(code)

	switch f.X {
	case 1:
		return c.executeEDx1(f)
	case 2:
		if f.Y >= 4 && f.Z <= 3 {
			return c.executeBlock(f, startPC)
		}
		return 8, nil
	default:
		// Unused ED encoding: behaves as a two-byte NOP.
		return 8, nil
	}
}

func (c *CPU) executeEDx1(f fields.Opcode) (int, error) {
	switch f.Z {
	case 0: // IN r[y],(C)
		val := c.IO.Read(c.GetBC())
		c.F = c.flags.szp[val] | c.F&FlagC
		if f.Y != 6 {
			c.setR8(f.Y, prefixNone, val)
		}
		return 12, nil
	case 1: // OUT (C),r[y]
		var val byte
		if f.Y != 6 {
			val = c.getR8(f.Y, prefixNone)
		}
		c.IO.Write(c.GetBC(), val)
		return 12, nil
	case 2:
		d := int(c.GetHL())
		s := int(c.getRP(f.P, prefixNone))
		cf := int(c.F & FlagC)
		if f.Q == 0 { // SBC HL,rp
			res := d - s - cf
			c.sub16Flags(res, d, s)
			c.SetHL(uint16(res))
		} else { // ADC HL,rp
			res := d + s + cf
			c.adc16Flags(res, d, s)
			c.SetHL(uint16(res))
		}
		return 15, nil
	case 3:
		nn := c.fetch16()
		if f.Q == 0 { // LD (nn),rp
			c.writeWord(nn, c.getRP(f.P, prefixNone))
		} else { // LD rp,(nn)
			c.setRP(f.P, prefixNone, c.readWord(nn))
		}
		return 20, nil
	case 4: // NEG
		val := c.A
		res := 0 - int(val)
		c.subFlags(res, val)
		c.A = byte(res)
		return 8, nil
	case 5: // RETN / RETI
		c.PC = c.pop()
		c.IFF1 = c.IFF2
		return 14, nil
	case 6: // IM
		c.IM = imTable[f.Y]
		return 8, nil
	default: // z==7
		switch f.Y {
		case 0: // LD I,A
			c.I = c.A
			return 9, nil
		case 1: // LD R,A
			c.R = c.A
			return 9, nil
		case 2: // LD A,I
			c.A = c.I
			c.ldAIRFlags()
			return 9, nil
		case 3: // LD A,R
			c.A = c.R
			c.ldAIRFlags()
			return 9, nil
		case 4: // RRD
			c.rrd()
			return 18, nil
		case 5: // RLD
			c.rld()
			return 18, nil
		default: // undocumented NOP forms
			return 8, nil
		}
	}
}

// ldAIRFlags implements LD A,I and LD A,R: F <- (F & C) | f_sz[A] |
// (IFF2 << 2), placing IFF2 in the P/V bit position.
func (c *CPU) ldAIRFlags() {
	iff2 := byte(0)
	if c.IFF2 {
		iff2 = 1
	}
	c.F = c.F&FlagC | c.flags.sz[c.A] | iff2<<2
}

func (c *CPU) rrd() {
	addr := c.GetHL()
	m := c.Mem.Read(addr)
	newM := (m>>4)&0x0f | (c.A<<4)&0xf0
	newA := c.A&0xf0 | m&0x0f
	c.Mem.Write(addr, newM)
	c.A = newA
	c.F = c.flags.szp[c.A] | c.F&FlagC
}

func (c *CPU) rld() {
	addr := c.GetHL()
	m := c.Mem.Read(addr)
	newM := (m<<4)&0xf0 | c.A&0x0f
	newA := c.A&0xf0 | (m>>4)&0x0f
	c.Mem.Write(addr, newM)
	c.A = newA
	c.F = c.flags.szp[c.A] | c.F&FlagC
}

// executeBlock implements the LDI/LDD/LDIR/LDDR and CPI/CPD/CPIR/CPDR
// groups. The I/O block group (INI/IND/INIR/INDR/OUTI/OUTD/OTIR/OTDR),
// encoded at z==2 and z==3 here, is intentionally not implemented,
// matching the generator this core's flag tables and ALU were ported
// from, which raises on exactly this set.
func (c *CPU) executeBlock(f fields.Opcode, startPC uint16) (int, error) {
	dir := int16(1)
	if f.Y == 5 || f.Y == 7 {
		dir = -1
	}
	repeat := f.Y == 6 || f.Y == 7

	switch f.Z {
	case 0: // LDI/LDD/LDIR/LDDR
		val := c.Mem.Read(c.GetHL())
		c.Mem.Write(c.GetDE(), val)
		c.SetHL(uint16(int16(c.GetHL()) + dir))
		c.SetDE(uint16(int16(c.GetDE()) + dir))
		bc := c.GetBC() - 1
		c.SetBC(bc)
		n := val + c.A
		c.F = c.F&(FlagS|FlagZ|FlagC) | n&FlagX | (n>>1)&0x01<<5
		if bc != 0 {
			c.F |= FlagP
		}
		if repeat && bc != 0 {
			c.PC = startPC
			return 21, nil
		}
		return 16, nil
	case 1: // CPI/CPD/CPIR/CPDR
		val := c.Mem.Read(c.GetHL())
		res := int(c.A) - int(val)
		c.SetHL(uint16(int16(c.GetHL()) + dir))
		bc := c.GetBC() - 1
		c.SetBC(bc)

		resByte := byte(res)
		h := byte(0)
		if int(c.A)&0x0f-int(val)&0x0f < 0 {
			h = 1
		}
		n := resByte - h
		c.F = c.F&FlagC | FlagN
		if h == 1 {
			c.F |= FlagH
		}
		c.F |= resByte & FlagS
		if resByte == 0 {
			c.F |= FlagZ
		}
		c.F |= n & FlagX
		c.F |= (n >> 1) & 0x01 << 5
		if bc != 0 {
			c.F |= FlagP
		}
		if repeat && bc != 0 && resByte != 0 {
			c.PC = startPC
			return 21, nil
		}
		return 16, nil
	default:
		return 0, &InvalidOpcodeError{PC: startPC, Bytes: []byte{0xed, 0xa0 | f.Y<<3 | f.Z}}
	}
}
