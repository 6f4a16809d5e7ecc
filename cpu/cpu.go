// Package cpu implements the Zilog Z80 microprocessor: an 8-bit,
// cycle-counting, flag-accurate interpreter covering the documented
// opcode set plus the small set of undocumented encodings vintage 8-bit
// platforms (Jupiter ACE, TEC-1) are known to rely on.
package cpu

import (
	"z80core/mem"
)

// Flag bit positions within the F register.
//
//	bit  7   6   5   4   3   2   1   0
//	     S   Z   Y   H   X   P/V N   C
const (
	FlagC byte = 0x01 // carry
	FlagN byte = 0x02 // subtract
	FlagP byte = 0x04 // parity/overflow
	FlagV byte = FlagP
	FlagX byte = 0x08 // undocumented, copy of result bit 3
	FlagH byte = 0x10 // half carry
	FlagY byte = 0x20 // undocumented, copy of result bit 5
	FlagZ byte = 0x40 // zero
	FlagS byte = 0x80 // sign
)

// prefixMode selects the HL/IX/IY substitution active for the opcode
// currently being decoded. The main decode table is written once and
// parameterized over this so DD and FD never duplicate it.
type prefixMode int

const (
	prefixNone prefixMode = iota
	prefixIX
	prefixIY
)

// CPU holds the full Z80 architectural state plus the address map and
// I/O bus it executes against. It has no memory of its own beyond these
// registers; every byte of code and data is reached through Mem.
type CPU struct {
	Mem *mem.AddrMap
	IO  *mem.IOBus

	A, F byte
	B, C byte
	D, E byte
	H, L byte

	// Shadow register set, swapped in wholesale by EX AF,AF' and EXX.
	AFshadow uint16
	BCshadow uint16
	DEshadow uint16
	HLshadow uint16

	IX, IY uint16
	SP, PC uint16

	I byte // interrupt vector base
	R byte // refresh counter, bit 7 preserved across increments

	IM         byte // interrupt mode, 0/1/2
	IFF1, IFF2 bool
	Halted     bool

	// displacement is the signed offset fetched once per instruction for
	// (IX+d)/(IY+d) addressing; fetchDisp caches it so repeated
	// accesses to the effective address within one instruction (as in
	// INC (IX+d)) don't re-read memory.
	displacement int
	dispValid    bool

	flags *flagTables
}

// New constructs a CPU wired to mem and io, already reset.
func New(m *mem.AddrMap, io *mem.IOBus) *CPU {
	c := &CPU{Mem: m, IO: io, flags: tables}
	c.Reset()
	return c
}

// Reset reinitializes architectural state per the Z80 power-on/reset
// convention: primary registers and shadow set go to all-ones, SP/IX/IY
// go to 0xffff, and everything else (I, R, IM, IFF1/2, halt, PC) goes to
// zero.
func (c *CPU) Reset() {
	c.A, c.F = 0xff, 0xff
	c.B, c.C = 0xff, 0xff
	c.D, c.E = 0xff, 0xff
	c.H, c.L = 0xff, 0xff
	c.AFshadow = 0xffff
	c.BCshadow = 0xffff
	c.DEshadow = 0xffff
	c.HLshadow = 0xffff
	c.SP = 0xffff
	c.IX = 0xffff
	c.IY = 0xffff
	c.I = 0
	c.R = 0
	c.IM = 0
	c.IFF1 = false
	c.IFF2 = false
	c.Halted = false
	c.PC = 0
}

// --- 16-bit register pair pack/unpack -------------------------------------

func (c *CPU) GetAF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) SetAF(v uint16) {
	c.A = byte(v >> 8)
	c.F = byte(v)
}

func (c *CPU) GetBC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) SetBC(v uint16) {
	c.B = byte(v >> 8)
	c.C = byte(v)
}

func (c *CPU) GetDE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) SetDE(v uint16) {
	c.D = byte(v >> 8)
	c.E = byte(v)
}

func (c *CPU) GetHL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) SetHL(v uint16) {
	c.H = byte(v >> 8)
	c.L = byte(v)
}

func (c *CPU) GetIX() uint16  { return c.IX }
func (c *CPU) SetIX(v uint16) { c.IX = v }
func (c *CPU) GetIY() uint16  { return c.IY }
func (c *CPU) SetIY(v uint16) { c.IY = v }
func (c *CPU) GetSP() uint16  { return c.SP }
func (c *CPU) SetSP(v uint16) { c.SP = v }
func (c *CPU) GetPC() uint16  { return c.PC }
func (c *CPU) SetPC(v uint16) { c.PC = v }
func (c *CPU) GetI() byte     { return c.I }
func (c *CPU) SetI(v byte)    { c.I = v }
func (c *CPU) GetR() byte     { return c.R }
func (c *CPU) SetR(v byte)    { c.R = v }

// --- memory/stack helpers --------------------------------------------------

func (c *CPU) readByte(addr uint16) byte     { return c.Mem.Read(addr) }
func (c *CPU) writeByte(addr uint16, v byte) { c.Mem.Write(addr, v) }

func (c *CPU) readWord(addr uint16) uint16 {
	lo := c.Mem.Read(addr)
	hi := c.Mem.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) writeWord(addr uint16, v uint16) {
	c.Mem.Write(addr, byte(v))
	c.Mem.Write(addr+1, byte(v>>8))
}

// fetch8 reads the byte at PC and advances PC.
func (c *CPU) fetch8() byte {
	b := c.Mem.Read(c.PC)
	c.PC++
	return b
}

// fetch16 reads the little-endian word at PC and advances PC by two.
func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

// push stores a 16-bit value on the stack, high byte first, per spec:
// (SP-1) <- high, (SP-2) <- low, SP <- SP-2.
func (c *CPU) push(v uint16) {
	c.SP--
	c.Mem.Write(c.SP, byte(v>>8))
	c.SP--
	c.Mem.Write(c.SP, byte(v))
}

// pop is the inverse of push.
func (c *CPU) pop() uint16 {
	lo := c.Mem.Read(c.SP)
	c.SP++
	hi := c.Mem.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// bumpR increments the refresh counter by one, preserving bit 7.
func (c *CPU) bumpR() {
	c.R = (c.R+1)&0x7f | (c.R & 0x80)
}
