package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"z80core/mem"
)

func newTestCPU() *CPU {
	m := mem.NewAddrMap()
	ram := mem.NewRAM(16)
	m.Bind(0, 32, ram)
	return New(m, mem.NewIOBus())
}

func TestReset(t *testing.T) {
	c := newTestCPU()
	assert.Equal(t, byte(0xff), c.A)
	assert.Equal(t, byte(0xff), c.F)
	assert.Equal(t, uint16(0xffff), c.SP)
	assert.Equal(t, uint16(0xffff), c.IX)
	assert.Equal(t, uint16(0xffff), c.IY)
	assert.Equal(t, uint16(0xffff), c.AFshadow)
	assert.Equal(t, byte(0), c.I)
	assert.Equal(t, byte(0), c.R)
	assert.Equal(t, byte(0), c.IM)
	assert.False(t, c.IFF1)
	assert.False(t, c.IFF2)
	assert.False(t, c.Halted)
	assert.Equal(t, uint16(0), c.PC)
}

func TestRegisterPairRoundTrip(t *testing.T) {
	c := newTestCPU()
	for _, pair := range []struct {
		set func(uint16)
		get func() uint16
	}{
		{c.SetAF, c.GetAF},
		{c.SetBC, c.GetBC},
		{c.SetDE, c.GetDE},
		{c.SetHL, c.GetHL},
	} {
		pair.set(0x1234)
		assert.Equal(t, uint16(0x1234), pair.get())
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU()
	c.SP = 0x8000
	c.push(0xbeef)
	assert.Equal(t, uint16(0x7ffe), c.SP)
	assert.Equal(t, uint16(0xbeef), c.pop())
	assert.Equal(t, uint16(0x8000), c.SP)
}

func TestExAFAF(t *testing.T) {
	c := newTestCPU()
	c.SetAF(0x1122)
	c.AFshadow = 0x3344
	c.executeMain(0x08, prefixNone) // EX AF,AF'
	assert.Equal(t, uint16(0x3344), c.GetAF())
	c.executeMain(0x08, prefixNone)
	assert.Equal(t, uint16(0x1122), c.GetAF())
}

func TestEXX(t *testing.T) {
	c := newTestCPU()
	c.SetBC(1)
	c.SetDE(2)
	c.SetHL(3)
	c.BCshadow, c.DEshadow, c.HLshadow = 0x10, 0x20, 0x30
	cost, err := c.executeMain(0xd9, prefixNone)
	assert.NoError(t, err)
	assert.Equal(t, 4, cost)
	assert.Equal(t, uint16(0x10), c.GetBC())
	assert.Equal(t, uint16(0x20), c.GetDE())
	assert.Equal(t, uint16(0x30), c.GetHL())

	c.executeMain(0xd9, prefixNone)
	assert.Equal(t, uint16(1), c.GetBC())
	assert.Equal(t, uint16(2), c.GetDE())
	assert.Equal(t, uint16(3), c.GetHL())
}

func TestExDEHLIgnoresPrefix(t *testing.T) {
	c := newTestCPU()
	c.SetDE(0x1111)
	c.SetHL(0x2222)
	c.IX = 0x3333
	_, err := c.executeMain(0xeb, prefixIX) // EX DE,HL
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x2222), c.GetDE())
	assert.Equal(t, uint16(0x1111), c.GetHL())
	assert.Equal(t, uint16(0x3333), c.IX) // untouched
}

func TestAddSubFlags(t *testing.T) {
	c := newTestCPU()
	c.A = 0x0f
	c.aluOp(0, 0x01) // ADD A,01 -> half carry
	assert.Equal(t, byte(0x10), c.A)
	assert.NotZero(t, c.F&FlagH)
	assert.Zero(t, c.F&FlagC)

	c.A = 0xff
	c.aluOp(0, 0x01) // ADD A,01 -> zero, carry, half carry
	assert.Equal(t, byte(0x00), c.A)
	assert.NotZero(t, c.F&FlagZ)
	assert.NotZero(t, c.F&FlagC)
	assert.NotZero(t, c.F&FlagH)
}

func TestSubCPPreservesA(t *testing.T) {
	c := newTestCPU()
	c.A = 0x10
	c.aluOp(7, 0x10) // CP 10 -> equal
	assert.Equal(t, byte(0x10), c.A)
	assert.NotZero(t, c.F&FlagZ)
	assert.NotZero(t, c.F&FlagN)
}

func TestAndOrXor(t *testing.T) {
	c := newTestCPU()
	c.A = 0xf0
	c.aluOp(4, 0x3f) // AND
	assert.Equal(t, byte(0x30), c.A)
	assert.NotZero(t, c.F&FlagH)
	assert.Zero(t, c.F&FlagC)

	c.A = 0x0f
	c.aluOp(5, 0xf0) // XOR
	assert.Equal(t, byte(0xff), c.A)

	c.A = 0x00
	c.aluOp(6, 0x00) // OR
	assert.Equal(t, byte(0x00), c.A)
	assert.NotZero(t, c.F&FlagZ)
}

func TestIncDecFlags(t *testing.T) {
	c := newTestCPU()
	c.A = 0x7f
	c.incR(7, prefixNone)
	assert.Equal(t, byte(0x80), c.A)
	assert.NotZero(t, c.F&FlagS)
	assert.NotZero(t, c.F&FlagV) // overflow on 0x7f -> 0x80

	c.A = 0x00
	c.decR(7, prefixNone)
	assert.Equal(t, byte(0xff), c.A)
	assert.NotZero(t, c.F&FlagS)
}

func TestDAA(t *testing.T) {
	// Each case sets A and the N/H/C flags DAA reads, then checks the
	// corrected A and the resulting C/H — derived straight from the
	// original generator's digit-diff table (emit_daa), not the
	// simplified "add 06/60 from the pre-op flags" shortcut: DAA may be
	// called with any flag combination left in F, not just ones a
	// preceding ADD/SUB would produce.
	cases := []struct {
		name    string
		a       byte
		n, h, c bool
		wantA   byte
		wantC   bool
		wantH   bool
	}{
		{"no correction needed", 0x09, false, false, false, 0x09, false, false},
		{"post-sub, no half-borrow", 0x0a, true, false, false, 0x04, false, false},
		{"post-add, lower nibble overflow", 0x0f, false, true, false, 0x15, false, true},
		{"post-add, upper nibble overflow", 0xa0, false, false, false, 0x00, true, false},
		{"post-sub with carry and half-borrow", 0x99, true, true, true, 0x33, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCPU()
			c.A = tc.a
			c.F = 0
			if tc.n {
				c.F |= FlagN
			}
			if tc.h {
				c.F |= FlagH
			}
			if tc.c {
				c.F |= FlagC
			}
			c.daa()
			assert.Equal(t, tc.wantA, c.A)
			assert.Equal(t, tc.wantC, c.F&FlagC != 0)
			assert.Equal(t, tc.wantH, c.F&FlagH != 0)
		})
	}
}

func TestLDIAdjustsPointersAndFlags(t *testing.T) {
	c := newTestCPU()
	c.SetHL(0x1000)
	c.SetDE(0x2000)
	c.SetBC(2)
	c.Mem.Write(0x1000, 0x42)

	c.Mem.Write(0x0000, 0xed)
	c.Mem.Write(0x0001, 0xa0)
	c.PC = 0
	n, err := c.Execute()
	assert.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, byte(0x42), c.Mem.Read(0x2000))
	assert.Equal(t, uint16(0x1001), c.GetHL())
	assert.Equal(t, uint16(0x2001), c.GetDE())
	assert.Equal(t, uint16(1), c.GetBC())
	assert.NotZero(t, c.F&FlagP) // BC != 0 after decrement
}

func TestHaltRepeatsUntilInterrupt(t *testing.T) {
	c := newTestCPU()
	c.Mem.Write(0, 0x76) // HALT
	c.PC = 0

	n, err := c.Execute()
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, c.Halted)
	assert.Equal(t, uint16(0), c.PC)

	n, err = c.Execute()
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint16(0), c.PC)

	c.IFF1 = true
	c.IM = 1
	c.SP = 0x8000
	cost, err := c.Interrupt(0)
	assert.NoError(t, err)
	assert.Equal(t, 11, cost)
	assert.False(t, c.Halted)
	assert.Equal(t, uint16(0x0038), c.PC)
	assert.Equal(t, uint16(1), c.readWord(c.SP)) // pushed return address past the HALT
	assert.False(t, c.IFF1)
}

func TestInterruptIgnoredWhenIFF1Clear(t *testing.T) {
	c := newTestCPU()
	cost, err := c.Interrupt(0)
	assert.NoError(t, err)
	assert.Equal(t, 0, cost)
}

func TestInterruptMode1JumpsTo0038(t *testing.T) {
	c := newTestCPU()
	c.IFF1 = true
	c.IM = 1
	c.SP = 0x8000
	c.PC = 0x4000
	cost, err := c.Interrupt(0xff)
	assert.NoError(t, err)
	assert.Equal(t, 11, cost)
	assert.Equal(t, uint16(0x0038), c.PC)
	assert.Equal(t, uint16(0x4000), c.readWord(c.SP))
}

func TestIndexedLoadStore(t *testing.T) {
	c := newTestCPU()
	c.IX = 0x2000
	c.Mem.Write(0x2005, 0x99)
	// DD 7E 05: LD A,(IX+5)
	c.Mem.Write(0, 0xdd)
	c.Mem.Write(1, 0x7e)
	c.Mem.Write(2, 0x05)
	c.PC = 0
	n, err := c.Execute()
	assert.NoError(t, err)
	assert.Equal(t, 19, n)
	assert.Equal(t, byte(0x99), c.A)
}

func TestPrefixChainDecodesAsNop(t *testing.T) {
	c := newTestCPU()
	// DD DD 00: the first DD decodes as a bare no-op, leaving PC on the
	// second DD so the next Execute call re-decodes "DD 00" fresh.
	c.Mem.Write(0, 0xdd)
	c.Mem.Write(1, 0xdd)
	c.Mem.Write(2, 0x00)
	c.PC = 0
	n, err := c.Execute()
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint16(1), c.PC)

	n, err = c.Execute()
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, uint16(3), c.PC)
}

func TestBlockIOGroupIsInvalidOpcode(t *testing.T) {
	c := newTestCPU()
	c.Mem.Write(0, 0xed)
	c.Mem.Write(1, 0xa2) // INI
	c.PC = 0
	_, err := c.Execute()
	assert.Error(t, err)
	var opErr *InvalidOpcodeError
	assert.ErrorAs(t, err, &opErr)
}

func TestLoopProgramComputesExpectedResult(t *testing.T) {
	// A tiny self-test: B counts down from 5 adding 1 into A each time,
	// using DJNZ, then HALTs.
	//
	//   3e 00       LD A,0
	//   06 05       LD B,5
	// loop:
	//   3c          INC A
	//   10 fd       DJNZ loop
	//   76          HALT
	c := newTestCPU()
	prog := []byte{0x3e, 0x00, 0x06, 0x05, 0x3c, 0x10, 0xfd, 0x76}
	for i, b := range prog {
		c.Mem.Write(uint16(i), b)
	}
	c.PC = 0

	for i := 0; i < 100 && !c.Halted; i++ {
		_, err := c.Execute()
		assert.NoError(t, err)
	}
	assert.True(t, c.Halted)
	assert.Equal(t, byte(5), c.A)
	assert.Equal(t, byte(0), c.B)
}
