package cpu

// Execute runs exactly one instruction: it fetches, decodes, and
// executes the opcode at PC, returning the number of T-states consumed.
// HALT decrements PC back onto itself after setting the halt latch, so
// repeated Execute calls keep re-fetching and re-running the HALT
// opcode (4 T-states each) until Interrupt lifts the latch.
func (c *CPU) Execute() (int, error) {
	c.bumpR()
	startPC := c.PC
	op := c.fetch8()

	switch op {
	case 0xcb:
		return c.executeCB()
	case 0xdd:
		return c.executePrefixed(prefixIX)
	case 0xed:
		return c.executeED(startPC)
	case 0xfd:
		return c.executePrefixed(prefixIY)
	default:
		c.resetDisp()
		return c.executeMain(op, prefixNone)
	}
}

// executePrefixed handles a DD or FD byte already consumed from the
// stream. Per spec, a prefix immediately followed by another
// HL-substituting prefix (DD/FD/ED) is itself a no-op: it leaves PC
// pointing at that following byte so the next Execute call re-decodes
// it as a fresh instruction, exactly the "DD DD", "DD FD", "FD DD",
// "FD FD", "DD ED", "FD ED" chaining spec describes.
func (c *CPU) executePrefixed(pm prefixMode) (int, error) {
	peek := c.Mem.Read(c.PC)
	if peek == 0xdd || peek == 0xfd || peek == 0xed {
		return 4, nil
	}
	if peek == 0xcb {
		c.fetch8()
		return c.executeIndexedCB(pm) + 4, nil
	}
	opcode := c.fetch8()
	c.resetDisp()
	cost, err := c.executeMain(opcode, pm)
	if err != nil {
		return 0, err
	}
	return cost + 4, nil
}

// Interrupt requests a maskable interrupt, delivering vector (as a
// device would drive it onto the data bus during an acknowledge cycle).
// If IFF1 is clear the request is ignored (0 T-states, no error).
// Otherwise it lifts HALT, clears IFF1 and IFF2, and pushes PC before
// dispatching per IM. Non-maskable interrupts are not modeled.
func (c *CPU) Interrupt(vector byte) (int, error) {
	if !c.IFF1 {
		return 0, nil
	}
	if c.Halted {
		c.Halted = false
		c.PC++
	}
	c.IFF1 = false
	c.IFF2 = false
	c.push(c.PC)

	switch c.IM {
	case 0:
		// Approximation: the real Z80 executes the vectored instruction
		// directly off the bus; this core models the common RST case.
		c.PC = uint16(vector) & 0x38
		return 13, nil
	case 1:
		c.PC = 0x0038
		return 11, nil
	default:
		addr := uint16(c.I)<<8 | uint16(vector&0xfe)
		c.PC = c.readWord(addr)
		return 17, nil
	}
}
