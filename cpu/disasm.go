package cpu

import "z80core/disasm"

// Disassemble decodes the instruction at addr without touching any
// architectural state, for use by debuggers and trace logging.
func (c *CPU) Disassemble(addr uint16) (mnemonic string, operands string, n int) {
	return disasm.Disassemble(c.Mem, addr)
}
