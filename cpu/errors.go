package cpu

import "fmt"

// InvalidOpcodeError is raised by handlers for encodings this core
// intentionally does not implement: the block I/O group
// (INI/IND/INIR/INDR/OUTI/OUTD/OTIR/OTDR). The PC field holds the
// start of the offending instruction; the CPU's own PC is left past the
// opcode bytes, so a driver resets it from PC to resume execution after
// patching memory, or halts and reports.
type InvalidOpcodeError struct {
	PC    uint16
	Bytes []byte
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("z80: invalid opcode at %04x: % x", e.PC, e.Bytes)
}
