package cpu

import (
	"fmt"
	"strings"
)

// flagString renders F as a 7-character S Z H P V N C indicator string,
// following the original source's _str_f layout.
func (c *CPU) flagString() string {
	var sb strings.Builder
	for _, f := range []struct {
		bit byte
		ch  byte
	}{
		{FlagS, 'S'}, {FlagZ, 'Z'}, {FlagH, 'H'},
		{FlagP, 'P'}, {FlagV, 'V'}, {FlagN, 'N'}, {FlagC, 'C'},
	} {
		if c.F&f.bit != 0 {
			sb.WriteByte(f.ch)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// String returns a multi-line human-readable register dump, in the same
// spirit as the teacher's debugger status panel and the original
// source's cpu.__str__.
func (c *CPU) String() string {
	lines := []string{
		fmt.Sprintf("a    : %02x", c.A),
		fmt.Sprintf("f    : %02x %s", c.F, c.flagString()),
		fmt.Sprintf("b c  : %02x %02x", c.B, c.C),
		fmt.Sprintf("d e  : %02x %02x", c.D, c.E),
		fmt.Sprintf("h l  : %02x %02x", c.H, c.L),
		fmt.Sprintf("a'f' : %02x %02x", c.AFshadow>>8, c.AFshadow&0xff),
		fmt.Sprintf("b'c' : %02x %02x", c.BCshadow>>8, c.BCshadow&0xff),
		fmt.Sprintf("d'e' : %02x %02x", c.DEshadow>>8, c.DEshadow&0xff),
		fmt.Sprintf("h'l' : %02x %02x", c.HLshadow>>8, c.HLshadow&0xff),
		fmt.Sprintf("i    : %02x", c.I),
		fmt.Sprintf("im   : %d", c.IM),
		fmt.Sprintf("iff1 : %t", c.IFF1),
		fmt.Sprintf("iff2 : %t", c.IFF2),
		fmt.Sprintf("r    : %02x", c.R),
		fmt.Sprintf("ix   : %04x", c.IX),
		fmt.Sprintf("iy   : %04x", c.IY),
		fmt.Sprintf("sp   : %04x", c.SP),
		fmt.Sprintf("pc   : %04x", c.PC),
	}
	return strings.Join(lines, "\n")
}
