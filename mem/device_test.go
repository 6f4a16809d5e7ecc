package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestROMReadBack(t *testing.T) {
	rom := NewROM(13) // 8 KiB
	data := make([]byte, 8192)
	data[0] = 0xf3
	data[8191] = 0x00
	rom.Load(0, data)

	m := NewAddrMap()
	m.Bind(0, 4, rom) // four 2 KiB slots cover 8 KiB

	assert.Equal(t, byte(0xf3), m.Read(0x0000))
	assert.Equal(t, byte(0x00), m.Read(0x1fff))

	m.Write(0x1fff, 0xaa)
	assert.Equal(t, byte(0x00), m.Read(0x1fff))
}

func TestWOMVisibility(t *testing.T) {
	wom := NewWOM(10) // 1 KiB, mirrors within its 2 KiB slot

	m := NewAddrMap()
	m.Bind(5, 1, wom) // slot 5 -> 0x2800-0x2fff

	assert.Equal(t, byte(0xff), m.Read(0x2800))

	m.Write(0x2800, 0xaa)
	assert.Equal(t, byte(0xff), m.Read(0x2800))

	assert.Equal(t, byte(0xaa), wom.BackDoorRead(0x2800))
	assert.Equal(t, byte(0xaa), wom.BackDoorRead(0x2c00)) // mirror
}

func TestRAMReadWrite(t *testing.T) {
	ram := NewRAM(11)
	m := NewAddrMap()
	m.Bind(0, 1, ram)

	for addr := 0; addr < 0x800; addr += 0x137 {
		a := uint16(addr)
		m.Write(a, 0x5a)
		assert.Equal(t, byte(0x5a), m.Read(a))
	}
}

func TestNullDevice(t *testing.T) {
	m := NewAddrMap() // everything defaults to Null
	m.Write(0x4000, 0xaa)
	assert.Equal(t, byte(0xff), m.Read(0x4000))
}

func TestWriteNotifyFiresOnlyOnChange(t *testing.T) {
	ram := NewRAM(11)
	var dirty []uint16
	ram.RegisterWriteNotify(func(addr uint16) { dirty = append(dirty, addr) })

	ram.Write(0x10, 0x01)
	ram.Write(0x10, 0x01) // unchanged, no notify
	ram.Write(0x10, 0x02)

	assert.Equal(t, []uint16{0x10, 0x10}, dirty)
}

func TestROMWriteIgnored(t *testing.T) {
	rom := NewROM(11)
	rom.Load(0, []byte{0x12})
	rom.Write(0, 0xff)
	assert.Equal(t, byte(0x12), rom.Read(0))
}
