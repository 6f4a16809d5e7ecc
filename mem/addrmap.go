package mem

// slotBits is the address-map's granularity: each slot covers 2 KiB
// (1<<11 bytes), giving 64 KiB / 2 KiB = 32 slots.
const (
	slotBits  = 11
	slotCount = 1 << (16 - slotBits)
)

// AddrMap maps the full 16-bit address space to devices at 2 KiB
// granularity. It holds borrowed references: devices outlive the map, and
// the same device may be bound into several consecutive slots (e.g. a
// ROM mirrored across its whole region).
type AddrMap struct {
	slots [slotCount]*Device
}

// NewAddrMap builds an address map with every slot unpopulated.
func NewAddrMap() *AddrMap {
	m := &AddrMap{}
	null := NewNull(slotBits)
	for i := range m.slots {
		m.slots[i] = null
	}
	return m
}

// Bind installs dev into the slots [first, first+count), each 2 KiB wide.
func (m *AddrMap) Bind(first int, count int, dev *Device) {
	for i := first; i < first+count; i++ {
		m.slots[i] = dev
	}
}

func (m *AddrMap) slot(addr uint16) *Device {
	return m.slots[addr>>slotBits]
}

// Read selects the device owning addr and returns its byte.
func (m *AddrMap) Read(addr uint16) byte {
	return m.slot(addr).Read(addr)
}

// Write selects the device owning addr and writes val into it.
func (m *AddrMap) Write(addr uint16, val byte) {
	m.slot(addr).Write(addr, val)
}
