package avrxmega

// Data-memory layout. The AVR XMEGA core multiplexes I/O registers, internal
// SRAM, EEPROM and (on parts that have it) external SRAM onto one linear
// 24-bit data address space; everything else aliases to an unmapped read of
// zero / a dropped write.
const (
	memIOSize        = 0x1000
	memEEPROMStart   = 0x1000
	memSRAMStart     = 0x2000
	memEmulatorStart = 0xFF00
	memEmulatorSize  = 0x100
	memMaxSize       = 0x01000000

	ivMaxCount = 0x80
)

// readData implements the data address-space router.
func (d *Device) readData(addr uint32) uint8 {
	switch {
	case addr < memIOSize:
		return d.readIO(uint16(addr))

	case addr >= memEEPROMStart && addr < memEEPROMStart+uint32(d.model.MemEEPROMSize):
		d.log.Warn("read of unimplemented EEPROM at %#x", addr)
		return 0

	case addr >= memSRAMStart && addr < memSRAMStart+uint32(len(d.sramData)):
		return d.sramData[addr-memSRAMStart]

	case addr >= memEmulatorStart && addr < memEmulatorStart+memEmulatorSize:
		return d.readEmulatorMem(addr - memEmulatorStart)

	case d.hasExSRAM() && addr >= d.exsramStart() && addr < d.exsramStart()+uint32(d.model.MemExSRAMSize):
		d.log.Warn("read of unimplemented external SRAM at %#x", addr)
		return 0

	default:
		d.log.Error("read of unmapped data address %#x", addr)
		return 0
	}
}

// writeData implements the write side of the router.
func (d *Device) writeData(addr uint32, v uint8) {
	switch {
	case addr < memIOSize:
		d.writeIO(uint16(addr), v)

	case addr >= memEEPROMStart && addr < memEEPROMStart+uint32(d.model.MemEEPROMSize):
		d.log.Warn("write of unimplemented EEPROM at %#x", addr)

	case addr >= memSRAMStart && addr < memSRAMStart+uint32(len(d.sramData)):
		d.sramData[addr-memSRAMStart] = v

	case addr >= memEmulatorStart && addr < memEmulatorStart+memEmulatorSize:
		// The observability window is read-only from the guest's perspective.

	case d.hasExSRAM() && addr >= d.exsramStart() && addr < d.exsramStart()+uint32(d.model.MemExSRAMSize):
		d.log.Warn("write of unimplemented external SRAM at %#x", addr)

	default:
		d.log.Error("write of unmapped data address %#x", addr)
	}
}

// readEmulatorMem serves the internal observability window: a little-endian
// 32-bit snapshot of the SYS clock tick at offset 0, everything else reads
// as zero.
func (d *Device) readEmulatorMem(offset uint32) uint8 {
	if offset < 4 {
		return uint8(d.clkSysTick >> (8 * offset))
	}
	return 0
}

func (d *Device) hasExSRAM() bool { return d.model.MemExSRAMSize > 0 }

func (d *Device) exsramStart() uint32 {
	return uint32(memSRAMStart) + uint32(d.model.MemSRAMSize)
}

// readIO and writeIO dispatch to the owning Block, logging and returning a
// defined fallback when no block owns the address.
func (d *Device) readIO(addr uint16) uint8 {
	b := d.ioBlocks[addr]
	if b == nil {
		d.log.Error("read of unmapped I/O address %#x", addr)
		return 0
	}
	return b.GetIO(addr - b.IOBase())
}

func (d *Device) writeIO(addr uint16, v uint8) {
	b := d.ioBlocks[addr]
	if b == nil {
		d.log.Error("write of unmapped I/O address %#x", addr)
		return
	}
	b.SetIO(addr-b.IOBase(), v)
}
