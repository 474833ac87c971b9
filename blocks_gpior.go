package avrxmega

// gpiorBlock is the mandatory GPIOR block: a bank of general-purpose I/O
// registers with no behaviour beyond storage, registered alongside CPU,
// CLK, PMIC and OSC so the registry/dispatch path has a concrete non-CPU
// block to exercise.
type gpiorBlock struct {
	regs [gpiorIOSize]uint8
}

const (
	gpiorIOBase = 0x00
	gpiorIOSize = 0x0C
)

func (b *gpiorBlock) Name() string     { return "GPIOR" }
func (b *gpiorBlock) IOBase() uint16   { return gpiorIOBase }
func (b *gpiorBlock) IOSize() uint16   { return gpiorIOSize }
func (b *gpiorBlock) IVBase() uint16   { return 0 }
func (b *gpiorBlock) IVCount() uint16  { return 0 }
func (b *gpiorBlock) ExecuteIV(uint16) {}

func (b *gpiorBlock) Reset() {
	for i := range b.regs {
		b.regs[i] = 0
	}
}

func (b *gpiorBlock) GetIO(local uint16) uint8   { return b.regs[local] }
func (b *gpiorBlock) SetIO(local uint16, v uint8) { b.regs[local] = v }
