package avrxmega

// clkBlock is the mandatory CLK block: it owns the prescaler
// configuration (fields A, B, C) that the clock scheduler's domain
// scales are derived from.
type clkBlock struct {
	dev *Device

	sclksel uint8 // CTRL: selected system clock source (stubbed, stored only)
	psctrl  uint8 // PSCTRL: psbcdiv[1:0], psadiv[6:2]
	locked  bool  // LOCK: once set, further CTRL/PSCTRL writes are ignored

	prescalerA, prescalerB, prescalerC uint
}

const (
	clkIOBase = 0x40
	clkIOSize = 0x08

	clkRegCTRL    = 0x00
	clkRegPSCTRL  = 0x01
	clkRegLOCK    = 0x02
	clkRegRTCCTRL = 0x03
)

var psaDivTable = [...]uint{1, 2, 4, 8, 16, 32, 64, 128, 256, 512}

// psbcDivTable maps the 2-bit PSBCDIV field to (B, C) divisors.
var psbcDivTable = [4][2]uint{
	{1, 1},
	{1, 2},
	{2, 1},
	{2, 2},
}

func (b *clkBlock) Name() string     { return "CLK" }
func (b *clkBlock) IOBase() uint16   { return clkIOBase }
func (b *clkBlock) IOSize() uint16   { return clkIOSize }
func (b *clkBlock) IVBase() uint16   { return 0 }
func (b *clkBlock) IVCount() uint16  { return 0 }
func (b *clkBlock) ExecuteIV(uint16) {}

func (b *clkBlock) Reset() {
	b.sclksel = 0
	b.psctrl = 0
	b.locked = false
	b.updatePrescalers()
}

func (b *clkBlock) GetIO(local uint16) uint8 {
	switch local {
	case clkRegCTRL:
		return b.sclksel
	case clkRegPSCTRL:
		return b.psctrl
	case clkRegLOCK:
		if b.locked {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (b *clkBlock) SetIO(local uint16, v uint8) {
	switch local {
	case clkRegCTRL:
		if !b.locked {
			b.sclksel = v
		} else {
			b.dev.log.Warn("write to CLK CTRL ignored: CLK is locked")
		}
	case clkRegPSCTRL:
		if !b.locked {
			b.psctrl = v
			b.updatePrescalers()
			b.dev.onClockConfigChange()
		} else {
			b.dev.log.Warn("write to CLK PSCTRL ignored: CLK is locked")
		}
	case clkRegLOCK:
		if v&0x1 != 0 {
			b.locked = true
		}
	}
}

// updatePrescalers recomputes A/B/C from the PSCTRL bitfield: psbcdiv at
// bits[1:0], psadiv at bits[6:2].
func (b *clkBlock) updatePrescalers() {
	psadiv := (b.psctrl >> 2) & 0x1F
	psbcdiv := b.psctrl & 0x3

	if int(psadiv) < len(psaDivTable) {
		b.prescalerA = psaDivTable[psadiv]
	} else {
		b.prescalerA = 1
	}
	bc := psbcDivTable[psbcdiv]
	b.prescalerB, b.prescalerC = bc[0], bc[1]
}
