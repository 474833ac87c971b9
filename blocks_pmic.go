package avrxmega

// pmicBlock is the mandatory PMIC block: it owns the CTRL/STATUS I/O
// registers the interrupt controller (interrupt.go) arbitrates against,
// kept as a distinct block from the pending-queue state it arbitrates.
type pmicBlock struct {
	status pmicStatus
	ctrl   pmicCtrl
}

type pmicStatus = uint8

// pmicCtrl is the PMIC CTRL register: enable bits for each priority level
// plus IVSEL (route vectors through the boot section).
type pmicCtrl uint8

const (
	pmicCtrlLoLvlEn = 1 << 0
	pmicCtrlMedLvlEn = 1 << 1
	pmicCtrlHiLvlEn = 1 << 2
	pmicCtrlIvsel   = 1 << 6
	pmicCtrlRREn    = 1 << 7
)

func (c pmicCtrl) lolvlen() bool  { return c&pmicCtrlLoLvlEn != 0 }
func (c pmicCtrl) medlvlen() bool { return c&pmicCtrlMedLvlEn != 0 }
func (c pmicCtrl) hilvlen() bool  { return c&pmicCtrlHiLvlEn != 0 }
func (c pmicCtrl) ivsel() bool    { return c&pmicCtrlIvsel != 0 }

const (
	pmicIOBase = 0xA0
	pmicIOSize = 0x03

	pmicRegSTATUS  = 0x00
	pmicRegINTPRI  = 0x01
	pmicRegCTRL    = 0x02
)

func (b *pmicBlock) Name() string     { return "PMIC" }
func (b *pmicBlock) IOBase() uint16   { return pmicIOBase }
func (b *pmicBlock) IOSize() uint16   { return pmicIOSize }
func (b *pmicBlock) IVBase() uint16   { return 0 }
func (b *pmicBlock) IVCount() uint16  { return 0 }
func (b *pmicBlock) ExecuteIV(uint16) {}

func (b *pmicBlock) Reset() {
	b.status = 0
	b.ctrl = 0
}

func (b *pmicBlock) GetIO(local uint16) uint8 {
	switch local {
	case pmicRegSTATUS:
		return b.status
	case pmicRegCTRL:
		return uint8(b.ctrl)
	default:
		return 0
	}
}

func (b *pmicBlock) SetIO(local uint16, v uint8) {
	switch local {
	case pmicRegSTATUS:
		// STATUS bits are set by interrupt dispatch and normally cleared by
		// RETI. A guest write can only clear bits, never set them: every
		// bit written as 0 is cleared, every bit written as 1 is left as
		// it was.
		b.status &= v
	case pmicRegCTRL:
		b.ctrl = pmicCtrl(v)
	}
}
