package avrxmega

// Miscellaneous single-word, no-operand-field instructions: NOP, SLEEP,
// WDR, BREAK, DES, SPM. Flash self-programming (SPM) and sleep are
// stubbed to a logged warning rather than modeled, and WDR is a silent
// no-op since the watchdog is not modeled either; DES is
// stubbed the same way, since guest code that executes it is exercising
// the AES coprocessor path rather than anything the instruction executor
// itself needs to model.
func init() {
	registerOpcode(0x0000, 0x0000, nop)
	registerOpcode(0x9588, 0x0000, sleep)
	registerOpcode(0x95A8, 0x0000, wdr)
	registerOpcode(0x9598, 0x0000, breakOp)
	registerOpcode(0x940B, 0x00F0, des)
	registerOpcode(0x95E8, 0x0000, spm)
	registerOpcode(0x95F8, 0x0000, spm2)
}

func nop(d *Device, op uint16) uint32 { return 1 }

func sleep(d *Device, op uint16) uint32 {
	d.log.Warn("SLEEP executed; sleep modes are unimplemented, continuing")
	return 1
}

func wdr(d *Device, op uint16) uint32 { return 1 }

// breakOp sets the sticky flag the CPU step callback clears at the start
// of every step, giving a debug front end a one-tick window to observe it.
func breakOp(d *Device, op uint16) uint32 {
	d.breaked = true
	return 1
}

func des(d *Device, op uint16) uint32 {
	d.log.Warn("DES executed; the AES/DES coprocessor is unimplemented")
	return 1
}

func spm(d *Device, op uint16) uint32 {
	d.log.Warn("SPM executed; flash self-programming is unimplemented")
	return 1
}

func spm2(d *Device, op uint16) uint32 {
	d.log.Warn("SPM Z+ executed; flash self-programming is unimplemented")
	return 1
}
