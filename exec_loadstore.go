package avrxmega

// Data-memory load/store addressing modes: LDS/STS, LD/ST via X/Y/Z
// (plain, post-increment, pre-decrement), LDD/STD, LPM/ELPM, and the
// atomic register-memory ops XCH/LAS/LAC/LAT.
func init() {
	registerOpcode(ldsMatch, ldsMask, lds)
	registerOpcode(stsMatch, stsMask, sts)

	registerOpcode(0x900C, 0x01F0, ldX)
	registerOpcode(0x900D, 0x01F0, ldXInc)
	registerOpcode(0x900E, 0x01F0, ldXDec)
	registerOpcode(0x920C, 0x01F0, stX)
	registerOpcode(0x920D, 0x01F0, stXInc)
	registerOpcode(0x920E, 0x01F0, stXDec)

	registerOpcode(0x9009, 0x01F0, ldYInc)
	registerOpcode(0x900A, 0x01F0, ldYDec)
	registerOpcode(0x9209, 0x01F0, stYInc)
	registerOpcode(0x920A, 0x01F0, stYDec)

	registerOpcode(0x9001, 0x01F0, ldZInc)
	registerOpcode(0x9002, 0x01F0, ldZDec)
	registerOpcode(0x9201, 0x01F0, stZInc)
	registerOpcode(0x9202, 0x01F0, stZDec)

	registerOpcode(0x8000, 0x2DFF, ldd) // 10q0 qq0d dddd Yqqq (Y bit3 selects Y/Z)
	registerOpcode(0x8200, 0x2DFF, std) // 10q0 qq1r rrrr Yqqq

	registerOpcode(0x95C8, 0x0000, lpmR0)
	registerOpcode(0x9004, 0x01F0, lpmZ)
	registerOpcode(0x9005, 0x01F0, lpmZInc)
	registerOpcode(0x95D8, 0x0000, elpmR0)
	registerOpcode(0x9006, 0x01F0, elpmZ)
	registerOpcode(0x9007, 0x01F0, elpmZInc)

	registerOpcode(0x9204, 0x01F0, xch)
	registerOpcode(0x9205, 0x01F0, las)
	registerOpcode(0x9206, 0x01F0, lac)
	registerOpcode(0x9207, 0x01F0, lat)
}

// warnIfAliasesPointer logs a critical fault when a post-increment or
// pre-decrement load/store's register operand is one of the two bytes of
// the pointer register it is also indexing through. The instruction still
// executes as written: the pointer updates and the transfer happens with
// whichever value the overlapping register holds at that point.
func warnIfAliasesPointer(d *Device, reg uint16, pointerLo int) {
	if int(reg) == pointerLo || int(reg) == pointerLo+1 {
		d.log.Critical("r%d aliases the pointer register it is indexed through; executing as written", reg)
	}
}

func lds(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	k := d.fetchWord()
	addr := uint32(d.rampd)<<16 | uint32(k)
	d.regs[rd] = d.readData(addr)
	return 2
}

func sts(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	k := d.fetchWord()
	addr := uint32(d.rampd)<<16 | uint32(k)
	d.writeData(addr, d.regs[rr])
	return 2
}

func ldX(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	addr := uint32(d.rampx)<<16 | uint32(d.regs.X())
	d.regs[rd] = d.readData(addr)
	return 2
}

func ldXInc(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rd, regX)
	x := d.regs.X()
	addr := uint32(d.rampx)<<16 | uint32(x)
	d.regs[rd] = d.readData(addr)
	d.regs.setX(x + 1)
	if x == 0xFFFF {
		d.rampx++
	}
	return 2
}

func ldXDec(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rd, regX)
	x := d.regs.X() - 1
	if d.regs.X() == 0 {
		d.rampx--
	}
	d.regs.setX(x)
	addr := uint32(d.rampx)<<16 | uint32(x)
	d.regs[rd] = d.readData(addr)
	return 2
}

func stX(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	addr := uint32(d.rampx)<<16 | uint32(d.regs.X())
	d.writeData(addr, d.regs[rr])
	return 2
}

func stXInc(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rr, regX)
	x := d.regs.X()
	addr := uint32(d.rampx)<<16 | uint32(x)
	d.writeData(addr, d.regs[rr])
	d.regs.setX(x + 1)
	if x == 0xFFFF {
		d.rampx++
	}
	return 2
}

func stXDec(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rr, regX)
	x := d.regs.X() - 1
	if d.regs.X() == 0 {
		d.rampx--
	}
	d.regs.setX(x)
	addr := uint32(d.rampx)<<16 | uint32(x)
	d.writeData(addr, d.regs[rr])
	return 2
}

func ldYInc(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rd, regY)
	y := d.regs.Y()
	addr := uint32(d.rampy)<<16 | uint32(y)
	d.regs[rd] = d.readData(addr)
	d.regs.setY(y + 1)
	if y == 0xFFFF {
		d.rampy++
	}
	return 2
}

func ldYDec(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rd, regY)
	y := d.regs.Y() - 1
	if d.regs.Y() == 0 {
		d.rampy--
	}
	d.regs.setY(y)
	addr := uint32(d.rampy)<<16 | uint32(y)
	d.regs[rd] = d.readData(addr)
	return 2
}

func stYInc(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rr, regY)
	y := d.regs.Y()
	addr := uint32(d.rampy)<<16 | uint32(y)
	d.writeData(addr, d.regs[rr])
	d.regs.setY(y + 1)
	if y == 0xFFFF {
		d.rampy++
	}
	return 2
}

func stYDec(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rr, regY)
	y := d.regs.Y() - 1
	if d.regs.Y() == 0 {
		d.rampy--
	}
	d.regs.setY(y)
	addr := uint32(d.rampy)<<16 | uint32(y)
	d.writeData(addr, d.regs[rr])
	return 2
}

func ldZInc(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rd, regZ)
	z := d.regs.Z()
	addr := uint32(d.rampz)<<16 | uint32(z)
	d.regs[rd] = d.readData(addr)
	d.regs.setZ(z + 1)
	if z == 0xFFFF {
		d.rampz++
	}
	return 2
}

func ldZDec(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rd, regZ)
	z := d.regs.Z() - 1
	if d.regs.Z() == 0 {
		d.rampz--
	}
	d.regs.setZ(z)
	addr := uint32(d.rampz)<<16 | uint32(z)
	d.regs[rd] = d.readData(addr)
	return 2
}

func stZInc(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rr, regZ)
	z := d.regs.Z()
	addr := uint32(d.rampz)<<16 | uint32(z)
	d.writeData(addr, d.regs[rr])
	d.regs.setZ(z + 1)
	if z == 0xFFFF {
		d.rampz++
	}
	return 2
}

func stZDec(d *Device, op uint16) uint32 {
	rr := (op >> 4) & 0x1F
	warnIfAliasesPointer(d, rr, regZ)
	z := d.regs.Z() - 1
	if d.regs.Z() == 0 {
		d.rampz--
	}
	d.regs.setZ(z)
	addr := uint32(d.rampz)<<16 | uint32(z)
	d.writeData(addr, d.regs[rr])
	return 2
}

// lddFields decodes the shared LDD/STD displacement encoding: a 5-bit
// register field, a pointer selector (Y when true, else Z) and a 6-bit
// unsigned displacement scattered across the opcode.
func lddFields(op uint16) (reg uint16, isY bool, q uint16) {
	reg = (op >> 4) & 0x1F
	isY = op&0x8 != 0
	q = ((op>>13)&1)<<5 | ((op>>11)&1)<<4 | ((op>>10)&1)<<3 | ((op>>2)&1)<<2 | ((op>>1)&1)<<1 | (op & 1)
	return
}

func ldd(d *Device, op uint16) uint32 {
	reg, isY, q := lddFields(op)
	var base uint16
	var ramp uint8
	if isY {
		base, ramp = d.regs.Y(), d.rampy
	} else {
		base, ramp = d.regs.Z(), d.rampz
	}
	addr := uint32(ramp)<<16 | uint32(base+q)
	d.regs[reg] = d.readData(addr)
	return 2
}

func std(d *Device, op uint16) uint32 {
	reg, isY, q := lddFields(op)
	var base uint16
	var ramp uint8
	if isY {
		base, ramp = d.regs.Y(), d.rampy
	} else {
		base, ramp = d.regs.Z(), d.rampz
	}
	addr := uint32(ramp)<<16 | uint32(base+q)
	d.writeData(addr, d.regs[reg])
	return 2
}

// flashByte reads one byte of flash at a byte address: the low byte of the
// word for an even address, the high byte for an odd one.
func (d *Device) flashByte(byteAddr uint32) uint8 {
	word := d.flashData[(byteAddr/2)%uint32(len(d.flashData))]
	if byteAddr%2 == 0 {
		return uint8(word)
	}
	return uint8(word >> 8)
}

func lpmR0(d *Device, op uint16) uint32 {
	d.regs[0] = d.flashByte(uint32(d.regs.Z()))
	return 3
}

func lpmZ(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	d.regs[rd] = d.flashByte(uint32(d.regs.Z()))
	return 3
}

func lpmZInc(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	z := d.regs.Z()
	d.regs[rd] = d.flashByte(uint32(z))
	d.regs.setZ(z + 1)
	return 3
}

func elpmR0(d *Device, op uint16) uint32 {
	d.regs[0] = d.flashByte(uint32(d.rampz)<<16 | uint32(d.regs.Z()))
	return 3
}

func elpmZ(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	d.regs[rd] = d.flashByte(uint32(d.rampz)<<16 | uint32(d.regs.Z()))
	return 3
}

func elpmZInc(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	z := d.regs.Z()
	d.regs[rd] = d.flashByte(uint32(d.rampz)<<16 | uint32(z))
	z++
	d.regs.setZ(z)
	if z == 0 {
		d.rampz++
	}
	return 3
}

func xch(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	addr := uint32(d.regs.Z())
	old := d.readData(addr)
	d.writeData(addr, d.regs[rd])
	d.regs[rd] = old
	return 2
}

func las(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	addr := uint32(d.regs.Z())
	old := d.readData(addr)
	d.writeData(addr, old|d.regs[rd])
	d.regs[rd] = old
	return 2
}

func lac(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	addr := uint32(d.regs.Z())
	old := d.readData(addr)
	d.writeData(addr, old&^d.regs[rd])
	d.regs[rd] = old
	return 2
}

func lat(d *Device, op uint16) uint32 {
	rd := (op >> 4) & 0x1F
	addr := uint32(d.regs.Z())
	old := d.readData(addr)
	d.writeData(addr, old^d.regs[rd])
	d.regs[rd] = old
	return 2
}
