package avrxmega

// Register-to-register arithmetic, logic and compare: ADD, ADC, SUB, SBC,
// AND, OR, EOR, MOV, CP, CPC, CPSE. All share the "0000 00rd dddd rrrr"
// -family encoding: a 6-bit fixed opcode, bit9 is the high bit of Rr, bits
// 8-4 are Rd, bits3-0 are the low bits of Rr.
func init() {
	registerOpcode(0x0C00, 0x03FF, add)
	registerOpcode(0x1C00, 0x03FF, adc)
	registerOpcode(0x1800, 0x03FF, sub)
	registerOpcode(0x0800, 0x03FF, sbc)
	registerOpcode(0x2000, 0x03FF, andOp)
	registerOpcode(0x2800, 0x03FF, orOp)
	registerOpcode(0x2400, 0x03FF, eor)
	registerOpcode(0x2C00, 0x03FF, mov)
	registerOpcode(0x1400, 0x03FF, cp)
	registerOpcode(0x0400, 0x03FF, cpc)
	registerOpcode(0x1000, 0x03FF, cpse)
}

func rdRr(op uint16) (rd, rr uint16) {
	rd = (op >> 4) & 0x1F
	rr = ((op >> 5) & 0x10) | (op & 0xF)
	return
}

func add(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	a, b := d.regs[rd], d.regs[rr]
	r := a + b
	d.regs[rd] = r
	c, h, v, n, z, s := addFlags(a, b, r)
	d.applyArith(c, h, v, n, z, s)
	return 1
}

func adc(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	a, b := d.regs[rd], d.regs[rr]
	var carry uint8
	if d.flag(sregC) {
		carry = 1
	}
	r := a + b + carry
	d.regs[rd] = r
	c, h, v, n, z, s := addFlags(a, b, r)
	d.applyArith(c, h, v, n, z, s)
	return 1
}

func sub(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	a, b := d.regs[rd], d.regs[rr]
	r := a - b
	d.regs[rd] = r
	c, h, v, n, z, s := subFlags(a, b, r)
	d.applyArith(c, h, v, n, z, s)
	return 1
}

// sbc's Z flag is sticky: it clears on a non-zero result but, on a zero
// result, keeps whatever Z already held, so a multi-byte SBC chain's Z
// reflects the whole chain rather than just the last byte.
func sbc(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	a, b := d.regs[rd], d.regs[rr]
	var borrow uint8
	if d.flag(sregC) {
		borrow = 1
	}
	r := a - b - borrow
	d.regs[rd] = r
	prevZ := d.flag(sregZ)
	c, h, v, n, z, s := subFlags(a, b, r)
	d.applyArith(c, h, v, n, z, s)
	d.setFlag(sregZ, z && prevZ)
	return 1
}

func andOp(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	r := d.regs[rd] & d.regs[rr]
	d.regs[rd] = r
	d.applyLogic(r)
	return 1
}

func orOp(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	r := d.regs[rd] | d.regs[rr]
	d.regs[rd] = r
	d.applyLogic(r)
	return 1
}

func eor(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	r := d.regs[rd] ^ d.regs[rr]
	d.regs[rd] = r
	d.applyLogic(r)
	return 1
}

func mov(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	d.regs[rd] = d.regs[rr]
	return 1
}

func cp(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	a, b := d.regs[rd], d.regs[rr]
	r := a - b
	c, h, v, n, z, s := subFlags(a, b, r)
	d.applyArith(c, h, v, n, z, s)
	return 1
}

// cpc's Z flag is sticky, matching sbc.
func cpc(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	a, b := d.regs[rd], d.regs[rr]
	var borrow uint8
	if d.flag(sregC) {
		borrow = 1
	}
	r := a - b - borrow
	prevZ := d.flag(sregZ)
	c, h, v, n, z, s := subFlags(a, b, r)
	d.applyArith(c, h, v, n, z, s)
	d.setFlag(sregZ, z && prevZ)
	return 1
}

// cpse compares Rd and Rr and, if equal, skips the following instruction.
func cpse(d *Device, op uint16) uint32 {
	rd, rr := rdRr(op)
	if d.regs[rd] == d.regs[rr] {
		return 1 + d.skipNextInstruction()
	}
	return 1
}
