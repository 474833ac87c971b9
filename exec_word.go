package avrxmega

// Word-wide register-pair operations: MOVW, ADIW, SBIW.
func init() {
	registerOpcode(0x0100, 0x00FF, movw) // 0000 0001 ddddrrrr
	registerOpcode(0x9600, 0x00FF, adiw) // 1001 0110 KKddKKKK
	registerOpcode(0x9700, 0x00FF, sbiw) // 1001 0111 KKddKKKK
}

func movw(d *Device, op uint16) uint32 {
	rd := ((op >> 4) & 0xF) * 2
	rr := (op & 0xF) * 2
	d.regs.setPair(int(rd), d.regs.pair(int(rr)))
	return 1
}

// adiwPair returns the register-pair base (one of r24:r25, r26:r27,
// r28:r29, r30:r31) and the 6-bit immediate encoded in an ADIW/SBIW opcode.
func adiwPair(op uint16) (base int, k uint16) {
	dd := (op >> 4) & 0x3
	base = 24 + int(dd)*2
	k = ((op>>6)&0x3)<<4 | (op & 0xF)
	return
}

func adiw(d *Device, op uint16) uint32 {
	base, k := adiwPair(op)
	a := d.regs.pair(base)
	r := a + k
	d.regs.setPair(base, r)
	c, v, n, z, s := adiwFlags(a, r)
	d.setFlag(sregC, c)
	d.setFlag(sregV, v)
	d.setFlag(sregN, n)
	d.setFlag(sregZ, z)
	d.setFlag(sregS, s)
	return 2
}

func sbiw(d *Device, op uint16) uint32 {
	base, k := adiwPair(op)
	a := d.regs.pair(base)
	r := a - k
	d.regs.setPair(base, r)
	c, v, n, z, s := sbiwFlags(a, r)
	d.setFlag(sregC, c)
	d.setFlag(sregV, v)
	d.setFlag(sregN, n)
	d.setFlag(sregZ, z)
	d.setFlag(sregS, s)
	return 2
}
