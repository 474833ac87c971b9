package avrxmega

import "testing"

// TestLdXPostIncrementRollsRampX verifies the 16-bit X pointer wrapping from
// 0xFFFF to 0x0000 also increments the RAMPX extension byte.
func TestLdXPostIncrementRollsRampX(t *testing.T) {
	dev := newTestDevice(t)
	dev.regs.setX(0xFFFF)
	dev.rampx = 0

	op := uint16(0x900D) | (5 << 4) // LD r5, X+
	ldXInc(dev, op)

	if dev.regs.X() != 0 {
		t.Fatalf("X = %#x, want 0", dev.regs.X())
	}
	if dev.rampx != 1 {
		t.Fatalf("rampx = %d, want 1 after wraparound", dev.rampx)
	}
}

// TestStdLddRoundTrip stores a register through STD Z+5 and reads it back
// through LDD Z+5.
func TestStdLddRoundTrip(t *testing.T) {
	dev := newTestDevice(t)
	dev.regs.setZ(memSRAMStart + 0x10)
	dev.regs[3] = 0x99

	std(dev, uint16(0x8200)|(3<<4)|5) // STD Z+5, r3
	ldd(dev, uint16(0x8000)|(7<<4)|5) // LDD r7, Z+5

	if dev.regs[7] != 0x99 {
		t.Fatalf("r7 = %#x, want 0x99", dev.regs[7])
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	dev := newTestDevice(t)
	dev.sp = memSRAMStart + uint16(len(dev.sramData)) - 1
	dev.regs[9] = 0xAB

	push(dev, uint16(0x920F)|(9<<4))
	dev.regs[9] = 0
	pop(dev, uint16(0x900F)|(9<<4))

	if dev.regs[9] != 0xAB {
		t.Fatalf("r9 = %#x, want 0xAB after push/pop round trip", dev.regs[9])
	}
}

func TestBsetBclr(t *testing.T) {
	dev := newTestDevice(t)
	dev.sreg = 0

	bset(dev, uint16(0x9408)|(uint16(sregTIndex)<<4))
	if !dev.flag(sregT) {
		t.Fatal("expected T flag set after BSET")
	}

	bclr(dev, uint16(0x9488)|(uint16(sregTIndex)<<4))
	if dev.flag(sregT) {
		t.Fatal("expected T flag clear after BCLR")
	}
}

const sregTIndex = 6 // SREG bit index of T, matching sregT = 1<<6

func TestBldBstRoundTrip(t *testing.T) {
	dev := newTestDevice(t)
	dev.regs[4] = 0x80 // bit 7 set
	bst(dev, uint16(0xFA00)|(4<<4)|7)
	if !dev.flag(sregT) {
		t.Fatal("expected T set after BST of a set bit")
	}

	dev.regs[4] = 0
	bld(dev, uint16(0xF800)|(4<<4)|7)
	if dev.regs[4] != 0x80 {
		t.Fatalf("r4 = %#x, want 0x80 after BLD of T=1 into bit 7", dev.regs[4])
	}
}

func TestMul(t *testing.T) {
	dev := newTestDevice(t)
	dev.regs[2] = 200
	dev.regs[3] = 3
	mul(dev, encodeALU(0x9C00, 2, 3))

	if got := dev.regs.R0R1(); got != 600 {
		t.Fatalf("R0:R1 = %d, want 600", got)
	}
	if dev.flag(sregC) {
		t.Fatal("expected carry clear: 600 fits in 16 bits without the top bit set")
	}
}

// TestFmulQ7Shift checks FMUL's defining behaviour: the raw product is
// shifted left one bit (Q7 fixed-point format) before being stored, and C
// reflects the pre-shift top bit.
func TestFmulQ7Shift(t *testing.T) {
	dev := newTestDevice(t)
	dev.regs[16] = 0x80 // 1.0 in Q7
	dev.regs[17] = 0x80 // 1.0 in Q7
	op := uint16(0x0308) | (0 << 4) | 1 // FMUL r16, r17
	fmul(dev, op)

	// 0x80*0x80 = 0x4000; shifted left 1 = 0x8000, with C taken from bit15
	// of the unshifted product (0x4000's bit15 is 0).
	if got := dev.regs.R0R1(); got != 0x8000 {
		t.Fatalf("R0:R1 = %#x, want 0x8000", got)
	}
	if dev.flag(sregC) {
		t.Fatal("expected carry clear: pre-shift product's bit15 was 0")
	}
}

func TestMovwAdiwSbiw(t *testing.T) {
	dev := newTestDevice(t)
	dev.regs[6], dev.regs[7] = 0x34, 0x12
	movw(dev, uint16(0x0100)|(4<<4)|3) // MOVW r8:r9 (d=4*2), r6:r7 (r=3*2)
	if dev.regs.pair(8) != 0x1234 {
		t.Fatalf("r8:r9 = %#x, want 0x1234", dev.regs.pair(8))
	}

	dev.regs.setPair(24, 0x0FFF)
	adiw(dev, uint16(0x9600)|1) // ADIW r25:r24, 1
	if dev.regs.pair(24) != 0x1000 {
		t.Fatalf("r25:r24 = %#x, want 0x1000", dev.regs.pair(24))
	}

	sbiw(dev, uint16(0x9700)|1) // SBIW r25:r24, 1
	if dev.regs.pair(24) != 0x0FFF {
		t.Fatalf("r25:r24 = %#x, want 0x0fff", dev.regs.pair(24))
	}
}
