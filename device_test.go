package avrxmega

import "testing"

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	dev, err := NewDevice(ModelATxmega128A1())
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	return dev
}

// asm assembles opcodes into a little-endian flash image.
func asm(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w), byte(w>>8))
	}
	return data
}

func loadAndRun(t *testing.T, dev *Device, words []uint16, steps int) {
	t.Helper()
	if err := dev.LoadFlash(asm(words...)); err != nil {
		t.Fatalf("LoadFlash: %v", err)
	}
	for i := 0; i < steps; i++ {
		dev.Step()
	}
}

// TestArithmeticAndFlags: LDI r16,200; LDI r17,100; ADD r16,r17 should wrap
// to 44 and set C and Z-clear, N-clear (44 is positive).
func TestArithmeticAndFlags(t *testing.T) {
	dev := newTestDevice(t)
	ldi16 := encodeLDI(16, 200)
	ldi17 := encodeLDI(17, 100)
	add := encodeALU(0x0C00, 16, 17) // ADD r16, r17

	loadAndRun(t, dev, []uint16{ldi16, ldi17, add}, 100)

	regs := dev.RegFile()
	if regs[16] != 44 {
		t.Fatalf("r16 = %d, want 44", regs[16])
	}
	if !dev.flag(sregC) {
		t.Fatal("expected carry set on 200+100 wraparound")
	}
	if dev.flag(sregZ) {
		t.Fatal("expected zero flag clear")
	}
	if dev.flag(sregN) {
		t.Fatal("expected negative flag clear (44 is positive)")
	}
}

func encodeLDI(rd uint16, k uint8) uint16 {
	return 0xE000 | (uint16(k)&0xF0)<<4 | ((rd - 16) << 4) | uint16(k&0xF)
}

func encodeALU(base uint16, rd, rr uint16) uint16 {
	return base | (rr&0x10)<<5 | (rd&0x1F)<<4 | (rr & 0xF)
}

// TestBranchTaken: CPI r16,5 with r16==5 sets Z; BRBS Z should then skip the
// next instruction (a write to r20) and land directly on the one after it.
func TestBranchTaken(t *testing.T) {
	dev := newTestDevice(t)
	ldi := encodeLDI(16, 5)
	cpi := encodeCPI(16, 5)
	brbsZ := encodeBRBS(1, 1) // SREG bit index 1 is Z; skip one word forward if set
	skipped := encodeLDI(20, 0xAA)
	landed := encodeLDI(21, 0x55)

	loadAndRun(t, dev, []uint16{ldi, cpi, brbsZ, skipped, landed}, 100)

	regs := dev.RegFile()
	if regs[20] != 0 {
		t.Fatalf("r20 = %#x, want 0 (branch should have skipped this instruction)", regs[20])
	}
	if regs[21] != 0x55 {
		t.Fatalf("r21 = %#x, want 0x55 (the instruction landed on after the branch)", regs[21])
	}
}

func encodeCPI(rd uint16, k uint8) uint16 {
	return 0x3000 | (uint16(k)&0xF0)<<4 | ((rd - 16) << 4) | uint16(k&0xF)
}

func encodeBRBS(s uint16, k int16) uint16 {
	return 0xF000 | (uint16(k)&0x7F)<<3 | (s & 0x7)
}

// TestCallReturn: RCALL to a subroutine that increments r16, then RET.
func TestCallReturn(t *testing.T) {
	dev := newTestDevice(t)
	dev.sp = uint16(len(dev.sramData)) + memSRAMStart - 1

	rcall := uint16(0xD000) | uint16(int16(1)&0x0FFF) // RCALL +1 (skip the NOP into INC)
	nop := uint16(0x0000)
	inc16 := uint16(0x9403) | (16 << 4) // INC r16
	ret := uint16(0x9508)

	// RCALL (3 cycles) + INC (1) + RET (4) = 8 CPU ticks; stepping further
	// would run the NOP and fall back into the subroutine.
	loadAndRun(t, dev, []uint16{rcall, nop, inc16, ret}, 8)

	regs := dev.RegFile()
	if regs[16] != 1 {
		t.Fatalf("r16 = %d, want 1 (INC executed once via the call)", regs[16])
	}
	if dev.pc != 1 {
		t.Fatalf("pc = %d, want 1 (returned just past the RCALL)", dev.pc)
	}
}

// TestSkipOverTwoWordInstruction: CPSE skipping a JMP (a two-word opcode)
// should advance PC by 2 extra words and cost an extra cycle.
func TestSkipOverTwoWordInstruction(t *testing.T) {
	dev := newTestDevice(t)
	ldi0a := encodeLDI(16, 7)
	ldi0b := encodeLDI(17, 7)
	cpse := encodeALU(0x1000, 16, 17)
	jmpLo, jmpHi := encodeJMP(0x1234)
	marker := encodeLDI(20, 0x55)

	if err := dev.LoadFlash(asm(ldi0a, ldi0b, cpse, jmpLo, jmpHi, marker)); err != nil {
		t.Fatalf("LoadFlash: %v", err)
	}
	for i := 0; i < 10 && dev.pc < 6; i++ {
		dev.Step()
	}

	regs := dev.RegFile()
	if regs[20] != 0x55 {
		t.Fatalf("r20 = %#x, want 0x55 (marker instruction should still execute after the skip)", regs[20])
	}
	if dev.pc < 6 {
		t.Fatalf("pc = %d, want >= 6 (past the two-word JMP and the marker)", dev.pc)
	}
}

func encodeJMP(wordAddr uint32) (uint16, uint16) {
	high := uint16((wordAddr >> 16) & 0x3F)
	op := jmpMatch | (high>>1)<<4 | (high & 0x1)
	return op, uint16(wordAddr & 0xFFFF)
}

// TestClockRescale exercises the CLK block end to end: writing PSCTRL
// changes the CPU domain's scale, which the scheduler must pick up without
// losing track of the already-scheduled CPU step event.
func TestClockRescale(t *testing.T) {
	dev := newTestDevice(t)
	if err := dev.LoadFlash(asm(0x0000)); err != nil { // NOP forever
		t.Fatalf("LoadFlash: %v", err)
	}

	dev.writeIO(clkIOBase+clkRegPSCTRL, 0x04) // psadiv=1 => prescalerA=2
	if dev.scaleOf(ClockCPU) != 2 {
		t.Fatalf("scaleOf(CPU) = %d, want 2", dev.scaleOf(ClockCPU))
	}

	before := dev.pc
	dev.Step()
	if dev.pc != before+1 {
		t.Fatalf("pc after one Step = %d, want %d", dev.pc, before+1)
	}
	if dev.ClkSysTick() != 2 {
		t.Fatalf("ClkSysTick after one CPU tick at scale 2 = %d, want 2", dev.ClkSysTick())
	}
}
