package avrxmega

import "fmt"

// ModelConf is the part-specific sizing a Device is constructed from. It
// excludes anything derivable from other fields (the app size and
// boot-section start are computed, not stored).
type ModelConf struct {
	Name string

	FlashSize     uint32 // total flash size, in bytes
	FlashPageSize uint32
	FlashBootSize uint32 // size of the boot section, in bytes

	MemEEPROMSize uint32
	MemSRAMSize   uint32
	MemExSRAMSize uint32 // 0 if the part has no external SRAM
}

// ModelATxmega128A1 describes a concrete part: 128KiB flash, 8KiB SRAM,
// 2KiB EEPROM, 4KiB boot section.
func ModelATxmega128A1() ModelConf {
	return ModelConf{
		Name:          "ATxmega128A1",
		FlashSize:     0x20000,
		FlashPageSize: 0x100,
		FlashBootSize: 0x1000,
		MemEEPROMSize: 0x800,
		MemSRAMSize:   0x2000,
	}
}

func (m ModelConf) validate() error {
	if m.FlashPageSize == 0 || m.FlashPageSize%2 != 0 {
		return &ConfigError{m.Name, "flash_page_size must be even and non-zero"}
	}
	if m.FlashSize%m.FlashPageSize != 0 {
		return &ConfigError{m.Name, "flash_size must be a multiple of flash_page_size"}
	}
	if m.FlashBootSize%m.FlashPageSize != 0 {
		return &ConfigError{m.Name, "flash_boot_size must be a multiple of flash_page_size"}
	}
	flashAppSize := m.FlashSize - m.FlashBootSize
	if m.FlashBootSize >= flashAppSize {
		return &ConfigError{m.Name, "flash_boot_size must be smaller than flash_app_size"}
	}
	if m.MemEEPROMSize > memIOSize {
		return &ConfigError{m.Name, "mem_eeprom_size must be at most 0x1000"}
	}
	if uint64(m.MemSRAMSize) >= uint64(memMaxSize)-memSRAMStart {
		return &ConfigError{m.Name, "mem_sram_size too large for the data address space"}
	}
	return nil
}

// Device is the process-wide emulator instance: architectural state plus
// the clock scheduler, interrupt controller and block registry that drive
// it.
type Device struct {
	model ModelConf
	log   Logger

	flashData []uint16 // word-indexed; initialised to 0xFFFF
	sramData  []byte

	regs regFile
	sp   uint16
	pc   uint32 // word address; 17..22 significant bits depending on flash size
	sreg uint8

	rampd, rampx, rampy, rampz, eind uint8
	rampMask, eindMask               uint8

	ccpIoregCycles, ccpSpmCycles uint8

	instructionCycles        uint // cycle debt remaining from the last instruction
	interruptWaitInstruction bool // true until one instruction retires after a dispatch
	breaked                  bool // sticky BREAK flag, cleared at the start of every CPU step

	clkSysTick uint32

	blockRegistry
	interrupts *interruptController
	sched      *scheduler

	cpu  *cpuBlock
	clk  *clkBlock
	pmic *pmicBlock
	osc  *oscBlock
	gpio *gpiorBlock

	stepCPUHandle EventHandle
}

// Option configures a Device at construction time.
type Option func(*Device)

// WithLogger injects the logging channel error handling is routed through.
// Devices default to a no-op logger.
func WithLogger(l Logger) Option {
	return func(d *Device) { d.log = l }
}

// NewDevice validates the model configuration, allocates flash and SRAM,
// constructs the mandatory blocks (CPU, OSC, CLK, PMIC, GPIOR) and
// registers them, then resets the device. Returns a ConfigError if the
// memory map is invalid or a mandatory block's ranges overlap (which,
// since these ranges are fixed, would only happen from a programming
// mistake in this package, not guest input).
func NewDevice(model ModelConf, opts ...Option) (*Device, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}

	d := &Device{
		model:     model,
		log:       nopLogger{},
		flashData: make([]uint16, model.FlashSize/2),
		sramData:  make([]byte, model.MemSRAMSize),
	}
	for i := range d.flashData {
		d.flashData[i] = 0xFFFF
	}

	d.rampMask = maskForAddressSpace(memSRAMStart + model.MemSRAMSize + model.MemExSRAMSize)
	d.eindMask = maskForAddressSpace(model.FlashSize)

	for _, opt := range opts {
		opt(d)
	}

	d.interrupts = newInterruptController()
	d.sched = newScheduler(d.scaleOf)

	d.cpu = &cpuBlock{dev: d}
	d.clk = &clkBlock{dev: d}
	d.pmic = &pmicBlock{}
	d.osc = &oscBlock{}
	d.gpio = &gpiorBlock{}

	for _, b := range []Block{d.cpu, d.osc, d.clk, d.pmic, d.gpio} {
		if err := d.connect(model.Name, b); err != nil {
			return nil, err
		}
	}

	d.Reset()
	return d, nil
}

// Reset restores blocks, the scheduler and the register file to power-on
// state. SRAM is preserved across Reset.
//
// The scheduler is cleared before blocks are reset; any event handle a
// block held from before Reset becomes stale, which the scheduler's
// generation bump on reset resolves without requiring blocks to
// re-acquire handles through their own Reset hook before the CPU step is
// rescheduled.
func (d *Device) Reset() {
	d.clkSysTick = 0
	d.sched.reset()

	// CLK is reset first so that the CPU step's initial schedule() call
	// below computes correct domain scales.
	d.clk.Reset()

	d.stepCPUHandle = d.sched.schedule(ClockCPU, d.stepCPUEvent, 1, 100)

	d.resetAll()

	// Any block that wants a periodic callback rather than scheduling its
	// own events gets one on the PER domain here.
	for _, b := range d.blocks {
		if s, ok := b.(Stepper); ok {
			d.sched.schedule(ClockPER, func() uint { return s.Step() }, 1, 50)
		}
	}

	d.interrupts.reset()

	d.regs = regFile{}
	d.instructionCycles = 0
	d.interruptWaitInstruction = false
	d.breaked = false
}

// Step advances the scheduler to the next due event and drains every event
// due at that tick. The scheduler is asserted non-empty: the CPU step event
// is always scheduled after Reset.
func (d *Device) Step() {
	d.sched.step()
	d.clkSysTick = uint32(d.sched.currentTick())
}

// scaleOf returns the number of SYS ticks per tick of the given domain,
// derived from the CLK block's prescaler fields.
func (d *Device) scaleOf(domain ClockDomain) uint64 {
	a, b, c := uint64(d.clk.prescalerA), uint64(d.clk.prescalerB), uint64(d.clk.prescalerC)
	switch domain {
	case ClockSYS:
		return 1
	case ClockCPU, ClockPER:
		return a * b * c
	case ClockPER2:
		return a * b
	case ClockPER4:
		return a
	case ClockASY:
		d.log.Warn("ASY clock domain is unsupported, using scale 1")
		return 1
	default:
		return 1
	}
}

// onClockConfigChange is invoked by the CLK block after a prescaler write
// takes effect.
func (d *Device) onClockConfigChange() {
	d.sched.onClockConfigChange()
}

// Schedule and Unschedule are the Device-facing entry points blocks use to
// drive their own timing.
func (d *Device) Schedule(domain ClockDomain, cb EventCallback, ticks uint, priority int) EventHandle {
	return d.sched.schedule(domain, cb, ticks, priority)
}

func (d *Device) Unschedule(h EventHandle) {
	if !d.sched.unschedule(h) && h.gen == d.sched.gen {
		d.log.Critical("unschedule of unknown event handle")
	}
}

// flashWords returns the flash size in 16-bit words.
func (d *Device) flashWords() uint32 { return uint32(len(d.flashData)) }

// flashBootStart returns the word address the boot section starts at.
func (d *Device) flashBootStart() uint32 {
	return (d.model.FlashSize - d.model.FlashBootSize) / 2
}

// returnPCWidth is 2 bytes when flash fits in <=128KiB (17-bit PC or
// less), else 3 bytes.
func (d *Device) returnPCWidth() int {
	if d.model.FlashSize <= 0x20000 {
		return 2
	}
	return 3
}

// pushReturnPC pushes a word-address PC to the stack at the width the
// flash size demands, decrementing SP accordingly. Shared by CALL-family
// instructions and interrupt entry.
func (d *Device) pushReturnPC(pc uint32) {
	switch d.returnPCWidth() {
	case 2:
		d.pushByte(uint8(pc))
		d.pushByte(uint8(pc >> 8))
	default:
		d.pushByte(uint8(pc))
		d.pushByte(uint8(pc >> 8))
		d.pushByte(uint8(pc >> 16))
	}
}

// popReturnPC pops a return PC matching the flash-size-selected width.
func (d *Device) popReturnPC() uint32 {
	switch d.returnPCWidth() {
	case 2:
		hi := uint32(d.popByte())
		lo := uint32(d.popByte())
		return lo | hi<<8
	default:
		hi := uint32(d.popByte())
		mid := uint32(d.popByte())
		lo := uint32(d.popByte())
		return lo | mid<<8 | hi<<16
	}
}

// pushByte and popByte implement the AVR PUSH/POP stack convention: PUSH
// writes *sp then decrements; POP increments sp then reads. sp is expected
// to already point one below the top of stack.
func (d *Device) pushByte(v uint8) {
	d.writeData(uint32(d.sp), v)
	d.sp--
}

func (d *Device) popByte() uint8 {
	d.sp++
	return d.readData(uint32(d.sp))
}

// --- Debug/inspection accessors: read/write helpers for cross-block
// peeks, plus extras for a future debug adapter ---

func (d *Device) RegFile() [32]uint8 { return [32]uint8(d.regs) }
func (d *Device) SREG() uint8        { return d.sreg }
func (d *Device) SP() uint16         { return d.sp }
func (d *Device) PC() uint32         { return d.pc }
func (d *Device) Breaked() bool      { return d.breaked }
func (d *Device) ClkSysTick() uint32 { return d.clkSysTick }

func (d *Device) SetSREG(v uint8) { d.sreg = v }
func (d *Device) SetSP(sp uint16) { d.sp = sp }

// SetPC sets the program counter directly, for debug use. Out-of-range
// values raise rather than log.
func (d *Device) SetPC(pc uint32) error {
	if pc >= d.flashWords() {
		return fmt.Errorf("avrxmega: SetPC %#x out of range for %d-word flash", pc, d.flashWords())
	}
	d.pc = pc
	return nil
}

// ReadDataMem and WriteDataMem expose the address-space router for
// external tooling (debug adapters, tests).
func (d *Device) ReadDataMem(addr uint32) uint8       { return d.readData(addr) }
func (d *Device) WriteDataMem(addr uint32, v uint8)   { d.writeData(addr, v) }
func (d *Device) FlashData() []uint16                 { return d.flashData }
