package avrxmega

import "fmt"

// Block is the contract every peripheral module (and the core's own
// mandatory blocks) implements to attach to a Device: a stable name, an
// I/O range, an optional interrupt-vector range, and reset/step/executeIv
// hooks.
type Block interface {
	Name() string

	// IOBase and IOSize describe the block's range within [0, memIOSize).
	// A block that owns no I/O registers returns IOSize() == 0.
	IOBase() uint16
	IOSize() uint16

	// IVBase and IVCount describe the block's range within [0, ivMaxCount).
	// A block that owns no interrupt vectors returns IVCount() == 0.
	IVBase() uint16
	IVCount() uint16

	// GetIO and SetIO operate on addresses local to the block (already
	// offset by IOBase).
	GetIO(localAddr uint16) uint8
	SetIO(localAddr uint16, v uint8)

	// Reset restores the block's registers to their power-on values.
	Reset()

	// ExecuteIV is invoked by the interrupt controller at the moment a
	// vector owned by this block is acknowledged, after the return PC has
	// been pushed and PC redirected to the vector. localIV is the vector
	// number minus IVBase.
	ExecuteIV(localIV uint16)
}

// Stepper is implemented by blocks that want to be driven by the clock
// scheduler. It is intentionally not part of Block: most peripheral blocks
// schedule their own events directly rather than being polled every tick.
type Stepper interface {
	Step() uint
}

// ConfigError reports a fatal configuration failure: a misaligned memory
// map, a block whose I/O or interrupt-vector range overflows or overlaps
// another block's, or a flash image that is odd-length or too large.
// Devices that fail to construct are not usable.
type ConfigError struct {
	Model string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Model, e.Msg)
}

// blockRegistry is a dense lookup table: two arrays mapping I/O addresses
// and interrupt-vector numbers to their owning Block, plus the
// registration-ordered block sequence used for reset.
type blockRegistry struct {
	ioBlocks [memIOSize]Block
	ivBlocks [ivMaxCount]Block
	blocks   []Block
}

// connect validates the block's ranges against the registry and, if they
// are clear, fills the owning-block tables and appends the block to the
// registration order. Range overflow or overlap with an already-registered
// block is a fatal configuration error.
func (r *blockRegistry) connect(model string, b Block) error {
	ioBase, ioSize := int(b.IOBase()), int(b.IOSize())
	if ioSize > 0 {
		if ioBase+ioSize > memIOSize {
			return &ConfigError{model, fmt.Sprintf("block %q I/O range [%#x,%#x) overflows address space", b.Name(), ioBase, ioBase+ioSize)}
		}
		for a := ioBase; a < ioBase+ioSize; a++ {
			if r.ioBlocks[a] != nil {
				return &ConfigError{model, fmt.Sprintf("block %q I/O address %#x already owned by %q", b.Name(), a, r.ioBlocks[a].Name())}
			}
		}
	}

	ivBase, ivCount := int(b.IVBase()), int(b.IVCount())
	if ivCount > 0 {
		if ivBase+ivCount > ivMaxCount {
			return &ConfigError{model, fmt.Sprintf("block %q IV range [%#x,%#x) overflows vector table", b.Name(), ivBase, ivBase+ivCount)}
		}
		for v := ivBase; v < ivBase+ivCount; v++ {
			if r.ivBlocks[v] != nil {
				return &ConfigError{model, fmt.Sprintf("block %q IV %#x already owned by %q", b.Name(), v, r.ivBlocks[v].Name())}
			}
		}
	}

	for a := ioBase; a < ioBase+ioSize; a++ {
		r.ioBlocks[a] = b
	}
	for v := ivBase; v < ivBase+ivCount; v++ {
		r.ivBlocks[v] = b
	}
	r.blocks = append(r.blocks, b)
	return nil
}

// resetAll resets every registered block in registration order.
func (r *blockRegistry) resetAll() {
	for _, b := range r.blocks {
		b.Reset()
	}
}
