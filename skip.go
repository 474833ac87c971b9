package avrxmega

// JMP, CALL, LDS and STS are the only two-word opcodes; CPSE, SBRC, SBRS,
// SBIC and SBIS all need to recognise one to correctly skip over it: a
// skip over a two-word instruction costs an extra cycle and an extra
// word of PC advance.
const (
	jmpMatch, jmpMask = 0x940C, 0x01F1
	callMatch, callMask = 0x940E, 0x01F1
	ldsMatch, ldsMask = 0x9000, 0x01F0
	stsMatch, stsMask = 0x9200, 0x01F0
)

func isTwoWordOpcode(op uint16) bool {
	return op&^jmpMask == jmpMatch ||
		op&^callMask == callMatch ||
		op&^ldsMask == ldsMatch ||
		op&^stsMask == stsMatch
}

// skipNextInstruction advances pc past the instruction that would execute
// next without executing it, returning the extra cycle this costs beyond
// the skipping instruction's own base cost: 1 for a one-word instruction,
// 2 for a two-word one.
func (d *Device) skipNextInstruction() uint32 {
	op := d.fetchWord()
	if isTwoWordOpcode(op) {
		d.fetchWord()
		return 2
	}
	return 1
}
