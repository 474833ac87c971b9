package avrxmega

import "github.com/rs/zerolog"

// Logger is the severity-leveled logging channel error handling is routed
// through: configuration errors are returned directly, but invariant
// violations and guest-program faults are recorded here and the
// simulation continues with a defined fallback value. The interface keeps
// the core from importing a concrete logging backend directly.
type Logger interface {
	// Warn records a guest-program fault: stubbed EEPROM/external-SRAM
	// access, I/O write while CLK is locked, unimplemented SLEEP/DES/SPM.
	Warn(format string, args ...any)
	// Error records a more serious guest-program fault: unmapped data
	// address, unowned I/O address, unknown opcode.
	Error(format string, args ...any)
	// Critical records a programming-bug-class invariant violation:
	// RETI with no active level, undefined post-increment/pre-decrement
	// pointer aliasing, EIJMP/EICALL on a device with <=128KiB flash.
	Critical(format string, args ...any)
}

// nopLogger discards everything; used when NewDevice is not given a logger.
type nopLogger struct{}

func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}
func (nopLogger) Critical(string, ...any) {}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface, the
// default backend wired by cmd/avrsim.
type ZerologAdapter struct {
	L zerolog.Logger
}

func (z ZerologAdapter) Warn(format string, args ...any) {
	z.L.Warn().Msgf(format, args...)
}

func (z ZerologAdapter) Error(format string, args ...any) {
	z.L.Error().Msgf(format, args...)
}

func (z ZerologAdapter) Critical(format string, args ...any) {
	z.L.Error().Str("severity", "critical").Msgf(format, args...)
}
