package chip8

import (
	"errors"
	"fmt"
)

// Sentinel error kinds the core distinguishes. Use errors.Is to test for
// them; the concrete errors returned also carry the offending address/key
// via fmt.Errorf wrapping.
var (
	// ErrLoadOverflow is returned when a ROM load would write past 0xFFF.
	ErrLoadOverflow = errors.New("chip8: rom load overflows memory")

	// ErrStackOverflow is returned when CALL is executed with SP already at 16.
	ErrStackOverflow = errors.New("chip8: call stack overflow")

	// ErrStackUnderflow is returned when RET is executed with an empty stack.
	ErrStackUnderflow = errors.New("chip8: call stack underflow")

	// ErrBadKey is returned when press/release is given a key outside 0..15.
	ErrBadKey = errors.New("chip8: key index out of range")

	// ErrUnknownOpcode is returned by Step in strict mode when decode finds
	// no matching instruction. In non-strict (default) mode, Step reports
	// it through the Config.OnWarning callback instead of returning it.
	ErrUnknownOpcode = errors.New("chip8: unknown opcode")
)

func loadOverflowErr(addr uint16, n int) error {
	return fmt.Errorf("%w: writing %d bytes at %#04x", ErrLoadOverflow, n, addr)
}

func stackOverflowErr(sp uint8) error {
	return fmt.Errorf("%w: sp=%d", ErrStackOverflow, sp)
}

func stackUnderflowErr(sp uint8) error {
	return fmt.Errorf("%w: sp=%d", ErrStackUnderflow, sp)
}

func badKeyErr(k uint8) error {
	return fmt.Errorf("%w: key=%#x", ErrBadKey, k)
}

func unknownOpcodeErr(w uint16) error {
	return fmt.Errorf("%w: %#04x", ErrUnknownOpcode, w)
}
