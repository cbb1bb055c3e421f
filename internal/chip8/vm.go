// Package chip8 implements the CHIP-8 virtual machine: the decode/execute
// engine, register and memory model, sprite rasterizer, and input/timer
// coupling. Chip-8 used to be implemented on 4k systems like the Telmac
// 1800 and Cosmac VIP, where the interpreter itself occupied the first 512
// bytes of memory. Here, as in most modern implementations, the interpreter
// runs natively outside that 4K space, so the font table lives at
// 0x000-0x04F and programs load at 0x200.
//
// The package is deliberately free of I/O: ROM file loading, rendering,
// keyboard scancode mapping, and the wall clock are all the host's job.
// The exported methods of VM (Load, LoadROM, SetPC, Step, Tick60Hz, Press,
// Release, Framebuffer, SoundActive) are the surface a host collaborator
// drives.
package chip8

import "fmt"

const (
	memorySize = 4096
	stackDepth = 16
	numRegs    = 16

	// ProgramStart is the conventional load address for CHIP-8 ROMs.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits between ProgramStart and 0xFFF.
	MaxROMSize = 0xFFF - ProgramStart + 1

	flagRegister = 0xF
)

// Quirks toggles two historically ambiguous opcode behaviors that differ
// across CHIP-8 interpreters. Both default to false, which selects the
// behavior this package documents as its primary semantics.
type Quirks struct {
	// ShiftUsesVY makes 8xy6/8xyE shift Vy into Vx instead of shifting Vx
	// in place.
	ShiftUsesVY bool

	// LoadStoreIncrementsI makes Fx55/Fx65 leave I set to I+x+1 instead of
	// unchanged.
	LoadStoreIncrementsI bool
}

// Config configures a new VM.
type Config struct {
	Quirks Quirks

	// RNG supplies the random byte consumed by Cxkk. If nil, a
	// math/rand-seeded source is used. Tests should inject a deterministic
	// source.
	RNG func() uint8

	// Strict, when true, makes Step return ErrUnknownOpcode for
	// undecodable instructions instead of treating them as a no-op.
	Strict bool

	// OnWarning, if set, is called with a non-fatal diagnostic (currently
	// only unknown-opcode reports in non-strict mode) instead of the VM
	// printing it directly.
	OnWarning func(format string, args ...interface{})
}

// VM is the CHIP-8 virtual machine state.
type VM struct {
	memory [memorySize]byte

	v [numRegs]byte
	i uint16

	pc uint16
	sp uint8

	stack [stackDepth]uint16

	dt byte
	st byte

	fb  Framebuffer
	key Keypad

	running bool

	rng       func() uint8
	quirks    Quirks
	strict    bool
	onWarning func(format string, args ...interface{})

	lastOpcode uint16
}

// New constructs a VM with the font table loaded and PC at ProgramStart.
func New(cfg Config) *VM {
	vm := &VM{
		pc:      ProgramStart,
		running: true,
		rng:     cfg.RNG,
		quirks:  cfg.Quirks,
		strict:  cfg.Strict,
	}
	if vm.rng == nil {
		vm.rng = defaultRNG()
	}
	vm.onWarning = cfg.OnWarning
	if vm.onWarning == nil {
		vm.onWarning = func(format string, args ...interface{}) {
			fmt.Printf(format+"\n", args...)
		}
	}
	copy(vm.memory[fontBase:], fontSet[:])
	return vm
}

// Load writes bytes into memory starting at addr. It rejects writes that
// would extend past 0xFFF.
func (vm *VM) Load(addr uint16, data []byte) error {
	if int(addr)+len(data) > memorySize {
		return loadOverflowErr(addr, len(data))
	}
	copy(vm.memory[addr:], data)
	return nil
}

// LoadROM loads a program image at the conventional start address, 0x200,
// rejecting images larger than the 3584 bytes that fit before 0xFFF.
func (vm *VM) LoadROM(data []byte) error {
	if len(data) > MaxROMSize {
		return loadOverflowErr(ProgramStart, len(data))
	}
	return vm.Load(ProgramStart, data)
}

// SetPC sets the program counter.
func (vm *VM) SetPC(addr uint16) {
	vm.pc = addr & 0x0FFF
}

// Step fetches, decodes, and executes one instruction. If the VM is parked
// in a key-wait (see Fx0A), Step returns immediately and does nothing.
//
// Unknown opcodes are non-fatal by default: they are reported through
// OnWarning and otherwise treated as a no-op. In Config.Strict mode they
// are returned as ErrUnknownOpcode instead.
func (vm *VM) Step() error {
	if !vm.running {
		return nil
	}

	w := uint16(vm.memory[vm.pc])<<8 | uint16(vm.memory[(vm.pc+1)&0x0FFF])
	vm.lastOpcode = w
	vm.pc = (vm.pc + 2) & 0x0FFF

	in := decode(w)
	if in.op == opUnknown {
		if vm.strict {
			return unknownOpcodeErr(w)
		}
		vm.onWarning("chip8: unknown opcode %#04x at %#04x", w, (vm.pc-2)&0x0FFF)
		return nil
	}
	return vm.execute(in)
}

// Tick60Hz decrements the delay and sound timers by one each, if nonzero.
// The host is responsible for calling this at a real 60 Hz cadence,
// independent of how often Step is called.
func (vm *VM) Tick60Hz() {
	if vm.dt > 0 {
		vm.dt--
	}
	if vm.st > 0 {
		vm.st--
	}
}

// Press marks key k as held. If the VM is parked in a key-wait and this is
// a fresh press, it stores k into the waiting register and resumes
// execution.
func (vm *VM) Press(k uint8) error {
	if k >= numRegs {
		return badKeyErr(k)
	}
	if !vm.running {
		captured, ok := vm.key.Press(k)
		if ok {
			vm.v[vm.key.waitTarget] = captured
			vm.running = true
		}
		return nil
	}
	vm.key.Press(k)
	return nil
}

// Release marks key k as not held. Release never affects a pending
// key-wait.
func (vm *VM) Release(k uint8) error {
	if k >= numRegs {
		return badKeyErr(k)
	}
	vm.key.Release(k)
	return nil
}

// Framebuffer returns a row-major view of the 64x32 display, bit 63 of
// each row being the leftmost pixel.
func (vm *VM) Framebuffer() [32]uint64 {
	return vm.fb.Rows()
}

// SoundActive reports whether the sound timer is currently nonzero, i.e.
// whether the host should be producing a beep.
func (vm *VM) SoundActive() bool {
	return vm.st > 0
}

// Running reports whether the CPU is stepping normally (false while
// parked in an Fx0A key-wait).
func (vm *VM) Running() bool {
	return vm.running
}

// DelayTimer returns the current value of DT, mainly for diagnostics.
func (vm *VM) DelayTimer() byte { return vm.dt }

// SoundTimer returns the current value of ST, mainly for diagnostics.
func (vm *VM) SoundTimer() byte { return vm.st }

// V returns the value of general-purpose register Vn.
func (vm *VM) V(n uint8) byte { return vm.v[n&0x0F] }

// I returns the current value of the address register.
func (vm *VM) I() uint16 { return vm.i }

// PC returns the current program counter.
func (vm *VM) PC() uint16 { return vm.pc }

// SP returns the current stack pointer (count of occupied call-stack slots).
func (vm *VM) SP() uint8 { return vm.sp }

// Memory returns the byte at addr, mainly for diagnostics and tests.
func (vm *VM) Memory(addr uint16) byte { return vm.memory[addr] }

// IsKeyDown reports whether key k is currently held.
func (vm *VM) IsKeyDown(k uint8) bool { return vm.key.IsDown(k) }

// defaultRNG returns a production RNG seeded from OS entropy via
// math/rand's global source.
func defaultRNG() func() uint8 {
	return func() uint8 {
		return uint8(randIntn(256))
	}
}
