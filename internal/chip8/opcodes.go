package chip8

// execute runs the semantics for one decoded instruction. PC has already
// been advanced past the instruction word by the caller (Step), so JP,
// CALL, RET, and the skip opcodes are free to write PC directly.
func (vm *VM) execute(in instruction) error {
	switch in.op {
	case opCLS:
		vm.fb.Clear()
	case opRET:
		return vm.opRET()
	case opJP:
		vm.pc = in.nnn
	case opCALL:
		return vm.opCALL(in.nnn)
	case opSEVxKK:
		if vm.v[in.x] == in.kk {
			vm.pc = (vm.pc + 2) & 0x0FFF
		}
	case opSNEVxKK:
		if vm.v[in.x] != in.kk {
			vm.pc = (vm.pc + 2) & 0x0FFF
		}
	case opSEVxVy:
		if vm.v[in.x] == vm.v[in.y] {
			vm.pc = (vm.pc + 2) & 0x0FFF
		}
	case opLDVxKK:
		vm.v[in.x] = in.kk
	case opADDVxKK:
		vm.v[in.x] = vm.v[in.x] + in.kk
	case opLDVxVy:
		vm.v[in.x] = vm.v[in.y]
	case opOR:
		vm.v[in.x] |= vm.v[in.y]
	case opAND:
		vm.v[in.x] &= vm.v[in.y]
	case opXOR:
		vm.v[in.x] ^= vm.v[in.y]
	case opADDVxVy:
		vm.opADDVxVy(in.x, in.y)
	case opSUB:
		vm.opSUB(in.x, in.y)
	case opSHR:
		vm.opSHR(in.x, in.y)
	case opSUBN:
		vm.opSUBN(in.x, in.y)
	case opSHL:
		vm.opSHL(in.x, in.y)
	case opSNEVxVy:
		if vm.v[in.x] != vm.v[in.y] {
			vm.pc = (vm.pc + 2) & 0x0FFF
		}
	case opLDI:
		vm.i = in.nnn
	case opJPV0:
		vm.pc = (in.nnn + uint16(vm.v[0])) & 0x0FFF
	case opRND:
		vm.v[in.x] = vm.rng() & in.kk
	case opDRW:
		vm.opDRW(in.x, in.y, in.n)
	case opSKP:
		if vm.key.IsDown(vm.v[in.x] & 0x0F) {
			vm.pc = (vm.pc + 2) & 0x0FFF
		}
	case opSKNP:
		if !vm.key.IsDown(vm.v[in.x] & 0x0F) {
			vm.pc = (vm.pc + 2) & 0x0FFF
		}
	case opLDVxDT:
		vm.v[in.x] = vm.dt
	case opLDVxK:
		vm.running = false
		vm.key.beginWait(in.x)
	case opLDDTVx:
		vm.dt = vm.v[in.x]
	case opLDSTVx:
		vm.st = vm.v[in.x]
	case opADDIVx:
		vm.i = (vm.i + uint16(vm.v[in.x])) & 0xFFFF
	case opLDFVx:
		vm.i = 5 * uint16(vm.v[in.x]&0x0F)
	case opLDBVx:
		vm.opLDBVx(in.x)
	case opLDIVx:
		vm.opLDIVx(in.x)
	case opLDVxI:
		vm.opLDVxI(in.x)
	}
	return nil
}

func (vm *VM) opRET() error {
	if vm.sp == 0 {
		return stackUnderflowErr(vm.sp)
	}
	vm.sp--
	vm.pc = vm.stack[vm.sp]
	return nil
}

func (vm *VM) opCALL(nnn uint16) error {
	if vm.sp >= stackDepth {
		return stackOverflowErr(vm.sp)
	}
	vm.stack[vm.sp] = vm.pc
	vm.sp++
	vm.pc = nnn
	return nil
}

// opADDVxVy adds Vy into Vx modulo 256. VF is written last, after the sum
// is stored, so x=0xF stores the carry rather than the sum.
func (vm *VM) opADDVxVy(x, y uint8) {
	sum := uint16(vm.v[x]) + uint16(vm.v[y])
	vm.v[x] = byte(sum)
	if sum > 0xFF {
		vm.v[flagRegister] = 1
	} else {
		vm.v[flagRegister] = 0
	}
}

// opSUB computes Vx - Vy modulo 256; VF is 1 when no borrow occurred
// (Vx >= Vy).
func (vm *VM) opSUB(x, y uint8) {
	vx, vy := vm.v[x], vm.v[y]
	vm.v[x] = vx - vy
	if vx >= vy {
		vm.v[flagRegister] = 1
	} else {
		vm.v[flagRegister] = 0
	}
}

// opSUBN computes Vy - Vx modulo 256; VF is 1 when no borrow occurred
// (Vy >= Vx).
func (vm *VM) opSUBN(x, y uint8) {
	vx, vy := vm.v[x], vm.v[y]
	vm.v[x] = vy - vx
	if vy >= vx {
		vm.v[flagRegister] = 1
	} else {
		vm.v[flagRegister] = 0
	}
}

// opSHR shifts Vx right one bit in place by default, or shifts Vy into Vx
// when Quirks.ShiftUsesVY is set. VF receives the bit shifted out.
func (vm *VM) opSHR(x, y uint8) {
	src := vm.v[x]
	if vm.quirks.ShiftUsesVY {
		src = vm.v[y]
	}
	out := src & 0x01
	vm.v[x] = src >> 1
	vm.v[flagRegister] = out
}

// opSHL shifts Vx left one bit in place, or Vy into Vx under the quirk.
// VF receives the bit shifted out.
func (vm *VM) opSHL(x, y uint8) {
	src := vm.v[x]
	if vm.quirks.ShiftUsesVY {
		src = vm.v[y]
	}
	out := (src >> 7) & 0x01
	vm.v[x] = src << 1
	vm.v[flagRegister] = out
}

// opDRW draws an n-row sprite from memory[I:I+n] at (Vx, Vy) and sets VF
// to the framebuffer's collision result.
func (vm *VM) opDRW(x, y, n uint8) {
	rows := make([]byte, n)
	for row := uint8(0); row < n; row++ {
		rows[row] = vm.memory[vm.addr(uint16(row))]
	}
	collision := vm.fb.Blit(int(vm.v[x]), int(vm.v[y]), rows)
	if collision {
		vm.v[flagRegister] = 1
	} else {
		vm.v[flagRegister] = 0
	}
}

// opLDBVx stores the three base-10 digits of Vx (hundreds, tens, units)
// into memory[I], memory[I+1], memory[I+2].
func (vm *VM) opLDBVx(x uint8) {
	val := vm.v[x]
	vm.memory[vm.addr(0)] = val / 100
	vm.memory[vm.addr(1)] = (val / 10) % 10
	vm.memory[vm.addr(2)] = val % 10
}

// opLDIVx stores V0..Vx into memory starting at I (Fx55). I is left
// unchanged unless Quirks.LoadStoreIncrementsI is set.
func (vm *VM) opLDIVx(x uint8) {
	for n := uint8(0); n <= x; n++ {
		vm.memory[vm.addr(uint16(n))] = vm.v[n]
	}
	if vm.quirks.LoadStoreIncrementsI {
		vm.i += uint16(x) + 1
	}
}

// opLDVxI loads V0..Vx from memory starting at I (Fx65). I is left
// unchanged unless Quirks.LoadStoreIncrementsI is set.
func (vm *VM) opLDVxI(x uint8) {
	for n := uint8(0); n <= x; n++ {
		vm.v[n] = vm.memory[vm.addr(uint16(n))]
	}
	if vm.quirks.LoadStoreIncrementsI {
		vm.i += uint16(x) + 1
	}
}

// addr wraps I+offset to the low 12 bits, keeping every memory access in
// bounds regardless of how far Fx1E has pushed I via its modulo-2^16 add.
func (vm *VM) addr(offset uint16) uint16 {
	return (vm.i + offset) & 0x0FFF
}
