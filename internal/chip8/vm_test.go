package chip8

import "testing"

func newTestVM(rng func() uint8) *VM {
	return New(Config{RNG: rng})
}

func TestNewLoadsFontAndPC(t *testing.T) {
	vm := newTestVM(nil)
	if vm.PC() != ProgramStart {
		t.Errorf("PC = %#x, want %#x", vm.PC(), ProgramStart)
	}
	if vm.Memory(0) != 0xF0 {
		t.Errorf("font not loaded, memory[0] = %#x", vm.Memory(0))
	}
	if vm.SP() != 0 {
		t.Errorf("SP = %d, want 0", vm.SP())
	}
}

func TestLoadROMRejectsOverflow(t *testing.T) {
	vm := newTestVM(nil)
	tooBig := make([]byte, MaxROMSize+1)
	if err := vm.LoadROM(tooBig); err == nil {
		t.Fatal("expected LoadOverflow, got nil")
	}
	ok := make([]byte, MaxROMSize)
	if err := vm.LoadROM(ok); err != nil {
		t.Fatalf("unexpected error loading max-size rom: %v", err)
	}
}

func TestLoadRejectsOverflow(t *testing.T) {
	vm := newTestVM(nil)
	if err := vm.Load(0xFFE, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected LoadOverflow")
	}
	if err := vm.Load(0xFFD, []byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// load and jump.
func TestScenarioLoadAndJump(t *testing.T) {
	vm := newTestVM(nil)
	rom := []byte{0x12, 0x04, 0x00, 0x00, 0x60, 0x42}
	if err := vm.LoadROM(rom); err != nil {
		t.Fatal(err)
	}

	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.PC() != 0x204 {
		t.Fatalf("PC after JP = %#x, want 0x204", vm.PC())
	}

	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.V(0) != 0x42 {
		t.Errorf("V0 = %#x, want 0x42", vm.V(0))
	}
	if vm.PC() != 0x206 {
		t.Errorf("PC after LD Vx = %#x, want 0x206", vm.PC())
	}
}

// scenario 2: call/return.
func TestScenarioCallReturn(t *testing.T) {
	vm := newTestVM(nil)
	rom := []byte{0x22, 0x06, 0x00, 0x00, 0x00, 0x00, 0x00, 0xEE}
	if err := vm.LoadROM(rom); err != nil {
		t.Fatal(err)
	}

	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.PC() != 0x206 || vm.SP() != 1 {
		t.Fatalf("after CALL: PC=%#x SP=%d, want PC=0x206 SP=1", vm.PC(), vm.SP())
	}

	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.PC() != 0x202 || vm.SP() != 0 {
		t.Fatalf("after RET: PC=%#x SP=%d, want PC=0x202 SP=0", vm.PC(), vm.SP())
	}
}

func TestCallDepthLimit(t *testing.T) {
	vm := newTestVM(nil)
	for i := 0; i < stackDepth; i++ {
		if err := vm.opCALL(0x300); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if err := vm.opCALL(0x300); err == nil {
		t.Fatal("expected StackOverflow on 17th call")
	}
}

func TestRetUnderflow(t *testing.T) {
	vm := newTestVM(nil)
	if err := vm.opRET(); err == nil {
		t.Fatal("expected StackUnderflow")
	}
}

// scenario 3: flag semantics.
func TestScenarioAddCarry(t *testing.T) {
	vm := newTestVM(nil)
	vm.v[1] = 0xFF
	vm.v[2] = 0x01
	vm.opADDVxVy(1, 2)
	if vm.v[1] != 0x00 || vm.v[flagRegister] != 1 {
		t.Errorf("V1=%#x VF=%d, want V1=0x00 VF=1", vm.v[1], vm.v[flagRegister])
	}

	vm.v[1] = 0x01
	vm.v[2] = 0x02
	vm.opSUB(1, 2)
	if vm.v[1] != 0xFF || vm.v[flagRegister] != 0 {
		t.Errorf("V1=%#x VF=%d, want V1=0xff VF=0", vm.v[1], vm.v[flagRegister])
	}
}

func TestAddVxVyCarryWithXEqualsFlagRegister(t *testing.T) {
	vm := newTestVM(nil)
	vm.v[0xF] = 0xFF
	vm.v[1] = 0x02
	vm.opADDVxVy(0xF, 1)
	if vm.v[0xF] != 1 {
		t.Errorf("VF = %d, want 1 (carry), not the masked sum", vm.v[0xF])
	}
}

// scenario 4: draw with collision.
func TestScenarioDrawCollision(t *testing.T) {
	vm := newTestVM(nil)
	if err := vm.Load(0x300, []byte{0xFF, 0x81, 0xFF}); err != nil {
		t.Fatal(err)
	}
	vm.i = 0x300
	vm.v[0] = 0
	vm.v[1] = 0

	vm.opDRW(0, 1, 3)
	if vm.v[flagRegister] != 0 {
		t.Fatalf("first draw: VF=%d, want 0", vm.v[flagRegister])
	}
	rows := vm.Framebuffer()
	want := [3]uint64{0xFF, 0x81, 0xFF}
	for r, w := range want {
		if rows[r]>>(64-8) != w {
			t.Errorf("row %d high byte = %#x, want %#x", r, rows[r]>>(64-8), w)
		}
	}

	vm.opDRW(0, 1, 3)
	if vm.v[flagRegister] != 1 {
		t.Fatalf("second draw: VF=%d, want 1 (collision)", vm.v[flagRegister])
	}
	after := vm.Framebuffer()
	for _, row := range after[:3] {
		if row != 0 {
			t.Errorf("row not cleared after second XOR draw: %#x", row)
		}
	}
}

func TestDrawWrapCollision(t *testing.T) {
	vm := newTestVM(nil)
	if err := vm.Load(0x300, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}); err != nil {
		t.Fatal(err)
	}
	vm.i = 0x300
	vm.v[0] = 60
	vm.v[1] = 30
	vm.opDRW(0, 1, 5)
	if vm.v[flagRegister] != 0 {
		t.Fatalf("first wrapped draw should not collide, VF=%d", vm.v[flagRegister])
	}
	vm.opDRW(0, 1, 5)
	if vm.v[flagRegister] != 1 {
		t.Fatalf("second wrapped draw should collide, VF=%d", vm.v[flagRegister])
	}
}

// scenario 5: BCD.
func TestScenarioBCD(t *testing.T) {
	vm := newTestVM(nil)
	vm.v[5] = 255
	vm.i = 0x400
	vm.opLDBVx(5)
	if vm.Memory(0x400) != 2 || vm.Memory(0x401) != 5 || vm.Memory(0x402) != 5 {
		t.Errorf("BCD digits = %d,%d,%d, want 2,5,5", vm.Memory(0x400), vm.Memory(0x401), vm.Memory(0x402))
	}
}

func TestBCDRoundTripsForAnyByte(t *testing.T) {
	vm := newTestVM(nil)
	vm.i = 0x500
	for v := 0; v <= 255; v++ {
		vm.v[0] = byte(v)
		vm.opLDBVx(0)
		h, te, u := vm.Memory(0x500), vm.Memory(0x501), vm.Memory(0x502)
		if int(h) > 9 || int(te) > 9 || int(u) > 9 {
			t.Fatalf("digit out of range for %d: %d %d %d", v, h, te, u)
		}
		if int(h)*100+int(te)*10+int(u) != v {
			t.Fatalf("BCD(%d) = %d %d %d, does not reconstruct", v, h, te, u)
		}
	}
}

// scenario 6: key-wait.
func TestScenarioKeyWait(t *testing.T) {
	vm := newTestVM(nil)
	if err := vm.Load(0x200, []byte{0xF3, 0x0A}); err != nil {
		t.Fatal(err)
	}

	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.Running() {
		t.Fatal("expected VM parked in key-wait")
	}
	if vm.PC() != 0x202 {
		t.Errorf("PC = %#x, want 0x202", vm.PC())
	}

	// further steps are no-ops
	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.PC() != 0x202 {
		t.Errorf("step during wait advanced PC to %#x", vm.PC())
	}

	if err := vm.Press(0xA); err != nil {
		t.Fatal(err)
	}
	if vm.V(3) != 0x0A {
		t.Errorf("V3 = %#x, want 0x0a", vm.V(3))
	}
	if !vm.Running() {
		t.Fatal("expected VM resumed after keypress")
	}
}

func TestPressRejectsBadKey(t *testing.T) {
	vm := newTestVM(nil)
	if err := vm.Press(16); err == nil {
		t.Fatal("expected BadKey")
	}
	if err := vm.Release(200); err == nil {
		t.Fatal("expected BadKey")
	}
}

func TestPressReleaseRoundTrip(t *testing.T) {
	vm := newTestVM(nil)
	for k := uint8(0); k < 16; k++ {
		if err := vm.Press(k); err != nil {
			t.Fatal(err)
		}
		if !vm.IsKeyDown(k) {
			t.Errorf("key %x not down after press", k)
		}
		if err := vm.Release(k); err != nil {
			t.Fatal(err)
		}
		if vm.IsKeyDown(k) {
			t.Errorf("key %x still down after release", k)
		}
	}
}

func TestFx1EWrapsIWithoutError(t *testing.T) {
	vm := newTestVM(nil)
	vm.i = 0xFFFF
	vm.v[0] = 2
	if err := vm.execute(instruction{op: opADDIVx, x: 0}); err != nil {
		t.Fatal(err)
	}
	if vm.i != 1 {
		t.Errorf("I = %#x, want 1 (wrapped)", vm.i)
	}
}

func TestLoadStoreRoundTripDoesNotBumpIByDefault(t *testing.T) {
	vm := newTestVM(nil)
	for n := 0; n < 16; n++ {
		vm.v[n] = byte(n * 7)
	}
	vm.i = 0x400
	vm.opLDIVx(0xF)
	if vm.i != 0x400 {
		t.Fatalf("I changed after Fx55 without quirk: %#x", vm.i)
	}

	for n := 0; n < 16; n++ {
		vm.v[n] = 0
	}
	vm.opLDVxI(0xF)
	if vm.i != 0x400 {
		t.Fatalf("I changed after Fx65 without quirk: %#x", vm.i)
	}
	for n := 0; n < 16; n++ {
		if vm.v[n] != byte(n*7) {
			t.Errorf("V%d = %d, want %d after round trip", n, vm.v[n], n*7)
		}
	}
}

func TestLoadStoreIncrementsIQuirk(t *testing.T) {
	vm := New(Config{Quirks: Quirks{LoadStoreIncrementsI: true}})
	vm.i = 0x400
	vm.v[0] = 1
	vm.v[1] = 2
	vm.opLDIVx(1)
	if vm.i != 0x402 {
		t.Errorf("I = %#x, want 0x402 with LoadStoreIncrementsI quirk", vm.i)
	}
}

func TestShrInPlaceDefault(t *testing.T) {
	vm := newTestVM(nil)
	vm.v[1] = 0x03
	vm.opSHR(1, 2)
	if vm.v[1] != 0x01 || vm.v[flagRegister] != 1 {
		t.Errorf("V1=%#x VF=%d, want V1=1 VF=1", vm.v[1], vm.v[flagRegister])
	}
}

func TestShrUsesVyQuirk(t *testing.T) {
	vm := New(Config{Quirks: Quirks{ShiftUsesVY: true}})
	vm.v[2] = 0x05
	vm.opSHR(1, 2)
	if vm.v[1] != 0x02 || vm.v[flagRegister] != 1 {
		t.Errorf("V1=%#x VF=%d, want V1=2 VF=1", vm.v[1], vm.v[flagRegister])
	}
}

func TestRndMasksInjectedByte(t *testing.T) {
	vm := newTestVM(func() uint8 { return 0xFF })
	if err := vm.execute(instruction{op: opRND, x: 0, kk: 0x0F}); err != nil {
		t.Fatal(err)
	}
	if vm.v[0] != 0x0F {
		t.Errorf("V0 = %#x, want 0x0f", vm.v[0])
	}
}

func TestUnknownOpcodeIsNonFatalByDefault(t *testing.T) {
	var warned bool
	vm := New(Config{OnWarning: func(string, ...interface{}) { warned = true }})
	if err := vm.Load(0x200, []byte{0x00, 0x01}); err != nil {
		t.Fatal(err)
	}
	if err := vm.Step(); err != nil {
		t.Fatalf("unknown opcode should be non-fatal by default, got %v", err)
	}
	if !warned {
		t.Error("expected OnWarning to be invoked")
	}
}

func TestUnknownOpcodeIsFatalInStrictMode(t *testing.T) {
	vm := New(Config{Strict: true})
	if err := vm.Load(0x200, []byte{0x00, 0x01}); err != nil {
		t.Fatal(err)
	}
	if err := vm.Step(); err == nil {
		t.Fatal("expected ErrUnknownOpcode in strict mode")
	}
}

func TestTick60HzDecrementsTimers(t *testing.T) {
	vm := newTestVM(nil)
	vm.dt = 2
	vm.st = 1
	vm.Tick60Hz()
	if vm.DelayTimer() != 1 || vm.SoundTimer() != 0 {
		t.Errorf("DT=%d ST=%d after first tick, want 1,0", vm.DelayTimer(), vm.SoundTimer())
	}
	if vm.SoundActive() {
		t.Error("SoundActive should be false once ST reaches 0")
	}
	vm.Tick60Hz()
	if vm.DelayTimer() != 0 {
		t.Errorf("DT=%d after second tick, want 0", vm.DelayTimer())
	}
	vm.Tick60Hz()
	if vm.DelayTimer() != 0 {
		t.Error("DT should not underflow below 0")
	}
}

func TestPCStaysEvenAndInRangeAcrossSteps(t *testing.T) {
	vm := newTestVM(nil)
	// JP through a chain of addresses, including the 0x000 boundary case.
	rom := []byte{0x10, 0x00}
	if err := vm.Load(0x200, rom); err != nil {
		t.Fatal(err)
	}
	if err := vm.Load(0x000, []byte{0x62, 0x01}); err != nil {
		t.Fatal(err)
	}
	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.PC() != 0x000 {
		t.Fatalf("PC = %#x, want 0x000 after JP 0x000", vm.PC())
	}
	if err := vm.Step(); err != nil {
		t.Fatal(err)
	}
	if vm.PC()%2 != 0 || vm.PC() > 0xFFF {
		t.Errorf("PC = %#x violates invariant 1", vm.PC())
	}
}
