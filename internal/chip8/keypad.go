package chip8

// Keypad is the 16-key hex keypad (0x0-0xF) plus the key-wait rendezvous
// used by Fx0A. It is modeled as a two-state FSM: running (normal
// execution) or waiting-on-Vx (parked until a fresh keypress arrives).
type Keypad struct {
	mask uint16 // bit k set means key k is held

	waiting    bool // true while parked in a key-wait
	waitTarget uint8
}

// IsDown reports whether key k is currently held.
func (k *Keypad) IsDown(key uint8) bool {
	return k.mask&(1<<key) != 0
}

// beginWait parks the keypad in the waiting state, recording which
// register the next keypress should land in.
func (k *Keypad) beginWait(target uint8) {
	k.waiting = true
	k.waitTarget = target
}

// Press sets key k's bit. If the keypad is currently waiting on a
// keypress, this transition also captures k into the wait target and
// ends the wait. Returns the captured value and true if a capture
// occurred, for callers that need to store it into a register.
func (k *Keypad) Press(key uint8) (captured uint8, didCapture bool) {
	wasDown := k.IsDown(key)
	k.mask |= 1 << key

	if k.waiting && !wasDown {
		k.waiting = false
		didCapture = true
		captured = key
	}
	return captured, didCapture
}

// Release clears key k's bit. Release never affects the key-wait state.
func (k *Keypad) Release(key uint8) {
	k.mask &^= 1 << key
}
