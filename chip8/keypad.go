package chip8

import (
	"math/bits"
	"sync"
)

// The computers which originally used CHIP-8 had a 16-key hexadecimal
// keypad with the following layout:
//
//	+---+---+---+---+
//	| 1 | 2 | 3 | C |
//	+---+---+---+---+
//	| 4 | 5 | 6 | D |
//	+---+---+---+---+
//	| 7 | 8 | 9 | E |
//	+---+---+---+---+
//	| A | 0 | B | F |
//	+---+---+---+---+
//
// The state of the keypad is a bitmask where bit i is set while key i is
// held down.

/// ContinueKey resumes execution in single-step mode.
///
const ContinueKey = 0xB

/// Keypad is the keypad bitmask shared between a front end, which presses and
/// releases keys, and the CPU, which reads it once per cycle.
///
type Keypad struct {
	mu    sync.Mutex
	state uint16
}

/// NewKeypad returns a keypad with no keys held.
///
func NewKeypad() *Keypad {
	return &Keypad{}
}

/// Press marks key as held. Keys above 0xF are ignored.
///
func (k *Keypad) Press(key uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.state |= KeyBit(key)
}

/// Release marks key as no longer held.
///
func (k *Keypad) Release(key uint8) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.state &^= KeyBit(key)
}

/// Set replaces the whole keypad state.
///
func (k *Keypad) Set(state uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.state = state
}

/// State returns a snapshot of the keypad bitmask.
///
func (k *Keypad) State() uint16 {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.state
}

/// KeyBit returns the bitmask for key, or 0 if key is not a keypad key.
///
func KeyBit(key uint8) uint16 {
	if key > 0xF {
		return 0
	}
	return 1 << key
}

/// Pressed returns true if key is held in state.
///
func Pressed(state uint16, key uint8) bool {
	return state&KeyBit(key) != 0
}

/// HighestKey returns the highest numbered key held in state. The boolean is
/// false when no key is held.
///
func HighestKey(state uint16) (uint8, bool) {
	if state == 0 {
		return 0, false
	}
	return uint8(bits.Len16(state) - 1), true
}
