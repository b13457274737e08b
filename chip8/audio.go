package chip8

/// AudioGate is told the sound timer once per CPU cycle. It should play a
/// tone while value is above zero and be silent otherwise.
///
type AudioGate interface {
	Tick(value uint8)
}

/// AudioGates fans a tick out to several gates.
///
type AudioGates []AudioGate

/// Tick implements the AudioGate interface.
///
func (gates AudioGates) Tick(value uint8) {
	for _, g := range gates {
		g.Tick(value)
	}
}
