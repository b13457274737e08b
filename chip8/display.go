package chip8

import (
	"sync"
)

const (
	// Width of the display in pixels.
	Width = 64

	// Height of the display in pixels.
	Height = 32

	// PixelOn is the value of a lit pixel. Unlit pixels are zero.
	PixelOn uint32 = 0xFFFFFF
)

/// Buffer is a row-major copy of the display, Width*Height pixels.
///
type Buffer [Width * Height]uint32

/// On returns true if the pixel at x, y is lit.
///
func (b *Buffer) On(x, y int) bool {
	return b[y*Width+x] != 0
}

/// Display is the video memory shared between the CPU and a front end. It is
/// only changed by Clear and Draw; front ends take copies with Snapshot.
///
type Display struct {
	mu     sync.Mutex
	pixels Buffer
}

/// NewDisplay returns a cleared display.
///
func NewDisplay() *Display {
	return &Display{}
}

/// Clear turns every pixel off.
///
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pixels = Buffer{}
}

/// Draw XORs sprite onto the display with its top-left corner at x, y. The
/// origin wraps around the display but the sprite itself is clipped at the
/// right and bottom edges. Each sprite byte is one row, MSB first. Returns
/// true if any lit pixel was toggled.
///
func (d *Display) Draw(x, y uint8, sprite []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	collision := false

	// wrap the origin
	x &= Width - 1
	y &= Height - 1

	for row, bits := range sprite {
		py := int(y) + row

		// clip at the bottom edge
		if py >= Height {
			break
		}

		for col := 0; col < 8; col++ {
			px := int(x) + col

			// clip at the right edge
			if px >= Width {
				break
			}

			if bits&(0x80>>uint(col)) == 0 {
				continue
			}

			p := &d.pixels[py*Width+px]
			if *p == PixelOn {
				collision = true
			}

			*p ^= PixelOn
		}
	}

	return collision
}

/// Snapshot returns a copy of the display.
///
func (d *Display) Snapshot() Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pixels
}
