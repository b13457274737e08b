// Package termview presents a running CHIP-8 machine on a terminal. The
// display is drawn with half-block characters, two pixels per character
// cell, and keys are read from the terminal in raw mode.
//
// Terminals only report key presses, never releases, so a key is held for
// HoldTime after the last byte received for it. Auto-repeat keeps a key
// held down for as long as it is physically pressed.
package termview

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/logger"
	"github.com/pkg/term"
)

// HoldTime is how long a key stays pressed after it was last read.
const HoldTime = 120 * time.Millisecond

// RefreshRate of the terminal display in Hz.
const RefreshRate = 60

// ANSI control sequences.
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// View connects a display and keypad to a terminal.
type View struct {
	display *chip8.Display
	keypad  *chip8.Keypad
	out     io.Writer

	mu   sync.Mutex
	held [16]time.Time
	now  func() time.Time
}

// New creates a view drawing to out.
func New(display *chip8.Display, keypad *chip8.Keypad, out io.Writer) *View {
	return &View{
		display: display,
		keypad:  keypad,
		out:     out,
		now:     time.Now,
	}
}

// Input handles bytes read from the terminal. Returns false if the user
// asked to quit.
func (v *View) Input(b []byte) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range b {
		switch c {
		case KeyCtrlC, KeyEsc:
			return false
		}

		// accept shifted keys as well
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}

		if key, ok := KeyMap[c]; ok {
			v.held[key] = v.now()
			v.keypad.Press(key)
		}
	}

	return true
}

// Expire releases every key not read within HoldTime.
func (v *View) Expire() {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()

	for key, t := range v.held {
		if !t.IsZero() && now.Sub(t) >= HoldTime {
			v.held[key] = time.Time{}
			v.keypad.Release(uint8(key))
		}
	}
}

// Run takes over the controlling terminal until ctx is done or the user
// quits with Escape or Ctrl-C. The terminal is restored before returning.
func (v *View) Run(ctx context.Context) error {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return fmt.Errorf("termview: %w", err)
	}
	defer func() {
		_ = tty.Restore()
		_ = tty.Close()
	}()

	input := make(chan []byte)
	go read(ctx, tty, input)

	fmt.Fprint(v.out, clearScreen+hideCursor)
	defer fmt.Fprint(v.out, showCursor+"\r\n")

	refresh := time.NewTicker(time.Second / RefreshRate)
	defer refresh.Stop()

	logger.Log("termview", "terminal front end started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-input:
			if !ok || !v.Input(b) {
				return nil
			}
		case <-refresh.C:
			v.Expire()
			fmt.Fprint(v.out, Render(v.display.Snapshot()))
		}
	}
}

// read forwards everything read from the terminal until it fails.
func read(ctx context.Context, r io.Reader, input chan<- []byte) {
	defer close(input)

	for {
		b := make([]byte, 16)

		n, err := r.Read(b)
		if err != nil {
			return
		}

		select {
		case input <- b[:n]:
		case <-ctx.Done():
			return
		}
	}
}

// Render returns a full frame for buf, starting with the cursor at the top
// left of the terminal. Each text row is two display rows.
func Render(buf chip8.Buffer) string {
	s := &strings.Builder{}

	s.WriteString(cursorHome)

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			top, bottom := buf.On(x, y), buf.On(x, y+1)

			switch {
			case top && bottom:
				s.WriteRune('█')
			case top:
				s.WriteRune('▀')
			case bottom:
				s.WriteRune('▄')
			default:
				s.WriteByte(' ')
			}
		}

		// raw mode doesn't translate newlines
		s.WriteString("\r\n")
	}

	return s.String()
}
