package chip8

import (
	"fmt"
	"io"
	"os"
)

const (
	// MemorySize is the number of addressable bytes.
	MemorySize = 0x1000

	// ProgramStart is where ROMs are loaded and execution begins.
	ProgramStart = 0x200
)

/// Memory addressable by CHIP-8. The font lives below ProgramStart, the
/// program is copied in from ProgramStart onwards.
///
type Memory [MemorySize]byte

/// NewMemory returns memory holding the font and as much of program as fits.
///
func NewMemory(program []byte) *Memory {
	m := &Memory{}

	m.LoadFont()
	m.LoadProgram(program)

	return m
}

/// LoadFont copies the built-in glyphs to FontBase.
///
func (m *Memory) LoadFont() {
	copy(m[FontBase:], Font[:])
}

/// LoadProgram copies program to ProgramStart. Anything that doesn't fit is
/// dropped. Returns the number of bytes copied.
///
func (m *Memory) LoadProgram(program []byte) int {
	return copy(m[ProgramStart:], program)
}

/// Read returns the byte at address.
///
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= len(m) {
		return 0, fmt.Errorf("read #%04X: %w", address, ErrAddressOutOfRange)
	}
	return m[address], nil
}

/// Word returns the big-endian 16-bit value at address.
///
func (m *Memory) Word(address uint16) (uint16, error) {
	if int(address)+1 >= len(m) {
		return 0, fmt.Errorf("read word #%04X: %w", address, ErrAddressOutOfRange)
	}
	return uint16(m[address])<<8 | uint16(m[address+1]), nil
}

/// Slice returns the n bytes starting at address. The slice aliases memory.
///
func (m *Memory) Slice(address uint16, n int) ([]byte, error) {
	if int(address)+n > len(m) {
		return nil, fmt.Errorf("access #%04X+%d: %w", address, n, ErrAddressOutOfRange)
	}
	return m[address : int(address)+n], nil
}

/// ReadROM reads an entire ROM image.
///
func ReadROM(r io.Reader) ([]byte, error) {
	program, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrROMUnreadable, err)
	}
	return program, nil
}

/// ReadFile reads a ROM image from disk.
///
func ReadFile(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrROMUnreadable, err)
	}
	defer f.Close()

	return ReadROM(f)
}
