package chip8

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/massung/chip-8/logger"
	"github.com/retroenv/retrogolib/assert"
)

func TestMemoryLayout(t *testing.T) {
	m := NewMemory([]byte{0x12, 0x34})

	assert.Equal(t, Font[:], m[FontBase:FontBase+len(Font)])
	assert.Equal(t, []byte{0x12, 0x34}, m[ProgramStart:ProgramStart+2])

	w, err := m.Word(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), w)
}

func TestMemoryTruncatesProgram(t *testing.T) {
	logger.Clear()

	program := bytes.Repeat([]byte{0xAB}, MemorySize)
	vm := New(program, nil, nil)
	defer vm.Stop()

	assert.Equal(t, byte(0xAB), vm.Memory[MemorySize-1])
	assert.Equal(t, 1, len(logger.Entries()))

	m := &Memory{}
	assert.Equal(t, MemorySize-ProgramStart, m.LoadProgram(program))
}

func TestMemoryBounds(t *testing.T) {
	m := NewMemory(nil)

	_, err := m.Read(MemorySize - 1)
	assert.NoError(t, err)

	_, err = m.Read(MemorySize)
	assert.Equal(t, true, errors.Is(err, ErrAddressOutOfRange))

	_, err = m.Word(MemorySize - 2)
	assert.NoError(t, err)

	_, err = m.Word(MemorySize - 1)
	assert.Equal(t, true, errors.Is(err, ErrAddressOutOfRange))

	s, err := m.Slice(MemorySize-3, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(s))

	_, err = m.Slice(MemorySize-3, 4)
	assert.Equal(t, true, errors.Is(err, ErrAddressOutOfRange))
}

func TestReadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(file, []byte{0x00, 0xE0}, 0o644))

	program, err := ReadFile(file)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0}, program)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Equal(t, true, errors.Is(err, ErrROMUnreadable))
}
