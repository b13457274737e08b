package chip8

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		inst uint16
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "WORD   #0123"},
		{0x1ABC, "JP     #ABC"},
		{0x2300, "CALL   #300"},
		{0x3A12, "SE     VA, #12"},
		{0x5AB0, "SE     VA, VB"},
		{0x8AB6, "SHR    VA, VB"},
		{0x800F, "WORD   #800F"},
		{0xB200, "JP     V0, #200"},
		{0xD125, "DRW    V1, V2, 5"},
		{0xE39E, "SKP    V3"},
		{0xF30A, "LD     V3, K"},
		{0xF355, "LD     [I], V3"},
		{0xF365, "LD     V3, [I]"},
		{0xF3FF, "WORD   #F3FF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Disassemble(Instruction(tt.inst)))
	}
}

func TestDisassembleMemory(t *testing.T) {
	m := NewMemory([]byte{0x00, 0xE0})

	assert.Equal(t, "0200 - CLS", m.Disassemble(ProgramStart))
	assert.Equal(t, "0FFF -", m.Disassemble(MemorySize-1))
}

func TestListingReassembles(t *testing.T) {
	program := []byte{0x60, 0x05, 0xA2, 0x08, 0xF0, 0x33, 0x12, 0x06, 0x00, 0xFF, 0x42}

	listing := &bytes.Buffer{}
	assert.NoError(t, Listing(listing, program))

	asm, err := Assemble(listing.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, program, asm.ROM)
}
