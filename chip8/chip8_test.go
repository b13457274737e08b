package chip8

import (
	"errors"
	"strings"
	"testing"

	"github.com/massung/chip-8/logger"
	"github.com/retroenv/retrogolib/assert"
)

// newVM returns a machine loaded with the given instruction words.
func newVM(t *testing.T, words ...uint16) *CPU {
	t.Helper()

	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}

	vm := New(program, nil, nil)
	vm.Seed(1)
	t.Cleanup(vm.Stop)

	return vm
}

// step executes n instructions, failing the test on any error.
func step(t *testing.T, vm *CPU, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		_, err := vm.Step()
		assert.NoError(t, err)
	}
}

func TestInstructionFields(t *testing.T) {
	inst := Instruction(0xD12F)

	assert.Equal(t, uint8(0xD), inst.Group())
	assert.Equal(t, uint8(0x1), inst.X())
	assert.Equal(t, uint8(0x2), inst.Y())
	assert.Equal(t, uint16(0x12F), inst.Address())
	assert.Equal(t, uint8(0x2F), inst.Byte())
	assert.Equal(t, uint8(0xF), inst.Nibble())
}

func TestNew(t *testing.T) {
	vm := newVM(t)

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, 0, len(vm.Stack))
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
	assert.Equal(t, Font[0], vm.Memory[FontBase])
}

func TestNewTruncatesProgram(t *testing.T) {
	program := make([]byte, MemorySize)
	for i := range program {
		program[i] = byte(i + 1)
	}

	vm := New(program, nil, nil)
	t.Cleanup(vm.Stop)

	last := MemorySize - ProgramStart
	assert.Equal(t, byte(1), vm.Memory[ProgramStart])
	assert.Equal(t, byte(last), vm.Memory[MemorySize-1])
	assert.Equal(t, Font[0], vm.Memory[FontBase])
}

func TestArithmeticScenario(t *testing.T) {
	vm := newVM(t, 0x00E0, 0x6005, 0x6103, 0x8014)
	vm.Display().Draw(0, 0, []byte{0xFF})

	step(t, vm, 4)

	assert.Equal(t, uint8(8), vm.V[0])
	assert.Equal(t, uint8(3), vm.V[1])
	assert.Equal(t, uint8(0), vm.V[0xF])
	assert.Equal(t, Buffer{}, vm.Display().Snapshot())
	assert.Equal(t, uint16(0x208), vm.PC)
	assert.Equal(t, int64(4), vm.Cycles)
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		inst uint16
		v0   byte
		v1   byte
		keys uint16
		pc   uint16
	}{
		{"SE taken", 0x3005, 5, 0, 0, 0x204},
		{"SE not taken", 0x3005, 4, 0, 0, 0x202},
		{"SNE taken", 0x4005, 4, 0, 0, 0x204},
		{"SNE not taken", 0x4005, 5, 0, 0, 0x202},
		{"SE XY taken", 0x5010, 7, 7, 0, 0x204},
		{"SE XY not taken", 0x5010, 7, 8, 0, 0x202},
		{"SNE XY taken", 0x9010, 7, 8, 0, 0x204},
		{"SNE XY not taken", 0x9010, 7, 7, 0, 0x202},
		{"SKP taken", 0xE09E, 0xA, 0, 1 << 0xA, 0x204},
		{"SKP not taken", 0xE09E, 0xA, 0, 1 << 0x9, 0x202},
		{"SKNP taken", 0xE0A1, 0xA, 0, 0, 0x204},
		{"SKNP not taken", 0xE0A1, 0xA, 0, 1 << 0xA, 0x202},
		{"SKP beyond keypad", 0xE09E, 0x1F, 0, 0xFFFF, 0x202},
		{"SKNP beyond keypad", 0xE0A1, 0x1F, 0, 0xFFFF, 0x204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newVM(t, tt.inst)
			vm.V[0] = tt.v0
			vm.V[1] = tt.v1
			vm.Keypad().Set(tt.keys)

			step(t, vm, 1)

			assert.Equal(t, tt.pc, vm.PC)
		})
	}
}

func TestJumpsAndCalls(t *testing.T) {
	vm := newVM(t, 0x2206, 0x0000, 0x0000, 0x00EE)

	step(t, vm, 1)
	assert.Equal(t, uint16(0x206), vm.PC)
	assert.Equal(t, []uint16{0x202}, vm.Stack)

	step(t, vm, 1)
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, 0, len(vm.Stack))

	vm = newVM(t, 0xB300)
	vm.V[0] = 0x10
	step(t, vm, 1)
	assert.Equal(t, uint16(0x310), vm.PC)

	vm = newVM(t, 0x1234)
	step(t, vm, 1)
	assert.Equal(t, uint16(0x234), vm.PC)
}

func TestDeepStack(t *testing.T) {
	// a subroutine calling itself never overflows the stack
	vm := newVM(t, 0x2200)

	step(t, vm, 100)

	assert.Equal(t, 100, len(vm.Stack))
}

func TestReturnUnderflow(t *testing.T) {
	vm := newVM(t, 0x00EE)

	_, err := vm.Step()

	var fault *Fault
	assert.Equal(t, true, errors.As(err, &fault))
	assert.Equal(t, true, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, Instruction(0x00EE), fault.Opcode)
}

func TestLoadAndAdd(t *testing.T) {
	vm := newVM(t, 0x6AFF, 0x7A02, 0x8BA0)
	vm.V[0xF] = 9

	step(t, vm, 3)

	assert.Equal(t, uint8(0x01), vm.V[0xA])
	assert.Equal(t, uint8(0x01), vm.V[0xB])
	assert.Equal(t, uint8(9), vm.V[0xF])
}

func TestLogicResetsFlag(t *testing.T) {
	tests := []struct {
		name string
		inst uint16
		want byte
	}{
		{"OR", 0x8011, 0xFC},
		{"AND", 0x8012, 0x30},
		{"XOR", 0x8013, 0xCC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newVM(t, tt.inst)
			vm.V[0] = 0xF0
			vm.V[1] = 0x3C
			vm.V[0xF] = 1

			step(t, vm, 1)

			assert.Equal(t, tt.want, vm.V[0])
			assert.Equal(t, uint8(0), vm.V[0xF])
		})
	}
}

func TestArithmeticFlags(t *testing.T) {
	tests := []struct {
		name string
		inst uint16
		x, y byte
		want byte
		flag byte
	}{
		{"ADD carry", 0x8014, 0xFF, 0x02, 0x01, 1},
		{"ADD no carry", 0x8014, 0x10, 0x02, 0x12, 0},
		{"SUB no borrow", 0x8015, 0x05, 0x03, 0x02, 1},
		{"SUB equal", 0x8015, 0x05, 0x05, 0x00, 1},
		{"SUB borrow", 0x8015, 0x03, 0x05, 0xFE, 0},
		{"SUBN no borrow", 0x8017, 0x03, 0x05, 0x02, 1},
		{"SUBN borrow", 0x8017, 0x05, 0x03, 0xFE, 0},
		{"SHR reads Vy", 0x8016, 0x00, 0x05, 0x02, 1},
		{"SHL reads Vy", 0x801E, 0x00, 0x81, 0x02, 1},
		{"SHL no carry", 0x801E, 0xFF, 0x41, 0x82, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newVM(t, tt.inst)
			vm.V[0] = tt.x
			vm.V[1] = tt.y

			step(t, vm, 1)

			assert.Equal(t, tt.want, vm.V[0])
			assert.Equal(t, tt.flag, vm.V[0xF])
		})
	}
}

func TestFlagRegisterAsOperand(t *testing.T) {
	// the flag is written last, replacing the result
	vm := newVM(t, 0x8F14)
	vm.V[0xF] = 0xFF
	vm.V[1] = 0x02

	step(t, vm, 1)

	assert.Equal(t, uint8(1), vm.V[0xF])
}

func TestRandomIsMasked(t *testing.T) {
	vm := newVM(t, 0xC00F, 0xC100)

	step(t, vm, 2)

	assert.Equal(t, uint8(0), vm.V[0]&0xF0)
	assert.Equal(t, uint8(0), vm.V[1])
}

func TestDraw(t *testing.T) {
	vm := newVM(t, 0xA050, 0xD015, 0xD015)
	vm.V[0] = 62
	vm.V[1] = 30

	step(t, vm, 2)

	buf := vm.Display().Snapshot()

	// the "0" glyph is clipped to 2x2 in the bottom right corner
	assert.Equal(t, true, buf.On(62, 30))
	assert.Equal(t, true, buf.On(63, 30))
	assert.Equal(t, true, buf.On(62, 31))
	assert.Equal(t, false, buf.On(63, 31))
	assert.Equal(t, false, buf.On(0, 0))
	assert.Equal(t, false, buf.On(0, 30))
	assert.Equal(t, uint8(0), vm.V[0xF])

	// redrawing erases and collides
	step(t, vm, 1)

	assert.Equal(t, Buffer{}, vm.Display().Snapshot())
	assert.Equal(t, uint8(1), vm.V[0xF])
}

func TestDrawCollisionAnyRow(t *testing.T) {
	vm := newVM(t, 0xA300, 0xD012)
	vm.Memory[0x300] = 0x80
	vm.Memory[0x301] = 0x80

	// only the first row overlaps a lit pixel
	vm.Display().Draw(0, 0, []byte{0x80})

	step(t, vm, 2)

	buf := vm.Display().Snapshot()

	assert.Equal(t, false, buf.On(0, 0))
	assert.Equal(t, true, buf.On(0, 1))
	assert.Equal(t, uint8(1), vm.V[0xF])
}

func TestDrawWrapsOrigin(t *testing.T) {
	vm := newVM(t, 0xA050, 0xD011)
	vm.V[0] = 64 + 3
	vm.V[1] = 32 + 2

	step(t, vm, 2)

	buf := vm.Display().Snapshot()

	assert.Equal(t, true, buf.On(3, 2))
	assert.Equal(t, true, buf.On(6, 2))
}

func TestDrawPastMemory(t *testing.T) {
	vm := newVM(t, 0xAFFE, 0xD005)

	step(t, vm, 1)
	_, err := vm.Step()

	assert.Equal(t, true, errors.Is(err, ErrAddressOutOfRange))
}

func TestTimers(t *testing.T) {
	vm := newVM(t, 0x600A, 0xF015, 0xF018, 0xF107)

	step(t, vm, 4)

	// the timers only count down at 60 Hz, far slower than 4 steps
	assert.Equal(t, true, vm.V[1] == 10 || vm.V[1] == 9)
	assert.Equal(t, true, vm.SoundTimer() > 0)
}

func TestWaitForKey(t *testing.T) {
	vm := newVM(t, 0xF30A)

	out, err := vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, Repeat, out)
	assert.Equal(t, uint16(0x200), vm.PC)

	vm.Keypad().Press(0x2)
	vm.Keypad().Press(0x9)

	out, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, Advance, out)
	assert.Equal(t, uint8(0x9), vm.V[3])
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestAddIndex(t *testing.T) {
	vm := newVM(t, 0xF01E)
	vm.I = 0xFFFF
	vm.V[0] = 2
	vm.V[0xF] = 0

	step(t, vm, 1)

	assert.Equal(t, uint16(0x0001), vm.I)
	assert.Equal(t, uint8(1), vm.V[0xF])

	vm = newVM(t, 0xF01E)
	vm.I = 0x300
	vm.V[0] = 2
	vm.V[0xF] = 7

	step(t, vm, 1)

	assert.Equal(t, uint16(0x302), vm.I)
	assert.Equal(t, uint8(7), vm.V[0xF])
}

func TestGlyph(t *testing.T) {
	vm := newVM(t, 0xF029)
	vm.V[0] = 0xA

	step(t, vm, 1)

	assert.Equal(t, uint16(FontBase+0xA*GlyphSize), vm.I)
}

func TestBCD(t *testing.T) {
	vm := newVM(t, 0xF033)
	vm.V[0] = 234
	vm.I = 0x300

	step(t, vm, 1)

	assert.Equal(t, []byte{2, 3, 4}, vm.Memory[0x300:0x303])
	assert.Equal(t, uint16(0x300), vm.I)
}

func TestStoreAndLoadRegisters(t *testing.T) {
	vm := newVM(t, 0xF355)
	for i := range vm.V {
		vm.V[i] = byte(i + 1)
	}
	vm.I = 0x300

	step(t, vm, 1)

	assert.Equal(t, []byte{1, 2, 3, 4, 0}, vm.Memory[0x300:0x305])
	assert.Equal(t, uint16(0x304), vm.I)

	vm = newVM(t, 0xF265)
	copy(vm.Memory[0x300:], []byte{9, 8, 7, 6})
	vm.I = 0x300

	step(t, vm, 1)

	assert.Equal(t, uint8(9), vm.V[0])
	assert.Equal(t, uint8(8), vm.V[1])
	assert.Equal(t, uint8(7), vm.V[2])
	assert.Equal(t, uint8(0), vm.V[3])
	assert.Equal(t, uint16(0x303), vm.I)
}

func TestStorePastMemory(t *testing.T) {
	vm := newVM(t, 0xFF55)
	vm.I = 0xFF8

	_, err := vm.Step()

	var fault *Fault
	assert.Equal(t, true, errors.As(err, &fault))
	assert.Equal(t, true, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, uint16(0xFF8), vm.I)
}

func TestFetchPastMemory(t *testing.T) {
	vm := newVM(t)
	vm.PC = 0xFFF

	_, err := vm.Step()

	var fault *Fault
	assert.Equal(t, true, errors.As(err, &fault))
	assert.Equal(t, uint16(0xFFF), fault.PC)
	assert.Equal(t, true, errors.Is(err, ErrAddressOutOfRange))
}

func TestUnmatchedOpcode(t *testing.T) {
	logger.Clear()

	vm := newVM(t, 0x0123, 0x800F, 0xE0FF, 0xF0FF)
	vm.V[0] = 0x42

	step(t, vm, 4)

	assert.Equal(t, uint16(0x208), vm.PC)
	assert.Equal(t, uint8(0x42), vm.V[0])

	entries := logger.Entries()
	assert.Equal(t, 4, len(entries))
	assert.Equal(t, "chip8", entries[0].Tag)
	assert.Equal(t, true, strings.Contains(entries[0].Detail, "0123"))
}

func TestString(t *testing.T) {
	vm := newVM(t, 0x2206)
	vm.V[0xA] = 0x5A

	step(t, vm, 1)

	s := vm.String()

	assert.Equal(t, true, strings.Contains(s, "PC: #0206"))
	assert.Equal(t, true, strings.Contains(s, "5A"))
	assert.Equal(t, true, strings.Contains(s, "Stack: [#0202]"))
}
