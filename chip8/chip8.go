// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// timers, the instruction set and a scheduler to run it at a fixed rate. The
// display and keypad are shared with a front end, which presents the one and
// feeds the other from whatever thread it runs on.
package chip8

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/massung/chip-8/logger"
)

/// Instruction is a single 16-bit CHIP-8 instruction word.
///
type Instruction uint16

/// Group is the top nibble of the instruction; it selects the handler.
///
func (inst Instruction) Group() uint8 {
	return uint8(inst >> 12)
}

/// X is the first register operand.
///
func (inst Instruction) X() uint8 {
	return uint8(inst>>8) & 0xF
}

/// Y is the second register operand.
///
func (inst Instruction) Y() uint8 {
	return uint8(inst>>4) & 0xF
}

/// Address is the 12-bit address operand.
///
func (inst Instruction) Address() uint16 {
	return uint16(inst) & 0xFFF
}

/// Byte is the 8-bit immediate operand.
///
func (inst Instruction) Byte() uint8 {
	return uint8(inst)
}

/// Nibble is the 4-bit immediate operand.
///
func (inst Instruction) Nibble() uint8 {
	return uint8(inst) & 0xF
}

/// Outcome tells the scheduler what to do after an instruction executes.
///
type Outcome int

const (
	// Advance moves on to the next instruction.
	Advance Outcome = iota

	// Repeat executes the same instruction again next cycle. It is returned
	// while LD Vx, K is waiting for a key.
	Repeat
)

type handler func(inst Instruction) (Outcome, error)

/// CPU is the CHIP-8 virtual machine: registers, stack, timers and memory,
/// plus handles on the display and keypad it shares with a front end.
///
type CPU struct {
	// Memory holds the font and the loaded program.
	Memory Memory

	// V are the 16 general registers. VF doubles as the flag register.
	V [16]byte

	// PC is the program counter. All programs begin at 0x200.
	PC uint16

	// I is the index (address) register.
	I uint16

	// Stack holds return addresses. It is not limited to 16 entries.
	Stack []uint16

	// DT and ST are the delay and sound timers.
	DT *Timer
	ST *Timer

	// Cycles is the number of instructions executed.
	Cycles int64

	display *Display
	keypad  *Keypad

	// keys is the keypad snapshot for the instruction being executed.
	keys uint16

	rand     *rand.Rand
	dispatch [16]handler

	// mu guards the registers against a front end dumping them mid step.
	mu sync.Mutex
}

/// New creates a virtual machine with program loaded at ProgramStart. A nil
/// display or keypad is replaced with a new one.
///
func New(program []byte, display *Display, keypad *Keypad) *CPU {
	if display == nil {
		display = NewDisplay()
	}
	if keypad == nil {
		keypad = NewKeypad()
	}

	vm := &CPU{
		Memory:  *NewMemory(program),
		PC:      ProgramStart,
		Stack:   make([]uint16, 0, 16),
		DT:      NewTimer(),
		ST:      NewTimer(),
		display: display,
		keypad:  keypad,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if n := MemorySize - ProgramStart; len(program) > n {
		logger.Logf("chip8", "rom truncated to %d of %d bytes", n, len(program))
	}

	vm.dispatch = [16]handler{
		vm.group0, vm.jump, vm.call, vm.skipIf,
		vm.skipIfNot, vm.skipIfXY, vm.loadX, vm.addX,
		vm.group8, vm.skipIfNotXY, vm.loadI, vm.jumpV0,
		vm.rnd, vm.drw, vm.groupE, vm.groupF,
	}

	return vm
}

/// Seed reseeds the random number generator used by RND.
///
func (vm *CPU) Seed(seed int64) {
	vm.rand = rand.New(rand.NewSource(seed))
}

/// Display returns the display the machine draws to.
///
func (vm *CPU) Display() *Display {
	return vm.display
}

/// Keypad returns the keypad the machine reads.
///
func (vm *CPU) Keypad() *Keypad {
	return vm.keypad
}

/// SoundTimer returns the current value of the sound timer.
///
func (vm *CPU) SoundTimer() byte {
	return vm.ST.Get()
}

/// DelayTimer returns the current value of the delay timer.
///
func (vm *CPU) DelayTimer() byte {
	return vm.DT.Get()
}

/// Stop halts the timer countdowns.
///
func (vm *CPU) Stop() {
	vm.DT.Stop()
	vm.ST.Stop()
}

/// Step fetches and executes a single instruction. A returned error is
/// always a *Fault and the machine should not be stepped again.
///
func (vm *CPU) Step() (Outcome, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	pc := vm.PC

	inst, err := vm.fetch()
	if err != nil {
		return Advance, &Fault{PC: pc, Err: err}
	}

	out, err := vm.execute(inst)
	if err != nil {
		return out, &Fault{PC: pc, Opcode: inst, Err: err}
	}

	// rewind to the instruction just fetched
	if out == Repeat {
		vm.PC = pc
	}

	vm.Cycles++

	return out, nil
}

/// Execute runs a single already fetched instruction. PC must already point
/// past it. The keypad is sampled once, before dispatch.
///
func (vm *CPU) Execute(inst Instruction) (Outcome, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.execute(inst)
}

func (vm *CPU) execute(inst Instruction) (Outcome, error) {
	vm.keys = vm.keypad.State()

	return vm.dispatch[inst.Group()](inst)
}

/// fetch the next 16-bit instruction to execute.
///
func (vm *CPU) fetch() (Instruction, error) {
	w, err := vm.Memory.Word(vm.PC)
	if err != nil {
		return 0, err
	}

	// advance the program counter
	vm.PC += 2

	return Instruction(w), nil
}

/// unmatched logs an instruction with no handler and carries on.
///
func (vm *CPU) unmatched(inst Instruction) (Outcome, error) {
	logger.Logf("chip8", "%v: %04X at #%04X", ErrUnknownOpcode, uint16(inst), vm.PC-2)

	return Advance, nil
}

/// String dumps the machine state.
///
func (vm *CPU) String() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	s := &strings.Builder{}

	fmt.Fprintf(s, "PC: #%04X, I: #%04X, DT: %d, ST: %d\n", vm.PC, vm.I, vm.DelayTimer(), vm.SoundTimer())
	fmt.Fprintf(s, "Registers: % 02X\n", vm.V[:])
	fmt.Fprintf(s, "Stack: [")
	for i, a := range vm.Stack {
		if i > 0 {
			s.WriteByte(' ')
		}
		fmt.Fprintf(s, "#%04X", a)
	}
	s.WriteString("]\n")

	return s.String()
}
