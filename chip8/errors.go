package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrStackUnderflow is returned when RET executes with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrAddressOutOfRange is returned when an instruction fetch or an
	// indirect access reaches past the end of memory.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrUnknownOpcode describes an instruction word with no handler.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrROMUnreadable is returned when the ROM source cannot be read.
	ErrROMUnreadable = errors.New("rom unreadable")
)

/// Fault is a fatal error raised while executing an instruction. It records
/// where the machine was when it happened.
///
type Fault struct {
	// PC is the address of the faulting instruction.
	PC uint16

	// Opcode is the faulting instruction word (zero if the fetch failed).
	Opcode Instruction

	// Err is the underlying cause.
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at #%04X (%04X): %v", f.PC, uint16(f.Opcode), f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
