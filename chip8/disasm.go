package chip8

import (
	"fmt"
	"io"
)

/// Disassemble the instruction at address, prefixed with the address.
///
func (m *Memory) Disassemble(address uint16) string {
	w, err := m.Word(address)
	if err != nil {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %s", address, Disassemble(Instruction(w)))
}

/// Disassemble a single instruction. Words that aren't instructions are
/// shown as data.
///
func Disassemble(inst Instruction) string {
	a := inst.Address()
	b := inst.Byte()
	n := inst.Nibble()
	x := inst.X()
	y := inst.Y()

	switch inst.Group() {
	case 0x0:
		switch b {
		case 0xE0:
			return "CLS"
		case 0xEE:
			return "RET"
		}
	case 0x1:
		return fmt.Sprintf("JP     #%03X", a)
	case 0x2:
		return fmt.Sprintf("CALL   #%03X", a)
	case 0x3:
		return fmt.Sprintf("SE     V%X, #%02X", x, b)
	case 0x4:
		return fmt.Sprintf("SNE    V%X, #%02X", x, b)
	case 0x5:
		return fmt.Sprintf("SE     V%X, V%X", x, y)
	case 0x6:
		return fmt.Sprintf("LD     V%X, #%02X", x, b)
	case 0x7:
		return fmt.Sprintf("ADD    V%X, #%02X", x, b)
	case 0x8:
		switch n {
		case 0x0:
			return fmt.Sprintf("LD     V%X, V%X", x, y)
		case 0x1:
			return fmt.Sprintf("OR     V%X, V%X", x, y)
		case 0x2:
			return fmt.Sprintf("AND    V%X, V%X", x, y)
		case 0x3:
			return fmt.Sprintf("XOR    V%X, V%X", x, y)
		case 0x4:
			return fmt.Sprintf("ADD    V%X, V%X", x, y)
		case 0x5:
			return fmt.Sprintf("SUB    V%X, V%X", x, y)
		case 0x6:
			return fmt.Sprintf("SHR    V%X, V%X", x, y)
		case 0x7:
			return fmt.Sprintf("SUBN   V%X, V%X", x, y)
		case 0xE:
			return fmt.Sprintf("SHL    V%X, V%X", x, y)
		}
	case 0x9:
		return fmt.Sprintf("SNE    V%X, V%X", x, y)
	case 0xA:
		return fmt.Sprintf("LD     I, #%03X", a)
	case 0xB:
		return fmt.Sprintf("JP     V0, #%03X", a)
	case 0xC:
		return fmt.Sprintf("RND    V%X, #%02X", x, b)
	case 0xD:
		return fmt.Sprintf("DRW    V%X, V%X, %d", x, y, n)
	case 0xE:
		switch b {
		case 0x9E:
			return fmt.Sprintf("SKP    V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP   V%X", x)
		}
	case 0xF:
		switch b {
		case 0x07:
			return fmt.Sprintf("LD     V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("LD     V%X, K", x)
		case 0x15:
			return fmt.Sprintf("LD     DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("LD     ST, V%X", x)
		case 0x1E:
			return fmt.Sprintf("ADD    I, V%X", x)
		case 0x29:
			return fmt.Sprintf("LD     F, V%X", x)
		case 0x33:
			return fmt.Sprintf("LD     B, V%X", x)
		case 0x55:
			return fmt.Sprintf("LD     [I], V%X", x)
		case 0x65:
			return fmt.Sprintf("LD     V%X, [I]", x)
		}
	}

	return fmt.Sprintf("WORD   #%04X", uint16(inst))
}

/// Listing writes program as assembly source that Assemble accepts. Each
/// line is commented with the address it loads to.
///
func Listing(w io.Writer, program []byte) error {
	for i := 0; i < len(program); i += 2 {
		address := ProgramStart + i

		var line string

		// a trailing odd byte can only be data
		if i+1 < len(program) {
			line = Disassemble(Instruction(uint16(program[i])<<8 | uint16(program[i+1])))
		} else {
			line = fmt.Sprintf("BYTE   #%02X", program[i])
		}

		if _, err := fmt.Fprintf(w, "        %-24s; #%04X\n", line, address); err != nil {
			return err
		}
	}

	return nil
}
