/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at ProgramStart.
	///
	ROM []byte

	/// Labels maps every label and constant to its value.
	///
	Labels map[string]int

	// label tokens, literal addresses or EQU constants
	symbols map[string]token

	// ROM offsets of 12-bit addresses waiting on a forward label
	unresolved map[int]string
}

/// AsmError is returned by Assemble and identifies the failing line.
///
type AsmError struct {
	Line int
	Err  error
}

func (e *AsmError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d - %v", e.Line, e.Err)
	}

	return e.Err.Error()
}

func (e *AsmError) Unwrap() error {
	return e.Err
}

/// Assemble an input CHIP-8 source code file.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	// create an empty, return assembly
	out = &Assembly{
		ROM:        make([]byte, ProgramStart, MemorySize),
		Labels:     make(map[string]int),
		symbols:    make(map[string]token),
		unresolved: make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			asmErr := &AsmError{Line: line}

			switch v := r.(type) {
			case error:
				asmErr.Err = v
			default:
				asmErr.Err = errors.New(fmt.Sprint(v))
			}

			out, err = nil, asmErr
		}
	}()

	// create simple line scanner over the file
	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic("program too large")
		}
	}

	// clear the line number as we're done with the source
	line = 0

	// patch all forward references
	for address, label := range out.unresolved {
		t, ok := out.symbols[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		v := t.val.(int)

		// only the low 12 bits are patched, the opcode nibble stays
		out.ROM[address] = byte(v>>8&0xF) | (out.ROM[address] & 0xF0)
		out.ROM[address+1] = byte(v & 0xFF)
	}

	for label, t := range out.symbols {
		out.Labels[label] = t.val.(int)
	}

	// drop the reserved interpreter area
	out.ROM = out.ROM[ProgramStart:]

	return out, nil
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == tokenLabel {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case tokenInstruction:
		a.assembleInstruction(t.val.(string), s)
	case tokenEnd:
	default:
		panic("unexpected token")
	}
}

/// Scan for a label and add it to the assembly.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.symbols[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	// by default, the label is assigned the current address
	a.symbols[label] = token{typ: tokenLit, val: len(a.ROM)}

	t := s.scanToken()

	// EQU reassigns the label to a constant
	if t.typ == tokenEqu {
		if v := s.scanToken(); v.typ == tokenLit {
			a.symbols[label] = v

			if t = s.scanToken(); t.typ == tokenEnd {
				return t
			}
		}

		panic("illegal label assignment")
	}

	return t
}

/// Compile a single instruction into the assembly.
///
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	var b []byte

	switch i {
	case "CLS":
		b = a.assembleNoOperands(tokens, 0x00E0)
	case "RET":
		b = a.assembleNoOperands(tokens, 0x00EE)
	case "JP":
		b = a.assembleJP(tokens)
	case "CALL":
		b = a.assembleCALL(tokens)
	case "SE":
		b = a.assembleSkip(tokens, 0x3000, 0x5000)
	case "SNE":
		b = a.assembleSkip(tokens, 0x4000, 0x9000)
	case "SKP":
		b = a.assembleKey(tokens, 0xE09E)
	case "SKNP":
		b = a.assembleKey(tokens, 0xE0A1)
	case "OR":
		b = a.assembleALU(tokens, 0x1)
	case "AND":
		b = a.assembleALU(tokens, 0x2)
	case "XOR":
		b = a.assembleALU(tokens, 0x3)
	case "SUB":
		b = a.assembleALU(tokens, 0x5)
	case "SUBN":
		b = a.assembleALU(tokens, 0x7)
	case "SHR":
		b = a.assembleShift(tokens, 0x6)
	case "SHL":
		b = a.assembleShift(tokens, 0xE)
	case "ADD":
		b = a.assembleADD(tokens)
	case "RND":
		b = a.assembleRND(tokens)
	case "DRW":
		b = a.assembleDRW(tokens)
	case "LD":
		b = a.assembleLD(tokens)
	case "BYTE":
		b = a.assembleBYTE(tokens)
	case "WORD":
		b = a.assembleWORD(tokens)
	}

	a.ROM = append(a.ROM, b...)
}

/// Assemble a single operand, expanding label references. Forward
/// references become a literal carrying the label name.
///
func (a *Assembly) assembleOperand(t token) token {
	if t.typ == tokenRef {
		label := t.val.(string)

		if v, exists := a.symbols[label]; exists {
			return v
		}

		return token{typ: tokenLit, val: 0, ref: label}
	}

	return t
}

/// Match the desired tokens with a list of tokens. Expand labels.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	ops := make([]token, 0, len(m))

	for i, typ := range m {
		t := a.assembleOperand(tokens[i])

		if t.typ != typ {
			return nil, false
		}

		ops = append(ops, t)
	}

	return ops, true
}

/// Returns a 12-bit address operand. Forward references are recorded
/// against the ROM offset of the word holding them.
///
func (a *Assembly) address(t token, offset int) int {
	if t.ref != "" {
		a.unresolved[offset] = t.ref
		return 0
	}

	if v := t.val.(int); v >= 0 && v < MemorySize {
		return v
	}

	panic("address out of range")
}

/// Returns a byte operand, negative values are two's complement.
///
func (a *Assembly) byteValue(t token) int {
	if t.ref != "" {
		panic(fmt.Errorf("forward reference: %s", t.ref))
	}

	if v := t.val.(int); v >= -128 && v <= 0xFF {
		return v & 0xFF
	}

	panic("invalid byte")
}

func encode(op int) []byte {
	return []byte{byte(op >> 8), byte(op & 0xFF)}
}

func encodeX(op, x int) []byte {
	return encode(op | x<<8)
}

func encodeXY(op, x, y int) []byte {
	return encode(op | x<<8 | y<<4)
}

/// Assemble an instruction without operands (CLS, RET).
///
func (a *Assembly) assembleNoOperands(tokens []token, op int) []byte {
	if len(tokens) == 0 {
		return encode(op)
	}

	panic("unexpected operand")
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return encode(0x1000 | a.address(ops[0], len(a.ROM)))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && ops[0].val.(int) == 0 {
		return encode(0xB000 | a.address(ops[1], len(a.ROM)))
	}

	panic("illegal instruction")
}

/// Assemble a CALL instruction.
///
func (a *Assembly) assembleCALL(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return encode(0x2000 | a.address(ops[0], len(a.ROM)))
	}

	panic("illegal instruction")
}

/// Assemble SE or SNE against a byte or a register.
///
func (a *Assembly) assembleSkip(tokens []token, byteOp, regOp int) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return encodeX(byteOp|a.byteValue(ops[1]), ops[0].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return encodeXY(regOp, ops[0].val.(int), ops[1].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble SKP or SKNP.
///
func (a *Assembly) assembleKey(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return encodeX(op, ops[0].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble an 8XYN register instruction.
///
func (a *Assembly) assembleALU(tokens []token, n int) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return encodeXY(0x8000|n, ops[0].val.(int), ops[1].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble SHR or SHL. Without a source register Vx shifts itself.
///
func (a *Assembly) assembleShift(tokens []token, n int) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return encodeXY(0x8000|n, ops[0].val.(int), ops[0].val.(int))
	}

	return a.assembleALU(tokens, n)
}

/// Assemble an ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return encodeX(0x7000|a.byteValue(ops[1]), ops[0].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return encodeXY(0x8004, ops[0].val.(int), ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenV); ok {
		return encodeX(0xF01E, ops[1].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return encodeX(0xC000|a.byteValue(ops[1]), ops[0].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV, tokenLit); ok {
		n := a.byteValue(ops[2])

		if n < 16 {
			return encodeXY(0xD000|n, ops[0].val.(int), ops[1].val.(int))
		}
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction.
///
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return encodeX(0x6000|a.byteValue(ops[1]), ops[0].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return encodeXY(0x8000, ops[0].val.(int), ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenLit); ok {
		return encode(0xA000 | a.address(ops[1], len(a.ROM)))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenDT); ok {
		return encodeX(0xF007, ops[0].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenK); ok {
		return encodeX(0xF00A, ops[0].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenDT, tokenV); ok {
		return encodeX(0xF015, ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenST, tokenV); ok {
		return encodeX(0xF018, ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenF, tokenV); ok {
		return encodeX(0xF029, ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenB, tokenV); ok {
		return encodeX(0xF033, ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenIndexed, tokenV); ok {
		return encodeX(0xF055, ops[1].val.(int))
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenIndexed); ok {
		return encodeX(0xF065, ops[0].val.(int))
	}

	panic("illegal instruction")
}

/// Assemble a BYTE instruction.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t)

		if op.typ != tokenLit {
			panic("invalid byte")
		}

		b = append(b, byte(a.byteValue(op)))
	}

	return b
}

/// Assemble a WORD instruction.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := a.assembleOperand(t)

		if op.typ != tokenLit {
			panic("invalid word")
		}

		var w int

		if op.ref != "" {
			w = a.address(op, len(a.ROM)+len(b))
		} else if w = op.val.(int); w < 0 || w > 0xFFFF {
			panic("invalid word")
		}

		// store msb first
		b = append(b, byte(w>>8&0xFF), byte(w&0xFF))
	}

	return b
}
