package chip8

import (
	"fmt"
	"strconv"
	"strings"
)

/// tokenType classifies scanned assembly tokens.
///
type tokenType uint

const (
	tokenEnd tokenType = iota
	tokenChar
	tokenLabel
	tokenRef
	tokenInstruction
	tokenOperand
	tokenIndexed
	tokenV
	tokenI
	tokenB
	tokenF
	tokenK
	tokenDT
	tokenST
	tokenLit
	tokenEqu
)

/// A parsed, lexical token.
///
type token struct {
	typ tokenType

	// tokens can have an optional value associated with them
	val interface{}

	// unresolved label a literal stands in for
	ref string
}

/// CHIP-8 assembler token scanner over a single line.
///
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

/// Reads the next token from a scanner.
///
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// if at the end, return an end token
	if len(s.bytes) <= s.pos {
		return token{typ: tokenEnd, val: ""}
	}

	c := s.bytes[s.pos]

	switch {
	case c == ';':
		return s.scanToEnd()
	case c == '.' && s.pos == 0:
		return s.scanLabel()
	case s.pos == 0:
		panic("expected .label")
	case c == '.':
		return s.scanRef()
	case c == '[':
		return s.scanIndirection()
	case c == ',':
		return s.scanOperand()
	case c == '#':
		return s.scanHexLit()
	case c == '$':
		return s.scanBinLit()
	case c == '-' || c >= '0' && c <= '9':
		return s.scanDecLit()
	case c >= 'A' && c <= 'Z' || c == '_':
		return s.scanIdentifier()
	}

	return s.scanChar()
}

/// Scan a list of comma-separated tokens.
///
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	for t := s.scanToken(); t.typ != tokenEnd; {
		tokens = append(tokens, t)

		// get another token, are we at the end?
		if t = s.scanToken(); t.typ != tokenOperand {
			if t.typ == tokenEnd {
				break
			}

			panic("unexpected token")
		}

		// expand the operand
		t = t.val.(token)
	}

	return tokens
}

/// Scan a single character.
///
func (s *tokenScanner) scanChar() token {
	i := s.pos

	s.pos++

	return token{typ: tokenChar, val: s.bytes[i]}
}

/// Scan to the end of the line (comments).
///
func (s *tokenScanner) scanToEnd() token {
	text := string(s.bytes[s.pos:])

	s.pos = len(s.bytes)

	return token{typ: tokenEnd, val: strings.TrimSpace(text)}
}

/// Scan a comma-separated operand token.
///
func (s *tokenScanner) scanOperand() token {
	s.pos++

	t := s.scanToken()

	// make sure there was an operand
	if t.typ == tokenEnd {
		panic("expected operand")
	}

	return token{typ: tokenOperand, val: t}
}

/// Scan a label definition.
///
func (s *tokenScanner) scanLabel() token {
	s.pos++

	if s.pos < len(s.bytes) && (s.bytes[s.pos] >= 'A' && s.bytes[s.pos] <= 'Z' || s.bytes[s.pos] == '_') {
		if id := s.scanIdentifier(); id.typ == tokenRef {
			return token{typ: tokenLabel, val: id.val}
		}
	}

	panic("expected label")
}

/// Scan a .label reference.
///
func (s *tokenScanner) scanRef() token {
	s.pos++

	if t := s.scanIdentifier(); t.typ == tokenRef {
		return t
	}

	panic("expected label")
}

/// Scan an identifier: instruction, register, or label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	for ; s.pos < len(s.bytes); s.pos++ {
		c := s.bytes[s.pos]

		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
	}

	id := string(s.bytes[i:s.pos])

	// v-registers
	if len(id) == 2 && id[0] == 'V' {
		if n, err := strconv.ParseUint(id[1:], 16, 8); err == nil {
			return token{typ: tokenV, val: int(n)}
		}
	}

	switch id {
	case "I":
		return token{typ: tokenI}
	case "B":
		return token{typ: tokenB}
	case "F":
		return token{typ: tokenF}
	case "K":
		return token{typ: tokenK}
	case "DT":
		return token{typ: tokenDT}
	case "ST":
		return token{typ: tokenST}
	case "EQU":
		return token{typ: tokenEqu}
	case "CLS", "RET", "JP", "CALL", "SE", "SNE", "SKP", "SKNP", "LD", "OR", "AND", "XOR", "ADD", "SUB", "SUBN", "SHR", "SHL", "RND", "DRW", "BYTE", "WORD":
		return token{typ: tokenInstruction, val: id}
	}

	return token{typ: tokenRef, val: id}
}

/// Scan [I], the only indirection.
///
func (s *tokenScanner) scanIndirection() token {
	s.pos++

	if t := s.scanToken(); t.typ != tokenI {
		panic("illegal indirection")
	}

	if c := s.scanToken(); c.typ != tokenChar || c.val.(byte) != ']' {
		panic("illegal indirection")
	}

	return token{typ: tokenIndexed}
}

/// Scan a decimal literal.
///
func (s *tokenScanner) scanDecLit() token {
	i := s.pos

	// skip a unary minus negation
	if s.bytes[i] == '-' {
		s.pos++
	}

	for ; s.pos < len(s.bytes); s.pos++ {
		if s.bytes[s.pos] < '0' || s.bytes[s.pos] > '9' {
			break
		}
	}

	if n, err := strconv.ParseInt(string(s.bytes[i:s.pos]), 10, 32); err == nil {
		return token{typ: tokenLit, val: int(n)}
	}

	panic(fmt.Errorf("illegal decimal value: %s", string(s.bytes[i:s.pos])))
}

/// Scan a hexadecimal literal.
///
func (s *tokenScanner) scanHexLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte("0123456789ABCDEF", s.bytes[s.pos]) < 0 {
			break
		}
	}

	if n, err := strconv.ParseInt(string(s.bytes[i+1:s.pos]), 16, 32); err == nil {
		return token{typ: tokenLit, val: int(n)}
	}

	panic(fmt.Errorf("illegal hex value: %s", string(s.bytes[i:s.pos])))
}

/// Scan a binary literal, '.' may be used in place of '0'.
///
func (s *tokenScanner) scanBinLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte(".01", s.bytes[s.pos]) < 0 {
			break
		}
	}

	v := strings.ReplaceAll(string(s.bytes[i+1:s.pos]), ".", "0")

	if n, err := strconv.ParseInt(v, 2, 32); err == nil {
		return token{typ: tokenLit, val: int(n)}
	}

	panic(fmt.Errorf("illegal binary value: %s", string(s.bytes[i:s.pos])))
}
