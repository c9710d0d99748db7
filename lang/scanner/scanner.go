// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner implements the lexical scanner that tokenizes source files
// for the parser to consume.
package scanner

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/tern-lang/tern/lang/token"
)

// Scanner tokenizes source files for the parser to consume.
type Scanner struct {
	// immutable state after Init
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	// mutable scanning state
	cur  rune // current character, -1 at EOF
	off  int  // offset in bytes of cur
	roff int  // reading offset in bytes (position after cur)
}

// Init initializes the scanner to tokenize a new file. It panics if the file
// size is not the same as the length of the src slice.
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}

	s.file = file
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

// read the next character into s.cur; s.cur < 0 means end-of-file.
func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}

	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

// peek returns the byte following the most recently read character without
// advancing the scanner. If the scanner is at EOF, peek returns 0.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(token.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

func (s *Scanner) skipWhitespace() {
	for s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n' {
		s.advance()
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDecimal(r rune) bool {
	return '0' <= r && r <= '9'
}

// Scan returns the next token in the source file and fills tokVal with its
// raw text, position and decoded value.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespace()

	pos := token.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.IDENT
		if len(lit) > 1 {
			// keywords are longer than one letter - avoid lookup otherwise
			tok = token.LookupKw(lit)
		}
		*tokVal = token.Value{Raw: lit, Pos: pos}

	case isDecimal(cur) || cur == '.' && isDecimal(rune(s.peek())):
		var lit string
		tok, lit = s.number()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		if tok == token.INTLIT {
			v, err := strconv.ParseInt(lit, 10, 32)
			if err != nil {
				s.error(start, "integer literal value out of range")
			}
			tokVal.Int = int32(v)
		} else {
			v, err := strconv.ParseFloat(lit, 32)
			if err != nil {
				s.error(start, "float literal value out of range")
			}
			tokVal.Float = float32(v)
		}

	default:
		s.advance() // always make progress

		switch cur {
		case -1:
			tok = token.EOF
			*tokVal = token.Value{Pos: pos}
			return tok

		case '"':
			raw, val, ok := s.stringLit(start)
			tok = token.STRLIT
			if !ok {
				tok = token.ILLEGAL
			}
			*tokVal = token.Value{Raw: raw, Pos: pos, Str: val}
			return tok

		case '+':
			tok = token.PLUS
		case '-':
			tok = token.MINUS
		case '*':
			tok = token.STAR
		case '/':
			switch s.cur {
			case '/':
				for s.cur != '\n' && s.cur != -1 {
					s.advance()
				}
				tok = token.COMMENT
			case '*':
				s.advance()
				s.longComment(start)
				tok = token.COMMENT
			default:
				tok = token.SLASH
			}
		case '!':
			tok = token.BANG
			if s.cur == '=' {
				s.advance()
				tok = token.NEQ
			}
		case '=':
			tok = token.ASSIGN
			if s.cur == '=' {
				s.advance()
				tok = token.EQL
			}
		case '<':
			tok = token.LT
			if s.cur == '=' {
				s.advance()
				tok = token.LE
			}
		case '>':
			tok = token.GT
			if s.cur == '=' {
				s.advance()
				tok = token.GE
			}
		case ',':
			tok = token.COMMA
		case ';':
			tok = token.SEMI
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE

		default:
			s.errorf(start, "illegal character %#U", cur)
			tok = token.ILLEGAL
		}
		*tokVal = token.Value{Raw: string(s.src[start:s.off]), Pos: pos}
	}

	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDecimal(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number() (token.Token, string) {
	start := s.off
	tok := token.INTLIT
	for isDecimal(s.cur) {
		s.advance()
	}
	if s.cur == '.' {
		tok = token.FLTLIT
		s.advance()
		for isDecimal(s.cur) {
			s.advance()
		}
	}
	return tok, string(s.src[start:s.off])
}

// stringLit scans a double-quoted string literal; the opening quote has been
// consumed. It returns the raw text including quotes and the decoded value.
func (s *Scanner) stringLit(start int) (raw, val string, ok bool) {
	var sb []byte
	for {
		switch s.cur {
		case -1, '\n':
			s.error(start, "string literal not terminated")
			return string(s.src[start:s.off]), string(sb), false

		case '"':
			s.advance()
			return string(s.src[start:s.off]), string(sb), true

		case '\\':
			s.advance()
			switch s.cur {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			case 'r':
				sb = append(sb, '\r')
			case '\\':
				sb = append(sb, '\\')
			case '"':
				sb = append(sb, '"')
			default:
				s.errorf(s.off, "unknown escape sequence \\%c", s.cur)
			}
			s.advance()

		default:
			sb = utf8.AppendRune(sb, s.cur)
			s.advance()
		}
	}
}

// longComment scans a /* ... */ comment; the opening delimiter has been
// consumed.
func (s *Scanner) longComment(start int) {
	for {
		if s.cur == -1 {
			s.error(start, "comment not terminated")
			return
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}
