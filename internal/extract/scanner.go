// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

type operandKind int

const (
	kindOther operandKind = iota
	kindNumber
	kindString
	kindName
	kindArray
	kindOperator
)

// operand is one token of a content stream. Operators are returned as
// tokens too, with kind kindOperator.
type operand struct {
	kind  operandKind
	str   string
	num   float64
	items []operand
}

// scanner tokenizes a PDF content stream.
type scanner struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) peek(off int) byte {
	if s.pos+off < len(s.data) {
		return s.data[s.pos+off]
	}
	return 0
}

func (s *scanner) next() (operand, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return operand{}, false
	}

	switch c := s.data[s.pos]; c {
	case '(':
		return operand{kind: kindString, str: decodeText(s.literal())}, true
	case '<':
		if s.peek(1) == '<' {
			s.pos += 2
			return operand{kind: kindOther}, true
		}
		return operand{kind: kindString, str: decodeText(s.hexString())}, true
	case '>':
		s.pos++
		if s.peek(0) == '>' {
			s.pos++
		}
		return operand{kind: kindOther}, true
	case '[':
		s.pos++
		var items []operand
		for {
			s.skipSpace()
			if s.pos >= len(s.data) {
				break
			}
			if s.data[s.pos] == ']' {
				s.pos++
				break
			}
			item, ok := s.next()
			if !ok {
				break
			}
			items = append(items, item)
		}
		return operand{kind: kindArray, items: items}, true
	case ']', ')', '{', '}':
		s.pos++
		return operand{kind: kindOther}, true
	case '/':
		s.pos++
		return operand{kind: kindName, str: s.word()}, true
	}

	w := s.word()
	if w == "" {
		s.pos++
		return operand{kind: kindOther}, true
	}
	if n, err := strconv.ParseFloat(w, 64); err == nil {
		return operand{kind: kindNumber, num: n}, true
	}
	return operand{kind: kindOperator, str: w}, true
}

// word reads a run of regular characters.
func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a parenthesized string, resolving escapes and balanced
// inner parentheses.
func (s *scanner) literal() []byte {
	s.pos++
	depth := 1
	var out []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.peek(0) == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.peek(0) >= '0' && s.peek(0) <= '7'; i++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// hexString reads a <...> string.
func (s *scanner) hexString() []byte {
	s.pos++
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out, err := hex.DecodeString(string(digits))
	if err != nil {
		return nil
	}
	return out
}

// skipInlineImage moves past the binary data of a BI ... ID ... EI block.
func (s *scanner) skipInlineImage() {
	if i := bytes.Index(s.data[s.pos:], []byte("EI")); i >= 0 {
		s.pos += i + 2
		return
	}
	s.pos = len(s.data)
}

// decodeText converts a PDF string to UTF-8. Strings with a UTF-16 byte
// order mark are decoded as UTF-16; anything else is treated as
// Windows-1252, which matches PDFDocEncoding for printable text.
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
