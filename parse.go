// github.com/tagawa0525/pdf-masking - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"bytes"
	"errors"
	"fmt"
)

// Parser reads PDF objects and content-stream operators from an in-memory
// byte buffer. It implements the low-level lexical grammar shared by
// indirect objects in a file body and operands in a content stream: numbers,
// names, strings, dictionaries, arrays, booleans, null, and references.
//
// Parser is also used outside this package (by the content-stream decoder)
// to read operands lying between content-stream operators.
type Parser struct {
	buf []byte
	pos int
}

// NewParser returns a parser reading from buf.
func NewParser(buf []byte) *Parser {
	return &Parser{buf: buf}
}

// Pos returns the current read position.
func (p *Parser) Pos() int { return p.pos }

// SetPos moves the read position.
func (p *Parser) SetPos(pos int) { p.pos = pos }

// Len returns the number of unread bytes.
func (p *Parser) Len() int { return len(p.buf) - p.pos }

// AtEnd reports whether the parser has reached the end of the buffer.
func (p *Parser) AtEnd() bool {
	p.SkipWhiteSpace()
	return p.pos >= len(p.buf)
}

var classRegular, classSpace, classDelim [256]bool

func init() {
	for _, c := range []byte{0, 9, 10, 12, 13, 32} {
		classSpace[c] = true
	}
	for _, c := range []byte("()<>[]{}/%") {
		classDelim[c] = true
	}
	for i := 0; i < 256; i++ {
		classRegular[i] = !classSpace[i] && !classDelim[i]
	}
}

// SkipWhiteSpace advances past whitespace and comments.
func (p *Parser) SkipWhiteSpace() {
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if classSpace[c] {
			p.pos++
		} else if c == '%' {
			for p.pos < len(p.buf) && p.buf[p.pos] != '\r' && p.buf[p.pos] != '\n' {
				p.pos++
			}
		} else {
			break
		}
	}
}

// ParseKeyword reads a bare keyword token (a run of "regular" characters
// that does not start with a digit, sign, '.', '/', '(' or '<'): e.g. "obj",
// "endobj", "stream", "true", "R", or a content-stream operator like "re"
// or "Tj". It returns ok=false if the next token is not such a keyword.
func (p *Parser) ParseKeyword() (kw string, ok bool) {
	p.SkipWhiteSpace()
	start := p.pos
	if p.pos >= len(p.buf) {
		return "", false
	}
	c := p.buf[p.pos]
	if !classRegular[c] {
		return "", false
	}
	switch {
	case c >= '0' && c <= '9', c == '+', c == '-', c == '.':
		return "", false
	}
	for p.pos < len(p.buf) && classRegular[p.buf[p.pos]] {
		p.pos++
	}
	return string(p.buf[start:p.pos]), true
}

// ExpectKeyword consumes the given keyword, returning an error if it is not
// present at the current position.
func (p *Parser) ExpectKeyword(kw string) error {
	save := p.pos
	got, ok := p.ParseKeyword()
	if !ok || got != kw {
		p.pos = save
		return fmt.Errorf("expected keyword %q, got %q", kw, got)
	}
	return nil
}

// ParseObject reads one PDF object: a dictionary, array, name, string,
// number, boolean, null, or (after look-ahead) an indirect reference of the
// form "N G R".
func (p *Parser) ParseObject() (Object, error) {
	p.SkipWhiteSpace()
	if p.pos >= len(p.buf) {
		return nil, errors.New("unexpected end of input")
	}

	c := p.buf[p.pos]
	switch {
	case c == '/':
		return p.parseName()
	case c == '(':
		return p.parseStringLiteral()
	case c == '<':
		if p.pos+1 < len(p.buf) && p.buf[p.pos+1] == '<' {
			return p.parseDict()
		}
		return p.parseStringHex()
	case c == '[':
		return p.parseArray()
	case c >= '0' && c <= '9', c == '+', c == '-', c == '.':
		return p.parseNumberOrReference()
	default:
		kw, ok := p.ParseKeyword()
		if !ok {
			return nil, fmt.Errorf("unexpected byte %q", c)
		}
		switch kw {
		case "true":
			return Boolean(true), nil
		case "false":
			return Boolean(false), nil
		case "null":
			return nil, nil
		default:
			return nil, fmt.Errorf("unexpected keyword %q", kw)
		}
	}
}

func (p *Parser) parseName() (Name, error) {
	p.pos++ // skip '/'
	var out []byte
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if !classRegular[c] {
			break
		}
		if c == '#' && p.pos+2 < len(p.buf) && isHex(p.buf[p.pos+1]) && isHex(p.buf[p.pos+2]) {
			out = append(out, hexVal(p.buf[p.pos+1])<<4|hexVal(p.buf[p.pos+2]))
			p.pos += 3
		} else {
			out = append(out, c)
			p.pos++
		}
	}
	return Name(out), nil
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func (p *Parser) parseStringLiteral() (String, error) {
	start := p.pos
	depth := 0
	p.pos++ // skip '('
	depth++
	for p.pos < len(p.buf) && depth > 0 {
		switch p.buf[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '(':
			depth++
		case ')':
			depth--
		}
		p.pos++
	}
	return ParseString(p.buf[start:p.pos])
}

func (p *Parser) parseStringHex() (String, error) {
	start := p.pos
	for p.pos < len(p.buf) && p.buf[p.pos] != '>' {
		p.pos++
	}
	if p.pos < len(p.buf) {
		p.pos++ // consume '>'
	}
	return ParseString(p.buf[start:p.pos])
}

func (p *Parser) parseDict() (Object, error) {
	p.pos += 2 // skip '<<'
	dict := Dict{}
	for {
		p.SkipWhiteSpace()
		if p.pos+1 < len(p.buf) && p.buf[p.pos] == '>' && p.buf[p.pos+1] == '>' {
			p.pos += 2
			break
		}
		if p.pos >= len(p.buf) || p.buf[p.pos] != '/' {
			return nil, errors.New("malformed dictionary: expected key")
		}
		key, err := p.parseName()
		if err != nil {
			return nil, err
		}
		val, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[key] = val
		}
	}

	// look ahead for an associated stream
	save := p.pos
	p.SkipWhiteSpace()
	if err := p.ExpectKeyword("stream"); err == nil {
		if p.pos < len(p.buf) && p.buf[p.pos] == '\r' {
			p.pos++
		}
		if p.pos < len(p.buf) && p.buf[p.pos] == '\n' {
			p.pos++
		}
		dataStart := p.pos
		length := -1
		if n, ok := dict["Length"].(Integer); ok {
			length = int(n)
		}
		var dataEnd int
		if length >= 0 && dataStart+length <= len(p.buf) {
			dataEnd = dataStart + length
		} else {
			idx := indexOf(p.buf[dataStart:], "endstream")
			if idx < 0 {
				return nil, errors.New("malformed stream: endstream not found")
			}
			dataEnd = dataStart + idx
		}
		raw := make([]byte, dataEnd-dataStart)
		copy(raw, p.buf[dataStart:dataEnd])
		p.pos = dataEnd
		p.SkipWhiteSpace()
		_ = p.ExpectKeyword("endstream")
		return &Stream{Dict: dict, R: bytes.NewReader(raw)}, nil
	}
	p.pos = save
	return dict, nil
}

func indexOf(buf []byte, pat string) int {
	n := len(pat)
	for i := 0; i+n <= len(buf); i++ {
		if string(buf[i:i+n]) == pat {
			return i
		}
	}
	return -1
}

func (p *Parser) parseArray() (Object, error) {
	p.pos++ // skip '['
	arr := Array{}
	for {
		p.SkipWhiteSpace()
		if p.pos < len(p.buf) && p.buf[p.pos] == ']' {
			p.pos++
			break
		}
		if p.pos >= len(p.buf) {
			return nil, errors.New("malformed array: unexpected end of input")
		}
		val, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	return arr, nil
}

func (p *Parser) parseNumberOrReference() (Object, error) {
	start := p.pos
	hasDot := false
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if (c == '+' || c == '-') && p.pos == start {
			p.pos++
		} else if c == '.' && !hasDot {
			hasDot = true
			p.pos++
		} else {
			break
		}
	}
	text := string(p.buf[start:p.pos])

	if hasDot {
		r, err := parseRealLiteral(text)
		return r, err
	}

	intVal, err := parseIntLiteral(text)
	if err != nil {
		return nil, err
	}

	if intVal < 0 {
		return Integer(intVal), nil
	}

	// Look ahead for "G R" to recognize an indirect reference.
	save := p.pos
	p.SkipWhiteSpace()
	genStart := p.pos
	for p.pos < len(p.buf) && p.buf[p.pos] >= '0' && p.buf[p.pos] <= '9' {
		p.pos++
	}
	if p.pos > genStart {
		genVal, err := parseIntLiteral(string(p.buf[genStart:p.pos]))
		if err == nil {
			p.SkipWhiteSpace()
			kwStart := p.pos
			if p.pos < len(p.buf) && p.buf[p.pos] == 'R' &&
				(p.pos+1 >= len(p.buf) || !classRegular[p.buf[p.pos+1]]) {
				p.pos++
				return NewReference(uint32(intVal), uint16(genVal)), nil
			}
			p.pos = kwStart
		}
	}
	p.pos = save
	return Integer(intVal), nil
}

func parseIntLiteral(s string) (int64, error) {
	var neg bool
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var v int64
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
		v = v*10 + int64(c-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}

func parseRealLiteral(s string) (Real, error) {
	var neg bool
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if idx := indexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}
	var v float64
	for _, c := range []byte(intPart) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid real %q", s)
		}
		v = v*10 + float64(c-'0')
	}
	scale := 1.0
	for _, c := range []byte(fracPart) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid real %q", s)
		}
		scale /= 10
		v += float64(c-'0') * scale
	}
	if neg {
		v = -v
	}
	return Real(v), nil
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
