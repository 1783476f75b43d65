package translator

import (
	"math"
	"unicode/utf16"
)

func (p *parser) atEnd() bool {
	return p.pos >= len(p.src)
}

// If the pattern is ended, returns 0, true
func (p *parser) peek() (uint16, bool) {
	return p.peekN(0)
}

// If the pattern is ended, returns 0, true
func (p *parser) peekN(n int) (uint16, bool) {
	pos := p.pos + n
	if pos >= len(p.src) {
		return 0, true
	}
	return p.src[pos], false
}

func (p *parser) consume(expected uint16) bool {
	if char, ended := p.peek(); ended || char != expected {
		return false
	}
	p.pos++
	return true
}

// next reads one character. In Unicode mode a surrogate pair is read as one
// code point.
func (p *parser) next() (rune, bool) {
	return p.nextIn(p.unicode)
}

func (p *parser) nextIn(unicodeMode bool) (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	r := rune(p.src[p.pos])
	p.pos++
	if !unicodeMode || !isHighSurrogate(r) || p.pos == len(p.src) {
		return r, true
	}
	lo := rune(p.src[p.pos])
	if isLowSurrogate(lo) {
		r = utf16.DecodeRune(r, lo)
		p.pos++
	}
	return r, true
}

func (p *parser) text(start, end int) string {
	return string(utf16.Decode(p.src[start:end]))
}

// decimal reads a run of decimal digits, saturating at math.MaxInt.
func (p *parser) decimal() (int, bool) {
	char, ended := p.peek()
	if ended || !isDigit(char) {
		return 0, false
	}
	n := 0
	for ; !ended && isDigit(char); char, ended = p.peek() {
		p.pos++
		d := int(char - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
		} else {
			n = n*10 + d
		}
	}
	return n, true
}

func (p *parser) peek4HexDigits() (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		c, ended := p.peekN(i)
		if ended || !isHexDigit(c) {
			return 0, false
		}
		r = r<<4 | rune(parseHexDigit(c))
	}
	return r, true
}

func isHighSurrogate(r rune) bool {
	return (r >> 10) == (0xd800 >> 10)
}

func isLowSurrogate(r rune) bool {
	return (r >> 10) == (0xdc00 >> 10)
}

func isSurrogate(r rune) bool {
	return uint32(r)-0xd800 < 0xe000-0xd800
}

func isDigit(c uint16) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c uint16) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f')
}

func parseHexDigit(c uint16) uint16 {
	if isDigit(c) {
		return c - '0'
	}
	return c | 0x20 - 'a' + 10
}

func isASCIILetter(c uint16) bool {
	return c|0x20 >= 'a' && c|0x20 <= 'z'
}

func isASCIIWordChar(c uint16) bool {
	return isASCIILetter(c) || isDigit(c) || c == '_'
}
