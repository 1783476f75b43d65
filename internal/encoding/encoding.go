// Package encoding converts UTF-16 subjects into the byte buffers the
// backend engine searches, and maps positions between the two.
package encoding

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/auvred/regbridge/internal/casefold"
)

// Encoding is one way of laying out a UTF-16 subject as bytes.
type Encoding interface {
	Name() string
	// Width is the size in bytes of the narrowest character.
	Width() int
	// UnitBytes is the number of bytes per UTF-16 code unit when that ratio
	// is constant, and 0 otherwise.
	UnitBytes() int
	// Unicode reports whether a surrogate pair is one character.
	Unicode() bool

	Encode(units []uint16) []byte
	ByteLength(units []uint16) int
	// CodePointAt decodes the character at pos and reports its size in
	// bytes. pos must be a character boundary before the end of buf.
	CodePointAt(buf []byte, pos int) (rune, int)
	NextPos(buf []byte, pos int) int
	PrevPos(buf []byte, pos int) int
	// UnitsAt is the number of UTF-16 code units the character at pos
	// was encoded from.
	UnitsAt(buf []byte, pos int) int

	CaseFold(cp rune) (rune, bool)
	CaseUnfold(cp rune) ([]rune, bool)
	FoldTable() *casefold.Table
}

var (
	UCS2  Encoding = ucs2{}
	UTF16 Encoding = utf16le{}
	UTF32 Encoding = utf32le{}
)

// Select picks the encoding for a pattern. Non-Unicode patterns see code
// units. Unicode patterns see code points, and case-insensitive ones need
// the fixed four byte layout so that every character folds in place.
func Select(unicode, ignoreCase bool) Encoding {
	switch {
	case !unicode:
		return UCS2
	case ignoreCase:
		return UTF32
	default:
		return UTF16
	}
}

func isHighSurrogate(r rune) bool {
	return (r >> 10) == (0xd800 >> 10)
}

func isLowSurrogate(r rune) bool {
	return (r >> 10) == (0xdc00 >> 10)
}

// asciiFold handles ASCII letters without a table lookup. The Unicode table
// folds onto lower case and the BMP table onto upper case. k and s are left
// to the Unicode table because their classes have a third member.
func asciiFold(cp rune, upper, unicode bool) (rune, bool, bool) {
	lower := cp | 0x20
	if cp > 0x7f || lower < 'a' || lower > 'z' {
		return 0, false, false
	}
	if unicode && (lower == 'k' || lower == 's') {
		return 0, false, false
	}
	isUpper := cp&0x20 == 0
	if isUpper == upper {
		return 0, false, true
	}
	return cp ^ 0x20, true, true
}

func asciiUnfold(cp rune, upper, unicode bool) ([]rune, bool, bool) {
	lower := cp | 0x20
	if cp > 0x7f || lower < 'a' || lower > 'z' {
		return nil, false, false
	}
	if unicode && (lower == 'k' || lower == 's') {
		return nil, false, false
	}
	isUpper := cp&0x20 == 0
	if isUpper != upper {
		return nil, false, true
	}
	return []rune{cp ^ 0x20}, true, true
}

type ucs2 struct{}

func (ucs2) Name() string   { return "UCS-2" }
func (ucs2) Width() int     { return 2 }
func (ucs2) UnitBytes() int { return 2 }
func (ucs2) Unicode() bool  { return false }

func (ucs2) Encode(units []uint16) []byte {
	return encodeUnits(units)
}

func (ucs2) ByteLength(units []uint16) int {
	return 2 * len(units)
}

func (ucs2) CodePointAt(buf []byte, pos int) (rune, int) {
	return rune(binary.LittleEndian.Uint16(buf[pos:])), 2
}

func (ucs2) NextPos(buf []byte, pos int) int {
	return min(pos+2, len(buf))
}

func (ucs2) PrevPos(buf []byte, pos int) int {
	return max(pos-2, 0)
}

func (ucs2) UnitsAt(buf []byte, pos int) int {
	return 1
}

func (ucs2) CaseFold(cp rune) (rune, bool) {
	if r, ok, handled := asciiFold(cp, true, false); handled {
		return r, ok
	}
	return casefold.BMP().Fold(cp)
}

func (ucs2) CaseUnfold(cp rune) ([]rune, bool) {
	if r, ok, handled := asciiUnfold(cp, true, false); handled {
		return r, ok
	}
	return casefold.BMP().Unfold(cp)
}

func (ucs2) FoldTable() *casefold.Table {
	return casefold.BMP()
}

type utf16le struct{}

func (utf16le) Name() string   { return "UTF-16LE" }
func (utf16le) Width() int     { return 2 }
func (utf16le) UnitBytes() int { return 2 }
func (utf16le) Unicode() bool  { return true }

func (utf16le) Encode(units []uint16) []byte {
	return encodeUnits(units)
}

func (utf16le) ByteLength(units []uint16) int {
	return 2 * len(units)
}

func (utf16le) CodePointAt(buf []byte, pos int) (rune, int) {
	hi := rune(binary.LittleEndian.Uint16(buf[pos:]))
	if !isHighSurrogate(hi) || pos+4 > len(buf) {
		return hi, 2
	}
	lo := rune(binary.LittleEndian.Uint16(buf[pos+2:]))
	if !isLowSurrogate(lo) {
		return hi, 2
	}
	return utf16.DecodeRune(hi, lo), 4
}

func (e utf16le) NextPos(buf []byte, pos int) int {
	if pos >= len(buf) {
		return len(buf)
	}
	_, size := e.CodePointAt(buf, pos)
	return pos + size
}

func (utf16le) PrevPos(buf []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	pos -= 2
	lo := rune(binary.LittleEndian.Uint16(buf[pos:]))
	if pos >= 2 && isLowSurrogate(lo) && isHighSurrogate(rune(binary.LittleEndian.Uint16(buf[pos-2:]))) {
		pos -= 2
	}
	return pos
}

func (e utf16le) UnitsAt(buf []byte, pos int) int {
	_, size := e.CodePointAt(buf, pos)
	return size / 2
}

func (utf16le) CaseFold(cp rune) (rune, bool) {
	if r, ok, handled := asciiFold(cp, false, true); handled {
		return r, ok
	}
	return casefold.Unicode().Fold(cp)
}

func (utf16le) CaseUnfold(cp rune) ([]rune, bool) {
	if r, ok, handled := asciiUnfold(cp, false, true); handled {
		return r, ok
	}
	return casefold.Unicode().Unfold(cp)
}

func (utf16le) FoldTable() *casefold.Table {
	return casefold.Unicode()
}

type utf32le struct{}

func (utf32le) Name() string   { return "UTF-32LE" }
func (utf32le) Width() int     { return 4 }
func (utf32le) UnitBytes() int { return 0 }
func (utf32le) Unicode() bool  { return true }

func (e utf32le) Encode(units []uint16) []byte {
	buf := make([]byte, 0, e.ByteLength(units))
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if isHighSurrogate(r) && i+1 < len(units) && isLowSurrogate(rune(units[i+1])) {
			r = utf16.DecodeRune(r, rune(units[i+1]))
			i++
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(r))
	}
	return buf
}

func (utf32le) ByteLength(units []uint16) int {
	n := 0
	for i := 0; i < len(units); i++ {
		if isHighSurrogate(rune(units[i])) && i+1 < len(units) && isLowSurrogate(rune(units[i+1])) {
			i++
		}
		n += 4
	}
	return n
}

func (utf32le) CodePointAt(buf []byte, pos int) (rune, int) {
	return rune(binary.LittleEndian.Uint32(buf[pos:])), 4
}

func (utf32le) NextPos(buf []byte, pos int) int {
	return min(pos+4, len(buf))
}

func (utf32le) PrevPos(buf []byte, pos int) int {
	return max(pos-4, 0)
}

func (utf32le) UnitsAt(buf []byte, pos int) int {
	if binary.LittleEndian.Uint32(buf[pos:]) > 0xffff {
		return 2
	}
	return 1
}

func (utf32le) CaseFold(cp rune) (rune, bool) {
	if r, ok, handled := asciiFold(cp, false, true); handled {
		return r, ok
	}
	return casefold.Unicode().Fold(cp)
}

func (utf32le) CaseUnfold(cp rune) ([]rune, bool) {
	if r, ok, handled := asciiUnfold(cp, false, true); handled {
		return r, ok
	}
	return casefold.Unicode().Unfold(cp)
}

func (utf32le) FoldTable() *casefold.Table {
	return casefold.Unicode()
}

func encodeUnits(units []uint16) []byte {
	buf := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[2*i:], u)
	}
	return buf
}
