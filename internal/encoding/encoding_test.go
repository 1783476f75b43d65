package encoding

import (
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
)

func u16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func TestSelect(t *testing.T) {
	assert.Equal(t, Select(false, false), UCS2)
	assert.Equal(t, Select(false, true), UCS2)
	assert.Equal(t, Select(true, false), UTF16)
	assert.Equal(t, Select(true, true), UTF32)
}

func TestEncode(t *testing.T) {
	units := []uint16{'a', 0xd83d, 0xdc31, 0xdc00, 'b'}

	assert.DeepEqual(t, UCS2.Encode(units), []byte{'a', 0, 0x3d, 0xd8, 0x31, 0xdc, 0x00, 0xdc, 'b', 0})
	assert.DeepEqual(t, UTF16.Encode(units), UCS2.Encode(units))
	assert.DeepEqual(t, UTF32.Encode(units), []byte{
		'a', 0, 0, 0,
		0x31, 0xf4, 0x01, 0,
		0x00, 0xdc, 0, 0,
		'b', 0, 0, 0,
	})

	for _, enc := range []Encoding{UCS2, UTF16, UTF32} {
		assert.Equal(t, enc.ByteLength(units), len(enc.Encode(units)), enc.Name())
	}
}

func TestTraversal(t *testing.T) {
	units := []uint16{'a', 0xd83d, 0xdc31, 0xd800, 'b'}

	type step struct {
		r     rune
		size  int
		units int
	}
	walk := func(enc Encoding) []step {
		buf := enc.Encode(units)
		var res []step
		for pos := 0; pos < len(buf); pos = enc.NextPos(buf, pos) {
			r, size := enc.CodePointAt(buf, pos)
			res = append(res, step{r, size, enc.UnitsAt(buf, pos)})
		}
		return res
	}
	back := func(enc Encoding) []int {
		buf := enc.Encode(units)
		var res []int
		for pos := len(buf); pos > 0; {
			pos = enc.PrevPos(buf, pos)
			res = append(res, pos)
		}
		return res
	}

	assert.DeepEqual(t, walk(UCS2), []step{{'a', 2, 1}, {0xd83d, 2, 1}, {0xdc31, 2, 1}, {0xd800, 2, 1}, {'b', 2, 1}}, cmp.AllowUnexported(step{}))
	assert.DeepEqual(t, walk(UTF16), []step{{'a', 2, 1}, {0x1f431, 4, 2}, {0xd800, 2, 1}, {'b', 2, 1}}, cmp.AllowUnexported(step{}))
	assert.DeepEqual(t, walk(UTF32), []step{{'a', 4, 1}, {0x1f431, 4, 2}, {0xd800, 4, 1}, {'b', 4, 1}}, cmp.AllowUnexported(step{}))

	assert.DeepEqual(t, back(UCS2), []int{8, 6, 4, 2, 0})
	assert.DeepEqual(t, back(UTF16), []int{8, 6, 2, 0})
	assert.DeepEqual(t, back(UTF32), []int{12, 8, 4, 0})
}

func TestCaseFold(t *testing.T) {
	fold := func(enc Encoding, cp rune) rune {
		r, ok := enc.CaseFold(cp)
		if !ok {
			return -1
		}
		return r
	}

	assert.Equal(t, fold(UCS2, 'a'), 'A')
	assert.Equal(t, fold(UCS2, 'A'), rune(-1))
	assert.Equal(t, fold(UCS2, '1'), rune(-1))
	assert.Equal(t, fold(UCS2, 0x00e0), rune(0x00c0))
	assert.Equal(t, fold(UTF16, 'A'), 'a')
	assert.Equal(t, fold(UTF16, 'a'), rune(-1))
	assert.Equal(t, fold(UTF32, 'K'), 'k')
	assert.Equal(t, fold(UTF32, 0x212a), 'k')
	assert.Equal(t, fold(UTF32, 0x10400), rune(0x10428))

	others, ok := UCS2.CaseUnfold('A')
	assert.Assert(t, ok)
	assert.DeepEqual(t, others, []rune{'a'})

	_, ok = UCS2.CaseUnfold('a')
	assert.Assert(t, !ok)

	others, ok = UTF32.CaseUnfold('k')
	assert.Assert(t, ok)
	assert.DeepEqual(t, others, []rune{'K', 0x212a})

	others, ok = UTF16.CaseUnfold('b')
	assert.Assert(t, ok)
	assert.DeepEqual(t, others, []rune{'B'})
}

// The ASCII shortcut must agree with the tables it stands in for.
func TestASCIIFastPathMatchesTables(t *testing.T) {
	for _, enc := range []Encoding{UCS2, UTF16, UTF32} {
		table := enc.FoldTable()
		for cp := rune(0); cp < 0x80; cp++ {
			gotR, gotOK := enc.CaseFold(cp)
			wantR, wantOK := table.Fold(cp)
			assert.Equal(t, gotOK, wantOK, "%s U+%04X", enc.Name(), cp)
			assert.Equal(t, gotR, wantR, "%s U+%04X", enc.Name(), cp)

			gotU, gotOK := enc.CaseUnfold(cp)
			wantU, wantOK := table.Unfold(cp)
			assert.Equal(t, gotOK, wantOK, "%s U+%04X", enc.Name(), cp)
			assert.DeepEqual(t, gotU, wantU)
		}
	}
}
