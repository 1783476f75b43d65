package charset

import (
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"

	"github.com/auvred/regbridge/internal/casefold"
)

func TestSetOperations(t *testing.T) {
	const (
		union = iota
		subtraction
	)

	run := func(t *testing.T, name string, op int, cases [][3][]Range) {
		t.Run(name, func(t *testing.T) {
			for _, c := range cases {
				t.Run("", func(t *testing.T) {
					a := Set{ranges: c[0]}
					b := Set{ranges: c[1]}
					switch op {
					case union:
						a.Union(&b)
					case subtraction:
						a.Subtract(&b)
					}
					assert.DeepEqual(t, c[2], a.ranges, cmpopts.EquateEmpty())
				})
			}
		})
	}

	run(t, "union", union, [][3][]Range{
		{nil, nil, nil},
		{nil, {{1, 2}}, {{1, 2}}},
		{{{1, 2}}, nil, {{1, 2}}},
		{{{5, 10}}, {{5, 10}}, {{5, 10}}},
		{{{5, 10}}, {{6, 9}}, {{5, 10}}},
		{{{5, 10}}, {{6, 11}}, {{5, 11}}},
		{{{5, 10}}, {{4, 9}}, {{4, 10}}},
		{{{5, 10}}, {{4, 11}}, {{4, 11}}},
		{{{5, 10}}, {{11, 12}}, {{5, 12}}},
		{{{5, 10}}, {{12, 13}}, {{5, 10}, {12, 13}}},
		{{{1, 2}, {8, 9}}, {{4, 5}}, {{1, 2}, {4, 5}, {8, 9}}},
		{{{1, 2}, {8, 9}}, {{3, 7}}, {{1, 9}}},
	})
	run(t, "subtraction", subtraction, [][3][]Range{
		{nil, nil, nil},
		{{{1, 2}}, nil, {{1, 2}}},
		{{{5, 10}}, {{5, 10}}, nil},
		{{{5, 10}}, {{6, 9}}, {{5, 5}, {10, 10}}},
		{{{5, 10}}, {{1, 6}}, {{7, 10}}},
		{{{5, 10}}, {{9, 20}}, {{5, 8}}},
		{{{1, 3}, {5, 8}}, {{2, 6}}, {{1, 1}, {7, 8}}},
		{{{1, 3}, {5, 8}}, {{0, 20}}, nil},
	})
}

func TestAdd(t *testing.T) {
	s := &Set{}
	for _, r := range []rune{5, 7, 6, 1, 10, 2, 11, 0, 3} {
		s.Add(r)
	}
	assert.DeepEqual(t, s.ranges, []Range{{0, 3}, {5, 7}, {10, 11}})
	assert.Assert(t, s.Contains(6))
	assert.Assert(t, !s.Contains(4))
	assert.Assert(t, !s.Contains(12))
}

func TestComplement(t *testing.T) {
	s := New(Range{'0', '9'})
	s.Complement(0xffff)
	assert.DeepEqual(t, s.ranges, []Range{{0, '0' - 1}, {'9' + 1, 0xffff}})

	s.Complement(0xffff)
	assert.DeepEqual(t, s.ranges, []Range{{'0', '9'}})

	empty := &Set{}
	empty.Complement(unicode.MaxRune)
	assert.DeepEqual(t, empty.ranges, []Range{{0, unicode.MaxRune}})

	full := New(Range{0, 0xffff})
	full.Complement(0xffff)
	assert.Assert(t, full.IsEmpty())
}

func TestCaseClosure(t *testing.T) {
	s := &Set{}
	s.CloseRange('a', 'c', casefold.BMP())
	assert.DeepEqual(t, s.ranges, []Range{{'A', 'C'}, {'a', 'c'}})

	s = New(Range{'k', 'k'})
	s.CaseClose(casefold.Unicode())
	assert.DeepEqual(t, s.ranges, []Range{{'K', 'K'}, {'k', 'k'}, {0x212a, 0x212a}})

	s = New(Range{'k', 'k'})
	s.CaseClose(casefold.BMP())
	assert.DeepEqual(t, s.ranges, []Range{{'K', 'K'}, {'k', 'k'}})
}

func TestFromTable(t *testing.T) {
	s := FromTable(unicode.Nd)
	assert.Assert(t, s.Contains('0'))
	assert.Assert(t, s.Contains(0x0669)) // ARABIC-INDIC DIGIT NINE
	assert.Assert(t, !s.Contains('a'))

	// strided entries
	lu := FromTable(unicode.Lu)
	assert.Assert(t, lu.Contains(0x0100))
	assert.Assert(t, !lu.Contains(0x0101))
}

func TestTable(t *testing.T) {
	s := New(Range{'a', 'z'}, Range{0x100, 0x10010}, Range{0x20000, 0x20000})
	table := s.Table()
	assert.Equal(t, table.LatinOffset, 1)
	assert.Equal(t, len(table.R16), 2)
	assert.Equal(t, len(table.R32), 2)
	for _, r := range []rune{'a', 'z', 0x100, 0xffff, 0x10000, 0x10010, 0x20000} {
		assert.Assert(t, unicode.Is(table, r), "U+%04X", r)
	}
	for _, r := range []rune{'A', 0xff, 0x10011, 0x1ffff} {
		assert.Assert(t, !unicode.Is(table, r), "U+%04X", r)
	}
	assert.DeepEqual(t, FromTable(table).Ranges(), s.Ranges())
}
