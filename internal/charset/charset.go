// Package charset implements sets of code points stored as sorted,
// non-overlapping ranges.
package charset

import (
	"slices"
	"unicode"

	"github.com/auvred/regbridge/internal/casefold"
)

type Range struct {
	Lo rune
	Hi rune
}

// Set is a set of code points. The zero value is the empty set.
type Set struct {
	// Non-overlapping ranges sorted in ascending order
	ranges []Range
}

func New(ranges ...Range) *Set {
	s := &Set{}
	for _, r := range ranges {
		s.AddRange(r.Lo, r.Hi)
	}
	return s
}

func (s *Set) Ranges() []Range {
	return s.ranges
}

func (s *Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

func (s *Set) Clone() *Set {
	return &Set{ranges: slices.Clone(s.ranges)}
}

// Single reports the only code point of s, if s has exactly one.
func (s *Set) Single() (rune, bool) {
	if len(s.ranges) == 1 && s.ranges[0].Lo == s.ranges[0].Hi {
		return s.ranges[0].Lo, true
	}
	return 0, false
}

func (s *Set) Union(other *Set) {
	if len(other.ranges) == 0 {
		return
	}
	if len(s.ranges) == 0 {
		s.ranges = slices.Clone(other.ranges)
		return
	}
	ranges := make([]Range, 0, len(s.ranges)+len(other.ranges))

	i := 0
	j := 0

	for {
		var next Range
		if i < len(s.ranges) && (j >= len(other.ranges) || s.ranges[i].Lo < other.ranges[j].Lo) {
			next = s.ranges[i]
			i++
		} else if j < len(other.ranges) {
			next = other.ranges[j]
			j++
		} else {
			break
		}
		if len(ranges) == 0 {
			ranges = append(ranges, next)
			continue
		}
		r := &ranges[len(ranges)-1]
		if next.Hi <= r.Hi {
			continue
		}
		if next.Lo <= r.Hi+1 {
			r.Hi = next.Hi
			continue
		}
		ranges = append(ranges, next)
	}
	s.ranges = ranges
}

func (s *Set) AddRange(lo, hi rune) {
	if lo > hi {
		return
	}
	s.Union(&Set{ranges: []Range{{Lo: lo, Hi: hi}}})
}

func (s *Set) Add(r rune) {
	if len(s.ranges) == 0 {
		s.ranges = []Range{{Lo: r, Hi: r}}
		return
	}
	if r == s.ranges[0].Lo-1 {
		s.ranges[0].Lo--
		return
	}
	if r < s.ranges[0].Lo {
		s.ranges = slices.Insert(s.ranges, 0, Range{Lo: r, Hi: r})
		return
	}
	// TODO(perf): binary search
	for i := 0; i < len(s.ranges); i++ {
		range_ := &s.ranges[i]
		if range_.Lo <= r && r <= range_.Hi {
			return
		}
		if i < len(s.ranges)-1 && range_.Hi < r && r < s.ranges[i+1].Lo {
			if range_.Hi+2 == s.ranges[i+1].Lo {
				range_.Hi = s.ranges[i+1].Hi
				copy(s.ranges[i+1:], s.ranges[i+2:])
				s.ranges = s.ranges[:len(s.ranges)-1]
			} else if range_.Hi+1 == r {
				range_.Hi++
			} else if s.ranges[i+1].Lo-1 == r {
				s.ranges[i+1].Lo--
			} else {
				s.ranges = slices.Insert(s.ranges, i+1, Range{Lo: r, Hi: r})
			}
			return
		}
	}
	last := &s.ranges[len(s.ranges)-1]
	if last.Hi+1 == r {
		last.Hi++
		return
	}
	s.ranges = append(s.ranges, Range{Lo: r, Hi: r})
}

func (s *Set) Subtract(other *Set) {
	ranges := []Range{}

	j := 0
	for _, sRange := range s.ranges {
		for j < len(other.ranges) && other.ranges[j].Hi < sRange.Lo {
			j++
		}

		for j < len(other.ranges) {
			oRange := other.ranges[j]
			if oRange.Lo > sRange.Hi {
				break
			}
			if oRange.Lo > sRange.Lo {
				ranges = append(ranges, Range{Lo: sRange.Lo, Hi: oRange.Lo - 1})
			}
			if oRange.Hi < sRange.Hi {
				sRange.Lo = oRange.Hi + 1
				j++
			} else {
				sRange.Lo = sRange.Hi + 1
				break
			}
		}

		if sRange.Lo <= sRange.Hi {
			ranges = append(ranges, sRange)
		}
	}
	s.ranges = ranges
}

func (s *Set) Contains(r rune) bool {
	lo := 0
	hi := len(s.ranges)
	for lo < hi {
		m := int(uint(lo+hi) >> 1)
		range_ := s.ranges[m]
		if range_.Lo <= r && r <= range_.Hi {
			return true
		}
		if r < range_.Lo {
			hi = m
		} else {
			lo = m + 1
		}
	}
	return false
}

// Complement inverts s within [0, maxRune].
func (s *Set) Complement(maxRune rune) {
	if len(s.ranges) == 0 {
		s.ranges = []Range{{Lo: 0, Hi: maxRune}}
		return
	}
	ranges := make([]Range, 0, len(s.ranges)+1)
	next := rune(0)
	for _, r := range s.ranges {
		if r.Lo > maxRune {
			break
		}
		if r.Lo > next {
			ranges = append(ranges, Range{Lo: next, Hi: r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= maxRune {
		ranges = append(ranges, Range{Lo: next, Hi: maxRune})
	}
	s.ranges = ranges
}

// CloseRange adds [lo, hi] and completes it with every case-equivalent
// code point the table knows about.
func (s *Set) CloseRange(lo, hi rune, t *casefold.Table) {
	s.AddRange(lo, hi)
	extra := &Set{}
	t.CompleteRange(lo, hi, extra.Add)
	s.Union(extra)
}

// CaseClose completes s with every code point case-equivalent to a member.
func (s *Set) CaseClose(t *casefold.Table) {
	extra := &Set{}
	t.Complete(s.Contains, extra.Add)
	s.Union(extra)
}

// FromTable converts a unicode.RangeTable into a Set.
func FromTable(table *unicode.RangeTable) *Set {
	s := &Set{}
	for _, r := range table.R16 {
		appendStrided(s, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range table.R32 {
		appendStrided(s, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return s
}

func appendStrided(s *Set, lo, hi, stride rune) {
	if stride == 1 {
		s.push(lo, hi)
		return
	}
	for r := lo; r <= hi; r += stride {
		s.push(r, r)
	}
}

// push appends a range that starts at or after every range already in s.
func (s *Set) push(lo, hi rune) {
	if n := len(s.ranges); n > 0 && s.ranges[n-1].Hi+1 >= lo {
		s.ranges[n-1].Hi = max(s.ranges[n-1].Hi, hi)
		return
	}
	s.ranges = append(s.ranges, Range{Lo: lo, Hi: hi})
}

// Table converts s into a unicode.RangeTable.
func (s *Set) Table() *unicode.RangeTable {
	t := &unicode.RangeTable{}
	for _, r := range s.ranges {
		lo, hi := r.Lo, r.Hi
		if lo <= 0xffff {
			h := min(hi, 0xffff)
			t.R16 = append(t.R16, unicode.Range16{Lo: uint16(lo), Hi: uint16(h), Stride: 1})
			if h <= unicode.MaxLatin1 {
				t.LatinOffset++
			}
			if hi <= 0xffff {
				continue
			}
			lo = 0x10000
		}
		t.R32 = append(t.R32, unicode.Range32{Lo: uint32(lo), Hi: uint32(hi), Stride: 1})
	}
	return t
}
