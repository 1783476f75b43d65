// Package backend drives the regexp2 engine over encoded subjects.
//
// Positions on both sides of the package boundary are byte offsets into the
// buffer of an [encoding.Text]. Internally regexp2 works on runes, one rune
// per character of the encoding: a code unit for UCS-2 and a code point for
// the Unicode-aware encodings.
package backend

import (
	"fmt"
	"sort"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"

	"github.com/auvred/regbridge/internal/encoding"
)

// Program is a translated pattern compiled for regexp2.
type Program struct {
	source string
	groups int
	logger zerolog.Logger

	search *regexp2.Regexp
	// compiled on the first anchored match
	anchored *regexp2.Regexp
}

// Compile compiles source, which must be in the grammar produced by the
// translator and define exactly groups capturing groups.
func Compile(source string, groups int, logger zerolog.Logger) (*Program, error) {
	re, err := regexp2.Compile(source, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("backend: compile %q: %w", source, err)
	}
	if n := len(re.GetGroupNumbers()) - 1; n != groups {
		return nil, fmt.Errorf("backend: compile %q: got %d groups, want %d", source, n, groups)
	}
	logger.Debug().
		Str("program", source).
		Int("groups", groups).
		Msg("compiled search program")
	return &Program{
		source: source,
		groups: groups,
		logger: logger,
		search: re,
	}, nil
}

func (p *Program) Source() string { return p.source }

// GroupCount is the number of capturing groups, not counting group 0.
func (p *Program) GroupCount() int { return p.groups }

func (p *Program) anchoredProgram() (*regexp2.Regexp, error) {
	if p.anchored != nil {
		return p.anchored, nil
	}
	// \G holds at the position the search starts from
	source := `\G(?:` + p.source + `)`
	re, err := regexp2.Compile(source, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("backend: compile %q: %w", source, err)
	}
	p.logger.Debug().Str("program", source).Msg("compiled anchored program")
	p.anchored = re
	return re, nil
}

// Region holds the byte offsets of every group of a match. Groups that did
// not participate have -1 on both sides.
type Region struct {
	Begin []int
	End   []int
}

func newRegion(groups int) *Region {
	r := &Region{
		Begin: make([]int, groups+1),
		End:   make([]int, groups+1),
	}
	for i := range r.Begin {
		r.Clear(i)
	}
	return r
}

func (r *Region) Len() int { return len(r.Begin) }

// Clear marks group i as not participating.
func (r *Region) Clear(i int) {
	r.Begin[i], r.End[i] = -1, -1
}

// Subject is a Text decoded into the characters regexp2 reads.
type Subject struct {
	text  *encoding.Text
	runes []rune
	// offsets[i] is the byte offset of runes[i]; the last entry is the
	// length of the buffer
	offsets []int
}

func NewSubject(text *encoding.Text) *Subject {
	buf := text.Bytes()
	enc := text.Encoding()
	n := len(buf) / enc.Width()
	s := &Subject{
		text:    text,
		runes:   make([]rune, 0, n),
		offsets: make([]int, 0, n+1),
	}
	for pos := 0; pos < len(buf); {
		r, size := enc.CodePointAt(buf, pos)
		s.runes = append(s.runes, r)
		s.offsets = append(s.offsets, pos)
		pos += size
	}
	s.offsets = append(s.offsets, len(buf))
	return s
}

func (s *Subject) Text() *encoding.Text { return s.text }

// runeIndex converts a byte offset on a character boundary.
func (s *Subject) runeIndex(byteIndex int) int {
	return sort.SearchInts(s.offsets, byteIndex)
}

func (s *Subject) byteIndex(runeIndex int) int {
	return s.offsets[runeIndex]
}

// Search finds the first match at or after startByte. It returns nil when
// there is none.
func (p *Program) Search(s *Subject, startByte int) (*Region, error) {
	return p.run(p.search, s, startByte)
}

// Match reports the match that starts exactly at startByte, or nil.
func (p *Program) Match(s *Subject, startByte int) (*Region, error) {
	re, err := p.anchoredProgram()
	if err != nil {
		return nil, err
	}
	return p.run(re, s, startByte)
}

func (p *Program) run(re *regexp2.Regexp, s *Subject, startByte int) (*Region, error) {
	if startByte < 0 || startByte > len(s.text.Bytes()) {
		return nil, fmt.Errorf("backend: start %d outside [0, %d]", startByte, len(s.text.Bytes()))
	}
	m, err := re.FindRunesMatchStartingAt(s.runes, s.runeIndex(startByte))
	if err != nil {
		return nil, fmt.Errorf("backend: match %q: %w", p.source, err)
	}
	if m == nil {
		return nil, nil
	}

	region := newRegion(p.groups)
	for i, g := range m.Groups() {
		if i > p.groups {
			break
		}
		if len(g.Captures) == 0 {
			continue
		}
		region.Begin[i] = s.byteIndex(g.Index)
		region.End[i] = s.byteIndex(g.Index + g.Length)
	}
	return region, nil
}
