package regbridge

import (
	"slices"

	"github.com/coregx/ahocorasick"

	"github.com/auvred/regbridge/internal/encoding"
)

// syntaxUnits are the code units that make a pattern more than its text.
var syntaxUnits = [...]uint16{'^', '$', '\\', '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|'}

// selectLiteral reports whether the pattern matches exactly its own text
// and prepares the searcher if so.
func (p *Pattern) selectLiteral() bool {
	if p.flags.has(FlagIgnoreCase) {
		return false
	}
	unicode := p.flags.has(FlagUnicode)
	for i, u := range p.source {
		if slices.Contains(syntaxUnits[:], u) {
			return false
		}
		if !unicode {
			continue
		}
		// a lone surrogate must not match half of a pair
		switch {
		case utf16IsHigh(u):
			if i+1 >= len(p.source) || !utf16IsLow(p.source[i+1]) {
				return false
			}
		case utf16IsLow(u):
			if i == 0 || !utf16IsHigh(p.source[i-1]) {
				return false
			}
		}
	}
	searcher, err := newLiteralSearcher(p.source)
	if err != nil {
		p.cfg.logger.Debug().Err(err).Msg("literal searcher unavailable")
		return false
	}
	p.literal = searcher
	return true
}

// literalSearcher finds a fixed run of code units. Both sides are laid out
// as UCS-2 bytes so that the automaton can run on them; a hit at an odd
// byte offset straddles two code units and is skipped.
type literalSearcher struct {
	units     []uint16
	automaton *ahocorasick.Automaton
}

func newLiteralSearcher(units []uint16) (*literalSearcher, error) {
	s := &literalSearcher{units: units}
	if len(units) == 0 {
		return s, nil
	}
	builder := ahocorasick.NewBuilder()
	builder.AddPattern(encoding.UCS2.Encode(units))
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}
	s.automaton = automaton
	return s, nil
}

// index returns the first occurrence at or after the code unit start, or
// -1.
func (s *literalSearcher) index(haystack []byte, start int) int {
	if len(s.units) == 0 {
		return start
	}
	for at := 2 * start; at < len(haystack); {
		m := s.automaton.Find(haystack, at)
		if m == nil {
			return -1
		}
		if m.Start%2 == 0 {
			return m.Start / 2
		}
		at = m.Start + 1
	}
	return -1
}

func (s *literalSearcher) hasPrefixAt(input []uint16, start int) bool {
	return len(input)-start >= len(s.units) && slices.Equal(input[start:start+len(s.units)], s.units)
}

type literalEngine struct {
	searcher *literalSearcher
	unicode  bool

	input    []uint16
	haystack []byte
}

func (e *literalEngine) reset(input []uint16) {
	e.input = input
	e.haystack = encoding.UCS2.Encode(input)
}

func (e *literalEngine) search(start int, anchored bool) ([]int, []int, error) {
	start = roundStart(e.input, start, e.unicode)
	pos := start
	if anchored {
		if !e.searcher.hasPrefixAt(e.input, start) {
			return nil, nil, nil
		}
	} else if pos = e.searcher.index(e.haystack, start); pos < 0 {
		return nil, nil, nil
	}
	return []int{pos}, []int{pos + len(e.searcher.units)}, nil
}
