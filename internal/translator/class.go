package translator

import (
	"github.com/auvred/regbridge/internal/charset"
)

// classAtom is one element of a character class: either a single
// character or, for class escapes, a whole set.
type classAtom struct {
	r   rune
	set *charset.Set
}

func (a classAtom) addTo(s *charset.Set, p *parser) {
	if a.set != nil {
		s.Union(a.set)
		return
	}
	p.addRange(s, a.r, a.r)
}

// addRange adds [lo, hi], completed with its case-equivalent code points
// right away when ignoreCase is on.
func (p *parser) addRange(s *charset.Set, lo, hi rune) {
	if p.opts.IgnoreCase {
		if lo == hi {
			if class := p.caseClass(lo); class != nil {
				s.Union(class)
				return
			}
		}
		s.CloseRange(lo, hi, p.fold)
		return
	}
	s.AddRange(lo, hi)
}

// parseClass parses a character class. The opening '[' at start has been
// consumed. The result is always a positive set.
func (p *parser) parseClass(start int) (*charset.Set, error) {
	negated := p.consume('^')
	set := &charset.Set{}

	for {
		left, end, err := p.parseClassAtom(start)
		if err != nil {
			return nil, err
		}
		if end {
			break
		}

		if !p.consume('-') {
			left.addTo(set, p)
			continue
		}
		dash := p.pos - 1
		if c, _ := p.peek(); c == ']' {
			left.addTo(set, p)
			set.Add('-')
			continue
		}

		right, end, err := p.parseClassAtom(start)
		if err != nil {
			return nil, err
		}
		if end {
			// unreachable: ']' was checked above
			break
		}
		if left.set != nil || right.set != nil {
			if !p.annexB {
				return nil, p.fail(keyClassEscapeInRange, dash)
			}
			left.addTo(set, p)
			right.addTo(set, p)
			set.Add('-')
			continue
		}
		if left.r > right.r {
			return nil, p.fail(keyClassRangeOrder, dash)
		}
		p.addRange(set, left.r, right.r)
	}

	if negated {
		set.Complement(p.maxRune)
	}
	return set, nil
}

// parseClassAtom returns end == true once the closing ']' is consumed.
func (p *parser) parseClassAtom(classStart int) (classAtom, bool, error) {
	start := p.pos
	char, ok := p.next()
	if !ok {
		return classAtom{}, false, p.fail(keyUnterminatedClass, classStart)
	}
	if char == ']' {
		return classAtom{}, true, nil
	}
	if char != '\\' {
		return classAtom{r: char}, false, nil
	}

	next, _ := p.peek()
	switch next {
	case 'b':
		p.pos++
		// backspace
		return classAtom{r: '\b'}, false, nil
	case '-':
		if p.unicode {
			p.pos++
			return classAtom{r: '-'}, false, nil
		}
	case 'c':
		if p.annexB {
			if c, _ := p.peekN(1); isDigit(c) || c == '_' {
				p.pos += 2
				return classAtom{r: rune(c) % 32}, false, nil
			}
		}
	}

	set, err := p.parseClassEscape(start)
	if err != nil {
		return classAtom{}, false, err
	}
	if set != nil {
		return classAtom{set: set}, false, nil
	}
	r, err := p.parseCharacterEscape(start)
	if err != nil {
		return classAtom{}, false, err
	}
	return classAtom{r: r}, false, nil
}
