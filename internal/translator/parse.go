package translator

import (
	"math"
	"strconv"
)

type atomKind uint8

const (
	atomPlain atomKind = iota
	// ^ $ \b \B
	atomAssertion
	atomLookahead
	atomLookbehind
)

func (p *parser) disjunction() error {
	if err := p.alternative(); err != nil {
		return err
	}
	for p.consume('|') {
		p.emit("|")
		if err := p.alternative(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) alternative() error {
	for {
		char, ended := p.peek()
		if ended || char == '|' || char == ')' {
			return nil
		}
		if err := p.term(); err != nil {
			return err
		}
	}
}

func (p *parser) term() error {
	atomStart := len(p.out)
	kind, err := p.atom()
	if err != nil {
		return err
	}

	quantStart := p.pos
	quantMin, quantMax, ok, err := p.quantifier()
	if err != nil || !ok {
		return err
	}
	switch kind {
	case atomAssertion, atomLookbehind:
		return p.fail(keyNothingToRepeat, quantStart)
	case atomLookahead:
		if !p.annexB {
			return p.fail(keyNothingToRepeat, quantStart)
		}
	}

	lazy := p.consume('?')
	possessive := !lazy && p.opts.Possessive && p.consume('+')

	if p.lookbehindDepth > 0 && quantMin != quantMax {
		return p.fail(keyLookbehindQuantifier, quantStart)
	}

	atom := string(p.out[atomStart:])
	p.out = p.out[:atomStart]
	if possessive {
		p.emit("(?>")
	}
	p.emit("(?:")
	p.emit(atom)
	p.emit(")")
	p.out = appendQuantifier(p.out, quantMin, quantMax)
	if lazy {
		p.emit("?")
	}
	if possessive {
		p.emit(")")
	}
	return nil
}

// quantifier reads a quantifier prefix (without the lazy or possessive
// suffix). In the legacy grammar a '{' that does not form a quantifier is
// left in place to be read as a literal.
func (p *parser) quantifier() (quantMin, quantMax int, ok bool, err error) {
	char, ended := p.peek()
	if ended {
		return 0, 0, false, nil
	}
	switch char {
	case '*':
		p.pos++
		return 0, unbounded, true, nil
	case '+':
		p.pos++
		return 1, unbounded, true, nil
	case '?':
		p.pos++
		return 0, 1, true, nil
	case '{':
	default:
		return 0, 0, false, nil
	}

	start := p.pos
	p.pos++
	quantMin, ok = p.decimal()
	if ok {
		quantMax = quantMin
		if p.consume(',') {
			maxStart := p.pos
			if quantMax, ok = p.decimal(); !ok {
				quantMax, ok = unbounded, true
			} else if quantMin > quantMax {
				return 0, 0, false, p.fail(keyQuantifierRangeOrder, maxStart)
			}
		}
	}
	if ok && p.consume('}') {
		return quantMin, quantMax, true, nil
	}
	if !p.annexB {
		return 0, 0, false, p.fail(keyInvalidQuantifier, start)
	}
	p.pos = start
	return 0, 0, false, nil
}

func appendQuantifier(buf []byte, lo, hi int) []byte {
	switch {
	case lo == 0 && hi == unbounded:
		return append(buf, '*')
	case lo == 1 && hi == unbounded:
		return append(buf, '+')
	case lo == 0 && hi == 1:
		return append(buf, '?')
	}
	// regexp2 rejects counts that do not fit an int32
	buf = append(buf, '{')
	buf = strconv.AppendInt(buf, int64(clampCount(lo)), 10)
	switch {
	case hi == unbounded:
		buf = append(buf, ',')
	case hi != lo:
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(clampCount(hi)), 10)
	}
	return append(buf, '}')
}

func clampCount(n int) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return n
}

func (p *parser) atom() (atomKind, error) {
	start := p.pos
	char, _ := p.peek()
	switch char {
	case '^', '$':
		p.pos++
		p.emitAssertion(char)
		return atomAssertion, nil
	case '\\':
		if next, _ := p.peekN(1); next == 'b' || next == 'B' {
			p.pos += 2
			p.emitAssertion(next)
			return atomAssertion, nil
		}
		p.pos++
		return atomPlain, p.atomEscape(start)
	case '(':
		return p.group(start)
	case '.':
		p.pos++
		p.emitDot()
	case '[':
		p.pos++
		set, err := p.parseClass(start)
		if err != nil {
			return 0, err
		}
		p.emitSet(set)
	case '*', '+', '?':
		return 0, p.fail(keyNothingToRepeat, start)
	case '{':
		if p.looksLikeQuantifier() {
			return 0, p.fail(keyNothingToRepeat, start)
		}
		if !p.annexB {
			return 0, p.fail(keyLoneQuantifierBracket, start)
		}
		p.pos++
		p.emitChar('{')
	case '}':
		if !p.annexB {
			return 0, p.fail(keyLoneQuantifierBracket, start)
		}
		p.pos++
		p.emitChar('}')
	case ']':
		if !p.annexB {
			return 0, p.fail(keyUnmatchedBracket, start)
		}
		p.pos++
		p.emitChar(']')
	default:
		r, _ := p.next()
		p.emitChar(r)
	}
	return atomPlain, nil
}

func (p *parser) looksLikeQuantifier() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.pos++
	if _, ok := p.decimal(); !ok {
		return false
	}
	if p.consume(',') {
		p.decimal()
	}
	return p.consume('}')
}

// atomEscape parses the escape whose backslash is at start.
func (p *parser) atomEscape(start int) error {
	char, ended := p.peek()
	if ended {
		return p.fail(keyInvalidEscape, start)
	}

	if char >= '1' && char <= '9' {
		save := p.pos
		n, _ := p.decimal()
		if n <= p.backrefLimit {
			p.backref(n, start)
			return nil
		}
		// not a backreference once the group count is known: the legacy
		// grammar reads it again as an octal or identity escape
		p.pos = save
	}

	if char == 'k' && p.namedMode {
		p.pos++
		name, err := p.parseGroupName()
		if err != nil {
			return err
		}
		return p.namedBackref(name, start)
	}

	set, err := p.parseClassEscape(start)
	if err != nil {
		return err
	}
	if set != nil {
		p.emitSet(set)
		return nil
	}

	r, err := p.parseCharacterEscape(start)
	if err != nil {
		return err
	}
	p.emitChar(r)
	return nil
}

func (p *parser) backref(n, start int) {
	p.usesBackrefs = true
	ref := pendingRef{num: n, offset: start}
	p.decimalRefs = append(p.decimalRefs, ref)
	if p.lookbehindDepth > 0 {
		// only known to be a backreference once the pass is over
		p.lookbehindRefs = append(p.lookbehindRefs, ref)
	}
	p.emitGroupRef(n)
}

func (p *parser) namedBackref(name string, start int) error {
	if p.lookbehindDepth > 0 {
		return p.fail(keyLookbehindBackref, start)
	}
	p.usesBackrefs = true
	index, ok := p.groupIndex(name)
	if !ok {
		// a group defined further on, or an error at the end of the pass
		p.namedRefs = append(p.namedRefs, pendingRef{name: name, offset: start})
		p.emit(emptyPlaceholder)
		return nil
	}
	p.emitGroupRef(index)
	return nil
}

// emitGroupRef emits a backreference to a group that has already closed
// and is still valid. Any other reference can only ever see an unset group
// and always matches the empty string.
func (p *parser) emitGroupRef(group int) {
	if !p.closed.Has(group) || p.negative.Has(group) {
		p.emit(emptyPlaceholder)
		return
	}
	p.emitBackref(group)
}

func (p *parser) group(start int) (atomKind, error) {
	p.pos++
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return 0, p.fail(keyTooDeep, start)
	}

	if !p.consume('?') {
		return atomPlain, p.capture(start, "", 0)
	}

	char, ended := p.peek()
	if ended {
		return 0, p.fail(keyInvalidGroup, start)
	}
	switch char {
	case ':':
		p.pos++
		p.emit("(?:")
		if err := p.closeGroup(start); err != nil {
			return 0, err
		}
		return atomPlain, nil
	case '=', '!':
		p.pos++
		return atomLookahead, p.lookahead(start, char == '!')
	case '<':
		if next, _ := p.peekN(1); next == '=' || next == '!' {
			p.pos += 2
			return atomLookbehind, p.lookbehind(start, next == '!')
		}
		nameStart := p.pos
		name, err := p.parseGroupName()
		if err != nil {
			return 0, err
		}
		return atomPlain, p.capture(start, name, nameStart)
	}
	return 0, p.fail(keyInvalidGroup, start)
}

// closeGroup parses the group body and its closing parenthesis.
func (p *parser) closeGroup(start int) error {
	if err := p.disjunction(); err != nil {
		return err
	}
	if !p.consume(')') {
		return p.fail(keyUnterminatedGroup, start)
	}
	p.emit(")")
	return nil
}

func (p *parser) capture(start int, name string, nameStart int) error {
	if p.lookbehindDepth > 0 {
		return p.fail(keyLookbehindCapture, start)
	}
	if p.groupCount >= p.opts.MaxGroups {
		return p.fail(keyTooManyGroups, start)
	}
	p.groupCount++
	index := p.groupCount
	if name != "" {
		if _, ok := p.groupIndex(name); ok {
			return p.fail(keyDuplicateGroupName, nameStart)
		}
		p.names = append(p.names, Name{Name: name, Index: index})
	}

	// names stay on this side: regexp2 numbers named groups after the
	// unnamed ones
	p.emit("(")
	if err := p.closeGroup(start); err != nil {
		return err
	}
	p.closed.add(index)
	return nil
}

func (p *parser) lookahead(start int, negative bool) error {
	p.usesLookahead = true
	p.lookaheadMarks = append(p.lookaheadMarks, p.groupCount)
	if negative {
		p.emit("(?!")
	} else {
		p.emit("(?=")
	}
	if err := p.closeGroup(start); err != nil {
		return err
	}
	mark := p.lookaheadMarks[len(p.lookaheadMarks)-1]
	p.lookaheadMarks = p.lookaheadMarks[:len(p.lookaheadMarks)-1]
	if negative {
		for i := mark + 1; i <= p.groupCount; i++ {
			p.negative.add(i)
		}
	}
	return nil
}

func (p *parser) lookbehind(start int, negative bool) error {
	p.usesLookbehind = true
	p.lookbehindDepth++
	if negative {
		p.emit("(?<!")
	} else {
		p.emit("(?<=")
	}
	err := p.closeGroup(start)
	p.lookbehindDepth--
	return err
}
