package regbridge

// engine is one matching strategy. search returns the code unit offsets of
// every group of the match found at or after start, or exactly at start
// when anchored. It returns nil slices when there is no match. Groups that
// did not participate are -1 on both sides.
type engine interface {
	reset(input []uint16)
	search(start int, anchored bool) (begin, end []int, err error)
}

// Matcher matches a pattern against one input. It keeps the last match
// and must not be used from several goroutines at once; take a Snapshot to
// hand a match over.
type Matcher struct {
	pattern *Pattern
	eng     engine
	input   []uint16

	// offsets of the last match, nil when there is none
	begin []int
	end   []int
}

func newMatcher(p *Pattern, eng engine, input []uint16) *Matcher {
	eng.reset(input)
	return &Matcher{
		pattern: p,
		eng:     eng,
		input:   input,
	}
}

// Reset switches the matcher to a new input and forgets the last match.
// The encoded form of the input is kept when input is the same slice as
// before, so an input edited in place is not seen again: pass the edited
// text in a new slice instead. The same holds for any input while a
// matcher is using it.
func (m *Matcher) Reset(input []uint16) {
	if !sameSlice(m.input, input) {
		m.eng.reset(input)
	}
	m.input = input
	m.begin, m.end = nil, nil
}

func sameSlice(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func (m *Matcher) Pattern() *Pattern { return m.pattern }
func (m *Matcher) Input() []uint16   { return m.input }

// GroupCount returns the number of capturing groups of the pattern.
func (m *Matcher) GroupCount() int {
	return m.pattern.translated.GroupCount
}

// Find searches for the first match that starts at or after start. With
// the sticky flag the match must start exactly at start.
// start must be in [0, len(input)].
func (m *Matcher) Find(start int) (bool, error) {
	return m.run(start, m.pattern.flags.has(FlagSticky))
}

// Matches reports whether a match starts exactly at start.
func (m *Matcher) Matches(start int) (bool, error) {
	return m.run(start, true)
}

func (m *Matcher) run(start int, anchored bool) (bool, error) {
	if start < 0 || start > len(m.input) {
		return false, indexError(start, len(m.input))
	}
	m.begin, m.end = nil, nil
	begin, end, err := m.eng.search(start, anchored)
	if err != nil || begin == nil {
		return false, err
	}
	m.begin, m.end = begin, end
	return true, nil
}

// Start returns where the last match begins.
func (m *Matcher) Start() (int, error) {
	if m.begin == nil {
		return 0, ErrNoMatch
	}
	return m.begin[0], nil
}

// End returns where the last match ends.
func (m *Matcher) End() (int, error) {
	if m.end == nil {
		return 0, ErrNoMatch
	}
	return m.end[0], nil
}

// Snapshot returns the last match as a Result that stays valid after the
// matcher moves on.
func (m *Matcher) Snapshot() (*Result, error) {
	if m.begin == nil {
		return nil, ErrNoMatch
	}
	return newResult(m.pattern, m.input, m.begin, m.end), nil
}

// roundStart moves a start between the halves of a surrogate pair back to
// the lead surrogate. It applies to Unicode patterns only.
func roundStart(input []uint16, start int, unicode bool) int {
	if unicode && start > 0 && start < len(input) &&
		utf16IsLow(input[start]) && utf16IsHigh(input[start-1]) {
		return start - 1
	}
	return start
}

func utf16IsHigh(u uint16) bool { return u >= 0xd800 && u <= 0xdbff }
func utf16IsLow(u uint16) bool  { return u >= 0xdc00 && u <= 0xdfff }

// codePointAt decodes the code point at pos, joining a surrogate pair.
func codePointAt(units []uint16, pos int) (rune, int) {
	u := units[pos]
	if utf16IsHigh(u) && pos+1 < len(units) && utf16IsLow(units[pos+1]) {
		return (rune(u)-0xd800)<<10 + rune(units[pos+1]) - 0xdc00 + 0x10000, 2
	}
	return rune(u), 1
}

func unsetGroups(n int) (begin, end []int) {
	begin = make([]int, n+1)
	end = make([]int, n+1)
	for i := range begin {
		begin[i], end[i] = -1, -1
	}
	return begin, end
}
