package regbridge

import (
	"fmt"
	"slices"
	"sync"
	"unicode/utf16"

	"github.com/auvred/regbridge/internal/translator"
)

// Result is one successful match. It is safe for concurrent use and stays
// valid after the matcher that produced it moves on.
type Result struct {
	input    []uint16
	begin    []int
	end      []int
	names    []translator.Name
	negative *translator.GroupSet

	fixOnce sync.Once
}

func newResult(p *Pattern, input []uint16, begin, end []int) *Result {
	return &Result{
		input:    input,
		begin:    slices.Clone(begin),
		end:      slices.Clone(end),
		names:    p.translated.Names,
		negative: &p.translated.NegativeLookaheadGroups,
	}
}

// ensureRegionFixed clears the groups that lie inside a negative lookahead.
// Such a group can never hold a value once the whole pattern has matched,
// whatever offsets the engine left behind.
func (r *Result) ensureRegionFixed() {
	r.fixOnce.Do(func() {
		if r.negative.Len() == 0 {
			return
		}
		for i := 1; i < len(r.begin); i++ {
			if r.negative.Has(i) {
				r.begin[i], r.end[i] = -1, -1
			}
		}
	})
}

func (r *Result) Input() []uint16 { return r.input }

// GroupCount returns the number of capturing groups, not counting group 0.
func (r *Result) GroupCount() int {
	return len(r.begin) - 1
}

func (r *Result) check(i int) error {
	if i < 0 || i >= len(r.begin) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrGroupOutOfRange, i, len(r.begin)-1)
	}
	if i > 0 {
		r.ensureRegionFixed()
	}
	return nil
}

// Start returns the start of group i, or -1 when the group has no value.
func (r *Result) Start(i int) (int, error) {
	if err := r.check(i); err != nil {
		return 0, err
	}
	return r.begin[i], nil
}

// End returns the end of group i, or -1 when the group has no value.
func (r *Result) End(i int) (int, error) {
	if err := r.check(i); err != nil {
		return 0, err
	}
	return r.end[i], nil
}

// Group returns the code units captured by group i. ok is false when the
// group did not participate in the match.
func (r *Result) Group(i int) (units []uint16, ok bool, err error) {
	if err := r.check(i); err != nil {
		return nil, false, err
	}
	if r.begin[i] < 0 {
		return nil, false, nil
	}
	return r.input[r.begin[i]:r.end[i]], true, nil
}

// GroupString is Group converted to a Go string.
func (r *Result) GroupString(i int) (string, bool, error) {
	units, ok, err := r.Group(i)
	if !ok || err != nil {
		return "", ok, err
	}
	return string(utf16.Decode(units)), true, nil
}

// Named returns the code units captured by the group with the given name.
func (r *Result) Named(name string) ([]uint16, bool, error) {
	for _, n := range r.names {
		if n.Name == name {
			return r.Group(n.Index)
		}
	}
	return nil, false, fmt.Errorf("%w: no group named %q", ErrGroupOutOfRange, name)
}

// Groups iterates over groups 1 to GroupCount.
func (r *Result) Groups() *GroupIterator {
	r.ensureRegionFixed()
	return &GroupIterator{r: r, maxStart: -1}
}

// GroupIterator walks the groups of a Result once, in order.
//
// It only yields a value for a group that is live for the match as a whole.
// A group starting before a group already yielded is left over from a
// branch the engine abandoned, and is reported without a value, as is a
// group inside a negative lookahead.
type GroupIterator struct {
	r        *Result
	index    int
	maxStart int

	units []uint16
	ok    bool
}

// Next advances to the next group and reports whether there is one.
func (it *GroupIterator) Next() bool {
	if it.index >= len(it.r.begin)-1 {
		return false
	}
	it.index++
	it.units, it.ok = nil, false

	begin := it.r.begin[it.index]
	if begin < 0 || begin < it.maxStart {
		return true
	}
	it.maxStart = begin
	it.units = it.r.input[begin:it.r.end[it.index]]
	it.ok = true
	return true
}

// Index returns the number of the current group.
func (it *GroupIterator) Index() int { return it.index }

// Value returns the units of the current group, and false when it has no
// value.
func (it *GroupIterator) Value() ([]uint16, bool) {
	return it.units, it.ok
}
