// Package translator converts ECMAScript patterns into the grammar of the
// regexp2 engine.
//
// The output never relies on regexp2 defaults whose meaning differs from
// ECMAScript: character sets are spelled out as explicit ranges, anchors
// and word boundaries are rewritten into lookarounds, case-insensitive
// atoms are expanded through the fold tables, and only unnamed capturing
// groups are emitted so that group numbers stay in source order.
package translator

import (
	"math"
	"math/bits"

	"github.com/rs/zerolog"

	"github.com/auvred/regbridge/internal/casefold"
	"github.com/auvred/regbridge/internal/encoding"
)

const (
	DefaultMaxDepth  = 65535
	DefaultMaxGroups = 65535
)

// Options describes the flags of the pattern and the translator limits.
type Options struct {
	IgnoreCase bool
	Multiline  bool
	DotAll     bool
	Unicode    bool
	// Strict disables the legacy grammar of Annex B in non-Unicode mode.
	Strict bool
	// Possessive accepts a + suffix on quantifiers.
	Possessive bool
	MaxDepth   int
	MaxGroups  int
	// Encoding is the layout the translated pattern will be matched
	// against. Case-insensitive atoms are expanded with its folding and
	// sets are bounded by its fold table. Defaults to encoding.Select for
	// the Unicode and IgnoreCase flags.
	Encoding encoding.Encoding
	Logger   *zerolog.Logger
}

// Name is one named capturing group.
type Name struct {
	Name  string
	Index int
}

// GroupSet is a set of group indices.
type GroupSet struct {
	words []uint64
}

func (s *GroupSet) Has(i int) bool {
	w := i / 64
	return w < len(s.words) && s.words[w]&(1<<(i%64)) != 0
}

func (s *GroupSet) add(i int) {
	w := i / 64
	for len(s.words) <= w {
		s.words = append(s.words, 0)
	}
	s.words[w] |= 1 << (i % 64)
}

func (s *GroupSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Result is a translated pattern.
type Result struct {
	// Pattern is the regexp2 source.
	Pattern    string
	GroupCount int
	// Names lists named groups in order of appearance.
	Names []Name
	// NegativeLookaheadGroups holds the groups that are entirely inside a
	// negative lookahead. They never have a value after a match.
	NegativeLookaheadGroups GroupSet

	UsesLookbehind bool
	UsesLookahead  bool
	UsesBackrefs   bool
	UsesProperties bool
	// Restarts is the number of times the pattern had to be parsed again.
	Restarts int
}

// GroupIndex returns the index of a named group.
func (r *Result) GroupIndex(name string) (int, bool) {
	for _, n := range r.Names {
		if n.Name == name {
			return n.Index, true
		}
	}
	return 0, false
}

type restartReason uint8

const (
	restartNone restartReason = iota
	// a named group exists and \k was read as an identity escape
	restartNamedBackrefs
	// a decimal escape was read as a backreference to a group that does not
	// exist
	restartBackrefLimit
)

func (r restartReason) String() string {
	switch r {
	case restartNamedBackrefs:
		return "named-backrefs"
	case restartBackrefLimit:
		return "backref-limit"
	}
	return "none"
}

const unbounded = math.MaxInt

type pendingRef struct {
	num    int
	name   string
	offset int
}

type parser struct {
	src  []uint16
	opts Options

	unicode bool
	annexB  bool
	enc     encoding.Encoding
	fold    *casefold.Table
	maxRune rune

	// configuration of the current pass, changed only by restarts
	namedMode      bool
	backrefLimit   int
	namedRestarted bool
	limitRestarted bool
	restarts       int

	// per pass state, cleared by reset
	pos             int
	out             []byte
	groupCount      int
	names           []Name
	closed          GroupSet
	negative        GroupSet
	lookaheadMarks  []int
	lookbehindDepth int
	depth           int
	sawPlainK       bool
	decimalRefs     []pendingRef
	namedRefs       []pendingRef
	lookbehindRefs  []pendingRef
	usesLookbehind  bool
	usesLookahead   bool
	usesBackrefs    bool
	usesProperties  bool
}

// Translate parses src and returns the equivalent regexp2 pattern.
func Translate(src []uint16, opts Options) (*Result, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultMaxGroups
	}
	if opts.Encoding == nil {
		opts.Encoding = encoding.Select(opts.Unicode, opts.IgnoreCase)
	}
	p := &parser{
		src:          src,
		opts:         opts,
		unicode:      opts.Unicode,
		annexB:       !opts.Unicode && !opts.Strict,
		backrefLimit: unbounded,
		enc:          opts.Encoding,
		fold:         opts.Encoding.FoldTable(),
	}
	p.maxRune = p.fold.MaxRune()
	// outside the legacy grammar \k is always a named reference
	p.namedMode = !p.annexB

	for {
		reason, err := p.parse()
		if err != nil {
			return nil, err
		}
		switch reason {
		case restartNone:
			return p.result(), nil
		case restartNamedBackrefs:
			p.namedMode = true
			p.namedRestarted = true
		case restartBackrefLimit:
			p.backrefLimit = p.groupCount
			p.limitRestarted = true
		}
		p.restarts++
		if l := p.opts.Logger; l != nil {
			l.Debug().
				Stringer("reason", reason).
				Int("pass", p.restarts+1).
				Int("groups", p.groupCount).
				Msg("restarting pattern translation")
		}
		p.reset()
	}
}

func (p *parser) reset() {
	p.pos = 0
	p.out = p.out[:0]
	p.groupCount = 0
	p.names = nil
	p.closed = GroupSet{}
	p.negative = GroupSet{}
	p.lookaheadMarks = p.lookaheadMarks[:0]
	p.lookbehindDepth = 0
	p.depth = 0
	p.sawPlainK = false
	p.decimalRefs = nil
	p.namedRefs = nil
	p.lookbehindRefs = nil
	p.usesLookbehind = false
	p.usesLookahead = false
	p.usesBackrefs = false
	p.usesProperties = false
}

// parse runs one pass over the whole pattern. Whether the pass has to be
// repeated is only known at the end, once every group has been seen.
func (p *parser) parse() (restartReason, error) {
	if err := p.disjunction(); err != nil {
		return restartNone, err
	}
	if !p.atEnd() {
		// disjunction only stops early on ')'
		return restartNone, p.fail(keyUnmatchedParen, p.pos)
	}

	if !p.namedMode && !p.namedRestarted && p.sawPlainK && len(p.names) > 0 {
		return restartNamedBackrefs, nil
	}

	for _, ref := range p.decimalRefs {
		if ref.num <= p.groupCount {
			continue
		}
		if p.annexB && !p.limitRestarted {
			return restartBackrefLimit, nil
		}
		return restartNone, p.fail(keyInvalidBackref, ref.offset)
	}

	for _, ref := range p.namedRefs {
		if _, ok := p.groupIndex(ref.name); !ok {
			return restartNone, p.fail(keyUnknownGroupName, ref.offset)
		}
	}

	if len(p.lookbehindRefs) > 0 {
		return restartNone, p.fail(keyLookbehindBackref, p.lookbehindRefs[0].offset)
	}
	return restartNone, nil
}

func (p *parser) result() *Result {
	return &Result{
		Pattern:                 string(p.out),
		GroupCount:              p.groupCount,
		Names:                   p.names,
		NegativeLookaheadGroups: p.negative,
		UsesLookbehind:          p.usesLookbehind,
		UsesLookahead:           p.usesLookahead,
		UsesBackrefs:            p.usesBackrefs,
		UsesProperties:          p.usesProperties,
		Restarts:                p.restarts,
	}
}

func (p *parser) groupIndex(name string) (int, bool) {
	for _, n := range p.names {
		if n.Name == name {
			return n.Index, true
		}
	}
	return 0, false
}
