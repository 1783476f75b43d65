// Package regbridge compiles ECMAScript regular expressions and matches
// them against UTF-16 input.
//
// Patterns are translated into the grammar of the regexp2 engine, which runs
// the general case. Two common shapes bypass it: patterns without any
// metacharacter are searched as literals, and a lone Unicode property test
// is evaluated directly. Every strategy reports the same matches.
//
// Positions are UTF-16 code unit indices throughout.
package regbridge

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf16"

	"github.com/dlclark/regexp2"

	"github.com/auvred/regbridge/internal/backend"
	"github.com/auvred/regbridge/internal/encoding"
	"github.com/auvred/regbridge/internal/translator"
)

// Strategy is the way a pattern is matched, chosen once by Compile.
type Strategy uint8

const (
	// StrategyBackend runs the translated pattern on regexp2.
	StrategyBackend Strategy = iota
	// StrategyLiteral searches for the pattern text.
	StrategyLiteral
	// StrategyProperty tests a single Unicode property.
	StrategyProperty
)

func (s Strategy) String() string {
	switch s {
	case StrategyLiteral:
		return "literal"
	case StrategyProperty:
		return "property"
	}
	return "backend"
}

// Pattern is a compiled regular expression.
//
// The regexp2 program is built on the first call that needs it and the
// build is not synchronized. Call Prepare before sharing a Pattern between
// goroutines.
type Pattern struct {
	source []uint16
	flags  Flag
	cfg    config

	translated *translator.Result
	strategy   Strategy
	enc        encoding.Encoding

	literal  *literalSearcher
	property *propertyShape

	program   *backend.Program
	alternate *alternateProgram
}

// Compile parses pattern with a flag string such as "gi".
func Compile(pattern, flags string, opts ...Option) (*Pattern, error) {
	f, err := ParseFlags(flags)
	if err != nil {
		return nil, err
	}
	return CompileUTF16(utf16.Encode([]rune(pattern)), f, opts...)
}

// MustCompile is like [Compile] but panics if the expression cannot be
// parsed.
func MustCompile(pattern, flags string, opts ...Option) *Pattern {
	p, err := Compile(pattern, flags, opts...)
	if err != nil {
		panic("regbridge: MustCompile: " + err.Error())
	}
	return p
}

// CompileUTF16 parses a pattern given as UTF-16 code units.
func CompileUTF16(pattern []uint16, flags Flag, opts ...Option) (*Pattern, error) {
	cfg := newConfig(opts)
	enc := encoding.Select(flags.has(FlagUnicode), flags.has(FlagIgnoreCase))
	res, err := translator.Translate(pattern, cfg.translatorOptions(flags, enc))
	if err != nil {
		var terr *translator.Error
		if errors.As(err, &terr) {
			return nil, newSyntaxError(terr, pattern, flags, cfg.location)
		}
		return nil, err
	}

	p := &Pattern{
		source:     slices.Clone(pattern),
		flags:      flags,
		cfg:        cfg,
		translated: res,
		enc:        enc,
	}
	switch {
	case p.selectLiteral():
		p.strategy = StrategyLiteral
	case p.selectProperty():
		p.strategy = StrategyProperty
	default:
		p.strategy = StrategyBackend
	}

	cfg.logger.Debug().
		Str("pattern", p.Source()).
		Stringer("flags", flags).
		Stringer("strategy", p.strategy).
		Str("encoding", p.enc.Name()).
		Int("groups", res.GroupCount).
		Int("restarts", res.Restarts).
		Msg("compiled pattern")
	return p, nil
}

// Source returns the pattern text.
func (p *Pattern) Source() string {
	return string(utf16.Decode(p.source))
}

func (p *Pattern) SourceUTF16() []uint16 {
	return p.source
}

func (p *Pattern) Flags() Flag {
	return p.flags
}

func (p *Pattern) Strategy() Strategy {
	return p.strategy
}

// GroupCount returns the number of capturing groups, not counting the
// whole match.
func (p *Pattern) GroupCount() int {
	return p.translated.GroupCount
}

// GroupNames returns the name of every group, with "" for unnamed groups.
// Element 0 stands for the whole match and is always "".
func (p *Pattern) GroupNames() []string {
	names := make([]string, p.translated.GroupCount+1)
	for _, n := range p.translated.Names {
		names[n.Index] = n.Name
	}
	return names
}

// GroupIndex returns the index of the group with the given name.
func (p *Pattern) GroupIndex(name string) (int, bool) {
	return p.translated.GroupIndex(name)
}

// Prepare builds the regexp2 program now instead of on first use.
func (p *Pattern) Prepare() error {
	if p.strategy != StrategyBackend {
		return nil
	}
	_, err := p.backendProgram()
	return err
}

func (p *Pattern) backendProgram() (*backend.Program, error) {
	if p.program != nil {
		return p.program, nil
	}
	program, err := backend.Compile(p.translated.Pattern, p.translated.GroupCount, *p.cfg.logger)
	if err != nil {
		return nil, err
	}
	p.program = program
	return program, nil
}

// Matcher returns a matcher over input using the strategy of the pattern.
func (p *Pattern) Matcher(input []uint16) (*Matcher, error) {
	var eng engine
	switch p.strategy {
	case StrategyLiteral:
		eng = &literalEngine{searcher: p.literal, unicode: p.flags.has(FlagUnicode)}
	case StrategyProperty:
		eng = &propertyEngine{shape: p.property}
	default:
		program, err := p.backendProgram()
		if err != nil {
			return nil, err
		}
		eng = &backendEngine{program: program, enc: p.enc}
	}
	return newMatcher(p, eng, input), nil
}

// MatcherString is Matcher for a Go string.
func (p *Pattern) MatcherString(s string) (*Matcher, error) {
	return p.Matcher(utf16.Encode([]rune(s)))
}

// AlternateMatcher returns a matcher that runs the pattern text on regexp2
// in its ECMAScript mode, without translation. It serves as a reference for
// the other strategies and only supports the g, i, m and y flags.
func (p *Pattern) AlternateMatcher(input []uint16) (*Matcher, error) {
	if unsupported := p.flags &^ (FlagGlobal | FlagIgnoreCase | FlagMultiline | FlagSticky); unsupported != 0 {
		return nil, fmt.Errorf("%w: flags %q", ErrUnsupported, unsupported.String())
	}
	if p.alternate == nil {
		opts := regexp2.RegexOptions(regexp2.ECMAScript)
		if p.flags.has(FlagIgnoreCase) {
			opts |= regexp2.IgnoreCase
		}
		if p.flags.has(FlagMultiline) {
			opts |= regexp2.Multiline
		}
		alt, err := compileAlternate(p.source, opts, p.translated)
		if err != nil {
			return nil, err
		}
		p.cfg.logger.Debug().Str("pattern", p.Source()).Msg("compiled alternate program")
		p.alternate = alt
	}
	return newMatcher(p, &alternateEngine{program: p.alternate}, input), nil
}
