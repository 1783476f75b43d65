package regbridge

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/auvred/regbridge/internal/translator"
)

// alternateProgram is the untranslated pattern compiled by regexp2 in
// ECMAScript mode. The engine reads code units as characters.
type alternateProgram struct {
	re *regexp2.Regexp
	// regexp2 numbers named groups after the unnamed ones, so each group is
	// looked up by its regexp2 number or by its name
	groups []alternateGroup
}

type alternateGroup struct {
	number int
	name   string
}

func compileAlternate(source []uint16, opts regexp2.RegexOptions, res *translator.Result) (*alternateProgram, error) {
	text := alternateSource(source)
	re, err := regexp2.Compile(text, opts)
	if err != nil {
		return nil, fmt.Errorf("regbridge: alternate compile %q: %w", text, err)
	}

	names := make(map[int]string, len(res.Names))
	for _, n := range res.Names {
		names[n.Index] = n.Name
	}
	groups := make([]alternateGroup, res.GroupCount+1)
	unnamed := 0
	for i := 1; i <= res.GroupCount; i++ {
		if name, ok := names[i]; ok {
			groups[i] = alternateGroup{name: name}
			continue
		}
		unnamed++
		groups[i] = alternateGroup{number: unnamed}
	}
	return &alternateProgram{re: re, groups: groups}, nil
}

// alternateSource spells the pattern for regexp2, which takes its source
// as a Go string. Surrogates cannot live in UTF-8 and become \u escapes.
func alternateSource(units []uint16) string {
	buf := make([]byte, 0, len(units))
	escaped := false
	for _, u := range units {
		switch {
		case u >= 0xd800 && u <= 0xdfff:
			if escaped {
				// an identity escape of a surrogate is the surrogate
				buf = buf[:len(buf)-1]
			}
			buf = fmt.Appendf(buf, `\u%04X`, u)
			escaped = false
		case u == '\\':
			buf = append(buf, '\\')
			escaped = !escaped
		default:
			buf = utf8.AppendRune(buf, rune(u))
			escaped = false
		}
	}
	return string(buf)
}

type alternateEngine struct {
	program *alternateProgram
	runes   []rune
}

func (e *alternateEngine) reset(input []uint16) {
	e.runes = make([]rune, len(input))
	for i, u := range input {
		e.runes[i] = rune(u)
	}
}

func (e *alternateEngine) search(start int, anchored bool) ([]int, []int, error) {
	m, err := e.program.re.FindRunesMatchStartingAt(e.runes, start)
	if err != nil {
		return nil, nil, fmt.Errorf("regbridge: alternate match: %w", err)
	}
	// the leftmost match starts at start whenever one can
	if m == nil || anchored && m.Index != start {
		return nil, nil, nil
	}

	begin, end := unsetGroups(len(e.program.groups) - 1)
	begin[0], end[0] = m.Index, m.Index+m.Length
	for i := 1; i < len(e.program.groups); i++ {
		var g *regexp2.Group
		if ref := e.program.groups[i]; ref.name != "" {
			g = m.GroupByName(ref.name)
		} else {
			g = m.GroupByNumber(ref.number)
		}
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		begin[i], end[i] = g.Index, g.Index+g.Length
	}
	return begin, end, nil
}
