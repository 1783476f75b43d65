package regbridge

import (
	"strings"
	"unicode/utf16"

	"github.com/auvred/regbridge/internal/uniprop"
)

type propertyKind uint8

const (
	// \p{X} or \p{X}+
	propertyContains propertyKind = iota
	// ^\p{X} or ^\p{X}+
	propertyStartsWith
	// ^\p{X}$ or ^\p{X}+$
	propertyWhole
)

// term matches at pos and returns where the match ends, or -1.
type term func(input []uint16, pos int) int

func charTerm(pred func(rune) bool) term {
	return func(input []uint16, pos int) int {
		if pos >= len(input) {
			return -1
		}
		r, size := codePointAt(input, pos)
		if !pred(r) {
			return -1
		}
		return pos + size
	}
}

func plusTerm(pred func(rune) bool) term {
	char := charTerm(pred)
	return func(input []uint16, pos int) int {
		end := char(input, pos)
		if end < 0 {
			return -1
		}
		for next := char(input, end); next >= 0; next = char(input, end) {
			end = next
		}
		return end
	}
}

type propertyShape struct {
	kind propertyKind
	term term
}

// selectProperty recognizes a pattern made of one property escape,
// optionally repeated with + and anchored, and prepares its shape.
func (p *Pattern) selectProperty() bool {
	if !p.flags.has(FlagUnicode) || p.flags.has(FlagIgnoreCase) || p.flags.has(FlagMultiline) {
		return false
	}
	src := string(utf16.Decode(p.source))

	kind := propertyContains
	if rest, ok := strings.CutPrefix(src, "^"); ok {
		src = rest
		kind = propertyStartsWith
		if rest, ok := strings.CutSuffix(src, "$"); ok {
			src = rest
			kind = propertyWhole
		}
	}
	plus := false
	if rest, ok := strings.CutSuffix(src, "+"); ok {
		src = rest
		plus = true
	}

	if len(src) < 4 || src[0] != '\\' || src[1] != 'p' && src[1] != 'P' || src[2] != '{' || src[len(src)-1] != '}' {
		return false
	}
	negated := src[1] == 'P'
	expr := src[3 : len(src)-1]
	if strings.ContainsAny(expr, `\{}`) {
		return false
	}
	name, value, _ := strings.Cut(expr, "=")
	pred, err := uniprop.Predicate(name, value)
	if err != nil {
		return false
	}
	if negated {
		positive := pred
		pred = func(r rune) bool { return !positive(r) }
	}

	shape := &propertyShape{kind: kind}
	if plus {
		shape.term = plusTerm(pred)
	} else {
		shape.term = charTerm(pred)
	}
	p.property = shape
	return true
}

type propertyEngine struct {
	shape *propertyShape
	input []uint16
}

func (e *propertyEngine) reset(input []uint16) {
	e.input = input
}

func (e *propertyEngine) search(start int, anchored bool) ([]int, []int, error) {
	start = roundStart(e.input, start, true)
	switch e.shape.kind {
	case propertyStartsWith, propertyWhole:
		// ^ only holds at the start of the input
		if start != 0 {
			return nil, nil, nil
		}
		end := e.shape.term(e.input, 0)
		if end < 0 || e.shape.kind == propertyWhole && end != len(e.input) {
			return nil, nil, nil
		}
		return []int{0}, []int{end}, nil
	}

	for pos := start; pos < len(e.input); {
		if end := e.shape.term(e.input, pos); end >= 0 {
			return []int{pos}, []int{end}, nil
		}
		if anchored {
			break
		}
		_, size := codePointAt(e.input, pos)
		pos += size
	}
	return nil, nil, nil
}
