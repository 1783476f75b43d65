package translator

import (
	"strconv"
	"unicode/utf8"

	"github.com/auvred/regbridge/internal/charset"
)

var (
	digitSet = charset.New(charset.Range{Lo: '0', Hi: '9'})
	wordSet  = charset.New(
		charset.Range{Lo: '0', Hi: '9'},
		charset.Range{Lo: 'A', Hi: 'Z'},
		charset.Range{Lo: '_', Hi: '_'},
		charset.Range{Lo: 'a', Hi: 'z'},
	)
	// code points that fold onto ASCII word characters in Unicode mode
	extraWordSet = charset.New(
		charset.Range{Lo: 0x017f, Hi: 0x017f},
		charset.Range{Lo: 0x212a, Hi: 0x212a},
	)
	lineTerminatorSet = charset.New(
		charset.Range{Lo: '\n', Hi: '\n'},
		charset.Range{Lo: '\r', Hi: '\r'},
		charset.Range{Lo: 0x2028, Hi: 0x2029},
	)
	whiteSpaceSet = charset.New(
		charset.Range{Lo: '\t', Hi: '\r'},
		charset.Range{Lo: ' ', Hi: ' '},
		charset.Range{Lo: 0x00a0, Hi: 0x00a0},
		charset.Range{Lo: 0x1680, Hi: 0x1680},
		charset.Range{Lo: 0x2000, Hi: 0x200a},
		charset.Range{Lo: 0x2028, Hi: 0x2029},
		charset.Range{Lo: 0x202f, Hi: 0x202f},
		charset.Range{Lo: 0x205f, Hi: 0x205f},
		charset.Range{Lo: 0x3000, Hi: 0x3000},
		charset.Range{Lo: 0xfeff, Hi: 0xfeff},
	)
)

const (
	emptyPlaceholder = "(?:)"
	neverMatches     = "(?!)"
	lineTerminators  = `[\n\r\u2028\u2029]`
)

func (p *parser) emit(s string) {
	p.out = append(p.out, s...)
}

// wordClass is the character class of \w as the current flags define it.
func (p *parser) wordClass() *charset.Set {
	s := wordSet.Clone()
	if p.unicode && p.opts.IgnoreCase {
		s.Union(extraWordSet)
	}
	return s
}

func (p *parser) emitAssertion(char uint16) {
	switch char {
	case '^':
		if p.opts.Multiline {
			p.emit(`(?:\A|(?<=` + lineTerminators + `))`)
		} else {
			p.emit(`\A`)
		}
	case '$':
		if p.opts.Multiline {
			p.emit(`(?=` + lineTerminators + `|\z)`)
		} else {
			p.emit(`\z`)
		}
	case 'b', 'B':
		w := p.setText(p.wordClass())
		if char == 'b' {
			p.emit("(?:(?<=" + w + ")(?!" + w + ")|(?<!" + w + ")(?=" + w + "))")
		} else {
			p.emit("(?:(?<=" + w + ")(?=" + w + ")|(?<!" + w + ")(?!" + w + "))")
		}
	}
}

// emitChar emits a single character atom. With ignoreCase the character is
// expanded to its case-equivalence class.
func (p *parser) emitChar(r rune) {
	if p.opts.IgnoreCase {
		if s := p.caseClass(r); s != nil {
			p.emitSet(s)
			return
		}
	}
	p.out = appendEscaped(p.out, r)
}

// caseClass returns the case-equivalence class of r in the target
// encoding, or nil when r is alone in it.
func (p *parser) caseClass(r rune) *charset.Set {
	rep := r
	if f, ok := p.enc.CaseFold(r); ok {
		rep = f
	}
	others, ok := p.enc.CaseUnfold(rep)
	if !ok || len(others) == 0 {
		return nil
	}
	s := charset.New(charset.Range{Lo: rep, Hi: rep})
	for _, o := range others {
		s.Add(o)
	}
	return s
}

func (p *parser) emitSet(s *charset.Set) {
	p.out = appendSet(p.out, s)
}

func (p *parser) setText(s *charset.Set) string {
	return string(appendSet(nil, s))
}

func (p *parser) emitDot() {
	s := &charset.Set{}
	s.AddRange(0, p.maxRune)
	if !p.opts.DotAll {
		s.Subtract(lineTerminatorSet)
	}
	p.emitSet(s)
}

func (p *parser) emitBackref(group int) {
	n := strconv.Itoa(group)
	ref := `\k<` + n + `>`
	if p.opts.IgnoreCase {
		ref = "(?i:" + ref + ")"
	}
	// an unset group matches the empty string
	p.emit("(?(" + n + ")" + ref + "|)")
}

// appendSet writes s as an explicit character class. An empty set becomes
// a pattern that never matches, since [] is not valid regexp2 syntax.
func appendSet(buf []byte, s *charset.Set) []byte {
	if s.IsEmpty() {
		return append(buf, neverMatches...)
	}
	ranges := s.Ranges()
	if len(ranges) == 1 && ranges[0].Lo == ranges[0].Hi {
		return appendEscaped(buf, ranges[0].Lo)
	}
	buf = append(buf, '[')
	for _, r := range ranges {
		buf = appendEscaped(buf, r.Lo)
		switch {
		case r.Hi == r.Lo:
		case r.Hi == r.Lo+1:
			buf = appendEscaped(buf, r.Hi)
		default:
			buf = append(buf, '-')
			buf = appendEscaped(buf, r.Hi)
		}
	}
	return append(buf, ']')
}

// appendEscaped writes r so that regexp2 reads it back as exactly r, both
// inside and outside a character class.
func appendEscaped(buf []byte, r rune) []byte {
	switch {
	case r < 0x80 && isASCIIWordChar(uint16(r)):
		return append(buf, byte(r))
	case r > 0x20 && r < 0x7f:
		return append(buf, '\\', byte(r))
	case r <= 0xffff:
		const hex = "0123456789ABCDEF"
		return append(buf, '\\', 'u', hex[r>>12&0xf], hex[r>>8&0xf], hex[r>>4&0xf], hex[r&0xf])
	}
	return utf8.AppendRune(buf, r)
}
