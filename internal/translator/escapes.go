package translator

import (
	"errors"
	"unicode"
	"unicode/utf16"

	"github.com/auvred/regbridge/internal/charset"
	"github.com/auvred/regbridge/internal/uniprop"
)

// parseUnicodeEscape reads the part of a \u escape that follows the 'u'.
// braced reports the \u{...} form. On failure the position is undefined and
// the caller must restore it.
func (p *parser) parseUnicodeEscape(unicodeMode bool) (r rune, braced bool, ok bool) {
	if unicodeMode && p.consume('{') {
		digits := 0
		for {
			c, ended := p.peek()
			if ended {
				return 0, false, false
			}
			p.pos++
			if c == '}' {
				break
			}
			if !isHexDigit(c) {
				return 0, false, false
			}
			r = r<<4 | rune(parseHexDigit(c))
			if r > unicode.MaxRune {
				return 0, false, false
			}
			digits++
		}
		if digits == 0 {
			return 0, false, false
		}
		return r, true, true
	}

	r, ok = p.peek4HexDigits()
	if !ok {
		return 0, false, false
	}
	p.pos += 4
	if !unicodeMode || !isHighSurrogate(r) {
		return r, false, true
	}
	if c, _ := p.peekN(0); c != '\\' {
		return r, false, true
	}
	if c, _ := p.peekN(1); c != 'u' {
		return r, false, true
	}
	p.pos += 2
	if lo, ok := p.peek4HexDigits(); ok && isLowSurrogate(lo) {
		p.pos += 4
		return utf16.DecodeRune(r, lo), false, true
	}
	p.pos -= 2
	return r, false, true
}

// parseCharacterEscape reads the escape that starts right after the
// backslash at start. It is tried after class escapes and backreferences.
func (p *parser) parseCharacterEscape(start int) (rune, error) {
	char, ended := p.peek()
	if ended {
		return 0, p.fail(keyInvalidEscape, start)
	}
	switch char {
	case 't', 'n', 'v', 'f', 'r':
		p.pos++
		mapping := [...]rune{
			't' - 'f': '\t',
			'n' - 'f': '\n',
			'v' - 'f': '\v',
			'f' - 'f': '\f',
			'r' - 'f': '\r',
		}
		return mapping[char-'f'], nil
	case 'c':
		next, _ := p.peekN(1)
		if isASCIILetter(next) {
			p.pos += 2
			return rune(next) % 32, nil
		}
		if p.annexB {
			// the backslash stands for itself and "c" is read again
			return '\\', nil
		}
		return 0, p.fail(keyInvalidControlEscape, start)
	case '0':
		next, _ := p.peekN(1)
		if !isDigit(next) {
			p.pos++
			return 0, nil
		}
		if !p.annexB {
			return 0, p.fail(keyInvalidDecimalEscape, start)
		}
		return p.legacyOctal(), nil
	case '1', '2', '3', '4', '5', '6', '7':
		if !p.annexB {
			return 0, p.fail(keyInvalidDecimalEscape, start)
		}
		return p.legacyOctal(), nil
	case 'x':
		p.pos++
		first, _ := p.peekN(0)
		second, _ := p.peekN(1)
		if isHexDigit(first) && isHexDigit(second) {
			p.pos += 2
			return rune(parseHexDigit(first))<<4 | rune(parseHexDigit(second)), nil
		}
		if !p.annexB {
			return 0, p.fail(keyInvalidHexEscape, start)
		}
		return 'x', nil
	case 'u':
		p.pos++
		save := p.pos
		r, _, ok := p.parseUnicodeEscape(p.unicode)
		if ok {
			return r, nil
		}
		if !p.annexB {
			return 0, p.fail(keyInvalidUnicodeEscape, start)
		}
		p.pos = save
		return 'u', nil
	case 'k':
		// outside named mode only the legacy grammar is possible
		if p.namedMode {
			return 0, p.fail(keyInvalidEscape, start)
		}
		p.sawPlainK = true
		p.pos++
		return 'k', nil
	case '^', '$', '\\', '/', '.', '*', '+', '?', '(', ')', '[', ']', '{', '}', '|':
		p.pos++
		return rune(char), nil
	}

	if p.unicode {
		return 0, p.fail(keyInvalidEscape, start)
	}
	r, _ := p.nextIn(false)
	if !p.annexB && isIDContinue(r) {
		return 0, p.fail(keyInvalidEscape, start)
	}
	return r, nil
}

// legacyOctal reads up to three octal digits, never exceeding 0o377.
func (p *parser) legacyOctal() rune {
	first, _ := p.peek()
	p.pos++
	v := rune(first - '0')
	for i := 0; i < 2; i++ {
		c, ended := p.peek()
		if ended || c < '0' || c > '7' || v*8+rune(c-'0') > 0o377 {
			break
		}
		v = v*8 + rune(c-'0')
		p.pos++
	}
	return v
}

// parseClassEscape reads \d \D \s \S \w \W and, in Unicode mode, \p{...}
// and \P{...}. It returns nil without moving when the escape is of another
// kind. With ignoreCase the returned set is closed under case folding.
func (p *parser) parseClassEscape(start int) (*charset.Set, error) {
	char, ended := p.peek()
	if ended {
		return nil, nil
	}
	var set *charset.Set
	negated := false
	switch char {
	case 'D':
		negated = true
		fallthrough
	case 'd':
		set = digitSet.Clone()
	case 'S':
		negated = true
		fallthrough
	case 's':
		set = whiteSpaceSet.Clone()
	case 'W':
		negated = true
		fallthrough
	case 'w':
		set = p.wordClass()
	case 'P':
		negated = true
		fallthrough
	case 'p':
		if !p.unicode {
			return nil, nil
		}
		p.pos++
		return p.parsePropertyEscape(start, negated)
	default:
		return nil, nil
	}
	p.pos++
	if negated {
		set.Complement(p.maxRune)
	}
	if p.opts.IgnoreCase {
		set.CaseClose(p.fold)
	}
	return set, nil
}

func (p *parser) parsePropertyEscape(start int, negated bool) (*charset.Set, error) {
	if !p.consume('{') {
		return nil, p.fail(keyInvalidPropertyEscape, start)
	}
	name := p.propertyWord()
	var value string
	if p.consume('=') {
		value = p.propertyWord()
		if value == "" {
			return nil, p.fail(keyInvalidPropertyValue, start)
		}
	}
	if !p.consume('}') {
		return nil, p.fail(keyInvalidPropertyEscape, start)
	}
	if name == "" {
		return nil, p.fail(keyInvalidPropertyName, start)
	}

	table, err := uniprop.Lookup(name, value)
	switch {
	case errors.Is(err, uniprop.ErrUnknownName):
		return nil, p.fail(keyInvalidPropertyName, start)
	case errors.Is(err, uniprop.ErrUnknownValue):
		return nil, p.fail(keyInvalidPropertyValue, start)
	case errors.Is(err, uniprop.ErrUnavailable):
		return nil, p.fail(keyUnavailableProperty, start)
	case err != nil:
		return nil, err
	}
	p.usesProperties = true

	set := charset.FromTable(table)
	if negated {
		set.Complement(p.maxRune)
	}
	if p.opts.IgnoreCase {
		set.CaseClose(p.fold)
	}
	return set, nil
}

func (p *parser) propertyWord() string {
	start := p.pos
	for {
		c, ended := p.peek()
		if ended || !isASCIIWordChar(c) {
			break
		}
		p.pos++
	}
	return p.text(start, p.pos)
}

// parseGroupName reads <name>. The current character must be '<'.
func (p *parser) parseGroupName() (string, error) {
	start := p.pos
	if !p.consume('<') {
		return "", p.fail(keyInvalidGroupName, start)
	}
	var name []rune
	for {
		r, ok := p.nextIn(true)
		if !ok {
			return "", p.fail(keyInvalidGroupName, start)
		}
		if r == '>' {
			break
		}
		if r == '\\' {
			if !p.consume('u') {
				return "", p.fail(keyInvalidGroupName, start)
			}
			var braced bool
			r, braced, ok = p.parseUnicodeEscape(true)
			if !ok || braced && isSurrogate(r) {
				return "", p.fail(keyInvalidGroupName, start)
			}
		}
		if len(name) == 0 && !isIDStart(r) || len(name) > 0 && !isIDContinue(r) {
			return "", p.fail(keyInvalidGroupName, start)
		}
		name = append(name, r)
	}
	if len(name) == 0 {
		return "", p.fail(keyInvalidGroupName, start)
	}
	return string(name), nil
}

var (
	idStartTable    = mustLookup("ID_Start")
	idContinueTable = mustLookup("ID_Continue")
)

func mustLookup(name string) *unicode.RangeTable {
	t, err := uniprop.Lookup(name, "")
	if err != nil {
		panic("translator: " + name + ": " + err.Error())
	}
	return t
}

func isIDStart(r rune) bool {
	return r == '$' || r == '_' || unicode.Is(idStartTable, r)
}

func isIDContinue(r rune) bool {
	return r == '$' || r == 0x200c || r == 0x200d || unicode.Is(idContinueTable, r)
}
