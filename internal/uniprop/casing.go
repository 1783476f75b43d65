package uniprop

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// fullUppercaseOnly lists the code points that SpecialCasing.txt maps to
// more than one character when upper-casing while UnicodeData.txt leaves
// them alone or maps them elsewhere. Go's casing functions only know the
// simple mappings.
var fullUppercaseOnly = []rune{
	0x00df, 0x0149, 0x01f0, 0x0390, 0x03b0, 0x0587,
	0x1e96, 0x1e97, 0x1e98, 0x1e99, 0x1e9a,
	0x1f50, 0x1f52, 0x1f54, 0x1f56,
	0x1fb2, 0x1fb3, 0x1fb4, 0x1fb6, 0x1fb7, 0x1fbc,
	0x1fc2, 0x1fc3, 0x1fc4, 0x1fc6, 0x1fc7, 0x1fcc,
	0x1fd2, 0x1fd3, 0x1fd6, 0x1fd7,
	0x1fe2, 0x1fe3, 0x1fe4, 0x1fe6, 0x1fe7,
	0x1ff2, 0x1ff3, 0x1ff4, 0x1ff6, 0x1ff7, 0x1ffc,
	0xfb00, 0xfb01, 0xfb02, 0xfb03, 0xfb04, 0xfb05, 0xfb06,
	0xfb13, 0xfb14, 0xfb15, 0xfb16, 0xfb17,
}

func init() {
	// GREEK LETTERS WITH YPOGEGRAMMENI / PROSGEGRAMMENI
	for r := rune(0x1f80); r <= 0x1faf; r++ {
		fullUppercaseOnly = append(fullUppercaseOnly, r)
	}
}

// caseMapped collects the cased code points for which changes reports
// true, plus extra.
func caseMapped(changes func(r rune) bool, extra ...rune) *unicode.RangeTable {
	runes := append([]rune(nil), extra...)
	for _, cr := range unicode.CaseRanges {
		for r := rune(cr.Lo); r <= rune(cr.Hi); r++ {
			if changes(r) {
				runes = append(runes, r)
			}
		}
	}
	return rangetable.New(runes...)
}

func changesWhenLowercased() *unicode.RangeTable {
	return caseMapped(func(r rune) bool { return unicode.ToLower(r) != r })
}

func changesWhenUppercased() *unicode.RangeTable {
	return caseMapped(func(r rune) bool { return unicode.ToUpper(r) != r }, fullUppercaseOnly...)
}

// changesWhenTitlecased leaves out the titlecase letters among the full
// mappings, whose titlecase form is themselves.
func changesWhenTitlecased() *unicode.RangeTable {
	var extra []rune
	for _, r := range fullUppercaseOnly {
		if !unicode.Is(unicode.Lt, r) {
			extra = append(extra, r)
		}
	}
	return caseMapped(func(r rune) bool { return unicode.ToTitle(r) != r }, extra...)
}

func changesWhenCasemapped() *unicode.RangeTable {
	return rangetable.Merge(changesWhenLowercased(), changesWhenUppercased(), changesWhenTitlecased())
}

// changesWhenCasefolded follows CaseFolding.txt. The fold target is the
// lowercase form of the uppercase form, except for Cherokee, which folds to
// uppercase, and dotless i, which only folds under Turkic rules.
func changesWhenCasefolded() *unicode.RangeTable {
	return caseMapped(func(r rune) bool {
		switch {
		case r == 0x0131:
			return false
		case r >= 0x13a0 && r <= 0x13f5:
			return false
		case r >= 0x13f8 && r <= 0x13fd, r >= 0xab70 && r <= 0xabbf:
			return true
		}
		return unicode.ToLower(unicode.ToUpper(r)) != r
	}, fullUppercaseOnly...)
}

// caseIgnorable is Mn, Me, Cf, Lm and Sk plus the Word_Break values
// MidLetter, MidNumLet and Single_Quote.
func caseIgnorable() *unicode.RangeTable {
	return rangetable.Merge(unicode.Mn, unicode.Me, unicode.Cf, unicode.Lm, unicode.Sk,
		rangetable.New(
			0x0027, 0x002e, 0x003a, 0x00b7, 0x0387, 0x055f, 0x05f4,
			0x2018, 0x2019, 0x2024, 0x2027,
			0xfe13, 0xfe52, 0xfe55, 0xff07, 0xff0e, 0xff1a,
		))
}
