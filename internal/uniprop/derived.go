package uniprop

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/auvred/regbridge/internal/charset"
)

// binary maps canonical binary property names to their table builders.
// Builders must not go through the cache; they call each other directly.
var binary = map[string]func() *unicode.RangeTable{
	"ASCII":                        ascii,
	"ASCII_Hex_Digit":              static(unicode.ASCII_Hex_Digit),
	"Alphabetic":                   alphabetic,
	"Any":                          anyCodePoint,
	"Assigned":                     assigned,
	"Bidi_Control":                 static(unicode.Bidi_Control),
	"Case_Ignorable":               caseIgnorable,
	"Cased":                        cased,
	"Changes_When_Casefolded":      changesWhenCasefolded,
	"Changes_When_Casemapped":      changesWhenCasemapped,
	"Changes_When_Lowercased":      changesWhenLowercased,
	"Changes_When_Titlecased":      changesWhenTitlecased,
	"Changes_When_Uppercased":      changesWhenUppercased,
	"Dash":                         static(unicode.Dash),
	"Default_Ignorable_Code_Point": defaultIgnorable,
	"Deprecated":                   static(unicode.Deprecated),
	"Diacritic":                    static(unicode.Diacritic),
	"Extender":                     static(unicode.Extender),
	"Grapheme_Base":                graphemeBase,
	"Grapheme_Extend":              graphemeExtend,
	"Hex_Digit":                    static(unicode.Hex_Digit),
	"IDS_Binary_Operator":          static(unicode.IDS_Binary_Operator),
	"IDS_Trinary_Operator":         static(unicode.IDS_Trinary_Operator),
	"ID_Continue":                  idContinue,
	"ID_Start":                     idStart,
	"Ideographic":                  static(unicode.Ideographic),
	"Join_Control":                 static(unicode.Join_Control),
	"Logical_Order_Exception":      static(unicode.Logical_Order_Exception),
	"Lowercase":                    lowercase,
	"Math":                         mathematical,
	"Noncharacter_Code_Point":      static(unicode.Noncharacter_Code_Point),
	"Pattern_Syntax":               static(unicode.Pattern_Syntax),
	"Pattern_White_Space":          static(unicode.Pattern_White_Space),
	"Quotation_Mark":               static(unicode.Quotation_Mark),
	"Radical":                      static(unicode.Radical),
	"Regional_Indicator":           static(unicode.Regional_Indicator),
	"Sentence_Terminal":            static(unicode.Sentence_Terminal),
	"Soft_Dotted":                  static(unicode.Soft_Dotted),
	"Terminal_Punctuation":         static(unicode.Terminal_Punctuation),
	"Unified_Ideograph":            static(unicode.Unified_Ideograph),
	"Uppercase":                    uppercase,
	"Variation_Selector":           static(unicode.Variation_Selector),
	"White_Space":                  static(unicode.White_Space),
	// XID_* differ from ID_* only by a handful of NFKC-unstable code points
	// that the Go tables cannot tell apart.
	"XID_Continue": idContinue,
	"XID_Start":    idStart,
}

func static(t *unicode.RangeTable) func() *unicode.RangeTable {
	return func() *unicode.RangeTable { return t }
}

func generalCategory(gc string) func() *unicode.RangeTable {
	return func() *unicode.RangeTable {
		switch gc {
		case "Cn":
			return unassigned()
		case "C":
			return rangetable.Merge(unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs, unassigned())
		case "LC":
			return rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt)
		}
		return unicode.Categories[gc]
	}
}

func script(sc string) func() *unicode.RangeTable {
	return func() *unicode.RangeTable {
		if sc == "Unknown" {
			all := make([]*unicode.RangeTable, 0, len(unicode.Scripts))
			for _, t := range unicode.Scripts {
				all = append(all, t)
			}
			return complement(rangetable.Merge(all...))
		}
		return unicode.Scripts[sc]
	}
}

func ascii() *unicode.RangeTable {
	return &unicode.RangeTable{
		R16:         []unicode.Range16{{Lo: 0, Hi: 0x7f, Stride: 1}},
		LatinOffset: 1,
	}
}

func anyCodePoint() *unicode.RangeTable {
	return &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0, Hi: 0xffff, Stride: 1}},
		R32: []unicode.Range32{{Lo: 0x10000, Hi: unicode.MaxRune, Stride: 1}},
	}
}

// unassigned is built from the assigned C subcategories only; unicode.C
// cannot serve here since it also covers unassigned code points.
func unassigned() *unicode.RangeTable {
	return complement(rangetable.Merge(
		unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z,
		unicode.Cc, unicode.Cf, unicode.Co, unicode.Cs))
}

// assigned is the negation of General_Category=Unassigned, which is what
// \p{Assigned} has always matched.
func assigned() *unicode.RangeTable {
	return complement(unassigned())
}

func alphabetic() *unicode.RangeTable {
	return rangetable.Merge(unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl, unicode.Other_Alphabetic)
}

func lowercase() *unicode.RangeTable {
	return rangetable.Merge(unicode.Ll, unicode.Other_Lowercase)
}

func uppercase() *unicode.RangeTable {
	return rangetable.Merge(unicode.Lu, unicode.Other_Uppercase)
}

func cased() *unicode.RangeTable {
	return rangetable.Merge(lowercase(), uppercase(), unicode.Lt)
}

func mathematical() *unicode.RangeTable {
	return rangetable.Merge(unicode.Sm, unicode.Other_Math)
}

func graphemeExtend() *unicode.RangeTable {
	return rangetable.Merge(unicode.Me, unicode.Mn, unicode.Other_Grapheme_Extend)
}

func graphemeBase() *unicode.RangeTable {
	return subtract(anyCodePoint(),
		unicode.Cc, unicode.Cf, unicode.Cs, unicode.Co, unassigned(),
		unicode.Zl, unicode.Zp, graphemeExtend())
}

func idStart() *unicode.RangeTable {
	return subtract(rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start),
		unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

func idContinue() *unicode.RangeTable {
	return subtract(rangetable.Merge(idStart(), unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue),
		unicode.Pattern_Syntax, unicode.Pattern_White_Space)
}

func defaultIgnorable() *unicode.RangeTable {
	return subtract(rangetable.Merge(unicode.Other_Default_Ignorable_Code_Point, unicode.Cf, unicode.Variation_Selector),
		unicode.White_Space,
		rangetable.New(0xfff9, 0xfffa, 0xfffb),
		unicode.Prepended_Concatenation_Mark,
		&unicode.RangeTable{R32: []unicode.Range32{{Lo: 0x13430, Hi: 0x1343f, Stride: 1}}},
	)
}

func subtract(t *unicode.RangeTable, minus ...*unicode.RangeTable) *unicode.RangeTable {
	s := charset.FromTable(t)
	for _, m := range minus {
		s.Subtract(charset.FromTable(m))
	}
	return s.Table()
}

func complement(t *unicode.RangeTable) *unicode.RangeTable {
	s := charset.FromTable(t)
	s.Complement(unicode.MaxRune)
	return s.Table()
}
