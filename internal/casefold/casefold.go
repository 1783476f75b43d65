// Package casefold holds the case-folding tables used for case-insensitive
// matching.
//
// Two tables exist. [Unicode] groups code points into simple case folding
// equivalence classes and is used in Unicode mode. [BMP] implements the
// non-Unicode canonicalization (upper-casing restricted to the Basic
// Multilingual Plane) and is keyed purely on code units, so UCS-2 matching
// never touches the full Unicode table.
package casefold

import (
	"slices"
	"sort"
	"sync"
	"unicode"
)

// Table maps code points to their canonical fold target and back.
type Table struct {
	// code point -> canonical target, only for code points that fold
	fold map[rune]rune
	// canonical target -> every member of the class, sorted, target included
	classes map[rune][]rune
	// all members of all classes sorted by code point, for range lookups
	members []member
	maxRune rune
}

type member struct {
	cp  rune
	rep rune
}

// MaxRune is the largest code point the table can be asked about.
func (t *Table) MaxRune() rune {
	return t.maxRune
}

// Fold returns the canonical fold target of cp. The second result is false
// when cp is not case-variant (its target would be cp itself).
func (t *Table) Fold(cp rune) (rune, bool) {
	r, ok := t.fold[cp]
	return r, ok
}

// Canonicalize is Fold that returns cp itself when it does not fold.
func (t *Table) Canonicalize(cp rune) rune {
	if r, ok := t.fold[cp]; ok {
		return r
	}
	return cp
}

// Unfold returns every code point whose fold target is cp, excluding cp.
func (t *Table) Unfold(cp rune) ([]rune, bool) {
	class, ok := t.classes[cp]
	if !ok {
		return nil, false
	}
	res := make([]rune, 0, len(class)-1)
	for _, m := range class {
		if m != cp {
			res = append(res, m)
		}
	}
	return res, true
}

// Class returns every code point case-equivalent to cp, cp included, in
// ascending order. The returned slice must not be modified.
func (t *Table) Class(cp rune) []rune {
	if class, ok := t.classes[t.Canonicalize(cp)]; ok {
		return class
	}
	return nil
}

// CompleteRange calls add for every code point outside [lo, hi] that is
// case-equivalent to some code point inside it. A class may be reported
// more than once.
func (t *Table) CompleteRange(lo, hi rune, add func(r rune)) {
	i := sort.Search(len(t.members), func(i int) bool {
		return t.members[i].cp >= lo
	})
	var lastRep rune = -1
	for ; i < len(t.members) && t.members[i].cp <= hi; i++ {
		rep := t.members[i].rep
		if rep == lastRep {
			continue
		}
		lastRep = rep
		for _, m := range t.classes[rep] {
			if m < lo || m > hi {
				add(m)
			}
		}
	}
}

// Complete calls add for every member of every class that has at least one
// member for which contains reports true.
func (t *Table) Complete(contains func(r rune) bool, add func(r rune)) {
	var lastRep rune = -1
	for _, m := range t.members {
		if m.rep == lastRep || !contains(m.cp) {
			continue
		}
		lastRep = m.rep
		for _, r := range t.classes[m.rep] {
			add(r)
		}
	}
}

func (t *Table) addClass(class []rune) {
	slices.Sort(class)
	class = slices.Compact(class)
	if len(class) < 2 {
		return
	}
	rep := representative(class)
	t.classes[rep] = class
	for _, m := range class {
		if m != rep {
			t.fold[m] = rep
		}
		t.members = append(t.members, member{cp: m, rep: rep})
	}
}

func (t *Table) finish() {
	slices.SortFunc(t.members, func(a, b member) int {
		return int(a.cp - b.cp)
	})
}

// representative picks the lower-case form of the smallest class member,
// which is what CaseFolding.txt uses for nearly every class.
func representative(class []rune) rune {
	first := class[0]
	lower := unicode.ToLower(unicode.ToUpper(first))
	if _, found := slices.BinarySearch(class, lower); found {
		return lower
	}
	return first
}

func newTable(maxRune rune) *Table {
	return &Table{
		fold:    map[rune]rune{},
		classes: map[rune][]rune{},
		maxRune: maxRune,
	}
}

var (
	unicodeOnce  sync.Once
	unicodeTable *Table
	bmpOnce      sync.Once
	bmpTable     *Table
)

// Unicode returns the simple case folding table used in Unicode mode.
func Unicode() *Table {
	unicodeOnce.Do(func() {
		unicodeTable = buildUnicode()
	})
	return unicodeTable
}

// BMP returns the non-Unicode canonicalization table.
func BMP() *Table {
	bmpOnce.Do(func() {
		bmpTable = buildBMP()
	})
	return bmpTable
}

func buildUnicode() *Table {
	t := newTable(unicode.MaxRune)
	seen := map[rune]struct{}{}
	for _, cr := range unicode.CaseRanges {
		for cp := rune(cr.Lo); cp <= rune(cr.Hi); cp++ {
			if _, ok := seen[cp]; ok {
				continue
			}
			if IsRestricted(cp) {
				continue
			}
			class := []rune{cp}
			seen[cp] = struct{}{}
			for f := unicode.SimpleFold(cp); f != cp; f = unicode.SimpleFold(f) {
				if IsRestricted(f) {
					continue
				}
				class = append(class, f)
				seen[f] = struct{}{}
			}
			t.addClass(class)
		}
	}
	t.finish()
	return t
}

func buildBMP() *Table {
	t := newTable(0xffff)
	byTarget := map[rune][]rune{}
	for cp := rune(0); cp <= 0xffff; cp++ {
		target, ok := canonicalizeUCS2(cp)
		if !ok {
			continue
		}
		if _, ok := byTarget[target]; !ok {
			byTarget[target] = []rune{target}
		}
		byTarget[target] = append(byTarget[target], cp)
	}
	for target, class := range byTarget {
		t.addClassWithRep(target, class)
	}
	t.finish()
	return t
}

// addClassWithRep is addClass for tables whose target is prescribed by the
// canonicalization rule rather than chosen.
func (t *Table) addClassWithRep(rep rune, class []rune) {
	slices.Sort(class)
	class = slices.Compact(class)
	if len(class) < 2 {
		return
	}
	t.classes[rep] = class
	for _, m := range class {
		if m != rep {
			t.fold[m] = rep
		}
		t.members = append(t.members, member{cp: m, rep: rep})
	}
}

// canonicalizeUCS2 is the non-Unicode Canonicalize operation for one code
// unit. It reports false when cp maps onto itself.
func canonicalizeUCS2(cp rune) (rune, bool) {
	if _, denied := upperDenylist[cp]; denied {
		return 0, false
	}
	upper := unicode.ToUpper(cp)
	if upper == cp {
		return 0, false
	}
	// folding never crosses from non-ASCII into ASCII
	if cp >= 0x80 && upper < 0x80 {
		return 0, false
	}
	if upper > 0xffff {
		return 0, false
	}
	if unicode.ToUpper(upper) != upper {
		return 0, false
	}
	return upper, true
}
