package casefold

// upperDenylist lists code points whose simple uppercase mapping exists but
// whose full uppercase is a multi-character string. The non-Unicode
// canonicalization is defined on the full mapping, so these never fold.
var upperDenylist = map[rune]struct{}{
	// GREEK SMALL LETTER ALPHA WITH PSILI AND YPOGEGRAMMENI .. WITH DASIA AND PERISPOMENI AND YPOGEGRAMMENI
	0x1f80: {}, 0x1f81: {}, 0x1f82: {}, 0x1f83: {}, 0x1f84: {}, 0x1f85: {}, 0x1f86: {}, 0x1f87: {},
	// GREEK SMALL LETTER ETA WITH PSILI AND YPOGEGRAMMENI ..
	0x1f90: {}, 0x1f91: {}, 0x1f92: {}, 0x1f93: {}, 0x1f94: {}, 0x1f95: {}, 0x1f96: {}, 0x1f97: {},
	// GREEK SMALL LETTER OMEGA WITH PSILI AND YPOGEGRAMMENI ..
	0x1fa0: {}, 0x1fa1: {}, 0x1fa2: {}, 0x1fa3: {}, 0x1fa4: {}, 0x1fa5: {}, 0x1fa6: {}, 0x1fa7: {},
	0x1fb3: {}, // GREEK SMALL LETTER ALPHA WITH YPOGEGRAMMENI
	0x1fc3: {}, // GREEK SMALL LETTER ETA WITH YPOGEGRAMMENI
	0x1ff3: {}, // GREEK SMALL LETTER OMEGA WITH YPOGEGRAMMENI
}

// restricted code points only take part in Turkic case mappings
// (CaseFolding.txt status T), never in simple folding.
var restricted = [...]rune{
	0x0130, // LATIN CAPITAL LETTER I WITH DOT ABOVE
	0x0131, // LATIN SMALL LETTER DOTLESS I
}

// IsRestricted reports whether cp is excluded from Unicode-mode folding.
func IsRestricted(cp rune) bool {
	for _, r := range restricted {
		if r == cp {
			return true
		}
	}
	return false
}
