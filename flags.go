package regbridge

import (
	"fmt"
	"strings"
)

// Flag is a set of pattern flags with one bit per flag letter that
// ParseFlags accepts. No bits set means a pattern written without flags.
type Flag uint16

const (
	// Global search ("g" flag). Matchers ignore it, it is kept for the
	// RegExp object that drives them.
	FlagGlobal Flag = 1 << iota

	// Case-insensitive matching ("i" flag).
	FlagIgnoreCase

	// "^" and "$" match line boundaries ("m" flag).
	FlagMultiline

	// "." matches line terminators ("s" flag).
	FlagDotAll

	// Unicode-aware mode ("u" flag).
	FlagUnicode

	// Sticky match from the start position ("y" flag).
	FlagSticky
)

var flagLetters = [...]struct {
	flag   Flag
	letter byte
}{
	{FlagGlobal, 'g'},
	{FlagIgnoreCase, 'i'},
	{FlagMultiline, 'm'},
	{FlagDotAll, 's'},
	{FlagUnicode, 'u'},
	{FlagSticky, 'y'},
}

// ParseFlags parses a flag string such as "gi". Each letter may appear at
// most once, in any order.
func ParseFlags(s string) (Flag, error) {
	var flags Flag
	for i := 0; i < len(s); i++ {
		f, ok := flagOf(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: unknown flag %q in %q", ErrInvalidFlags, s[i], s)
		}
		if flags&f != 0 {
			return 0, fmt.Errorf("%w: repeated flag %q in %q", ErrInvalidFlags, s[i], s)
		}
		flags |= f
	}
	return flags, nil
}

func flagOf(letter byte) (Flag, bool) {
	for _, fl := range flagLetters {
		if fl.letter == letter {
			return fl.flag, true
		}
	}
	return 0, false
}

// String returns the flags in canonical order.
func (f Flag) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			b.WriteByte(fl.letter)
		}
	}
	return b.String()
}

func (f Flag) has(other Flag) bool {
	return f&other != 0
}
