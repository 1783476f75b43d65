package regbridge

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/auvred/regbridge/internal/translator"
)

var (
	ErrInvalidFlags    = errors.New("regbridge: invalid flags")
	ErrIndexOutOfRange = errors.New("regbridge: index out of range")
	ErrGroupOutOfRange = errors.New("regbridge: group out of range")
	ErrNoMatch         = errors.New("regbridge: no match available")
	// ErrUnsupported is returned by the alternate matcher for flags it
	// cannot honor.
	ErrUnsupported = errors.New("regbridge: unsupported by the alternate engine")
)

// Location is where a pattern appears in the program being run. It is only
// used to enrich error messages.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	return l.File + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// SyntaxError reports an invalid pattern.
type SyntaxError struct {
	// Key identifies the kind of error, e.g. "quantifier.range.order".
	Key string
	// Offset is the index of the offending code unit in the pattern.
	Offset   int
	Pattern  string
	Flags    Flag
	Location Location
}

func (e *SyntaxError) Error() string {
	msg := "Invalid regular expression: /" + e.Pattern + "/" + e.Flags.String() + ": " +
		translator.Message(e.Key) + " at offset " + strconv.Itoa(e.Offset)
	if !e.Location.IsZero() {
		msg = e.Location.String() + ": " + msg
	}
	return msg
}

var _ error = (*SyntaxError)(nil)

func newSyntaxError(err *translator.Error, pattern []uint16, flags Flag, loc Location) *SyntaxError {
	return &SyntaxError{
		Key:      err.Key,
		Offset:   err.Offset,
		Pattern:  string(utf16.Decode(pattern)),
		Flags:    flags,
		Location: loc,
	}
}

func indexError(index, length int) error {
	return fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, length)
}
