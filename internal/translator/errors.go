package translator

import "fmt"

// Error is a syntax error found while translating a pattern. Key is one of
// the message keys below and stays stable across releases; Offset is the
// code unit offset in the source pattern.
type Error struct {
	Key    string
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d", Message(e.Key), e.Offset)
}

// Message returns the human readable text for a message key.
func Message(key string) string {
	if m, ok := messages[key]; ok {
		return m
	}
	return key
}

const (
	keyUnterminatedGroup     = "unterminated.group"
	keyUnmatchedParen        = "unmatched.paren"
	keyUnmatchedBracket      = "unmatched.bracket"
	keyInvalidGroup          = "invalid.group"
	keyNothingToRepeat       = "quantifier.nothing"
	keyInvalidQuantifier     = "quantifier.invalid"
	keyQuantifierRangeOrder  = "quantifier.range.order"
	keyLookbehindQuantifier  = "lookbehind.quantifier"
	keyLookbehindCapture     = "lookbehind.capture"
	keyLookbehindBackref     = "lookbehind.backref"
	keyInvalidEscape         = "escape.invalid"
	keyInvalidUnicodeEscape  = "escape.unicode"
	keyInvalidHexEscape      = "escape.hex"
	keyInvalidControlEscape  = "escape.control"
	keyInvalidDecimalEscape  = "escape.decimal"
	keyInvalidBackref        = "backref.invalid"
	keyInvalidGroupName      = "group.name.invalid"
	keyDuplicateGroupName    = "group.name.duplicate"
	keyUnknownGroupName      = "group.name.unknown"
	keyUnterminatedClass     = "class.unterminated"
	keyClassRangeOrder       = "class.range.order"
	keyClassEscapeInRange    = "class.range.escape"
	keyInvalidPropertyName   = "property.name"
	keyInvalidPropertyValue  = "property.value"
	keyUnavailableProperty   = "property.unavailable"
	keyInvalidPropertyEscape = "property.syntax"
	keyTooManyGroups         = "limit.groups"
	keyTooDeep               = "limit.depth"
	keyLoneQuantifierBracket = "quantifier.bracket"
)

var messages = map[string]string{
	keyUnterminatedGroup:     "unterminated group",
	keyUnmatchedParen:        "unmatched ')'",
	keyUnmatchedBracket:      "unmatched ']'",
	keyInvalidGroup:          "invalid group",
	keyNothingToRepeat:       "nothing to repeat",
	keyInvalidQuantifier:     "incomplete quantifier",
	keyQuantifierRangeOrder:  "numbers out of order in {} quantifier",
	keyLookbehindQuantifier:  "variable-length quantifier inside lookbehind",
	keyLookbehindCapture:     "capturing group inside lookbehind",
	keyLookbehindBackref:     "backreference inside lookbehind",
	keyInvalidEscape:         "invalid escape",
	keyInvalidUnicodeEscape:  "invalid Unicode escape",
	keyInvalidHexEscape:      `invalid \x escape`,
	keyInvalidControlEscape:  `invalid \c escape`,
	keyInvalidDecimalEscape:  "invalid decimal escape",
	keyInvalidBackref:        "backreference to non-existent capturing group",
	keyInvalidGroupName:      "invalid capture group name",
	keyDuplicateGroupName:    "duplicate capture group name",
	keyUnknownGroupName:      "invalid named reference",
	keyUnterminatedClass:     "unterminated character class",
	keyClassRangeOrder:       "range out of order in character class",
	keyClassEscapeInRange:    "character class escape used as range endpoint",
	keyInvalidPropertyName:   "invalid property name",
	keyInvalidPropertyValue:  "invalid property value",
	keyUnavailableProperty:   "unsupported property",
	keyInvalidPropertyEscape: "invalid property escape",
	keyTooManyGroups:         "too many capture groups",
	keyTooDeep:               "pattern nested too deeply",
	keyLoneQuantifierBracket: "lone quantifier brackets",
}

func (p *parser) fail(key string, offset int) error {
	return &Error{Key: key, Offset: offset}
}
