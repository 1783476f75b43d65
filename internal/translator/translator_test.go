package translator

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"

	"github.com/auvred/regbridge/internal/encoding"
)

func u16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

type runner struct {
	t    *testing.T
	opts Options
}

func newRunner(t *testing.T) *runner {
	return &runner{t: t}
}

func (r runner) o(opts Options) *runner {
	r.opts = opts
	return &r
}

func (r *runner) translate(pattern []uint16) (*Result, error) {
	return Translate(pattern, r.opts)
}

// tr checks the emitted pattern.
func (r *runner) tr(pattern, expected string) {
	r.t.Helper()
	res, err := r.translate(u16(pattern))
	assert.NilError(r.t, err, "pattern %q", pattern)
	assert.Equal(r.t, res.Pattern, expected, "pattern %q", pattern)
}

// se checks for a syntax error.
func (r *runner) se(pattern, key string, offset int) {
	r.t.Helper()
	_, err := r.translate(u16(pattern))
	var syntaxErr *Error
	assert.Assert(r.t, errors.As(err, &syntaxErr), "pattern %q: got %v", pattern, err)
	assert.Equal(r.t, syntaxErr.Key, key, "pattern %q", pattern)
	assert.Equal(r.t, syntaxErr.Offset, offset, "pattern %q", pattern)
}

const (
	wordClass = `[0-9A-Z_a-z]`
	dotBMP    = `[\u0000-\u0009\u000B\u000C\u000E-\u2027\u202A-\uFFFF]`
)

func TestBasics(t *testing.T) {
	r := newRunner(t)
	r.tr("", "")
	r.tr("abc", "abc")
	r.tr("a|b|", "a|b|")
	r.tr("a.b", "a"+dotBMP+"b")
	r.tr("(?:ab)", "(?:ab)")
	r.tr("a b-c", `a\u0020b\-c`)
	r.tr("é", `\u00E9`)
	r.tr(`\t\n\0`, `\u0009\u000A\u0000`)
	r.tr(`\x41\u0042\cJ`, `AB\u000A`)
	r.tr(`\^\$\\\/\.\*`, `\^\$\\\/\.\*`)
	r.tr(`\d\D`, `[0-9][\u0000-\/\:-\uFFFF]`)
	r.tr(`\w`, wordClass)
	r.tr(`\s`, `[\u0009-\u000D\u0020\u00A0\u1680\u2000-\u200A\u2028\u2029\u202F\u205F\u3000\uFEFF]`)
}

func TestAssertions(t *testing.T) {
	r := newRunner(t)
	r.tr("^a$", `\Aa\z`)
	r.o(Options{Multiline: true}).tr("^$", `(?:\A|(?<=[\n\r\u2028\u2029]))(?=[\n\r\u2028\u2029]|\z)`)
	r.tr(`\b`, "(?:(?<="+wordClass+")(?!"+wordClass+")|(?<!"+wordClass+")(?="+wordClass+"))")
	r.tr(`\B`, "(?:(?<="+wordClass+")(?="+wordClass+")|(?<!"+wordClass+")(?!"+wordClass+"))")
	r.o(Options{Unicode: true, IgnoreCase: true}).tr(`\b`, `(?:(?<=[0-9A-Z_a-z\u017F\u212A])(?![0-9A-Z_a-z\u017F\u212A])|(?<![0-9A-Z_a-z\u017F\u212A])(?=[0-9A-Z_a-z\u017F\u212A]))`)
	r.tr("(?=a)(?!b)(?<=c)(?<!d)", "(?=a)(?!b)(?<=c)(?<!d)")

	r.se("^*", keyNothingToRepeat, 1)
	r.se(`\b+`, keyNothingToRepeat, 2)
	r.se("(?<=a)?", keyNothingToRepeat, 6)
	r.o(Options{Unicode: true}).se("(?=a)?", keyNothingToRepeat, 5)
	r.o(Options{Strict: true}).se("(?=a)?", keyNothingToRepeat, 5)
	// legacy grammar allows a quantified lookahead
	r.tr("(?=a)?", "(?:(?=a))?")
}

func TestQuantifiers(t *testing.T) {
	r := newRunner(t)
	r.tr("a*b+c?", "(?:a)*(?:b)+(?:c)?")
	r.tr("a*?b+?c??", "(?:a)*?(?:b)+?(?:c)??")
	r.tr("a{2}b{2,}c{2,3}d{0}", "(?:a){2}(?:b){2,}(?:c){2,3}(?:d){0}")
	r.tr("a{0,1}a{1,}a{0,}", "(?:a)?(?:a)+(?:a)*")
	r.tr("(a)+", "(?:(a))+")
	r.tr("a{99999999999}", "(?:a){2147483647}")
	r.tr("a{1,99999999999}", "(?:a){1,2147483647}")

	r.se("a{2,1}", keyQuantifierRangeOrder, 4)
	r.se("*", keyNothingToRepeat, 0)
	r.se("a**", keyNothingToRepeat, 2)
	r.se("a|?", keyNothingToRepeat, 2)
	r.se("{1}", keyNothingToRepeat, 0)
	r.se("a++", keyNothingToRepeat, 2)

	p := r.o(Options{Possessive: true})
	p.tr("a++", "(?>(?:a)+)")
	p.tr("a{2,}+b*?", "(?>(?:a){2,})(?:b)*?")

	u := r.o(Options{Unicode: true})
	u.se("a{1", keyInvalidQuantifier, 1)
	u.se("a{", keyInvalidQuantifier, 1)
	u.se("{", keyLoneQuantifierBracket, 0)
	u.se("}", keyLoneQuantifierBracket, 0)
	u.se("]", keyUnmatchedBracket, 0)
}

func TestAnnexB(t *testing.T) {
	r := newRunner(t)
	r.tr("a{", `a\{`)
	r.tr("a{1", `a\{1`)
	r.tr("a{1,x}", `a\{1\,x\}`)
	r.tr("}]", `\}\]`)
	r.tr(`\c`, `\\c`)
	r.tr(`\c1`, `\\c1`)
	r.tr(`[\c1\c_]`, `[\u0011\u001F]`)
	r.tr(`\x4`, `x4`)
	r.tr(`\u12`, `u12`)
	r.tr(`\u{41}`, `(?:u){41}`)
	r.tr(`\a\p\k`, `apk`)
	r.tr(`\0\07\101\400`, `\u0000\u0007A\u00200`)
	r.tr(`\08`, `\u00008`)
	r.tr(`[\1]`, `\u0001`)
	r.tr(`[\d-z]`, `[\-0-9z]`)
	r.tr(`[a-\d]`, `[\-0-9a]`)
	r.tr(`[a-]`, `[\-a]`)

	s := r.o(Options{Strict: true})
	s.se(`\c`, keyInvalidControlEscape, 0)
	s.se(`\x4`, keyInvalidHexEscape, 0)
	s.se(`\u12`, keyInvalidUnicodeEscape, 0)
	s.se(`\a`, keyInvalidEscape, 0)
	s.se(`\07`, keyInvalidDecimalEscape, 0)
	s.se(`[\1]`, keyInvalidDecimalEscape, 1)
	s.se(`[\d-z]`, keyClassEscapeInRange, 3)
	s.se("a{1", keyInvalidQuantifier, 1)
	s.tr(`\-\#`, `\-\#`)
}

func TestUnicodeMode(t *testing.T) {
	r := newRunner(t).o(Options{Unicode: true})
	r.tr("😀", "😀")
	r.tr(`\u{1F600}\uD83D\uDE00`, "😀😀")
	r.tr(`\uD83D`, `\uD83D`)
	r.tr(`[😀-😂]`, "[😀-😂]")
	r.tr(`[\-]`, `\-`)
	r.tr(".", `[\u0000-\u0009\u000B\u000C\u000E-\u2027\u202A-`+string(rune(0x10ffff))+`]`)
	r.o(Options{Unicode: true, DotAll: true}).tr(".", `[\u0000-`+string(rune(0x10ffff))+`]`)

	r.se(`\a`, keyInvalidEscape, 0)
	r.se(`\-`, keyInvalidEscape, 0)
	r.se(`\u{110000}`, keyInvalidUnicodeEscape, 0)
	r.se(`\u{}`, keyInvalidUnicodeEscape, 0)
	r.se(`\c`, keyInvalidControlEscape, 0)
	r.se(`\00`, keyInvalidDecimalEscape, 0)
	r.se(`a\`, keyInvalidEscape, 1)

	// without the u flag the pair stays two code units
	newRunner(t).tr(`\uD83D\uDE00`, `\uD83D\uDE00`)
	newRunner(t).tr(`[😀]`, `[\uD83D\uDE00]`)
}

func TestClasses(t *testing.T) {
	r := newRunner(t)
	r.tr("[a-c]", "[a-c]")
	r.tr("[ab]", "[ab]")
	r.tr("[a]", "a")
	r.tr("[]", "(?!)")
	r.tr("[^]", `[\u0000-\uFFFF]`)
	r.tr("[^a]", "[\\u0000-\\`b-\\uFFFF]")
	r.tr(`[\b]`, `\u0008`)
	r.tr(`[\w-]`, `[\-0-9A-Z_a-z]`)
	r.tr(`[.]`, `\.`)

	r.se("[b-a]", keyClassRangeOrder, 2)
	r.se("[a", keyUnterminatedClass, 0)
	r.se("[", keyUnterminatedClass, 0)
	r.se("a[b-", keyUnterminatedClass, 1)
}

func TestIgnoreCase(t *testing.T) {
	bmp := newRunner(t).o(Options{IgnoreCase: true})
	bmp.tr("a1", "[Aa]1")
	bmp.tr("[a-z]", "[A-Za-z]")
	bmp.tr("k", "[Kk]")
	bmp.tr("[^a]", "[\\u0000-\\@B-\\`b-\\uFFFF]")

	u := newRunner(t).o(Options{Unicode: true, IgnoreCase: true})
	u.tr("k", `[Kk\u212A]`)
	u.tr("[a-z]", `[A-Za-z\u017F\u212A]`)
	u.tr(`\u212A`, `[Kk\u212A]`)
	u.tr(`\w`, `[0-9A-Z_a-z\u017F\u212A]`)
	u.tr("1", "1")
}

func TestIgnoreCaseFollowsEncoding(t *testing.T) {
	r := newRunner(t)
	r.o(Options{Unicode: true, IgnoreCase: true, Encoding: encoding.UTF32}).tr("[k]", `[Kk\u212A]`)
	// the BMP folding leaves out the Kelvin sign, whose upper case is ASCII
	bmp := r.o(Options{Unicode: true, IgnoreCase: true, Encoding: encoding.UCS2})
	bmp.tr("k", "[Kk]")
	bmp.tr("[k]", "[Kk]")
	r.o(Options{IgnoreCase: true, Encoding: encoding.UCS2}).tr("\u00e0", `[\u00C0\u00E0]`)
}

func TestGroupsAndNames(t *testing.T) {
	r := newRunner(t)
	res, err := r.translate(u16(`(?<year>\d{4})-(?<month>\d\d)(x)`))
	assert.NilError(t, err)
	assert.Equal(t, res.Pattern, `((?:[0-9]){4})\-([0-9][0-9])(x)`)
	assert.Equal(t, res.GroupCount, 3)
	assert.DeepEqual(t, res.Names, []Name{{Name: "year", Index: 1}, {Name: "month", Index: 2}})

	index, ok := res.GroupIndex("month")
	assert.Assert(t, ok)
	assert.Equal(t, index, 2)
	_, ok = res.GroupIndex("day")
	assert.Assert(t, !ok)

	res, err = r.translate(u16(`(?<$\u0041_\u{62}>.)(?<π>a)`))
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Names, []Name{{Name: "$A_b", Index: 1}, {Name: "π", Index: 2}})

	r.se("(?<a>x)(?<a>y)", keyDuplicateGroupName, 9)
	r.se("(?<1a>x)", keyInvalidGroupName, 2)
	r.se("(?<>x)", keyInvalidGroupName, 2)
	r.se("(?<a", keyInvalidGroupName, 2)
	r.se("(?<a-b>x)", keyInvalidGroupName, 2)
	r.se("(?i:a)", keyInvalidGroup, 0)
	r.se("(?", keyInvalidGroup, 0)
	r.se("(a", keyUnterminatedGroup, 0)
	r.se("(?:a", keyUnterminatedGroup, 0)
	r.se("a)", keyUnmatchedParen, 1)
}

func TestBackreferences(t *testing.T) {
	r := newRunner(t)
	r.tr(`(a)\1`, `(a)(?(1)\k<1>|)`)
	r.o(Options{IgnoreCase: true}).tr(`(a)\1`, `([Aa])(?(1)(?i:\k<1>)|)`)
	// not closed yet
	r.tr(`\1(a)`, `(?:)(a)`)
	r.tr(`(a\1)`, `(a(?:))`)
	// invalidated by the negative lookahead
	r.tr(`(?!(a))\1`, `(?!(a))(?:)`)
	r.tr(`(?!(a)\1)`, `(?!(a)(?(1)\k<1>|))`)
	r.tr(`(?=(a))\1`, `(?=(a))(?(1)\k<1>|)`)
	r.tr(`(?<n>a)\k<n>`, `(a)(?(1)\k<1>|)`)
}

func TestNamedBackrefRestart(t *testing.T) {
	r := newRunner(t)

	res, err := r.translate(u16(`\k<a>(?<a>x)`))
	assert.NilError(t, err)
	assert.Equal(t, res.Pattern, `(?:)(x)`)
	assert.Equal(t, res.Restarts, 1)
	assert.DeepEqual(t, res.Names, []Name{{Name: "a", Index: 1}})

	// no named groups: \k stays an identity escape
	res, err = r.translate(u16(`\k<a>`))
	assert.NilError(t, err)
	assert.Equal(t, res.Pattern, `k\<a\>`)
	assert.Equal(t, res.Restarts, 0)

	r.se(`\k<b>(?<a>x)`, keyUnknownGroupName, 0)
	r.se(`[\k](?<a>x)`, keyInvalidEscape, 1)
	r.se(`\k(?<a>x)`, keyInvalidGroupName, 2)

	u := r.o(Options{Unicode: true})
	u.tr(`\k<a>(?<a>x)`, `(?:)(x)`)
	u.se(`\k<a>`, keyUnknownGroupName, 0)
	u.se(`\k`, keyInvalidGroupName, 2)
}

func TestBackrefLimitRestart(t *testing.T) {
	r := newRunner(t)

	res, err := r.translate(u16(`\12(a)`))
	assert.NilError(t, err)
	assert.Equal(t, res.Pattern, `\u000A(a)`)
	assert.Equal(t, res.Restarts, 1)

	r.tr(`\8`, "8")
	r.tr(`(a)\2`, `(a)\u0002`)
	r.tr(`(a)\18`, `(a)\u00018`)
	r.tr(`(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)\10`, `(a)(b)(c)(d)(e)(f)(g)(h)(i)(j)(?(10)\k<10>|)`)
	r.tr(`(?<=\2)(a)`, `(?<=\u0002)(a)`)

	// both restarts in one pattern
	res, err = r.translate(u16(`\k<a>\2(?<a>x)`))
	assert.NilError(t, err)
	assert.Equal(t, res.Pattern, `(?:)\u0002(x)`)
	assert.Equal(t, res.Restarts, 2)

	r.o(Options{Unicode: true}).se(`\2(a)`, keyInvalidBackref, 0)
	r.o(Options{Strict: true}).se(`(a)\2`, keyInvalidBackref, 3)
}

func TestLookbehindRestrictions(t *testing.T) {
	r := newRunner(t)
	r.se("(?<=(a))", keyLookbehindCapture, 4)
	r.se("(?<!(?<n>a))", keyLookbehindCapture, 4)
	r.se("(?<=(?=(a)))", keyLookbehindCapture, 7)
	r.se("(?<=a+)", keyLookbehindQuantifier, 5)
	r.se("(?<=a{1,2})", keyLookbehindQuantifier, 5)
	r.se(`(?<=\1)(a)`, keyLookbehindBackref, 4)
	r.se(`(?<n>a)(?<=\k<n>)`, keyLookbehindBackref, 11)
	r.tr("(?<=a{2})", "(?<=(?:a){2})")
	r.tr("(?<=(?:ab))c", "(?<=(?:ab))c")
}

func TestNegativeLookaheadGroups(t *testing.T) {
	res, err := Translate(u16(`(?!(a)(?=(b)))(c)(?=(d))(?!e)(f)`), Options{})
	assert.NilError(t, err)
	assert.Equal(t, res.GroupCount, 5)

	var got []int
	for i := 0; i <= res.GroupCount; i++ {
		if res.NegativeLookaheadGroups.Has(i) {
			got = append(got, i)
		}
	}
	assert.DeepEqual(t, got, []int{1, 2})
	assert.Equal(t, res.NegativeLookaheadGroups.Len(), 2)
	assert.Assert(t, res.UsesLookahead)
	assert.Assert(t, !res.UsesLookbehind)
}

func TestGroupSet(t *testing.T) {
	var s GroupSet
	assert.Assert(t, !s.Has(0))
	assert.Assert(t, !s.Has(1000))
	s.add(3)
	s.add(64)
	s.add(200)
	assert.Assert(t, s.Has(3))
	assert.Assert(t, s.Has(64))
	assert.Assert(t, s.Has(200))
	assert.Assert(t, !s.Has(63))
	assert.Assert(t, !s.Has(65))
	assert.Equal(t, s.Len(), 3)
}

func TestProperties(t *testing.T) {
	r := newRunner(t).o(Options{Unicode: true})

	res, err := r.translate(u16(`\p{Lu}`))
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(res.Pattern, `[A-Z\u00C0-\u00D6`), res.Pattern)
	assert.Assert(t, res.UsesProperties)

	r.tr(`\p{ASCII_Hex_Digit}`, `[0-9A-Fa-f]`)
	r.tr(`\P{Any}`, `(?!)`)
	r.tr(`[\p{Any}]`, `[\u0000-`+string(rune(0x10ffff))+`]`)
	r.tr(`\p{sc=Zzzz}a`, mustPattern(t, `\p{Script=Unknown}`)+"a")

	res, err = r.o(Options{Unicode: true, IgnoreCase: true}).translate(u16(`\p{Lu}`))
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(res.Pattern, `[A-Za-z`), res.Pattern)

	r.se(`\p{Foo}`, keyInvalidPropertyName, 0)
	r.se(`a\p{sc=Foo}`, keyInvalidPropertyValue, 1)
	r.se(`\p{Foo=Bar}`, keyInvalidPropertyName, 0)
	r.se(`\p{Emoji}`, keyUnavailableProperty, 0)
	r.se(`\p{}`, keyInvalidPropertyName, 0)
	r.se(`\p{gc=}`, keyInvalidPropertyValue, 0)
	r.se(`\pL`, keyInvalidPropertyEscape, 0)
	r.se(`\p{L`, keyInvalidPropertyEscape, 0)
	r.se(`[\p{L}-z]`, keyClassEscapeInRange, 6)

	// only the Unicode grammar knows property escapes
	newRunner(t).tr(`\p{L}`, `p\{L\}`)
	newRunner(t).o(Options{Strict: true}).se(`\p{L}`, keyInvalidEscape, 0)
}

func mustPattern(t *testing.T, pattern string) string {
	t.Helper()
	res, err := Translate(u16(pattern), Options{Unicode: true})
	assert.NilError(t, err)
	return res.Pattern
}

func TestLimits(t *testing.T) {
	r := newRunner(t).o(Options{MaxDepth: 2, MaxGroups: 2})
	r.tr("((a))", "((a))")
	r.tr("(?:(?:a))(?:(?:b))", "(?:(?:a))(?:(?:b))")
	r.se("(((a)))", keyTooDeep, 2)
	r.se("(?:(?=(?!a)))", keyTooDeep, 6)
	r.se("(a)(b)(c)", keyTooManyGroups, 6)

	deep := strings.Repeat("(", DefaultMaxDepth+1) + strings.Repeat(")", DefaultMaxDepth+1)
	newRunner(t).se(deep, keyTooDeep, DefaultMaxDepth)
}

func TestRestartIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, err := Translate(u16(`\k<a>(?<a>x)\3`), Options{Logger: &logger})
	assert.NilError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 2)
	assert.Assert(t, strings.Contains(lines[0], `"reason":"named-backrefs"`), lines[0])
	assert.Assert(t, strings.Contains(lines[1], `"reason":"backref-limit"`), lines[1])
}

// Translating the same pattern twice gives the same result.
func TestDeterministic(t *testing.T) {
	for _, pattern := range []string{
		`\k<a>(?<a>x)\12`,
		`(?!(a)(b))\2|[^\w\d]{2,5}?`,
		`(?<=^|\s)x(?=$)`,
	} {
		for _, opts := range []Options{{}, {IgnoreCase: true}, {Unicode: true, IgnoreCase: true, Multiline: true}} {
			first, err1 := Translate(u16(pattern), opts)
			second, err2 := Translate(u16(pattern), opts)
			if err1 != nil || err2 != nil {
				assert.Equal(t, err1.Error(), err2.Error())
				continue
			}
			assert.DeepEqual(t, first, second, cmp.AllowUnexported(GroupSet{}), cmpopts.EquateEmpty())
		}
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := Translate(u16("a{2,1}"), Options{})
	assert.Error(t, err, "numbers out of order in {} quantifier at offset 4")
	assert.Equal(t, Message("no.such.key"), "no.such.key")
}
