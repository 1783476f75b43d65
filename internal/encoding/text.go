package encoding

// PositionCache remembers one pair of string and byte windows that are
// known to correspond, normally the region of the latest match.
type PositionCache struct {
	stringBegin int
	stringEnd   int
	byteBegin   int
	byteEnd     int
}

// Text is a subject encoded once for repeated searches.
type Text struct {
	enc   Encoding
	units []uint16
	buf   []byte
	cache PositionCache
}

func NewText(enc Encoding, units []uint16) *Text {
	return &Text{
		enc:   enc,
		units: units,
		buf:   enc.Encode(units),
	}
}

func (t *Text) Encoding() Encoding { return t.enc }
func (t *Text) Bytes() []byte      { return t.buf }
func (t *Text) Units() []uint16    { return t.units }

// Len is the length of the subject in UTF-16 code units.
func (t *Text) Len() int { return len(t.units) }

// Remember anchors the position cache on a window, usually the last match.
func (t *Text) Remember(stringBegin, stringEnd, byteBegin, byteEnd int) {
	t.cache = PositionCache{
		stringBegin: stringBegin,
		stringEnd:   stringEnd,
		byteBegin:   byteBegin,
		byteEnd:     byteEnd,
	}
}

// Cache returns the current window.
func (t *Text) Cache() PositionCache {
	return t.cache
}

// StartByte converts a search start into a byte offset. For Unicode-aware
// encodings a start between the halves of a surrogate pair is moved back to
// the lead surrogate. UCS-2 keeps it, since there every code unit is a
// character of its own.
func (t *Text) StartByte(stringIndex int) int {
	if t.enc.Unicode() && stringIndex > 0 && stringIndex < len(t.units) &&
		isLowSurrogate(rune(t.units[stringIndex])) && isHighSurrogate(rune(t.units[stringIndex-1])) {
		stringIndex--
	}
	return t.ByteIndex(stringIndex)
}

// ByteIndex converts a code unit index into a byte offset. An index inside
// a surrogate pair that the encoding keeps together resolves to the start
// of the pair.
func (t *Text) ByteIndex(stringIndex int) int {
	if w := t.enc.UnitBytes(); w > 0 {
		return stringIndex * w
	}
	if stringIndex >= len(t.units) {
		return len(t.buf)
	}
	str, b := t.nearest(stringIndex, func(c PositionCache) (int, int, int, int) {
		return c.stringBegin, c.byteBegin, c.stringEnd, c.byteEnd
	})
	for str < stringIndex {
		next := str + t.enc.UnitsAt(t.buf, b)
		if next > stringIndex {
			break
		}
		str = next
		b = t.enc.NextPos(t.buf, b)
	}
	for str > stringIndex {
		b = t.enc.PrevPos(t.buf, b)
		str -= t.enc.UnitsAt(t.buf, b)
	}
	t.move(str, b)
	return b
}

// StringIndex converts a byte offset on a character boundary into a code
// unit index.
func (t *Text) StringIndex(byteIndex int) int {
	if w := t.enc.UnitBytes(); w > 0 {
		return byteIndex / w
	}
	if byteIndex >= len(t.buf) {
		return len(t.units)
	}
	b, str := t.nearest(byteIndex, func(c PositionCache) (int, int, int, int) {
		return c.byteBegin, c.stringBegin, c.byteEnd, c.stringEnd
	})
	for b < byteIndex {
		str += t.enc.UnitsAt(t.buf, b)
		b = t.enc.NextPos(t.buf, b)
	}
	for b > byteIndex {
		b = t.enc.PrevPos(t.buf, b)
		str -= t.enc.UnitsAt(t.buf, b)
	}
	t.move(str, b)
	return str
}

// nearest picks the anchor closest to target among the start of the
// subject and both window edges. edges returns the window as
// (key, value) pairs in the coordinate system of target.
func (t *Text) nearest(target int, edges func(c PositionCache) (int, int, int, int)) (int, int) {
	beginKey, beginVal, endKey, endVal := edges(t.cache)
	key, val := 0, 0
	dist := target
	if d := abs(target - beginKey); d < dist {
		key, val, dist = beginKey, beginVal, d
	}
	if d := abs(target - endKey); d < dist {
		key, val = endKey, endVal
	}
	return key, val
}

// move stretches or narrows the window so that it has (str, b) on one of
// its edges, keeping the edge that is further away.
func (t *Text) move(str, b int) {
	c := &t.cache
	switch {
	case str <= c.stringBegin:
		c.stringBegin, c.byteBegin = str, b
	case str >= c.stringEnd:
		c.stringEnd, c.byteEnd = str, b
	case str-c.stringBegin < c.stringEnd-str:
		c.stringBegin, c.byteBegin = str, b
	default:
		c.stringEnd, c.byteEnd = str, b
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
