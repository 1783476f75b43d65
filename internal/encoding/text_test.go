package encoding

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestTextFixedWidth(t *testing.T) {
	units := u16("a🐱b")
	for _, enc := range []Encoding{UCS2, UTF16} {
		text := NewText(enc, units)
		for i := 0; i <= len(units); i++ {
			assert.Equal(t, text.ByteIndex(i), 2*i)
			assert.Equal(t, text.StringIndex(2*i), i)
		}
	}
}

func TestTextUTF32(t *testing.T) {
	// 'x', pair, 'y', pair, pair, 'z'
	units := u16("x🐱y😀😁z")
	text := NewText(UTF32, units)
	assert.Equal(t, len(text.Bytes()), 24)
	assert.Equal(t, text.Len(), 9)

	byteOf := []int{0, 4, 4, 8, 12, 12, 16, 16, 20, 24}
	for i, want := range byteOf {
		assert.Equal(t, text.ByteIndex(i), want, "string index %d", i)
	}
	stringOf := map[int]int{0: 0, 4: 1, 8: 3, 12: 4, 16: 6, 20: 8, 24: 9}
	for b, want := range stringOf {
		assert.Equal(t, text.StringIndex(b), want, "byte index %d", b)
	}

	// same answers whatever the window happens to be
	text.Remember(4, 6, 12, 16)
	for i := len(byteOf) - 1; i >= 0; i-- {
		assert.Equal(t, text.ByteIndex(i), byteOf[i], "string index %d", i)
	}
	text.Remember(8, 8, 20, 20)
	for b, want := range stringOf {
		assert.Equal(t, text.StringIndex(b), want, "byte index %d", b)
	}
}

func TestTextWindowMoves(t *testing.T) {
	units := u16("ab😀cd😀ef")
	text := NewText(UTF32, units)

	text.Remember(4, 5, 12, 16)
	assert.Equal(t, text.StringIndex(24), 8)
	assert.Equal(t, text.Cache(), PositionCache{stringBegin: 4, stringEnd: 8, byteBegin: 12, byteEnd: 24})

	assert.Equal(t, text.ByteIndex(1), 4)
	assert.Equal(t, text.Cache(), PositionCache{stringBegin: 1, stringEnd: 8, byteBegin: 4, byteEnd: 24})

	assert.Equal(t, text.ByteIndex(5), 16)
	assert.Equal(t, text.Cache(), PositionCache{stringBegin: 1, stringEnd: 5, byteBegin: 4, byteEnd: 16})
}

func TestStartByte(t *testing.T) {
	units := u16("a🐱b")

	// mid pair start rounds down to the lead surrogate
	assert.Equal(t, NewText(UTF16, units).StartByte(2), 2)
	assert.Equal(t, NewText(UTF32, units).StartByte(2), 4)
	// UCS-2 can start between the halves
	assert.Equal(t, NewText(UCS2, units).StartByte(2), 4)

	assert.Equal(t, NewText(UTF16, units).StartByte(1), 2)
	assert.Equal(t, NewText(UTF16, units).StartByte(3), 6)
	assert.Equal(t, NewText(UTF16, units).StartByte(4), 8)

	// a lone trail surrogate is not part of a pair
	lone := []uint16{'a', 0xdc31}
	assert.Equal(t, NewText(UTF16, lone).StartByte(1), 2)
}
