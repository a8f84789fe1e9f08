// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import (
	"testing"
	"unicode/utf8"
)

func TestDecodeRune(t *testing.T) {
	cases := []struct {
		in   string
		r    rune
		size int
	}{
		{"A", 'A', 1},
		{"\x00", 0, 1},
		{"\x7f", 0x7f, 1},
		{"\x80", 0xdc80, 1},    // bare continuation
		{"\xbf\xbf", 0xdcbf, 1},
		{"\xc0\x80", 0xdcc0, 1}, // overlong NUL
		{"\xc1\xbf", 0xdcc1, 1}, // overlong DEL
		{"\xc2\x80", 0x80, 2},
		{"\xc3\xa9", 0xe9, 2},
		{"\xdf\xbf", 0x7ff, 2},
		{"\xc2", 0xdcc2, 1},     // truncated
		{"\xc2A", 0xdcc2, 1},    // not a continuation
		{"\xe0\x9f\xbf", 0xdce0, 1}, // overlong U+07FF
		{"\xe0\xa0\x80", 0x800, 3},
		{"\xe2\x90\x80", 0x2400, 3},
		{"\xef\xbf\xbf", 0xffff, 3},
		{"\xed\xb2\x80", 0xdc80, 3}, // encoded surrogate decodes as such
		{"\xe2\x90", 0xdce2, 1},
		{"\xe2\x90A", 0xdce2, 1},
		{"\xe2A\x80", 0xdce2, 1},
		{"\xf0\x8f\xbf\xbf", 0xdcf0, 1}, // overlong U+FFFF
		{"\xf0\x90\x80\x80", 0x10000, 4},
		{"\xf0\x9f\x98\x80", 0x1f600, 4},
		{"\xf4\x8f\xbf\xbf", 0x10ffff, 4},
		{"\xf4\x90\x80\x80", 0xdcf4, 1}, // U+110000
		{"\xf0\x9f\x98", 0xdcf0, 1},
		{"\xf5\x80\x80\x80", 0xdcf5, 1},
		{"\xff", 0xdcff, 1},
	}
	for _, c := range cases {
		r, size := DecodeRune([]byte(c.in))
		if r != c.r || size != c.size {
			t.Errorf("%q: expected (%U, %d) got (%U, %d)", c.in, c.r, c.size, r, size)
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	r, size := DecodeRune(nil)
	if size != 0 || r != ErrorMarker {
		t.Errorf("got (%U, %d)", r, size)
	}
}

func TestErrorMarkerRange(t *testing.T) {
	for b := 0x80; b < 0x100; b++ {
		r, size := DecodeRune([]byte{byte(b)})
		if size != 1 || !IsErrorMarker(r) || r&0xff != rune(b) {
			t.Errorf("%#02x alone: got (%U, %d)", b, r, size)
		}
	}
	if IsErrorMarker(0xdc7f) || IsErrorMarker(0xdd00) || IsErrorMarker('?') {
		t.Error("IsErrorMarker too generous")
	}
}

// Every valid encoding must decode as the standard library decodes it
func TestDecodeAgreesWithStdlib(t *testing.T) {
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if !utf8.ValidRune(r) {
			continue
		}
		p := utf8.AppendRune(nil, r)
		got, size := DecodeRune(p)
		if got != r || size != len(p) {
			t.Fatalf("%U: got (%U, %d)", r, got, size)
		}
	}
}

// Never consume more than what is there, never fail to make progress
func TestDecodeProgress(t *testing.T) {
	for a := range 256 {
		for b := range 256 {
			p := []byte{byte(a), byte(b)}
			r, size := DecodeRune(p)
			if size < 1 || size > len(p) {
				t.Fatalf("%x: size %d", p, size)
			}
			if IsErrorMarker(r) && size != 1 {
				t.Fatalf("%x: error consumed %d", p, size)
			}
		}
	}
}

func TestFullRune(t *testing.T) {
	cases := []struct {
		in   string
		full bool
	}{
		{"", false},
		{"a", true},
		{"\x80", true},
		{"\xc3", false},
		{"\xc3\xa9", true},
		{"\xe2", false},
		{"\xe2\x90", false},
		{"\xe2A", true},
		{"\xe0\x80", true},
		{"\xf0\x9f\x98", false},
		{"\xf4\x90", true},
		{"\xf0\x80", true},
		{"\xf5", true},
	}
	for _, c := range cases {
		if got := fullRune([]byte(c.in)); got != c.full {
			t.Errorf("fullRune(%q) = %v", c.in, got)
		}
	}
}
