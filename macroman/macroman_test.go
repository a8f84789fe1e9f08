// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import (
	"bytes"
	"sync"
	"testing"
	"unicode/utf8"
)

// a bit of everything: ASCII, controls, 2-byte and 3-byte output
var mixed = []byte("Read\x8eMe \x00\x7f\xaa\xf0\xde!")

func TestTableTotal(t *testing.T) {
	seen := make(map[rune]byte)
	for i := range 256 {
		r := Rune(byte(i))
		if r < 0 || r > utf8.MaxRune || !utf8.ValidRune(r) {
			t.Errorf("%#02x maps to invalid %U", i, r)
		}
		if r > 0xffff {
			t.Errorf("%#02x maps outside the BMP: %U", i, r)
		}
		if prev, ok := seen[r]; ok {
			t.Errorf("%#02x and %#02x both map to %U", prev, i, r)
		}
		seen[r] = byte(i)
	}
}

func TestTableASCII(t *testing.T) {
	for i := 0x20; i < 0x7f; i++ {
		if Rune(byte(i)) != rune(i) {
			t.Errorf("%#02x should be identity, got %U", i, Rune(byte(i)))
		}
	}
	for i := range 0x20 {
		if want := rune(0x2400 + i); Rune(byte(i)) != want {
			t.Errorf("%#02x: expected %U got %U", i, want, Rune(byte(i)))
		}
	}
	if Rune(0x7f) != 0x2421 {
		t.Errorf("DEL: got %U", Rune(0x7f))
	}
}

func TestReverseInvertsTable(t *testing.T) {
	for i := range 256 {
		b, ok := Byte(Rune(byte(i)))
		if !ok || b != byte(i) {
			t.Errorf("Byte(Rune(%#02x)) = %#02x, %v", i, b, ok)
		}
	}
	for _, r := range []rune{0x20ac, 0x10000, -1, 0xdc80, 0xffff} {
		if b, ok := Byte(r); ok {
			t.Errorf("%U should have no mapping, got %#02x", r, b)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for i := range 256 {
		legacy := []byte{byte(i)}
		back := Roman(UTF8(legacy))
		if !bytes.Equal(back, legacy) {
			t.Errorf("%#02x came back as %x", i, back)
		}
	}
}

func TestAcuteE(t *testing.T) {
	buf := make([]byte, 8)
	n := ToUTF8(buf, []byte{0x8e})
	if n != 3 || !bytes.Equal(buf[:n], []byte{0xc3, 0xa9, 0}) {
		t.Errorf("é: need=%d buf=%x", n, buf[:n])
	}
	if got := Roman([]byte{0xc3, 0xa9}); !bytes.Equal(got, []byte{0x8e}) {
		t.Errorf("é back: %x", got)
	}

	// Latin-1 é is not Mac OS Roman é
	if got := UTF8([]byte{0xe9}); string(got) != "È" {
		t.Errorf("0xe9: expected È got %q", got)
	}
}

func TestNullIsAControlPicture(t *testing.T) {
	n := UTF8Len([]byte{0})
	if n != 4 {
		t.Errorf("expected 4 got %d", n)
	}
	got := UTF8([]byte{0})
	if !bytes.Equal(got, []byte{0xe2, 0x90, 0x80}) {
		t.Errorf("got %x", got)
	}
	if back := Roman(got); !bytes.Equal(back, []byte{0}) {
		t.Errorf("came back as %x", back)
	}
}

func TestNonBMP(t *testing.T) {
	smiley := []byte("\U0001F600")
	if len(smiley) != 4 {
		t.Fatal("test is broken")
	}
	if got := Roman(smiley); !bytes.Equal(got, []byte("?")) {
		t.Errorf("got %q", got)
	}
	if n := RomanLen(smiley); n != 2 {
		t.Errorf("need %d", n)
	}
}

func TestUnmappable(t *testing.T) {
	cases := []struct{ in, out string }{
		{"", ""},
		{"plain", "plain"},
		{"€uro", "?uro"},
		{"日本", "??"},
		{"a\xffb", "a?b"},
		{"\xc0\x80", "??"},
		{"\xe2\x90", "??"}, // truncated U+2400
		{"tab\there", "tab\there"},
		{"␉", "\t"},
	}
	for _, c := range cases {
		if got := string(Bytes(c.in)); got != c.out {
			t.Errorf("Bytes(%q) = %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestSizeThenFill(t *testing.T) {
	inputs := [][]byte{nil, {}, mixed, []byte("ascii only"), bytes.Repeat([]byte{0xff}, 100)}
	for _, in := range inputs {
		need := ToUTF8(nil, in)
		buf := bytes.Repeat([]byte{0x55}, need)
		if got := ToUTF8(buf, in); got != need {
			t.Errorf("%x: sizing said %d, filling said %d", in, need, got)
		}
		if buf[need-1] != 0 || bytes.IndexByte(buf[:need-1], 0) >= 0 {
			t.Errorf("%x: terminator misplaced in %x", in, buf)
		}
		if !utf8.Valid(buf[:need-1]) {
			t.Errorf("%x: invalid output %x", in, buf)
		}

		wire := buf[:need-1]
		need = FromUTF8(nil, wire)
		if need != len(in)+1 {
			t.Errorf("%x: expected one byte per character, need=%d", in, need)
		}
		buf = bytes.Repeat([]byte{0x55}, need)
		if got := FromUTF8(buf, wire); got != need {
			t.Errorf("%x: sizing said %d, filling said %d", in, need, got)
		}
		if !bytes.Equal(buf[:need-1], in) || buf[need-1] != 0 {
			t.Errorf("%x: round trip gave %x", in, buf)
		}
	}
}

func TestZeroCapacityWritesNothing(t *testing.T) {
	buf := []byte{0x55}
	if n := ToUTF8(buf[:0], mixed); n != UTF8Len(mixed) {
		t.Error("zero capacity should be a sizing pass")
	}
	if n := FromUTF8(buf[:0], []byte("abc")); n != 4 {
		t.Error("zero capacity should be a sizing pass")
	}
	if buf[0] != 0x55 {
		t.Error("zero capacity buffer was written")
	}
}

func TestToUTF8Truncation(t *testing.T) {
	full := UTF8(mixed)
	need := UTF8Len(mixed)
	for capacity := 1; capacity < need; capacity++ {
		buf := bytes.Repeat([]byte{0x55}, capacity)
		if got := ToUTF8(buf, mixed); got != need {
			t.Errorf("cap %d: need %d, expected %d", capacity, got, need)
		}
		written := bytes.IndexByte(buf, 0)
		if written < 0 {
			t.Errorf("cap %d: not terminated: %x", capacity, buf)
			continue
		}
		prefix := buf[:written]
		if !utf8.Valid(prefix) || !bytes.HasPrefix(full, prefix) {
			t.Errorf("cap %d: bad prefix %x", capacity, prefix)
		}
		// stopped because the next character really did not fit
		_, w := utf8.DecodeRune(full[written:])
		if written+w+1 <= capacity {
			t.Errorf("cap %d: stopped early at %d", capacity, written)
		}
		if bytes.ContainsRune(prefix, utf8.RuneError) {
			t.Errorf("cap %d: split sequence", capacity)
		}
	}
}

func TestFromUTF8Truncation(t *testing.T) {
	wire := UTF8(mixed)
	need := RomanLen(wire)
	for capacity := 1; capacity < need; capacity++ {
		buf := bytes.Repeat([]byte{0x55}, capacity)
		if got := FromUTF8(buf, wire); got != need {
			t.Errorf("cap %d: need %d, expected %d", capacity, got, need)
		}
		if !bytes.Equal(buf[:capacity-1], mixed[:capacity-1]) || buf[capacity-1] != 0 {
			t.Errorf("cap %d: got %x", capacity, buf)
		}
	}
}

func TestAbsentInput(t *testing.T) {
	if UTF8(nil) != nil {
		t.Error("UTF8(nil) should be nil")
	}
	if Roman(nil) != nil {
		t.Error("Roman(nil) should be nil")
	}
	if got := UTF8([]byte{}); got == nil || len(got) != 0 {
		t.Error("UTF8 of empty should be empty")
	}
}

func TestExactAllocation(t *testing.T) {
	got := UTF8(mixed)
	if cap(got) != len(got) || len(got) != UTF8Len(mixed)-1 {
		t.Errorf("len %d cap %d", len(got), cap(got))
	}
}

func TestAppend(t *testing.T) {
	got := AppendUTF8([]byte("x:"), mixed)
	if string(got) != "x:"+string(UTF8(mixed)) {
		t.Errorf("AppendUTF8 = %q", got)
	}
	got = AppendRoman([]byte("x:"), UTF8(mixed))
	if string(got) != "x:"+string(mixed) {
		t.Errorf("AppendRoman = %q", got)
	}
}

func TestString(t *testing.T) {
	if got := String([]byte("Macintosh HD")); got != "Macintosh HD" {
		t.Error(got)
	}
	if got := String([]byte("Apple \xf0 Menu \xc9")); got != "Apple \uf8ff Menu …" {
		t.Error(got)
	}
	if got := String(nil); got != "" {
		t.Error(got)
	}
}

func TestConcurrentFirstUse(t *testing.T) {
	var wg sync.WaitGroup
	wire := UTF8(mixed)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Roman(wire); !bytes.Equal(got, mixed) {
				t.Errorf("got %x", got)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkToUTF8(b *testing.B) {
	buf := make([]byte, UTF8Len(mixed))
	for b.Loop() {
		ToUTF8(buf, mixed)
	}
}

func BenchmarkFromUTF8(b *testing.B) {
	wire := UTF8(mixed)
	buf := make([]byte, RomanLen(wire))
	for b.Loop() {
		FromUTF8(buf, wire)
	}
}
