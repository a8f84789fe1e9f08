// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import "sync"

// noMapping marks a BMP code point that no Mac OS Roman byte produces.
const noMapping = -1

// The inverse of toUnicode over the Basic Multilingual Plane.
// Built on first use and shared by every goroutine thereafter.
var reverse = sync.OnceValue(func() *[0x10000]int16 {
	t := new([0x10000]int16)
	for i := range t {
		t[i] = noMapping
	}
	for b, r := range toUnicode {
		t[r] = int16(b)
	}
	return t
})

// Byte returns the Mac OS Roman byte for r,
// or false if r cannot be represented.
func Byte(r rune) (byte, bool) {
	if r < 0 || r > 0xffff {
		return 0, false
	}
	b := reverse()[r]
	if b == noMapping {
		return 0, false
	}
	return byte(b), true
}

// like Byte but never fails
func byteOrSubstitute(r rune) byte {
	b, ok := Byte(r)
	if !ok {
		return Substitute
	}
	return b
}
