// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import "unicode/utf8"

// ToUTF8 converts Mac OS Roman src to UTF-8 in dst and returns the number
// of bytes a complete conversion needs, counting one trailing zero byte.
//
// With an empty dst nothing is written and the return value is the
// buffer size to ask for. Otherwise dst is filled with as many whole
// characters as fit while still leaving room for the zero byte, which is
// then written. A multi-byte sequence is never split. If the return value
// exceeds len(dst) the output was cut short and the call should be
// repeated with a buffer of that size.
//
// Zero bytes in src are characters (U+2400), not terminators.
func ToUTF8(dst, src []byte) int {
	need, written := 0, 0
	fill := len(dst) > 0
	for _, b := range src {
		r := Rune(b)
		w := utf8.RuneLen(r)
		if written+w >= len(dst) {
			fill = false
		}
		if fill {
			utf8.EncodeRune(dst[written:], r)
			written += w
		}
		need += w
	}
	if len(dst) > 0 {
		dst[written] = 0
	}
	return need + 1
}

// FromUTF8 converts UTF-8 src to Mac OS Roman in dst, following the same
// sizing and filling rules as ToUTF8. Each character in src becomes exactly
// one byte. Characters with no Mac OS Roman equivalent, code points outside
// the Basic Multilingual Plane and invalid bytes all become Substitute.
//
// Because U+2400 converts to a zero byte, a filled dst may contain zero
// bytes before the terminator. Use the return value, not the first zero,
// to find the end.
func FromUTF8(dst, src []byte) int {
	need := 0
	for len(src) > 0 {
		r, size := DecodeRune(src)
		src = src[size:]
		if need+1 < len(dst) {
			dst[need] = romanByte(r)
		}
		need++
	}
	if len(dst) > 0 {
		dst[min(need, len(dst)-1)] = 0
	}
	return need + 1
}

// UTF8Len is the sizing pass of ToUTF8.
func UTF8Len(src []byte) int { return ToUTF8(nil, src) }

// RomanLen is the sizing pass of FromUTF8.
func RomanLen(src []byte) int { return FromUTF8(nil, src) }

// ASCII passes through unchanged, including the control characters,
// whose table entries are Control Pictures instead.
func romanByte(r rune) byte {
	if r < utf8.RuneSelf {
		return byte(r)
	}
	return byteOrSubstitute(r)
}
