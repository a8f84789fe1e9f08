// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import "unicode/utf8"

// UTF8 returns src converted to UTF-8 in a newly allocated slice of exactly
// the right length. A nil src returns nil; an empty one returns an empty
// non-nil slice.
func UTF8(src []byte) []byte {
	if src == nil {
		return nil
	}
	buf := make([]byte, UTF8Len(src))
	n := ToUTF8(buf, src)
	return buf[:n-1 : n-1]
}

// Roman returns src converted to Mac OS Roman in a newly allocated slice of
// exactly the right length. A nil src returns nil.
func Roman(src []byte) []byte {
	if src == nil {
		return nil
	}
	buf := make([]byte, RomanLen(src))
	n := FromUTF8(buf, src)
	return buf[:n-1 : n-1]
}

// AppendUTF8 appends the UTF-8 form of src to dst.
func AppendUTF8(dst, src []byte) []byte {
	for _, b := range src {
		dst = utf8.AppendRune(dst, Rune(b))
	}
	return dst
}

// AppendRoman appends the Mac OS Roman form of UTF-8 src to dst.
func AppendRoman(dst, src []byte) []byte {
	for len(src) > 0 {
		r, size := DecodeRune(src)
		src = src[size:]
		dst = append(dst, romanByte(r))
	}
	return dst
}

// String converts a Mac OS Roman name, such as an HFS catalog key,
// to a Go string.
func String(src []byte) string {
	if len(src) == 0 {
		return ""
	}
	return string(UTF8(src))
}

// Bytes converts s to Mac OS Roman, substituting where necessary.
func Bytes(s string) []byte {
	return Roman([]byte(s))
}
