// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

// Invalid UTF-8 decodes to a marker in the low-surrogate range
// ErrorMarker|b, where b is the offending byte (always >= 0x80).
// Surrogates never come out of valid UTF-8, so a marker cannot be
// confused with a real character, and none of them has a Mac OS Roman
// equivalent.
const (
	ErrorMarker    = 0xdc00
	errorMarkerMin = 0xdc80
	errorMarkerMax = 0xdcff
)

// IsErrorMarker reports whether r was produced by DecodeRune
// in place of an invalid byte.
func IsErrorMarker(r rune) bool {
	return r >= errorMarkerMin && r <= errorMarkerMax
}

// DecodeRune decodes the first UTF-8 sequence in p and returns the code
// point and its length in bytes. It rejects overlong forms, code points
// above U+10FFFF and stray continuation bytes. On any error it consumes
// exactly one byte and returns ErrorMarker|p[0], so a loop over the
// input always makes progress. It never reads beyond len(p): a sequence
// cut short by the end of the slice is an error.
//
// An empty p returns (ErrorMarker, 0).
func DecodeRune(p []byte) (r rune, size int) {
	if len(p) == 0 {
		return ErrorMarker, 0
	}
	b0 := p[0]
	switch {
	case b0 < 0x80:
		return rune(b0), 1
	case b0 < 0xc2: // continuation, or overlong 2-byte sequence
		return fail(b0)
	case b0 < 0xe0:
		if len(p) < 2 || !continuation(p[1]) {
			return fail(b0)
		}
		return rune(b0&0x1f)<<6 | rune(p[1]&0x3f), 2
	case b0 < 0xf0:
		if len(p) < 3 || !continuation(p[1]) || !continuation(p[2]) {
			return fail(b0)
		}
		if b0 == 0xe0 && p[1] < 0xa0 { // overlong
			return fail(b0)
		}
		return rune(b0&0x0f)<<12 | rune(p[1]&0x3f)<<6 | rune(p[2]&0x3f), 3
	case b0 < 0xf5:
		if len(p) < 4 || !continuation(p[1]) || !continuation(p[2]) || !continuation(p[3]) {
			return fail(b0)
		}
		if b0 == 0xf0 && p[1] < 0x90 { // overlong
			return fail(b0)
		}
		if b0 == 0xf4 && p[1] >= 0x90 { // above U+10FFFF
			return fail(b0)
		}
		return rune(b0&0x07)<<18 | rune(p[1]&0x3f)<<12 | rune(p[2]&0x3f)<<6 | rune(p[3]&0x3f), 4
	default: // above U+10FFFF
		return fail(b0)
	}
}

func continuation(b byte) bool { return b&0xc0 == 0x80 }

func fail(b byte) (rune, int) { return ErrorMarker | rune(b), 1 }

// fullRune reports whether p begins with enough bytes for DecodeRune
// to reach a verdict that more input could not change.
func fullRune(p []byte) bool {
	if len(p) == 0 {
		return false
	}
	need := 1
	switch b0 := p[0]; {
	case b0 >= 0xc2 && b0 < 0xe0:
		need = 2
	case b0 >= 0xe0 && b0 < 0xf0:
		need = 3
	case b0 >= 0xf0 && b0 < 0xf5:
		need = 4
	}
	if len(p) >= need {
		return true
	}
	// a bad byte already present settles it
	for _, b := range p[1:] {
		if !continuation(b) {
			return true
		}
	}
	if len(p) >= 2 {
		switch {
		case p[0] == 0xe0 && p[1] < 0xa0,
			p[0] == 0xf0 && p[1] < 0x90,
			p[0] == 0xf4 && p[1] >= 0x90:
			return true
		}
	}
	return false
}
