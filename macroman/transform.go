// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Encoding exposes the same conversion as a golang.org/x/text encoding,
// for use with transform.NewReader and friends. Its decoder produces
// UTF-8 and its encoder produces Mac OS Roman, substituting '?' exactly
// as FromUTF8 does rather than reporting a repertoire error.
var Encoding encoding.Encoding = macRoman{}

type macRoman struct{}

func (macRoman) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: decoder{}}
}

func (macRoman) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: encoder{}}
}

func (macRoman) String() string { return "Mac OS Roman" }

type decoder struct{ transform.NopResetter }

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := Rune(src[nSrc])
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

type encoder struct{ transform.NopResetter }

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		// Do not judge a sequence that the next buffer might complete
		if !atEOF && !fullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		r, size := DecodeRune(src[nSrc:])
		dst[nDst] = romanByte(r)
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}
