// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package macroman

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Outside the control characters and the euro/currency slot,
// the table must agree with the one in x/text.
func TestAgreesWithCharmap(t *testing.T) {
	for i := 0x20; i < 0x100; i++ {
		if i == 0x7f || i == 0xdb {
			continue
		}
		want := charmap.Macintosh.DecodeByte(byte(i))
		if got := Rune(byte(i)); got != want {
			t.Errorf("%#02x: x/text says %U, we say %U", i, want, got)
		}
	}
	if Rune(0xdb) != 0xa4 {
		t.Errorf("0xdb should be the currency sign, got %U", Rune(0xdb))
	}
}

func TestEncodingMatchesBuffers(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	got, _, err := transform.Bytes(Encoding.NewDecoder(), all)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, UTF8(all)) {
		t.Error("decoder disagrees with UTF8")
	}

	messy := append(UTF8(all), "\xc0\x80\xed\xa0\x80€\U0001F600\xf4\x90\x80\x80\xe2\x90"...)
	got, _, err = transform.Bytes(Encoding.NewEncoder(), messy)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, Roman(messy)) {
		t.Errorf("encoder disagrees with Roman:\n%x\n%x", got, Roman(messy))
	}
}

func TestEncodingStreamsOneByteAtATime(t *testing.T) {
	const name = "Résumé ✓ ™ ﬁ\U0001F600 done"
	r := transform.NewReader(iotest.OneByteReader(strings.NewReader(name)), Encoding.NewEncoder())
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if want := Bytes(name); !bytes.Equal(got, want) {
		t.Errorf("expected %q got %q", want, got)
	}

	r = transform.NewReader(iotest.OneByteReader(bytes.NewReader(got)), Encoding.NewDecoder())
	back, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != "Résumé ? ™ ﬁ? done" {
		t.Errorf("got %q", back)
	}
}

func TestDecoderReader(t *testing.T) {
	const legacy = "Read Me\xc9"
	err := iotest.TestReader(Encoding.NewDecoder().Reader(strings.NewReader(legacy)), UTF8([]byte(legacy)))
	if err != nil {
		t.Error(err)
	}
}

func TestEncodingShortDst(t *testing.T) {
	dst := make([]byte, 2)
	nDst, nSrc, err := encoder{}.Transform(dst, []byte("abc"), true)
	if err != transform.ErrShortDst || nDst != 2 || nSrc != 2 {
		t.Errorf("got %d %d %v", nDst, nSrc, err)
	}

	nDst, nSrc, err = decoder{}.Transform(dst, []byte{'a', 0x00}, true)
	if err != transform.ErrShortDst || nDst != 1 || nSrc != 1 {
		t.Errorf("got %d %d %v", nDst, nSrc, err)
	}
}
