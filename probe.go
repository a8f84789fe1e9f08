package main

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/therootcompany/xz"
)

// openArchive returns the named file as an io.ReaderAt.
// A gzip, bzip2 or xz wrapper is decompressed into memory, up to memLimit bytes.
func openArchive(name string) (io.ReaderAt, func() error, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}

	var header []byte
	var accessError error
	matchAt := func(s string, offset int) bool {
		if len(header) < offset+len(s) && len(header) == cap(header) {
			target := (offset + len(s) + 63) &^ 63
			header = slices.Grow(header, target-len(header))
			n, err := f.ReadAt(header[len(header):cap(header)], int64(len(header)))
			if err != nil && err != io.EOF && accessError == nil {
				accessError = err
			}
			header = header[:len(header)+n]
		}
		return len(header) >= offset+len(s) && string(header[offset:][:len(s)]) == s
	}

	var r io.Reader
	switch {
	case matchAt("\x1f\x8b", 0): // gzip
		r, err = gzip.NewReader(f)
	case matchAt("BZh", 0): // bzip2
		r = bzip2.NewReader(f)
	case matchAt("\xfd7zXZ\x00", 0): // xz
		r, err = xz.NewReader(f, xz.DefaultDictMax)
	default:
		if accessError != nil {
			f.Close()
			return nil, nil, accessError
		}
		return f, f.Close, nil
	}
	defer f.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	buf, err := io.ReadAll(io.LimitReader(r, int64(memLimit)+1))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	} else if len(buf) > memLimit {
		return nil, nil, fmt.Errorf("%s: decompresses to more than %d bytes, raise MACROMAN_GB", name, memLimit)
	}
	return bytes.NewReader(buf), func() error { return nil }, nil
}
