// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package appledouble reads and writes the "._name" sidecar files that carry
// classic Mac metadata alongside a plain data fork on a modern filesystem.
// Text entries (REAL_NAME, COMMENT) are stored in Mac OS Roman.
package appledouble

import (
	"encoding/binary"
	"errors"
	"path"
	"slices"
	"time"
)

var (
	macEpoch         = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	appleDoubleEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
)

var ErrFormat = errors.New("not an AppleDouble file")

const (
	DATA_FORK           = 1
	RESOURCE_FORK       = 2
	REAL_NAME           = 3
	COMMENT             = 4
	ICON_BW             = 5
	ICON_COLOR          = 6
	FILE_INFO_V1        = 7 // Old v1 file info combining FILE_DATES_INFO and MACINTOSH_FILE_INFO.
	FILE_DATES_INFO     = 8
	FINDER_INFO         = 9  // FinderInfo (16) + FinderXInfo (16)
	MACINTOSH_FILE_INFO = 10 // 32 bits, bits 31 = protected and 32 = locked
	PRODOS_FILE_INFO    = 11
	MSDOS_FILE_INFO     = 12
	SHORT_NAME          = 13 // AFP short name.
	AFP_FILE_INFO       = 14
	DIRECTORY_ID        = 15 // AFP directory ID.
)

const (
	magic       = "\x00\x05\x16\x07\x00\x02\x00\x00" // modern macOS expects the 07 byte
	entryOffset = 26
	entrySize   = 12
)

// MakePrefix lays out an AppleDouble header holding the given records in
// ascending ID order. If rforkSize is nonzero, a RESOURCE_FORK entry comes
// last and points at rForkOffset, which is at least rForkMinOffset.
// The caller supplies the fork bytes themselves.
func MakePrefix(records map[int][]byte, rforkSize, rForkMinOffset int64) (buf []byte, rForkOffset int64) {
	var keys []int
	for k := range records {
		if k != RESOURCE_FORK {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	if rforkSize > 0 {
		keys = append(keys, RESOURCE_FORK)
	}

	buf = make([]byte, entryOffset+entrySize*len(keys))
	copy(buf, magic)
	binary.BigEndian.PutUint16(buf[24:], uint16(len(keys)))

	for i, key := range keys {
		ent := buf[entryOffset+entrySize*i:]
		binary.BigEndian.PutUint32(ent, uint32(key))
		if key == RESOURCE_FORK {
			rForkOffset = max(int64(len(buf)), rForkMinOffset)
			binary.BigEndian.PutUint32(ent[4:], uint32(rForkOffset))
			binary.BigEndian.PutUint32(ent[8:], uint32(rforkSize))
		} else {
			binary.BigEndian.PutUint32(ent[4:], uint32(len(buf)))
			binary.BigEndian.PutUint32(ent[8:], uint32(len(records[key])))
			buf = append(buf, records[key]...)
		}
	}
	return
}

func MacTime(t uint32) time.Time { return macEpoch.Add(time.Second * time.Duration(t)) }

// Sidecar returns the name of the AppleDouble file that accompanies name.
func Sidecar(name string) string {
	a, b := path.Split(name)
	return a + "._" + b
}

// IsSidecar reports whether name looks like the output of Sidecar.
func IsSidecar(name string) bool {
	_, b := path.Split(name)
	return len(b) > 2 && b[:2] == "._"
}
