// Copyright (c) Elliot Nunn

// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

// This library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.

package sit

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/elliotnunn/macroman/internal/appledouble"
	"github.com/elliotnunn/macroman/internal/namecache"
	"github.com/elliotnunn/macroman/macroman"
)

const (
	archiveHeaderSize = 22
	headerSize        = 112
	headerCRCField    = 110
	maxNameLen        = 31 // HFS limit, although the field is bigger
)

type archiveHeader struct {
	Magic    [4]byte // "SIT!" and a few others
	NumFiles uint16  // top level only
	ArcLen   uint32
	Magic2   [4]byte // "rLau"
	Version  uint8
	_        [7]byte
}

type header struct {
	RAlgo, DAlgo AlgID
	NameLen      uint8
	NameField    [63]byte

	Type, Creator [4]byte
	FinderFlags   uint16

	CrTime, ModTime uint32

	RUnpackLen, DUnpackLen uint32
	RPackLen, DPackLen     uint32
	RCRC, DCRC             uint16

	_      [6]byte
	HdrCRC uint16
}

type AlgID uint8

const (
	AlgStored    AlgID = 0
	algEncrypted AlgID = 16
	algDirStart  AlgID = 32
	algDirEnd    AlgID = 33
)

func (id AlgID) isDirStart() bool { return id == algDirStart }
func (id AlgID) isDirEnd() bool   { return id == algDirEnd }
func (id AlgID) isEncrypted() bool {
	return id&algEncrypted != 0 && !id.isDirStart() && !id.isDirEnd()
}

// The name in Mac OS Roman, which allows '/' but not ':'
func (h *header) rawName() []byte {
	return h.NameField[:min(maxNameLen, h.NameLen)]
}

func (h *header) name(names *namecache.Cache) string {
	return names.String(h.rawName())
}

func parseHeader(buf []byte) *header {
	var h header
	binary.Read(bytes.NewReader(buf), binary.BigEndian, &h)
	return &h
}

// marshal fills in the name and header CRC
func (h *header) marshal(name string) []byte {
	roman := macroman.Bytes(strings.ReplaceAll(name, ":", "/"))
	h.NameLen = uint8(copy(h.NameField[:maxNameLen], roman))

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, h)
	b := buf.Bytes()
	binary.BigEndian.PutUint16(b[headerCRCField:], calcCRC16(b[:headerCRCField]))
	return b
}

func toMacTime(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	secs := t.Unix() + 2082844800 // 1904 epoch
	return uint32(max(0, min(secs, 0xffffffff)))
}

func fromMacTime(t uint32) time.Time {
	if t == 0 {
		return time.Time{}
	}
	return appledouble.MacTime(t)
}
