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
	"errors"
	"io"
	"time"
)

var ErrUnbalanced = errors.New("StuffIt folder start and end do not match")

// FileHeader describes a file or folder to be written.
// Name is UTF-8 and is converted to Mac OS Roman, lossily if need be,
// and cut to 31 bytes.
type FileHeader struct {
	Name                string
	Type, Creator       [4]byte
	Flags               uint16
	CreateTime, ModTime time.Time
}

// A Writer builds an uncompressed classic StuffIt archive in memory
// and writes it out on Close, because the archive header needs the total length.
type Writer struct {
	w     io.Writer
	body  bytes.Buffer
	depth int
	top   int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (fh *FileHeader) header() header {
	return header{
		Type:        fh.Type,
		Creator:     fh.Creator,
		FinderFlags: fh.Flags,
		CrTime:      toMacTime(fh.CreateTime),
		ModTime:     toMacTime(fh.ModTime),
	}
}

func (w *Writer) entry() {
	if w.depth == 0 {
		w.top++
	}
}

// StartDir begins a folder. Entries up to the matching EndDir go inside it.
func (w *Writer) StartDir(fh FileHeader) {
	w.entry()
	h := fh.header()
	h.RAlgo, h.DAlgo = algDirStart, algDirStart
	w.body.Write(h.marshal(fh.Name))
	w.depth++
}

func (w *Writer) EndDir() error {
	if w.depth == 0 {
		return ErrUnbalanced
	}
	h := header{RAlgo: algDirEnd, DAlgo: algDirEnd}
	w.body.Write(h.marshal(""))
	w.depth--
	return nil
}

// File adds a file with both forks stored uncompressed.
func (w *Writer) File(fh FileHeader, data, rsrc []byte) {
	w.entry()
	h := fh.header()
	h.RUnpackLen, h.RPackLen, h.RCRC = uint32(len(rsrc)), uint32(len(rsrc)), calcCRC16(rsrc)
	h.DUnpackLen, h.DPackLen, h.DCRC = uint32(len(data)), uint32(len(data)), calcCRC16(data)
	w.body.Write(h.marshal(fh.Name))
	w.body.Write(rsrc)
	w.body.Write(data)
}

// Close writes the archive. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.depth != 0 {
		return ErrUnbalanced
	}
	ah := archiveHeader{
		Magic:    [4]byte{'S', 'I', 'T', '!'},
		NumFiles: uint16(w.top),
		ArcLen:   uint32(archiveHeaderSize + w.body.Len()),
		Magic2:   [4]byte{'r', 'L', 'a', 'u'},
		Version:  2,
	}
	if err := binary.Write(w.w, binary.BigEndian, &ah); err != nil {
		return err
	}
	_, err := w.body.WriteTo(w.w)
	return err
}
