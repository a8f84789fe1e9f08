// Copyright (c) Elliot Nunn

// This library is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 2.1 of the License, or (at your option) any later version.

// This library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.

// Package sit reads and writes the headers of classic (pre-5.0) StuffIt
// archives, whose file and folder names are Mac OS Roman.
// Forks can be extracted only when stored uncompressed.
package sit

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/elliotnunn/macroman/internal/appledouble"
	"github.com/elliotnunn/macroman/internal/namecache"
)

var (
	ErrFormat   = errors.New("not a StuffIt archive")
	ErrVersion  = errors.New("StuffIt 5 archives are not supported")
	ErrPassword = errors.New("password protected StuffIt archive")
	ErrAlgo     = errors.New("unimplemented StuffIt compression algorithm")
	ErrChecksum = errors.New("StuffIt checksum mismatch")
)

// Entry is one file or folder in an archive.
type Entry struct {
	Path  string // slash-separated, any '/' in a Mac name replaced with ':'
	Name  string // the Mac name, converted to UTF-8
	IsDir bool

	Type, Creator       [4]byte
	Flags               uint16
	CreateTime, ModTime time.Time

	RAlgo, DAlgo     AlgID
	RsrcLen, DataLen int64 // unpacked

	offset             int64 // of the header
	rPackLen, dPackLen int64
	rCRC, dCRC         uint16
}

// List reads every header in a classic StuffIt archive.
// Names are converted through names, which may be nil.
// On a damaged archive List returns the entries before the damage
// along with the error.
func List(disk io.ReaderAt, names *namecache.Cache) ([]Entry, error) {
	buf := make([]byte, archiveHeaderSize)
	n, err := disk.ReadAt(buf, 0)
	if n >= 16 && string(buf[:16]) == "StuffIt (c)1997-" {
		return nil, ErrVersion
	}
	if n < len(buf) {
		return nil, eof2formaterr(cvtEOF(err))
	}
	var ah archiveHeader
	binary.Read(bytes.NewReader(buf), binary.BigEndian, &ah)
	if ah.Magic[0] != 'S' || string(ah.Magic2[:]) != "rLau" {
		return nil, ErrFormat
	}

	var (
		list   []Entry
		stack  []string
		offset = int64(archiveHeaderSize)
	)
	for {
		hdrdata := make([]byte, headerSize)
		n, err := disk.ReadAt(hdrdata, offset)
		if n == len(hdrdata) {
			err = nil
		} else if n > 0 && err == io.EOF {
			err = fmt.Errorf("truncated header at %d: %w", offset, io.ErrUnexpectedEOF)
		}
		err = cvtEOF(err)
		if err == nil && !checkCRC16(hdrdata, headerCRCField) {
			err = ErrChecksum
		}

		if err == io.EOF {
			break
		} else if err != nil {
			slog.Warn("StuffIt read error", "err", err, "offset", offset)
			return list, fmt.Errorf("header at %d: %w", offset, err)
		}

		hdr := parseHeader(hdrdata)
		switch {
		case hdr.RAlgo.isDirEnd():
			if len(stack) == 0 {
				slog.Debug("StuffIt unbalanced folder end", "offset", offset)
			} else {
				stack = stack[:len(stack)-1]
			}
			offset += headerSize
			continue
		case hdr.RAlgo.isDirStart():
			e := newEntry(hdr, stack, offset, names)
			e.IsDir = true
			list = append(list, e)
			stack = append(stack, strings.ReplaceAll(e.Name, "/", ":"))
			offset += headerSize
		default:
			e := newEntry(hdr, stack, offset, names)
			list = append(list, e)
			offset += headerSize + e.rPackLen + e.dPackLen
		}

		if ah.ArcLen >= archiveHeaderSize && offset >= int64(ah.ArcLen) {
			break
		}
	}
	if len(stack) != 0 {
		slog.Debug("StuffIt folder never ended", "folder", path.Join(stack...))
	}
	return list, nil
}

func newEntry(hdr *header, stack []string, offset int64, names *namecache.Cache) Entry {
	name := hdr.name(names)
	return Entry{
		Path:       path.Join(append(stack[:len(stack):len(stack)], strings.ReplaceAll(name, "/", ":"))...),
		Name:       name,
		Type:       hdr.Type,
		Creator:    hdr.Creator,
		Flags:      hdr.FinderFlags,
		CreateTime: fromMacTime(hdr.CrTime),
		ModTime:    fromMacTime(hdr.ModTime),
		RAlgo:      hdr.RAlgo,
		DAlgo:      hdr.DAlgo,
		RsrcLen:    int64(hdr.RUnpackLen),
		DataLen:    int64(hdr.DUnpackLen),
		offset:     offset,
		rPackLen:   int64(hdr.RPackLen),
		dPackLen:   int64(hdr.DPackLen),
		rCRC:       hdr.RCRC,
		dCRC:       hdr.DCRC,
	}
}

// DataFork returns the data fork, which must be stored uncompressed.
func (e *Entry) DataFork(disk io.ReaderAt) (io.Reader, error) {
	return e.fork(disk, e.DAlgo, headerSize+e.rPackLen, e.dPackLen, e.DataLen, e.dCRC)
}

// ResourceFork returns the resource fork, which must be stored uncompressed.
func (e *Entry) ResourceFork(disk io.ReaderAt) (io.Reader, error) {
	return e.fork(disk, e.RAlgo, headerSize, e.rPackLen, e.RsrcLen, e.rCRC)
}

func (e *Entry) fork(disk io.ReaderAt, algo AlgID, start, packLen, unpackLen int64, crc uint16) (io.Reader, error) {
	switch {
	case e.IsDir:
		return nil, fs.ErrInvalid
	case algo.isEncrypted():
		return nil, ErrPassword
	case algo != AlgStored:
		return nil, fmt.Errorf("%w: %d", ErrAlgo, algo)
	case packLen != unpackLen:
		return nil, fmt.Errorf("%w: stored fork sizes disagree", ErrFormat)
	}
	return &crc16reader{
		r:    io.NewSectionReader(disk, e.offset+start, packLen),
		len:  packLen,
		want: crc,
	}, nil
}

// AppleDouble returns the Finder metadata for a sidecar file.
func (e *Entry) AppleDouble() *appledouble.AppleDouble {
	m := &appledouble.AppleDouble{
		Name:       e.Name,
		IsDir:      e.IsDir,
		CreateTime: e.CreateTime,
		ModTime:    e.ModTime,
		Flags:      e.Flags,
	}
	if !e.IsDir {
		m.Type, m.Creator = e.Type, e.Creator
	}
	return m
}

type crc16reader struct {
	r         io.Reader
	len       int64
	want, got uint16
}

func (r *crc16reader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	r.got = updateCRC16(r.got, p[:n])
	r.len -= int64(n)
	if r.len == 0 && err == io.EOF && r.got != r.want {
		err = ErrChecksum
	}
	return
}

// ReadAt returns ErrInvalid when offset > filesize
func cvtEOF(err error) error {
	if errors.Is(err, fs.ErrInvalid) {
		err = io.EOF
	}
	return err
}

func eof2formaterr(e error) error {
	if e == io.EOF || e == nil {
		return ErrFormat
	}
	return e
}
