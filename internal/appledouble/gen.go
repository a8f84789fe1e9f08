// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package appledouble

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/fs"
	"math"
	"time"

	"github.com/elliotnunn/macroman/macroman"
)

// Everything that we would want to put in an AppleDouble file, except for a resource fork, because that's big.
// Excludes some of the Finder info fields that become meaningless when moving to a different disk
type AppleDouble struct {
	// The name as the Mac knew it. Stored in Mac OS Roman,
	// so characters outside that set come back as '?'.
	Name  string
	IsDir bool

	// Basic filesystem metadata
	CreateTime, ModTime, BkTime, AccTime time.Time
	Locked                               bool

	// Stored in various ways across software versions, nonetheless important
	Comment string

	// File-and-directory FinderInfo
	Flags    uint16
	Location struct{ Y, X int16 }
	XFlags   uint16 // ignore the rarely used "filename display script" function

	// File-only FinderInfo
	Type    [4]byte
	Creator [4]byte

	// Directory-only FinderInfo
	Rect   struct{ T, L, B, R int16 }
	View   int16 // 0 is not a valid value, use 256 (icon view)
	Scroll struct{ Y, X int16 }
}

const (
	FlagIsOnDesk            = 0x0001 // Files and folders (System 6)
	MaskColor               = 0x000E // Files and folders
	FlagRequireSwitchLaunch = 0x0020 // Applications only
	FlagIsShared            = 0x0040 // Applications only
	FlagHasNoINITs          = 0x0080 // Extensions/Control Panels only
	FlagHasBeenInited       = 0x0100 // Files only (all BNDL/FREF/open/kind have been added)
	FlagAOCELetter          = 0x0200 // obsoleted
	FlagHasCustomIcon       = 0x0400 // Files and folders
	FlagIsStationery        = 0x0800 // Files only
	FlagNameLocked          = 0x1000 // Files and folders
	FlagHasBundle           = 0x2000 // Files only
	FlagIsInvisible         = 0x4000 // Files and folders
	FlagIsAlias             = 0x8000 // Files only
)

// Dates before 1901 or after 2038 cannot be stored
const unknownDate = 0x80000000

// FINDER_INFO is FInfo+FXInfo for a file, DInfo+DXInfo for a folder.
// The two differ only in the first 8 bytes and a few reserved fields.
type finderInfo struct {
	Head     [8]byte // type and creator, or the folder window rect
	Flags    uint16
	Location struct{ Y, X int16 }
	View     int16
	Scroll   struct{ Y, X int16 }
	_        [4]byte
	XFlags   uint16
	_        [6]byte
}

func (m *AppleDouble) finderInfoRec() []byte {
	fi := finderInfo{Flags: m.Flags, Location: m.Location, XFlags: m.XFlags}
	if m.IsDir {
		for i, v := range [4]int16{m.Rect.T, m.Rect.L, m.Rect.B, m.Rect.R} {
			binary.BigEndian.PutUint16(fi.Head[2*i:], uint16(v))
		}
		fi.View, fi.Scroll = m.View, m.Scroll
	} else {
		copy(fi.Head[:], m.Type[:])
		copy(fi.Head[4:], m.Creator[:])
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, &fi)
	return buf.Bytes()
}

func (m *AppleDouble) loadFinderInfo(d []byte) {
	var fi finderInfo
	if binary.Read(bytes.NewReader(d), binary.BigEndian, &fi) != nil {
		return
	}
	if m.IsDir {
		for i, v := range []*int16{&m.Rect.T, &m.Rect.L, &m.Rect.B, &m.Rect.R} {
			*v = int16(binary.BigEndian.Uint16(fi.Head[2*i:]))
		}
		m.View, m.Scroll = fi.View, fi.Scroll
	} else {
		copy(m.Type[:], fi.Head[:])
		copy(m.Creator[:], fi.Head[4:])
	}
	m.Flags, m.Location, m.XFlags = fi.Flags, fi.Location, fi.XFlags
	if m.XFlags&0x8000 != 0 {
		m.XFlags = 0 // script code, meaningless off the original disk
	}
}

func (m *AppleDouble) datesRec() [16]byte {
	var d [16]byte
	for i, t := range []time.Time{m.CreateTime, m.ModTime, m.BkTime, m.AccTime} {
		stamp := uint32(unknownDate)
		if !t.IsZero() {
			secs := int64(t.Sub(appleDoubleEpoch) / time.Second)
			if secs > math.MinInt32 && secs <= math.MaxInt32 {
				stamp = uint32(int32(secs))
			}
		}
		binary.BigEndian.PutUint32(d[4*i:], stamp)
	}
	return d
}

func (m *AppleDouble) loadDates(d []byte) {
	if len(d) < 16 {
		return
	}
	for i, t := range []*time.Time{&m.CreateTime, &m.ModTime, &m.BkTime, &m.AccTime} {
		stamp := binary.BigEndian.Uint32(d[4*i:])
		if stamp == unknownDate {
			*t = time.Time{}
		} else {
			*t = appleDoubleEpoch.Add(time.Second * time.Duration(int32(stamp)))
		}
	}
}

func (m *AppleDouble) flagsRec() [4]byte {
	if m.Locked {
		return [4]byte{0x80, 0, 0, 0}
	} else {
		return [4]byte{0x0, 0, 0, 0}
	}
}

func (m *AppleDouble) records() map[int][]byte {
	finder, dates, flags := m.finderInfoRec(), m.datesRec(), m.flagsRec()
	recs := map[int][]byte{
		FINDER_INFO:         finder,
		FILE_DATES_INFO:     dates[:],
		MACINTOSH_FILE_INFO: flags[:],
	}
	if m.Name != "" {
		recs[REAL_NAME] = macroman.Bytes(m.Name)
	}
	if m.Comment != "" {
		recs[COMMENT] = macroman.Bytes(m.Comment)
	}
	return recs
}

// Header returns a complete sidecar for a file or directory with no resource fork.
func (m *AppleDouble) Header() []byte {
	ad, _ := MakePrefix(m.records(), 0, 0)
	return ad
}

// WithResourceFork returns the sidecar as a ReaderAt: the header followed by the fork.
func (m *AppleDouble) WithResourceFork(r io.ReaderAt, size int64) (io.ReaderAt, int64) {
	ad, rfStart := MakePrefix(m.records(), size, 0)
	if size == 0 {
		return bytes.NewReader(ad), int64(len(ad))
	}
	return &readerAt{ad: ad, fork: r}, rfStart + size
}

type readerAt struct {
	ad   []byte
	fork io.ReaderAt
}

func (r *readerAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, fs.ErrInvalid
	}
	if off < int64(len(r.ad)) {
		n = copy(p, r.ad[int(off):])
	}
	if n == len(p) {
		return n, nil
	}
	fn, err := r.fork.ReadAt(p[n:], max(0, off-int64(len(r.ad))))
	return n + fn, err
}
