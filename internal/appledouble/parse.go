// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package appledouble

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elliotnunn/macroman/macroman"
)

type entry struct {
	id, offset, size uint32
}

// Fork locates the resource fork within an AppleDouble file.
type Fork struct {
	Offset, Size int64
}

func parseEntries(header []byte) ([]entry, error) {
	if len(header) < entryOffset {
		return nil, fmt.Errorf("%w: truncated (%d bytes)", ErrFormat, len(header))
	}
	// AppleSingle has 00 where AppleDouble has 07, otherwise identical
	if string(header[:3]) != magic[:3] || string(header[4:8]) != magic[4:8] {
		return nil, fmt.Errorf("%w: magic number %s", ErrFormat, hex.EncodeToString(header[:8]))
	}
	count := int(binary.BigEndian.Uint16(header[24:]))
	if len(header) < entryOffset+entrySize*count {
		return nil, fmt.Errorf("%w: truncated entry table", ErrFormat)
	}
	list := make([]entry, count)
	for i := range list {
		ent := header[entryOffset+entrySize*i:]
		list[i] = entry{
			id:     binary.BigEndian.Uint32(ent),
			offset: binary.BigEndian.Uint32(ent[4:]),
			size:   binary.BigEndian.Uint32(ent[8:]),
		}
	}
	return list, nil
}

// slice of the header, or nil if the entry lies outside it (like a big fork)
func (e entry) data(header []byte) []byte {
	end := uint64(e.offset) + uint64(e.size)
	if end > uint64(len(header)) {
		return nil
	}
	return header[e.offset:end]
}

// Parse decodes the metadata in an AppleDouble header,
// which must include every entry except the resource fork.
// The header does not say whether it belongs to a directory, so the caller must.
func Parse(header []byte, isDir bool) (*AppleDouble, Fork, error) {
	list, err := parseEntries(header)
	if err != nil {
		return nil, Fork{}, err
	}
	m := &AppleDouble{IsDir: isDir}
	var rf Fork
	for _, e := range list {
		if e.id == RESOURCE_FORK {
			rf = Fork{int64(e.offset), int64(e.size)}
			continue
		}
		data := e.data(header)
		if data == nil {
			return nil, Fork{}, fmt.Errorf("%w: entry %d extends past header", ErrFormat, e.id)
		}
		switch e.id {
		case REAL_NAME:
			m.Name = macroman.String(data)
		case COMMENT:
			m.Comment = macroman.String(data)
		case FINDER_INFO:
			m.loadFinderInfo(data)
		case FILE_DATES_INFO:
			m.loadDates(data)
		case MACINTOSH_FILE_INFO:
			m.Locked = len(data) > 0 && data[0]&0x80 != 0
		}
	}
	return m, rf, nil
}

// RealName returns the REAL_NAME entry converted to UTF-8.
func RealName(header []byte) (string, bool, error) {
	list, err := parseEntries(header)
	if err != nil {
		return "", false, err
	}
	for _, e := range list {
		if e.id == REAL_NAME {
			data := e.data(header)
			if data == nil {
				return "", false, fmt.Errorf("%w: REAL_NAME extends past header", ErrFormat)
			}
			return macroman.String(data), true, nil
		}
	}
	return "", false, nil
}

var admap = map[uint32]string{
	1:  "DATA_FORK",
	2:  "RESOURCE_FORK",
	3:  "REAL_NAME",
	4:  "COMMENT",
	5:  "ICON_BW",
	6:  "ICON_COLOR",
	7:  "FILE_INFO_V1",
	8:  "FILE_DATES_INFO",
	9:  "FINDER_INFO",
	10: "MACINTOSH_FILE_INFO",
	11: "PRODOS_FILE_INFO",
	12: "MSDOS_FILE_INFO",
	13: "SHORT_NAME",
	14: "AFP_FILE_INFO",
	15: "DIRECTORY_ID",
}

// Dump describes every entry of an AppleDouble header, one per line.
func Dump(r io.Reader) (string, error) {
	buf := make([]byte, 4096)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	buf = buf[:n]

	list, err := parseEntries(buf)
	if err != nil {
		return "", err
	}

	var bild strings.Builder
	for _, e := range list {
		name := admap[e.id]
		if name == "" {
			name = fmt.Sprintf("UNKNOWN_%X", e.id)
		}

		val := fmt.Sprintf("%#x:%#x", e.offset, uint64(e.offset)+uint64(e.size))
		if data := e.data(buf); data != nil { // not a big fork
			switch e.id {
			case REAL_NAME, COMMENT:
				val = fmt.Sprintf("%q", macroman.String(data))
			case FILE_DATES_INFO:
				val = formatDates(data)
			case FINDER_INFO: // differs between files and directories
				val = formatFinderInfo(data)
			case MACINTOSH_FILE_INFO:
				val = formatOtherInfo(data)
			}
		}
		if bild.Len() > 0 {
			bild.WriteByte('\n')
		}
		fmt.Fprintf(&bild, "%s=%s", name, val)
	}
	return bild.String(), nil
}

func formatDate(data []byte) string {
	t := binary.BigEndian.Uint32(data)
	if t == unknownDate {
		return "unknown"
	}
	return appleDoubleEpoch.Add(time.Second * time.Duration(int32(t))).Format("2006-01-02 15:04:05")
}

func formatDates(data []byte) string {
	if len(data) < 16 {
		return "malformed " + hex.EncodeToString(data)
	}
	return fmt.Sprintf("(C=%s,M=%s,B=%s,A=%s)",
		formatDate(data[:]),
		formatDate(data[4:]),
		formatDate(data[8:]),
		formatDate(data[12:]))
}

var flagNames = []struct {
	bit  uint16
	name string
}{
	{FlagIsOnDesk, "isOnDesk"},
	{0x0010, "unknown0x10"},
	{FlagRequireSwitchLaunch, "requireSwitchLaunch"},
	{FlagIsShared, "isShared"},
	{FlagHasNoINITs, "hasNoINITs"},
	{FlagHasBeenInited, "hasBeenInited"},
	{FlagAOCELetter, "aoceLetter"},
	{FlagHasCustomIcon, "hasCustomIcon"},
	{FlagIsStationery, "isStationery"},
	{FlagNameLocked, "nameLocked"},
	{FlagHasBundle, "hasBundle"},
	{FlagIsInvisible, "isInvisible"},
	{FlagIsAlias, "isAlias"},
}

func formatFinderInfo(data []byte) string {
	if len(data) < 32 {
		return "malformed " + hex.EncodeToString(data)
	}
	isDir := string(data[:4]) != "\x00\x00\x00\x00" && (data[0] < 32 || data[2] < 32)

	var bild strings.Builder
	if isDir {
		fmt.Fprintf(&bild, "(%d,%d,%d,%d) ",
			int16(binary.BigEndian.Uint16(data[0:2])),
			int16(binary.BigEndian.Uint16(data[2:4])),
			int16(binary.BigEndian.Uint16(data[4:6])),
			int16(binary.BigEndian.Uint16(data[6:8])))
	} else {
		// type and creator codes are Mac OS Roman too
		fmt.Fprintf(&bild, "(%q,%q) ", macroman.String(data[:4]), macroman.String(data[4:8]))
	}

	ff := binary.BigEndian.Uint16(data[8:])
	var flags []string
	if ff&MaskColor != 0 {
		flags = append(flags, fmt.Sprintf("color%d", ff>>1&7))
	}
	for _, f := range flagNames {
		if ff&f.bit != 0 {
			flags = append(flags, f.name)
		}
	}
	fmt.Fprintf(&bild, "(%s) ", strings.Join(flags, ","))

	fmt.Fprintf(&bild, "(%d,%d)", // location in the window
		int16(binary.BigEndian.Uint16(data[10:12])),
		int16(binary.BigEndian.Uint16(data[12:14])))

	if string(data[16:32]) != string(make([]byte, 16)) {
		fmt.Fprintf(&bild, " (ext=%s)", hex.EncodeToString(data[16:32]))
	}
	return bild.String()
}

func formatOtherInfo(data []byte) string {
	if len(data) != 4 || data[0]&0x3f != 0 || (data[1]|data[2]|data[3]) != 0 {
		return "malformed " + hex.EncodeToString(data)
	}
	var v []string
	if data[0]&0x80 != 0 {
		v = append(v, "locked")
	}
	if data[0]&0x40 != 0 {
		v = append(v, "protected")
	}
	return "(" + strings.Join(v, ",") + ")"
}
