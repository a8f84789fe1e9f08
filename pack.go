package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elliotnunn/macroman/internal/appledouble"
	"github.com/elliotnunn/macroman/internal/sit"
)

// pack archives host files and folders, skipping sidecars
// but taking the Mac name, Finder info and resource fork from them.
func (c *cli) pack(out string, paths []string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	w := sit.NewWriter(f)
	for _, p := range paths {
		if err := packPath(w, p); err != nil {
			f.Close()
			return err
		}
	}
	err = w.Close()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func packPath(w *sit.Writer, name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	fh, rsrc := readSidecar(name, info)

	if !info.IsDir() {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		w.File(fh, data, rsrc)
		return nil
	}

	w.StartDir(fh)
	ents, err := os.ReadDir(name)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		if appledouble.IsSidecar(ent.Name()) {
			continue
		}
		if err := packPath(w, filepath.Join(name, ent.Name())); err != nil {
			return err
		}
	}
	return w.EndDir()
}

// readSidecar falls back on the host's name and time if there is no usable sidecar.
func readSidecar(name string, info fs.FileInfo) (sit.FileHeader, []byte) {
	fh := sit.FileHeader{
		Name:    info.Name(),
		ModTime: info.ModTime(),
	}
	side := filepath.FromSlash(appledouble.Sidecar(filepath.ToSlash(name)))
	ad, err := os.ReadFile(side)
	if errors.Is(err, fs.ErrNotExist) {
		return fh, nil
	} else if err != nil {
		slog.Warn("sidecar unreadable", "path", side, "err", err)
		return fh, nil
	}

	m, fork, err := appledouble.Parse(ad, info.IsDir())
	if err != nil {
		slog.Warn("sidecar ignored", "path", side, "err", err)
		return fh, nil
	}
	if m.Name != "" {
		fh.Name = m.Name
	}
	fh.Type, fh.Creator, fh.Flags = m.Type, m.Creator, m.Flags
	fh.CreateTime = m.CreateTime
	if !m.ModTime.IsZero() {
		fh.ModTime = m.ModTime
	}

	var rsrc []byte
	if fork.Size > 0 {
		if fork.Offset+fork.Size > int64(len(ad)) {
			slog.Warn("sidecar resource fork truncated", "path", side, "want", fork.Offset+fork.Size, "have", len(ad))
		} else {
			rsrc = ad[fork.Offset:][:fork.Size]
		}
	}
	return fh, rsrc
}
