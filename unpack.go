package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elliotnunn/macroman/internal/appledouble"
	"github.com/elliotnunn/macroman/internal/sit"
)

// unpack extracts every stored file in an archive into dir.
// Files with compressed or encrypted forks are skipped with a warning.
func (c *cli) unpack(archive, dir string) error {
	disk, closer, err := openArchive(archive)
	if err != nil {
		return err
	}
	defer closer()

	list, listErr := sit.List(disk, c.names)
	if listErr != nil && len(list) == 0 {
		return fmt.Errorf("%s: %w", archive, listErr)
	}
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}

	skipped := 0
	for _, e := range list {
		if !filepath.IsLocal(filepath.FromSlash(e.Path)) {
			slog.Warn("unsafe path in archive", "path", e.Path)
			skipped++
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(e.Path))
		err := extract(disk, &e, target)
		if errors.Is(err, sit.ErrAlgo) || errors.Is(err, sit.ErrPassword) {
			slog.Warn("cannot extract", "path", e.Path, "err", err)
			skipped++
			continue
		} else if err != nil {
			return fmt.Errorf("%s: %w", e.Path, err)
		}
		slog.Info("extracted", "path", e.Path)
	}
	if listErr != nil {
		return fmt.Errorf("%s: extracted %d entries before damage: %w", archive, len(list), listErr)
	}
	if skipped > 0 {
		slog.Warn("some entries not extracted", "count", skipped)
	}
	return nil
}

func extract(disk io.ReaderAt, e *sit.Entry, target string) error {
	meta := e.AppleDouble()
	if e.IsDir {
		if err := os.MkdirAll(target, 0o777); err != nil {
			return err
		}
		return writeSidecar(target, meta, nil)
	}

	data, err := e.DataFork(disk)
	if err != nil {
		return err
	}
	rsrc, err := e.ResourceFork(disk)
	if err != nil {
		return err
	}
	rsrcBytes, err := io.ReadAll(rsrc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o777); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := writeSidecar(target, meta, rsrcBytes); err != nil {
		return err
	}
	if !e.ModTime.IsZero() {
		os.Chtimes(target, e.ModTime, e.ModTime)
	}
	return nil
}

func writeSidecar(target string, meta *appledouble.AppleDouble, rsrc []byte) error {
	ra, size := meta.WithResourceFork(bytes.NewReader(rsrc), int64(len(rsrc)))
	f, err := os.Create(filepath.FromSlash(appledouble.Sidecar(filepath.ToSlash(target))))
	if err != nil {
		return err
	}
	_, err = io.Copy(f, io.NewSectionReader(ra, 0, size))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
