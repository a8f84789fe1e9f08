package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/elliotnunn/macroman/internal/sit"
	"github.com/elliotnunn/macroman/macroman"
)

func (c *cli) list(archives []string) error {
	if c.match != "" && !doublestar.ValidatePattern(c.match) {
		return fmt.Errorf("--match: %w", doublestar.ErrBadPattern)
	}
	for _, name := range archives {
		if len(archives) > 1 {
			fmt.Fprintf(c.stdout, "%s:\n", name)
		}
		if err := c.listOne(name); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) listOne(name string) error {
	disk, closer, err := openArchive(name)
	if err != nil {
		return err
	}
	defer closer()

	list, err := sit.List(disk, c.names)
	if err != nil && len(list) == 0 {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, e := range list {
		if c.match != "" {
			ok, _ := doublestar.Match(c.match, e.Path)
			if !ok {
				continue
			}
		}
		printEntry(c.stdout, &e)
	}
	if err != nil {
		slog.Warn("listing incomplete", "archive", name, "err", err)
	}
	return nil
}

func printEntry(w io.Writer, e *sit.Entry) {
	const tfmt = "2006-01-02T15:04:05"
	if e.IsDir {
		fmt.Fprintf(w, "d %9s %9s %s %s/\n", "", "", e.ModTime.Format(tfmt), e.Path)
		return
	}
	fmt.Fprintf(w, "- %4s/%4s %9d %9d %s %s\n",
		macroman.String(e.Type[:]), macroman.String(e.Creator[:]),
		e.DataLen, e.RsrcLen, e.ModTime.Format(tfmt), e.Path)
}
