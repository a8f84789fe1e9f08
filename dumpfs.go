// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/elliotnunn/macroman/internal/appledouble"
)

func dumpFS(w io.Writer, fsys fs.FS) error {
	const tfmt = "2006-01-02T15:04:05"
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		fmt.Fprintf(w, "%#v\n", p)
		if err != nil {
			fmt.Fprintf(w, "    dump error: %s\n", err.Error())
			return nil
		}
		i, err := d.Info()
		if err != nil {
			fmt.Fprintf(w, "    dump error: %s\n", err.Error())
			return fs.SkipDir
		}

		fmt.Fprintf(w, "    %v size=%d modtime=%s\n",
			i.Mode(), i.Size(), i.ModTime().Format(tfmt))

		if d.IsDir() || !appledouble.IsSidecar(p) {
			return nil
		}
		f, err := fsys.Open(p)
		if err != nil {
			fmt.Fprintf(w, "    AppleDouble dump error: %s\n", err.Error())
			return nil
		}
		defer f.Close()
		dmp, err := appledouble.Dump(f)
		if err != nil {
			fmt.Fprintf(w, "    AppleDouble dump error: %v\n", err)
		} else {
			for _, l := range strings.Split(dmp, "\n") {
				fmt.Fprintf(w, "    %s\n", l)
			}
		}
		return nil
	})
}

// realName prints "sidecar: name" for each sidecar that records one.
func (c *cli) realName(sidecars []string) error {
	for _, p := range sidecars {
		ad, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		name, ok, err := appledouble.RealName(ad)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if ok {
			fmt.Fprintf(c.stdout, "%s: %s\n", p, name)
		} else {
			fmt.Fprintf(c.stdout, "%s: (no name)\n", p)
		}
	}
	return nil
}
