package main

import (
	"fmt"
	"io"
	"os"

	"github.com/elliotnunn/macroman/macroman"
	"golang.org/x/text/transform"
)

type mode int

const (
	decodeMode mode = iota // Roman to UTF-8
	encodeMode
)

func (m mode) transformer() transform.Transformer {
	if m == decodeMode {
		return macroman.Encoding.NewDecoder()
	}
	return macroman.Encoding.NewEncoder()
}

// convert streams each file, or stdin if there are none, to stdout.
func (c *cli) convert(files []string, m mode) error {
	if len(files) == 0 {
		return convertStream(c.stdout, c.stdin, m)
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		err = convertStream(c.stdout, f, m)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func convertStream(w io.Writer, r io.Reader, m mode) error {
	_, err := io.Copy(w, transform.NewReader(r, m.transformer()))
	return err
}
