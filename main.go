// Command macroman converts between Mac OS Roman and UTF-8,
// and moves files with Mac OS Roman names in and out of classic StuffIt archives.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/elliotnunn/macroman/internal/namecache"
	"github.com/spf13/pflag"
)

const usage = `usage: macroman [flags] COMMAND [ARG...]

commands:
  decode [FILE...]         Mac OS Roman to UTF-8
  encode [FILE...]         UTF-8 to Mac OS Roman, unmappable characters become '?'
  ls ARCHIVE...            list a StuffIt archive (may be gzip, bzip2 or xz compressed)
  unpack ARCHIVE DIR       extract stored files with ._ AppleDouble sidecars
  pack OUT.sit PATH...     archive host files, reading ._ sidecars for Finder info
  realname SIDECAR...      print the original Mac name recorded in a sidecar
  dump DIR                 walk DIR and describe every AppleDouble sidecar

flags:
`

var errUsage = errors.New("bad usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	names  *namecache.Cache
	match  string
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("macroman", pflag.ContinueOnError)
	logLevel := flags.String("log-level", "warn", "one of debug, info, warn, error")
	cacheSize := flags.Int("name-cache", 1024, "number of converted file names to remember (0 disables)")
	match := flags.String("match", "", "only list paths matching this glob, ** crosses folders")
	help := flags.BoolP("help", "h", false, "print this help")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return errUsage
	}
	if *help {
		fmt.Fprint(stdout, usage)
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		return nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c := &cli{
		stdin:  stdin,
		stdout: stdout,
		names:  namecache.New(*cacheSize),
		match:  *match,
	}
	defer func() {
		hits, misses := c.names.Stats()
		slog.Debug("name cache", "hits", hits, "misses", misses)
	}()

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return errUsage
	}
	cmd, rest := rest[0], rest[1:]
	switch cmd {
	case "decode":
		return c.convert(rest, decodeMode)
	case "encode":
		return c.convert(rest, encodeMode)
	case "ls":
		if len(rest) == 0 {
			return needArgs(cmd)
		}
		return c.list(rest)
	case "unpack":
		if len(rest) != 2 {
			return needArgs(cmd)
		}
		return c.unpack(rest[0], rest[1])
	case "pack":
		if len(rest) < 2 {
			return needArgs(cmd)
		}
		return c.pack(rest[0], rest[1:])
	case "realname":
		if len(rest) == 0 {
			return needArgs(cmd)
		}
		return c.realName(rest)
	case "dump":
		if len(rest) != 1 {
			return needArgs(cmd)
		}
		return dumpFS(c.stdout, os.DirFS(rest[0]))
	}
	return fmt.Errorf("unknown command %q, expected one of: %s", cmd,
		strings.Join([]string{"decode", "encode", "ls", "unpack", "pack", "realname", "dump"}, ", "))
}

func needArgs(cmd string) error {
	return fmt.Errorf("%s: wrong number of arguments, see --help", cmd)
}
