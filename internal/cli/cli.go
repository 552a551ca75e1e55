// SPDX-License-Identifier: EPL-2.0

// Package cli holds the flag and configuration plumbing shared by the
// commands under cmd/.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ik5/sf2pbx/config"
	"github.com/ik5/sf2pbx/sf2"
)

// Logger returns the logger a command reports through.
func Logger(name string, w io.Writer) *log.Logger {
	return log.New(w, name+": ", 0)
}

// LoadConfig returns the file at path, or the defaults when path is empty.
func LoadConfig(path string) (config.File, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// Visited reports which flags of fs were given on the command line.
func Visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// SoundFont resolves the soundfont path from the first positional argument
// or the configuration, and loads it.
func SoundFont(fs *flag.FlagSet, cfg config.File) (*sf2.SoundFont, string, error) {
	if fs.NArg() > 0 {
		cfg.SoundFont = fs.Arg(0)
	}
	if err := cfg.RequireSoundFont(); err != nil {
		return nil, "", fmt.Errorf("%w (pass a .sf2 file or set soundfont in -config)", err)
	}
	sf, err := sf2.LoadFile(cfg.SoundFont)
	if err != nil {
		return nil, cfg.SoundFont, err
	}
	return sf, cfg.SoundFont, nil
}

// Create opens path for writing, with "-" meaning standard output.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
