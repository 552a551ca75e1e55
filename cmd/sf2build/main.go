// SPDX-License-Identifier: EPL-2.0

// Command sf2build turns a YAML bank manifest and its audio files into a
// SoundFont.
//
//	sf2build [-o bank.sf2] [-rate 44100] [-bits 24] bank.yaml
package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/sf2pbx/bank"
	"github.com/ik5/sf2pbx/internal/cli"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sf2build: ")

	if err := run(os.Args[1:], log.Default()); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, logger *log.Logger) error {
	fs := flag.NewFlagSet("sf2build", flag.ContinueOnError)
	var (
		output  = fs.String("o", "", "output file, - for stdout (default: manifest name with .sf2)")
		rate    = fs.Int("rate", 0, "resample every sample to this rate, overriding the manifest")
		bits    = fs.Int("bits", 0, "sample depth, 16 or 24, overriding the manifest")
		verbose = fs.Bool("v", false, "report resampling and dropped loops")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected one manifest file")
	}
	path := fs.Arg(0)

	m, err := bank.LoadManifest(path)
	if err != nil {
		return err
	}
	set := cli.Visited(fs)
	if set["rate"] {
		m.SampleRate = *rate
	}
	if set["bits"] {
		m.BitDepth = *bits
	}

	var opts []bank.Option
	if *verbose {
		opts = append(opts, bank.WithLogger(logger))
	}
	w, err := bank.Build(m, filepath.Dir(path), opts...)
	if err != nil {
		return err
	}

	dst := *output
	if dst == "" {
		dst = strings.TrimSuffix(path, filepath.Ext(path)) + ".sf2"
	}
	f, err := cli.Create(dst)
	if err != nil {
		return err
	}
	n, err := w.WriteTo(f)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	samples := 0
	for _, in := range m.Instruments {
		samples += len(in.Samples)
	}
	logger.Printf("wrote %s: %d instruments, %d samples, %d bytes", dst, len(m.Instruments), samples, n)
	return nil
}
