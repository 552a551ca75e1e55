// SPDX-License-Identifier: EPL-2.0

// Command sf2play plays a SoundFont from the computer keyboard.
//
//	sf2play [-config sf2.yaml] [-bank 0 -program 0] font.sf2
//
// The row a w s e d f t g y h u j k o l p ; is a piano keyboard starting at
// C. z and x change the octave, c and v the velocity, comma and period step
// through the presets, space silences everything and q quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/term"

	"github.com/ik5/sf2pbx/config"
	"github.com/ik5/sf2pbx/internal/cli"
	"github.com/ik5/sf2pbx/render"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sf2play: ")

	if err := run(os.Args[1:], log.Default()); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	cfg     config.File
	latency time.Duration
	hold    time.Duration
}

func parse(args []string) (*flag.FlagSet, options, error) {
	fs := flag.NewFlagSet("sf2play", flag.ContinueOnError)
	var (
		cfgPath = fs.String("config", "", "YAML configuration file")
		bank    = fs.Int("bank", 0, "initial preset bank")
		program = fs.Int("program", 0, "initial preset program")
		rate    = fs.Int("rate", 0, "output sample rate in Hz")
		voices  = fs.Int("voices", 0, "polyphony")
		latency = fs.Duration("latency", 40*time.Millisecond, "audio device buffer")
		hold    = fs.Duration("hold", 600*time.Millisecond, "how long a key press sounds before it is released")
	)
	if err := fs.Parse(args); err != nil {
		return nil, options{}, err
	}

	cfg, err := cli.LoadConfig(*cfgPath)
	if err != nil {
		return nil, options{}, err
	}
	set := cli.Visited(fs)
	if set["bank"] {
		cfg.Preset.Bank = *bank
	}
	if set["program"] {
		cfg.Preset.Program = *program
	}
	if set["rate"] {
		cfg.Engine.SampleRate = *rate
	}
	if set["voices"] {
		cfg.Engine.Voices = *voices
	}
	if err := cfg.Validate(); err != nil {
		return nil, options{}, err
	}
	return fs, options{cfg: cfg, latency: *latency, hold: *hold}, nil
}

func run(args []string, logger *log.Logger) error {
	fs, opts, err := parse(args)
	if err != nil {
		return err
	}
	sf, path, err := cli.SoundFont(fs, opts.cfg)
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("standard input is not a terminal")
	}

	engine := render.NewEngine(opts.cfg.Engine.Render(), render.WithLogger(logger))
	engine.Load(sf)
	defer engine.Close()

	kb, err := newKeyboard(engine, sf, opts.cfg.Preset, os.Stdout)
	if err != nil {
		return err
	}
	kb.hold = opts.hold
	kb.log = logger

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   engine.SampleRate(),
		ChannelCount: engine.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.latency,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(newStream(engine))
	player.Play()
	defer player.Close()

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer term.Restore(fd, old)

	fmt.Fprintf(os.Stdout, "%s: %d presets\r\n", path, len(sf.Presets()))
	kb.status()
	return kb.loop(os.Stdin)
}

// loop feeds key presses from r to the keyboard until it asks to quit.
func (k *keyboard) loop(r io.Reader) error {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			quit, perr := k.press(b[0])
			if perr != nil {
				return perr
			}
			if quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
