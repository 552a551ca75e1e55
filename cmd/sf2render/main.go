// SPDX-License-Identifier: EPL-2.0

// Command sf2render renders a single note or a Standard MIDI File through a
// SoundFont into a WAV file.
//
//	sf2render [-config sf2.yaml] [-o out.wav] [-program 0 -key 60 -hold 1s] font.sf2
//	sf2render [-config sf2.yaml] -midi song.mid [-o out.wav] font.sf2
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sf2pbx"
	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/config"
	"github.com/ik5/sf2pbx/internal/cli"
	"github.com/ik5/sf2pbx/sf2"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sf2render: ")

	if err := run(os.Args[1:], log.Default()); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	cfg      config.File
	midi     string
	key      int
	velocity int
	hold     time.Duration
	tail     time.Duration
}

func parse(args []string) (*flag.FlagSet, options, error) {
	fs := flag.NewFlagSet("sf2render", flag.ContinueOnError)
	var (
		cfgPath  = fs.String("config", "", "YAML configuration file")
		output   = fs.String("o", "", "output WAV file, - for stdout (default from config)")
		bits     = fs.Int("bits", 0, "output bit depth: 8, 16, 24 or 32")
		channels = fs.Int("channels", 0, "output channels: 1 or 2")
		rate     = fs.Int("rate", 0, "sample rate in Hz")
		bank     = fs.Int("bank", 0, "preset bank")
		program  = fs.Int("program", 0, "preset program")
		midiPath = fs.String("midi", "", "render this Standard MIDI File instead of a single note")
		key      = fs.Int("key", 60, "MIDI key of the rendered note")
		velocity = fs.Int("velocity", 100, "velocity of the rendered note")
		hold     = fs.Duration("hold", time.Second, "how long the note is held")
		tail     = fs.Duration("tail", 0, "longest release rendered after the last note (default 3s)")
	)
	if err := fs.Parse(args); err != nil {
		return nil, options{}, err
	}

	cfg, err := cli.LoadConfig(*cfgPath)
	if err != nil {
		return nil, options{}, err
	}
	set := cli.Visited(fs)
	if set["o"] {
		cfg.Output.Path = *output
	}
	if set["bits"] {
		cfg.Output.BitDepth = *bits
	}
	if set["channels"] {
		cfg.Output.Channels = *channels
	}
	if set["rate"] {
		cfg.Engine.SampleRate = *rate
	}
	if set["bank"] {
		cfg.Preset.Bank = *bank
	}
	if set["program"] {
		cfg.Preset.Program = *program
	}
	if err := cfg.Validate(); err != nil {
		return nil, options{}, err
	}

	return fs, options{
		cfg:      cfg,
		midi:     *midiPath,
		key:      *key,
		velocity: *velocity,
		hold:     *hold,
		tail:     *tail,
	}, nil
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

	start := time.Now()
	buf, err := render(sf, opts, logger)
	if err != nil {
		return fmt.Errorf("rendering with %s: %w", path, err)
	}
	if opts.cfg.Output.Channels == 1 {
		if buf, err = mono(buf); err != nil {
			return err
		}
	}

	out, err := cli.Create(opts.cfg.Output.Path)
	if err != nil {
		return err
	}
	if err := sf2pbx.WriteWAV(out, buf, opts.cfg.Output.BitDepth); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	frames := buf.NumFrames()
	logger.Printf("wrote %s: %d frames, %.2fs of audio in %s",
		opts.cfg.Output.Path, frames, float64(frames)/float64(buf.Format.SampleRate), time.Since(start).Round(time.Millisecond))
	return nil
}

func render(sf *sf2.SoundFont, opts options, logger *log.Logger) (*goaudio.Float32Buffer, error) {
	engine := opts.cfg.Engine.Render()
	if opts.midi == "" {
		return sf2pbx.RenderNote(sf, sf2pbx.NoteOptions{
			Bank:     opts.cfg.Preset.Bank,
			Program:  opts.cfg.Preset.Program,
			Key:      opts.key,
			Velocity: opts.velocity,
			Hold:     opts.hold,
			Tail:     opts.tail,
			Engine:   engine,
			Logger:   logger,
		})
	}

	f, err := os.Open(opts.midi)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sf2pbx.RenderMIDI(sf, f, sf2pbx.MIDIOptions{
		Tail:   opts.tail,
		Engine: engine,
		Logger: logger,
	})
}

// mono averages the channels of buf.
func mono(buf *goaudio.Float32Buffer) (*goaudio.Float32Buffer, error) {
	src := audio.NewSliceSource(buf.Data, buf.Format.SampleRate, buf.Format.NumChannels)
	return audio.Collect(audio.NewMonoMixer(src))
}
