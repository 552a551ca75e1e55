// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/config"
	"github.com/ik5/sf2pbx/sf2"
)

// pianoKeys maps the home row to semitones above C.
const pianoKeys = "awsedftgyhujkolp;"

const (
	keyEsc   = 27
	keyCtrlC = 3
)

type controller interface {
	NoteOn(key, velocity int) error
	NoteOff(key int) error
	AllNotesOff() error
	SelectPreset(h sf2.Handle) error
}

type keyboard struct {
	ctl      controller
	presets  []sf2.Preset
	preset   int
	octave   int
	velocity int
	hold     time.Duration
	out      io.Writer
	log      *log.Logger

	// after schedules a release; time.AfterFunc outside tests.
	after func(time.Duration, func())
}

func newKeyboard(ctl controller, sf *sf2.SoundFont, p config.Preset, out io.Writer) (*keyboard, error) {
	presets := sf.Presets()
	if len(presets) == 0 {
		return nil, fmt.Errorf("soundfont has no presets: %w", sf2.ErrUnknownPreset)
	}

	k := &keyboard{
		ctl:      ctl,
		presets:  presets,
		octave:   4,
		velocity: 100,
		hold:     600 * time.Millisecond,
		out:      out,
		log:      log.New(io.Discard, "", 0),
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	if found, err := sf.Lookup(p.Bank, p.Program); err == nil {
		k.preset = int(found.Handle())
	}
	return k, k.ctl.SelectPreset(k.presets[k.preset].Handle())
}

// press handles one byte of raw terminal input.
func (k *keyboard) press(b byte) (quit bool, err error) {
	if i := strings.IndexByte(pianoKeys, b); i >= 0 {
		return false, k.play(12*(k.octave+1) + i)
	}

	switch b {
	case 'q', keyEsc, keyCtrlC:
		return true, k.ctl.AllNotesOff()
	case ' ':
		return false, k.ctl.AllNotesOff()
	case 'z':
		k.octave = max(k.octave-1, 0)
	case 'x':
		k.octave = min(k.octave+1, 8)
	case 'c':
		k.velocity = max(k.velocity-16, 1)
	case 'v':
		k.velocity = min(k.velocity+16, 127)
	case ',':
		return false, k.selectPreset(k.preset - 1)
	case '.':
		return false, k.selectPreset(k.preset + 1)
	default:
		return false, nil
	}
	k.status()
	return false, nil
}

func (k *keyboard) play(key int) error {
	if err := k.ctl.NoteOn(key, k.velocity); err != nil {
		return err
	}
	k.after(k.hold, func() {
		if err := k.ctl.NoteOff(key); err != nil {
			k.log.Printf("releasing key %d: %v", key, err)
		}
	})
	return nil
}

func (k *keyboard) selectPreset(i int) error {
	n := len(k.presets)
	k.preset = (i%n + n) % n
	if err := k.ctl.SelectPreset(k.presets[k.preset].Handle()); err != nil {
		return err
	}
	k.status()
	return nil
}

func (k *keyboard) status() {
	p := &k.presets[k.preset]
	fmt.Fprintf(k.out, "%s  octave %d  velocity %d\r\n", p.String(), k.octave, k.velocity)
}

// stream adapts an audio.Source to the float32 little-endian byte stream
// the audio device reads.
type stream struct {
	src audio.Source
	buf []float32
}

func newStream(src audio.Source) *stream {
	return &stream{src: src, buf: make([]float32, src.BufSize())}
}

func (s *stream) Read(p []byte) (int, error) {
	channels := s.src.Channels()
	n := len(p) / 4
	n -= n % channels
	if n == 0 {
		return 0, nil
	}
	if cap(s.buf) < n {
		s.buf = make([]float32, n)
	}

	got, err := s.src.ReadSamples(s.buf[:n])
	for i, v := range s.buf[:got] {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return 4 * got, err
}
