// SPDX-License-Identifier: EPL-2.0

package sf2pbx

import (
	"cmp"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	goaudio "github.com/go-audio/audio"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ik5/sf2pbx/formats/wav"
	"github.com/ik5/sf2pbx/render"
	"github.com/ik5/sf2pbx/sf2"
)

const (
	defaultTail        = 3 * time.Second
	defaultMaxDuration = 10 * time.Minute

	drumChannel = 9
	drumBank    = 128
)

// NoteOptions describe a single rendered note.
type NoteOptions struct {
	Bank, Program int
	Key, Velocity int
	// Hold is how long the key stays down.
	Hold time.Duration
	// Tail bounds the release. Rendering stops earlier once every voice
	// has finished; zero means three seconds.
	Tail   time.Duration
	Engine render.Config
	Logger *log.Logger
}

// RenderNote plays one note of the preset at Bank:Program offline and
// returns the interleaved stereo result.
func RenderNote(sf *sf2.SoundFont, opts NoteOptions) (*goaudio.Float32Buffer, error) {
	p, err := sf.Lookup(opts.Bank, opts.Program)
	if err != nil {
		return nil, err
	}

	s := newSession(sf, opts.Engine, opts.Logger)
	e := s.engine(0)
	if err := e.SelectPreset(p.Handle()); err != nil {
		return nil, err
	}
	if err := e.NoteOn(opts.Key, opts.Velocity); err != nil {
		return nil, err
	}
	s.advance(s.frames(opts.Hold))
	if err := e.NoteOff(opts.Key); err != nil {
		return nil, err
	}
	s.finish(cmp.Or(opts.Tail, defaultTail))
	return s.buffer(), nil
}

// MIDIOptions control RenderMIDI.
type MIDIOptions struct {
	// Tail bounds the rendering after the last event; zero means three
	// seconds.
	Tail time.Duration
	// MaxDuration drops events past this point; zero means ten minutes.
	MaxDuration time.Duration
	Engine      render.Config
	Logger      *log.Logger
}

type midiEvent struct {
	at  int64 // microseconds
	msg midi.Message
}

// RenderMIDI plays a Standard MIDI File through sf offline. Every MIDI
// channel gets its own engine; channel 10 starts on the drum bank.
func RenderMIDI(sf *sf2.SoundFont, r io.Reader, opts MIDIOptions) (*goaudio.Float32Buffer, error) {
	events, err := readMIDI(r)
	if err != nil {
		return nil, err
	}
	limit := cmp.Or(opts.MaxDuration, defaultMaxDuration).Microseconds()

	s := newSession(sf, opts.Engine, opts.Logger)
	for _, ev := range events {
		if ev.at > limit {
			break
		}
		s.advanceTo(int(ev.at * int64(s.rate) / 1e6))
		if err := s.apply(ev.msg); err != nil {
			return nil, fmt.Errorf("midi event at %dus: %w", ev.at, err)
		}
	}
	s.finish(cmp.Or(opts.Tail, defaultTail))
	return s.buffer(), nil
}

func readMIDI(r io.Reader) ([]midiEvent, error) {
	var events []midiEvent
	rd := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		events = append(events, midiEvent{at: te.AbsMicroSeconds, msg: midi.Message(te.Message)})
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	// tracks are read one after another
	slices.SortStableFunc(events, func(a, b midiEvent) int { return cmp.Compare(a.at, b.at) })
	return events, nil
}

// WriteWAV writes buf as PCM at bitDepth (16 when zero).
func WriteWAV(w io.Writer, buf *goaudio.Float32Buffer, bitDepth int) error {
	return wav.EncodeFloat(w, buf, wav.Options{BitDepth: bitDepth})
}

// session renders a set of engines in lockstep and mixes them.
type session struct {
	sf      *sf2.SoundFont
	cfg     render.Config
	log     *log.Logger
	rate    int
	engines [16]*render.Engine
	bank    [16]int
	program [16]int

	out     []float32
	scratch []float32
}

func newSession(sf *sf2.SoundFont, cfg render.Config, logger *log.Logger) *session {
	if cfg == (render.Config{}) {
		cfg = render.DefaultConfig()
	}
	s := &session{sf: sf, cfg: cfg, log: logger}
	// the engine normalizes the config
	s.rate = s.engine(0).Config().SampleRate
	s.cfg = s.engines[0].Config()
	s.bank[drumChannel] = drumBank
	s.scratch = make([]float32, 2*s.cfg.BlockSize)
	return s
}

func (s *session) engine(ch int) *render.Engine {
	if s.engines[ch] == nil {
		var opts []render.Option
		if s.log != nil {
			opts = append(opts, render.WithLogger(s.log))
		}
		e := render.NewEngine(s.cfg, opts...)
		e.Load(s.sf)
		s.engines[ch] = e
		if ch == drumChannel {
			s.selectProgram(ch)
		}
	}
	return s.engines[ch]
}

func (s *session) frames(d time.Duration) int {
	return int(d.Seconds() * float64(s.rate))
}

func (s *session) advanceTo(frame int) {
	s.advance(frame - len(s.out)/2)
}

func (s *session) advance(frames int) {
	for frames > 0 {
		n := min(frames, s.cfg.BlockSize)
		start := len(s.out)
		s.out = append(s.out, make([]float32, 2*n)...)
		mix := s.out[start:]
		for _, e := range s.engines {
			if e == nil {
				continue
			}
			got, _ := e.ReadSamples(s.scratch[:2*n])
			for i, v := range s.scratch[:got] {
				mix[i] += v
			}
		}
		frames -= n
	}
}

// finish renders until every engine is idle, at most for tail.
func (s *session) finish(tail time.Duration) {
	limit := s.frames(tail)
	for rendered := 0; rendered < limit; rendered += s.cfg.BlockSize {
		s.advance(s.cfg.BlockSize)
		if s.idle() {
			return
		}
	}
}

func (s *session) idle() bool {
	for _, e := range s.engines {
		if e != nil && (e.ActiveVoices() > 0 || e.Pending() > 0) {
			return false
		}
	}
	return true
}

func (s *session) buffer() *goaudio.Float32Buffer {
	return &goaudio.Float32Buffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: s.rate},
		Data:           s.out,
		SourceBitDepth: 32,
	}
}

// room drains the command ring of e when a burst of simultaneous events
// would overflow it.
func (s *session) room(e *render.Engine) *render.Engine {
	if e.Pending() >= s.cfg.QueueSize-1 {
		e.RenderBlock(nil, nil)
	}
	return e
}

func (s *session) apply(msg midi.Message) error {
	var ch, key, vel, cc, val, prog uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		return s.room(s.engine(int(ch))).NoteOn(int(key), int(vel))
	case msg.GetNoteOff(&ch, &key, &vel):
		return s.room(s.engine(int(ch))).NoteOff(int(key))
	case msg.GetControlChange(&ch, &cc, &val):
		if cc == 0 {
			s.bank[ch] = int(val)
			return nil
		}
		return s.room(s.engine(int(ch))).ControlChange(int(cc), int(val))
	case msg.GetProgramChange(&ch, &prog):
		s.program[ch] = int(prog)
		s.engine(int(ch))
		return s.selectProgram(int(ch))
	case msg.GetPitchBend(&ch, &rel, &abs):
		return s.room(s.engine(int(ch))).PitchBend(int(abs))
	case msg.GetAfterTouch(&ch, &val):
		return s.room(s.engine(int(ch))).ChannelPressure(int(val))
	case msg.GetPolyAfterTouch(&ch, &key, &val):
		return s.room(s.engine(int(ch))).KeyPressure(int(key), int(val))
	}
	return nil
}

// selectProgram falls back to bank 0, or to the first drum kit on the drum
// bank, and keeps the current preset when nothing matches.
func (s *session) selectProgram(ch int) error {
	bank, program := s.bank[ch], s.program[ch]
	p, err := s.sf.Lookup(bank, program)
	if err != nil && bank == drumBank {
		p, err = s.sf.Lookup(drumBank, 0)
	}
	if err != nil {
		p, err = s.sf.Lookup(0, program)
	}
	if err != nil {
		return nil
	}
	return s.room(s.engines[ch]).SelectPreset(p.Handle())
}
