// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync/atomic"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/render/channel"
	"github.com/ik5/sf2pbx/render/voice"
	"github.com/ik5/sf2pbx/sf2"
)

// MIDI channel mode messages handled by the engine.
const (
	ccAllSoundOff = 120
	ccAllNotesOff = 123
)

// Engine is a polyphonic sampler playing one preset at a time.
//
// Control methods (Load, SelectPreset, NoteOn, ...) may be called from any
// goroutine; they enqueue fixed-size commands. RenderBlock and ReadSamples
// belong to a single render goroutine and never allocate or lock.
type Engine struct {
	cfg Config
	log *log.Logger

	queue *ring
	font  atomic.Pointer[sf2.SoundFont]

	stopped atomic.Bool
	closed  atomic.Bool
	active  atomic.Int64
	dropped atomic.Uint64

	// Render goroutine state.
	current *sf2.SoundFont
	preset  *sf2.Preset
	handle  sf2.Handle
	channel *channel.State
	voices  []voice.Voice
	serials []uint64
	busy    []bool
	free    []int
	layers  []sf2.Layer
	serial  uint64
	gain    float64
	pan     float64
	muted   bool

	left, right []float32
}

var _ audio.Source = (*Engine)(nil)

// NewEngine allocates an engine sized by cfg. Zero fields of cfg take their
// DefaultConfig values.
func NewEngine(cfg Config, opts ...Option) *Engine {
	cfg = cfg.normalize()
	e := &Engine{
		cfg:     cfg,
		log:     discardLogger(),
		queue:   newRing(cfg.QueueSize),
		channel: channel.New(),
		voices:  make([]voice.Voice, cfg.Voices),
		serials: make([]uint64, cfg.Voices),
		busy:    make([]bool, cfg.Voices),
		free:    make([]int, 0, cfg.Voices),
		layers:  make([]sf2.Layer, 0, max(cfg.Voices, 32)),
		gain:    cfg.Gain,
		pan:     cfg.Pan,
		left:    make([]float32, cfg.BlockSize),
		right:   make([]float32, cfg.BlockSize),
	}
	for i := cfg.Voices - 1; i >= 0; i-- {
		e.free = append(e.free, i)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config { return e.cfg }

// Load publishes sf to the render goroutine, which switches to it at the next
// block and silences voices of the previous font. The font must not be
// modified afterwards.
func (e *Engine) Load(sf *sf2.SoundFont) {
	e.font.Store(sf)
	if sf != nil {
		e.log.Printf("loaded soundfont %q with %d presets", sf.Info().BankName, len(sf.Presets()))
	}
}

// SoundFont returns the most recently loaded font. It is safe to read its
// presets from any goroutine.
func (e *Engine) SoundFont() *sf2.SoundFont { return e.font.Load() }

func (e *Engine) enqueue(c command) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if !e.queue.push(c) {
		n := e.dropped.Add(1)
		e.log.Printf("dropped command %d (%d total): %v", c.op, n, ErrQueueFull)
		return ErrQueueFull
	}
	return nil
}

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s %d not in [%d, %d]: %w", name, v, lo, hi, ErrOutOfRange)
	}
	return nil
}

// SelectPreset switches the preset used by subsequent notes.
func (e *Engine) SelectPreset(h sf2.Handle) error {
	return e.enqueue(command{op: opSelectPreset, a: int32(h)})
}

// NoteOn starts a note. A velocity of 0 is a NoteOff.
func (e *Engine) NoteOn(key, velocity int) error {
	if err := checkRange("key", key, 0, 127); err != nil {
		return err
	}
	if err := checkRange("velocity", velocity, 0, 127); err != nil {
		return err
	}
	if velocity == 0 {
		return e.NoteOff(key)
	}
	return e.enqueue(command{op: opNoteOn, a: int32(key), b: int32(velocity)})
}

// NoteOff releases every voice playing key.
func (e *Engine) NoteOff(key int) error {
	if err := checkRange("key", key, 0, 127); err != nil {
		return err
	}
	return e.enqueue(command{op: opNoteOff, a: int32(key)})
}

// ControlChange sets a MIDI controller. Controllers 120 and 123 stop and
// release all notes; 121 resets the controllers.
func (e *Engine) ControlChange(cc, value int) error {
	if err := checkRange("controller", cc, 0, 127); err != nil {
		return err
	}
	if err := checkRange("value", value, 0, 127); err != nil {
		return err
	}
	return e.enqueue(command{op: opControlChange, a: int32(cc), b: int32(value)})
}

// PitchBend sets the 14-bit pitch wheel, 8192 is centred.
func (e *Engine) PitchBend(value int) error {
	if err := checkRange("pitch bend", value, 0, 16383); err != nil {
		return err
	}
	return e.enqueue(command{op: opPitchBend, a: int32(value)})
}

func (e *Engine) ChannelPressure(value int) error {
	if err := checkRange("pressure", value, 0, 127); err != nil {
		return err
	}
	return e.enqueue(command{op: opChannelPressure, a: int32(value)})
}

func (e *Engine) KeyPressure(key, value int) error {
	if err := checkRange("key", key, 0, 127); err != nil {
		return err
	}
	if err := checkRange("pressure", value, 0, 127); err != nil {
		return err
	}
	return e.enqueue(command{op: opKeyPressure, a: int32(key), b: int32(value)})
}

// AllNotesOff releases every voice, ignoring the sustain pedal.
func (e *Engine) AllNotesOff() error {
	return e.enqueue(command{op: opAllNotesOff})
}

// SetGain sets the output gain; 1 is unity.
func (e *Engine) SetGain(v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("gain %v: %w", v, ErrOutOfRange)
	}
	return e.enqueue(command{op: opSetGain, f: v})
}

// SetPan sets the output balance in [-1, 1].
func (e *Engine) SetPan(v float64) error {
	if !(v >= -1 && v <= 1) {
		return fmt.Errorf("pan %v: %w", v, ErrOutOfRange)
	}
	return e.enqueue(command{op: opSetPan, f: v})
}

// Stop mutes the engine: the next block silences all voices and every block
// renders silence until Start.
func (e *Engine) Stop() { e.stopped.Store(true) }

// Start resumes rendering after Stop.
func (e *Engine) Start() { e.stopped.Store(false) }

// Stopped reports whether the engine is muted.
func (e *Engine) Stopped() bool { return e.stopped.Load() }

// ActiveVoices returns the number of voices sounding after the last block.
func (e *Engine) ActiveVoices() int { return int(e.active.Load()) }

// DroppedCommands returns how many commands were rejected by a full queue.
func (e *Engine) DroppedCommands() uint64 { return e.dropped.Load() }

// Pending returns the number of queued commands.
func (e *Engine) Pending() int { return e.queue.len() }

// RenderBlock renders min(len(left), len(right)) frames into left and right,
// overwriting them, and returns the frame count.
func (e *Engine) RenderBlock(left, right []float32) int {
	n := min(len(left), len(right))
	left, right = left[:n], right[:n]
	clear(left)
	clear(right)

	e.swapFont()
	e.drain()

	if e.stopped.Load() {
		if !e.muted {
			e.stopAll()
			e.muted = true
		}
		return n
	}
	e.muted = false

	var active int64
	for i := range e.voices {
		if !e.busy[i] {
			continue
		}
		v := &e.voices[i]
		v.Render(left, right)
		if v.Active() {
			active++
		} else {
			e.release(i)
		}
	}
	e.active.Store(active)

	gl, gr := masterPan(e.pan)
	gl, gr = e.gain*gl, e.gain*gr
	if gl != 1 || gr != 1 {
		for i := range left {
			left[i] *= float32(gl)
			right[i] *= float32(gr)
		}
	}
	return n
}

// masterPan maps pan in [-1, 1] through the equal-power pan law, scaled so
// the centre position is unity on both sides.
func masterPan(pan float64) (left, right float64) {
	centre, _ := dsp.PanLR(0)
	l, r := dsp.PanLR(500 * pan)
	return l / centre, r / centre
}

// SampleRate returns the output rate in Hz.
func (e *Engine) SampleRate() int { return e.cfg.SampleRate }

// Channels is always 2.
func (e *Engine) Channels() int { return 2 }

// BufSize returns the interleaved size of one block.
func (e *Engine) BufSize() int { return 2 * e.cfg.BlockSize }

// ReadSamples renders interleaved stereo into dst. It never returns io.EOF
// before Close.
func (e *Engine) ReadSamples(dst []float32) (int, error) {
	if e.closed.Load() {
		return 0, io.EOF
	}
	if len(dst)%2 != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	frames := len(dst) / 2
	written := 0
	for written < frames {
		n := e.RenderBlock(e.left[:min(frames-written, len(e.left))], e.right)
		for i := range n {
			dst[2*(written+i)] = e.left[i]
			dst[2*(written+i)+1] = e.right[i]
		}
		written += n
	}
	return 2 * written, nil
}

// Close ends the stream. Further control calls return ErrClosed and
// ReadSamples returns io.EOF.
func (e *Engine) Close() error {
	e.closed.Store(true)
	return nil
}

func (e *Engine) swapFont() {
	sf := e.font.Load()
	if sf == e.current {
		return
	}
	e.stopAll()
	e.current = sf
	e.preset = nil
	e.selectPreset(e.handle)
	if e.preset == nil {
		e.selectPreset(0)
	}
}

// selectPreset keeps the current preset when h is unknown to the font.
func (e *Engine) selectPreset(h sf2.Handle) {
	if e.current == nil {
		e.handle = h
		return
	}
	presets := e.current.Presets()
	if h < 0 || int(h) >= len(presets) {
		return
	}
	e.handle, e.preset = h, &presets[h]
}

func (e *Engine) drain() {
	for {
		c, ok := e.queue.pop()
		if !ok {
			return
		}
		e.apply(c)
	}
}

func (e *Engine) apply(c command) {
	switch c.op {
	case opSelectPreset:
		e.selectPreset(sf2.Handle(c.a))
	case opNoteOn:
		e.noteOn(int(c.a), int(c.b))
	case opNoteOff:
		e.noteOff(int(c.a))
	case opControlChange:
		e.controlChange(int(c.a), int(c.b))
	case opPitchBend:
		e.channel.SetPitchWheel(int(c.a))
	case opChannelPressure:
		e.channel.SetChannelPressure(int(c.a))
	case opKeyPressure:
		e.channel.SetKeyPressure(int(c.a), int(c.b))
	case opAllNotesOff:
		e.releaseAll()
	case opSetGain:
		e.gain = c.f
	case opSetPan:
		e.pan = c.f
	}
}

func (e *Engine) noteOn(key, velocity int) {
	if e.stopped.Load() || e.current == nil || e.preset == nil {
		return
	}
	e.layers = e.preset.Find(key, velocity, e.layers[:0])
	first := e.serial + 1
	for i := range e.layers {
		slot := e.allocate()
		e.serial++
		e.serials[slot] = e.serial
		v := &e.voices[slot]
		if !v.Start(&e.layers[i], e.current.PCM(), e.channel, key, velocity, float64(e.cfg.SampleRate)) {
			e.release(slot)
			continue
		}
		if class := v.ExclusiveClass(); class != 0 {
			e.exclusive(class, first)
		}
	}
}

// exclusive kills the voices of class started before serial since.
func (e *Engine) exclusive(class int, since uint64) {
	for i := range e.voices {
		if e.busy[i] && e.serials[i] < since && e.voices[i].ExclusiveClass() == class {
			e.voices[i].Kill()
		}
	}
}

func (e *Engine) noteOff(key int) {
	sustain := e.channel.Sustained()
	for i := range e.voices {
		v := &e.voices[i]
		if e.busy[i] && v.Key() == key && !v.Released() {
			v.Release(sustain)
		}
	}
}

func (e *Engine) controlChange(cc, value int) {
	switch cc {
	case ccAllSoundOff:
		e.stopAll()
		return
	case ccAllNotesOff:
		e.releaseAll()
		return
	}
	e.channel.SetCC(cc, value)
	if cc == channel.CCSustain && !e.channel.Sustained() {
		for i := range e.voices {
			if e.busy[i] {
				e.voices[i].ReleaseSustained()
			}
		}
	}
}

func (e *Engine) releaseAll() {
	for i := range e.voices {
		if e.busy[i] {
			e.voices[i].Release(false)
		}
	}
}

func (e *Engine) stopAll() {
	for i := range e.voices {
		if e.busy[i] {
			e.voices[i].Stop()
			e.release(i)
		}
	}
	e.active.Store(0)
}

// allocate returns a free voice slot, stealing the quietest voice when the
// pool is exhausted. Ties go to the oldest voice.
func (e *Engine) allocate() int {
	if n := len(e.free); n > 0 {
		slot := e.free[n-1]
		e.free = e.free[:n-1]
		e.busy[slot] = true
		return slot
	}

	victim := 0
	for i := 1; i < len(e.voices); i++ {
		a, b := e.voices[i].Amplitude(), e.voices[victim].Amplitude()
		if a < b || (a == b && e.serials[i] < e.serials[victim]) {
			victim = i
		}
	}
	e.voices[victim].Stop()
	return victim
}

func (e *Engine) release(slot int) {
	if !e.busy[slot] {
		return
	}
	e.busy[slot] = false
	e.free = append(e.free, slot)
}
