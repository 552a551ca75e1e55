// SPDX-License-Identifier: EPL-2.0

package render

import (
	"errors"
	"io"
	"math"
	"sync"
	"testing"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/internal/sf2test"
	"github.com/ik5/sf2pbx/sf2"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/writer"
)

func fixture(t testing.TB) *sf2.SoundFont {
	t.Helper()
	sf, err := sf2.Load(sf2test.Font())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return sf
}

func newEngine(t testing.TB, cfg Config) *Engine {
	t.Helper()
	e := NewEngine(cfg)
	e.Load(fixture(t))
	return e
}

func peak(buf []float32) float64 {
	p := 0.0
	for _, v := range buf {
		p = max(p, math.Abs(float64(v)))
	}
	return p
}

func mustOK(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Config
		want Config
	}{
		{Config{}, DefaultConfig()},
		{Config{SampleRate: 8000, Voices: 4, QueueSize: 100, BlockSize: 64, Gain: -1, Pan: 3},
			Config{SampleRate: 8000, Voices: 4, QueueSize: 128, BlockSize: 64, Gain: 1, Pan: 1}},
		{Config{QueueSize: 64, Pan: -0.5, Gain: 2},
			Config{SampleRate: 44100, Voices: 64, QueueSize: 64, BlockSize: 512, Gain: 2, Pan: -0.5}},
	}
	for _, tt := range tests {
		if got := tt.in.normalize(); got != tt.want {
			t.Errorf("normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestQueueOrderAndOverflow(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{QueueSize: 4})
	for key := range 4 {
		mustOK(t, e.NoteOn(60+key, 100))
	}
	if err := e.NoteOn(70, 100); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("NoteOn() on full queue = %v, want ErrQueueFull", err)
	}
	if got := e.DroppedCommands(); got != 1 {
		t.Errorf("DroppedCommands() = %d, want 1", got)
	}

	for i := range 4 {
		c, ok := e.queue.pop()
		if !ok || c.op != opNoteOn || int(c.a) != 60+i {
			t.Fatalf("pop() #%d = %+v, %v, want note %d", i, c, ok, 60+i)
		}
	}
	if _, ok := e.queue.pop(); ok {
		t.Error("pop() on empty queue succeeded")
	}
	if err := e.NoteOn(70, 100); err != nil {
		t.Errorf("NoteOn() after drain = %v", err)
	}
}

func TestControlValidation(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	tests := []struct {
		name string
		err  error
	}{
		{"key", e.NoteOn(128, 1)},
		{"velocity", e.NoteOn(60, 200)},
		{"note off", e.NoteOff(-1)},
		{"cc", e.ControlChange(128, 0)},
		{"bend", e.PitchBend(16384)},
		{"pressure", e.KeyPressure(60, 128)},
		{"gain", e.SetGain(math.NaN())},
		{"pan", e.SetPan(1.5)},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, ErrOutOfRange) {
			t.Errorf("%s: error = %v, want ErrOutOfRange", tt.name, tt.err)
		}
	}
	if e.Pending() != 0 {
		t.Errorf("Pending() = %d after rejected commands", e.Pending())
	}
}

func TestNoteOnOff(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{})
	left, right := make([]float32, 512), make([]float32, 512)

	if n := e.RenderBlock(left, right); n != 512 || peak(left) != 0 {
		t.Fatalf("idle block: n = %d, peak = %v", n, peak(left))
	}

	mustOK(t, e.NoteOn(69, 110))
	e.RenderBlock(left, right)
	if e.ActiveVoices() != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", e.ActiveVoices())
	}
	if peak(left) == 0 || peak(right) == 0 {
		t.Fatal("note rendered silence")
	}

	mustOK(t, e.NoteOn(69, 0))
	for i := 0; e.ActiveVoices() > 0; i++ {
		if i > 100 {
			t.Fatal("voice never finished after velocity 0 note-on")
		}
		e.RenderBlock(left, right)
	}
	e.RenderBlock(left, right)
	if peak(left) != 0 {
		t.Errorf("peak after release = %v, want 0", peak(left))
	}
}

func TestSustainPedal(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{})
	left, right := make([]float32, 512), make([]float32, 512)

	mustOK(t, e.ControlChange(64, 127))
	mustOK(t, e.NoteOn(72, 100))
	mustOK(t, e.NoteOff(72))
	for range 40 {
		e.RenderBlock(left, right)
	}
	if e.ActiveVoices() != 1 {
		t.Fatalf("sustained voice ended: ActiveVoices() = %d", e.ActiveVoices())
	}

	mustOK(t, e.ControlChange(64, 0))
	for range 40 {
		e.RenderBlock(left, right)
	}
	if e.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d after pedal up", e.ActiveVoices())
	}
}

func TestVoiceStealQuietest(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{Voices: 2})
	left, right := make([]float32, 256), make([]float32, 256)

	mustOK(t, e.NoteOn(70, 127))
	mustOK(t, e.NoteOn(72, 127))
	e.RenderBlock(left, right)
	mustOK(t, e.NoteOff(70))
	for range 4 {
		e.RenderBlock(left, right)
	}
	mustOK(t, e.NoteOn(74, 127))
	e.RenderBlock(left, right)

	keys := map[int]bool{}
	for i := range e.voices {
		if e.busy[i] {
			keys[e.voices[i].Key()] = true
		}
	}
	if !keys[72] || !keys[74] || keys[70] {
		t.Errorf("sounding keys = %v, want 72 and 74", keys)
	}
}

func TestVoiceStealOldestOnTie(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{Voices: 2})
	left, right := make([]float32, 256), make([]float32, 256)

	mustOK(t, e.NoteOn(70, 100))
	mustOK(t, e.NoteOn(70, 100))
	e.RenderBlock(left, right)
	mustOK(t, e.NoteOn(80, 100))
	e.RenderBlock(left, right)

	if got := e.voices[0].Key(); got != 80 {
		t.Errorf("voice 0 key = %d, want 80 (oldest stolen)", got)
	}
	if got := e.voices[1].Key(); got != 70 {
		t.Errorf("voice 1 key = %d, want 70", got)
	}
}

// sineFont builds a font with the looped fixture sine, one instrument made of
// zones and one preset 0:0 playing it with presetGens.
func sineFont(t testing.TB, name string, zones []writer.Zone, presetGens ...entity.Generator) *sf2.SoundFont {
	t.Helper()
	w := writer.New(entity.Info{BankName: name})
	if _, err := w.AddSample(writer.Sample{
		Name:        "Sine",
		Data:        sf2test.Sine(sf2test.SineFrames, 50),
		SampleRate:  sf2test.SampleRate,
		OriginalKey: 69,
		LoopStart:   sf2test.SineLoopStart,
		LoopEnd:     sf2test.SineLoopEnd,
	}); err != nil {
		t.Fatalf("AddSample() error = %v", err)
	}
	w.AddInstrument(name, zones...)
	w.AddPreset(name, 0, 0, writer.InstrumentZone(0, presetGens...))
	buf, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	sf, err := sf2.Load(buf)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return sf
}

func exclusiveFont(t testing.TB) *sf2.SoundFont {
	t.Helper()
	return sineFont(t, "HiHat", []writer.Zone{
		writer.SampleZone(0,
			writer.Range(generator.KeyRange, 0, 63),
			writer.Set(generator.SampleModes, 1),
			writer.Set(generator.ExclusiveClass, 1)),
		writer.SampleZone(0,
			writer.Range(generator.KeyRange, 64, 127),
			writer.Set(generator.SampleModes, 1),
			writer.Set(generator.ExclusiveClass, 1)),
	})
}

func TestExclusiveClass(t *testing.T) {
	t.Parallel()

	e := NewEngine(Config{})
	e.Load(exclusiveFont(t))
	left, right := make([]float32, 512), make([]float32, 512)

	mustOK(t, e.NoteOn(40, 100))
	e.RenderBlock(left, right)
	mustOK(t, e.NoteOn(80, 100))
	e.RenderBlock(left, right)
	e.RenderBlock(left, right)

	if got := e.ActiveVoices(); got != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", got)
	}
	for i := range e.voices {
		if e.busy[i] && e.voices[i].Key() != 80 {
			t.Errorf("voice %d plays key %d, want only 80", i, e.voices[i].Key())
		}
	}
}

func TestStopMutesWithinBlock(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{})
	left, right := make([]float32, 256), make([]float32, 256)

	mustOK(t, e.NoteOn(69, 100))
	mustOK(t, e.NoteOn(48, 100))
	e.RenderBlock(left, right)

	e.Stop()
	e.RenderBlock(left, right)
	if peak(left) != 0 || peak(right) != 0 || e.ActiveVoices() != 0 {
		t.Fatalf("stopped block peak = %v/%v, voices = %d", peak(left), peak(right), e.ActiveVoices())
	}
	mustOK(t, e.NoteOn(69, 100))
	e.RenderBlock(left, right)
	if peak(left) != 0 {
		t.Error("note started while stopped")
	}

	e.Start()
	mustOK(t, e.NoteOn(69, 100))
	e.RenderBlock(left, right)
	if peak(left) == 0 {
		t.Error("no sound after Start")
	}
}

func TestSelectPresetAndReload(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{})
	left, right := make([]float32, 256), make([]float32, 256)

	mustOK(t, e.SelectPreset(2))
	e.RenderBlock(left, right)
	if got := e.preset.Name(); got != "Drums" {
		t.Fatalf("preset = %q, want Drums", got)
	}

	mustOK(t, e.SelectPreset(99))
	e.RenderBlock(left, right)
	if got := e.preset.Name(); got != "Drums" {
		t.Errorf("invalid handle changed preset to %q", got)
	}

	mustOK(t, e.NoteOn(69, 100))
	e.RenderBlock(left, right)
	if e.ActiveVoices() != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", e.ActiveVoices())
	}

	e.Load(exclusiveFont(t))
	e.RenderBlock(left, right)
	if e.ActiveVoices() != 0 || peak(left) != 0 {
		t.Errorf("voices of previous font still sounding: %d", e.ActiveVoices())
	}
	if e.preset == nil || e.preset.Name() != "HiHat" {
		t.Errorf("preset after reload = %v, want HiHat", e.preset)
	}
}

func TestGainAndPan(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{})
	left, right := make([]float32, 1024), make([]float32, 1024)

	mustOK(t, e.SetPan(-1))
	mustOK(t, e.NoteOn(69, 100))
	e.RenderBlock(left, right)
	if peak(left) == 0 || peak(right) != 0 {
		t.Errorf("hard left pan: peaks %v/%v", peak(left), peak(right))
	}

	mustOK(t, e.SetGain(0))
	e.RenderBlock(left, right)
	if peak(left) != 0 {
		t.Errorf("zero gain peak = %v", peak(left))
	}
}

func TestMasterPan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pan         float64
		left, right float64
	}{
		{"centre", 0, 1, 1},
		{"hard left", -1, math.Sqrt2, 0},
		{"hard right", 1, 0, math.Sqrt2},
		{"half left", -0.5, math.Sin(3*math.Pi/8) * math.Sqrt2, math.Sin(math.Pi/8) * math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, r := masterPan(tt.pan)
			if math.Abs(l-tt.left) > 1e-9 || math.Abs(r-tt.right) > 1e-9 {
				t.Errorf("masterPan(%v) = (%v, %v), want (%v, %v)", tt.pan, l, r, tt.left, tt.right)
			}
		})
	}
	if l, r := masterPan(0); l != 1 || r != 1 {
		t.Errorf("masterPan(0) = (%v, %v), want exactly unity", l, r)
	}
}

func TestLayeredReleaseIsClamped(t *testing.T) {
	t.Parallel()

	// Instrument and preset releases sum far past the 8000 timecent limit.
	sf := sineFont(t, "Pad", []writer.Zone{
		writer.SampleZone(0,
			writer.Set(generator.SampleModes, 1),
			writer.Set(generator.ReleaseVolEnv, 32000)),
	}, writer.Set(generator.ReleaseVolEnv, 32000))

	e := NewEngine(Config{})
	e.Load(sf)
	left, right := make([]float32, 512), make([]float32, 512)

	mustOK(t, e.NoteOn(69, 100))
	e.RenderBlock(left, right)
	mustOK(t, e.NoteOff(69))
	for i := range 8 {
		e.RenderBlock(left, right)
		if e.ActiveVoices() != 1 {
			t.Fatalf("block %d after NoteOff: ActiveVoices() = %d, want 1", i, e.ActiveVoices())
		}
		if peak(left) == 0 {
			t.Fatalf("block %d after NoteOff is silent", i)
		}
	}
}

func TestAllNotesOff(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{})
	left, right := make([]float32, 512), make([]float32, 512)
	mustOK(t, e.ControlChange(64, 127))
	for _, k := range []int{60, 64, 67} {
		mustOK(t, e.NoteOn(k, 100))
	}
	e.RenderBlock(left, right)
	mustOK(t, e.AllNotesOff())
	for range 40 {
		e.RenderBlock(left, right)
	}
	if e.ActiveVoices() != 0 {
		t.Errorf("ActiveVoices() = %d after AllNotesOff", e.ActiveVoices())
	}

	mustOK(t, e.NoteOn(60, 100))
	e.RenderBlock(left, right)
	mustOK(t, e.ControlChange(120, 0))
	e.RenderBlock(left, right)
	if e.ActiveVoices() != 0 || peak(left) != 0 {
		t.Errorf("all sound off left %d voices", e.ActiveVoices())
	}
}

func TestReadSamples(t *testing.T) {
	t.Parallel()

	var src audio.Source = newEngine(t, Config{SampleRate: 22050, BlockSize: 100})
	e := src.(*Engine)
	if src.Channels() != 2 || src.SampleRate() != 22050 || src.BufSize() != 200 {
		t.Errorf("Channels, SampleRate, BufSize = %d, %d, %d", src.Channels(), src.SampleRate(), src.BufSize())
	}

	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("odd dst error = %v, want ErrInvalidDstSize", err)
	}

	mustOK(t, e.SetPan(1))
	mustOK(t, e.NoteOn(69, 100))
	dst := make([]float32, 2*350)
	n, err := src.ReadSamples(dst)
	if err != nil || n != len(dst) {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}
	var l, r float64
	for i := 0; i < n; i += 2 {
		l += math.Abs(float64(dst[i]))
		r += math.Abs(float64(dst[i+1]))
	}
	if l != 0 || r == 0 {
		t.Errorf("interleaving: left energy %v, right %v", l, r)
	}

	mustOK(t, src.Close())
	if n, err := src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after Close = %d, %v", n, err)
	}
	if err := e.NoteOn(60, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("NoteOn() after Close = %v, want ErrClosed", err)
	}
}

func TestConcurrentControl(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{QueueSize: 1024})
	left, right := make([]float32, 128), make([]float32, 128)

	var wg sync.WaitGroup
	for g := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := 40 + (g*7+i)%40
				_ = e.NoteOn(key, 90)
				_ = e.NoteOff(key)
				_ = e.PitchBend(i * 100)
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		e.RenderBlock(left, right)
		_ = e.SoundFont().Presets()
	}
	e.RenderBlock(left, right)
	if e.Pending() != 0 {
		t.Errorf("Pending() = %d after final block", e.Pending())
	}
}

func TestRenderBlockDoesNotAllocate(t *testing.T) {
	if testing.Short() {
		t.Skip("allocation counts are noisy in short mode")
	}
	e := newEngine(t, Config{Voices: 8})
	left, right := make([]float32, 256), make([]float32, 256)
	e.RenderBlock(left, right)

	key := 0
	allocs := testing.AllocsPerRun(200, func() {
		_ = e.NoteOn(40+key%40, 100)
		_ = e.ControlChange(1, key%128)
		e.RenderBlock(left, right)
		_ = e.NoteOff(40 + key%40)
		key++
	})
	if allocs != 0 {
		t.Errorf("control + RenderBlock allocates %v times", allocs)
	}
}

func BenchmarkRenderBlock(b *testing.B) {
	e := newEngine(b, Config{Voices: 32})
	left, right := make([]float32, 512), make([]float32, 512)
	for k := range 16 {
		_ = e.NoteOn(48+k, 100)
	}
	e.RenderBlock(left, right)

	b.ReportAllocs()
	for b.Loop() {
		e.RenderBlock(left, right)
	}
}
