// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"io"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ik5/sf2pbx"
	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/writer"
)

// DefaultRootKey is used when neither the manifest nor the file names one.
const DefaultRootKey = 60

// Option configures Build.
type Option func(*builder)

// WithRegistry decodes samples with reg instead of sf2pbx.NewRegistry.
func WithRegistry(reg *audio.Registry) Option {
	return func(b *builder) {
		if reg != nil {
			b.reg = reg
		}
	}
}

// WithLogger reports dropped loops and resampling.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

type builder struct {
	dir   string
	depth int
	rate  int
	reg   *audio.Registry
	log   *log.Logger
	w     *writer.Writer
}

// Build decodes every sample of m and assembles the SoundFont. Relative
// sample paths are resolved against dir.
func Build(m Manifest, dir string, opts ...Option) (*writer.Writer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	info := entity.Info{
		BankName:  m.Name,
		Engineers: m.Engineers,
		Copyright: m.Copyright,
		Comment:   m.Comment,
		Tool:      "sf2pbx",
	}
	depth := 16
	if m.BitDepth == 24 {
		depth = 24
		info.Version = entity.Version{Major: 2, Minor: 4}
	}

	b := &builder{
		dir:   dir,
		depth: depth,
		rate:  m.SampleRate,
		reg:   sf2pbx.NewRegistry(),
		log:   log.New(io.Discard, "", 0),
		w:     writer.New(info),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, in := range m.Instruments {
		zones := make([]writer.Zone, 0, len(in.Samples))
		for _, s := range in.Samples {
			z, err := b.sample(s)
			if err != nil {
				return nil, errors.Wrapf(err, "instrument %q", in.Name)
			}
			zones = append(zones, z)
		}
		idx := b.w.AddInstrument(in.Name, zones...)
		b.w.AddPreset(in.Name, in.Bank, in.Program, writer.InstrumentZone(idx))
	}
	return b.w, nil
}

// BuildFile loads the manifest at path and builds it relative to the
// manifest's directory.
func BuildFile(path string, opts ...Option) (*writer.Writer, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return Build(m, filepath.Dir(path), opts...)
}

func (b *builder) path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(b.dir, file)
}

type decoded struct {
	data    []float32
	rate    int
	srcRate int
	rootKey int
	hasRoot bool
	loops   []audio.Loop
}

// decode reads file as mono at the bank rate. Loops come back in source
// frames.
func (b *builder) decode(file string) (decoded, error) {
	src, err := sf2pbx.OpenFile(b.reg, b.path(file))
	if err != nil {
		return decoded{}, errors.Wrapf(err, "sample %s", file)
	}
	defer src.Close()

	var d decoded
	if si, ok := src.(audio.SampleInfo); ok {
		d.rootKey, d.hasRoot = si.RootKey()
		d.loops = si.Loops()
	}

	srcRate := src.SampleRate()
	var s audio.Source = src
	if src.Channels() > 1 {
		s = audio.NewMonoMixer(s)
	}
	d.rate, d.srcRate = srcRate, srcRate
	if b.rate > 0 && b.rate != srcRate {
		b.log.Printf("resampling %s from %d to %d Hz", file, srcRate, b.rate)
		s = audio.NewResampler(s, b.rate)
		d.rate = b.rate
	}

	buf, err := audio.Collect(s)
	if err != nil {
		return decoded{}, errors.Wrapf(err, "sample %s", file)
	}
	if len(buf.Data) == 0 {
		return decoded{}, errors.Wrapf(ErrEmptySample, "sample %s", file)
	}
	d.data = buf.Data
	return d, nil
}

func (b *builder) sample(s Sample) (writer.Zone, error) {
	d, err := b.decode(s.File)
	if err != nil {
		return writer.Zone{}, err
	}

	name := s.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(s.File), filepath.Ext(s.File))
	}

	root := DefaultRootKey
	switch {
	case s.RootKey != nil:
		root = *s.RootKey
	case d.hasRoot:
		root = d.rootKey
	}

	var loop *audio.Loop
	switch {
	case s.Loop != nil:
		loop = &audio.Loop{Start: s.Loop.Start, End: s.Loop.End}
	case len(d.loops) > 0:
		loop = &d.loops[0]
	}

	ws := writer.Sample{
		Name:        name,
		SampleRate:  d.rate,
		OriginalKey: root,
	}
	ws.Data, ws.Low = b.pcm(d.data)

	looped := false
	if loop != nil {
		start, end, ok := scaleLoop(*loop, d.rate, d.srcRate, len(ws.Data))
		if ok {
			ws.LoopStart, ws.LoopEnd = start, end
			looped = true
		} else {
			b.log.Printf("sample %s: dropping loop %d-%d outside %d frames", s.File, loop.Start, loop.End, len(ws.Data))
		}
	}

	id, err := b.w.AddSample(ws)
	if err != nil {
		return writer.Zone{}, errors.Wrapf(err, "sample %s", s.File)
	}
	return writer.SampleZone(id, zoneGenerators(s, looped)...), nil
}

// pcm quantizes data to 16 bits, or 24 bits split into words and low bytes.
func (b *builder) pcm(data []float32) ([]int16, []byte) {
	words := make([]int16, len(data))
	if b.depth != 24 {
		for i, v := range data {
			words[i] = dsp.Float32ToInt16(v)
		}
		return words, nil
	}

	low := make([]byte, len(data))
	for i, v := range data {
		p := dsp.FloatToPCM(v, 24)
		words[i] = int16(p >> 8)
		low[i] = byte(p)
	}
	return words, low
}

// scaleLoop converts a loop from source frames to output frames.
func scaleLoop(l audio.Loop, rate, srcRate, frames int) (start, end int, ok bool) {
	start, end = l.Start, l.End
	if srcRate != rate {
		ratio := float64(rate) / float64(srcRate)
		start = int(math.Round(float64(start) * ratio))
		end = int(math.Round(float64(end) * ratio))
	}
	end = min(end, frames)
	return start, end, start >= 0 && end-start >= 2
}

func zoneGenerators(s Sample, looped bool) []entity.Generator {
	var gens []entity.Generator
	if s.Keys != nil {
		gens = append(gens, writer.Range(generator.KeyRange, s.Keys.Low, s.Keys.High))
	}
	if s.Velocity != nil {
		gens = append(gens, writer.Range(generator.VelRange, s.Velocity.Low, s.Velocity.High))
	}
	if looped {
		gens = append(gens, writer.Set(generator.SampleModes, 1))
	}
	if coarse := s.Tune / 100; coarse != 0 {
		gens = append(gens, writer.Set(generator.CoarseTune, coarse))
	}
	if fine := s.Tune % 100; fine != 0 {
		gens = append(gens, writer.Set(generator.FineTune, fine))
	}
	if s.Attenuation > 0 {
		gens = append(gens, writer.Set(generator.InitialAttenuation, int(math.Round(s.Attenuation*10))))
	}
	if s.Pan != 0 {
		gens = append(gens, writer.Set(generator.Pan, int(math.Round(s.Pan*10))))
	}
	if s.Release > 0 {
		gens = append(gens, writer.Set(generator.ReleaseVolEnv, seconds(s.Release)))
	}
	return gens
}

// seconds converts a duration to timecents, clamped to the generator range.
func seconds(sec float64) int {
	tc := 1200 * math.Log2(sec)
	return int(math.Round(dsp.Clamp(tc, -12000, 8000)))
}
