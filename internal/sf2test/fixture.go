// SPDX-License-Identifier: EPL-2.0

// Package sf2test builds small SoundFont files for tests and corrupts them in
// controlled ways.
package sf2test

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2/chunk"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/modulator"
	"github.com/ik5/sf2pbx/sf2/writer"
)

// SampleRate of every fixture sample.
const SampleRate = 22050

// Fixture sample indices.
const (
	SampleSine = iota
	SampleSaw
)

// Fixture frame counts and loop points (relative to the sample start).
const (
	SineFrames    = 2205
	SineLoopStart = 205
	SineLoopEnd   = 2105
	SawFrames     = 1000
)

// Sine returns frames of a full-scale sine with the given period.
func Sine(frames, period int) []int16 {
	out := make([]int16, frames)
	for i := range out {
		out[i] = int16(math.Round(32000 * math.Sin(2*math.Pi*float64(i)/float64(period))))
	}
	return out
}

// Saw returns frames of a falling sawtooth with the given period.
func Saw(frames, period int) []int16 {
	out := make([]int16, frames)
	for i := range out {
		out[i] = int16(16000 - 32000*(i%period)/period)
	}
	return out
}

// Writer returns a writer populated with the standard fixture:
//
//	samples:     0 "Sine" (looped, root 69), 1 "Saw" (one shot, root 60)
//	instruments: 0 "Split" global zone + keys 0-59 Saw, 60-127 Sine looped
//	             1 "Layers" velocity 0-63 Saw, 64-127 Sine, both looped
//	presets:     "Drums" 128:0, "Layers" 0:1, "Split" 0:0 (added unsorted)
func Writer() *writer.Writer {
	w := writer.New(entity.Info{BankName: "Fixture Bank", Engineers: "sf2test", Tool: "sf2test"})

	_, _ = w.AddSample(writer.Sample{
		Name:        "Sine",
		Data:        Sine(SineFrames, 50),
		SampleRate:  SampleRate,
		OriginalKey: 69,
		LoopStart:   SineLoopStart,
		LoopEnd:     SineLoopEnd,
	})
	_, _ = w.AddSample(writer.Sample{
		Name:        "Saw",
		Data:        Saw(SawFrames, 100),
		SampleRate:  SampleRate,
		OriginalKey: 60,
		Correction:  -10,
	})

	w.AddInstrument("Split",
		writer.Zone{
			Generators: []entity.Generator{
				writer.Set(generator.InitialAttenuation, 60),
				writer.Set(generator.ReleaseVolEnv, -3600),
			},
			Modulators: []modulator.Modulator{{
				Source:      modulator.CCSource(7, dsp.CurveConcave, true, false),
				Destination: uint16(generator.InitialAttenuation),
				Amount:      480,
			}},
		},
		writer.SampleZone(SampleSaw, writer.Range(generator.KeyRange, 0, 59)),
		writer.SampleZone(SampleSine,
			writer.Range(generator.KeyRange, 60, 127),
			writer.Set(generator.SampleModes, 1),
		),
	)
	w.AddInstrument("Layers",
		writer.SampleZone(SampleSaw,
			writer.Range(generator.VelRange, 0, 63),
			writer.Set(generator.SampleModes, 1),
		),
		writer.SampleZone(SampleSine,
			writer.Range(generator.VelRange, 64, 127),
			writer.Set(generator.SampleModes, 1),
			writer.Set(generator.Pan, 250),
		),
	)

	w.AddPreset("Drums", 128, 0, writer.InstrumentZone(0))
	w.AddPreset("Layers", 0, 1, writer.InstrumentZone(1))
	w.AddPreset("Split", 0, 0,
		writer.Zone{
			Generators: []entity.Generator{writer.Set(generator.CoarseTune, 0)},
			Modulators: []modulator.Modulator{{
				Source:      modulator.CCSource(74, dsp.CurveLinear, false, false),
				Destination: uint16(generator.InitialFilterFc),
				Amount:      1200,
			}},
		},
		writer.InstrumentZone(0, writer.Set(generator.FineTune, 10)),
	)
	return w
}

// Font returns the encoded standard fixture.
func Font() []byte {
	buf, err := Writer().Bytes()
	if err != nil {
		panic(fmt.Sprintf("sf2test: %v", err))
	}
	return buf
}

// Locate returns the absolute offset of the payload of the first chunk tagged
// tag anywhere below the RIFF root.
func Locate(buf []byte, tag chunk.Tag) (int, error) {
	root, err := chunk.Parse(buf)
	if err != nil {
		return 0, err
	}
	var find func(c chunk.Chunk) (int, bool)
	find = func(c chunk.Chunk) (int, bool) {
		for child, err := range c.Chunks().All() {
			if err != nil {
				return 0, false
			}
			if child.Tag() == tag {
				return child.Offset(), true
			}
			if child.IsList() {
				if off, ok := find(child); ok {
					return off, true
				}
			}
		}
		return 0, false
	}
	off, ok := find(root)
	if !ok {
		return 0, fmt.Errorf("%s: %w", tag, chunk.ErrNotFound)
	}
	return off, nil
}

// Patch16 returns a copy of buf with the little-endian uint16 at byte offset
// field of record index of the chunk tagged tag set to v.
func Patch16(buf []byte, tag chunk.Tag, size, index, field int, v uint16) ([]byte, error) {
	off, err := Locate(buf, tag)
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), buf...)
	binary.LittleEndian.PutUint16(out[off+index*size+field:], v)
	return out, nil
}

// Truncate returns a copy of the first n bytes of buf.
func Truncate(buf []byte, n int) []byte {
	return append([]byte(nil), buf[:n]...)
}
