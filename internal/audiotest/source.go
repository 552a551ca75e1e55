// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources for tests. Sources
// satisfy audio.Source structurally so the package has no dependencies.
package audiotest

import (
	"io"
	"math"
)

// Wave returns the value of channel ch at frame.
type Wave func(frame, ch int) float32

// Source generates a fixed number of frames from a Wave.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Wave

	chunk    int
	err      error
	errAfter int
	closed   bool
}

// New returns a source of frames frames.
func New(rate, channels, frames int, wave Wave) *Source {
	return &Source{rate: rate, channels: channels, frames: frames, wave: wave, errAfter: -1}
}

func Silence(rate, channels, frames int) *Source {
	return Constant(rate, channels, frames, 0)
}

func Constant(rate, channels, frames int, v float32) *Source {
	return New(rate, channels, frames, func(int, int) float32 { return v })
}

// Sine generates the same sine wave on every channel.
func Sine(rate, channels, frames int, freq float64) *Source {
	return New(rate, channels, frames, func(f, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(f) / float64(rate)))
	})
}

// Channels generates the constant vals[ch] on channel ch.
func Channels(rate, frames int, vals ...float32) *Source {
	return New(rate, len(vals), frames, func(_, ch int) float32 { return vals[ch] })
}

// Ramp generates frame/frames, rising from 0 toward 1.
func Ramp(rate, frames int) *Source {
	return New(rate, 1, frames, func(f, _ int) float32 { return float32(f) / float32(frames) })
}

// Chunked limits every read to at most n frames.
func (s *Source) Chunked(n int) *Source {
	s.chunk = n
	return s
}

// FailAfter makes reads fail with err once frames frames were served.
func (s *Source) FailAfter(frames int, err error) *Source {
	s.err, s.errAfter = err, frames
	return s
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Reset rewinds the source.
func (s *Source) Reset() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.errAfter >= 0 && s.pos >= s.errAfter {
		return 0, s.err
	}
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	if s.chunk > 0 {
		n = min(n, s.chunk)
	}
	if s.errAfter >= 0 {
		n = min(n, s.errAfter-s.pos)
	}
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n
	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
