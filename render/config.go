// SPDX-License-Identifier: EPL-2.0

package render

import (
	"io"
	"log"
	"math/bits"
)

// Config sizes the engine. Everything is allocated once in NewEngine.
type Config struct {
	// SampleRate of the rendered output in Hz.
	SampleRate int
	// Voices is the size of the voice pool.
	Voices int
	// QueueSize is the capacity of the command ring, rounded up to a power
	// of two.
	QueueSize int
	// BlockSize is the largest number of frames ReadSamples renders at once.
	BlockSize int
	// Gain is the initial output gain, 1 is unity. Zero selects unity; mute
	// with SetGain(0).
	Gain float64
	// Pan is the output balance in [-1, 1].
	Pan float64
}

// DefaultConfig returns a configuration suitable for interactive playback.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Voices:     64,
		QueueSize:  256,
		BlockSize:  512,
		Gain:       1,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.Voices <= 0 {
		c.Voices = d.Voices
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.QueueSize&(c.QueueSize-1) != 0 {
		c.QueueSize = 1 << bits.Len(uint(c.QueueSize))
	}
	if c.BlockSize <= 0 {
		c.BlockSize = d.BlockSize
	}
	if c.Gain <= 0 {
		c.Gain = d.Gain
	}
	c.Pan = max(-1, min(c.Pan, 1))
	return c
}

// Option configures optional engine behaviour.
type Option func(*Engine)

// WithLogger sets the logger used on control paths such as Load and dropped
// commands. The render path never logs.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
