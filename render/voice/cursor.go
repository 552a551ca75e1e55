// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"math"

	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2"
)

// cursor walks a sample inside Bounds at a fractional position. Every read
// stays inside [Start, End), which NewBounds keeps inside the pool.
type cursor struct {
	pcm     sf2.PCM
	b       Bounds
	pos     float64
	wrapped bool
	done    bool
}

func (c *cursor) reset(pcm sf2.PCM, b Bounds) {
	*c = cursor{pcm: pcm, b: b, pos: float64(b.Start)}
	c.done = b.Frames() == 0
}

// Pos returns the current read position.
func (c *cursor) Pos() float64 { return c.pos }

// at reads frame i, wrapping inside the loop when looping and clamping to the
// playable range otherwise.
func (c *cursor) at(i int, looping bool) float32 {
	if looping {
		n := c.b.LoopEnd - c.b.LoopStart
		switch {
		case i >= c.b.LoopEnd:
			i -= n
		case i < c.b.LoopStart && c.wrapped:
			i += n
		}
	}
	i = dsp.Clamp(i, c.b.Start, c.b.End-1)
	return c.pcm.At(i)
}

// next returns the interpolated value at the current position and advances
// by increment frames.
func (c *cursor) next(increment float64, looping bool) float32 {
	if c.done {
		return 0
	}
	looping = looping && c.b.HasLoop()

	i := int(c.pos)
	frac := c.pos - float64(i)
	var v float32
	if !looping && (i == c.b.Start || i+2 >= c.b.End) {
		v = dsp.LinearInterpolate(c.at(i, false), c.at(i+1, false), frac)
	} else {
		v = dsp.CubicInterpolate(c.at(i-1, looping), c.at(i, looping), c.at(i+1, looping), c.at(i+2, looping), frac)
	}

	c.pos += increment
	if looping && c.pos >= float64(c.b.LoopEnd) {
		n := float64(c.b.LoopEnd - c.b.LoopStart)
		c.pos = float64(c.b.LoopStart) + math.Mod(c.pos-float64(c.b.LoopStart), n)
		c.wrapped = true
	}
	if c.pos >= float64(c.b.End) {
		c.done = true
	}
	return v
}
