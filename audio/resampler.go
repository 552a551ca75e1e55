// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/sf2pbx/dsp"
)

// maxEmptyReads bounds how often a source may return no data without an
// error before the resampler gives up.
const maxEmptyReads = 100

// Resampler converts src to another sample rate with cubic interpolation,
// preserving the channel count. When downsampling the input passes through
// a one-pole low-pass at the destination Nyquist frequency.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// window holds frames t-1, t, t+1, t+2; output is interpolated between
	// window[1] and window[2] at pos.
	window  [4][]float32
	real    [4]bool
	pos     float64
	started bool

	buf            []float32
	bufPos, bufLen int
	eof            bool

	filter bool
	warm   bool
	alpha  float32
	state  []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		channels: channels,
		buf:      make([]float32, channels*1024),
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	if dstRate > 0 && src.SampleRate() > 0 {
		r.step = float64(src.SampleRate()) / float64(dstRate)
		if r.step > 1 {
			w := math.Pi * float64(dstRate) / float64(src.SampleRate())
			r.filter = true
			r.alpha = float32(w / (1 + w))
		}
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler source: %w", err)
	}
	return nil
}

// pull reads the next source frame into frame and reports whether one was
// available.
func (r *Resampler) pull(frame []float32) (bool, error) {
	for empty := 0; r.bufPos >= r.bufLen; empty++ {
		if r.eof {
			return false, nil
		}
		if empty == maxEmptyReads {
			return false, io.ErrNoProgress
		}
		n, err := r.src.ReadSamples(r.buf)
		r.bufPos, r.bufLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("resampler source: %w", err)
		}
	}

	copy(frame, r.buf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels
	if r.filter {
		if !r.warm {
			// Start at the first value to avoid a fade-in.
			copy(r.state, frame)
			r.warm = true
		}
		for c := range frame {
			r.state[c] += r.alpha * (frame[c] - r.state[c])
			frame[c] = r.state[c]
		}
	}
	return true, nil
}

// fill loads window[i] from the source or repeats window[i-1] at the end.
func (r *Resampler) fill(i int) error {
	ok, err := r.pull(r.window[i])
	if err != nil {
		return err
	}
	r.real[i] = ok
	if !ok {
		copy(r.window[i], r.window[i-1])
	}
	return nil
}

func (r *Resampler) prime() error {
	r.started = true
	ok, err := r.pull(r.window[1])
	if err != nil || !ok {
		return err
	}
	r.real[1] = true
	copy(r.window[0], r.window[1])
	r.real[0] = true
	if err := r.fill(2); err != nil {
		return err
	}
	return r.fill(3)
}

func (r *Resampler) shift() error {
	w := r.window[0]
	r.window[0], r.window[1], r.window[2], r.window[3] = r.window[1], r.window[2], r.window[3], w
	r.real[0], r.real[1], r.real[2] = r.real[1], r.real[2], r.real[3]
	return r.fill(3)
}

// ReadSamples writes resampled frames into dst, whose length must be a
// multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if r.step <= 0 {
		return 0, ErrInvalidRate
	}
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.started {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames && r.real[1] {
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = dsp.CubicInterpolate(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], r.pos)
		}
		written++

		r.pos += r.step
		for r.pos >= 1 && r.real[1] {
			r.pos--
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}
	}
	if !r.real[1] {
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}
