// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sf2pbx/dsp"
)

const collectChunk = 4096

// Collect drains src into a go-audio buffer. The source is not closed.
func Collect(src Source) (*goaudio.Float32Buffer, error) {
	channels := max(src.Channels(), 1)
	out := &goaudio.Float32Buffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: src.SampleRate()},
		SourceBitDepth: 32,
	}
	chunk := make([]float32, collectChunk-collectChunk%channels)
	for empty := 0; ; {
		n, err := src.ReadSamples(chunk)
		out.Data = append(out.Data, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("collect: %w", err)
		}
		if n == 0 {
			if empty++; empty == maxEmptyReads {
				return out, fmt.Errorf("collect: %w", io.ErrNoProgress)
			}
		}
	}
}

// SliceSource serves interleaved samples held in memory.
type SliceSource struct {
	data     []float32
	rate     int
	channels int
	pos      int
}

// NewSliceSource wraps interleaved data. It does not copy data.
func NewSliceSource(data []float32, sampleRate, channels int) *SliceSource {
	return &SliceSource{data: data, rate: sampleRate, channels: max(channels, 1)}
}

func (s *SliceSource) SampleRate() int { return s.rate }
func (s *SliceSource) Channels() int   { return s.channels }
func (s *SliceSource) BufSize() int    { return collectChunk }
func (s *SliceSource) Close() error    { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	n := copy(dst, s.data[s.pos:])
	s.pos += n
	if s.pos >= len(s.data) {
		return n, io.EOF
	}
	return n, nil
}

// ResampleToMono16 resamples src to targetRate, averages it to mono and
// converts the result to 16-bit PCM.
//
//	src, _ := wav.Decoder{}.Decode(f)
//	pcm, err := audio.ResampleToMono16(src, 8000, 4096)
func ResampleToMono16(src Source, targetRate int, bufferSize int) ([]int16, error) {
	if targetRate <= 0 {
		return nil, ErrInvalidRate
	}
	mono := NewMonoMixer(NewResampler(src, targetRate))
	buf := make([]float32, max(bufferSize, 1))

	var pcm []int16
	for {
		n, err := mono.ReadSamples(buf)
		for _, x := range buf[:n] {
			pcm = append(pcm, dsp.Float32ToInt16(x))
		}
		if errors.Is(err, io.EOF) {
			return pcm, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resample to mono16: %w", err)
		}
	}
}
