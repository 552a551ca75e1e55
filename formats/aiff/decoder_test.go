// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sf2pbx/audio"
)

// fakePCM stands in for aiff.Decoder.
type fakePCM struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	err        error
	shortEOF   bool
}

func (m *fakePCM) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: m.sampleRate, NumChannels: m.channels}
}

func (m *fakePCM) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		if m.shortEOF {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "riff", input: []byte("RIFF\x04\x00\x00\x00WAVE")},
		{name: "garbage", input: bytes.Repeat([]byte{0x55}, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.input))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want %v", err, ErrNotAiffFile)
			}
		})
	}
}

func TestSourceBitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		depth int
		raw   int
		want  float32
	}{
		{depth: 8, raw: 64, want: 0.5},
		{depth: 8, raw: -128, want: -1},
		{depth: 16, raw: 16384, want: 0.5},
		{depth: 24, raw: -4194304, want: -0.5},
		{depth: 32, raw: 1 << 30, want: 0.5},
	}

	for _, tt := range tests {
		src := newSource(&fakePCM{sampleRate: 44100, channels: 1, samples: []int{tt.raw}}, tt.depth)
		buf := make([]float32, 4)
		n, err := src.ReadSamples(buf)
		if n != 1 || err != nil {
			t.Fatalf("%d bits: ReadSamples() = %d, %v, want 1, nil", tt.depth, n, err)
		}
		if math.Abs(float64(buf[0]-tt.want)) > 1e-6 {
			t.Errorf("%d bits: sample = %v, want %v", tt.depth, buf[0], tt.want)
		}
	}
}

func TestSourceReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(&fakePCM{sampleRate: 22050, channels: 2, samples: []int{1, 2, 3, 4, 5, 6}}, 16)
	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Errorf("format = %d Hz %d ch, want 22050 Hz 2 ch", src.SampleRate(), src.Channels())
	}
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want %v", err, audio.ErrInvalidDstSize)
	}

	buf := make([]float32, 4)
	var total int
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	if total != 6 {
		t.Errorf("read %d samples, want 6", total)
	}
	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after end = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestSourceShortReadEnds(t *testing.T) {
	t.Parallel()

	src := newSource(&fakePCM{sampleRate: 8000, channels: 1, samples: []int{1, 2}, shortEOF: true}, 16)
	buf := make([]float32, 8)
	if n, err := src.ReadSamples(buf); n != 2 || err != nil {
		t.Errorf("ReadSamples() = %d, %v, want 2, nil", n, err)
	}
	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestSourceError(t *testing.T) {
	t.Parallel()

	src := newSource(&fakePCM{sampleRate: 8000, channels: 1, err: io.ErrUnexpectedEOF}, 16)
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestSourceBufSize(t *testing.T) {
	t.Parallel()

	src := newSource(&fakePCM{sampleRate: 8000, channels: 1, samples: make([]int, 100)}, 16)
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d, want 4096", src.BufSize())
	}
	_, _ = src.ReadSamples(make([]float32, 64))
	if src.BufSize() != 64 {
		t.Errorf("BufSize() = %d, want 64", src.BufSize())
	}
}

func BenchmarkSourceReadSamples(b *testing.B) {
	samples := make([]int, 1<<16)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := newSource(&fakePCM{sampleRate: 44100, channels: 2, samples: samples}, 16)
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
