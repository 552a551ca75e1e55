// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/sf2pbx/audio"
)

// fakePCM stands in for gomp3.Decoder. It hands out at most chunk bytes
// per Read so frames can be split across calls.
type fakePCM struct {
	rate  int
	data  []byte
	chunk int
	err   error
}

func (f *fakePCM) SampleRate() int { return f.rate }

func (f *fakePCM) Read(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if len(f.data) == 0 {
		return 0, io.EOF
	}
	if f.chunk > 0 && len(p) > f.chunk {
		p = p[:f.chunk]
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func pcmBytes(samples ...int16) []byte {
	var out []byte
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

func readAll(t *testing.T, src audio.Source, size int) []float32 {
	t.Helper()

	var got []float32
	buf := make([]float32, size)
	for range 1000 {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return got
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("ReadSamples() never reached io.EOF")
	return nil
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range [][]byte{nil, []byte("not an mp3 stream")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(input)); !errors.Is(err, ErrNotMP3File) {
			t.Errorf("Decode(%q) error = %v, want %v", input, err, ErrNotMP3File)
		}
	}
}

func TestSourceConversion(t *testing.T) {
	t.Parallel()

	src := newSource(&fakePCM{rate: 44100, data: pcmBytes(0, 16384, -16384, -32768, 32767, 1)})
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("format = %d Hz %d ch, want 44100 Hz 2 ch", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src, 8)
	want := []float32{0, 0.5, -0.5, -1, 32767.0 / 32768, 1.0 / 32768}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSourceSplitFrames(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 64)
	for i := range samples {
		samples[i] = int16(i * 100)
	}
	tests := []struct {
		name  string
		chunk int
		size  int
	}{
		{name: "odd chunks", chunk: 3, size: 4},
		{name: "half frames", chunk: 2, size: 8},
		{name: "large buffer", chunk: 0, size: 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSource(&fakePCM{rate: 8000, data: pcmBytes(samples...), chunk: tt.chunk})
			got := readAll(t, src, tt.size)
			if len(got) != len(samples) {
				t.Fatalf("read %d samples, want %d", len(got), len(samples))
			}
			for i, s := range samples {
				if want := float32(s) / 32768; got[i] != want {
					t.Errorf("sample %d = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestSourceErrors(t *testing.T) {
	t.Parallel()

	src := newSource(&fakePCM{rate: 8000, data: pcmBytes(1, 2)})
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(odd) error = %v, want %v", err, audio.ErrInvalidDstSize)
	}

	failing := newSource(&fakePCM{rate: 8000, err: io.ErrUnexpectedEOF})
	if _, err := failing.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func BenchmarkSourceReadSamples(b *testing.B) {
	data := make([]byte, 1<<16)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := newSource(&fakePCM{rate: 44100, data: data})
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
