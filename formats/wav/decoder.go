// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/dsp"
)

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

// source serves a fully decoded WAV file. It also carries the smpl chunk
// contents so callers can recover the unity note and loops.
type source struct {
	data       []float32
	pos        int
	sampleRate int
	channels   int

	rootKey int
	hasRoot bool
	loops   []audio.Loop
}

var (
	_ audio.Source     = (*source)(nil)
	_ audio.SampleInfo = (*source)(nil)
)

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return nil }

func (s *source) RootKey() (int, bool) { return s.rootKey, s.hasRoot }
func (s *source) Loops() []audio.Loop  { return s.loops }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(dst, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// Decoder reads PCM WAV files (8, 16, 24 and 32 bit, including
// WAVE_FORMAT_EXTENSIBLE headers) through github.com/go-audio/wav.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	meta := gowav.NewDecoder(rs)
	if !meta.IsValidFile() {
		if err := meta.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}
	if f := meta.WavAudioFormat; f != formatPCM && f != formatExtensible {
		return nil, fmt.Errorf("format tag %#x: %w", f, ErrUnsupportedFormat)
	}
	depth := int(meta.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d bits: %w", depth, ErrUnsupportedBitDepth)
	}

	s := &source{
		sampleRate: int(meta.SampleRate),
		channels:   int(meta.NumChans),
	}

	// A damaged smpl chunk only costs the metadata.
	meta.ReadMetadata()
	if meta.Err() == nil && meta.Metadata != nil {
		s.sampler(meta.Metadata.SamplerInfo)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding wav data: %w", err)
	}
	buf, err := gowav.NewDecoder(rs).FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPCMData, err)
	}

	s.data = make([]float32, len(buf.Data)-len(buf.Data)%s.channels)
	for i := range s.data {
		v := buf.Data[i]
		if depth == 8 {
			// 8-bit WAV is unsigned
			s.data[i] = float32(v-128) / 128
			continue
		}
		s.data[i] = dsp.PCMToFloat(v, depth)
	}
	s.clipLoops(len(s.data) / s.channels)
	return s, nil
}

func (s *source) sampler(info *gowav.SamplerInfo) {
	if info == nil {
		return
	}
	if info.MIDIUnityNote <= 127 {
		s.rootKey, s.hasRoot = int(info.MIDIUnityNote), true
	}
	for _, l := range info.Loops {
		if l == nil || l.End < l.Start {
			continue
		}
		// smpl loop ends are inclusive
		s.loops = append(s.loops, audio.Loop{Start: int(l.Start), End: int(l.End) + 1})
	}
}

func (s *source) clipLoops(frames int) {
	kept := s.loops[:0]
	for _, l := range s.loops {
		l.End = min(l.End, frames)
		if l.Start < l.End {
			kept = append(kept, l)
		}
	}
	s.loops = kept
}

// seekable returns r itself when it can seek, otherwise reads it into
// memory. go-audio needs to revisit the header.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return &offsetReader{rs: rs}, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// offsetReader makes the current position of rs look like offset zero, so
// a file handed over mid-stream rewinds to where the WAV starts.
type offsetReader struct {
	rs   io.ReadSeeker
	base int64
	init bool
}

func (o *offsetReader) start() error {
	if o.init {
		return nil
	}
	base, err := o.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	o.base, o.init = base, true
	return nil
}

func (o *offsetReader) Read(p []byte) (int, error) {
	if err := o.start(); err != nil {
		return 0, err
	}
	return o.rs.Read(p)
}

func (o *offsetReader) Seek(offset int64, whence int) (int64, error) {
	if err := o.start(); err != nil {
		return 0, err
	}
	if whence == io.SeekStart {
		offset += o.base
	}
	pos, err := o.rs.Seek(offset, whence)
	return pos - o.base, err
}
