// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/sf2pbx/audio"
)

// pcmReader is the part of oggvorbis.Reader the source needs.
type pcmReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	loops      []audio.Loop
}

var (
	_ audio.Source     = (*source)(nil)
	_ audio.SampleInfo = (*source)(nil)
)

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// RootKey is never known; Vorbis comments have no agreed field for it.
func (s *source) RootKey() (int, bool) { return 0, false }
func (s *source) Loops() []audio.Loop  { return s.loops }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	// oggvorbis counts interleaved values, not frames
	n, err := s.dec.Read(dst)
	n -= n % s.channels
	if err == io.EOF {
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
	if err != nil {
		return n, fmt.Errorf("vorbis pcm: %w", err)
	}
	return n, nil
}

// Decoder reads Ogg Vorbis streams through github.com/jfreymuth/oggvorbis.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	return newSource(dec, dec.CommentHeader().Comments), nil
}

func newSource(dec pcmReader, comments []string) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   max(dec.Channels(), 1),
		loops:      parseLoop(comments),
	}
}

// parseLoop reads the LOOPSTART plus LOOPLENGTH or LOOPEND comments used
// by game and tracker tools. Values are in frames.
func parseLoop(comments []string) []audio.Loop {
	fields := make(map[string]int, 3)
	for _, c := range comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || v < 0 {
			continue
		}
		fields[strings.ToUpper(strings.TrimSpace(key))] = v
	}

	start, ok := fields["LOOPSTART"]
	if !ok {
		return nil
	}
	end, ok := fields["LOOPEND"]
	if length, has := fields["LOOPLENGTH"]; has {
		end, ok = start+length, true
	}
	if !ok || end <= start {
		return nil
	}
	return []audio.Loop{{Start: start, End: end}}
}
