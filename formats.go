// SPDX-License-Identifier: EPL-2.0

package sf2pbx

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/formats/aiff"
	"github.com/ik5/sf2pbx/formats/mp3"
	"github.com/ik5/sf2pbx/formats/vorbis"
	"github.com/ik5/sf2pbx/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder, keyed by
// format name and the usual file extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{}, ".wav", ".wave")
	reg.Register("aiff", aiff.Decoder{}, ".aiff", ".aif")
	reg.Register("mp3", mp3.Decoder{}, ".mp3")
	reg.Register("ogg vorbis", vorbis.Decoder{}, ".ogg", ".oga")
	return reg
}

// OpenFile decodes path with the decoder registered for its extension. The
// whole file is read into memory first.
func OpenFile(reg *audio.Registry, path string) (audio.Source, error) {
	dec, format, ok := reg.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, audio.ErrUnknownFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", path, format, err)
	}
	return src, nil
}

// ToMono16 decodes path and returns it as mono 16-bit PCM at rate.
func ToMono16(path string, rate int) ([]int16, error) {
	src, err := OpenFile(NewRegistry(), path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return audio.ResampleToMono16(src, rate, src.BufSize())
}
