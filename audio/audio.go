// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 PCM in [-1, 1].
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels per frame (1 mono, 2 stereo).
	Channels() int
	// ReadSamples fills dst with interleaved samples and returns the number
	// of float32 values written, not frames. n == 0 with io.EOF ends the
	// stream.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	Close() error
}

// Loop is a sustain loop in frames, End exclusive.
type Loop struct {
	Start, End int
}

// SampleInfo is implemented by sources whose container carries instrument
// metadata, such as the WAV smpl chunk or Vorbis LOOPSTART comments.
type SampleInfo interface {
	// RootKey returns the MIDI key the recording was made at.
	RootKey() (key int, ok bool)
	// Loops returns the loops found in the container.
	Loops() []Loop
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format keys ("wav", "mp3", "ogg vorbis") and file
// extensions to decoders. It is safe for concurrent use.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format. Extensions (with or without the leading
// dot) route Lookup to the same decoder.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
	for _, ext := range exts {
		r.exts[normalizeExt(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Lookup returns the decoder registered for the extension of path.
func (r *Registry) Lookup(path string) (Decoder, string, bool) {
	ext := normalizeExt(filepath.Ext(path))

	r.mtx.Lock()
	defer r.mtx.Unlock()

	format, ok := r.exts[ext]
	if !ok {
		return nil, "", false
	}
	d, ok := r.codecs[format]
	return d, format, ok
}

// Formats returns the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for f := range r.codecs {
		out = append(out, f)
	}
	return out
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
