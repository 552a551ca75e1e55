// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/dsp"
)

// Instrument is written to the smpl chunk.
type Instrument struct {
	RootKey int
	Loops   []audio.Loop
}

// Options control Encode. A zero BitDepth means 16.
type Options struct {
	BitDepth   int
	Instrument *Instrument
}

// Encode writes buf as a PCM WAV file. buf holds signed samples at
// opts.BitDepth, 8-bit included.
func Encode(w io.Writer, buf *goaudio.IntBuffer, opts Options) error {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return ErrInvalidBuffer
	}
	depth := opts.BitDepth
	if depth == 0 {
		depth = 16
	}
	switch depth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%d bits: %w", depth, ErrUnsupportedBitDepth)
	}

	if depth == 8 {
		shifted := make([]int, len(buf.Data))
		for i, v := range buf.Data {
			shifted[i] = v + 128
		}
		buf = &goaudio.IntBuffer{Format: buf.Format, Data: shifted, SourceBitDepth: 8}
	}

	var f memFile
	enc := gowav.NewEncoder(&f, buf.Format.SampleRate, depth, buf.Format.NumChannels, formatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}

	out := f.buf
	if opts.Instrument != nil {
		out = appendSampler(out, buf.Format.SampleRate, opts.Instrument)
	}
	_, err := w.Write(out)
	return err
}

// EncodeFloat quantizes buf to opts.BitDepth and writes it like Encode.
func EncodeFloat(w io.Writer, buf *goaudio.Float32Buffer, opts Options) error {
	if buf == nil || buf.Format == nil {
		return ErrInvalidBuffer
	}
	depth := opts.BitDepth
	if depth == 0 {
		depth = 16
	}
	ints := &goaudio.IntBuffer{Format: buf.Format, Data: make([]int, len(buf.Data)), SourceBitDepth: depth}
	for i, x := range buf.Data {
		ints.Data[i] = dsp.FloatToPCM(x, depth)
	}
	return Encode(w, ints, opts)
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	return Encode(w, buf, Options{BitDepth: 16})
}

// appendSampler adds a smpl chunk to an encoded file and fixes the RIFF
// size. go-audio/wav only writes INFO metadata.
func appendSampler(file []byte, sampleRate int, in *Instrument) []byte {
	if len(file)%2 == 1 {
		file = append(file, 0)
	}
	size := 36 + 24*len(in.Loops)
	file = append(file, 's', 'm', 'p', 'l')
	file = binary.LittleEndian.AppendUint32(file, uint32(size))
	file = binary.LittleEndian.AppendUint32(file, 0) // manufacturer
	file = binary.LittleEndian.AppendUint32(file, 0) // product
	period := uint32(0)
	if sampleRate > 0 {
		period = uint32(1e9 / sampleRate)
	}
	file = binary.LittleEndian.AppendUint32(file, period)
	file = binary.LittleEndian.AppendUint32(file, uint32(in.RootKey))
	file = binary.LittleEndian.AppendUint32(file, 0) // pitch fraction
	file = binary.LittleEndian.AppendUint32(file, 0) // SMPTE format
	file = binary.LittleEndian.AppendUint32(file, 0) // SMPTE offset
	file = binary.LittleEndian.AppendUint32(file, uint32(len(in.Loops)))
	file = binary.LittleEndian.AppendUint32(file, 0) // sampler data
	for i, l := range in.Loops {
		file = binary.LittleEndian.AppendUint32(file, uint32(i))
		file = binary.LittleEndian.AppendUint32(file, 0) // forward
		file = binary.LittleEndian.AppendUint32(file, uint32(l.Start))
		file = binary.LittleEndian.AppendUint32(file, uint32(max(l.End-1, l.Start)))
		file = binary.LittleEndian.AppendUint32(file, 0) // fraction
		file = binary.LittleEndian.AppendUint32(file, 0) // play count
	}
	binary.LittleEndian.PutUint32(file[4:8], uint32(len(file)-8))
	return file
}

// memFile is an in-memory io.WriteSeeker for the go-audio encoder, which
// seeks back to patch chunk sizes.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += n
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(m.pos) + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative position %d", pos)
	}
	m.pos = int(pos)
	return pos, nil
}
