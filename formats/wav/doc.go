// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes PCM WAV files with github.com/go-audio/wav.
//
// # Supported Formats
//
// The Decoder accepts:
//   - integer PCM at 8, 16, 24 and 32 bits
//   - plain and WAVE_FORMAT_EXTENSIBLE headers
//   - any channel count and sample rate
//
// Float and compressed WAV files are rejected.
//
// # Decoding WAV Files
//
// Decode returns an audio.Source holding the whole file as interleaved
// float32 in [-1, 1]:
//
//	f, _ := os.Open("piano-c4.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//		// Handle error
//	}
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Inputs that cannot seek are buffered in memory first, since the go-audio
// decoder needs to seek between chunks.
//
// # Sampler Metadata
//
// The source also implements audio.SampleInfo. When the file has a smpl
// chunk, RootKey reports the MIDI unity note and Loops the sustain loops in
// frames:
//
//	if info, ok := src.(audio.SampleInfo); ok {
//		key, _ := info.RootKey()
//		loops := info.Loops()
//		...
//	}
//
// Loop ends are inclusive on disk and exclusive in audio.Loop. Loops that
// fall outside the data are clipped or dropped.
//
// # Writing WAV Files
//
// Encode writes a go-audio IntBuffer at 8, 16, 24 or 32 bits and EncodeFloat
// converts a float buffer first:
//
//	err := wav.EncodeFloat(out, buf, wav.Options{
//		BitDepth:   24,
//		Instrument: &wav.Instrument{RootKey: 60, Loops: loops},
//	})
//
// When Options.Instrument is set a smpl chunk is appended, which the
// go-audio encoder does not emit on its own. The file is assembled in memory
// so the writer does not need to seek. WriteWAV16 is a shortcut for mono
// 16-bit files.
//
// # Error Handling
//
// The package defines:
//   - ErrNotWavFile: the input is not a RIFF WAVE file
//   - ErrUnsupportedFormat: the format tag is not PCM
//   - ErrUnsupportedBitDepth: a sample size the codec does not handle
//   - ErrNoPCMData: the sample data cannot be read
//   - ErrInvalidBuffer: Encode got a buffer without format or channels
//
// Errors are wrapped; test them with errors.Is.
package wav
