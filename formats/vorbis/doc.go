// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// # Decoding Ogg Vorbis Files
//
//	f, _ := os.Open("pad.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//	if errors.Is(err, vorbis.ErrNotVorbisFile) {
//		...
//	}
//
// The source streams interleaved float32 samples straight from the decoder
// with any channel count and sample rate.
//
// # Loop Metadata
//
// The source implements audio.SampleInfo. A loop is reported when the
// comment header carries LOOPSTART together with LOOPLENGTH or LOOPEND, all
// in frames:
//
//	LOOPSTART=44100
//	LOOPLENGTH=88200
//
// Keys are matched case-insensitively and LOOPLENGTH wins over LOOPEND.
// Vorbis has no root key field, so RootKey always reports false.
//
// # Error Handling
//
// ErrNotVorbisFile is joined with the oggvorbis error when the input is not
// an Ogg Vorbis stream.
package vorbis
