// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// # Decoding MP3 Files
//
//	f, _ := os.Open("loop.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if errors.Is(err, mp3.ErrNotMP3File) {
//		...
//	}
//	mono := audio.NewMonoMixer(src)
//
// go-mp3 always produces 16-bit stereo, so the source reports two channels
// even for mono streams; wrap it in audio.NewMonoMixer when one channel is
// wanted. The sample rate is the one of the first frame.
//
// # Streaming
//
// The source decodes as it is read and never holds the whole file. Partial
// frames returned by the decoder are carried over to the next read so
// channels never swap.
//
// # Error Handling
//
// ErrNotMP3File is joined with the go-mp3 error when the input has no
// decodable MPEG audio frame. Read errors after a successful Decode are
// returned as they are.
package mp3
