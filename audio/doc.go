// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample-stream plumbing shared by the decoders,
// the bank builder and the renderer.
//
// # Source
//
// Source is a pull stream of interleaved float32 samples in [-1, 1].
// ReadSamples counts values, not frames, and len(dst) must be a multiple
// of Channels. Decoders under formats/ return Sources; so does
// render.Engine, which makes a live synthesizer usable anywhere a file
// would be.
//
// Containers with instrument metadata (the WAV smpl chunk, Vorbis loop
// comments) also implement SampleInfo.
//
// # Processing
//
// Resampler converts the rate with cubic interpolation and a one-pole
// anti-alias filter when downsampling. MonoMixer averages channels.
// Collect drains any Source into a go-audio Float32Buffer, and
// ResampleToMono16 chains all of it into 16-bit PCM:
//
//	src, _ := wav.Decoder{}.Decode(f)
//	pcm, err := audio.ResampleToMono16(src, 22050, 4096)
//
// # Registry
//
// Registry maps format names and file extensions to Decoders and is safe
// for concurrent use:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, ".wav")
//	dec, format, ok := reg.Lookup("kick.wav")
package audio
