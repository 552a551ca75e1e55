// SPDX-License-Identifier: EPL-2.0

// Package sf2pbx loads SoundFont 2 banks and plays them.
//
// The work is split across subpackages:
//
//   - sf2 parses a SoundFont into immutable presets, instruments and zones.
//   - sf2/writer builds SoundFont files, used by the bank builder and tests.
//   - render is the real-time sampler: a lock-free command queue, a fixed
//     voice pool and stereo block rendering that never allocates.
//   - audio and formats/... decode WAV, AIFF, MP3 and Ogg Vorbis into a
//     common Source and resample them.
//   - bank turns a YAML manifest of audio files into a SoundFont.
//   - config holds the YAML settings shared by the commands under cmd/.
//
// This package ties them together for offline use:
//
//	sf, _ := sf2.LoadFile("piano.sf2")
//	buf, err := sf2pbx.RenderNote(sf, sf2pbx.NoteOptions{Key: 60, Velocity: 100, Hold: time.Second})
//	f, _ := os.Create("c4.wav")
//	err = sf2pbx.WriteWAV(f, buf, 16)
//
// RenderMIDI plays a Standard MIDI File the same way, one engine per MIDI
// channel. NewRegistry and OpenFile decode any supported audio file by
// extension, and ToMono16 reduces one to mono 16-bit PCM.
package sf2pbx
