// SPDX-License-Identifier: EPL-2.0

// Package bank builds SoundFont files from ordinary audio recordings.
//
// A bank is described by a YAML manifest. Every instrument becomes one SF2
// instrument plus a preset at its bank and program; every sample is a file in
// any format the sf2pbx registry decodes (WAV, AIFF, MP3, Ogg Vorbis):
//
//	name: Upright
//	sample_rate: 44100
//	instruments:
//	  - name: Bass
//	    program: 32
//	    samples:
//	      - file: e1.wav
//	        keys: {low: 0, high: 35}
//	      - file: a1.wav
//	        root_key: 33
//	        keys: {low: 36, high: 127}
//	        loop: {start: 4410, end: 39690}
//	        release: 0.4
//
// Samples are mixed down to mono and resampled to sample_rate when it is set.
// Root keys and loops stored in the file (the WAV smpl chunk, Vorbis
// LOOPSTART comments) are used unless the manifest overrides them.
package bank
