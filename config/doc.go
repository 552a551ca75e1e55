// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration used by the sf2 command line
// tools.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default:
//
//	soundfont: FluidR3_GM.sf2
//	engine:
//	  sample_rate: 48000
//	  voices: 128
//	preset:
//	  program: 19
//	output:
//	  path: organ.wav
//	  bit_depth: 24
//
// Flags given on the command line override the file.
package config
