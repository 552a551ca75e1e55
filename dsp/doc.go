// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the numeric building blocks used by the SoundFont renderer.
//
// Every conversion that would otherwise call a transcendental function per
// sample (sin, pow, log10) is served from a lookup table built once when the
// package is initialised. The render path only indexes into these tables.
//
// # Tables
//
//   - Pan: 1001 entries, an equal-power law over pan positions -500..500
//     (0.1% units, as used by the SF2 pan generator).
//   - Sine: a quarter wave of 4096 entries; Sin folds the other quadrants.
//   - Cents: a 2401 entry frequency scale for -1200..1200 cents, a 1200
//     entry partial table for absolute cents, and a 1200 entry power of two
//     table used for timecents.
//   - Attenuation: 1441 entries converting centibels (0..1440) into gain.
//   - Cubic: 1024 rows of 4-point interpolation weights.
//   - Controller curves: 128 entry tables for the linear, concave, convex
//     and switched MIDI controller transforms.
//
// # Conversions
//
//	hz := dsp.CentsToFrequency(6900)        // 440 Hz
//	secs := dsp.TimecentsToSeconds(-1200)   // 0.5 s
//	gain := dsp.AttenuationToGain(60)       // ~0.5
//	left, right := dsp.PanLR(0)             // ~0.707, ~0.707
//
// # Interpolation
//
// CubicInterpolate evaluates a 4-point, 4th-order interpolator from the
// weight table:
//
//	y := dsp.CubicInterpolate(x0, x1, x2, x3, 0.25)
//
// # PCM
//
// Float32ToInt16 and FloatToPCM convert rendered float samples into integer
// PCM for writers.
package dsp
