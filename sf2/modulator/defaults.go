// SPDX-License-Identifier: EPL-2.0

package modulator

import (
	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2/generator"
)

var defaults = [...]Modulator{
	{
		Source:      GeneralSource(GeneralNoteOnVelocity, dsp.CurveConcave, true, false),
		Destination: uint16(generator.InitialAttenuation),
		Amount:      960,
	},
	{
		Source:      GeneralSource(GeneralNoteOnVelocity, dsp.CurveLinear, true, false),
		Destination: uint16(generator.InitialFilterFc),
		Amount:      -2400,
	},
	{
		Source:      GeneralSource(GeneralChannelPressure, dsp.CurveLinear, false, false),
		Destination: uint16(generator.VibLFOToPitch),
		Amount:      50,
	},
	{
		Source:      CCSource(1, dsp.CurveLinear, false, false),
		Destination: uint16(generator.VibLFOToPitch),
		Amount:      50,
	},
	{
		Source:      CCSource(7, dsp.CurveConcave, true, false),
		Destination: uint16(generator.InitialAttenuation),
		Amount:      960,
	},
	{
		Source:      CCSource(10, dsp.CurveLinear, false, true),
		Destination: uint16(generator.Pan),
		Amount:      1000,
	},
	{
		Source:      CCSource(11, dsp.CurveConcave, true, false),
		Destination: uint16(generator.InitialAttenuation),
		Amount:      960,
	},
	{
		Source:      CCSource(91, dsp.CurveLinear, false, false),
		Destination: uint16(generator.ReverbEffectsSend),
		Amount:      200,
	},
	{
		Source:      CCSource(93, dsp.CurveLinear, false, false),
		Destination: uint16(generator.ChorusEffectsSend),
		Amount:      200,
	},
	{
		Source:       GeneralSource(GeneralPitchWheel, dsp.CurveLinear, false, true),
		Destination:  uint16(generator.FineTune),
		Amount:       12700,
		AmountSource: GeneralSource(GeneralPitchWheelSensitivity, dsp.CurveLinear, false, false),
	},
}

// Defaults returns a copy of the SoundFont 2.04 default modulators that every
// instrument zone starts with.
func Defaults() []Modulator {
	out := make([]Modulator, len(defaults))
	copy(out, defaults[:])
	return out
}

// AppendDefaults appends the default modulators to dst.
func AppendDefaults(dst []Modulator) []Modulator {
	return append(dst, defaults[:]...)
}

// Merge overlays src onto dst: a modulator in src replaces the one in dst with
// the same identity, others are appended. dst is modified and returned.
func Merge(dst []Modulator, src ...Modulator) []Modulator {
outer:
	for _, m := range src {
		for i := range dst {
			if dst[i].SameIdentity(m) {
				dst[i] = m
				continue outer
			}
		}
		dst = append(dst, m)
	}
	return dst
}

// Add appends the modulators of src whose identity is absent from dst.
// Preset-level modulators use it so that instrument-level routing keeps
// precedence.
func Add(dst []Modulator, src ...Modulator) []Modulator {
outer:
	for _, m := range src {
		for i := range dst {
			if dst[i].SameIdentity(m) {
				continue outer
			}
		}
		dst = append(dst, m)
	}
	return dst
}
