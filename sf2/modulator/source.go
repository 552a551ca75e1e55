// SPDX-License-Identifier: EPL-2.0

package modulator

import (
	"fmt"

	"github.com/ik5/sf2pbx/dsp"
)

// General is a non-MIDI-CC controller source index.
type General uint8

const (
	GeneralNone                  General = 0
	GeneralNoteOnVelocity        General = 2
	GeneralNoteOnKey             General = 3
	GeneralPolyPressure          General = 10
	GeneralChannelPressure       General = 13
	GeneralPitchWheel            General = 14
	GeneralPitchWheelSensitivity General = 16
	GeneralLink                  General = 127
)

const (
	indexMask      = 0x7f
	ccFlag         = 1 << 7
	descendingFlag = 1 << 8
	bipolarFlag    = 1 << 9
	curveShift     = 10
)

// Source is the packed SF2 modulator source operator:
// bits 0-6 index, bit 7 CC flag, bit 8 direction (max to min), bit 9
// polarity (bipolar), bits 10-15 curve type.
type Source uint16

// GeneralSource builds a Source reading a general controller.
func GeneralSource(g General, curve dsp.Curve, descending, bipolar bool) Source {
	return pack(int(g), false, curve, descending, bipolar)
}

// CCSource builds a Source reading MIDI continuous controller cc.
func CCSource(cc int, curve dsp.Curve, descending, bipolar bool) Source {
	return pack(cc, true, curve, descending, bipolar)
}

func pack(index int, cc bool, curve dsp.Curve, descending, bipolar bool) Source {
	s := Source(index&indexMask) | Source(curve)<<curveShift
	if cc {
		s |= ccFlag
	}
	if descending {
		s |= descendingFlag
	}
	if bipolar {
		s |= bipolarFlag
	}
	return s
}

func (s Source) Index() int         { return int(s & indexMask) }
func (s Source) IsCC() bool         { return s&ccFlag != 0 }
func (s Source) IsDescending() bool { return s&descendingFlag != 0 }
func (s Source) IsBipolar() bool    { return s&bipolarFlag != 0 }
func (s Source) Curve() dsp.Curve   { return dsp.Curve(s >> curveShift) }

// General returns the general controller index. It is meaningful only when
// IsCC is false.
func (s Source) General() General { return General(s.Index()) }

// IsNone reports whether the source is the "no controller" source, which
// disables a modulator (or, as amount source, scales by 1).
func (s Source) IsNone() bool { return !s.IsCC() && s.General() == GeneralNone }

// IsLink reports whether the source is fed by another modulator.
func (s Source) IsLink() bool { return !s.IsCC() && s.General() == GeneralLink }

// Is14Bit reports whether the source delivers 14-bit values (pitch wheel).
func (s Source) Is14Bit() bool { return !s.IsCC() && s.General() == GeneralPitchWheel }

// Valid reports whether the source is a legal SF2 controller definition.
func (s Source) Valid() bool {
	if s.Curve() > dsp.CurveSwitched {
		return false
	}
	if s.IsCC() {
		switch i := s.Index(); {
		case i == 0, i == 6, i >= 32 && i <= 63, i == 98, i == 101, i >= 120:
			return false
		}
		return true
	}
	switch s.General() {
	case GeneralNone, GeneralNoteOnVelocity, GeneralNoteOnKey, GeneralPolyPressure,
		GeneralChannelPressure, GeneralPitchWheel, GeneralPitchWheelSensitivity, GeneralLink:
		return true
	}
	return false
}

// Transform maps a raw controller value through the source's curve, direction
// and polarity.
func (s Source) Transform(value int) float64 {
	if s.Is14Bit() {
		return dsp.ControllerTransform14(s.Curve(), s.IsDescending(), s.IsBipolar(), value)
	}
	return dsp.ControllerTransform(s.Curve(), s.IsDescending(), s.IsBipolar(), value)
}

var curveNames = [...]string{"linear", "concave", "convex", "switched"}

func (s Source) String() string {
	var name string
	if s.IsCC() {
		name = fmt.Sprintf("CC%d", s.Index())
	} else {
		switch s.General() {
		case GeneralNone:
			return "none"
		case GeneralNoteOnVelocity:
			name = "velocity"
		case GeneralNoteOnKey:
			name = "key"
		case GeneralPolyPressure:
			name = "polyPressure"
		case GeneralChannelPressure:
			name = "channelPressure"
		case GeneralPitchWheel:
			name = "pitchWheel"
		case GeneralPitchWheelSensitivity:
			name = "pitchWheelSensitivity"
		case GeneralLink:
			name = "link"
		default:
			name = fmt.Sprintf("general%d", s.Index())
		}
	}

	curve := "invalid"
	if c := s.Curve(); int(c) < len(curveNames) {
		curve = curveNames[c]
	}
	dir, pol := "+", "uni"
	if s.IsDescending() {
		dir = "-"
	}
	if s.IsBipolar() {
		pol = "bi"
	}
	return fmt.Sprintf("%s(%s%s %s)", name, dir, pol, curve)
}
