// SPDX-License-Identifier: EPL-2.0

// Package channel tracks the MIDI controller state that feeds modulators.
package channel

import "github.com/ik5/sf2pbx/sf2/modulator"

// Controller numbers with channel-level meaning.
const (
	CCModulation     = 1
	CCDataEntry      = 6
	CCVolume         = 7
	CCPan            = 10
	CCExpression     = 11
	CCSustain        = 64
	CCRPNLSB         = 100
	CCRPNMSB         = 101
	CCResetAll       = 121
	PitchWheelCenter = 8192
)

const rpnNone = 0x3fff

// State is the controller state of one MIDI channel. It is owned by the
// render thread and not safe for concurrent use.
type State struct {
	cc              [128]uint8
	keyPressure     [128]uint8
	channelPressure uint8
	pitchWheel      uint16
	sensitivity     uint8
	rpn             uint16
}

// New returns a State with General MIDI power-on defaults.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset restores the power-on defaults.
func (s *State) Reset() {
	*s = State{}
	s.cc[CCVolume] = 100
	s.cc[CCPan] = 64
	s.cc[CCExpression] = 127
	s.pitchWheel = PitchWheelCenter
	s.sensitivity = 2
	s.rpn = rpnNone
}

// ResetControllers implements CC 121: controllers return to their defaults
// while volume and pan are kept.
func (s *State) ResetControllers() {
	volume, pan := s.cc[CCVolume], s.cc[CCPan]
	sensitivity := s.sensitivity
	s.Reset()
	s.cc[CCVolume], s.cc[CCPan] = volume, pan
	s.sensitivity = sensitivity
}

// SetCC stores a controller value. RPN 0 (pitch bend sensitivity) is decoded
// from the RPN select and data entry controllers.
func (s *State) SetCC(cc, value int) {
	if cc < 0 || cc > 127 {
		return
	}
	v := uint8(value & 0x7f)
	switch cc {
	case CCResetAll:
		s.ResetControllers()
		return
	case CCRPNMSB:
		s.rpn = uint16(v)<<7 | s.rpn&0x7f
	case CCRPNLSB:
		s.rpn = s.rpn&^0x7f | uint16(v)
	case CCDataEntry:
		if s.rpn == 0 {
			s.sensitivity = v
		}
	}
	s.cc[cc] = v
}

func (s *State) CC(cc int) int {
	if cc < 0 || cc > 127 {
		return 0
	}
	return int(s.cc[cc])
}

// Sustained reports whether the sustain pedal is down.
func (s *State) Sustained() bool { return s.cc[CCSustain] >= 64 }

func (s *State) SetKeyPressure(key, value int) {
	if key < 0 || key > 127 {
		return
	}
	s.keyPressure[key] = uint8(value & 0x7f)
}

func (s *State) KeyPressure(key int) int {
	if key < 0 || key > 127 {
		return 0
	}
	return int(s.keyPressure[key])
}

func (s *State) SetChannelPressure(value int) { s.channelPressure = uint8(value & 0x7f) }
func (s *State) ChannelPressure() int         { return int(s.channelPressure) }

// SetPitchWheel stores a 14-bit pitch wheel position; 8192 is centred.
func (s *State) SetPitchWheel(value int) { s.pitchWheel = uint16(value & 0x3fff) }
func (s *State) PitchWheel() int         { return int(s.pitchWheel) }

// SetPitchWheelSensitivity sets the bend range in semitones.
func (s *State) SetPitchWheelSensitivity(semitones int) { s.sensitivity = uint8(semitones & 0x7f) }
func (s *State) PitchWheelSensitivity() int             { return int(s.sensitivity) }

// Value returns the raw controller value src reads for a note with the given
// key and velocity. Link sources and unknown controllers read 0.
func (s *State) Value(src modulator.Source, key, velocity int) int {
	if src.IsCC() {
		return s.CC(src.Index())
	}
	switch src.General() {
	case modulator.GeneralNoteOnVelocity:
		return velocity
	case modulator.GeneralNoteOnKey:
		return key
	case modulator.GeneralPolyPressure:
		return s.KeyPressure(key)
	case modulator.GeneralChannelPressure:
		return s.ChannelPressure()
	case modulator.GeneralPitchWheel:
		return s.PitchWheel()
	case modulator.GeneralPitchWheelSensitivity:
		return s.PitchWheelSensitivity()
	}
	return 0
}
