// SPDX-License-Identifier: EPL-2.0

package channel

import (
	"testing"

	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2/modulator"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	s := New()
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"volume", s.CC(CCVolume), 100},
		{"pan", s.CC(CCPan), 64},
		{"expression", s.CC(CCExpression), 127},
		{"modulation", s.CC(CCModulation), 0},
		{"pitch wheel", s.PitchWheel(), PitchWheelCenter},
		{"sensitivity", s.PitchWheelSensitivity(), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
	if s.Sustained() {
		t.Error("Sustained() = true after reset")
	}
}

func TestPitchBendSensitivityRPN(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetCC(CCDataEntry, 24)
	if got := s.PitchWheelSensitivity(); got != 2 {
		t.Errorf("data entry without RPN changed sensitivity to %d", got)
	}

	s.SetCC(CCRPNMSB, 0)
	s.SetCC(CCRPNLSB, 0)
	s.SetCC(CCDataEntry, 12)
	if got := s.PitchWheelSensitivity(); got != 12 {
		t.Errorf("PitchWheelSensitivity() = %d, want 12", got)
	}

	s.SetCC(CCRPNLSB, 1)
	s.SetCC(CCDataEntry, 3)
	if got := s.PitchWheelSensitivity(); got != 12 {
		t.Errorf("fine tuning RPN changed sensitivity to %d", got)
	}
}

func TestResetControllers(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetCC(CCVolume, 80)
	s.SetCC(CCSustain, 127)
	s.SetPitchWheel(0)
	s.SetChannelPressure(90)
	s.SetCC(CCResetAll, 0)

	if !(s.CC(CCVolume) == 80 && !s.Sustained() && s.PitchWheel() == PitchWheelCenter && s.ChannelPressure() == 0) {
		t.Errorf("after reset: volume %d sustained %v wheel %d pressure %d",
			s.CC(CCVolume), s.Sustained(), s.PitchWheel(), s.ChannelPressure())
	}
}

func TestValue(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetCC(74, 33)
	s.SetKeyPressure(60, 70)
	s.SetChannelPressure(50)
	s.SetPitchWheel(1000)

	tests := []struct {
		name string
		src  modulator.Source
		want int
	}{
		{"velocity", modulator.GeneralSource(modulator.GeneralNoteOnVelocity, dsp.CurveLinear, false, false), 90},
		{"key", modulator.GeneralSource(modulator.GeneralNoteOnKey, dsp.CurveLinear, false, false), 60},
		{"poly pressure", modulator.GeneralSource(modulator.GeneralPolyPressure, dsp.CurveLinear, false, false), 70},
		{"channel pressure", modulator.GeneralSource(modulator.GeneralChannelPressure, dsp.CurveLinear, false, false), 50},
		{"pitch wheel", modulator.GeneralSource(modulator.GeneralPitchWheel, dsp.CurveLinear, false, true), 1000},
		{"sensitivity", modulator.GeneralSource(modulator.GeneralPitchWheelSensitivity, dsp.CurveLinear, false, false), 2},
		{"cc74", modulator.CCSource(74, dsp.CurveLinear, false, false), 33},
		{"link", modulator.GeneralSource(modulator.GeneralLink, dsp.CurveLinear, false, false), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := s.Value(tt.src, 60, 90); got != tt.want {
				t.Errorf("Value(%v) = %d, want %d", tt.src, got, tt.want)
			}
		})
	}
}
