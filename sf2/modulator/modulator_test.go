// SPDX-License-Identifier: EPL-2.0

package modulator

import (
	"math"
	"testing"

	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2/generator"
)

func TestSourceFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        Source
		index      int
		cc         bool
		descending bool
		bipolar    bool
		curve      dsp.Curve
	}{
		{"velocity concave descending", 0x0502, 2, false, true, false, dsp.CurveConcave},
		{"cc10 bipolar", 0x028A, 10, true, false, true, dsp.CurveLinear},
		{"pitch wheel", 0x020E, 14, false, false, true, dsp.CurveLinear},
		{"cc1 switched", 0x0C81, 1, true, false, false, dsp.CurveSwitched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := tt.src
			if s.Index() != tt.index || s.IsCC() != tt.cc || s.IsDescending() != tt.descending ||
				s.IsBipolar() != tt.bipolar || s.Curve() != tt.curve {
				t.Errorf("Source(%#04x) = {%d %v %v %v %d}, want {%d %v %v %v %d}",
					uint16(s), s.Index(), s.IsCC(), s.IsDescending(), s.IsBipolar(), s.Curve(),
					tt.index, tt.cc, tt.descending, tt.bipolar, tt.curve)
			}
			var rebuilt Source
			if tt.cc {
				rebuilt = CCSource(tt.index, tt.curve, tt.descending, tt.bipolar)
			} else {
				rebuilt = GeneralSource(General(tt.index), tt.curve, tt.descending, tt.bipolar)
			}
			if rebuilt != s {
				t.Errorf("rebuilt = %#04x, want %#04x", uint16(rebuilt), uint16(s))
			}
		})
	}
}

func TestSourceValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
		want bool
	}{
		{"none", 0, true},
		{"velocity", GeneralSource(GeneralNoteOnVelocity, dsp.CurveLinear, false, false), true},
		{"link", GeneralSource(GeneralLink, dsp.CurveLinear, false, false), true},
		{"undefined general", GeneralSource(5, dsp.CurveLinear, false, false), false},
		{"cc7", CCSource(7, dsp.CurveLinear, false, false), true},
		{"cc0 bank select", CCSource(0, dsp.CurveLinear, false, false), false},
		{"cc6 data entry", CCSource(6, dsp.CurveLinear, false, false), false},
		{"cc32 lsb", CCSource(32, dsp.CurveLinear, false, false), false},
		{"cc63 lsb", CCSource(63, dsp.CurveLinear, false, false), false},
		{"cc64", CCSource(64, dsp.CurveLinear, false, false), true},
		{"cc98 nrpn", CCSource(98, dsp.CurveLinear, false, false), false},
		{"cc101 rpn", CCSource(101, dsp.CurveLinear, false, false), false},
		{"cc120 mode", CCSource(120, dsp.CurveLinear, false, false), false},
		{"bad curve", CCSource(7, 4, false, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.src.Valid(); got != tt.want {
				t.Errorf("%v.Valid() = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestSourceTransform(t *testing.T) {
	t.Parallel()

	velocity := GeneralSource(GeneralNoteOnVelocity, dsp.CurveConcave, true, false)
	wheel := GeneralSource(GeneralPitchWheel, dsp.CurveLinear, false, true)

	tests := []struct {
		name  string
		src   Source
		value int
		want  float64
	}{
		{"loudest velocity", velocity, 127, 0},
		{"silent velocity", velocity, 0, 1},
		{"wheel center", wheel, 8192, 0},
		{"wheel down", wheel, 0, -1},
		{"wheel up", wheel, 16383, 2*16383.0/16384 - 1},
		{"cc linear half", CCSource(1, dsp.CurveLinear, false, false), 64, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.src.Transform(tt.value); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%v.Transform(%d) = %v, want %v", tt.src, tt.value, got, tt.want)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	want := []struct {
		src    uint16
		dest   generator.Index
		amount int16
		amtSrc uint16
	}{
		{0x0502, generator.InitialAttenuation, 960, 0},
		{0x0102, generator.InitialFilterFc, -2400, 0},
		{0x000D, generator.VibLFOToPitch, 50, 0},
		{0x0081, generator.VibLFOToPitch, 50, 0},
		{0x0587, generator.InitialAttenuation, 960, 0},
		{0x028A, generator.Pan, 1000, 0},
		{0x058B, generator.InitialAttenuation, 960, 0},
		{0x00DB, generator.ReverbEffectsSend, 200, 0},
		{0x00DD, generator.ChorusEffectsSend, 200, 0},
		{0x020E, generator.FineTune, 12700, 0x0010},
	}

	got := Defaults()
	if len(got) != len(want) {
		t.Fatalf("len(Defaults()) = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		m := got[i]
		dest, ok := m.Target()
		if uint16(m.Source) != w.src || !ok || dest != w.dest || m.Amount != w.amount || uint16(m.AmountSource) != w.amtSrc {
			t.Errorf("Defaults()[%d] = %v, want src %#04x dest %v amount %d", i, m, w.src, w.dest, w.amount)
		}
		if !m.Valid() {
			t.Errorf("Defaults()[%d] = %v is not valid", i, m)
		}
	}

	got[0].Amount = 0
	if Defaults()[0].Amount != 960 {
		t.Error("Defaults() shares its backing array")
	}
}

func TestModulatorLink(t *testing.T) {
	t.Parallel()

	m := Modulator{Destination: 0x8003}
	if _, ok := m.Target(); ok {
		t.Error("Target() ok for a linked destination")
	}
	if link, ok := m.Link(); !ok || link != 3 {
		t.Errorf("Link() = %d, %v, want 3, true", link, ok)
	}
	if !m.Valid() {
		t.Error("linked modulator with none sources should be valid")
	}

	bad := Modulator{Destination: uint16(generator.NumIndices)}
	if bad.Valid() {
		t.Error("modulator targeting an undefined generator should be invalid")
	}
}

func TestModulatorValue(t *testing.T) {
	t.Parallel()

	wheel := Defaults()[9]
	sensitivity := wheel.AmountSource.Transform(2)

	tests := []struct {
		name string
		m    Modulator
		src  float64
		amt  float64
		want float64
	}{
		{"none source", Modulator{Amount: 100}, 1, 1, 0},
		{"none amount source", Modulator{Source: CCSource(1, dsp.CurveLinear, false, false), Amount: 50}, 0.5, 0, 25},
		{"wheel full up", wheel, 1, sensitivity, 12700 * 2.0 / 128},
		{"absolute", Modulator{Source: CCSource(10, dsp.CurveLinear, false, true), Amount: 100, Transform: TransformAbsolute}, -0.5, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.m.Value(tt.src, tt.amt); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Value(%v, %v) = %v, want %v", tt.src, tt.amt, got, tt.want)
			}
		})
	}
}

func TestMergeAndAdd(t *testing.T) {
	t.Parallel()

	base := Defaults()
	override := base[4]
	override.Amount = 480
	extra := Modulator{
		Source:      CCSource(74, dsp.CurveLinear, false, false),
		Destination: uint16(generator.InitialFilterFc),
		Amount:      1200,
	}

	merged := Merge(Defaults(), override, extra)
	if len(merged) != len(base)+1 {
		t.Fatalf("len(Merge()) = %d, want %d", len(merged), len(base)+1)
	}
	if merged[4].Amount != 480 {
		t.Errorf("Merge() kept amount %d, want 480", merged[4].Amount)
	}
	if merged[len(merged)-1] != extra {
		t.Errorf("Merge() last = %v, want %v", merged[len(merged)-1], extra)
	}

	added := Add(Defaults(), override, extra)
	if len(added) != len(base)+1 {
		t.Fatalf("len(Add()) = %d, want %d", len(added), len(base)+1)
	}
	if added[4].Amount != 960 {
		t.Errorf("Add() replaced amount with %d, want 960", added[4].Amount)
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    Modulator
		want string
	}{
		{Defaults()[4], "CC7(-uni concave) -> initialAttenuation x 960"},
		{Defaults()[9], "pitchWheel(+bi linear) -> fineTune x 12700 x pitchWheelSensitivity(+uni linear)"},
		{Modulator{Source: CCSource(1, dsp.CurveLinear, false, false), Destination: 0x8001, Amount: -5, Transform: TransformAbsolute}, "CC1(+uni linear) -> mod[1] x -5 abs"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAppendDefaultsAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	buf := make([]Modulator, 0, 32)
	allocs := testing.AllocsPerRun(100, func() {
		buf = AppendDefaults(buf[:0])
	})
	if allocs != 0 {
		t.Errorf("AppendDefaults() allocs = %v, want 0", allocs)
	}
	if len(buf) != len(Defaults()) {
		t.Errorf("len(AppendDefaults()) = %d, want %d", len(buf), len(Defaults()))
	}
}
