// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"math"
	"testing"

	"github.com/ik5/sf2pbx/dsp"
)

func TestEnvelopeLifecycle(t *testing.T) {
	t.Parallel()

	var e Envelope
	e.Configure(1000, EnvelopeParams{Attack: 0.01, Hold: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.01})
	if e.Active() {
		t.Fatal("Active() = true before Gate")
	}

	e.Gate(true)
	if got := e.Stage(); got != StageAttack {
		t.Fatalf("Stage() after gate = %v, want attack (zero delay)", got)
	}

	prev := e.Value()
	for range 10 {
		v := e.Next()
		if v < prev {
			t.Fatalf("attack decreased: %v after %v", v, prev)
		}
		prev = v
	}
	if got := e.Stage(); got != StageHold {
		t.Fatalf("Stage() after attack = %v, want hold", got)
	}
	if math.Abs(e.Value()-1) > 1e-9 {
		t.Errorf("Value() at hold = %v, want 1", e.Value())
	}

	for range 100 {
		e.Next()
	}
	if got := e.Stage(); got != StageSustain {
		t.Fatalf("Stage() = %v, want sustain", got)
	}
	if got := e.Value(); got != 0.5 {
		t.Errorf("sustain level = %v, want 0.5", got)
	}
	if !e.Gated() {
		t.Error("Gated() = false while sustaining")
	}

	e.Gate(false)
	if got := e.Stage(); got != StageRelease {
		t.Fatalf("Stage() after release = %v, want release", got)
	}
	prev = e.Value()
	for i := 0; e.Active(); i++ {
		if i > 20 {
			t.Fatal("release did not finish")
		}
		v := e.Next()
		if v > prev {
			t.Fatalf("release increased: %v after %v", v, prev)
		}
		prev = v
	}
	if e.Value() != 0 {
		t.Errorf("Value() when idle = %v, want 0", e.Value())
	}
}

func TestEnvelopeZeroLengthStages(t *testing.T) {
	t.Parallel()

	var e Envelope
	e.Configure(44100, EnvelopeParams{Sustain: 1})
	e.Gate(true)
	if e.Stage() != StageSustain || e.Value() != 1 {
		t.Fatalf("zero-length envelope at %v/%v, want sustain/1", e.Stage(), e.Value())
	}
	e.Gate(false)
	if e.Active() {
		t.Errorf("zero release left envelope at %v", e.Stage())
	}
}

func TestEnvelopeDelay(t *testing.T) {
	t.Parallel()

	var e Envelope
	e.Configure(100, EnvelopeParams{Delay: 0.05, Sustain: 1})
	e.Gate(true)
	for i := range 4 {
		if v := e.Next(); v != 0 {
			t.Fatalf("Next() during delay step %d = %v, want 0", i, v)
		}
	}
	e.Next()
	if e.Stage() != StageSustain {
		t.Errorf("Stage() after delay = %v, want sustain", e.Stage())
	}
}

func TestEnvelopeSustainClamped(t *testing.T) {
	t.Parallel()

	var e Envelope
	e.Configure(100, EnvelopeParams{Sustain: 3})
	e.Gate(true)
	if e.Value() != 1 {
		t.Errorf("sustain above 1 not clamped: %v", e.Value())
	}
}

func TestStageString(t *testing.T) {
	t.Parallel()

	if got := StageRelease.String(); got != "release" {
		t.Errorf("StageRelease.String() = %q", got)
	}
	if got := Stage(42).String(); got != "stage(?)" {
		t.Errorf("Stage(42).String() = %q", got)
	}
}

func TestLFOTriangle(t *testing.T) {
	t.Parallel()

	var l LFO
	l.Configure(100, 1, 0)
	if v := l.Next(); v != 0 {
		t.Fatalf("first Next() = %v, want 0", v)
	}
	lo, hi := 0.0, 0.0
	for range 99 {
		v := l.Next()
		lo, hi = min(lo, v), max(hi, v)
	}
	if math.Abs(hi-1) > 1e-9 || math.Abs(lo+1) > 1e-9 {
		t.Errorf("range = [%v, %v], want [-1, 1]", lo, hi)
	}
	if v := l.Next(); math.Abs(v) > 1e-9 {
		t.Errorf("value after one period = %v, want 0", v)
	}
}

func TestLFODelay(t *testing.T) {
	t.Parallel()

	var l LFO
	l.Configure(100, 5, 0.1)
	for i := range 11 {
		if v := l.Next(); v != 0 {
			t.Fatalf("Next() step %d = %v during delay", i, v)
		}
	}
	if v := l.Next(); v <= 0 {
		t.Errorf("Next() after delay = %v, want rising", v)
	}
}

func TestEnvelopeLongStages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params EnvelopeParams
		gated  Stage
	}{
		{"hold past int range", EnvelopeParams{Hold: dsp.TimecentsToSeconds(77000)}, StageHold},
		{"decay past int range", EnvelopeParams{Decay: dsp.TimecentsToSeconds(90000)}, StageDecay},
		{"infinite hold", EnvelopeParams{Hold: math.Inf(1)}, StageHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var e Envelope
			e.Configure(44100, tt.params)
			e.Gate(true)
			for range 10 {
				e.Next()
			}
			if got := e.Stage(); got != tt.gated {
				t.Errorf("Stage() = %v, want %v", got, tt.gated)
			}
		})
	}
}

func TestSamplesFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate, seconds float64
		want          int
	}{
		{44100, 0, 0},
		{44100, -1, 0},
		{44100, 1, 44100},
		{1000, 0.0015, 2},
		{44100, 1e12, maxStageSamples},
		{44100, math.Inf(1), maxStageSamples},
	}
	for _, tt := range tests {
		if got := samplesFor(tt.rate, tt.seconds); got != tt.want {
			t.Errorf("samplesFor(%v, %v) = %d, want %d", tt.rate, tt.seconds, got, tt.want)
		}
	}
}

func TestEnvelopeLongReleaseIsGradual(t *testing.T) {
	t.Parallel()

	var e Envelope
	e.Configure(44100, EnvelopeParams{Sustain: 1, Release: dsp.TimecentsToSeconds(8000)})
	e.Gate(true)
	e.Next()
	e.Gate(false)
	prev := e.Value()
	for i := range 4410 {
		v := e.Next()
		if !e.Active() {
			t.Fatalf("release ended after %d samples", i)
		}
		if v > prev || prev-v > 0.01 {
			t.Fatalf("release step %d: %v after %v", i, v, prev)
		}
		prev = v
	}
}
