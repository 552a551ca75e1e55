// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"math"

	"github.com/ik5/sf2pbx/dsp"
)

// Stage is a phase of an envelope.
type Stage uint8

const (
	StageIdle Stage = iota
	StageDelay
	StageAttack
	StageHold
	StageDecay
	StageSustain
	StageRelease
	numStages
)

var stageNames = [numStages]string{"idle", "delay", "attack", "hold", "decay", "sustain", "release"}

func (s Stage) String() string {
	if s < numStages {
		return stageNames[s]
	}
	return "stage(?)"
}

// Curvature shapes the attack, decay and release segments. Smaller values
// give more exponential curves.
const Curvature = 0.01

// EnvelopeParams are the durations, in seconds, and sustain level of an
// envelope.
type EnvelopeParams struct {
	Delay, Attack, Hold, Decay float64
	Sustain                    float64
	Release                    float64
}

// segment is one planned stage: its length and the coefficients of
// value = base + value*coef.
type segment struct {
	samples int
	base    float64
	coef    float64
}

func plan(samples int, ratio, target float64) segment {
	s := segment{samples: samples}
	if samples <= 0 {
		return s
	}
	s.coef = math.Exp(-math.Log((1+ratio)/ratio) / float64(samples))
	s.base = target * (1 - s.coef)
	return s
}

// Envelope is a six stage DAHDSR generator evaluated once per sample.
type Envelope struct {
	stages  [numStages]segment
	sustain float64
	stage   Stage
	counter int
	value   float64
}

// maxStageSamples caps a stage length so the conversion cannot overflow.
const maxStageSamples = math.MaxInt32

func samplesFor(rate, seconds float64) int {
	if seconds <= 0 || rate <= 0 {
		return 0
	}
	n := math.Round(rate * seconds)
	if n >= maxStageSamples || math.IsNaN(n) {
		return maxStageSamples
	}
	return int(n)
}

// Configure plans every stage for rate samples per second and leaves the
// envelope idle. It is not meant for the per-sample path.
func (e *Envelope) Configure(rate float64, p EnvelopeParams) {
	sustain := dsp.Clamp(p.Sustain, 0, 1)
	*e = Envelope{sustain: sustain}
	e.stages[StageDelay] = segment{samples: samplesFor(rate, p.Delay)}
	e.stages[StageAttack] = plan(samplesFor(rate, p.Attack), Curvature, 1+Curvature)
	e.stages[StageHold] = segment{samples: samplesFor(rate, p.Hold)}
	e.stages[StageDecay] = plan(samplesFor(rate, p.Decay), Curvature, sustain-Curvature)
	e.stages[StageRelease] = plan(samplesFor(rate, p.Release), Curvature, -Curvature)
}

func (e *Envelope) Stage() Stage   { return e.stage }
func (e *Envelope) Value() float64 { return e.value }

// Active reports whether the envelope still produces values.
func (e *Envelope) Active() bool { return e.stage != StageIdle }

// Gated reports whether the envelope has not been released yet.
func (e *Envelope) Gated() bool { return e.stage != StageIdle && e.stage != StageRelease }

// Gate starts the envelope at the delay stage when on is true, and moves any
// active stage to release when on is false.
func (e *Envelope) Gate(on bool) {
	if on {
		e.value = 0
		e.enter(StageDelay)
	} else if e.stage != StageIdle {
		e.enter(StageRelease)
	}
}

// Next advances the envelope by one sample and returns the new value.
func (e *Envelope) Next() float64 {
	switch e.stage {
	case StageDelay:
		e.countdown(StageAttack)
	case StageAttack:
		e.update()
		e.value = min(e.value, 1)
		e.countdown(StageHold)
	case StageHold:
		e.countdown(StageDecay)
	case StageDecay:
		e.updateAndCompare(e.sustain, StageSustain)
	case StageRelease:
		e.updateAndCompare(dsp.NoiseFloor, StageIdle)
	}
	return e.value
}

func (e *Envelope) update() {
	s := &e.stages[e.stage]
	e.value = s.base + e.value*s.coef
}

func (e *Envelope) updateAndCompare(floor float64, next Stage) {
	e.update()
	if e.value < floor {
		e.enter(next)
		return
	}
	e.countdown(next)
}

func (e *Envelope) countdown(next Stage) {
	e.counter--
	if e.counter <= 0 {
		e.enter(next)
	}
}

// enter switches to stage s, falling through zero-length stages.
func (e *Envelope) enter(s Stage) {
	for {
		e.stage = s
		switch s {
		case StageIdle:
			e.value = 0
			e.counter = 0
			return
		case StageHold:
			e.value = 1
		case StageSustain:
			e.value = e.sustain
			e.counter = 0
			return
		}

		e.counter = e.stages[s].samples
		if e.counter > 0 {
			return
		}
		switch s {
		case StageRelease:
			s = StageIdle
		case StageDecay:
			s = StageSustain
		default:
			s++
		}
	}
}
