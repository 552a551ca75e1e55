// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/render/channel"
	"github.com/ik5/sf2pbx/sf2"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
)

// Loop modes of the sampleModes generator.
const (
	LoopNone         = 0
	LoopContinuous   = 1
	LoopUntilRelease = 3
)

// Voice renders one layer of one note. The zero Voice is idle; Start binds
// it to a layer without allocating.
type Voice struct {
	state   State
	channel *channel.State
	header  entity.SampleHeader
	cursor  cursor

	volEnv Envelope
	modEnv Envelope
	modLFO LFO
	vibLFO LFO
	filter lowPass

	rate      float64
	rootPitch float64
	pitch     float64
	rateRatio float64
	loopMode  int

	playedKey int
	exclusive int
	sustained bool
	amplitude float32
}

// Start prepares the voice to play layer l for key and velocity at the output
// sample rate. It reports false when the layer cannot sound (ROM sample or
// empty range); the voice then stays idle.
func (v *Voice) Start(l *sf2.Layer, pcm sf2.PCM, ch *channel.State, key, velocity int, rate float64) bool {
	v.Stop()
	if l == nil || l.Sample == nil || l.Sample.Type.IsROM() || l.Sample.SampleRate == 0 || rate <= 0 {
		return false
	}

	s := &v.state
	s.Prepare(l, key, velocity)
	s.Update(ch)

	v.channel = ch
	v.header = *l.Sample
	v.rate = rate
	v.playedKey = key
	v.exclusive = s.Value(generator.ExclusiveClass)
	v.loopMode = s.Value(generator.SampleModes) & 3

	bounds := NewBounds(&v.header, s, pcm.Len())
	v.cursor.reset(pcm, bounds)
	if v.cursor.done {
		return false
	}

	rootKey := int(v.header.OriginalKey)
	if k := s.Value(generator.OverridingRootKey); k >= 0 && k <= 127 {
		rootKey = k
	}
	if rootKey > 127 {
		rootKey = 60
	}
	v.rootPitch = float64(rootKey*100 - int(v.header.PitchCorrection))
	scale := float64(s.Value(generator.ScaleTuning)) / 100
	v.pitch = scale*float64(s.Key()-rootKey)*100 + float64(rootKey*100) +
		float64(dsp.Clamp(s.Value(generator.CoarseTune), -120, 120)*100) +
		float64(dsp.Clamp(s.Value(generator.FineTune), -99, 99))
	v.rateRatio = float64(v.header.SampleRate) / rate

	v.configureEnvelopes()
	v.modLFO.Configure(rate,
		dsp.LFOCentsToFrequency(s.Modulated(generator.FreqModLFO)),
		dsp.TimecentsToSeconds(s.Modulated(generator.DelayModLFO)))
	v.vibLFO.Configure(rate,
		dsp.LFOCentsToFrequency(s.Modulated(generator.FreqVibLFO)),
		dsp.TimecentsToSeconds(s.Modulated(generator.DelayVibLFO)))
	v.filter = lowPass{}

	v.volEnv.Gate(true)
	v.modEnv.Gate(true)
	// Until the first block, rank the voice by the level it is heading for.
	v.amplitude = float32(dsp.AttenuationToGain(s.Modulated(generator.InitialAttenuation)))
	return true
}

// keyScaledTimecents bounds hold and decay times after key scaling.
var keyScaledTimecents = generator.Range[float64]{Low: -12000, High: 8000}

func (v *Voice) configureEnvelopes() {
	s := &v.state
	keyScale := float64(60 - s.Key())
	tc := func(i generator.Index) float64 {
		return dsp.TimecentsToSeconds(s.Modulated(i))
	}
	scaled := func(i, by generator.Index) float64 {
		return dsp.TimecentsToSeconds(keyScaledTimecents.Clamp(s.Modulated(i) + s.Modulated(by)*keyScale))
	}

	v.volEnv.Configure(v.rate, EnvelopeParams{
		Delay:   tc(generator.DelayVolEnv),
		Attack:  tc(generator.AttackVolEnv),
		Hold:    scaled(generator.HoldVolEnv, generator.KeynumToVolEnvHold),
		Decay:   scaled(generator.DecayVolEnv, generator.KeynumToVolEnvDecay),
		Sustain: dsp.AttenuationToGain(s.Modulated(generator.SustainVolEnv)),
		Release: tc(generator.ReleaseVolEnv),
	})
	v.modEnv.Configure(v.rate, EnvelopeParams{
		Delay:   tc(generator.DelayModEnv),
		Attack:  tc(generator.AttackModEnv),
		Hold:    scaled(generator.HoldModEnv, generator.KeynumToModEnvHold),
		Decay:   scaled(generator.DecayModEnv, generator.KeynumToModEnvDecay),
		Sustain: 1 - s.Modulated(generator.SustainModEnv)/1000,
		Release: tc(generator.ReleaseModEnv),
	})
}

// Active reports whether the voice is still sounding.
func (v *Voice) Active() bool { return v.volEnv.Active() && !v.cursor.done }

// Released reports whether the key of the voice has been released.
func (v *Voice) Released() bool { return !v.volEnv.Gated() }

// Key returns the key that started the voice.
func (v *Voice) Key() int { return v.playedKey }

// ExclusiveClass returns the exclusive class, 0 when none.
func (v *Voice) ExclusiveClass() int { return v.exclusive }

// Amplitude returns the gain reached at the end of the last rendered block,
// or the target level of a voice that has not rendered yet.
func (v *Voice) Amplitude() float32 { return v.amplitude }

// Sustained reports whether a note-off was deferred by the sustain pedal.
func (v *Voice) Sustained() bool { return v.sustained }

// State exposes the generator state for inspection.
func (v *Voice) State() *State { return &v.state }

// Envelope returns the volume envelope.
func (v *Voice) Envelope() *Envelope { return &v.volEnv }

// Position returns the current sample read position in pool frames.
func (v *Voice) Position() float64 { return v.cursor.Pos() }

// Bounds returns the playable range of the voice.
func (v *Voice) Bounds() Bounds { return v.cursor.b }

// Release starts the release stage. With sustain set the release is
// deferred until ReleaseSustained.
func (v *Voice) Release(sustain bool) {
	if sustain {
		v.sustained = true
		return
	}
	v.sustained = false
	v.volEnv.Gate(false)
	v.modEnv.Gate(false)
}

// ReleaseSustained releases a voice held only by the sustain pedal.
func (v *Voice) ReleaseSustained() {
	if v.sustained {
		v.Release(false)
	}
}

// Kill silences the voice quickly, as for exclusive classes: the release
// stage is replanned to a few milliseconds.
func (v *Voice) Kill() {
	if !v.volEnv.Active() {
		return
	}
	v.volEnv.stages[StageRelease] = plan(samplesFor(v.rate, 0.005), Curvature, -Curvature)
	v.Release(false)
}

// Stop makes the voice idle immediately.
func (v *Voice) Stop() {
	v.volEnv = Envelope{}
	v.modEnv = Envelope{}
	v.cursor.done = true
	v.amplitude = 0
	v.sustained = false
}

func (v *Voice) looping() bool {
	switch v.loopMode {
	case LoopContinuous:
		return true
	case LoopUntilRelease:
		return v.volEnv.Gated()
	}
	return false
}

// Render adds the voice output to left and right, which must have the same
// length. Modulators are evaluated once per call.
func (v *Voice) Render(left, right []float32) {
	if !v.Active() {
		v.amplitude = 0
		return
	}
	s := &v.state
	s.Update(v.channel)

	attenuation := s.Modulated(generator.InitialAttenuation)
	lfoToVolume := s.Modulated(generator.ModLFOToVolume)
	modLFOToPitch := s.Modulated(generator.ModLFOToPitch)
	vibLFOToPitch := s.Modulated(generator.VibLFOToPitch)
	modEnvToPitch := s.Modulated(generator.ModEnvToPitch)
	pitch := v.pitch + s.Modulation(generator.FineTune) + 100*s.Modulation(generator.CoarseTune) - v.rootPitch
	gainL, gainR := dsp.PanLR(s.Modulated(generator.Pan))
	fc := s.Modulated(generator.InitialFilterFc)
	fcModEnv := s.Modulated(generator.ModEnvToFilterFc)
	fcModLFO := s.Modulated(generator.ModLFOToFilterFc)
	v.filter.tune(fc+fcModEnv*v.modEnv.Value()+fcModLFO*v.modLFO.Value(), v.rate)

	var amp float64
	for i := range left {
		if !v.Active() {
			break
		}
		env := v.volEnv.Next()
		modEnv := v.modEnv.Next()
		modLFO := v.modLFO.Next()
		vibLFO := v.vibLFO.Next()

		cents := pitch + modEnv*modEnvToPitch + modLFO*modLFOToPitch + vibLFO*vibLFOToPitch
		increment := dsp.Power2Cents(cents) * v.rateRatio

		x := float64(v.cursor.next(increment, v.looping()))
		x = v.filter.process(x)

		amp = env * dsp.AttenuationToGain(attenuation-modLFO*lfoToVolume)
		y := x * amp
		left[i] += float32(y * gainL)
		right[i] += float32(y * gainR)
	}
	if !v.Active() {
		amp = 0
	}
	v.amplitude = float32(amp)
}
