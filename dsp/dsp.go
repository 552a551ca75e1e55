// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"cmp"
	"math"
)

const (
	// NoiseFloor is the level below which an envelope is considered silent.
	NoiseFloor = 2e-7
	// LowestNoteFrequency is the frequency of MIDI key 0 (C-1) in Hz.
	LowestNoteFrequency = 8.175798915643707
	// MaxAttenuation is the largest attenuation, in centibels, applied to a voice.
	MaxAttenuation = 960.0
	// MaxAttenuationTable is the highest centibel value the attenuation table covers.
	MaxAttenuationTable = 1440
)

// Clamp limits v to the closed interval [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PanLR returns the left and right gains for pan in 0.1% units
// (-500 hard left, 0 centre, 500 hard right).
func PanLR(pan float64) (left, right float64) {
	p := int(math.Round(Clamp(pan, -500, 500)))
	return panTable[500-p], panTable[500+p]
}

// Sin returns sin(2*pi*phase) where phase is expressed in turns.
func Sin(phase float64) float64 {
	phase -= math.Floor(phase)
	i := int(phase * 4 * sineSize)
	j := i % sineSize
	switch i / sineSize {
	case 0:
		return quarterSine(j)
	case 1:
		return quarterSine(sineSize - j)
	case 2:
		return -quarterSine(j)
	default:
		return -quarterSine(sineSize - j)
	}
}

func quarterSine(i int) float64 {
	if i >= sineSize {
		return 1
	}
	return sineTable[i]
}

// CentsToFrequencyScale returns 2^(cents/1200) for cents in [-1200, 1200].
// Values outside the range are clamped.
func CentsToFrequencyScale(cents int) float64 {
	return centsScaleTable[Clamp(cents, -1200, 1200)+1200]
}

// CentsToFrequency converts an absolute pitch in cents (MIDI key * 100) into Hz.
// Negative values yield 1.
func CentsToFrequency(cents float64) float64 {
	if cents < 0 {
		return 1
	}
	c := int(cents + 300)
	octave := c / 1200
	if octave > 62 {
		octave = 62
	}
	return float64(uint64(1)<<octave) * centsPartialTable[c%1200]
}

// Power2Cents returns 2^(cents/1200) using the integer part of cents.
func Power2Cents(cents float64) float64 {
	c := int(math.Floor(Clamp(cents, -72000, 72000)))
	octave := c / 1200
	rem := c % 1200
	if rem < 0 {
		rem += 1200
		octave--
	}
	return math.Ldexp(power2Table[rem], octave)
}

// TimecentsToSeconds converts an SF2 timecent value into seconds.
func TimecentsToSeconds(tc float64) float64 {
	return Power2Cents(tc)
}

// LFOCentsToFrequency converts an SF2 LFO frequency generator (absolute cents
// relative to 8.176 Hz) into Hz. The input is clamped to [-16000, 4500].
func LFOCentsToFrequency(cents float64) float64 {
	return 8.176 * Power2Cents(Clamp(cents, -16000, 4500))
}

// AttenuationToGain converts centibels of attenuation into a linear gain.
func AttenuationToGain(cB float64) float64 {
	i := int(Clamp(cB, 0, MaxAttenuationTable))
	return attenuationTable[i]
}

// CubicInterpolate interpolates between x1 and x2 at fraction frac in [0, 1)
// using x0 and x3 as outer neighbours.
func CubicInterpolate(x0, x1, x2, x3 float32, frac float64) float32 {
	i := Clamp(int(frac*cubicSize), 0, cubicSize-1)
	w := &cubicTable[i]
	return float32(w[0]*float64(x0) + w[1]*float64(x1) + w[2]*float64(x2) + w[3]*float64(x3))
}

// LinearInterpolate interpolates between x0 and x1 at fraction frac.
func LinearInterpolate(x0, x1 float32, frac float64) float32 {
	return x0 + float32(frac)*(x1-x0)
}
