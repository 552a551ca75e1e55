// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"math"

	"github.com/ik5/sf2pbx/dsp"
)

// FilterBypassCents is the cutoff at and above which the low-pass filter is
// disabled.
const FilterBypassCents = 13500

// lowPass is a one-pole low-pass filter.
type lowPass struct {
	alpha float64
	y     float64
	on    bool
}

// tune sets the cutoff from absolute cents. The coefficient uses the
// first-order approximation w/(1+w) so no exponential is evaluated.
func (f *lowPass) tune(cents, rate float64) {
	if cents >= FilterBypassCents || rate <= 0 {
		f.on = false
		return
	}
	w := 2 * math.Pi * dsp.CentsToFrequency(cents) / rate
	f.alpha = w / (1 + w)
	f.on = true
}

func (f *lowPass) process(x float64) float64 {
	if !f.on {
		f.y = x
		return x
	}
	f.y += f.alpha * (x - f.y)
	return f.y
}
