// SPDX-License-Identifier: EPL-2.0

package voice

// LFO is a triangle oscillator in [-1, 1] that starts at 0 and rises after
// an initial delay.
type LFO struct {
	value     float64
	increment float64
	delay     int
}

// Configure sets the frequency in Hz and the delay in seconds for a given
// sample rate and restarts the oscillator.
func (l *LFO) Configure(rate, frequency, delay float64) {
	*l = LFO{delay: samplesFor(rate, delay)}
	if rate > 0 && frequency > 0 {
		l.increment = 4 * frequency / rate
	}
}

func (l *LFO) Value() float64 { return l.value }

// Next returns the current value and advances one sample.
func (l *LFO) Next() float64 {
	v := l.value
	if l.delay > 0 {
		l.delay--
		return v
	}
	l.value += l.increment
	switch {
	case l.value > 1:
		l.value = 2 - l.value
		l.increment = -l.increment
	case l.value < -1:
		l.value = -2 - l.value
		l.increment = -l.increment
	}
	return v
}
