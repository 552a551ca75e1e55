// SPDX-License-Identifier: EPL-2.0

package generator

import "cmp"

// Range is a closed interval [Low, High].
type Range[T cmp.Ordered] struct {
	Low  T
	High T
}

// FullMIDIRange covers every MIDI key or velocity value.
var FullMIDIRange = Range[int]{Low: 0, High: 127}

// Contains reports whether v lies in the interval.
func (r Range[T]) Contains(v T) bool {
	return v >= r.Low && v <= r.High
}

// Clamp limits v to the interval.
func (r Range[T]) Clamp(v T) T {
	return min(max(v, r.Low), r.High)
}

// Empty reports whether the interval is reversed.
func (r Range[T]) Empty() bool {
	return r.Low > r.High
}
