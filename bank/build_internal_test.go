// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"testing"

	"github.com/ik5/sf2pbx/audio"
)

func TestScaleLoop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		loop          audio.Loop
		rate, srcRate int
		frames        int
		start, end    int
		ok            bool
	}{
		{name: "same rate", loop: audio.Loop{Start: 10, End: 90}, rate: 100, srcRate: 100, frames: 100, start: 10, end: 90, ok: true},
		{name: "down", loop: audio.Loop{Start: 10, End: 90}, rate: 50, srcRate: 100, frames: 50, start: 5, end: 45, ok: true},
		{name: "up", loop: audio.Loop{Start: 10, End: 90}, rate: 300, srcRate: 100, frames: 300, start: 30, end: 270, ok: true},
		{name: "clipped", loop: audio.Loop{Start: 10, End: 500}, rate: 100, srcRate: 100, frames: 100, start: 10, end: 100, ok: true},
		{name: "too short", loop: audio.Loop{Start: 99, End: 500}, rate: 100, srcRate: 100, frames: 100, start: 99, end: 100},
		{name: "past end", loop: audio.Loop{Start: 200, End: 300}, rate: 100, srcRate: 100, frames: 100, start: 200, end: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, end, ok := scaleLoop(tt.loop, tt.rate, tt.srcRate, tt.frames)
			if start != tt.start || end != tt.end || ok != tt.ok {
				t.Errorf("scaleLoop() = %d, %d, %v, want %d, %d, %v", start, end, ok, tt.start, tt.end, tt.ok)
			}
		})
	}
}

func TestSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sec  float64
		want int
	}{
		{1, 0},
		{2, 1200},
		{0.5, -1200},
		{1e-9, -12000},
		{1000, 8000},
	}
	for _, tt := range tests {
		if got := seconds(tt.sec); got != tt.want {
			t.Errorf("seconds(%g) = %d, want %d", tt.sec, got, tt.want)
		}
	}
}
