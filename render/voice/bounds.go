// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"github.com/ik5/sf2pbx/dsp"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
)

const coarseOffset = 1 << 15

// Bounds are the absolute pool indices a voice may read: [Start, End) and
// the loop [LoopStart, LoopEnd).
type Bounds struct {
	Start, End         int
	LoopStart, LoopEnd int
}

// NewBounds applies the address offset generators in s to header h and
// clamps the result into the header's range and into a pool of poolLen
// frames.
func NewBounds(h *entity.SampleHeader, s *State, poolLen int) Bounds {
	end := min(int(h.End), poolLen)
	start := min(int(h.Start), end)

	at := func(base uint32, fine, coarse generator.Index) int {
		v := int(base) + s.Value(fine) + s.Value(coarse)*coarseOffset
		return dsp.Clamp(v, start, end)
	}
	return Bounds{
		Start:     at(h.Start, generator.StartAddrsOffset, generator.StartAddrsCoarseOffset),
		End:       at(h.End, generator.EndAddrsOffset, generator.EndAddrsCoarseOffset),
		LoopStart: at(h.LoopStart, generator.StartLoopAddrsOffset, generator.StartLoopAddrsCoarseOffset),
		LoopEnd:   at(h.LoopEnd, generator.EndLoopAddrsOffset, generator.EndLoopAddrsCoarseOffset),
	}
}

// HasLoop reports whether the loop is usable.
func (b Bounds) HasLoop() bool {
	return b.LoopStart > b.Start && b.LoopStart < b.LoopEnd && b.LoopEnd <= b.End
}

// Frames returns the number of playable frames.
func (b Bounds) Frames() int { return max(b.End-b.Start, 0) }
