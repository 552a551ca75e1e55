// SPDX-License-Identifier: EPL-2.0

package voice

import (
	"github.com/ik5/sf2pbx/render/channel"
	"github.com/ik5/sf2pbx/sf2"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/modulator"
)

// MaxModulators bounds the modulators a voice evaluates. Zones carrying more
// keep the first ones that fit.
const MaxModulators = 64

// State holds the generator values of one sounding note: the layered zone
// values plus the modulator contributions from the last Update.
type State struct {
	values    [generator.NumIndices]int
	modulated [generator.NumIndices]float64

	mods    [MaxModulators]modulator.Modulator
	nmods   int
	scratch [MaxModulators]modulator.Modulator

	key      int
	velocity int
}

// Key returns the key used for pitch and key scaling: the forced keynum when
// set, else the played key.
func (s *State) Key() int { return s.key }

// Velocity returns the effective note-on velocity.
func (s *State) Velocity() int { return s.velocity }

// Value returns the layered, unmodulated value of generator i.
func (s *State) Value(i generator.Index) int {
	if !i.Valid() {
		return 0
	}
	return s.values[i]
}

// Modulated returns the value of generator i including modulators, limited
// to the legal range of the generator.
func (s *State) Modulated(i generator.Index) float64 {
	if !i.Valid() {
		return 0
	}
	return generator.Def(i).ClampFloat(float64(s.values[i]) + s.modulated[i])
}

// Modulation returns only the modulator contribution to generator i.
func (s *State) Modulation(i generator.Index) float64 {
	if !i.Valid() {
		return 0
	}
	return s.modulated[i]
}

// Modulators returns the active modulator list.
func (s *State) Modulators() []modulator.Modulator { return s.mods[:s.nmods] }

// layered reports whether generator i takes part in zone layering. Range
// and link generators only select zones.
func layered(i generator.Index) bool {
	switch i {
	case generator.KeyRange, generator.VelRange, generator.Instrument, generator.SampleID,
		generator.Unused1, generator.Unused2, generator.Unused3, generator.Unused4,
		generator.Reserved1, generator.Reserved2, generator.Reserved3:
		return false
	}
	return i.Valid()
}

// Prepare layers the zones of l for a note. Instrument values replace the
// defaults, preset values are added to them, and the sums are clamped to the
// generator ranges. It does not allocate.
func (s *State) Prepare(l *sf2.Layer, key, velocity int) {
	for i := range s.values {
		s.values[i] = int(generator.Def(generator.Index(i)).Default())
	}
	clear(s.modulated[:])

	if l.InstrumentGlobal != nil {
		s.set(l.InstrumentGlobal.Generators())
	}
	if l.InstrumentZone != nil {
		s.set(l.InstrumentZone.Generators())
	}

	var preset [generator.NumIndices]int
	var present [generator.NumIndices]bool
	for _, z := range [...]*sf2.Zone{l.PresetGlobal, l.PresetZone} {
		if z == nil {
			continue
		}
		for _, g := range z.Generators() {
			if layered(g.Oper) && generator.Def(g.Oper).AvailableInPreset() {
				preset[g.Oper] = int(g.Amount.Signed())
				present[g.Oper] = true
			}
		}
	}
	for i, ok := range present {
		if ok {
			s.values[i] += preset[i]
		}
	}
	for i, v := range s.values {
		s.values[i] = generator.Def(generator.Index(i)).Clamp(v)
	}

	s.key, s.velocity = key, velocity
	if k := s.values[generator.Keynum]; k >= 0 && k <= 127 {
		s.key = k
	}
	if v := s.values[generator.Velocity]; v >= 0 && v <= 127 {
		s.velocity = v
	}

	s.prepareModulators(l)
}

func (s *State) set(gens []entity.Generator) {
	for _, g := range gens {
		if layered(g.Oper) {
			s.values[g.Oper] = int(generator.Def(g.Oper).Value(g.Amount))
		}
	}
}

func (s *State) prepareModulators(l *sf2.Layer) {
	mods := s.mods[:0]
	mods = modulator.AppendDefaults(mods)
	for _, z := range [...]*sf2.Zone{l.InstrumentGlobal, l.InstrumentZone} {
		if z != nil {
			mods = modulator.Merge(mods, fit(mods, z.Modulators())...)
		}
	}

	presetMods := s.scratch[:0]
	for _, z := range [...]*sf2.Zone{l.PresetGlobal, l.PresetZone} {
		if z != nil {
			presetMods = modulator.Merge(presetMods, fit(presetMods, z.Modulators())...)
		}
	}
	mods = modulator.Add(mods, fit(mods, presetMods)...)

	s.nmods = len(mods)
}

// fit trims src to the number of modulators dst has room for.
func fit(dst, src []modulator.Modulator) []modulator.Modulator {
	room := cap(dst) - len(dst)
	if room <= 0 {
		return nil
	}
	return src[:min(len(src), room)]
}

// Update recomputes the modulator contributions from the channel state.
func (s *State) Update(ch *channel.State) {
	clear(s.modulated[:])
	for i := range s.nmods {
		m := &s.mods[i]
		dest, ok := m.Target()
		if !ok || !m.Valid() || m.Source.IsLink() {
			continue
		}
		src := m.Source.Transform(ch.Value(m.Source, s.key, s.velocity))
		amt := 1.0
		if !m.AmountSource.IsNone() {
			amt = m.AmountSource.Transform(ch.Value(m.AmountSource, s.key, s.velocity))
		}
		s.modulated[dest] += m.Value(src, amt)
	}
}
