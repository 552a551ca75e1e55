// SPDX-License-Identifier: EPL-2.0

package sf2

import (
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/modulator"
)

// ZoneKind tells preset zones from instrument zones.
type ZoneKind uint8

const (
	ZoneKindPreset ZoneKind = iota
	ZoneKindInstrument
)

func (k ZoneKind) String() string {
	if k == ZoneKindPreset {
		return "preset"
	}
	return "instrument"
}

// terminal returns the generator that must close a non-global zone of kind k.
func (k ZoneKind) terminal() generator.Index {
	if k == ZoneKindPreset {
		return generator.Instrument
	}
	return generator.SampleID
}

// Zone is one resolved bag of a preset or instrument. Its generator and
// modulator slices are views into the SoundFont's flat tables.
type Zone struct {
	kind       ZoneKind
	global     bool
	generators []entity.Generator
	modulators []modulator.Modulator
	keys       generator.Range[int]
	velocities generator.Range[int]
	link       int
}

func (z *Zone) Kind() ZoneKind                    { return z.kind }
func (z *Zone) IsGlobal() bool                    { return z.global }
func (z *Zone) Generators() []entity.Generator    { return z.generators }
func (z *Zone) Modulators() []modulator.Modulator { return z.modulators }

// KeyRange returns the keys the zone applies to. Global zones cover the full
// MIDI range.
func (z *Zone) KeyRange() generator.Range[int] { return z.keys }

// VelocityRange returns the velocities the zone applies to.
func (z *Zone) VelocityRange() generator.Range[int] { return z.velocities }

// Link returns the instrument index of a preset zone or the sample index of
// an instrument zone. It is -1 for global zones.
func (z *Zone) Link() int { return z.link }

// Matches reports whether key and velocity fall inside the zone's ranges.
func (z *Zone) Matches(key, velocity int) bool {
	return z.keys.Contains(key) && z.velocities.Contains(velocity)
}

// Generator returns the last value set for i in the zone.
func (z *Zone) Generator(i generator.Index) (generator.Amount, bool) {
	for k := len(z.generators) - 1; k >= 0; k-- {
		if z.generators[k].Oper == i {
			return z.generators[k].Amount, true
		}
	}
	return 0, false
}

// ZoneCollection is the ordered zone list of one preset or instrument with
// its global zone kept apart.
type ZoneCollection struct {
	global *Zone
	zones  []Zone
}

// Global returns the global zone, or nil when there is none.
func (c *ZoneCollection) Global() *Zone { return c.global }

// Zones returns the non-global zones in file order.
func (c *ZoneCollection) Zones() []Zone { return c.zones }

func (c *ZoneCollection) Len() int { return len(c.zones) }

// Match appends to dst every non-global zone that covers key and velocity.
func (c *ZoneCollection) Match(key, velocity int, dst []*Zone) []*Zone {
	for i := range c.zones {
		if c.zones[i].Matches(key, velocity) {
			dst = append(dst, &c.zones[i])
		}
	}
	return dst
}

// zoneTables are the flat pdta tables one entity kind draws its zones from.
type zoneTables struct {
	kind       ZoneKind
	bags       entity.Table[entity.Bag]
	generators entity.Table[entity.Generator]
	modulators entity.Table[modulator.Modulator]
	links      int
}

// collect resolves the bags in [lo, hi). Zones referencing data outside the
// tables are left out.
func (t *zoneTables) collect(lo, hi int) ZoneCollection {
	var c ZoneCollection
	if lo < 0 || hi < lo || hi > t.bags.Len() {
		return c
	}

	zones := make([]Zone, 0, hi-lo)
	globalIndex := -1
	for j := lo; j < hi; j++ {
		z, ok := t.zone(j)
		if !ok {
			continue
		}
		if z.global {
			if j != lo {
				continue
			}
			globalIndex = len(zones)
		}
		zones = append(zones, z)
	}

	if globalIndex >= 0 {
		g := zones[globalIndex]
		c.global = &g
		zones = append(zones[:globalIndex], zones[globalIndex+1:]...)
	}
	c.zones = zones
	return c
}

func (t *zoneTables) zone(j int) (Zone, bool) {
	bag, ok := t.bags.At(j)
	if !ok {
		return Zone{}, false
	}
	next, ok := t.bags.At(j + 1)
	if !ok {
		return Zone{}, false
	}
	gens, ok := t.generators.Slice(int(bag.GeneratorIndex), int(next.GeneratorIndex))
	if !ok {
		return Zone{}, false
	}
	mods, ok := t.modulators.Slice(int(bag.ModulatorIndex), int(next.ModulatorIndex))
	if !ok {
		return Zone{}, false
	}
	if len(gens) == 0 && len(mods) == 0 {
		return Zone{}, false
	}

	z := Zone{
		kind:       t.kind,
		generators: gens,
		modulators: mods,
		keys:       generator.FullMIDIRange,
		velocities: generator.FullMIDIRange,
		link:       -1,
	}

	terminal := t.kind.terminal()
	if len(gens) == 0 || gens[len(gens)-1].Oper != terminal {
		z.global = true
		return z, true
	}

	link := int(gens[len(gens)-1].Amount.Unsigned())
	if link >= t.links {
		return Zone{}, false
	}
	z.link = link

	for k, g := range gens {
		switch {
		case g.Oper == generator.KeyRange && k == 0:
			z.keys = g.Amount.Range()
		case g.Oper == generator.VelRange && (k == 0 || (k == 1 && gens[0].Oper == generator.KeyRange)):
			z.velocities = g.Amount.Range()
		}
	}
	return z, true
}
