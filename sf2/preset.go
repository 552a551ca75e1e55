// SPDX-License-Identifier: EPL-2.0

package sf2

import (
	"fmt"

	"github.com/ik5/sf2pbx/sf2/entity"
)

// Handle identifies a preset within one SoundFont. Handles are positions in
// the sorted preset list, so loading the same bytes yields the same handles.
type Handle int

// Instrument is a named zone collection whose zones point at samples.
type Instrument struct {
	name  string
	zones ZoneCollection
}

func (i *Instrument) Name() string           { return i.name }
func (i *Instrument) Zones() *ZoneCollection { return &i.zones }

// Preset is a named, bank/program addressed zone collection whose zones
// point at instruments.
type Preset struct {
	header entity.PresetHeader
	handle Handle
	zones  ZoneCollection
	font   *SoundFont
}

func (p *Preset) Name() string           { return p.header.Name }
func (p *Preset) Bank() int              { return int(p.header.Bank) }
func (p *Preset) Program() int           { return int(p.header.Program) }
func (p *Preset) Handle() Handle         { return p.handle }
func (p *Preset) Zones() *ZoneCollection { return &p.zones }

// Header returns the raw phdr record.
func (p *Preset) Header() entity.PresetHeader { return p.header }

func (p *Preset) String() string {
	return fmt.Sprintf("%03d:%03d %s", p.Bank(), p.Program(), p.Name())
}

// Layer is one sounding combination of a preset zone and an instrument zone
// for a key and velocity. Global zone pointers are nil when absent.
type Layer struct {
	Preset           *Preset
	PresetGlobal     *Zone
	PresetZone       *Zone
	Instrument       *Instrument
	InstrumentGlobal *Zone
	InstrumentZone   *Zone
	Sample           *entity.SampleHeader
}

// Find appends to dst every layer that sounds for key and velocity. It does
// not allocate when dst has enough capacity.
func (p *Preset) Find(key, velocity int, dst []Layer) []Layer {
	sf := p.font
	for i := range p.zones.zones {
		pz := &p.zones.zones[i]
		if !pz.Matches(key, velocity) {
			continue
		}
		inst := &sf.instruments[pz.link]
		for j := range inst.zones.zones {
			iz := &inst.zones.zones[j]
			if !iz.Matches(key, velocity) {
				continue
			}
			dst = append(dst, Layer{
				Preset:           p,
				PresetGlobal:     p.zones.global,
				PresetZone:       pz,
				Instrument:       inst,
				InstrumentGlobal: inst.zones.global,
				InstrumentZone:   iz,
				Sample:           &sf.samples[iz.link],
			})
		}
	}
	return dst
}
