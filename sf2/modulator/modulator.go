// SPDX-License-Identifier: EPL-2.0

package modulator

import (
	"fmt"
	"math"

	"github.com/ik5/sf2pbx/sf2/generator"
)

// Transform is the post-scaling operation applied to a modulator's output.
type Transform uint16

const (
	TransformLinear   Transform = 0
	TransformAbsolute Transform = 2
)

const linkFlag = 1 << 15

// Modulator routes a controller source to a generator, scaled by Amount and
// by the value of AmountSource.
type Modulator struct {
	Source       Source
	Destination  uint16
	Amount       int16
	AmountSource Source
	Transform    Transform
}

// Size is the encoded length of a modulator record in pmod and imod.
const Size = 10

// Target returns the destination generator. ok is false when the
// destination is a link to another modulator.
func (m Modulator) Target() (generator.Index, bool) {
	if m.Destination&linkFlag != 0 {
		return 0, false
	}
	return generator.Index(m.Destination), true
}

// Link returns the zone-local index of the modulator fed by m.
func (m Modulator) Link() (int, bool) {
	if m.Destination&linkFlag == 0 {
		return 0, false
	}
	return int(m.Destination &^ linkFlag), true
}

// SameIdentity reports whether m and o describe the same routing. Two
// modulators are identical when source, destination and amount source match;
// the amount and transform do not take part.
func (m Modulator) SameIdentity(o Modulator) bool {
	return m.Source == o.Source && m.Destination == o.Destination && m.AmountSource == o.AmountSource
}

// Valid reports whether both sources are legal and the destination is a
// known generator or a link.
func (m Modulator) Valid() bool {
	if !m.Source.Valid() || !m.AmountSource.Valid() || m.AmountSource.IsLink() {
		return false
	}
	if m.Transform != TransformLinear && m.Transform != TransformAbsolute {
		return false
	}
	if _, ok := m.Link(); ok {
		return true
	}
	dest, _ := m.Target()
	return dest.Valid()
}

// Value computes the modulator output from already transformed source and
// amount source values. A none source yields 0; a none amount source scales
// by one.
func (m Modulator) Value(source, amountSource float64) float64 {
	if m.Source.IsNone() {
		return 0
	}
	if m.AmountSource.IsNone() {
		amountSource = 1
	}
	v := source * amountSource * float64(m.Amount)
	if m.Transform == TransformAbsolute {
		v = math.Abs(v)
	}
	return v
}

func (m Modulator) String() string {
	dest := ""
	if link, ok := m.Link(); ok {
		dest = fmt.Sprintf("mod[%d]", link)
	} else {
		t, _ := m.Target()
		dest = t.String()
	}
	s := fmt.Sprintf("%s -> %s x %d", m.Source, dest, m.Amount)
	if !m.AmountSource.IsNone() {
		s += fmt.Sprintf(" x %s", m.AmountSource)
	}
	if m.Transform == TransformAbsolute {
		s += " abs"
	}
	return s
}
