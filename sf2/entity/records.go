// SPDX-License-Identifier: EPL-2.0

package entity

import (
	"fmt"

	"github.com/ik5/sf2pbx/sf2/chunk"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/modulator"
)

// Encoded record sizes in bytes.
const (
	NameSize             = 20
	VersionSize          = 4
	PresetHeaderSize     = 38
	BagSize              = 4
	ModulatorSize        = modulator.Size
	GeneratorSize        = 4
	InstrumentHeaderSize = 22
	SampleHeaderSize     = 46
)

// Version is the ifil or iver record.
type Version struct {
	Major uint16
	Minor uint16
}

func (v Version) String() string { return fmt.Sprintf("%d.%02d", v.Major, v.Minor) }

func ReadVersion(c *chunk.Cursor) (Version, error) {
	r := reader{c: c}
	v := Version{Major: r.u16(), Minor: r.u16()}
	return v, r.err
}

// PresetHeader is one phdr record.
type PresetHeader struct {
	Name       string
	Program    uint16
	Bank       uint16
	BagIndex   uint16
	Library    uint32
	Genre      uint32
	Morphology uint32
}

func ReadPresetHeader(c *chunk.Cursor) (PresetHeader, error) {
	r := reader{c: c}
	p := PresetHeader{
		Name:       r.name(),
		Program:    r.u16(),
		Bank:       r.u16(),
		BagIndex:   r.u16(),
		Library:    r.u32(),
		Genre:      r.u32(),
		Morphology: r.u32(),
	}
	return p, r.err
}

// InstrumentHeader is one inst record.
type InstrumentHeader struct {
	Name     string
	BagIndex uint16
}

func ReadInstrumentHeader(c *chunk.Cursor) (InstrumentHeader, error) {
	r := reader{c: c}
	h := InstrumentHeader{Name: r.name(), BagIndex: r.u16()}
	return h, r.err
}

// Bag is one pbag or ibag record: the first generator and modulator of a zone.
type Bag struct {
	GeneratorIndex uint16
	ModulatorIndex uint16
}

func ReadBag(c *chunk.Cursor) (Bag, error) {
	r := reader{c: c}
	b := Bag{GeneratorIndex: r.u16(), ModulatorIndex: r.u16()}
	return b, r.err
}

// Generator is one pgen or igen record.
type Generator struct {
	Oper   generator.Index
	Amount generator.Amount
}

func (g Generator) String() string {
	return g.Oper.String() + "=" + generator.Def(g.Oper).Format(g.Amount)
}

func ReadGenerator(c *chunk.Cursor) (Generator, error) {
	r := reader{c: c}
	g := Generator{Oper: generator.Index(r.u16()), Amount: generator.Amount(r.u16())}
	return g, r.err
}

func ReadModulator(c *chunk.Cursor) (modulator.Modulator, error) {
	r := reader{c: c}
	m := modulator.Modulator{
		Source:       modulator.Source(r.u16()),
		Destination:  r.u16(),
		Amount:       r.i16(),
		AmountSource: modulator.Source(r.u16()),
		Transform:    modulator.Transform(r.u16()),
	}
	return m, r.err
}

// SampleType flags of a sample header.
type SampleType uint16

const (
	SampleMono   SampleType = 1
	SampleRight  SampleType = 2
	SampleLeft   SampleType = 4
	SampleLinked SampleType = 8
	SampleROM    SampleType = 0x8000
)

// IsROM reports whether the sample data lives in a ROM rather than the smpl
// chunk.
func (t SampleType) IsROM() bool { return t&SampleROM != 0 }

func (t SampleType) String() string {
	var s string
	switch t &^ SampleROM {
	case SampleMono:
		s = "mono"
	case SampleRight:
		s = "right"
	case SampleLeft:
		s = "left"
	case SampleLinked:
		s = "linked"
	default:
		s = fmt.Sprintf("type(%d)", uint16(t&^SampleROM))
	}
	if t.IsROM() {
		s = "rom " + s
	}
	return s
}

// SampleHeader is one shdr record. Offsets are sample frames into the smpl
// pool.
type SampleHeader struct {
	Name            string
	Start           uint32
	End             uint32
	LoopStart       uint32
	LoopEnd         uint32
	SampleRate      uint32
	OriginalKey     uint8
	PitchCorrection int8
	SampleLink      uint16
	Type            SampleType
}

// LoopValid reports whether the loop lies inside the sample and is not empty.
func (h SampleHeader) LoopValid() bool {
	return h.Start <= h.LoopStart && h.LoopStart < h.LoopEnd && h.LoopEnd <= h.End
}

// Frames returns the number of sample frames between start and end.
func (h SampleHeader) Frames() int {
	if h.End < h.Start {
		return 0
	}
	return int(h.End - h.Start)
}

func ReadSampleHeader(c *chunk.Cursor) (SampleHeader, error) {
	r := reader{c: c}
	h := SampleHeader{
		Name:            r.name(),
		Start:           r.u32(),
		End:             r.u32(),
		LoopStart:       r.u32(),
		LoopEnd:         r.u32(),
		SampleRate:      r.u32(),
		OriginalKey:     r.u8(),
		PitchCorrection: r.i8(),
		SampleLink:      r.u16(),
		Type:            SampleType(r.u16()),
	}
	return h, r.err
}
