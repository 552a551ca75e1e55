// SPDX-License-Identifier: EPL-2.0

package sf2

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-audio/riff"

	"github.com/ik5/sf2pbx/sf2/chunk"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/modulator"
)

// SoundFont is a parsed SF2 bank. It is immutable after Load and safe for
// concurrent readers.
type SoundFont struct {
	info        entity.Info
	presets     []Preset
	instruments []Instrument
	samples     []entity.SampleHeader
	pcm         PCM
}

func (sf *SoundFont) Info() entity.Info { return sf.info }

// Presets returns the presets sorted by bank, then program.
func (sf *SoundFont) Presets() []Preset { return sf.presets }

// Preset returns the preset with handle h.
func (sf *SoundFont) Preset(h Handle) (*Preset, error) {
	if h < 0 || int(h) >= len(sf.presets) {
		return nil, fmt.Errorf("handle %d: %w", h, ErrUnknownPreset)
	}
	return &sf.presets[h], nil
}

// Lookup returns the preset at bank and program.
func (sf *SoundFont) Lookup(bank, program int) (*Preset, error) {
	i, ok := slices.BinarySearchFunc(sf.presets, [2]int{bank, program}, func(p Preset, t [2]int) int {
		return cmp.Or(cmp.Compare(p.Bank(), t[0]), cmp.Compare(p.Program(), t[1]))
	})
	if !ok {
		return nil, fmt.Errorf("bank %d program %d: %w", bank, program, ErrUnknownPreset)
	}
	return &sf.presets[i], nil
}

func (sf *SoundFont) Instruments() []Instrument { return sf.instruments }

func (sf *SoundFont) Samples() []entity.SampleHeader { return sf.samples }

// PCM returns the sample pool.
func (sf *SoundFont) PCM() PCM { return sf.pcm }

// Sniff reads the RIFF header from r and reports whether it starts an SF2
// bank.
func Sniff(r io.Reader) error {
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrNotRIFF, err)
	}
	if chunk.Tag(p.Format) != chunk.TagSFBK {
		return fmt.Errorf("form type %s: %w", chunk.Tag(p.Format), ErrNotSoundFont)
	}
	return nil
}

// LoadFile reads and parses the SoundFont at path.
func LoadFile(path string) (*SoundFont, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(buf)
}

// LoadReader reads r to the end and parses the result.
func LoadReader(r io.Reader) (*SoundFont, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Load(buf)
}

// Load parses an SF2 file held in buf. Structural failures return an error
// wrapping ErrInvalidFile; damaged zones are dropped silently. The returned
// SoundFont copies the sample data and does not retain buf.
func Load(buf []byte) (*SoundFont, error) {
	sf, err := load(buf)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return sf, nil
}

func load(buf []byte) (*SoundFont, error) {
	root, err := chunk.Parse(buf)
	if err != nil {
		return nil, err
	}
	if root.Kind() != chunk.TagSFBK {
		return nil, fmt.Errorf("form type %s: %w", root.Kind(), ErrNotSoundFont)
	}

	var info, sdta, pdta *chunk.Chunk
	for c, err := range root.Chunks().All() {
		if err != nil {
			return nil, err
		}
		if !c.IsList() {
			continue
		}
		switch c.Kind() {
		case chunk.TagINFO:
			info = &c
		case chunk.TagSDTA:
			sdta = &c
		case chunk.TagPDTA:
			pdta = &c
		}
	}
	for _, l := range []struct {
		tag chunk.Tag
		c   *chunk.Chunk
	}{{chunk.TagINFO, info}, {chunk.TagSDTA, sdta}, {chunk.TagPDTA, pdta}} {
		if l.c == nil {
			return nil, fmt.Errorf("%s: %w", l.tag, ErrMissingList)
		}
	}

	sf := &SoundFont{}
	if sf.info, err = entity.ReadInfo(*info); err != nil {
		return nil, err
	}
	if sf.pcm, err = readSampleData(*sdta); err != nil {
		return nil, err
	}
	if err := sf.readPresetData(*pdta); err != nil {
		return nil, err
	}
	return sf, nil
}

func readSampleData(sdta chunk.Chunk) (PCM, error) {
	var smpl, sm24 []byte
	for c, err := range sdta.Chunks().All() {
		if err != nil {
			return PCM{}, fmt.Errorf("sdta: %w", err)
		}
		switch c.Tag() {
		case chunk.TagSMPL:
			smpl = c.Data()
		case chunk.TagSM24:
			sm24 = c.Data()
		}
	}
	return newPCM(smpl, sm24), nil
}

// pdtaTables collects the nine preset data tables.
type pdtaTables struct {
	phdr entity.Table[entity.PresetHeader]
	pbag entity.Table[entity.Bag]
	pmod entity.Table[modulator.Modulator]
	pgen entity.Table[entity.Generator]
	inst entity.Table[entity.InstrumentHeader]
	ibag entity.Table[entity.Bag]
	imod entity.Table[modulator.Modulator]
	igen entity.Table[entity.Generator]
	shdr entity.Table[entity.SampleHeader]
}

func decodeInto[T any](pdta chunk.Chunk, tag chunk.Tag, size int, fn func(*chunk.Cursor) (T, error), dst *entity.Table[T]) error {
	c, err := pdta.Find(tag)
	if err != nil {
		return err
	}
	*dst, err = entity.Decode(c, size, fn)
	return err
}

func (sf *SoundFont) readPresetData(pdta chunk.Chunk) error {
	var t pdtaTables
	errs := []error{
		decodeInto(pdta, chunk.TagPHDR, entity.PresetHeaderSize, entity.ReadPresetHeader, &t.phdr),
		decodeInto(pdta, chunk.TagPBAG, entity.BagSize, entity.ReadBag, &t.pbag),
		decodeInto(pdta, chunk.TagPMOD, entity.ModulatorSize, entity.ReadModulator, &t.pmod),
		decodeInto(pdta, chunk.TagPGEN, entity.GeneratorSize, entity.ReadGenerator, &t.pgen),
		decodeInto(pdta, chunk.TagINST, entity.InstrumentHeaderSize, entity.ReadInstrumentHeader, &t.inst),
		decodeInto(pdta, chunk.TagIBAG, entity.BagSize, entity.ReadBag, &t.ibag),
		decodeInto(pdta, chunk.TagIMOD, entity.ModulatorSize, entity.ReadModulator, &t.imod),
		decodeInto(pdta, chunk.TagIGEN, entity.GeneratorSize, entity.ReadGenerator, &t.igen),
		decodeInto(pdta, chunk.TagSHDR, entity.SampleHeaderSize, entity.ReadSampleHeader, &t.shdr),
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	sf.samples = slices.Clone(t.shdr.Items())

	instZones := zoneTables{
		kind:       ZoneKindInstrument,
		bags:       t.ibag,
		generators: t.igen,
		modulators: t.imod,
		links:      len(sf.samples),
	}
	sf.instruments = make([]Instrument, t.inst.Len())
	for i := range sf.instruments {
		h, _ := t.inst.At(i)
		next, _ := t.inst.At(i + 1)
		sf.instruments[i] = Instrument{
			name:  h.Name,
			zones: instZones.collect(int(h.BagIndex), int(next.BagIndex)),
		}
	}

	presetZones := zoneTables{
		kind:       ZoneKindPreset,
		bags:       t.pbag,
		generators: t.pgen,
		modulators: t.pmod,
		links:      len(sf.instruments),
	}
	sf.presets = make([]Preset, 0, t.phdr.Len())
	for i := range t.phdr.Len() {
		h, _ := t.phdr.At(i)
		next, _ := t.phdr.At(i + 1)
		sf.presets = append(sf.presets, Preset{
			header: h,
			zones:  presetZones.collect(int(h.BagIndex), int(next.BagIndex)),
			font:   sf,
		})
	}
	slices.SortStableFunc(sf.presets, func(a, b Preset) int {
		return cmp.Or(cmp.Compare(a.header.Bank, b.header.Bank), cmp.Compare(a.header.Program, b.header.Program))
	})
	for i := range sf.presets {
		sf.presets[i].handle = Handle(i)
	}
	return nil
}
