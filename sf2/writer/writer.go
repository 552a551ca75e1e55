// SPDX-License-Identifier: EPL-2.0

package writer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/sf2pbx/sf2/chunk"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
	"github.com/ik5/sf2pbx/sf2/modulator"
)

// SamplePadding is the number of zero frames written after every sample.
const SamplePadding = 46

var (
	ErrNoSampleData = errors.New("sample has no data")
	ErrBadLow       = errors.New("sm24 data length does not match sample length")
	ErrBadLink      = errors.New("zone links to an undefined entry")
	ErrTooLarge     = errors.New("table exceeds 65535 entries")
)

// Sample is a mono PCM sample to embed in the smpl chunk. Loop points are
// relative to the first frame of Data.
type Sample struct {
	Name        string
	Data        []int16
	Low         []byte
	SampleRate  int
	OriginalKey int
	Correction  int
	LoopStart   int
	LoopEnd     int
	Type        entity.SampleType
}

// Zone is a preset or instrument zone. Generators are written in order; use
// SampleZone and InstrumentZone to append the terminal generator.
type Zone struct {
	Generators []entity.Generator
	Modulators []modulator.Modulator
}

// Set builds a generator with a signed amount.
func Set(i generator.Index, v int) entity.Generator {
	return entity.Generator{Oper: i, Amount: generator.SignedAmount(int16(v))}
}

// Range builds a keyRange or velRange generator.
func Range(i generator.Index, lo, hi int) entity.Generator {
	return entity.Generator{Oper: i, Amount: generator.RangeAmount(uint8(lo), uint8(hi))}
}

// SampleZone returns an instrument zone that plays sample.
func SampleZone(sample int, gens ...entity.Generator) Zone {
	return Zone{Generators: append(gens[:len(gens):len(gens)], entity.Generator{Oper: generator.SampleID, Amount: generator.Amount(sample)})}
}

// InstrumentZone returns a preset zone that plays instrument.
func InstrumentZone(instrument int, gens ...entity.Generator) Zone {
	return Zone{Generators: append(gens[:len(gens):len(gens)], entity.Generator{Oper: generator.Instrument, Amount: generator.Amount(instrument)})}
}

type instrument struct {
	name  string
	zones []Zone
}

type preset struct {
	name          string
	bank, program int
	zones         []Zone
}

// Writer assembles an SF2 file in memory.
type Writer struct {
	info        entity.Info
	samples     []Sample
	instruments []instrument
	presets     []preset
}

// New returns a Writer. Zero Version and empty SoundEngine or BankName
// fields are filled with the SF2 2.01 defaults.
func New(info entity.Info) *Writer {
	if info.Version == (entity.Version{}) {
		info.Version = entity.Version{Major: 2, Minor: 1}
	}
	if info.SoundEngine == "" {
		info.SoundEngine = "EMU8000"
	}
	if info.BankName == "" {
		info.BankName = "Untitled"
	}
	return &Writer{info: info}
}

// AddSample appends s and returns its index.
func (w *Writer) AddSample(s Sample) (int, error) {
	if len(s.Data) == 0 {
		return 0, fmt.Errorf("sample %q: %w", s.Name, ErrNoSampleData)
	}
	if s.Low != nil && len(s.Low) != len(s.Data) {
		return 0, fmt.Errorf("sample %q: %w", s.Name, ErrBadLow)
	}
	if s.Type == 0 {
		s.Type = entity.SampleMono
	}
	w.samples = append(w.samples, s)
	return len(w.samples) - 1, nil
}

// AddInstrument appends an instrument and returns its index. A first zone
// without a terminal sampleID generator becomes the global zone.
func (w *Writer) AddInstrument(name string, zones ...Zone) int {
	w.instruments = append(w.instruments, instrument{name: name, zones: zones})
	return len(w.instruments) - 1
}

// AddPreset appends a preset and returns its index in file order.
func (w *Writer) AddPreset(name string, bank, program int, zones ...Zone) int {
	w.presets = append(w.presets, preset{name: name, bank: bank, program: program, zones: zones})
	return len(w.presets) - 1
}

// WriteTo writes the SF2 file to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	buf, err := w.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := dst.Write(buf)
	return int64(n), err
}

// Bytes returns the encoded SF2 file.
func (w *Writer) Bytes() ([]byte, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}

	info := w.infoList()
	sdta, starts := w.sampleList()
	pdta := w.presetList(starts)

	var body bytes.Buffer
	body.Write(chunk.TagSFBK[:])
	body.Write(info)
	body.Write(sdta)
	body.Write(pdta)
	return encodeChunk(chunk.TagRIFF, body.Bytes()), nil
}

func (w *Writer) validate() error {
	if len(w.presets) >= 0xffff || len(w.instruments) >= 0xffff || len(w.samples) >= 0xffff {
		return ErrTooLarge
	}
	for _, in := range w.instruments {
		for _, z := range in.zones {
			if link, ok := terminal(z, generator.SampleID); ok && link >= len(w.samples) {
				return fmt.Errorf("instrument %q sample %d: %w", in.name, link, ErrBadLink)
			}
		}
	}
	for _, p := range w.presets {
		for _, z := range p.zones {
			if link, ok := terminal(z, generator.Instrument); ok && link >= len(w.instruments) {
				return fmt.Errorf("preset %q instrument %d: %w", p.name, link, ErrBadLink)
			}
		}
	}
	return nil
}

func terminal(z Zone, oper generator.Index) (int, bool) {
	if n := len(z.Generators); n > 0 && z.Generators[n-1].Oper == oper {
		return int(z.Generators[n-1].Amount.Unsigned()), true
	}
	return 0, false
}

func encodeChunk(tag chunk.Tag, payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload)+1)
	out = append(out, tag[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	if len(payload)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func encodeList(kind chunk.Tag, children ...[]byte) []byte {
	body := append([]byte(nil), kind[:]...)
	for _, c := range children {
		body = append(body, c...)
	}
	return encodeChunk(chunk.TagLIST, body)
}

// text encodes a NUL terminated INFO string padded to an even length.
func text(s string) []byte {
	b := append([]byte(s), 0)
	if len(b)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

func version(v entity.Version) []byte {
	b := binary.LittleEndian.AppendUint16(nil, v.Major)
	return binary.LittleEndian.AppendUint16(b, v.Minor)
}

func (w *Writer) infoList() []byte {
	in := w.info
	children := [][]byte{
		encodeChunk(chunk.TagIFIL, version(in.Version)),
		encodeChunk(chunk.TagISNG, text(in.SoundEngine)),
		encodeChunk(chunk.TagINAM, text(in.BankName)),
	}
	if in.ROMName != "" {
		children = append(children,
			encodeChunk(chunk.TagIROM, text(in.ROMName)),
			encodeChunk(chunk.TagIVER, version(in.ROMVersion)))
	}
	for _, f := range []struct {
		tag chunk.Tag
		v   string
	}{
		{chunk.TagICRD, in.CreationDate},
		{chunk.TagIENG, in.Engineers},
		{chunk.TagIPRD, in.Product},
		{chunk.TagICOP, in.Copyright},
		{chunk.TagICMT, in.Comment},
		{chunk.TagISFT, in.Tool},
	} {
		if f.v != "" {
			children = append(children, encodeChunk(f.tag, text(f.v)))
		}
	}
	return encodeList(chunk.TagINFO, children...)
}

// sampleList encodes sdta and returns the first frame of every sample.
func (w *Writer) sampleList() ([]byte, []int) {
	var (
		smpl   []byte
		sm24   []byte
		starts = make([]int, len(w.samples))
		frames int
		is24   bool
	)
	for _, s := range w.samples {
		if s.Low != nil {
			is24 = true
		}
	}
	for i, s := range w.samples {
		starts[i] = frames
		for _, v := range s.Data {
			smpl = binary.LittleEndian.AppendUint16(smpl, uint16(v))
		}
		smpl = append(smpl, make([]byte, 2*SamplePadding)...)
		if is24 {
			low := s.Low
			if low == nil {
				low = make([]byte, len(s.Data))
			}
			sm24 = append(sm24, low...)
			sm24 = append(sm24, make([]byte, SamplePadding)...)
		}
		frames += len(s.Data) + SamplePadding
	}

	children := [][]byte{encodeChunk(chunk.TagSMPL, smpl)}
	if is24 {
		children = append(children, encodeChunk(chunk.TagSM24, sm24))
	}
	return encodeList(chunk.TagSDTA, children...), starts
}

func name20(s string) []byte {
	b := make([]byte, entity.NameSize)
	copy(b[:entity.NameSize-1], s)
	return b
}

type tables struct {
	hdr, bag, mod, gen []byte
	bags, mods, gens   int
}

func (t *tables) zone(z Zone) {
	t.bag = binary.LittleEndian.AppendUint16(t.bag, uint16(t.gens))
	t.bag = binary.LittleEndian.AppendUint16(t.bag, uint16(t.mods))
	t.bags++
	for _, g := range z.Generators {
		t.gen = binary.LittleEndian.AppendUint16(t.gen, uint16(g.Oper))
		t.gen = binary.LittleEndian.AppendUint16(t.gen, uint16(g.Amount))
		t.gens++
	}
	for _, m := range z.Modulators {
		t.mod = binary.LittleEndian.AppendUint16(t.mod, uint16(m.Source))
		t.mod = binary.LittleEndian.AppendUint16(t.mod, m.Destination)
		t.mod = binary.LittleEndian.AppendUint16(t.mod, uint16(m.Amount))
		t.mod = binary.LittleEndian.AppendUint16(t.mod, uint16(m.AmountSource))
		t.mod = binary.LittleEndian.AppendUint16(t.mod, uint16(m.Transform))
		t.mods++
	}
}

// terminate appends the terminal bag, modulator and generator records.
func (t *tables) terminate() {
	t.bag = binary.LittleEndian.AppendUint16(t.bag, uint16(t.gens))
	t.bag = binary.LittleEndian.AppendUint16(t.bag, uint16(t.mods))
	t.mod = append(t.mod, make([]byte, entity.ModulatorSize)...)
	t.gen = append(t.gen, make([]byte, entity.GeneratorSize)...)
}

func (w *Writer) presetList(starts []int) []byte {
	var p tables
	for _, pr := range w.presets {
		p.hdr = append(p.hdr, name20(pr.name)...)
		p.hdr = binary.LittleEndian.AppendUint16(p.hdr, uint16(pr.program))
		p.hdr = binary.LittleEndian.AppendUint16(p.hdr, uint16(pr.bank))
		p.hdr = binary.LittleEndian.AppendUint16(p.hdr, uint16(p.bags))
		p.hdr = append(p.hdr, make([]byte, 12)...)
		for _, z := range pr.zones {
			p.zone(z)
		}
	}
	p.hdr = append(p.hdr, name20("EOP")...)
	p.hdr = append(p.hdr, 0, 0, 0, 0)
	p.hdr = binary.LittleEndian.AppendUint16(p.hdr, uint16(p.bags))
	p.hdr = append(p.hdr, make([]byte, 12)...)
	p.terminate()

	var in tables
	for _, inst := range w.instruments {
		in.hdr = append(in.hdr, name20(inst.name)...)
		in.hdr = binary.LittleEndian.AppendUint16(in.hdr, uint16(in.bags))
		for _, z := range inst.zones {
			in.zone(z)
		}
	}
	in.hdr = append(in.hdr, name20("EOI")...)
	in.hdr = binary.LittleEndian.AppendUint16(in.hdr, uint16(in.bags))
	in.terminate()

	var shdr []byte
	for i, s := range w.samples {
		start := uint32(starts[i])
		shdr = append(shdr, name20(s.Name)...)
		shdr = binary.LittleEndian.AppendUint32(shdr, start)
		shdr = binary.LittleEndian.AppendUint32(shdr, start+uint32(len(s.Data)))
		shdr = binary.LittleEndian.AppendUint32(shdr, start+uint32(s.LoopStart))
		shdr = binary.LittleEndian.AppendUint32(shdr, start+uint32(s.LoopEnd))
		shdr = binary.LittleEndian.AppendUint32(shdr, uint32(s.SampleRate))
		shdr = append(shdr, uint8(s.OriginalKey), uint8(int8(s.Correction)))
		shdr = binary.LittleEndian.AppendUint16(shdr, 0)
		shdr = binary.LittleEndian.AppendUint16(shdr, uint16(s.Type))
	}
	shdr = append(shdr, name20("EOS")...)
	shdr = append(shdr, make([]byte, entity.SampleHeaderSize-entity.NameSize)...)

	return encodeList(chunk.TagPDTA,
		encodeChunk(chunk.TagPHDR, p.hdr),
		encodeChunk(chunk.TagPBAG, p.bag),
		encodeChunk(chunk.TagPMOD, p.mod),
		encodeChunk(chunk.TagPGEN, p.gen),
		encodeChunk(chunk.TagINST, in.hdr),
		encodeChunk(chunk.TagIBAG, in.bag),
		encodeChunk(chunk.TagIMOD, in.mod),
		encodeChunk(chunk.TagIGEN, in.gen),
		encodeChunk(chunk.TagSHDR, shdr),
	)
}
