// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"

	"github.com/ik5/sf2pbx/dsp"
)

// Kind describes how a generator amount is interpreted.
type Kind uint8

const (
	KindUnsigned Kind = iota
	KindOffset
	KindCoarseOffset
	KindSigned
	KindCents
	KindCentibels
	KindPercent
	KindSignedPercent
	KindFrequencyCents
	KindTimecents
	KindSemitones
	KindRange
)

// Definition is the static description of a generator operator.
type Definition struct {
	name     string
	kind     Kind
	inPreset bool
	def      int16
	limit    Range[int]
	bounded  bool
}

func (d Definition) Name() string { return d.name }
func (d Definition) Kind() Kind   { return d.kind }

// AvailableInPreset reports whether the generator may appear in a preset
// zone. Preset values for other generators are ignored.
func (d Definition) AvailableInPreset() bool { return d.inPreset }

// Default is the value a voice starts with when no zone sets the generator.
func (d Definition) Default() int16 { return d.def }

// Limits returns the legal range of the generator. ok is false for
// generators without one, such as sample offsets and indices.
func (d Definition) Limits() (r Range[int], ok bool) { return d.limit, d.bounded }

// Clamp limits v to the legal range of the generator.
func (d Definition) Clamp(v int) int {
	if !d.bounded {
		return v
	}
	return d.limit.Clamp(v)
}

// ClampFloat is Clamp for modulated values.
func (d Definition) ClampFloat(v float64) float64 {
	if !d.bounded {
		return v
	}
	return Range[float64]{Low: float64(d.limit.Low), High: float64(d.limit.High)}.Clamp(v)
}

// IsUnsigned reports whether amounts are read as unsigned values.
func (d Definition) IsUnsigned() bool { return d.kind == KindUnsigned }

// Value returns the integer value of a for this generator.
func (d Definition) Value(a Amount) int {
	if d.IsUnsigned() {
		return int(a.Unsigned())
	}
	return int(a.Signed())
}

// Convert returns a in natural units: sample frames for offsets, octaves for
// cents, dB for centibels, percent, Hz, seconds or semitones.
func (d Definition) Convert(a Amount) float64 {
	v := float64(d.Value(a))
	switch d.kind {
	case KindCoarseOffset:
		return v * 32768
	case KindCents:
		return v / 1200
	case KindCentibels, KindPercent, KindSignedPercent:
		return v / 10
	case KindFrequencyCents:
		return dsp.CentsToFrequency(v)
	case KindTimecents:
		return dsp.TimecentsToSeconds(v)
	default:
		return v
	}
}

// Format renders a for display.
func (d Definition) Format(a Amount) string {
	switch d.kind {
	case KindRange:
		return fmt.Sprintf("[%d-%d]", a.Low(), a.High())
	case KindOffset, KindCoarseOffset:
		return fmt.Sprintf("%g samples", d.Convert(a))
	case KindCents:
		return fmt.Sprintf("%g oct", d.Convert(a))
	case KindCentibels:
		return fmt.Sprintf("%g dB", d.Convert(a))
	case KindPercent, KindSignedPercent:
		return fmt.Sprintf("%g%%", d.Convert(a))
	case KindFrequencyCents:
		return fmt.Sprintf("%.3f Hz", d.Convert(a))
	case KindTimecents:
		return fmt.Sprintf("%.4f s", d.Convert(a))
	case KindSemitones:
		return fmt.Sprintf("%d notes", d.Value(a))
	default:
		return fmt.Sprintf("%d", d.Value(a))
	}
}

// Def returns the definition of i. Unknown indices return a signed,
// instrument-only placeholder.
func Def(i Index) Definition {
	if !i.Valid() {
		return Definition{name: i.String(), kind: KindSigned}
	}
	return definitions[i]
}

const (
	minTimecents   = -12000
	maxDelay       = 5000
	maxTimecents   = 8000
	maxAttenuation = 1440
)

// limits are the ranges of SF2 2.04 section 8.1.3.
var limits = map[Index]Range[int]{
	ModLFOToPitch:       {-12000, 12000},
	VibLFOToPitch:       {-12000, 12000},
	ModEnvToPitch:       {-12000, 12000},
	InitialFilterFc:     {1500, 13500},
	InitialFilterQ:      {0, 960},
	ModLFOToFilterFc:    {-12000, 12000},
	ModEnvToFilterFc:    {-12000, 12000},
	ModLFOToVolume:      {-960, 960},
	ChorusEffectsSend:   {0, 1000},
	ReverbEffectsSend:   {0, 1000},
	Pan:                 {-500, 500},
	DelayModLFO:         {minTimecents, maxDelay},
	FreqModLFO:          {-16000, 4500},
	DelayVibLFO:         {minTimecents, maxDelay},
	FreqVibLFO:          {-16000, 4500},
	DelayModEnv:         {minTimecents, maxDelay},
	AttackModEnv:        {minTimecents, maxTimecents},
	HoldModEnv:          {minTimecents, maxDelay},
	DecayModEnv:         {minTimecents, maxTimecents},
	SustainModEnv:       {0, 1000},
	ReleaseModEnv:       {minTimecents, maxTimecents},
	KeynumToModEnvHold:  {-1200, 1200},
	KeynumToModEnvDecay: {-1200, 1200},
	DelayVolEnv:         {minTimecents, maxDelay},
	AttackVolEnv:        {minTimecents, maxTimecents},
	HoldVolEnv:          {minTimecents, maxDelay},
	DecayVolEnv:         {minTimecents, maxTimecents},
	SustainVolEnv:       {0, maxAttenuation},
	ReleaseVolEnv:       {minTimecents, maxTimecents},
	KeynumToVolEnvHold:  {-1200, 1200},
	KeynumToVolEnvDecay: {-1200, 1200},
	InitialAttenuation:  {0, maxAttenuation},
	CoarseTune:          {-120, 120},
	FineTune:            {-99, 99},
	ScaleTuning:         {0, 1200},
}

func init() {
	for i, r := range limits {
		definitions[i].limit = r
		definitions[i].bounded = true
	}
}

var definitions = [NumIndices]Definition{
	StartAddrsOffset:           {name: "startAddrsOffset", kind: KindOffset},
	EndAddrsOffset:             {name: "endAddrsOffset", kind: KindOffset},
	StartLoopAddrsOffset:       {name: "startloopAddrsOffset", kind: KindOffset},
	EndLoopAddrsOffset:         {name: "endloopAddrsOffset", kind: KindOffset},
	StartAddrsCoarseOffset:     {name: "startAddrsCoarseOffset", kind: KindCoarseOffset},
	ModLFOToPitch:              {name: "modLfoToPitch", kind: KindCents, inPreset: true},
	VibLFOToPitch:              {name: "vibLfoToPitch", kind: KindCents, inPreset: true},
	ModEnvToPitch:              {name: "modEnvToPitch", kind: KindCents, inPreset: true},
	InitialFilterFc:            {name: "initialFilterFc", kind: KindFrequencyCents, inPreset: true, def: 13500},
	InitialFilterQ:             {name: "initialFilterQ", kind: KindCentibels, inPreset: true},
	ModLFOToFilterFc:           {name: "modLfoToFilterFc", kind: KindSigned, inPreset: true},
	ModEnvToFilterFc:           {name: "modEnvToFilterFc", kind: KindSigned, inPreset: true},
	EndAddrsCoarseOffset:       {name: "endAddrsCoarseOffset", kind: KindCoarseOffset},
	ModLFOToVolume:             {name: "modLfoToVolume", kind: KindCentibels, inPreset: true},
	Unused1:                    {name: "unused1", kind: KindSigned},
	ChorusEffectsSend:          {name: "chorusEffectsSend", kind: KindPercent, inPreset: true},
	ReverbEffectsSend:          {name: "reverbEffectsSend", kind: KindPercent, inPreset: true},
	Pan:                        {name: "pan", kind: KindSignedPercent, inPreset: true},
	Unused2:                    {name: "unused2", kind: KindUnsigned},
	Unused3:                    {name: "unused3", kind: KindUnsigned},
	Unused4:                    {name: "unused4", kind: KindUnsigned},
	DelayModLFO:                {name: "delayModLFO", kind: KindTimecents, inPreset: true, def: minTimecents},
	FreqModLFO:                 {name: "freqModLFO", kind: KindFrequencyCents, inPreset: true},
	DelayVibLFO:                {name: "delayVibLFO", kind: KindTimecents, inPreset: true, def: minTimecents},
	FreqVibLFO:                 {name: "freqVibLFO", kind: KindFrequencyCents, inPreset: true},
	DelayModEnv:                {name: "delayModEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	AttackModEnv:               {name: "attackModEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	HoldModEnv:                 {name: "holdModEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	DecayModEnv:                {name: "decayModEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	SustainModEnv:              {name: "sustainModEnv", kind: KindPercent, inPreset: true},
	ReleaseModEnv:              {name: "releaseModEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	KeynumToModEnvHold:         {name: "keynumToModEnvHold", kind: KindSigned, inPreset: true},
	KeynumToModEnvDecay:        {name: "keynumToModEnvDecay", kind: KindSigned, inPreset: true},
	DelayVolEnv:                {name: "delayVolEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	AttackVolEnv:               {name: "attackVolEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	HoldVolEnv:                 {name: "holdVolEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	DecayVolEnv:                {name: "decayVolEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	SustainVolEnv:              {name: "sustainVolEnv", kind: KindCentibels, inPreset: true},
	ReleaseVolEnv:              {name: "releaseVolEnv", kind: KindTimecents, inPreset: true, def: minTimecents},
	KeynumToVolEnvHold:         {name: "keynumToVolEnvHold", kind: KindSigned, inPreset: true},
	KeynumToVolEnvDecay:        {name: "keynumToVolEnvDecay", kind: KindSigned, inPreset: true},
	Instrument:                 {name: "instrument", kind: KindUnsigned, inPreset: true},
	Reserved1:                  {name: "reserved1", kind: KindSigned},
	KeyRange:                   {name: "keyRange", kind: KindRange, inPreset: true},
	VelRange:                   {name: "velRange", kind: KindRange, inPreset: true},
	StartLoopAddrsCoarseOffset: {name: "startloopAddrsCoarseOffset", kind: KindCoarseOffset},
	Keynum:                     {name: "keynum", kind: KindSigned, def: -1},
	Velocity:                   {name: "velocity", kind: KindSigned, def: -1},
	InitialAttenuation:         {name: "initialAttenuation", kind: KindCentibels, inPreset: true},
	Reserved2:                  {name: "reserved2", kind: KindUnsigned},
	EndLoopAddrsCoarseOffset:   {name: "endloopAddrsCoarseOffset", kind: KindCoarseOffset},
	CoarseTune:                 {name: "coarseTune", kind: KindSemitones, inPreset: true},
	FineTune:                   {name: "fineTune", kind: KindCents, inPreset: true},
	SampleID:                   {name: "sampleID", kind: KindUnsigned},
	SampleModes:                {name: "sampleModes", kind: KindUnsigned},
	Reserved3:                  {name: "reserved3", kind: KindSigned},
	ScaleTuning:                {name: "scaleTuning", kind: KindUnsigned, inPreset: true, def: 100},
	ExclusiveClass:             {name: "exclusiveClass", kind: KindUnsigned},
	OverridingRootKey:          {name: "overridingRootKey", kind: KindSigned, def: -1},
}
