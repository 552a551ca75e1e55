// SPDX-License-Identifier: EPL-2.0

package generator

import "strconv"

// Index identifies an SF2 generator operator.
type Index uint16

const (
	StartAddrsOffset Index = iota
	EndAddrsOffset
	StartLoopAddrsOffset
	EndLoopAddrsOffset
	StartAddrsCoarseOffset
	ModLFOToPitch
	VibLFOToPitch
	ModEnvToPitch
	InitialFilterFc
	InitialFilterQ
	ModLFOToFilterFc
	ModEnvToFilterFc
	EndAddrsCoarseOffset
	ModLFOToVolume
	Unused1
	ChorusEffectsSend
	ReverbEffectsSend
	Pan
	Unused2
	Unused3
	Unused4
	DelayModLFO
	FreqModLFO
	DelayVibLFO
	FreqVibLFO
	DelayModEnv
	AttackModEnv
	HoldModEnv
	DecayModEnv
	SustainModEnv
	ReleaseModEnv
	KeynumToModEnvHold
	KeynumToModEnvDecay
	DelayVolEnv
	AttackVolEnv
	HoldVolEnv
	DecayVolEnv
	SustainVolEnv
	ReleaseVolEnv
	KeynumToVolEnvHold
	KeynumToVolEnvDecay
	Instrument
	Reserved1
	KeyRange
	VelRange
	StartLoopAddrsCoarseOffset
	Keynum
	Velocity
	InitialAttenuation
	Reserved2
	EndLoopAddrsCoarseOffset
	CoarseTune
	FineTune
	SampleID
	SampleModes
	Reserved3
	ScaleTuning
	ExclusiveClass
	OverridingRootKey

	// NumIndices is the number of defined generator operators.
	NumIndices int = iota
)

// Valid reports whether i names a defined generator.
func (i Index) Valid() bool {
	return int(i) < NumIndices
}

func (i Index) String() string {
	if !i.Valid() {
		return "generator(" + strconv.Itoa(int(i)) + ")"
	}
	return definitions[i].name
}
