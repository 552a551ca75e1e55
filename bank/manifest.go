// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Manifest describes a SoundFont built from audio files.
type Manifest struct {
	Name      string `yaml:"name"`
	Engineers string `yaml:"engineers"`
	Copyright string `yaml:"copyright"`
	Comment   string `yaml:"comment"`
	// SampleRate resamples every sample when set. Zero keeps each file's
	// own rate.
	SampleRate int `yaml:"sample_rate"`
	// BitDepth is 16 (default) or 24. 24 bit banks carry an sm24 chunk.
	BitDepth    int          `yaml:"bit_depth"`
	Instruments []Instrument `yaml:"instruments"`
}

// Instrument becomes one SF2 instrument and the preset that plays it.
type Instrument struct {
	Name    string   `yaml:"name"`
	Bank    int      `yaml:"bank"`
	Program int      `yaml:"program"`
	Samples []Sample `yaml:"samples"`
}

// Sample is a single audio file mapped onto a key and velocity range.
type Sample struct {
	File string `yaml:"file"`
	Name string `yaml:"name"`
	// RootKey overrides the unity note stored in the file. Without either
	// the sample plays at its recorded pitch on key 60.
	RootKey  *int   `yaml:"root_key"`
	Keys     *Range `yaml:"keys"`
	Velocity *Range `yaml:"velocity"`
	// Loop in frames of the source file. It overrides loops found in the
	// file.
	Loop *Loop `yaml:"loop"`
	// Tune in cents.
	Tune int `yaml:"tune"`
	// Release of the volume envelope in seconds.
	Release float64 `yaml:"release"`
	// Attenuation in dB.
	Attenuation float64 `yaml:"attenuation"`
	// Pan in [-50, 50], negative is left.
	Pan float64 `yaml:"pan"`
}

// Range is an inclusive MIDI key or velocity range.
type Range struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// Loop is a sustain loop, End exclusive.
type Loop struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// LoadManifest reads a YAML manifest. Relative sample paths are resolved by
// Build against the directory it is given.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.WithStack(err)
	}
	m, err := ParseManifest(data)
	return m, errors.Wrapf(err, "manifest %s", path)
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return Manifest{}, errors.Wrap(ErrInvalidManifest, err.Error())
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks ranges and that every bank/program pair is used once.
func (m Manifest) Validate() error {
	if m.Name == "" {
		return errors.Wrap(ErrInvalidManifest, "missing name")
	}
	if m.SampleRate != 0 && (m.SampleRate < 400 || m.SampleRate > 192000) {
		return errors.Wrapf(ErrInvalidManifest, "sample_rate %d", m.SampleRate)
	}
	if m.BitDepth != 0 && m.BitDepth != 16 && m.BitDepth != 24 {
		return errors.Wrapf(ErrInvalidManifest, "bit_depth %d", m.BitDepth)
	}
	if len(m.Instruments) == 0 {
		return errors.Wrap(ErrInvalidManifest, "no instruments")
	}

	seen := make(map[[2]int]string, len(m.Instruments))
	for _, in := range m.Instruments {
		if err := in.validate(); err != nil {
			return errors.Wrapf(err, "instrument %q", in.Name)
		}
		id := [2]int{in.Bank, in.Program}
		if prev, ok := seen[id]; ok {
			return errors.Wrapf(ErrDuplicatePreset, "instrument %q %d:%d (used by %q)", in.Name, in.Bank, in.Program, prev)
		}
		seen[id] = in.Name
	}
	return nil
}

func (in Instrument) validate() error {
	switch {
	case in.Name == "":
		return errors.Wrap(ErrInvalidManifest, "missing name")
	case in.Bank < 0 || in.Bank > 128:
		return errors.Wrapf(ErrInvalidManifest, "bank %d", in.Bank)
	case in.Program < 0 || in.Program > 127:
		return errors.Wrapf(ErrInvalidManifest, "program %d", in.Program)
	case len(in.Samples) == 0:
		return errors.Wrap(ErrInvalidManifest, "no samples")
	}
	for i, s := range in.Samples {
		if err := s.validate(); err != nil {
			return errors.Wrapf(err, "sample %d", i)
		}
	}
	return nil
}

func (s Sample) validate() error {
	switch {
	case s.File == "":
		return errors.Wrap(ErrInvalidManifest, "missing file")
	case s.RootKey != nil && (*s.RootKey < 0 || *s.RootKey > 127):
		return errors.Wrapf(ErrInvalidManifest, "root_key %d", *s.RootKey)
	case s.Loop != nil && (s.Loop.Start < 0 || s.Loop.End <= s.Loop.Start):
		return errors.Wrapf(ErrInvalidManifest, "loop %d-%d", s.Loop.Start, s.Loop.End)
	case s.Tune < -12700 || s.Tune > 12700:
		return errors.Wrapf(ErrInvalidManifest, "tune %d", s.Tune)
	case s.Release < 0 || s.Attenuation < 0:
		return errors.Wrap(ErrInvalidManifest, "negative release or attenuation")
	case s.Pan < -50 || s.Pan > 50:
		return errors.Wrapf(ErrInvalidManifest, "pan %g", s.Pan)
	}
	for _, r := range []*Range{s.Keys, s.Velocity} {
		if r != nil && (r.Low < 0 || r.High > 127 || r.Low > r.High) {
			return errors.Wrapf(ErrInvalidManifest, "range %d-%d", r.Low, r.High)
		}
	}
	return nil
}
