// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ik5/sf2pbx/render"
)

// File is the on-disk configuration shared by the command line tools.
type File struct {
	Engine    Engine `yaml:"engine"`
	SoundFont string `yaml:"soundfont"`
	Preset    Preset `yaml:"preset"`
	Output    Output `yaml:"output"`
}

// Engine mirrors render.Config.
type Engine struct {
	SampleRate int     `yaml:"sample_rate"`
	Voices     int     `yaml:"voices"`
	QueueSize  int     `yaml:"queue_size"`
	BlockSize  int     `yaml:"block_size"`
	Gain       float64 `yaml:"gain"` // 1 is unity; must be positive
	Pan        float64 `yaml:"pan"`
}

// Preset selects the program played when no MIDI program change arrives.
type Preset struct {
	Bank    int `yaml:"bank"`
	Program int `yaml:"program"`
}

// Output describes rendered files.
type Output struct {
	Path     string `yaml:"path"`
	BitDepth int    `yaml:"bit_depth"`
	Channels int    `yaml:"channels"`
}

// Default returns the built-in configuration. It has no soundfont.
func Default() File {
	d := render.DefaultConfig()
	return File{
		Engine: Engine{
			SampleRate: d.SampleRate,
			Voices:     d.Voices,
			QueueSize:  d.QueueSize,
			BlockSize:  d.BlockSize,
			Gain:       d.Gain,
			Pan:        d.Pan,
		},
		Output: Output{
			Path:     "out.wav",
			BitDepth: 16,
			Channels: 2,
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data over Default and validates the result. Unknown keys are
// rejected.
func Parse(data []byte) (File, error) {
	f := Default()
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return File{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks ranges. A missing soundfont is not an error here; tools
// that need one call RequireSoundFont.
func (f File) Validate() error {
	e := f.Engine
	switch {
	case e.SampleRate < 8000 || e.SampleRate > 192000:
		return invalid("engine.sample_rate %d outside [8000, 192000]", e.SampleRate)
	case e.Voices < 1 || e.Voices > 1024:
		return invalid("engine.voices %d outside [1, 1024]", e.Voices)
	case e.QueueSize < 1:
		return invalid("engine.queue_size %d must be positive", e.QueueSize)
	case e.BlockSize < 16 || e.BlockSize > 8192:
		return invalid("engine.block_size %d outside [16, 8192]", e.BlockSize)
	case e.Gain <= 0 || math.IsNaN(e.Gain):
		return invalid("engine.gain %g must be positive", e.Gain)
	case e.Pan < -1 || e.Pan > 1:
		return invalid("engine.pan %g outside [-1, 1]", e.Pan)
	case f.Preset.Bank < 0 || f.Preset.Bank > 128:
		return invalid("preset.bank %d outside [0, 128]", f.Preset.Bank)
	case f.Preset.Program < 0 || f.Preset.Program > 127:
		return invalid("preset.program %d outside [0, 127]", f.Preset.Program)
	case f.Output.Channels != 1 && f.Output.Channels != 2:
		return invalid("output.channels %d must be 1 or 2", f.Output.Channels)
	}
	switch f.Output.BitDepth {
	case 8, 16, 24, 32:
	default:
		return invalid("output.bit_depth %d must be 8, 16, 24 or 32", f.Output.BitDepth)
	}
	return nil
}

// RequireSoundFont returns ErrNoSoundFont when no soundfont path is set.
func (f File) RequireSoundFont() error {
	if f.SoundFont == "" {
		return ErrNoSoundFont
	}
	return nil
}

// Render returns the engine section as a render.Config.
func (e Engine) Render() render.Config {
	return render.Config{
		SampleRate: e.SampleRate,
		Voices:     e.Voices,
		QueueSize:  e.QueueSize,
		BlockSize:  e.BlockSize,
		Gain:       e.Gain,
		Pan:        e.Pan,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
