// SPDX-License-Identifier: EPL-2.0

package config_test

import (
	"fmt"

	"github.com/ik5/sf2pbx/config"
)

func ExampleParse() {
	f, err := config.Parse([]byte("engine:\n  sample_rate: 22050\npreset:\n  program: 19\n"))
	if err != nil {
		fmt.Println(err)
		return
	}
	cfg := f.Engine.Render()
	fmt.Println(cfg.SampleRate, cfg.Voices, f.Preset.Program, f.Output.BitDepth)
	// Output: 22050 64 19 16
}
