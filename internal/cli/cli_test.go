// SPDX-License-Identifier: EPL-2.0

package cli_test

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/sf2pbx/config"
	"github.com/ik5/sf2pbx/internal/cli"
	"github.com/ik5/sf2pbx/internal/sf2test"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := cli.LoadConfig("")
	if err != nil || cfg != config.Default() {
		t.Errorf("LoadConfig(\"\") = %+v, %v, want defaults", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("preset:\n  program: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = cli.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Preset.Program != 7 {
		t.Errorf("LoadConfig().Preset.Program = %d, want 7", cfg.Preset.Program)
	}
}

func TestVisited(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	fs.Int("a", 0, "")
	fs.Int("b", 0, "")
	if err := fs.Parse([]string{"-b", "3"}); err != nil {
		t.Fatal(err)
	}
	got := cli.Visited(fs)
	if got["a"] || !got["b"] {
		t.Errorf("Visited() = %v, want only b", got)
	}
}

func TestSoundFont(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fixture.sf2")
	if err := os.WriteFile(path, sf2test.Font(), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := cli.SoundFont(fs, config.Default()); !errors.Is(err, config.ErrNoSoundFont) {
		t.Errorf("SoundFont() error = %v, want %v", err, config.ErrNoSoundFont)
	}

	cfg := config.Default()
	cfg.SoundFont = path
	sf, got, err := cli.SoundFont(fs, cfg)
	if err != nil {
		t.Fatalf("SoundFont() error = %v", err)
	}
	if got != path || len(sf.Presets()) != 3 {
		t.Errorf("SoundFont() = %d presets from %s", len(sf.Presets()), got)
	}

	if err := fs.Parse([]string{filepath.Join(t.TempDir(), "missing.sf2")}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := cli.SoundFont(fs, cfg); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("SoundFont(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestCreateStdout(t *testing.T) {
	t.Parallel()

	w, err := cli.Create("-")
	if err != nil {
		t.Fatalf("Create(-) error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
