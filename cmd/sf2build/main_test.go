// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sf2pbx/bank"
	"github.com/ik5/sf2pbx/formats/wav"
	"github.com/ik5/sf2pbx/sf2"
)

func writeTone(t *testing.T, path string) {
	t.Helper()

	buf := &goaudio.Float32Buffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: 16000},
		Data:   make([]float32, 1600),
	}
	for i := range buf.Data {
		buf.Data[i] = float32(0.5 * math.Sin(2*math.Pi*float64(i)/40))
	}
	var out bytes.Buffer
	if err := wav.EncodeFloat(&out, buf, wav.Options{}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "wav"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTone(t, filepath.Join(dir, "wav", "a4.wav"))
	manifest := `
name: Built
instruments:
  - name: Tone
    program: 12
    samples:
      - file: wav/a4.wav
        root_key: 69
        loop: {start: 400, end: 1200}
`
	path := filepath.Join(dir, "tone.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	t.Parallel()

	path := setup(t)
	var logs bytes.Buffer
	if err := run([]string{"-rate", "8000", "-bits", "24", "-v", path}, log.New(&logs, "", 0)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := strings.TrimSuffix(path, ".yaml") + ".sf2"
	sf, err := sf2.LoadFile(out)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if _, err := sf.Lookup(0, 12); err != nil {
		t.Errorf("Lookup(0, 12) error = %v", err)
	}
	h := sf.Samples()[0]
	if h.SampleRate != 8000 || h.Frames() != 800 || h.LoopStart-h.Start != 200 || h.LoopEnd-h.Start != 600 {
		t.Errorf("Samples()[0] = %+v, want 800 frames at 8000 Hz looping 200-600", h)
	}
	if !sf.PCM().Is24Bit() {
		t.Error("PCM().Is24Bit() = false, want true")
	}
	for _, want := range []string{"resampling", "wrote " + out, "1 instruments, 1 samples"} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log = %q, missing %q", logs.String(), want)
		}
	}
}

func TestRunOutput(t *testing.T) {
	t.Parallel()

	path := setup(t)
	out := filepath.Join(t.TempDir(), "custom.sf2")
	if err := run([]string{"-o", out, path}, log.New(io.Discard, "", 0)); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	sf, err := sf2.LoadFile(out)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := sf.Samples()[0].SampleRate; got != 16000 {
		t.Errorf("SampleRate = %d, want 16000", got)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	path := setup(t)
	quiet := log.New(io.Discard, "", 0)

	if err := run(nil, quiet); err == nil {
		t.Error("run() without a manifest succeeded")
	}
	if err := run([]string{"-bits", "12", path}, quiet); !errors.Is(err, bank.ErrInvalidManifest) {
		t.Errorf("run(-bits 12) error = %v, want %v", err, bank.ErrInvalidManifest)
	}
	if err := run([]string{filepath.Join(t.TempDir(), "none.yaml")}, quiet); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}
