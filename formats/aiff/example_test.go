// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/formats/aiff"
)

// Example resamples an AIFF recording to mono 16-bit PCM at 22050 Hz.
func Example() {
	f, err := os.Open("testdata/sample.aiff")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	pcm, err := audio.ResampleToMono16(src, 22050, 4096)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d frames at 22050 Hz\n", len(pcm))
}
