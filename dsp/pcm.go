// SPDX-License-Identifier: EPL-2.0

package dsp

import goaudio "github.com/go-audio/audio"

// Float32ToInt16 clamps x to [-1, 1] and scales it to a 16-bit sample.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1 from overflowing
	return int16(x * 32767.0)
}

// FloatToPCM scales x into a signed integer sample of the given bit depth.
func FloatToPCM(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int(float64(x) * float64(goaudio.IntMaxSignedValue(bitDepth)))
}

// PCMToFloat is the inverse of FloatToPCM.
func PCMToFloat(v int, bitDepth int) float32 {
	m := goaudio.IntMaxSignedValue(bitDepth)
	if m == 0 {
		return 0
	}
	return float32(v) / float32(m+1)
}
