// SPDX-License-Identifier: EPL-2.0

package sf2

import "encoding/binary"

// PCM is the decoded sample pool: 16-bit words from smpl, optionally extended
// to 24 bits by the sm24 low bytes.
type PCM struct {
	words []int16
	low   []byte
}

func newPCM(smpl, sm24 []byte) PCM {
	words := make([]int16, len(smpl)/2)
	for i := range words {
		words[i] = int16(binary.LittleEndian.Uint16(smpl[2*i:]))
	}
	p := PCM{words: words}
	// sm24 is ignored unless it covers every sample; its size is padded to
	// an even byte count.
	if n := len(words); len(sm24) == n || len(sm24) == n+n%2 {
		if n > 0 {
			p.low = append([]byte(nil), sm24[:n]...)
		}
	}
	return p
}

// Len returns the number of sample frames in the pool.
func (p PCM) Len() int { return len(p.words) }

// Is24Bit reports whether sm24 data is present.
func (p PCM) Is24Bit() bool { return p.low != nil }

// Words returns the 16-bit sample words.
func (p PCM) Words() []int16 { return p.words }

// At returns frame i scaled to [-1, 1). i must be in [0, Len()).
func (p PCM) At(i int) float32 {
	if p.low != nil {
		return float32(int32(p.words[i])<<8|int32(p.low[i])) / (1 << 23)
	}
	return float32(p.words[i]) / (1 << 15)
}
