// SPDX-License-Identifier: EPL-2.0

package chunk

import (
	"strconv"

	"github.com/go-audio/riff"
)

// Tag is a four character chunk identifier.
type Tag [4]byte

// Container and list form types.
var (
	TagRIFF = Tag(riff.RiffID)
	TagLIST = NewTag("LIST")
	TagSFBK = NewTag("sfbk")
	TagINFO = NewTag("INFO")
	TagSDTA = NewTag("sdta")
	TagPDTA = NewTag("pdta")
)

// INFO sub-chunks.
var (
	TagIFIL = NewTag("ifil")
	TagISNG = NewTag("isng")
	TagINAM = NewTag("INAM")
	TagIROM = NewTag("irom")
	TagIVER = NewTag("iver")
	TagICRD = NewTag("ICRD")
	TagIENG = NewTag("IENG")
	TagIPRD = NewTag("IPRD")
	TagICOP = NewTag("ICOP")
	TagICMT = NewTag("ICMT")
	TagISFT = NewTag("ISFT")
)

// Sample data and preset data sub-chunks.
var (
	TagSMPL = NewTag("smpl")
	TagSM24 = NewTag("sm24")
	TagPHDR = NewTag("phdr")
	TagPBAG = NewTag("pbag")
	TagPMOD = NewTag("pmod")
	TagPGEN = NewTag("pgen")
	TagINST = NewTag("inst")
	TagIBAG = NewTag("ibag")
	TagIMOD = NewTag("imod")
	TagIGEN = NewTag("igen")
	TagSHDR = NewTag("shdr")
)

// NewTag builds a Tag from the first four bytes of s, padding with spaces.
func NewTag(s string) Tag {
	t := Tag{' ', ' ', ' ', ' '}
	copy(t[:], s)
	return t
}

// String returns the tag as text. Non-printable bytes are quoted.
func (t Tag) String() string {
	for _, b := range t {
		if b < 0x20 || b > 0x7e {
			return strconv.Quote(string(t[:]))
		}
	}
	return string(t[:])
}

// IsList reports whether chunks with this tag carry nested sub-chunks.
func (t Tag) IsList() bool {
	return t == TagRIFF || t == TagLIST
}
