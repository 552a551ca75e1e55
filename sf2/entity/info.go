// SPDX-License-Identifier: EPL-2.0

package entity

import (
	"fmt"

	"github.com/ik5/sf2pbx/sf2/chunk"
)

// Info is the decoded INFO list.
type Info struct {
	Version      Version
	SoundEngine  string
	BankName     string
	ROMName      string
	ROMVersion   Version
	CreationDate string
	Engineers    string
	Product      string
	Copyright    string
	Comment      string
	Tool         string
}

// ReadInfo decodes the INFO list. The ifil version is mandatory; unknown
// sub-chunks are ignored.
func ReadInfo(list chunk.Chunk) (Info, error) {
	var (
		info    Info
		version bool
	)
	for c, err := range list.Chunks().All() {
		if err != nil {
			return Info{}, fmt.Errorf("INFO: %w", err)
		}

		var text *string
		switch c.Tag() {
		case chunk.TagIFIL, chunk.TagIVER:
			if c.Len() != VersionSize {
				return Info{}, fmt.Errorf("%s: %d bytes: %w", c.Tag(), c.Len(), ErrRecordSize)
			}
			v, err := ReadVersion(c.Cursor())
			if err != nil {
				return Info{}, err
			}
			if c.Tag() == chunk.TagIFIL {
				info.Version, version = v, true
			} else {
				info.ROMVersion = v
			}
			continue
		case chunk.TagISNG:
			text = &info.SoundEngine
		case chunk.TagINAM:
			text = &info.BankName
		case chunk.TagIROM:
			text = &info.ROMName
		case chunk.TagICRD:
			text = &info.CreationDate
		case chunk.TagIENG:
			text = &info.Engineers
		case chunk.TagIPRD:
			text = &info.Product
		case chunk.TagICOP:
			text = &info.Copyright
		case chunk.TagICMT:
			text = &info.Comment
		case chunk.TagISFT:
			text = &info.Tool
		default:
			continue
		}
		*text = chunk.TrimName(c.Data())
	}

	if !version {
		return Info{}, fmt.Errorf("INFO: %s: %w", chunk.TagIFIL, chunk.ErrNotFound)
	}
	return info, nil
}
