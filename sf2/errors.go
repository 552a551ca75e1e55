// SPDX-License-Identifier: EPL-2.0

package sf2

import "errors"

var (
	// ErrInvalidFile is returned by Load for any structural failure. The
	// underlying cause is joined to it.
	ErrInvalidFile   = errors.New("invalid SoundFont file")
	ErrNotSoundFont  = errors.New("RIFF form type is not sfbk")
	ErrMissingList   = errors.New("mandatory list chunk missing")
	ErrUnknownPreset = errors.New("unknown preset")
)
