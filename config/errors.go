// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoSoundFont   = errors.New("no soundfont configured")
)
