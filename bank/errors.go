// SPDX-License-Identifier: EPL-2.0

package bank

import "errors"

var (
	ErrInvalidManifest = errors.New("invalid bank manifest")
	ErrDuplicatePreset = errors.New("bank and program already used")
	ErrEmptySample     = errors.New("sample decoded to no frames")
)
