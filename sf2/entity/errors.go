// SPDX-License-Identifier: EPL-2.0

package entity

import "errors"

var (
	ErrRecordSize      = errors.New("chunk length is not a multiple of the record size")
	ErrMissingTerminal = errors.New("table has no terminal record")
)
