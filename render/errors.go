// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

var (
	ErrQueueFull  = errors.New("command queue is full")
	ErrOutOfRange = errors.New("value out of range")
	ErrClosed     = errors.New("engine is closed")
)
