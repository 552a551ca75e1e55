// SPDX-License-Identifier: EPL-2.0

package chunk

import "errors"

var (
	ErrShortBuffer  = errors.New("read past end of buffer")
	ErrChunkOverrun = errors.New("chunk length exceeds enclosing bounds")
	ErrNotRIFF      = errors.New("not a RIFF container")
	ErrNotList      = errors.New("chunk is not a list")
	ErrNotFound     = errors.New("chunk not found")
)
