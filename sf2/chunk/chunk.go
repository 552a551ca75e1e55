// SPDX-License-Identifier: EPL-2.0

package chunk

import (
	"errors"
	"fmt"
	"io"
)

// Chunk is a view into a RIFF chunk. Data aliases the source buffer and is
// valid only while that buffer is alive. For RIFF and LIST chunks Kind holds
// the form type and Data starts after it.
type Chunk struct {
	tag    Tag
	kind   Tag
	list   bool
	data   []byte
	offset int
}

func (c Chunk) Tag() Tag { return c.tag }

// Kind returns the form type of a list chunk ("sfbk", "INFO", ...). It is the
// zero Tag for leaf chunks.
func (c Chunk) Kind() Tag { return c.kind }

func (c Chunk) IsList() bool { return c.list }

// Data returns the chunk payload without copying.
func (c Chunk) Data() []byte { return c.data }

func (c Chunk) Len() int { return len(c.data) }

// Offset returns the absolute offset of the payload in the source buffer.
func (c Chunk) Offset() int { return c.offset }

// Cursor returns a Cursor over the chunk payload.
func (c Chunk) Cursor() *Cursor { return NewCursor(c.data) }

// Is reports whether the chunk matches t either by tag or, for lists, by
// form type.
func (c Chunk) Is(t Tag) bool {
	return c.tag == t || (c.list && c.kind == t)
}

// Chunks starts a new lazy walk over the children of a list chunk. Each call
// returns an independent Walker.
func (c Chunk) Chunks() *Walker {
	if !c.list {
		return &Walker{err: fmt.Errorf("%s: %w", c.tag, ErrNotList)}
	}
	return NewWalker(c.data, c.offset)
}

// Find returns the first child matching t. A malformed child before the
// match is reported as an error.
func (c Chunk) Find(t Tag) (Chunk, error) {
	w := c.Chunks()
	for {
		child, err := w.Next()
		if errors.Is(err, io.EOF) {
			return Chunk{}, fmt.Errorf("%s in %s: %w", t, c.kind, ErrNotFound)
		}
		if err != nil {
			return Chunk{}, err
		}
		if child.Is(t) {
			return child, nil
		}
	}
}

func (c Chunk) String() string {
	if c.list {
		return fmt.Sprintf("%s(%s) @%d [%d]", c.tag, c.kind, c.offset, len(c.data))
	}
	return fmt.Sprintf("%s @%d [%d]", c.tag, c.offset, len(c.data))
}

// Parse reads the top-level RIFF chunk of buf.
func Parse(buf []byte) (Chunk, error) {
	root, err := NewWalker(buf, 0).Next()
	if errors.Is(err, io.EOF) {
		return Chunk{}, fmt.Errorf("empty buffer: %w", ErrShortBuffer)
	}
	if err != nil {
		return Chunk{}, err
	}
	if root.tag != TagRIFF {
		return Chunk{}, fmt.Errorf("top-level tag %s: %w", root.tag, ErrNotRIFF)
	}
	return root, nil
}
