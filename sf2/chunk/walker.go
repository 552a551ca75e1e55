// SPDX-License-Identifier: EPL-2.0

package chunk

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

const headerSize = 8

// Walker lazily decodes consecutive chunks from a byte range. It is finite
// and cannot be restarted; the first error (including io.EOF) is sticky.
type Walker struct {
	buf  []byte
	base int
	pos  int
	err  error
}

// NewWalker walks the chunks stored in buf. base is the absolute offset of
// buf[0] in the source buffer and is only used for reporting.
func NewWalker(buf []byte, base int) *Walker {
	return &Walker{buf: buf, base: base}
}

// Next returns the next chunk, io.EOF when the range is exhausted, or an
// error when a header or length does not fit inside the range.
func (w *Walker) Next() (Chunk, error) {
	if w.err != nil {
		return Chunk{}, w.err
	}
	if w.pos >= len(w.buf) {
		w.err = io.EOF
		return Chunk{}, w.err
	}

	at := w.base + w.pos
	c := NewCursor(w.buf[w.pos:])
	tag, err := c.Tag()
	if err != nil {
		w.err = fmt.Errorf("chunk header at %d: %w", at, err)
		return Chunk{}, w.err
	}
	size, err := c.Uint32()
	if err != nil {
		w.err = fmt.Errorf("chunk %s at %d: %w", tag, at, err)
		return Chunk{}, w.err
	}
	if uint64(size) > uint64(c.Remaining()) {
		w.err = fmt.Errorf("chunk %s at %d claims %d bytes, %d available: %w",
			tag, at, size, c.Remaining(), ErrChunkOverrun)
		return Chunk{}, w.err
	}

	start := w.pos + headerSize
	end := start + int(size)
	ch := Chunk{tag: tag, data: w.buf[start:end], offset: w.base + start}
	if tag.IsList() {
		if size < 4 {
			w.err = fmt.Errorf("list %s at %d has no form type: %w", tag, at, ErrShortBuffer)
			return Chunk{}, w.err
		}
		ch.list = true
		ch.kind = Tag(ch.data[:4])
		ch.data = ch.data[4:]
		ch.offset += 4
	}

	w.pos = end
	if size%2 == 1 && w.pos < len(w.buf) {
		w.pos++
	}
	return ch, nil
}

// Err returns the error that stopped the walk, or nil if it ended cleanly or
// is still in progress.
func (w *Walker) Err() error {
	if errors.Is(w.err, io.EOF) {
		return nil
	}
	return w.err
}

// All yields the remaining chunks. A decoding error is yielded once with a
// zero Chunk and ends the sequence.
func (w *Walker) All() iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		for {
			c, err := w.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}
