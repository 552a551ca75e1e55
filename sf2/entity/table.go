// SPDX-License-Identifier: EPL-2.0

package entity

import (
	"fmt"

	"github.com/ik5/sf2pbx/sf2/chunk"
)

// Table holds the records of one pdta chunk. The final record is the SF2
// terminal record: it is excluded from Len and Items but remains reachable
// through At so that the last entity can find the end of its range.
type Table[T any] struct {
	records []T
}

// NewTable wraps records, whose last element must be the terminal record.
func NewTable[T any](records []T) Table[T] {
	return Table[T]{records: records}
}

// Len returns the number of visible records.
func (t Table[T]) Len() int {
	if len(t.records) == 0 {
		return 0
	}
	return len(t.records) - 1
}

// At returns record i for 0 <= i <= Len(). Index Len() is the terminal
// record. ok is false outside that range.
func (t Table[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(t.records) {
		var zero T
		return zero, false
	}
	return t.records[i], true
}

// Items returns the visible records without the terminal one.
func (t Table[T]) Items() []T {
	return t.records[:t.Len()]
}

// Slice returns records [lo, hi). ok is false when the range is reversed or
// reaches past the visible records.
func (t Table[T]) Slice(lo, hi int) ([]T, bool) {
	if lo < 0 || hi < lo || hi > t.Len() {
		return nil, false
	}
	return t.records[lo:hi:hi], true
}

// Decode splits the payload of c into size-byte records and decodes each
// with fn. fn receives a Cursor limited to a single record.
func Decode[T any](c chunk.Chunk, size int, fn func(*chunk.Cursor) (T, error)) (Table[T], error) {
	if size <= 0 || c.Len()%size != 0 {
		return Table[T]{}, fmt.Errorf("%s: %d bytes, record size %d: %w", c.Tag(), c.Len(), size, ErrRecordSize)
	}
	n := c.Len() / size
	if n == 0 {
		return Table[T]{}, fmt.Errorf("%s: %w", c.Tag(), ErrMissingTerminal)
	}

	data := c.Data()
	records := make([]T, n)
	for i := range records {
		r, err := fn(chunk.NewCursor(data[i*size : (i+1)*size]))
		if err != nil {
			return Table[T]{}, fmt.Errorf("%s record %d: %w", c.Tag(), i, err)
		}
		records[i] = r
	}
	return Table[T]{records: records}, nil
}
