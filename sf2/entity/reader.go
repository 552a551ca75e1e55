// SPDX-License-Identifier: EPL-2.0

package entity

import "github.com/ik5/sf2pbx/sf2/chunk"

// reader wraps a Cursor and keeps the first error so record decoders can read
// all fields and check once.
type reader struct {
	c   *chunk.Cursor
	err error
}

func (r *reader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint8()
	r.err = err
	return v
}

func (r *reader) i8() int8 { return int8(r.u8()) }

func (r *reader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint16()
	r.err = err
	return v
}

func (r *reader) i16() int16 { return int16(r.u16()) }

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	v, err := r.c.Uint32()
	r.err = err
	return v
}

func (r *reader) name() string {
	if r.err != nil {
		return ""
	}
	v, err := r.c.Name(NameSize)
	r.err = err
	return v
}
