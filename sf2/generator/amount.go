// SPDX-License-Identifier: EPL-2.0

package generator

// Amount is the raw 16-bit value of a generator. Its interpretation depends
// on the generator: signed, unsigned, or a low/high byte range.
type Amount uint16

// SignedAmount builds an Amount from a signed value.
func SignedAmount(v int16) Amount { return Amount(uint16(v)) }

// RangeAmount builds a range Amount (low byte lo, high byte hi).
func RangeAmount(lo, hi uint8) Amount { return Amount(uint16(lo) | uint16(hi)<<8) }

func (a Amount) Signed() int16    { return int16(a) }
func (a Amount) Unsigned() uint16 { return uint16(a) }
func (a Amount) Low() uint8       { return uint8(a) }
func (a Amount) High() uint8      { return uint8(a >> 8) }

// Range returns the amount as a closed key or velocity range.
func (a Amount) Range() Range[int] {
	return Range[int]{Low: int(a.Low()), High: int(a.High())}
}
