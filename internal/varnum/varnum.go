// Package varnum implements the variable-length unsigned integer encoding
// used for run lengths, per-length symbol counts, and symbol gaps inside the
// huffcodex payload.
//
// Values are grouped into length classes. Class c is announced by a unary
// prefix of c one-bits and a terminating zero-bit, then carries a c-bit
// offset. Class bases double as widths grow by one bit per class:
//
//	class 0: base 0,  width 0  ->  value 0 in 1 bit
//	class 1: base 1,  width 1  ->  1..2 in 3 bits
//	class 2: base 3,  width 2  ->  3..6 in 5 bits
//	class 3: base 7,  width 3  ->  7..14 in 7 bits
//	...
//
// Very common small run lengths therefore cost only a handful of bits, while
// the scheme escalates to arbitrary 31-bit values without a hard limit.
package varnum

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/huffcodex/errs"
	"github.com/arloliu/huffcodex/internal/bitio"
)

// MaxValue is the largest encodable value: class 30 ends at 2^31-2.
const MaxValue = 1<<31 - 2

const maxClass = 30

// BitLen returns the encoded size of n in bits.
func BitLen(n uint32) uint {
	c := uint(bits.Len32(n+1)) - 1

	return 2*c + 1
}

// Write encodes n onto w. n must not exceed MaxValue.
func Write(w *bitio.Writer, n uint32) {
	c := uint(bits.Len32(n+1)) - 1

	// Unary class prefix: c ones, then the terminating zero.
	p := c + 1
	for p > 16 {
		w.WriteBits(0xFFFF, 16)
		p -= 16
	}
	w.WriteBits(1<<p-2, p)

	if c > 0 {
		w.WriteBits(n-(1<<c-1), c)
	}
}

// Read decodes one value from r.
//
// Returns:
//   - uint32: Decoded value
//   - error: ErrCorruptData if the unary prefix exceeds the largest class,
//     ErrTruncated if the stream ends inside the value
func Read(r *bitio.Reader) (uint32, error) {
	c := uint(0)
	for r.ReadBits(1) == 1 {
		c++
		if c > maxClass {
			return 0, fmt.Errorf("%w: oversized number prefix", errs.ErrCorruptData)
		}
	}
	if r.Overrun() {
		return 0, errs.ErrTruncated
	}
	if c == 0 {
		return 0, nil
	}

	off := r.ReadBits(c)
	if r.Overrun() {
		return 0, errs.ErrTruncated
	}

	return 1<<c - 1 + off, nil
}
