// Package bitio provides the MSB-first bit-level reader and writer used by
// the huffcodex payload format.
//
// The writer accumulates bits into a 64-bit register and flushes completed
// bytes into a pooled append buffer. The reader keeps the next bits
// left-aligned in a 32-bit register and refills from the source 16 bits at a
// time. Both sides agree that the first bit written is the most significant
// bit of the first payload byte.
package bitio

import "github.com/arloliu/huffcodex/internal/pool"

// Writer packs bits MSB-first into an in-memory buffer.
//
// The zero value is not usable; create writers with NewWriter and release
// them with Finish.
type Writer struct {
	buf *pool.ByteBuffer
	reg uint64
	// cnt is the number of pending bits held in the low end of reg.
	cnt uint
}

// NewWriter creates a Writer backed by a pooled buffer.
func NewWriter() *Writer {
	return &Writer{buf: pool.GetPayloadBuffer()}
}

// WriteBits writes the low n bits of v, most significant first.
// n may be up to 32; writes longer than 16 bits are split into 16-bit chunks.
func (w *Writer) WriteBits(v uint32, n uint) {
	if n > 16 {
		w.writeChunk(v>>16, n-16)
		w.writeChunk(v&0xFFFF, 16)

		return
	}
	w.writeChunk(v, n)
}

func (w *Writer) writeChunk(v uint32, n uint) {
	if n == 0 {
		return
	}
	w.reg = w.reg<<n | uint64(v&(1<<n-1))
	w.cnt += n
	for w.cnt >= 8 {
		w.cnt -= 8
		w.buf.AppendByte(byte(w.reg >> w.cnt))
	}
}

// BitLen returns the total number of bits written so far.
func (w *Writer) BitLen() int {
	return w.buf.Len()*8 + int(w.cnt)
}

// Flush pads the pending register with zero bits to the next byte boundary
// and writes it out.
func (w *Writer) Flush() {
	if w.cnt > 0 {
		w.buf.AppendByte(byte(w.reg << (8 - w.cnt)))
		w.cnt = 0
		w.reg = 0
	}
}

// AppendTo flushes the writer and appends the packed bytes to dst.
func (w *Writer) AppendTo(dst []byte) []byte {
	w.Flush()

	return append(dst, w.buf.Bytes()...)
}

// Finish returns the backing buffer to the pool. The Writer must not be used
// afterwards.
func (w *Writer) Finish() {
	pool.PutPayloadBuffer(w.buf)
	w.buf = nil
}
