package bitio

// Reader consumes an MSB-first bit stream from a byte slice.
//
// The register keeps upcoming bits left-aligned: bit 31 is the next bit to be
// read. Past the end of the stream the register yields zero bits and the
// overrun flag is raised once a Consume reaches beyond the data; callers
// check Overrun after decoding to distinguish padding from truncation.
type Reader struct {
	data []byte
	pos  int
	reg  uint32
	// cnt is the number of valid bits at the top of reg.
	cnt  uint
	over bool
}

// NewReader creates a Reader over data.
//
// The register is filled immediately, before any read is issued, matching the
// decoder's bootstrap refill timing.
func NewReader(data []byte) *Reader {
	r := &Reader{data: data}
	r.fill()

	return r
}

func (r *Reader) fill() {
	// Refill 16 bits at a time while they fit.
	for r.cnt <= 16 && r.pos+1 < len(r.data) {
		r.reg |= (uint32(r.data[r.pos])<<8 | uint32(r.data[r.pos+1])) << (16 - r.cnt)
		r.cnt += 16
		r.pos += 2
	}
	if r.cnt <= 24 && r.pos < len(r.data) {
		r.reg |= uint32(r.data[r.pos]) << (24 - r.cnt)
		r.cnt += 8
		r.pos++
	}
}

// Peek16 returns the next 16 bits without consuming them. Bits past the end
// of the stream read as zero.
func (r *Reader) Peek16() uint16 {
	if r.cnt < 16 {
		r.fill()
	}

	return uint16(r.reg >> 16)
}

// Consume discards the next n bits (n <= 16). Consuming more bits than the
// stream holds raises the overrun flag.
func (r *Reader) Consume(n uint) {
	if n > r.cnt {
		r.over = true
		r.reg = 0
		r.cnt = 0

		return
	}
	r.reg <<= n
	r.cnt -= n
	if r.cnt < 16 {
		r.fill()
	}
}

// ReadBits reads the next n bits (n <= 32), most significant first.
func (r *Reader) ReadBits(n uint) uint32 {
	if n > 16 {
		hi := uint32(r.readChunk(n - 16))
		lo := uint32(r.readChunk(16))

		return hi<<16 | lo
	}

	return uint32(r.readChunk(n))
}

func (r *Reader) readChunk(n uint) uint16 {
	if n == 0 {
		return 0
	}
	v := r.Peek16() >> (16 - n)
	r.Consume(n)

	return v
}

// Overrun reports whether any read reached past the end of the stream.
func (r *Reader) Overrun() bool {
	return r.over
}
