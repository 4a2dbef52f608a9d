// Package section implements the fixed byte-level header that precedes the
// bit-packed huffcodex payload.
//
// The header consists of a two-byte big-endian magic followed by one or two
// big-endian size fields. The magic's high byte packs three things:
//
//   - bit 0x80: size fields are 32-bit instead of 24-bit
//   - bits 0x06: post-processing filter (0 none, 1 sum, 2 double sum)
//   - bit 0x01: a compressed-length field precedes the uncompressed length
//
// The low byte is always 0xFB. That yields twelve recognized magics:
// 0x30FB..0x35FB and 0xB0FB..0xB5FB.
package section

import (
	"fmt"

	"github.com/arloliu/huffcodex/errs"
	"github.com/arloliu/huffcodex/format"
)

const (
	magicLow      = 0xFB
	magicBaseHigh = 0x30

	highWideBit    = 0x80
	highLengthBit  = 0x01
	highFilterMask = 0x06

	// Wide24Limit is the largest length a 24-bit size field can carry.
	// Longer inputs switch the header to 32-bit fields.
	Wide24Limit = 1<<24 - 1
)

// Header describes the parsed or to-be-written fixed header.
type Header struct {
	// Filter selects the post-processing transform applied after decoding.
	Filter format.FilterType
	// Wide selects 32-bit size fields; 24-bit otherwise.
	Wide bool
	// HasCompressedLen records whether a compressed-length field precedes the
	// uncompressed-length field.
	HasCompressedLen bool
	// CompressedLen is the total artifact length in bytes, valid only when
	// HasCompressedLen is set.
	CompressedLen uint32
	// UncompressedLen is the declared length of the original input.
	UncompressedLen uint32
}

// IsCompressed reports whether data starts with one of the twelve recognized
// magic values. It needs at least two bytes and inspects nothing else.
func IsCompressed(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	h := data[0] &^ highWideBit

	return h >= magicBaseHigh && h <= magicBaseHigh+5 && data[1] == magicLow
}

// Size returns the encoded header length in bytes.
func (h Header) Size() int {
	fieldLen := 3
	if h.Wide {
		fieldLen = 4
	}
	n := 2 + fieldLen
	if h.HasCompressedLen {
		n += fieldLen
	}

	return n
}

// AppendTo serializes the header and appends it to dst.
func (h Header) AppendTo(dst []byte) []byte {
	high := byte(magicBaseHigh) | byte(h.Filter)<<1
	if h.Wide {
		high |= highWideBit
	}
	if h.HasCompressedLen {
		high |= highLengthBit
	}
	dst = append(dst, high, magicLow)

	if h.HasCompressedLen {
		dst = appendSize(dst, h.CompressedLen, h.Wide)
	}

	return appendSize(dst, h.UncompressedLen, h.Wide)
}

func appendSize(dst []byte, v uint32, wide bool) []byte {
	if wide {
		dst = append(dst, byte(v>>24))
	}

	return append(dst, byte(v>>16), byte(v>>8), byte(v))
}

func readSize(data []byte, wide bool) uint32 {
	if wide {
		return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	}

	return uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
}

// Parse parses the header at the start of data.
//
// Returns:
//   - Header: Parsed header values
//   - int: Number of header bytes consumed (payload starts there)
//   - error: ErrUnknownFormat if the magic is not recognized,
//     ErrHeaderTruncated if data ends inside the header
func Parse(data []byte) (Header, int, error) {
	if len(data) < 2 {
		return Header{}, 0, fmt.Errorf("%w: need at least 2 bytes, got %d", errs.ErrHeaderTruncated, len(data))
	}
	if !IsCompressed(data) {
		return Header{}, 0, errs.ErrUnknownFormat
	}

	h := Header{
		Filter:           format.FilterType(data[0] & highFilterMask >> 1),
		Wide:             data[0]&highWideBit != 0,
		HasCompressedLen: data[0]&highLengthBit != 0,
	}

	if len(data) < h.Size() {
		return Header{}, 0, fmt.Errorf("%w: need %d bytes, got %d", errs.ErrHeaderTruncated, h.Size(), len(data))
	}

	fieldLen := 3
	if h.Wide {
		fieldLen = 4
	}
	pos := 2
	if h.HasCompressedLen {
		h.CompressedLen = readSize(data[pos:], h.Wide)
		pos += fieldLen
	}
	h.UncompressedLen = readSize(data[pos:], h.Wide)
	pos += fieldLen

	return h, pos, nil
}

// PatchCompressedLen rewrites the compressed-length field of an already
// serialized header in place. It is used by the encoder, which only knows the
// final artifact size after the payload is packed.
func PatchCompressedLen(artifact []byte, h Header) {
	if !h.HasCompressedLen {
		return
	}
	v := uint32(len(artifact)) //nolint:gosec
	pos := 2
	if h.Wide {
		artifact[pos] = byte(v >> 24)
		pos++
	}
	artifact[pos] = byte(v >> 16)
	artifact[pos+1] = byte(v >> 8)
	artifact[pos+2] = byte(v)
}
