// Package huffcodex implements a lossless byte-stream compression codec
// combining adaptive canonical Huffman coding, run-length escapes, and
// optional delta coding, together with header utilities for its binary wire
// format.
//
// # Wire format
//
// A compressed artifact starts with a two-byte big-endian magic (one of
// twelve recognized values selecting 24-bit or 32-bit size fields, the
// post-processing filter, and whether a compressed-length field is present),
// followed by the big-endian uncompressed length and the bit-packed payload.
//
// # Basic Usage
//
// Compressing and decompressing a buffer:
//
//	compressed := huffcodex.Encode(data)
//	restored, err := huffcodex.Decode(compressed)
//	if err != nil {
//	    return err
//	}
//
// Inspecting an artifact without decoding it:
//
//	if huffcodex.IsCompressed(blob) {
//	    size, _ := huffcodex.UncompressedSize(blob)
//	    fmt.Printf("holds %d bytes\n", size)
//	}
//
// # Concurrency
//
// Every call owns its working state; concurrent calls on independent buffers
// are safe. The whole input must be materialized in memory: there is no
// streaming mode.
package huffcodex

import (
	"fmt"
	"math"

	"github.com/arloliu/huffcodex/errs"
	"github.com/arloliu/huffcodex/format"
	"github.com/arloliu/huffcodex/huff"
	"github.com/arloliu/huffcodex/internal/options"
	"github.com/arloliu/huffcodex/section"
)

// DefaultMaxDecodedSize is the default sanity bound on the header-declared
// uncompressed size. A corrupted or adversarial header cannot request a
// larger allocation unless the caller raises the bound explicitly.
const DefaultMaxDecodedSize = 1 << 30 // 1GiB

type encodeConfig struct {
	policy            huff.Policy
	filter            format.FilterType
	withCompressedLen bool
}

type decodeConfig struct {
	// expectedLen is the caller-asserted output length; -1 means unchecked.
	expectedLen    int64
	maxDecodedSize int
}

// EncodeOption configures EncodeWithOptions.
type EncodeOption = options.Option[*encodeConfig]

// DecodeOption configures Decode.
type DecodeOption = options.Option[*decodeConfig]

// WithFilter selects a pre/post-processing filter: the encoder differences
// the input before modeling and the decoder integrates after expanding. The
// choice is recorded in the magic's filter bits.
func WithFilter(f format.FilterType) EncodeOption {
	return options.New(func(cfg *encodeConfig) error {
		if !f.Valid() {
			return fmt.Errorf("%w: filter %d", errs.ErrInvalidArgument, f)
		}
		cfg.filter = f

		return nil
	})
}

// WithPolicy overrides the encoding policy. Combinations other than
// huff.DefaultPolicy round-trip correctly but are otherwise untuned.
func WithPolicy(p huff.Policy) EncodeOption {
	return options.New(func(cfg *encodeConfig) error {
		if p.MaxRunBuckets < 0 || p.MaxRunBuckets > 254 {
			return fmt.Errorf("%w: MaxRunBuckets %d", errs.ErrInvalidArgument, p.MaxRunBuckets)
		}
		cfg.policy = p

		return nil
	})
}

// WithCompressedLengthField makes the encoder emit the optional
// compressed-length field before the uncompressed length, backfilled once
// the artifact size is known.
func WithCompressedLengthField() EncodeOption {
	return options.NoError(func(cfg *encodeConfig) {
		cfg.withCompressedLen = true
	})
}

// WithExpectedLength makes Decode verify that the decoded byte count equals
// n in addition to the header-declared length.
func WithExpectedLength(n uint32) DecodeOption {
	return options.NoError(func(cfg *decodeConfig) {
		cfg.expectedLen = int64(n)
	})
}

// WithMaxDecodedSize overrides the sanity bound on the header-declared
// uncompressed size.
func WithMaxDecodedSize(n int) DecodeOption {
	return options.New(func(cfg *decodeConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max decoded size %d", errs.ErrInvalidArgument, n)
		}
		cfg.maxDecodedSize = n

		return nil
	})
}

// IsCompressed reports whether data begins with one of the twelve recognized
// magic values. It requires at least two bytes and never inspects the
// payload.
func IsCompressed(data []byte) bool {
	return section.IsCompressed(data)
}

// UncompressedSize parses only the header and returns the declared
// uncompressed length without decoding the payload.
func UncompressedSize(data []byte) (uint32, error) {
	h, _, err := section.Parse(data)
	if err != nil {
		return 0, err
	}

	return h.UncompressedLen, nil
}

// Encode compresses src with the default policy. Encoding never fails for
// any input whose length fits the 32-bit size field; larger inputs panic.
func Encode(src []byte) []byte {
	out, err := EncodeWithOptions(src)
	if err != nil {
		panic(err)
	}

	return out
}

// EncodeWithOptions compresses src into a self-describing artifact. Only an
// invalid option or an input longer than the 32-bit size field can fail.
func EncodeWithOptions(src []byte, opts ...EncodeOption) ([]byte, error) {
	cfg := encodeConfig{policy: huff.DefaultPolicy()}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	if int64(len(src)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: input of %d bytes exceeds the 32-bit size field", errs.ErrInvalidArgument, len(src))
	}

	hdr := section.Header{
		Filter:           cfg.filter,
		Wide:             len(src) > section.Wide24Limit,
		HasCompressedLen: cfg.withCompressedLen,
		UncompressedLen:  uint32(len(src)),
	}

	payloadSrc := src
	if cfg.filter != format.FilterNone {
		payloadSrc = huff.Difference(src, int(cfg.filter))
	}

	out := hdr.AppendTo(make([]byte, 0, hdr.Size()+len(src)/2+64))
	out = huff.AppendEncoded(out, payloadSrc, cfg.policy)
	section.PatchCompressedLen(out, hdr)

	return out, nil
}

// Decode expands a compressed artifact and returns exactly the bytes that
// were encoded.
//
// Failures are fatal to the call: no partial output is returned. An
// unrecognized magic yields ErrUnknownFormat; a recognized artifact with an
// internal inconsistency yields ErrCorruptData, ErrTruncated, or
// ErrSizeMismatch; a declared size beyond the allocation bound yields
// ErrAllocationLimit before any payload work happens.
func Decode(data []byte, opts ...DecodeOption) ([]byte, error) {
	cfg := decodeConfig{expectedLen: -1, maxDecodedSize: DefaultMaxDecodedSize}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	hdr, payloadStart, err := section.Parse(data)
	if err != nil {
		return nil, err
	}
	if int64(hdr.UncompressedLen) > int64(cfg.maxDecodedSize) {
		return nil, fmt.Errorf("%w: header declares %d bytes, limit is %d",
			errs.ErrAllocationLimit, hdr.UncompressedLen, cfg.maxDecodedSize)
	}
	if cfg.expectedLen >= 0 && cfg.expectedLen != int64(hdr.UncompressedLen) {
		return nil, fmt.Errorf("%w: caller expects %d bytes, header declares %d",
			errs.ErrSizeMismatch, cfg.expectedLen, hdr.UncompressedLen)
	}

	out, err := huff.Decode(data[payloadStart:], int(hdr.UncompressedLen))
	if err != nil {
		return nil, err
	}

	if hdr.Filter != format.FilterNone {
		huff.Integrate(out, int(hdr.Filter))
	}

	return out, nil
}
