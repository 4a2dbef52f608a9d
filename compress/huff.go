package compress

import (
	huffcodex "github.com/arloliu/huffcodex"
)

// HuffCompressor adapts the huffcodex coder to the Codec interface.
//
// Unlike the general-purpose codecs, its artifacts are self-describing: they
// carry a recognizable magic and the exact uncompressed size, so
// huffcodex.UncompressedSize can size an artifact without decoding it.
//
// Best suited for byte-oriented data with skewed symbol distributions or
// long runs. For data that is already compressed or close to random, the
// artifact is bounded at roughly nine bits per input byte plus the table
// prologue.
type HuffCompressor struct{}

var _ Codec = (*HuffCompressor)(nil)

// NewHuffCompressor creates a new huffcodex compressor with the default
// encoding policy.
//
// Returns:
//   - HuffCompressor: New huffcodex compressor instance
func NewHuffCompressor() HuffCompressor {
	return HuffCompressor{}
}

// Compress compresses the input data into a self-describing huffcodex
// artifact.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Compressed artifact (nil if input is empty)
//   - error: Always nil for inputs within the 32-bit size field
func (c HuffCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return huffcodex.EncodeWithOptions(data)
}

// Decompress expands a huffcodex artifact back to the original bytes.
//
// Parameters:
//   - data: Compressed artifact to expand
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: Decoding error if the artifact is corrupted or truncated
func (c HuffCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return huffcodex.Decode(data)
}
