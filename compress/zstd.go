package compress

// ZstdCompressor provides Zstandard compression for scenarios where
// compression ratio matters more than compression speed:
//   - Cold storage and archival
//   - Network transmission where bandwidth is limited
//   - Baseline ratio comparisons against the huffcodex coder
//
// The implementation is selected at build time: with cgo enabled the
// libzstd binding is used, otherwise the pure-Go implementation.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
