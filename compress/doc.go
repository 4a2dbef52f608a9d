// Package compress provides interchangeable compression codecs behind a
// single Codec interface, with the huffcodex coder as one algorithm among
// general-purpose alternatives.
//
// # Overview
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Supported algorithms:
//   - None: No compression (fastest, largest)
//   - Huff: huffcodex adaptive Huffman with run-length and delta escapes
//   - Zstd: Excellent compression ratio, moderate speed
//   - S2: Balanced compression and speed
//   - LZ4: Fast decompression, moderate compression
//
// # Algorithm Selection Guide
//
// | Workload Type          | Recommended | Reason                              |
// |------------------------|-------------|-------------------------------------|
// | Storage-constrained    | Zstd        | Best compression ratio              |
// | Byte-oriented, runs    | Huff        | Run buckets exploit repetition      |
// | Real-time ingestion    | S2          | Balanced speed and compression      |
// | Query-heavy            | LZ4         | Fastest decompression               |
// | CPU-constrained        | None        | No compression overhead             |
//
// The Huff codec self-describes: its artifacts carry a recognizable magic and
// the exact uncompressed size, so a Huff artifact can be sized without
// decoding it. The general-purpose codecs delegate framing to their
// respective libraries.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. Implementations
// that benefit from internal state reuse (LZ4, pure-Go Zstd) pool that state
// with sync.Pool.
//
// # Error Handling
//
// Compression never fails for valid input. Decompression returns an error on
// corrupted data, truncated data, or data produced by a different algorithm.
package compress
