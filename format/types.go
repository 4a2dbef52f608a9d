// Package format defines the shared type enums for the huffcodex wire format
// and the compress package.
package format

type (
	FilterType      uint8
	CompressionType uint8
)

const (
	// FilterNone leaves decoded bytes untouched.
	FilterNone FilterType = 0x0
	// FilterSum replaces each decoded byte with the running sum of itself and
	// all previous bytes, mod 256. The encoder applies the matching first
	// difference before modeling.
	FilterSum FilterType = 0x1
	// FilterSumSum applies the running-sum transform twice. The encoder
	// applies the second difference before modeling.
	FilterSumSum FilterType = 0x2

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionHuff CompressionType = 0x2 // CompressionHuff represents this repository's codec.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents LZ4 compression.
)

func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "None"
	case FilterSum:
		return "Sum"
	case FilterSumSum:
		return "SumSum"
	default:
		return "Unknown"
	}
}

// Valid reports whether f is one of the filter values the wire format can
// carry in the magic's filter bits.
func (f FilterType) Valid() bool {
	return f <= FilterSumSum
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionHuff:
		return "Huff"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
