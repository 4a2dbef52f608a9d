package huffcodex

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/arloliu/huffcodex/errs"
	"github.com/arloliu/huffcodex/format"
	"github.com/arloliu/huffcodex/huff"
	"github.com/arloliu/huffcodex/internal/hash"
	"github.com/arloliu/huffcodex/section"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"short text", []byte("hello, world")},
		{"run boundary pattern", []byte("AAAAAABBBBBBAAAAAA")},
		{"all byte values", func() []byte {
			data := make([]byte, 256)
			for i := range data {
				data[i] = byte(i)
			}
			return data
		}()},
		{"binary with zeros", []byte{0x00, 0x01, 0x00, 0x00, 0xFF, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed := Encode(tt.data)
			require.True(t, IsCompressed(compressed))

			restored, err := Decode(compressed)
			require.NoError(t, err)
			require.Equal(t, tt.data, restored)
		})
	}
}

func TestEncodeDecode_UniformInput(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 100000)

	compressed := Encode(data)
	require.Less(t, len(compressed), 200, "uniform input must collapse to a tiny artifact")

	restored, err := Decode(compressed)
	require.NoError(t, err)
	require.Equal(t, data, restored)
}

func TestEncodeDecode_PseudoRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}

	compressed := Encode(data)
	restored, err := Decode(compressed)
	require.NoError(t, err)
	require.Equal(t, data, restored)
}

func TestEncode_Deterministic(t *testing.T) {
	data := bytes.Repeat([]byte("determinism check payload "), 200)

	first := Encode(data)
	second := Encode(data)
	require.Equal(t, first, second)
}

func TestIsCompressed(t *testing.T) {
	t.Run("recognizes encoded artifacts", func(t *testing.T) {
		require.True(t, IsCompressed(Encode([]byte("data"))))
	})

	t.Run("recognizes all filter and length variants", func(t *testing.T) {
		data := []byte("variant probe")
		for _, f := range []format.FilterType{format.FilterNone, format.FilterSum, format.FilterSumSum} {
			plain, err := EncodeWithOptions(data, WithFilter(f))
			require.NoError(t, err)
			require.True(t, IsCompressed(plain))

			withLen, err := EncodeWithOptions(data, WithFilter(f), WithCompressedLengthField())
			require.NoError(t, err)
			require.True(t, IsCompressed(withLen))
		}
	})

	t.Run("rejects non-artifacts", func(t *testing.T) {
		require.False(t, IsCompressed(nil))
		require.False(t, IsCompressed([]byte{}))
		require.False(t, IsCompressed([]byte{0x30}))
		require.False(t, IsCompressed([]byte("plain text content")))
		require.False(t, IsCompressed([]byte{0x36, 0xFB, 0x00}))
	})

	t.Run("rejects corrupted magic", func(t *testing.T) {
		artifact := Encode([]byte("data"))

		first := append([]byte(nil), artifact...)
		first[0] = 0x29
		require.False(t, IsCompressed(first))

		second := append([]byte(nil), artifact...)
		second[1] = 0xFC
		require.False(t, IsCompressed(second))
	})
}

func TestUncompressedSize(t *testing.T) {
	for _, n := range []int{0, 1, 100, 12345} {
		data := bytes.Repeat([]byte{0x37}, n)
		size, err := UncompressedSize(Encode(data))
		require.NoError(t, err)
		require.Equal(t, uint32(n), size) //nolint:gosec
	}

	_, err := UncompressedSize([]byte("not an artifact"))
	require.ErrorIs(t, err, errs.ErrUnknownFormat)
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode([]byte("definitely not compressed"))
	require.ErrorIs(t, err, errs.ErrUnknownFormat)

	_, err = Decode([]byte{0x12})
	require.ErrorIs(t, err, errs.ErrHeaderTruncated)
}

func TestDecode_Truncated(t *testing.T) {
	data := bytes.Repeat([]byte("truncation test payload "), 100)
	compressed := Encode(data)

	for _, cut := range []int{3, 5, len(compressed) / 2, len(compressed) - 1} {
		_, err := Decode(compressed[:cut])
		require.Error(t, err, "cut at %d", cut)
	}
}

func TestDecode_ExpectedLength(t *testing.T) {
	data := []byte("expected length checks")
	compressed := Encode(data)

	restored, err := Decode(compressed, WithExpectedLength(uint32(len(data)))) //nolint:gosec
	require.NoError(t, err)
	require.Equal(t, data, restored)

	_, err = Decode(compressed, WithExpectedLength(uint32(len(data)+5))) //nolint:gosec
	require.ErrorIs(t, err, errs.ErrSizeMismatch)
}

func TestDecode_AllocationLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 4096)
	compressed := Encode(data)

	_, err := Decode(compressed, WithMaxDecodedSize(1024))
	require.ErrorIs(t, err, errs.ErrAllocationLimit)

	restored, err := Decode(compressed, WithMaxDecodedSize(4096))
	require.NoError(t, err)
	require.Equal(t, data, restored)
}

func TestFilters_RoundTrip(t *testing.T) {
	// A smooth ramp is the best case for the difference filters.
	ramp := make([]byte, 8192)
	for i := range ramp {
		ramp[i] = byte(i / 32)
	}

	rng := rand.New(rand.NewSource(31))
	noisy := make([]byte, 8192)
	v := byte(0)
	for i := range noisy {
		v += byte(rng.Intn(5) - 2)
		noisy[i] = v
	}

	inputs := map[string][]byte{"ramp": ramp, "noisy ramp": noisy, "empty": {}}
	filters := []format.FilterType{format.FilterNone, format.FilterSum, format.FilterSumSum}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			for _, f := range filters {
				compressed, err := EncodeWithOptions(data, WithFilter(f))
				require.NoError(t, err)

				hdr, _, err := section.Parse(compressed)
				require.NoError(t, err)
				require.Equal(t, f, hdr.Filter)

				restored, err := Decode(compressed)
				require.NoError(t, err)
				require.Equal(t, data, restored, "filter %s", f)
			}
		})
	}
}

func TestFilters_ImproveRampRatio(t *testing.T) {
	ramp := make([]byte, 16384)
	for i := range ramp {
		ramp[i] = byte(i / 64)
	}

	plain, err := EncodeWithOptions(ramp)
	require.NoError(t, err)
	filtered, err := EncodeWithOptions(ramp, WithFilter(format.FilterSum))
	require.NoError(t, err)

	// Differencing turns the ramp into long runs of a single value.
	require.Less(t, len(filtered), len(plain))
}

func TestWithFilter_Invalid(t *testing.T) {
	_, err := EncodeWithOptions([]byte("data"), WithFilter(format.FilterType(3)))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestWithPolicy(t *testing.T) {
	data := bytes.Repeat([]byte("policy option "), 100)

	compressed, err := EncodeWithOptions(data, WithPolicy(huff.Policy{
		ForceClue:     true,
		EnableHuffman: true,
	}))
	require.NoError(t, err)

	restored, err := Decode(compressed)
	require.NoError(t, err)
	require.Equal(t, data, restored)

	_, err = EncodeWithOptions(data, WithPolicy(huff.Policy{MaxRunBuckets: 255}))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestWithMaxDecodedSize_Invalid(t *testing.T) {
	_, err := Decode(Encode([]byte("x")), WithMaxDecodedSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestCompressedLengthField(t *testing.T) {
	data := bytes.Repeat([]byte("length field "), 50)

	compressed, err := EncodeWithOptions(data, WithCompressedLengthField())
	require.NoError(t, err)

	hdr, _, err := section.Parse(compressed)
	require.NoError(t, err)
	require.True(t, hdr.HasCompressedLen)
	require.Equal(t, uint32(len(compressed)), hdr.CompressedLen) //nolint:gosec

	restored, err := Decode(compressed)
	require.NoError(t, err)
	require.Equal(t, data, restored)
}

func TestWideHeader(t *testing.T) {
	// Push past the 24-bit size field boundary to force the wide header.
	data := bytes.Repeat([]byte{0xAB}, section.Wide24Limit+2)

	compressed := Encode(data)
	require.True(t, IsCompressed(compressed))
	require.Equal(t, byte(0xB0), compressed[0])

	hdr, _, err := section.Parse(compressed)
	require.NoError(t, err)
	require.True(t, hdr.Wide)
	require.Equal(t, uint32(len(data)), hdr.UncompressedLen) //nolint:gosec

	restored, err := Decode(compressed, WithMaxDecodedSize(section.Wide24Limit+2))
	require.NoError(t, err)
	require.Equal(t, len(data), len(restored))
	require.Equal(t, hash.Sum64(data), hash.Sum64(restored))
}

func TestDecode_TamperedSizeField(t *testing.T) {
	data := bytes.Repeat([]byte("tamper target "), 64)
	compressed := Encode(data)

	// Inflate the declared size; the payload ends before producing it.
	tampered := append([]byte(nil), compressed...)
	tampered[2] ^= 0x01
	_, err := Decode(tampered)
	require.Error(t, err)
}
