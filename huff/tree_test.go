package huff

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// kraftSum returns the canonical coverage of a length table scaled to the
// 16-bit code space: a code of length l occupies 2^(16-l) slots. Unlimited
// trees can carry lengths beyond 16, which occupy sub-slot fractions, so the
// sum accumulates at a wider fixed point and scales back down.
func kraftSum(lens *[alphabetSize]uint8) int {
	sum := 0
	for s := range alphabetSize {
		if lens[s] > 0 {
			sum += 1 << (32 - int(lens[s]))
		}
	}

	return sum >> 16
}

func TestBuildCodeLengths_TwoSymbols(t *testing.T) {
	var freq [alphabetSize]uint32
	freq[10] = 1
	freq[20] = 1000

	var lens [alphabetSize]uint8
	buildCodeLengths(&freq, &lens)

	require.Equal(t, uint8(1), lens[10])
	require.Equal(t, uint8(1), lens[20])
	require.Equal(t, fullCoverage, kraftSum(&lens))
}

func TestBuildCodeLengths_SingleSymbol(t *testing.T) {
	var freq [alphabetSize]uint32
	freq[42] = 7

	var lens [alphabetSize]uint8
	buildCodeLengths(&freq, &lens)

	require.Equal(t, uint8(1), lens[42])
	for s := range alphabetSize {
		if s != 42 {
			require.Zero(t, lens[s])
		}
	}
}

func TestBuildCodeLengths_KraftExact(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	for trial := range 50 {
		var freq [alphabetSize]uint32
		freq[0] = uint32(1 + rng.Intn(100000))
		freq[alphabetSize-1] = uint32(1 + rng.Intn(100000))
		symbols := rng.Intn(254)
		for range symbols {
			freq[rng.Intn(alphabetSize)] = uint32(1 + rng.Intn(100000))
		}

		var lens [alphabetSize]uint8
		buildCodeLengths(&freq, &lens)

		require.Equal(t, fullCoverage, kraftSum(&lens), "trial %d", trial)

		for s := range alphabetSize {
			if freq[s] > 0 {
				require.Positive(t, lens[s], "trial %d symbol %d", trial, s)
			} else {
				require.Zero(t, lens[s], "trial %d symbol %d", trial, s)
			}
		}
	}
}

func TestBuildCodeLengths_FrequentSymbolsGetShorterCodes(t *testing.T) {
	var freq [alphabetSize]uint32
	freq[0] = 1000
	freq[1] = 100
	freq[2] = 10
	freq[3] = 1

	var lens [alphabetSize]uint8
	buildCodeLengths(&freq, &lens)

	require.LessOrEqual(t, lens[0], lens[1])
	require.LessOrEqual(t, lens[1], lens[2])
	require.LessOrEqual(t, lens[2], lens[3])
}

func TestLimitCodeLengths_FibonacciDepths(t *testing.T) {
	// Fibonacci frequencies force a maximally skewed tree whose deepest
	// leaves exceed the bound.
	var freq [alphabetSize]uint32
	a, b := uint32(1), uint32(1)
	count := 0
	for count < 25 {
		freq[count] = a
		a, b = b, a+b
		count++
	}

	var lens [alphabetSize]uint8
	buildCodeLengths(&freq, &lens)

	over := false
	for s := range alphabetSize {
		if lens[s] > MaxCodeLen {
			over = true
		}
	}
	require.True(t, over, "skewed input should exceed the bound before limiting")
	require.Equal(t, fullCoverage, kraftSum(&lens))

	limitCodeLengths(&lens)

	for s := range alphabetSize {
		require.LessOrEqual(t, lens[s], uint8(MaxCodeLen))
		if freq[s] > 0 {
			require.Positive(t, lens[s])
		} else {
			require.Zero(t, lens[s])
		}
	}
	require.Equal(t, fullCoverage, kraftSum(&lens))
}

func TestLimitCodeLengths_NoChangeWithinBound(t *testing.T) {
	var freq [alphabetSize]uint32
	for s := range 16 {
		freq[s] = 100
	}

	var lens [alphabetSize]uint8
	buildCodeLengths(&freq, &lens)
	before := lens

	limitCodeLengths(&lens)
	require.Equal(t, before, lens)
}

func TestBuildCodeLengths_Deterministic(t *testing.T) {
	var freq [alphabetSize]uint32
	// Many ties: equal frequencies everywhere.
	for s := range alphabetSize {
		freq[s] = 5
	}

	var lens1, lens2 [alphabetSize]uint8
	buildCodeLengths(&freq, &lens1)
	buildCodeLengths(&freq, &lens2)
	require.Equal(t, lens1, lens2)

	// All-equal frequencies over a power-of-two alphabet yield a uniform
	// 8-bit code.
	for s := range alphabetSize {
		require.Equal(t, uint8(8), lens1[s])
	}
}
