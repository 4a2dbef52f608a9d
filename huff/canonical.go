package huff

import (
	"fmt"

	"github.com/arloliu/huffcodex/errs"
	"github.com/arloliu/huffcodex/internal/bitio"
	"github.com/arloliu/huffcodex/internal/varnum"
)

// fullCoverage is the canonical code space: a code of length l occupies
// 2^(16-l) slots, and a complete table occupies all of them.
const fullCoverage = 1 << 16

// assignCanonical turns code lengths into canonical bit patterns: codes of
// equal length are consecutive integers, ordered by symbol, and the running
// counter left-shifts at each length increase.
func assignCanonical(lens *[alphabetSize]uint8, codes *[alphabetSize]uint16) {
	var count [MaxCodeLen + 1]uint32
	for s := range alphabetSize {
		if lens[s] > 0 {
			count[lens[s]]++
		}
	}

	var next [MaxCodeLen + 1]uint32
	code := uint32(0)
	for l := 1; l <= MaxCodeLen; l++ {
		code = (code + count[l-1]) << 1
		next[l] = code
	}

	for s := range alphabetSize {
		if l := lens[s]; l > 0 {
			codes[s] = uint16(next[l]) //nolint:gosec
			next[l]++
		}
	}
}

// lengthCounts returns the number of symbols per code length.
func lengthCounts(lens *[alphabetSize]uint8) [MaxCodeLen + 1]int {
	var count [MaxCodeLen + 1]int
	for s := range alphabetSize {
		if lens[s] > 0 {
			count[lens[s]]++
		}
	}

	return count
}

// canonicalOrder lists the present symbols grouped by ascending code length,
// ascending symbol id within each length. This is the transmission order of
// the symbol-gap stream.
func canonicalOrder(lens *[alphabetSize]uint8) []int {
	order := make([]int, 0, alphabetSize)
	for l := uint8(1); l <= MaxCodeLen; l++ {
		for s := range alphabetSize {
			if lens[s] == l {
				order = append(order, s)
			}
		}
	}

	return order
}

// writeSymbolGaps transmits the present symbols without raw symbol values:
// for each one, the number of still-unassigned slots skipped on the circular
// 0-255 ring starting from the cursor. Clustered alphabets make most gaps
// zero, which the number codec stores in one bit.
func writeSymbolGaps(w *bitio.Writer, order []int) {
	var assigned [alphabetSize]bool
	cursor := 0
	for _, sym := range order {
		gap := 0
		for p := cursor; ; p = (p + 1) % alphabetSize {
			if assigned[p] {
				continue
			}
			if p == sym {
				break
			}
			gap++
		}
		varnum.Write(w, uint32(gap)) //nolint:gosec
		assigned[sym] = true
		cursor = (sym + 1) % alphabetSize
	}
}

// readSymbolGaps mirrors writeSymbolGaps, reconstructing the symbol for each
// slot of the canonical order.
func readSymbolGaps(r *bitio.Reader, total int) ([]uint8, error) {
	var assigned [alphabetSize]bool
	syms := make([]uint8, 0, total)
	cursor := 0
	for range total {
		gap, err := varnum.Read(r)
		if err != nil {
			return nil, err
		}
		if gap >= alphabetSize {
			return nil, fmt.Errorf("%w: symbol gap %d out of range", errs.ErrCorruptData, gap)
		}

		sym := -1
		skipped := uint32(0)
		for p, steps := cursor, 0; steps < 2*alphabetSize; p, steps = (p+1)%alphabetSize, steps+1 {
			if assigned[p] {
				continue
			}
			if skipped == gap {
				sym = p

				break
			}
			skipped++
		}
		if sym < 0 {
			return nil, fmt.Errorf("%w: symbol gap %d exceeds free slots", errs.ErrCorruptData, gap)
		}

		syms = append(syms, uint8(sym)) //nolint:gosec
		assigned[sym] = true
		cursor = (sym + 1) % alphabetSize
	}

	return syms, nil
}
