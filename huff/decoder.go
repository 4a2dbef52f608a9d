package huff

import (
	"fmt"

	"github.com/arloliu/huffcodex/errs"
	"github.com/arloliu/huffcodex/internal/bitio"
	"github.com/arloliu/huffcodex/internal/varnum"
)

// quickBits is the width of the fast-path lookup table.
const quickBits = 8

// quickSentinel marks quick-table slots whose symbol needs escape handling,
// forcing the decode loop through the slow path.
const quickSentinel = 96

// symbol classes produced by table reconstruction.
const (
	kindLiteral = iota
	kindClue
	kindBucket
	kindDelta
)

// decodeContext owns the working state of one decode call: the reconstructed
// canonical tables and the escape layout read from the payload prologue.
type decodeContext struct {
	r *bitio.Reader

	clue        int
	bucketCount int
	deltaClue   int
	deltaCount  int
	minDelta    int

	kind [alphabetSize]uint8

	// canonical decode tables, indexed by code length
	count   [MaxCodeLen + 1]int
	first   [MaxCodeLen + 1]uint32
	base    [MaxCodeLen + 1]int
	limit   [MaxCodeLen + 1]uint32
	mostLen int

	canonSyms []uint8

	quickSym [1 << quickBits]uint8
	quickLen [1 << quickBits]uint8
}

// Decode expands a bit-packed payload into exactly declaredLen bytes.
//
// Any inconsistency is fatal: no partial output is ever returned.
//
// Returns:
//   - []byte: Decoded bytes, len equal to declaredLen
//   - error: ErrCorruptData, ErrTruncated, or ErrSizeMismatch
func Decode(payload []byte, declaredLen int) ([]byte, error) {
	ctx := decodeContext{r: bitio.NewReader(payload)}

	if err := ctx.buildTables(); err != nil {
		return nil, err
	}

	return ctx.decodeLoop(declaredLen)
}

// buildTables reads the prologue and reconstructs the canonical code.
func (ctx *decodeContext) buildTables() error {
	r := ctx.r

	ctx.clue = int(r.ReadBits(8))

	bucketCount, err := varnum.Read(r)
	if err != nil {
		return err
	}
	ctx.bucketCount = int(bucketCount)
	if ctx.clue+ctx.bucketCount >= alphabetSize {
		return fmt.Errorf("%w: run bucket range past symbol space", errs.ErrCorruptData)
	}

	ctx.deltaClue = -1
	if r.ReadBits(1) == 1 {
		ctx.deltaClue = int(r.ReadBits(8))
		deltaCount, err := varnum.Read(r)
		if err != nil {
			return err
		}
		ctx.deltaCount = int(deltaCount) + 1
		ctx.minDelta = int(r.ReadBits(8)) - 128
		if ctx.deltaClue+ctx.deltaCount > alphabetSize {
			return fmt.Errorf("%w: delta range past symbol space", errs.ErrCorruptData)
		}
	}
	if r.Overrun() {
		return errs.ErrTruncated
	}

	for s := range alphabetSize {
		ctx.kind[s] = ctx.classify(s)
	}

	if err := ctx.readLengthCounts(); err != nil {
		return err
	}

	total := 0
	for l := 1; l <= ctx.mostLen; l++ {
		total += ctx.count[l]
	}
	ctx.canonSyms, err = readSymbolGaps(r, total)
	if err != nil {
		return err
	}

	ctx.buildQuickTable()

	return nil
}

func (ctx *decodeContext) classify(sym int) uint8 {
	switch {
	case sym == ctx.clue:
		return kindClue
	case ctx.bucketCount > 0 && sym > ctx.clue && sym <= ctx.clue+ctx.bucketCount:
		return kindBucket
	case ctx.deltaClue >= 0 && sym >= ctx.deltaClue && sym < ctx.deltaClue+ctx.deltaCount:
		return kindDelta
	default:
		return kindLiteral
	}
}

// readLengthCounts reads per-length symbol counts until the canonical
// coverage fills the code space exactly. The length that completes it is the
// last length in use.
func (ctx *decodeContext) readLengthCounts() error {
	coverage := 0
	total := 0
	for l := 1; l <= MaxCodeLen; l++ {
		c, err := varnum.Read(ctx.r)
		if err != nil {
			return err
		}
		if c > alphabetSize {
			return fmt.Errorf("%w: %d codes of length %d", errs.ErrCorruptData, c, l)
		}
		ctx.count[l] = int(c)
		total += int(c)
		if total > alphabetSize {
			return fmt.Errorf("%w: more than %d symbols", errs.ErrCorruptData, alphabetSize)
		}
		coverage += int(c) << (16 - l)
		if coverage > fullCoverage {
			return fmt.Errorf("%w: over-subscribed code table", errs.ErrCorruptData)
		}
		if coverage == fullCoverage {
			ctx.mostLen = l

			break
		}
	}
	if ctx.mostLen == 0 {
		return fmt.Errorf("%w: code table never covers the code space", errs.ErrCorruptData)
	}

	code := uint32(0)
	for l := 1; l <= ctx.mostLen; l++ {
		code = (code + uint32(ctx.count[l-1])) << 1 //nolint:gosec
		ctx.first[l] = code
		ctx.base[l] = ctx.base[l-1] + ctx.count[l-1]
		ctx.limit[l] = (ctx.first[l] + uint32(ctx.count[l])) << (16 - l) //nolint:gosec
	}

	return nil
}

// buildQuickTable fills the 8-bit fast-path table: every code of length <= 8
// owns all slots sharing its prefix. Slots whose symbol is an escape (clue,
// bucket, or delta) carry the sentinel length instead, so the decode loop
// always reaches escape handling through the slow path.
func (ctx *decodeContext) buildQuickTable() {
	for l := 1; l <= min(ctx.mostLen, quickBits); l++ {
		for j := 0; j < ctx.count[l]; j++ {
			sym := ctx.canonSyms[ctx.base[l]+j]
			code := ctx.first[l] + uint32(j) //nolint:gosec
			lo := code << (quickBits - l)
			slotLen := uint8(l) //nolint:gosec
			if ctx.kind[sym] != kindLiteral {
				slotLen = quickSentinel
			}
			for k := range 1 << (quickBits - l) {
				ctx.quickSym[int(lo)+k] = sym
				ctx.quickLen[int(lo)+k] = slotLen
			}
		}
	}
}

// readSymbol decodes one symbol: quick table first, then the slow path that
// compares the next 16 bits against the per-length thresholds.
func (ctx *decodeContext) readSymbol() (int, error) {
	v := ctx.r.Peek16()

	if l := ctx.quickLen[v>>(16-quickBits)]; l >= 1 && l <= quickBits {
		ctx.r.Consume(uint(l))

		return int(ctx.quickSym[v>>(16-quickBits)]), nil
	}

	v32 := uint32(v)
	for l := 1; l <= ctx.mostLen; l++ {
		if ctx.count[l] == 0 || v32 >= ctx.limit[l] {
			continue
		}
		code := v32 >> (16 - l)
		sym := ctx.canonSyms[ctx.base[l]+int(code-ctx.first[l])]
		ctx.r.Consume(uint(l))

		return int(sym), nil
	}

	return 0, fmt.Errorf("%w: undecodable code", errs.ErrCorruptData)
}

// decodeLoop runs the main state machine until the EOF marker.
func (ctx *decodeContext) decodeLoop(declaredLen int) ([]byte, error) {
	r := ctx.r
	out := make([]byte, 0, declaredLen)
	prev := byte(0)

	appendRun := func(b byte, n int) error {
		if len(out)+n > declaredLen {
			return fmt.Errorf("%w: output exceeds declared length %d", errs.ErrSizeMismatch, declaredLen)
		}
		for range n {
			out = append(out, b)
		}

		return nil
	}

	for {
		if r.Overrun() {
			return nil, errs.ErrTruncated
		}

		sym, err := ctx.readSymbol()
		if err != nil {
			return nil, err
		}

		switch ctx.kind[sym] {
		case kindClue:
			n, err := varnum.Read(r)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				if err := appendRun(prev, int(n)); err != nil {
					return nil, err
				}

				continue
			}
			if r.ReadBits(1) == 1 {
				// EOF marker
				if r.Overrun() {
					return nil, errs.ErrTruncated
				}
				if len(out) != declaredLen {
					return nil, fmt.Errorf("%w: decoded %d bytes, header declares %d",
						errs.ErrSizeMismatch, len(out), declaredLen)
				}

				return out, nil
			}
			b := byte(r.ReadBits(8))
			if r.Overrun() {
				return nil, errs.ErrTruncated
			}
			if err := appendRun(b, 1); err != nil {
				return nil, err
			}
			prev = b

		case kindBucket:
			if err := appendRun(prev, sym-ctx.clue); err != nil {
				return nil, err
			}

		case kindDelta:
			b := prev + byte(ctx.minDelta+(sym-ctx.deltaClue))
			if err := appendRun(b, 1); err != nil {
				return nil, err
			}
			prev = b

		default:
			if err := appendRun(byte(sym), 1); err != nil {
				return nil, err
			}
			prev = byte(sym)
		}
	}
}
