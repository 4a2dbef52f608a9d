// Package huff implements the huffcodex payload codec: adaptive canonical
// Huffman coding with run-length and delta escapes over a 256-symbol byte
// alphabet.
//
// Encoding runs two modeling passes (coarse statistics, then refined symbol
// frequencies under the chosen escape layout), builds a length-limited
// canonical code, and emits the payload choosing the cheapest of the
// competing run encodings per run. Decoding rebuilds the code from the
// transmitted lengths and symbol gaps and expands the stream with a quick
// 8-bit lookup table. All working state lives in a per-call context; nothing
// is shared between calls.
package huff

import (
	"github.com/arloliu/huffcodex/internal/bitio"
	"github.com/arloliu/huffcodex/internal/varnum"
)

// encodeContext owns the working state of one encode call and is threaded
// through the pipeline phases by mutable reference.
type encodeContext struct {
	src    []byte
	policy Policy

	an  analysis
	cfg clueConfig

	// freq holds the refined pass-2 symbol frequencies.
	freq  [alphabetSize]uint32
	lens  [alphabetSize]uint8
	codes [alphabetSize]uint16
}

func numberBitLen(n uint32) uint {
	return varnum.BitLen(n)
}

// AppendEncoded compresses src and appends the bit-packed payload to dst.
// The byte-level header (magic and size fields) is the caller's business.
//
// Encoding cannot fail: any byte buffer, including an empty one, produces a
// decodable payload.
func AppendEncoded(dst, src []byte, policy Policy) []byte {
	ctx := encodeContext{src: src, policy: policy}

	ctx.an.rarest = 0
	ctx.analyze()
	ctx.selectClues()

	if policy.EnableHuffman {
		ctx.refine()
		buildCodeLengths(&ctx.freq, &ctx.lens)
		limitCodeLengths(&ctx.lens)
	} else {
		// Fixed-width fallback: every symbol present, eight bits each. The
		// 256 length-8 codes cover the canonical space exactly.
		for s := range alphabetSize {
			ctx.lens[s] = 8
		}
	}
	assignCanonical(&ctx.lens, &ctx.codes)

	w := bitio.NewWriter()
	defer w.Finish()

	ctx.writeTables(w)
	ctx.emit(w)

	return w.AppendTo(dst)
}

// writeTables emits the payload prologue: clue byte, clue configuration,
// per-length symbol counts up to the length that completes the canonical
// coverage, and the symbol-gap stream.
func (ctx *encodeContext) writeTables(w *bitio.Writer) {
	cfg := &ctx.cfg

	w.WriteBits(uint32(cfg.clue), 8)
	varnum.Write(w, uint32(cfg.bucketCount)) //nolint:gosec
	if cfg.deltaClue >= 0 {
		w.WriteBits(1, 1)
		w.WriteBits(uint32(cfg.deltaClue), 8)
		varnum.Write(w, uint32(cfg.deltaCount-1)) //nolint:gosec
		w.WriteBits(uint32(cfg.minDelta+128), 8)  //nolint:gosec
	} else {
		w.WriteBits(0, 1)
	}

	count := lengthCounts(&ctx.lens)
	coverage := 0
	for l := 1; l <= MaxCodeLen; l++ {
		varnum.Write(w, uint32(count[l])) //nolint:gosec
		coverage += count[l] << (16 - l)
		if coverage >= fullCoverage {
			break
		}
	}

	writeSymbolGaps(w, canonicalOrder(&ctx.lens))
}

func (ctx *encodeContext) writeCode(w *bitio.Writer, sym int) {
	w.WriteBits(uint32(ctx.codes[sym]), uint(ctx.lens[sym]))
}

// emit is the final pass: it re-walks the input and spends the real code
// lengths, choosing the cheapest available encoding per run.
func (ctx *encodeContext) emit(w *bitio.Writer) {
	cfg := &ctx.cfg

	prev := byte(0)
	i := 0
	for i < len(ctx.src) {
		cur := ctx.src[i]
		if cur == prev {
			n := runLen(ctx.src, i, prev)
			ctx.emitRun(w, cur, n)
			i += n

			continue
		}

		d := signedDelta(prev, cur)
		dsym, ok := cfg.deltaSymbol(d)
		litLen := ctx.lens[cur]
		switch {
		case ok && int(cur) != cfg.clue && ctx.lens[dsym] > 0 &&
			(litLen == 0 || ctx.lens[dsym] < litLen):
			ctx.writeCode(w, dsym)
		case int(cur) != cfg.clue && litLen > 0:
			ctx.writeCode(w, int(cur))
		default:
			// Escaped literal: clue + number(0) + raw byte. Used for the clue
			// byte itself and for literals the refined pass left uncoded.
			ctx.writeCode(w, cfg.clue)
			varnum.Write(w, 0)
			w.WriteBits(0, 1)
			w.WriteBits(uint32(cur), 8)
		}
		prev = cur
		i++
	}

	// EOF marker: clue + number(0) + the 2-bit value 2. The decoder stops on
	// the leading 1 bit; the trailing 0 lands in the padding.
	ctx.writeCode(w, cfg.clue)
	varnum.Write(w, 0)
	w.WriteBits(2, 2)
	w.Flush()
}

// emitRun encodes n repeats of b, choosing the cheapest of literal
// repetition, clue+number, and bucket distribution. Ties favor literal
// repetition.
func (ctx *encodeContext) emitRun(w *bitio.Writer, b byte, n int) {
	cfg := &ctx.cfg

	costA := int(^uint(0) >> 1)
	if int(b) != cfg.clue && ctx.lens[b] > 0 {
		costA = n * int(ctx.lens[b])
	}
	costB := int(ctx.lens[cfg.clue]) + int(numberBitLen(uint32(n))) //nolint:gosec
	costC, planOK := ctx.bucketCost(n)

	if costA <= costB && (!planOK || costA <= costC) {
		for range n {
			ctx.writeCode(w, int(b))
		}

		return
	}
	if planOK && costC < costB {
		ctx.emitBuckets(w, n)

		return
	}
	ctx.writeCode(w, cfg.clue)
	varnum.Write(w, uint32(n)) //nolint:gosec
}

// bucketCost prices the bucket distribution of an n-long run: quotient steps
// on the largest coded bucket, then the remainder bucket, falling back to
// clue+number when the remainder bucket has no code.
func (ctx *encodeContext) bucketCost(n int) (int, bool) {
	cfg := &ctx.cfg

	kmax := 0
	for k := cfg.bucketCount; k >= 1; k-- {
		if ctx.lens[cfg.clue+k] > 0 {
			kmax = k

			break
		}
	}
	if kmax == 0 {
		return 0, false
	}

	q, r := n/kmax, n%kmax
	cost := q * int(ctx.lens[cfg.clue+kmax])
	if r > 0 {
		if ctx.lens[cfg.clue+r] > 0 {
			cost += int(ctx.lens[cfg.clue+r])
		} else {
			cost += int(ctx.lens[cfg.clue]) + int(numberBitLen(uint32(r))) //nolint:gosec
		}
	}

	return cost, true
}

// emitBuckets writes the exact sequence bucketCost priced.
func (ctx *encodeContext) emitBuckets(w *bitio.Writer, n int) {
	cfg := &ctx.cfg

	kmax := 0
	for k := cfg.bucketCount; k >= 1; k-- {
		if ctx.lens[cfg.clue+k] > 0 {
			kmax = k

			break
		}
	}

	q, r := n/kmax, n%kmax
	for range q {
		ctx.writeCode(w, cfg.clue+kmax)
	}
	if r > 0 {
		if ctx.lens[cfg.clue+r] > 0 {
			ctx.writeCode(w, cfg.clue+r)
		} else {
			ctx.writeCode(w, cfg.clue)
			varnum.Write(w, uint32(r)) //nolint:gosec
		}
	}
}
