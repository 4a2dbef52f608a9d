package huff

import "math/bits"

const (
	// MaxCodeLen bounds every code length after the limiter runs.
	MaxCodeLen = 15

	// runLimit caps the length counted for a single run.
	runLimit = 30000

	alphabetSize = 256
)

// analysis holds the pass-1 statistics of the input buffer.
type analysis struct {
	litFreq   [alphabetSize]uint32
	deltaFreq [alphabetSize]uint32
	// runFreq buckets run lengths; index 255 means "255 or more".
	runFreq [alphabetSize]uint32
	maxRun  int
	// rarest is the least-frequent literal byte, the clue fallback when no
	// zero-frequency range exists.
	rarest int
}

// clueConfig describes the escape symbol layout chosen for one encode call.
type clueConfig struct {
	clue int
	// bucketCount run-index buckets occupy clue+1 .. clue+bucketCount; bucket
	// k decodes as "append k more copies of the previous byte".
	bucketCount int
	// deltaClue is the base symbol of the delta range, -1 when disabled.
	// Symbol deltaClue+j decodes as previous + (minDelta+j) mod 256.
	deltaClue  int
	deltaCount int
	minDelta   int
}

// deltaSymbol maps a signed byte difference to its escape symbol.
func (c *clueConfig) deltaSymbol(d int) (int, bool) {
	if c.deltaClue < 0 || d < c.minDelta || d >= c.minDelta+c.deltaCount {
		return 0, false
	}

	return c.deltaClue + (d - c.minDelta), true
}

// runLen counts consecutive occurrences of b starting at src[i], capped at
// runLimit.
func runLen(src []byte, i int, b byte) int {
	n := 0
	for i+n < len(src) && src[i+n] == b && n < runLimit {
		n++
	}

	return n
}

// analyze performs the coarse first pass: literal, delta, and run-length
// histograms plus the least-frequent literal.
func (ctx *encodeContext) analyze() {
	an := &ctx.an

	prev := byte(0)
	for _, cur := range ctx.src {
		an.litFreq[cur]++
		an.deltaFreq[cur-prev]++
		prev = cur
	}

	prev = 0
	i := 0
	for i < len(ctx.src) {
		if ctx.src[i] == prev {
			n := runLen(ctx.src, i, prev)
			an.runFreq[min(n, alphabetSize-1)]++
			if n > an.maxRun {
				an.maxRun = n
			}
			i += n

			continue
		}
		prev = ctx.src[i]
		i++
	}

	for b := 1; b < alphabetSize; b++ {
		if an.litFreq[b] < an.litFreq[an.rarest] {
			an.rarest = b
		}
	}
}

// estBits estimates the final code length of a symbol with the given
// occurrence count, before the tree exists. Pass 2 uses these estimates; the
// emission pass re-decides with the real code lengths, so estimation error
// costs ratio, never correctness.
func estBits(freq, total uint32) int {
	if freq == 0 || total == 0 {
		return MaxCodeLen
	}
	n := bits.Len32(total / freq)

	return max(1, min(n, MaxCodeLen))
}

// minRep returns how many bucket codes cover n repeats when the largest
// bucket covers maxBucket repeats per code.
func minRep(n, maxBucket int) int {
	if n <= maxBucket {
		return 1
	}

	return 1 + minRep(n-maxBucket, maxBucket)
}

// zeroRun is a maximal range of byte values with zero literal frequency.
type zeroRun struct {
	start, length int
}

// selectClues chooses the escape symbol layout from the pass-1 statistics.
//
// The longest zero-frequency range hosts the clue and the run-index buckets,
// the second-longest hosts the delta range. Each range caps its own budget,
// which distributes escape space proportionally to the free space available.
func (ctx *encodeContext) selectClues() {
	an := &ctx.an
	cfg := &ctx.cfg
	total := uint32(len(ctx.src))

	var best, second zeroRun
	i := 0
	for i < alphabetSize {
		if an.litFreq[i] != 0 {
			i++

			continue
		}
		j := i
		for j < alphabetSize && an.litFreq[j] == 0 {
			j++
		}
		run := zeroRun{start: i, length: j - i}
		switch {
		case run.length > best.length:
			second = best
			best = run
		case run.length > second.length:
			second = run
		}
		i = j
	}

	cfg.deltaClue = -1

	if best.length == 0 {
		// No free range: fall back to the least-frequent literal. The wire
		// format always needs a clue for EOF, so the ForceClue switch cannot
		// disable this, only the (already impossible) bucket allocation.
		cfg.clue = an.rarest
		cfg.bucketCount = 0

		return
	}

	cfg.clue = best.start
	cfg.bucketCount = ctx.selectBuckets(best, total)

	if !ctx.policy.EnableDeltaClues || second.length == 0 {
		return
	}
	ctx.selectDeltas(second, total)
}

// selectBuckets sizes the run-index bucket range inside the primary free
// range, pruning it entirely when bucket codes cannot beat plain literal
// repetition for the runs actually observed.
func (ctx *encodeContext) selectBuckets(free zeroRun, total uint32) int {
	if !ctx.policy.EnableRunBuckets || ctx.an.maxRun < 2 {
		return 0
	}
	m := min(ctx.policy.MaxRunBuckets, free.length-1, ctx.an.maxRun, alphabetSize-2)
	if m < 1 {
		return 0
	}

	runs, mass := 0, 0
	for b := 2; b < alphabetSize; b++ {
		runs += int(ctx.an.runFreq[b])
		mass += int(ctx.an.runFreq[b]) * b
	}
	if runs == 0 {
		return 0
	}

	// Compare one escape code (~8 bits estimated) per minRep step against
	// repeating the cheapest literal code for an average-length run.
	avg := max(1, mass/runs)
	var maxLit uint32
	for b := range alphabetSize {
		if ctx.an.litFreq[b] > maxLit {
			maxLit = ctx.an.litFreq[b]
		}
	}
	if minRep(avg, m)*8 >= avg*estBits(maxLit, total) {
		return 0
	}

	return m
}

// selectDeltas sizes the delta-clue range inside the secondary free range. A
// delta value qualifies for its own escape code when it occurs more than
// bufferLength/25 times.
func (ctx *encodeContext) selectDeltas(free zeroRun, total uint32) {
	threshold := total / 25

	qmin, qmax := 0, 0
	found := false
	for d := -128; d <= 127; d++ {
		if d == 0 || ctx.an.deltaFreq[byte(d)] <= threshold {
			continue
		}
		if !found {
			qmin, qmax = d, d
			found = true

			continue
		}
		qmax = d
	}
	if !found {
		return
	}

	width := qmax - qmin + 1
	start := qmin
	if width > free.length {
		// Slide a window of the available width across the qualifying span
		// and keep the heaviest one; the first best wins.
		width = free.length
		var bestSum uint32
		for s := qmin; s+width-1 <= qmax; s++ {
			var sum uint32
			for d := s; d < s+width; d++ {
				if d != 0 && ctx.an.deltaFreq[byte(d)] > threshold {
					sum += ctx.an.deltaFreq[byte(d)]
				}
			}
			if sum > bestSum {
				bestSum = sum
				start = s
			}
		}
	}

	ctx.cfg.deltaClue = free.start
	ctx.cfg.deltaCount = width
	ctx.cfg.minDelta = start
}

// refine is the second modeling pass: it re-walks the input simulating the
// emission decisions with estimated costs and produces the final symbol
// frequencies the tree is built from.
func (ctx *encodeContext) refine() {
	total := uint32(len(ctx.src))
	an := &ctx.an
	cfg := &ctx.cfg

	// Escape symbols have no pass-1 counts to estimate from.
	const estEscape = 8

	prev := byte(0)
	i := 0
	for i < len(ctx.src) {
		cur := ctx.src[i]
		if cur == prev {
			n := runLen(ctx.src, i, prev)

			costA := int(^uint(0) >> 1)
			if int(cur) != cfg.clue {
				costA = n * estBits(an.litFreq[cur], total)
			}
			costB := estEscape + int(numberBitLen(uint32(n)))
			costC := int(^uint(0) >> 1)
			if cfg.bucketCount >= 1 {
				costC = minRep(n, cfg.bucketCount) * estEscape
			}

			switch {
			case costA <= costB && costA <= costC:
				ctx.freq[cur] += uint32(n)
			case costC < costB:
				q, r := n/cfg.bucketCount, n%cfg.bucketCount
				ctx.freq[cfg.clue+cfg.bucketCount] += uint32(q)
				if r > 0 {
					ctx.freq[cfg.clue+r]++
				}
			default:
				ctx.freq[cfg.clue]++
			}
			i += n

			continue
		}

		d := signedDelta(prev, cur)
		if dsym, ok := cfg.deltaSymbol(d); ok && int(cur) != cfg.clue &&
			estBits(an.deltaFreq[byte(d)], total) < estBits(an.litFreq[cur], total) {
			ctx.freq[dsym]++
		} else if int(cur) == cfg.clue {
			ctx.freq[cfg.clue]++
		} else {
			ctx.freq[cur]++
		}
		prev = cur
		i++
	}

	// The EOF marker always spends one clue code.
	ctx.freq[cfg.clue]++

	// Canonical coverage must reach exactly 0x10000, which a lone length-1
	// code cannot do; guarantee at least two coded symbols.
	present := 0
	for s := range alphabetSize {
		if ctx.freq[s] > 0 {
			present++
		}
	}
	if present < 2 {
		for s := range alphabetSize {
			if ctx.freq[s] == 0 {
				ctx.freq[s] = 1

				break
			}
		}
	}
}

// signedDelta maps the byte difference cur-prev into [-128, 127].
func signedDelta(prev, cur byte) int {
	d := int(cur) - int(prev)
	if d < -128 {
		d += 256
	} else if d > 127 {
		d -= 256
	}

	return d
}
