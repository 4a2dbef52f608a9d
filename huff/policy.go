package huff

// Policy names the independent switches controlling the encoder's modeling
// heuristics. The zero value disables everything; use DefaultPolicy for the
// supported configuration.
//
// Only DefaultPolicy is exercised by the top-level API. Other combinations
// round-trip correctly but are tuned for nothing beyond correctness.
type Policy struct {
	// EnableRunBuckets allocates contiguous escape symbols after the clue
	// that each encode a fixed number of repeats of the previous byte.
	EnableRunBuckets bool
	// EnableDeltaClues allocates an escape range encoding the signed
	// difference between consecutive bytes.
	EnableDeltaClues bool
	// ForceClue picks the least-frequent literal as the clue when no
	// zero-frequency range exists. The wire format always carries a clue
	// (EOF rides on it), so this switch only gates whether bucket and delta
	// ranges may be carved out of occupied symbol space: they may not, so in
	// practice it selects the same fallback either way.
	ForceClue bool
	// EnableHuffman enables adaptive code lengths. When false every symbol
	// gets a fixed 8-bit code and no tree is built.
	EnableHuffman bool
	// MaxRunBuckets caps the number of run-index buckets (excluding the clue
	// itself). At most 254.
	MaxRunBuckets int
}

// DefaultPolicy returns the configuration used by the public API.
func DefaultPolicy() Policy {
	return Policy{
		EnableRunBuckets: true,
		EnableDeltaClues: true,
		ForceClue:        true,
		EnableHuffman:    true,
		MaxRunBuckets:    15,
	}
}
