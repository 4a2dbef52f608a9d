// Package errs defines the sentinel errors shared across huffcodex packages.
//
// Callers match them with errors.Is; packages wrap them with
// fmt.Errorf("%w: ...") to add context.
package errs

import "errors"

var (
	// ErrUnknownFormat indicates the first two bytes do not match any of the
	// twelve recognized magic values. This is a "not this format" answer, not
	// a corruption report.
	ErrUnknownFormat = errors.New("huffcodex: unknown format magic")

	// ErrHeaderTruncated indicates the buffer ends inside the fixed header
	// (magic or size fields).
	ErrHeaderTruncated = errors.New("huffcodex: truncated header")

	// ErrTruncated indicates the bit-packed payload ended before the EOF
	// marker was decoded.
	ErrTruncated = errors.New("huffcodex: truncated payload")

	// ErrCorruptData indicates an internal inconsistency in a recognized
	// artifact, such as an invalid code-length table or an undecodable code.
	ErrCorruptData = errors.New("huffcodex: corrupt compressed data")

	// ErrSizeMismatch indicates the decoded byte count disagrees with the
	// header-declared or caller-expected length.
	ErrSizeMismatch = errors.New("huffcodex: decoded size mismatch")

	// ErrAllocationLimit indicates the header declares an uncompressed size
	// beyond the configured sanity bound.
	ErrAllocationLimit = errors.New("huffcodex: declared size exceeds allocation limit")

	// ErrInvalidArgument indicates an out-of-range value at the API boundary,
	// such as a negative allocation limit.
	ErrInvalidArgument = errors.New("huffcodex: invalid argument")
)
