package hnsw

import "errors"

// Sentinel errors distinguish the three failure classes the index
// recognizes: bad configuration fails construction outright, bad queries
// degrade gracefully with a logged diagnostic, and anything else is an
// internal invariant violation that should never happen in correct code.
var (
	// ErrInvalidConfig is returned by NewBuilder when a Config value is
	// internally inconsistent (e.g. MaxConnections < Connections).
	ErrInvalidConfig = errors.New("hnsw: invalid configuration")

	// ErrEmptyIndex names the empty-index condition. Search does not return
	// it: a query against an index with no points returns a nil result.
	ErrEmptyIndex = errors.New("hnsw: index is empty")
)

// invariantViolation panics with a consistent prefix for conditions the
// builder and searcher assume can never occur - a corrupt arena index, a
// layer whose entry point vanished, and so on. These are bugs, not
// recoverable errors, so they are not part of the public error surface.
func invariantViolation(msg string) {
	panic("hnsw: invariant violation: " + msg)
}
