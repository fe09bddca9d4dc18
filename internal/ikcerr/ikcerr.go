// Package ikcerr defines the sentinel errors shared across the clustering
// engine, so callers can distinguish failure modes with errors.Is instead of
// parsing messages.
package ikcerr

import "errors"

var (
	// ErrEmptyGraph is returned when an operation requires a non-empty graph.
	ErrEmptyGraph = errors.New("ikc: graph has no nodes")

	// ErrMissingNode is returned when update validation finds an edge
	// endpoint that neither exists in the graph nor is present in the
	// accompanying set of new nodes.
	ErrMissingNode = errors.New("ikc: edge references a node not present in the graph or the accompanying node batch")

	// ErrNotInBatchMode is returned by CommitBatch when called outside of
	// batch mode. Callers may treat this as non-fatal; the controller
	// still logs a warning and is a no-op.
	ErrNotInBatchMode = errors.New("ikc: commit_batch called outside batch mode")
)
