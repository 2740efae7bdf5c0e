package core

import "errors"

// Error kinds exported by the vector-search core. Operation-level failures
// wrap one of these with fmt.Errorf("...: %w", ...) so callers can match
// with errors.Is while still getting a descriptive message.
var (
	// ErrMissingOption is returned at construction time when a required
	// index option was not supplied.
	ErrMissingOption = errors.New("missing required index option")

	// ErrDimensionMismatch is returned when a vector's length differs from
	// the index's fixed dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyIndex names the "index has no data yet" condition. No
	// operation in this module returns it: Scan on an empty index returns
	// an empty result instead.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrUnsupportedMetric is returned when a distance metric the index
	// was not built for is requested.
	ErrUnsupportedMetric = errors.New("unsupported distance metric")

	// ErrIndexNotFound is returned at planning/execution time when a
	// referenced index can no longer be found in the catalog.
	ErrIndexNotFound = errors.New("index not found")
)
