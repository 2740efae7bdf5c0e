// Package index implements the two ANN index structures of the
// vector-search subsystem: IVFFlat (inverted-file flat clustering) and
// HNSW (hierarchical navigable small world).
package index

import "github.com/lmika/vectorbase/core"

// VectorIndex is the contract both IVFFlat and HNSW satisfy. It is the
// thing the optimizer rewrite points at and the executor drives.
type VectorIndex interface {
	// Build seeds an empty index with an initial batch of entries.
	Build(data []core.Entry) error

	// Insert adds a single (vector, rid) pair to an already-built index.
	Insert(vector core.Vector, rid core.RID) error

	// Scan returns the RIDs of up to limit entries nearest to base under
	// the index's metric, ordered by ascending distance.
	Scan(base core.Vector, limit int) ([]core.RID, error)

	// Size reports how many entries the index currently holds.
	Size() int

	// Dimension reports the fixed vector dimension of the index, or 0 if
	// no entry has been added yet.
	Dimension() int

	// Metric reports the distance metric the index was built with.
	Metric() core.Metric
}
