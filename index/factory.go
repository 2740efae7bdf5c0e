package index

import (
	"fmt"
	"math/rand"

	"github.com/lmika/vectorbase/core"
)

// Type identifies which ANN structure an index uses.
type Type string

const (
	TypeIVFFlat Type = "ivfflat"
	TypeHNSW    Type = "hnsw"
)

// New constructs a VectorIndex of the given type. rng may be nil for a
// system-entropy-seeded generator; tests pass a seeded one for
// reproducible builds.
func New(indexType Type, metric core.Metric, options map[string]int, rng *rand.Rand) (VectorIndex, error) {
	switch indexType {
	case TypeIVFFlat:
		cfg := IVFFlatOptionsFromPairs(options)
		return NewIVFFlatIndex(metric, cfg, rng)
	case TypeHNSW:
		cfg := HNSWOptionsFromPairs(options)
		return NewHNSWIndex(metric, cfg, rng)
	default:
		return nil, fmt.Errorf("index: unsupported index type: %s", indexType)
	}
}
