package index

import (
	"fmt"
	"math/rand"

	"github.com/lmika/vectorbase/core"
)

// HNSWIndex implements the hierarchical navigable small world ANN index:
// a layered proximity graph searched greedily top-down.
type HNSWIndex struct {
	graph *HNSWGraph
}

// NewHNSWIndex creates an empty HNSW index. rng may be nil for a
// system-entropy seeded generator.
func NewHNSWIndex(metric core.Metric, config HNSWConfig, rng *rand.Rand) (*HNSWIndex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &HNSWIndex{graph: NewHNSWGraph(metric, config, rng)}, nil
}

func (h *HNSWIndex) Dimension() int      { return h.graph.dimension }
func (h *HNSWIndex) Metric() core.Metric { return h.graph.metric }
func (h *HNSWIndex) Size() int {
	h.graph.mu.RLock()
	defer h.graph.mu.RUnlock()
	return h.graph.size()
}

// Build shuffles the initial data with the index's PRNG and then inserts
// each entry in order — Build is not a special path, it is the Insert
// loop.
func (h *HNSWIndex) Build(data []core.Entry) error {
	h.graph.mu.Lock()
	defer h.graph.mu.Unlock()

	if len(data) == 0 {
		return nil
	}

	shuffled := make([]core.Entry, len(data))
	copy(shuffled, data)
	h.graph.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, e := range shuffled {
		if err := h.insertLocked(e.Vector, e.RID); err != nil {
			return fmt.Errorf("hnsw build: %w", err)
		}
	}
	return nil
}

// Insert adds a single vector to the graph.
func (h *HNSWIndex) Insert(vector core.Vector, rid core.RID) error {
	h.graph.mu.Lock()
	defer h.graph.mu.Unlock()
	return h.insertLocked(vector, rid)
}

func (h *HNSWIndex) insertLocked(vector core.Vector, rid core.RID) error {
	if h.graph.dimension == 0 {
		h.graph.dimension = len(vector)
	}
	if err := core.ValidateVectorDimension(vector, h.graph.dimension); err != nil {
		return fmt.Errorf("hnsw insert: %w", err)
	}
	h.graph.insert(vector, rid)
	return nil
}

// Scan descends from the top layer to layer 1 with ef=1 to refine a
// single entry point, then runs a full search at layer 0 with
// ef=max(ef_search, limit), returning the limit closest RIDs in
// ascending-distance order.
func (h *HNSWIndex) Scan(base core.Vector, limit int) ([]core.RID, error) {
	h.graph.mu.RLock()
	defer h.graph.mu.RUnlock()

	if h.graph.size() == 0 || limit <= 0 {
		return []core.RID{}, nil
	}
	if err := core.ValidateVectorDimension(base, h.graph.dimension); err != nil {
		return nil, fmt.Errorf("hnsw scan: %w", err)
	}

	ep := []int{h.graph.entryPoint}
	top := h.graph.topLevel()

	for l := top; l > 0; l-- {
		candidates := h.graph.searchLayer(h.graph.layers[l], base, 1, ep)
		ep = bestCandidateID(candidates, ep)
	}

	ef := h.graph.config.EfSearch
	if limit > ef {
		ef = limit
	}
	result := h.graph.searchLayer(h.graph.layers[0], base, ef, ep)

	if limit > len(result) {
		limit = len(result)
	}
	rids := make([]core.RID, limit)
	for i := 0; i < limit; i++ {
		rids[i] = h.graph.rids[result[i].id]
	}
	return rids, nil
}
