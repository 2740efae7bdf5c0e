package index

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/lmika/vectorbase/core"
)

func mustHNSW(t *testing.T, metric core.Metric, cfg HNSWConfig, seed int64) *HNSWIndex {
	t.Helper()
	idx, err := NewHNSWIndex(metric, cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewHNSWIndex: %v", err)
	}
	return idx
}

func TestHNSWBasicOperations(t *testing.T) {
	idx := mustHNSW(t, core.Cosine, HNSWConfig{M: 4, EfConstruction: 20, EfSearch: 10}, 1)

	vectors := []core.Entry{
		{Vector: core.Vector{1, 0, 0}, RID: core.RID{PageID: 1}},
		{Vector: core.Vector{0, 1, 0}, RID: core.RID{PageID: 2}},
		{Vector: core.Vector{0, 0, 1}, RID: core.RID{PageID: 3}},
		{Vector: core.Vector{0.7, 0.7, 0}, RID: core.RID{PageID: 4}},
	}
	for _, e := range vectors {
		if err := idx.Insert(e.Vector, e.RID); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if idx.Size() != len(vectors) {
		t.Fatalf("Size() = %d, want %d", idx.Size(), len(vectors))
	}

	got, err := idx.Scan(core.Vector{1, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected search results, got none")
	}
	if got[0] != (core.RID{PageID: 1}) {
		t.Errorf("expected closest result to be PageID 1, got %+v", got[0])
	}
}

// TestHNSWSinglePoint checks a 1-point index returns that point's RID
// for any query with limit >= 1.
func TestHNSWSinglePoint(t *testing.T) {
	idx := mustHNSW(t, core.L2, HNSWConfig{M: 8, EfConstruction: 20, EfSearch: 10}, 2)
	rid := core.RID{PageID: 42}
	if err := idx.Insert(core.Vector{3, 4}, rid); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := idx.Scan(core.Vector{0, 0}, 5)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 || got[0] != rid {
		t.Errorf("Scan = %v, want [%v]", got, rid)
	}
}

func TestHNSWScanLimitZero(t *testing.T) {
	idx := mustHNSW(t, core.L2, HNSWConfig{M: 8, EfConstruction: 20, EfSearch: 10}, 2)
	if err := idx.Insert(core.Vector{3, 4}, core.RID{PageID: 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := idx.Scan(core.Vector{0, 0}, 0)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan with limit=0 = %v, want empty", got)
	}
}

func TestHNSWScanEmptyIndex(t *testing.T) {
	idx := mustHNSW(t, core.L2, HNSWConfig{M: 8, EfConstruction: 20, EfSearch: 10}, 2)
	got, err := idx.Scan(core.Vector{0, 0}, 5)
	if err != nil {
		t.Fatalf("Scan on empty index returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan on empty index = %v, want empty", got)
	}
}

func TestHNSWMissingOptions(t *testing.T) {
	_, err := NewHNSWIndex(core.L2, HNSWConfig{M: 0, EfConstruction: 10, EfSearch: 10}, nil)
	if !errors.Is(err, core.ErrMissingOption) {
		t.Errorf("expected ErrMissingOption, got %v", err)
	}
}

func TestHNSWDimensionMismatch(t *testing.T) {
	idx := mustHNSW(t, core.L2, HNSWConfig{M: 8, EfConstruction: 20, EfSearch: 10}, 2)
	if err := idx.Insert(core.Vector{1, 2}, core.RID{PageID: 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := idx.Insert(core.Vector{1, 2, 3}, core.RID{PageID: 2}); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := idx.Scan(core.Vector{1, 2, 3}, 1); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

// TestHNSWDegreeCapsAndSymmetry checks that every layer respects its
// degree cap, and adjacency is symmetric.
func TestHNSWDegreeCapsAndSymmetry(t *testing.T) {
	idx := mustHNSW(t, core.L2, HNSWConfig{M: 4, EfConstruction: 20, EfSearch: 10}, 5)

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		v := core.Vector{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
		if err := idx.Insert(v, core.RID{PageID: int32(i)}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	g := idx.graph
	for level, layer := range g.layers {
		cap := g.maxConn(level)
		for id, neighbors := range layer.adj {
			if len(neighbors) > cap {
				t.Errorf("layer %d vertex %d has degree %d, cap is %d", level, id, len(neighbors), cap)
			}
			for _, n := range neighbors {
				found := false
				for _, back := range layer.adj[n] {
					if back == id {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("layer %d: %d -> %d is not symmetric", level, id, n)
				}
			}
		}
	}

	// Containment chain: every vertex present at layer l>0 must also be
	// present at layer l-1.
	for level := 1; level < len(g.layers); level++ {
		for id := range g.layers[level].adj {
			if !g.layers[level-1].hasVertex(id) {
				t.Errorf("vertex %d present at layer %d but missing at layer %d", id, level, level-1)
			}
		}
	}
}

// TestHNSWRecall checks that recall against brute-force ground truth is
// high on random data.
func TestHNSWRecall(t *testing.T) {
	const (
		dim       = 8
		numPoints = 300
		numQuery  = 20
		topK      = 10
	)

	idx := mustHNSW(t, core.L2, HNSWConfig{M: 8, EfConstruction: 40, EfSearch: 32}, 42)

	rng := rand.New(rand.NewSource(123))
	data := make([]core.Entry, numPoints)
	for i := range data {
		v := make(core.Vector, dim)
		for d := 0; d < dim; d++ {
			v[d] = rng.Float64()
		}
		data[i] = core.Entry{Vector: v, RID: core.RID{PageID: int32(i)}}
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	var totalRecall float64
	for q := 0; q < numQuery; q++ {
		query := make(core.Vector, dim)
		for d := 0; d < dim; d++ {
			query[d] = rng.Float64()
		}

		truth := bruteForceTopK(data, query, topK)
		got, err := idx.Scan(query, topK)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		truthSet := make(map[core.RID]bool, len(truth))
		for _, r := range truth {
			truthSet[r] = true
		}
		hits := 0
		for _, r := range got {
			if truthSet[r] {
				hits++
			}
		}
		totalRecall += float64(hits) / float64(len(truth))
	}

	avgRecall := totalRecall / numQuery
	if avgRecall < 0.85 {
		t.Errorf("average recall@%d = %.3f, want >= 0.85", topK, avgRecall)
	}
}

func bruteForceTopK(data []core.Entry, query core.Vector, k int) []core.RID {
	type scored struct {
		rid  core.RID
		dist float64
	}
	scoreds := make([]scored, len(data))
	for i, e := range data {
		d, _ := core.Distance(query, e.Vector, core.L2)
		scoreds[i] = scored{rid: e.RID, dist: d}
	}
	sort.Slice(scoreds, func(i, j int) bool { return scoreds[i].dist < scoreds[j].dist })
	if k > len(scoreds) {
		k = len(scoreds)
	}
	out := make([]core.RID, k)
	for i := 0; i < k; i++ {
		out[i] = scoreds[i].rid
	}
	return out
}
