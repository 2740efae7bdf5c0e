package index

import (
	"math"
	"math/rand"
	"sync"

	"github.com/lmika/vectorbase/core"
)

// hnswLayer is an undirected graph over a subset of vertex ids. Adjacency
// is stored as vertex_id -> []vertex_id, never as pointers into the vertex
// table, so the vertex table can grow freely without invalidating layers.
type hnswLayer struct {
	adj map[int][]int
}

func newHNSWLayer() *hnswLayer {
	return &hnswLayer{adj: make(map[int][]int)}
}

func (l *hnswLayer) hasVertex(id int) bool {
	_, ok := l.adj[id]
	return ok
}

func (l *hnswLayer) addVertex(id int) {
	if _, ok := l.adj[id]; !ok {
		l.adj[id] = nil
	}
}

func (l *hnswLayer) neighbors(id int) []int {
	return l.adj[id]
}

func (l *hnswLayer) degree(id int) int {
	return len(l.adj[id])
}

// connect adds a symmetric edge between a and b, a no-op if it already
// exists.
func (l *hnswLayer) connect(a, b int) {
	l.adj[a] = appendUnique(l.adj[a], b)
	l.adj[b] = appendUnique(l.adj[b], a)
}

// setNeighbors replaces a vertex's neighbor list outright (used when
// shrinking to a cap) and keeps the reverse edges consistent.
func (l *hnswLayer) setNeighbors(id int, ids []int) {
	old := l.adj[id]
	kept := make(map[int]bool, len(ids))
	for _, n := range ids {
		kept[n] = true
	}
	for _, n := range old {
		if !kept[n] {
			l.adj[n] = removeValue(l.adj[n], id)
		}
	}
	l.adj[id] = append([]int(nil), ids...)
	for _, n := range ids {
		l.adj[n] = appendUnique(l.adj[n], id)
	}
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

func removeValue(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// HNSWGraph owns the shared vertex table and the stack of layers. The
// vertex table grows by append; layers reference vertices by integer id
// so relocation of the vertex slice on growth never invalidates adjacency.
type HNSWGraph struct {
	mu     sync.RWMutex
	config HNSWConfig
	metric core.Metric
	rng    *rand.Rand

	dimension int
	vectors   []core.Vector
	rids      []core.RID

	layers     []*hnswLayer
	entryPoint int // vertex id of the current top-layer entry point, -1 if empty
}

// NewHNSWGraph creates an empty graph. rng may be nil for a system-entropy
// seeded generator.
func NewHNSWGraph(metric core.Metric, config HNSWConfig, rng *rand.Rand) *HNSWGraph {
	if rng == nil {
		rng = core.NewRNG()
	}
	return &HNSWGraph{
		config:     config,
		metric:     metric,
		rng:        rng,
		entryPoint: -1,
	}
}

func (g *HNSWGraph) size() int { return len(g.vectors) }

func (g *HNSWGraph) topLevel() int { return len(g.layers) - 1 }

// assignLevel draws target_level = floor(-ln(u) * mL) for a newly
// inserted vertex.
func (g *HNSWGraph) assignLevel() int {
	u := g.rng.Float64()
	for u == 0 {
		u = g.rng.Float64()
	}
	return int(-math.Log(u) * g.config.mL())
}

func (g *HNSWGraph) maxConn(level int) int {
	if level == 0 {
		return g.config.MMax0()
	}
	return g.config.MMax()
}

func (g *HNSWGraph) distance(a, b core.Vector) float64 {
	d, _ := core.Distance(a, b, g.metric)
	return d
}
