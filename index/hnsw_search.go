package index

import (
	"container/heap"
	"sort"
)

// distCandidate pairs a vertex id with its distance to the current query,
// for use in both the candidate min-heap and the result max-heap.
type distCandidate struct {
	id   int
	dist float64
}

// minDistHeap pops the closest candidate first — used to drive the greedy
// expansion frontier in SearchLayer.
type minDistHeap []distCandidate

func (h minDistHeap) Len() int            { return len(h) }
func (h minDistHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minDistHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minDistHeap) Push(x interface{}) { *h = append(*h, x.(distCandidate)) }
func (h *minDistHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// maxDistHeap keeps the farthest candidate on top, so the result set can
// evict its worst member in O(log ef) when a better one is found.
type maxDistHeap []distCandidate

func (h maxDistHeap) Len() int            { return len(h) }
func (h maxDistHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxDistHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxDistHeap) Push(x interface{}) { *h = append(*h, x.(distCandidate)) }
func (h *maxDistHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// searchLayer is HNSW's central primitive: a greedy best-first search
// over one layer, seeded from entryPoints, that returns up to ef
// vertices nearest query, sorted by ascending distance.
func (g *HNSWGraph) searchLayer(layer *hnswLayer, query []float64, ef int, entryPoints []int) []distCandidate {
	visited := make(map[int]bool, len(entryPoints))
	candidates := &minDistHeap{}
	result := &maxDistHeap{}

	for _, ep := range entryPoints {
		if visited[ep] {
			continue
		}
		visited[ep] = true
		d := g.distance(query, g.vectors[ep])
		c := distCandidate{id: ep, dist: d}
		heap.Push(candidates, c)
		heap.Push(result, c)
	}

	for candidates.Len() > 0 {
		current := heap.Pop(candidates).(distCandidate)

		if result.Len() >= ef && current.dist > (*result)[0].dist {
			break
		}

		for _, neighborID := range layer.neighbors(current.id) {
			if visited[neighborID] {
				continue
			}
			visited[neighborID] = true

			d := g.distance(query, g.vectors[neighborID])
			cand := distCandidate{id: neighborID, dist: d}
			heap.Push(candidates, cand)

			if result.Len() < ef {
				heap.Push(result, cand)
			} else if d < (*result)[0].dist {
				heap.Pop(result)
				heap.Push(result, cand)
			}
		}
	}

	out := make([]distCandidate, result.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(result).(distCandidate)
	}
	return out
}

// selectNeighbors returns the m candidates nearest to query's vector —
// the required closest-m heuristic (the optional diversity-pruning
// heuristic is not implemented — see DESIGN.md).
func (g *HNSWGraph) selectNeighbors(candidates []distCandidate, m int) []int {
	sorted := make([]distCandidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].dist < sorted[j].dist })

	if m > len(sorted) {
		m = len(sorted)
	}
	out := make([]int, m)
	for i := 0; i < m; i++ {
		out[i] = sorted[i].id
	}
	return out
}

// selectNeighborsByID re-ranks a set of neighbor ids against refVec and
// keeps the closest cap — used when shrinking a node's connections after
// it grows past its degree cap.
func (g *HNSWGraph) selectNeighborsByID(refVec []float64, ids []int, cap int) []int {
	candidates := make([]distCandidate, len(ids))
	for i, id := range ids {
		candidates[i] = distCandidate{id: id, dist: g.distance(refVec, g.vectors[id])}
	}
	return g.selectNeighbors(candidates, cap)
}
