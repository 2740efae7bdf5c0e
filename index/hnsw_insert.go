package index

import "github.com/lmika/vectorbase/core"

// insert assigns an id and level, greedily descends to refine an entry
// point down to target_level, then at each layer from target_level to 0
// searches, selects neighbors, connects, and shrinks any neighbor that
// now exceeds its degree cap.
func (g *HNSWGraph) insert(vector core.Vector, rid core.RID) {
	id := len(g.vectors)
	g.vectors = append(g.vectors, vector)
	g.rids = append(g.rids, rid)

	level := g.assignLevel()

	if id == 0 {
		// The very first vertex only ever joins layer 0, regardless of
		// its drawn level — later inserts grow the layer stack as their
		// own levels warrant.
		g.layers = append(g.layers, newHNSWLayer())
		g.layers[0].addVertex(id)
		g.entryPoint = id
		return
	}

	top := g.topLevel()
	ep := []int{g.entryPoint}

	for l := top; l > level; l-- {
		candidates := g.searchLayer(g.layers[l], vector, 1, ep)
		ep = bestCandidateID(candidates, ep)
	}

	for l := min(level, top); l >= 0; l-- {
		w := g.searchLayer(g.layers[l], vector, g.config.EfConstruction, ep)
		neighbors := g.selectNeighbors(w, g.config.M)

		g.layers[l].addVertex(id)
		for _, n := range neighbors {
			g.layers[l].connect(id, n)

			cap := g.maxConn(l)
			if g.layers[l].degree(n) > cap {
				shrunk := g.selectNeighborsByID(g.vectors[n], g.layers[l].neighbors(n), cap)
				g.layers[l].setNeighbors(n, shrunk)
			}
		}

		ep = candidateIDs(w)
	}

	if level > top {
		for l := top + 1; l <= level; l++ {
			layer := newHNSWLayer()
			layer.addVertex(id)
			g.layers = append(g.layers, layer)
		}
		g.entryPoint = id
	}
}

func candidateIDs(candidates []distCandidate) []int {
	ids := make([]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	return ids
}

// bestCandidateID returns the single closest id among candidates, falling
// back to fallback if candidates is empty (it never should be once the
// graph is nonempty, but this keeps descent total).
func bestCandidateID(candidates []distCandidate, fallback []int) []int {
	if len(candidates) == 0 {
		return fallback
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	return []int{best.id}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
