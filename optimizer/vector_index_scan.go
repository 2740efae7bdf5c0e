// Package optimizer implements the vector-index-scan rewrite rule: it
// recognizes a TopN-ordered-by-distance subtree over a sequential scan and
// replaces it with a direct scan of a matching vector index. Grounded on
// original_source/src/optimizer/vector_index_scan.cpp
// (Optimizer::OptimizeAsVectorIndexScan / MatchVectorIndex).
package optimizer

import (
	"github.com/lmika/vectorbase/catalog"
	"github.com/lmika/vectorbase/core"
	"github.com/lmika/vectorbase/index"
	"github.com/lmika/vectorbase/plan"
)

// MatchMethod is the vector_index_match_method session knob controlling
// which index the rewrite prefers when a table has more than one.
type MatchMethod string

const (
	MatchDefault MatchMethod = "default"
	MatchHNSW    MatchMethod = "hnsw"
	MatchIVFFlat MatchMethod = "ivfflat"
	MatchNone    MatchMethod = "none"
)

// normalize treats "" the same as "default", matching the C++ source's
// `vector_index_match_method.empty() || vector_index_match_method == "default"`.
func (m MatchMethod) normalize() MatchMethod {
	if m == "" {
		return MatchDefault
	}
	return m
}

// Apply rewrites plan bottom-up: children are optimized first, then the
// current node is checked against the TopN/Projection?/SeqScan shape. On
// any mismatch the input subtree is returned unchanged — the rule never
// fails and is idempotent (running it again on its own output finds no
// further match, since VectorIndexScan has no children).
func Apply(node plan.Node, cat *catalog.Catalog, matchMethod MatchMethod) plan.Node {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *plan.TopN:
		optimizedInput := Apply(n.Input, cat, matchMethod)
		rewritten := &plan.TopN{N: n.N, OrderBy: n.OrderBy, Input: optimizedInput}
		if out := tryRewrite(rewritten, cat, matchMethod); out != nil {
			return out
		}
		return rewritten

	case *plan.Projection:
		return &plan.Projection{Schema: n.Schema, Exprs: n.Exprs, Input: Apply(n.Input, cat, matchMethod)}

	default:
		return node
	}
}

// tryRewrite checks whether topN matches the TopN{Projection?{SeqScan}}
// shape and, if a compatible vector index exists, returns the replacement
// subtree. It returns nil on any non-match.
func tryRewrite(topN *plan.TopN, cat *catalog.Catalog, matchMethod MatchMethod) plan.Node {
	if len(topN.OrderBy) != 1 || topN.OrderBy[0].Direction != plan.Asc {
		return nil
	}
	distCall, ok := topN.OrderBy[0].Expr.(plan.DistanceCall)
	if !ok {
		return nil
	}
	col, baseVector, ok := distCall.ColumnAndArray()
	if !ok {
		return nil
	}

	var projection *plan.Projection
	var seqScan *plan.SeqScan
	switch child := topN.Input.(type) {
	case *plan.SeqScan:
		seqScan = child
	case *plan.Projection:
		projection = child
		scan, ok := child.Input.(*plan.SeqScan)
		if !ok {
			return nil
		}
		seqScan = scan
	default:
		return nil
	}

	indexInfo, ok := matchVectorIndex(cat, seqScan.TableOID, col.Column, distCall.Metric, matchMethod)
	if !ok {
		return nil
	}

	vectorScan := &plan.VectorIndexScan{
		Schema:     seqScan.Schema,
		TableOID:   seqScan.TableOID,
		Table:      seqScan.Table,
		IndexOID:   indexInfo.OID,
		IndexName:  indexInfo.Name,
		BaseVector: baseVector,
		Limit:      topN.N,
	}

	if projection != nil {
		return &plan.Projection{Schema: projection.Schema, Exprs: projection.Exprs, Input: vectorScan}
	}
	return vectorScan
}

// matchVectorIndex applies the match-method tie-break over the table's
// indexes in catalog (creation) order, requiring both the key column and
// the metric to agree with the ordering expression.
func matchVectorIndex(cat *catalog.Catalog, tableOID catalog.TableOID, column string, metric core.Metric, method MatchMethod) (catalog.IndexInfo, bool) {
	method = method.normalize()
	if method == MatchNone {
		return catalog.IndexInfo{}, false
	}

	for _, idx := range cat.IndexesOnTable(tableOID) {
		if idx.Column != column || idx.Metric != metric {
			continue
		}
		switch method {
		case MatchDefault:
			return idx, true
		case MatchHNSW:
			if idx.IndexType == index.TypeHNSW {
				return idx, true
			}
		case MatchIVFFlat:
			if idx.IndexType == index.TypeIVFFlat {
				return idx, true
			}
		}
	}
	return catalog.IndexInfo{}, false
}
