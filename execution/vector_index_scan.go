package execution

import (
	"fmt"

	"github.com/lmika/vectorbase/catalog"
	"github.com/lmika/vectorbase/core"
	"github.com/lmika/vectorbase/plan"
)

// VectorIndexScanExecutor pulls tuples in the order a vector index's Scan
// returns them: nearest to BaseVector first. It resolves the index from
// the catalog at Init time and buffers the full RID list, then Next walks
// that buffer one RID at a time, fetching each tuple from source.
type VectorIndexScanExecutor struct {
	node   *plan.VectorIndexScan
	cat    *catalog.Catalog
	source TupleSource

	rids []core.RID
	pos  int
}

// NewVectorIndexScanExecutor constructs an executor for node. cat resolves
// the index by OID; source fetches tuples by RID once their positions are
// known.
func NewVectorIndexScanExecutor(node *plan.VectorIndexScan, cat *catalog.Catalog, source TupleSource) *VectorIndexScanExecutor {
	return &VectorIndexScanExecutor{node: node, cat: cat, source: source}
}

// Init resolves the index, validates that the bound query vector's
// dimension and the index's metric agree with the index's own, and runs
// the scan once. A mismatch here is a planning bug, not a recoverable
// runtime condition, so Init returns an error rather than silently
// degrading.
func (e *VectorIndexScanExecutor) Init() error {
	info, ok := e.cat.GetIndex(e.node.IndexOID)
	if !ok {
		return fmt.Errorf("vector index scan: %w", core.ErrIndexNotFound)
	}

	base := e.node.BaseVector.Values
	if err := core.ValidateVectorDimension(base, info.Index.Dimension()); err != nil {
		return fmt.Errorf("vector index scan: query vector: %w", err)
	}
	if info.Metric != info.Index.Metric() {
		return fmt.Errorf("vector index scan: index %q metric mismatch: catalog says %s, index reports %s: %w",
			info.Name, info.Metric, info.Index.Metric(), core.ErrUnsupportedMetric)
	}

	rids, err := info.Index.Scan(base, e.node.Limit)
	if err != nil {
		return fmt.Errorf("vector index scan: %w", err)
	}
	e.rids = rids
	e.pos = 0
	return nil
}

// Next returns the next tuple in the buffered scan order, and false once
// exhausted — the same bool-return pull protocol the rest of the executor
// tree uses.
func (e *VectorIndexScanExecutor) Next() (Tuple, core.RID, bool, error) {
	if e.pos >= len(e.rids) {
		return Tuple{}, core.RID{}, false, nil
	}
	rid := e.rids[e.pos]
	e.pos++

	tuple, err := e.source.Fetch(rid)
	if err != nil {
		return Tuple{}, core.RID{}, false, fmt.Errorf("vector index scan: fetch %+v: %w", rid, err)
	}
	return tuple, rid, true, nil
}
