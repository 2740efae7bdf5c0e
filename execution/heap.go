// Package execution implements the pull-based executor contract: a plan
// node's executor exposes Init/Next, and Next is called repeatedly until
// it returns false. This mirrors the educational database's Volcano-style
// executor tree — see original_source/src/execution/seq_scan_executor.cpp.
package execution

import "github.com/lmika/vectorbase/core"

// Tuple is an opaque row payload. Column layout and decoding are owned by
// the surrounding database; this package only moves tuples by RID.
type Tuple struct {
	Values []any
}

// TupleSource fetches a tuple given its RID. The table heap that backs
// this is out of scope here: VectorIndexScanExecutor is handed one as a
// fixed external collaborator, the way SeqScanExecutor is handed a
// TableHeap/TableIterator in the original executor tree.
type TupleSource interface {
	Fetch(rid core.RID) (Tuple, error)
}
