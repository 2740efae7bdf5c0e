package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/lmika/vectorbase/catalog"
	"github.com/lmika/vectorbase/core"
	"github.com/lmika/vectorbase/execution"
	"github.com/lmika/vectorbase/index"
	"github.com/lmika/vectorbase/optimizer"
	"github.com/lmika/vectorbase/plan"
)

// memoryTupleSource is a toy TupleSource over an in-memory map, standing
// in for a real table heap.
type memoryTupleSource struct {
	rows map[core.RID]execution.Tuple
}

func (m memoryTupleSource) Fetch(rid core.RID) (execution.Tuple, error) {
	t, ok := m.rows[rid]
	if !ok {
		return execution.Tuple{}, fmt.Errorf("rid %+v not found", rid)
	}
	return t, nil
}

func main() {
	var (
		indexType = flag.String("index", "hnsw", "index type: hnsw or ivfflat")
		numRows   = flag.Int("rows", 5000, "number of random rows to index")
		dim       = flag.Int("dim", 16, "vector dimension")
		topK      = flag.Int("k", 10, "number of nearest neighbors to return")
		seed      = flag.Int64("seed", 1, "PRNG seed")
	)
	flag.Parse()

	fmt.Println("=== vectorbase demo ===")
	fmt.Printf("index: %s, rows: %d, dim: %d, k: %d\n", *indexType, *numRows, *dim, *topK)

	log.Println("building catalog and index")
	cat := catalog.New()
	tableOID := cat.CreateTable("documents")

	rng := rand.New(rand.NewSource(*seed))
	var options map[string]int
	switch *indexType {
	case "ivfflat":
		options = map[string]int{"lists": 50, "probe_lists": 5}
	default:
		options = map[string]int{"m": 16, "ef_construction": 100, "ef_search": 50}
	}
	idx, err := index.New(index.Type(*indexType), core.L2, options, rng)
	if err != nil {
		log.Fatalf("construct index: %v", err)
	}

	source := memoryTupleSource{rows: make(map[core.RID]execution.Tuple, *numRows)}
	entries := make([]core.Entry, *numRows)
	for i := 0; i < *numRows; i++ {
		v := make(core.Vector, *dim)
		for d := 0; d < *dim; d++ {
			v[d] = rng.Float64()
		}
		rid := core.RID{PageID: int32(i)}
		entries[i] = core.Entry{Vector: v, RID: rid}
		source.rows[rid] = execution.Tuple{Values: []any{i, v}}
	}
	if err := idx.Build(entries); err != nil {
		log.Fatalf("build index: %v", err)
	}

	indexOID, err := cat.CreateIndex("documents_embedding_"+*indexType, tableOID, "embedding", index.Type(*indexType), core.L2, idx)
	if err != nil {
		log.Fatalf("register index: %v", err)
	}

	log.Println("rewriting plan through the optimizer")
	query := make(core.Vector, *dim)
	for d := 0; d < *dim; d++ {
		query[d] = rng.Float64()
	}
	logical := &plan.TopN{
		N: *topK,
		OrderBy: []plan.OrderByTerm{{
			Direction: plan.Asc,
			Expr: plan.DistanceCall{
				Metric: core.L2,
				Args: [2]plan.Expression{
					plan.ColumnRef{Column: "embedding"},
					plan.ArrayLiteral{Values: query},
				},
			},
		}},
		Input: &plan.SeqScan{Schema: []string{"id", "embedding"}, TableOID: tableOID, Table: "documents"},
	}

	optimized := optimizer.Apply(logical, cat, optimizer.MatchDefault)
	scan, ok := optimized.(*plan.VectorIndexScan)
	if !ok {
		log.Fatalf("optimizer did not rewrite the plan, got %T", optimized)
	}
	if scan.IndexOID != indexOID {
		log.Fatalf("optimizer chose unexpected index %v", scan.IndexOID)
	}

	log.Println("running the vector index scan executor")
	exec := execution.NewVectorIndexScanExecutor(scan, cat, source)
	if err := exec.Init(); err != nil {
		log.Fatalf("executor init: %v", err)
	}

	fmt.Println("results (nearest first):")
	for {
		tuple, rid, ok, err := exec.Next()
		if err != nil {
			log.Fatalf("executor next: %v", err)
		}
		if !ok {
			break
		}
		fmt.Printf("  rid=%+v row=%v\n", rid, tuple.Values[0])
	}
}
