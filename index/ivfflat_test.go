package index

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lmika/vectorbase/core"
)

func mustIVF(t *testing.T, metric core.Metric, cfg IVFFlatConfig, seed int64) *IVFFlatIndex {
	t.Helper()
	idx, err := NewIVFFlatIndex(metric, cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewIVFFlatIndex: %v", err)
	}
	return idx
}

// TestIVFFlatExactRecallL2 checks that with probe_lists equal to lists
// every centroid is probed, so the result must match exact L2 nearest
// neighbors regardless of how clustering assigned buckets.
func TestIVFFlatExactRecallL2(t *testing.T) {
	idx := mustIVF(t, core.L2, IVFFlatConfig{Lists: 2, ProbeLists: 2}, 7)

	r0, r1, r2, r3 := core.RID{PageID: 0}, core.RID{PageID: 1}, core.RID{PageID: 2}, core.RID{PageID: 3}
	data := []core.Entry{
		{Vector: core.Vector{1, 0}, RID: r0},
		{Vector: core.Vector{0, 1}, RID: r1},
		{Vector: core.Vector{1, 1}, RID: r2},
		{Vector: core.Vector{5, 5}, RID: r3},
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := idx.Scan(core.Vector{0.9, 0.1}, 2)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []core.RID{r0, r2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Scan = %v, want %v", got, want)
	}
}

// TestIVFFlatInnerProductConvention checks the negated-dot-product sign
// convention: the "closest" result under InnerProduct is the highest raw
// dot product, not the lowest.
func TestIVFFlatInnerProductConvention(t *testing.T) {
	idx := mustIVF(t, core.InnerProduct, IVFFlatConfig{Lists: 2, ProbeLists: 2}, 7)

	r0, r1, r2, r3 := core.RID{PageID: 0}, core.RID{PageID: 1}, core.RID{PageID: 2}, core.RID{PageID: 3}
	data := []core.Entry{
		{Vector: core.Vector{1, 0}, RID: r0},
		{Vector: core.Vector{0, 1}, RID: r1},
		{Vector: core.Vector{1, 1}, RID: r2},
		{Vector: core.Vector{5, 5}, RID: r3},
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := idx.Scan(core.Vector{1, 1}, 1)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 || got[0] != r3 {
		t.Errorf("Scan = %v, want [%v]", got, r3)
	}
}

func TestIVFFlatBuildTooLittleDataIsEmpty(t *testing.T) {
	idx := mustIVF(t, core.L2, IVFFlatConfig{Lists: 4, ProbeLists: 2}, 1)

	data := []core.Entry{
		{Vector: core.Vector{1, 0}, RID: core.RID{PageID: 0}},
		{Vector: core.Vector{0, 1}, RID: core.RID{PageID: 1}},
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := idx.Scan(core.Vector{1, 1}, 5)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan on under-built index = %v, want empty", got)
	}
}

func TestIVFFlatScanLimitZero(t *testing.T) {
	idx := mustIVF(t, core.L2, IVFFlatConfig{Lists: 1, ProbeLists: 1}, 1)
	data := []core.Entry{
		{Vector: core.Vector{1, 0}, RID: core.RID{PageID: 0}},
		{Vector: core.Vector{0, 1}, RID: core.RID{PageID: 1}},
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, err := idx.Scan(core.Vector{1, 1}, 0)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan with limit=0 = %v, want empty", got)
	}
}

func TestIVFFlatBuildPreservesAllRIDs(t *testing.T) {
	idx := mustIVF(t, core.L2, IVFFlatConfig{Lists: 3, ProbeLists: 3}, 3)

	rng := rand.New(rand.NewSource(9))
	data := make([]core.Entry, 50)
	for i := range data {
		data[i] = core.Entry{
			Vector: core.Vector{rng.Float64() * 10, rng.Float64() * 10},
			RID:    core.RID{PageID: int32(i)},
		}
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[core.RID]int)
	for _, b := range idx.buckets {
		for _, e := range b.entries {
			seen[e.RID]++
		}
	}
	if len(seen) != len(data) {
		t.Fatalf("bucket union has %d distinct RIDs, want %d", len(seen), len(data))
	}
	for rid, count := range seen {
		if count != 1 {
			t.Errorf("RID %v appears %d times across buckets, want 1", rid, count)
		}
	}
}

func TestIVFFlatMissingOptions(t *testing.T) {
	_, err := NewIVFFlatIndex(core.L2, IVFFlatConfig{Lists: 0, ProbeLists: 1}, nil)
	if !errors.Is(err, core.ErrMissingOption) {
		t.Errorf("expected ErrMissingOption, got %v", err)
	}

	_, err = NewIVFFlatIndex(core.L2, IVFFlatConfig{Lists: 4, ProbeLists: 0}, nil)
	if !errors.Is(err, core.ErrMissingOption) {
		t.Errorf("expected ErrMissingOption, got %v", err)
	}
}

func TestIVFFlatDimensionMismatch(t *testing.T) {
	idx := mustIVF(t, core.L2, IVFFlatConfig{Lists: 1, ProbeLists: 1}, 1)
	data := []core.Entry{
		{Vector: core.Vector{1, 0}, RID: core.RID{PageID: 0}},
		{Vector: core.Vector{0, 1}, RID: core.RID{PageID: 1}},
	}
	if err := idx.Build(data); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := idx.Scan(core.Vector{1, 2, 3}, 1); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if err := idx.Insert(core.Vector{1, 2, 3}, core.RID{PageID: 9}); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
