package index

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/lmika/vectorbase/core"
)

// lloydIterations is the fixed K-means refinement budget. Iteration is a
// fixed count; there is no convergence early-exit.
const lloydIterations = 500

// bucket owns the (vector, rid) pairs assigned to one centroid outright —
// no back-pointers into a shared data table.
type bucket struct {
	entries []core.Entry
}

// IVFFlatIndex implements the inverted-file-flat ANN index: data is
// partitioned into Lists clusters by a K-means-refined set of centroids,
// and a query only scans the ProbeLists clusters nearest the query vector.
type IVFFlatIndex struct {
	mu     sync.RWMutex
	config IVFFlatConfig
	metric core.Metric
	rng    *rand.Rand

	dimension int
	built     bool

	centroids []core.Vector
	buckets   []bucket
}

// NewIVFFlatIndex creates an empty IVFFlat index. rng may be nil, in which
// case a system-entropy-seeded generator is used; tests pass a seeded one
// for reproducibility.
func NewIVFFlatIndex(metric core.Metric, config IVFFlatConfig, rng *rand.Rand) (*IVFFlatIndex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = core.NewRNG()
	}
	return &IVFFlatIndex{
		config: config,
		metric: metric,
		rng:    rng,
	}, nil
}

func (idx *IVFFlatIndex) Dimension() int   { return idx.dimension }
func (idx *IVFFlatIndex) Metric() core.Metric { return idx.metric }

// Size returns the number of (vector, rid) pairs currently held across all
// buckets.
func (idx *IVFFlatIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := 0
	for _, b := range idx.buckets {
		n += len(b.entries)
	}
	return n
}

// Build clusters data into Lists buckets via random initialization and
// fixed-iteration Lloyd refinement, then assigns every entry to its
// nearest final centroid. If data has fewer entries than Lists, the build
// is a silent no-op and the index remains empty.
func (idx *IVFFlatIndex) Build(data []core.Entry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(data) == 0 {
		return nil
	}

	dim := len(data[0].Vector)
	for _, e := range data {
		if err := core.ValidateVectorDimension(e.Vector, dim); err != nil {
			return fmt.Errorf("ivfflat build: %w", err)
		}
	}
	idx.dimension = dim

	if len(data) < idx.config.Lists {
		return nil
	}

	idx.centroids = idx.randomSample(data, idx.config.Lists)

	for iter := 0; iter < lloydIterations; iter++ {
		idx.centroids = idx.refineCentroids(data, idx.centroids)
	}

	idx.buckets = make([]bucket, idx.config.Lists)
	for _, e := range data {
		c := idx.nearestCentroid(e.Vector)
		idx.buckets[c].entries = append(idx.buckets[c].entries, e)
	}
	idx.built = true
	return nil
}

// randomSample picks Lists vectors from data without replacement via a
// Fisher-Yates shuffle of indices, using the index's own PRNG so builds
// are reproducible under a fixed seed.
func (idx *IVFFlatIndex) randomSample(data []core.Entry, n int) []core.Vector {
	indices := make([]int, len(data))
	for i := range indices {
		indices[i] = i
	}
	idx.rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	sample := make([]core.Vector, n)
	for i := 0; i < n; i++ {
		// Copy so later mutation of the centroid doesn't alias caller data.
		v := make(core.Vector, len(data[indices[i]].Vector))
		copy(v, data[indices[i]].Vector)
		sample[i] = v
	}
	return sample
}

// refineCentroids performs one Lloyd iteration: reassign every point to
// its nearest current centroid, then recompute each centroid as the mean
// of its assigned points. A centroid that attracts no points retains its
// previous value — never divide by zero.
func (idx *IVFFlatIndex) refineCentroids(data []core.Entry, centroids []core.Vector) []core.Vector {
	sums := make([]core.Vector, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make(core.Vector, idx.dimension)
	}

	for _, e := range data {
		c := idx.nearestCentroidAmong(e.Vector, centroids)
		for d := 0; d < idx.dimension; d++ {
			sums[c][d] += e.Vector[d]
		}
		counts[c]++
	}

	next := make([]core.Vector, len(centroids))
	for i := range centroids {
		if counts[i] == 0 {
			next[i] = centroids[i]
			continue
		}
		mean := make(core.Vector, idx.dimension)
		for d := 0; d < idx.dimension; d++ {
			mean[d] = sums[i][d] / float64(counts[i])
		}
		next[i] = mean
	}
	return next
}

// nearestCentroid returns the index of the centroid closest to vec under
// the index's metric.
func (idx *IVFFlatIndex) nearestCentroid(vec core.Vector) int {
	return idx.nearestCentroidAmong(vec, idx.centroids)
}

func (idx *IVFFlatIndex) nearestCentroidAmong(vec core.Vector, centroids []core.Vector) int {
	best := -1
	var bestDist float64
	for i, c := range centroids {
		d, err := core.Distance(vec, c, idx.metric)
		if err != nil {
			continue
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Insert assigns vector to the bucket of its nearest centroid. No
// rebalancing or re-clustering happens. Insert is only meaningful after a
// successful Build (i.e. once the index has centroids); the index is
// empty until build is called.
func (idx *IVFFlatIndex) Insert(vector core.Vector, rid core.RID) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dimension == 0 {
		idx.dimension = len(vector)
	}
	if err := core.ValidateVectorDimension(vector, idx.dimension); err != nil {
		return fmt.Errorf("ivfflat insert: %w", err)
	}
	if !idx.built {
		// No centroids yet: nothing to assign into. Mirrors the build
		// no-op semantics — the index stays empty until Build succeeds.
		return nil
	}

	c := idx.nearestCentroid(vector)
	idx.buckets[c].entries = append(idx.buckets[c].entries, core.Entry{Vector: vector, RID: rid})
	return nil
}

type scoredRID struct {
	dist float64
	rid  core.RID
}

// Scan ranks centroids by distance to base, probes the ProbeLists closest
// ones, and returns the limit closest entries among their union, stably
// sorted by ascending distance.
func (idx *IVFFlatIndex) Scan(base core.Vector, limit int) ([]core.RID, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if limit <= 0 || !idx.built || len(idx.centroids) == 0 {
		return []core.RID{}, nil
	}
	if idx.dimension != 0 {
		if err := core.ValidateVectorDimension(base, idx.dimension); err != nil {
			return nil, fmt.Errorf("ivfflat scan: %w", err)
		}
	}

	probe := idx.config.ProbeLists
	if probe > len(idx.centroids) {
		probe = len(idx.centroids)
	}

	type centroidDist struct {
		dist float64
		idx  int
	}
	centroidDists := make([]centroidDist, 0, len(idx.centroids))
	for i, c := range idx.centroids {
		d, err := core.Distance(base, c, idx.metric)
		if err != nil {
			return nil, fmt.Errorf("ivfflat scan: %w", err)
		}
		centroidDists = append(centroidDists, centroidDist{dist: d, idx: i})
	}
	sort.SliceStable(centroidDists, func(i, j int) bool {
		return centroidDists[i].dist < centroidDists[j].dist
	})

	var candidates []scoredRID
	for _, cd := range centroidDists[:probe] {
		for _, e := range idx.buckets[cd.idx].entries {
			d, err := core.Distance(base, e.Vector, idx.metric)
			if err != nil {
				return nil, fmt.Errorf("ivfflat scan: %w", err)
			}
			candidates = append(candidates, scoredRID{dist: d, rid: e.RID})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	result := make([]core.RID, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].rid
	}
	return result, nil
}
