package index

import (
	"fmt"
	"math"

	"github.com/lmika/vectorbase/core"
)

// HNSWConfig holds construction options for an HNSW index. All three
// fields are required; the degree caps M_max (upper layers) and M_max0
// (layer 0) are derived from M rather than configured independently.
type HNSWConfig struct {
	// M is the target degree: bi-directional links added per new element
	// at every layer it joins, layer 0 included.
	M int

	// EfConstruction is the candidate-set size used while building.
	EfConstruction int

	// EfSearch is the candidate-set size used while querying.
	EfSearch int
}

// MMax is the degree cap at layers above 0.
func (c HNSWConfig) MMax() int { return c.M }

// MMax0 is the degree cap at layer 0.
func (c HNSWConfig) MMax0() int { return c.M * c.M }

// mL is the level-scaling constant 1/ln(M) used in level assignment.
func (c HNSWConfig) mL() float64 { return 1.0 / math.Log(float64(c.M)) }

// Validate checks that required options were supplied.
func (c HNSWConfig) Validate() error {
	if c.M <= 0 {
		return fmt.Errorf("hnsw: m: %w", core.ErrMissingOption)
	}
	if c.EfConstruction <= 0 {
		return fmt.Errorf("hnsw: ef_construction: %w", core.ErrMissingOption)
	}
	if c.EfSearch <= 0 {
		return fmt.Errorf("hnsw: ef_search: %w", core.ErrMissingOption)
	}
	return nil
}

// HNSWOptionsFromPairs builds an HNSWConfig from the (name, integer)
// option pairs the SQL surface passes at CREATE INDEX time.
func HNSWOptionsFromPairs(options map[string]int) HNSWConfig {
	cfg := HNSWConfig{}
	if v, ok := options["m"]; ok {
		cfg.M = v
	}
	if v, ok := options["ef_construction"]; ok {
		cfg.EfConstruction = v
	}
	if v, ok := options["ef_search"]; ok {
		cfg.EfSearch = v
	}
	return cfg
}
