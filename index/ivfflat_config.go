package index

import (
	"fmt"

	"github.com/lmika/vectorbase/core"
)

// IVFFlatConfig holds construction options for an IVFFlat index. Both
// fields are required — lists/probe_lists have no default, just as none
// of HNSWConfig's options do.
type IVFFlatConfig struct {
	// Lists is the number of centroids (clusters) the index partitions
	// its data into.
	Lists int

	// ProbeLists is the number of clusters probed per query. Must satisfy
	// 1 <= ProbeLists <= Lists.
	ProbeLists int
}

// Validate checks that required options were supplied and are sane.
func (c IVFFlatConfig) Validate() error {
	if c.Lists <= 0 {
		return fmt.Errorf("ivfflat: lists: %w", core.ErrMissingOption)
	}
	if c.ProbeLists <= 0 {
		return fmt.Errorf("ivfflat: probe_lists: %w", core.ErrMissingOption)
	}
	if c.ProbeLists > c.Lists {
		return fmt.Errorf("ivfflat: probe_lists (%d) must not exceed lists (%d)", c.ProbeLists, c.Lists)
	}
	return nil
}

// IVFFlatOptionsFromPairs builds an IVFFlatConfig from the (name, integer) option
// pairs the SQL surface passes at CREATE INDEX time. Missing required
// options are reported by Validate, not here, so callers get a single
// consistent error path.
func IVFFlatOptionsFromPairs(options map[string]int) IVFFlatConfig {
	cfg := IVFFlatConfig{}
	if v, ok := options["lists"]; ok {
		cfg.Lists = v
	}
	if v, ok := options["probe_lists"]; ok {
		cfg.ProbeLists = v
	}
	return cfg
}
