// Package config holds the tunable thresholds that drive the cost model
// and access-path planner. Values are threaded through an explicit
// Config struct rather than package-level globals, per the "avoid
// hidden globals" design note.
package config

// Config bundles the planner/executor thresholds and the B-tree
// branching factor. Zero values are not meaningful; use Default to get
// a populated instance, then override individual fields.
type Config struct {
	// MinTableSize is the smallest row count for which an index path is
	// ever preferred over a full scan.
	MinTableSize int
	// SelectivityThreshold is the combined-selectivity ceiling above
	// which a single-predicate index path is not worth taking.
	SelectivityThreshold float64
	// MinSpeedup is the minimum estimated speedup over a full scan
	// required to prefer an indexed path.
	MinSpeedup float64
	// BranchingFactor is the B-tree minimum degree t; nodes hold at
	// most 2t-1 keys and at least t-1 (except the root).
	BranchingFactor int
}

// Default returns the thresholds named in the spec: MIN_TABLE_SIZE=1000,
// SELECTIVITY_THRESHOLD=0.5, MIN_SPEEDUP=1.3, branching factor t=4.
func Default() Config {
	return Config{
		MinTableSize:         1000,
		SelectivityThreshold: 0.5,
		MinSpeedup:           1.3,
		BranchingFactor:      4,
	}
}
