// Package planner implements the selectivity & cost model (C6) and the
// access-path planner (C7): given a normalized predicate tree and the
// set of indexes registered for a table, it chooses among full scan,
// single-predicate index lookup/range, composite index lookup,
// index intersection/union, or a hybrid per-disjunct plan, estimating
// the speedup each strategy buys over a full scan. Grounded in
// lyradb's phase7_advanced_optimizer.h (SelectivityEstimator,
// CostModel, AccessPathPlanner) and written in the shape of chai's
// internal/planner/optimizer.go: a handful of named decision steps
// applied in a fixed order, each returning early once it commits to a
// strategy.
package planner

import (
	"math"

	"github.com/lyradb/lyracore/internal/expr"
)

// defaultSelectivity estimates the fraction of rows a single leaf
// predicate is expected to match, using the fixed per-operator
// defaults named in the spec. A real deployment would substitute
// histogram-based estimates; this core has no statistics store, so it
// relies on the same flat defaults the reference implementation uses.
func defaultSelectivity(p expr.Predicate) float64 {
	switch p.Op {
	case expr.EQ:
		return 0.01
	case expr.LT, expr.GT:
		return 0.25
	case expr.LTE, expr.GTE:
		return 0.30
	case expr.IN:
		return 0.10
	case expr.NEQ, expr.NOTIN:
		return 0.80
	default:
		return 1.0
	}
}

// Selectivity exposes defaultSelectivity for callers outside this
// package (internal/rewriter's AND-chain reordering, in particular)
// that need a single leaf predicate's estimated match fraction without
// depending on the rest of the cost model.
func Selectivity(p expr.Predicate) float64 {
	return defaultSelectivity(p)
}

// CombinedSelectivity estimates the fraction of rows e is expected to
// match: a Leaf uses defaultSelectivity; an And combines its operands
// as an independent-events product; an Or combines them as
// 1 - product(1 - s_i), the probability at least one matches; a Not
// is expected to already be sunk to its leaf by internal/rewriter, so
// it falls back to estimating its operand and complementing.
func CombinedSelectivity(e expr.Expr) float64 {
	switch t := e.(type) {
	case expr.Leaf:
		return defaultSelectivity(t.Pred)
	case expr.And:
		return CombinedSelectivity(t.L) * CombinedSelectivity(t.R)
	case expr.Or:
		return 1 - (1-CombinedSelectivity(t.L))*(1-CombinedSelectivity(t.R))
	case expr.Not:
		return 1 - CombinedSelectivity(t.X)
	default:
		return 1.0
	}
}

// log2 guards against log2(0) for an empty table.
func log2(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log2(float64(n))
}

// FullScanCost is the cost of scanning every row of an N-row table.
func FullScanCost(n int) float64 {
	return float64(n)
}

// SingleLookupCost estimates the cost of an exact-match B-tree lookup
// returning k rows out of an N-row table: O(log N) to descend the tree
// plus O(k) to collect matches.
func SingleLookupCost(n, k int) float64 {
	return log2(n) + float64(k)
}

// RangeCost estimates the cost of a range scan over an N-row table
// expected to match a fraction s of rows: O(log N) to find the lower
// bound plus O(s*N) to walk the matching leaves.
func RangeCost(n int, s float64) float64 {
	return log2(n) + s*float64(n)
}

// CompositeLookupCost estimates the cost of a composite-index lookup
// returning k rows, identical in shape to SingleLookupCost since both
// walk one B-tree.
func CompositeLookupCost(n, k int) float64 {
	return log2(n) + float64(k)
}

// SetCombineCost estimates the additional cost of intersecting or
// unioning leaf results whose sizes are given by sizes, proportional
// to the total number of row IDs touched.
func SetCombineCost(sizes ...int) float64 {
	total := 0
	for _, s := range sizes {
		total += s
	}
	return float64(total)
}

// Speedup returns fullScanCost / candidateCost, floored at a tiny
// positive number so a zero-cost candidate never divides by zero and
// a plan is never reported as an infinite speedup.
func Speedup(fullScanCost, candidateCost float64) float64 {
	if candidateCost <= 0 {
		candidateCost = 0.0001
	}
	return fullScanCost / candidateCost
}
