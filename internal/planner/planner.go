package planner

import (
	"fmt"

	"github.com/lyradb/lyracore/internal/catalog"
	"github.com/lyradb/lyracore/internal/config"
	"github.com/lyradb/lyracore/internal/expr"
	"github.com/lyradb/lyracore/internal/key"
	"github.com/lyradb/lyracore/internal/rewriter"
	"golang.org/x/exp/slices"
)

// Strategy names the access path an OptimizationPlan commits to.
type Strategy string

const (
	StrategyFullScan          Strategy = "FULL_SCAN"
	StrategyIndexSingle       Strategy = "INDEX_SINGLE"
	StrategyIndexRange        Strategy = "INDEX_RANGE"
	StrategyIndexComposite    Strategy = "INDEX_COMPOSITE"
	StrategyIndexIntersection Strategy = "INDEX_INTERSECTION"
	StrategyIndexUnion        Strategy = "INDEX_UNION"
	StrategyHybrid            Strategy = "HYBRID"
	// StrategyNoMatch is chosen when the rewriter proved the predicate
	// a contradiction (expr.False): the result is known to be empty
	// without examining a single row.
	StrategyNoMatch Strategy = "NO_MATCH"
)

// StepKind names one node of the execution step tree the executor
// walks to carry out a plan.
type StepKind string

const (
	StepFullScan        StepKind = "full_scan"
	StepLookup          StepKind = "lookup"
	StepRange           StepKind = "range"
	StepCompositeLookup StepKind = "composite_lookup"
	StepIntersect       StepKind = "intersect"
	StepUnion           StepKind = "union"
	// StepNone carries out a StrategyNoMatch plan: it always yields an
	// empty row-id set without touching the registry or the scanner.
	StepNone StepKind = "none"
)

// Step is one node of the plan the executor carries out: a leaf index
// probe, or a set-algebra combination of child steps.
type Step struct {
	Kind     StepKind
	Index    string
	Column   string
	Op       expr.Operator
	Value    string
	Min, Max string
	Columns  []string // composite lookup: column names in index order
	Values   []string // composite lookup: matching values in index order
	Children []Step
}

// OptimizationPlan is the planner's decision, handed to the executor
// (C8) to carry out and to the caller for diagnostics.
type OptimizationPlan struct {
	Table             string
	Strategy          Strategy
	IndexesUsed       []string
	EstimatedSpeedup  float64
	EstimatedRows     int
	ExecutionPlanText string
	Step              Step
}

// IndexRecommendation is an advisory suggestion the planner did not
// act on (no matching index exists yet) but estimates would pay off,
// surfaced by Recommend for offline index design.
type IndexRecommendation struct {
	Table            string
	Columns          []string
	Reason           string
	EstimatedBenefit float64
}

// Plan chooses an access path for predicate e against a table with
// rowCount rows, given the indexes currently registered for it. e is
// expected to already be normalized (internal/rewriter.Normalize); Plan
// does not sink negations or reorder AND chains itself.
func Plan(table string, rowCount int, e expr.Expr, reg *catalog.Registry, cfg config.Config) OptimizationPlan {
	if _, ok := e.(expr.False); ok {
		return noMatchPlan(table, rowCount)
	}

	singles, composites := reg.IndexesForTable(table)
	fullScanCost := FullScanCost(rowCount)
	fallback := fullScanPlan(table, rowCount, fullScanCost)

	if rowCount < cfg.MinTableSize {
		return fallback
	}

	cand, ok := planExpr(e, rowCount, singles, composites)
	if !ok {
		return fallback
	}

	speedup := Speedup(fullScanCost, cand.cost)
	sel := CombinedSelectivity(e)
	if sel > cfg.SelectivityThreshold || speedup < cfg.MinSpeedup {
		return fallback
	}

	plan := OptimizationPlan{
		Table:            table,
		Strategy:         cand.strategy,
		IndexesUsed:      cand.indexes,
		EstimatedSpeedup: speedup,
		EstimatedRows:    cand.rows,
		Step:             cand.step,
	}
	plan.ExecutionPlanText = renderPlan(plan, rowCount, sel)
	return plan
}

// noMatchPlan is the plan Plan returns for a predicate the rewriter
// has proven is a contradiction: no rows can match, so there is
// nothing to scan or probe. Speedup is reported as rowCount (or 1,
// whichever is larger) since the alternative it beats is a full scan
// of rowCount rows.
func noMatchPlan(table string, rowCount int) OptimizationPlan {
	speedup := float64(rowCount)
	if speedup < 1 {
		speedup = 1
	}
	p := OptimizationPlan{
		Table:            table,
		Strategy:         StrategyNoMatch,
		EstimatedSpeedup: speedup,
		EstimatedRows:    0,
		Step:             Step{Kind: StepNone},
	}
	p.ExecutionPlanText = "NO_MATCH rows=0 (predicate is a contradiction)"
	return p
}

func fullScanPlan(table string, rowCount int, cost float64) OptimizationPlan {
	p := OptimizationPlan{
		Table:            table,
		Strategy:         StrategyFullScan,
		EstimatedSpeedup: 1.0,
		EstimatedRows:    rowCount,
		Step:             Step{Kind: StepFullScan},
	}
	p.ExecutionPlanText = fmt.Sprintf("FULL_SCAN rows=%d cost=%.1f", rowCount, cost)
	return p
}

// candidate is the planner's internal working result before it's
// checked against the selectivity/speedup thresholds.
type candidate struct {
	strategy Strategy
	indexes  []string
	rows     int
	cost     float64
	step     Step
}

func planExpr(e expr.Expr, rowCount int, singles []catalog.SingleIndexInfo, composites []catalog.CompositeIndexInfo) (candidate, bool) {
	switch {
	case isAndOnly(e):
		return planAndChain(flatten(e, isAndNode), rowCount, singles, composites)
	case isOrOnly(e):
		return planOrChain(flatten(e, isOrNode), rowCount, singles, composites)
	default:
		return planHybrid(e, rowCount, singles, composites)
	}
}

func isAndNode(e expr.Expr) (expr.Expr, expr.Expr, bool) {
	if a, ok := e.(expr.And); ok {
		return a.L, a.R, true
	}
	return nil, nil, false
}

func isOrNode(e expr.Expr) (expr.Expr, expr.Expr, bool) {
	if o, ok := e.(expr.Or); ok {
		return o.L, o.R, true
	}
	return nil, nil, false
}

func flatten(e expr.Expr, split func(expr.Expr) (expr.Expr, expr.Expr, bool)) []expr.Leaf {
	l, r, ok := split(e)
	if !ok {
		leaf, isLeaf := e.(expr.Leaf)
		if !isLeaf {
			return nil
		}
		return []expr.Leaf{leaf}
	}
	return append(flatten(l, split), flatten(r, split)...)
}

// isAndOnly reports whether e's tree consists solely of And nodes over
// leaves (no Or, no Not — Not is expected gone after normalization).
func isAndOnly(e expr.Expr) bool {
	switch t := e.(type) {
	case expr.Leaf:
		return true
	case expr.And:
		return isAndOnly(t.L) && isAndOnly(t.R)
	default:
		return false
	}
}

func isOrOnly(e expr.Expr) bool {
	switch t := e.(type) {
	case expr.Leaf:
		return true
	case expr.Or:
		return isOrOnly(t.L) && isOrOnly(t.R)
	default:
		return false
	}
}

func singleIndexFor(column string, singles []catalog.SingleIndexInfo) (catalog.SingleIndexInfo, bool) {
	for _, s := range singles {
		if s.Column == column {
			return s, true
		}
	}
	return catalog.SingleIndexInfo{}, false
}

// compositeIndexFor finds a composite index every one of whose columns
// is matched by an EQ leaf in leaves, returning the index and the
// leaves consumed, in index-column order. A descriptor whose declared
// key isn't actually composite (key.Composite.IsComposite reports
// false — an index registered over a single column) is skipped here;
// it belongs to singleIndexFor instead.
func compositeIndexFor(leaves []expr.Leaf, composites []catalog.CompositeIndexInfo) (catalog.CompositeIndexInfo, []expr.Leaf, bool) {
	for _, c := range composites {
		if !key.New(c.Columns...).IsComposite() {
			continue
		}
		matched := make([]expr.Leaf, 0, len(c.Columns))
		ok := true
		for _, col := range c.Columns {
			found := false
			for _, l := range leaves {
				if l.Pred.Column == col && l.Pred.Op == expr.EQ {
					matched = append(matched, l)
					found = true
					break
				}
			}
			if !found {
				ok = false
				break
			}
		}
		if ok {
			return c, matched, true
		}
	}
	return catalog.CompositeIndexInfo{}, nil, false
}

func planAndChain(leaves []expr.Leaf, rowCount int, singles []catalog.SingleIndexInfo, composites []catalog.CompositeIndexInfo) (candidate, bool) {
	if len(leaves) == 0 {
		return candidate{}, false
	}

	if c, matched, ok := compositeIndexFor(leaves, composites); ok {
		values := make([]string, len(matched))
		columns := make([]string, len(matched))
		for i, l := range matched {
			columns[i] = l.Pred.Column
			values[i] = l.Pred.Value
		}
		rows := estimateRows(rowCount, combinedLeafSelectivity(leaves))
		return candidate{
			strategy: StrategyIndexComposite,
			indexes:  []string{c.Name},
			rows:     rows,
			cost:     CompositeLookupCost(rowCount, rows),
			step:     Step{Kind: StepCompositeLookup, Index: c.Name, Columns: columns, Values: values},
		}, true
	}

	if len(leaves) == 1 {
		return planSingleLeaf(leaves[0], rowCount, singles)
	}

	var steps []Step
	var indexes []string
	var cost float64
	minRows := rowCount
	anyIndexed := false
	for _, l := range leaves {
		c, ok := planSingleLeaf(l, rowCount, singles)
		if !ok {
			continue
		}
		anyIndexed = true
		steps = append(steps, c.step)
		indexes = append(indexes, c.indexes...)
		cost += c.cost
		if c.rows < minRows {
			minRows = c.rows
		}
	}
	if !anyIndexed {
		return candidate{}, false
	}
	cost += SetCombineCost(minRows)
	return candidate{
		strategy: StrategyIndexIntersection,
		indexes:  dedupe(indexes),
		rows:     minRows,
		cost:     cost,
		step:     Step{Kind: StepIntersect, Children: steps},
	}, true
}

func planOrChain(leaves []expr.Leaf, rowCount int, singles []catalog.SingleIndexInfo, composites []catalog.CompositeIndexInfo) (candidate, bool) {
	var steps []Step
	var indexes []string
	var cost float64
	totalRows := 0
	for _, l := range leaves {
		c, ok := planSingleLeaf(l, rowCount, singles)
		if !ok {
			// any un-indexed disjunct forces a full scan: the union can't
			// exclude rows matching that disjunct without touching every row.
			return candidate{}, false
		}
		steps = append(steps, c.step)
		indexes = append(indexes, c.indexes...)
		cost += c.cost
		totalRows += c.rows
	}
	cost += SetCombineCost(totalRows)
	if totalRows > rowCount {
		totalRows = rowCount
	}
	return candidate{
		strategy: StrategyIndexUnion,
		indexes:  dedupe(indexes),
		rows:     totalRows,
		cost:     cost,
		step:     Step{Kind: StepUnion, Children: steps},
	}, true
}

// planHybrid handles a mixed AND/OR tree by distributing it into a
// union of AND-chain disjuncts (a restricted DNF expansion good enough
// for the two-level trees the rewriter produces) and planning each
// disjunct independently; if any disjunct can't be served by an index
// the whole plan falls back to a full scan, since the executor must
// still visit every row to exclude that disjunct.
func planHybrid(e expr.Expr, rowCount int, singles []catalog.SingleIndexInfo, composites []catalog.CompositeIndexInfo) (candidate, bool) {
	terms := toDNF(e)
	if len(terms) < 2 {
		return candidate{}, false
	}

	var steps []Step
	var indexes []string
	var cost float64
	totalRows := 0
	for _, term := range terms {
		c, ok := planAndChain(term, rowCount, singles, composites)
		if !ok {
			return candidate{}, false
		}
		steps = append(steps, c.step)
		indexes = append(indexes, c.indexes...)
		cost += c.cost
		totalRows += c.rows
	}
	cost += SetCombineCost(totalRows)
	if totalRows > rowCount {
		totalRows = rowCount
	}
	return candidate{
		strategy: StrategyHybrid,
		indexes:  dedupe(indexes),
		rows:     totalRows,
		cost:     cost,
		step:     Step{Kind: StepUnion, Children: steps},
	}, true
}

// toDNF distributes AND over OR to produce a list of AND-chains (each
// a flat slice of leaves) whose union is equivalent to e. The
// distribution itself is internal/rewriter.ToDNF (§4.4 step 3); this
// just flattens the resulting Or-of-Ands tree into the leaf-slice shape
// planHybrid works with.
func toDNF(e expr.Expr) [][]expr.Leaf {
	return flattenDNF(rewriter.ToDNF(e))
}

func flattenDNF(e expr.Expr) [][]expr.Leaf {
	switch t := e.(type) {
	case expr.Leaf:
		return [][]expr.Leaf{{t}}
	case expr.Or:
		return append(flattenDNF(t.L), flattenDNF(t.R)...)
	case expr.And:
		return [][]expr.Leaf{flattenAndToLeaves(t)}
	default:
		return nil
	}
}

// flattenAndToLeaves collects a chain of And nodes (as ToDNF produces,
// with only Leaf operands once NOT has been sunk and no OR remains
// beneath it) into a flat slice.
func flattenAndToLeaves(e expr.Expr) []expr.Leaf {
	and, ok := e.(expr.And)
	if !ok {
		if l, ok := e.(expr.Leaf); ok {
			return []expr.Leaf{l}
		}
		return nil
	}
	return append(flattenAndToLeaves(and.L), flattenAndToLeaves(and.R)...)
}

func planSingleLeaf(l expr.Leaf, rowCount int, singles []catalog.SingleIndexInfo) (candidate, bool) {
	idx, ok := singleIndexFor(l.Pred.Column, singles)
	if !ok {
		return candidate{}, false
	}
	sel := defaultSelectivity(l.Pred)
	rows := estimateRows(rowCount, sel)

	if l.Pred.Op.IsRange() {
		min, max := rangeBounds(l.Pred)
		return candidate{
			strategy: StrategyIndexRange,
			indexes:  []string{idx.Name},
			rows:     rows,
			cost:     RangeCost(rowCount, sel),
			step:     Step{Kind: StepRange, Index: idx.Name, Column: l.Pred.Column, Min: min, Max: max},
		}, true
	}
	if l.Pred.Op == expr.EQ {
		return candidate{
			strategy: StrategyIndexSingle,
			indexes:  []string{idx.Name},
			rows:     rows,
			cost:     SingleLookupCost(rowCount, rows),
			step:     Step{Kind: StepLookup, Index: idx.Name, Column: l.Pred.Column, Op: expr.EQ, Value: l.Pred.Value},
		}, true
	}
	// IN, NEQ, NOTIN: too unselective or set-shaped for this B-tree's
	// point/range API to serve directly; leave to a full scan.
	return candidate{}, false
}

// rangeBounds translates a single range predicate into the inclusive
// [min, max] probe the B-tree's RangeSearch expects, using the
// composite key's unbound-sentinel convention so an open end of the
// range (e.g. "< 18" has no lower bound) still probes correctly.
func rangeBounds(p expr.Predicate) (string, string) {
	const (
		unbound     = ""
		maxSentinel = "\xFF\xFF\xFF\xFF"
	)
	switch p.Op {
	case expr.LT, expr.LTE:
		return unbound, p.Value
	case expr.GT, expr.GTE:
		return p.Value, maxSentinel
	default:
		return p.Value, p.Value
	}
}

func combinedLeafSelectivity(leaves []expr.Leaf) float64 {
	s := 1.0
	for _, l := range leaves {
		s *= defaultSelectivity(l.Pred)
	}
	return s
}

func estimateRows(rowCount int, sel float64) int {
	rows := int(sel * float64(rowCount))
	if rows < 1 {
		rows = 1
	}
	if rows > rowCount {
		rows = rowCount
	}
	return rows
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

func renderPlan(p OptimizationPlan, rowCount int, sel float64) string {
	return fmt.Sprintf("%s indexes=%v rows=%d/%d selectivity=%.4f speedup=%.2fx",
		p.Strategy, p.IndexesUsed, p.EstimatedRows, rowCount, sel, p.EstimatedSpeedup)
}

// Recommend suggests indexes that would let predicates against table
// be served by an index path when none currently exists, grounded in
// lyradb's phase7_advanced_optimizer.h get_recommendations: any leaf
// predicate whose column has no single or composite index covering it
// is surfaced, ranked by how selective (and therefore how valuable to
// index) it's expected to be.
func Recommend(table string, e expr.Expr, reg *catalog.Registry) []IndexRecommendation {
	singles, composites := reg.IndexesForTable(table)
	seen := map[string]bool{}
	var recs []IndexRecommendation
	for _, l := range collectLeaves(e) {
		if _, ok := singleIndexFor(l.Pred.Column, singles); ok {
			continue
		}
		if coveredByComposite(l.Pred.Column, composites) {
			continue
		}
		if seen[l.Pred.Column] {
			continue
		}
		seen[l.Pred.Column] = true
		sel := defaultSelectivity(l.Pred)
		recs = append(recs, IndexRecommendation{
			Table:            table,
			Columns:          []string{l.Pred.Column},
			Reason:           fmt.Sprintf("column %q filtered with %s but has no index", l.Pred.Column, l.Pred.Op),
			EstimatedBenefit: 1 - sel,
		})
	}
	slices.SortFunc(recs, func(a, b IndexRecommendation) int {
		switch {
		case a.EstimatedBenefit > b.EstimatedBenefit:
			return -1
		case a.EstimatedBenefit < b.EstimatedBenefit:
			return 1
		default:
			return 0
		}
	})
	return recs
}

func coveredByComposite(column string, composites []catalog.CompositeIndexInfo) bool {
	for _, c := range composites {
		if len(c.Columns) > 0 && c.Columns[0] == column {
			return true
		}
	}
	return false
}

func collectLeaves(e expr.Expr) []expr.Leaf {
	switch t := e.(type) {
	case expr.Leaf:
		return []expr.Leaf{t}
	case expr.And:
		return append(collectLeaves(t.L), collectLeaves(t.R)...)
	case expr.Or:
		return append(collectLeaves(t.L), collectLeaves(t.R)...)
	case expr.Not:
		return collectLeaves(t.X)
	default:
		return nil
	}
}
