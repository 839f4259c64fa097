// Package executor implements the index executor (C8): it walks an
// OptimizationPlan's step tree, performing the leaf lookups/range
// scans the planner chose and combining their row-id sets with the
// set algebra in internal/rowid, cooperatively honoring context
// cancellation and falling back to a full table scan if a step fails
// for a reason other than cancellation. Grounded in lyradb's
// index_executor.h (execute_lookup, execute_range, intersect_sets,
// union_sets) and written in chai's internal/stream idiom of a small
// operator tree walked by a single Execute entry point, with
// independent branches evaluated concurrently via
// golang.org/x/sync/errgroup the way SharedCode-sop's worker pools do.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lyradb/lyracore/internal/catalog"
	"github.com/lyradb/lyracore/internal/diag"
	"github.com/lyradb/lyracore/internal/key"
	"github.com/lyradb/lyracore/internal/planner"
	"github.com/lyradb/lyracore/internal/rowid"
	"golang.org/x/sync/errgroup"
)

// RowScanner is the external collaborator (§6) that can enumerate
// every row ID of a table; the executor calls it for StepFullScan and
// as the fallback path when an indexed step fails for a non-fatal
// reason that still leaves the query answerable.
type RowScanner interface {
	ScanIDs(ctx context.Context, table string) ([]rowid.ID, error)
}

// State names a phase of the executor's run, logged for diagnostics
// and reported back in Result for callers that want to know how far a
// query got before it failed.
type State string

const (
	StatePlanning        State = "planning"
	StateExecutingLeaves State = "executing_leaves"
	StateCombiningSets   State = "combining_sets"
	StateMaterialising   State = "materialising"
	StateDone            State = "done"
)

// Result is one query's execution outcome.
type Result struct {
	RowIDs       []rowid.ID
	RowsExamined int
	Elapsed      time.Duration
	Outcome      string // "ok", "full_scan_fallback", "empty"
}

// Stats is a cumulative snapshot of everything an Executor has run,
// a supplemented feature letting an operator monitor fallback rate.
type Stats struct {
	QueriesExecuted   int
	FullScanFallbacks int
	TotalRowsExamined int
}

// Executor carries out OptimizationPlans. It holds no per-query state
// between calls; Stats accumulates across the lifetime of the value.
type Executor struct {
	log *diag.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates an Executor that logs through log (nil discards).
func New(log *diag.Logger) *Executor {
	return &Executor{log: log}
}

// Stats returns a snapshot of the executor's cumulative counters.
func (ex *Executor) Stats() Stats {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.stats
}

// Execute carries out plan against reg, using scanner to materialize
// a full scan when the plan calls for one or when an indexed step
// fails for a reason other than ctx cancellation. It returns the
// underlying error unwrapped when ctx is canceled or its deadline
// expires, so callers can distinguish cancellation from a genuine
// fallback.
func (ex *Executor) Execute(ctx context.Context, plan planner.OptimizationPlan, reg *catalog.Registry, scanner RowScanner) (*Result, error) {
	start := time.Now()
	queryID := diag.NewQueryID()
	ex.log.PlanChosen(queryID, string(plan.Strategy), plan.IndexesUsed, plan.EstimatedRows, plan.EstimatedSpeedup)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, examined, err := ex.walk(ctx, plan.Step, plan.Table, reg, scanner)
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		fallbackIDs, scanErr := scanner.ScanIDs(ctx, plan.Table)
		if scanErr != nil {
			return nil, errors.Wrapf(scanErr, "full scan fallback after step error: %v", err)
		}
		ex.recordStats(len(fallbackIDs), true)
		res := &Result{RowIDs: fallbackIDs, RowsExamined: len(fallbackIDs), Elapsed: time.Since(start), Outcome: "full_scan_fallback"}
		ex.log.QueryExecuted(queryID, len(res.RowIDs), res.RowsExamined, res.Outcome)
		return res, nil
	}

	outcome := "ok"
	if ids.Len() == 0 {
		outcome = "empty"
	}
	ex.recordStats(examined, false)
	res := &Result{RowIDs: ids.Slice(), RowsExamined: examined, Elapsed: time.Since(start), Outcome: outcome}
	ex.log.QueryExecuted(queryID, len(res.RowIDs), res.RowsExamined, res.Outcome)
	return res, nil
}

func (ex *Executor) recordStats(rowsExamined int, fallback bool) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.stats.QueriesExecuted++
	ex.stats.TotalRowsExamined += rowsExamined
	if fallback {
		ex.stats.FullScanFallbacks++
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// walk executes one step of the plan, returning the set of matching
// row IDs and the number of rows it examined to produce them.
func (ex *Executor) walk(ctx context.Context, step planner.Step, table string, reg *catalog.Registry, scanner RowScanner) (*rowid.Set, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	switch step.Kind {
	case planner.StepNone:
		return rowid.NewSet(), 0, nil

	case planner.StepFullScan:
		ids, err := scanner.ScanIDs(ctx, table)
		if err != nil {
			return nil, 0, err
		}
		return rowid.NewSet(ids...), len(ids), nil

	case planner.StepLookup:
		ids := reg.LookupSingle(step.Index, step.Value)
		return rowid.NewSet(ids...), len(ids), nil

	case planner.StepRange:
		ids := reg.RangeSearchSingle(step.Index, step.Min, step.Max)
		return rowid.NewSet(ids...), len(ids), nil

	case planner.StepCompositeLookup:
		k := key.New(step.Values...)
		if k.Arity() != len(step.Columns) {
			return nil, 0, errors.Newf("executor: composite step arity mismatch: %d values for columns %v", k.Arity(), step.Columns)
		}
		ids := reg.LookupComposite(step.Index, k)
		return rowid.NewSet(ids...), len(ids), nil

	case planner.StepIntersect:
		return ex.combine(ctx, step.Children, table, reg, scanner, rowid.Intersect)

	case planner.StepUnion:
		return ex.combine(ctx, step.Children, table, reg, scanner, rowid.Union)

	default:
		return nil, 0, errors.Newf("executor: unknown step kind %q", step.Kind)
	}
}

// combine evaluates every child step concurrently (an errgroup bounds
// the fan-out and cancels the remaining children as soon as one
// fails) and folds the results together with combineFn, which is
// rowid.Intersect for an AND and rowid.Union for an OR.
func (ex *Executor) combine(ctx context.Context, children []planner.Step, table string, reg *catalog.Registry, scanner RowScanner, combineFn func(a, b *rowid.Set) *rowid.Set) (*rowid.Set, int, error) {
	if len(children) == 0 {
		return rowid.NewSet(), 0, nil
	}

	results := make([]*rowid.Set, len(children))
	examined := make([]int, len(children))

	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			ids, n, err := ex.walk(gctx, child, table, reg, scanner)
			if err != nil {
				return err
			}
			results[i] = ids
			examined[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, n := range examined {
		total += n
	}
	out := results[0]
	for _, r := range results[1:] {
		out = combineFn(out, r)
	}
	return out, total, nil
}
