// Package lyracore is the embedded relational query engine core: a
// B-tree secondary index layer (internal/tree, internal/catalog) and
// a cost-based predicate planner/executor (internal/expr,
// internal/rewriter, internal/planner, internal/executor) wired
// together behind a single Database handle, per the design note
// ruling out hidden package-level globals — every registry, every
// executor's stats, every config value lives on the Database a caller
// constructed, never behind a package var.
//
// lyracore itself does not parse SQL, store row values, or persist
// anything to disk: callers supply a schema.Provider and an
// executor.RowScanner as external collaborators, and feed rows into
// the index registry as they're written. See SPEC_FULL.md for the
// full boundary.
package lyracore

import (
	"context"
	"log/slog"

	"github.com/lyradb/lyracore/internal/catalog"
	"github.com/lyradb/lyracore/internal/config"
	"github.com/lyradb/lyracore/internal/diag"
	"github.com/lyradb/lyracore/internal/executor"
	"github.com/lyradb/lyracore/internal/expr"
	"github.com/lyradb/lyracore/internal/planner"
	"github.com/lyradb/lyracore/internal/rewriter"
	"github.com/lyradb/lyracore/internal/schema"
	"github.com/lyradb/lyracore/internal/whereparse"
)

// Row is a row's column values paired with its assigned ID, re-
// exported from internal/catalog so callers never need to import the
// internal package directly.
type Row = catalog.Row

// RowScanner is the external collaborator that can enumerate every
// row ID of a table, used for full-scan plans and as the fallback
// path when an indexed step fails.
type RowScanner = executor.RowScanner

// Database binds an index registry, an executor and their shared
// configuration into one handle. The zero value is not usable; build
// one with New.
type Database struct {
	cfg config.Config
	reg *catalog.Registry
	ex  *executor.Executor
	log *diag.Logger
}

// New creates a Database with cfg (use config.Default() for the
// spec's stock thresholds) and an optional structured logger (nil
// discards every diagnostic event).
func New(cfg config.Config, logger *slog.Logger) *Database {
	log := diag.New(logger)
	return &Database{
		cfg: cfg,
		reg: catalog.New(cfg, log),
		ex:  executor.New(log),
		log: log,
	}
}

// BuildSingleIndex builds a single-column index named name over
// table.column, from rows, resolving column against sch.
func (db *Database) BuildSingleIndex(name, table, column string, rows []Row, sch schema.Provider) error {
	_, err := db.reg.BuildSingle(name, table, column, rows, sch)
	return err
}

// BuildCompositeIndex builds a multi-column index named name over
// table's columns, in the given order.
func (db *Database) BuildCompositeIndex(name, table string, columns []string, rows []Row, sch schema.Provider) error {
	_, err := db.reg.BuildComposite(name, table, columns, rows, sch)
	return err
}

// UpdateIndexes inserts row into every index registered for table,
// keeping the catalog coherent with the external row store. A
// successful call happens-before any subsequent Query sees row.ID.
func (db *Database) UpdateIndexes(table string, row Row, sch schema.Provider) error {
	return db.reg.UpdateIndexes(table, row, sch)
}

// ClearIndexes drops every index registered for table.
func (db *Database) ClearIndexes(table string) {
	db.reg.Clear(table)
}

// IndexSize returns the named index's row count, or 0 if it doesn't
// exist.
func (db *Database) IndexSize(name string) int {
	return db.reg.IndexSize(name)
}

// Stats returns a snapshot of the executor's cumulative counters.
func (db *Database) Stats() executor.Stats {
	return db.ex.Stats()
}

// QueryResult is one Query call's outcome, plus the plan that
// produced it so callers can inspect or log the chosen strategy.
type QueryResult struct {
	*executor.Result
	Plan planner.OptimizationPlan
}

// Query plans and executes the WHERE-style clause against table,
// which rowCount reports to have that many rows, using scanner as the
// full-scan fallback collaborator. It runs the whole C4-through-C8
// pipeline: parse, normalize, plan, execute.
func (db *Database) Query(ctx context.Context, table string, rowCount int, clause string, sch schema.Provider, scanner RowScanner) (*QueryResult, error) {
	e, err := whereparse.Parse(clause)
	if err != nil {
		return nil, err
	}
	return db.QueryExpr(ctx, table, rowCount, e, scanner)
}

// QueryExpr is Query's lower-level entry point for callers that
// already hold an expr.Expr (e.g. built by their own SQL front end)
// rather than source text.
func (db *Database) QueryExpr(ctx context.Context, table string, rowCount int, e expr.Expr, scanner RowScanner) (*QueryResult, error) {
	normalized := rewriter.Normalize(e, planner.Selectivity)
	plan := planner.Plan(table, rowCount, normalized, db.reg, db.cfg)

	res, err := db.ex.Execute(ctx, plan, db.reg, scanner)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Result: res, Plan: plan}, nil
}

// Recommend suggests indexes that would let clause's predicates
// against table be served by an index path, without building or
// running anything — an offline index-design aid.
func (db *Database) Recommend(table, clause string) ([]planner.IndexRecommendation, error) {
	e, err := whereparse.Parse(clause)
	if err != nil {
		return nil, err
	}
	return planner.Recommend(table, e, db.reg), nil
}
