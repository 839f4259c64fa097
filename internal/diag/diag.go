// Package diag provides structured event logging for the registry,
// planner and executor, in the style SharedCode-sop uses throughout its
// btree and storage packages: a single log/slog logger, one line per
// notable event, fields instead of formatted strings.
package diag

import (
	"log/slog"

	"github.com/google/uuid"
)

// Logger wraps a *slog.Logger with the handful of events the core
// emits. A nil *Logger is valid and discards everything, so callers
// that don't care about diagnostics can leave it unset.
type Logger struct {
	l *slog.Logger
}

// New wraps l. Passing nil yields a Logger that discards all events.
func New(l *slog.Logger) *Logger {
	return &Logger{l: l}
}

// NewQueryID mints an opaque identifier used to correlate the planning
// and execution log lines of a single query.
func NewQueryID() string {
	return uuid.NewString()
}

func (d *Logger) logger() *slog.Logger {
	if d == nil || d.l == nil {
		return nil
	}
	return d.l
}

// IndexBuilt logs that an index finished building.
func (d *Logger) IndexBuilt(name, table string, columns []string, rows int) {
	if l := d.logger(); l != nil {
		l.Info("index built", "index", name, "table", table, "columns", columns, "rows", rows)
	}
}

// IndexCleared logs that every index for a table was dropped.
func (d *Logger) IndexCleared(table string, count int) {
	if l := d.logger(); l != nil {
		l.Info("indexes cleared", "table", table, "count", count)
	}
}

// PlanChosen logs the strategy an access-path plan settled on.
func (d *Logger) PlanChosen(queryID, strategy string, indexesUsed []string, estimatedRows int, speedup float64) {
	if l := d.logger(); l != nil {
		l.Info("plan chosen", "query", queryID, "strategy", strategy,
			"indexes_used", indexesUsed, "estimated_rows", estimatedRows, "speedup", speedup)
	}
}

// QueryExecuted logs the outcome of running a plan.
func (d *Logger) QueryExecuted(queryID string, rows int, rowsExamined int, outcome string) {
	if l := d.logger(); l != nil {
		l.Info("query executed", "query", queryID, "rows", rows, "rows_examined", rowsExamined, "outcome", outcome)
	}
}
