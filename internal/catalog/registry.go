// Package catalog implements the process-wide (well, Database-wide —
// see the design note ruling out hidden globals) index registry: two
// disjoint maps from index name to descriptor, one for single-column
// indexes and one for composite ones, each backed by a tree.Tree.
package catalog

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lyradb/lyracore/internal/config"
	"github.com/lyradb/lyracore/internal/diag"
	"github.com/lyradb/lyracore/internal/expr"
	"github.com/lyradb/lyracore/internal/key"
	"github.com/lyradb/lyracore/internal/rowid"
	"github.com/lyradb/lyracore/internal/schema"
	"github.com/lyradb/lyracore/internal/tree"
)

var (
	// ErrIndexNameTaken is returned when building an index whose name
	// already exists in either the single or composite map — the two
	// registries share one namespace.
	ErrIndexNameTaken = errors.New("catalog: index name already in use")
)

// Row is one row's worth of column values, in schema order, paired
// with the row ID assigned at insertion time. Supplied by the external
// row store collaborator (§6); the core never constructs these on its
// own beyond tests.
type Row struct {
	ID     rowid.ID
	Values []string
}

func valueAt(r Row, i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// SingleIndex describes a single-column B-tree index.
type SingleIndex struct {
	Name     string
	Table    string
	Column   string
	RowCount int
	tree     *tree.Tree[string]
}

// CompositeIndex describes a multi-column B-tree index.
type CompositeIndex struct {
	Name     string
	Table    string
	Columns  []string
	RowCount int
	tree     *tree.Tree[key.Composite]
}

// Registry is the Database-bound catalog of named indexes. It is safe
// for concurrent readers; writers (BuildSingle, BuildComposite,
// UpdateIndexes, Clear) take the registry's exclusive lock, per §5.
type Registry struct {
	mu        sync.RWMutex
	single    map[string]*SingleIndex
	composite map[string]*CompositeIndex
	cfg       config.Config
	log       *diag.Logger
}

// New creates an empty registry bound to cfg (for the B-tree branching
// factor) and an optional diagnostics logger.
func New(cfg config.Config, log *diag.Logger) *Registry {
	return &Registry{
		single:    make(map[string]*SingleIndex),
		composite: make(map[string]*CompositeIndex),
		cfg:       cfg,
		log:       log,
	}
}

func (r *Registry) nameTaken(name string) bool {
	_, s := r.single[name]
	_, c := r.composite[name]
	return s || c
}

// BuildSingle creates a fresh single-column index and inserts every
// row's value for column, failing the whole build (returning
// schema.ErrColumnNotFound) if the schema doesn't have that column.
func (r *Registry) BuildSingle(name, table, column string, rows []Row, sch schema.Provider) (*SingleIndex, error) {
	colIdx, _, err := schema.ColumnIndex(sch, column)
	if err != nil {
		return nil, err
	}

	t, err := tree.New[string](r.cfg.BranchingFactor, expr.CompareValues)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Insert(valueAt(row, colIdx), row.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(name) {
		return nil, errors.Wrapf(ErrIndexNameTaken, "index %q", name)
	}
	idx := &SingleIndex{Name: name, Table: table, Column: column, RowCount: len(rows), tree: t}
	r.single[name] = idx
	r.log.IndexBuilt(name, table, []string{column}, len(rows))
	return idx, nil
}

// BuildComposite creates a fresh multi-column index analogous to
// BuildSingle; a row missing one of the indexed fields contributes the
// empty string for that position.
func (r *Registry) BuildComposite(name, table string, columns []string, rows []Row, sch schema.Provider) (*CompositeIndex, error) {
	colIdxs := make([]int, len(columns))
	for i, c := range columns {
		idx, _, err := schema.ColumnIndex(sch, c)
		if err != nil {
			return nil, err
		}
		colIdxs[i] = idx
	}

	t, err := tree.New[key.Composite](r.cfg.BranchingFactor, key.Compare)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		values := make([]string, len(columns))
		for i, ci := range colIdxs {
			values[i] = valueAt(row, ci)
		}
		t.Insert(key.New(values...), row.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(name) {
		return nil, errors.Wrapf(ErrIndexNameTaken, "index %q", name)
	}
	idx := &CompositeIndex{Name: name, Table: table, Columns: append([]string(nil), columns...), RowCount: len(rows), tree: t}
	r.composite[name] = idx
	r.log.IndexBuilt(name, table, columns, len(rows))
	return idx, nil
}

// LookupSingle returns the row IDs at value for the named single
// index, or nil if the index doesn't exist — tolerant semantics so
// callers may probe without a pre-check.
func (r *Registry) LookupSingle(name, value string) []rowid.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.single[name]
	if !ok {
		return nil
	}
	return idx.tree.Search(value)
}

// RangeSearchSingle returns the row IDs in [min, max] for the named
// single index, or nil if the index doesn't exist.
func (r *Registry) RangeSearchSingle(name, min, max string) []rowid.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.single[name]
	if !ok {
		return nil
	}
	return idx.tree.RangeSearch(min, max)
}

// LookupComposite returns the row IDs at the given composite value for
// the named composite index, or nil if the index doesn't exist.
func (r *Registry) LookupComposite(name string, value key.Composite) []rowid.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.composite[name]
	if !ok {
		return nil
	}
	return idx.tree.Search(value)
}

// RangeSearchComposite returns the row IDs in [min, max] for the named
// composite index, or nil if the index doesn't exist.
func (r *Registry) RangeSearchComposite(name string, min, max key.Composite) []rowid.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.composite[name]
	if !ok {
		return nil
	}
	return idx.tree.RangeSearch(min, max)
}

// SingleIndexInfo and CompositeIndexInfo let the planner enumerate
// available indexes without reaching past the registry's lock.

type SingleIndexInfo struct {
	Name, Table, Column string
	RowCount            int
}

type CompositeIndexInfo struct {
	Name, Table string
	Columns     []string
	RowCount    int
}

// IndexesForTable returns every single and composite index descriptor
// registered for table.
func (r *Registry) IndexesForTable(table string) ([]SingleIndexInfo, []CompositeIndexInfo) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var singles []SingleIndexInfo
	for _, idx := range r.single {
		if idx.Table == table {
			singles = append(singles, SingleIndexInfo{idx.Name, idx.Table, idx.Column, idx.RowCount})
		}
	}
	var composites []CompositeIndexInfo
	for _, idx := range r.composite {
		if idx.Table == table {
			composites = append(composites, CompositeIndexInfo{idx.Name, idx.Table, append([]string(nil), idx.Columns...), idx.RowCount})
		}
	}
	return singles, composites
}

// UpdateIndexes inserts row into every descriptor registered for
// table, keeping every index coherent with the row store. A successful
// call happens-before any subsequent query sees row.ID, per §5.
func (r *Registry) UpdateIndexes(table string, row Row, sch schema.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, idx := range r.single {
		if idx.Table != table {
			continue
		}
		colIdx, _, err := schema.ColumnIndex(sch, idx.Column)
		if err != nil {
			return err
		}
		idx.tree.Insert(valueAt(row, colIdx), row.ID)
		idx.RowCount++
	}

	for _, idx := range r.composite {
		if idx.Table != table {
			continue
		}
		values := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			colIdx, _, err := schema.ColumnIndex(sch, c)
			if err != nil {
				return err
			}
			values[i] = valueAt(row, colIdx)
		}
		idx.tree.Insert(key.New(values...), row.ID)
		idx.RowCount++
	}
	return nil
}

// Clear removes every index descriptor registered for table.
func (r *Registry) Clear(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for name, idx := range r.single {
		if idx.Table == table {
			delete(r.single, name)
			count++
		}
	}
	for name, idx := range r.composite {
		if idx.Table == table {
			delete(r.composite, name)
			count++
		}
	}
	r.log.IndexCleared(table, count)
}

// IndexSize returns the named single or composite index's row count,
// or 0 if the index doesn't exist.
func (r *Registry) IndexSize(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.single[name]; ok {
		return idx.RowCount
	}
	if idx, ok := r.composite[name]; ok {
		return idx.RowCount
	}
	return 0
}
