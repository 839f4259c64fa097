// Package schema defines the minimal schema-provider contract the core
// depends on: name-to-index resolution of columns. Storage of row
// values, schema persistence and SQL type-checking are external
// collaborators; this package only models what §6 requires of them.
package schema

import "github.com/cockroachdb/errors"

// DataKind enumerates the column kinds the core is aware of. The core
// itself treats every value as a string for indexing purposes; kind is
// used only by the cost/executor layer's numeric-vs-lexicographic
// comparison discipline when a column's kind is pinned explicitly.
type DataKind int

const (
	KindString DataKind = iota
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
)

// Column is a single (name, kind) pair.
type Column struct {
	Name string
	Kind DataKind
}

// ErrColumnNotFound is returned by Provider.ColumnIndex when a requested
// column name is not part of the schema.
var ErrColumnNotFound = errors.New("schema: column not found")

// Provider supplies schema introspection to the core, per §6.
type Provider interface {
	NumColumns() int
	Column(i int) (Column, error)
}

// Static is a simple in-memory Provider backed by an ordered column list.
type Static struct {
	Columns []Column
}

func (s Static) NumColumns() int {
	return len(s.Columns)
}

func (s Static) Column(i int) (Column, error) {
	if i < 0 || i >= len(s.Columns) {
		return Column{}, errors.Wrapf(ErrColumnNotFound, "index %d out of %d columns", i, len(s.Columns))
	}
	return s.Columns[i], nil
}

// ColumnIndex resolves name to its position using p, returning
// ErrColumnNotFound (wrapped with the name) if absent.
func ColumnIndex(p Provider, name string) (int, DataKind, error) {
	for i := 0; i < p.NumColumns(); i++ {
		c, err := p.Column(i)
		if err != nil {
			return 0, 0, err
		}
		if c.Name == name {
			return i, c.Kind, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrColumnNotFound, "column %q", name)
}
