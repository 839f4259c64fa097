// Package key implements the composite index key: an ordered tuple of
// string field values with lexicographic ordering and a memoized FNV-1a
// hash, grounded in lyradb's composite_key.h.
package key

import (
	"github.com/cockroachdb/errors"
	"github.com/lyradb/lyracore/internal/expr"
)

// ErrOutOfRange is returned by Get when the requested index is not a
// valid position in the key.
var ErrOutOfRange = errors.New("composite key index out of range")

const (
	fnvOffsetBasis uint64 = 14695981039346656037
	fnvPrime       uint64 = 1099511628211
	// unitSeparator delimits successive values when hashing so that
	// ("ab","c") and ("a","bc") cannot collide.
	unitSeparator byte = 0x1F
)

// Composite is an ordered sequence of string field values used as a
// multi-column index key. It is a value type: cheap to copy, owned by
// whoever constructed it.
type Composite struct {
	values     []string
	hash       uint64
	hashCached bool
}

// New builds a Composite from the given values.
func New(values ...string) Composite {
	c := Composite{values: append([]string(nil), values...)}
	return c
}

// Append adds a value to the key, invalidating the memoized hash.
func (c *Composite) Append(v string) {
	c.values = append(c.values, v)
	c.hashCached = false
}

// Len returns the number of fields in the key.
func (c Composite) Len() int {
	return len(c.values)
}

// Arity returns the number of fields the key carries, the same value
// as Len — the name chai's internal/database/index.go uses for an
// index's declared column count, kept here so callers checking a key
// against an index descriptor can use either name.
func (c Composite) Arity() int {
	return len(c.values)
}

// IsComposite reports whether the key has more than one field.
func (c Composite) IsComposite() bool {
	return len(c.values) > 1
}

// Get returns the value at position i, or ErrOutOfRange if i is not a
// valid index.
func (c Composite) Get(i int) (string, error) {
	if i < 0 || i >= len(c.values) {
		return "", errors.Wrapf(ErrOutOfRange, "index %d, length %d", i, len(c.values))
	}
	return c.values[i], nil
}

// Values returns the underlying values. The caller must not mutate the
// returned slice.
func (c Composite) Values() []string {
	return c.values
}

// Compare orders two composite keys element by element using the same
// numeric-parse-first discipline as range_scan (expr.CompareValues):
// the first differing element decides, and a shorter prefix sorts
// before any of its extensions. It returns -1, 0, or 1.
func Compare(a, b Composite) int {
	n := len(a.values)
	if len(b.values) < n {
		n = len(b.values)
	}
	for i := 0; i < n; i++ {
		if c := expr.CompareValues(a.values[i], b.values[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a.values) < len(b.values):
		return -1
	case len(a.values) > len(b.values):
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b have identical length and elements.
func Equal(a, b Composite) bool {
	return Compare(a, b) == 0
}

// Hash computes the FNV-1a hash of the key, mixing in a unit-separator
// sentinel before each value so that value boundaries cannot collide.
// The result is memoized until the next Append.
func (c *Composite) Hash() uint64 {
	if c.hashCached {
		return c.hash
	}
	h := fnvOffsetBasis
	for _, v := range c.values {
		h ^= uint64(unitSeparator)
		h *= fnvPrime
		for i := 0; i < len(v); i++ {
			h ^= uint64(v[i])
			h *= fnvPrime
		}
	}
	c.hash = h
	c.hashCached = true
	return h
}

// String renders the key for diagnostics, e.g. "(age,country)" style
// tuples shown in execution plan text.
func (c Composite) String() string {
	s := "("
	for i, v := range c.values {
		if i > 0 {
			s += ","
		}
		s += v
	}
	return s + ")"
}

// Min and Max are sentinel values used by the composite B-tree range
// search when a trailing position of a composite index probe is
// unbound: Min sorts before every real value, Max sorts after.
var (
	Min = ""
	Max = "\xFF\xFF\xFF\xFF"
)
