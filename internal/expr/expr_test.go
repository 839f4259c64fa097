package expr_test

import (
	"testing"

	"github.com/lyradb/lyracore/internal/expr"
	"github.com/stretchr/testify/require"
)

func TestOperatorNegateIsInvolution(t *testing.T) {
	ops := []expr.Operator{expr.EQ, expr.NEQ, expr.LT, expr.LTE, expr.GT, expr.GTE, expr.IN, expr.NOTIN}
	for _, op := range ops {
		require.Equal(t, op, op.Negate().Negate(), "op %v", op)
	}
}

func TestOperatorIsRange(t *testing.T) {
	require.True(t, expr.LT.IsRange())
	require.True(t, expr.GTE.IsRange())
	require.False(t, expr.EQ.IsRange())
	require.False(t, expr.IN.IsRange())
}

func TestOperatorString(t *testing.T) {
	require.Equal(t, "=", expr.EQ.String())
	require.Equal(t, "NOT IN", expr.NOTIN.String())
}

func leaf(col string, op expr.Operator, val string) expr.Leaf {
	return expr.Leaf{Pred: expr.Predicate{Column: col, Op: op, Value: val}}
}

func TestCloneProducesEqualButDistinctTree(t *testing.T) {
	orig := expr.And{
		L: leaf("age", expr.GT, "18"),
		R: expr.Or{L: leaf("country", expr.EQ, "USA"), R: leaf("country", expr.EQ, "FRA")},
	}
	cloned := expr.Clone(orig)
	require.True(t, expr.Equal(orig, cloned))

	// mutating the clone's leaf must not affect the original.
	clonedAnd := cloned.(expr.And)
	clonedOr := clonedAnd.R.(expr.Or)
	mutatedLeaf := clonedOr.L.(expr.Leaf)
	mutatedLeaf.Pred.Value = "DEU"
	require.Equal(t, "USA", orig.R.(expr.Or).L.(expr.Leaf).Pred.Value)
}

func TestEqualDistinguishesStructure(t *testing.T) {
	a := expr.And{L: leaf("a", expr.EQ, "1"), R: leaf("b", expr.EQ, "2")}
	b := expr.Or{L: leaf("a", expr.EQ, "1"), R: leaf("b", expr.EQ, "2")}
	require.False(t, expr.Equal(a, b))

	c := expr.And{L: leaf("a", expr.EQ, "1"), R: leaf("b", expr.EQ, "2")}
	require.True(t, expr.Equal(a, c))
}

func TestEqualComparesInValues(t *testing.T) {
	a := expr.Leaf{Pred: expr.Predicate{Column: "x", Op: expr.IN, Values: []string{"1", "2"}}}
	b := expr.Leaf{Pred: expr.Predicate{Column: "x", Op: expr.IN, Values: []string{"1", "3"}}}
	require.False(t, expr.Equal(a, b))

	c := expr.Leaf{Pred: expr.Predicate{Column: "x", Op: expr.IN, Values: []string{"1", "2"}}}
	require.True(t, expr.Equal(a, c))
}

func TestNotWrapsArbitraryExpr(t *testing.T) {
	n := expr.Not{X: expr.And{L: leaf("a", expr.EQ, "1"), R: leaf("b", expr.EQ, "2")}}
	require.Contains(t, n.String(), "NOT")
}
