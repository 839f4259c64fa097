// Package rewriter implements the query rewriter (C5): it normalizes a
// freshly-parsed predicate tree into a canonical form the planner can
// reason about — negation sunk to the leaves, double negation and
// tautological duplicates removed, and AND-chains reordered by
// estimated selectivity so the cheapest predicate is evaluated first.
// Grounded in lyradb's query_rewriter.h (sink_negation, simplify,
// reorder_by_selectivity) and written in chai's internal/planner
// idiom of a small ordered list of independent rewrite passes applied
// until the tree stops changing.
package rewriter

import (
	"github.com/lyradb/lyracore/internal/expr"
	"golang.org/x/exp/slices"
)

// SelectivityFunc estimates the fraction of rows a single leaf
// predicate is expected to match, in (0, 1]. The planner's
// implementation (internal/planner) is the real source of these
// estimates; rewriter depends only on this narrow interface so it
// never imports planner.
type SelectivityFunc func(p expr.Predicate) float64

// Normalize applies the full rewrite pipeline to e and returns a new,
// equivalent tree: SinkNegation, then Simplify repeated to a fixed
// point, then EliminateRedundancy, then ReorderAndChains if sel is
// non-nil. DNF/CNF conversion (ToDNF, ToCNF) is not part of this
// default pipeline — see their doc comments for why.
func Normalize(e expr.Expr, sel SelectivityFunc) expr.Expr {
	out := SinkNegation(e)
	for {
		next := Simplify(out)
		if expr.Equal(next, out) {
			out = next
			break
		}
		out = next
	}
	out = EliminateRedundancy(out)
	if sel != nil {
		out = ReorderAndChains(out, sel)
	}
	return out
}

// SinkNegation applies De Morgan's laws repeatedly so every Not node
// ends up directly above a Leaf: NOT(A AND B) -> NOT A OR NOT B,
// NOT(A OR B) -> NOT A AND NOT B, NOT(NOT A) -> A, and NOT(leaf) has
// its operator negated outright (so the Not node disappears entirely).
func SinkNegation(e expr.Expr) expr.Expr {
	switch t := e.(type) {
	case expr.Leaf:
		return t
	case expr.And:
		return expr.And{L: SinkNegation(t.L), R: SinkNegation(t.R)}
	case expr.Or:
		return expr.Or{L: SinkNegation(t.L), R: SinkNegation(t.R)}
	case expr.Not:
		return sinkNot(t.X)
	default:
		return e
	}
}

// sinkNot pushes a negation that sits directly above x one level down
// (or eliminates it, if x is a Leaf), then recursively sinks whatever
// negation remains in the result.
func sinkNot(x expr.Expr) expr.Expr {
	switch t := x.(type) {
	case expr.Leaf:
		p := t.Pred
		p.Op = p.Op.Negate()
		return expr.Leaf{Pred: p}
	case expr.Not:
		// NOT(NOT a) -> a
		return SinkNegation(t.X)
	case expr.And:
		// NOT(a AND b) -> NOT a OR NOT b
		return expr.Or{L: sinkNot(t.L), R: sinkNot(t.R)}
	case expr.Or:
		// NOT(a OR b) -> NOT a AND NOT b
		return expr.And{L: sinkNot(t.L), R: sinkNot(t.R)}
	default:
		return expr.Not{X: SinkNegation(x)}
	}
}

// Simplify removes redundancy that SinkNegation's rewriting tends to
// expose: idempotence (A AND A -> A, A OR A -> A) and recursing into
// children. It is not a fixed-point pass by itself — Normalize calls
// it to a fixed point — because collapsing one duplicate can expose
// another one level up.
func Simplify(e expr.Expr) expr.Expr {
	switch t := e.(type) {
	case expr.Leaf:
		return t
	case expr.Not:
		return expr.Not{X: Simplify(t.X)}
	case expr.And:
		l, r := Simplify(t.L), Simplify(t.R)
		if expr.Equal(l, r) {
			return l
		}
		return expr.And{L: l, R: r}
	case expr.Or:
		l, r := Simplify(t.L), Simplify(t.R)
		if expr.Equal(l, r) {
			return l
		}
		return expr.Or{L: l, R: r}
	default:
		return e
	}
}

// ReorderAndChains walks the tree and, at every AND node, sorts its
// flattened chain of conjuncts by ascending estimated selectivity
// (most selective, i.e. smallest match fraction, first) so the
// executor prunes as early as possible when it evaluates the chain
// leaf by leaf. OR nodes and their subtrees are reordered
// independently but the OR's own operand order is left alone — only
// AND chains have a meaningful "cheapest first" evaluation order.
func ReorderAndChains(e expr.Expr, sel SelectivityFunc) expr.Expr {
	switch t := e.(type) {
	case expr.Leaf:
		return t
	case expr.Not:
		return expr.Not{X: ReorderAndChains(t.X, sel)}
	case expr.Or:
		return expr.Or{L: ReorderAndChains(t.L, sel), R: ReorderAndChains(t.R, sel)}
	case expr.And:
		leaves := flattenAnd(t)
		for i, l := range leaves {
			leaves[i] = ReorderAndChains(l, sel)
		}
		slices.SortFunc(leaves, func(a, b expr.Expr) int {
			sa, sb := estimateSelectivity(a, sel), estimateSelectivity(b, sel)
			switch {
			case sa < sb:
				return -1
			case sa > sb:
				return 1
			default:
				return 0
			}
		})
		return rebuildAnd(leaves)
	default:
		return e
	}
}

// flattenAnd collects the operands of a (possibly deeply nested,
// left- or right-leaning) chain of AND nodes into a flat slice,
// treating any non-And subtree as a single opaque operand.
func flattenAnd(e expr.Expr) []expr.Expr {
	and, ok := e.(expr.And)
	if !ok {
		return []expr.Expr{e}
	}
	return append(flattenAnd(and.L), flattenAnd(and.R)...)
}

func rebuildAnd(operands []expr.Expr) expr.Expr {
	out := operands[0]
	for _, o := range operands[1:] {
		out = expr.And{L: out, R: o}
	}
	return out
}

// estimateSelectivity approximates a whole subtree's selectivity for
// ordering purposes: a single leaf uses sel directly; a nested AND/OR
// falls back to the least favorable (largest) of 1.0, since its true
// cost is already accounted for once it is evaluated as a unit.
func estimateSelectivity(e expr.Expr, sel SelectivityFunc) float64 {
	if l, ok := e.(expr.Leaf); ok {
		return sel(l.Pred)
	}
	return 1.0
}

// EliminateRedundancy drops predicates made redundant by a stricter
// sibling on the same column within an AND chain, and collapses the
// chain to expr.False when two siblings contradict each other outright
// (§4.4 step 6). It only compares leaves that sit in the same
// flattened AND; OR branches and nested non-leaf operands are left for
// the recursive descent to handle as opaque units.
func EliminateRedundancy(e expr.Expr) expr.Expr {
	switch t := e.(type) {
	case expr.Leaf:
		return t
	case expr.Not:
		return expr.Not{X: EliminateRedundancy(t.X)}
	case expr.Or:
		l, r := EliminateRedundancy(t.L), EliminateRedundancy(t.R)
		if isFalse(l) {
			return r
		}
		if isFalse(r) {
			return l
		}
		return expr.Or{L: l, R: r}
	case expr.And:
		return eliminateAndChain(t)
	default:
		return e
	}
}

func isFalse(e expr.Expr) bool {
	_, ok := e.(expr.False)
	return ok
}

// eliminateAndChain flattens a's operands, recurses into each, and
// then runs pairwise dominance analysis over whichever operands turned
// out to be leaves (non-leaf operands — an OR subtree that survived
// its own recursive call, for instance — are carried through
// unexamined, since dominance is only defined between two single
// predicates on the same column).
func eliminateAndChain(a expr.And) expr.Expr {
	operands := flattenAnd(a)
	var leaves []expr.Leaf
	var rest []expr.Expr
	for _, o := range operands {
		reduced := EliminateRedundancy(o)
		if isFalse(reduced) {
			return expr.False{}
		}
		if l, ok := reduced.(expr.Leaf); ok {
			leaves = append(leaves, l)
		} else {
			rest = append(rest, reduced)
		}
	}

	kept := make([]bool, len(leaves))
	for i := range kept {
		kept[i] = true
	}
	for i := 0; i < len(leaves); i++ {
		if !kept[i] {
			continue
		}
		for j := i + 1; j < len(leaves); j++ {
			if !kept[j] || leaves[i].Pred.Column != leaves[j].Pred.Column {
				continue
			}
			switch dominance(leaves[i].Pred, leaves[j].Pred) {
			case dominanceContradiction:
				return expr.False{}
			case dominanceLeftWins:
				kept[j] = false
			case dominanceRightWins:
				kept[i] = false
			}
		}
	}

	out := rest
	for i, l := range leaves {
		if kept[i] {
			out = append(out, l)
		}
	}
	return rebuildAnd(out)
}

// dominanceResult names the outcome of comparing two predicates on the
// same column.
type dominanceResult int

const (
	dominanceNone dominanceResult = iota
	dominanceLeftWins
	dominanceRightWins
	dominanceContradiction
)

// dominance decides whether a or b (already known to share a column)
// makes the other redundant, or whether the pair can never both hold,
// per §4.4 step 6's rules.
func dominance(a, b expr.Predicate) dominanceResult {
	switch {
	case a.Op == expr.EQ && b.Op == expr.EQ:
		if a.Value == b.Value {
			return dominanceLeftWins
		}
		return dominanceContradiction

	case a.Op == expr.EQ && b.Op == expr.IN:
		if containsValue(b.Values, a.Value) {
			return dominanceLeftWins
		}
		return dominanceNone
	case b.Op == expr.EQ && a.Op == expr.IN:
		if containsValue(a.Values, b.Value) {
			return dominanceRightWins
		}
		return dominanceNone

	case isLowerBound(a.Op) && isLowerBound(b.Op):
		return lowerBoundDominance(a, b)
	case isUpperBound(a.Op) && isUpperBound(b.Op):
		return upperBoundDominance(a, b)

	case isLowerBound(a.Op) && isUpperBound(b.Op):
		if crosses(a, b) {
			return dominanceContradiction
		}
		return dominanceNone
	case isUpperBound(a.Op) && isLowerBound(b.Op):
		if crosses(b, a) {
			return dominanceContradiction
		}
		return dominanceNone

	default:
		return dominanceNone
	}
}

func isLowerBound(op expr.Operator) bool { return op == expr.GT || op == expr.GTE }
func isUpperBound(op expr.Operator) bool { return op == expr.LT || op == expr.LTE }

func containsValue(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// lowerBoundDominance picks the stricter of two lower-bound predicates
// on the same column: the larger threshold wins outright (it implies
// the smaller one), and an equal threshold is won by the strict GT
// over the inclusive GTE.
func lowerBoundDominance(a, b expr.Predicate) dominanceResult {
	switch c := expr.CompareValues(a.Value, b.Value); {
	case c > 0:
		return dominanceLeftWins
	case c < 0:
		return dominanceRightWins
	case a.Op == expr.GT && b.Op == expr.GTE:
		return dominanceLeftWins
	case b.Op == expr.GT && a.Op == expr.GTE:
		return dominanceRightWins
	default:
		return dominanceLeftWins
	}
}

// upperBoundDominance is lowerBoundDominance's mirror image: the
// smaller threshold wins, with strict LT beating inclusive LTE at an
// equal threshold.
func upperBoundDominance(a, b expr.Predicate) dominanceResult {
	switch c := expr.CompareValues(a.Value, b.Value); {
	case c < 0:
		return dominanceLeftWins
	case c > 0:
		return dominanceRightWins
	case a.Op == expr.LT && b.Op == expr.LTE:
		return dominanceLeftWins
	case b.Op == expr.LT && a.Op == expr.LTE:
		return dominanceRightWins
	default:
		return dominanceLeftWins
	}
}

// crosses reports whether a lower-bound predicate and an upper-bound
// predicate on the same column can never both hold: the documented
// case is `a > x AND a < y` with `x >= y` (§4.4 step 6); the GTE/LTE
// variants are folded into the same threshold comparison.
func crosses(lower, upper expr.Predicate) bool {
	return expr.CompareValues(lower.Value, upper.Value) >= 0
}

// ToDNF converts e into disjunctive normal form — an Or of flattened
// And-chains — by repeatedly distributing AND over OR (§4.4 step 3).
// NOT is expected to already be sunk to the leaves (SinkNegation); ToDNF
// does not negate anything itself. It is a standalone pass, not part
// of Normalize's default pipeline: the planner's Hybrid strategy
// applies it itself, on demand, to whatever tree ReorderAndChains
// already settled on, rather than have every query pay for a DNF
// expansion it may not need.
func ToDNF(e expr.Expr) expr.Expr {
	switch t := e.(type) {
	case expr.Leaf, expr.False:
		return t
	case expr.Not:
		return expr.Not{X: ToDNF(t.X)}
	case expr.Or:
		return expr.Or{L: ToDNF(t.L), R: ToDNF(t.R)}
	case expr.And:
		l, r := ToDNF(t.L), ToDNF(t.R)
		if lo, ok := l.(expr.Or); ok {
			return ToDNF(expr.Or{L: expr.And{L: lo.L, R: r}, R: expr.And{L: lo.R, R: r}})
		}
		if ro, ok := r.(expr.Or); ok {
			return ToDNF(expr.Or{L: expr.And{L: l, R: ro.L}, R: expr.And{L: l, R: ro.R}})
		}
		return expr.And{L: l, R: r}
	default:
		return e
	}
}

// ToCNF converts e into conjunctive normal form — an And of flattened
// Or-chains — by repeatedly distributing OR over AND, the dual of
// ToDNF (§4.4 step 3). Like ToDNF it expects NOT already sunk to the
// leaves and is a standalone pass the planner does not call: nothing
// in the access-path strategies needs a conjunction of disjunctions,
// it exists so CNF is available to a caller (or future strategy) that
// does.
func ToCNF(e expr.Expr) expr.Expr {
	switch t := e.(type) {
	case expr.Leaf, expr.False:
		return t
	case expr.Not:
		return expr.Not{X: ToCNF(t.X)}
	case expr.And:
		return expr.And{L: ToCNF(t.L), R: ToCNF(t.R)}
	case expr.Or:
		l, r := ToCNF(t.L), ToCNF(t.R)
		if la, ok := l.(expr.And); ok {
			return ToCNF(expr.And{L: expr.Or{L: la.L, R: r}, R: expr.Or{L: la.R, R: r}})
		}
		if ra, ok := r.(expr.And); ok {
			return ToCNF(expr.And{L: expr.Or{L: l, R: ra.L}, R: expr.Or{L: l, R: ra.R}})
		}
		return expr.Or{L: l, R: r}
	default:
		return e
	}
}
