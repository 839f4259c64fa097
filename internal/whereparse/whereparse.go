// Package whereparse implements a minimal WHERE-clause mini-parser
// producing an internal/expr.Expr tree, grounded in lyradb's
// phase7_advanced_optimizer.h parse_where_clause. It understands only
// the flat grammar
//
//	column OP value [(AND|OR) column OP value]*
//
// with no operator precedence beyond strict left-to-right chaining
// and no parentheses — full SQL expression parsing is an external
// collaborator's job (§6); this is a convenience entry point for
// callers that only ever see clauses this simple, kept deliberately
// separate from internal/expr and internal/planner so neither package
// depends on a notion of source text.
package whereparse

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lyradb/lyracore/internal/expr"
)

// ErrSyntax is returned for any clause that doesn't match the
// supported grammar.
var ErrSyntax = errors.New("whereparse: syntax error")

// Parse parses clause into an expr.Expr. AND binds left to right with
// OR at the same precedence — there is no grouping — so "a=1 OR b=2
// AND c=3" parses as ((a=1 OR b=2) AND c=3), matching the reference
// implementation's single left-to-right scan.
func Parse(clause string) (expr.Expr, error) {
	tokens := tokenize(clause)
	if len(tokens) == 0 {
		return nil, errors.Wrap(ErrSyntax, "empty clause")
	}

	pred, rest, err := parsePredicate(tokens)
	if err != nil {
		return nil, err
	}
	pred.LogicalOp = expr.AND // the first predicate in a flat parse has no preceding joiner; AND is the default per §3
	result := expr.Expr(expr.Leaf{Pred: pred})

	for len(rest) > 0 {
		joiner := strings.ToUpper(rest[0])
		if joiner != "AND" && joiner != "OR" {
			return nil, errors.Wrapf(ErrSyntax, "expected AND/OR, got %q", rest[0])
		}
		rest = rest[1:]

		nextPred, tail, err := parsePredicate(rest)
		if err != nil {
			return nil, err
		}
		rest = tail

		if joiner == "AND" {
			nextPred.LogicalOp = expr.AND
			result = expr.And{L: result, R: expr.Leaf{Pred: nextPred}}
		} else {
			nextPred.LogicalOp = expr.OR
			result = expr.Or{L: result, R: expr.Leaf{Pred: nextPred}}
		}
	}
	return result, nil
}

// tokenize splits clause on whitespace while keeping quoted strings
// and parenthesized IN lists intact as single tokens.
func tokenize(clause string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	var quoteCh byte
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(clause); i++ {
		c := clause[i]
		switch {
		case inQuote:
			cur.WriteByte(c)
			if c == quoteCh {
				inQuote = false
			}
		case c == '\'' || c == '"':
			inQuote = true
			quoteCh = c
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			depth--
			cur.WriteByte(c)
		case c == ' ' && depth == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}

var operatorTokens = map[string]expr.Operator{
	"=":     expr.EQ,
	"!=":    expr.NEQ,
	"<>":    expr.NEQ,
	"<":     expr.LT,
	"<=":    expr.LTE,
	">":     expr.GT,
	">=":    expr.GTE,
	"IN":    expr.IN,
	"NOTIN": expr.NOTIN,
}

// parsePredicate consumes "column OP value" (or "column NOT IN (...)",
// tokenized as three/four tokens) from the front of tokens and
// returns the remaining tokens.
func parsePredicate(tokens []string) (expr.Predicate, []string, error) {
	if len(tokens) < 3 {
		return expr.Predicate{}, nil, errors.Wrapf(ErrSyntax, "incomplete predicate near %v", tokens)
	}
	column := tokens[0]
	opTok := strings.ToUpper(tokens[1])
	rest := tokens[2:]

	if opTok == "NOT" {
		if len(rest) == 0 || strings.ToUpper(rest[0]) != "IN" {
			return expr.Predicate{}, nil, errors.Wrapf(ErrSyntax, "expected IN after NOT near %v", tokens)
		}
		opTok = "NOTIN"
		rest = rest[1:]
	}

	op, ok := operatorTokens[opTok]
	if !ok {
		return expr.Predicate{}, nil, errors.Wrapf(ErrSyntax, "unknown operator %q", tokens[1])
	}
	if len(rest) == 0 {
		return expr.Predicate{}, nil, errors.Wrapf(ErrSyntax, "missing value near %v", tokens)
	}

	valueTok := rest[0]
	rest = rest[1:]

	if op == expr.IN || op == expr.NOTIN {
		values, err := parseInList(valueTok)
		if err != nil {
			return expr.Predicate{}, nil, err
		}
		return expr.Predicate{Column: column, Op: op, Values: values}, rest, nil
	}
	return expr.Predicate{Column: column, Op: op, Value: unquote(valueTok)}, rest, nil
}

// parseInList parses a parenthesized comma-separated value list like
// "(1,2,3)" or "('USA','FRA')".
func parseInList(tok string) ([]string, error) {
	if len(tok) < 2 || tok[0] != '(' || tok[len(tok)-1] != ')' {
		return nil, errors.Wrapf(ErrSyntax, "expected (v1,v2,...), got %q", tok)
	}
	inner := tok[1 : len(tok)-1]
	parts := strings.Split(inner, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = unquote(strings.TrimSpace(p))
	}
	return out, nil
}

// unquote strips one layer of matching single or double quotes.
func unquote(tok string) string {
	if len(tok) >= 2 {
		if (tok[0] == '\'' && tok[len(tok)-1] == '\'') || (tok[0] == '"' && tok[len(tok)-1] == '"') {
			return tok[1 : len(tok)-1]
		}
	}
	return tok
}
