// Package query provides composable, parameterized filter predicates.
//
// A Predicate pairs a SQL fragment with its bound arguments. Fragments are
// assembled only from static keywords and ? placeholders; values travel in
// the argument slice and are never interpolated into the fragment text.
package query

import "gorm.io/gorm"

// Predicate is a filter condition with bound parameters. The zero value
// matches everything.
type Predicate struct {
	expr string
	args []any
}

// New builds a predicate from a fragment and its bound values.
func New(expr string, args ...any) Predicate {
	return Predicate{expr: expr, args: args}
}

// MatchAll returns the predicate that places no restriction on the result set.
func MatchAll() Predicate {
	return Predicate{}
}

func (p Predicate) IsEmpty() bool {
	return p.expr == ""
}

func (p Predicate) Expr() string {
	return p.expr
}

func (p Predicate) Args() []any {
	return p.args
}

// And returns the conjunction of p and q. An empty side drops out rather
// than producing a dangling AND.
func (p Predicate) And(q Predicate) Predicate {
	return p.combine("AND", q)
}

// Or returns the disjunction of p and q.
func (p Predicate) Or(q Predicate) Predicate {
	return p.combine("OR", q)
}

func (p Predicate) combine(op string, q Predicate) Predicate {
	if p.IsEmpty() {
		return q
	}
	if q.IsEmpty() {
		return p
	}
	args := make([]any, 0, len(p.args)+len(q.args))
	args = append(args, p.args...)
	args = append(args, q.args...)
	return Predicate{
		expr: "(" + p.expr + ") " + op + " (" + q.expr + ")",
		args: args,
	}
}

// Apply attaches the predicate to a statement. Empty predicates leave the
// statement untouched.
func (p Predicate) Apply(stmt *gorm.DB) *gorm.DB {
	if p.IsEmpty() {
		return stmt
	}
	return stmt.Where(p.expr, p.args...)
}
