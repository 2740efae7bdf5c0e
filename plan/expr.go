// Package plan defines the logical plan-node and expression shapes the
// optimizer rule pattern-matches against. It mirrors (in idiomatic Go) an
// educational database's plan/expression hierarchy.
package plan

import "github.com/lmika/vectorbase/core"

// Expression is any node in an order-by or projection expression tree.
type Expression interface {
	isExpression()
}

// ColumnRef is a bare reference to a column by name, resolved to a
// VECTOR-typed column of the scanned table.
type ColumnRef struct {
	Column string
}

func (ColumnRef) isExpression() {}

// ArrayLiteral is an array of constants — the bound query vector, e.g.
// ARRAY[1,2,3] in the SQL surface.
type ArrayLiteral struct {
	Values core.Vector
}

func (ArrayLiteral) isExpression() {}

// DistanceCall is a call to one of the three distance functions, with one
// argument expected to be a ColumnRef and the other an ArrayLiteral.
type DistanceCall struct {
	Metric core.Metric
	Args   [2]Expression
}

func (DistanceCall) isExpression() {}

// ColumnAndArray inspects a DistanceCall's two arguments and returns the
// column reference and array literal regardless of which argument
// position each occupies. ok is false unless exactly one ColumnRef and
// one ArrayLiteral are present.
func (d DistanceCall) ColumnAndArray() (col ColumnRef, arr ArrayLiteral, ok bool) {
	var gotCol, gotArr bool
	for _, arg := range d.Args {
		switch v := arg.(type) {
		case ColumnRef:
			col, gotCol = v, true
		case ArrayLiteral:
			arr, gotArr = v, true
		}
	}
	return col, arr, gotCol && gotArr
}

// OtherExpr is any projection/identity expression not otherwise modeled —
// used to preserve the original output schema/expressions of a Projection
// node across the rewrite without the optimizer needing to understand it.
type OtherExpr struct {
	Name string
}

func (OtherExpr) isExpression() {}
