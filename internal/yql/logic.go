package yql

// AndExpr is the conjunction of two conditions, or a condition appended to a
// query that ends in a where clause.
//
// Rendering depends on the left-hand side:
//
//	lhs is a condition:  "<lhs> and <rhs>"
//	lhs is a query:      "<lhs>and <rhs>\n"
//
// An Or on either side of a condition-mode And is parenthesized (only the rhs
// can be an Or in query mode), so the rendered text keeps the tree's
// grouping under the usual precedence where and binds tighter than or.
type AndExpr struct {
	lhs   Node
	rhs   Node
	query bool
	valid bool
}

// And returns lhs and rhs. rhs must be a condition; lhs must be a condition
// or a query whose last link is a where clause (or an And/Or on one).
func And(lhs, rhs Node) AndExpr {
	query, ok := combine(lhs, rhs)
	return AndExpr{lhs: lhs, rhs: rhs, query: query, valid: ok}
}

func (e AndExpr) Kind() Kind    { return KindAnd }
func (e AndExpr) IsValid() bool { return e.valid }
func (e AndExpr) Lhs() Node     { return e.lhs }
func (e AndExpr) Rhs() Node     { return e.rhs }
func (AndExpr) node()           {}
func (AndExpr) queryNode()      {}
func (AndExpr) conditionNode()  {}

func (e AndExpr) Render() string {
	rhs := render(e.rhs)
	if kindOf(e.rhs) == KindOr {
		rhs = "(" + rhs + ")"
	}
	if e.query {
		return render(e.lhs) + "and " + rhs + "\n"
	}

	lhs := render(e.lhs)
	if kindOf(e.lhs) == KindOr {
		lhs = "(" + lhs + ")"
	}
	return lhs + " and " + rhs
}

func (e AndExpr) And(rhs Condition) AndExpr           { return And(e, rhs) }
func (e AndExpr) Or(rhs Condition) OrExpr             { return Or(e, rhs) }
func (e AndExpr) Where(expr Condition) WhereClause    { return Where(e, expr) }
func (e AndExpr) GroupBy(column Column) GroupByClause { return GroupBy(e, column) }

func (e AndExpr) OrderBy(column Column, order Order) OrderByClause {
	return OrderBy(e, column, order)
}

// OrExpr is the disjunction of two conditions, or a condition appended to a
// query that ends in a where clause.
//
//	lhs is a condition:  "<lhs> or <rhs>"
//	lhs is a query:      "<lhs>or <rhs>\n"
//
// Or never parenthesizes its operands: or is associative and binds loosest.
type OrExpr struct {
	lhs   Node
	rhs   Node
	query bool
	valid bool
}

// Or returns lhs or rhs, under the same operand rules as And.
func Or(lhs, rhs Node) OrExpr {
	query, ok := combine(lhs, rhs)
	return OrExpr{lhs: lhs, rhs: rhs, query: query, valid: ok}
}

func (e OrExpr) Kind() Kind    { return KindOr }
func (e OrExpr) IsValid() bool { return e.valid }
func (e OrExpr) Lhs() Node     { return e.lhs }
func (e OrExpr) Rhs() Node     { return e.rhs }
func (OrExpr) node()           {}
func (OrExpr) queryNode()      {}
func (OrExpr) conditionNode()  {}

func (e OrExpr) Render() string {
	if e.query {
		return render(e.lhs) + "or " + render(e.rhs) + "\n"
	}
	return render(e.lhs) + " or " + render(e.rhs)
}

func (e OrExpr) And(rhs Condition) AndExpr           { return And(e, rhs) }
func (e OrExpr) Or(rhs Condition) OrExpr             { return Or(e, rhs) }
func (e OrExpr) Where(expr Condition) WhereClause    { return Where(e, expr) }
func (e OrExpr) GroupBy(column Column) GroupByClause { return GroupBy(e, column) }

func (e OrExpr) OrderBy(column Column, order Order) OrderByClause {
	return OrderBy(e, column, order)
}

// NotExpr negates a condition: "not <expr>", or "not (<expr>)" when expr is
// an And or Or.
type NotExpr struct {
	expr  Node
	valid bool
}

// Not returns the negation of expr.
func Not(expr Node) NotExpr {
	return NotExpr{expr: expr, valid: isValid(expr) && IsConditional(expr)}
}

func (e NotExpr) Kind() Kind    { return KindNot }
func (e NotExpr) IsValid() bool { return e.valid }
func (e NotExpr) Expr() Node    { return e.expr }
func (NotExpr) node()           {}
func (NotExpr) conditionNode()  {}

func (e NotExpr) Render() string {
	switch kindOf(e.expr) {
	case KindAnd, KindOr:
		return "not (" + render(e.expr) + ")"
	default:
		return "not " + render(e.expr)
	}
}

func (e NotExpr) And(rhs Condition) AndExpr { return And(e, rhs) }
func (e NotExpr) Or(rhs Condition) OrExpr   { return Or(e, rhs) }

// combine checks the operands of And/Or. It reports whether lhs is a query
// (which selects the line-oriented rendering) and whether the combination is
// valid.
func combine(lhs, rhs Node) (query, ok bool) {
	query = IsQuery(lhs)
	if !isValid(lhs) || !isValid(rhs) || !IsConditional(rhs) {
		return query, false
	}
	if query {
		return true, endsInCondition(lhs)
	}
	return false, IsConditional(lhs)
}

// kindOf is Kind with nil mapped to KindInvalid.
func kindOf(n Node) Kind {
	if n == nil {
		return KindInvalid
	}
	return n.Kind()
}
