package yql

// Order is the sort direction of an order by clause.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// ParseOrder maps "asc"/"ascending" and "desc"/"descending" to an Order.
// The empty string means Ascending.
func ParseOrder(s string) (Order, bool) {
	switch s {
	case "", "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	}
	return Ascending, false
}

// WhereClause filters the rows of its inner query: "<inner>where <expr>\n".
type WhereClause struct {
	inner Node
	expr  Node
	valid bool
}

// Where attaches the condition expr to inner. inner may be any query: a base
// statement or a chain of clauses over one.
func Where(inner, expr Node) WhereClause {
	return WhereClause{
		inner: inner,
		expr:  expr,
		valid: isValid(inner) && IsQuery(inner) &&
			isValid(expr) && IsConditional(expr),
	}
}

func (c WhereClause) Kind() Kind    { return KindWhere }
func (c WhereClause) IsValid() bool { return c.valid }
func (c WhereClause) Inner() Node   { return c.inner }
func (c WhereClause) Expr() Node    { return c.expr }
func (WhereClause) node()           {}
func (WhereClause) queryNode()      {}

func (c WhereClause) Render() string {
	return render(c.inner) + "where " + render(c.expr) + "\n"
}

func (c WhereClause) And(rhs Condition) AndExpr           { return And(c, rhs) }
func (c WhereClause) Or(rhs Condition) OrExpr             { return Or(c, rhs) }
func (c WhereClause) Where(expr Condition) WhereClause    { return Where(c, expr) }
func (c WhereClause) GroupBy(column Column) GroupByClause { return GroupBy(c, column) }

func (c WhereClause) OrderBy(column Column, order Order) OrderByClause {
	return OrderBy(c, column, order)
}

// OrderByClause sorts a select: "<inner>order by <column> <asc|desc>\n".
type OrderByClause struct {
	inner  Node
	column Column
	order  Order
	valid  bool
}

// OrderBy sorts inner by column. inner must be rooted at a select statement;
// any other chain yields an invalid clause.
func OrderBy(inner Node, column Column, order Order) OrderByClause {
	return OrderByClause{
		inner:  inner,
		column: column,
		order:  order,
		valid: isValid(inner) && Base(inner) == KindSelect &&
			column.valid && (order == Ascending || order == Descending),
	}
}

func (c OrderByClause) Kind() Kind     { return KindOrderBy }
func (c OrderByClause) IsValid() bool  { return c.valid }
func (c OrderByClause) Inner() Node    { return c.inner }
func (c OrderByClause) Column() Column { return c.column }
func (c OrderByClause) Order() Order   { return c.order }
func (OrderByClause) node()            {}
func (OrderByClause) queryNode()       {}

func (c OrderByClause) Render() string {
	return render(c.inner) + "order by " + c.column.name + " " + c.order.String() + "\n"
}

func (c OrderByClause) Where(expr Condition) WhereClause    { return Where(c, expr) }
func (c OrderByClause) GroupBy(column Column) GroupByClause { return GroupBy(c, column) }

func (c OrderByClause) OrderBy(column Column, order Order) OrderByClause {
	return OrderBy(c, column, order)
}

// GroupByClause groups a select: "<inner>group by <column>\n".
type GroupByClause struct {
	inner  Node
	column Column
	valid  bool
}

// GroupBy groups inner by column. inner must be rooted at a select
// statement.
func GroupBy(inner Node, column Column) GroupByClause {
	return GroupByClause{
		inner:  inner,
		column: column,
		valid:  isValid(inner) && Base(inner) == KindSelect && column.valid,
	}
}

func (c GroupByClause) Kind() Kind     { return KindGroupBy }
func (c GroupByClause) IsValid() bool  { return c.valid }
func (c GroupByClause) Inner() Node    { return c.inner }
func (c GroupByClause) Column() Column { return c.column }
func (GroupByClause) node()            {}
func (GroupByClause) queryNode()       {}

func (c GroupByClause) Render() string {
	return render(c.inner) + "group by " + c.column.name + "\n"
}

func (c GroupByClause) Where(expr Condition) WhereClause    { return Where(c, expr) }
func (c GroupByClause) GroupBy(column Column) GroupByClause { return GroupBy(c, column) }

func (c GroupByClause) OrderBy(column Column, order Order) OrderByClause {
	return OrderBy(c, column, order)
}
