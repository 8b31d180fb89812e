package yql

// Kind identifies the concrete type of a Node.
type Kind int

const (
	KindInvalid Kind = iota
	KindCompare
	KindBetween
	KindAmong
	KindAnd
	KindOr
	KindNot
	KindSelect
	KindInsertInto
	KindUpdate
	KindDeleteFrom
	KindWhere
	KindOrderBy
	KindGroupBy
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindCompare:    "compare",
	KindBetween:    "between",
	KindAmong:      "among",
	KindAnd:        "and",
	KindOr:         "or",
	KindNot:        "not",
	KindSelect:     "select",
	KindInsertInto: "insert",
	KindUpdate:     "update",
	KindDeleteFrom: "delete",
	KindWhere:      "where",
	KindOrderBy:    "order_by",
	KindGroupBy:    "group_by",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// IsStatement reports whether k is one of the four base statements.
func (k Kind) IsStatement() bool {
	switch k {
	case KindSelect, KindInsertInto, KindUpdate, KindDeleteFrom:
		return true
	}
	return false
}

// Node is implemented by every statement, clause and conditional expression.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	// Kind returns the node's concrete kind.
	Kind() Kind
	// IsValid reports whether the node and all of its descendants passed
	// their construction-time checks.
	IsValid() bool
	// Render returns the node's YQL text. The result is unspecified when
	// IsValid is false.
	Render() string

	node()
}

// Query is a node that can carry clauses: a base statement, a clause, or an
// And/Or chained onto a where clause.
type Query interface {
	Node
	queryNode()
}

// Condition is a node usable as the filter of a where clause.
type Condition interface {
	Node
	conditionNode()
}

// Base walks the inner/lhs links of n down to its root and returns the kind
// of the base statement found there. It returns KindInvalid when n is nil or
// the chain does not end at a statement (e.g. a bare condition).
func Base(n Node) Kind {
	switch node := n.(type) {
	case nil:
		return KindInvalid
	case SelectStmt, InsertStmt, UpdateStmt, DeleteStmt:
		return node.Kind()
	case WhereClause:
		return Base(node.inner)
	case OrderByClause:
		return Base(node.inner)
	case GroupByClause:
		return Base(node.inner)
	case AndExpr:
		return Base(node.lhs)
	case OrExpr:
		return Base(node.lhs)
	default:
		return KindInvalid
	}
}

// IsQuery reports whether n resolves to a base statement.
func IsQuery(n Node) bool {
	return Base(n).IsStatement()
}

// IsConditional reports whether n is a conditional expression: a leaf
// comparison, or And/Or/Not over conditional expressions only.
func IsConditional(n Node) bool {
	switch node := n.(type) {
	case nil:
		return false
	case CompareExpr, BetweenExpr, AmongExpr:
		return true
	case NotExpr:
		return IsConditional(node.expr)
	case AndExpr:
		return IsConditional(node.lhs) && IsConditional(node.rhs)
	case OrExpr:
		return IsConditional(node.lhs) && IsConditional(node.rhs)
	default:
		return false
	}
}

// endsInCondition reports whether the outermost link of the query n is a
// where clause or an And/Or chained onto one, i.e. whether another
// condition may be appended to it.
func endsInCondition(n Node) bool {
	switch node := n.(type) {
	case WhereClause:
		return true
	case AndExpr:
		return endsInCondition(node.lhs)
	case OrExpr:
		return endsInCondition(node.lhs)
	default:
		return false
	}
}

// isValid is IsValid with nil treated as invalid.
func isValid(n Node) bool {
	return n != nil && n.IsValid()
}

// render is Render with nil rendering as the empty string.
func render(n Node) string {
	if n == nil {
		return ""
	}
	return n.Render()
}
