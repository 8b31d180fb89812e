package yql

import (
	"errors"
	"fmt"
)

// ErrInvalidFragment is the single error kind of the package: some node in
// the tree failed its construction-time check.
var ErrInvalidFragment = errors.New("invalid query fragment")

// Build returns the rendered text of n, or an error wrapping
// ErrInvalidFragment when n is nil or invalid. It is the one place where
// validity turns into an error.
func Build(n Node) (string, error) {
	if n == nil {
		return "", fmt.Errorf("build: nil node: %w", ErrInvalidFragment)
	}
	if !n.IsValid() {
		return "", fmt.Errorf("build %s: %w", n.Kind(), ErrInvalidFragment)
	}
	return n.Render(), nil
}

// MustBuild is like Build but panics on error.
// Use only in tests or when the query is known to be valid.
func MustBuild(n Node) string {
	text, err := Build(n)
	if err != nil {
		panic(err)
	}
	return text
}

// Finding locates one invalid fragment inside a tree.
type Finding struct {
	// Path is the dotted route from the root, e.g. "where.expr.rhs.column".
	Path string `json:"path"`
	// Message describes the failed check.
	Message string `json:"message"`
}

func (f Finding) String() string {
	return f.Path + ": " + f.Message
}

// Explain reports where n is invalid. Only the deepest failures are listed:
// a composite appears only when all of its children are valid and the
// composition itself was rejected. Explain returns nil for a valid node.
//
// Explain is diagnostic output for people; programs should rely on IsValid.
func Explain(n Node) []Finding {
	e := &explainer{}
	e.node(kindOf(n).String(), n)
	return e.findings
}

// explainer accumulates findings during traversal.
type explainer struct {
	findings []Finding
}

func (e *explainer) add(path, format string, args ...any) {
	e.findings = append(e.findings, Finding{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (e *explainer) node(path string, n Node) {
	if n == nil {
		e.add(path, "missing node")
		return
	}
	if n.IsValid() {
		return
	}

	switch node := n.(type) {
	case CompareExpr:
		e.column(path+".column", node.column)
		e.value(path+".value", node.value)
		if !node.op.IsValid() {
			e.add(path+".op", "unknown operator %q", node.op)
		} else if node.value.valid && node.value.IsNull() && !node.op.acceptsNull() {
			e.add(path, "operator %s cannot compare against null", node.op)
		}
	case BetweenExpr:
		e.column(path+".column", node.column)
		e.bound(path+".lower", node.lower)
		e.bound(path+".upper", node.upper)
	case AmongExpr:
		e.column(path+".column", node.column)
		for i, v := range node.values {
			e.value(fmt.Sprintf("%s.values[%d]", path, i), v)
		}
	case AndExpr:
		e.combination(path, node.lhs, node.rhs)
	case OrExpr:
		e.combination(path, node.lhs, node.rhs)
	case NotExpr:
		e.node(path+".expr", node.expr)
		if isValid(node.expr) && !IsConditional(node.expr) {
			e.add(path+".expr", "%s is not a condition", node.expr.Kind())
		}
	case SelectStmt:
		e.table(path+".table", node.table)
		if len(node.columns) == 0 {
			e.add(path+".columns", "at least one column is required")
		}
		for i, c := range node.columns {
			e.column(fmt.Sprintf("%s.columns[%d]", path, i), c)
		}
	case InsertStmt:
		e.table(path+".table", node.table)
		if node.verbose && len(node.columns) != len(node.values) {
			e.add(path, "%d column(s) but %d value(s)", len(node.columns), len(node.values))
		}
		for i, c := range node.columns {
			e.column(fmt.Sprintf("%s.columns[%d]", path, i), c)
		}
		for i, v := range node.values {
			e.value(fmt.Sprintf("%s.values[%d]", path, i), v)
		}
	case UpdateStmt:
		e.table(path+".table", node.table)
		if len(node.entries) == 0 {
			e.add(path+".set", "at least one entry is required")
		}
		for i, entry := range node.entries {
			e.entry(fmt.Sprintf("%s.set[%d]", path, i), entry)
		}
	case DeleteStmt:
		e.table(path+".table", node.table)
	case WhereClause:
		e.node(path+".inner", node.inner)
		e.node(path+".expr", node.expr)
		if isValid(node.inner) && !IsQuery(node.inner) {
			e.add(path+".inner", "%s is not a query", node.inner.Kind())
		}
		if isValid(node.expr) && !IsConditional(node.expr) {
			e.add(path+".expr", "%s is not a condition", node.expr.Kind())
		}
	case OrderByClause:
		e.selectChain(path, node.inner)
		e.column(path+".column", node.column)
		if node.order != Ascending && node.order != Descending {
			e.add(path+".order", "unknown sort order %d", node.order)
		}
	case GroupByClause:
		e.selectChain(path, node.inner)
		e.column(path+".column", node.column)
	default:
		e.add(path, "unsupported node type %T", n)
	}
}

// combination explains a rejected And/Or.
func (e *explainer) combination(path string, lhs, rhs Node) {
	e.node(path+".lhs", lhs)
	e.node(path+".rhs", rhs)
	if !isValid(lhs) || !isValid(rhs) {
		return
	}
	switch {
	case !IsConditional(rhs):
		e.add(path+".rhs", "%s is not a condition", rhs.Kind())
	case IsQuery(lhs) && !endsInCondition(lhs):
		e.add(path+".lhs", "query ends in %s, not a where clause", lhs.Kind())
	case !IsQuery(lhs) && !IsConditional(lhs):
		e.add(path+".lhs", "%s is neither a condition nor a query", lhs.Kind())
	}
}

// selectChain explains the inner query of an order by or group by.
func (e *explainer) selectChain(path string, inner Node) {
	e.node(path+".inner", inner)
	if isValid(inner) && Base(inner) != KindSelect {
		e.add(path+".inner", "requires a select, found %s", Base(inner))
	}
}

func (e *explainer) table(path string, t Table) {
	if !t.valid {
		e.add(path, "invalid table name %q", t.name)
	}
}

func (e *explainer) column(path string, c Column) {
	if !c.valid {
		e.add(path, "invalid column name %q", c.name)
	}
}

func (e *explainer) value(path string, v Value) {
	if !v.valid {
		e.add(path, "invalid value literal")
	}
}

func (e *explainer) bound(path string, v Value) {
	switch {
	case !v.valid:
		e.add(path, "invalid value literal")
	case v.IsNull():
		e.add(path, "bound cannot be null")
	}
}

func (e *explainer) entry(path string, entry Entry) {
	e.column(path+".column", entry.column)
	if entry.column.valid && entry.column.IsStar() {
		e.add(path+".column", "cannot assign to *")
	}
	e.value(path+".value", entry.value)
}
