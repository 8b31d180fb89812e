package yql

import "strings"

// Op is a comparison operator.
type Op string

const (
	OpEqual          Op = "="
	OpNotEqual       Op = "!="
	OpLess           Op = "<"
	OpGreater        Op = ">"
	OpLessOrEqual    Op = "<="
	OpGreaterOrEqual Op = ">="
)

// IsValid reports whether op is one of the six comparison operators.
func (op Op) IsValid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpGreater, OpLessOrEqual, OpGreaterOrEqual:
		return true
	}
	return false
}

// acceptsNull reports whether null is a meaningful operand for op.
// Ordering against null is rejected.
func (op Op) acceptsNull() bool {
	return op == OpEqual || op == OpNotEqual
}

// CompareExpr compares a column to a value: "<column><op><value>".
type CompareExpr struct {
	column Column
	op     Op
	value  Value
	valid  bool
}

// Compare returns the comparison column op value.
func Compare(column Column, op Op, value Value) CompareExpr {
	return CompareExpr{
		column: column,
		op:     op,
		value:  value,
		valid: column.valid && value.valid && op.IsValid() &&
			(op.acceptsNull() || !value.IsNull()),
	}
}

func Equal(column Column, value Value) CompareExpr {
	return Compare(column, OpEqual, value)
}

func NotEqual(column Column, value Value) CompareExpr {
	return Compare(column, OpNotEqual, value)
}

func LessThan(column Column, value Value) CompareExpr {
	return Compare(column, OpLess, value)
}

func GreaterThan(column Column, value Value) CompareExpr {
	return Compare(column, OpGreater, value)
}

func LessThanOrEqual(column Column, value Value) CompareExpr {
	return Compare(column, OpLessOrEqual, value)
}

func GreaterThanOrEqual(column Column, value Value) CompareExpr {
	return Compare(column, OpGreaterOrEqual, value)
}

func (e CompareExpr) Kind() Kind     { return KindCompare }
func (e CompareExpr) IsValid() bool  { return e.valid }
func (e CompareExpr) Column() Column { return e.column }
func (e CompareExpr) Op() Op         { return e.op }
func (e CompareExpr) Value() Value   { return e.value }
func (CompareExpr) node()            {}
func (CompareExpr) conditionNode()   {}

func (e CompareExpr) Render() string {
	return e.column.name + string(e.op) + e.value.Literal()
}

func (e CompareExpr) And(rhs Condition) AndExpr { return And(e, rhs) }
func (e CompareExpr) Or(rhs Condition) OrExpr   { return Or(e, rhs) }

// BetweenExpr is an inclusive range test:
// "<column> between <lower> and <upper>".
type BetweenExpr struct {
	column Column
	lower  Value
	upper  Value
	valid  bool
}

// Between returns the range test lower <= column <= upper. Both bounds must
// be non-null.
func Between(column Column, lower, upper Value) BetweenExpr {
	return BetweenExpr{
		column: column,
		lower:  lower,
		upper:  upper,
		valid: column.valid &&
			lower.valid && !lower.IsNull() &&
			upper.valid && !upper.IsNull(),
	}
}

func (e BetweenExpr) Kind() Kind     { return KindBetween }
func (e BetweenExpr) IsValid() bool  { return e.valid }
func (e BetweenExpr) Column() Column { return e.column }
func (e BetweenExpr) Lower() Value   { return e.lower }
func (e BetweenExpr) Upper() Value   { return e.upper }
func (BetweenExpr) node()            {}
func (BetweenExpr) conditionNode()   {}

func (e BetweenExpr) Render() string {
	return e.column.name + " between " + e.lower.Literal() + " and " + e.upper.Literal()
}

func (e BetweenExpr) And(rhs Condition) AndExpr { return And(e, rhs) }
func (e BetweenExpr) Or(rhs Condition) OrExpr   { return Or(e, rhs) }

// AmongExpr is a set membership test: "<column> in (<v1>,<v2>,...)".
type AmongExpr struct {
	column Column
	values []Value
	valid  bool
}

// Among returns the membership test column in (values...). Members keep
// their order and may individually be null.
func Among(column Column, values ...Value) AmongExpr {
	return AmongExpr{
		column: column,
		values: cloneSlice(values),
		valid:  column.valid && allValuesValid(values),
	}
}

func (e AmongExpr) Kind() Kind      { return KindAmong }
func (e AmongExpr) IsValid() bool   { return e.valid }
func (e AmongExpr) Column() Column  { return e.column }
func (e AmongExpr) Values() []Value { return cloneSlice(e.values) }
func (AmongExpr) node()             {}
func (AmongExpr) conditionNode()    {}

func (e AmongExpr) Render() string {
	var sb strings.Builder
	sb.WriteString(e.column.name)
	sb.WriteString(" in (")
	sb.WriteString(joinValues(e.values))
	sb.WriteString(")")
	return sb.String()
}

func (e AmongExpr) And(rhs Condition) AndExpr { return And(e, rhs) }
func (e AmongExpr) Or(rhs Condition) OrExpr   { return Or(e, rhs) }

// Comparison builders on Column, so conditions read left to right:
//
//	yql.NewColumn("price").LessThan(yql.NewValue("300"))

func (c Column) Equal(v Value) CompareExpr              { return Equal(c, v) }
func (c Column) NotEqual(v Value) CompareExpr           { return NotEqual(c, v) }
func (c Column) LessThan(v Value) CompareExpr           { return LessThan(c, v) }
func (c Column) GreaterThan(v Value) CompareExpr        { return GreaterThan(c, v) }
func (c Column) LessThanOrEqual(v Value) CompareExpr    { return LessThanOrEqual(c, v) }
func (c Column) GreaterThanOrEqual(v Value) CompareExpr { return GreaterThanOrEqual(c, v) }
func (c Column) Between(lower, upper Value) BetweenExpr { return Between(c, lower, upper) }
func (c Column) Among(values ...Value) AmongExpr        { return Among(c, values...) }

// cloneSlice returns a copy of s, or nil for an empty s.
func cloneSlice[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
