package yql

import (
	"strings"

	"github.com/roach88/yql/internal/token"
)

const (
	nullLiteral = "null"
	starName    = "*"
)

// Table names the table a statement operates on, e.g. "yahoo.finance.quotes".
type Table struct {
	name  string
	valid bool
}

// NewTable returns a Table for name. The table is valid when name is a
// qualified identifier.
func NewTable(name string) Table {
	name = token.Normalize(name)
	return Table{name: name, valid: token.IsQualifiedIdentifier(name)}
}

// Name returns the table name as given.
func (t Table) Name() string { return t.name }

// IsValid reports whether the table name passed validation.
func (t Table) IsValid() bool { return t.valid }

// Column names a column, or all columns when the name is "*".
type Column struct {
	name  string
	valid bool
}

// Star selects every column.
var Star = Column{name: starName, valid: true}

// NewColumn returns a Column for name. The column is valid when name is a
// qualified identifier or exactly "*".
func NewColumn(name string) Column {
	name = token.Normalize(name)
	return Column{name: name, valid: name == starName || token.IsQualifiedIdentifier(name)}
}

// Name returns the column name as given.
func (c Column) Name() string { return c.name }

// IsValid reports whether the column name passed validation.
func (c Column) IsValid() bool { return c.valid }

// IsStar reports whether c is the all-columns wildcard.
func (c Column) IsStar() bool { return c.name == starName }

// Value is a literal operand: a number, a quoted string, or null.
type Value struct {
	literal string
	valid   bool
}

// Null is the literal null.
var Null = Value{literal: nullLiteral, valid: true}

// NewValue returns a Value for literal. The value is valid when literal is a
// number, a quoted string or the keyword null. An invalid value keeps the
// null literal so that whatever it is composed into still renders.
func NewValue(literal string) Value {
	literal = token.Normalize(literal)
	switch {
	case literal == nullLiteral:
		return Null
	case token.IsNumber(literal), token.IsQuotedString(literal):
		return Value{literal: literal, valid: true}
	default:
		return Value{literal: nullLiteral}
	}
}

// Literal returns the value's literal text.
func (v Value) Literal() string {
	if v.literal == "" {
		return nullLiteral
	}
	return v.literal
}

// IsNull reports whether v is the null literal.
func (v Value) IsNull() bool { return v.Literal() == nullLiteral }

// IsValid reports whether the literal passed validation.
func (v Value) IsValid() bool { return v.valid }

// Entry is a column assignment in an update statement.
type Entry struct {
	column Column
	value  Value
	valid  bool
}

// NewEntry returns the assignment column=value. The entry is valid when both
// sides are valid and the column is not "*".
func NewEntry(column Column, value Value) Entry {
	return Entry{
		column: column,
		value:  value,
		valid:  column.valid && !column.IsStar() && value.valid,
	}
}

// Column returns the assigned column.
func (e Entry) Column() Column { return e.column }

// Value returns the assigned value.
func (e Entry) Value() Value { return e.value }

// IsValid reports whether the entry passed validation.
func (e Entry) IsValid() bool { return e.valid }

// Render returns "column=value".
func (e Entry) Render() string {
	return e.column.name + "=" + e.value.Literal()
}

// joinColumns renders columns comma-separated with no whitespace.
func joinColumns(columns []Column) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return strings.Join(names, ",")
}

// joinValues renders values comma-separated with no whitespace.
func joinValues(values []Value) string {
	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = v.Literal()
	}
	return strings.Join(literals, ",")
}

func allColumnsValid(columns []Column) bool {
	for _, c := range columns {
		if !c.valid {
			return false
		}
	}
	return true
}

func allValuesValid(values []Value) bool {
	for _, v := range values {
		if !v.valid {
			return false
		}
	}
	return true
}
