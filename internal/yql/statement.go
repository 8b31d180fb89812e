package yql

import "strings"

// SelectStmt reads columns from a table:
//
//	select <c1>,<c2>,...
//	from <table>
type SelectStmt struct {
	table   Table
	columns []Column
	valid   bool
}

// Select returns a select of columns from table. At least one column is
// required; use Star to select every column.
func Select(table Table, columns ...Column) SelectStmt {
	return SelectStmt{
		table:   table,
		columns: cloneSlice(columns),
		valid:   table.valid && len(columns) > 0 && allColumnsValid(columns),
	}
}

func (s SelectStmt) Kind() Kind        { return KindSelect }
func (s SelectStmt) IsValid() bool     { return s.valid }
func (s SelectStmt) Table() Table      { return s.table }
func (s SelectStmt) Columns() []Column { return cloneSlice(s.columns) }
func (SelectStmt) node()               {}
func (SelectStmt) queryNode()          {}

func (s SelectStmt) Render() string {
	return "select " + joinColumns(s.columns) + "\nfrom " + s.table.name + "\n"
}

func (s SelectStmt) Where(expr Condition) WhereClause { return Where(s, expr) }

func (s SelectStmt) OrderBy(column Column, order Order) OrderByClause {
	return OrderBy(s, column, order)
}

func (s SelectStmt) GroupBy(column Column) GroupByClause { return GroupBy(s, column) }

// InsertStmt adds one row to a table. The plain form lists only values:
//
//	insert into <table>
//	values (<v1>,<v2>,...)
//
// The verbose form names the target columns as well:
//
//	insert into <table> (<c1>,<c2>,...)
//	values (<v1>,<v2>,...)
type InsertStmt struct {
	table   Table
	columns []Column
	values  []Value
	verbose bool
	valid   bool
}

// InsertInto returns a plain insert of values into table.
func InsertInto(table Table, values ...Value) InsertStmt {
	return InsertStmt{
		table:  table,
		values: cloneSlice(values),
		valid:  table.valid && allValuesValid(values),
	}
}

// InsertIntoColumns returns a verbose insert assigning values to columns
// position by position. The two lists must have the same length; both may be
// empty.
func InsertIntoColumns(table Table, columns []Column, values []Value) InsertStmt {
	return InsertStmt{
		table:   table,
		columns: cloneSlice(columns),
		values:  cloneSlice(values),
		verbose: true,
		valid: table.valid && len(columns) == len(values) &&
			allColumnsValid(columns) && allValuesValid(values),
	}
}

func (s InsertStmt) Kind() Kind        { return KindInsertInto }
func (s InsertStmt) IsValid() bool     { return s.valid }
func (s InsertStmt) Table() Table      { return s.table }
func (s InsertStmt) Columns() []Column { return cloneSlice(s.columns) }
func (s InsertStmt) Values() []Value   { return cloneSlice(s.values) }
func (s InsertStmt) Verbose() bool     { return s.verbose }
func (InsertStmt) node()               {}
func (InsertStmt) queryNode()          {}

func (s InsertStmt) Render() string {
	var sb strings.Builder
	sb.WriteString("insert into ")
	sb.WriteString(s.table.name)
	if s.verbose {
		sb.WriteString(" (")
		sb.WriteString(joinColumns(s.columns))
		sb.WriteString(")")
	}
	sb.WriteString("\nvalues (")
	sb.WriteString(joinValues(s.values))
	sb.WriteString(")\n")
	return sb.String()
}

func (s InsertStmt) Where(expr Condition) WhereClause { return Where(s, expr) }

// UpdateStmt assigns values to columns:
//
//	update <table>
//	set <c1>=<v1>,<c2>=<v2>,...
type UpdateStmt struct {
	table   Table
	entries []Entry
	valid   bool
}

// Update returns an update of table applying entries in order. At least one
// entry is required.
func Update(table Table, entries ...Entry) UpdateStmt {
	valid := table.valid && len(entries) > 0
	for _, e := range entries {
		valid = valid && e.valid
	}
	return UpdateStmt{table: table, entries: cloneSlice(entries), valid: valid}
}

func (s UpdateStmt) Kind() Kind       { return KindUpdate }
func (s UpdateStmt) IsValid() bool    { return s.valid }
func (s UpdateStmt) Table() Table     { return s.table }
func (s UpdateStmt) Entries() []Entry { return cloneSlice(s.entries) }
func (UpdateStmt) node()              {}
func (UpdateStmt) queryNode()         {}

func (s UpdateStmt) Render() string {
	sets := make([]string, len(s.entries))
	for i, e := range s.entries {
		sets[i] = e.Render()
	}
	return "update " + s.table.name + "\nset " + strings.Join(sets, ",") + "\n"
}

func (s UpdateStmt) Where(expr Condition) WhereClause { return Where(s, expr) }

// DeleteStmt removes rows from a table: "delete from <table>".
type DeleteStmt struct {
	table Table
	valid bool
}

// DeleteFrom returns a delete from table.
func DeleteFrom(table Table) DeleteStmt {
	return DeleteStmt{table: table, valid: table.valid}
}

func (s DeleteStmt) Kind() Kind     { return KindDeleteFrom }
func (s DeleteStmt) IsValid() bool  { return s.valid }
func (s DeleteStmt) Table() Table   { return s.table }
func (s DeleteStmt) Render() string { return "delete from " + s.table.name + "\n" }
func (DeleteStmt) node()            {}
func (DeleteStmt) queryNode()       {}

func (s DeleteStmt) Where(expr Condition) WhereClause { return Where(s, expr) }
