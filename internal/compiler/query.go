package compiler

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"

	"github.com/roach88/yql/internal/yql"
)

// Definition is a named query compiled from CUE.
type Definition struct {
	Name  string
	Query yql.Query
}

// statementFields are the mutually exclusive statement keys of a query.
var statementFields = []string{"select", "insert", "update", "delete"}

// queryFields are all keys a query struct may contain.
var queryFields = map[string]bool{
	"select":   true,
	"insert":   true,
	"update":   true,
	"delete":   true,
	"where":    true,
	"group_by": true,
	"order_by": true,
}

// CompileQuery parses a CUE value into a query Definition.
//
// The CUE value should be the query struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`query: recent: { select: {...} }`)
//	def, err := CompileQuery(v.LookupPath(cue.ParsePath("query.recent")))
func CompileQuery(v cue.Value) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("query", err)
	}

	def := &Definition{}

	// Query name is the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = labels[len(labels)-1].String()
	}

	if err := checkFields(v, "query", queryFields); err != nil {
		return nil, err
	}

	q, err := parseStatement(v)
	if err != nil {
		return nil, err
	}

	if whereVal := v.LookupPath(cue.ParsePath("where")); whereVal.Exists() {
		cond, err := parseCondition(whereVal, "where")
		if err != nil {
			return nil, err
		}
		q = yql.Where(q, cond)
	}

	q, err = parseGroupBy(v, q)
	if err != nil {
		return nil, err
	}

	q, err = parseOrderBy(v, q)
	if err != nil {
		return nil, err
	}

	def.Query = q
	return def, nil
}

// CompileAll compiles every query under the top-level "query" field of v.
// Definitions are returned sorted by name; each failing query contributes
// one error and is left out of the result.
func CompileAll(v cue.Value) ([]Definition, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{formatCUEError("query", err)}
	}

	queriesVal := v.LookupPath(cue.ParsePath("query"))
	if !queriesVal.Exists() {
		return nil, nil
	}

	iter, err := queriesVal.Fields()
	if err != nil {
		return nil, []error{formatCUEError("query", err)}
	}

	var defs []Definition
	var errs []error
	for iter.Next() {
		def, err := CompileQuery(iter.Value())
		if err != nil {
			errs = append(errs, &QueryError{Query: iter.Selector().String(), Err: err})
			continue
		}
		defs = append(defs, *def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})

	return defs, errs
}

// parseStatement builds the base statement of a query.
func parseStatement(v cue.Value) (yql.Query, error) {
	var found []string
	for _, name := range statementFields {
		if v.LookupPath(cue.ParsePath(name)).Exists() {
			found = append(found, name)
		}
	}

	switch len(found) {
	case 0:
		return nil, &CompileError{
			Field:   "query",
			Code:    ErrMissingStatement,
			Message: "one of select, insert, update, delete is required",
			Pos:     v.Pos(),
		}
	case 1:
	default:
		return nil, &CompileError{
			Field:   found[1],
			Code:    ErrMultipleStatements,
			Message: fmt.Sprintf("only one statement allowed, found %s and %s", found[0], found[1]),
			Pos:     v.LookupPath(cue.ParsePath(found[1])).Pos(),
		}
	}

	stmtVal := v.LookupPath(cue.ParsePath(found[0]))
	switch found[0] {
	case "select":
		return parseSelect(stmtVal)
	case "insert":
		return parseInsert(stmtVal)
	case "update":
		return parseUpdate(stmtVal)
	default:
		return parseDelete(stmtVal)
	}
}

func parseSelect(v cue.Value) (yql.Query, error) {
	if err := checkFields(v, "select", map[string]bool{"from": true, "columns": true}); err != nil {
		return nil, err
	}
	table, err := requiredString(v, "select", "from")
	if err != nil {
		return nil, err
	}
	columns, err := stringList(v, "select", "columns", true)
	if err != nil {
		return nil, err
	}
	return yql.Select(yql.NewTable(table), toColumns(columns)...), nil
}

func parseInsert(v cue.Value) (yql.Query, error) {
	if err := checkFields(v, "insert", map[string]bool{"into": true, "columns": true, "values": true}); err != nil {
		return nil, err
	}
	table, err := requiredString(v, "insert", "into")
	if err != nil {
		return nil, err
	}

	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if !valuesVal.Exists() {
		return nil, missingField("insert", "values", v)
	}
	values, err := parseValues(valuesVal, "insert.values")
	if err != nil {
		return nil, err
	}

	// columns present selects the verbose form, even when empty
	if !v.LookupPath(cue.ParsePath("columns")).Exists() {
		return yql.InsertInto(yql.NewTable(table), values...), nil
	}
	columns, err := stringList(v, "insert", "columns", false)
	if err != nil {
		return nil, err
	}
	return yql.InsertIntoColumns(yql.NewTable(table), toColumns(columns), values), nil
}

func parseUpdate(v cue.Value) (yql.Query, error) {
	if err := checkFields(v, "update", map[string]bool{"table": true, "set": true}); err != nil {
		return nil, err
	}
	table, err := requiredString(v, "update", "table")
	if err != nil {
		return nil, err
	}

	setVal := v.LookupPath(cue.ParsePath("set"))
	if !setVal.Exists() {
		return nil, missingField("update", "set", v)
	}
	iter, err := setVal.List()
	if err != nil {
		return nil, wrongKind("update.set", "list", setVal)
	}

	var entries []yql.Entry
	for i := 0; iter.Next(); i++ {
		field := fmt.Sprintf("update.set[%d]", i)
		entryVal := iter.Value()
		if err := checkFields(entryVal, field, map[string]bool{"column": true, "value": true}); err != nil {
			return nil, err
		}
		column, err := requiredString(entryVal, field, "column")
		if err != nil {
			return nil, err
		}
		valueVal := entryVal.LookupPath(cue.ParsePath("value"))
		if !valueVal.Exists() {
			return nil, missingField(field, "value", entryVal)
		}
		value, err := parseValue(valueVal, field+".value")
		if err != nil {
			return nil, err
		}
		entries = append(entries, yql.NewEntry(yql.NewColumn(column), value))
	}
	return yql.Update(yql.NewTable(table), entries...), nil
}

func parseDelete(v cue.Value) (yql.Query, error) {
	if err := checkFields(v, "delete", map[string]bool{"from": true}); err != nil {
		return nil, err
	}
	table, err := requiredString(v, "delete", "from")
	if err != nil {
		return nil, err
	}
	return yql.DeleteFrom(yql.NewTable(table)), nil
}

func parseGroupBy(v cue.Value, q yql.Query) (yql.Query, error) {
	if !v.LookupPath(cue.ParsePath("group_by")).Exists() {
		return q, nil
	}
	columns, err := stringList(v, "", "group_by", false)
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		q = yql.GroupBy(q, yql.NewColumn(c))
	}
	return q, nil
}

func parseOrderBy(v cue.Value, q yql.Query) (yql.Query, error) {
	orderVal := v.LookupPath(cue.ParsePath("order_by"))
	if !orderVal.Exists() {
		return q, nil
	}
	iter, err := orderVal.List()
	if err != nil {
		return nil, wrongKind("order_by", "list", orderVal)
	}

	for i := 0; iter.Next(); i++ {
		field := fmt.Sprintf("order_by[%d]", i)
		itemVal := iter.Value()
		if err := checkFields(itemVal, field, map[string]bool{"column": true, "order": true}); err != nil {
			return nil, err
		}
		column, err := requiredString(itemVal, field, "column")
		if err != nil {
			return nil, err
		}

		order := yql.Ascending
		if dirVal := itemVal.LookupPath(cue.ParsePath("order")); dirVal.Exists() {
			dir, err := dirVal.String()
			if err != nil {
				return nil, wrongKind(field+".order", "string", dirVal)
			}
			parsed, ok := yql.ParseOrder(dir)
			if !ok {
				return nil, &CompileError{
					Field:   field + ".order",
					Code:    ErrUnknownOrder,
					Message: fmt.Sprintf("unknown sort order %q (want asc or desc)", dir),
					Pos:     dirVal.Pos(),
				}
			}
			order = parsed
		}
		q = yql.OrderBy(q, yql.NewColumn(column), order)
	}
	return q, nil
}

// checkFields rejects struct fields outside allowed.
func checkFields(v cue.Value, field string, allowed map[string]bool) error {
	iter, err := v.Fields()
	if err != nil {
		return wrongKind(field, "struct", v)
	}
	for iter.Next() {
		name := iter.Selector().String()
		if !allowed[name] {
			return &CompileError{
				Field:   field,
				Code:    ErrUnknownField,
				Message: fmt.Sprintf("unknown field %q", name),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// requiredString reads a mandatory string field of v.
func requiredString(v cue.Value, field, name string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", missingField(field, name, v)
	}
	s, err := fv.String()
	if err != nil {
		return "", wrongKind(field+"."+name, "string", fv)
	}
	return s, nil
}

// stringList reads a list of strings. A missing list is an error only
// when required is set.
func stringList(v cue.Value, parent, name string, required bool) ([]string, error) {
	field := name
	if parent != "" {
		field = parent + "." + name
	}

	listVal := v.LookupPath(cue.ParsePath(name))
	if !listVal.Exists() {
		if required {
			return nil, missingField(parent, name, v)
		}
		return nil, nil
	}
	iter, err := listVal.List()
	if err != nil {
		return nil, wrongKind(field, "list", listVal)
	}

	var out []string
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, wrongKind(fmt.Sprintf("%s[%d]", field, i), "string", iter.Value())
		}
		out = append(out, s)
	}
	return out, nil
}

func toColumns(names []string) []yql.Column {
	columns := make([]yql.Column, len(names))
	for i, name := range names {
		columns[i] = yql.NewColumn(name)
	}
	return columns
}

func missingField(field, name string, v cue.Value) *CompileError {
	return &CompileError{
		Field:   field,
		Code:    ErrMissingField,
		Message: name + " is required",
		Pos:     v.Pos(),
	}
}

func wrongKind(field, want string, v cue.Value) *CompileError {
	return &CompileError{
		Field:   field,
		Code:    ErrWrongKind,
		Message: fmt.Sprintf("expected %s, got %v", want, v.IncompleteKind()),
		Pos:     v.Pos(),
	}
}
