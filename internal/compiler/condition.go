package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"

	"github.com/roach88/yql/internal/yql"
)

// parseCondition builds a conditional expression from one of the condition
// forms: comparison, between, among, and, or, not.
func parseCondition(v cue.Value, field string) (yql.Condition, error) {
	if _, err := v.Fields(); err != nil {
		return nil, wrongKind(field, "struct", v)
	}

	has := func(name string) bool {
		return v.LookupPath(cue.ParsePath(name)).Exists()
	}

	switch {
	case has("and"):
		return parseJunction(v, field, "and")
	case has("or"):
		return parseJunction(v, field, "or")
	case has("not"):
		if err := checkFields(v, field, map[string]bool{"not": true}); err != nil {
			return nil, err
		}
		inner, err := parseCondition(v.LookupPath(cue.ParsePath("not")), field+".not")
		if err != nil {
			return nil, err
		}
		return yql.Not(inner), nil
	case has("between"):
		return parseBetween(v, field)
	case has("among"):
		return parseAmong(v, field)
	case has("op"):
		return parseCompare(v, field)
	}

	return nil, &CompileError{
		Field:   field,
		Code:    ErrInvalidCondition,
		Message: "condition needs one of op, between, among, and, or, not",
		Pos:     v.Pos(),
	}
}

// parseJunction folds a list of conditions left: [a, b, c] becomes
// (a op b) op c.
func parseJunction(v cue.Value, field, op string) (yql.Condition, error) {
	if err := checkFields(v, field, map[string]bool{op: true}); err != nil {
		return nil, err
	}

	listVal := v.LookupPath(cue.ParsePath(op))
	iter, err := listVal.List()
	if err != nil {
		return nil, wrongKind(field+"."+op, "list", listVal)
	}

	var acc yql.Condition
	for i := 0; iter.Next(); i++ {
		cond, err := parseCondition(iter.Value(), fmt.Sprintf("%s.%s[%d]", field, op, i))
		if err != nil {
			return nil, err
		}
		switch {
		case acc == nil:
			acc = cond
		case op == "and":
			acc = yql.And(acc, cond)
		default:
			acc = yql.Or(acc, cond)
		}
	}

	if acc == nil {
		return nil, &CompileError{
			Field:   field + "." + op,
			Code:    ErrInvalidCondition,
			Message: "at least one condition is required",
			Pos:     listVal.Pos(),
		}
	}
	return acc, nil
}

func parseCompare(v cue.Value, field string) (yql.Condition, error) {
	if err := checkFields(v, field, map[string]bool{"column": true, "op": true, "value": true}); err != nil {
		return nil, err
	}
	column, err := requiredString(v, field, "column")
	if err != nil {
		return nil, err
	}

	opVal := v.LookupPath(cue.ParsePath("op"))
	opStr, err := opVal.String()
	if err != nil {
		return nil, wrongKind(field+".op", "string", opVal)
	}
	op := yql.Op(opStr)
	if !op.IsValid() {
		return nil, &CompileError{
			Field:   field + ".op",
			Code:    ErrUnknownOperator,
			Message: fmt.Sprintf("unknown operator %q", opStr),
			Pos:     opVal.Pos(),
		}
	}

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return nil, missingField(field, "value", v)
	}
	value, err := parseValue(valueVal, field+".value")
	if err != nil {
		return nil, err
	}

	return yql.Compare(yql.NewColumn(column), op, value), nil
}

func parseBetween(v cue.Value, field string) (yql.Condition, error) {
	if err := checkFields(v, field, map[string]bool{"column": true, "between": true}); err != nil {
		return nil, err
	}
	column, err := requiredString(v, field, "column")
	if err != nil {
		return nil, err
	}

	boundsVal := v.LookupPath(cue.ParsePath("between"))
	bounds, err := parseValues(boundsVal, field+".between")
	if err != nil {
		return nil, err
	}
	if len(bounds) != 2 {
		return nil, &CompileError{
			Field:   field + ".between",
			Code:    ErrWrongKind,
			Message: fmt.Sprintf("expected [lower, upper], got %d value(s)", len(bounds)),
			Pos:     boundsVal.Pos(),
		}
	}

	return yql.Between(yql.NewColumn(column), bounds[0], bounds[1]), nil
}

func parseAmong(v cue.Value, field string) (yql.Condition, error) {
	if err := checkFields(v, field, map[string]bool{"column": true, "among": true}); err != nil {
		return nil, err
	}
	column, err := requiredString(v, field, "column")
	if err != nil {
		return nil, err
	}

	values, err := parseValues(v.LookupPath(cue.ParsePath("among")), field+".among")
	if err != nil {
		return nil, err
	}

	return yql.Among(yql.NewColumn(column), values...), nil
}

// parseValues reads a list of values.
func parseValues(v cue.Value, field string) ([]yql.Value, error) {
	iter, err := v.List()
	if err != nil {
		return nil, wrongKind(field, "list", v)
	}

	var values []yql.Value
	for i := 0; iter.Next(); i++ {
		value, err := parseValue(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// parseValue converts a concrete CUE value to a YQL value.
// Strings carry the literal text and are checked by yql.NewValue, so a
// malformed literal yields an invalid value rather than an error.
func parseValue(v cue.Value, field string) (yql.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return yql.Null, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return yql.Value{}, formatCUEError(field, err)
		}
		return yql.NewValue(s), nil
	case cue.IntKind:
		n, err := v.Int(nil)
		if err != nil {
			return yql.Value{}, formatCUEError(field, err)
		}
		return yql.NewValue(n.String()), nil
	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return yql.Value{}, formatCUEError(field, err)
		}
		return yql.NewValue(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return yql.Value{}, wrongKind(field, "string, number or null", v)
	}
}
