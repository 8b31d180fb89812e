package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Compile error codes (E100-E109) and validation error codes (E110-E119).
const (
	ErrCUE                = "E100" // CUE evaluation error
	ErrUnknownField       = "E101" // field not part of the definition format
	ErrMissingStatement   = "E102" // no select/insert/update/delete
	ErrMultipleStatements = "E103" // more than one statement
	ErrMissingField       = "E104" // required field absent
	ErrWrongKind          = "E105" // CUE value of the wrong kind
	ErrInvalidCondition   = "E106" // condition has no recognisable form
	ErrUnknownOperator    = "E107" // comparison operator not supported
	ErrUnknownOrder       = "E108" // sort order not asc/desc

	ErrInvalidQuery = "E110" // query compiled but is not a valid YQL fragment
)

// CompileError is a structural problem in a query definition.
type CompileError struct {
	Field   string
	Code    string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// QueryError ties a compile error to the query it came from.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   field,
			Code:    ErrCUE,
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return &CompileError{Field: field, Code: ErrCUE, Message: err.Error()}
}
