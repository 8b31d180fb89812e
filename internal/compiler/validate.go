package compiler

import (
	"fmt"

	"github.com/roach88/yql/internal/yql"
)

// ValidationError describes why a query is not a valid YQL fragment.
// Path locates the failing node inside the query tree, or the failing CUE
// field for errors raised while compiling.
type ValidationError struct {
	Query   string `json:"query"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"` // CUE source line, compile errors only
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Query, e.Path, e.Message)
}

// Validate reports every invalid node in def. An empty result means the
// query renders.
func Validate(def Definition) []ValidationError {
	findings := yql.Explain(def.Query)
	if len(findings) == 0 {
		return nil
	}

	errs := make([]ValidationError, len(findings))
	for i, f := range findings {
		errs[i] = ValidationError{
			Query:   def.Name,
			Path:    f.Path,
			Message: f.Message,
			Code:    ErrInvalidQuery,
		}
	}
	return errs
}

// ValidateAll validates every definition, in order.
func ValidateAll(defs []Definition) []ValidationError {
	var errs []ValidationError
	for _, def := range defs {
		errs = append(errs, Validate(def)...)
	}
	return errs
}
