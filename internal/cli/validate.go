package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/yql/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Queries int                        `json:"queries"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <queries-dir>",
		Short: "Check that every query renders",
		Long: `Compile every query in <queries-dir> and report the ones that cannot
render, with the path to each failing node.

Faster than compile for development feedback: nothing is written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result, err := validateDir(dir, formatter)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// validateDir loads dir and collects compile errors and invalid-query
// findings. The returned error is set only when nothing could be loaded.
func validateDir(dir string, formatter *OutputFormatter) (*ValidationResult, error) {
	loadResult, loadErrors := LoadQueries(dir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return nil, loadErrors[0]
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	var errs []compiler.ValidationError
	for _, err := range loadErrors {
		errs = append(errs, loadErrorToValidation(err))
	}

	formatter.VerboseLog("Validating %d query(ies)", len(loadResult.Definitions))
	errs = append(errs, compiler.ValidateAll(loadResult.Definitions)...)

	return &ValidationResult{
		Valid:   len(errs) == 0,
		Queries: len(loadResult.Definitions),
		Errors:  errs,
	}, nil
}

// loadErrorToValidation converts a compile failure into a validation error.
func loadErrorToValidation(err error) compiler.ValidationError {
	verr := compiler.ValidationError{Code: ErrCodeGeneric, Message: err.Error()}

	var queryErr *compiler.QueryError
	if errors.As(err, &queryErr) {
		verr.Query = queryErr.Query
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		verr.Path = compileErr.Field
		verr.Message = compileErr.Message
		verr.Code = compileErr.Code
		if compileErr.Pos.IsValid() {
			verr.Line = compileErr.Pos.Line()
		}
		return verr
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		verr.Code = loadErr.Code
		verr.Message = loadErr.Message
		if loadErr.Pos.IsValid() {
			verr.Line = loadErr.Pos.Line()
		}
	}
	return verr
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result *ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All %d query(ies) valid\n", result.Queries)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result *ValidationResult) error {
	errs := result.Errors

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
			TraceID: formatter.TraceID,
		}); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s: %s\n\n", err.Code, err.Query, err.Path, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// ValidateQueriesDir validates all queries in a directory.
// This is a helper function for external callers.
func ValidateQueriesDir(dir string) ([]compiler.ValidationError, error) {
	silent := &OutputFormatter{Format: "text", Writer: io.Discard}
	result, err := validateDir(dir, silent)
	if err != nil {
		return nil, err
	}
	return result.Errors, nil
}
