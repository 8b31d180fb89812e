package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/yql/internal/compiler"
	"github.com/roach88/yql/internal/store"
	"github.com/roach88/yql/internal/yql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	DB     string // catalog path
}

// CompiledQuery is one query in the compile output.
type CompiledQuery struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Valid    bool          `json:"valid"`
	Text     string        `json:"text,omitempty"`
	Findings []yql.Finding `json:"findings,omitempty"`
}

// CompilationResult holds every compiled query, sorted by name.
type CompilationResult struct {
	Queries []CompiledQuery  `json:"queries"`
	Run     *store.RunRecord `json:"run,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <queries-dir>",
		Short: "Compile CUE query definitions to YQL",
		Long: `Compile every query declared in a CUE package to YQL text.

Valid queries are rendered; invalid ones are listed with the reasons
they cannot render. With --db, the run and its valid queries are
recorded in a SQLite catalog.

Exit codes:
  0 - All queries compiled and rendered
  1 - One or more queries are invalid
  2 - Command error (CUE errors, invalid paths, catalog errors)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in this SQLite catalog")

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadQueries(dir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := buildCompilationResult(loadResult.Definitions)
	for _, q := range result.Queries {
		formatter.VerboseLog("Compiled query: %s (%s, valid=%t)", q.Name, q.Kind, q.Valid)
	}

	if opts.DB != "" {
		run, err := recordRun(cmd.Context(), opts.DB, dir, loadResult.Definitions)
		if err != nil {
			return outputCompileError(formatter, ErrCodeCatalog, err.Error(), nil)
		}
		result.Run = &run
		slog.Info("recorded compile run", "run_id", run.ID, "db", opts.DB, "trace_id", formatter.TraceID)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if err := outputCompileSuccess(formatter, result, opts.Output); err != nil {
		return err
	}

	if invalid := result.InvalidCount(); invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid query(ies)", invalid))
	}
	return nil
}

// InvalidCount returns the number of queries that did not render.
func (r *CompilationResult) InvalidCount() int {
	n := 0
	for _, q := range r.Queries {
		if !q.Valid {
			n++
		}
	}
	return n
}

// buildCompilationResult renders or explains every definition.
func buildCompilationResult(defs []compiler.Definition) *CompilationResult {
	result := &CompilationResult{Queries: make([]CompiledQuery, 0, len(defs))}
	for _, def := range defs {
		q := CompiledQuery{
			Name:  def.Name,
			Kind:  yql.Base(def.Query).String(),
			Valid: def.Query.IsValid(),
		}
		if q.Valid {
			q.Text = def.Query.Render()
		} else {
			q.Findings = yql.Explain(def.Query)
		}
		result.Queries = append(result.Queries, q)
	}
	return result
}

// recordRun stores the valid definitions and the findings of the invalid
// ones as one catalog run.
func recordRun(ctx context.Context, dbPath, source string, defs []compiler.Definition) (store.RunRecord, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return store.RunRecord{}, fmt.Errorf("opening catalog: %w", err)
	}
	defer st.Close()

	var records []store.QueryRecord
	var findings []store.Finding
	for _, def := range defs {
		if !def.Query.IsValid() {
			for _, f := range yql.Explain(def.Query) {
				findings = append(findings, store.Finding{Query: def.Name, Path: f.Path, Message: f.Message})
			}
			continue
		}
		rec, err := store.NewQueryRecord(def.Name, def.Query)
		if err != nil {
			return store.RunRecord{}, err
		}
		records = append(records, rec)
	}

	return st.RecordRun(ctx, source, records, findings)
}

// outputCompileSuccess outputs compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	invalid := result.InvalidCount()
	fmt.Fprintf(w, "✓ Compiled %d query(ies), %d invalid\n\n", len(result.Queries), invalid)

	for _, q := range result.Queries {
		if q.Valid {
			fmt.Fprintf(w, "%s (%s):\n", q.Name, q.Kind)
			fmt.Fprint(w, indent(q.Text, "  "))
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "✗ %s (%s):\n", q.Name, q.Kind)
		for _, f := range q.Findings {
			fmt.Fprintf(w, "  %s\n", f)
		}
		fmt.Fprintln(w)
	}

	if result.Run != nil {
		fmt.Fprintf(w, "Recorded run %s (%d query(ies), %d invalid)\n",
			result.Run.ID, result.Run.QueryCount, result.Run.InvalidCount)
	}
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote compiled queries to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		if err := formatter.encode(CLIResponse{
			Status:  "error",
			Error:   &cliErrors[0],
			Data:    cliErrors, // Include all errors in data
			TraceID: formatter.TraceID,
		}); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return compileErr.Code, compileErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
