package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/yql/internal/compiler"
	"github.com/roach88/yql/internal/yql"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Query string // query name
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <queries-dir> --query <name>",
		Short: "Print one query as YQL",
		Long: `Compile the CUE package in <queries-dir> and print the named query.

In text mode the output is the bare YQL text, suitable for piping.

Exit codes:
  0 - Query rendered
  1 - Query is invalid (reasons are reported)
  2 - Command error (unknown query, CUE errors, invalid paths)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "name of the query to render")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}

func runRender(opts *RenderOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadQueries(dir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	def, ok := loadResult.Lookup(opts.Query)
	if !ok {
		// A compile error for this query is more useful than "not found"
		for _, err := range loadErrors {
			var queryErr *compiler.QueryError
			if errors.As(err, &queryErr) && queryErr.Query == opts.Query {
				return outputCompileErrors(formatter, []error{err})
			}
		}
		return outputCompileError(formatter, ErrCodeUnknown, fmt.Sprintf("query %q not found in %s", opts.Query, dir), nil)
	}

	text, err := yql.Build(def.Query)
	if err != nil {
		findings := yql.Explain(def.Query)
		_ = formatter.Error(compiler.ErrInvalidQuery, err.Error(), findings)
		if formatter.Format != "json" {
			for _, f := range findings {
				fmt.Fprintf(formatter.Writer, "  %s\n", f)
			}
		}
		return WrapExitError(ExitFailure, "query is invalid", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(RenderResult{
			Name: def.Name,
			Kind: yql.Base(def.Query).String(),
			Text: text,
		})
	}

	fmt.Fprint(formatter.Writer, text)
	return nil
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" || line == "\n" {
			b.WriteString(line)
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}
