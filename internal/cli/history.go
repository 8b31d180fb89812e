package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/yql/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	ID    string
	Name  string
	RunID string
	Limit int
	Runs  bool
}

// HistoryResult is the history command payload. Exactly one of the
// fields is set, depending on --runs.
type HistoryResult struct {
	Queries []store.QueryRecord `json:"queries,omitempty"`
	Runs    []store.RunRecord   `json:"runs,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List queries and runs recorded in a catalog",
		Long: `List the rendered queries recorded by compile --db, oldest first.

With --id, show the one query with that catalog ID. With --runs, list the compile runs instead, with their findings.

Examples:
  yql history --db catalog.db
  yql history --db catalog.db --name quotes
  yql history --db catalog.db --runs --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite catalog path (required)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show the query with this catalog ID")
	cmd.Flags().StringVar(&opts.Name, "name", "", "only queries with this name")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "only queries first recorded by this run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of queries (0 = all)")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "list runs instead of queries")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Open would create an empty catalog; a typo should not.
	if _, err := os.Stat(opts.DB); err != nil {
		return historyError(formatter, fmt.Sprintf("catalog not found: %s", opts.DB))
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return historyError(formatter, err.Error())
	}
	defer st.Close()

	ctx := cmd.Context()
	var result HistoryResult

	switch {
	case opts.Runs:
		result.Runs, err = st.ListRuns(ctx)
	case opts.ID != "":
		var rec store.QueryRecord
		rec, err = st.GetQuery(ctx, opts.ID)
		if errors.Is(err, store.ErrNotFound) {
			return historyError(formatter, fmt.Sprintf("no query with id %s", opts.ID))
		}
		result.Queries = []store.QueryRecord{rec}
	default:
		result.Queries, err = st.ListQueries(ctx, store.ListOptions{
			Name:  opts.Name,
			RunID: opts.RunID,
			Limit: opts.Limit,
		})
	}
	if err != nil {
		return historyError(formatter, err.Error())
	}
	formatter.VerboseLog("Read %d query(ies), %d run(s) from %s", len(result.Queries), len(result.Runs), opts.DB)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if opts.Runs {
		if len(result.Runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
		}
		for _, run := range result.Runs {
			fmt.Fprintf(w, "#%d %s %s: %d query(ies), %d invalid\n",
				run.Seq, run.ID, run.Source, run.QueryCount, run.InvalidCount)
			for _, f := range run.Findings {
				fmt.Fprintf(w, "  %s: %s: %s\n", f.Query, f.Path, f.Message)
			}
		}
		return nil
	}

	if len(result.Queries) == 0 {
		fmt.Fprintln(w, "No queries recorded.")
	}
	for _, q := range result.Queries {
		fmt.Fprintf(w, "#%d %s (%s) %s\n", q.Seq, q.Name, q.Kind, q.ID)
		fmt.Fprint(w, indent(q.Text, "  "))
	}
	return nil
}

func historyError(formatter *OutputFormatter, message string) error {
	_ = formatter.Error(ErrCodeCatalog, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeCatalog, message))
}
