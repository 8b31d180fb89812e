package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/yql/internal/compiler"
	"github.com/roach88/yql/internal/store"
	"github.com/roach88/yql/internal/testutil"
	"github.com/roach88/yql/internal/yql"
)

// Harness runs scenarios against a fresh in-memory catalog.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory catalog with sequential run
// IDs, so the result is reproducible byte for byte.
//
// Execution flow:
//  1. Compile the scenario's CUE specs
//  2. Evaluate every case against its compiled query
//  3. Record valid queries and findings as one catalog run
//  4. Return the per-case results
//
// An error means the scenario could not run at all (bad specs, catalog
// failure). Case mismatches are reported through Result.Pass.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with case-level debug logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	defs, errs := compiler.CompileFiles(scenario.Specs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to compile specs: %w", errors.Join(errs...))
	}

	st, err := store.Open(":memory:", store.WithRunIDGenerator(testutil.NewSequenceGenerator()))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st, logger: logger.With("scenario", scenario.Name)}
	return h.run(context.Background(), scenario, defs)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario, defs []compiler.Definition) (*Result, error) {
	byName := make(map[string]compiler.Definition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	var cases []CaseResult
	var records []store.QueryRecord
	var findings []store.Finding

	for _, c := range scenario.Cases {
		def, ok := byName[c.Query]
		if !ok {
			cases = append(cases, CaseResult{
				Query:  c.Query,
				Kind:   yql.KindInvalid.String(),
				Errors: []string{fmt.Sprintf("query %q is not defined in specs", c.Query)},
			})
			continue
		}

		got := observe(def)
		got.Errors = checkCase(c, got)
		got.Pass = len(got.Errors) == 0
		h.logger.Debug("case evaluated",
			"query", c.Query,
			"valid", got.Valid,
			"pass", got.Pass)

		if got.Valid {
			rec, err := store.NewQueryRecord(def.Name, def.Query)
			if err != nil {
				return nil, err
			}
			got.ID = rec.ID
			records = append(records, rec)
		} else {
			for _, f := range got.Findings {
				findings = append(findings, store.Finding{Query: def.Name, Path: f.Path, Message: f.Message})
			}
		}
		cases = append(cases, got)
	}

	run, err := h.store.RecordRun(ctx, scenario.Name, records, findings)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	h.logger.Info("scenario recorded",
		"run_id", run.ID,
		"queries", run.QueryCount,
		"invalid", run.InvalidCount)

	result := NewResult()
	result.RunID = run.ID
	for _, c := range cases {
		result.AddCase(c)
	}
	return result, nil
}

// observe renders or explains a compiled query.
func observe(def compiler.Definition) CaseResult {
	got := CaseResult{
		Query: def.Name,
		Kind:  yql.Base(def.Query).String(),
		Valid: def.Query.IsValid(),
	}
	if got.Valid {
		got.Render = def.Query.Render()
	} else {
		got.Findings = yql.Explain(def.Query)
	}
	return got
}
