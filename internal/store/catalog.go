package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/yql/internal/yql"
)

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("not found")

// QueryRecord is a rendered query in the catalog.
type QueryRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Seq   int64  `json:"seq"`
	RunID string `json:"run_id,omitempty"`
}

// NewQueryRecord renders q and addresses it by name and text.
// Invalid queries cannot be recorded.
func NewQueryRecord(name string, q yql.Query) (QueryRecord, error) {
	text, err := yql.Build(q)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("record %s: %w", name, err)
	}
	return QueryRecord{
		ID:   QueryID(name, text),
		Name: name,
		Kind: yql.Base(q).String(),
		Text: text,
	}, nil
}

// Finding is one reason a query in a run did not render.
type Finding struct {
	Query   string `json:"query"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// RunRecord is one compile run recorded in the catalog.
type RunRecord struct {
	ID           string    `json:"id"`
	Seq          int64     `json:"seq"`
	Source       string    `json:"source"`
	QueryCount   int       `json:"query_count"`
	InvalidCount int       `json:"invalid_count"`
	Findings     []Finding `json:"findings,omitempty"`
}

// ListOptions filters ListQueries. Zero values mean no filter.
type ListOptions struct {
	Name  string
	RunID string
	Limit int
}

// SaveQuery inserts rec into the catalog. The ID is recomputed from name and
// text, so callers may leave it empty. Saving an existing query is a no-op;
// the returned bool reports whether a row was added.
func (s *Store) SaveQuery(ctx context.Context, rec QueryRecord) (bool, error) {
	return saveQuery(ctx, s.db, rec)
}

func saveQuery(ctx context.Context, db execer, rec QueryRecord) (bool, error) {
	if rec.Name == "" {
		return false, fmt.Errorf("save query: name is required")
	}
	if rec.Text == "" {
		return false, fmt.Errorf("save query %s: text is required", rec.Name)
	}

	runID := sql.NullString{String: rec.RunID, Valid: rec.RunID != ""}
	res, err := db.ExecContext(ctx, `
		INSERT INTO queries (id, name, kind, text, seq, run_id)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM queries), ?)
		ON CONFLICT(id) DO NOTHING
	`, QueryID(rec.Name, rec.Text), rec.Name, rec.Kind, rec.Text, runID)
	if err != nil {
		return false, fmt.Errorf("save query %s: %w", rec.Name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save query %s: %w", rec.Name, err)
	}
	return n > 0, nil
}

// GetQuery returns the query with the given ID, or ErrNotFound.
func (s *Store) GetQuery(ctx context.Context, id string) (QueryRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, kind, text, seq, run_id
		FROM queries
		WHERE id = ?
	`, id)

	rec, err := scanQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return QueryRecord{}, fmt.Errorf("get query %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return QueryRecord{}, fmt.Errorf("get query %s: %w", id, err)
	}
	return rec, nil
}

// ListQueries returns catalog queries ordered by seq, then id.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListQueries(ctx context.Context, opts ListOptions) ([]QueryRecord, error) {
	query := `
		SELECT id, name, kind, text, seq, run_id
		FROM queries
		WHERE (? = '' OR name = ?) AND (? = '' OR run_id = ?)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	args := []any{opts.Name, opts.Name, opts.RunID, opts.RunID}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	records := []QueryRecord{}
	for rows.Next() {
		rec, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("list queries: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return records, nil
}

// RecordRun stores one compile run and its valid queries in a single
// transaction. Queries already in the catalog keep their original run.
func (s *Store) RecordRun(ctx context.Context, source string, queries []QueryRecord, findings []Finding) (RunRecord, error) {
	if findings == nil {
		findings = []Finding{}
	}
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}

	invalid := map[string]bool{}
	for _, f := range findings {
		invalid[f.Query] = true
	}

	run := RunRecord{
		ID:           s.runIDs.Generate(),
		Source:       source,
		QueryCount:   len(queries) + len(invalid),
		InvalidCount: len(invalid),
		Findings:     findings,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return RunRecord{}, fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, source, query_count, invalid_count, findings)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.Source, run.QueryCount, run.InvalidCount, string(findingsJSON))
	if err != nil {
		return RunRecord{}, fmt.Errorf("record run: %w", err)
	}

	for _, q := range queries {
		q.RunID = run.ID
		if _, err := saveQuery(ctx, tx, q); err != nil {
			return RunRecord{}, fmt.Errorf("record run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return RunRecord{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs ordered by seq.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, source, query_count, invalid_count, findings
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var run RunRecord
		var findingsJSON string
		if err := rows.Scan(&run.ID, &run.Seq, &run.Source, &run.QueryCount, &run.InvalidCount, &findingsJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(findingsJSON), &run.Findings); err != nil {
			return nil, fmt.Errorf("decode findings for run %s: %w", run.ID, err)
		}
		if len(run.Findings) == 0 {
			run.Findings = nil
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuery(row rowScanner) (QueryRecord, error) {
	var rec QueryRecord
	var runID sql.NullString
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Kind, &rec.Text, &rec.Seq, &runID); err != nil {
		return QueryRecord{}, err
	}
	rec.RunID = runID.String
	return rec, nil
}
