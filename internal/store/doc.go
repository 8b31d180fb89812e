// Package store provides a SQLite-backed catalog of compiled YQL queries.
//
// The catalog holds two tables:
//   - queries: rendered queries, content-addressed by name and text
//   - runs: one row per compile run, with counts and the findings for
//     queries that did not render
//
// # Identity and Ordering
//
// Query IDs are SHA-256 over a versioned domain prefix, the query name, and
// the rendered text (see QueryID). Saving the same query twice is a no-op,
// so recording the same directory repeatedly only adds run rows.
//
// Every list is ordered by seq (a logical counter assigned on insert), then
// id with binary collation. Wall-clock time is never stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - foreign_keys=ON
//
// # Usage
//
//	st, err := store.Open("catalog.db")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec, err := store.NewQueryRecord("recent", q)
//	run, err := st.RecordRun(ctx, "queries/", []store.QueryRecord{rec}, nil)
package store
