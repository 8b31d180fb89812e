package store

import "github.com/google/uuid"

// RunIDGenerator produces compile-run identifiers.
// Implemented by UUIDv7Generator (production) and testutil.SequenceGenerator
// (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs, so runs sort by
// creation time even outside the catalog.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
