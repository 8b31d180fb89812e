package harness

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func catalogSpecs() []string {
	return []string{filepath.Join("testdata", "specs", "catalog.cue")}
}

func TestRun_Passes(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "catalog.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", result.RunID)

	require.Len(t, result.Cases, 3)
	assert.Equal(t, "select", result.Cases[0].Kind)
	assert.Len(t, result.Cases[0].ID, 64)
	assert.Equal(t, "insert into archive (id,note)\nvalues (1,'done')\n", result.Cases[1].Render)
	assert.Empty(t, result.Cases[2].ID)
	assert.Len(t, result.Cases[2].Findings, 2)
}

func TestRun_IsDeterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "catalog.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_ReportsMismatches(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "every expectation is wrong",
		Specs:       catalogSpecs(),
		Cases: []Case{
			{Query: "quotes", Valid: boolPtr(false)},
			{Query: "archive", Valid: boolPtr(true), Kind: "update", Render: "insert into archive\n"},
			{Query: "broken", Valid: boolPtr(true)},
			{Query: "missing", Valid: boolPtr(true)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)

	require.Len(t, result.Cases, 4)
	for _, c := range result.Cases {
		assert.False(t, c.Pass, c.Query)
	}

	assert.Equal(t, []string{"valid: expected false, got true"}, result.Cases[0].Errors)

	archive := result.Cases[1].Errors
	require.Len(t, archive, 2)
	assert.Equal(t, "kind: expected update, got insert", archive[0])
	assert.Contains(t, archive[1], "render mismatch (-want +got)")

	require.Len(t, result.Cases[2].Errors, 1)
	assert.Contains(t, result.Cases[2].Errors[0], "valid: expected true, got false")
	assert.Contains(t, result.Cases[2].Errors[0], `where.inner.table: invalid table name "my table"`)

	assert.Equal(t, []string{`query "missing" is not defined in specs`}, result.Cases[3].Errors)

	assert.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "quotes: valid")
}

func TestRun_SpecCompileError(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(spec, []byte(`query: q: select: {from: "t"}`), 0644))

	_, err := Run(&Scenario{
		Name:  "bad",
		Specs: []string{spec},
		Cases: []Case{{Query: "q", Valid: boolPtr(true)}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile specs")
	assert.Contains(t, err.Error(), "columns is required")
}

func TestRunWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := RunWithLogger(&Scenario{
		Name:  "logged",
		Specs: catalogSpecs(),
		Cases: []Case{{Query: "quotes", Valid: boolPtr(true)}},
	}, logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "case evaluated")
	assert.Contains(t, out, "scenario=logged")
	assert.Contains(t, out, "query=quotes")
	assert.Contains(t, out, "scenario recorded")
}
