package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/yql/internal/harness"
)

var scenariosDir = filepath.Join("..", "..", "testdata", "scenarios")

// writeScenarioDir writes a scenario file named name.yaml whose specs point
// at the sample query package.
func writeScenarioDir(t *testing.T, name, cases string) string {
	t.Helper()

	specs, err := filepath.Abs(queriesDir)
	require.NoError(t, err)

	dir := t.TempDir()
	body := fmt.Sprintf("name: %s\ndescription: generated\nspecs:\n  - %s\n  - %s\ncases:\n%s",
		name,
		filepath.Join(specs, "quotes.cue"),
		filepath.Join(specs, "maintenance.cue"),
		cases)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0644))
	return dir
}

const purgeCase = `  - query: purge
    valid: true
    kind: delete
    golden: purge_text
`

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, NewTestCommand, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	output, err := execute(t, NewTestCommand, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "No scenarios found.")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	output, err := execute(t, NewTestCommand, "json", t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data.Scenarios)
	assert.Zero(t, resp.Data.Total)
}

func TestTestCommandSampleScenarios(t *testing.T) {
	output, err := execute(t, NewTestCommand, "text", scenariosDir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ quotes")
	assert.Contains(t, output, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, output, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	output, err := execute(t, NewTestCommand, "text", scenariosDir, "--filter", "orders-*")
	require.NoError(t, err)
	assert.Contains(t, output, "No scenarios found.")

	output, err = execute(t, NewTestCommand, "text", scenariosDir, "--filter", "quo*")
	require.NoError(t, err)
	assert.Contains(t, output, "1 passed")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := execute(t, NewTestCommand, "text", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestTestCommandFailingCase(t *testing.T) {
	dir := writeScenarioDir(t, "wrong", `  - query: purge
    valid: true
    kind: update
`)

	output, err := execute(t, NewTestCommand, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ wrong")
	assert.Contains(t, output, "purge: kind: expected update, got delete")
	assert.Contains(t, output, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandFailingCaseJSON(t *testing.T) {
	dir := writeScenarioDir(t, "wrong", `  - query: purge
    valid: false
`)

	output, err := execute(t, NewTestCommand, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)

	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.Contains(t, resp.Data.Scenarios[0].Errors, "purge: valid: expected false, got true")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "typo.yaml"), []byte("name: typo\ncase: []\n"), 0644))

	output, err := execute(t, NewTestCommand, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ typo.yaml")
	assert.Contains(t, output, "failed to load scenario")
}

func TestTestCommandGoldenRoundTrip(t *testing.T) {
	dir := writeScenarioDir(t, "purge", purgeCase)

	output, err := execute(t, NewTestCommand, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ purge (golden updated)")

	rendered, err := os.ReadFile(filepath.Join(dir, "golden", "purge_text.golden"))
	require.NoError(t, err)
	assert.Equal(t, "delete from quotes\nwhere Ask<1\n", string(rendered))

	snapshot, err := os.ReadFile(filepath.Join(dir, "golden", "purge.golden"))
	require.NoError(t, err)
	var decoded harness.Snapshot
	require.NoError(t, json.Unmarshal(snapshot, &decoded))
	assert.Equal(t, "purge", decoded.ScenarioName)
	require.Len(t, decoded.Cases, 1)
	assert.Equal(t, "purge", decoded.Cases[0].Query)

	output, err = execute(t, NewTestCommand, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ purge\n")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := writeScenarioDir(t, "purge", purgeCase)

	_, err := execute(t, NewTestCommand, "text", dir, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "purge_text.golden")
	require.NoError(t, os.WriteFile(goldenPath, []byte("delete from quotes\n"), 0644))

	output, err := execute(t, NewTestCommand, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "purge_text.golden does not match (run with --update to regenerate)")
}

func TestGoldenFilePath(t *testing.T) {
	got := goldenFilePath(filepath.Join("scenarios", "quotes.yaml"))
	assert.Equal(t, filepath.Join("scenarios", "golden", "quotes.golden"), got)
}
