package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a spec file and a scenario referencing it into a
// temp dir and returns the scenario path.
func writeScenario(t *testing.T, yamlBody string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "q.cue"),
		[]byte(`query: q: delete: from: "t"`), 0644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "catalog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "catalog", scenario.Name)
	require.Len(t, scenario.Specs, 1)
	assert.Equal(t, filepath.Join("testdata", "specs", "catalog.cue"), scenario.Specs[0])

	require.Len(t, scenario.Cases, 3)
	assert.Equal(t, "quotes", scenario.Cases[0].Query)
	assert.True(t, *scenario.Cases[0].Valid)
	assert.Equal(t, "catalog_quotes", scenario.Cases[0].Golden)
	assert.Equal(t, "insert into archive (id,note)\nvalues (1,'done')\n", scenario.Cases[1].Render)
	assert.False(t, *scenario.Cases[2].Valid)
	assert.Equal(t, []string{"where.inner.table", "where.expr"}, scenario.Cases[2].Findings)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: misspelled cases
specs: [q.cue]
case:
  - query: q
    valid: true
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "case")
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "description: d\nspecs: [q.cue]\ncases: [{query: q, valid: true}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: n\nspecs: [q.cue]\ncases: [{query: q, valid: true}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing specs",
			body:    "name: n\ndescription: d\ncases: [{query: q, valid: true}]\n",
			wantErr: "specs list is required",
		},
		{
			name:    "missing spec file",
			body:    "name: n\ndescription: d\nspecs: [nope.cue]\ncases: [{query: q, valid: true}]\n",
			wantErr: "spec file not found",
		},
		{
			name:    "missing cases",
			body:    "name: n\ndescription: d\nspecs: [q.cue]\n",
			wantErr: "cases list is required",
		},
		{
			name:    "missing query",
			body:    "name: n\ndescription: d\nspecs: [q.cue]\ncases: [{valid: true}]\n",
			wantErr: "cases[0]: query is required",
		},
		{
			name:    "missing valid",
			body:    "name: n\ndescription: d\nspecs: [q.cue]\ncases: [{query: q}]\n",
			wantErr: "cases[0]: valid is required",
		},
		{
			name:    "unknown kind",
			body:    "name: n\ndescription: d\nspecs: [q.cue]\ncases: [{query: q, valid: true, kind: merge}]\n",
			wantErr: `unknown kind "merge"`,
		},
		{
			name:    "findings on valid",
			body:    "name: n\ndescription: d\nspecs: [q.cue]\ncases: [{query: q, valid: true, findings: [delete.table]}]\n",
			wantErr: "findings given for a valid query",
		},
		{
			name:    "render on invalid",
			body:    "name: n\ndescription: d\nspecs: [q.cue]\ncases: [{query: q, valid: false, render: x}]\n",
			wantErr: "need a valid query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "c.txt", "nested/d.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0644))
	}

	files, err := FindScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "d.yaml"),
	}, files)

	files, err = FindScenarioFiles(dir, "[ab]")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = FindScenarioFiles(dir, "[")
	assert.ErrorContains(t, err, "invalid filter pattern")
}
