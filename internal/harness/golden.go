package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the golden-file form of a scenario result.
type Snapshot struct {
	ScenarioName string       `json:"scenario_name"`
	RunID        string       `json:"run_id"`
	Cases        []CaseResult `json:"cases"`
}

// MarshalSnapshot renders the golden-file bytes for a scenario result:
// indented JSON with HTML escaping off, so operators like < stay readable.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		RunID:        result.RunID,
		Cases:        result.Cases,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the snapshot against
// testdata/golden/{scenario.Name}.golden. Cases with a golden name also
// compare their rendered text against testdata/golden/{golden}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if output doesn't match a golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return err
	}

	g := newGoldie(t)
	for i, c := range scenario.Cases {
		if c.Golden == "" || i >= len(result.Cases) {
			continue
		}
		g.Assert(t, c.Golden, []byte(result.Cases[i].Render))
	}

	return nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}

	newGoldie(t).Assert(t, name, data)
	return nil
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
