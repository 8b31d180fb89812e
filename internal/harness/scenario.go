package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: a set of CUE query files and the
// expected outcome for each named query they declare.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists the CUE files to compile, unified in order.
	// Relative paths are resolved against the scenario file's directory.
	Specs []string `yaml:"specs"`

	// Cases are checked in order against the compiled queries.
	Cases []Case `yaml:"cases"`
}

// Case states what one named query should compile to.
type Case struct {
	// Query is the name under query: in the CUE specs.
	Query string `yaml:"query"`

	// Valid is the expected validity. Required.
	Valid *bool `yaml:"valid"`

	// Kind, if set, is the expected base statement kind
	// (select, insert, update, delete).
	Kind string `yaml:"kind,omitempty"`

	// Render, if set, must equal the rendered text exactly.
	// Only meaningful for valid queries.
	Render string `yaml:"render,omitempty"`

	// Contains lists substrings the rendered text must include.
	Contains []string `yaml:"contains,omitempty"`

	// Findings, if set, lists the expected Explain paths of an invalid query,
	// in order.
	Findings []string `yaml:"findings,omitempty"`

	// Golden, if set, snapshots the rendered text to
	// testdata/golden/<golden>.golden when run under RunWithGolden.
	Golden string `yaml:"golden,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve spec paths relative to the scenario BEFORE validation
	base := filepath.Dir(path)
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) {
			scenario.Specs[i] = filepath.Join(base, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarioFiles returns the .yaml and .yml files under dir whose base
// name (without extension) matches the glob filter. An empty filter
// matches everything.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, c := range s.Cases {
		if err := validateCase(i, &c); err != nil {
			return err
		}
	}

	return nil
}

// validateCase checks one case for contradictory expectations.
func validateCase(index int, c *Case) error {
	if c.Query == "" {
		return fmt.Errorf("cases[%d]: query is required", index)
	}
	if c.Valid == nil {
		return fmt.Errorf("cases[%d]: valid is required", index)
	}

	switch c.Kind {
	case "", "select", "insert", "update", "delete":
	default:
		return fmt.Errorf("cases[%d]: unknown kind %q", index, c.Kind)
	}

	if *c.Valid {
		if len(c.Findings) > 0 {
			return fmt.Errorf("cases[%d]: findings given for a valid query", index)
		}
	} else {
		if c.Render != "" || len(c.Contains) > 0 || c.Golden != "" {
			return fmt.Errorf("cases[%d]: render, contains and golden need a valid query", index)
		}
	}

	return nil
}
