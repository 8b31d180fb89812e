package harness

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// checkCase compares an observed query against its case and returns one
// message per mismatch.
func checkCase(c Case, got CaseResult) []string {
	var errs []string

	if *c.Valid != got.Valid {
		msg := fmt.Sprintf("valid: expected %t, got %t", *c.Valid, got.Valid)
		if !got.Valid {
			msg += " (" + joinFindings(got) + ")"
		}
		errs = append(errs, msg)
		return errs
	}

	if c.Kind != "" && c.Kind != got.Kind {
		errs = append(errs, fmt.Sprintf("kind: expected %s, got %s", c.Kind, got.Kind))
	}

	if c.Render != "" {
		if diff := cmp.Diff(c.Render, got.Render); diff != "" {
			errs = append(errs, "render mismatch (-want +got):\n"+diff)
		}
	}

	for _, sub := range c.Contains {
		if !strings.Contains(got.Render, sub) {
			errs = append(errs, fmt.Sprintf("render does not contain %q", sub))
		}
	}

	if len(c.Findings) > 0 {
		paths := make([]string, len(got.Findings))
		for i, f := range got.Findings {
			paths[i] = f.Path
		}
		if diff := cmp.Diff(c.Findings, paths); diff != "" {
			errs = append(errs, "findings mismatch (-want +got):\n"+diff)
		}
	}

	return errs
}

func joinFindings(got CaseResult) string {
	parts := make([]string, len(got.Findings))
	for i, f := range got.Findings {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}
