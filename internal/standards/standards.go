// Package standards runs the code-standards checks aggregated by the
// completion gate: banned-type usage, banned-keyword usage, empty error
// handling, and naming conventions. Checks are data-driven regex rules
// restricted to file globs; they are surface matches, not semantic
// analysis.
package standards

import (
	"path/filepath"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/verdict"
)

// appliesTo reports whether a check's file globs cover path.
func appliesTo(check config.StandardsCheck, path string) bool {
	if len(check.Files) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, glob := range check.Files {
		if ok, err := filepath.Match(glob, base); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Run evaluates every applicable check against the file content and
// returns one violation per firing check.
func Run(path string, content []byte, checks []config.StandardsCheck) []verdict.Violation {
	text := string(content)
	var violations []verdict.Violation
	for _, check := range checks {
		if !appliesTo(check, path) {
			continue
		}
		if check.Rule.Regex.MatchString(text) {
			violations = append(violations, check.Rule.Violation(path))
		}
	}
	return violations
}
