// Package classify implements the pattern classifier: a pure function
// mapping a command string to a set of violations.
//
// Classification is deliberately surface-level. Matching is case- and
// whitespace-normalized to resist trivial evasion, and chained commands
// are split with a real shell parser so a destructive sub-command cannot
// hide behind &&, ;, pipes, or substitution. It is not robust against
// semantic obfuscation: an `rm` inside a string literal can over-block,
// and a command assembled at runtime can under-block. Introducing full
// quoting-aware analysis would change blocking behavior, so the gap is
// kept and documented.
package classify

import (
	"regexp"
	"strings"

	"github.com/mwynn/toolgate/internal/rules"
	"github.com/mwynn/toolgate/internal/verdict"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// truncationTarget matches a remaining single `>` redirect after append and
// null-device redirects have been stripped by normalizeRedirects.
var truncationTarget = regexp.MustCompile(`(^|\s)(:\s*)?>\s*\S`)

// Normalize lowercases the command and collapses whitespace runs so that
// detectors cannot be evaded with casing or padding tricks.
func Normalize(cmd string) string {
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	return whitespaceRun.ReplaceAllString(cmd, " ")
}

// normalizeRedirects removes redirect forms that never truncate an existing
// file: appends (>>), fd duplication (2>&1), and the null device.
func normalizeRedirects(cmd string) string {
	cmd = strings.ReplaceAll(cmd, ">>", " ")
	cmd = strings.ReplaceAll(cmd, "2>&1", " ")
	cmd = strings.ReplaceAll(cmd, "&>", ">")
	for _, null := range []string{"> /dev/null", ">/dev/null", "2> /dev/null", "2>/dev/null"} {
		cmd = strings.ReplaceAll(cmd, null, " ")
	}
	return cmd
}

// Classifier evaluates commands against an allow list and an ordered deny
// detector table. It is a pure function of its inputs and carries no state.
type Classifier struct {
	allow []rules.Rule
	deny  []rules.Rule
}

// New builds a classifier from compiled rule tables.
func New(allow, deny []rules.Rule) *Classifier {
	return &Classifier{allow: allow, deny: deny}
}

// allowed reports whether the normalized text matches a safe prefix.
func (c *Classifier) allowed(text string) bool {
	return rules.FirstMatch(text, c.allow) != nil
}

// Classify returns the violations found in commandText. An empty result
// means no detector fired. Each chain segment is checked against the
// safe-prefix allow list first; a match short-circuits every deny detector
// for that segment. Past that, any single detector match is sufficient.
// There is no scoring.
func (c *Classifier) Classify(commandText string) []verdict.Violation {
	normalized := Normalize(commandText)
	if normalized == "" {
		return nil
	}

	var violations []verdict.Violation

	segments, err := SplitCommandChain(commandText)
	if err != nil {
		// A command the shell parser cannot read could hide anything.
		return []verdict.Violation{{
			RuleID:   "unparseable_command",
			Category: verdict.CategoryChaining,
			Severity: verdict.SeverityError,
			Message:  "command could not be parsed as shell syntax",
			Fix:      "rewrite the command as plain, parseable shell",
		}}
	}

	// Substitution can smuggle a sub-command past segment matching. The
	// substituted text itself is still scanned below, so this alone is
	// advisory.
	if containsSubstitution(commandText) {
		violations = append(violations, verdict.Violation{
			RuleID:   "command_substitution",
			Category: verdict.CategoryChaining,
			Severity: verdict.SeverityWarning,
			Message:  "command substitution ($() or backticks) present",
		})
	}

	// Truncation redirects live on statements, not call expressions, so
	// they are detected on the whole normalized command.
	if truncationTarget.MatchString(normalizeRedirects(normalized)) {
		violations = append(violations, verdict.Violation{
			RuleID:   "output_truncation",
			Category: verdict.CategoryTruncation,
			Severity: verdict.SeverityError,
			Message:  "redirect truncates the target file",
			Fix:      "append with >> or write to a new file",
		})
	}

	// Per-segment detectors: allow-listed segments are skipped, the first
	// firing deny rule per segment is recorded.
	seen := make(map[string]bool, len(segments))
	for _, segment := range segments {
		norm := Normalize(segment)
		if norm == "" || c.allowed(norm) {
			continue
		}
		if r := rules.FirstMatch(norm, c.deny); r != nil && !seen[r.Name] {
			seen[r.Name] = true
			v := r.Violation("")
			v.Message = v.Message + ": " + segment
			violations = append(violations, v)
		}
	}

	return violations
}

// HardBlock reports whether any violation carries error severity, which
// forces a pre-action block.
func HardBlock(violations []verdict.Violation) bool {
	for _, v := range violations {
		if v.Severity == verdict.SeverityError {
			return true
		}
	}
	return false
}
