// Package verdict defines the shared outcome types produced by every
// toolgate gate and check: a Verdict aggregating zero or more Violations.
package verdict

import "strings"

// Severity of a violation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Violation categories that force a block in the Pre-Action Gate.
const (
	CategoryDestructive   = "destructive_command"
	CategoryTruncation    = "overwrite_truncation"
	CategoryDataLoss      = "destructive_data_op"
	CategorySystem        = "system_operation"
	CategoryDangerousPath = "dangerous_target"
	CategoryChaining      = "command_chaining"
	CategoryTraversal     = "path_traversal"
	CategoryEnvFile       = "env_file_access"
	CategoryProtectedFile = "protected_file_write"
)

// Violation is a single rule finding produced by a classifier or check.
type Violation struct {
	RuleID   string   `json:"rule_id"`
	Category string   `json:"category,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
	Path     string   `json:"resource_path,omitempty"`
}

// Verdict is the single output contract of every gate.
type Verdict struct {
	Approve    bool        `json:"approve"`
	Message    string      `json:"message"`
	Violations []Violation `json:"violations,omitempty"`
}

// HasSeverity reports whether any violation carries the given severity.
func (v Verdict) HasSeverity(s Severity) bool {
	for _, viol := range v.Violations {
		if viol.Severity == s {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity violations.
func (v Verdict) Errors() []Violation {
	var out []Violation
	for _, viol := range v.Violations {
		if viol.Severity == SeverityError {
			out = append(out, viol)
		}
	}
	return out
}

// Approved returns an approving verdict with the given message.
func Approved(message string) Verdict {
	return Verdict{Approve: true, Message: message}
}

// Blocked returns a blocking verdict carrying the violations that caused it.
func Blocked(message string, violations ...Violation) Verdict {
	return Verdict{Approve: false, Message: message, Violations: violations}
}

// Remediation builds a human-readable summary enumerating every failing
// check with its fix instruction. Warnings are listed after errors.
func Remediation(violations []Violation) string {
	var b strings.Builder
	var errs, warns []Violation
	for _, v := range violations {
		if v.Severity == SeverityError {
			errs = append(errs, v)
		} else {
			warns = append(warns, v)
		}
	}
	writeGroup := func(label string, group []Violation) {
		for _, v := range group {
			b.WriteString(label)
			b.WriteString(" ")
			b.WriteString(v.RuleID)
			if v.Path != "" {
				b.WriteString(" [")
				b.WriteString(v.Path)
				b.WriteString("]")
			}
			b.WriteString(": ")
			b.WriteString(v.Message)
			if v.Fix != "" {
				b.WriteString(" (fix: ")
				b.WriteString(v.Fix)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}
	writeGroup("ERROR", errs)
	writeGroup("WARN", warns)
	return strings.TrimRight(b.String(), "\n")
}
