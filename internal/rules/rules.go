// Package rules provides the data-driven rule table used by the pattern
// classifier and the code-standards checks: compiled (regex, category,
// severity) tuples evaluated in priority order, plus helpers for building
// command-matching regexes from structured configuration.
package rules

import (
	"regexp"
	"strings"

	"github.com/mwynn/toolgate/internal/verdict"
)

// Rule holds one compiled detector.
type Rule struct {
	Regex    *regexp.Regexp
	Name     string
	Category string
	Severity verdict.Severity
	Pattern  string // original pattern string
	Message  string
	Fix      string
}

// Match reports whether the rule fires on the given (normalized) text.
func (r Rule) Match(text string) bool {
	return r.Regex.MatchString(text)
}

// Violation converts a fired rule into a violation for the given resource.
func (r Rule) Violation(path string) verdict.Violation {
	msg := r.Message
	if msg == "" {
		msg = r.Name
	}
	return verdict.Violation{
		RuleID:   r.Name,
		Category: r.Category,
		Severity: r.Severity,
		Message:  msg,
		Fix:      r.Fix,
		Path:     path,
	}
}

// FirstMatch returns the first rule in the ordered table that fires, or nil.
func FirstMatch(text string, table []Rule) *Rule {
	for i := range table {
		if table[i].Match(text) {
			return &table[i]
		}
	}
	return nil
}

// BuildFlagPattern converts a flag specification to a regex fragment.
// "-f" becomes "(-f\s+)?"
// "-f <arg>" becomes "(-f\s*\S+\s+)?" (allows -f10 or -f 10)
// "<arg>" becomes "(\S+\s+)?" (positional argument)
// "" (empty) becomes "" (allows bare command)
func BuildFlagPattern(flag string) string {
	flag = strings.TrimSpace(flag)
	if flag == "" {
		return ""
	}
	if flag == "<arg>" {
		return `(\S+\s+)?`
	}
	if strings.HasSuffix(flag, " <arg>") {
		flagName := strings.TrimSuffix(flag, " <arg>")
		// Allow optional space between flag and argument (e.g., -n10 or -n 10)
		return `(` + regexp.QuoteMeta(flagName) + `\s*\S+\s+)?`
	}
	return `(` + regexp.QuoteMeta(flag) + `\s+)?`
}

// BuildSimplePattern creates a regex for a simple command (any args allowed).
// "pytest" becomes "^pytest\b"
func BuildSimplePattern(cmd string) string {
	return `^` + regexp.QuoteMeta(cmd) + `\b`
}

// BuildSubcommandPattern creates a regex for a command with subcommands and
// optional flags. cmd="git", subcommands=["diff","log"], flags=["-C <arg>"]
// becomes "^git\s+(-C\s*\S+\s+)?(diff|log)\b"
func BuildSubcommandPattern(cmd string, subcommands []string, flags []string) string {
	var flagPatterns string
	for _, f := range flags {
		flagPatterns += BuildFlagPattern(f)
	}

	escaped := make([]string, len(subcommands))
	for i, sub := range subcommands {
		escaped[i] = regexp.QuoteMeta(sub)
	}
	subPattern := strings.Join(escaped, "|")

	return `^` + regexp.QuoteMeta(cmd) + `\s+` + flagPatterns + `(` + subPattern + `)\b`
}

// Compile compiles a pattern string into a Rule.
// Returns an error if the pattern is invalid.
func Compile(pattern, name, category string, severity verdict.Severity) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Regex: re, Name: name, Category: category, Severity: severity, Pattern: pattern}, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
// Intended for built-in tables only.
func MustCompile(pattern, name, category string, severity verdict.Severity) Rule {
	r, err := Compile(pattern, name, category, severity)
	if err != nil {
		panic(err)
	}
	return r
}
