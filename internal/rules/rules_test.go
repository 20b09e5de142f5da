package rules

import (
	"testing"

	"github.com/mwynn/toolgate/internal/verdict"
)

func TestBuildSimplePattern(t *testing.T) {
	tests := []struct {
		cmd     string
		matches []string
		misses  []string
	}{
		{
			cmd:     "ls",
			matches: []string{"ls", "ls -la", "ls /tmp"},
			misses:  []string{"lsof", "als", "echo ls"},
		},
		{
			cmd:     "go.test", // meta characters are escaped
			matches: []string{"go.test -v"},
			misses:  []string{"goxtest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			r := MustCompile(BuildSimplePattern(tt.cmd), tt.cmd, "", verdict.SeverityInfo)
			for _, m := range tt.matches {
				if !r.Match(m) {
					t.Errorf("pattern for %q should match %q", tt.cmd, m)
				}
			}
			for _, m := range tt.misses {
				if r.Match(m) {
					t.Errorf("pattern for %q should not match %q", tt.cmd, m)
				}
			}
		})
	}
}

func TestBuildSubcommandPattern(t *testing.T) {
	pattern := BuildSubcommandPattern("git", []string{"status", "log"}, []string{"-C <arg>", "--no-pager"})
	r := MustCompile(pattern, "git", "", verdict.SeverityInfo)

	matches := []string{
		"git status",
		"git log --oneline",
		"git -C /repo status",
		"git -C/repo status",
		"git --no-pager log",
		"git -C /repo --no-pager log",
	}
	for _, m := range matches {
		if !r.Match(m) {
			t.Errorf("pattern should match %q (pattern: %s)", m, pattern)
		}
	}

	misses := []string{
		"git push",
		"git statusx",
		"git",
		"got status",
	}
	for _, m := range misses {
		if r.Match(m) {
			t.Errorf("pattern should not match %q (pattern: %s)", m, pattern)
		}
	}
}

func TestBuildFlagPattern(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"", ""},
		{"-f", `(-f\s+)?`},
		{"-n <arg>", `(-n\s*\S+\s+)?`},
		{"<arg>", `(\S+\s+)?`},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := BuildFlagPattern(tt.flag); got != tt.want {
				t.Errorf("BuildFlagPattern(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestFirstMatchHonorsOrder(t *testing.T) {
	table := []Rule{
		MustCompile(`rm\s+-rf`, "specific", "", verdict.SeverityError),
		MustCompile(`rm`, "general", "", verdict.SeverityError),
	}

	r := FirstMatch("rm -rf /tmp", table)
	if r == nil || r.Name != "specific" {
		t.Errorf("FirstMatch = %v, want the first rule in table order", r)
	}

	if FirstMatch("ls", table) != nil {
		t.Error("FirstMatch fired without a match")
	}
}

func TestViolationFallsBackToName(t *testing.T) {
	r := MustCompile(`x`, "my_rule", "some_category", verdict.SeverityWarning)
	v := r.Violation("a/b.go")
	if v.Message != "my_rule" {
		t.Errorf("message = %q, want the rule name fallback", v.Message)
	}
	if v.Path != "a/b.go" || v.Category != "some_category" || v.Severity != verdict.SeverityWarning {
		t.Errorf("violation fields wrong: %+v", v)
	}
}

func TestCompileRejectsInvalidPattern(t *testing.T) {
	if _, err := Compile(`([`, "bad", "", verdict.SeverityError); err == nil {
		t.Error("Compile accepted an invalid pattern")
	}
}
