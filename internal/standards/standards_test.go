package standards

import (
	"testing"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/rules"
	"github.com/mwynn/toolgate/internal/verdict"
)

func testChecks() []config.StandardsCheck {
	return []config.StandardsCheck{
		{
			Rule:  rules.MustCompile(`interface\{\}`, "banned_type_empty_interface", "", verdict.SeverityError),
			Kind:  "banned_type",
			Files: []string{"*.go"},
		},
		{
			Rule:  rules.MustCompile(`\bpanic\(`, "banned_keyword_panic", "", verdict.SeverityError),
			Kind:  "banned_keyword",
			Files: []string{"*.go"},
		},
		{
			Rule:  rules.MustCompile(`if\s+err\s*!=\s*nil\s*\{\s*\}`, "empty_error_handling", "", verdict.SeverityError),
			Kind:  "empty_error_handling",
			Files: []string{"*.go"},
		},
		{
			Rule:  rules.MustCompile(`func\s+[A-Za-z0-9]+_[A-Za-z0-9_]*\(`, "naming_convention", "", verdict.SeverityWarning),
			Kind:  "naming",
			Files: []string{"*.go"},
		},
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		content   string
		wantRules []string
	}{
		{
			name:      "banned type",
			path:      "svc/handler.go",
			content:   "func f(v interface{}) {}",
			wantRules: []string{"banned_type_empty_interface"},
		},
		{
			name:      "banned keyword",
			path:      "svc/handler.go",
			content:   "func f() { panic(\"boom\") }",
			wantRules: []string{"banned_keyword_panic"},
		},
		{
			name:      "empty error handling",
			path:      "svc/handler.go",
			content:   "if err != nil {\n}",
			wantRules: []string{"empty_error_handling"},
		},
		{
			name:      "snake case name",
			path:      "svc/handler.go",
			content:   "func do_work() {}",
			wantRules: []string{"naming_convention"},
		},
		{
			name:      "multiple findings",
			path:      "svc/handler.go",
			content:   "func do_work(v interface{}) { panic(v) }",
			wantRules: []string{"banned_type_empty_interface", "banned_keyword_panic", "naming_convention"},
		},
		{
			name:      "clean file",
			path:      "svc/handler.go",
			content:   "func Work() error { return nil }",
			wantRules: nil,
		},
		{
			name:      "non-go file ignored",
			path:      "README.md",
			content:   "call panic( and pass interface{} values",
			wantRules: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := Run(tt.path, []byte(tt.content), testChecks())
			if len(violations) != len(tt.wantRules) {
				t.Fatalf("Run() = %v, want rules %v", violations, tt.wantRules)
			}
			for i, want := range tt.wantRules {
				if violations[i].RuleID != want {
					t.Errorf("violation %d = %q, want %q", i, violations[i].RuleID, want)
				}
			}
		})
	}
}

func TestRunRecordsPath(t *testing.T) {
	violations := Run("pkg/x.go", []byte("panic(1)"), testChecks())
	if len(violations) == 0 {
		t.Fatal("expected a violation")
	}
	if violations[0].Path != "pkg/x.go" {
		t.Errorf("path = %q, want pkg/x.go", violations[0].Path)
	}
}

func TestAppliesTo(t *testing.T) {
	check := config.StandardsCheck{Files: []string{"*.go"}}
	if !appliesTo(check, "deep/nested/file.go") {
		t.Error("glob should match on the base name")
	}
	if appliesTo(check, "file.md") {
		t.Error("glob should not match other extensions")
	}

	unrestricted := config.StandardsCheck{}
	if !appliesTo(unrestricted, "anything.txt") {
		t.Error("a check without globs applies everywhere")
	}
}
