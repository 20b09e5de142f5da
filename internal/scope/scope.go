// Package scope chooses the validation breadth for a request: file-specific,
// incremental, or full. The selection is a strict priority table, not a
// blended heuristic; a wrong mode either wastes time or misses regressions.
package scope

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwynn/toolgate/internal/invoke"
)

// Mode is the validation breadth.
type Mode string

const (
	// ModeFull validates the whole repository.
	ModeFull Mode = "full"
	// ModeIncremental validates files changed versus the last committed state.
	ModeIncremental Mode = "incremental"
	// ModeFile validates a single explicitly targeted resource.
	ModeFile Mode = "file-specific"
)

// Request carries the context the selector decides on. Modes are derived
// per request and never persisted.
type Request struct {
	// CompletionCheck is true for completion-check phase events.
	CompletionCheck bool
	// TargetPath is the explicit single-resource target, if any.
	TargetPath string
}

// Select applies the priority table: completion-check phase wins, then an
// explicit single-resource target, then incremental. The order is a hard
// priority.
func Select(req Request) Mode {
	switch {
	case req.CompletionCheck:
		return ModeFull
	case req.TargetPath != "":
		return ModeFile
	default:
		return ModeIncremental
	}
}

// ChangedFiles returns the paths changed versus the last committed state,
// obtained from the version-control collaborator through the injected
// runner. Untracked files count as changed.
func ChangedFiles(ctx context.Context, runner invoke.Runner, dir string) ([]string, error) {
	var files []string

	diff := runner.Run(ctx, dir, "git diff --name-only HEAD")
	if diff.Skipped || diff.Err != "" || diff.ExitCode != 0 {
		return nil, fmt.Errorf("git diff unavailable: %s", firstNonEmpty(diff.Err, diff.Stderr, "not a git repository"))
	}
	files = append(files, splitLines(diff.Stdout)...)

	untracked := runner.Run(ctx, dir, "git ls-files --others --exclude-standard")
	if untracked.Success {
		files = append(files, splitLines(untracked.Stdout)...)
	}

	return dedupe(files), nil
}

// TrackedFiles lists every file the repository tracks, for full-mode
// standards checks.
func TrackedFiles(ctx context.Context, runner invoke.Runner, dir string) ([]string, error) {
	res := runner.Run(ctx, dir, "git ls-files")
	if res.Skipped || res.Err != "" || res.ExitCode != 0 {
		return nil, fmt.Errorf("git ls-files unavailable: %s", firstNonEmpty(res.Err, res.Stderr, "not a git repository"))
	}
	return splitLines(res.Stdout), nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
