package scope

import (
	"context"
	"strings"
	"testing"

	"github.com/mwynn/toolgate/internal/invoke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner maps command lines to canned results.
type fakeRunner struct {
	results map[string]invoke.Result
	calls   []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, command string) invoke.Result {
	f.calls = append(f.calls, command)
	if res, ok := f.results[command]; ok {
		return res
	}
	return invoke.Result{Skipped: true}
}

func TestSelectPriorityTable(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Mode
	}{
		{"completion check wins", Request{CompletionCheck: true}, ModeFull},
		{"completion check beats target", Request{CompletionCheck: true, TargetPath: "x.go"}, ModeFull},
		{"explicit target", Request{TargetPath: "x.go"}, ModeFile},
		{"default incremental", Request{}, ModeIncremental},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.req))
		})
	}
}

func TestChangedFiles(t *testing.T) {
	runner := &fakeRunner{results: map[string]invoke.Result{
		"git diff --name-only HEAD": {
			Success: true,
			Stdout:  "a.go\nb.go\n",
		},
		"git ls-files --others --exclude-standard": {
			Success: true,
			Stdout:  "b.go\nnew.go\n",
		},
	}}

	files, err := ChangedFiles(context.Background(), runner, "/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "new.go"}, files, "untracked files count as changed, duplicates collapse")
}

func TestChangedFilesWithoutGit(t *testing.T) {
	runner := &fakeRunner{results: map[string]invoke.Result{}}

	_, err := ChangedFiles(context.Background(), runner, "/repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git diff unavailable")
}

func TestChangedFilesDiffFails(t *testing.T) {
	runner := &fakeRunner{results: map[string]invoke.Result{
		"git diff --name-only HEAD": {
			ExitCode: 128,
			Stderr:   "fatal: not a git repository",
		},
	}}

	_, err := ChangedFiles(context.Background(), runner, "/repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestTrackedFiles(t *testing.T) {
	runner := &fakeRunner{results: map[string]invoke.Result{
		"git ls-files": {
			Success: true,
			Stdout:  "main.go\ninternal/gate/gate.go\n\n",
		},
	}}

	files, err := TrackedFiles(context.Background(), runner, "/repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "internal/gate/gate.go"}, files)
	require.Len(t, runner.calls, 1)
	assert.True(t, strings.HasPrefix(runner.calls[0], "git ls-files"))
}

func TestTrackedFilesWithoutGit(t *testing.T) {
	runner := &fakeRunner{results: map[string]invoke.Result{}}
	_, err := TrackedFiles(context.Background(), runner, "/repo")
	require.Error(t, err)
}
