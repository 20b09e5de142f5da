// Package invoke runs external validation tools as subprocesses behind a
// narrow interface, so core gate logic can be tested with an injected fake
// and never spawns real processes in tests.
//
// Failures never escape this boundary: a missing tool, a non-zero exit, or
// a timeout all surface as a typed Result. Severity is decided by the
// caller.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/mwynn/toolgate/internal/logger"
)

// maxCapturedOutput bounds diagnostic text carried in a Result.
const maxCapturedOutput = 4096

// Result is the typed outcome of one tool invocation.
type Result struct {
	Tool     string
	Success  bool
	Skipped  bool // tool not installed; informational, not a failure
	Stdout   string
	Stderr   string
	ExitCode int
	Err      string // transport-level failure (timeout, bad command line)
}

// Runner executes one external tool command in a directory.
type Runner interface {
	Run(ctx context.Context, dir, command string) Result
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// Run parses command into argv, executes it in dir, and captures output.
// The context carries the caller's timeout; expiry is reported as a
// failure Result, never a panic or a propagated error.
func (ExecRunner) Run(ctx context.Context, dir, command string) Result {
	res := Result{Tool: command}

	argv, err := shellquote.Split(command)
	if err != nil || len(argv) == 0 {
		res.Err = "invalid tool command line"
		return res
	}
	res.Tool = argv[0]

	if _, err := exec.LookPath(argv[0]); err != nil {
		logger.Debug("tool not installed, skipping", "tool", argv[0])
		res.Skipped = true
		return res
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	res.Stdout = truncate(stdout.String())
	res.Stderr = truncate(stderr.String())

	if ctx.Err() != nil {
		res.Err = "tool timed out"
		return res
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Non-zero exit is a failure signal, not a crash.
			res.ExitCode = exitErr.ExitCode()
			return res
		}
		res.Err = runErr.Error()
		return res
	}

	res.Success = true
	return res
}

func truncate(s string) string {
	if len(s) <= maxCapturedOutput {
		return s
	}
	return s[:maxCapturedOutput] + "\n... (output truncated)"
}
