package gate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/mwynn/toolgate/internal/cache"
	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/decisionlog"
	"github.com/mwynn/toolgate/internal/fingerprint"
	"github.com/mwynn/toolgate/internal/invoke"
	"github.com/mwynn/toolgate/internal/logger"
	"github.com/mwynn/toolgate/internal/scope"
	"github.com/mwynn/toolgate/internal/standards"
	"github.com/mwynn/toolgate/internal/verdict"
)

// GateCompletion names the completion gate in decision log records.
const GateCompletion = "completion"

// CompletionGate validates the work product when a task claims to be done
// or a file was just modified. It selects a validation scope, runs the
// code-standards checks and external tools over it, and aggregates every
// finding into a single verdict with remediation text.
type CompletionGate struct {
	Cfg    *config.Config
	Log    *decisionlog.Logger
	Cache  *cache.Cache
	Runner invoke.Runner
	// Fast skips cache reads (results are still stored), forcing fresh
	// validation. Driven by the TOOLGATE_FAST env toggle.
	Fast bool
}

// NewCompletionGate wires a completion gate from configuration.
func NewCompletionGate(cfg *config.Config, log *decisionlog.Logger) *CompletionGate {
	return &CompletionGate{
		Cfg:    cfg,
		Log:    log,
		Cache:  cache.New(cfg.CacheCapacity, cfg.CacheTTL),
		Runner: invoke.ExecRunner{},
	}
}

// Evaluate renders the completion decision for one event.
func (g *CompletionGate) Evaluate(ctx context.Context, in Input) (res Result) {
	started := time.Now()
	st := stageReceived

	defer func() {
		if rec := recover(); rec != nil {
			res = recoverToResult(in.HookEventName, st, rec)
		}
		logDecision(g.Log, GateCompletion, in, res, started)
	}()

	dir := in.Cwd
	if dir == "" {
		dir, _ = os.Getwd()
	}

	phase := PhaseForEvent(in.HookEventName)
	mode := scope.Select(scope.Request{
		CompletionCheck: phase == PhaseCompletion,
		TargetPath:      in.ToolInput.FilePath,
	})
	logger.Debug("completion scope selected", "mode", string(mode), "phase", string(phase))

	var violations []verdict.Violation

	files, degraded := g.collectFiles(ctx, dir, mode, in.ToolInput.FilePath)
	if degraded != nil {
		violations = append(violations, *degraded)
		mode = scope.ModeFull
		files, _ = g.collectFiles(ctx, dir, mode, "")
	}

	st = stageCacheCheck
	for _, rel := range files {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, rel)
		}
		violations = append(violations, g.validateFile(ctx, dir, path, mode)...)
	}

	st = stageValidated
	if mode != scope.ModeFile {
		violations = append(violations, g.runTools(ctx, dir, mode, files)...)
	}

	st = stageDecided
	return g.aggregate(in, violations)
}

// collectFiles resolves the file set for the selected mode. A failure to
// enumerate changed files is reported as an info finding and the caller
// degrades to full mode.
func (g *CompletionGate) collectFiles(ctx context.Context, dir string, mode scope.Mode, target string) ([]string, *verdict.Violation) {
	switch mode {
	case scope.ModeFile:
		return []string{target}, nil
	case scope.ModeIncremental:
		files, err := scope.ChangedFiles(ctx, g.Runner, dir)
		if err != nil {
			return nil, &verdict.Violation{
				RuleID:   "scope_degraded",
				Severity: verdict.SeverityInfo,
				Message:  "incremental scope unavailable (" + err.Error() + "); validating everything",
			}
		}
		return files, nil
	default:
		files, err := scope.TrackedFiles(ctx, g.Runner, dir)
		if err != nil {
			// No version control at all. Standards checks have nothing to
			// walk; repo-wide tools still run below.
			logger.Debug("full scope enumeration unavailable", "error", err)
			return nil, nil
		}
		return files, nil
	}
}

// validateFile runs the standards checks for one file, consulting the
// memoized verdict cache first. File-specific mode additionally runs the
// per-file external tools, so a cache hit skips those too.
func (g *CompletionGate) validateFile(ctx context.Context, dir, path string, mode scope.Mode) []verdict.Violation {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("unreadable file skipped", "path", path, "error", err)
		return nil
	}

	fp := fingerprint.Of(content, info.ModTime().UnixNano())
	key := fp.Key(path)

	if g.Cache != nil && !g.Fast {
		if v, ok := g.Cache.Get(key); ok {
			logger.Debug("cache hit", "path", path)
			return v.Violations
		}
	}

	violations := standards.Run(path, content, g.Cfg.Standards)
	if mode == scope.ModeFile {
		violations = append(violations, g.runTools(ctx, dir, mode, []string{path})...)
	}

	if g.Cache != nil {
		v := verdict.Verdict{Approve: len(violations) == 0, Violations: violations}
		g.Cache.Put(key, v)
	}
	return violations
}

// runTools invokes the configured external validation tools. In
// file-specific or incremental mode the file list is appended to each
// command line unless the tool is marked full_only; full mode always runs
// the bare command.
func (g *CompletionGate) runTools(ctx context.Context, dir string, mode scope.Mode, files []string) []verdict.Violation {
	var violations []verdict.Violation
	for _, tool := range g.Cfg.Tools {
		if mode != scope.ModeFull && (tool.FullOnly || len(files) == 0) {
			continue
		}
		cmdline := tool.Command
		if mode != scope.ModeFull {
			cmdline += " " + shellquote.Join(files...)
		}

		toolCtx, cancel := context.WithTimeout(ctx, g.Cfg.ToolTimeout)
		result := g.Runner.Run(toolCtx, dir, cmdline)
		cancel()

		if v := toolViolation(tool.Name, cmdline, result); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

// toolViolation maps one tool result to a violation, or nil on success.
// A missing tool is informational; a transport failure or non-zero exit is
// an error carrying bounded diagnostic output.
func toolViolation(name, cmdline string, result invoke.Result) *verdict.Violation {
	switch {
	case result.Skipped:
		return &verdict.Violation{
			RuleID:   name,
			Severity: verdict.SeverityInfo,
			Message:  result.Tool + " not installed; check skipped",
		}
	case result.Err != "":
		return &verdict.Violation{
			RuleID:   name,
			Severity: verdict.SeverityError,
			Message:  name + " failed to run: " + result.Err,
			Fix:      "run `" + cmdline + "` locally and resolve the failure",
		}
	case !result.Success:
		detail := strings.TrimSpace(firstNonEmpty(result.Stderr, result.Stdout))
		msg := name + " reported failures"
		if detail != "" {
			msg += ":\n" + detail
		}
		return &verdict.Violation{
			RuleID:   name,
			Severity: verdict.SeverityError,
			Message:  msg,
			Fix:      "run `" + cmdline + "` locally and fix the reported issues",
		}
	default:
		return nil
	}
}

// aggregate folds every finding into the final verdict. Any error-severity
// violation withholds approval; warnings and info findings alone approve
// with guidance.
func (g *CompletionGate) aggregate(in Input, violations []verdict.Violation) Result {
	v := verdict.Verdict{Violations: violations}
	if v.HasSeverity(verdict.SeverityError) {
		v.Approve = false
		v.Message = "completion check failed:\n" + verdict.Remediation(violations)
		return Result{
			Decision: DecisionDeny,
			Verdict:  v,
			Output:   Format(in.HookEventName, DecisionDeny, v.Message),
		}
	}

	v.Approve = true
	v.Message = "completion check passed"
	if len(violations) > 0 {
		v.Message += " with notes:\n" + verdict.Remediation(violations)
	}
	return Result{
		Decision: DecisionAllow,
		Verdict:  v,
		Output:   Format(in.HookEventName, DecisionAllow, v.Message),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
