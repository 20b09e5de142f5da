package gate

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/mwynn/toolgate/internal/classify"
	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/decisionlog"
	"github.com/mwynn/toolgate/internal/logger"
	"github.com/mwynn/toolgate/internal/pathsafe"
	"github.com/mwynn/toolgate/internal/verdict"
)

// GatePreAction names the pre-action gate in decision log records.
const GatePreAction = "pre-action"

// PreGate evaluates an action before the host executes it. The hard-block
// checks run in fixed order and short-circuit on the first hit: env file
// protection, destructive command classification, then root structure
// protection. Command-file writes are flagged last and never block.
type PreGate struct {
	Cfg        *config.Config
	Log        *decisionlog.Logger
	Classifier *classify.Classifier
	// BaseDir overrides the event's cwd as the containment root. Mostly
	// for tests; production leaves it empty.
	BaseDir string
}

// NewPreGate wires a pre-action gate from configuration.
func NewPreGate(cfg *config.Config, log *decisionlog.Logger) *PreGate {
	return &PreGate{
		Cfg:        cfg,
		Log:        log,
		Classifier: classify.New(cfg.AllowRules, cfg.DenyRules),
	}
}

// Evaluate renders the pre-action decision for one event.
func (g *PreGate) Evaluate(in Input) (res Result) {
	started := time.Now()
	st := stageReceived

	defer func() {
		if rec := recover(); rec != nil {
			res = recoverToResult(EventPreToolUse, st, rec)
		}
		logDecision(g.Log, GatePreAction, in, res, started)
	}()

	// Malformed input: decline evaluation, defer to the host default.
	if in.ToolName == "" {
		return askResult(EventPreToolUse, "event missing tool_name")
	}
	if in.ToolInput.Command == "" && in.ToolInput.FilePath == "" {
		return askResult(EventPreToolUse, "event carries no command or resource path")
	}

	baseDir := g.BaseDir
	if baseDir == "" {
		baseDir = in.Cwd
	}

	var warnings []verdict.Violation

	// ENV_FILE_CHECK: secrets files are never writable.
	if v := g.checkEnvFile(in); v != nil {
		return g.deny(in, *v)
	}

	// DESTRUCTIVE_COMMAND_CHECK: classifier over the command text.
	if cmd := in.ToolInput.Command; cmd != "" {
		st = stageClassified
		violations := g.Classifier.Classify(cmd)
		logger.Debug("classified command", "command", cmd, "violations", len(violations))
		for _, v := range violations {
			if v.Severity == verdict.SeverityError {
				return g.deny(in, v, violations...)
			}
		}
		// Non-hard-block categories degrade to warnings.
		warnings = append(warnings, violations...)
	}

	// ROOT_STRUCTURE_CHECK: containment and protected root files.
	if v := g.checkRootStructure(in, baseDir); v != nil {
		return g.deny(in, *v)
	}

	// COMMAND_FILE_WARN: advisory only, never blocks.
	if v := g.checkCommandFile(in); v != nil {
		warnings = append(warnings, *v)
	}

	st = stageDecided
	msg := "approved"
	if len(warnings) > 0 {
		msg = "approved with warnings:\n" + verdict.Remediation(warnings)
	}
	return Result{
		Decision: DecisionAllow,
		Verdict:  verdict.Verdict{Approve: true, Message: msg, Violations: warnings},
		Output:   Format(EventPreToolUse, DecisionAllow, msg),
	}
}

// deny renders a hard block whose message names the matched protection
// category and carries the full violation set.
func (g *PreGate) deny(in Input, cause verdict.Violation, all ...verdict.Violation) Result {
	if len(all) == 0 {
		all = []verdict.Violation{cause}
	}
	msg := cause.Category + ": " + cause.Message
	if cause.Fix != "" {
		msg += " (fix: " + cause.Fix + ")"
	}
	return Result{
		Decision: DecisionDeny,
		Verdict:  verdict.Blocked(msg, all...),
		Output:   Format(EventPreToolUse, DecisionDeny, msg),
	}
}

// checkEnvFile blocks writes to .env files, excluding documented sample
// variants (.env.sample, .env.example by default).
func (g *PreGate) checkEnvFile(in Input) *verdict.Violation {
	if !IsWriteTool(in.ToolName) || in.ToolInput.FilePath == "" {
		return nil
	}
	base := filepath.Base(in.ToolInput.FilePath)
	if base != ".env" && !strings.HasPrefix(base, ".env.") {
		return nil
	}
	for _, exception := range g.Cfg.EnvExceptions {
		if base == exception {
			return nil
		}
	}
	return &verdict.Violation{
		RuleID:   "env_file_access",
		Category: verdict.CategoryEnvFile,
		Severity: verdict.SeverityError,
		Message:  "write to environment secrets file " + base,
		Fix:      "edit " + base + " manually, or use a sample variant",
		Path:     in.ToolInput.FilePath,
	}
}

// checkRootStructure blocks writes escaping the base directory and
// overwrites of protected repo-root files.
func (g *PreGate) checkRootStructure(in Input, baseDir string) *verdict.Violation {
	if !IsWriteTool(in.ToolName) || in.ToolInput.FilePath == "" || baseDir == "" {
		return nil
	}

	resolved, err := pathsafe.Resolve(in.ToolInput.FilePath, baseDir)
	if err != nil {
		return &verdict.Violation{
			RuleID:   "path_traversal",
			Category: verdict.CategoryTraversal,
			Severity: verdict.SeverityError,
			Message:  "path escapes the working directory: " + err.Error(),
			Fix:      "use a plain path inside the project",
			Path:     in.ToolInput.FilePath,
		}
	}

	absBase, _ := filepath.Abs(baseDir)
	if filepath.Dir(resolved) == filepath.Clean(absBase) {
		name := filepath.Base(resolved)
		for _, protected := range g.Cfg.ProtectedFiles {
			if name == protected {
				return &verdict.Violation{
					RuleID:   "protected_file_write",
					Category: verdict.CategoryProtectedFile,
					Severity: verdict.SeverityError,
					Message:  "write to protected root file " + name,
					Fix:      "change " + name + " through its owning workflow",
					Path:     in.ToolInput.FilePath,
				}
			}
		}
	}
	return nil
}

// checkCommandFile flags writes to command/hook files. Advisory only.
func (g *PreGate) checkCommandFile(in Input) *verdict.Violation {
	if !IsWriteTool(in.ToolName) || in.ToolInput.FilePath == "" {
		return nil
	}
	path := in.ToolInput.FilePath
	base := filepath.Base(path)
	for _, glob := range g.Cfg.CommandFileGlobs {
		matched := false
		if ok, err := filepath.Match(glob, base); err == nil && ok {
			matched = true
		}
		if ok, err := filepath.Match(glob, path); err == nil && ok {
			matched = true
		}
		if matched {
			return &verdict.Violation{
				RuleID:   "command_file_write",
				Severity: verdict.SeverityWarning,
				Message:  "writing a command file (" + base + "); review before executing it",
				Path:     path,
			}
		}
	}
	return nil
}
