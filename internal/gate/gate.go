// Package gate implements the two decision orchestrators: the Pre-Action
// Gate, which inspects an action before the host executes it, and the
// Completion Gate, which validates the work product when a task claims to
// be done.
//
// Both gates share one state machine: RECEIVED → CLASSIFIED →
// (CACHE_CHECK →) VALIDATED → DECIDED → LOGGED. DECIDED and LOGGED are
// always reached, even when the orchestrator itself fails: an internal
// fault resolves to approve with an error annotation (fail-open), while a
// classified hard-block violation is unconditional (fail-closed). The two
// error channels are never mixed.
package gate

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mwynn/toolgate/internal/decisionlog"
	"github.com/mwynn/toolgate/internal/logger"
	"github.com/mwynn/toolgate/internal/verdict"
)

// stage tracks progress through the shared state machine, so a fail-open
// annotation can say how far evaluation got.
type stage string

const (
	stageReceived   stage = "RECEIVED"
	stageClassified stage = "CLASSIFIED"
	stageCacheCheck stage = "CACHE_CHECK"
	stageValidated  stage = "VALIDATED"
	stageDecided    stage = "DECIDED"
)

// Result is the outcome of one gate evaluation.
type Result struct {
	Decision string          // allow | deny | ask
	Verdict  verdict.Verdict // the structured verdict behind the decision
	Output   string          // JSON sent to the host
}

// ParseInput reads and decodes one event from r. The raw bytes are
// returned alongside for diagnostics.
func ParseInput(r io.Reader) (Input, string, error) {
	rawBytes, err := io.ReadAll(r)
	if err != nil {
		return Input{}, "", fmt.Errorf("read input: %w", err)
	}
	var input Input
	if err := json.Unmarshal(rawBytes, &input); err != nil {
		return Input{}, string(rawBytes), fmt.Errorf("decode input: %w", err)
	}
	return input, string(rawBytes), nil
}

// recoverToResult converts a panic inside a gate into the fail-open
// result for internal faults. Never applied to classified violations,
// which have already produced a deny by the time they exist.
func recoverToResult(event string, st stage, rec any) Result {
	logger.Error("internal fault in gate", "stage", string(st), "panic", rec)
	msg := fmt.Sprintf("internal error during %s: %v; action allowed", st, rec)
	return Result{
		Decision: DecisionAllow,
		Verdict:  verdict.Approved(msg),
		Output:   Format(event, DecisionAllow, msg),
	}
}

// askResult declines evaluation and defers to the host default.
func askResult(event, reason string) Result {
	return Result{
		Decision: DecisionAsk,
		Verdict:  verdict.Verdict{Approve: true, Message: reason},
		Output:   Format(event, DecisionAsk, reason),
	}
}

// logDecision appends the decision record. Always called, including on the
// fail-open path; a logging failure never alters the decision.
func logDecision(log *decisionlog.Logger, gateName string, in Input, res Result, started time.Time) {
	if log == nil {
		return
	}
	err := log.Log(decisionlog.Entry{
		Gate:       gateName,
		SessionID:  in.SessionID,
		ToolUseID:  in.ToolUseID,
		ToolName:   in.ToolName,
		Resource:   in.ToolInput.FilePath,
		Command:    in.ToolInput.Command,
		Decision:   res.Decision,
		Reason:     res.Verdict.Message,
		Violations: res.Verdict.Violations,
		DurationMs: float64(time.Since(started).Microseconds()) / 1000.0,
		Cwd:        in.Cwd,
	})
	if err != nil {
		logger.Debug("failed to log decision", "gate", gateName, "error", err)
	}
}
