package gate

import (
	"encoding/json"

	"github.com/mwynn/toolgate/internal/logger"
)

// internalErrorOutput is the hand-written fallback when marshaling the
// normal output fails.
const internalErrorOutput = `{"hookSpecificOutput":{"hookEventName":"PreToolUse","permissionDecision":"ask","permissionDecisionReason":"internal error"}}`

// Format returns the JSON output for a decision on the given hook event.
func Format(eventName, decision, reason string) string {
	output := Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName:            eventName,
			PermissionDecision:       decision,
			PermissionDecisionReason: reason,
		},
	}
	data, err := json.Marshal(output)
	if err != nil {
		logger.Debug("failed to marshal gate output", "error", err)
		return internalErrorOutput
	}
	return string(data)
}
