package gate

/*
Type relationships in the gate package:

Data flow:
  Input (JSON event from the host)
    → PreGate.Evaluate()          (pre-action checks, classifier, path safety)
    → CompletionGate.Evaluate()   (scope selection, cache, standards, tools)
    → Result (decision + verdict)
    → Output (JSON back to the host)

Related packages:
  - classify.Classifier: command threat classification
  - pathsafe:            traversal/encoding validation
  - cache.Cache:         memoized per-resource verdicts
  - scope:               validation-mode selection
  - invoke.Runner:       external tool subprocesses
  - decisionlog.Logger:  append-only decision records
*/

// Hook event names sent by the host.
const (
	EventPreToolUse  = "PreToolUse"
	EventPostToolUse = "PostToolUse"
	EventStop        = "Stop"
)

// Phase is the evaluation phase derived from the hook event.
type Phase string

const (
	PhasePreAction  Phase = "pre-action"
	PhasePostAction Phase = "post-action"
	PhaseCompletion Phase = "completion-check"
)

// PhaseForEvent maps a hook event name to its phase. Unknown events are
// treated as pre-action, the most conservative interpretation.
func PhaseForEvent(event string) Phase {
	switch event {
	case EventPostToolUse:
		return PhasePostAction
	case EventStop:
		return PhaseCompletion
	default:
		return PhasePreAction
	}
}

// Permission decisions emitted to the host. Deny is a hard block; allow
// carries guidance the host surfaces; ask defers to the host default.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionAsk   = "ask"
)

// ToolInputData contains the action details from the tool invocation.
type ToolInputData struct {
	Command     string `json:"command,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
	Timeout     int    `json:"timeout,omitempty"`
}

// Input represents the JSON event received from the host. One Input is
// created per intercepted action and discarded after the decision.
type Input struct {
	SessionID      string        `json:"session_id"`
	TranscriptPath string        `json:"transcript_path"`
	Cwd            string        `json:"cwd"`
	PermissionMode string        `json:"permission_mode"`
	HookEventName  string        `json:"hook_event_name"`
	ToolName       string        `json:"tool_name"`
	ToolInput      ToolInputData `json:"tool_input"`
	ToolUseID      string        `json:"tool_use_id"`
}

// Output represents the JSON response sent back to the host.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput contains the permission decision details.
type SpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// writeTools are tool names whose invocations create or modify files.
var writeTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// IsWriteTool reports whether toolName modifies files.
func IsWriteTool(toolName string) bool {
	return writeTools[toolName]
}
