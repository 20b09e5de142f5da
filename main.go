// toolgate - tool-invocation gate hook for automated coding agents
//
// toolgate intercepts tool-invocation events (Bash commands, file writes,
// completion checks) and renders an allow/block verdict before the host
// executes the action. It never executes the inspected action itself.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Bash|Write|Edit",
//	    "hooks": [{"type": "command", "command": "toolgate"}]
//	  }],
//	  "Stop": [{
//	    "hooks": [{"type": "command", "command": "toolgate complete"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "rm -rf /tmp/foo"}}' | toolgate
package main

import (
	"os"

	"github.com/mwynn/toolgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
