package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/gate"
	"github.com/spf13/cobra"
)

// runHook is the default command: it reads one event from stdin and renders
// the decision. PreToolUse events go to the pre-action gate; PostToolUse
// and Stop events go to the completion gate, so one hook binary serves
// every matcher.
func runHook(cmd *cobra.Command, args []string) {
	in, _, err := gate.ParseInput(os.Stdin)
	if err != nil {
		emit(gate.Result{
			Decision: gate.DecisionAsk,
			Output:   gate.Format(gate.EventPreToolUse, gate.DecisionAsk, "malformed event: "+err.Error()),
		})
		return
	}

	var res gate.Result
	if gate.PhaseForEvent(in.HookEventName) == gate.PhasePreAction {
		g := gate.NewPreGate(config.Get(), newDecisionLog(gate.GatePreAction))
		defer g.Log.Close()
		res = g.Evaluate(in)
	} else {
		g := gate.NewCompletionGate(config.Get(), newDecisionLog(gate.GateCompletion))
		g.Fast = fastMode
		defer g.Log.Close()
		res = g.Evaluate(context.Background(), in)
	}

	emit(res)
}

// emit writes the decision. Dry-run mode reports to stderr and suppresses
// the JSON the host would act on.
func emit(res gate.Result) {
	if dryRun {
		fmt.Fprintf(os.Stderr, "%s: %s\n", strings.ToUpper(res.Decision), res.Verdict.Message)
		return
	}
	fmt.Print(res.Output)
}
