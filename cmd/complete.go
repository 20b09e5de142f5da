package cmd

import (
	"context"
	"os"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/gate"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Run the completion check for the current task",
	Long: `Complete runs the completion gate: it validates the work product
against the code-standards checks and the configured external tools, then
renders an allow/block verdict with remediation guidance.

Wired as the Stop hook, it reads the JSON event from stdin. Run manually
with no piped input, it checks the current directory in full scope.`,
	Run: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) {
	in := readEventOrSynthesize()

	g := gate.NewCompletionGate(config.Get(), newDecisionLog(gate.GateCompletion))
	g.Fast = fastMode
	defer g.Log.Close()

	emit(g.Evaluate(context.Background(), in))
}

// readEventOrSynthesize parses a piped event, or builds a Stop event for
// the current directory when stdin is a terminal or carries no event.
func readEventOrSynthesize() gate.Input {
	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice == 0 {
		if in, _, err := gate.ParseInput(os.Stdin); err == nil && in.HookEventName != "" {
			return in
		}
	}
	wd, _ := os.Getwd()
	return gate.Input{HookEventName: gate.EventStop, Cwd: wd}
}
