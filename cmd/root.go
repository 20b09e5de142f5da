// Package cmd implements the CLI commands for toolgate.
package cmd

import (
	"os"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/constants"
	"github.com/mwynn/toolgate/internal/decisionlog"
	"github.com/mwynn/toolgate/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose       bool
	dryRun        bool
	noDecisionLog bool
	fastMode      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "toolgate",
	Short: "Tool-invocation gate hook for automated coding agents",
	Long: `toolgate is a hook that intercepts tool-invocation events from an
automated coding agent and renders an allow/block verdict before the host
executes the action. It never executes the inspected action itself.

When called without arguments, it reads a JSON event from stdin and writes
the permission decision JSON to stdout.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "Bash|Write|Edit",
      "hooks": [{"type": "command", "command": "toolgate"}]
    }],
    "Stop": [{
      "hooks": [{"type": "command", "command": "toolgate complete"}]
    }]
  }`,
	// Run the hook by default when no subcommand is given
	Run: runHook,
	// Silence usage on errors
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the decision to stderr instead of JSON output")
	rootCmd.PersistentFlags().BoolVar(&noDecisionLog, "no-decision-log", false, "Disable decision logging")
	rootCmd.PersistentFlags().BoolVar(&fastMode, "fast", false, "Skip cache reads, forcing fresh validation")
}

// initApp initializes the application (logger, config)
func initApp() {
	if os.Getenv(constants.EnvDebug) != "" {
		verbose = true
	}
	if os.Getenv(constants.EnvFast) != "" {
		fastMode = true
	}

	logger.Init(logger.Options{Verbose: verbose})
	config.Init()
}

// newDecisionLog opens the decision log for a gate, honoring the
// --no-decision-log flag. A log that fails to open degrades to a disabled
// logger; logging must never block a decision.
func newDecisionLog(gateName string) *decisionlog.Logger {
	if noDecisionLog || dryRun {
		return decisionlog.Disabled()
	}
	log, err := decisionlog.New(gateName, "")
	if err != nil {
		logger.Debug("decision log unavailable", "gate", gateName, "error", err)
		return decisionlog.Disabled()
	}
	return log
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}
