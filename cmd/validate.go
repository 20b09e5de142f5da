package cmd

import (
	"fmt"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show compiled rules",
	Long: `Validate validates the toolgate configuration file and displays all
compiled rules.

This is useful for:
- Checking that your config.toml syntax is correct
- Seeing what rules will actually be used
- Debugging rule matching issues`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("failed to load configuration")
	}
	if err := config.InitError(); err != nil {
		fmt.Printf("Warning: running on embedded defaults (%v)\n\n", err)
	} else if path := config.GetConfigPath(); path != "" {
		fmt.Printf("Configuration loaded from: %s\n\n", path)
	}

	fmt.Println("Configuration valid!")
	fmt.Println()

	// Show allow rules
	fmt.Printf("Allow rules: %d\n", len(cfg.AllowRules))
	for _, r := range cfg.AllowRules {
		fmt.Printf("  - %s: %s\n", r.Name, r.Regex.String())
	}
	fmt.Println()

	// Show deny rules
	fmt.Printf("Deny rules: %d\n", len(cfg.DenyRules))
	for _, r := range cfg.DenyRules {
		fmt.Printf("  - %s [%s/%s]: %s\n", r.Name, r.Category, r.Severity, r.Regex.String())
	}
	fmt.Println()

	// Show standards checks
	fmt.Printf("Standards checks: %d\n", len(cfg.Standards))
	for _, s := range cfg.Standards {
		fmt.Printf("  - %s (%s, files %v): %s\n", s.Rule.Name, s.Kind, s.Files, s.Rule.Regex.String())
	}
	fmt.Println()

	// Show external tools
	fmt.Printf("External tools: %d (timeout %s)\n", len(cfg.Tools), cfg.ToolTimeout)
	for _, t := range cfg.Tools {
		suffix := ""
		if t.FullOnly {
			suffix = " (full scope only)"
		}
		fmt.Printf("  - %s: %s%s\n", t.Name, t.Command, suffix)
	}

	return nil
}
