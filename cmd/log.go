package cmd

import (
	"fmt"

	"github.com/mwynn/toolgate/internal/decisionlog"
	"github.com/spf13/cobra"
)

var logDir string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage the decision logs",
}

var logCompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Compress rotated decision log segments",
	Long: `Compact gzips rotated decision log segments and removes the originals.

Active log files are never touched; only rotated segments written by an
external rotator (e.g. logrotate) are compacted.`,
	RunE: runLogCompact,
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logCompactCmd)
	logCompactCmd.Flags().StringVar(&logDir, "dir", "", "Log directory (defaults to ~/.local/share/toolgate)")
}

func runLogCompact(cmd *cobra.Command, args []string) error {
	dir := logDir
	if dir == "" {
		var err error
		dir, err = decisionlog.DefaultDir()
		if err != nil {
			return fmt.Errorf("failed to resolve log directory: %w", err)
		}
	}

	compacted, err := decisionlog.Compact(dir)
	if err != nil {
		return err
	}

	if len(compacted) == 0 {
		fmt.Println("Nothing to compact.")
		return nil
	}
	for _, path := range compacted {
		fmt.Printf("Compacted: %s\n", path)
	}
	return nil
}
