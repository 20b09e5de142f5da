// Package testutil provides shared test utilities for toolgate tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwynn/toolgate/internal/config"
	"github.com/mwynn/toolgate/internal/constants"
)

// SetupTestConfig creates a temporary config directory with test configuration.
// Returns a cleanup function that should be deferred.
func SetupTestConfig(t *testing.T, configContent string) func() {
	t.Helper()

	tmpDir := t.TempDir()
	os.Setenv(constants.EnvConfigDir, tmpDir)

	if configContent != "" {
		configPath := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	config.Init()

	return func() {
		os.Unsetenv(constants.EnvConfigDir)
		config.Reset()
	}
}

// MinimalTestConfig is a minimal config for testing.
const MinimalTestConfig = `
[[allow.simple]]
name = "safe"
commands = ["ls", "cat", "echo"]

[[deny.regex]]
name = "recursive_delete"
category = "destructive_command"
severity = "error"
pattern = '(^|\s)rm\s+(-[a-z]+\s+)*-[a-z]*[rf]'
message = "recursive or forced file deletion"
fix = "delete specific files instead"

[protect]
env_exceptions = [".env.sample", ".env.example"]
root_files = ["go.mod", "go.sum", "LICENSE"]
command_file_globs = ["*.sh"]
`
