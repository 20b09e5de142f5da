package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwynn/toolgate/internal/config"
)

// resetGlobalState resets all global flags to their default values
func resetGlobalState() {
	verbose = false
	dryRun = false
	noDecisionLog = false
	fastMode = false
	config.Reset()
}

// setupTestConfig initializes a test configuration
func setupTestConfig(t *testing.T) func() {
	t.Helper()
	resetGlobalState()

	tmpDir := t.TempDir()
	os.Setenv("TOOLGATE_CONFIG", tmpDir)

	testConfig := `
[[allow.simple]]
name = "safe"
commands = ["ls", "cat", "echo", "git"]

[[deny.regex]]
name = "recursive_delete"
category = "destructive_command"
severity = "error"
pattern = '(^|\s)rm\s+(-[a-z]+\s+)*-[a-z]*[rf]'
message = "recursive or forced file deletion"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}

	config.Reset()
	config.Init()

	return func() {
		os.Unsetenv("TOOLGATE_CONFIG")
		resetGlobalState()
	}
}

func TestIsVerbose(t *testing.T) {
	tests := []struct {
		name     string
		value    bool
		expected bool
	}{
		{"verbose false", false, false},
		{"verbose true", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobalState()
			verbose = tt.value
			if got := IsVerbose(); got != tt.expected {
				t.Errorf("IsVerbose() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDryRun(t *testing.T) {
	tests := []struct {
		name     string
		value    bool
		expected bool
	}{
		{"dry-run false", false, false},
		{"dry-run true", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobalState()
			dryRun = tt.value
			if got := IsDryRun(); got != tt.expected {
				t.Errorf("IsDryRun() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewDecisionLogDisabled(t *testing.T) {
	resetGlobalState()
	noDecisionLog = true
	defer resetGlobalState()

	log := newDecisionLog("pre-action")
	if log.IsEnabled() {
		t.Error("decision log enabled despite --no-decision-log")
	}
}

func TestNewDecisionLogDisabledInDryRun(t *testing.T) {
	resetGlobalState()
	dryRun = true
	defer resetGlobalState()

	log := newDecisionLog("pre-action")
	if log.IsEnabled() {
		t.Error("decision log enabled in dry-run mode")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	want := map[string]bool{
		"complete":   false,
		"validate":   false,
		"init":       false,
		"log":        false,
		"completion": false,
	}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
