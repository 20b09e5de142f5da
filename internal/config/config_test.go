package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwynn/toolgate/internal/constants"
)

func setupConfigDir(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	os.Setenv(constants.EnvConfigDir, tmpDir)
	t.Cleanup(func() {
		os.Unsetenv(constants.EnvConfigDir)
		Reset()
	})

	if content != "" {
		if err := os.WriteFile(filepath.Join(tmpDir, constants.ConfigFileName), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	Reset()
	return tmpDir
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := LoadConfig(GetDefaultConfig())
	if err != nil {
		t.Fatalf("embedded defaults failed to load: %v", err)
	}

	if len(cfg.AllowRules) == 0 {
		t.Error("no allow rules compiled")
	}
	if len(cfg.DenyRules) == 0 {
		t.Error("no deny rules compiled")
	}
	if len(cfg.Standards) == 0 {
		t.Error("no standards checks compiled")
	}
	if len(cfg.Tools) == 0 {
		t.Error("no external tools configured")
	}

	if cfg.CacheCapacity != 128 {
		t.Errorf("cache capacity = %d, want 128", cfg.CacheCapacity)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("cache ttl = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.ToolTimeout != 2*time.Minute {
		t.Errorf("tool timeout = %v, want 2m", cfg.ToolTimeout)
	}

	fullOnly := false
	for _, tool := range cfg.Tools {
		if tool.Name == "test" && tool.FullOnly {
			fullOnly = true
		}
	}
	if !fullOnly {
		t.Error("test tool should be marked full_only")
	}

	if len(cfg.EnvExceptions) == 0 || len(cfg.ProtectedFiles) == 0 || len(cfg.CommandFileGlobs) == 0 {
		t.Error("protect section not populated")
	}
}

func TestLoadConfigDefaultsOnMissingValues(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
[[allow.simple]]
name = "safe"
commands = ["ls"]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheCapacity != 128 || cfg.CacheTTL != 5*time.Minute || cfg.ToolTimeout != 2*time.Minute {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	if _, err := LoadConfig([]byte("[[[broken")); err == nil {
		t.Error("invalid TOML accepted")
	}
}

func TestLoadConfigInvalidRegex(t *testing.T) {
	_, err := LoadConfig([]byte(`
[[deny.regex]]
name = "bad"
pattern = '(['
`))
	if err == nil {
		t.Error("invalid deny pattern accepted")
	}
}

func TestGetConfigDirEnvOverride(t *testing.T) {
	os.Setenv(constants.EnvConfigDir, "/custom/path")
	defer os.Unsetenv(constants.EnvConfigDir)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/custom/path" {
		t.Errorf("GetConfigDir() = %q, want the env override", dir)
	}
}

func TestEnsureConfigFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	if err := EnsureConfigFiles(dir); err != nil {
		t.Fatalf("EnsureConfigFiles() error = %v", err)
	}

	path := filepath.Join(dir, constants.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if string(data) != string(GetDefaultConfig()) {
		t.Error("written config differs from embedded defaults")
	}

	// An existing file is never overwritten.
	if err := os.WriteFile(path, []byte("# custom"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureConfigFiles(dir); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "# custom" {
		t.Error("existing config was overwritten")
	}
}

func TestInitWithValidConfig(t *testing.T) {
	setupConfigDir(t, `
[[allow.simple]]
name = "safe"
commands = ["ls"]
`)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	cfg := Get()
	if len(cfg.AllowRules) != 1 {
		t.Errorf("allow rules = %d, want 1", len(cfg.AllowRules))
	}
	if GetConfigPath() == "" {
		t.Error("loaded path not recorded")
	}
	if InitError() != nil {
		t.Errorf("InitError() = %v", InitError())
	}
}

func TestInitFallsBackOnBadConfig(t *testing.T) {
	setupConfigDir(t, "[[[broken")

	if err := Init(); err == nil {
		t.Fatal("Init() succeeded on broken config")
	}
	if InitError() == nil {
		t.Error("InitError() = nil after fallback")
	}

	// The process still runs, on embedded defaults.
	cfg := Get()
	if cfg == nil || len(cfg.DenyRules) == 0 {
		t.Error("fallback config not loaded")
	}
}

func TestInitCreatesDefaultConfig(t *testing.T) {
	tmpDir := setupConfigDir(t, "")

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, constants.ConfigFileName)); err != nil {
		t.Errorf("default config not created: %v", err)
	}
}
