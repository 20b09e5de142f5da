// Package config handles configuration loading and parsing for toolgate.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mwynn/toolgate/internal/constants"
	"github.com/mwynn/toolgate/internal/logger"
	"github.com/mwynn/toolgate/internal/rules"
	"github.com/mwynn/toolgate/internal/verdict"
)

//go:embed config.toml
var defaultConfig []byte

// ToolSpec describes one external validation tool.
type ToolSpec struct {
	Name     string
	Command  string
	FullOnly bool // always runs repo-wide, never takes a file list
}

// StandardsCheck is a code-standards rule restricted to matching file globs.
type StandardsCheck struct {
	Rule  rules.Rule
	Kind  string // banned_type, banned_keyword, empty_error_handling, naming
	Files []string
}

// Config holds the compiled rule tables and settings from configuration.
type Config struct {
	// AllowRules are safe-prefix patterns checked before any deny detector
	AllowRules []rules.Rule
	// DenyRules are the ordered classifier detectors
	DenyRules []rules.Rule
	// Standards are the completion-gate code checks
	Standards []StandardsCheck
	// Tools are the external lint/type-check/test commands
	Tools       []ToolSpec
	ToolTimeout time.Duration

	CacheCapacity int
	CacheTTL      time.Duration

	// EnvExceptions are .env variants that are safe to write
	EnvExceptions []string
	// ProtectedFiles are repo-root files that must not be overwritten
	ProtectedFiles []string
	// CommandFileGlobs are advisory-only patterns for command/hook files
	CommandFileGlobs []string
}

var (
	globalConfig      *Config
	configInitialized bool
	loadedPath        string
	initErr           error
)

// raw mirrors the TOML layout.
type raw struct {
	Cache struct {
		Capacity   int `toml:"capacity"`
		TTLSeconds int `toml:"ttl_seconds"`
	} `toml:"cache"`
	Tools struct {
		TimeoutSeconds int `toml:"timeout_seconds"`
		Check          []struct {
			Name     string `toml:"name"`
			Command  string `toml:"command"`
			FullOnly bool   `toml:"full_only"`
		} `toml:"check"`
	} `toml:"tools"`
	Protect struct {
		EnvExceptions    []string `toml:"env_exceptions"`
		RootFiles        []string `toml:"root_files"`
		CommandFileGlobs []string `toml:"command_file_globs"`
	} `toml:"protect"`
	Allow struct {
		Simple []struct {
			Name     string   `toml:"name"`
			Commands []string `toml:"commands"`
		} `toml:"simple"`
		Subcommand []struct {
			Command     string   `toml:"command"`
			Subcommands []string `toml:"subcommands"`
			Flags       []string `toml:"flags"`
		} `toml:"subcommand"`
		Regex []struct {
			Name    string `toml:"name"`
			Pattern string `toml:"pattern"`
		} `toml:"regex"`
	} `toml:"allow"`
	Deny struct {
		Regex []rawRule `toml:"regex"`
	} `toml:"deny"`
	Standards struct {
		Regex []rawStandard `toml:"regex"`
	} `toml:"standards"`
}

type rawRule struct {
	Name     string `toml:"name"`
	Category string `toml:"category"`
	Severity string `toml:"severity"`
	Pattern  string `toml:"pattern"`
	Message  string `toml:"message"`
	Fix      string `toml:"fix"`
}

type rawStandard struct {
	rawRule
	Kind  string   `toml:"kind"`
	Files []string `toml:"files"`
}

// GetConfigDir returns the config directory path.
// Uses TOOLGATE_CONFIG env var if set, otherwise ~/.config/toolgate
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// EnsureConfigFiles creates the config directory and writes the default
// config file if it doesn't exist.
func EnsureConfigFiles(configDir string) error {
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, defaultConfig, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
		}
	}

	return nil
}

func severityOf(s string) verdict.Severity {
	switch s {
	case "error":
		return verdict.SeverityError
	case "info":
		return verdict.SeverityInfo
	default:
		return verdict.SeverityWarning
	}
}

func compileRawRule(r rawRule) (rules.Rule, error) {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return rules.Rule{}, fmt.Errorf("invalid pattern for rule %q: %w", r.Name, err)
	}
	return rules.Rule{
		Regex:    re,
		Name:     r.Name,
		Category: r.Category,
		Severity: severityOf(r.Severity),
		Pattern:  r.Pattern,
		Message:  r.Message,
		Fix:      r.Fix,
	}, nil
}

// LoadConfig loads the config from TOML data and returns a Config.
func LoadConfig(data []byte) (*Config, error) {
	var rc raw
	if err := toml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg := &Config{
		CacheCapacity:    rc.Cache.Capacity,
		CacheTTL:         time.Duration(rc.Cache.TTLSeconds) * time.Second,
		ToolTimeout:      time.Duration(rc.Tools.TimeoutSeconds) * time.Second,
		EnvExceptions:    rc.Protect.EnvExceptions,
		ProtectedFiles:   rc.Protect.RootFiles,
		CommandFileGlobs: rc.Protect.CommandFileGlobs,
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = 128
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 2 * time.Minute
	}

	for _, t := range rc.Tools.Check {
		if t.Name == "" || t.Command == "" {
			continue
		}
		cfg.Tools = append(cfg.Tools, ToolSpec{Name: t.Name, Command: t.Command, FullOnly: t.FullOnly})
	}

	for _, s := range rc.Allow.Simple {
		for _, cmd := range s.Commands {
			r, err := rules.Compile(rules.BuildSimplePattern(cmd), s.Name, "", verdict.SeverityInfo)
			if err != nil {
				return nil, fmt.Errorf("invalid allow command %q: %w", cmd, err)
			}
			cfg.AllowRules = append(cfg.AllowRules, r)
		}
	}
	for _, s := range rc.Allow.Subcommand {
		if s.Command == "" || len(s.Subcommands) == 0 {
			continue
		}
		pattern := rules.BuildSubcommandPattern(s.Command, s.Subcommands, s.Flags)
		r, err := rules.Compile(pattern, s.Command, "", verdict.SeverityInfo)
		if err != nil {
			return nil, fmt.Errorf("invalid allow subcommand %q: %w", s.Command, err)
		}
		cfg.AllowRules = append(cfg.AllowRules, r)
	}
	for _, s := range rc.Allow.Regex {
		if s.Pattern == "" {
			continue
		}
		r, err := rules.Compile(s.Pattern, s.Name, "", verdict.SeverityInfo)
		if err != nil {
			return nil, fmt.Errorf("invalid allow regex %q: %w", s.Pattern, err)
		}
		cfg.AllowRules = append(cfg.AllowRules, r)
	}

	for _, d := range rc.Deny.Regex {
		if d.Pattern == "" {
			continue
		}
		r, err := compileRawRule(d)
		if err != nil {
			return nil, err
		}
		cfg.DenyRules = append(cfg.DenyRules, r)
	}

	for _, s := range rc.Standards.Regex {
		if s.Pattern == "" {
			continue
		}
		r, err := compileRawRule(s.rawRule)
		if err != nil {
			return nil, err
		}
		cfg.Standards = append(cfg.Standards, StandardsCheck{Rule: r, Kind: s.Kind, Files: s.Files})
	}

	return cfg, nil
}

// loadEmbeddedDefaults loads the embedded default config file.
func loadEmbeddedDefaults() *Config {
	cfg, _ := LoadConfig(defaultConfig)
	return cfg
}

// Init loads configuration from files, creating defaults if necessary.
// If loading fails, it falls back to embedded defaults.
func Init() error {
	if configInitialized {
		return initErr
	}

	configDir, err := GetConfigDir()
	if err != nil {
		logger.Debug("failed to get config dir, using embedded defaults", "error", err)
		return fallback(err)
	}

	if err := EnsureConfigFiles(configDir); err != nil {
		logger.Debug("failed to ensure config files, using embedded defaults", "error", err)
		return fallback(err)
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)
	configData, err := os.ReadFile(configPath)
	if err != nil {
		logger.Debug("failed to read config file, using embedded defaults", "path", configPath, "error", err)
		return fallback(fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err))
	}

	globalConfig, err = LoadConfig(configData)
	if err != nil {
		logger.Debug("failed to parse config, using embedded defaults", "error", err)
		return fallback(fmt.Errorf("failed to load config: %w", err))
	}

	logger.Debug("config loaded",
		"path", configPath,
		"allow", len(globalConfig.AllowRules),
		"deny", len(globalConfig.DenyRules),
		"standards", len(globalConfig.Standards))
	loadedPath = configPath
	configInitialized = true
	initErr = nil
	return nil
}

func fallback(err error) error {
	globalConfig = loadEmbeddedDefaults()
	configInitialized = true
	initErr = err
	return err
}

// Get returns the current configuration.
// If Init has not been called, it initializes with defaults.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// GetConfigPath returns the path the config was loaded from, or "" when
// running on embedded defaults.
func GetConfigPath() string {
	return loadedPath
}

// InitError returns the error from the last Init, if any. A non-nil value
// means the process is running on embedded defaults.
func InitError() error {
	return initErr
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	loadedPath = ""
	initErr = nil
}

// GetDefaultConfig returns the embedded default configuration.
func GetDefaultConfig() []byte {
	return defaultConfig
}
