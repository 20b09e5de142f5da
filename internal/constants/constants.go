// Package constants defines shared constants used across the toolgate codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const (
	EnvConfigDir = "TOOLGATE_CONFIG"
	EnvDebug     = "TOOLGATE_DEBUG"
	EnvFast      = "TOOLGATE_FAST"
)

// Application paths
const (
	AppName        = "toolgate"
	ConfigFileName = "config.toml"
)
