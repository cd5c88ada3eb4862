// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDirName is the CWD-relative data directory used when no
// override is active.
const DefaultDataDirName = ".gridbase-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "GRIDBASE_CONFIG_DIR"
	EnvDataDir   = "GRIDBASE_DATA_DIR"
)

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/gridbase (fallback ~/.config/gridbase)
// macOS:   ~/Library/Application Support/gridbase
// Windows: %APPDATA%/gridbase
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "gridbase"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "gridbase"), nil
	}
	return userConfigSubdir()
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/gridbase (fallback ~/.local/share/gridbase)
// macOS:   ~/Library/Application Support/gridbase
// Windows: %APPDATA%/gridbase
func DefaultDataDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "gridbase"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "gridbase"), nil
	}
	return userConfigSubdir()
}

// userConfigSubdir is the non-Linux default: os.UserConfigDir returns
// ~/Library/Application Support on macOS and %APPDATA% on Windows.
func userConfigSubdir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gridbase"), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > GRIDBASE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > GRIDBASE_DATA_DIR env > CWD default.
//
// The CWD-relative default ($(CWD)/.gridbase-db) is the primary mode when no
// override is active, so each project directory gets its own database.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
