// Package config locates config and data files under the XDG base dirs.
package config

import (
	"os"
	"path/filepath"
)

// baseDir resolves an XDG base directory: the environment override if
// set, otherwise the fallback path under the user's home. Falls back to
// the current directory when the home cannot be determined.
func baseDir(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome resolves $XDG_CONFIG_HOME with the standard fallback.
func XDGConfigHome() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome resolves $XDG_DATA_HOME with the standard fallback.
func XDGDataHome() string {
	return baseDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultConfigPath returns the standard location of the TOML config.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "deadlock-parry", "config.toml")
}

// DefaultDBPath returns the standard location of the history database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "deadlock-parry", "deadlock-parry.db")
}

// DefaultSoundDir returns the default directory for cue wav files.
func DefaultSoundDir() string {
	return filepath.Join(XDGDataHome(), "deadlock-parry", "audio")
}
