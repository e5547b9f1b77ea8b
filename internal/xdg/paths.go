// Package xdg resolves the on-disk locations frametrace uses, following the XDG Base
// Directory conventions. The project-local config file (.frametrace/config.toml)
// is located by internal/config.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "frametrace"

// LogFileEnv overrides the diagnostic log location.
const LogFileEnv = "FRAMETRACE_LOG_FILE"

func userHome() (string, error) {
	return os.UserHomeDir()
}

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	return baseDir("XDG_STATE_HOME", ".local", "state")
}

func baseDir(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		home = "~"
	}

	return filepath.Join(append([]string{home}, fallback...)...)
}

// ConfigDir returns ConfigHome()/frametrace.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// StateDir returns StateHome()/frametrace.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// GlobalConfigFile returns ConfigDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogFile returns the log file path.
// Respects FRAMETRACE_LOG_FILE, otherwise StateDir()/frametrace.log.
func LogFile() string {
	if v := os.Getenv(LogFileEnv); v != "" {
		return v
	}

	return filepath.Join(StateDir(), appName+".log")
}

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns the path unchanged if it doesn't start with ~.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// ExpandPathSilent resolves ~ prefix, returning the original path on error.
func ExpandPathSilent(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}

	return expanded
}
