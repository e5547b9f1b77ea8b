package xdg

import (
	"os"
	"path/filepath"
)

// PathResolver resolves the global frametrace paths.
// Use ResolverFor() when paths should be relative to a specific home directory.
type PathResolver interface {
	ConfigDir() string
	GlobalConfigFile() string
	LogFile() string
}

// DefaultResolver returns a PathResolver using real XDG paths.
func DefaultResolver() PathResolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (defaultResolver) ConfigDir() string        { return ConfigDir() }
func (defaultResolver) GlobalConfigFile() string { return GlobalConfigFile() }
func (defaultResolver) LogFile() string          { return LogFile() }

// ResolverFor returns a PathResolver that uses homeDir as fallback
// when XDG env vars are not set.
func ResolverFor(homeDir string) PathResolver {
	return homeResolver{homeDir: homeDir}
}

type homeResolver struct {
	homeDir string
}

func (r homeResolver) home(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}

	return filepath.Join(append([]string{r.homeDir}, fallback...)...)
}

func (r homeResolver) ConfigDir() string {
	return filepath.Join(r.home("XDG_CONFIG_HOME", ".config"), appName)
}

func (r homeResolver) GlobalConfigFile() string {
	return filepath.Join(r.ConfigDir(), "config.toml")
}

func (r homeResolver) LogFile() string {
	if v := os.Getenv(LogFileEnv); v != "" {
		return v
	}

	return filepath.Join(r.home("XDG_STATE_HOME", ".local", "state"), appName, appName+".log")
}
