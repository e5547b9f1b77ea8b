// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/frametrace/internal/xdg"
	"github.com/smykla-skalski/frametrace/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested configuration file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".frametrace"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "frametrace.toml"

	// EnvPrefix is the prefix of environment variables read as configuration.
	EnvPrefix = "FRAMETRACE_"
)

// listKeys are config paths whose env values are comma-separated lists.
var listKeys = map[string]bool{
	"report.match": true,
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (FRAMETRACE_*)
// 3. Explicit config file (--config)
// 4. Project Config (.frametrace/config.toml or frametrace.toml)
// 5. Global Config ($XDG_CONFIG_HOME/frametrace/config.toml)
// 6. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	paths      xdg.PathResolver
	workDir    string
	configFile string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return &KoanfLoader{
		k:       koanf.New("."),
		paths:   xdg.DefaultResolver(),
		workDir: workDir,
	}, nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:       koanf.New("."),
		paths:   xdg.ResolverFor(homeDir),
		workDir: workDir,
	}
}

// WithConfigFile sets an explicit config file layered above the project config.
// The file must exist.
func (l *KoanfLoader) WithConfigFile(path string) *KoanfLoader {
	l.configFile = path

	return l
}

// Load loads and validates configuration from all sources with precedence.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → Project TOML → Explicit TOML → Env Vars → CLI Flags
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	// Reset koanf instance for fresh load
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	if l.configFile != "" {
		path := xdg.ExpandPathSilent(l.configFile)

		if err := l.loadTOMLFile(path); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrConfigNotFound, "%s", path)
			}

			return nil, errors.Wrapf(err, "failed to load config %s", path)
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	decoderConfig := CustomDecoderConfig()
	decoderConfig.Result = &cfg

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: decoderConfig,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps environment variable names to config paths. The first
// underscore separates the section from the key:
// FRAMETRACE_PROFILER_LOG_CAPACITY → profiler.log_capacity
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)

	if listKeys[key] {
		parts := strings.Split(value, ",")
		items := make([]string, 0, len(parts))

		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}

		return key, items
	}

	return key, value
}

// flagsToConfig converts dotted CLI flag keys to a nested configuration map.
// Nil values are dropped so unset flags never override lower sources.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any, len(flags))

	for key, value := range flags {
		if value == nil {
			continue
		}

		flat[key] = value
	}

	return maps.Unflatten(flat, ".")
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.paths.GlobalConfigFile()
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// findProjectConfig checks for project config files and returns the first found.
func (l *KoanfLoader) findProjectConfig() string {
	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// FindProjectConfigPath returns the path to the project config file if one exists.
func (l *KoanfLoader) FindProjectConfigPath() string {
	return l.findProjectConfig()
}

// defaultsToMap converts the default configuration to a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"profiler": map[string]any{
			"enabled":      false,
			"capacity":     config.DefaultCapacity,
			"log_capacity": config.DefaultLogCapacity,
		},
		"log": map[string]any{
			"level": config.DefaultLogLevel,
		},
		"report": map[string]any{
			"format":         config.ReportFormatTable,
			"match":          []string{},
			"slow_threshold": "0s",
			"show_log":       true,
		},
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// mustGetwd returns the current working directory or panics.
func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic("failed to get working directory: " + err.Error())
	}

	return wd
}
