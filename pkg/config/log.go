package config

// DefaultLogLevel is the default diagnostic log level.
const DefaultLogLevel = "error"

// LogConfig contains configuration for the diagnostic log file.
type LogConfig struct {
	// File is the log file path. "~/" is expanded.
	// Default: $XDG_STATE_HOME/frametrace/frametrace.log
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty" yaml:"file,omitempty"`

	// Level is one of "debug", "info" or "error".
	// Default: "error"
	Level string `json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=error" koanf:"level" toml:"level,omitempty" yaml:"level,omitempty"`
}

// GetFile returns the configured log file, or fallback when unset.
func (l *LogConfig) GetFile(fallback string) string {
	if l == nil || l.File == "" {
		return fallback
	}

	return l.File
}

// GetLevel returns the log level name, using default if not set.
func (l *LogConfig) GetLevel() string {
	if l == nil || l.Level == "" {
		return DefaultLogLevel
	}

	return l.Level
}
