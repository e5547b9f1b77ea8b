// Package config provides configuration schema types for frametrace.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for frametrace.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty" yaml:"version,omitempty"`

	// Profiler controls the frame timer.
	Profiler *ProfilerConfig `json:"profiler,omitempty" koanf:"profiler" toml:"profiler,omitempty" yaml:"profiler,omitempty"`

	// Log controls the diagnostic log file.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty" yaml:"log,omitempty"`

	// Report controls how captured records are displayed.
	Report *ReportConfig `json:"report,omitempty" koanf:"report" toml:"report,omitempty" yaml:"report,omitempty"`
}

// GetProfiler returns the profiler config, creating it if it doesn't exist.
func (c *Config) GetProfiler() *ProfilerConfig {
	if c.Profiler == nil {
		c.Profiler = &ProfilerConfig{}
	}

	return c.Profiler
}

// GetLog returns the log config, creating it if it doesn't exist.
func (c *Config) GetLog() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	return c.Log
}

// GetReport returns the report config, creating it if it doesn't exist.
func (c *Config) GetReport() *ReportConfig {
	if c.Report == nil {
		c.Report = &ReportConfig{}
	}

	return c.Report
}

// GetVersion returns the schema version, defaulting to CurrentConfigVersion.
func (c *Config) GetVersion() int {
	if c == nil || c.Version == 0 {
		return CurrentConfigVersion
	}

	return c.Version
}
