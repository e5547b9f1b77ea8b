package config

// Default values for profiler configuration.
const (
	// DefaultCapacity is the default number of records the buffer is pre-sized for.
	DefaultCapacity = 1000

	// DefaultLogCapacity is the default number of log entries pre-allocated.
	DefaultLogCapacity = 64
)

// ProfilerConfig contains configuration for the frame timer.
//
// Example configuration:
//
//	[profiler]
//	enabled = true
//	capacity = 4096
type ProfilerConfig struct {
	// Enabled starts a session before a script's first step.
	// Default: false
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Capacity pre-sizes the record buffer and frame stack.
	// Default: 1000
	Capacity *int `json:"capacity,omitempty" koanf:"capacity" toml:"capacity,omitempty" yaml:"capacity,omitempty"`

	// LogCapacity pre-sizes the auxiliary log.
	// Default: 64
	LogCapacity *int `json:"log_capacity,omitempty" koanf:"log_capacity" toml:"log_capacity,omitempty" yaml:"log_capacity,omitempty"`
}

// IsEnabled returns whether a session is started automatically.
func (p *ProfilerConfig) IsEnabled() bool {
	if p == nil || p.Enabled == nil {
		return false
	}

	return *p.Enabled
}

// GetCapacity returns the record capacity, using default if not set.
func (p *ProfilerConfig) GetCapacity() int {
	if p == nil || p.Capacity == nil {
		return DefaultCapacity
	}

	return *p.Capacity
}

// GetLogCapacity returns the log capacity, using default if not set.
func (p *ProfilerConfig) GetLogCapacity() int {
	if p == nil || p.LogCapacity == nil {
		return DefaultLogCapacity
	}

	return *p.LogCapacity
}
