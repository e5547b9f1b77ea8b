package config

// Report formats.
const (
	// ReportFormatTable renders records in a bordered table.
	ReportFormatTable = "table"

	// ReportFormatTree renders records as an indented tree.
	ReportFormatTree = "tree"
)

// ReportConfig contains configuration for rendering captured records.
//
// Example configuration:
//
//	[report]
//	format = "tree"
//	match = ["render/**"]
//	slow_threshold = "5ms"
type ReportConfig struct {
	// Format is "table" or "tree".
	// Default: "table"
	Format string `json:"format,omitempty" jsonschema:"enum=table,enum=tree" koanf:"format" toml:"format,omitempty" yaml:"format,omitempty"`

	// Match keeps only records whose label matches one of these doublestar patterns.
	// Labels are the frame name, or "name/id" for partitioned frames.
	Match []string `json:"match,omitempty" koanf:"match" toml:"match,omitempty" yaml:"match,omitempty"`

	// SlowThreshold highlights finalized frames at least this long. Zero disables it.
	SlowThreshold Duration `json:"slow_threshold,omitempty" koanf:"slow_threshold" toml:"slow_threshold,omitempty" yaml:"slow_threshold,omitempty"`

	// ShowLog appends the rendered auxiliary log.
	// Default: true
	ShowLog *bool `json:"show_log,omitempty" koanf:"show_log" toml:"show_log,omitempty" yaml:"show_log,omitempty"`
}

// GetFormat returns the report format, using default if not set.
func (r *ReportConfig) GetFormat() string {
	if r == nil || r.Format == "" {
		return ReportFormatTable
	}

	return r.Format
}

// GetMatch returns the label patterns.
func (r *ReportConfig) GetMatch() []string {
	if r == nil {
		return nil
	}

	return r.Match
}

// GetSlowThreshold returns the slow threshold.
func (r *ReportConfig) GetSlowThreshold() Duration {
	if r == nil {
		return 0
	}

	return r.SlowThreshold
}

// IsShowLog returns whether the auxiliary log is rendered.
func (r *ReportConfig) IsShowLog() bool {
	if r == nil || r.ShowLog == nil {
		return true
	}

	return *r.ShowLog
}
