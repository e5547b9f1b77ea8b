package config

import (
	"github.com/smykla-skalski/frametrace/pkg/config"
)

// DefaultConfig returns a Config with all default values populated.
// It mirrors the defaults map loaded first by KoanfLoader.
func DefaultConfig() *config.Config {
	enabled := false
	capacity := config.DefaultCapacity
	logCapacity := config.DefaultLogCapacity
	showLog := true

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Profiler: &config.ProfilerConfig{
			Enabled:     &enabled,
			Capacity:    &capacity,
			LogCapacity: &logCapacity,
		},
		Log: &config.LogConfig{
			Level: config.DefaultLogLevel,
		},
		Report: &config.ReportConfig{
			Format:  config.ReportFormatTable,
			Match:   []string{},
			ShowLog: &showLog,
		},
	}
}
