package config

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/frametrace/pkg/config"
	"github.com/smykla-skalski/frametrace/pkg/logger"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidVersion is returned when the schema version is unsupported.
	ErrInvalidVersion = errors.New("unsupported config version")

	// ErrInvalidCapacity is returned when a capacity value is invalid.
	ErrInvalidCapacity = errors.New("invalid capacity value")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrInvalidPattern is returned when a match pattern cannot be parsed.
	ErrInvalidPattern = errors.New("invalid match pattern")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.GetVersion() > config.CurrentConfigVersion || cfg.Version < 0 {
		validationErrors = append(
			validationErrors,
			errors.Wrapf(ErrInvalidVersion, "version: %d", cfg.Version),
		)
	}

	if cfg.Profiler != nil {
		if err := v.validateProfilerConfig(cfg.Profiler); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "profiler"))
		}
	}

	if cfg.Log != nil {
		if err := v.validateLogConfig(cfg.Log); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "log"))
		}
	}

	if cfg.Report != nil {
		if err := v.validateReportConfig(cfg.Report); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "report"))
		}
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateProfilerConfig(cfg *config.ProfilerConfig) error {
	var validationErrors []error

	if cfg.GetCapacity() <= 0 {
		validationErrors = append(
			validationErrors,
			errors.Wrapf(ErrInvalidCapacity, "capacity must be positive, got %d", cfg.GetCapacity()),
		)
	}

	if cfg.GetLogCapacity() < 0 {
		validationErrors = append(
			validationErrors,
			errors.Wrapf(
				ErrInvalidCapacity,
				"log_capacity must not be negative, got %d",
				cfg.GetLogCapacity(),
			),
		)
	}

	return combineErrors(validationErrors)
}

func (*Validator) validateLogConfig(cfg *config.LogConfig) error {
	if _, err := logger.ParseLevel(cfg.GetLevel()); err != nil {
		return errors.Wrapf(ErrInvalidOption, "level: %v", err)
	}

	return nil
}

func (*Validator) validateReportConfig(cfg *config.ReportConfig) error {
	var validationErrors []error

	switch cfg.GetFormat() {
	case config.ReportFormatTable, config.ReportFormatTree:
	default:
		validationErrors = append(
			validationErrors,
			errors.Wrapf(
				ErrInvalidOption,
				"format must be %q or %q, got %q",
				config.ReportFormatTable,
				config.ReportFormatTree,
				cfg.Format,
			),
		)
	}

	for _, pattern := range cfg.GetMatch() {
		if !doublestar.ValidatePattern(pattern) {
			validationErrors = append(
				validationErrors,
				errors.Wrapf(ErrInvalidPattern, "match: %q", pattern),
			)
		}
	}

	return combineErrors(validationErrors)
}

// combineErrors combines multiple errors into one.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
