package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-skalski/frametrace/internal/schema"
	"github.com/smykla-skalski/frametrace/internal/xdg"
	"github.com/smykla-skalski/frametrace/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when writing would overwrite an existing file.
var ErrConfigExists = errors.New("configuration file already exists")

// Writer handles writing configuration to TOML files.
type Writer struct {
	paths   xdg.PathResolver
	workDir string
}

// NewWriter creates a new Writer with default directories.
func NewWriter() *Writer {
	return &Writer{
		paths:   xdg.DefaultResolver(),
		workDir: mustGetwd(),
	}
}

// NewWriterWithDirs creates a new Writer with custom directories (for testing).
func NewWriterWithDirs(homeDir, workDir string) *Writer {
	return &Writer{
		paths:   xdg.ResolverFor(homeDir),
		workDir: workDir,
	}
}

// WriteGlobal writes the configuration to the global config file.
func (w *Writer) WriteGlobal(cfg *config.Config) error {
	return w.WriteFile(w.GlobalConfigPath(), cfg)
}

// WriteProject writes the configuration to the project config file.
// Uses the primary location (.frametrace/config.toml).
func (w *Writer) WriteProject(cfg *config.Config) error {
	return w.WriteFile(w.ProjectConfigPath(), cfg)
}

// WriteFile writes the configuration to the given path.
func (*Writer) WriteFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

// Encode renders the configuration as TOML preceded by the schema directive.
func Encode(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(schema.SchemaDirective())
	buf.WriteByte('\n')

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to encode config to TOML")
	}

	return buf.Bytes(), nil
}

// GlobalConfigPath returns the path to the global configuration file.
func (w *Writer) GlobalConfigPath() string {
	return w.paths.GlobalConfigFile()
}

// ProjectConfigPath returns the path to the primary project configuration file.
func (w *Writer) ProjectConfigPath() string {
	return filepath.Join(w.workDir, ProjectConfigDir, ProjectConfigFile)
}

// IsGlobalConfigExists checks if the global config file exists.
func (w *Writer) IsGlobalConfigExists() bool {
	return fileExists(w.GlobalConfigPath())
}

// IsProjectConfigExists checks if the project config file exists.
func (w *Writer) IsProjectConfigExists() bool {
	return fileExists(w.ProjectConfigPath())
}
