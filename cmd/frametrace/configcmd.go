package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	internalconfig "github.com/smykla-skalski/frametrace/internal/config"
)

var (
	globalFlag bool
	forceFlag  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage frametrace configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: `Write a configuration file with default values.

By default, creates a project-local configuration file (.frametrace/config.toml).
Use --global or -g to create the global configuration file
($XDG_CONFIG_HOME/frametrace/config.toml).

Use --force to overwrite an existing configuration file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd)

	configInitCmd.Flags().BoolVarP(&globalFlag, "global", "g", false, "Initialize global configuration")
	configInitCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing configuration file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	writer := internalconfig.NewWriter()

	path := writer.ProjectConfigPath()
	exists := writer.IsProjectConfigExists()

	if globalFlag {
		path = writer.GlobalConfigPath()
		exists = writer.IsGlobalConfigExists()
	}

	if exists && !forceFlag {
		return errors.Wrapf(internalconfig.ErrConfigExists, "%s (use --force to overwrite)", path)
	}

	if err := writer.WriteFile(path, internalconfig.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)

	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	return enc.Close()
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "global:  %s\n", loader.GlobalConfigPath())

	project := loader.FindProjectConfigPath()
	if project == "" {
		project = "(none)"
	}

	fmt.Fprintf(out, "project: %s\n", project)

	return nil
}
