// Package main provides the CLI entry point for frametrace.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/frametrace/internal/config"
	"github.com/smykla-skalski/frametrace/internal/xdg"
	"github.com/smykla-skalski/frametrace/pkg/config"
	"github.com/smykla-skalski/frametrace/pkg/logger"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeError indicates a failed command, including a script that stopped on a protocol violation.
	ExitCodeError = 1
)

var (
	debugMode   bool
	traceMode   bool
	configPath  string
	noColorFlag bool
)

// shutdownSignals cancel a running command.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return ExitCodeError
	}

	return ExitCodeOK
}

var rootCmd = &cobra.Command{
	Use:   "frametrace",
	Short: "Hierarchical frame timing for scripted workloads",
	Long: `frametrace records nested frame timings and an auxiliary log while
running a scripted workload, then prints the captured records.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to an extra configuration file layered above the project config",
	)
	rootCmd.PersistentFlags().BoolVar(
		&noColorFlag,
		"no-color",
		false,
		"Disable colored output",
	)
}

// loadConfig loads the effective configuration with flag overrides applied.
func loadConfig(flags map[string]any) (*config.Config, error) {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		loader.WithConfigFile(configPath)
	}

	cfg, err := loader.Load(flags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	return cfg, nil
}

// openLogger opens the diagnostic log. --debug and --trace take precedence
// over the configured level. A log file that cannot be opened falls back to stderr.
func openLogger(cfg *config.Config) (*logger.SlogAdapter, error) {
	level := logger.LevelFromFlags(debugMode, traceMode)

	if !debugMode && !traceMode {
		parsed, err := logger.ParseLevel(cfg.GetLog().GetLevel())
		if err != nil {
			return nil, err
		}

		level = parsed
	}

	path := xdg.ExpandPathSilent(cfg.GetLog().GetFile(xdg.LogFile()))

	log, err := logger.OpenOrStderr(path, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
	}

	return log, nil
}
