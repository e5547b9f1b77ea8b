package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/frametrace/internal/color"
	"github.com/smykla-skalski/frametrace/internal/report"
	"github.com/smykla-skalski/frametrace/internal/script"
	"github.com/smykla-skalski/frametrace/pkg/profiler"
)

var (
	formatFlag    string
	matchFlag     []string
	slowFlag      string
	noLogFlag     bool
	autoStartFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Run a scripted workload and print the captured frames",
	Long: `Run a scripted workload against a fresh profiler and print the captured
records followed by the auxiliary log.

A script that stops on a protocol violation (ending the wrong frame, ending
with no open frame, resetting with frames open) still prints what was
captured up to that step, then exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Report format (table, tree)")
	runCmd.Flags().StringSliceVarP(
		&matchFlag,
		"match",
		"m",
		nil,
		"Only show frames whose name or name/id matches these patterns",
	)
	runCmd.Flags().StringVar(&slowFlag, "slow", "", "Highlight frames at least this long (e.g. 5ms)")
	runCmd.Flags().BoolVar(&noLogFlag, "no-log", false, "Do not print the auxiliary log")
	runCmd.Flags().BoolVar(&autoStartFlag, "start", false, "Start a session before the first step")
}

// runFlags maps changed flags to config keys.
func runFlags(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)
	changed := cmd.Flags().Changed

	if changed("format") {
		flags["report.format"] = formatFlag
	}

	if changed("match") {
		flags["report.match"] = matchFlag
	}

	if changed("slow") {
		flags["report.slow_threshold"] = slowFlag
	}

	if changed("no-log") {
		flags["report.show_log"] = !noLogFlag
	}

	if changed("start") {
		flags["profiler.enabled"] = autoStartFlag
	}

	return flags
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runFlags(cmd))
	if err != nil {
		return err
	}

	log, err := openLogger(cfg)
	if err != nil {
		return err
	}

	defer func() { _ = log.Close() }()

	s, err := script.Load(args[0])
	if err != nil {
		return err
	}

	p := profiler.New(
		profiler.WithCapacity(cfg.GetProfiler().GetCapacity()),
		profiler.WithLog(profiler.NewLog(cfg.GetProfiler().GetLogCapacity())),
		profiler.WithLogger(log),
	)

	log.Info("running script", "path", args[0], "profiler_id", p.ID())

	runErr := script.NewRunner(
		p,
		script.WithLogger(log),
		script.WithAutoStart(cfg.GetProfiler().IsEnabled()),
	).Run(cmd.Context(), s)

	out := cmd.OutOrStdout()
	theme := color.NewTheme(color.Enabled(noColorFlag, out))

	reporter, err := report.New(report.OptionsFromConfig(cfg.GetReport(), theme))
	if err != nil {
		return err
	}

	if err := reporter.Render(out, p.Records(), p.Log().Lines()); err != nil {
		return err
	}

	if runErr != nil {
		log.Error("script failed", "error", runErr)

		return errors.Wrap(runErr, "script failed")
	}

	return nil
}
