package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/segytrim/internal/config"
	"github.com/mgpai22/segytrim/internal/fsutil"
	"github.com/mgpai22/segytrim/internal/progress"
	"github.com/mgpai22/segytrim/internal/trim"
	"github.com/spf13/cobra"
)

var trimCmd = &cobra.Command{
	Use:   "trim [files or patterns...]",
	Short: "Trim SEG-Y files to a time window",
	Long: `Trim one or more SEG-Y files to the samples later than --start up to and
including the first sample later than --end (exclusive).

Each input is written to <destination>/<name>_TRIM.<ext>. Existing outputs
are skipped unless --overwrite is given. Output is written to a temporary
file and only renamed into place once every trace was copied.

Files that cannot be read or do not cover the time window are reported and
skipped; the remaining files are still trimmed.

Examples:
  segytrim trim line.sgy --start 80 --end 168
  segytrim trim 'Morven/*.sgy' --start 80 --end 168 -d Morven/TRIM --overwrite
  segytrim trim 'data/*.sgy' --start 10 --end 50 --total-traces 4412031 --file-count 180
  segytrim trim --config morven.yaml`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)

	trimCmd.Flags().
		Float64("start", 0, "Start time in ms; samples later than this are kept")
	trimCmd.Flags().
		Float64("end", 0, "End time in ms; samples up to the first one later than this are kept")
	trimCmd.Flags().
		StringP("destination", "d", config.DefaultDestination, "Directory for trimmed files (created if missing)")
	trimCmd.Flags().
		Bool("overwrite", false, "Replace existing trimmed files")
	trimCmd.Flags().
		Duration("time-per-trace", trim.DefaultTimePerTrace, "Initial time per trace estimate for the ETA")
	trimCmd.Flags().
		Int("total-traces", 0, "Total trace count; skips the counting pass")
	trimCmd.Flags().
		Int("file-count", 0, "Number of readable files, used with --total-traces")
	trimCmd.Flags().
		String("eta-mode", string(trim.ETAExact), "How remaining traces are estimated (exact, positional)")
	trimCmd.Flags().
		Bool("fail-on-error", false, "Exit with an error when any file failed")
	trimCmd.Flags().
		Bool("no-progress", false, "Do not redraw per-trace progress")
	trimCmd.Flags().
		Bool("clean", false, "Remove temporary files left in the destination by an interrupted run")
}

// copies explicitly set flags over the config file values
func applyTrimFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("start") {
		v, _ := flags.GetFloat64("start")
		c.StartTime = &v
	}
	if flags.Changed("end") {
		v, _ := flags.GetFloat64("end")
		c.EndTime = &v
	}
	if flags.Changed("destination") || c.Destination == "" {
		c.Destination, _ = flags.GetString("destination")
	}
	if flags.Changed("overwrite") {
		c.Overwrite, _ = flags.GetBool("overwrite")
	}
	if flags.Changed("time-per-trace") {
		v, _ := flags.GetDuration("time-per-trace")
		c.TimePerTrace = &v
	}
	if flags.Changed("total-traces") {
		c.TotalTraces, _ = flags.GetInt("total-traces")
	}
	if flags.Changed("file-count") {
		c.FileCount, _ = flags.GetInt("file-count")
	}
	if flags.Changed("eta-mode") || c.ETAMode == "" {
		mode, _ := flags.GetString("eta-mode")
		if err := c.ETAMode.Set(mode); err != nil {
			return err
		}
	}
	return nil
}

func runTrim(cmd *cobra.Command, args []string) error {
	if err := applyTrimFlags(cmd, conf); err != nil {
		return err
	}
	failOnError, _ := cmd.Flags().GetBool("fail-on-error")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	clean, _ := cmd.Flags().GetBool("clean")

	opts, err := conf.BatchOptions()
	if err != nil {
		return err
	}
	files, err := inputFiles(args)
	if err != nil {
		return err
	}

	logger.Infow("Starting SEG-Y trim",
		"files", len(files),
		"start_ms", opts.StartTime,
		"end_ms", opts.EndTime,
		"destination", opts.Destination,
		"overwrite", opts.Overwrite,
		"eta_mode", opts.ETAMode,
	)

	if clean {
		removed, err := fsutil.RemoveStale(opts.Destination)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clean destination: %w", err)
		}
		for _, path := range removed {
			logger.Infow("Removed stale temporary file", "path", path)
		}
	}

	reporter := progress.NewConsole(os.Stdout, logger, !noProgress)
	summary, err := trim.Batch(cmd.Context(), files, opts, reporter)
	if err != nil {
		return fmt.Errorf("trim failed: %w", err)
	}

	absDest, _ := filepath.Abs(opts.Destination)
	fmt.Printf("Trimmed files written to: %s\n", absDest)

	if summary.Err != nil {
		logger.Warnw("Some files could not be trimmed",
			"failed", len(summary.Failed),
			"files", len(files),
		)
		if failOnError {
			return fmt.Errorf(
				"%d of %d files failed: %w",
				len(summary.Failed),
				len(files),
				summary.Err,
			)
		}
	}
	return nil
}
