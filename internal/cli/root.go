package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgpai22/segytrim/internal/config"
	"github.com/mgpai22/segytrim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logFile    string
	logMode    = logging.FileModeAppend
	logger     *logging.Logger
	conf       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "segytrim",
	Short: "Trim SEG-Y seismic files to a time window",
	Long: `Segytrim cuts SEG-Y seismic files down to a narrower time window.

Textual and binary headers are copied, every trace keeps its header with
the sample count and delay recording time updated, and batches of files
report progress with an estimated time to completion.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf = &config.Config{}
		if configPath != "" {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			conf = c
		}

		logConf := conf.Log
		if verbose {
			logConf.Verbose = true
		}
		if cmd.Flags().Changed("log-file") {
			logConf.Path = logFile
		}
		if cmd.Flags().Changed("log-mode") {
			logConf.Mode = logMode
		}
		l, err := logging.New(logConf)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

// runs the command line; interrupts cancel the running batch
func Execute() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "YAML file with run parameters")
	rootCmd.PersistentFlags().
		StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().
		Var(&logMode, "log-mode", "Log file handling (append, truncate, rotate)")
}
