package cli

import (
	"fmt"

	"github.com/mgpai22/segytrim/internal/trim"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count [files or patterns...]",
	Short: "Count the traces of SEG-Y files",
	Long: `Open every file and report its trace count, the same pass trim runs
before trimming. The totals can be passed back to trim with --total-traces
and --file-count to skip the pass on a later run.

Examples:
  segytrim count 'Morven/*.sgy'
  segytrim count --config morven.yaml`,
	RunE: runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	files, err := inputFiles(args)
	if err != nil {
		return err
	}

	logger.Infow("Counting traces", "files", len(files))
	counts, failed := trim.CountTraces(cmd.Context(), files)
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	for _, fe := range failed {
		logger.Errorw("Error in file",
			"file", trim.Stem(fe.Path),
			"error", fe.Err,
		)
	}

	for _, path := range files {
		if n, ok := counts.ByFile[path]; ok {
			fmt.Printf("%-40s %10d\n", trim.Stem(path), n)
		}
	}
	fmt.Printf("Total traces: %d\n", counts.Total)
	fmt.Printf("Total files: %d\n", counts.Files)
	if len(failed) > 0 {
		fmt.Printf("Unreadable files: %d\n", len(failed))
	}
	fmt.Printf("  Hint: --total-traces %d --file-count %d\n", counts.Total, counts.Files)
	return nil
}
