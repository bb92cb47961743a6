package cli

import (
	"encoding/binary"
	"fmt"

	"github.com/mgpai22/segytrim/internal/segy"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [segy_file]",
	Short: "Show the layout of a SEG-Y file",
	Long: `Print the sample format, byte order, trace and sample counts and the
time range of the sample axis of a SEG-Y file. Use this to pick --start and
--end for trim.

Examples:
  segytrim info line.sgy
  segytrim info line.sgy --text`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().
		Bool("text", false, "Print the decoded textual headers")
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	showText, _ := cmd.Flags().GetBool("text")

	f, err := segy.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	bin := f.Bin()
	samples := f.Samples()

	fmt.Printf("File: %s\n", path)
	fmt.Printf("  Format: %s\n", f.Format())
	fmt.Printf("  Byte order: %s\n", byteOrderName(f.ByteOrder()))
	fmt.Printf("  Revision: %#04x\n", bin.Field(segy.BinSEGYRevision))
	fmt.Printf("  Extended textual headers: %d\n", len(f.Text())-1)
	fmt.Printf("  Traces: %d\n", f.TraceCount())
	fmt.Printf("  Samples per trace: %d\n", f.SampleCount())
	fmt.Printf("  Sample interval: %d us\n", f.Interval())
	fmt.Printf("  Time range: %g - %g ms\n", samples[0], samples[len(samples)-1])

	if showText {
		for i, text := range f.Text() {
			fmt.Printf("\nTextual header %d:\n%s\n", i, text.String())
		}
	}
	return nil
}

func byteOrderName(order binary.ByteOrder) string {
	if order == binary.LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}
