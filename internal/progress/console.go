package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/alecthomas/units"
	"github.com/gosuri/uilive"
	"github.com/paulbellamy/ratecounter"
	"golang.org/x/term"

	"github.com/mgpai22/segytrim/internal/logging"
	"github.com/mgpai22/segytrim/internal/trim"
)

// Console prints batch progress for a human. Per-trace percentages are
// redrawn in place and only shown when the output is a terminal.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	live    *uilive.Writer
	logger  *logging.Logger
	rate    *ratecounter.RateCounter
	percent int
}

// console reporter on f; live trace progress needs f to be a terminal
func NewConsole(f *os.File, logger *logging.Logger, showProgress bool) *Console {
	live := showProgress && term.IsTerminal(int(f.Fd()))
	return New(f, logger, live)
}

func New(w io.Writer, logger *logging.Logger, live bool) *Console {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Console{
		w:       w,
		logger:  logger,
		percent: -1,
	}
	if live {
		c.live = uilive.New()
		c.live.Out = w
		c.rate = ratecounter.NewRateCounter(time.Second)
	}
	return c
}

// writer for lines that must not be overwritten by the live display
func (c *Console) out() io.Writer {
	if c.live != nil {
		return c.live.Bypass()
	}
	return c.w
}

func (c *Console) printf(format string, args ...interface{}) {
	// console output is best effort
	_, _ = fmt.Fprintf(c.out(), format, args...)
}

func (c *Console) OnProgress(fraction float64) {
	if c.live == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate.Incr(1)
	pct := int(fraction * 100)
	if pct == c.percent {
		return
	}
	c.percent = pct
	fmt.Fprintf(c.live, "Trimming traces: %d%% (%d traces/s)\n", pct, c.rate.Rate())
	_ = c.live.Flush()
}

func (c *Console) CountFailed(path string, err error) {
	c.logger.Warnw("Failed to count traces",
		"file", trim.Stem(path),
		"error", err,
	)
}

func (c *Console) Totals(traces, files int) {
	c.printf("Total traces: %d\n", traces)
	c.printf("Total files: %d\n", files)
	c.printf("Initiating file trimming\n")
}

func (c *Console) FileStarted(index int, path string, fraction float64, eta time.Duration) {
	c.mu.Lock()
	c.percent = -1
	c.mu.Unlock()
	c.printf("\nProcessing file: %s\n", trim.Stem(path))
	c.printf("Trimming files: %.2f%% ETA: %s\n", fraction*100, FormatETA(eta))
}

func (c *Console) FileSkipped(res *trim.Result) {
	c.printf("File %s already exists\n", trim.Stem(res.Output))
}

func (c *Console) FileDone(res *trim.Result) {
	c.printf("Trimmed %s: %d traces x %d samples, %s in %s\n",
		trim.Stem(res.Source),
		res.Traces,
		res.Samples,
		units.Base2Bytes(res.Bytes).String(),
		res.Elapsed.Round(time.Millisecond),
	)
	c.logger.Debugw("Trimmed file",
		"source", res.Source,
		"output", res.Output,
		"first_index", res.FirstIndex,
		"last_index", res.LastIndex,
		"delay_ms", res.DelayTime,
		"time_per_trace", res.TimePerTrace().String(),
	)
}

func (c *Console) FileFailed(path string, err error) {
	c.logger.Errorw("Error in file",
		"file", trim.Stem(path),
		"error", err,
	)
}

func (c *Console) Finished(s *trim.Summary) {
	c.printf("\nTrimmed %d files, skipped %d, failed %d in %s\n",
		s.Trimmed(),
		s.Skipped,
		len(s.Failed),
		s.Elapsed.Round(time.Second),
	)
}

// hours:minutes:seconds
func FormatETA(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%d:%02d:%02d", h, m, d/time.Second)
}
