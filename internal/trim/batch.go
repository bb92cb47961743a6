package trim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/mgpai22/segytrim/internal/segy"
)

// FileError ties a failure to the file that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", Stem(e.Path), e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// result of the trace counting pass
type Counts struct {
	Total  int
	Files  int
	ByFile map[string]int
}

// opens every file to read its trace count; unreadable files are
// returned as failures and left out of the totals
func CountTraces(ctx context.Context, files []string) (*Counts, []*FileError) {
	counts := &Counts{ByFile: make(map[string]int, len(files))}
	var failed []*FileError
	for _, path := range files {
		if ctx.Err() != nil {
			failed = append(failed, &FileError{Path: path, Err: ctx.Err()})
			continue
		}
		f, err := segy.Open(path)
		if err != nil {
			failed = append(failed, &FileError{Path: path, Err: err})
			continue
		}
		n := f.TraceCount()
		f.Close()
		counts.Total += n
		counts.Files++
		counts.ByFile[path] = n
	}
	return counts, failed
}

// batch settings on top of the per-file options
type BatchOptions struct {
	Options
	TimePerTrace time.Duration // initial estimate, DefaultTimePerTrace if zero
	TotalTraces  int           // skips the counting pass when set
	FileCount    int
	ETAMode      ETAMode
}

// Reporter is told about every step of a batch.
type Reporter interface {
	Observer
	CountFailed(path string, err error)
	Totals(traces, files int)
	FileStarted(index int, path string, fraction float64, eta time.Duration)
	FileSkipped(res *Result)
	FileDone(res *Result)
	FileFailed(path string, err error)
	Finished(summary *Summary)
}

// Summary describes a finished batch.
type Summary struct {
	Results     []*Result
	Failed      []*FileError
	Skipped     int
	TotalTraces int
	Elapsed     time.Duration
	// every per-file failure combined, nil when all files succeeded
	Err error
}

func (s *Summary) Trimmed() int {
	return len(s.Results) - s.Skipped
}

// trims files in order. Failures of single files are collected in the
// summary and never stop the batch; only a destination that cannot be
// created or a cancelled context return an error.
func Batch(
	ctx context.Context,
	files []string,
	opts BatchOptions,
	reporter Reporter,
) (*Summary, error) {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if opts.Destination == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		opts.Destination = filepath.Join(wd, "TRIM")
	}
	if err := os.MkdirAll(opts.Destination, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	begin := time.Now()
	total, fileCount := opts.TotalTraces, opts.FileCount
	var perFile map[string]int
	if total == 0 {
		counts, failed := CountTraces(ctx, files)
		for _, fe := range failed {
			reporter.CountFailed(fe.Path, fe.Err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		total, perFile = counts.Total, counts.ByFile
		if fileCount == 0 {
			fileCount = counts.Files
		}
	}
	if fileCount == 0 {
		fileCount = len(files)
	}
	reporter.Totals(total, fileCount)

	summary := &Summary{TotalTraces: total}
	estimator := NewEstimator(opts.TimePerTrace)
	remaining := newRemainingCounter(opts.ETAMode, total, fileCount, perFile)

	var prev string
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(begin)
			return summary, err
		}
		left := remaining.before(i, prev)
		prev = path
		fraction := 0.0
		if fileCount > 0 {
			fraction = float64(i) / float64(fileCount)
		}
		reporter.FileStarted(i, path, fraction, estimator.ETA(left))

		res, err := File(ctx, path, opts.Options, reporter)
		if err != nil {
			if ctx.Err() != nil {
				summary.Elapsed = time.Since(begin)
				return summary, ctx.Err()
			}
			fe := &FileError{Path: path, Err: err}
			summary.Failed = append(summary.Failed, fe)
			summary.Err = multierr.Append(summary.Err, fe)
			reporter.FileFailed(path, err)
			continue
		}
		summary.Results = append(summary.Results, res)
		if res.Skipped {
			summary.Skipped++
			reporter.FileSkipped(res)
			continue
		}
		estimator.Update(res.TimePerTrace())
		reporter.FileDone(res)
	}

	summary.Elapsed = time.Since(begin)
	reporter.Finished(summary)
	return summary, nil
}

// NopReporter ignores everything.
type NopReporter struct{}

func (NopReporter) OnProgress(float64) {}
func (NopReporter) CountFailed(string, error) {}
func (NopReporter) Totals(int, int) {}
func (NopReporter) FileStarted(int, string, float64, time.Duration) {}
func (NopReporter) FileSkipped(*Result) {}
func (NopReporter) FileDone(*Result) {}
func (NopReporter) FileFailed(string, error) {}
func (NopReporter) Finished(*Summary) {}
