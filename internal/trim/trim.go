// Package trim cuts SEG-Y files down to a time window.
//
// File trims a single file, Batch drives File over many files while
// keeping a running estimate of the time left.
package trim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mgpai22/segytrim/internal/fsutil"
	"github.com/mgpai22/segytrim/internal/segy"
)

// appended to the stem of every trimmed file
const Suffix = "_TRIM"

var (
	ErrOutOfRange  = errors.New("time bound outside sample axis")
	ErrEmptyWindow = errors.New("time window selects no samples")
)

// BoundError reports a time bound with no sample after it.
type BoundError struct {
	Bound float64
	Last  float64 // last value on the sample axis, NaN when the axis is empty
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("no sample later than %g ms (last sample at %g ms)", e.Bound, e.Last)
}

func (e *BoundError) Is(target error) bool {
	return target == ErrOutOfRange
}

// trimming parameters shared by every file of a run
type Options struct {
	StartTime   float64 // milliseconds, exclusive
	EndTime     float64 // milliseconds
	Destination string
	Overwrite   bool
}

// receives the fraction of traces copied so far
type Observer interface {
	OnProgress(fraction float64)
}

type ObserverFunc func(fraction float64)

func (f ObserverFunc) OnProgress(fraction float64) {
	f(fraction)
}

// outcome of trimming one file
type Result struct {
	Source     string
	Output     string
	Skipped    bool // output existed and overwrite was off
	Traces     int
	Samples    int // samples per trace in the output
	FirstIndex int
	LastIndex  int
	DelayTime  int   // milliseconds, written to every trace header
	Bytes      int64 // size of the output file
	Elapsed    time.Duration
}

// mean wall clock time per trace, zero for skipped or empty files
func (r *Result) TimePerTrace() time.Duration {
	if r == nil || r.Skipped || r.Traces == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Traces)
}

// <destination>/<stem>_TRIM<ext>
func OutputPath(source, destination string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	return filepath.Join(destination, strings.TrimSuffix(base, ext)+Suffix+ext)
}

// name of a file without directory and extension, used in messages
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// index of the first axis value strictly greater than bound; the axis
// must be increasing
func FirstIndexAfter(axis []float64, bound float64) (int, error) {
	i := sort.Search(len(axis), func(i int) bool { return axis[i] > bound })
	if i == len(axis) {
		last := math.NaN()
		if len(axis) > 0 {
			last = axis[len(axis)-1]
		}
		return 0, &BoundError{Bound: bound, Last: last}
	}
	return i, nil
}

// sample index range [first, last) kept by a start/end time pair
func Window(axis []float64, start, end float64) (int, int, error) {
	first, err := FirstIndexAfter(axis, start)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	last, err := FirstIndexAfter(axis, end)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	if last <= first {
		return 0, 0, fmt.Errorf("%w: start %g ms, end %g ms", ErrEmptyWindow, start, end)
	}
	return first, last, nil
}

// trims one SEG-Y file into opts.Destination. The output is written to a
// temporary file and renamed into place only after every trace was copied.
func File(
	ctx context.Context,
	source string,
	opts Options,
	observer Observer,
) (*Result, error) {
	output := OutputPath(source, opts.Destination)
	result := &Result{Source: source, Output: output}

	if !opts.Overwrite {
		if _, err := os.Stat(output); err == nil {
			result.Skipped = true
			return result, nil
		}
	}

	start := time.Now()

	src, err := segy.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer src.Close()

	spec := segy.Metadata(src)
	first, last, err := Window(spec.Samples, opts.StartTime, opts.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	spec.Samples = spec.Samples[first:last]
	if err := spec.Bin.SetField(segy.BinSamples, len(spec.Samples)); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	delay := int(math.RoundToEven(spec.Samples[0]))

	result.Traces = spec.TraceCount
	result.Samples = len(spec.Samples)
	result.FirstIndex = first
	result.LastIndex = last
	result.DelayTime = delay

	size, err := fsutil.ReplaceFile(output, 0644, func(w io.Writer) error {
		return copyTraces(ctx, src, spec, w, first, last, delay, observer)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to trim %s: %w", source, err)
	}
	result.Bytes = size
	result.Elapsed = time.Since(start)
	return result, nil
}

func copyTraces(
	ctx context.Context,
	src *segy.File,
	spec *segy.Spec,
	w io.Writer,
	first, last, delay int,
	observer Observer,
) error {
	dst, err := segy.Create(w, spec)
	if err != nil {
		return err
	}
	size := spec.Format.Size()
	var buf []byte
	for i := 0; i < spec.TraceCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if observer != nil {
			observer.OnProgress(float64(i) / float64(spec.TraceCount))
		}

		h, err := src.Header(i)
		if err != nil {
			return err
		}
		if err := h.SetField(segy.TraceSampleCount, last-first); err != nil {
			return fmt.Errorf("trace %d: %w", i, err)
		}
		if err := h.SetField(segy.TraceDelayRecordingTime, delay); err != nil {
			return fmt.Errorf("trace %d: %w", i, err)
		}

		buf, err = src.RawTrace(i, buf)
		if err != nil {
			return err
		}
		if err := dst.WriteRawTrace(i, h, buf[first*size:last*size]); err != nil {
			return err
		}
	}
	if observer != nil {
		observer.OnProgress(1)
	}
	return dst.Close()
}
