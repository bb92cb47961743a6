package trim

import (
	"fmt"
	"time"
)

// time per trace assumed before any file has been trimmed
const DefaultTimePerTrace = 1500 * time.Microsecond

// Estimator holds the running time-per-trace estimate of a batch.
type Estimator struct {
	perTrace time.Duration
}

func NewEstimator(hint time.Duration) *Estimator {
	if hint <= 0 {
		hint = DefaultTimePerTrace
	}
	return &Estimator{perTrace: hint}
}

// replaces the estimate with a measured per-trace time; zero or negative
// measurements (skipped or failed files) keep the previous estimate
func (e *Estimator) Update(perTrace time.Duration) {
	if perTrace > 0 {
		e.perTrace = perTrace
	}
}

func (e *Estimator) TimePerTrace() time.Duration {
	return e.perTrace
}

// estimated time to process remaining traces
func (e *Estimator) ETA(remaining float64) time.Duration {
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(e.perTrace) * remaining)
}

// how the batch estimates the traces left before each file
type ETAMode string

const (
	// ETAExact subtracts the known trace count of every finished file.
	ETAExact ETAMode = "exact"
	// ETAPositional subtracts i * total / files before file i, cumulatively,
	// which overshoots on long batches and is clamped at zero.
	ETAPositional ETAMode = "positional"
)

func (m *ETAMode) Set(s string) error {
	switch ETAMode(s) {
	case ETAExact, "":
		*m = ETAExact
	case ETAPositional:
		*m = ETAPositional
	default:
		return fmt.Errorf("invalid ETA mode %q: use exact or positional", s)
	}
	return nil
}

func (m ETAMode) String() string {
	return string(m)
}

func (m ETAMode) Type() string {
	return "mode"
}

// tracks traces remaining in a batch
type remainingCounter struct {
	mode      ETAMode
	total     float64
	fileCount int
	counts    map[string]int
	remaining float64
}

func newRemainingCounter(mode ETAMode, total, fileCount int, counts map[string]int) *remainingCounter {
	return &remainingCounter{
		mode:      mode,
		total:     float64(total),
		fileCount: fileCount,
		counts:    counts,
		remaining: float64(total),
	}
}

func (r *remainingCounter) average() float64 {
	if r.fileCount <= 0 {
		return 0
	}
	return r.total / float64(r.fileCount)
}

// estimate of traces left before file i starts; prev is the file
// processed just before it
func (r *remainingCounter) before(i int, prev string) float64 {
	switch r.mode {
	case ETAPositional:
		r.remaining -= float64(i) * r.average()
	default:
		if i > 0 {
			if n, ok := r.counts[prev]; ok {
				r.remaining -= float64(n)
			} else {
				r.remaining -= r.average()
			}
		}
	}
	if r.remaining < 0 {
		return 0
	}
	return r.remaining
}
