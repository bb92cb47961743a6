package trim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEstimatorUpdate(t *testing.T) {
	e := NewEstimator(0)
	require.Equal(t, DefaultTimePerTrace, e.TimePerTrace())

	e.Update(2 * time.Millisecond)
	require.Equal(t, 2*time.Millisecond, e.TimePerTrace())

	// failed and skipped files report zero and must not reset the estimate
	e.Update(0)
	require.Equal(t, 2*time.Millisecond, e.TimePerTrace())
	e.Update(-time.Second)
	require.Equal(t, 2*time.Millisecond, e.TimePerTrace())

	require.Equal(t, 20*time.Millisecond, e.ETA(10))
	require.Zero(t, e.ETA(-3))
}

func TestETAModeSet(t *testing.T) {
	var m ETAMode
	require.NoError(t, m.Set(""))
	require.Equal(t, ETAExact, m)
	require.NoError(t, m.Set("positional"))
	require.Equal(t, ETAPositional, m)
	require.Error(t, m.Set("psychic"))
}

func TestRemainingExact(t *testing.T) {
	counts := map[string]int{"a": 100, "b": 10, "c": 40}
	r := newRemainingCounter(ETAExact, 150, 3, counts)

	require.Equal(t, 150.0, r.before(0, ""))
	require.Equal(t, 50.0, r.before(1, "a"))
	require.Equal(t, 40.0, r.before(2, "b"))
}

func TestRemainingExactWithoutCounts(t *testing.T) {
	r := newRemainingCounter(ETAExact, 300, 3, nil)

	require.Equal(t, 300.0, r.before(0, ""))
	require.Equal(t, 200.0, r.before(1, "a"))
	require.Equal(t, 100.0, r.before(2, "b"))
}

func TestRemainingPositional(t *testing.T) {
	r := newRemainingCounter(ETAPositional, 400, 4, map[string]int{"a": 1})

	// subtracts 0, 1, 2, 3 times the average of 100 cumulatively
	require.Equal(t, 400.0, r.before(0, ""))
	require.Equal(t, 300.0, r.before(1, "a"))
	require.Equal(t, 100.0, r.before(2, "b"))
	require.Equal(t, 0.0, r.before(3, "c"))
}
