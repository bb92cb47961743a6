package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mgpai22/segytrim/internal/logging"
	"github.com/mgpai22/segytrim/internal/trim"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "segytrim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
files:
  - Morven_SEGY_UHR_twt/*.sgy
  - /abs/line.sgy
start_time: 80
end_time: 168
destination: TRIM/test
overwrite: true
time_per_trace: 1.5ms
total_traces: 4412031
file_count: 180
eta_mode: positional
log:
  path: logs/segytrim.log
  mode: rotate
`)
	conf, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	require.Equal(t, []string{
		filepath.Join(dir, "Morven_SEGY_UHR_twt/*.sgy"),
		"/abs/line.sgy",
	}, conf.Files)
	require.Equal(t, filepath.Join(dir, "TRIM/test"), conf.Destination)
	require.Equal(t, logging.FileModeRotate, conf.Log.Mode)

	opts, err := conf.BatchOptions()
	require.NoError(t, err)
	require.Equal(t, 80.0, opts.StartTime)
	require.Equal(t, 168.0, opts.EndTime)
	require.True(t, opts.Overwrite)
	require.Equal(t, 1500*time.Microsecond, opts.TimePerTrace)
	require.Equal(t, 4412031, opts.TotalTraces)
	require.Equal(t, 180, opts.FileCount)
	require.Equal(t, trim.ETAPositional, opts.ETAMode)
}

func TestLoadDefaults(t *testing.T) {
	conf, err := Load(writeConfig(t, "start_time: 10\nend_time: 50\n"))
	require.NoError(t, err)

	opts, err := conf.BatchOptions()
	require.NoError(t, err)
	require.Equal(t, DefaultDestination, opts.Destination)
	require.Equal(t, trim.DefaultTimePerTrace, opts.TimePerTrace)
	require.Equal(t, trim.ETAExact, opts.ETAMode)
	require.False(t, opts.Overwrite)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "eta_mode: sometimes\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "start_time: [1, 2]\n"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBatchOptionsValidation(t *testing.T) {
	start, end := 50.0, 10.0
	conf := &Config{StartTime: &start, EndTime: &end}
	_, err := conf.BatchOptions()
	require.Error(t, err)

	conf = &Config{StartTime: &end}
	_, err = conf.BatchOptions()
	require.Error(t, err)

	zero := time.Duration(0)
	conf = &Config{StartTime: &end, EndTime: &start, TimePerTrace: &zero}
	_, err = conf.BatchOptions()
	require.Error(t, err)
}
