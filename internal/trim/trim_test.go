package trim

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mgpai22/segytrim/internal/segy"
)

// writes a file with 100 samples every 2 ms (axis 0..198 ms); sample j of
// trace i holds i*1000+j so copied windows can be checked exactly
func writeLine(t *testing.T, dir, name string, traces int) string {
	t.Helper()
	spec, err := segy.NewSpec(segy.FormatIEEEFloat32, binary.BigEndian, 100, 2000, traces)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := segy.Create(&buf, spec)
	require.NoError(t, err)
	for i := 0; i < traces; i++ {
		h := segy.NewTraceHeader(binary.BigEndian)
		require.NoError(t, h.SetField(segy.TraceSequenceFile, i+1))
		require.NoError(t, h.SetField(segy.TraceCDP, 500+i))
		require.NoError(t, h.SetField(segy.TraceSampleCount, 100))
		samples := make([]float32, 100)
		for j := range samples {
			samples[j] = float32(i*1000 + j)
		}
		require.NoError(t, w.WriteTrace(i, h, samples))
	}
	require.NoError(t, w.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func evenAxis(n int, step float64) []float64 {
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = float64(i) * step
	}
	return axis
}

func TestWindow(t *testing.T) {
	axis := evenAxis(100, 2)

	tests := []struct {
		name      string
		start     float64
		end       float64
		wantFirst int
		wantLast  int
		wantErr   error
	}{
		{"inside", 10, 50, 6, 26, nil},
		{"bounds on samples are exclusive", 12, 52, 7, 27, nil},
		{"start before axis", -5, 3, 0, 2, nil},
		{"end past axis", 10, 198, 0, 0, ErrOutOfRange},
		{"start past axis", 200, 300, 0, 0, ErrOutOfRange},
		{"empty window", 50, 10, 0, 0, ErrEmptyWindow},
		{"same sample", 10, 11, 0, 0, ErrEmptyWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, err := Window(axis, tt.start, tt.end)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantFirst, first)
			require.Equal(t, tt.wantLast, last)
		})
	}
}

func TestFirstIndexAfterBoundError(t *testing.T) {
	_, err := FirstIndexAfter([]float64{0, 4, 8}, 8)
	var be *BoundError
	require.True(t, errors.As(err, &be))
	require.Equal(t, 8.0, be.Last)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = FirstIndexAfter(nil, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestOutputPath(t *testing.T) {
	require.Equal(t,
		filepath.Join("out", "BP22-037_FULL_TRIM.sgy"),
		OutputPath(filepath.Join("in", "BP22-037_FULL.sgy"), "out"),
	)
	require.Equal(t,
		filepath.Join("out", "line_TRIM.SEGY"),
		OutputPath("line.SEGY", "out"),
	)
	require.Equal(t, filepath.Join("out", "line_TRIM"), OutputPath("line", "out"))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	src := writeLine(t, dir, "line.sgy", 5)
	dest := filepath.Join(dir, "TRIM")
	require.NoError(t, os.MkdirAll(dest, 0755))

	var fractions []float64
	res, err := File(context.Background(), src, Options{
		StartTime:   10,
		EndTime:     50,
		Destination: dest,
	}, ObserverFunc(func(f float64) { fractions = append(fractions, f) }))
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Equal(t, filepath.Join(dest, "line_TRIM.sgy"), res.Output)
	require.Equal(t, 6, res.FirstIndex)
	require.Equal(t, 26, res.LastIndex)
	require.Equal(t, 20, res.Samples)
	require.Equal(t, 12, res.DelayTime)
	require.Equal(t, 5, res.Traces)
	require.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, fractions)

	info, err := os.Stat(res.Output)
	require.NoError(t, err)
	require.Equal(t, info.Size(), res.Bytes)

	out, err := segy.Open(res.Output)
	require.NoError(t, err)
	defer out.Close()

	bin := out.Bin()
	require.Equal(t, 20, bin.Field(segy.BinSamples))
	require.Equal(t, 2000, bin.Field(segy.BinInterval))
	require.Equal(t, 5, out.TraceCount())
	require.Equal(t, 20, out.SampleCount())
	require.Equal(t, 12.0, out.Samples()[0])
	require.Equal(t, 50.0, out.Samples()[19])

	for i := 0; i < 5; i++ {
		h, err := out.Header(i)
		require.NoError(t, err)
		require.Equal(t, 20, h.Field(segy.TraceSampleCount))
		require.Equal(t, 12, h.Field(segy.TraceDelayRecordingTime))
		require.Equal(t, 500+i, h.Field(segy.TraceCDP))
		require.Equal(t, i+1, h.Field(segy.TraceSequenceFile))

		samples, err := out.Trace(i)
		require.NoError(t, err)
		require.Len(t, samples, 20)
		require.Equal(t, float32(i*1000+6), samples[0])
		require.Equal(t, float32(i*1000+25), samples[19])
	}
}

func TestFileSkipsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeLine(t, dir, "line.sgy", 3)
	opts := Options{StartTime: 10, EndTime: 50, Destination: dir}

	first, err := File(context.Background(), src, opts, nil)
	require.NoError(t, err)
	before, err := os.ReadFile(first.Output)
	require.NoError(t, err)

	opts.EndTime = 100
	second, err := File(context.Background(), src, opts, nil)
	require.NoError(t, err)
	require.True(t, second.Skipped)
	require.Zero(t, second.TimePerTrace())

	after, err := os.ReadFile(first.Output)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestFileOverwriteReplacesOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeLine(t, dir, "line.sgy", 3)

	_, err := File(context.Background(), src, Options{
		StartTime: 0, EndTime: 150, Destination: dir,
	}, nil)
	require.NoError(t, err)

	res, err := File(context.Background(), src, Options{
		StartTime: 100, EndTime: 120, Destination: dir, Overwrite: true,
	}, nil)
	require.NoError(t, err)
	require.False(t, res.Skipped)

	out, err := segy.Open(res.Output)
	require.NoError(t, err)
	defer out.Close()
	require.Equal(t, 10, out.SampleCount())
	require.Equal(t, 3, out.TraceCount())
	samples, err := out.Trace(2)
	require.NoError(t, err)
	require.Equal(t, float32(2051), samples[0])

	info, err := os.Stat(res.Output)
	require.NoError(t, err)
	require.Equal(t, int64(segy.FileHeaderSize+3*(segy.TraceHeaderSize+10*4)), info.Size())
}

func TestFileEndPastAxisLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeLine(t, dir, "line.sgy", 2)
	dest := filepath.Join(dir, "TRIM")
	require.NoError(t, os.MkdirAll(dest, 0755))

	_, err := File(context.Background(), src, Options{
		StartTime: 10, EndTime: 500, Destination: dest,
	}, nil)
	require.ErrorIs(t, err, ErrOutOfRange)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFileCancelledLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeLine(t, dir, "line.sgy", 4)
	dest := filepath.Join(dir, "TRIM")
	require.NoError(t, os.MkdirAll(dest, 0755))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := File(ctx, src, Options{StartTime: 10, EndTime: 50, Destination: dest},
		ObserverFunc(func(f float64) {
			if f >= 0.5 {
				cancel()
			}
		}))
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFileRoundsDelayHalfToEven(t *testing.T) {
	dir := t.TempDir()
	spec, err := segy.NewSpec(segy.FormatInt16, binary.BigEndian, 40, 500, 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	w, err := segy.Create(&buf, spec)
	require.NoError(t, err)
	h := segy.NewTraceHeader(binary.BigEndian)
	require.NoError(t, h.SetField(segy.TraceSampleCount, 40))
	require.NoError(t, w.WriteTrace(0, h, make([]float32, 40)))
	require.NoError(t, w.Close())
	src := filepath.Join(dir, "half.sgy")
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0644))

	// axis is 0, 0.5, 1.0, ...; first sample after 2.2 is 2.5
	res, err := File(context.Background(), src, Options{
		StartTime: 2.2, EndTime: 10, Destination: dir,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, res.DelayTime)
}
