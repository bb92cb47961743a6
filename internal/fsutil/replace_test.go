package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceFileAbort(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "line_TRIM.sgy")
	require.NoError(t, os.WriteFile(fname, []byte("data1"), 0644))

	fakeErr := errors.New("fake error")
	_, err := ReplaceFile(fname, 0644, func(w io.Writer) error {
		if _, err := w.Write([]byte("data2")); err != nil {
			t.Fatal("replace write unexpectedly failed")
		}
		return fakeErr
	})
	require.ErrorIs(t, err, fakeErr)

	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.Equal(t, "data1", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReplaceFileCreates(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "line_TRIM.sgy")

	n, err := ReplaceFile(fname, 0644, func(w io.Writer) error {
		_, err := w.Write([]byte("trimmed"))
		return err
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), n)

	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.Equal(t, "trimmed", string(b))
}

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, TempPrefix+"a.sgy-123")
	keep := filepath.Join(dir, "a_TRIM.sgy")
	require.NoError(t, os.WriteFile(stale, nil, 0644))
	require.NoError(t, os.WriteFile(keep, nil, 0644))

	removed, err := RemoveStale(dir)
	require.NoError(t, err)
	require.Equal(t, []string{stale}, removed)
	require.NoFileExists(t, stale)
	require.FileExists(t, keep)
}
