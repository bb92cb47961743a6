package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileModeSet(t *testing.T) {
	tests := []struct {
		in      string
		want    FileMode
		wantErr bool
	}{
		{"", FileModeAppend, false},
		{"append", FileModeAppend, false},
		{"truncate", FileModeTruncate, false},
		{"rotate", FileModeRotate, false},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var m FileMode
			err := m.Set(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, m)
		})
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "segytrim.log")

	logger, err := New(Config{Path: path, Mode: FileModeTruncate})
	require.NoError(t, err)
	logger.Infow("Trimmed file", "traces", 42)
	logger.Debugw("hidden at info level")
	require.NoError(t, logger.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	require.Contains(t, out, `"msg":"Trimmed file"`)
	require.Contains(t, out, `"traces":42`)
	require.False(t, strings.Contains(out, "hidden"))
}

func TestNewAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segytrim.log")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0644))

	logger, err := New(Config{Path: path, Mode: FileModeAppend, Verbose: true})
	require.NoError(t, err)
	logger.Debugw("appended")
	require.NoError(t, logger.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "previous\n"))
	require.Contains(t, string(b), "appended")
}
