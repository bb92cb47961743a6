package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// temporary files carry this prefix so a crashed run can be cleaned up
const TempPrefix = ".segytrim-"

// Replacer writes to a temporary file next to the target. Close renames it
// over the target; Abort removes it and leaves the target untouched.
type Replacer struct {
	f        *os.File
	err      error
	filename string
	perm     os.FileMode
	written  int64
}

func NewReplacer(filename string, perm os.FileMode) (*Replacer, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(filename), TempPrefix+filepath.Base(filename)+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	return &Replacer{
		f:        f,
		filename: filename,
		perm:     perm,
	}, nil
}

func (r *Replacer) Write(b []byte) (int, error) {
	n, err := r.f.Write(b)
	r.written += int64(n)
	if err != nil {
		r.err = err
	}
	return n, err
}

// bytes written so far
func (r *Replacer) Size() int64 {
	return r.written
}

func (r *Replacer) Abort() {
	if r.err == nil {
		r.err = errors.New("replace aborted")
	}
	_ = r.close()
}

func (r *Replacer) Close() error {
	return r.close()
}

func (r *Replacer) close() (err error) {
	defer func() {
		if err != nil {
			os.Remove(r.f.Name())
		}
	}()
	if err := r.f.Close(); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	if err := os.Chmod(r.f.Name(), r.perm); err != nil {
		return err
	}
	return os.Rename(r.f.Name(), r.filename)
}

// runs fn against a temporary file and moves it to name only when fn
// succeeds; returns the number of bytes written
func ReplaceFile(name string, perm os.FileMode, fn func(w io.Writer) error) (int64, error) {
	r, err := NewReplacer(name, perm)
	if err != nil {
		return 0, err
	}
	if err := fn(r); err != nil {
		r.Abort()
		return 0, err
	}
	if err := r.Close(); err != nil {
		return 0, err
	}
	return r.Size(), nil
}

// removes temporary files a killed run left behind in dir
func RemoveStale(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), TempPrefix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}
