package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

// expands glob patterns in order; plain paths are kept even when they do
// not exist so the batch can report them. Patterns matching nothing are
// returned separately.
func expandPatterns(patterns []string) ([]string, []string, error) {
	var files, unmatched []string
	seen := make(map[string]bool)
	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, path)
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[") {
			add(pattern)
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			unmatched = append(unmatched, pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, unmatched, nil
}

// input files from arguments, falling back to the config file
func inputFiles(args []string) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = conf.Files
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no input files: pass files or patterns, or set files in the config")
	}
	files, unmatched, err := expandPatterns(patterns)
	if err != nil {
		return nil, err
	}
	for _, p := range unmatched {
		logger.Warnw("Pattern matched no files", "pattern", p)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched %s", strings.Join(patterns, ", "))
	}
	return files, nil
}
