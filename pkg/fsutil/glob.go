package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatch is returned when a glob pattern matches no file.
var ErrNoMatch = errors.New("pattern matched no files")

// ExpandPaths turns command-line arguments into a sorted, de-duplicated list
// of regular files. Arguments without glob metacharacters are taken literally
// and must exist; patterns may use "**" and must match at least one file.
func ExpandPaths(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, arg := range args {
		if !isPattern(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, classify(arg, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%w: %s", ErrIsDirectory, arg)
			}
			add(arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, arg)
		}
		for _, match := range matches {
			add(match)
		}
	}

	slices.Sort(files)
	return files, nil
}

// MatchAny reports whether path matches any of the doublestar patterns.
// The base name is tried as well, so "*.bak.md" excludes files in any directory.
func MatchAny(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

func isPattern(arg string) bool {
	for _, r := range arg {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
