package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/thesismd/pkg/fsutil"
)

// Discover finds Markdown files matching opts. Named files are always
// included unless excluded; directories are walked for files with a
// Markdown extension; patterns are expanded with doublestar.
// It returns a sorted, de-duplicated list of paths as the caller spelled them.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		if isPattern(inputPath) {
			if err := d.expand(inputPath); err != nil {
				return nil, err
			}
			continue
		}

		info, err := os.Stat(d.abs(inputPath))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", classify(err), inputPath)
		}

		if info.IsDir() {
			if err := d.walk(ctx, inputPath, d.abs(inputPath)); err != nil {
				return nil, err
			}
			continue
		}

		if !d.excluded(inputPath) {
			d.add(inputPath)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	workDir    string
	extensions []string
	opts       Options
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(path string) {
	clean := filepath.Clean(path)
	if _, ok := d.seen[clean]; ok {
		return
	}
	d.seen[clean] = struct{}{}
	d.files = append(d.files, clean)
}

// abs resolves path against the working directory.
func (d *discoverer) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(d.workDir, path)
}

// excluded matches path, relative to the working directory, against the
// exclude patterns.
func (d *discoverer) excluded(path string) bool {
	rel, err := filepath.Rel(d.workDir, d.abs(path))
	if err != nil {
		rel = path
	}
	return fsutil.MatchAny(rel, d.opts.ExcludeGlobs)
}

// expand adds the regular files matching a doublestar pattern. A pattern
// that matches nothing is an error so typos do not pass silently.
func (d *discoverer) expand(pattern string) error {
	matches, err := doublestar.FilepathGlob(d.abs(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("expand %q: %w", pattern, err)
	}

	added := 0
	for _, match := range matches {
		path := match
		if !filepath.IsAbs(pattern) {
			if rel, err := filepath.Rel(d.workDir, match); err == nil {
				path = rel
			}
		}
		if d.excluded(path) {
			continue
		}
		d.add(path)
		added++
	}

	if added == 0 {
		return fmt.Errorf("%w: %s", fsutil.ErrNoMatch, pattern)
	}
	return nil
}

// walk recursively adds the Markdown files under absRoot, naming them
// relative to root.
func (d *discoverer) walk(ctx context.Context, root, absRoot string) error {
	err := filepath.WalkDir(absRoot, func(absPath string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		path := root
		if rel, err := filepath.Rel(absRoot, absPath); err == nil {
			path = filepath.Join(root, rel)
		}

		if entry.IsDir() {
			if path != filepath.Clean(root) && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if d.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(absPath)
			if evalErr != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Inaccessible targets are skipped.
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir does not descend into a symlinked root.
				return d.walk(ctx, path, realPath)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if d.hasMatchingExtension(absPath) && !d.excluded(path) {
			d.add(path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (d *discoverer) hasMatchingExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(d.extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}

func classify(err error) error {
	switch {
	case os.IsNotExist(err):
		return fsutil.ErrNotFound
	case os.IsPermission(err):
		return fsutil.ErrPermissionDenied
	default:
		return err
	}
}
