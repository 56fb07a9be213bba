// Package runner lints many documents concurrently.
package runner

import "github.com/yaklabco/thesismd/pkg/config"

// Options selects the thesis documents to lint and how many run at once.
type Options struct {
	// Paths are chapter files, directories or doublestar patterns such as
	// "chapters/**/*.md". Empty means the working directory.
	Paths []string

	// WorkingDir resolves relative Paths and anchors ExcludeGlobs. Empty
	// means the process working directory.
	WorkingDir string

	// Extensions, lowercase with the leading dot, pick Markdown files out of
	// walked directories. Empty means DefaultExtensions.
	Extensions []string

	// ExcludeGlobs combine the config ignore list with --ignore.
	ExcludeGlobs []string

	// FollowSymlinks descends into symlinked directories, for theses that
	// link shared front matter or appendices in from elsewhere.
	FollowSymlinks bool

	// Jobs caps concurrent workers; 0 or less means one per CPU.
	Jobs int

	// Config is the resolved configuration for the run.
	Config *config.Config
}

// DefaultExtensions returns the extensions pandoc reads as Markdown.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
