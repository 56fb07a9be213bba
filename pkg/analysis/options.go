package analysis

import (
	"slices"

	"github.com/yaklabco/thesismd/pkg/config"
)

// SortField orders the per-rule and per-file views of a lint report.
type SortField string

const (
	SortByCount    SortField = "count"    // most issues first
	SortByAlpha    SortField = "alpha"    // TM001 before TM002, chapters/01.md before chapters/02.md
	SortBySeverity SortField = "severity" // errors, then warnings, then info
)

//nolint:gochecknoglobals // Read-only lookup table.
var sortFields = []SortField{SortByCount, SortByAlpha, SortBySeverity}

// IsValid reports whether s is a known sort order.
func (s SortField) IsValid() bool {
	return slices.Contains(sortFields, s)
}

// Options selects the views Analyze builds. The JSON and summary reporters
// use all of them; callers that only need Totals can switch them off.
type Options struct {
	IncludeDiagnostics bool // flat list in runner order
	IncludeByFile      bool
	IncludeByRule      bool

	SortBy     SortField
	RuleFormat config.RuleFormat

	// WorkingDir makes reported paths relative, so a chapter reads as
	// "chapters/02.md". Empty keeps paths as discovered.
	WorkingDir string
}

// DefaultOptions builds every view sorted by count, with rules shown by name.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByRule:      true,
		SortBy:             SortByCount,
		RuleFormat:         config.RuleFormatName,
	}
}
