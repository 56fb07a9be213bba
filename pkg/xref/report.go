package xref

// Report summarizes one processing run. It is built from the registry and
// the pass results and never touches document state.
type Report struct {
	// Figures, Tables and Listings count new definitions by kind.
	Figures  int
	Tables   int
	Listings int

	// ReferencesReplaced counts placeholders rewritten to citations.
	ReferencesReplaced int

	// Definitions lists new definitions in line order.
	Definitions []Occurrence

	// Resolutions lists rewritten placeholders in document order.
	Resolutions []Resolution

	// Duplicates lists names defined more than once.
	Duplicates []Duplicate

	// Collisions lists each definition that reused a canonical name, at the
	// line where the reuse happened.
	Collisions []Collision

	// Unresolved lists placeholders left unchanged.
	Unresolved []Unresolved

	// Skipped lists definitions that already had an identifier.
	Skipped []Skipped

	// Unterminated lists normalized lines whose attribute block never closed.
	Unterminated []int
}

// NewReport aggregates the outcome of both passes.
func NewReport(reg *Registry, scan *ScanResult, resolve *ResolveResult, unterminated []int) *Report {
	report := &Report{
		Figures:      reg.Count(Figure),
		Tables:       reg.Count(Table),
		Listings:     reg.Count(Listing),
		Duplicates:   reg.Duplicates(),
		Unterminated: unterminated,
	}

	if scan != nil {
		report.Definitions = scan.Defined
		report.Collisions = scan.Collisions
		report.Skipped = scan.Skipped
	}

	if resolve != nil {
		report.ReferencesReplaced = len(resolve.Resolved)
		report.Resolutions = resolve.Resolved
		report.Unresolved = resolve.Unresolved
	}

	return report
}

// Total returns the number of new definitions across all kinds.
func (r *Report) Total() int {
	return r.Figures + r.Tables + r.Listings
}

// CountOf returns the number of new definitions of kind.
func (r *Report) CountOf(kind Kind) int {
	switch kind {
	case Figure:
		return r.Figures
	case Table:
		return r.Tables
	case Listing:
		return r.Listings
	default:
		return 0
	}
}

// HasWarnings reports whether anything needs the author's attention.
func (r *Report) HasWarnings() bool {
	return len(r.Unresolved) > 0 || len(r.Duplicates) > 0 || len(r.Unterminated) > 0
}
