package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/thesismd/internal/ui/pretty"
	"github.com/yaklabco/thesismd/pkg/analysis"
)

// XrefOutput is the top-level JSON structure of cross-reference results.
type XrefOutput struct {
	Version string        `json:"version"`
	Files   []XrefFile    `json:"files"`
	Summary XrefJSONTotal `json:"summary"`
}

// XrefFile is one document's cross-reference result.
type XrefFile struct {
	Input        string           `json:"input"`
	Output       string           `json:"output,omitempty"`
	Error        string           `json:"error,omitempty"`
	Changed      bool             `json:"changed"`
	Written      bool             `json:"written"`
	BackedUp     bool             `json:"backedUp"`
	Figures      int              `json:"figures"`
	Tables       int              `json:"tables"`
	Listings     int              `json:"listings"`
	Replaced     int              `json:"referencesReplaced"`
	Definitions  []XrefDefinition `json:"definitions,omitempty"`
	References   []XrefReference  `json:"references,omitempty"`
	Unresolved   []XrefUnresolved `json:"unresolved,omitempty"`
	Duplicates   []XrefDuplicate  `json:"duplicates,omitempty"`
	Unterminated []int            `json:"unterminated,omitempty"`
}

// XrefDefinition is an annotated figure, table or listing.
type XrefDefinition struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	ID    string `json:"id"`
	Line  int    `json:"line"`
}

// XrefReference is a rewritten placeholder.
type XrefReference struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Line       int    `json:"line"`
	ID         string `json:"id"`
	TargetLine int    `json:"targetLine"`
	Direction  string `json:"direction"`
	Candidates int    `json:"candidates"`
}

// XrefUnresolved is a placeholder left unchanged.
type XrefUnresolved struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// XrefDuplicate is a name defined more than once.
type XrefDuplicate struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name"`
	Lines []int    `json:"lines"`
	IDs   []string `json:"ids"`
}

// XrefJSONTotal contains aggregate statistics.
type XrefJSONTotal struct {
	Files        int `json:"files"`
	Failed       int `json:"failed"`
	Written      int `json:"written"`
	BackedUp     int `json:"backedUp"`
	Figures      int `json:"figures"`
	Tables       int `json:"tables"`
	Listings     int `json:"listings"`
	Replaced     int `json:"referencesReplaced"`
	Unresolved   int `json:"unresolved"`
	Duplicates   int `json:"duplicates"`
	Unterminated int `json:"unterminated"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Render implements Renderer for lint results.
func (r *JSONReporter) Render(_ context.Context, report *analysis.Report) error {
	return r.encode(report)
}

// ReportXref implements XrefReporter.
func (r *JSONReporter) ReportXref(_ context.Context, outcomes []XrefOutcome) error {
	return r.encode(r.buildXrefOutput(outcomes))
}

func (r *JSONReporter) encode(v any) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildXrefOutput(outcomes []XrefOutcome) *XrefOutput {
	output := &XrefOutput{
		Version: analysis.ReportVersion,
		Files:   make([]XrefFile, 0, len(outcomes)),
	}

	var totals pretty.XrefTotals

	for _, outcome := range outcomes {
		file := XrefFile{Input: analysis.RelativePath(outcome.Input, r.opts.WorkingDir)}

		if outcome.Err != nil {
			totals.Failed++
			file.Error = outcome.Err.Error()
			output.Files = append(output.Files, file)
			continue
		}
		if outcome.Result == nil {
			continue
		}

		totals.Add(outcome.Result)
		r.fillXrefFile(&file, outcome)
		output.Files = append(output.Files, file)
	}

	output.Summary = XrefJSONTotal(totals)
	return output
}

func (r *JSONReporter) fillXrefFile(file *XrefFile, outcome XrefOutcome) {
	fr := outcome.Result
	report := fr.Report

	file.Output = analysis.RelativePath(fr.Output, r.opts.WorkingDir)
	file.Changed = fr.Changed
	file.Written = fr.Written
	file.BackedUp = fr.BackedUp
	file.Figures = report.Figures
	file.Tables = report.Tables
	file.Listings = report.Listings
	file.Replaced = report.ReferencesReplaced

	for _, def := range report.Definitions {
		file.Definitions = append(file.Definitions, XrefDefinition{
			Kind:  def.Kind.String(),
			Label: def.Label,
			ID:    def.ID,
			Line:  fr.SourceLine(def.Line),
		})
	}

	for _, res := range report.Resolutions {
		file.References = append(file.References, XrefReference{
			Kind:       res.Kind.String(),
			Name:       res.RawName,
			Line:       fr.SourceLine(res.Line),
			ID:         res.Target.ID,
			TargetLine: fr.SourceLine(res.Target.Line),
			Direction:  string(res.Direction),
			Candidates: res.Candidates,
		})
	}

	for _, u := range report.Unresolved {
		file.Unresolved = append(file.Unresolved, XrefUnresolved{
			Kind: u.Kind.String(),
			Name: u.RawName,
			Line: fr.SourceLine(u.Line),
			Text: u.Text,
		})
	}

	for _, d := range report.Duplicates {
		dup := XrefDuplicate{
			Kind: d.Kind.String(),
			Name: d.Name,
			IDs:  d.IDs,
		}
		for _, n := range d.Lines {
			dup.Lines = append(dup.Lines, fr.SourceLine(n))
		}
		file.Duplicates = append(file.Duplicates, dup)
	}

	for _, n := range report.Unterminated {
		file.Unterminated = append(file.Unterminated, fr.SourceLine(n))
	}
}
