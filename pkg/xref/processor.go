package xref

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
)

// Options configures a Processor.
type Options struct {
	// Prefix is prepended to every canonical name.
	Prefix string

	// Fallback names labels that sanitize to nothing.
	Fallback string

	// Tokens are the identifier tokens per kind.
	Tokens Tokens
}

// DefaultOptions returns the pandoc-crossref compatible defaults.
func DefaultOptions() Options {
	return Options{
		Prefix:   DefaultPrefix,
		Fallback: DefaultFallback,
		Tokens:   DefaultTokens(),
	}
}

// OptionsFromConfig maps the xref configuration section to Options.
func OptionsFromConfig(cfg config.XrefConfig) Options {
	return Options{
		Prefix:   cfg.IDPrefix,
		Fallback: cfg.FallbackName,
		Tokens: Tokens{
			Figure:  cfg.Tokens.Figure,
			Table:   cfg.Tokens.Table,
			Listing: cfg.Tokens.Listing,
		},
	}
}

// Result is the outcome of processing one document.
type Result struct {
	// Output is the rewritten document.
	Output []byte

	// Report summarizes definitions, references and warnings.
	Report *Report

	// Changed is true when Output differs from the input.
	Changed bool

	origins []int
}

// SourceLine maps a line number used in the report, which counts merged
// attribute blocks as one line, back to the input line it starts on.
func (r *Result) SourceLine(n int) int {
	if n < 1 || n > len(r.origins) {
		return n
	}
	return r.origins[n-1]
}

// Processor runs the two-pass cross-reference rewrite. It holds only
// immutable settings; every call to Process gets a fresh Registry, so one
// Processor may serve many documents.
type Processor struct {
	sanitizer Sanitizer
	tokens    Tokens
	resolver  *Resolver
}

// NewProcessor creates a Processor, filling unset options with defaults.
func NewProcessor(opts Options) *Processor {
	san := NewSanitizer(opts.Prefix, opts.Fallback)
	tokens := opts.Tokens.withDefaults()

	return &Processor{
		sanitizer: san,
		tokens:    tokens,
		resolver:  NewResolver(tokens, san),
	}
}

// Sanitizer returns the sanitizer used for definitions and references.
func (p *Processor) Sanitizer() Sanitizer {
	return p.sanitizer
}

// Tokens returns the identifier tokens in use.
func (p *Processor) Tokens() Tokens {
	return p.tokens
}

// Process rewrites a document held in memory.
//
// Multi-line figure attribute blocks are merged first, then every definition
// is registered, and only after the registry is complete are placeholders
// resolved. Line endings (LF or CRLF, per line) and the presence of a final
// newline are preserved.
func (p *Processor) Process(ctx context.Context, content []byte) (*Result, error) {
	lines, finalNewline := splitLines(content)

	normalized, origins, unterminated := normalize(lines)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	reg := NewRegistry(p.tokens)
	scanned := Scan(normalized, reg, p.sanitizer)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	resolved := p.resolver.Resolve(scanned.Lines, reg)

	output := joinLines(resolved.Lines, finalNewline)

	return &Result{
		Output:  output,
		Report:  NewReport(reg, scanned, resolved, unterminated),
		Changed: !bytes.Equal(output, content),
		origins: origins,
	}, nil
}

// splitLines splits content on "\n". Carriage returns stay attached to their
// line. The boolean reports whether content ended with a newline.
func splitLines(content []byte) ([]string, bool) {
	if len(content) == 0 {
		return nil, false
	}

	text := string(content)
	finalNewline := strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")

	return strings.Split(text, "\n"), finalNewline
}

func joinLines(lines []string, finalNewline bool) []byte {
	if len(lines) == 0 {
		return []byte{}
	}

	out := strings.Join(lines, "\n")
	if finalNewline {
		out += "\n"
	}
	return []byte(out)
}
