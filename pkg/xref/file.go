package xref

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/thesismd/pkg/fsutil"
)

// ErrModifiedDuringRun is returned when the input changed on disk between
// reading it and writing the rewritten document over it.
var ErrModifiedDuringRun = errors.New("file modified during processing")

// FileOptions controls where ProcessFile writes.
type FileOptions struct {
	// Output is the destination path. Empty means overwrite the input.
	Output string

	// CheckOnly computes the result without writing anything.
	CheckOnly bool

	// Backup is applied before the input itself is overwritten.
	Backup fsutil.BackupConfig
}

// FileResult describes what ProcessFile did to one document.
type FileResult struct {
	Input  string
	Output string

	// Written is true when the destination was (re)written.
	Written bool

	// BackedUp is true when a backup of the input was created.
	BackedUp bool

	*Result
}

// ProcessFile reads input, rewrites it and stores the result. The input is
// only overwritten when the rewrite changed something; a separate output is
// always written so the destination reflects the current run.
func (p *Processor) ProcessFile(ctx context.Context, input string, opts FileOptions) (*FileResult, error) {
	content, info, err := fsutil.ReadFile(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := p.Process(ctx, content)
	if err != nil {
		return nil, err
	}

	fileResult := &FileResult{
		Input:  input,
		Output: input,
		Result: result,
	}
	if opts.Output != "" {
		fileResult.Output = opts.Output
	}

	if opts.CheckOnly {
		return fileResult, nil
	}

	if opts.Output != "" && opts.Output != input {
		if err := fsutil.WriteAtomic(ctx, opts.Output, result.Output, info.Mode); err != nil {
			return nil, fmt.Errorf("write %s: %w", opts.Output, err)
		}
		fileResult.Written = true
		return fileResult, nil
	}

	if !result.Changed {
		return fileResult, nil
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, err
	}
	if modified {
		return nil, fmt.Errorf("%w: %s", ErrModifiedDuringRun, input)
	}

	backedUp, err := fsutil.CreateBackup(ctx, input, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("backup %s: %w", input, err)
	}
	fileResult.BackedUp = backedUp

	if err := fsutil.WriteAtomic(ctx, input, result.Output, info.Mode); err != nil {
		return nil, fmt.Errorf("write %s: %w", input, err)
	}
	fileResult.Written = true

	return fileResult, nil
}
