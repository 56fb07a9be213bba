package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/thesismd/internal/configloader"
	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/fsutil"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/thesislint"
	"github.com/yaklabco/thesismd/pkg/xref"
)

// Exit codes for thesismd.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint found warnings and --strict was set.
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrLintIssuesFound is returned when lint found error-severity diagnostics.
	ErrLintIssuesFound = thesislint.ErrLintIssuesFound

	// ErrStrictWarnings is returned when lint found only warnings in strict mode.
	ErrStrictWarnings = fmt.Errorf("%w: warnings are fatal in strict mode", thesislint.ErrLintIssuesFound)

	// ErrUsage marks invalid flag combinations.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.DiagnosticsBySeverity[config.SeverityError] > 0 {
		return ExitLintErrors
	}

	if strict && result.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0 {
		return ExitLintWarnings
	}

	return ExitSuccess
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrStrictWarnings):
		return ExitLintWarnings
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.Is(err, config.ErrInvalidYAML):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrNoMatch),
		errors.Is(err, xref.ErrModifiedDuringRun):
		return ExitIOError
	default:
		return ExitLintErrors
	}
}
