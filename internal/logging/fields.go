// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldBackup     = "backup"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfigFiles = "config_files"
	FieldPrefix      = "prefix"
	FieldTokens      = "tokens"
	FieldStrict      = "strict"

	// Cross-reference fields.
	FieldLine        = "line"
	FieldKind        = "kind"
	FieldLabel       = "label"
	FieldID          = "id"
	FieldName        = "name"
	FieldDefinitions = "definitions"
	FieldReplaced    = "replaced"
	FieldUnresolved  = "unresolved"
	FieldChanged     = "changed"
	FieldPlaceholder = "placeholder"
	FieldFirstLine   = "first_line"
	FieldFirstLabel  = "first_label"

	// Statistics fields.
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldErrors           = "errors"
	FieldWarnings         = "warnings"
	FieldJobs             = "jobs"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldRule        = "rule"
	FieldSeverity    = "severity"
	FieldDescription = "description"
	FieldTags        = "tags"
)
