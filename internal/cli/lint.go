package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/thesismd/internal/logging"
	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/reporter"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

type lintFlags struct {
	format     string
	ruleFormat string
	ignore     []string
	enable     []string
	disable    []string
	strict     bool
	noContext  bool
	compact    bool
	flat       bool
	jobs       int
}

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check thesis conventions in Markdown files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Check Markdown thesis sources for the conventions the build relies on.

Rules cover front matter, citation keys, footnotes, image alt text and
paths, table captions, listing attributes and languages, cross-reference
placeholders, identifier hygiene, heading spacing, fullwidth punctuation
and required sections. Run "thesismd rules" for the full list.

By default, lints all .md and .markdown files in the current directory
and subdirectories. Paths may be files, directories or doublestar patterns.

Examples:
  thesismd lint                        # Lint current directory
  thesismd lint chapters/              # Lint one directory
  thesismd lint "chapters/**/*.md"     # Lint a pattern
  thesismd lint --format json          # Output as JSON for CI
  thesismd lint --format summary       # Per-rule and per-file tables
  thesismd lint --strict               # Fail on warnings too
  thesismd lint --disable TM013        # Skip a rule`

func runLint(cmd *cobra.Command, args []string, flags *lintFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	// Only flags given on the command line override lower layers.
	cliCfg := &config.Config{
		Strict:       flags.strict,
		EnableRules:  flags.enable,
		DisableRules: flags.disable,
	}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("rule-format") {
		cliCfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   runner.DefaultExtensions(),
		ExcludeGlobs: slices.Concat(cfg.Ignore, flags.ignore),
		Jobs:         flags.jobs,
		Config:       cfg,
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldStrict, cfg.Strict,
	)

	lintRunner := runner.New(thesislint.NewEngine(thesislint.DefaultRegistry))

	result, err := lintRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	logger.Debug("lint run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldErrors, result.Stats.DiagnosticsBySeverity[config.SeverityError],
		logging.FieldWarnings, result.Stats.DiagnosticsBySeverity[config.SeverityWarning],
	)

	for _, outcome := range result.Files {
		if outcome.Result == nil {
			continue
		}
		for ruleID, ruleErr := range outcome.Result.RuleErrors {
			logger.Error("rule failed",
				logging.FieldPath, outcome.Path,
				logging.FieldRule, ruleID,
				logging.FieldError, ruleErr,
			)
		}
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: !flags.flat,
		Compact:     flags.compact,
		RuleFormat:  cfg.RuleFormat,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result, cfg.Strict) {
	case ExitLintErrors:
		return ErrLintIssuesFound
	case ExitLintWarnings:
		return ErrStrictWarnings
	}

	if result.Stats.FilesErrored > 0 {
		return fmt.Errorf("%d files could not be read: %w", result.Stats.FilesErrored, firstFileError(result))
	}

	return nil
}

func firstFileError(result *runner.Result) error {
	for _, outcome := range result.Files {
		if outcome.Error != nil {
			return outcome.Error
		}
	}
	return nil
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, summary")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&flags.flat, "flat", false, "do not group diagnostics by file")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
}
