package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/thesismd/internal/logging"
	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/fsutil"
	"github.com/yaklabco/thesismd/pkg/reporter"
	"github.com/yaklabco/thesismd/pkg/runner"
	"github.com/yaklabco/thesismd/pkg/xref"
)

// ErrOutputWithMultipleInputs is returned when --output is combined with
// more than one resolved input.
var ErrOutputWithMultipleInputs = fmt.Errorf("%w: --output requires exactly one input", ErrUsage)

type xrefFlags struct {
	output  string
	format  string
	check   bool
	verbose bool
	backup  bool
	noBack  bool
	summary bool
	jobs    int
}

func newXrefCommand() *cobra.Command {
	flags := &xrefFlags{}

	cmd := &cobra.Command{
		Use:   "xref <input>...",
		Short: "Annotate definitions and resolve cross-reference placeholders",
		Long:  xrefLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXref(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result here instead of overwriting the input")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, summary")
	cmd.Flags().BoolVar(&flags.check, "check", false, "process in memory and report without writing")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "trace every definition and resolved reference")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a sidecar copy of inputs that are overwritten")
	cmd.Flags().BoolVar(&flags.noBack, "no-backups", false, "never create backups")
	cmd.Flags().BoolVar(&flags.summary, "summary", true, "print a summary line after the per-file report")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	cmd.MarkFlagsMutuallyExclusive("backup", "no-backups")

	return cmd
}

const xrefLongDescription = `Annotate figures, tables and listings with pandoc-crossref identifiers and
rewrite {{fig:Name}}, {{tbl:Name}} and {{lst:Name}} placeholders into
citations.

Each document is processed on its own: definitions are collected first,
then every placeholder resolves to the nearest definition of the same kind
and name, looking backward before forward. Placeholders without a matching
definition are left unchanged and reported. Running xref again on its own
output changes nothing.

Inputs may be files or doublestar patterns such as "chapters/**/*.md".

Examples:
  thesismd xref thesis.md                 # Rewrite in place
  thesismd xref draft.md -o thesis.md     # Write to another file
  thesismd xref "chapters/*.md" --check   # Report without writing
  thesismd xref thesis.md -v              # Trace every resolution
  thesismd xref thesis.md --format json   # Machine-readable report`

func runXref(cmd *cobra.Command, args []string, flags *xrefFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	if flags.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	inputs, err := fsutil.ExpandPaths(args)
	if err != nil {
		return fmt.Errorf("resolve inputs: %w", err)
	}
	cliCfg := &config.Config{NoBackups: flags.noBack}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	if flags.backup {
		cliCfg.Backups = config.BackupsConfig{Enabled: true, Mode: string(fsutil.BackupModeSidecar)}
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	inputs = filterIgnored(logger, cfg, inputs)
	if flags.output != "" && len(inputs) != 1 {
		return fmt.Errorf("%w (got %d)", ErrOutputWithMultipleInputs, len(inputs))
	}

	logger.Debug("starting xref run",
		logging.FieldFiles, len(inputs),
		logging.FieldPrefix, cfg.Xref.IDPrefix,
		logging.FieldTokens, cfg.Xref.Tokens,
	)

	processor := xref.NewProcessor(xref.OptionsFromConfig(cfg.Xref))
	fileOpts := xref.FileOptions{
		Output:    flags.output,
		CheckOnly: flags.check,
		Backup:    backupConfig(cfg),
	}

	outcomes := runner.ForEach(ctx, inputs, flags.jobs, func(ctx context.Context, input string) reporter.XrefOutcome {
		ctx = logging.WithInput(ctx, input)
		logging.FromContext(ctx).Debug("processing document")
		fr, err := processor.ProcessFile(ctx, input, fileOpts)
		return reporter.XrefOutcome{Input: input, Result: fr, Err: err}
	})

	var failures []error
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", outcome.Input, outcome.Err))
			continue
		}
		if outcome.Result != nil {
			logXrefResult(logger, outcome.Result)
		}
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.NewXref(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowSummary: flags.summary,
		Verbose:     flags.verbose,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if err := rep.ReportXref(ctx, outcomes); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("xref run: %w", err)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d files failed: %w", len(failures), len(inputs), errors.Join(failures...))
	}

	return nil
}

// filterIgnored drops inputs matched by the ignore patterns of the config.
func filterIgnored(logger *log.Logger, cfg *config.Config, inputs []string) []string {
	kept := inputs[:0]
	for _, input := range inputs {
		if cfg.IsIgnored(input, fsutil.MatchAny) {
			logger.Debug("skipping ignored input", logging.FieldPath, input)
			continue
		}
		kept = append(kept, input)
	}
	return kept
}

// logXrefResult traces one processed document. Definitions and resolutions
// are debug level, unresolved placeholders warn and duplicate names inform.
func logXrefResult(logger *log.Logger, fr *xref.FileResult) {
	report := fr.Report
	fileLogger := logger.With(logging.FieldInput, fr.Input)

	for _, def := range report.Definitions {
		fileLogger.Debug("definition",
			logging.FieldLine, fr.SourceLine(def.Line),
			logging.FieldKind, def.Kind,
			logging.FieldLabel, def.Label,
			logging.FieldID, def.ID,
		)
	}

	for _, res := range report.Resolutions {
		fileLogger.Debug("reference",
			logging.FieldLine, fr.SourceLine(res.Line),
			logging.FieldKind, res.Kind,
			logging.FieldName, res.RawName,
			logging.FieldID, res.Target.ID,
		)
	}

	for _, u := range report.Unresolved {
		fileLogger.Warn("unresolved reference",
			logging.FieldLine, fr.SourceLine(u.Line),
			logging.FieldKind, u.Kind,
			logging.FieldName, u.Name,
			logging.FieldPlaceholder, u.Text,
		)
	}

	for _, c := range report.Collisions {
		msg := "name already defined"
		if c.Collapsed() {
			msg = "label collides with an earlier one after sanitizing"
		}
		fileLogger.Warn(msg,
			logging.FieldLine, fr.SourceLine(c.Occurrence.Line),
			logging.FieldKind, c.Occurrence.Kind,
			logging.FieldLabel, c.Occurrence.Label,
			logging.FieldID, c.Occurrence.ID,
			logging.FieldFirstLine, fr.SourceLine(c.First.Line),
			logging.FieldFirstLabel, c.First.Label,
		)
	}

	for _, d := range report.Duplicates {
		fileLogger.Info("duplicate name",
			logging.FieldKind, d.Kind,
			logging.FieldName, d.Name,
			logging.FieldDefinitions, d.Count(),
		)
	}

	for _, n := range report.Unterminated {
		fileLogger.Warn("attribute block never closed", logging.FieldLine, fr.SourceLine(n))
	}

	fileLogger.Debug("processed",
		logging.FieldDefinitions, report.Total(),
		logging.FieldReplaced, report.ReferencesReplaced,
		logging.FieldUnresolved, len(report.Unresolved),
		logging.FieldChanged, fr.Changed,
		logging.FieldOutput, fr.Output,
		logging.FieldBackup, fr.BackedUp,
	)
}
