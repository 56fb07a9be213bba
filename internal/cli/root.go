// Package cli provides the Cobra command structure for thesismd.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/thesismd/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root thesismd command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "thesismd",
		Short: "Cross-reference resolver and linter for Markdown theses",
		Long: `thesismd prepares Markdown theses for pandoc and pandoc-crossref.

The xref command annotates every figure, table and listing with a stable
identifier and rewrites {{fig:Name}}, {{tbl:Name}} and {{lst:Name}}
placeholders into citations of those identifiers. The lint command checks
the document conventions the thesis template relies on: front matter,
citations, footnotes, captions, listings and placeholders.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
				logging.SetLevel(level)
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newXrefCommand())
	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
