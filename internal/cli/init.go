package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/thesismd/internal/configloader"
	"github.com/yaklabco/thesismd/internal/logging"
	"github.com/yaklabco/thesismd/pkg/config"
)

// defaultConfigFile is the project config written by init.
const defaultConfigFile = ".thesismd.yml"

type initFlags struct {
	force  bool
	full   bool
	plain  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a thesismd configuration file",
		Long: `Create a .thesismd.yml configuration file in the current directory.
The generated file documents the cross-reference identifier settings,
backups, ignore patterns and per-rule overrides.

When the file already exists and the terminal is interactive, init asks
before replacing it. Otherwise it refuses unless --force is given.

Examples:
  thesismd init                       Create a commented .thesismd.yml
  thesismd init --full                List every rule with its defaults
  thesismd init --plain               Write the defaults without comments
  thesismd init -o config/thesis.yml  Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every rule in the template")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "write the default configuration without comments")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	cmd.MarkFlagsMutuallyExclusive("full", "plain")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	path := flags.output

	force := flags.force
	if !force {
		if _, err := os.Stat(path); err == nil {
			if !isInteractive(cmd.InOrStdin(), cmd.ErrOrStderr()) {
				return fmt.Errorf("%w: %s; use --force to overwrite", os.ErrExist, path)
			}
			ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("%s exists. Overwrite?", path))
			if err != nil {
				return err
			}
			if !ok {
				logger.Info("left existing file unchanged", logging.FieldPath, path)
				return nil
			}
			force = true
		}
	}

	if flags.plain {
		if err := configloader.WriteConfig(config.NewConfig(), path, force); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	} else {
		content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
		if err != nil {
			return fmt.Errorf("generate template: %w", err)
		}
		if err := configloader.WriteTemplate(content, path, force); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("run 'thesismd rules' to see all available rules")

	return nil
}

// isInteractive reports whether both streams are terminals.
func isInteractive(in io.Reader, out io.Writer) bool {
	inFile, ok := in.(*os.File)
	if !ok {
		return false
	}
	outFile, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(inFile.Fd())) && term.IsTerminal(int(outFile.Fd()))
}

// confirm asks a yes/no question; anything but "y" or "yes" declines.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
