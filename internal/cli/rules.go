package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/thesismd/internal/logging"
	"github.com/yaklabco/thesismd/pkg/config"
	"github.com/yaklabco/thesismd/pkg/thesislint"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	tag        string
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Tags        []string `json:"tags,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all lint rules with their IDs, names, default severity and tags.
Rules can be referenced by ID or name in --enable, --disable and the
rules section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := filterRules(thesislint.DefaultRegistry.Rules(), flags.tag)

			if flags.format == string(config.FormatJSON) {
				return outputRulesJSON(cmd.OutOrStdout(), rules)
			}

			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")

			if len(rules) == 0 {
				logger.Info("no rules match")
				return nil
			}

			ruleFormat := config.RuleFormat(flags.ruleFormat)
			for _, rule := range rules {
				logger.Info(ruleFormat.Identifier(rule.ID(), rule.Name()),
					logging.FieldSeverity, rule.DefaultSeverity(),
					logging.FieldTags, strings.Join(rule.Tags(), ","),
					logging.FieldDescription, rule.Description(),
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules with this tag")

	return cmd
}

func filterRules(rules []thesislint.Rule, tag string) []thesislint.Rule {
	if tag == "" {
		return rules
	}
	var matched []thesislint.Rule
	for _, rule := range rules {
		if slices.Contains(rule.Tags(), tag) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// outputRulesJSON writes rules as a JSON array.
func outputRulesJSON(w io.Writer, rules []thesislint.Rule) error {
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Enabled:     rule.DefaultEnabled(),
			Tags:        rule.Tags(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
