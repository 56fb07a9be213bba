package reporter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
)

// Format selects how lint and xref results are written. It is the same type
// as the configuration's output format, so a value read from .thesismd.yml
// needs no conversion.
type Format = config.OutputFormat

// Output formats. Summary prints aggregated tables for lint and only the
// closing totals line for xref.
const (
	FormatText    = config.FormatText
	FormatJSON    = config.FormatJSON
	FormatSummary = config.FormatSummary
)

// formats lists the accepted --format values in the order help shows them.
//
//nolint:gochecknoglobals // Read-only lookup table.
var formats = []Format{FormatText, FormatJSON, FormatSummary}

// ParseFormat maps a --format value to a Format. An empty value means text.
func ParseFormat(value string) (Format, error) {
	if value == "" {
		return FormatText, nil
	}
	if format := Format(value); slices.Contains(formats, format) {
		return format, nil
	}

	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", value, strings.Join(names, ", "))
}
