package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/thesismd/pkg/config"
)

// envVarPrefix is the prefix for all thesismd environment variables.
const envVarPrefix = "THESISMD_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SEVERITY_DEFAULT":   {"severity_default", envTypeString, "Default severity: error, warning, or info"},
	"FORMAT":             {"format", envTypeString, "Output format: text, json or summary"},
	"BACKUPS_ENABLED":    {"backups.enabled", envTypeBool, "Back up documents rewritten in place: true or false"},
	"BACKUPS_MODE":       {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"IGNORE":             {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"NO_BACKUPS":         {"no_backups", envTypeBool, "Disable backups: true or false"},
	"STRICT":             {"strict", envTypeBool, "Treat lint warnings as failures: true or false"},
	"XREF_ID_PREFIX":     {"xref.id_prefix", envTypeString, "Prefix for generated cross-reference names"},
	"XREF_FALLBACK_NAME": {"xref.fallback_name", envTypeString, "Name used when a label has no usable characters"},
	"XREF_TOKEN_FIGURE":  {"xref.tokens.figure", envTypeString, "Identifier token for figures"},
	"XREF_TOKEN_TABLE":   {"xref.tokens.table", envTypeString, "Identifier token for tables"},
	"XREF_TOKEN_LISTING": {"xref.tokens.listing", envTypeString, "Identifier token for listings"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with THESISMD_ (e.g., THESISMD_FORMAT).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

// loadFromLookup applies overrides read through lookup. Empty values are
// treated as unset.
func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value, ok := lookup(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "severity_default":
		cfg.SeverityDefault = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	case "xref.id_prefix":
		cfg.Xref.IDPrefix = value
	case "xref.fallback_name":
		cfg.Xref.FallbackName = value
	case "xref.tokens.figure":
		cfg.Xref.Tokens.Figure = value
	case "xref.tokens.table":
		cfg.Xref.Tokens.Table = value
	case "xref.tokens.listing":
		cfg.Xref.Tokens.Listing = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "strict":
		cfg.Strict = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
