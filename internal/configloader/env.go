package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

// envVarPrefix is the prefix for all cfmtlint environment variables.
const envVarPrefix = "CFMTLINT_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"SEVERITY_DEFAULT": {"severity_default", envTypeString, "Default severity: error, warning, or info"},
	"FIX":              {"fix", envTypeBool, "Enable auto-fix: true or false"},
	"REFORMAT":         {"reformat", envTypeBool, "Reindent after fixing: true or false"},
	"DRY_RUN":          {"dry_run", envTypeBool, "Dry-run mode: true or false"},
	"JOBS":             {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"FORMAT":           {"format", envTypeString, "Output format: text, json, sarif, diff, or msgpack"},
	"RULE_FORMAT":      {"rule_format", envTypeString, "Rule label style: name, id, or combined"},
	"BACKUPS_ENABLED":  {"backups.enabled", envTypeBool, "Enable backups when fixing: true or false"},
	"BACKUPS_MODE":     {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"NO_BACKUPS":       {"no_backups", envTypeBool, "Disable backups: true or false"},
	"IGNORE":           {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"MARKDOWN":         {"markdown", envTypeBool, "Lint C blocks in Markdown files: true or false"},
	"CACHE":            {"cache.enabled", envTypeBool, "Enable the result cache: true or false"},
	"CACHE_DIR":        {"cache.dir", envTypeString, "Result cache directory"},
	"TAB_SIZE":         {"formatter.tab_size", envTypeInt, "Spaces per indent level"},
	"INSERT_SPACES":    {"formatter.insert_spaces", envTypeBool, "Indent with spaces: true or false"},
	"MAX_LINE_LENGTH":  {"formatter.max_line_length", envTypeInt, "Advisory maximum line length"},
	"BRACKET_STYLE":    {"formatter.bracket_style", envTypeString, "Brace style: allman, k&r, or gnu"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with CFMTLINT_ (e.g., CFMTLINT_JOBS).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range sortedEnvSuffixes() {
		envVar := envVarPrefix + suffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[suffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func sortedEnvSuffixes() []string {
	suffixes := make([]string, 0, len(envMappings))
	for suffix := range envMappings {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

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
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "severity_default":
		cfg.SeverityDefault = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "rule_format":
		cfg.RuleFormat = config.RuleFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	case "cache.dir":
		cfg.Cache.Dir = value
	case "formatter.bracket_style":
		cfg.Formatter.BracketStyle = &value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "fix":
		cfg.Fix = value
	case "reformat":
		cfg.Reformat = value
	case "dry_run":
		cfg.DryRun = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "markdown":
		cfg.Markdown = value
	case "cache.enabled":
		cfg.Cache.Enabled = value
	case "formatter.insert_spaces":
		cfg.Formatter.InsertSpaces = &value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "formatter.tab_size":
		cfg.Formatter.TabSize = &value
	case "formatter.max_line_length":
		cfg.Formatter.MaxLineLength = &value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

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

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
