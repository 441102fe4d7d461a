// Package config defines the configuration types for cfmtlint.
// These are plain data structures; loading and merging live in internal/configloader.
package config

import "github.com/yaklabco/cfmtlint/pkg/format"

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// Rank orders severities from least (info) to most (error) important.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `toml:"enabled,omitempty"  yaml:"enabled,omitempty"`
	Severity *string        `toml:"severity,omitempty" yaml:"severity,omitempty"`
	AutoFix  *bool          `toml:"auto_fix,omitempty" yaml:"auto_fix,omitempty"`
	Options  map[string]any `toml:"options,omitempty"  yaml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Mode    string `toml:"mode"    yaml:"mode"` // "sidecar"
}

// CacheConfig controls the on-disk lint result cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`

	// Dir overrides the cache directory. Empty means the user cache dir.
	Dir string `toml:"dir,omitempty" yaml:"dir,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatMsgpack OutputFormat = "msgpack"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "missing-semicolon"
	RuleFormatID       RuleFormat = "id"       // "C004"
	RuleFormatCombined RuleFormat = "combined" // "C004/missing-semicolon"
)

// Config is the root configuration structure.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `toml:"severity_default,omitempty" yaml:"severity_default,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `toml:"rules,omitempty" yaml:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `toml:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `toml:"backups" yaml:"backups"`

	// Formatter holds reindent option overrides.
	Formatter format.Partial `toml:"formatter,omitempty" yaml:"formatter,omitempty"`

	// Markdown enables linting of C code blocks inside Markdown files.
	Markdown bool `toml:"markdown" yaml:"markdown"`

	// Cache configures the lint result cache.
	Cache CacheConfig `toml:"cache" yaml:"cache"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `toml:"-" yaml:"-"`

	// Reformat runs the reindent engine after fixes are applied.
	Reformat bool `toml:"-" yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `toml:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `toml:"-" yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `toml:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `toml:"-" yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `toml:"-" yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `toml:"-" yaml:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `toml:"-" yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `toml:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Ignore:          nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// FormatterOptions returns the default formatter options with the configured overrides applied.
func (c *Config) FormatterOptions() format.Options {
	if c == nil {
		return format.DefaultOptions()
	}
	return format.DefaultOptions().Merge(&c.Formatter)
}
