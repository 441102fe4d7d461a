package configloader

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

// Boolean keys whose false value must override a lower layer.
const (
	keyMarkdown       = "markdown"
	keyBackupsEnabled = "backups.enabled"
	keyCacheEnabled   = "cache.enabled"
)

// knownSections lists the keys accepted at each level of a config file.
// Rule entries are validated separately against the registry.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownSections = map[string][]string{
	"":        {"severity_default", "rules", "ignore", "backups", "formatter", "markdown", "cache"},
	"backups": {"enabled", "mode"},
	"cache":   {"enabled", "dir"},
	"formatter": {
		"tab_size", "insert_spaces", "max_line_length", "bracket_style",
		"indent_case_labels", "space_after_keywords", "space_before_function_parens",
	},
}

// fileConfig is one parsed configuration file.
type fileConfig struct {
	path   string
	config *config.Config

	// defined holds the explicit boolean keys present in the file.
	defined map[string]bool

	// unknown lists keys that map to no configuration field.
	unknown []string
}

// loadConfigFile reads a YAML or TOML configuration file.
func loadConfigFile(path string) (*fileConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if IsTOMLConfig(path) {
		return parseTOML(path, content)
	}
	return parseYAML(path, content)
}

func parseYAML(path string, content []byte) (*fileConfig, error) {
	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	fc := &fileConfig{path: path, config: cfg, defined: make(map[string]bool)}
	if _, ok := raw["markdown"]; ok {
		fc.defined[keyMarkdown] = true
	}
	if section, ok := raw["backups"].(map[string]any); ok {
		if _, ok := section["enabled"]; ok {
			fc.defined[keyBackupsEnabled] = true
		}
	}
	if section, ok := raw["cache"].(map[string]any); ok {
		if _, ok := section["enabled"]; ok {
			fc.defined[keyCacheEnabled] = true
		}
	}

	fc.unknown = unknownKeys(raw)
	return fc, nil
}

func parseTOML(path string, content []byte) (*fileConfig, error) {
	cfg := &config.Config{}
	meta, err := toml.Decode(string(content), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]config.RuleConfig)
	}

	fc := &fileConfig{path: path, config: cfg, defined: make(map[string]bool)}
	if meta.IsDefined("markdown") {
		fc.defined[keyMarkdown] = true
	}
	if meta.IsDefined("backups", "enabled") {
		fc.defined[keyBackupsEnabled] = true
	}
	if meta.IsDefined("cache", "enabled") {
		fc.defined[keyCacheEnabled] = true
	}

	for _, key := range meta.Undecoded() {
		fc.unknown = append(fc.unknown, key.String())
	}
	sort.Strings(fc.unknown)

	return fc, nil
}

// unknownKeys reports top-level and section keys absent from knownSections.
func unknownKeys(raw map[string]any) []string {
	var unknown []string
	for key, value := range raw {
		if !slices.Contains(knownSections[""], key) {
			unknown = append(unknown, key)
			continue
		}
		allowed, isSection := knownSections[key]
		section, isMap := value.(map[string]any)
		if !isSection || !isMap {
			continue
		}
		for sub := range section {
			if !slices.Contains(allowed, sub) {
				unknown = append(unknown, key+"."+sub)
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}

// applyDefined copies explicit boolean values from a file over dst.
func (fc *fileConfig) applyDefined(dst *config.Config) {
	if fc.defined[keyMarkdown] {
		dst.Markdown = fc.config.Markdown
	}
	if fc.defined[keyBackupsEnabled] {
		dst.Backups.Enabled = fc.config.Backups.Enabled
	}
	if fc.defined[keyCacheEnabled] {
		dst.Cache.Enabled = fc.config.Cache.Enabled
	}
}
