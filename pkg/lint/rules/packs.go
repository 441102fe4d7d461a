package rules

import "github.com/yaklabco/cfmtlint/pkg/config"

// Pack is a named set of rule settings that seeds a .cfmtlint.yml.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "core", "strict").
	Name string

	// Description explains the purpose of the pack.
	Description string

	// Rules contains rule configurations keyed by rule ID.
	Rules map[string]config.RuleConfig
}

// CorePack mirrors the built-in defaults.
func CorePack() Pack {
	return Pack{
		Name:        "core",
		Description: "Default checks: brackets, headers, semicolons, characters, includes",
		Rules: map[string]config.RuleConfig{
			"C001": enabled("error"),   // bracket-match
			"C002": enabled("warning"), // missing-header
			"C003": enabled("info"),    // missing-entry-point
			"C004": enabled("error"),   // missing-semicolon
			"C005": enabled("warning"), // invalid-character
			"C006": enabled("error"),   // include-syntax
		},
	}
}

// StrictPack turns every check on and raises the heuristics to errors.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Every rule as an error, including line length",
		Rules: map[string]config.RuleConfig{
			"C001": enabled("error"),
			"C002": enabled("error"),
			"C003": enabled("error"),
			"C004": enabled("error"),
			"C005": enabled("error"),
			"C006": enabled("error"),
			"C007": enabled("warning"),
		},
	}
}

// RelaxedPack keeps only checks without false positives.
func RelaxedPack() Pack {
	return Pack{
		Name:        "relaxed",
		Description: "Structural checks only: brackets and include syntax",
		Rules: map[string]config.RuleConfig{
			"C001": enabled("error"),
			"C002": disabled(),
			"C003": disabled(),
			"C004": disabled(),
			"C005": disabled(),
			"C006": enabled("error"),
		},
	}
}

// SnippetPack suits short examples, such as code blocks in documentation.
func SnippetPack() Pack {
	return Pack{
		Name:        "snippet",
		Description: "For fragments: no entry point or header suggestions",
		Rules: map[string]config.RuleConfig{
			"C001": enabled("error"),
			"C002": disabled(),
			"C003": disabled(),
			"C004": enabled("warning"),
			"C005": enabled("warning"),
			"C006": enabled("error"),
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		CorePack(),
		StrictPack(),
		RelaxedPack(),
		SnippetPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

func enabled(sev string) config.RuleConfig {
	on := true
	return config.RuleConfig{Enabled: &on, Severity: &sev}
}

func disabled() config.RuleConfig {
	off := false
	return config.RuleConfig{Enabled: &off}
}
