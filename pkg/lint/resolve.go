package lint

import (
	"slices"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	Rule    Rule
	Enabled bool

	// Severity applies to diagnostics that do not carry their own.
	Severity config.Severity

	// SeverityOverride is true when configuration set the severity. It then
	// replaces whatever the rule put on each diagnostic.
	SeverityOverride bool

	// AutoFix indicates whether fix edits from this rule are applied.
	AutoFix bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules returns the enabled rules with their resolved configuration.
// Rule references in cfg may be IDs, names or aliases.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		if rr := resolveRule(registry, rule, cfg); rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

func resolveRule(registry *Registry, rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}

	if cfg == nil {
		return rr
	}

	if !rr.Severity.IsValid() && cfg.SeverityDefault != "" {
		rr.Severity = config.Severity(cfg.SeverityDefault)
	}

	refers := func(keys []string) bool {
		return slices.ContainsFunc(keys, func(key string) bool {
			id, _, ok := registry.Resolve(key)
			return ok && id == rule.ID()
		})
	}

	if ruleCfg, ok := cfg.Rules[rule.ID()]; ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
			rr.SeverityOverride = true
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	// Command-line selections win over configuration files.
	if refers(cfg.EnableRules) {
		rr.Enabled = true
	}
	if refers(cfg.DisableRules) {
		rr.Enabled = false
	}

	if len(cfg.FixRules) > 0 {
		rr.AutoFix = rule.CanFix() && refers(cfg.FixRules)
	}

	if !cfg.Fix {
		rr.AutoFix = false
	}

	return rr
}
