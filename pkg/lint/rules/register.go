package rules

import (
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	registry.Register(NewBracketMatchRule())      // C001
	registry.Register(NewMissingHeaderRule())     // C002
	registry.Register(NewMissingEntryPointRule()) // C003
	registry.Register(NewMissingSemicolonRule())  // C004
	registry.Register(NewInvalidCharacterRule())  // C005
	registry.Register(NewIncludeSyntaxRule())     // C006
	registry.Register(NewLineLengthRule())        // C007
}

// RegisterAliases registers short names accepted in configuration and
// on the command line in addition to each rule's canonical name.
func RegisterAliases(registry *lint.Registry) {
	registry.RegisterAlias("brackets", "C001")
	registry.RegisterAlias("headers", "C002")
	registry.RegisterAlias("main", "C003")
	registry.RegisterAlias("semicolons", "C004")
	registry.RegisterAlias("charset", "C005")
	registry.RegisterAlias("includes", "C006")
	registry.RegisterAlias("max-line-length", "C007")
}

// NewRegistry returns a registry holding the built-in rules and aliases.
func NewRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	RegisterAll(registry)
	RegisterAliases(registry)
	return registry
}

// RuleInfos describes the rules in registry for config templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          r.ID(),
			Name:        r.Name(),
			Description: r.Description(),
			Enabled:     r.DefaultEnabled(),
			Severity:    r.DefaultSeverity(),
			Tags:        r.Tags(),
			CanFix:      r.CanFix(),
		})
	}
	return infos
}

//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterAliases(lint.DefaultRegistry)

	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
