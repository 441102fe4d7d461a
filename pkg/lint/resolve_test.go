package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

type offByDefaultRule struct {
	lint.BaseRule
}

func (r *offByDefaultRule) DefaultEnabled() bool { return false }

func testRegistry() *lint.Registry {
	reg := lint.NewRegistry()
	reg.Register(&staticRule{BaseRule: lint.NewBaseRule("T001", "always-on", "", nil, true)})
	reg.Register(&offByDefaultRule{BaseRule: lint.NewBaseRule("T002", "opt-in", "", nil, false)})
	reg.RegisterAlias("on", "T001")
	return reg
}

func ids(resolved []lint.ResolvedRule) []string {
	out := make([]string, 0, len(resolved))
	for _, rr := range resolved {
		out = append(out, rr.Rule.ID())
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestResolveRules_Defaults(t *testing.T) {
	t.Parallel()

	resolved := lint.ResolveRules(testRegistry(), nil)
	require.Len(t, resolved, 1)
	assert.Equal(t, "T001", resolved[0].Rule.ID())
	assert.Equal(t, config.SeverityWarning, resolved[0].Severity)
	assert.False(t, resolved[0].SeverityOverride)
	assert.True(t, resolved[0].AutoFix, "nil config leaves fixable rules fixable")
}

func TestResolveRules_Config(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules["T001"] = config.RuleConfig{Severity: ptr("error")}
	cfg.Rules["T002"] = config.RuleConfig{Enabled: ptr(true)}

	resolved := lint.ResolveRules(testRegistry(), cfg)
	assert.Equal(t, []string{"T001", "T002"}, ids(resolved))
	assert.Equal(t, config.SeverityError, resolved[0].Severity)
	assert.True(t, resolved[0].SeverityOverride)
	assert.False(t, resolved[0].AutoFix, "fix is off unless requested")
	assert.NotNil(t, resolved[1].Config)
}

func TestResolveRules_CommandLineWins(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules["T002"] = config.RuleConfig{Enabled: ptr(false)}
	cfg.EnableRules = []string{"opt-in"}
	cfg.DisableRules = []string{"on"}

	assert.Equal(t, []string{"T002"}, ids(lint.ResolveRules(testRegistry(), cfg)))
}

func TestResolveRules_AutoFix(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Fix = true
	resolved := lint.ResolveRules(testRegistry(), cfg)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].AutoFix)

	cfg.FixRules = []string{"T002"}
	resolved = lint.ResolveRules(testRegistry(), cfg)
	assert.False(t, resolved[0].AutoFix, "fix list excludes T001")

	cfg.FixRules = []string{"always-on"}
	resolved = lint.ResolveRules(testRegistry(), cfg)
	assert.True(t, resolved[0].AutoFix)

	cfg.FixRules = nil
	cfg.Rules["T001"] = config.RuleConfig{AutoFix: ptr(false)}
	resolved = lint.ResolveRules(testRegistry(), cfg)
	assert.False(t, resolved[0].AutoFix)
}
