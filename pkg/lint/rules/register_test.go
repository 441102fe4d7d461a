package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

func TestRegisterAll(t *testing.T) {
	registry := NewRegistry()

	assert.Equal(t, []string{"C001", "C002", "C003", "C004", "C005", "C006", "C007"}, registry.IDs())

	for alias, id := range map[string]string{
		"brackets":          "C001",
		"missing-semicolon": "C004",
		"semicolons":        "C004",
		"max-line-length":   "C007",
	} {
		got, _, ok := registry.Resolve(alias)
		require.True(t, ok, alias)
		assert.Equal(t, id, got, alias)
	}
}

func TestDefaultRegistryAndRuleInfo(t *testing.T) {
	_, ok := lint.DefaultRegistry.GetByID("C001")
	assert.True(t, ok)

	require.NotNil(t, config.DefaultRuleInfoProvider)
	infos := config.DefaultRuleInfoProvider()
	require.Len(t, infos, 7)
	assert.Equal(t, "bracket-match", infos[0].Name)
	assert.Equal(t, config.SeverityError, infos[0].Severity)
	assert.False(t, infos[6].Enabled)
}

func TestPacks(t *testing.T) {
	registry := NewRegistry()

	assert.Equal(t, []string{"core", "strict", "relaxed", "snippet"}, PackNames())
	assert.Nil(t, PackByName("nope"))

	for _, pack := range Packs() {
		for id, rc := range pack.Rules {
			_, ok := registry.GetByID(id)
			assert.True(t, ok, "%s references unknown rule %s", pack.Name, id)
			if rc.Severity != nil {
				assert.True(t, config.Severity(*rc.Severity).IsValid())
			}
		}
	}
}

func TestFullRuleSet(t *testing.T) {
	engine := lint.NewEngine(NewRegistry())

	result, err := engine.LintFile(t.Context(), "demo.c", []byte("int x = 1；\n"), config.NewConfig())
	require.NoError(t, err)

	var got []string
	for _, d := range result.Diagnostics {
		got = append(got, d.RuleID+":"+string(d.Kind)+":"+string(d.Severity))
	}
	assert.Equal(t, []string{
		"C004:missing-semicolon:error",
		"C005:invalid-character:warning",
		"C005:full-width-punctuation:error",
	}, got)
}
