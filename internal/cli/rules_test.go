package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint/rules"
)

func TestRulesCommand_RuleFormatFlag(t *testing.T) {
	cmd := newRulesCommand()
	flag := cmd.Flags().Lookup("rule-format")
	assert.NotNil(t, flag)
}

func TestAliasesOf(t *testing.T) {
	t.Parallel()

	registry := rules.NewRegistry()

	rule, ok := registry.Get("C004")
	require.True(t, ok)
	assert.Equal(t, []string{"semicolons"}, aliasesOf(registry, rule))

	rule, ok = registry.Get("bracket-match")
	require.True(t, ok)
	assert.Equal(t, []string{"brackets"}, aliasesOf(registry, rule))
}

func TestOutputRulesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, outputRulesText(&buf, rules.NewRegistry(), config.RuleFormatID, "never"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "C001"))
	assert.Contains(t, buf.String(), "fixable")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConfirmOverwrite_NonTerminal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	ok, err := confirmOverwrite(strings.NewReader("y\n"), &out, "x.yml")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out.String(), "no prompt without a terminal")
}
