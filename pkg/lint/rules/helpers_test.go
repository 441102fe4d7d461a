package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// applyRule runs rule over src with optional rule options.
func applyRule(t *testing.T, rule lint.Rule, src string, opts map[string]any) []lint.Diagnostic {
	t.Helper()

	var ruleCfg *config.RuleConfig
	if opts != nil {
		ruleCfg = &config.RuleConfig{Options: opts}
	}

	ctx := lint.NewRuleContext(context.Background(), csource.NewSnapshot("test.c", []byte(src)), config.NewConfig(), ruleCfg)
	diags, err := rule.Apply(ctx)
	require.NoError(t, err)
	return diags
}

// applyFixes applies every fix edit in diags to src.
func applyFixes(t *testing.T, src string, diags []lint.Diagnostic) string {
	t.Helper()

	var edits []fix.TextEdit
	for _, d := range diags {
		edits = append(edits, d.FixEdits...)
	}

	accepted, _, err := fix.Prepare(edits, len(src))
	require.NoError(t, err)
	return string(fix.ApplyEdits([]byte(src), accepted))
}

func kinds(diags []lint.Diagnostic) []lint.Kind {
	out := make([]lint.Kind, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}
