package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var mainSignature = regexp.MustCompile(`int\s+main\s*\([^)]*\)\s*\{`)

// defaultEntryPointMinLength keeps short snippets from being flagged.
const defaultEntryPointMinLength = 50

// MissingEntryPointRule suggests defining main in larger buffers.
type MissingEntryPointRule struct {
	lint.BaseRule
}

// NewMissingEntryPointRule creates the C003 rule.
func NewMissingEntryPointRule() *MissingEntryPointRule {
	return &MissingEntryPointRule{
		BaseRule: lint.NewBaseRule(
			"C003",
			"missing-entry-point",
			"Programs longer than a short snippet should define int main()",
			[]string{"structure"},
			false,
		),
	}
}

// DefaultSeverity returns info.
func (r *MissingEntryPointRule) DefaultSeverity() config.Severity {
	return config.SeverityInfo
}

// Apply looks for a main definition with comments stripped.
//
// Options:
//   - min_length: trimmed character count below which the rule stays quiet (default 50).
func (r *MissingEntryPointRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	minLength := ctx.OptionInt("min_length", defaultEntryPointMinLength)
	if utf8.RuneCountInString(strings.TrimSpace(ctx.File.Text())) <= minLength {
		return nil, nil
	}

	if mainSignature.MatchString(ctx.File.Code) {
		return nil, nil
	}

	return []lint.Diagnostic{
		ctx.Diagnostic(r.ID(), csource.PointSpan(1, 1),
			"consider defining int main() as the program entry point").
			WithKind(lint.KindMissingEntryPoint).
			Build(),
	}, nil
}
