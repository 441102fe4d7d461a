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
var (
	includeDirective = regexp.MustCompile(`^#\s*include\b`)
	includeValid     = regexp.MustCompile(`^#\s*include\s*(?:<[^<>"]+>|"[^<>"]+")$`)
)

// IncludeSyntaxRule checks the form of #include directives.
type IncludeSyntaxRule struct {
	lint.BaseRule
}

// NewIncludeSyntaxRule creates the C006 rule.
func NewIncludeSyntaxRule() *IncludeSyntaxRule {
	return &IncludeSyntaxRule{
		BaseRule: lint.NewBaseRule(
			"C006",
			"include-syntax",
			`#include must name a file as <name> or "name"`,
			[]string{"preprocessor", "syntax"},
			false,
		),
	}
}

// DefaultSeverity returns error.
func (r *IncludeSyntaxRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Apply reports malformed directives across the whole line.
func (r *IncludeSyntaxRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for n := 1; n <= ctx.File.LineCount(); n++ {
		if ctx.File.StateAt(n).InBlockComment {
			continue
		}

		code := strings.TrimSpace(ctx.File.CodeLine(n))
		if !includeDirective.MatchString(code) || includeValid.MatchString(code) {
			continue
		}

		raw := ctx.File.LineContent(n)
		diags = append(diags, ctx.Diagnostic(r.ID(),
			csource.LineSpan(n, 1, utf8.RuneCountInString(raw)+1),
			`invalid include syntax, use #include <filename.h> or #include "filename.h"`).
			WithKind(lint.KindInvalidInclude).
			Build())
	}

	return diags, nil
}
