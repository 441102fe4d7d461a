package rules

import (
	"fmt"

	"github.com/yaklabco/cfmtlint/pkg/bracket"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// BracketMatchRule reports unbalanced braces, parentheses and brackets.
// Brackets inside comments, strings and character literals are ignored.
type BracketMatchRule struct {
	lint.BaseRule
}

// NewBracketMatchRule creates the C001 rule.
func NewBracketMatchRule() *BracketMatchRule {
	return &BracketMatchRule{
		BaseRule: lint.NewBaseRule(
			"C001",
			"bracket-match",
			"Braces, parentheses and square brackets must be balanced",
			[]string{"brackets", "syntax"},
			false,
		),
	}
}

// DefaultSeverity returns error.
func (r *BracketMatchRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Apply runs the bracket validator over the whole buffer.
func (r *BracketMatchRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || len(ctx.File.Content) == 0 {
		return nil, nil
	}

	issues := bracket.Validate(ctx.File.Text())
	diags := make([]lint.Diagnostic, 0, len(issues))

	for _, issue := range issues {
		b := ctx.Diagnostic(r.ID(), csource.PointSpan(issue.Line, issue.Column), issue.Message()).
			WithKind(bracketKind(issue.Kind))

		switch issue.Kind {
		case bracket.Unclosed:
			b.WithSuggestion(fmt.Sprintf("Add a matching '%c'", issue.Expected))
		case bracket.Mismatched:
			b.WithSuggestion(fmt.Sprintf("Replace '%c' with '%c'", issue.Found, issue.Expected))
		case bracket.Unmatched:
			b.WithSuggestion(fmt.Sprintf("Remove '%c' or add its opening bracket", issue.Found))
		}

		diags = append(diags, b.Build())
	}

	return diags, nil
}

func bracketKind(k bracket.Kind) lint.Kind {
	switch k {
	case bracket.Mismatched:
		return lint.KindMismatchedBracket
	case bracket.Unclosed:
		return lint.KindUnclosedBracket
	default:
		return lint.KindUnmatchedBracket
	}
}
