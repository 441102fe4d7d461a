package rules

import (
	"regexp"
	"strings"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	controlOpener  = regexp.MustCompile(`^(?:if|while|for|switch|else|do)\s*[({]|^(?:else|do)$`)
	functionHeader = regexp.MustCompile(`^\w+\s+\w+\s*\([^)]*\)$`)
	statementLike  = regexp.MustCompile(`^(?:int|char|float|double|long|short|unsigned|return)\b|=|\+\+|--`)
)

// MissingSemicolonRule flags statement-like lines that do not end in ';'.
//
// This is a line-based heuristic. Lines containing a parenthesis are never
// flagged, so an assignment whose right-hand side calls a function is missed.
type MissingSemicolonRule struct {
	lint.BaseRule
}

// NewMissingSemicolonRule creates the C004 rule.
func NewMissingSemicolonRule() *MissingSemicolonRule {
	return &MissingSemicolonRule{
		BaseRule: lint.NewBaseRule(
			"C004",
			"missing-semicolon",
			"Declarations, assignments and return statements should end with a semicolon",
			[]string{"statements", "heuristic"},
			true,
		),
	}
}

// DefaultSeverity returns error.
func (r *MissingSemicolonRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Apply checks each line with comments removed.
func (r *MissingSemicolonRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for n := 1; n <= ctx.File.LineCount(); n++ {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		if ctx.File.StateAt(n).InBlockComment {
			continue
		}

		code := ctx.File.CodeLine(n)
		end := len(strings.TrimRight(code, " \t\r"))
		if !needsSemicolon(strings.TrimSpace(code), ctx.File.BareLine(n)) {
			continue
		}

		raw := ctx.File.LineContent(n)
		col := csource.Column(raw, end) - 1
		offset := ctx.File.Lines[n-1].StartOffset + end

		b := ctx.Diagnostic(r.ID(), csource.PointSpan(n, col), "missing semicolon ';'").
			WithKind(lint.KindMissingSemicolon).
			WithSuggestion("Add ';' at the end of the statement")
		// A trailing full-width semicolon is rewritten by C005 instead.
		if !strings.HasSuffix(code[:end], "；") {
			b.WithFix(fix.NewEditBuilder().Insert(offset, ";"))
		}
		diags = append(diags, b.Build())
	}

	return diags, nil
}

// needsSemicolon decides for one trimmed, comment-free line. bare is the
// same line with literal contents blanked, used for the parenthesis check.
func needsSemicolon(trimmed, bare string) bool {
	switch {
	case trimmed == "",
		strings.HasPrefix(trimmed, "#"),
		strings.ContainsAny(trimmed[len(trimmed)-1:], "{};,\\:"),
		controlOpener.MatchString(trimmed),
		functionHeader.MatchString(trimmed),
		strings.ContainsAny(bare, "()"):
		return false
	}
	return statementLike.MatchString(trimmed)
}
