package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// fullWidthClass groups full-width look-alikes reported together.
type fullWidthClass struct {
	runes   string
	message string
}

//nolint:gochecknoglobals // Read-only table.
var fullWidthClasses = []fullWidthClass{
	{runes: "；", message: "full-width semicolon '；' used, use ';'"},
	{runes: "（）", message: "full-width parenthesis used, use '()'"},
}

// InvalidCharacterRule reports non-ASCII characters and full-width punctuation.
type InvalidCharacterRule struct {
	lint.BaseRule
}

// NewInvalidCharacterRule creates the C005 rule.
func NewInvalidCharacterRule() *InvalidCharacterRule {
	return &InvalidCharacterRule{
		BaseRule: lint.NewBaseRule(
			"C005",
			"invalid-character",
			"Source should be ASCII; full-width punctuation is an error",
			[]string{"characters", "syntax"},
			true,
		),
	}
}

// Apply reports, per line, the first non-ASCII character as a warning and
// the first full-width semicolon or parenthesis as an error. Fixes only
// touch punctuation in live code, never inside comments or literals.
//
// Options:
//   - code_only: ignore non-ASCII characters in comments and literals (default false).
func (r *InvalidCharacterRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	codeOnly := ctx.OptionBool("code_only", false)

	var diags []lint.Diagnostic

	for n := 1; n <= ctx.File.LineCount(); n++ {
		if ctx.Cancelled() {
			return diags, ctx.Ctx.Err()
		}

		raw := ctx.File.LineContent(n)
		bare := ctx.File.BareLine(n)

		scan := raw
		if codeOnly {
			scan = bare
		}
		if idx := strings.IndexFunc(scan, func(c rune) bool { return c >= utf8.RuneSelf }); idx >= 0 {
			ch, size := utf8.DecodeRuneInString(raw[idx:])
			message := fmt.Sprintf("may contain invalid character: %c", ch)
			if ch == utf8.RuneError && size == 1 {
				message = fmt.Sprintf("invalid UTF-8 byte 0x%02X", raw[idx])
			}
			diags = append(diags, ctx.Diagnostic(r.ID(), csource.PointSpan(n, csource.Column(raw, idx)), message).
				WithKind(lint.KindInvalidCharacter).
				WithSeverity(config.SeverityWarning).
				Build())
		}

		for _, class := range fullWidthClasses {
			if d, ok := r.fullWidth(ctx, n, raw, bare, class); ok {
				diags = append(diags, d)
			}
		}
	}

	return diags, nil
}

func (r *InvalidCharacterRule) fullWidth(
	ctx *lint.RuleContext,
	n int,
	raw, bare string,
	class fullWidthClass,
) (lint.Diagnostic, bool) {
	first := strings.IndexAny(raw, class.runes)
	if first < 0 {
		return lint.Diagnostic{}, false
	}

	lineStart := ctx.File.Lines[n-1].StartOffset
	edits := fix.NewEditBuilder()

	for idx, ch := range raw {
		if !strings.ContainsRune(class.runes, ch) || bare[idx] == ' ' {
			continue
		}
		size := utf8.RuneLen(ch)
		edits.ReplaceRange(lineStart+idx, lineStart+idx+size, width.Narrow.String(string(ch)))
	}

	b := ctx.Diagnostic(r.ID(), csource.PointSpan(n, csource.Column(raw, first)), class.message).
		WithKind(lint.KindFullWidth).
		WithSeverity(config.SeverityError).
		WithSuggestion("Replace with the ASCII character")
	if edits.Len() > 0 {
		b.WithFix(edits)
	}

	return b.Build(), true
}
