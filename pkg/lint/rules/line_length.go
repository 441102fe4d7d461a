package rules

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// LineLengthRule reports lines wider than the formatter's max line length.
// Width is display width, so CJK characters count double and tabs expand
// to the formatter tab size.
type LineLengthRule struct {
	lint.BaseRule
}

// NewLineLengthRule creates the C007 rule.
func NewLineLengthRule() *LineLengthRule {
	return &LineLengthRule{
		BaseRule: lint.NewBaseRule(
			"C007",
			"line-length",
			"Lines should not be wider than formatter.max_line_length",
			[]string{"style", "line_length"},
			false,
		),
	}
}

// DefaultEnabled returns false; max_line_length is advisory.
func (r *LineLengthRule) DefaultEnabled() bool {
	return false
}

// DefaultSeverity returns info.
func (r *LineLengthRule) DefaultSeverity() config.Severity {
	return config.SeverityInfo
}

// Apply measures each line.
//
// Options:
//   - max: overrides formatter.max_line_length. Zero disables the check.
func (r *LineLengthRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	opts := ctx.Config.FormatterOptions()
	limit := ctx.OptionInt("max", opts.MaxLineLength)
	if limit <= 0 {
		return nil, nil
	}
	tabWidth := max(opts.TabSize, 1)

	var diags []lint.Diagnostic

	for n := 1; n <= ctx.File.LineCount(); n++ {
		raw := ctx.File.LineContent(n)
		if len(raw) <= limit && !strings.Contains(raw, "\t") {
			continue
		}

		total := 0
		startCol := 0
		for col, ch := range []rune(raw) {
			if ch == '\t' {
				total += tabWidth
			} else {
				total += runewidth.RuneWidth(ch)
			}
			if total > limit && startCol == 0 {
				startCol = col + 1
			}
		}
		if total <= limit {
			continue
		}

		diags = append(diags, ctx.Diagnostic(r.ID(),
			csource.LineSpan(n, startCol, len([]rune(raw))+1),
			fmt.Sprintf("line width %d exceeds maximum %d", total, limit)).
			WithKind(lint.KindLineTooLong).
			WithSuggestion(fmt.Sprintf("Shorten the line to at most %d columns", limit)).
			Build())
	}

	return diags, nil
}
