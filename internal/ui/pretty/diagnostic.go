package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic formats a diagnostic showing the rule ID.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	return s.FormatDiagnosticWithFormat(diag, showContext, sourceLine, config.RuleFormatID)
}

// FormatDiagnosticWithFormat formats a diagnostic as
// "path:line:col  severity  message  (rule)" followed by optional context.
func (s *Styles) FormatDiagnosticWithFormat(
	diag *lint.Diagnostic,
	showContext bool,
	sourceLine string,
	ruleFormat config.RuleFormat,
) string {
	var b strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	rule := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)

	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+rule+")"))

	if showContext && sourceLine != "" {
		span := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn > diag.StartColumn {
			span = diag.EndColumn - diag.StartColumn
		}
		b.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, span))
	}

	if diag.Suggestion != "" {
		b.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return b.String()
}

// FormatSeverity returns a styled severity label.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// TabWidth is the tab stop used when printing source context.
const TabWidth = 4

// FormatSourceContext prints line with a marker under the span starting at
// the 1-based rune column. The marker is placed by display width, so wide
// runes such as '；' count as two cells and tabs advance to the next stop.
func (s *Styles) FormatSourceContext(line string, column, span int) string {
	var b strings.Builder

	b.WriteString(contextIndent + s.SourceLine.Render(ExpandTabs(line)) + "\n")
	if column <= 0 {
		return b.String()
	}

	runes := []rune(line)
	start := min(column-1, len(runes))
	end := min(start+max(span, 1), len(runes))

	startCell := DisplayWidth(runes[:start])
	width := max(DisplayWidth(runes[:end])-startCell, 1)

	b.WriteString(contextIndent + strings.Repeat(" ", startCell) +
		s.Caret.Render("^"+strings.Repeat("~", width-1)) + "\n")

	return b.String()
}

// DisplayWidth returns the number of terminal cells runes occupy when
// printed from the start of a line.
func DisplayWidth(runes []rune) int {
	cells := 0
	for _, r := range runes {
		if r == '\t' {
			cells += TabWidth - cells%TabWidth
			continue
		}
		cells += runewidth.RuneWidth(r)
	}
	return cells
}

// ExpandTabs replaces tabs with spaces up to the next tab stop.
func ExpandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}

	var b strings.Builder
	cells := 0
	for _, r := range line {
		if r == '\t' {
			n := TabWidth - cells%TabWidth
			b.WriteString(strings.Repeat(" ", n))
			cells += n
			continue
		}
		b.WriteRune(r)
		cells += runewidth.RuneWidth(r)
	}
	return b.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		noun := "issues"
		if issueCount == 1 {
			noun = "issue"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, noun))
	}
	return header
}
