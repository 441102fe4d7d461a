package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as one line, for example
// "3 issues (2 errors, 1 warning) in 2 files, 2 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files")))
		if stats.DiagnosticsFixed > 0 {
			msg += ", " + s.fixedPart(stats)
		}
		return msg + "\n"
	}

	parts := []string{s.countPart(stats)}
	parts = append(parts, fmt.Sprintf("in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files")))

	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}
	if stats.DiagnosticsFixed > 0 {
		parts = append(parts, s.fixedPart(stats))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) countPart(stats runner.Stats) string {
	var bySeverity []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		bySeverity = append(bySeverity, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		bySeverity = append(bySeverity, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		bySeverity = append(bySeverity, s.Info.Render(fmt.Sprintf("%d info", n)))
	}

	count := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(bySeverity) == 0 {
		return count
	}
	return count + " (" + strings.Join(bySeverity, ", ") + ")"
}

func (s *Styles) fixedPart(stats runner.Stats) string {
	return s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
		stats.DiagnosticsFixed, stats.FilesModified, plural(stats.FilesModified, "file", "files")))
}

// FormatSummary formats run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	row := func(label string, style func(...string) string, value int) {
		fmt.Fprintf(&b, "  %-19s%s\n", label, style(strconv.Itoa(value)))
	}

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked:", s.SummaryValue.Render, stats.FilesProcessed)
	if stats.FilesWithIssues > 0 {
		row("Files with issues:", s.Failure.Render, stats.FilesWithIssues)
	}
	if stats.FilesModified > 0 {
		row("Files modified:", s.Success.Render, stats.FilesModified)
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped:", s.Dim.Render, stats.FilesSkipped)
	}
	if stats.SnippetsLinted > 0 {
		row("Markdown snippets:", s.SummaryValue.Render, stats.SnippetsLinted)
	}
	if stats.CacheHits > 0 {
		row("Cache hits:", s.Dim.Render, stats.CacheHits)
	}

	b.WriteString("\n")
	row("Total issues:", s.SummaryValue.Render, stats.DiagnosticsTotal)

	errs := stats.DiagnosticsBySeverity[config.SeverityError]
	warns := stats.DiagnosticsBySeverity[config.SeverityWarning]
	if errs > 0 {
		row("  Errors:", s.Error.Render, errs)
	}
	if warns > 0 {
		row("  Warnings:", s.Warning.Render, warns)
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		row("  Info:", s.Info.Render, n)
	}

	b.WriteString("\n")
	switch {
	case errs > 0:
		b.WriteString(s.Failure.Render("Lint failed with errors"))
	case warns > 0:
		b.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		b.WriteString(s.Success.Render("Lint passed"))
	}
	b.WriteString("\n")

	return b.String()
}
