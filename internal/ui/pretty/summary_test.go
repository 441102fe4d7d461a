package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cfmtlint/internal/ui/pretty"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

func TestFormatSummary_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	stats := runner.Stats{
		FilesProcessed:   10,
		FilesWithIssues:  3,
		DiagnosticsTotal: 15,
		DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityError:   5,
			config.SeverityWarning: 10,
		},
		SnippetsLinted: 2,
	}

	result := styles.FormatSummary(stats)

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files checked:     10")
	assert.Contains(t, result, "Files with issues: 3")
	assert.Contains(t, result, "Markdown snippets: 2")
	assert.Contains(t, result, "Total issues:      15")
	assert.Contains(t, result, "  Errors:")
	assert.Contains(t, result, "  Warnings:")
	assert.Contains(t, result, "Lint failed with errors")
	assert.NotContains(t, result, "Cache hits:")
}

func TestFormatSummary_Outcomes(t *testing.T) {
	styles := pretty.NewStyles(false)

	passed := styles.FormatSummary(runner.Stats{
		FilesProcessed:        5,
		DiagnosticsBySeverity: map[config.Severity]int{},
	})
	assert.Contains(t, passed, "Lint passed")
	assert.NotContains(t, passed, "Files with issues:")

	warned := styles.FormatSummary(runner.Stats{
		FilesProcessed:        1,
		FilesWithIssues:       1,
		DiagnosticsTotal:      1,
		DiagnosticsBySeverity: map[config.Severity]int{config.SeverityWarning: 1},
	})
	assert.Contains(t, warned, "Lint completed with warnings")
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "clean",
			stats: runner.Stats{FilesProcessed: 3, DiagnosticsBySeverity: map[config.Severity]int{}},
			want:  "No issues found (3 files checked)\n",
		},
		{
			name: "clean after fixing",
			stats: runner.Stats{
				FilesProcessed:        1,
				FilesModified:         1,
				DiagnosticsFixed:      2,
				DiagnosticsBySeverity: map[config.Severity]int{},
			},
			want: "No issues found (1 file checked), 2 fixed in 1 file\n",
		},
		{
			name: "issues",
			stats: runner.Stats{
				FilesProcessed:     4,
				FilesWithIssues:    2,
				DiagnosticsTotal:   3,
				DiagnosticsFixable: 2,
				DiagnosticsBySeverity: map[config.Severity]int{
					config.SeverityError:   2,
					config.SeverityWarning: 1,
				},
			},
			want: "3 issues (2 errors, 1 warning) in 2 files, 2 fixable\n",
		},
		{
			name: "single info",
			stats: runner.Stats{
				FilesWithIssues:       1,
				DiagnosticsTotal:      1,
				DiagnosticsBySeverity: map[config.Severity]int{config.SeverityInfo: 1},
			},
			want: "1 issue (1 info) in 1 file\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
