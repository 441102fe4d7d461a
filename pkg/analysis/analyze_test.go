package analysis

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

func outcome(path string, diags ...lint.Diagnostic) runner.FileOutcome {
	return runner.FileOutcome{
		Path: path,
		Result: &lint.PipelineResult{
			FileResult: &lint.FileResult{Diagnostics: diags},
		},
	}
}

func unclosed(line int) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID: "C001", RuleName: "bracket-match", Kind: lint.KindUnclosedBracket,
		Severity: config.SeverityError, StartLine: line, StartColumn: 1,
		Message: "unclosed '{'",
	}
}

func semicolon(line int) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID: "C004", RuleName: "missing-semicolon", Kind: lint.KindMissingSemicolon,
		Severity: config.SeverityWarning, StartLine: line, StartColumn: 10,
		Message:  "missing semicolon",
		FixEdits: []fix.TextEdit{{StartOffset: 9, EndOffset: 9, NewText: ";"}},
	}
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			outcome("/work/src/a.c", unclosed(3), semicolon(5), semicolon(8)),
			outcome("/work/src/b.c", semicolon(2)),
			outcome("/work/src/clean.c"),
			{Path: "/work/src/gone.c", Error: os.ErrNotExist},
		},
	}
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.False(t, report.Totals.HasIssues())
	assert.Empty(t, report.ByRule)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())
	totals := report.Totals

	assert.Equal(t, 4, totals.Files)
	assert.Equal(t, 2, totals.FilesWithIssues)
	assert.Equal(t, 1, totals.FilesErrored)
	assert.Equal(t, 4, totals.Issues)
	assert.Equal(t, 1, totals.Errors)
	assert.Equal(t, 3, totals.Warnings)
	assert.Equal(t, 3, totals.Fixable)
	assert.Empty(t, report.Diagnostics, "diagnostics are opt-in")
}

func TestAnalyze_ByRule(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.WorkingDir = "/work"
	opts.RuleFormat = config.RuleFormatCombined

	report := Analyze(sampleResult(), opts)
	require.Len(t, report.ByRule, 2)

	first := report.ByRule[0]
	assert.Equal(t, "C004", first.RuleID)
	assert.Equal(t, "C004/missing-semicolon", first.Label)
	assert.Equal(t, 3, first.Issues)
	assert.True(t, first.Fixable)
	assert.Equal(t, []string{"src/a.c", "src/b.c"}, first.Files)

	second := report.ByRule[1]
	assert.Equal(t, "C001", second.RuleID)
	assert.False(t, second.Fixable)
}

func TestAnalyze_ByFileAndKind(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.WorkingDir = "/work"

	report := Analyze(sampleResult(), opts)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "src/a.c", report.ByFile[0].Path)
	assert.Equal(t, []string{"C001", "C004"}, report.ByFile[0].Rules)
	assert.Equal(t, 3, report.ByFile[0].Issues)

	require.Len(t, report.ByKind, 2)
	assert.Equal(t, string(lint.KindMissingSemicolon), report.ByKind[0].Kind)
	assert.Equal(t, 2, report.ByKind[0].Files)
	assert.Equal(t, string(lint.KindUnclosedBracket), report.ByKind[1].Kind)
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sortBy SortField
		desc   bool
		want   []string
	}{
		{"count descending", SortByCount, true, []string{"C004", "C001"}},
		{"count ascending", SortByCount, false, []string{"C001", "C004"}},
		{"alpha", SortByAlpha, true, []string{"C001", "C004"}},
		{"severity puts errors first", SortBySeverity, false, []string{"C001", "C004"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.SortBy = tt.sortBy
			opts.SortDesc = tt.desc

			report := Analyze(sampleResult(), opts)
			var got []string
			for _, r := range report.ByRule {
				got = append(got, r.RuleID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyze_IncludeDiagnostics(t *testing.T) {
	t.Parallel()

	opts := Options{IncludeDiagnostics: true, RuleFormat: config.RuleFormatID}
	report := Analyze(sampleResult(), opts)

	require.Len(t, report.Diagnostics, 4)
	assert.Nil(t, report.ByFile)
	assert.Nil(t, report.ByRule)

	entry := report.Diagnostics[0]
	assert.Equal(t, "/work/src/a.c", entry.FilePath)
	assert.Equal(t, "C001", entry.Rule)
	assert.Equal(t, "unclosed-bracket", entry.Kind)
	assert.Equal(t, "error", entry.Severity)
	assert.False(t, entry.Fixable)
	assert.True(t, report.Diagnostics[1].Fixable)
}
