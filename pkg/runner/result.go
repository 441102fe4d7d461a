package runner

import (
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/format"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

// FileOutcome is the result for one discovered file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *lint.PipelineResult

	Error error

	// Cached is true when the diagnostics came from the cache.
	Cached bool

	// Blocks is the number of C code blocks linted in a Markdown file.
	Blocks int
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesSkipped counts files changed on disk during fixing and headers
	// that turned out not to be C.
	FilesSkipped int
	FilesErrored int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[config.Severity]int

	FilesWithIssues   int
	FilesModified     int
	FilesReformatted  int
	DiagnosticsFixed  int
	CacheHits         int
	SnippetsLinted    int
	FilesTruncated    int
	FilesSkippedLarge int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats

	// Errors holds failures not tied to a single file.
	Errors []error
}

// HasFailures reports whether any error-severity diagnostic occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// NewResult aggregates outcomes produced outside Run, such as a single
// buffer linted from memory.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{
		Files: make([]FileOutcome, 0, len(outcomes)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(outcomes)
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[config.Severity]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.SnippetsLinted += outcome.Blocks
	if outcome.Cached {
		r.Stats.CacheHits++
	}
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}
	if pr.Reformatted {
		r.Stats.FilesReformatted++
	}
	r.Stats.DiagnosticsFixed += pr.TotalEditsApplied

	switch pr.FormatStatus {
	case format.Truncated:
		r.Stats.FilesTruncated++
	case format.SkippedTooLarge:
		r.Stats.FilesSkippedLarge++
	}

	if pr.FileResult == nil {
		return
	}

	n := len(pr.Diagnostics)
	r.Stats.DiagnosticsTotal += n
	r.Stats.DiagnosticsFixable += pr.FixableCount()
	if n > 0 {
		r.Stats.FilesWithIssues++
	}
	for _, d := range pr.Diagnostics {
		severity := d.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
