// Package analysis aggregates lint results into per-rule, per-file and
// per-kind views for the stats command.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

const (
	severityError   = string(config.SeverityError)
	severityWarning = string(config.SeverityWarning)
	severityInfo    = string(config.SeverityInfo)
)

// relativePath makes absPath relative to workDir when possible.
func relativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return rel
}

// set is a string set.
type set map[string]struct{}

func (s set) add(v string) { s[v] = struct{}{} }

func (s set) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

type accumulator struct {
	files     map[string]*FileAnalysis
	rules     map[string]*RuleAnalysis
	kinds     map[string]*KindAnalysis
	fileRules map[string]set
	ruleFiles map[string]set
	kindFiles map[string]set
}

func newAccumulator() *accumulator {
	return &accumulator{
		files:     make(map[string]*FileAnalysis),
		rules:     make(map[string]*RuleAnalysis),
		kinds:     make(map[string]*KindAnalysis),
		fileRules: make(map[string]set),
		ruleFiles: make(map[string]set),
		kindFiles: make(map[string]set),
	}
}

func (a *accumulator) file(path string) *FileAnalysis {
	fa, ok := a.files[path]
	if !ok {
		fa = &FileAnalysis{Path: path}
		a.files[path] = fa
		a.fileRules[path] = make(set)
	}
	return fa
}

func (a *accumulator) rule(id, name string, format config.RuleFormat) *RuleAnalysis {
	ra, ok := a.rules[id]
	if !ok {
		ra = &RuleAnalysis{RuleID: id, RuleName: name, Label: config.FormatRuleID(format, id, name)}
		a.rules[id] = ra
		a.ruleFiles[id] = make(set)
	}
	return ra
}

func (a *accumulator) kind(kind string) *KindAnalysis {
	ka, ok := a.kinds[kind]
	if !ok {
		ka = &KindAnalysis{Kind: kind}
		a.kinds[kind] = ka
		a.kindFiles[kind] = make(set)
	}
	return ka
}

// Analyze builds a Report from a runner result in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	acc := newAccumulator()

	for _, outcome := range result.Files {
		report.Totals.Files++
		if outcome.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		if outcome.Result == nil || outcome.Result.FileResult == nil {
			continue
		}
		diags := outcome.Result.Diagnostics
		if len(diags) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		path := relativePath(outcome.Path, opts.WorkingDir)
		fa := acc.file(path)

		for i := range diags {
			diag := &diags[i]
			severity := string(diag.Severity)
			if severity == "" {
				severity = severityWarning
			}
			kind := string(diag.Kind)
			if kind == "" {
				kind = diag.RuleName
			}

			report.Totals.add(severity)
			if diag.HasFix() {
				report.Totals.Fixable++
			}

			fa.add(severity)
			acc.fileRules[path].add(diag.RuleID)

			ra := acc.rule(diag.RuleID, diag.RuleName, opts.RuleFormat)
			ra.add(severity)
			ra.Fixable = ra.Fixable || diag.HasFix()
			acc.ruleFiles[diag.RuleID].add(path)

			acc.kind(kind).add(severity)
			acc.kindFiles[kind].add(path)

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, DiagnosticEntry{
					FilePath:    path,
					Rule:        config.FormatRuleID(opts.RuleFormat, diag.RuleID, diag.RuleName),
					Kind:        kind,
					Severity:    severity,
					Message:     diag.Message,
					StartLine:   diag.StartLine,
					StartColumn: diag.StartColumn,
					Fixable:     diag.HasFix(),
				})
			}
		}
	}

	if opts.IncludeByFile {
		report.ByFile = acc.byFile(opts)
	}
	if opts.IncludeByRule {
		report.ByRule = acc.byRule(opts)
	}
	if opts.IncludeByKind {
		report.ByKind = acc.byKind(opts)
	}

	return report
}

func (a *accumulator) byFile(opts Options) []FileAnalysis {
	out := make([]FileAnalysis, 0, len(a.files))
	for path, fa := range a.files {
		fa.Rules = a.fileRules[path].sorted()
		out = append(out, *fa)
	}
	slices.SortFunc(out, func(l, r FileAnalysis) int {
		return compareCounts(l.Counts, r.Counts, l.Path, r.Path, opts)
	})
	return out
}

func (a *accumulator) byRule(opts Options) []RuleAnalysis {
	out := make([]RuleAnalysis, 0, len(a.rules))
	for id, ra := range a.rules {
		ra.Files = a.ruleFiles[id].sorted()
		out = append(out, *ra)
	}
	slices.SortFunc(out, func(l, r RuleAnalysis) int {
		return compareCounts(l.Counts, r.Counts, l.RuleID, r.RuleID, opts)
	})
	return out
}

func (a *accumulator) byKind(opts Options) []KindAnalysis {
	out := make([]KindAnalysis, 0, len(a.kinds))
	for kind, ka := range a.kinds {
		ka.Files = len(a.kindFiles[kind])
		out = append(out, *ka)
	}
	slices.SortFunc(out, func(l, r KindAnalysis) int {
		return compareCounts(l.Counts, r.Counts, l.Kind, r.Kind, opts)
	})
	return out
}

// compareCounts orders two groups by opts.SortBy. Ties fall back to key order.
func compareCounts(l, r Counts, lKey, rKey string, opts Options) int {
	var result int
	switch opts.SortBy {
	case SortByAlpha:
	case SortBySeverity:
		result = cmp.Or(
			cmp.Compare(r.Errors, l.Errors),
			cmp.Compare(r.Warnings, l.Warnings),
			cmp.Compare(r.Issues, l.Issues),
		)
	default:
		result = cmp.Compare(l.Issues, r.Issues)
		if opts.SortDesc {
			result = -result
		}
	}
	return cmp.Or(result, cmp.Compare(lKey, rKey))
}
