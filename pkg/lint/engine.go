package lint

import (
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
)

// FileResult contains the results of linting a single buffer.
type FileResult struct {
	// Snapshot is the buffer that was linted.
	Snapshot *csource.Snapshot

	// Diagnostics are ordered by start position, stable on ties.
	Diagnostics []Diagnostic

	// Edits contains validated, sorted edits for auto-fix.
	// Empty if no fixes are available or fixing was not requested.
	Edits []fix.TextEdit

	// SkippedEdits contains edits dropped because they overlapped an earlier one.
	SkippedEdits []fix.TextEdit

	// EditConflicts is true if any edits were skipped.
	EditConflicts bool

	// RuleErrors maps rule IDs to the error or panic that stopped them.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any fixes are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			count++
		}
	}
	return count
}

// CountBySeverity returns how many diagnostics have severity s.
func (fr *FileResult) CountBySeverity(s config.Severity) int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.Severity == s {
			count++
		}
	}
	return count
}

// Engine runs the resolved rules against source snapshots.
type Engine struct {
	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{Registry: registry}
}

// LintFile snapshots content and lints it. The only error returned is
// context cancellation; a rule that fails or panics is recorded in
// RuleErrors and the remaining rules still run.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	snapshot := csource.NewSnapshot(path, content)

	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	var allEdits []fix.TextEdit

	for _, rr := range ResolveRules(e.Registry, cfg) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		ruleCtx := NewRuleContext(ctx, snapshot, cfg, rr.Config)
		ruleCtx.Registry = e.Registry

		diags, err := runRule(rr.Rule, ruleCtx)
		if err != nil {
			logging.FromContext(ctx).Debug("rule failed",
				logging.FieldRule, rr.Rule.ID(),
				logging.FieldPath, path,
				logging.FieldError, err)
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for i := range diags {
			d := &diags[i]

			if rr.SeverityOverride || d.Severity == "" {
				d.Severity = rr.Severity
			}
			if d.FilePath == "" {
				d.FilePath = path
			}
			if d.RuleID == "" {
				d.RuleID = rr.Rule.ID()
			}
			if d.RuleName == "" {
				d.RuleName = rr.Rule.Name()
			}

			if rr.AutoFix && d.HasFix() {
				allEdits = append(allEdits, d.FixEdits...)
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	SortDiagnostics(result.Diagnostics)

	if len(allEdits) > 0 {
		accepted, skipped, err := fix.Prepare(allEdits, len(content))
		if err != nil {
			// A rule produced an out-of-range edit; keep the diagnostics, apply nothing.
			result.EditConflicts = true
			logging.FromContext(ctx).Warn("discarding invalid fix edits",
				logging.FieldPath, path,
				logging.FieldError, err)
		} else {
			result.Edits = accepted
			result.SkippedEdits = skipped
			result.EditConflicts = len(skipped) > 0
		}
	}

	return result, nil
}

// runRule applies rule, converting a panic into an error.
func runRule(rule Rule, ruleCtx *RuleContext) (diags []Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.ID(), r)
		}
	}()

	return rule.Apply(ruleCtx)
}

// SortDiagnostics orders diagnostics by start line then column, keeping
// the emission order of diagnostics at the same position.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		if a.StartLine != b.StartLine {
			return a.StartLine - b.StartLine
		}
		return a.StartColumn - b.StartColumn
	})
}
