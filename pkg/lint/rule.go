// Package lint provides the rule engine, diagnostics and registry for cfmtlint.
package lint

import (
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
)

// Kind is the machine-readable category of a diagnostic.
type Kind string

// Diagnostic kinds.
const (
	KindUnmatchedBracket  Kind = "unmatched-bracket"
	KindMismatchedBracket Kind = "mismatched-bracket"
	KindUnclosedBracket   Kind = "unclosed-bracket"
	KindMissingHeader     Kind = "missing-header"
	KindMissingEntryPoint Kind = "missing-entry-point"
	KindMissingSemicolon  Kind = "missing-semicolon"
	KindInvalidCharacter  Kind = "invalid-character"
	KindFullWidth         Kind = "full-width-punctuation"
	KindInvalidInclude    Kind = "invalid-include"
	KindLineTooLong       Kind = "line-too-long"
)

// Diagnostic represents a single issue found in a buffer.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "bracket-match").
	RuleName string

	// Kind categorizes the issue independently of the rule.
	Kind Kind

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the file containing the issue.
	FilePath string

	// Positions are 1-based; columns count runes and the end is exclusive.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Suggestion is an optional human-readable fix suggestion.
	Suggestion string

	// FixEdits contains the text edits to fix this issue (may be empty).
	FixEdits []fix.TextEdit
}

// HasFix returns true if this diagnostic has associated fix edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// Span returns the diagnostic range.
func (d *Diagnostic) Span() csource.Span {
	return csource.Span{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// Rule defines the interface that all lint rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "C001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule.
	Tags() []string

	// CanFix returns whether this rule can auto-fix issues.
	CanFix() bool

	// Apply executes the rule against the given context and returns diagnostics.
	//
	// Rules must:
	//   - Return diagnostics for each violation found.
	//   - Attach fix edits only when CanFix() is true.
	//   - Respect context cancellation.
	//   - Return error only for internal failures, not violations.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
