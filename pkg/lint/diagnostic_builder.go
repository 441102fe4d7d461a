package lint

import (
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fix"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnosticAt starts building a diagnostic at a specific span.
func NewDiagnosticAt(ruleID, filePath string, span csource.Span, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			StartLine:   span.StartLine,
			StartColumn: span.StartColumn,
			EndLine:     span.EndLine,
			EndColumn:   span.EndColumn,
		},
	}
}

// NewDiagnosticAtWithRegistry is NewDiagnosticAt with the rule name looked up in reg.
func NewDiagnosticAtWithRegistry(
	ruleID string,
	filePath string,
	span csource.Span,
	message string,
	reg *Registry,
) *DiagnosticBuilder {
	b := NewDiagnosticAt(ruleID, filePath, span, message)
	if reg != nil {
		if rule, ok := reg.GetByID(ruleID); ok {
			b.diag.RuleName = rule.Name()
		}
	}
	return b
}

// WithKind sets the diagnostic kind.
func (b *DiagnosticBuilder) WithKind(k Kind) *DiagnosticBuilder {
	b.diag.Kind = k
	return b
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFix adds fix edits from an EditBuilder.
func (b *DiagnosticBuilder) WithFix(builder *fix.EditBuilder) *DiagnosticBuilder {
	if builder != nil {
		b.diag.FixEdits = append(b.diag.FixEdits, builder.Edits...)
	}
	return b
}

// WithEdit adds a single fix edit.
func (b *DiagnosticBuilder) WithEdit(edit fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edit)
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
