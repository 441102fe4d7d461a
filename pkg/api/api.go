// Package api is the embedding surface of cfmtlint: validate a buffer into
// editor-ready diagnostics, or reindent it.
//
// An Engine holds only immutable configuration chosen by the host, so one
// value can serve any number of buffers concurrently. The package-level
// Validate and Format use a fresh default engine on every call.
package api

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/format"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/lint/rules"
)

// Diagnostic is the wire shape handed to editor hosts. Lines and columns
// are 1-based and the end position is exclusive.
type Diagnostic struct {
	StartLine   int             `json:"startLine"   msgpack:"startLine"`
	StartColumn int             `json:"startColumn" msgpack:"startColumn"`
	EndLine     int             `json:"endLine"     msgpack:"endLine"`
	EndColumn   int             `json:"endColumn"   msgpack:"endColumn"`
	Severity    config.Severity `json:"severity"    msgpack:"severity"`
	Message     string          `json:"message"     msgpack:"message"`
	Kind        lint.Kind       `json:"kind"        msgpack:"kind"`
}

// FromLint converts an engine diagnostic to the wire shape.
func FromLint(d lint.Diagnostic) Diagnostic {
	return Diagnostic{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
		Severity:    d.Severity,
		Message:     d.Message,
		Kind:        d.Kind,
	}
}

// FromLintAll converts a slice; the result is never nil.
func FromLintAll(diags []lint.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, FromLint(d))
	}
	return out
}

// Config selects what an Engine runs. Zero values pick the defaults.
type Config struct {
	// Registry supplies the rules. Nil means the built-in rules.
	Registry *lint.Registry

	// Lint is the rule configuration. Nil means config.NewConfig().
	Lint *config.Config

	// Formatter overrides the default formatter options for Format.
	Formatter *format.Partial

	// Logger receives notices. Nil means the default logger.
	Logger *log.Logger
}

// Engine validates and formats buffers with a fixed configuration.
type Engine struct {
	lint      *lint.Engine
	cfg       *config.Config
	formatter format.Options
	logger    *log.Logger
}

// New builds an Engine. The configuration is cloned, so later changes
// by the caller do not affect it.
func New(cfg Config) *Engine {
	registry := cfg.Registry
	if registry == nil {
		registry = rules.NewRegistry()
	}

	lintCfg := config.NewConfig()
	if cfg.Lint != nil {
		lintCfg = cfg.Lint.Clone()
	}
	lintCfg.Fix = false

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Engine{
		lint:      lint.NewEngine(registry),
		cfg:       lintCfg,
		formatter: lintCfg.FormatterOptions().Merge(cfg.Formatter),
		logger:    logger,
	}
}

// Validate returns the diagnostics for text in position order.
// It never fails: an internal fault yields an empty list.
func (e *Engine) Validate(ctx context.Context, text string) (diags []Diagnostic) {
	ctx = logging.WithLogger(ctx, e.logger)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("validate failed", logging.FieldError, r)
			diags = []Diagnostic{}
		}
	}()

	result, err := e.lint.LintFile(ctx, "", []byte(text), e.cfg)
	if err != nil {
		return []Diagnostic{}
	}

	for id, ruleErr := range result.RuleErrors {
		e.logger.Warn("rule skipped", logging.FieldRule, id, logging.FieldError, ruleErr)
	}

	return FromLintAll(result.Diagnostics)
}

// Reindent formats text with the engine's formatter options overlaid by opts.
func (e *Engine) Reindent(ctx context.Context, text string, opts *format.Partial) format.Result {
	return format.Reindent(logging.WithLogger(ctx, e.logger), text, e.formatter.Merge(opts))
}

// Format is Reindent returning only the text.
func (e *Engine) Format(ctx context.Context, text string, opts *format.Partial) string {
	return e.Reindent(ctx, text, opts).Text
}

// Validate runs the built-in rules with default configuration.
func Validate(text string) []Diagnostic {
	return New(Config{}).Validate(context.Background(), text)
}

// Format reindents text with the defaults overlaid by opts (which may be nil).
func Format(text string, opts *format.Partial) string {
	return New(Config{}).Format(context.Background(), text, opts)
}
