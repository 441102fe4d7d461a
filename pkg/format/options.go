// Package format reindents C-like source by brace depth.
//
// Only leading whitespace and a handful of spacing rules are rewritten.
// Braces are never moved, whatever BracketStyle says.
package format

import "fmt"

// BracketStyle names a brace placement convention.
type BracketStyle string

const (
	BracketAllman BracketStyle = "allman"
	BracketKR     BracketStyle = "k&r"
	BracketGNU    BracketStyle = "gnu"
)

// IsValid reports whether the style is known.
func (s BracketStyle) IsValid() bool {
	switch s {
	case BracketAllman, BracketKR, BracketGNU:
		return true
	default:
		return false
	}
}

// Default option values.
const (
	DefaultTabSize       = 4
	DefaultMaxLineLength = 80

	// MaxTabSize is the widest indent step honored; larger values are clamped.
	MaxTabSize = 16
)

// Options controls reindentation.
type Options struct {
	// TabSize is the number of spaces per indent level.
	TabSize int

	// InsertSpaces indents with spaces instead of tabs.
	InsertSpaces bool

	// MaxLineLength is advisory. The formatter never wraps lines.
	MaxLineLength int

	// BracketStyle is recorded but does not relocate braces.
	BracketStyle BracketStyle

	// IndentCaseLabels keeps case/default labels one level inside switch.
	IndentCaseLabels bool

	// SpaceAfterKeywords turns "if(" into "if (" and friends.
	SpaceAfterKeywords bool

	// SpaceBeforeFunctionParens turns "f(" into "f (".
	SpaceBeforeFunctionParens bool
}

// DefaultOptions returns the default formatter options.
func DefaultOptions() Options {
	return Options{
		TabSize:                   DefaultTabSize,
		InsertSpaces:              true,
		MaxLineLength:             DefaultMaxLineLength,
		BracketStyle:              BracketAllman,
		IndentCaseLabels:          true,
		SpaceAfterKeywords:        true,
		SpaceBeforeFunctionParens: false,
	}
}

// Partial holds caller-supplied overrides. Nil fields keep the base value.
type Partial struct {
	TabSize                   *int    `json:"tabSize,omitempty"                   msgpack:"tabSize,omitempty"                   toml:"tab_size,omitempty"                     yaml:"tab_size,omitempty"`
	InsertSpaces              *bool   `json:"insertSpaces,omitempty"              msgpack:"insertSpaces,omitempty"              toml:"insert_spaces,omitempty"                yaml:"insert_spaces,omitempty"`
	MaxLineLength             *int    `json:"maxLineLength,omitempty"             msgpack:"maxLineLength,omitempty"             toml:"max_line_length,omitempty"              yaml:"max_line_length,omitempty"`
	BracketStyle              *string `json:"bracketStyle,omitempty"              msgpack:"bracketStyle,omitempty"              toml:"bracket_style,omitempty"                yaml:"bracket_style,omitempty"`
	IndentCaseLabels          *bool   `json:"indentCaseLabels,omitempty"          msgpack:"indentCaseLabels,omitempty"          toml:"indent_case_labels,omitempty"           yaml:"indent_case_labels,omitempty"`
	SpaceAfterKeywords        *bool   `json:"spaceAfterKeywords,omitempty"        msgpack:"spaceAfterKeywords,omitempty"        toml:"space_after_keywords,omitempty"         yaml:"space_after_keywords,omitempty"`
	SpaceBeforeFunctionParens *bool   `json:"spaceBeforeFunctionParens,omitempty" msgpack:"spaceBeforeFunctionParens,omitempty" toml:"space_before_function_parens,omitempty" yaml:"space_before_function_parens,omitempty"`
}

// Merge returns o with every non-nil field of p applied.
func (o Options) Merge(p *Partial) Options {
	if p == nil {
		return o
	}

	if p.TabSize != nil {
		o.TabSize = *p.TabSize
	}
	if p.InsertSpaces != nil {
		o.InsertSpaces = *p.InsertSpaces
	}
	if p.MaxLineLength != nil {
		o.MaxLineLength = *p.MaxLineLength
	}
	if p.BracketStyle != nil {
		o.BracketStyle = BracketStyle(*p.BracketStyle)
	}
	if p.IndentCaseLabels != nil {
		o.IndentCaseLabels = *p.IndentCaseLabels
	}
	if p.SpaceAfterKeywords != nil {
		o.SpaceAfterKeywords = *p.SpaceAfterKeywords
	}
	if p.SpaceBeforeFunctionParens != nil {
		o.SpaceBeforeFunctionParens = *p.SpaceBeforeFunctionParens
	}

	return o
}

// Overlay returns a new Partial with the fields of other taking precedence.
func (p *Partial) Overlay(other *Partial) *Partial {
	if p == nil && other == nil {
		return nil
	}

	merged := Partial{}
	if p != nil {
		merged = *p
	}
	if other == nil {
		return &merged
	}

	if other.TabSize != nil {
		merged.TabSize = other.TabSize
	}
	if other.InsertSpaces != nil {
		merged.InsertSpaces = other.InsertSpaces
	}
	if other.MaxLineLength != nil {
		merged.MaxLineLength = other.MaxLineLength
	}
	if other.BracketStyle != nil {
		merged.BracketStyle = other.BracketStyle
	}
	if other.IndentCaseLabels != nil {
		merged.IndentCaseLabels = other.IndentCaseLabels
	}
	if other.SpaceAfterKeywords != nil {
		merged.SpaceAfterKeywords = other.SpaceAfterKeywords
	}
	if other.SpaceBeforeFunctionParens != nil {
		merged.SpaceBeforeFunctionParens = other.SpaceBeforeFunctionParens
	}

	return &merged
}

// Validate reports option values the formatter would have to correct.
func (o Options) Validate() error {
	if o.TabSize <= 0 || o.TabSize > MaxTabSize {
		return fmt.Errorf("tab size must be between 1 and %d, got %d", MaxTabSize, o.TabSize)
	}
	if o.MaxLineLength < 0 {
		return fmt.Errorf("max line length must not be negative, got %d", o.MaxLineLength)
	}
	if !o.BracketStyle.IsValid() {
		return fmt.Errorf("unknown bracket style %q (valid: allman, k&r, gnu)", o.BracketStyle)
	}
	return nil
}

// normalized replaces unusable values with defaults.
func (o Options) normalized() Options {
	if o.TabSize <= 0 {
		o.TabSize = DefaultTabSize
	}
	o.TabSize = min(o.TabSize, MaxTabSize)
	if o.MaxLineLength < 0 {
		o.MaxLineLength = DefaultMaxLineLength
	}
	if !o.BracketStyle.IsValid() {
		o.BracketStyle = BracketAllman
	}
	return o
}
