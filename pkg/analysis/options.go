package analysis

import (
	"fmt"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

// SortField specifies how grouped views are ordered.
type SortField string

const (
	// SortByCount sorts by issue count.
	SortByCount SortField = "count"
	// SortByAlpha sorts by key, always ascending.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts errors first, then warnings.
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// ParseSortField converts a flag value to a SortField.
func ParseSortField(s string) (SortField, error) {
	field := SortField(s)
	if !field.IsValid() {
		return "", fmt.Errorf("unknown sort field %q (valid: count, alpha, severity)", s)
	}
	return field, nil
}

// Options configures Analyze.
type Options struct {
	IncludeDiagnostics bool
	IncludeByFile      bool
	IncludeByRule      bool
	IncludeByKind      bool

	SortBy   SortField
	SortDesc bool

	// RuleFormat controls RuleAnalysis.Label and DiagnosticEntry.Rule.
	RuleFormat config.RuleFormat

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns all views sorted by descending count.
func DefaultOptions() Options {
	return Options{
		IncludeByFile: true,
		IncludeByRule: true,
		IncludeByKind: true,
		SortBy:        SortByCount,
		SortDesc:      true,
		RuleFormat:    config.RuleFormatName,
	}
}
