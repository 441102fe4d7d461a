package analysis

import "time"

// Report holds aggregate views over one lint run.
type Report struct {
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`
	ByFile      []FileAnalysis    `json:"byFile,omitempty"`
	ByRule      []RuleAnalysis    `json:"byRule,omitempty"`
	ByKind      []KindAnalysis    `json:"byKind,omitempty"`
	Totals      Totals            `json:"summary"`
	Version     string            `json:"version"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Counts tallies diagnostics by severity.
type Counts struct {
	Issues   int `json:"issues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

func (c *Counts) add(severity string) {
	c.Issues++
	switch severity {
	case severityError:
		c.Errors++
	case severityWarning:
		c.Warnings++
	case severityInfo:
		c.Infos++
	}
}

// DiagnosticEntry is one diagnostic with its display path.
type DiagnosticEntry struct {
	FilePath    string `json:"filePath"`
	Rule        string `json:"rule"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	Fixable     bool   `json:"fixable"`
}

// Totals summarizes the whole run.
type Totals struct {
	Counts

	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesErrored    int `json:"filesErrored"`
	Fixable         int `json:"fixable"`
}

// HasIssues reports whether any diagnostic was found.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors reports whether any error-severity diagnostic was found.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis aggregates one file.
type FileAnalysis struct {
	Counts

	Path  string   `json:"path"`
	Rules []string `json:"rules,omitempty"`
}

// RuleAnalysis aggregates one rule.
type RuleAnalysis struct {
	Counts

	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Label    string   `json:"label"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}

// KindAnalysis aggregates one issue kind, e.g. "unclosed-bracket".
type KindAnalysis struct {
	Counts

	Kind  string `json:"kind"`
	Files int    `json:"files"`
}
