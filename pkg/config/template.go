package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes every rule with its documentation.
	Full bool

	// Format is "yaml" or "toml".
	Format string

	// IncludeRules limits the rules section to these IDs. Empty means all.
	IncludeRules []string

	// Rules describes the rules to document. Empty means DefaultRuleInfoProvider.
	Rules []RuleInfo
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider returns rule information.
// It decouples template generation from the lint package.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the lint package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		return generateYAMLTemplate(opts), nil
	case "toml":
		return generateTOMLTemplate(opts), nil
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}
}

func generateYAMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Default severity for rules without one: error, warning, or info
severity_default: warning

# File patterns to ignore (glob patterns)
ignore:
  - "vendor/**"
  - "build/**"

# Lint C code blocks inside Markdown files
markdown: false

# Reindent options used by "cfmtlint fmt" and "lint --fix --reformat"
formatter:
  tab_size: 4
  insert_spaces: true
  max_line_length: 80
  bracket_style: allman
  indent_case_labels: true
  space_after_keywords: true
  space_before_function_parens: false

backups:
  enabled: true
  mode: sidecar

cache:
  enabled: false
`)

	if !opts.Full {
		buf.WriteString(`
# Rule-specific configuration
# rules:
#   C004:
#     severity: warning
#   C007:
#     enabled: true
`)
		return buf.Bytes()
	}

	buf.WriteString("\nrules:\n")
	for _, rule := range templateRules(opts) {
		writeRuleComment(&buf, "  ", rule)
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
	}

	return buf.Bytes()
}

func generateTOMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Default severity for rules without one: error, warning, or info
severity_default = "warning"

# File patterns to ignore (glob patterns)
ignore = ["vendor/**", "build/**"]

# Lint C code blocks inside Markdown files
markdown = false

[formatter]
tab_size = 4
insert_spaces = true
max_line_length = 80
bracket_style = "allman"
indent_case_labels = true
space_after_keywords = true
space_before_function_parens = false

[backups]
enabled = true
mode = "sidecar"

[cache]
enabled = false
`)

	if !opts.Full {
		buf.WriteString(`
# Rule-specific configuration
# [rules.C004]
# severity = "warning"
`)
		return buf.Bytes()
	}

	for _, rule := range templateRules(opts) {
		buf.WriteByte('\n')
		writeRuleComment(&buf, "", rule)
		fmt.Fprintf(&buf, "[rules.%s]\n", rule.ID)
		fmt.Fprintf(&buf, "enabled = %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "severity = %q\n", rule.Severity)
	}

	return buf.Bytes()
}

func writeRuleComment(buf *bytes.Buffer, indent string, rule RuleInfo) {
	fmt.Fprintf(buf, "\n%s# %s: %s\n", indent, rule.ID, rule.Name)
	fmt.Fprintf(buf, "%s# %s\n", indent, wrapComment(rule.Description, commentWrapWidth, indent))
	if len(rule.Tags) > 0 {
		fmt.Fprintf(buf, "%s# Tags: %s\n", indent, strings.Join(rule.Tags, ", "))
	}
	if rule.CanFix {
		fmt.Fprintf(buf, "%s# Auto-fix: yes\n", indent)
	}
}

func templateRules(opts TemplateOptions) []RuleInfo {
	rules := opts.Rules
	if len(rules) == 0 {
		rules = getRuleInfos()
	} else {
		rules = append([]RuleInfo(nil), rules...)
	}

	if len(opts.IncludeRules) > 0 {
		includeSet := make(map[string]bool, len(opts.IncludeRules))
		for _, id := range opts.IncludeRules {
			includeSet[id] = true
		}
		filtered := make([]RuleInfo, 0, len(rules))
		for _, r := range rules {
			if includeSet[r.ID] {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})

	return rules
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}

	return []RuleInfo{
		{
			ID: "C001", Name: "bracket-match", Enabled: true, Severity: SeverityError,
			Description: "Braces, parentheses and brackets must be balanced",
			Tags:        []string{"brackets"},
		},
		{
			ID: "C004", Name: "missing-semicolon", Enabled: true, Severity: SeverityError,
			Description: "Statement lines should end with a semicolon",
			Tags:        []string{"statements", "heuristic"}, CanFix: true,
		},
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int, indent string) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent+"# ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# cfmtlint configuration
# See: https://github.com/yaklabco/cfmtlint`
}
