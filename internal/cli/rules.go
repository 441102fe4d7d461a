package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cfmtlint/internal/ui/pretty"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/lint/rules"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Fixable     bool     `json:"fixable"`
	Tags        []string `json:"tags,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, descriptions,
default severity, and whether they support auto-fixing.

Rules can be referenced by ID (C004), by name (missing-semicolon) or by
alias (semicolons) in configuration files and on the command line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := rules.NewRegistry()

			switch flags.format {
			case formatJSON:
				return outputRulesJSON(cmd.OutOrStdout(), registry)
			case "", "text":
				return outputRulesText(cmd.OutOrStdout(), registry, config.RuleFormat(flags.ruleFormat), colorMode(cmd))
			default:
				return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", flags.format))
			}
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

// aliasesOf returns the alias keys that resolve to rule, excluding its ID and name.
func aliasesOf(registry *lint.Registry, rule lint.Rule) []string {
	var aliases []string
	for _, key := range registry.Keys() {
		if key == rule.ID() || key == rule.Name() {
			continue
		}
		if id, _, ok := registry.Resolve(key); ok && id == rule.ID() {
			aliases = append(aliases, key)
		}
	}
	return aliases
}

func outputRulesText(w io.Writer, registry *lint.Registry, ruleFormat config.RuleFormat, color string) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, w))

	for _, rule := range registry.Rules() {
		identifier := config.FormatRuleID(ruleFormat, rule.ID(), rule.Name())

		severity := styles.Warning
		switch rule.DefaultSeverity() {
		case config.SeverityError:
			severity = styles.Error
		case config.SeverityInfo:
			severity = styles.Info
		}

		var notes []string
		if rule.CanFix() {
			notes = append(notes, "fixable")
		}
		if !rule.DefaultEnabled() {
			notes = append(notes, "disabled by default")
		}
		if aliases := aliasesOf(registry, rule); len(aliases) > 0 {
			notes = append(notes, "alias: "+strings.Join(aliases, ", "))
		}

		line := fmt.Sprintf("%s  %s  %s",
			styles.RuleID.Render(rpad(identifier, 24)),
			severity.Render(rpad(string(rule.DefaultSeverity()), 7)),
			styles.Message.Render(rule.Description()))
		if len(notes) > 0 {
			line += "  " + styles.Dim.Render("("+strings.Join(notes, "; ")+")")
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write rules: %w", err)
		}
	}

	return nil
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(w io.Writer, registry *lint.Registry) error {
	ruleList := registry.Rules()
	infos := make([]ruleInfo, 0, len(ruleList))
	for _, rule := range ruleList {
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Aliases:     aliasesOf(registry, rule),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Enabled:     rule.DefaultEnabled(),
			Fixable:     rule.CanFix(),
			Tags:        rule.Tags(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
