package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/cfmtlint/internal/ui/pretty"
	"github.com/yaklabco/cfmtlint/pkg/analysis"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

type statsFlags struct {
	format      string
	sortBy      string
	ascending   bool
	top         int
	diagnostics bool
	ruleFormat  string
	ignore      []string
	markdown    bool
}

func newStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "stats [paths...]",
		Short: "Summarize lint findings by rule, file and kind",
		Long: `Lint the given paths and print aggregate counts instead of individual
diagnostics. Useful for tracking cleanup progress on a large tree.

Files are never modified. The exit code is 0 unless a file could not be read.

Examples:
  cfmtlint stats                    # Summarize the current directory
  cfmtlint stats --sort severity    # Rules with errors first
  cfmtlint stats --format json src/ # Machine-readable report`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount), "order groups by: count, alpha, severity")
	cmd.Flags().BoolVar(&flags.ascending, "ascending", false, "sort counts lowest first")
	cmd.Flags().IntVar(&flags.top, "top", 10, "rows per section in text output (0 = all)")
	cmd.Flags().BoolVar(&flags.diagnostics, "diagnostics", false, "include every diagnostic in JSON output")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also lint C code blocks in Markdown files")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, flags *statsFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}
	sortBy, err := analysis.ParseSortField(flags.sortBy)
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	cliCfg := &config.Config{Ignore: flags.ignore, Markdown: flags.markdown}
	if cmd.Flags().Changed("rule-format") {
		cliCfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}

	env, err := loadCommandEnv(cmd, cliCfg)
	if err != nil {
		return err
	}
	// Stats never writes files, whatever the config says.
	env.cfg.Fix = false
	env.cfg.Reformat = false

	result, err := runner.New(lint.NewPipeline(lint.NewEngine(env.registry))).Run(env.ctx, runner.Options{
		Paths:        args,
		WorkingDir:   env.workDir,
		Markdown:     env.cfg.Markdown,
		ExcludeGlobs: env.cfg.Ignore,
		SkipVendored: true,
		Jobs:         env.cfg.Jobs,
		Config:       env.cfg,
		Cache:        env.openCache(),
	})
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	opts := analysis.DefaultOptions()
	opts.SortBy = sortBy
	opts.SortDesc = !flags.ascending
	opts.RuleFormat = env.cfg.RuleFormat
	opts.WorkingDir = env.workDir
	opts.IncludeDiagnostics = flags.diagnostics && flags.format == formatJSON

	report := analysis.Analyze(result, opts)

	if flags.format == formatJSON {
		err = writeStatsJSON(cmd.OutOrStdout(), report)
	} else {
		err = writeStatsText(cmd.OutOrStdout(), report, flags.top, colorMode(cmd))
	}
	if err != nil {
		return err
	}

	if report.Totals.FilesErrored > 0 || len(result.Errors) > 0 {
		return withExitCode(ExitIOError,
			fmt.Errorf("%d file(s) could not be processed", report.Totals.FilesErrored+len(result.Errors)))
	}
	return nil
}

func writeStatsJSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	return nil
}

// statsRow is one line of a text section.
type statsRow struct {
	key    string
	counts analysis.Counts
	note   string
}

func writeStatsText(w io.Writer, report *analysis.Report, top int, color string) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, w))
	totals := report.Totals

	var out []string
	out = append(out, styles.SummaryTitle.Render("Summary"),
		fmt.Sprintf("  %d files checked, %d with issues, %d unreadable",
			totals.Files, totals.FilesWithIssues, totals.FilesErrored),
		fmt.Sprintf("  %s, %s, %s (%d fixable)",
			styles.Error.Render(strconv.Itoa(totals.Errors)+" errors"),
			styles.Warning.Render(strconv.Itoa(totals.Warnings)+" warnings"),
			styles.Info.Render(strconv.Itoa(totals.Infos)+" info"),
			totals.Fixable),
	)

	if totals.HasIssues() {
		rules := make([]statsRow, 0, len(report.ByRule))
		for _, r := range report.ByRule {
			note := ""
			if r.Fixable {
				note = "fixable"
			}
			rules = append(rules, statsRow{key: r.Label, counts: r.Counts, note: note})
		}
		out = appendSection(out, styles, "Rules", rules, top)

		files := make([]statsRow, 0, len(report.ByFile))
		for _, f := range report.ByFile {
			files = append(files, statsRow{key: f.Path, counts: f.Counts})
		}
		out = appendSection(out, styles, "Files", files, top)

		kinds := make([]statsRow, 0, len(report.ByKind))
		for _, k := range report.ByKind {
			kinds = append(kinds, statsRow{key: k.Kind, counts: k.Counts, note: pluralFiles(k.Files)})
		}
		out = appendSection(out, styles, "Kinds", kinds, top)
	}

	for _, line := range out {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}
	return nil
}

func appendSection(out []string, styles *pretty.Styles, title string, rows []statsRow, top int) []string {
	if len(rows) == 0 {
		return out
	}

	out = append(out, "", styles.SummaryTitle.Render(title))

	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row.key))
	}

	shown := rows
	if top > 0 && len(rows) > top {
		shown = rows[:top]
	}
	for _, row := range shown {
		line := fmt.Sprintf("  %s  %5d  %s",
			styles.RuleID.Render(rpad(row.key, width)),
			row.counts.Issues,
			styles.Dim.Render(fmt.Sprintf("E%d W%d I%d", row.counts.Errors, row.counts.Warnings, row.counts.Infos)))
		if row.note != "" {
			line += "  " + styles.Dim.Render(row.note)
		}
		out = append(out, line)
	}
	if hidden := len(rows) - len(shown); hidden > 0 {
		out = append(out, styles.Dim.Render(fmt.Sprintf("  ... %d more", hidden)))
	}
	return out
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return strconv.Itoa(n) + " files"
}
