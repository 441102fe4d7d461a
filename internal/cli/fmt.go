package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/api"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/format"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

type fmtFlags struct {
	write bool
	check bool
	diff  bool
	stdin bool

	tabSize                   int
	insertSpaces              bool
	maxLineLength             int
	bracketStyle              string
	indentCaseLabels          bool
	spaceAfterKeywords        bool
	spaceBeforeFunctionParens bool
}

func newFmtCommand() *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Reindent C source files",
		Long: `Reindent C source files by brace depth.

Indentation is recomputed from the lexical context of every line, so braces
inside comments, strings and character literals are ignored. Preprocessor
lines and the bodies of block comments keep their original text.

Without --write, --check or --diff the formatted source is printed to stdout.

Examples:
  cfmtlint fmt main.c                   # Print formatted main.c
  cfmtlint fmt --write src/             # Reindent files in place
  cfmtlint fmt --check .                # Exit 1 if any file would change
  cfmtlint fmt --diff --tab-size 2 .    # Show changes as a unified diff
  cat main.c | cfmtlint fmt --stdin     # Format standard input`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write result to the source file")
	cmd.Flags().BoolVar(&flags.check, "check", false, "report files that would change and exit 1")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff instead of the formatted source")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "read source from standard input")

	defaults := format.DefaultOptions()
	cmd.Flags().IntVar(&flags.tabSize, "tab-size", defaults.TabSize, "spaces per indent level")
	cmd.Flags().BoolVar(&flags.insertSpaces, "insert-spaces", defaults.InsertSpaces, "indent with spaces instead of tabs")
	cmd.Flags().IntVar(&flags.maxLineLength, "max-line-length", defaults.MaxLineLength, "advisory line length")
	cmd.Flags().StringVar(&flags.bracketStyle, "bracket-style", string(defaults.BracketStyle), "brace placement: allman, k&r, gnu")
	cmd.Flags().BoolVar(&flags.indentCaseLabels, "indent-case-labels", defaults.IndentCaseLabels,
		"indent case labels inside switch")
	cmd.Flags().BoolVar(&flags.spaceAfterKeywords, "space-after-keywords", defaults.SpaceAfterKeywords,
		"insert a space between control keywords and '('")
	cmd.Flags().BoolVar(&flags.spaceBeforeFunctionParens, "space-before-function-parens",
		defaults.SpaceBeforeFunctionParens, "insert a space between function names and '('")

	return cmd
}

// formatterPartial returns the formatter options set explicitly on the command line.
func (f *fmtFlags) formatterPartial(cmd *cobra.Command) format.Partial {
	var p format.Partial
	changed := cmd.Flags().Changed

	if changed("tab-size") {
		p.TabSize = &f.tabSize
	}
	if changed("insert-spaces") {
		p.InsertSpaces = &f.insertSpaces
	}
	if changed("max-line-length") {
		p.MaxLineLength = &f.maxLineLength
	}
	if changed("bracket-style") {
		p.BracketStyle = &f.bracketStyle
	}
	if changed("indent-case-labels") {
		p.IndentCaseLabels = &f.indentCaseLabels
	}
	if changed("space-after-keywords") {
		p.SpaceAfterKeywords = &f.spaceAfterKeywords
	}
	if changed("space-before-function-parens") {
		p.SpaceBeforeFunctionParens = &f.spaceBeforeFunctionParens
	}

	return p
}

// fmtOutcome is the result of formatting one input.
type fmtOutcome struct {
	path     string
	display  string
	original []byte
	result   format.Result
	written  bool
	err      error
}

func (o *fmtOutcome) changed() bool {
	if o.err != nil {
		return false
	}
	switch o.result.Status {
	case format.Formatted, format.Truncated:
		return o.result.Changed(string(o.original))
	default:
		return false
	}
}

func runFmt(cmd *cobra.Command, args []string, flags *fmtFlags) error {
	if flags.stdin && len(args) > 0 {
		return withExitCode(ExitInvalidUsage, errors.New("--stdin does not take paths"))
	}
	if flags.stdin && flags.write {
		return withExitCode(ExitInvalidUsage, errors.New("--write cannot be used with --stdin"))
	}

	cliCfg := &config.Config{Formatter: flags.formatterPartial(cmd)}
	env, err := loadCommandEnv(cmd, cliCfg)
	if err != nil {
		return err
	}

	engine := api.New(api.Config{
		Registry: env.registry,
		Lint:     env.cfg,
		Logger:   env.logger,
	})

	var outcomes []*fmtOutcome
	if flags.stdin {
		outcome, err := formatStdin(cmd, env, engine)
		if err != nil {
			return err
		}
		outcomes = []*fmtOutcome{outcome}
	} else {
		outcomes, err = formatFiles(env, engine, args, flags.write && !flags.check)
		if err != nil {
			return err
		}
	}

	return reportFmt(cmd, env, outcomes, flags)
}

func formatStdin(cmd *cobra.Command, env *commandEnv, engine *api.Engine) (*fmtOutcome, error) {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return &fmtOutcome{
		path:     "<stdin>",
		display:  "<stdin>",
		original: content,
		result:   engine.Reindent(env.ctx, string(content), nil),
	}, nil
}

// formatFiles reindents every discovered file concurrently, writing changes
// back when write is set. Outcomes keep discovery order.
func formatFiles(env *commandEnv, engine *api.Engine, paths []string, write bool) ([]*fmtOutcome, error) {
	files, err := runner.Discover(env.ctx, runner.Options{
		Paths:        paths,
		WorkingDir:   env.workDir,
		ExcludeGlobs: env.cfg.Ignore,
		SkipVendored: true,
	})
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	jobs := env.cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	backup := lint.BackupConfigFromConfig(env.cfg)
	outcomes := make([]*fmtOutcome, len(files))

	group, ctx := errgroup.WithContext(env.ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		outcome := &fmtOutcome{path: path, display: displayPath(env.workDir, path)}
		outcomes[i] = outcome

		group.Go(func() error {
			content, info, err := fsutil.ReadFile(ctx, path)
			if err != nil {
				outcome.err = err
				return nil
			}
			outcome.original = content
			outcome.result = engine.Reindent(ctx, string(content), nil)

			if !write || !outcome.changed() {
				return nil
			}

			outcome.err = writeFormatted(ctx, info, []byte(outcome.result.Text), backup)
			outcome.written = outcome.err == nil
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := env.ctx.Err(); err != nil {
		return nil, fmt.Errorf("format cancelled: %w", err)
	}

	return outcomes, nil
}

// writeFormatted replaces the file described by info unless it changed on
// disk since it was read.
func writeFormatted(ctx context.Context, info *fsutil.FileInfo, content []byte, backup fsutil.BackupConfig) error {
	modified, err := fsutil.CheckModified(ctx, info, true)
	if err != nil {
		return fmt.Errorf("check modified: %w", err)
	}
	if modified {
		return fmt.Errorf("%s: file modified during formatting", info.Path)
	}

	if backup.Enabled {
		if _, err := fsutil.CreateBackup(ctx, info.Path, backup); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := fsutil.WriteAtomic(ctx, info.Path, content, info.Mode); err != nil {
		return fmt.Errorf("%w: %w", lint.ErrWriteFailure, err)
	}
	return nil
}

func reportFmt(cmd *cobra.Command, env *commandEnv, outcomes []*fmtOutcome, flags *fmtFlags) error {
	out := cmd.OutOrStdout()
	var needsFormat, failed int

	for _, o := range outcomes {
		if o.err != nil {
			failed++
			env.logger.Error("format failed", logging.FieldPath, o.display, logging.FieldError, o.err)
			continue
		}

		switch o.result.Status {
		case format.Failed, format.SkippedTooLarge:
			env.logger.Warn("file left unformatted", logging.FieldPath, o.display, "status", o.result.Status)
		case format.Truncated:
			env.logger.Warn("file formatted partially", logging.FieldPath, o.display, logging.FieldLimit, format.MaxLines)
		}

		changed := o.changed()
		if changed {
			needsFormat++
		}

		switch {
		case flags.check:
			if changed {
				fmt.Fprintln(out, o.display)
			}
		case flags.diff:
			if changed {
				diff := fix.GenerateDiff(o.display, o.original, []byte(o.result.Text))
				fmt.Fprint(out, diff.FullString())
			}
		case flags.write:
			if o.written {
				env.logger.Info("formatted", logging.FieldPath, o.display)
			}
		default:
			text := string(o.original)
			if changed {
				text = o.result.Text
			}
			fmt.Fprint(out, text)
		}
	}

	if failed > 0 {
		return withExitCode(ExitIOError, fmt.Errorf("%d file(s) could not be formatted", failed))
	}
	if flags.check && needsFormat > 0 {
		return withExitCode(ExitLintErrors, ErrFormatNeeded)
	}
	return nil
}

// displayPath makes path relative to workDir when it lies inside it.
func displayPath(workDir, path string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
