package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/cfmtlint/internal/configloader"
	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/lint/rules"
	"github.com/yaklabco/cfmtlint/pkg/reporter"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

type lintFlags struct {
	format     string
	ruleFormat string
	ignore     []string
	enable     []string
	disable    []string
	fixRules   []string
	strict     bool
	noContext  bool
	compact    bool
	vendored   bool
	symlinks   bool
}

func newLintCommand(version string) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint C source files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags, version)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Lint C source files for bracket balance and common mistakes.

By default, lints all .c and .h files in the current directory and its
subdirectories. Specify paths to lint specific files or directories.
With --markdown, c and h fenced blocks in Markdown files are linted too.

Examples:
  cfmtlint lint                         # Lint current directory
  cfmtlint lint src/                    # Lint src directory
  cfmtlint lint main.c                  # Lint single file
  cfmtlint lint --fix                   # Lint and apply safe fixes
  cfmtlint lint --fix --reformat        # Fix, then reindent
  cfmtlint lint --fix --dry-run         # Show fixes as a diff
  cfmtlint lint --format sarif          # Output SARIF for code scanning
  cfmtlint lint --strict                # Treat warnings as errors`

// commandEnv is the resolved state shared by commands that read configuration.
type commandEnv struct {
	ctx      context.Context
	workDir  string
	registry *lint.Registry
	cfg      *config.Config
	logger   *log.Logger
}

// loadCommandEnv resolves configuration for cmd with cliCfg as the highest
// precedence layer.
func loadCommandEnv(cmd *cobra.Command, cliCfg *config.Config) (*commandEnv, error) {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	registry := rules.NewRegistry()

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
		Registry:     registry,
		Logger:       logger,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return &commandEnv{
		ctx:      ctx,
		workDir:  workDir,
		registry: registry,
		cfg:      loadResult.Config,
		logger:   logger,
	}, nil
}

func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}

// openCache returns the lint result cache, or nil when caching is off or
// the cache directory is unusable.
func (e *commandEnv) openCache() *runner.Cache {
	if !e.cfg.Cache.Enabled || e.cfg.Fix || e.cfg.Reformat {
		return nil
	}

	dir := e.cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = runner.DefaultCacheDir()
		if err != nil {
			e.logger.Warn("cache disabled", logging.FieldError, err)
			return nil
		}
	}

	fingerprint, err := runner.Fingerprint(e.registry, e.cfg)
	if err != nil {
		e.logger.Warn("cache disabled", logging.FieldError, err)
		return nil
	}

	cache, err := runner.NewCache(dir, fingerprint)
	if err != nil {
		e.logger.Warn("cache disabled", logging.FieldPath, dir, logging.FieldError, err)
		return nil
	}
	return cache
}

func (e *commandEnv) runnerOptions(paths []string, flags *lintFlags) runner.Options {
	return runner.Options{
		Paths:          paths,
		WorkingDir:     e.workDir,
		Markdown:       e.cfg.Markdown,
		ExcludeGlobs:   e.cfg.Ignore,
		FollowSymlinks: flags.symlinks,
		SkipVendored:   !flags.vendored,
		Jobs:           e.cfg.Jobs,
		Config:         e.cfg,
		Cache:          e.openCache(),
	}
}

func runLint(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *lintFlags, version string) error {
	if cmd.Flags().Changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return withExitCode(ExitInvalidUsage, err)
		}
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("rule-format") {
		cliCfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.EnableRules = flags.enable
	cliCfg.DisableRules = flags.disable
	cliCfg.FixRules = flags.fixRules

	env, err := loadCommandEnv(cmd, cliCfg)
	if err != nil {
		return err
	}
	cfg := env.cfg

	env.logger.Debug("configuration loaded",
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
		"reformat", cfg.Reformat,
		"markdown", cfg.Markdown,
	)

	// Parse the output format before doing any work.
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	engine := lint.NewEngine(env.registry)
	pipeline := lint.NewPipeline(engine)
	lintRunner := runner.New(pipeline)

	runOpts := env.runnerOptions(args, flags)

	env.logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := lintRunner.Run(env.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		RuleFormat:  cfg.RuleFormat,
		WorkingDir:  env.workDir,
		ToolVersion: version,
		Registry:    env.registry,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(env.ctx, result); err != nil {
		env.logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	env.logger.Debug("lint run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldCacheHits, result.Stats.CacheHits,
	)

	switch code := ExitCodeFromResult(result, flags.strict); code {
	case ExitSuccess:
		return nil
	case ExitIOError:
		return withExitCode(code, fmt.Errorf("%d file(s) could not be processed", result.Stats.FilesErrored+len(result.Errors)))
	default:
		return withExitCode(code, ErrLintIssuesFound)
	}
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix issues")
	cmd.Flags().BoolVar(&cfg.Reformat, "reformat", false, "reindent files by brace depth after any fixes")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff, msgpack")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rules")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&cfg.Markdown, "markdown", false, "also lint C code blocks in Markdown files")
	cmd.Flags().BoolVar(&cfg.Cache.Enabled, "cache", false, "reuse results for unchanged files")
	cmd.Flags().StringVar(&cfg.Cache.Dir, "cache-dir", "", "cache directory (default: user cache dir)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.vendored, "include-vendored", false, "lint vendored and generated files")
	cmd.Flags().BoolVar(&flags.symlinks, "follow-symlinks", false, "follow symbolic links during discovery")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
}
