package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
	"github.com/yaklabco/cfmtlint/pkg/langdetect"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/reporter"
	"github.com/yaklabco/cfmtlint/pkg/runner"
	"github.com/yaklabco/cfmtlint/pkg/session"
)

type watchFlags struct {
	format     string
	ruleFormat string
	ignore     []string
	delay      time.Duration
	noContext  bool
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-lint C files as they change",
		Long: `Watch C files and re-lint each one after it has been quiet for the
debounce delay. Saves in quick succession produce a single report.

Every file is linted once at startup. Stop with Ctrl-C.

Examples:
  cfmtlint watch                        # Watch the current directory
  cfmtlint watch src/ include/          # Watch two trees
  cfmtlint watch --delay 200ms          # Shorter debounce`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, msgpack")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().DurationVar(&flags.delay, "delay", session.DefaultDelay, "quiet period before a changed file is linted")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")

	return cmd
}

// watcher lints changed files through a debouncing scheduler.
type watcher struct {
	workDir  string
	cfg      *config.Config
	pipeline *lint.Pipeline
	logger   *log.Logger

	scheduler *session.Scheduler

	mu       sync.Mutex
	reporter reporter.Reporter
}

func newWatcher(env *commandEnv, rep reporter.Reporter, delay time.Duration) *watcher {
	w := &watcher{
		workDir:  env.workDir,
		cfg:      env.cfg,
		pipeline: lint.NewPipeline(lint.NewEngine(env.registry)),
		logger:   env.logger,
		reporter: rep,
	}
	w.scheduler = session.New(w.lintBuffer, session.Options{Delay: delay, Logger: env.logger})
	return w
}

// lintBuffer is the scheduler handler. Fixes are never applied in watch mode.
func (w *watcher) lintBuffer(ctx context.Context, path, text string) {
	pr, err := w.pipeline.ProcessContent(ctx, path, []byte(text), w.cfg, lint.DefaultPipelineOptions())
	if ctx.Err() != nil {
		return
	}
	w.report(ctx, runner.NewResult(runner.FileOutcome{Path: path, Result: pr, Error: err}))
}

func (w *watcher) report(ctx context.Context, result *runner.Result) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.reporter.Report(ctx, result); err != nil {
		w.logger.Error("report failed", logging.FieldError, err)
	}
}

// relevant reports whether path is a C file the watch should lint.
func (w *watcher) relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if !slices.Contains(runner.DefaultExtensions(), strings.ToLower(filepath.Ext(path))) {
		return false
	}
	return !w.excluded(path)
}

func (w *watcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return slices.ContainsFunc(w.cfg.Ignore, func(pattern string) bool {
		return runner.MatchGlob(rel, pattern)
	})
}

// skipDir reports whether a directory should not be watched.
func (w *watcher) skipDir(path string) bool {
	if path != w.workDir && strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	rel, err := filepath.Rel(w.workDir, path)
	if err == nil && rel != "." && langdetect.IsVendored(filepath.ToSlash(rel)+"/") {
		return true
	}
	return w.excluded(path)
}

// handle reacts to one file system event.
func (w *watcher) handle(ctx context.Context, fsw *fsnotify.Watcher, event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.scheduler.Cancel(path)
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(fsw, path); err != nil {
				w.logger.Warn("cannot watch directory", logging.FieldPath, path, logging.FieldError, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.relevant(path) {
		return
	}

	w.submit(ctx, path)
}

// submit reads path and schedules it for linting.
func (w *watcher) submit(ctx context.Context, path string) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		w.logger.Debug("skipping unreadable file", logging.FieldPath, path, logging.FieldError, err)
		return
	}
	if !langdetect.IsC(path, content) {
		w.logger.Debug("skipping non-C file", logging.FieldPath, path)
		return
	}
	w.scheduler.Submit(path, string(content))
}

// addTree watches root and every directory below it.
func (w *watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.logger.Debug("watching", logging.FieldPath, path)
		return nil
	})
}

// watchRoots returns the directories to watch for the given paths.
func watchRoots(workDir string, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			p = filepath.Dir(p)
		}
		p = filepath.Clean(p)
		if !slices.Contains(roots, p) {
			roots = append(roots, p)
		}
	}
	return roots, nil
}

func runWatch(cmd *cobra.Command, args []string, flags *watchFlags) error {
	cliCfg := &config.Config{Ignore: flags.ignore}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("rule-format") {
		cliCfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}

	env, err := loadCommandEnv(cmd, cliCfg)
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(env.cfg.Format))
	if err != nil || format == reporter.FormatDiff {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid watch format %q", env.cfg.Format))
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  env.cfg.RuleFormat,
		WorkingDir:  env.workDir,
		Registry:    env.registry,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	roots, err := watchRoots(env.workDir, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(env.ctx, os.Interrupt)
	defer stop()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	w := newWatcher(env, rep, flags.delay)
	defer w.scheduler.Close()

	for _, root := range roots {
		if err := w.addTree(fsw, root); err != nil {
			_ = fsw.Close()
			return err
		}
	}

	// Initial pass over everything the watch covers.
	result, err := runner.New(w.pipeline).Run(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   env.workDir,
		ExcludeGlobs: env.cfg.Ignore,
		SkipVendored: true,
		Jobs:         env.cfg.Jobs,
		Config:       env.cfg,
	})
	if err != nil {
		_ = fsw.Close()
		return fmt.Errorf("initial lint: %w", err)
	}
	w.report(ctx, result)

	env.logger.Info("watching for changes", logging.FieldPaths, roots, logging.FieldDelay, flags.delay)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-groupCtx.Done()
		return fsw.Close()
	})

	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case event, ok := <-fsw.Events:
				if !ok {
					return nil
				}
				w.handle(groupCtx, fsw, event)
			case watchErr, ok := <-fsw.Errors:
				if !ok {
					return nil
				}
				if errors.Is(watchErr, fsnotify.ErrEventOverflow) {
					w.logger.Warn("event queue overflowed, some changes may be missed")
					continue
				}
				w.logger.Warn("watch error", logging.FieldError, watchErr)
			}
		}
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
