package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/csource"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
	"github.com/yaklabco/cfmtlint/pkg/langdetect"
	"github.com/yaklabco/cfmtlint/pkg/lint"
	"github.com/yaklabco/cfmtlint/pkg/markdown"
)

// Runner lints discovered files with a lint.Pipeline.
type Runner struct {
	Pipeline *lint.Pipeline

	// Extractor finds C blocks in Markdown files.
	Extractor *markdown.Extractor
}

// New creates a Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{
		Pipeline:  pipeline,
		Extractor: markdown.New(markdown.Options{}),
	}
}

// Run discovers files and processes them on a worker pool.
// Outcomes are returned in path order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	pipelineOpts := lint.PipelineOptionsFromConfig(cfg)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Go(func() {
			for path := range workCh {
				if ctx.Err() != nil {
					return
				}
				outcome := r.processFile(ctx, path, cfg, pipelineOpts, opts.Cache)
				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		})
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if opts.Cache != nil {
		logging.FromContext(ctx).Debug("cache",
			logging.FieldCacheHits, opts.Cache.Hits(),
			"misses", opts.Cache.Misses())
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func isMarkdown(path string) bool {
	return slices.Contains(MarkdownExtensions(), strings.ToLower(filepath.Ext(path)))
}

func (r *Runner) processFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts lint.PipelineOptions,
	cache *Cache,
) FileOutcome {
	outcome := FileOutcome{Path: path}

	if isMarkdown(path) {
		outcome.Result, outcome.Blocks, outcome.Error = r.processMarkdown(ctx, path, cfg)
		return outcome
	}

	writes := opts.Fix || opts.Reformat
	if writes && !strings.EqualFold(filepath.Ext(path), ".h") {
		outcome.Result, outcome.Error = r.Pipeline.ProcessFile(ctx, path, cfg, opts)
		return outcome
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = fmt.Errorf("read %s: %w", path, err)
		return outcome
	}

	if !langdetect.IsC(path, content) {
		outcome.Result = &lint.PipelineResult{
			Path:       path,
			Skipped:    true,
			SkipReason: "not a C file",
		}
		return outcome
	}

	if writes {
		outcome.Result, outcome.Error = r.Pipeline.ProcessFile(ctx, path, cfg, opts)
		return outcome
	}

	var key string
	if cache != nil {
		key = cache.Key(content)
		if diags, ok := cache.Get(ctx, key, path); ok {
			outcome.Cached = true
			outcome.Result = &lint.PipelineResult{
				Path: path,
				FileResult: &lint.FileResult{
					Snapshot:    csource.NewSnapshot(path, content),
					Diagnostics: diags,
					RuleErrors:  map[string]error{},
				},
			}
			return outcome
		}
	}

	pr, err := r.Pipeline.ProcessContent(ctx, path, content, cfg, opts)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = pr

	// Partial results are not cached.
	if cache != nil && len(pr.RuleErrors) == 0 {
		if err := cache.Put(ctx, key, pr.Diagnostics); err != nil {
			logging.FromContext(ctx).Debug("cache write failed",
				logging.FieldPath, path, logging.FieldError, err)
		}
	}

	return outcome
}

// processMarkdown lints every C block of a Markdown file. Diagnostics are
// reported in Markdown coordinates and never fixed.
func (r *Runner) processMarkdown(
	ctx context.Context,
	path string,
	cfg *config.Config,
) (*lint.PipelineResult, int, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	blocks, err := r.Extractor.Extract(ctx, content)
	if err != nil {
		return nil, 0, err
	}

	file := &lint.FileResult{
		Snapshot:   csource.NewSnapshot(path, content),
		RuleErrors: make(map[string]error),
	}

	for _, block := range blocks {
		fr, err := r.Pipeline.Engine.LintFile(ctx, path, []byte(block.Content), cfg)
		if err != nil {
			return nil, 0, fmt.Errorf("lint block at line %d: %w", block.StartLine(), err)
		}
		file.Diagnostics = append(file.Diagnostics, block.ShiftAll(fr.Diagnostics)...)
		for id, ruleErr := range fr.RuleErrors {
			file.RuleErrors[id] = ruleErr
		}
	}

	lint.SortDiagnostics(file.Diagnostics)

	return &lint.PipelineResult{FileResult: file, Path: path}, len(blocks), nil
}
