package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/fix"
	"github.com/yaklabco/cfmtlint/pkg/format"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
)

// DefaultMaxFixPasses bounds the fix loop. Rules whose fixes keep
// producing new issues stop here.
const DefaultMaxFixPasses = 10

// Pipeline error types for categorization.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult is the lint result for the final content.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing (nil for in-memory content).
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the content was changed.
	Modified bool

	// ModifiedContent is the new content (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode.
	Diff *fix.Diff

	// Skipped is true if the file was not written, e.g. after a concurrent change.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of fix passes that applied edits.
	FixPasses int

	// TotalEditsApplied is the number of edits applied across all passes.
	TotalEditsApplied int

	// FormatStatus is the reindent outcome when reformatting was requested.
	FormatStatus format.Status

	// Reformatted is true if the reindent step changed the content.
	Reformatted bool
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		if pr.BackupCreated {
			return "fixed (backup created)"
		}
		return "fixed"
	}
	if pr.Modified {
		return "changes pending"
	}
	if pr.FileResult != nil && pr.HasIssues() {
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// Fix applies rule fix edits.
	Fix bool

	// Reformat runs the reindent engine after the fix loop.
	Reformat bool

	// Formatter configures the reindent step.
	Formatter format.Options

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the file before writing. When false only
	// mod time and size are compared.
	StrictRaceDetection bool

	// MaxFixPasses limits fix iterations; 0 means DefaultMaxFixPasses.
	// Edits skipped as conflicts in one pass are retried in the next.
	MaxFixPasses int
}

// DefaultPipelineOptions returns lint-only options.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Formatter:           format.DefaultOptions(),
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine is the lint engine used for rule execution.
	Engine *Engine
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full pipeline for a single file:
//  1. Read and hash the original file.
//  2. Lint, and with Fix apply edits and re-lint until stable.
//  3. With Reformat, reindent and lint the result once more.
//  4. In dry-run mode, return a diff and stop.
//  5. Skip the write if the file changed on disk meanwhile.
//  6. Create a backup if enabled, then write atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.transform(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent runs steps 2 to 4 of ProcessFile on in-memory content.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	return p.transform(ctx, path, content, cfg, opts)
}

func (p *Pipeline) transform(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := original
	var fileResult *FileResult

	for range maxPasses {
		var err error
		fileResult, err = p.lint(ctx, path, content, cfg)
		if err != nil {
			return nil, err
		}

		if !opts.Fix || len(fileResult.Edits) == 0 {
			break
		}

		content = fix.ApplyEdits(content, fileResult.Edits)
		result.FixPasses++
		result.TotalEditsApplied += len(fileResult.Edits)
		result.Modified = true
	}

	if opts.Reformat {
		formatted := format.Reindent(ctx, string(content), opts.Formatter)
		result.FormatStatus = formatted.Status

		if formatted.Status != format.Failed && formatted.Changed(string(content)) {
			content = []byte(formatted.Text)
			result.Reformatted = true
			result.Modified = true

			var err error
			if fileResult, err = p.lint(ctx, path, content, cfg); err != nil {
				return nil, err
			}
		}
	}

	result.FileResult = fileResult

	if !result.Modified {
		return result, nil
	}
	result.ModifiedContent = content

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, original, content)
	}

	logging.FromContext(ctx).Debug("content transformed",
		logging.FieldPath, path,
		"passes", result.FixPasses,
		"edits", result.TotalEditsApplied,
		"reformatted", result.Reformatted)

	return result, nil
}

func (p *Pipeline) lint(ctx context.Context, path string, content []byte, cfg *config.Config) (*FileResult, error) {
	fileResult, err := p.Engine.LintFile(ctx, path, content, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	return fileResult, nil
}

// categorizeError wraps an error with the matching pipeline sentinel.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	return PipelineOptions{
		Fix:                 cfg.Fix,
		Reformat:            cfg.Reformat,
		Formatter:           cfg.FormatterOptions(),
		DryRun:              cfg.DryRun,
		Backup:              BackupConfigFromConfig(cfg),
		StrictRaceDetection: true,
	}
}
