package lint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/format"
	"github.com/yaklabco/cfmtlint/pkg/fsutil"
	"github.com/yaklabco/cfmtlint/pkg/lint"
)

func semicolonPipeline() *lint.Pipeline {
	reg := lint.NewRegistry()
	reg.Register(&semicolonRule{BaseRule: lint.NewBaseRule("T001", "semi", "", nil, true)})
	return lint.NewPipeline(lint.NewEngine(reg))
}

func fixConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Fix = true
	return cfg
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.c")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPipeline_ProcessFile_LintOnly(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "int a\n")

	result, err := semicolonPipeline().ProcessFile(context.Background(), path, config.NewConfig(), lint.DefaultPipelineOptions())
	require.NoError(t, err)

	assert.NotNil(t, result.OriginalInfo)
	assert.False(t, result.Modified)
	assert.False(t, result.Written)
	assert.Nil(t, result.ModifiedContent)
	assert.Equal(t, "issues found", result.Summary())
}

func TestPipeline_ProcessFile_Fix(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "int a\nint b\n")
	cfg := fixConfig()
	opts := lint.PipelineOptionsFromConfig(cfg)

	result, err := semicolonPipeline().ProcessFile(context.Background(), path, cfg, opts)
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.Equal(t, 1, result.FixPasses)
	assert.Equal(t, 2, result.TotalEditsApplied)
	assert.False(t, result.HasIssues(), "final pass sees the fixed content")
	assert.Equal(t, "fixed (backup created)", result.Summary())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int a;\nint b;\n", string(data))

	backup, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "int a\nint b\n", string(backup))
}

func TestPipeline_ProcessFile_DryRun(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "int a\n")
	cfg := fixConfig()
	cfg.DryRun = true

	result, err := semicolonPipeline().ProcessFile(context.Background(), path, cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)

	assert.False(t, result.Written)
	require.NotNil(t, result.Diff)
	assert.True(t, result.Diff.HasChanges())
	assert.Equal(t, "changes pending", result.Summary())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "int a\n", string(data), "dry run leaves the file alone")
}

func TestPipeline_ProcessFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := semicolonPipeline().ProcessFile(context.Background(),
		filepath.Join(t.TempDir(), "missing.c"), config.NewConfig(), lint.DefaultPipelineOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, lint.ErrFileNotFound))
	assert.True(t, lint.IsPipelineError(err))
	assert.False(t, lint.IsPipelineError(errors.New("other")))
}

func TestPipeline_ProcessContent_Reformat(t *testing.T) {
	t.Parallel()

	cfg := fixConfig()
	opts := lint.PipelineOptionsFromConfig(cfg)
	opts.Reformat = true

	src := "void f(void) {\nint a\n}\n"
	result, err := semicolonPipeline().ProcessContent(context.Background(), "f.c", []byte(src), cfg, opts)
	require.NoError(t, err)

	assert.True(t, result.Reformatted)
	assert.Equal(t, format.Formatted, result.FormatStatus)
	assert.Contains(t, string(result.ModifiedContent), "\n    int a;\n")
}

func TestPipeline_ProcessContent_MaxPasses(t *testing.T) {
	t.Parallel()

	reg := lint.NewRegistry()
	reg.Register(&semicolonRule{BaseRule: lint.NewBaseRule("T001", "semi", "", nil, true)})
	reg.Register(&semicolonRule{BaseRule: lint.NewBaseRule("T002", "semi-again", "", nil, true)})
	pipeline := lint.NewPipeline(lint.NewEngine(reg))

	cfg := fixConfig()
	opts := lint.PipelineOptionsFromConfig(cfg)
	opts.MaxFixPasses = 1

	result, err := pipeline.ProcessContent(context.Background(), "", []byte("a\n"), cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FixPasses)
	assert.Equal(t, "a;\n", string(result.ModifiedContent), "duplicate edits collapse")
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lint.DefaultPipelineOptions(), lint.PipelineOptionsFromConfig(nil))

	cfg := config.NewConfig()
	cfg.NoBackups = true
	cfg.Reformat = true
	opts := lint.PipelineOptionsFromConfig(cfg)
	assert.False(t, opts.Backup.Enabled)
	assert.True(t, opts.Reformat)
	assert.Equal(t, format.DefaultOptions(), opts.Formatter)
}
