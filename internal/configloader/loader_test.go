package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint/rules"
)

func isolated(workDir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         workDir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), ConfigFilePermissions))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(t.Context(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.SeverityDefault != string(config.SeverityWarning) {
		t.Errorf("severity default = %q, want warning", cfg.SeverityDefault)
	}
	if !cfg.Backups.Enabled {
		t.Error("backups should be enabled by default")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.yml"), `
severity_default: error
markdown: true
formatter:
  tab_size: 2
rules:
  missing-semicolon:
    enabled: false
  C007:
    options:
      max: 100
`)

	result, err := Load(t.Context(), isolated(dir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "error", cfg.SeverityDefault)
	assert.True(t, cfg.Markdown)
	assert.Equal(t, 2, cfg.FormatterOptions().TabSize)
	assert.True(t, cfg.FormatterOptions().InsertSpaces, "unset formatter keys keep defaults")

	require.Contains(t, cfg.Rules, "C004", "rule names are normalized to IDs")
	assert.NotContains(t, cfg.Rules, "missing-semicolon")
	require.NotNil(t, cfg.Rules["C004"].Enabled)
	assert.False(t, *cfg.Rules["C004"].Enabled)
	assert.EqualValues(t, 100, cfg.Rules["C007"].Options["max"])

	assert.Equal(t, []string{filepath.Join(dir, ".cfmtlint.yml")}, result.LoadedFrom)
}

func TestLoad_ProjectTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.toml"), `
ignore = ["third_party/**"]

[formatter]
insert_spaces = false
bracket_style = "k&r"

[rules.semicolons]
severity = "error"
`)

	result, err := Load(t.Context(), isolated(dir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, []string{"third_party/**"}, cfg.Ignore)
	assert.False(t, cfg.FormatterOptions().InsertSpaces)
	assert.Equal(t, "k&r", string(cfg.FormatterOptions().BracketStyle))
	require.Contains(t, cfg.Rules, "C004")
	assert.Equal(t, "error", *cfg.Rules["C004"].Severity)
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name, file, content string
	}{
		{"yaml", ".cfmtlint.yaml", "backups:\n  enabled: false\n"},
		{"toml", ".cfmtlint.toml", "[backups]\nenabled = false\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, filepath.Join(dir, tc.file), tc.content)

			result, err := Load(t.Context(), isolated(dir))
			require.NoError(t, err)
			assert.False(t, result.Config.Backups.Enabled)
		})
	}
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, filepath.Join(outer, ".cfmtlint.yml"), "markdown: true\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	child := filepath.Join(repo, "src", "lib")
	require.NoError(t, os.MkdirAll(child, 0o755))

	result, err := Load(t.Context(), isolated(child))
	require.NoError(t, err)
	assert.Empty(t, result.Paths.Project, "search must not leave the repository")
	assert.False(t, result.Config.Markdown)

	writeConfig(t, filepath.Join(repo, ".cfmtlint.yml"), "markdown: true\n")
	result, err = Load(t.Context(), isolated(child))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, ".cfmtlint.yml"), result.Paths.Project)
	assert.True(t, result.Config.Markdown)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.yml"), "severity_default: info\nmarkdown: true\n")
	explicit := filepath.Join(dir, "ci", "strict.toml")
	writeConfig(t, explicit, "severity_default = \"error\"\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, "error", result.Config.SeverityDefault)
	assert.True(t, result.Config.Markdown, "project values survive unless overridden")
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.yml"), "markdown: true\n")

	t.Setenv("CFMTLINT_JOBS", "3")
	t.Setenv("CFMTLINT_MARKDOWN", "false")
	t.Setenv("CFMTLINT_TAB_SIZE", "8")
	t.Setenv("CFMTLINT_IGNORE", "a/**, b/**")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	result, err := Load(t.Context(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, 3, cfg.Jobs)
	assert.False(t, cfg.Markdown, "environment overrides files")
	assert.Equal(t, 8, cfg.FormatterOptions().TabSize)
	assert.Equal(t, []string{"a/**", "b/**"}, cfg.Ignore)
}

func TestLoad_EnvInvalidBool(t *testing.T) {
	t.Setenv("CFMTLINT_FIX", "maybe")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	_, err := Load(t.Context(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CFMTLINT_FIX")
}

func TestLoad_CLIWins(t *testing.T) {
	t.Setenv("CFMTLINT_FORMAT", "json")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false
	opts.CLIConfig = &config.Config{Format: config.FormatSARIF, Fix: true}

	result, err := Load(t.Context(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.FormatSARIF, result.Config.Format)
	assert.True(t, result.Config.Fix)
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.yml"), `
markdwn: true
rules:
  missing-semicolom:
    enabled: false
`)

	result, err := Load(t.Context(), isolated(dir))
	require.NoError(t, err)

	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, `unknown key "markdwn"; did you mean "markdown"?`)
	assert.Contains(t, joined, `unknown rule "missing-semicolom"`)
	assert.Contains(t, joined, `did you mean "missing-semicolon"?`)
}

func TestLoad_DuplicateRuleWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.yml"), `
rules:
  C004:
    severity: error
  semicolons:
    severity: info
`)

	result, err := Load(t.Context(), isolated(dir))
	require.NoError(t, err)
	assert.Equal(t, "info", *result.Config.Rules["C004"].Severity)
	assert.Contains(t, strings.Join(result.Warnings, "\n"), "duplicate rule configuration")
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"severity default", "severity_default: fatal\n", "severity_default"},
		{"rule severity", "rules:\n  C001:\n    severity: loud\n", "rules.C001.severity"},
		{"bracket style", "formatter:\n  bracket_style: whitesmiths\n", "formatter"},
		{"tab size", "formatter:\n  tab_size: 0\n", "formatter"},
		{"backup mode", "backups:\n  mode: cloud\n", "backups.mode"},
		{"ignore glob", "ignore:\n  - \"[\"\n", "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, filepath.Join(dir, ".cfmtlint.yml"), tt.content)

			_, err := Load(t.Context(), isolated(dir))
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "want *ValidationError, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, filepath.Join(dir, ".cfmtlint.toml"), "markdown = \n")

	_, err := Load(t.Context(), isolated(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse toml")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	enabled := false
	severity := "error"
	tabSize := 2

	base := config.NewConfig()
	base.Rules["C004"] = config.RuleConfig{Enabled: &enabled, Options: map[string]any{"a": 1}}
	base.Ignore = []string{"vendor/**"}

	override := &config.Config{
		Rules: map[string]config.RuleConfig{"C004": {Severity: &severity, Options: map[string]any{"b": 2}}},
	}
	override.Formatter.TabSize = &tabSize

	merged := merge(base, override)

	rule := merged.Rules["C004"]
	require.NotNil(t, rule.Enabled)
	assert.False(t, *rule.Enabled)
	assert.Equal(t, "error", *rule.Severity)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, rule.Options)
	assert.Equal(t, []string{"vendor/**"}, merged.Ignore, "nil slices do not replace")
	assert.Equal(t, 2, merged.FormatterOptions().TabSize)
	assert.Nil(t, base.Formatter.TabSize, "merge must not mutate its inputs")
	assert.Equal(t, map[string]any{"a": 1}, base.Rules["C004"].Options)
}

func TestSuggester(t *testing.T) {
	t.Parallel()

	s := NewSuggester(rules.NewRegistry().Keys())

	assert.Equal(t, "C004", s.Suggest("c004"), "exact matches ignore case")
	assert.Equal(t, "bracket-match", s.Suggest("bracket-mach"))
	assert.Empty(t, s.Suggest("zzzzzzzzzzzz"))

	var nilSuggester *Suggester
	assert.Empty(t, nilSuggester.Suggest("anything"))
}
