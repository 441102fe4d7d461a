package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/cfmtlint/internal/cli"
)

const (
	unindented = "int main(void)\n{\nreturn 0;\n}\n"
	indented   = "int main(void)\n{\n    return 0;\n}\n"
)

func TestFmt_Stdin(t *testing.T) {
	t.Parallel()

	out, err := execute(t, unindented, "fmt", "--config", isolatedConfig(t, ""), "--stdin")
	require.NoError(t, err)
	assert.Equal(t, indented, out)
}

func TestFmt_StdinTabSize(t *testing.T) {
	t.Parallel()

	out, err := execute(t, unindented, "fmt", "--config", isolatedConfig(t, ""), "--stdin", "--tab-size", "2")
	require.NoError(t, err)
	assert.Equal(t, "int main(void)\n{\n  return 0;\n}\n", out)
}

func TestFmt_FormatterFromConfig(t *testing.T) {
	t.Parallel()

	cfg := isolatedConfig(t, "formatter:\n  insert_spaces: false\n")

	out, err := execute(t, unindented, "fmt", "--config", cfg, "--stdin")
	require.NoError(t, err)
	assert.Equal(t, "int main(void)\n{\n\treturn 0;\n}\n", out)
}

func TestFmt_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.c", unindented)
	writeFile(t, dir, "good.c", indented)

	out, err := execute(t, "", "fmt", "--config", isolatedConfig(t, ""), "--check", dir)
	require.ErrorIs(t, err, cli.ErrFormatNeeded)
	assert.Equal(t, cli.ExitLintErrors, cli.ExitCode(err))
	assert.Contains(t, out, "bad.c")
	assert.NotContains(t, out, "good.c")

	content, err := os.ReadFile(filepath.Join(dir, "bad.c"))
	require.NoError(t, err)
	assert.Equal(t, unindented, string(content), "--check must not write")
}

func TestFmt_Diff(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "main.c", unindented)

	out, err := execute(t, "", "fmt", "--config", isolatedConfig(t, ""), "--diff", file)
	require.NoError(t, err)
	assert.Contains(t, out, "diff --git")
	assert.Contains(t, out, "-return 0;")
	assert.Contains(t, out, "+    return 0;")
}

func TestFmt_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeFile(t, dir, "src/main.c", unindented)
	cfg := isolatedConfig(t, "backups:\n  enabled: false\n")

	_, err := execute(t, "", "fmt", "--config", cfg, "--write", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, indented, string(content))

	// A second run has nothing left to do.
	_, err = execute(t, "", "fmt", "--config", cfg, "--check", dir)
	require.NoError(t, err)
}

func TestFmt_InvalidUsage(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "fmt", "--config", isolatedConfig(t, ""), "--stdin", "--write")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = execute(t, "", "fmt", "--config", isolatedConfig(t, ""), "--stdin", "main.c")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = execute(t, "", "fmt", "--config", isolatedConfig(t, ""), "--stdin", "--bracket-style", "whitesmiths")
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestInit_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfmtlint.yml")

	_, err := execute(t, "", "init", "--full", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Contains(t, parsed, "formatter")
	assert.Contains(t, parsed, "rules")
	assert.Contains(t, string(data), "missing-semicolon")

	// The generated file is accepted by lint.
	good := writeFile(t, t.TempDir(), "good.c", "int x = 1;\n")
	_, err = execute(t, "", "lint", "--config", path, "--color", "never", good)
	require.NoError(t, err)
}

func TestInit_TOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfmtlint.toml")

	_, err := execute(t, "", "init", "--format", "toml", "--full", "--output", path)
	require.NoError(t, err)

	var parsed map[string]any
	_, err = toml.DecodeFile(path, &parsed)
	require.NoError(t, err)
	assert.Contains(t, parsed, "rules")
}

func TestInit_ExistingFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), ".cfmtlint.yml", "markdown: true\n")

	_, err := execute(t, "", "init", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "markdown: true\n", string(content))

	_, err = execute(t, "", "init", "--output", path, "--force")
	require.NoError(t, err)
}

func TestInit_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "init", "--format", "json", "--output", filepath.Join(t.TempDir(), "x"))
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestRules_JSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "rules", "--format", "json")
	require.NoError(t, err)

	var infos []struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Aliases []string `json:"aliases"`
		Fixable bool     `json:"fixable"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 7)

	assert.Equal(t, "C001", infos[0].ID)
	assert.Equal(t, "bracket-match", infos[0].Name)

	semicolon := infos[3]
	assert.Equal(t, "C004", semicolon.ID)
	assert.Equal(t, []string{"semicolons"}, semicolon.Aliases)
	assert.True(t, semicolon.Fixable)
}

func TestRules_Text(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "rules", "--rule-format", "combined", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "C001/bracket-match")
	assert.Contains(t, out, "alias: semicolons")

	_, err = execute(t, "", "rules", "--format", "xml")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestStats_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x = 1\nint y = 2\n")
	writeFile(t, dir, "b.c", "int z = 3\n")
	writeFile(t, dir, "clean.c", "int ok = 0;\n")

	out, err := execute(t, "", "stats", "--config", isolatedConfig(t, ""), "--format", "json", dir)
	require.NoError(t, err, "stats does not fail on findings")

	var report struct {
		Summary struct {
			FilesChecked    int `json:"filesChecked"`
			FilesWithIssues int `json:"filesWithIssues"`
			Issues          int `json:"issues"`
			Fixable         int `json:"fixable"`
		} `json:"summary"`
		ByRule []struct {
			RuleID string   `json:"ruleId"`
			Issues int      `json:"issues"`
			Files  []string `json:"files"`
		} `json:"byRule"`
		ByKind []struct {
			Kind string `json:"kind"`
		} `json:"byKind"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)

	assert.Equal(t, 3, report.Summary.FilesChecked)
	assert.Equal(t, 2, report.Summary.FilesWithIssues)
	assert.Equal(t, 3, report.Summary.Issues)
	assert.Equal(t, 3, report.Summary.Fixable)

	require.Len(t, report.ByRule, 1)
	assert.Equal(t, "C004", report.ByRule[0].RuleID)
	assert.Len(t, report.ByRule[0].Files, 2)

	require.Len(t, report.ByKind, 1)
	assert.Equal(t, "missing-semicolon", report.ByKind[0].Kind)

	content, err := os.ReadFile(filepath.Join(dir, "a.c"))
	require.NoError(t, err)
	assert.Equal(t, "int x = 1\nint y = 2\n", string(content))
}

func TestStats_Text(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "main.c", "int x = 1\n")

	out, err := execute(t, "", "stats", "--config", isolatedConfig(t, ""),
		"--color", "never", "--rule-format", "combined", file)
	require.NoError(t, err)
	assert.Contains(t, out, "1 files checked, 1 with issues")
	assert.Contains(t, out, "C004/missing-semicolon")
	assert.Contains(t, out, "fixable")

	_, err = execute(t, "", "stats", "--sort", "random", file)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}
