package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cfmtlint/pkg/config"
)

func TestFromTOML(t *testing.T) {
	data := []byte(`
severity_default = "info"
ignore = ["third_party/**"]

[formatter]
tab_size = 8
insert_spaces = false

[rules.C003]
enabled = false

[rules.C007]
severity = "warning"
options = { max = 100 }
`)

	cfg, undecoded, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Empty(t, undecoded)

	assert.Equal(t, "info", cfg.SeverityDefault)
	assert.Equal(t, []string{"third_party/**"}, cfg.Ignore)
	require.NotNil(t, cfg.Formatter.TabSize)
	assert.Equal(t, 8, *cfg.Formatter.TabSize)
	assert.False(t, *cfg.Formatter.InsertSpaces)
	assert.False(t, *cfg.Rules["C003"].Enabled)
	assert.Equal(t, "warning", *cfg.Rules["C007"].Severity)
	assert.EqualValues(t, 100, cfg.Rules["C007"].Options["max"])
}

func TestFromTOML_ReportsUnknownKeys(t *testing.T) {
	_, undecoded, err := config.FromTOML([]byte("flavour = \"gfm\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"flavour"}, undecoded)
}

func TestFromTOML_Invalid(t *testing.T) {
	_, _, err := config.FromTOML([]byte("[rules\n"))
	assert.Error(t, err)
}

func TestToTOML(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Markdown = true

	data, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "markdown = true")

	parsed, _, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.True(t, parsed.Markdown)
	assert.Equal(t, cfg.Backups, parsed.Backups)
}
