package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johannes-Berggren/GitHistory/internal/layout"
)

func clearEnv(t *testing.T) {
	t.Setenv("GITHISTORY_GIT", "")
	t.Setenv("GITHISTORY_BACKEND", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Count)
	assert.Equal(t, BackendCLI, cfg.Backend)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, layout.TerminalMetrics, cfg.Metrics())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, 5, cfg.Count)
}

func TestLoad_FromTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
count = 20
backend = "go-git"
watch = true

[theme]
row_tint = "#202020"

[layout]
line_height = 1
padding = 1
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Count)
	assert.Equal(t, BackendGoGit, cfg.Backend)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "#202020", cfg.Theme.RowTint)
	assert.Equal(t, "170", cfg.Theme.Accent, "unset keys keep defaults")
	assert.Equal(t, layout.Metrics{LineHeight: 1, Padding: 1}, cfg.Metrics())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("count = ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GITHISTORY_GIT", "/opt/git/bin/git")
	t.Setenv("GITHISTORY_BACKEND", "go-git")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/git/bin/git", cfg.GitBinary)
	assert.Equal(t, BackendGoGit, cfg.Backend)
}

func TestApplyKVOverrides(t *testing.T) {
	cfg := ApplyKVOverrides(Default(), []string{
		"count=12",
		"backend = go-git",
		"watch=true",
		"theme.row_tint=#101010",
		"layout.padding=2",
		"count=not-a-number",
		"bogus",
		"unknown=1",
	})

	assert.Equal(t, 12, cfg.Count)
	assert.Equal(t, BackendGoGit, cfg.Backend)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "#101010", cfg.Theme.RowTint)
	assert.Equal(t, 2, cfg.Layout.Padding)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Count = 0 }},
		{"unknown backend", func(c *Config) { c.Backend = "svn" }},
		{"zero line height", func(c *Config) { c.Layout.LineHeight = 0 }},
		{"negative padding", func(c *Config) { c.Layout.Padding = -1 }},
		{"bad tint", func(c *Config) { c.Theme.RowTint = "grey" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestTintFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Theme.RowTint = "nope"
	assert.Equal(t, Default().Tint(), cfg.Tint())
}
