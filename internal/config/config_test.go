package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// env returns a lookup function over a fixed map, so tests do not depend on
// the process environment.
func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, strings.HasSuffix(cfg.Paths.SitesDir, filepath.Join(".wpsite", "sites")))
	assert.Empty(t, cfg.Paths.TemplateDir)
}

// TestLoad_TOML verifies that a TOML file overrides only the keys it sets.
func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[paths]
sites_dir = "/srv/sites"

[docker]
disable_status = true
`)

	cfg, err := load(path, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "/srv/sites", cfg.Paths.SitesDir)
	assert.True(t, cfg.Docker.DisableStatus)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep their default")
	assert.Equal(t, path, cfg.Source)
}

// TestLoad_JSONC verifies that .jsonc files may carry comments and
// trailing commas.
func TestLoad_JSONC(t *testing.T) {
	path := writeConfig(t, "config.jsonc", `{
	// where sites live
	"paths": {
		"sites_dir": "/data/sites",
		"template_dir": "/data/template",
	},
	"log": {"level": "debug"},
}`)

	cfg, err := load(path, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "/data/sites", cfg.Paths.SitesDir)
	assert.Equal(t, "/data/template", cfg.Paths.TemplateDir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// TestLoad_EnvOverridesFile verifies the file → env layering order.
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.toml", "[paths]\nsites_dir = \"/from/file\"\n[log]\nlevel = \"warn\"\n")

	cfg, err := load(path, env(map[string]string{
		EnvSitesDir:    "/from/env",
		EnvLogLevel:    "",
		EnvTemplateDir: "/tmpl",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Paths.SitesDir)
	assert.Equal(t, "/tmpl", cfg.Paths.TemplateDir)
	assert.Equal(t, "warn", cfg.Log.Level, "empty env values are ignored")
}

// TestLoad_ConfigFromEnv verifies that WPSITE_CONFIG selects the file.
func TestLoad_ConfigFromEnv(t *testing.T) {
	path := writeConfig(t, "wpsite.toml", "[paths]\nsites_dir = \"/via/env\"\n")

	cfg, err := load("", env(map[string]string{EnvConfig: path}))
	require.NoError(t, err)
	assert.Equal(t, "/via/env", cfg.Paths.SitesDir)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.toml"), env(nil))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "config.toml", "[paths\nsites_dir = 1\n")

	_, err := load(path, env(nil))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := writeConfig(t, "config.toml", "[paths]\nsites_dir = \"~/wp/sites\"\n")

	cfg, err := load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wp", "sites"), cfg.Paths.SitesDir)
	assert.Empty(t, cfg.Paths.TemplateDir)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/srv/sites", ExpandHome("/srv/sites"))
	assert.Equal(t, "", ExpandHome(""))
	assert.Equal(t, "~user/sites", ExpandHome("~user/sites"))
}
