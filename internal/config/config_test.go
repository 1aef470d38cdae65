package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return t.TempDir()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 10.0, cfg.Search.TitleBoost)
	assert.Equal(t, 128, cfg.Search.CacheSize)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 5*time.Second, cfg.ReadyWait())
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce())
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles_UsesDefaultsResolvedAgainstDir(t *testing.T) {
	// Given: an empty project dir
	dir := isolate(t)

	// When: loading
	cfg, err := Load(dir)

	// Then: data paths are resolved relative to dir
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "publications.json"), cfg.Data.Publications)
	assert.Equal(t, filepath.Join(dir, "search-index.json"), cfg.Data.IndexPayload)
	assert.Empty(t, cfg.Data.SiteHTML)
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	// Given: a user config and a project config
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "labsite", "config.yaml"), `
search:
  max_results: 8
  cache_size: 16
log_level: warn
`)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectConfigName), `
search:
  max_results: 3
team:
  - Osterrieder, J.
  - Chen, Y.
watch:
  enabled: true
data:
  index_payload: https://lab.example.org/search-index.json
`)

	// When: loading
	cfg, err := Load(dir)
	require.NoError(t, err)

	// Then: project wins where set, user config fills the rest
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, 16, cfg.Search.CacheSize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"Osterrieder, J.", "Chen, Y."}, cfg.Team)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, "https://lab.example.org/search-index.json", cfg.Data.IndexPayload)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ProjectConfigName), "search:\n  max_results: 3\n")
	t.Setenv("LABSITE_MAX_RESULTS", "7")
	t.Setenv("LABSITE_TEAM", "A, B ,, C")
	t.Setenv("LABSITE_READY_TIMEOUT", "2s")
	t.Setenv("LABSITE_TITLE_BOOST", "not-a-number")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Search.MaxResults)
	assert.Equal(t, []string{"A", "B", "C"}, cfg.Team)
	assert.Equal(t, 2*time.Second, cfg.ReadyWait())
	assert.Equal(t, 10.0, cfg.Search.TitleBoost)
}

func TestLoad_DotEnvFillsUnsetVariables(t *testing.T) {
	// Given: a .env file setting LABSITE_CACHE_SIZE
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "LABSITE_CACHE_SIZE=42\n")
	t.Cleanup(func() { _ = os.Unsetenv("LABSITE_CACHE_SIZE") })

	// When: loading
	cfg, err := Load(dir)

	// Then: the .env value applies
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Search.CacheSize)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "LABSITE_LOG_LEVEL=error\n")
	t.Setenv("LABSITE_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ProjectConfigName), "search: [unclosed\n")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ProjectConfigName)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, "max_results"},
		{"negative boost", func(c *Config) { c.Search.TitleBoost = -1 }, "title_boost"},
		{"negative cache", func(c *Config) { c.Search.CacheSize = -1 }, "cache_size"},
		{"bad duration", func(c *Config) { c.ReadyTimeout = "soon" }, "ready_timeout"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = "0s" }, "watch.debounce"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"no publications", func(c *Config) { c.Data.Publications = "" }, "data.publications"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	dir := isolate(t)
	cfg := NewConfig()
	cfg.Search.MaxResults = 9
	cfg.Team = []string{"Lab, A."}
	require.NoError(t, cfg.WriteYAML(filepath.Join(dir, ProjectConfigName)))

	loaded, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9, loaded.Search.MaxResults)
	assert.Equal(t, []string{"Lab, A."}, loaded.Team)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://x.org/search-index.json"))
	assert.True(t, IsURL("http://localhost:4000/search-index.json"))
	assert.False(t, IsURL("search-index.json"))
	assert.False(t, IsURL("/srv/site/search-index.json"))
}
