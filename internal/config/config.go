// Package config loads labsite configuration from YAML files, a .env file
// and LABSITE_* environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ProjectConfigName is the project-level config file name.
const ProjectConfigName = ".labsite.yaml"

// Config represents the labsite configuration.
type Config struct {
	Version      int          `yaml:"version"`
	Data         DataConfig   `yaml:"data"`
	Search       SearchConfig `yaml:"search"`
	Watch        WatchConfig  `yaml:"watch"`
	ReadyTimeout string       `yaml:"ready_timeout"`
	Team         []string     `yaml:"team,omitempty"`
	LogLevel     string       `yaml:"log_level"`
}

// DataConfig locates the site data.
type DataConfig struct {
	// Publications is the JSON array injected by the site generator.
	Publications string `yaml:"publications"`
	// IndexPayload is the pre-generated search index, a file path or http(s) URL.
	IndexPayload string `yaml:"index_payload"`
	// SiteHTML is a built page whose section[id] elements become search sections.
	SiteHTML string `yaml:"site_html,omitempty"`
	// SectionsDir holds one markdown file per section.
	SectionsDir string `yaml:"sections_dir,omitempty"`
}

// SearchConfig configures the search executor.
type SearchConfig struct {
	MaxResults   int     `yaml:"max_results"`
	TitleBoost   float64 `yaml:"title_boost"`
	CacheSize    int     `yaml:"cache_size"`
	FetchTimeout string  `yaml:"fetch_timeout"`
}

// WatchConfig configures catalog reloads on file change.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Data: DataConfig{
			Publications: filepath.Join("data", "publications.json"),
			IndexPayload: "search-index.json",
		},
		Search: SearchConfig{
			MaxResults:   5,
			TitleBoost:   10,
			CacheSize:    128,
			FetchTimeout: "3s",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: "300ms",
		},
		ReadyTimeout: "5s",
		LogLevel:     "info",
	}
}

// GetUserConfigPath returns the user configuration file path:
//   - $XDG_CONFIG_HOME/labsite/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/labsite/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "labsite", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "labsite", "config.yaml")
	}
	return filepath.Join(home, ".config", "labsite", "config.yaml")
}

// Load loads configuration for the site rooted at dir.
// Precedence, lowest first:
//  1. Defaults
//  2. User config ($XDG_CONFIG_HOME/labsite/config.yaml)
//  3. Project config (.labsite.yaml in dir)
//  4. dir/.env (never overrides variables already set)
//  5. LABSITE_* environment variables
//
// Relative data paths are resolved against dir.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userPath := GetUserConfigPath()
	if fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if projectPath := filepath.Join(dir, ProjectConfigName); fileExists(projectPath) {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	if envPath := filepath.Join(dir, ".env"); fileExists(envPath) {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.resolvePaths(dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadYAML merges non-zero values from the YAML file at path.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Data.Publications != "" {
		c.Data.Publications = other.Data.Publications
	}
	if other.Data.IndexPayload != "" {
		c.Data.IndexPayload = other.Data.IndexPayload
	}
	if other.Data.SiteHTML != "" {
		c.Data.SiteHTML = other.Data.SiteHTML
	}
	if other.Data.SectionsDir != "" {
		c.Data.SectionsDir = other.Data.SectionsDir
	}

	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.TitleBoost != 0 {
		c.Search.TitleBoost = other.Search.TitleBoost
	}
	if other.Search.CacheSize != 0 {
		c.Search.CacheSize = other.Search.CacheSize
	}
	if other.Search.FetchTimeout != "" {
		c.Search.FetchTimeout = other.Search.FetchTimeout
	}

	// false cannot be told apart from unset, so a file can only turn watching on
	if other.Watch.Enabled {
		c.Watch.Enabled = true
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.ReadyTimeout != "" {
		c.ReadyTimeout = other.ReadyTimeout
	}
	if len(other.Team) > 0 {
		c.Team = other.Team
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// applyEnvOverrides applies LABSITE_* environment variable overrides.
// Unparseable numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LABSITE_PUBLICATIONS"); v != "" {
		c.Data.Publications = v
	}
	if v := os.Getenv("LABSITE_INDEX_PAYLOAD"); v != "" {
		c.Data.IndexPayload = v
	}
	if v := os.Getenv("LABSITE_SITE_HTML"); v != "" {
		c.Data.SiteHTML = v
	}
	if v := os.Getenv("LABSITE_SECTIONS_DIR"); v != "" {
		c.Data.SectionsDir = v
	}
	if v := os.Getenv("LABSITE_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("LABSITE_TITLE_BOOST"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			c.Search.TitleBoost = f
		}
	}
	if v := os.Getenv("LABSITE_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Search.CacheSize = n
		}
	}
	if v := os.Getenv("LABSITE_FETCH_TIMEOUT"); v != "" {
		c.Search.FetchTimeout = v
	}
	if v := os.Getenv("LABSITE_READY_TIMEOUT"); v != "" {
		c.ReadyTimeout = v
	}
	if v := os.Getenv("LABSITE_WATCH"); v != "" {
		c.Watch.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("LABSITE_WATCH_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
	if v := os.Getenv("LABSITE_TEAM"); v != "" {
		var team []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				team = append(team, name)
			}
		}
		c.Team = team
	}
	if v := os.Getenv("LABSITE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// resolvePaths makes relative data paths absolute against dir.
func (c *Config) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) || IsURL(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Data.Publications = resolve(c.Data.Publications)
	c.Data.IndexPayload = resolve(c.Data.IndexPayload)
	c.Data.SiteHTML = resolve(c.Data.SiteHTML)
	c.Data.SectionsDir = resolve(c.Data.SectionsDir)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Data.Publications == "" {
		return fmt.Errorf("data.publications must be set")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.TitleBoost <= 0 || math.IsInf(c.Search.TitleBoost, 0) || math.IsNaN(c.Search.TitleBoost) {
		return fmt.Errorf("search.title_boost must be positive, got %v", c.Search.TitleBoost)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("search.cache_size must be non-negative, got %d", c.Search.CacheSize)
	}

	durations := map[string]string{
		"search.fetch_timeout": c.Search.FetchTimeout,
		"watch.debounce":       c.Watch.Debounce,
		"ready_timeout":        c.ReadyTimeout,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s must be a duration, got %q", name, value)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, value)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel)
	}

	return nil
}

// FetchTimeout returns search.fetch_timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.Search.FetchTimeout, 3*time.Second)
}

// ReadyWait returns ready_timeout as a duration.
func (c *Config) ReadyWait() time.Duration {
	return parseDuration(c.ReadyTimeout, 5*time.Second)
}

// WatchDebounce returns watch.debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return parseDuration(c.Watch.Debounce, 300*time.Millisecond)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsURL reports whether location is an http(s) URL.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
