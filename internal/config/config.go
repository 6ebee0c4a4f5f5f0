// Package config loads the TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "stories"

	DefaultCatalog       = "stories.json"
	DefaultAutoAdvanceMS = 5000
	DefaultHTTPTimeout   = 10
	DefaultLogLevel      = "info"
	DefaultImageProtocol = "auto"
)

var imageProtocols = []string{"auto", "kitty", "sixel", "none"}

type Config struct {
	Catalog       string `koanf:"catalog"`         // URL or path of the story catalog
	AutoAdvanceMS int    `koanf:"auto_advance_ms"` // how long a story stays on screen
	ImageProtocol string `koanf:"image_protocol"`  // "auto", "kitty", "sixel" or "none"

	Cache CacheConfig `koanf:"cache"`
	HTTP  HTTPConfig  `koanf:"http"`
	Log   LogConfig   `koanf:"log"`
}

// CacheConfig controls the resized image cache.
type CacheConfig struct {
	Dir      string `koanf:"dir"` // default: $XDG_CACHE_HOME/stories/media
	Disabled bool   `koanf:"disabled"`
}

// HTTPConfig applies to catalog and media requests.
type HTTPConfig struct {
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	UserAgent      string `koanf:"user_agent"`
}

// LogConfig controls the log file. The terminal belongs to the UI, so logs
// never go to stdout or stderr.
type LogConfig struct {
	File  string `koanf:"file"` // default: $XDG_STATE_HOME/stories/stories.log
	Level string `koanf:"level"`
}

// Load reads the config files in order of priority (last wins), then the
// explicit files in extra. Missing default files are skipped; a missing
// explicit file is an error.
func Load(extra ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}
	for _, path := range extra {
		if path == "" {
			continue
		}
		path = expandPath(path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Catalog:       DefaultCatalog,
		AutoAdvanceMS: DefaultAutoAdvanceMS,
		ImageProtocol: DefaultImageProtocol,
		HTTP:          HTTPConfig{TimeoutSeconds: DefaultHTTPTimeout},
		Log:           LogConfig{Level: DefaultLogLevel},
	}
}

func (c *Config) normalize() {
	c.Catalog = strings.TrimSpace(c.Catalog)
	if !isURL(c.Catalog) {
		c.Catalog = expandPath(c.Catalog)
	}
	c.ImageProtocol = strings.ToLower(strings.TrimSpace(c.ImageProtocol))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Cache.Dir = expandPath(c.Cache.Dir)
	c.Log.File = expandPath(c.Log.File)
}

// Validate reports values that cannot be used.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		return fmt.Errorf("catalog: must not be empty")
	}
	if c.AutoAdvanceMS < 0 {
		return fmt.Errorf("auto_advance_ms: must not be negative, got %d", c.AutoAdvanceMS)
	}
	if c.ImageProtocol != "" && !slices.Contains(imageProtocols, c.ImageProtocol) {
		return fmt.Errorf("image_protocol: unknown value %q (want %s)",
			c.ImageProtocol, strings.Join(imageProtocols, ", "))
	}
	return nil
}

// AdvanceDelay returns the auto-advance delay, defaulting to 5s.
func (c *Config) AdvanceDelay() time.Duration {
	if c.AutoAdvanceMS <= 0 {
		return DefaultAutoAdvanceMS * time.Millisecond
	}
	return time.Duration(c.AutoAdvanceMS) * time.Millisecond
}

// SetAdvanceDelay overrides the auto-advance delay. Positive delays are
// rounded up to whole milliseconds.
func (c *Config) SetAdvanceDelay(d time.Duration) {
	if d <= 0 {
		c.AutoAdvanceMS = 0
		return
	}
	c.AutoAdvanceMS = int((d + time.Millisecond - 1) / time.Millisecond)
}

// HTTPTimeout returns the request timeout, defaulting to 10s.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTP.TimeoutSeconds <= 0 {
		return DefaultHTTPTimeout * time.Second
	}
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// UserAgent returns the User-Agent for outgoing requests.
func (c *Config) UserAgent() string {
	if c.HTTP.UserAgent != "" {
		return c.HTTP.UserAgent
	}
	return appName + "/1.0"
}

// CacheDir returns the media cache directory, or "" when caching is off.
func (c *Config) CacheDir() string {
	if c.Cache.Disabled {
		return ""
	}
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(xdg.CacheHome, appName, "media")
}

// LogFile returns the log file path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/stories/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "file://")
}
