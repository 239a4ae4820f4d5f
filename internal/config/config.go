// Package config loads the article admin settings: defaults, then an
// optional YAML file, then environment overrides. CLI flags are applied last
// by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-article-admin/pkg/articles"
)

// Environment variables read by Load.
const (
	EnvBaseURL = articles.EnvBaseURL
	EnvAddr    = "ARTICLE_ADMIN_ADDR"
	EnvConfig  = "ARTICLE_ADMIN_CONFIG"
	EnvMode    = "MODE"
	EnvSession = "ARTICLE_ADMIN_SESSION_KEY"
)

// DefaultPath is the config file looked up when neither a flag nor
// ARTICLE_ADMIN_CONFIG names one.
const DefaultPath = "article-admin.yaml"

// ModeProduction disables dev conveniences such as template reloading.
const ModeProduction = "production"

// Config holds all article admin settings.
type Config struct {
	Mode string `yaml:"mode"`

	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend article API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// SessionKey signs the flash cookie. Empty means a random key per process.
	SessionKey string `yaml:"session_key"`
}

// UIConfig configures pages, theming and templates.
type UIConfig struct {
	PageSize     int      `yaml:"page_size"`
	Theme        string   `yaml:"theme"`
	Variant      string   `yaml:"variant"`
	TemplatesDir string   `yaml:"templates_dir"`
	Categories   []string `yaml:"categories"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // json, console
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Mode: "development",
		API: APIConfig{
			BaseURL: articles.DefaultBaseURL,
			Timeout: articles.DefaultTimeout.String(),
		},
		Server: ServerConfig{
			Addr:           ":3000",
			AllowedOrigins: []string{"https://topengdev.com"},
		},
		UI: UIConfig{
			PageSize: articles.DefaultLimit,
			Theme:    "admin",
			Variant:  "light",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// ResolvePath picks the config file: the explicit path, else
// ARTICLE_ADMIN_CONFIG, else DefaultPath.
func ResolvePath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		c.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSession)); v != "" {
		c.Server.SessionKey = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("config: invalid api.timeout %q: %w", c.API.Timeout, err)
	}
	if k := len(c.Server.SessionKey); k > 0 && k < 32 {
		return fmt.Errorf("config: server.session_key must be at least 32 bytes, got %d", k)
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("config: ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid logging.level %q", c.Logging.Level)
	}
	return nil
}

// APITimeout returns the parsed client timeout.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return articles.DefaultTimeout
	}
	return d
}

// IsProduction reports whether MODE is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Mode, ModeProduction)
}
