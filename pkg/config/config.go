// Package config loads the client configuration from YAML with environment
// overrides. Defaults first, then the user file (~/.learnloop/config.yaml),
// then the project file (./.learnloop/config.yaml), then environment
// variables. Later layers win.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	llerrors "github.com/learnloop/learnloop/pkg/errors"
)

// Default configuration values exported for documentation and validation
const (
	DefaultAPIBaseURL     = "http://localhost:8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultFeedMinRefresh = 2 * time.Second
)

// Config is the complete client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Feed    FeedConfig    `yaml:"feed"`
	Logging LoggingConfig `yaml:"logging"`
	Session SessionConfig `yaml:"session"`
}

// APIConfig points the gateway client at the backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// FeedConfig tunes feed refresh behavior.
type FeedConfig struct {
	// MinRefreshInterval throttles repeated refreshes of the same field.
	MinRefreshInterval time.Duration `yaml:"min_refresh_interval"`
}

// LoggingConfig controls the JSONL event log.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

// SessionConfig carries sign-in material for non-interactive use.
type SessionConfig struct {
	// Token is a JWT access token. Usually supplied via LEARNLOOP_TOKEN
	// rather than the config file.
	Token string `yaml:"token"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
			Timeout: DefaultRequestTimeout,
		},
		Feed: FeedConfig{
			MinRefreshInterval: DefaultFeedMinRefresh,
		},
		Logging: LoggingConfig{
			Dir:   defaultLogDir(),
			Level: DefaultLogLevel,
		},
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return filepath.Join(os.TempDir(), "learnloop", "logs")
	}
	return filepath.Join(home, ".learnloop", "logs")
}

// Load builds the effective configuration from defaults, the user file,
// the project file, and the environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userPath := filepath.Join(home, ".learnloop", "config.yaml")
		if err := loadAndMerge(cfg, userPath); err != nil && !os.IsNotExist(err) {
			return nil, llerrors.Wrap(err, llerrors.ErrCodeConfigLoad, "loading user config")
		}
	}

	projectPath := filepath.Join(".", ".learnloop", "config.yaml")
	if err := loadAndMerge(cfg, projectPath); err != nil && !os.IsNotExist(err) {
		return nil, llerrors.Wrap(err, llerrors.ErrCodeConfigLoad, "loading project config")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads a specific config file on top of the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, llerrors.Wrap(err, llerrors.ErrCodeConfigLoad, fmt.Sprintf("loading config from %s", path))
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return llerrors.Wrap(err, llerrors.ErrCodeConfigParse, fmt.Sprintf("parsing %s", path))
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEARNLOOP_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LEARNLOOP_API_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("LEARNLOOP_FEED_MIN_REFRESH")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Feed.MinRefreshInterval = d
		}
	}
	if v := os.Getenv("LEARNLOOP_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("LEARNLOOP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEARNLOOP_TOKEN"); v != "" {
		cfg.Session.Token = v
	}
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return llerrors.New(llerrors.ErrCodeConfigInvalid, "api.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return llerrors.New(llerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("api.base_url %q is not an absolute URL", base))
	}
	if c.API.Timeout <= 0 {
		return llerrors.New(llerrors.ErrCodeConfigInvalid, "api.timeout must be positive")
	}
	if c.Feed.MinRefreshInterval < 0 {
		return llerrors.New(llerrors.ErrCodeConfigInvalid, "feed.min_refresh_interval must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return llerrors.New(llerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return nil
}
