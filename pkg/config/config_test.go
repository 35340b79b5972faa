package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llerrors "github.com/learnloop/learnloop/pkg/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
}

func TestLoadFromPathMergesOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://api.learnloop.dev
feed:
  min_refresh_interval: 5s
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.learnloop.dev", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Feed.MinRefreshInterval)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultRequestTimeout, cfg.API.Timeout)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://file.example.com
`)
	t.Setenv("LEARNLOOP_API_BASE_URL", "https://env.example.com")
	t.Setenv("LEARNLOOP_API_TIMEOUT", "7s")
	t.Setenv("LEARNLOOP_LOG_LEVEL", "debug")
	t.Setenv("LEARNLOOP_TOKEN", "tok-env")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "tok-env", cfg.Session.Token)
}

func TestMalformedYAMLIsParseError(t *testing.T) {
	path := writeConfigFile(t, "api: [not a mapping")
	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.True(t, llerrors.IsCode(err, llerrors.ErrCodeConfigLoad) ||
		llerrors.IsCode(err, llerrors.ErrCodeConfigParse))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.API.BaseURL = "not-a-url" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative refresh", func(c *Config) { c.Feed.MinRefreshInterval = -time.Second }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, llerrors.IsCode(err, llerrors.ErrCodeConfigInvalid))
		})
	}
}

func TestMissingFileIsError(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, llerrors.IsCode(err, llerrors.ErrCodeConfigLoad))
}
