package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "/api", cfg.App.APIPrefix)
	assert.Empty(t, cfg.App.APIKey)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5, cfg.Database.MaxRetries)

	assert.Empty(t, cfg.Redis.Host)
	assert.Equal(t, 200, cfg.Seed.Count)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PREFIX", "/v2")
	t.Setenv("SEED_COUNT", "5")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/v2", cfg.App.APIPrefix)
	assert.Equal(t, 5, cfg.Seed.Count)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.RetryDelay)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults pass", func(c *Config) {}, false},
		{"prefix without slash", func(c *Config) { c.App.APIPrefix = "api" }, true},
		{"empty prefix", func(c *Config) { c.App.APIPrefix = "" }, true},
		{"negative seed count", func(c *Config) { c.Seed.Count = -1 }, true},
		{"production without db password", func(c *Config) {
			c.App.Environment = "production"
			c.Database.Password = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
