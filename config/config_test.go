package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		t.Setenv("DB_PATH", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("MERQUELO_DEFAULT_STORES", "")
		t.Setenv("MERQUELO_POLL_INTERVAL", "")

		cfg := Load()
		require.NotNil(t, cfg)
		assert.Same(t, cfg, AppConfig)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "./data/merquelo.db", cfg.DBPath)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Empty(t, cfg.DefaultStores)
		assert.Zero(t, cfg.PollInterval)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("DB_PATH", "/tmp/market.db")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("MERQUELO_DEFAULT_STORES", " D1, ,Olímpica ,Ara")
		t.Setenv("MERQUELO_POLL_INTERVAL", "2s")

		cfg := Load()
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "/tmp/market.db", cfg.DBPath)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, []string{"D1", "Olímpica", "Ara"}, cfg.DefaultStores)
		assert.Equal(t, 2*time.Second, cfg.PollInterval)
	})

	t.Run("Malformed poll interval falls back", func(t *testing.T) {
		t.Setenv("MERQUELO_POLL_INTERVAL", "often")
		assert.Zero(t, Load().PollInterval)

		t.Setenv("MERQUELO_POLL_INTERVAL", "-1s")
		assert.Zero(t, Load().PollInterval)
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MERQUELO_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("MERQUELO_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MERQUELO_TEST_MISSING", "fallback"))
}
