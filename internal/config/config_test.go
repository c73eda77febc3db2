package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/pos",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "SAR", cfg.CurrencyCode)
	require.Equal(t, 30*time.Second, cfg.SnapshotCacheTTL)
	require.Equal(t, time.Minute, cfg.StatusRefreshInterval)
	require.Equal(t, "60-M", cfg.QuoteRateLimit)
	require.False(t, cfg.MigrateOnStart)
}

func TestLoadRequiresDatabaseAndRedis(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)

	_, err = config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/pos",
		"REDIS_URL":    "",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":            "postgres://localhost:5432/pos",
		"REDIS_URL":               "redis://localhost:6379/0",
		"PORT":                    "9090",
		"SNAPSHOT_CACHE_TTL":      "5s",
		"STATUS_REFRESH_INTERVAL": "30s",
		"MIGRATE_ON_START":        "true",
		"CORS_ALLOWED_ORIGINS":    "https://pos.example.com, https://admin.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 5*time.Second, cfg.SnapshotCacheTTL)
	require.Equal(t, 30*time.Second, cfg.StatusRefreshInterval)
	require.True(t, cfg.MigrateOnStart)
	require.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}
