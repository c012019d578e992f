package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DEFAULT_SEARCH_RADIUS_KM", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("RUN_LOCAL", "true")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.DefaultSearchRadiusKm)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, "https://exp.host/--/api/v2/push/send", cfg.ExpoPushURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_SEARCH_RADIUS_KM", "25")
	t.Setenv("LIKABLE_MAX_COUNT", "not-a-number")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("ALERTS_WORKER", "false")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 25, cfg.DefaultSearchRadiusKm)
	assert.Equal(t, 20, cfg.LikableMaxCount)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.False(t, cfg.AlertsWorker)
}
