package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "STORE_BACKEND", "DATABASE_URL", "REDIS_URL",
		"STORE_KEY_PREFIX", "CORS_ALLOW_ORIGINS", "SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT", "STORE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "credstore", cfg.AppName)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "users:", cfg.KeyPrefix)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, ":8080", cfg.Address())
	assert.True(t, cfg.IsDev())
}

func TestLoadRedisRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "Postgres")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/credstore")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
}

func TestLoadRejectsMemoryOutsideDev(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "dynamo")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("STORE_TIMEOUT", "500ms")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
	assert.Equal(t, 500*time.Millisecond, cfg.StoreTimeout)

	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "1m")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.ShutdownPeriod)

	t.Setenv("STORE_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestAddressKeepsColon(t *testing.T) {
	assert.Equal(t, ":9000", Config{Port: ":9000"}.Address())
}
