package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "8080", cfg.API.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "schoolportal", cfg.Database.DBName)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)

	assert.True(t, cfg.Session.CookieSecure, "secure cookies unless explicitly disabled")

	assert.Equal(t, 1000, cfg.RateLimit.Requests)
	assert.Equal(t, 60, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.Login.Limit)
	assert.Equal(t, 300*time.Second, cfg.RateLimit.Login.Window)
	assert.Equal(t, 3, cfg.RateLimit.Register.Limit)
	assert.Equal(t, time.Hour, cfg.RateLimit.Register.Window)
	assert.Equal(t, 3, cfg.RateLimit.PasswordReset.Limit)
	assert.Equal(t, time.Hour, cfg.RateLimit.PasswordReset.Window)

	assert.Equal(t, 30, cfg.SecurityLog.MaxAgeDays)
	assert.Equal(t, 90, cfg.SecurityLog.RetentionDays)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Dev)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("RATE_LIMIT_LOGIN_ATTEMPTS", "10")
	t.Setenv("RATE_LIMIT_LOGIN_WINDOW", "600")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "9090", cfg.API.Port)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, 10, cfg.RateLimit.Login.Limit)
	assert.Equal(t, 600*time.Second, cfg.RateLimit.Login.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnvRejectsNonPositiveLoginLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_LOGIN_ATTEMPTS", "0")

	cfg := &Config{}
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("SESSION_COOKIE_SECURE", "maybe")

	cfg := &Config{}
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 5432, cfg.Database.Port, "malformed values fall back to defaults")
	assert.True(t, cfg.Session.CookieSecure)
}
