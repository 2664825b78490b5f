package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/maids")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRES_MIN", "")
	t.Setenv("FRONTEND_BASE_URL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "v1", cfg.APIVersion)
	assert.Equal(t, 10080, cfg.JWTExpiresMin)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendBaseURL)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTTL())
	assert.Equal(t, 10*time.Minute, cfg.ResetTTL())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/maids")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_EXPIRES_MIN", "60")
	t.Setenv("FRONTEND_BASE_URL", "https://maids.example/")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 60, cfg.JWTExpiresMin)
	assert.Equal(t, "https://maids.example", cfg.FrontendBaseURL)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "secret")

	require.PanicsWithValue(t, "missing env: DB_DSN", func() { Load() })
}
