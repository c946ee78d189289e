package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": testSecret,
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "aitools_session", cfg.Auth.SessionCookie)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "/dashboard", cfg.Auth.HomePath)
	assert.Equal(t, 8, cfg.Auth.PasswordMinLen)
	assert.Equal(t, 4, cfg.Auth.AuditWorkers)
	assert.InDelta(t, 5.0, cfg.Auth.LoginRateLimit, 0)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "aitools", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Zero(t, cfg.Redis.PoolSize)
	assert.Empty(t, cfg.Seed.OwnerEmail)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET":      testSecret,
		"ENV":                 "production",
		"SESSION_TTL":         "30m",
		"COOKIE_SECURE":       "true",
		"LOGIN_RATE_LIMIT":    "0",
		"SEED_OWNER_EMAIL":    "owner@example.com",
		"SEED_OWNER_PASSWORD": "changeme-now",
		"REDIS_DB":            "2",
		"REDIS_POOL_SIZE":     "32",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Zero(t, cfg.Auth.LoginRateLimit)
	assert.Equal(t, "owner@example.com", cfg.Seed.OwnerEmail)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
}

func TestLoad_SessionSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err, "missing secret")

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{"SESSION_SECRET": "short"}))
	assert.Error(t, err, "short secret")
}
