package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_TTL_HOURS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.MongoURI)
	assert.Equal(t, "baradari", cfg.MongoDatabase)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 24, cfg.TokenTTLHours)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_DATABASE", "baradari_test")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL_HOURS", "48")
	t.Setenv("APP_ENV", "prod")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "baradari_test", cfg.MongoDatabase)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 48, cfg.TokenTTLHours)
	assert.Equal(t, "prod", cfg.Env)
}

func TestLoadBadTTLFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")
	assert.Equal(t, 24, Load().TokenTTLHours)

	t.Setenv("TOKEN_TTL_HOURS", "-5")
	assert.Equal(t, 24, Load().TokenTTLHours)
}
