package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("LOGLEVEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "5432", cfg.DbPort)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.io, https://b.io ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, cfg.CORSOrigins)
}

func TestLoadConfig_BadTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DbHost: "db", DbUser: "u", DbName: "n", Port: "8080"}
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Len(t, warnings, 2)

	_, err = (&Config{}).Validate()
	assert.Error(t, err)
}

func TestGetDSNSafe(t *testing.T) {
	cfg := &Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "n", DbSSLMode: "disable"}
	assert.Contains(t, cfg.GetDSN(), "secret")
	assert.NotContains(t, cfg.GetDSNSafe(), "secret")
}
