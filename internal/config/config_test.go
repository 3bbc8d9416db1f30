package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DB_PATH", "STATIC_PATH", "JWT_SECRET", "TOKEN_TTL", "SCAN_URL", "SCAN_TIMEOUT", "ALLOWED_ORIGIN"} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./data/bills.db", cfg.DBPath)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.ScanTimeout)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.False(t, cfg.ScanEnabled())
	assert.True(t, cfg.UsesDevSecret())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("TOKEN_TTL", "12h")
	t.Setenv("SCAN_URL", "https://scan.example.com")
	t.Setenv("SCAN_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGIN", "https://app.example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.ScanTimeout)
	assert.True(t, cfg.ScanEnabled())
	assert.False(t, cfg.UsesDevSecret())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"bad duration": {"SCAN_TIMEOUT", "soon"},
		"zero ttl":     {"TOKEN_TTL", "0s"},
		"short secret": {"JWT_SECRET", "short"},
		"bad scan url": {"SCAN_URL", "not a url"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
