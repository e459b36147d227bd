package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COINBOARD_AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGecko.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.HuggingFace.Timeout)
	assert.Equal(t, "cryptocurrencymemes", cfg.Reddit.Subreddit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COINBOARD_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("COINBOARD_SERVER_PORT", "9999")
	t.Setenv("COINBOARD_COINGECKO_API_KEY", "demo-key")
	t.Setenv("COINBOARD_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "demo-key", cfg.CoinGecko.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_YAMLFileWithEnvPrecedence(t *testing.T) {
	t.Setenv("COINBOARD_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("COINBOARD_SERVER_PORT", "7000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 6000
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "file overrides default")
	assert.Equal(t, 7000, cfg.Server.Port, "env overrides file")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestTransformEnv(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"COINBOARD_SERVER_PORT", "server.port"},
		{"COINBOARD_AUTH_JWT_SECRET", "auth.jwt_secret"},
		{"COINBOARD_COINGECKO_API_KEY", "coingecko.api_key"},
		{"COINBOARD_REDDIT_ALT_BASE_URL", "reddit.alt_base_url"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEnv(tt.in))
	}
}

func TestValidate(t *testing.T) {
	base := Default()
	base.Auth.JWTSecret = "s"

	t.Run("valid", func(t *testing.T) {
		cfg := base
		assert.NoError(t, cfg.Validate())
	})
	t.Run("bad port", func(t *testing.T) {
		cfg := base
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})
	t.Run("bad format", func(t *testing.T) {
		cfg := base
		cfg.Log.Format = "xml"
		assert.Error(t, cfg.Validate())
	})
	t.Run("empty db path", func(t *testing.T) {
		cfg := base
		cfg.Database.Path = ""
		assert.Error(t, cfg.Validate())
	})
}
