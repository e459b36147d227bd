// Package config provides configuration loading for coinboard.
package config

import (
	"fmt"
	"time"
)

// Config is the fully resolved configuration. It is constructed once at
// startup and passed into each component; nothing reads the environment
// after load time.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Log         LogConfig         `koanf:"log"`
	Database    DatabaseConfig    `koanf:"database"`
	Auth        AuthConfig        `koanf:"auth"`
	CoinGecko   CoinGeckoConfig   `koanf:"coingecko"`
	CryptoPanic CryptoPanicConfig `koanf:"cryptopanic"`
	OpenRouter  LLMConfig         `koanf:"openrouter"`
	HuggingFace LLMConfig         `koanf:"huggingface"`
	Reddit      RedditConfig      `koanf:"reddit"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// DatabaseConfig holds the sqlite database location.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// CoinGeckoConfig holds settings for the market-data provider.
type CoinGeckoConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// CryptoPanicConfig holds settings for the news provider.
type CryptoPanicConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// LLMConfig holds settings for one OpenAI-compatible completion provider.
// An empty APIKey means the provider is not configured and its tier is
// skipped.
type LLMConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// RedditConfig holds settings for the meme feed.
type RedditConfig struct {
	BaseURL    string        `koanf:"base_url"`
	AltBaseURL string        `koanf:"alt_base_url"`
	Subreddit  string        `koanf:"subreddit"`
	Timeout    time.Duration `koanf:"timeout"`
}

// Default returns the baseline configuration. File and environment values
// overlay these.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path: "coinboard.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		CoinGecko: CoinGeckoConfig{
			BaseURL: "https://api.coingecko.com/api/v3",
			Timeout: 15 * time.Second,
		},
		CryptoPanic: CryptoPanicConfig{
			BaseURL: "https://cryptopanic.com/api/v1",
			Timeout: 10 * time.Second,
		},
		OpenRouter: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "meta-llama/llama-3.2-3b-instruct:free",
			Timeout: 10 * time.Second,
		},
		HuggingFace: LLMConfig{
			BaseURL: "https://router.huggingface.co/v1",
			Model:   "meta-llama/Llama-3.2-3B-Instruct",
			Timeout: 20 * time.Second,
		},
		Reddit: RedditConfig{
			BaseURL:    "https://www.reddit.com",
			AltBaseURL: "https://old.reddit.com",
			Subreddit:  "cryptocurrencymemes",
			Timeout:    10 * time.Second,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	return nil
}
