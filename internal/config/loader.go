package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces coinboard environment variables.
const envPrefix = "COINBOARD_"

// sections are the top-level config groups an environment variable can
// address. The transformer needs them because key names themselves contain
// underscores (jwt_secret, base_url).
var sections = []string{
	"server", "log", "database", "auth",
	"coingecko", "cryptopanic", "openrouter", "huggingface", "reddit",
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
//
// Environment variables use the COINBOARD_ prefix with an underscore after
// the section name:
//
//	COINBOARD_SERVER_PORT         -> server.port
//	COINBOARD_AUTH_JWT_SECRET     -> auth.jwt_secret
//	COINBOARD_COINGECKO_API_KEY   -> coingecko.api_key
//
// configPath may be empty, in which case only defaults and environment
// variables apply.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnv), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// transformEnv maps COINBOARD_SECTION_KEY_NAME to section.key_name.
func transformEnv(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(s, section+"_") {
			return section + "." + strings.TrimPrefix(s, section+"_")
		}
	}
	return s
}
