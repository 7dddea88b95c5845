package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides. Nested keys use a
// double underscore: LUMEN_MAIL__API_KEY -> mail.api_key.
const EnvPrefix = "LUMEN_"

// Load reads configuration from the given YAML file, then a .env file in the
// working directory (if any), then overlays LUMEN_* environment variables and
// the conventional provider key variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// .env never overrides variables already present in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	applyKeyFallbacks(cfg)
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// applyKeyFallbacks fills provider credentials from their conventional
// environment variables when the config leaves them empty.
func applyKeyFallbacks(cfg *Config) {
	if cfg.Mail.APIKey == "" {
		cfg.Mail.APIKey = os.Getenv("MAILGUN_API_KEY")
	}
	if cfg.Mail.Domain == "" {
		cfg.Mail.Domain = os.Getenv("MAILGUN_DOMAIN")
	}
	if cfg.Chat.APIKey == "" {
		if name := APIKeyEnvVar(cfg.Chat.Provider); name != "" {
			cfg.Chat.APIKey = os.Getenv(name)
		}
	}
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validChatProviders = map[ChatProvider]bool{
	ChatOpenAI:     true,
	ChatOpenRouter: true,
}

// Validate checks that the configuration contains valid values. Missing
// credentials are not errors: the features they gate are simply disabled.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid site.base_url %q", c.Site.BaseURL)
		}
	}

	if c.Chat.Provider != "" && !validChatProviders[c.Chat.Provider] {
		return fmt.Errorf("invalid chat.provider %q: must be one of openai, openrouter", c.Chat.Provider)
	}
	if c.Chat.RatePerMinute < 0 {
		return fmt.Errorf("chat.rate_per_minute must be non-negative")
	}

	if c.Mail.IsConfigured() {
		if c.Mail.FromEmail == "" {
			return fmt.Errorf("mail.from_email is required when mail is configured")
		}
		if c.Mail.ContactInbox == "" || c.Mail.CareersInbox == "" {
			return fmt.Errorf("mail.contact_inbox and mail.careers_inbox are required when mail is configured")
		}
	}

	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	if c.Storage.JWTSecret == "" {
		return fmt.Errorf("storage.jwt_secret is required")
	}

	if c.Relay.RatePerMinute < 0 || c.Relay.Burst < 0 {
		return fmt.Errorf("relay rate limits must be non-negative")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given chat provider.
func APIKeyEnvVar(provider ChatProvider) string {
	switch provider {
	case ChatOpenAI:
		return "OPENAI_API_KEY"
	case ChatOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
