package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port               int    `env:"PORT" envDefault:"8080"`
	DatabaseURL        string `env:"DATABASE_URL,required"`
	RedisURL           string `env:"REDIS_URL,required"`
	AdminAPIKey        string `env:"ADMIN_API_KEY"`
	SessionSecret      string `env:"SESSION_SECRET"`
	SessionTTLSeconds  int    `env:"SESSION_TTL_SECONDS" envDefault:"43200"`
	ScanRateLimitPerMin int   `env:"SCAN_RATE_LIMIT_PER_MIN" envDefault:"120"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if c.AdminAPIKey == "" {
			log.Warn().Msg("ADMIN_API_KEY is empty in production: admin endpoints disabled")
		}
		if len(c.AdminAPIKey) > 0 && len(c.AdminAPIKey) < 32 {
			return fmt.Errorf("ADMIN_API_KEY must be at least 32 characters in production (generate with: openssl rand -hex 32)")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
