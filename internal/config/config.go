package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// GoTrue-compatible identity provider (e.g. Supabase Auth).
	IdentityProviderURL string
	IdentityServiceKey  string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment. A missing required
// value is a startup failure, never a per-request one.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppPort: os.Getenv("APP_PORT"),

		IdentityProviderURL: os.Getenv("IDENTITY_PROVIDER_URL"),
		IdentityServiceKey:  os.Getenv("IDENTITY_SERVICE_KEY"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	required := map[string]string{
		"IDENTITY_PROVIDER_URL": cfg.IdentityProviderURL,
		"IDENTITY_SERVICE_KEY":  cfg.IdentityServiceKey,
		"DATABASE_DSN":          cfg.DatabaseDSN,
		"REDIS_ADDR":            cfg.RedisAddr,
	}
	for name, value := range required {
		if value == "" {
			return Config{}, fmt.Errorf("config: %s is required", name)
		}
	}

	return cfg, nil
}
