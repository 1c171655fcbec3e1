package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("IDENTITY_PROVIDER_URL", "http://localhost:9999/auth/v1")
	t.Setenv("IDENTITY_SERVICE_KEY", "service-key")
	t.Setenv("DATABASE_DSN", "postgres://localhost/estude?sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "http://localhost:9999/auth/v1", cfg.IdentityProviderURL)
	assert.Equal(t, "service-key", cfg.IdentityServiceKey)
}

func TestLoadDefaultsPort(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
}

func TestLoadFailsOnMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("IDENTITY_PROVIDER_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDENTITY_PROVIDER_URL")
}
