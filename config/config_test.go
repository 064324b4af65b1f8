package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "eshop", cfg.MongoDB)
	assert.Equal(t, 14, cfg.BcryptCost)
	assert.Empty(t, cfg.RabbitMQURL, "broker is opt-in")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("API_URL", "/api/v2")
	t.Setenv("BCRYPT_COST", "4")

	cfg := LoadConfig()
	assert.Equal(t, "/api/v2", cfg.APIPrefix)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestLoadConfigSecretFile(t *testing.T) {
	secretFile := filepath.Join(t.TempDir(), "jwt_secret")
	require.NoError(t, os.WriteFile(secretFile, []byte("file-secret\n"), 0o600))
	t.Setenv("JWT_SECRET_FILE", secretFile)
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := LoadConfig()
	assert.Equal(t, "file-secret", cfg.JWTSecret, "file wins over env and is trimmed")
}
