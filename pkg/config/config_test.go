package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "booking-events", cfg.RedisStream)
	assert.Equal(t, 2, cfg.DispatchWorkers)
	assert.Equal(t, time.Minute, cfg.AcceptRateWindow())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())
	require.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
storage: memory
dispatch_workers: 4
redis_addr: "localhost:6379"
`), 0o600))
	t.Setenv("DISPATCH_WORKERS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 8, cfg.DispatchWorkers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateNamesEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.DatabaseURL = ""
	cfg.JWTSecret = ""
	cfg.WebhookURL = "http://example.test/hook"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "WEBHOOK_SECRET")

	cfg.Storage = "sqlite"
	assert.Contains(t, cfg.Validate().Error(), "STORAGE")
}
