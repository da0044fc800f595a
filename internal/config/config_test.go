package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnv_Name(t *testing.T) {
	assert.Equal(t, "RECORDSTORE_LOG_MAX_SIZE_MB", Env{Prefix: EnvPrefix}.Name("log.max_size_mb"))
	assert.Equal(t, "DB_BUSY_TIMEOUT", Env{}.Name("db.busy-timeout"))
}

func TestLoader(t *testing.T) {
	t.Setenv("RECORDSTORE_LOG_MAX_SIZE_MB", "12")
	t.Setenv("RECORDSTORE_LOG_MAX_BACKUPS", "many")
	t.Setenv("RECORDSTORE_LOG_COMPRESS", "false")
	t.Setenv("RECORDSTORE_DB_BUSY_TIMEOUT", "250ms")

	l := NewLoader(Env{Prefix: EnvPrefix})

	assert.Equal(t, 12, l.Int("log.max_size_mb", 50))
	assert.Equal(t, 5, l.Int("log.max_backups", 5), "invalid value falls back")
	assert.False(t, l.Bool("log.compress", true))
	assert.True(t, l.Bool("log.unset", true))
	assert.Equal(t, 250*time.Millisecond, l.Duration("db.busy_timeout", time.Second))
	assert.Equal(t, "fallback", l.String("log.file", "fallback"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("RECORDSTORE_DB_PATH", "")

	cfg := Load(NewLoader(Env{Prefix: EnvPrefix}))

	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultBusyTimeout, cfg.BusyTimeout)
	assert.Equal(t, DefaultMaintenanceCron, cfg.MaintenanceCron)
	assert.Empty(t, cfg.LogFile)
}

func TestLoad_DBPathPrecedence(t *testing.T) {
	t.Setenv("DB_PATH", "/data/plain.db")
	t.Setenv("RECORDSTORE_DB_PATH", "")

	l := NewLoader(Env{Prefix: EnvPrefix})
	assert.Equal(t, "/data/plain.db", Load(l).DBPath)

	t.Setenv("RECORDSTORE_DB_PATH", "/data/prefixed.db")
	assert.Equal(t, "/data/prefixed.db", Load(l).DBPath)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RECORDSTORE_TEST_FROM_FILE=loaded\nRECORDSTORE_TEST_PRESET=file\n"), 0o600))

	t.Setenv("RECORDSTORE_TEST_PRESET", "env")
	t.Setenv("RECORDSTORE_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("RECORDSTORE_TEST_FROM_FILE"))

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))

	assert.Equal(t, "loaded", os.Getenv("RECORDSTORE_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("RECORDSTORE_TEST_PRESET"), "existing variables win")
}
