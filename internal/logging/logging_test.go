package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/recordstore/internal/config"
)

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, "info", LevelFromVerbosity(0))
	assert.Equal(t, "debug", LevelFromVerbosity(1))
	assert.Equal(t, "trace", LevelFromVerbosity(2))
	assert.Equal(t, "trace", LevelFromVerbosity(5))
}

func TestFilePathForDB(t *testing.T) {
	assert.Equal(t, DefaultLogFileName, FilePathForDB(""))
	assert.Equal(t, filepath.Join("/data", DefaultLogFileName), FilePathForDB("/data/records.db"))
}

func TestApply_WritesLogFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	t.Setenv("RECORDSTORE_LOG_MAX_SIZE_MB", "1")
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	closer := Apply("debug", config.NewLoader(config.Env{Prefix: config.EnvPrefix}), path)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log.Debug().Str("table", "users").Msg("written to file")
	log.Trace().Msg("filtered out")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "table=users")
	assert.NotContains(t, string(data), "filtered out")
}

func TestApply_ConsoleOnly(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	closer := Apply("bogus", nil, "")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.NoError(t, closer.Close())
}
