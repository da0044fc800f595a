package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to the environment variable names the CLI reads,
// e.g. RECORDSTORE_DB_PATH.
const EnvPrefix = "RECORDSTORE_"

// Defaults used when neither a flag nor the environment sets a value.
const (
	// DefaultDBPath is the database file, relative to the working directory.
	DefaultDBPath = "./recordstore.db"
	// DefaultBusyTimeout is how long SQLite waits on a locked database.
	DefaultBusyTimeout = 5 * time.Second
	// DefaultMaintenanceCron is the default schedule for periodic maintenance.
	DefaultMaintenanceCron = "@daily"
)

// Config holds the runtime settings of the CLI.
type Config struct {
	DBPath          string
	LogFile         string
	BusyTimeout     time.Duration
	MaintenanceCron string
}

// LoadEnvFiles loads variables from .env style files into the environment
// without overriding variables that are already set. Missing files are
// skipped; with no arguments ".env" is tried.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load builds a Config from loader. The unprefixed DB_PATH variable is used
// when loader has no db.path.
func Load(loader *Loader) Config {
	dbPath := NewLoader(Env{}).String("db.path", DefaultDBPath)

	return Config{
		DBPath:          loader.String("db.path", dbPath),
		LogFile:         loader.String("log.file", ""),
		BusyTimeout:     loader.Duration("db.busy_timeout", DefaultBusyTimeout),
		MaintenanceCron: loader.String("maintenance.cron", DefaultMaintenanceCron),
	}
}
