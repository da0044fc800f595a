package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saltyorg/recordstore/internal/config"
)

const (
	DefaultLogFileName = "recordstore.log"
	DefaultMaxSizeMB   = 10
	DefaultMaxBackups  = 3
	DefaultMaxAgeDays  = 30
	DefaultCompress    = true

	timeFormat = "2006-01-02 15:04:05"
)

// LevelFromVerbosity maps a -v count to a level name.
func LevelFromVerbosity(verbosity int) string {
	switch {
	case verbosity <= 0:
		return "info"
	case verbosity == 1:
		return "debug"
	default:
		return "trace"
	}
}

// Apply sets the global log level and output writers. Console output goes to
// stderr so that stdout only carries command output. When logFilePath is not
// empty, a rotating copy is written there as well. The returned closer
// releases the log file.
func Apply(level string, loader *config.Loader, logFilePath string) io.Closer {
	zerolog.SetGlobalLevel(parseLevel(level))

	consoleOutput := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	log.Logger = zerolog.New(consoleOutput).With().Timestamp().Logger()

	if logFilePath == "" {
		return nopCloser{}
	}

	if err := ensureLogDir(logFilePath); err != nil {
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return nopCloser{}
	}

	fileWriter := newFileWriter(loader, logFilePath)
	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(consoleOutput, fileConsole)).With().Timestamp().Logger()
	return fileWriter
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func newFileWriter(loader *config.Loader, path string) *lumberjack.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   DefaultCompress,
	}

	if loader != nil {
		if val := loader.Int("log.max_size_mb", DefaultMaxSizeMB); val > 0 {
			w.MaxSize = val
		}
		if val := loader.Int("log.max_backups", DefaultMaxBackups); val >= 0 {
			w.MaxBackups = val
		}
		if val := loader.Int("log.max_age_days", DefaultMaxAgeDays); val >= 0 {
			w.MaxAge = val
		}
		w.Compress = loader.Bool("log.compress", DefaultCompress)
	}

	return w
}

// FilePathForDB returns a log file path that lives alongside the database file.
func FilePathForDB(dbPath string) string {
	if dbPath == "" {
		return DefaultLogFileName
	}
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return filepath.Join(filepath.Dir(dbPath), DefaultLogFileName)
	}
	return filepath.Join(filepath.Dir(absDBPath), DefaultLogFileName)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
