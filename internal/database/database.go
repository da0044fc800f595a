package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long SQLite waits on a locked database file.
const DefaultBusyTimeout = 5 * time.Second

// Store owns the SQLite connection handle. The handle is created lazily and
// released after every public operation, so at most one is live at a time.
//
// A Store is not safe for concurrent use.
type Store struct {
	path        string
	busyTimeout time.Duration
	conn        *sql.DB
}

// Option configures a Store.
type Option func(*Store)

// WithBusyTimeout overrides DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// New creates a store for the database file at path. No connection is made
// until the first operation.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:        path,
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

func (s *Store) dsn() string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", s.path, s.busyTimeout.Milliseconds())
}

// Open creates the connection handle if none is live. Calling it on an open
// store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	conn, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One handle, one connection: a transaction and the statements inside it
	// must share it.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.conn = conn
	log.Trace().Str("path", s.path).Msg("Database connection opened")
	return nil
}

// Close releases the connection handle if one is live. Calling it on a
// closed store is a no-op.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Trace().Str("path", s.path).Msg("Database connection closed")
	return nil
}

// IsOpen reports whether a connection handle is live.
func (s *Store) IsOpen() bool {
	return s.conn != nil
}
