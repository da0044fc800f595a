package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Migrate creates the schema if it is absent. Applied versions are recorded
// in schema_migrations, so running it again is a no-op.
func (s *Store) Migrate(ctx context.Context) error {
	log.Debug().Str("path", s.path).Msg("Running database migrations")

	return s.withConn(ctx, func(conn *sql.DB) error {
		_, err := conn.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}

		var currentVersion int
		err = conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
		if err != nil {
			return fmt.Errorf("failed to get current migration version: %w", err)
		}

		log.Trace().Int("current_version", currentVersion).Msg("Current schema version")

		for _, m := range migrations {
			if m.Version <= currentVersion {
				continue
			}

			log.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applying migration")

			err := transaction(ctx, conn, func(tx *sql.Tx) error {
				for i, stmt := range splitSQLStatements(m.SQL) {
					if _, err := tx.ExecContext(ctx, stmt); err != nil {
						return fmt.Errorf("migration %d statement %d failed: %w", m.Version, i+1, err)
					}
				}

				if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
					return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
}

type migration struct {
	Version int
	Name    string
	SQL     string
}

// splitSQLStatements splits a SQL script into statements on trailing
// semicolons, dropping blank lines and "--" comments.
func splitSQLStatements(script string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(current.String()); stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}

// The tables use IF NOT EXISTS so that databases created before
// schema_migrations existed are adopted rather than rejected.
var migrations = []migration{
	{
		Version: 1,
		Name:    "initial_schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL,
				email TEXT NOT NULL
			);

			-- Admins and customers duplicate username/email; no foreign key to users
			CREATE TABLE IF NOT EXISTS admins (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL,
				email TEXT NOT NULL,
				admin_level INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS customers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL,
				email TEXT NOT NULL,
				loyalty_points INTEGER NOT NULL
			);
		`,
	},
}
