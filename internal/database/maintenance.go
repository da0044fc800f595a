package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

// Tables lists the record tables, in schema order.
var Tables = []string{"users", "admins", "customers"}

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (s *Store) Optimize(ctx context.Context) error {
	if _, err := s.Exec(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}
	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.Exec(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

// CountRows returns the number of rows in one of Tables.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	if !slices.Contains(Tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int64
	err := s.withConn(ctx, func(conn *sql.DB) error {
		// table is one of the constants above, never caller text.
		return conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
