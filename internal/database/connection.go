package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Executor is the store surface the record managers depend on.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (ExecResult, error)
	QueryOne(ctx context.Context, query string, args ...any) (Row, error)
	ExecuteTransaction(ctx context.Context, ops []Operation) (*TxResult, error)
}

var _ Executor = (*Store)(nil)

// ExecResult holds the outcome of a single statement. It is captured while
// the connection is still open and stays valid after the handle is released.
type ExecResult struct {
	LastInsertID int64
	RowsAffected int64
}

func newExecResult(res sql.Result) (ExecResult, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to get last insert id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ExecResult{LastInsertID: id, RowsAffected: n}, nil
}

// withConn opens the handle, runs fn and releases the handle on every exit
// path. A close failure is only reported when fn succeeded.
func (s *Store) withConn(ctx context.Context, fn func(conn *sql.DB) error) (err error) {
	if err := s.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s.conn)
}

// Exec runs a single statement in autocommit mode.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (ExecResult, error) {
	var result ExecResult
	err := s.withConn(ctx, func(conn *sql.DB) error {
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
		result, err = newExecResult(res)
		return err
	})
	return result, err
}

// QueryOne runs a read statement and returns its first row. A statement that
// matches nothing yields a nil Row and a nil error.
func (s *Store) QueryOne(ctx context.Context, query string, args ...any) (Row, error) {
	var row Row
	err := s.withConn(ctx, func(conn *sql.DB) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query: %w", err)
		}
		defer rows.Close()

		if !rows.Next() {
			return rows.Err()
		}
		row, err = scanRow(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}
