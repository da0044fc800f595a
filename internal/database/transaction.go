package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Operation is a statement with its positional parameters.
type Operation struct {
	Statement string
	Params    []any
}

// Op builds an Operation.
func Op(statement string, params ...any) Operation {
	return Operation{Statement: statement, Params: params}
}

// TxResult describes a committed transaction.
type TxResult struct {
	// ID correlates log lines of one transaction.
	ID      string
	Results []ExecResult
}

// OperationError reports the operation that aborted a transaction.
type OperationError struct {
	Index     int
	Statement string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %d failed: %v", e.Index+1, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// ExecuteTransaction runs ops in order on one connection and commits when
// all of them succeed. Any failure rolls the whole batch back and is returned
// to the caller; the connection is released in every case.
func (s *Store) ExecuteTransaction(ctx context.Context, ops []Operation) (*TxResult, error) {
	result := &TxResult{
		ID:      uuid.NewString(),
		Results: make([]ExecResult, 0, len(ops)),
	}
	logger := log.With().Str("tx_id", result.ID).Int("operations", len(ops)).Logger()

	err := s.withConn(ctx, func(conn *sql.DB) error {
		return transaction(ctx, conn, func(tx *sql.Tx) error {
			for i, op := range ops {
				res, err := tx.ExecContext(ctx, op.Statement, op.Params...)
				if err != nil {
					return &OperationError{Index: i, Statement: op.Statement, Err: err}
				}
				r, err := newExecResult(res)
				if err != nil {
					return &OperationError{Index: i, Statement: op.Statement, Err: err}
				}
				result.Results = append(result.Results, r)
			}
			return nil
		})
	})
	if err != nil {
		event := logger.Error().Err(err)
		var opErr *OperationError
		if errors.As(err, &opErr) {
			event = event.Int("operation", opErr.Index+1)
		}
		event.Msg("Transaction failed, rolled back")
		return nil, err
	}

	logger.Debug().Msg("Transaction committed")
	return result, nil
}

// transaction wraps fn in a database transaction. The rollback error, if any,
// is joined onto fn's error.
func transaction(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		// ErrTxDone means database/sql already rolled back on ctx cancellation.
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
