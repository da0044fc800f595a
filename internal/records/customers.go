package records

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/recordstore/internal/database"
)

var customerColumns = []string{"username", "email", "loyalty_points"}

// CustomerManager handles rows of the customers table.
type CustomerManager struct {
	db database.Executor
}

// NewCustomerManager creates a CustomerManager that runs its statements on db.
func NewCustomerManager(db database.Executor) *CustomerManager {
	return &CustomerManager{db: db}
}

// Add inserts a users row and a customers row in one transaction.
func (m *CustomerManager) Add(ctx context.Context, username, email string, points int64) (*Customer, error) {
	res, err := m.db.ExecuteTransaction(ctx, []database.Operation{
		insertUser(username, email),
		insertRecord("customers", customerColumns, username, email, points),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := lastInsertID(res, 1)
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("id", id).Str("username", username).Int64("loyalty_points", points).Msg("Customer created")

	return &Customer{ID: id, Username: username, Email: email, LoyaltyPoints: points}, nil
}

// GetByID returns the customer with the given id, or nil when there is none.
func (m *CustomerManager) GetByID(ctx context.Context, id int64) (*Customer, error) {
	row, err := m.db.QueryOne(ctx, "SELECT id, username, email, loyalty_points FROM customers WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return &Customer{
		ID:            row.Int64("id"),
		Username:      row.String("username"),
		Email:         row.String("email"),
		LoyaltyPoints: row.Int64("loyalty_points"),
	}, nil
}

// Delete removes the customers row. The matching users row is kept, and a
// missing id is not an error.
func (m *CustomerManager) Delete(ctx context.Context, id int64) error {
	if _, err := m.db.Exec(ctx, "DELETE FROM customers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
