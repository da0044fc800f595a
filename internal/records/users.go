package records

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/recordstore/internal/database"
)

// UserManager handles rows of the users table.
type UserManager struct {
	db database.Executor
}

// NewUserManager creates a UserManager.
func NewUserManager(db database.Executor) *UserManager {
	return &UserManager{db: db}
}

// Add inserts a user record.
func (m *UserManager) Add(ctx context.Context, username, email string) (*User, error) {
	op := insertUser(username, email)
	res, err := m.db.Exec(ctx, op.Statement, op.Params...)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Debug().Int64("id", res.LastInsertID).Str("username", username).Msg("User created")

	return &User{ID: res.LastInsertID, Username: username, Email: email}, nil
}

// AddMany inserts users in a single transaction: either all of them are
// stored or none is.
func (m *UserManager) AddMany(ctx context.Context, users []User) ([]*User, error) {
	ops := make([]database.Operation, len(users))
	for i, u := range users {
		ops[i] = insertUser(u.Username, u.Email)
	}

	res, err := m.db.ExecuteTransaction(ctx, ops)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}

	created := make([]*User, len(users))
	for i, u := range users {
		id, err := lastInsertID(res, i)
		if err != nil {
			return nil, err
		}
		created[i] = &User{ID: id, Username: u.Username, Email: u.Email}
	}
	return created, nil
}

// GetByID retrieves a user by ID. It returns nil when no user matches.
func (m *UserManager) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := m.db.QueryOne(ctx, "SELECT id, username, email FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userFromRow(row), nil
}

// GetByUsername retrieves the first user with the given username. It
// returns nil when no user matches.
func (m *UserManager) GetByUsername(ctx context.Context, username string) (*User, error) {
	row, err := m.db.QueryOne(ctx, "SELECT id, username, email FROM users WHERE username = ? ORDER BY id", username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return userFromRow(row), nil
}

// Delete removes a user by ID. Deleting a missing user is not an error.
func (m *UserManager) Delete(ctx context.Context, id int64) error {
	if _, err := m.db.Exec(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func userFromRow(row database.Row) *User {
	if row == nil {
		return nil
	}
	return &User{
		ID:       row.Int64("id"),
		Username: row.String("username"),
		Email:    row.String("email"),
	}
}
