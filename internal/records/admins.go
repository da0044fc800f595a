package records

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/recordstore/internal/database"
)

var adminColumns = []string{"username", "email", "admin_level"}

// AdminManager handles rows of the admins table.
type AdminManager struct {
	db database.Executor
}

// NewAdminManager creates an AdminManager.
func NewAdminManager(db database.Executor) *AdminManager {
	return &AdminManager{db: db}
}

// Add inserts a users row and an admins row in one transaction, so a failed
// admins insert leaves no users row behind.
func (m *AdminManager) Add(ctx context.Context, username, email string, level int64) (*Admin, error) {
	res, err := m.db.ExecuteTransaction(ctx, []database.Operation{
		insertUser(username, email),
		insertRecord("admins", adminColumns, username, email, level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	id, err := lastInsertID(res, 1)
	if err != nil {
		return nil, err
	}

	log.Debug().Int64("id", id).Str("username", username).Int64("admin_level", level).Msg("Admin created")

	return &Admin{ID: id, Username: username, Email: email, AdminLevel: level}, nil
}

// GetByID retrieves an admin by ID. It returns nil when no admin matches.
func (m *AdminManager) GetByID(ctx context.Context, id int64) (*Admin, error) {
	row, err := m.db.QueryOne(ctx, "SELECT id, username, email, admin_level FROM admins WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return &Admin{
		ID:         row.Int64("id"),
		Username:   row.String("username"),
		Email:      row.String("email"),
		AdminLevel: row.Int64("admin_level"),
	}, nil
}

// Delete removes an admins row. The users row created alongside it is kept.
func (m *AdminManager) Delete(ctx context.Context, id int64) error {
	if _, err := m.db.Exec(ctx, "DELETE FROM admins WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	return nil
}
