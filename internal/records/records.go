// Package records manages user, admin and customer rows on top of a
// database.Executor.
package records

import (
	"fmt"
	"strings"

	"github.com/saltyorg/recordstore/internal/database"
)

// User is a row of the users table.
type User struct {
	ID       int64
	Username string
	Email    string
}

// Admin is a row of the admins table.
type Admin struct {
	ID         int64
	Username   string
	Email      string
	AdminLevel int64
}

// Customer is a row of the customers table.
type Customer struct {
	ID            int64
	Username      string
	Email         string
	LoyaltyPoints int64
}

// Manager is the entrypoint for record access across the app.
type Manager struct {
	Users     *UserManager
	Admins    *AdminManager
	Customers *CustomerManager
}

// NewManager wires the record managers to one executor.
func NewManager(db database.Executor) *Manager {
	return &Manager{
		Users:     NewUserManager(db),
		Admins:    NewAdminManager(db),
		Customers: NewCustomerManager(db),
	}
}

// insertRecord builds an INSERT for table. table and columns must be
// constants; only values are bound.
func insertRecord(table string, columns []string, values ...any) database.Operation {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders)
	return database.Op(stmt, values...)
}

var userColumns = []string{"username", "email"}

func insertUser(username, email string) database.Operation {
	return insertRecord("users", userColumns, username, email)
}

// lastInsertID returns the id generated by the operation at index i.
func lastInsertID(res *database.TxResult, i int) (int64, error) {
	if res == nil || i >= len(res.Results) {
		return 0, fmt.Errorf("missing result for operation %d", i+1)
	}
	return res.Results[i].LastInsertID, nil
}
