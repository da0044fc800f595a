package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ops, err := Parse([]byte(`
operations:
  - statement: INSERT INTO users (username, email) VALUES (?, ?)
    params: [user1, user1@example.com]
  - statement: "  INSERT INTO customers (username, email, loyalty_points) VALUES (?, ?, ?)  "
    params: [user1, user1@example.com, 100]
  - statement: DELETE FROM admins WHERE admin_level IS ?
    params: [null]
`))
	require.NoError(t, err)
	require.Len(t, ops, 3)

	assert.Equal(t, "INSERT INTO users (username, email) VALUES (?, ?)", ops[0].Statement)
	assert.Equal(t, []any{"user1", "user1@example.com"}, ops[0].Params)

	assert.Equal(t, "INSERT INTO customers (username, email, loyalty_points) VALUES (?, ?, ?)", ops[1].Statement)
	assert.Equal(t, 100, ops[1].Params[2])

	assert.Equal(t, []any{nil}, ops[2].Params)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no operations", "operations: []\n", "no operations"},
		{"empty statement", "operations:\n  - statement: ''\n", "operation 1: empty statement"},
		{"nested param", "operations:\n  - statement: SELECT ?\n    params: [[1, 2]]\n", "parameter 1: unsupported type"},
		{"invalid yaml", "operations: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operations:\n  - statement: SELECT 1\n"), 0o644))

	ops, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Empty(t, ops[0].Params)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
