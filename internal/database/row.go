package database

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Row is a single fetched row keyed by column name.
type Row map[string]any

func scanRow(rows *sql.Rows) (Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	row := make(Row, len(cols))
	for i, col := range cols {
		// The driver may reuse byte slices between rows.
		if b, ok := values[i].([]byte); ok {
			values[i] = append([]byte(nil), b...)
		}
		row[col] = values[i]
	}
	return row, nil
}

// Int64 returns the column as an integer, or 0 when it is NULL or missing.
// REAL values are truncated toward zero and text that does not parse as a
// base-10 integer yields 0. Callers that must tell 0 from "not an integer"
// should read r[col] directly.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	}
	return 0
}

// String returns the column as text, or "" when it is NULL or missing.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
