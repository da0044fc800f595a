// Package batch reads transaction files: YAML documents listing the
// statements to run, in order, as one transaction.
//
//	operations:
//	  - statement: INSERT INTO users (username, email) VALUES (?, ?)
//	    params: [user1, user1@example.com]
package batch

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saltyorg/recordstore/internal/database"
)

// File is the document layout of a batch file.
type File struct {
	Operations []Entry `yaml:"operations"`
}

// Entry is one statement of a batch file.
type Entry struct {
	Statement string `yaml:"statement"`
	Params    []any  `yaml:"params"`
}

// Load reads and parses the batch file at path.
func Load(path string) ([]database.Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a batch document into operations.
func Parse(data []byte) ([]database.Operation, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(f.Operations) == 0 {
		return nil, fmt.Errorf("batch file has no operations")
	}

	ops := make([]database.Operation, len(f.Operations))
	for i, e := range f.Operations {
		stmt := strings.TrimSpace(e.Statement)
		if stmt == "" {
			return nil, fmt.Errorf("operation %d: empty statement", i+1)
		}
		for j, p := range e.Params {
			if !isScalar(p) {
				return nil, fmt.Errorf("operation %d: parameter %d: unsupported type %T", i+1, j+1, p)
			}
		}
		ops[i] = database.Op(stmt, e.Params...)
	}
	return ops, nil
}

// isScalar reports whether yaml decoded p into a value the driver can bind.
func isScalar(p any) bool {
	switch p.(type) {
	case nil, string, int, int64, uint64, float64, bool, time.Time:
		return true
	}
	return false
}
