// Package domain defines interfaces for database introspection.
package domain

import (
	"context"
	"database/sql"
)

// Introspector defines the interface for database introspection.
type Introspector interface {
	// ListTables returns the user tables of the current database or schema,
	// sorted by name.
	ListTables(ctx context.Context, db *sql.DB) ([]string, error)

	// IntrospectTable introspects a single table.
	IntrospectTable(ctx context.Context, db *sql.DB, tableName string) (*Table, error)

	// GetDatabaseVersion returns the bare server version, e.g. "8.0.36".
	GetDatabaseVersion(ctx context.Context, db *sql.DB) (string, error)
}
