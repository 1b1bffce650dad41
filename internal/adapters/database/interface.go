// Package database defines database adapter interfaces.
package database

import (
	"context"
	"database/sql"
	"time"
)

// Adapter defines the database adapter interface.
type Adapter interface {
	// Connect opens the pool and probes it once.
	Connect(ctx context.Context) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// Execute executes a SQL statement.
	Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetDialect returns the SQL dialect.
	GetDialect() SQLDialect

	// DB returns the underlying pool, nil before Connect.
	DB() *sql.DB
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL dialect.
	PostgreSQL SQLDialect = "postgres"
	// MySQL dialect.
	MySQL SQLDialect = "mysql"
	// SQLite dialect.
	SQLite SQLDialect = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	// URL is the driver DSN, not the user-facing descriptor.
	URL            string
	MaxConnections int
	MaxIdleTime    time.Duration
	// ConnectTimeout bounds the initial probe. Zero means no limit.
	ConnectTimeout time.Duration
}
