package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotConnected is returned by adapter operations before Connect succeeds.
var ErrNotConnected = errors.New("database not connected")

// Base implements Adapter over an already opened *sql.DB. Dialect adapters
// embed it and provide their own Connect.
type Base struct {
	db      *sql.DB
	dialect SQLDialect
}

// NewBase wraps an open pool.
func NewBase(db *sql.DB, dialect SQLDialect) *Base {
	return &Base{db: db, dialect: dialect}
}

// Connect probes the wrapped pool.
func (b *Base) Connect(ctx context.Context) error {
	if b.db == nil {
		return ErrNotConnected
	}
	return Probe(ctx, b.db)
}

// Attach stores the pool after a dialect adapter opened it.
func (b *Base) Attach(db *sql.DB, dialect SQLDialect) {
	b.db = db
	b.dialect = dialect
}

// Disconnect closes the database connection.
func (b *Base) Disconnect(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Execute executes a query without returning rows.
func (b *Base) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if b.db == nil {
		return nil, ErrNotConnected
	}
	return b.db.ExecContext(ctx, query, args...)
}

// Query executes a query that returns rows.
func (b *Base) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if b.db == nil {
		return nil, ErrNotConnected
	}
	return b.db.QueryContext(ctx, query, args...)
}

// Ping checks if the database connection is alive.
func (b *Base) Ping(ctx context.Context) error {
	if b.db == nil {
		return ErrNotConnected
	}
	return b.db.PingContext(ctx)
}

// GetDialect returns the SQL dialect.
func (b *Base) GetDialect() SQLDialect {
	return b.dialect
}

// DB returns the underlying pool.
func (b *Base) DB() *sql.DB {
	return b.db
}

// OpenPool opens a pool for driverName, applies the pool settings from cfg
// and probes it. The pool is closed again when the probe fails.
func OpenPool(ctx context.Context, driverName string, cfg Config) (*sql.DB, error) {
	db, err := sql.Open(driverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(max(cfg.MaxConnections/2, 1))
	}
	if cfg.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.MaxIdleTime)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := Probe(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Ensure Base implements Adapter interface.
var _ Adapter = (*Base)(nil)
