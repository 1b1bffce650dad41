// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"context"

	"github.com/dbchat/dbchat/internal/adapters/database"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	*database.Base
	config database.Config
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) *PostgresAdapter {
	return &PostgresAdapter{
		Base:   database.NewBase(nil, database.PostgreSQL),
		config: config,
	}
}

// Connect establishes a connection to the PostgreSQL database.
func (a *PostgresAdapter) Connect(ctx context.Context) error {
	db, err := database.OpenPool(ctx, "postgres", a.config)
	if err != nil {
		return err
	}
	a.Attach(db, database.PostgreSQL)
	return nil
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
