// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"context"

	"github.com/dbchat/dbchat/internal/adapters/database"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	*database.Base
	config database.Config
}

// NewSQLiteAdapter creates a new SQLite adapter. config.URL is a file path
// or ":memory:".
func NewSQLiteAdapter(config database.Config) *SQLiteAdapter {
	// A single connection keeps writes serialized and makes ":memory:"
	// databases visible to every query.
	config.MaxConnections = 1
	return &SQLiteAdapter{
		Base:   database.NewBase(nil, database.SQLite),
		config: config,
	}
}

// Connect opens the database file. No statements are run on connect.
func (a *SQLiteAdapter) Connect(ctx context.Context) error {
	db, err := database.OpenPool(ctx, "sqlite3", a.config)
	if err != nil {
		return err
	}
	a.Attach(db, database.SQLite)
	return nil
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
