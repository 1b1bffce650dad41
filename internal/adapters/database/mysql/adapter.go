// Package mysql implements MySQL database adapter.
package mysql

import (
	"context"

	"github.com/dbchat/dbchat/internal/adapters/database"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	*database.Base
	config database.Config
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) *MySQLAdapter {
	return &MySQLAdapter{
		Base:   database.NewBase(nil, database.MySQL),
		config: config,
	}
}

// Connect establishes a connection to the MySQL database.
func (a *MySQLAdapter) Connect(ctx context.Context) error {
	db, err := database.OpenPool(ctx, "mysql", a.config)
	if err != nil {
		return err
	}
	a.Attach(db, database.MySQL)
	return nil
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
