package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbchat/dbchat/internal/debug"
)

// Probe acquires a single connection from db, pings it and hands it back to
// the pool. It runs no SQL of its own.
func Probe(ctx context.Context, db *sql.DB) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	debug.Debug("probe connection released")
	return nil
}
