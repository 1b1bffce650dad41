// Package connection resolves connection descriptors into connected adapters.
package connection

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/adapters/database/mysql"
	"github.com/dbchat/dbchat/internal/adapters/database/postgres"
	"github.com/dbchat/dbchat/internal/adapters/database/sqlite"
	"github.com/dbchat/dbchat/internal/debug"
)

// Options tune how a descriptor is opened.
type Options struct {
	// ConnectTimeout bounds the probe. Zero means no limit.
	ConnectTimeout time.Duration
	MaxConnections int
	MaxIdleTime    time.Duration
	// SSLMode is applied to PostgreSQL descriptors that do not set sslmode.
	SSLMode string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: 30 * time.Second,
		MaxConnections: 10,
		MaxIdleTime:    5 * time.Minute,
		SSLMode:        "disable",
	}
}

// NewAdapter returns an unconnected adapter for target.
func NewAdapter(target database.Target, opts Options) (database.Adapter, error) {
	cfg := database.Config{
		URL:            target.DSN,
		MaxConnections: opts.MaxConnections,
		MaxIdleTime:    opts.MaxIdleTime,
		ConnectTimeout: opts.ConnectTimeout,
	}

	switch target.Dialect {
	case database.PostgreSQL:
		dsn, err := withSSLMode(target.DSN, opts.SSLMode)
		if err != nil {
			return nil, err
		}
		cfg.URL = dsn
		return postgres.NewPostgresAdapter(cfg), nil
	case database.MySQL:
		return mysql.NewMySQLAdapter(cfg), nil
	case database.SQLite:
		return sqlite.NewSQLiteAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", target.Dialect)
	}
}

// Open parses uri, builds the matching adapter and connects it. The returned
// adapter has passed a probe; on error nothing is left open.
func Open(ctx context.Context, uri string, opts Options) (database.Adapter, error) {
	target, err := database.ParseURI(uri)
	if err != nil {
		return nil, err
	}

	adapter, err := NewAdapter(target, opts)
	if err != nil {
		return nil, err
	}

	debug.Debug("opening database", "dialect", target.Dialect, "uri", database.Redact(uri))
	if err := adapter.Connect(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}

// Opener returns Open bound to opts.
func Opener(opts Options) func(ctx context.Context, uri string) (database.Adapter, error) {
	return func(ctx context.Context, uri string) (database.Adapter, error) {
		return Open(ctx, uri, opts)
	}
}

func withSSLMode(dsn, mode string) (string, error) {
	if mode == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid connection string: %w", err)
	}
	q := u.Query()
	if q.Has("sslmode") {
		return dsn, nil
	}
	q.Set("sslmode", mode)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
