package connection

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample_store.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	adapter, err := Open(context.Background(), "sqlite:///"+path, DefaultOptions())
	require.NoError(t, err)
	defer adapter.Disconnect(context.Background())

	assert.Equal(t, database.SQLite, adapter.GetDialect())
	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestOpenUnreachablePostgres(t *testing.T) {
	opts := DefaultOptions()
	opts.ConnectTimeout = 2 * time.Second

	uri, err := database.BuildURI(database.KindPostgres, database.Fields{
		Host: "bad-host.invalid", User: "postgres", Password: "pw", Database: "app", Port: "5432",
	})
	require.NoError(t, err)

	adapter, err := Open(context.Background(), uri, opts)
	require.Error(t, err)
	assert.Nil(t, adapter)
	assert.NotContains(t, err.Error(), "pw@")
}

func TestOpenMalformed(t *testing.T) {
	_, err := Open(context.Background(), "postgresql+psycopg2://u:p@h:port/db", DefaultOptions())
	assert.ErrorContains(t, err, "invalid connection string")

	_, err = Open(context.Background(), "mssql://u:p@h:1433/db", DefaultOptions())
	assert.ErrorContains(t, err, "unsupported connection scheme")
}

func TestWithSSLMode(t *testing.T) {
	got, err := withSSLMode("postgres://u:p@h:5432/db", "disable")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", got)

	got, err = withSSLMode("postgres://u:p@h:5432/db?sslmode=require", "disable")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=require", got)

	got, err = withSSLMode("postgres://u:p@h/db", "")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", got)
}

func TestNewAdapterDialects(t *testing.T) {
	for _, dialect := range []database.SQLDialect{database.PostgreSQL, database.MySQL, database.SQLite} {
		adapter, err := NewAdapter(database.Target{Dialect: dialect, DSN: "postgres://h/db"}, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, dialect, adapter.GetDialect())
		assert.Nil(t, adapter.DB())
	}

	_, err := NewAdapter(database.Target{Dialect: "oracle"}, DefaultOptions())
	assert.Error(t, err)
}
