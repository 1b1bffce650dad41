package introspection_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/introspection"
	"github.com/dbchat/dbchat/internal/core/introspection/domain"
	"github.com/dbchat/dbchat/internal/core/introspection/mysql"
	"github.com/dbchat/dbchat/internal/core/introspection/postgresql"
	"github.com/dbchat/dbchat/internal/core/introspection/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT
		);
		CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER REFERENCES customers(id) ON DELETE CASCADE,
			total REAL DEFAULT 0
		);
	`)
	require.NoError(t, err)
	return db
}

func TestSQLiteIntrospector(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	in := sqlite.NewIntrospector()

	tables, err := in.ListTables(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)

	orders, err := in.IntrospectTable(ctx, db, "orders")
	require.NoError(t, err)
	require.Len(t, orders.Columns, 3)
	assert.Equal(t, "customer_id", orders.Columns[1].Name)
	assert.True(t, orders.Columns[1].IsNullable)
	assert.False(t, orders.Columns[0].IsNullable)
	require.NotNil(t, orders.Columns[2].DefaultValue)
	assert.Equal(t, "0", *orders.Columns[2].DefaultValue)

	require.NotNil(t, orders.PrimaryKey)
	assert.Equal(t, []string{"id"}, orders.PrimaryKey.Columns)

	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "customers", orders.ForeignKeys[0].ReferencedTable)
	assert.Equal(t, []string{"customer_id"}, orders.ForeignKeys[0].ColumnNames)
	assert.Equal(t, []string{"id"}, orders.ForeignKeys[0].ReferencedColumns)
	assert.Equal(t, domain.Cascade, orders.ForeignKeys[0].OnDelete)

	_, err = in.IntrospectTable(ctx, db, "missing")
	assert.ErrorContains(t, err, "not found")

	version, err := in.GetDatabaseVersion(ctx, db)
	require.NoError(t, err)
	assert.Regexp(t, `^3\.\d+\.\d+$`, version)
}

func TestPostgreSQLIntrospector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	in := postgresql.NewIntrospector()

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("customers").AddRow("orders"))

	tables, err := in.ListTables(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"customers", "orders"}, tables)

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default", "ordinal_position"}).
			AddRow("id", "integer", "NO", "nextval('orders_id_seq'::regclass)", 1).
			AddRow("customer_id", "integer", "YES", nil, 2))
	mock.ExpectQuery("constraint_type = 'PRIMARY KEY'").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name"}).AddRow("orders_pkey", "id"))
	mock.ExpectQuery("constraint_type = 'FOREIGN KEY'").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "foreign_table_name", "foreign_column_name", "delete_rule"}).
			AddRow("orders_customer_id_fkey", "customer_id", "customers", "id", "NO ACTION"))

	table, err := in.IntrospectTable(ctx, db, "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders_pkey", table.PrimaryKey.Name)
	assert.Len(t, table.Columns, 2)
	assert.Nil(t, table.Columns[1].DefaultValue)
	require.Len(t, table.ForeignKeys, 1)
	assert.Equal(t, domain.NoAction, table.ForeignKeys[0].OnDelete)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW server_version")).
		WillReturnRows(sqlmock.NewRows([]string{"server_version"}).AddRow("16.2 (Debian 16.2-1.pgdg120+2)"))

	version, err := in.GetDatabaseVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "16.2", version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLIntrospector(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	in := mysql.NewIntrospector()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "column_type", "is_nullable", "column_default", "ordinal_position", "column_key"}).
			AddRow("id", "int", "NO", nil, 1, "PRI").
			AddRow("note", "varchar(255)", "YES", nil, 2, ""))
	mock.ExpectQuery("FROM information_schema.key_column_usage").
		WithArgs("orders").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "referenced_table_name", "referenced_column_name", "delete_rule"}))

	table, err := in.IntrospectTable(ctx, db, "orders")
	require.NoError(t, err)
	assert.Equal(t, "VARCHAR(255)", table.Columns[1].Type)
	assert.Equal(t, []string{"id"}, table.PrimaryKey.Columns)
	assert.Empty(t, table.ForeignKeys)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT VERSION()")).
		WillReturnRows(sqlmock.NewRows([]string{"VERSION()"}).AddRow("8.0.36-0ubuntu0.22.04.1"))

	version, err := in.GetDatabaseVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "8.0.36", version)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFor(t *testing.T) {
	for _, dialect := range []database.SQLDialect{database.PostgreSQL, database.MySQL, database.SQLite} {
		in, err := introspection.For(dialect)
		require.NoError(t, err)
		assert.NotNil(t, in)
	}

	_, err := introspection.For("oracle")
	assert.Error(t, err)
}
