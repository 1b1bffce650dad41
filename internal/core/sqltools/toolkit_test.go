package sqltools

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/adapters/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) database.Adapter {
	t.Helper()
	ctx := context.Background()

	adapter := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, adapter.Connect(ctx))
	t.Cleanup(func() { adapter.Disconnect(ctx) })

	_, err := adapter.Execute(ctx, `
		CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL, city TEXT);
		CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id),
			total REAL
		);
		INSERT INTO customers (name, city) VALUES ('Ada', 'London'), ('Grace', NULL), ('Linus', 'Helsinki'), ('Ken', 'Murray Hill');
		INSERT INTO orders (customer_id, total) VALUES (1, 12.5), (2, 99);
	`)
	require.NoError(t, err)
	return adapter
}

func TestListTables(t *testing.T) {
	kit, err := New(newStore(t))
	require.NoError(t, err)

	got, err := kit.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "customers, orders", got)
	assert.Equal(t, database.SQLite, kit.Dialect())
}

func TestTableInfo(t *testing.T) {
	kit, err := New(newStore(t))
	require.NoError(t, err)

	info, err := kit.TableInfo(context.Background(), "customers")
	require.NoError(t, err)

	want := "CREATE TABLE \"customers\" (\n" +
		"\t\"id\" INTEGER NOT NULL,\n" +
		"\t\"name\" TEXT NOT NULL,\n" +
		"\t\"city\" TEXT,\n" +
		"\tPRIMARY KEY (\"id\")\n" +
		")\n\n" +
		"/*\n3 rows from customers table:\n" +
		"id\tname\tcity\n" +
		"1\tAda\tLondon\n" +
		"2\tGrace\tNULL\n" +
		"3\tLinus\tHelsinki\n" +
		"*/"
	assert.Equal(t, want, info)
}

func TestTableInfoMultipleAndForeignKeys(t *testing.T) {
	kit, err := New(newStore(t), WithSampleRows(0))
	require.NoError(t, err)

	info, err := kit.TableInfo(context.Background(), " orders , customers, orders")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(info, "CREATE TABLE \"orders\""))
	assert.Contains(t, info, "FOREIGN KEY(\"customer_id\") REFERENCES \"customers\" (\"id\")")
	assert.Equal(t, 2, strings.Count(info, "CREATE TABLE"))
	assert.NotContains(t, info, "rows from")
}

func TestTableInfoUnknownTables(t *testing.T) {
	kit, err := New(newStore(t))
	require.NoError(t, err)

	_, err = kit.TableInfo(context.Background(), "customers, invoices, accounts")
	require.Error(t, err)
	assert.Equal(t, "table names accounts, invoices not found in database", err.Error())

	_, err = kit.TableInfo(context.Background(), " , ")
	assert.Error(t, err)
}

func TestRunQuery(t *testing.T) {
	kit, err := New(newStore(t))
	require.NoError(t, err)
	ctx := context.Background()

	got, err := kit.RunQuery(ctx, "SELECT name, city FROM customers WHERE id <= 2 ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, "[('Ada', 'London'), ('Grace', NULL)]", got)

	got, err = kit.RunQuery(ctx, "  select count(*) from orders")
	require.NoError(t, err)
	assert.Equal(t, "[(2)]", got)

	got, err = kit.RunQuery(ctx, "SELECT * FROM orders WHERE id > 100")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	got, err = kit.RunQuery(ctx, "UPDATE customers SET city = 'Paris' WHERE city IS NULL")
	require.NoError(t, err)
	assert.Equal(t, "1 rows affected", got)

	_, err = kit.RunQuery(ctx, "SELECT nope FROM customers")
	assert.ErrorContains(t, err, "no such column")

	_, err = kit.RunQuery(ctx, "   ")
	assert.Error(t, err)
}

func TestRunQueryTruncatesLongValues(t *testing.T) {
	kit, err := New(newStore(t))
	require.NoError(t, err)

	got, err := kit.RunQuery(context.Background(), "SELECT replace(hex(zeroblob(75)), '0', 'x')")
	require.NoError(t, err)
	assert.Equal(t, "[('"+strings.Repeat("x", 100)+"...')]", got)
}

func TestServerVersion(t *testing.T) {
	kit, err := New(newStore(t))
	require.NoError(t, err)

	v, err := kit.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, v)
}

func TestMySQLQuoting(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	kit, err := New(database.NewBase(db, database.MySQL))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT * FROM `order``items` LIMIT 3").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	got, err := kit.sample(context.Background(), "order`items")
	require.NoError(t, err)
	assert.Equal(t, "/*\n3 rows from order`items table:\nid\n1\n*/", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewUnknownDialect(t *testing.T) {
	_, err := New(database.NewBase(nil, "oracle"))
	assert.Error(t, err)
}

func TestNotConnected(t *testing.T) {
	kit, err := New(database.NewBase(nil, database.SQLite))
	require.NoError(t, err)

	_, err = kit.ListTables(context.Background())
	assert.ErrorIs(t, err, database.ErrNotConnected)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("a", 99) + "é" + "tail"

	got := truncate(s)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 99)+"é...", got)
	assert.Equal(t, "héllo", truncate("héllo"))

	kit, err := New(newStore(t))
	require.NoError(t, err)
	out, err := kit.RunQuery(context.Background(), "SELECT '"+strings.Repeat("ü", 120)+"'")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "[('"+strings.Repeat("ü", 100)+"...')]", out)
}
