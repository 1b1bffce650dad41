package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/adapters/database/sqlite"
	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	adapter := sqlite.NewSQLiteAdapter(database.Config{URL: filepath.Join(t.TempDir(), "shop.db")})
	require.NoError(t, adapter.Connect(ctx))
	t.Cleanup(func() { adapter.Disconnect(ctx) })

	_, err := adapter.Execute(ctx, `
		CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, customer_id INTEGER);
		INSERT INTO customers (name) VALUES ('Ada'), ('Grace');
	`)
	require.NoError(t, err)

	kit, err := sqltools.New(adapter)
	require.NoError(t, err)
	return New(kit)
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestListTables(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListTables(context.Background(), call(ToolListTables, nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "customers, orders", text(t, res))
}

func TestDescribeTables(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleDescribeTables(ctx, call(ToolDescribeTables, map[string]any{"table_names": "customers"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `CREATE TABLE "customers"`)
	assert.Contains(t, text(t, res), "rows from customers table")

	res, err = s.handleDescribeTables(ctx, call(ToolDescribeTables, map[string]any{"table_names": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "missing")

	res, err = s.handleDescribeTables(ctx, call(ToolDescribeTables, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRunQuery(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleRunQuery(ctx, call(ToolRunQuery, map[string]any{"query": "SELECT COUNT(*) FROM customers"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "[(2)]", text(t, res))

	res, err = s.handleRunQuery(ctx, call(ToolRunQuery, map[string]any{"query": "SELECT nope FROM customers"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "no such column")
}
