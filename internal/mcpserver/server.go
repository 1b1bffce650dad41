// Package mcpserver exposes the SQL toolkit of a connected database as MCP
// tools, so other agents can list, describe and query it.
package mcpserver

import (
	"context"

	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/dbchat/dbchat/internal/debug"
	"github.com/dbchat/dbchat/internal/observability"
	"github.com/dbchat/dbchat/internal/version"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	ToolListTables     = "list_tables"
	ToolDescribeTables = "describe_tables"
	ToolRunQuery       = "run_query"
)

// Server is the MCP server for one database handle.
type Server struct {
	mcp     *server.MCPServer
	toolkit *sqltools.Toolkit
}

// New creates a server with all tools registered.
func New(toolkit *sqltools.Toolkit) *Server {
	s := &Server{toolkit: toolkit}
	s.mcp = server.NewMCPServer(
		"dbchat",
		version.Version,
		server.WithToolCapabilities(true),
	)

	s.mcp.AddTool(mcp.NewTool(ToolListTables,
		mcp.WithDescription("List the tables of the connected database as a comma separated list"),
	), s.handleListTables)

	s.mcp.AddTool(mcp.NewTool(ToolDescribeTables,
		mcp.WithDescription("Show the CREATE statement and sample rows of each table"),
		mcp.WithString("table_names", mcp.Description("Comma separated table names, e.g. customers, orders"), mcp.Required()),
	), s.handleDescribeTables)

	s.mcp.AddTool(mcp.NewTool(ToolRunQuery,
		mcp.WithDescription("Execute a SQL query and return its rows"),
		mcp.WithString("query", mcp.Description("SQL query to execute"), mcp.Required()),
	), s.handleRunQuery)

	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	debug.Info("starting MCP stdio server", "dialect", s.toolkit.Dialect())
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	observability.IncrementToolCall(ToolListTables)
	tables, err := s.toolkit.ListTables(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(tables), nil
}

func (s *Server) handleDescribeTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	observability.IncrementToolCall(ToolDescribeTables)
	names := req.GetString("table_names", "")
	if names == "" {
		return mcp.NewToolResultError("table_names is required"), nil
	}
	info, err := s.toolkit.TableInfo(ctx, names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(info), nil
}

func (s *Server) handleRunQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	observability.IncrementToolCall(ToolRunQuery)
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	debug.Debug("mcp run_query", "query", query)
	out, err := s.toolkit.RunQuery(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
