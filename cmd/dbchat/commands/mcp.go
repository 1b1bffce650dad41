package commands

import (
	"context"

	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/dbchat/dbchat/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the database tools over MCP on stdio",
		Long: `Connect with the configured settings and expose list_tables,
describe_tables and run_query to an MCP client over stdin/stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMCP(cmd.Context())
		},
	}
}

func (a *app) runMCP(ctx context.Context) error {
	handle, _, err := a.openHandle(ctx)
	if err != nil {
		return err
	}
	defer handle.Disconnect(context.Background())

	kit, err := sqltools.New(handle, sqltools.WithSampleRows(a.cfg.Agent.SampleRows))
	if err != nil {
		return err
	}
	return mcpserver.New(kit).ServeStdio()
}
