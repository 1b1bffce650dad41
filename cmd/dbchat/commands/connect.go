package commands

import (
	"context"

	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/dbchat/dbchat/internal/debug"
	"github.com/spf13/cobra"
)

func newConnectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Check that the configured database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConnect(cmd.Context())
		},
	}
}

func (a *app) runConnect(ctx context.Context) error {
	handle, descriptor, err := a.openHandle(ctx)
	if err != nil {
		return err
	}
	defer handle.Disconnect(context.Background())

	a.printer.Success("Connected to %s", descriptor)

	kit, err := sqltools.New(handle)
	if err != nil {
		return err
	}
	if v, err := kit.ServerVersion(ctx); err == nil {
		a.printer.Info("%s %s", sqltools.DialectName(kit.Dialect()), v)
	} else {
		debug.Debug("server version unavailable", "error", err)
	}
	return nil
}

func newTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTables(cmd.Context())
		},
	}
}

func (a *app) runTables(ctx context.Context) error {
	handle, _, err := a.openHandle(ctx)
	if err != nil {
		return err
	}
	defer handle.Disconnect(context.Background())

	kit, err := sqltools.New(handle)
	if err != nil {
		return err
	}
	names, err := kit.TableNames(ctx)
	if err != nil {
		return err
	}
	a.printTables(names)
	return nil
}
