// Package main is the entry point for the dbchat CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbchat/dbchat/cmd/dbchat/commands"
	"github.com/dbchat/dbchat/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		ui.PrintError("%v", err)
		stop()
		os.Exit(1)
	}
}
