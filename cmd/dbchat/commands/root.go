// Package commands implements the dbchat CLI commands.
package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dbchat/dbchat/internal/config"
	"github.com/dbchat/dbchat/internal/core/session"
	"github.com/dbchat/dbchat/internal/debug"
	"github.com/dbchat/dbchat/internal/observability"
	"github.com/dbchat/dbchat/internal/ui"
	"github.com/dbchat/dbchat/internal/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what every command needs once the configuration is loaded.
type app struct {
	fs      afero.Fs
	cfg     *config.Config
	printer *ui.Printer
	prompt  prompter

	// interactive enables spinners and terminal styling.
	interactive bool

	// opener and newAgent are replaced in tests.
	opener   session.Opener
	newAgent session.AgentFactory

	metricsAddr string
	watchEnv    bool
	metrics     *http.Server
}

func newApp() *app {
	return &app{
		fs:          config.AppFs,
		printer:     ui.Default,
		prompt:      surveyPrompter{},
		interactive: true,
	}
}

// NewRootCommand creates the dbchat root command. Without a subcommand it
// starts an interactive chat.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbchat",
		Short: "Chat with your SQL database",
		Long: `dbchat connects to a PostgreSQL, MySQL or SQLite database and answers
questions about its data in plain language. A language model writes and runs
the SQL for you.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./.dbchat.yaml, ~/.dbchat.yaml or ~/.config/dbchat/.dbchat.yaml)")
	flags.String("kind", "", "database kind: PostgreSQL, MySQL or SQLite")
	flags.String("host", "", "database host")
	flags.String("user", "", "database user")
	flags.String("password", "", "database password (or "+config.PasswordEnv+")")
	flags.String("database", "", "database name")
	flags.String("port", "", "database port")
	flags.String("path", "", "SQLite database file")
	flags.String("url", "", "connection string, overrides the per-kind fields")
	flags.Duration("connect-timeout", 0, "connection probe timeout")
	flags.String("ssl-mode", "", "PostgreSQL sslmode")
	flags.String("api-key", "", "OpenAI API key (or "+config.APIKeyEnv+")")
	flags.String("model", "", "chat model")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.Int("max-iterations", 0, "agent model calls per question")
	flags.Int("top-k", 0, "row limit suggested to the agent")
	flags.Int("sample-rows", 0, "sample rows shown per table")
	flags.Duration("agent-timeout", 0, "time limit per question")
	flags.String("log-level", "", "log level: debug, info, warn, error or off")
	flags.Bool("debug", false, "enable debug logging")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.BoolVar(&a.watchEnv, "watch-env", false, "reload "+config.APIKeyEnv+" when .env changes")

	cmd.AddCommand(newChatCommand(a))
	cmd.AddCommand(newAskCommand(a))
	cmd.AddCommand(newConnectCommand(a))
	cmd.AddCommand(newTablesCommand(a))
	cmd.AddCommand(newMCPCommand(a))
	cmd.AddCommand(newConfigCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// setup loads the configuration and starts the ambient services.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.fs, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := debug.Init(debug.Options{
		Enabled: cfg.Log.Debug,
		Level:   cfg.Log.Level,
		Writer:  os.Stderr,
	}); err != nil {
		return fmt.Errorf("invalid log settings: %w", err)
	}
	if cfg.File != "" {
		debug.Debug("loaded config file", "file", cfg.File)
	}

	if a.metricsAddr != "" {
		srv, err := observability.Serve(a.metricsAddr)
		if err != nil {
			return err
		}
		a.metrics = srv
	}
	return nil
}

func (a *app) teardown() error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.metrics.Shutdown(ctx)
	a.metrics = nil
	return err
}
