package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dbchat/dbchat/internal/config"
	"github.com/dbchat/dbchat/internal/core/session"
	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/dbchat/dbchat/internal/debug"
	"github.com/dbchat/dbchat/internal/watch"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	chatPrompt      = "Ask a question about your tables..."
	transcriptTitle = "dbchat transcript"
)

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat (default)",
		Long: `Prompt for the connection settings, connect, and answer questions
about the data. Type /help in the chat for the available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd.Context())
		},
	}
}

func (a *app) runChat(ctx context.Context) error {
	a.printer.Header("dbchat", "Chat with your SQL database")

	sess := a.newSession()
	defer func() {
		if err := sess.Close(context.Background()); err != nil {
			debug.Warn("failed to close session", "error", err)
		}
	}()

	if a.watchEnv {
		w, err := a.watchCredential(sess)
		if err != nil {
			a.printer.Warning("Not watching .env: %v", err)
		} else {
			defer w.Stop()
		}
	}

	for {
		if !sess.Ready() {
			a.printer.Info(session.NotReadyText)
			if err := a.connect(ctx, sess); err != nil {
				if isCancel(err) {
					return nil
				}
				return err
			}
			continue
		}

		line, err := a.prompt.Input(chatPrompt, "")
		if err != nil {
			if isCancel(err) {
				return nil
			}
			return err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "//"):
			// Escaped slash: the question itself starts with '/'.
			line = strings.Replace(line, "//", "/", 1)
		case strings.HasPrefix(trimmed, "/"):
			quit, err := a.handleCommand(ctx, sess, trimmed)
			if err != nil {
				if isCancel(err) {
					continue
				}
				return err
			}
			if quit {
				return nil
			}
			continue
		}

		a.turn(ctx, sess, line)
	}
}

// connect runs the panel and connects. A failed connect is reported and
// leaves the session as it was.
func (a *app) connect(ctx context.Context, sess *session.Session) error {
	req, err := a.runPanel()
	if err != nil {
		return err
	}

	if err := sess.Connect(ctx, req); err != nil {
		a.printer.Error("Connection failed: %v", err)
		return nil
	}

	a.printer.Success("Connected")
	for _, msg := range sess.Messages() {
		a.printer.Message(string(msg.Role), msg.Content)
	}
	return nil
}

func (a *app) turn(ctx context.Context, sess *session.Session, text string) {
	var spinner *pterm.SpinnerPrinter
	if a.interactive {
		spinner, _ = a.printer.Spinner("Thinking...")
	}

	msg, err := sess.SubmitTurn(ctx, text)

	if spinner != nil {
		_ = spinner.Stop()
	}

	if errors.Is(err, session.ErrNotReady) {
		a.printer.Info(session.NotReadyText)
		return
	}
	a.printer.Message(string(msg.Role), msg.Content)

	var agentErr *session.AgentError
	if errors.As(err, &agentErr) {
		debug.Debug("turn failed", "error", err)
		a.printer.Error("%s", msg.Content)
	}
}

func (a *app) handleCommand(ctx context.Context, sess *session.Session, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		a.printer.Section("Commands")
		a.printer.List([]string{
			"/history          show the conversation",
			"/tables           list the tables of the database",
			"/connect          change the connection",
			"/save <file>      write the conversation as markdown",
			"/quit             leave",
			"//...             send a question that starts with /",
		})

	case "/history":
		for _, msg := range sess.Messages() {
			a.printer.Message(string(msg.Role), msg.Content)
		}

	case "/connect":
		return false, a.connect(ctx, sess)

	case "/tables":
		kit, err := sqltools.New(sess.Handle())
		if err != nil {
			a.printer.Error("%v", err)
			return false, nil
		}
		names, err := kit.TableNames(ctx)
		if err != nil {
			a.printer.Error("%v", err)
			return false, nil
		}
		a.printTables(names)

	case "/save":
		if arg == "" {
			a.printer.Warning("Usage: /save <file>")
			return false, nil
		}
		if err := afero.WriteFile(a.fs, arg, []byte(sess.Transcript(transcriptTitle)), 0o644); err != nil {
			a.printer.Error("Failed to save transcript: %v", err)
			return false, nil
		}
		a.printer.Success("Saved transcript to %s", arg)

	default:
		a.printer.Warning("Unknown command %s, try /help", name)
	}
	return false, nil
}

func (a *app) printTables(names []string) {
	if len(names) == 0 {
		a.printer.Info("No tables found")
		return
	}
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{strconv.Itoa(i + 1), name}
	}
	if err := a.printer.Table([]string{"#", "Table"}, rows); err != nil {
		a.printer.List(names)
	}
}

// watchCredential replaces the session credential when .env changes.
func (a *app) watchCredential(sess *session.Session) (*watch.Watcher, error) {
	w, err := watch.NewWatcher(".env", func() error {
		env, err := config.ReadDotenv(a.fs, ".env")
		if err != nil {
			return fmt.Errorf("failed to read .env: %w", err)
		}
		key := env[config.APIKeyEnv]
		if key == "" || key == sess.Credential() {
			return nil
		}
		sess.SetCredential(key)
		debug.Info("reloaded credential", "file", ".env")
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.Start()
	return w, nil
}
