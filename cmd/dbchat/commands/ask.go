package commands

import (
	"context"
	"strings"

	"github.com/dbchat/dbchat/internal/debug"
	"github.com/spf13/cobra"
)

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Long: `Connect with the configured settings, answer a single question and
print the answer. No prompts are shown.`,
		Example: `  dbchat ask --kind sqlite --path sample_store.db "How many customers are there?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func (a *app) runAsk(ctx context.Context, question string) error {
	sess, err := a.connectFromConfig(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(context.Background()); err != nil {
			debug.Warn("failed to close session", "error", err)
		}
	}()

	msg, err := sess.SubmitTurn(ctx, question)
	a.printer.Message(string(msg.Role), msg.Content)
	return err
}
