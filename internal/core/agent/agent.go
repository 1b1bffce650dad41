// Package agent implements the tool-calling SQL agent that answers one
// question per turn.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dbchat/dbchat/internal/core/sqltools"
	"github.com/dbchat/dbchat/internal/debug"
	"github.com/dbchat/dbchat/internal/llm"
	"github.com/dbchat/dbchat/internal/observability"
	"github.com/sashabaranov/go-openai"
)

// StopMessage is the answer when the agent runs out of iterations or time.
const StopMessage = "Agent stopped due to iteration limit or time limit."

// Options configures an agent.
type Options struct {
	// MaxIterations bounds the number of model calls per question.
	MaxIterations int
	// TopK is the default row limit suggested to the model.
	TopK int
	// Timeout bounds a whole question. Zero means no limit.
	Timeout time.Duration
}

// DefaultOptions returns the default agent options.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 15,
		TopK:          10,
	}
}

// SQLAgent answers questions by letting the model call the SQL tools.
type SQLAgent struct {
	toolkit *sqltools.Toolkit
	model   llm.ChatModel
	opts    Options
}

// New creates an agent. Non-positive options fall back to the defaults.
func New(toolkit *sqltools.Toolkit, model llm.ChatModel, opts Options) *SQLAgent {
	def := DefaultOptions()
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.TopK <= 0 {
		opts.TopK = def.TopK
	}
	return &SQLAgent{toolkit: toolkit, model: model, opts: opts}
}

// Answer runs the tool loop for question and returns the final answer.
// Model failures are returned as errors; tool failures are fed back to the
// model so it can correct itself.
func (a *SQLAgent) Answer(ctx context.Context, question string) (string, error) {
	turnCtx := ctx
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt(turnCtx)},
		{Role: openai.ChatMessageRoleUser, Content: question},
	}
	tools := Tools()

	for i := 0; i < a.opts.MaxIterations; i++ {
		msg, err := a.model.Complete(turnCtx, messages, tools)
		if err != nil {
			if a.timedOut(ctx, turnCtx) {
				return StopMessage, nil
			}
			return "", err
		}

		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    a.callTool(turnCtx, call),
				ToolCallID: call.ID,
			})
		}

		if a.timedOut(ctx, turnCtx) {
			return StopMessage, nil
		}
	}

	debug.Warn("agent reached iteration limit", "max_iterations", a.opts.MaxIterations)
	return StopMessage, nil
}

// timedOut reports whether the per-question deadline expired while the
// caller's context is still live.
func (a *SQLAgent) timedOut(parent, turn context.Context) bool {
	return a.opts.Timeout > 0 && parent.Err() == nil && errors.Is(turn.Err(), context.DeadlineExceeded)
}

func (a *SQLAgent) systemPrompt(ctx context.Context) string {
	dialect := a.toolkit.Dialect()
	version, err := a.toolkit.ServerVersion(ctx)
	if err != nil {
		debug.Debug("server version unavailable", "error", err)
	}
	return buildSystemPrompt(sqltools.DialectName(dialect), a.opts.TopK, sqltools.DialectHints(dialect, version))
}

type toolArgs struct {
	Query      string `json:"query"`
	TableNames string `json:"table_names"`
}

// callTool runs one tool call and renders its output for the model. Errors
// become "Error: ..." text.
func (a *SQLAgent) callTool(ctx context.Context, call openai.ToolCall) string {
	name := call.Function.Name
	observability.IncrementToolCall(name)
	debug.Debug("agent tool call", "tool", name, "arguments", call.Function.Arguments)

	var args toolArgs
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		}
	}

	var (
		out string
		err error
	)
	switch name {
	case ToolListTables:
		out, err = a.toolkit.ListTables(ctx)
	case ToolSchema:
		out, err = a.toolkit.TableInfo(ctx, args.TableNames)
	case ToolQueryChecker:
		out, err = a.CheckQuery(ctx, args.Query)
	case ToolQuery:
		out, err = a.toolkit.RunQuery(ctx, args.Query)
	default:
		return fmt.Sprintf("Error: %s is not a valid tool, try one of [%s].", name, strings.Join(ToolNames, ", "))
	}

	if err != nil {
		debug.Debug("agent tool failed", "tool", name, "error", err)
		return "Error: " + err.Error()
	}
	return out
}

// CheckQuery asks the model to look for common mistakes in query and
// returns the query it settles on.
func (a *SQLAgent) CheckQuery(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("empty query")
	}

	prompt := buildCheckerPrompt(query, sqltools.DialectName(a.toolkit.Dialect()))
	msg, err := a.model.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to check query: %w", err)
	}

	checked := stripMarkdownSQL(msg.Content)
	if checked == "" {
		return "", errors.New("model returned empty SQL")
	}
	return checked, nil
}
