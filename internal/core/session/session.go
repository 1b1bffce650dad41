// Package session holds the state of one chat session: the database handle,
// the AI credential, the readiness flag and the conversation.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/conversation"
	"github.com/dbchat/dbchat/internal/debug"
	"github.com/dbchat/dbchat/internal/observability"
	"github.com/google/uuid"
)

// NotReadyText is shown instead of the chat input while not connected.
const NotReadyText = "Please enter your credentials and connect to begin."

const (
	greetingFormat = "Connected to %s! How can I help with your data today?"
	errorPrefix    = "I ran into an error: "
)

// QueryAgent answers one free-text question.
type QueryAgent interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Opener opens and probes a connection descriptor.
type Opener func(ctx context.Context, uri string) (database.Adapter, error)

// AgentFactory builds a fresh agent for one turn.
type AgentFactory func(handle database.Adapter, credential string) (QueryAgent, error)

// ConnectRequest is what the configuration panel submits.
type ConnectRequest struct {
	Kind       database.Kind
	Fields     database.Fields
	Credential string
	// URI, when set, is used as the descriptor instead of the template.
	URI string
}

// Session is the state of one interactive session. It is driven from a
// single goroutine; only the credential may be replaced concurrently.
type Session struct {
	id       string
	open     Opener
	newAgent AgentFactory
	logger   *slog.Logger

	handle       database.Adapter
	ready        bool
	conversation *conversation.Conversation

	mu         sync.RWMutex
	credential string
}

// New creates a session in the NotReady state.
func New(open Opener, newAgent AgentFactory) *Session {
	id := uuid.NewString()
	return &Session{
		id:           id,
		open:         open,
		newAgent:     newAgent,
		logger:       debug.With("session", id),
		conversation: conversation.New(),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Connect builds the descriptor for req, opens and probes it, and on success
// stores the handle and credential, marks the session ready and resets the
// conversation to a greeting. On failure the session is left untouched and a
// *ConnectionError is returned.
func (s *Session) Connect(ctx context.Context, req ConnectRequest) error {
	uri := req.URI
	if uri == "" {
		built, err := database.BuildURI(req.Kind, req.Fields)
		if err != nil {
			observability.ObserveConnect(err)
			return &ConnectionError{Err: err}
		}
		uri = built
	}

	s.logger.Info("connecting", "uri", database.Redact(uri))

	handle, err := s.open(ctx, uri)
	observability.ObserveConnect(err)
	if err != nil {
		s.logger.Warn("connect failed", "error", err)
		return &ConnectionError{Err: err}
	}

	previous := s.handle
	s.handle = handle
	s.SetCredential(req.Credential)
	s.ready = true
	s.conversation.Reset(fmt.Sprintf(greetingFormat, databaseName(req, uri)))

	if previous != nil && previous != handle {
		if err := previous.Disconnect(ctx); err != nil {
			s.logger.Warn("failed to close previous connection", "error", err)
		}
	}

	s.logger.Info("connected", "dialect", handle.GetDialect())
	return nil
}

// databaseName is the name interpolated into the greeting: the configured
// database, or the file path for SQLite.
func databaseName(req ConnectRequest, uri string) string {
	if req.URI != "" {
		if target, err := database.ParseURI(uri); err == nil {
			return target.Database
		}
		return req.Fields.Database
	}
	if req.Kind == database.KindSQLite {
		return req.Fields.Path
	}
	return req.Fields.Database
}

// SubmitTurn appends text as a user message, asks a fresh agent and appends
// its answer. When the agent fails the error text is appended instead and a
// *AgentError is returned alongside the appended message. Before the first
// connect nothing is appended and ErrNotReady is returned.
func (s *Session) SubmitTurn(ctx context.Context, text string) (conversation.Message, error) {
	if !s.ready {
		return conversation.Message{}, ErrNotReady
	}

	s.conversation.Append(conversation.RoleUser, text)

	start := time.Now()
	answer, err := s.answer(ctx, text)
	observability.ObserveTurn(err, time.Since(start))

	if err != nil {
		s.logger.Warn("turn failed", "error", err, "elapsed", time.Since(start))
		msg := s.conversation.Append(conversation.RoleAssistant, errorPrefix+err.Error())
		return msg, &AgentError{Err: err}
	}

	s.logger.Debug("turn answered", "elapsed", time.Since(start))
	return s.conversation.Append(conversation.RoleAssistant, answer), nil
}

func (s *Session) answer(ctx context.Context, text string) (string, error) {
	agent, err := s.newAgent(s.handle, s.Credential())
	if err != nil {
		return "", err
	}
	return agent.Answer(ctx, text)
}

// Ready reports whether a connect has succeeded.
func (s *Session) Ready() bool {
	return s.ready
}

// Messages returns the conversation history.
func (s *Session) Messages() []conversation.Message {
	return s.conversation.Messages()
}

// Transcript renders the conversation as markdown.
func (s *Session) Transcript(title string) string {
	return s.conversation.Markdown(title)
}

// Handle returns the live database handle, nil while not ready.
func (s *Session) Handle() database.Adapter {
	return s.handle
}

// Credential returns the AI credential used for the next turn.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetCredential replaces the AI credential. It is safe to call from another
// goroutine.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

// Close disconnects the handle and discards the conversation, returning the
// session to NotReady.
func (s *Session) Close(ctx context.Context) error {
	if s.handle == nil {
		return nil
	}
	err := s.handle.Disconnect(ctx)
	s.handle = nil
	s.ready = false
	s.conversation = conversation.New()
	return err
}
