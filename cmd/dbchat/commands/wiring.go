package commands

import (
	"context"
	"fmt"

	"github.com/dbchat/dbchat/internal/adapters/database"
	"github.com/dbchat/dbchat/internal/core/agent"
	"github.com/dbchat/dbchat/internal/core/connection"
	"github.com/dbchat/dbchat/internal/core/session"
	"github.com/dbchat/dbchat/internal/llm"
)

func (a *app) kind() (database.Kind, error) {
	return database.ParseKind(a.cfg.Database.Kind)
}

func (a *app) fields() database.Fields {
	db := a.cfg.Database
	return database.Fields{
		Host:     db.Host,
		User:     db.User,
		Password: db.Password,
		Database: db.Name,
		Port:     db.Port,
		Path:     db.Path,
	}
}

// connectRequest builds a connect request from the loaded configuration.
func (a *app) connectRequest() (session.ConnectRequest, error) {
	req := session.ConnectRequest{
		Fields:     a.fields(),
		Credential: a.cfg.OpenAI.APIKey,
		URI:        a.cfg.Database.URL,
	}
	if req.URI != "" {
		return req, nil
	}
	kind, err := a.kind()
	if err != nil {
		return req, err
	}
	req.Kind = kind
	return req, nil
}

func (a *app) connectionOptions() connection.Options {
	opts := connection.DefaultOptions()
	if d := a.cfg.Database.ConnectTimeout; d > 0 {
		opts.ConnectTimeout = d
	}
	if n := a.cfg.Database.MaxConnections; n > 0 {
		opts.MaxConnections = n
	}
	if a.cfg.Database.SSLMode != "" {
		opts.SSLMode = a.cfg.Database.SSLMode
	}
	return opts
}

func (a *app) agentFactory() agent.Factory {
	return agent.Factory{
		LLM: llm.Config{
			BaseURL:     a.cfg.OpenAI.BaseURL,
			Model:       a.cfg.OpenAI.Model,
			Temperature: a.cfg.OpenAI.Temperature,
		},
		Options: agent.Options{
			MaxIterations: a.cfg.Agent.MaxIterations,
			TopK:          a.cfg.Agent.TopK,
			Timeout:       a.cfg.Agent.Timeout,
		},
		SampleRows: a.cfg.Agent.SampleRows,
	}
}

func (a *app) newSession() *session.Session {
	open := a.opener
	if open == nil {
		open = connection.Opener(a.connectionOptions())
	}

	newAgent := a.newAgent
	if newAgent == nil {
		factory := a.agentFactory()
		newAgent = func(handle database.Adapter, credential string) (session.QueryAgent, error) {
			sqlAgent, err := factory.Build(handle, credential)
			if err != nil {
				return nil, err
			}
			return sqlAgent, nil
		}
	}

	return session.New(open, newAgent)
}

// connectFromConfig connects a new session without prompting.
func (a *app) connectFromConfig(ctx context.Context) (*session.Session, error) {
	req, err := a.connectRequest()
	if err != nil {
		return nil, err
	}
	sess := a.newSession()
	if err := sess.Connect(ctx, req); err != nil {
		return nil, err
	}
	return sess, nil
}

// openHandle opens the configured database without a session.
func (a *app) openHandle(ctx context.Context) (database.Adapter, string, error) {
	req, err := a.connectRequest()
	if err != nil {
		return nil, "", err
	}
	uri := req.URI
	if uri == "" {
		if uri, err = database.BuildURI(req.Kind, req.Fields); err != nil {
			return nil, "", err
		}
	}

	open := a.opener
	if open == nil {
		open = connection.Opener(a.connectionOptions())
	}
	handle, err := open(ctx, uri)
	if err != nil {
		return nil, database.Redact(uri), fmt.Errorf("failed to connect to %s: %w", database.Redact(uri), err)
	}
	return handle, database.Redact(uri), nil
}
