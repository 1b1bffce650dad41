package session

import "errors"

// ErrNotReady is returned by SubmitTurn before the first successful connect.
var ErrNotReady = errors.New("not connected")

// ConnectionError wraps any failure while building the descriptor, opening
// the database or probing it.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return e.Err.Error() }

func (e *ConnectionError) Unwrap() error { return e.Err }

// AgentError wraps any failure during a single question and answer turn.
type AgentError struct {
	Err error
}

func (e *AgentError) Error() string { return e.Err.Error() }

func (e *AgentError) Unwrap() error { return e.Err }
