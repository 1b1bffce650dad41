// Package conversation holds the ordered chat history of a session.
package conversation

import (
	"fmt"
	"strings"
)

// Role tags who authored a message.
type Role string

const (
	// RoleUser marks messages typed by the user.
	RoleUser Role = "user"
	// RoleAssistant marks greetings, answers and error text.
	RoleAssistant Role = "assistant"
)

// Message is one entry of the history.
type Message struct {
	Role    Role
	Content string
}

// Conversation is an append-only message history. Past entries are never
// modified; only Reset discards them.
type Conversation struct {
	messages []Message
}

// New returns an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// Reset replaces the history with a single assistant greeting.
func (c *Conversation) Reset(greeting string) {
	c.messages = []Message{{Role: RoleAssistant, Content: greeting}}
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(role Role, content string) Message {
	msg := Message{Role: role, Content: content}
	c.messages = append(c.messages, msg)
	return msg
}

// Messages returns a copy of the history in order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Markdown renders the history as a markdown transcript.
func (c *Conversation) Markdown(title string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	for i, msg := range c.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "**%s:**\n\n%s\n", msg.Role, msg.Content)
	}
	return b.String()
}
