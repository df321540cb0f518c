// Package llm talks to language model providers.
package llm

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Provider completes a chat history with the next assistant message.
type Provider interface {
	Name() string
	Complete(ctx context.Context, msgs []Message) (string, error)
}

// Streamer is implemented by providers that can deliver the reply
// incrementally. onDelta is called for each non-empty chunk; the full reply
// is returned at the end.
type Streamer interface {
	Stream(ctx context.Context, msgs []Message, onDelta func(string)) (string, error)
}

// ErrEmptyResponse is returned when the provider answered without content.
var ErrEmptyResponse = errors.New("no choices")
