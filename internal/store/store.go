package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a conversation that was never started,
// was deleted, or expired.
var ErrNotFound = errors.New("conversation not found")

// Turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalBinary lets redis store turns as list values.
func (t Turn) MarshalBinary() ([]byte, error) {
	return json.Marshal(t)
}

func (t *Turn) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}

// Store persists conversation histories keyed by conversation id. Histories
// are append-only; the caller serializes access per id.
type Store interface {
	// Get returns the turns of a conversation in append order.
	Get(ctx context.Context, id string) ([]Turn, error)
	// Append adds turns to the end of a conversation, creating it if needed.
	Append(ctx context.Context, id string, turns ...Turn) error
	// Delete removes a conversation. Deleting a missing one is not an error.
	Delete(ctx context.Context, id string) error
}

// DefaultTTL is the idle time after which a conversation expires.
const DefaultTTL = 24 * time.Hour

func expired(last time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(last) > ttl
}
