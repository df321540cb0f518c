package session

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned when the user message is blank.
var ErrEmptyMessage = errors.New("message is required")

// UpstreamError wraps a failed or timed out provider call. The user turn that
// triggered it stays in the history.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s completion: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
