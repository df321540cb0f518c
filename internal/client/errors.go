package client

import (
	"fmt"
	"net/http"
)

// ConnectionError means the server could not be reached or did not answer in
// time.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "Connection failed: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", msg, e.Details)
	}
	return msg
}
