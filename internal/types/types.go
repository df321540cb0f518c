package types

import (
	"time"

	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	MessageCount   int    `json:"messageCount"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DeleteResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type HistoryResponse struct {
	ConversationID string `json:"conversationId"`
	Turns          []Turn `json:"turns"`
	MessageCount   int    `json:"messageCount"`
}

// RenderRequest asks the server to run a raw model response through the
// rendering pipeline. Surface picks the icon set.
type RenderRequest struct {
	Response string `json:"response"`
	Surface  string `json:"surface,omitempty"`
}

type RenderResponse struct {
	Mode    string      `json:"mode"`
	Summary *ui.Summary `json:"summary,omitempty"`
	Tree    *ui.Element `json:"tree"`
}

// StreamEvent is the JSON payload of every SSE message on the chat stream.
// Type is "delta", "done" or "error".
type StreamEvent struct {
	Type           string `json:"type"`
	Delta          string `json:"delta,omitempty"`
	Response       string `json:"response,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	MessageCount   int    `json:"messageCount,omitempty"`
	Error          string `json:"error,omitempty"`
	Details        string `json:"details,omitempty"`
}
