package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
)

func TestSend(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req types.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "c1", req.ConversationID)

		_ = json.NewEncoder(w).Encode(types.ChatResponse{Response: "re: " + req.Message, ConversationID: "c1", MessageCount: 3})
	}))
	defer ts.Close()

	resp, err := New(ts.URL+"/").Send(context.Background(), "c1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "re: hello", resp.Response)
	assert.Equal(t, 3, resp.MessageCount)
}

func TestClearAndHistory(t *testing.T) {
	var deleted string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			deleted = r.URL.Path
			_ = json.NewEncoder(w).Encode(types.DeleteResponse{Message: "Conversation cleared"})
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(types.HistoryResponse{
				ConversationID: "a b",
				Turns:          []types.Turn{{Role: "system"}, {Role: "user", Content: "x"}},
				MessageCount:   2,
			})
		}
	}))
	defer ts.Close()

	c := New(ts.URL)
	require.NoError(t, c.Clear(context.Background(), "a b"))
	assert.Equal(t, "/api/chat/a b", deleted)

	h, err := c.History(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, 2, h.MessageCount)
	assert.Equal(t, "x", h.Turns[1].Content)
}

func TestStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: "Failed to process chat request", Details: "timeout"})
	}))
	defer ts.Close()

	_, err := New(ts.URL).Send(context.Background(), "", "hi")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "Failed to process chat request: timeout", se.Error())
}

func TestStatusError_PlainBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Health(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Too Many Requests", se.Error())
}

func TestConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := New(url).Send(context.Background(), "", "hi")
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "Connection failed: ")
}

func TestTimeoutIsConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	_, err := New(ts.URL, WithTimeout(20*time.Millisecond)).Health(context.Background())
	var ce *ConnectionError
	assert.True(t, errors.As(err, &ce))
}
