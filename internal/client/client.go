// Package client is the HTTP client the terminal and Telegram surfaces use to
// talk to the chat server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
)

// DefaultTimeout bounds every request, including the model call behind a
// chat request.
const DefaultTimeout = 30 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts a user message and returns the assistant reply.
func (c *Client) Send(ctx context.Context, conversationID, message string) (*types.ChatResponse, error) {
	var out types.ChatResponse
	req := types.ChatRequest{Message: message, ConversationID: conversationID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clear deletes the server-side history of a conversation.
func (c *Client) Clear(ctx context.Context, conversationID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chat/"+url.PathEscape(conversationID), nil, nil)
}

func (c *Client) History(ctx context.Context, conversationID string) (*types.HistoryResponse, error) {
	var out types.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/chat/"+url.PathEscape(conversationID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	var out types.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Render asks the server to interpret a raw response for surface.
func (c *Client) Render(ctx context.Context, response, surface string) (*types.RenderResponse, error) {
	var out types.RenderResponse
	req := types.RenderRequest{Response: response, Surface: surface}
	if err := c.doJSON(ctx, http.MethodPost, "/api/render", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	se := &StatusError{StatusCode: resp.StatusCode}
	var er types.ErrorResponse
	if json.Unmarshal(b, &er) == nil && er.Error != "" {
		se.Message = er.Error
		se.Details = er.Details
	} else {
		se.Message = strings.TrimSpace(string(b))
	}
	return se
}
