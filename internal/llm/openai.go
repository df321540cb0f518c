package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"
)

// OpenAI is a provider for any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

type OpenAIOption func(*openaiOptions)

type openaiOptions struct {
	baseURL     string
	temperature float32
	base        http.RoundTripper
}

// WithBaseURL points the client at a compatible endpoint instead of OpenAI.
func WithBaseURL(u string) OpenAIOption {
	return func(o *openaiOptions) {
		o.baseURL = strings.TrimRight(u, "/")
	}
}

func WithTemperature(t float32) OpenAIOption {
	return func(o *openaiOptions) {
		o.temperature = t
	}
}

// WithTransport sets the round tripper below the auth transport.
func WithTransport(rt http.RoundTripper) OpenAIOption {
	return func(o *openaiOptions) {
		o.base = rt
	}
}

// NewOpenAI builds a provider. The API key is attached by an oauth2 bearer
// transport so every request made through the client carries it.
func NewOpenAI(apiKey, model string, opts ...OpenAIOption) *OpenAI {
	o := openaiOptions{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := openai.DefaultConfig("")
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	cfg.HTTPClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
			Base:   o.base,
		},
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: o.temperature,
	}
}

func (p *OpenAI) Name() string { return "openai" }

func (p *OpenAI) Complete(ctx context.Context, msgs []Message) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.request(msgs, false))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAI) Stream(ctx context.Context, msgs []Message, onDelta func(string)) (string, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.request(msgs, true))
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var b strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return b.String(), fmt.Errorf("stream recv: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		b.WriteString(chunk)
		if onDelta != nil {
			onDelta(chunk)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func (p *OpenAI) request(msgs []Message, stream bool) openai.ChatCompletionRequest {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := m.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages:    out,
		Stream:      stream,
	}
}
