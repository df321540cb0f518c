package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Gemini is a provider backed by the Google generative AI API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: cl, model: strings.TrimSpace(model)}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Complete(ctx context.Context, msgs []Message) (string, error) {
	cs, last := g.chat(msgs)
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", err
	}
	txt := firstText(resp)
	if txt == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}

func (g *Gemini) Stream(ctx context.Context, msgs []Message, onDelta func(string)) (string, error) {
	cs, last := g.chat(msgs)
	iter := cs.SendMessageStream(ctx, genai.Text(last))

	var b strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return b.String(), err
		}
		chunk := firstText(resp)
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

func (g *Gemini) chat(msgs []Message) (*genai.ChatSession, string) {
	m := g.client.GenerativeModel(g.model)
	system, history, last := splitForGemini(msgs)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	cs := m.StartChat()
	cs.History = history
	return cs, last
}

// splitForGemini separates system turns, which Gemini takes as a system
// instruction, from the chat history. The final message is returned apart
// because it is the one sent.
func splitForGemini(msgs []Message) (system string, history []*genai.Content, last string) {
	var sys []string
	var turns []Message
	for _, m := range msgs {
		if m.Role == RoleSystem {
			sys = append(sys, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	system = strings.Join(sys, "\n\n")
	if len(turns) == 0 {
		return system, nil, ""
	}
	last = turns[len(turns)-1].Content
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return system, history, last
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
