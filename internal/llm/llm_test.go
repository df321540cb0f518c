package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_Complete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embed/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"<content thesys=\"true\">{}</content>"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI("sk-test", "c1/test-model", WithBaseURL(srv.URL+"/v1/embed/"))
	out, err := p.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "Is this safe for kids?"},
	})
	require.NoError(t, err)
	assert.Equal(t, `<content thesys="true">{}</content>`, out)
	assert.Equal(t, "c1/test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Is this safe for kids?", got.Messages[1].Content)
}

func TestOpenAI_CompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","choices":[]}`)
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "m", WithBaseURL(srv.URL)).Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAI("k", "m", WithBaseURL(srv.URL)).Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestOpenAI_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Hel", "", "lo"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	var deltas []string
	out, err := NewOpenAI("k", "m", WithBaseURL(srv.URL)).Stream(context.Background(),
		[]Message{{Role: RoleUser, Content: "hi"}},
		func(s string) { deltas = append(deltas, s) })
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
}

func TestSplitForGemini(t *testing.T) {
	system, history, last := splitForGemini([]Message{
		{Role: RoleSystem, Content: "be helpful"},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "answer"},
		{Role: RoleUser, Content: "second"},
	})
	assert.Equal(t, "be helpful", system)
	assert.Equal(t, "second", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, []genai.Part{genai.Text("first")}, history[0].Parts)
	assert.Equal(t, "model", history[1].Role)

	system, history, last = splitForGemini([]Message{{Role: RoleSystem, Content: "only"}})
	assert.Equal(t, "only", system)
	assert.Nil(t, history)
	assert.Empty(t, last)
}

func TestFirstText(t *testing.T) {
	assert.Empty(t, firstText(nil))
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: nil},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("ok")}}},
	}}
	assert.Equal(t, "ok", firstText(resp))
}
