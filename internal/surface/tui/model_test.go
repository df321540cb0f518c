package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/client"
	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
)

const answer = `{"component":{"component":"Card","props":{"children":[` +
	`{"component":"Header","props":{"title":"Choco Crunch"}},` +
	`{"component":"Accordion","props":{"children":[{"value":"why","trigger":"Why?","content":[` +
	`{"component":"TextContent","props":{"textMarkdown":"Lots of added sugar."}}]}]}},` +
	`{"component":"ButtonGroup","props":{"children":[` +
	`{"component":"Button","props":{"children":"Is this safe for kids?","name":"kids"}},` +
	`{"component":"Button","props":{"children":"Healthier swaps","name":"swaps"}}]}}` +
	`]}}}`

type fakeChat struct {
	mu      sync.Mutex
	sent    []string
	cleared int
	err     error
}

func (f *fakeChat) Send(_ context.Context, id, message string) (*types.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	if f.err != nil {
		return nil, f.err
	}
	return &types.ChatResponse{Response: answer, ConversationID: id, MessageCount: 1 + 2*len(f.sent)}, nil
}

func (f *fakeChat) Clear(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

func newTestModel(c Chatter) Model {
	m := New(c, Options{ConversationID: "tui-test", Lipgloss: lipgloss.NewRenderer(io.Discard)})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 300})
	return next.(Model)
}

// press sends a key and feeds back the replies its command produces.
func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	m = next.(Model)
	for _, msg := range run(cmd) {
		switch msg.(type) {
		case replyMsg, resetMsg:
			next, _ = m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestSendMessage(t *testing.T) {
	fc := &fakeChat{}
	m := newTestModel(fc)
	m.input.SetValue("  choco crunch?  ")
	m = press(t, m, tea.KeyEnter)

	assert.Equal(t, []string{"choco crunch?"}, fc.sent)
	assert.False(t, m.busy)
	assert.Equal(t, "tui-test", m.ConversationID())
	out := m.Transcript()
	assert.Contains(t, out, "choco crunch?")
	assert.Contains(t, out, "Choco Crunch")
	assert.Contains(t, out, "▸ Why?")
	assert.NotContains(t, out, "Lots of added sugar.")
}

func TestEmptyInputIsNotSent(t *testing.T) {
	fc := &fakeChat{}
	m := newTestModel(fc)
	m.input.SetValue("   ")
	press(t, m, tea.KeyEnter)
	assert.Empty(t, fc.sent)
}

func TestTabCyclesFocusAndTogglesDisclosure(t *testing.T) {
	fc := &fakeChat{}
	m := newTestModel(fc)
	m.input.SetValue("hi")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyTab)
	require.Equal(t, 0, m.focus)
	assert.Contains(t, m.Transcript(), "› ▸ Why?")

	m = press(t, m, tea.KeyEnter)
	assert.Contains(t, m.Transcript(), "Lots of added sugar.")
	assert.Len(t, fc.sent, 1, "toggling sends nothing")

	m = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, 2, m.focus, "shift+tab wraps to the last button")
}

func TestButtonSendsItsLabel(t *testing.T) {
	fc := &fakeChat{}
	m := newTestModel(fc)
	m.input.SetValue("hi")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyTab)
	assert.Contains(t, m.Transcript(), "› [ Is this safe for kids? ]")

	m = press(t, m, tea.KeyEnter)
	assert.Equal(t, []string{"hi", "Is this safe for kids?"}, fc.sent)
	assert.Equal(t, -1, m.focus)
}

func TestReset(t *testing.T) {
	fc := &fakeChat{}
	m := newTestModel(fc)
	m.input.SetValue("hi")
	m = press(t, m, tea.KeyEnter)

	m = press(t, m, tea.KeyCtrlR)
	assert.Equal(t, 1, fc.cleared)
	assert.Empty(t, m.entries)
	assert.NotContains(t, m.Transcript(), "Choco Crunch")
}

func TestConnectionErrorIsShown(t *testing.T) {
	fc := &fakeChat{err: &client.ConnectionError{Err: errors.New("dial tcp: refused")}}
	m := newTestModel(fc)
	m.input.SetValue("hi")
	m = press(t, m, tea.KeyEnter)

	assert.Contains(t, m.Transcript(), "Connection failed: dial tcp: refused")
	assert.Equal(t, "request failed", m.status)
}
