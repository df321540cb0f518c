// Package tui is the interactive terminal chat. Answers are rendered with the
// term package; tab moves focus over buttons and disclosures of the latest
// answer, enter activates the focused one.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/swarajpanmand/encode-ai-native-health/internal/surface/term"
	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

// Chatter is the subset of the chat client the TUI needs.
type Chatter interface {
	Send(ctx context.Context, conversationID, message string) (*types.ChatResponse, error)
	Clear(ctx context.Context, conversationID string) error
}

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleError     = "error"

	requestTimeout = 45 * time.Second
	chromeHeight   = 4
)

type entry struct {
	id       string
	role     string
	text     string
	answer   *term.Answer
	rendered string
}

type replyMsg struct {
	resp *types.ChatResponse
	err  error
}

type resetMsg struct {
	err error
}

type Options struct {
	ConversationID string
	Markdown       bool
	// Lipgloss overrides the style renderer; tests pass one without colors.
	Lipgloss *lipgloss.Renderer
}

type Model struct {
	client Chatter
	opts   Options
	convID string

	renderer *term.Renderer
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles

	entries []entry
	// state and focus belong to the latest answer and are dropped with it.
	state *ui.AccordionState
	focus int

	busy   bool
	status string
	width  int
}

type styles struct {
	user   lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	help   lipgloss.Style
}

func New(c Chatter, opts Options) Model {
	if opts.ConversationID == "" {
		opts.ConversationID = uuid.NewString()
	}
	lg := opts.Lipgloss
	if lg == nil {
		lg = lipgloss.DefaultRenderer()
	}

	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = "Ask about a food or product…"
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lg.NewStyle().Foreground(lipgloss.Color("#14b8a6"))

	m := Model{
		client:   c,
		opts:     opts,
		convID:   opts.ConversationID,
		input:    input,
		viewport: viewport.New(term.DefaultWidth, 20),
		spinner:  sp,
		styles: styles{
			user:   lg.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true),
			status: lg.NewStyle().Foreground(lipgloss.Color("#38bdf8")),
			err:    lg.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
			help:   lg.NewStyle().Foreground(lipgloss.Color("#94a3b8")),
		},
		state:  &ui.AccordionState{},
		focus:  -1,
		status: "ready",
		width:  term.DefaultWidth,
	}
	m.renderer = m.newRenderer()
	return m
}

func (m Model) newRenderer() *term.Renderer {
	opts := []term.Option{term.WithWidth(m.width), term.WithMarkdown(m.opts.Markdown)}
	if m.opts.Lipgloss != nil {
		opts = append(opts, term.WithLipgloss(m.opts.Lipgloss))
	}
	return term.New(opts...)
}

// ConversationID is the id every message of this session is sent under.
func (m Model) ConversationID() string { return m.convID }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = msg.Width - 4
		m.renderer = m.newRenderer()
		for i := range m.entries {
			m.entries[i].rendered = ""
		}
		m.refresh()
		return m, nil

	case replyMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "request failed"
			m.entries = append(m.entries, entry{id: uuid.NewString(), role: roleError, text: msg.err.Error()})
		} else {
			m.status = "ready"
			m.state = &ui.AccordionState{}
			m.focus = -1
			m.entries = append(m.entries, entry{id: uuid.NewString(), role: roleAssistant, text: msg.resp.Response})
		}
		m.refresh()
		return m, nil

	case resetMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "reset failed: " + msg.err.Error()
			return m, nil
		}
		m.entries = nil
		m.state = &ui.AccordionState{}
		m.focus = -1
		m.status = "conversation cleared"
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.status = "clearing…"
		return m, m.resetCmd()

	case "tab", "shift+tab":
		targets := m.focusables()
		if len(targets) == 0 {
			return m, nil
		}
		step := 1
		if msg.String() == "shift+tab" {
			step = -1
		}
		m.focus = (m.focus + step + len(targets)) % len(targets)
		if m.focus < 0 {
			m.focus = len(targets) - 1
		}
		m.input.Blur()
		m.refresh()
		return m, nil

	case "esc":
		m.focus = -1
		m.input.Focus()
		m.refresh()
		return m, nil

	case "enter":
		if m.busy {
			return m, nil
		}
		if m.focus >= 0 {
			return m.activate()
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		return m.send(text)
	}

	if m.focus >= 0 {
		// Typing returns to the input.
		m.focus = -1
		m.input.Focus()
		m.refresh()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// activate presses the focused element: a button goes through the action
// bridge as the next user message, a disclosure toggles.
func (m Model) activate() (tea.Model, tea.Cmd) {
	targets := m.focusables()
	if m.focus >= len(targets) {
		m.focus = -1
		return m, nil
	}
	target := targets[m.focus]

	if target.Type == ui.TypeDisclosure {
		m.state.Toggle(target.Key)
		m.refresh()
		return m, nil
	}

	var next tea.Model = m
	var cmd tea.Cmd
	bridge := ui.Bridge{OnActivate: func(text string) {
		next, cmd = m.send(text)
	}}
	bridge.Activate(target.Action)
	return next, cmd
}

func (m Model) send(text string) (tea.Model, tea.Cmd) {
	m.entries = append(m.entries, entry{id: uuid.NewString(), role: roleUser, text: text})
	m.busy = true
	m.focus = -1
	m.input.Focus()
	m.status = "thinking…"
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.sendCmd(text))
}

func (m Model) sendCmd(text string) tea.Cmd {
	c, id := m.client, m.convID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := c.Send(ctx, id, text)
		return replyMsg{resp: resp, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	c, id := m.client, m.convID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return resetMsg{err: c.Clear(ctx, id)}
	}
}

// latest is the index of the newest assistant entry, -1 when none.
func (m Model) latest() int {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].role == roleAssistant {
			return i
		}
	}
	return -1
}

func (m Model) focusables() []*ui.Element {
	i := m.latest()
	if i < 0 || m.entries[i].answer == nil {
		return nil
	}
	return term.Focusables(m.entries[i].answer.Tree, m.state)
}

func (m Model) focused() *ui.Element {
	targets := m.focusables()
	if m.focus < 0 || m.focus >= len(targets) {
		return nil
	}
	return targets[m.focus]
}

// refresh re-renders the transcript into the viewport. Older answers keep
// their cached rendering; only the latest reflects focus and disclosures.
func (m *Model) refresh() {
	latest := m.latest()
	blocks := make([]string, 0, len(m.entries))
	for i := range m.entries {
		e := &m.entries[i]
		switch e.role {
		case roleUser:
			blocks = append(blocks, m.styles.user.Render("you ❯ ")+e.text)
		case roleError:
			blocks = append(blocks, m.styles.err.Render(e.text))
		case roleAssistant:
			if e.answer == nil {
				a := term.Prepare(e.text)
				e.answer = &a
			}
			if i == latest || e.rendered == "" {
				e.rendered = m.renderer.RenderAnswer(*e.answer, m.view(i == latest))
			}
			blocks = append(blocks, e.rendered)
		}
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
	m.viewport.GotoBottom()
}

// view is the interaction state of an answer; older answers render closed.
func (m *Model) view(latest bool) term.View {
	if !latest {
		return term.View{}
	}
	return term.View{State: m.state, Focused: m.focused()}
}

func (m Model) View() string {
	status := m.styles.status.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	help := m.styles.help.Render("enter send · tab focus · ctrl+r reset · ctrl+c quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
		status+"  "+help,
	)
}

// Transcript is the plain rendered conversation, for tests and logs.
func (m Model) Transcript() string {
	return m.viewport.View()
}
