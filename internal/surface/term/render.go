// Package term renders element trees as styled terminal text. It is shared
// by the render command and the interactive chat.
package term

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

// View is the per-tree interaction state a render reflects.
type View struct {
	State   *ui.AccordionState
	Focused *ui.Element
}

type Renderer struct {
	theme    Theme
	width    int
	markdown *glamour.TermRenderer
}

type Option func(*rendererOptions)

type rendererOptions struct {
	lg       *lipgloss.Renderer
	width    int
	markdown bool
}

// WithWidth sets the wrap width of the outer card.
func WithWidth(w int) Option {
	return func(o *rendererOptions) {
		if w > 0 {
			o.width = w
		}
	}
}

// WithLipgloss renders through r instead of the stdout renderer.
func WithLipgloss(r *lipgloss.Renderer) Option {
	return func(o *rendererOptions) { o.lg = r }
}

// WithMarkdown renders TextContent through glamour.
func WithMarkdown(on bool) Option {
	return func(o *rendererOptions) { o.markdown = on }
}

func New(opts ...Option) *Renderer {
	o := rendererOptions{width: DefaultWidth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.lg == nil {
		o.lg = lipgloss.NewRenderer(os.Stdout)
	}
	r := &Renderer{theme: NewTheme(o.lg), width: o.width}
	if o.markdown {
		// On failure TextContent falls back to bold spans.
		r.markdown, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(o.width-4),
		)
	}
	return r
}

// Answer is a decoded response that can be rendered repeatedly as focus and
// disclosure state change. Summary is nil unless the response was structured.
type Answer struct {
	Tree    *ui.Element
	Summary *ui.Summary
}

// Prepare runs a raw model response through the pipeline.
func Prepare(raw string) Answer {
	out := ui.Render(raw, ui.EmojiIcons)
	return Answer{Tree: out.Tree, Summary: out.Summary}
}

// RenderAnswer draws the summary hero, when present, above the tree.
func (r *Renderer) RenderAnswer(a Answer, v View) string {
	body := r.Render(a.Tree, v)
	if a.Summary == nil {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, r.Summary(*a.Summary), body)
}

// RenderResponse prepares and renders raw in one go. It returns the element
// tree so callers can drive focus and actions.
func (r *Renderer) RenderResponse(raw string, v View) (string, *ui.Element) {
	a := Prepare(raw)
	return r.RenderAnswer(a, v), a.Tree
}

// Render draws the tree. Disclosures are closed unless v.State opens them.
func (r *Renderer) Render(root *ui.Element, v View) string {
	if v.State == nil {
		v.State = &ui.AccordionState{}
	}
	return r.element(root, v, 0)
}

// Summary draws the at-a-glance hero.
func (r *Renderer) Summary(s ui.Summary) string {
	lines := []string{r.theme.Title.Render(s.Title)}
	if s.Subtitle != "" {
		lines = append(lines, r.theme.Muted.Render(s.Subtitle))
	}
	if s.Verdict != "" {
		lines = append(lines, r.theme.Verdict.Render(s.Verdict))
	}
	if len(s.Badges) > 0 {
		badges := make([]string, len(s.Badges))
		for i, b := range s.Badges {
			badges[i] = r.theme.Badges[b.Tone].Render("● " + b.Text)
		}
		lines = append(lines, strings.Join(badges, "  "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (r *Renderer) element(e *ui.Element, v View, depth int) string {
	if e == nil {
		return ""
	}
	switch e.Type {
	case ui.TypeText:
		return r.text(e)
	case ui.TypeStack:
		return r.stack(e, v, depth)
	case ui.TypeTable:
		return r.table(e)
	case ui.TypeButton:
		return r.focusable(e, v, "[ "+e.Text+" ]", r.theme.Button)
	case ui.TypeDisclosure:
		return r.disclosure(e, v, depth)
	case ui.TypeIcon:
		return e.Glyph
	case ui.TypePlaceholder:
		return r.theme.Placeholder.Render("⚠ " + e.Text)
	}
	return e.Text
}

func (r *Renderer) text(e *ui.Element) string {
	t := r.theme
	switch e.Role {
	case ui.RoleHeader:
		return joinLines(t.Title.Render(e.Title), muted(t, e.Text))
	case ui.RoleInlineHeader:
		return joinLines(t.Heading.Render(e.Title), muted(t, e.Text))
	case ui.RoleMarkdown:
		return r.markdownText(e)
	case ui.RoleCallout:
		head := strings.TrimSpace(e.Glyph + " " + t.Bold.Render(e.Title))
		style, ok := t.Callouts[e.Variant]
		if !ok {
			style = t.Callouts[protocol.CalloutInfo]
		}
		return style.Render(joinLines(head, e.Text))
	case ui.RoleTag:
		style, ok := t.Tags[e.Variant]
		if !ok {
			style = t.Tags[protocol.TagNeutral]
		}
		return style.Render("#" + e.Text)
	case ui.RoleStats:
		return strings.TrimSpace(e.Glyph + " " + t.Title.Render(e.Title) + " " + t.Muted.Render(e.Text))
	case ui.RoleThinking:
		return t.Thinking.Render(e.Glyph + " " + e.Text)
	case ui.RoleArtifact:
		return t.Artifact.Render(joinLines(e.Glyph+" "+t.Bold.Render(e.Title), e.Text))
	case ui.RoleLiteral:
		return e.Text
	case ui.RoleListItem:
		return joinLines(t.Bold.Render(e.Title), muted(t, e.Text))
	}
	return joinLines(e.Title, e.Text)
}

func (r *Renderer) markdownText(e *ui.Element) string {
	if r.markdown != nil {
		if out, err := r.markdown.Render(e.Text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return r.spans(e.Spans)
}

func (r *Renderer) spans(spans []ui.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Bold {
			b.WriteString(r.theme.Bold.Render(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func (r *Renderer) stack(e *ui.Element, v View, depth int) string {
	t := r.theme
	switch e.Role {
	case ui.RoleCard:
		body := r.children(e, v, depth+1, "\n")
		style := t.Card
		if depth == 0 && r.width > 4 {
			style = style.Width(r.width - 2)
		}
		return style.Render(body)

	case ui.RoleMiniCards, ui.RoleMiniCard:
		parts := r.renderAll(e.Children, v, depth+1)
		return joinHorizontal(parts, "   ")

	case ui.RoleDataTile:
		head := strings.TrimSpace(t.Title.Render(e.Title) + " " + t.Muted.Render(e.Text))
		return joinLines(head, r.children(e, v, depth+1, "\n"))

	case ui.RoleList:
		lines := make([]string, 0, len(e.Children))
		for _, item := range e.Children {
			bullet := "•"
			if e.Variant == protocol.ListIcon {
				bullet = item.Glyph
			}
			lines = append(lines, prefix(bullet+" ", r.element(item, v, depth+1)))
		}
		return strings.Join(lines, "\n")

	case ui.RoleSteps:
		return r.children(e, v, depth+1, "\n")

	case ui.RoleStep:
		head := t.Heading.Render(strconv.Itoa(e.Index)+".") + " " + t.Bold.Render(e.Title)
		body := joinLines(r.spans(e.Spans), r.children(e, v, depth+1, "\n"))
		if body != "" {
			gutter := "│ "
			if e.Last {
				gutter = "  "
			}
			body = indent(body, gutter)
		}
		return joinLines(head, body)

	case ui.RoleTags:
		return r.children(e, v, depth+1, "  ")

	case ui.RoleButtons:
		if e.Layout == ui.LayoutHorizontal {
			return r.children(e, v, depth+1, "  ")
		}
		return r.children(e, v, depth+1, "\n")

	case ui.RoleSection:
		return joinLines(t.Heading.Render(e.Title), r.children(e, v, depth+1, "\n"))

	case ui.RoleSegments:
		return r.children(e, v, depth+1, "\n\n")
	}
	if e.Layout == ui.LayoutHorizontal {
		return joinHorizontal(r.renderAll(e.Children, v, depth+1), "   ")
	}
	return r.children(e, v, depth+1, "\n")
}

func (r *Renderer) disclosure(e *ui.Element, v View, depth int) string {
	open := v.State.IsOpen(e.Key)
	marker := "▸ "
	if open {
		marker = "▾ "
	}
	head := r.focusable(e, v, marker+e.Title, r.theme.Heading)
	if !open {
		return head
	}
	return joinLines(head, indent(r.children(e, v, depth+1, "\n"), "  "))
}

func (r *Renderer) focusable(e *ui.Element, v View, label string, style lipgloss.Style) string {
	if v.Focused == e {
		return r.theme.Focused.Render("› " + label)
	}
	return style.Render(label)
}

func (r *Renderer) renderAll(es []*ui.Element, v View, depth int) []string {
	out := make([]string, 0, len(es))
	for _, c := range es {
		if s := r.element(c, v, depth); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *Renderer) children(e *ui.Element, v View, depth int, sep string) string {
	return strings.Join(r.renderAll(e.Children, v, depth), sep)
}

func muted(t Theme, s string) string {
	if s == "" {
		return ""
	}
	return t.Muted.Render(s)
}

func joinLines(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

func joinHorizontal(parts []string, gap string) string {
	if len(parts) == 0 {
		return ""
	}
	cols := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			cols = append(cols, gap)
		}
		cols = append(cols, p)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// prefix puts p before the first line and aligns the rest under it.
func prefix(p, s string) string {
	lines := strings.Split(s, "\n")
	pad := strings.Repeat(" ", lipgloss.Width(p))
	for i := range lines {
		if i == 0 {
			lines[i] = p + lines[i]
			continue
		}
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
