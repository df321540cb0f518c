package telegram

import (
	"html"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

// maxCellWidth caps table columns inside the <pre> block; phones wrap long
// preformatted lines badly.
const maxCellWidth = 16

// answer is one bot reply: the tree, its summary and the disclosure state the
// toggle buttons flip.
type answer struct {
	tree    *ui.Element
	summary *ui.Summary
	state   *ui.AccordionState
}

func prepare(raw string) *answer {
	out := ui.Render(raw, ui.IconSetFor("telegram"))
	return &answer{tree: out.Tree, summary: out.Summary, state: &ui.AccordionState{}}
}

// Format renders a tree as Telegram HTML. Buttons are left out of the text;
// they travel as the inline keyboard. Content of closed disclosures is hidden.
func Format(root *ui.Element, state *ui.AccordionState) string {
	if state == nil {
		state = &ui.AccordionState{}
	}
	f := formatter{state: state}
	return strings.TrimSpace(f.element(root))
}

// FormatSummary renders the hero block shown above a structured answer.
func FormatSummary(s ui.Summary) string {
	out := []string{"<b>" + esc(s.Title) + "</b>"}
	if s.Subtitle != "" {
		out = append(out, "<i>"+esc(s.Subtitle)+"</i>")
	}
	if s.Verdict != "" {
		out = append(out, esc(s.Verdict))
	}
	if len(s.Badges) > 0 {
		badges := make([]string, len(s.Badges))
		for i, b := range s.Badges {
			badges[i] = toneDot(b.Tone) + " " + esc(b.Text)
		}
		out = append(out, strings.Join(badges, "  "))
	}
	return strings.Join(out, "\n")
}

func (a *answer) text() string {
	return strings.Join(a.blocks(), "\n\n")
}

// blocks is the answer split at its top-level elements, summary first.
func (a *answer) blocks() []string {
	var out []string
	if a.summary != nil {
		out = append(out, FormatSummary(*a.summary))
	}
	root := a.tree
	if root == nil || root.Type != ui.TypeStack || (root.Role != ui.RoleCard && root.Role != ui.RoleSegments) {
		if s := Format(root, a.state); s != "" {
			out = append(out, s)
		}
		return out
	}
	f := formatter{state: a.state}
	for _, c := range root.Children {
		if s := strings.TrimSpace(f.element(c)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pages is the answer as message texts that fit Telegram's limit.
func (a *answer) pages() []string {
	if p := paginate(a.blocks(), maxMessageLen); len(p) > 0 {
		return p
	}
	return []string{emptyText}
}

func toneDot(t ui.Tone) string {
	switch t {
	case ui.TonePositive:
		return "🟢"
	case ui.ToneNegative:
		return "🔴"
	case ui.ToneWarning:
		return "🟡"
	}
	return "⚪"
}

type formatter struct {
	state *ui.AccordionState
}

func (f formatter) element(e *ui.Element) string {
	if e == nil {
		return ""
	}
	switch e.Type {
	case ui.TypeText:
		return f.text(e)
	case ui.TypeStack:
		return f.stack(e)
	case ui.TypeTable:
		return f.table(e)
	case ui.TypeButton:
		return ""
	case ui.TypeDisclosure:
		marker := "▸ "
		if f.state.IsOpen(e.Key) {
			marker = "▾ "
		}
		head := marker + "<b>" + esc(e.Title) + "</b>"
		if !f.state.IsOpen(e.Key) {
			return head
		}
		return lines(head, f.children(e, "\n"))
	case ui.TypeIcon:
		return e.Glyph
	case ui.TypePlaceholder:
		return "⚠️ <i>" + esc(e.Text) + "</i>"
	}
	return esc(e.Text)
}

func (f formatter) text(e *ui.Element) string {
	switch e.Role {
	case ui.RoleHeader:
		return lines(bold(e.Title), italic(e.Text))
	case ui.RoleInlineHeader:
		return lines(bold(e.Title), esc(e.Text))
	case ui.RoleMarkdown:
		return spans(e.Spans)
	case ui.RoleCallout:
		return lines(strings.TrimSpace(e.Glyph+" "+bold(e.Title)), esc(e.Text))
	case ui.RoleTag:
		return "#" + esc(strings.ReplaceAll(e.Text, " ", "_"))
	case ui.RoleStats:
		return strings.TrimSpace(e.Glyph + " " + bold(e.Title) + " " + esc(e.Text))
	case ui.RoleThinking:
		return "<i>" + e.Glyph + " " + esc(e.Text) + "</i>"
	case ui.RoleArtifact:
		return lines(e.Glyph+" "+bold(e.Title), "<pre>"+esc(e.Text)+"</pre>")
	case ui.RoleLiteral:
		return esc(e.Text)
	case ui.RoleListItem:
		if e.Text == "" {
			return bold(e.Title)
		}
		return bold(e.Title) + " · " + esc(e.Text)
	}
	return lines(esc(e.Title), esc(e.Text))
}

func (f formatter) stack(e *ui.Element) string {
	switch e.Role {
	case ui.RoleList:
		out := make([]string, 0, len(e.Children))
		for _, item := range e.Children {
			bullet := "•"
			if e.Variant == protocol.ListIcon && item.Glyph != "" {
				bullet = item.Glyph
			}
			out = append(out, bullet+" "+f.element(item))
		}
		return strings.Join(out, "\n")
	case ui.RoleStep:
		head := bold(strconv.Itoa(e.Index) + ". " + e.Title)
		return lines(head, spans(e.Spans), f.children(e, "\n"))
	case ui.RoleTags:
		return f.children(e, " ")
	case ui.RoleSection:
		return lines("<b><u>"+esc(e.Title)+"</u></b>", f.children(e, "\n"))
	case ui.RoleDataTile:
		return lines(strings.TrimSpace(bold(e.Title)+" "+esc(e.Text)), f.children(e, "\n"))
	case ui.RoleCard, ui.RoleSegments:
		return f.children(e, "\n\n")
	}
	return f.children(e, "\n")
}

// table lays rows out in a monospace block.
func (f formatter) table(e *ui.Element) string {
	widths := make([]int, len(e.Columns))
	measure := func(cells []ui.Cell) {
		for i, c := range cells {
			if i < len(widths) {
				widths[i] = min(max(widths[i], runewidth.StringWidth(cellText(c))), maxCellWidth)
			}
		}
	}
	measure(e.Header)
	for _, r := range e.Rows {
		measure(r.Cells)
	}

	row := func(cells []ui.Cell) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			var s string
			if i < len(cells) {
				s = cellText(cells[i])
			}
			parts[i] = runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
		}
		return strings.TrimRight(strings.Join(parts, " | "), " ")
	}

	out := make([]string, 0, len(e.Rows)+2)
	if len(e.Header) > 0 {
		out = append(out, row(e.Header))
		rule := make([]string, len(widths))
		for i, w := range widths {
			rule[i] = strings.Repeat("-", w)
		}
		out = append(out, strings.Join(rule, "-+-"))
	}
	for _, r := range e.Rows {
		out = append(out, row(r.Cells))
	}
	return "<pre>" + esc(strings.Join(out, "\n")) + "</pre>"
}

func cellText(c ui.Cell) string {
	if c.Element == nil {
		return c.Text
	}
	var parts []string
	ui.Walk(c.Element, func(e *ui.Element) bool {
		switch {
		case e.Type == ui.TypeIcon:
			parts = append(parts, e.Glyph)
		case e.Title != "":
			parts = append(parts, e.Title)
		case e.Text != "":
			parts = append(parts, e.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}

func (f formatter) children(e *ui.Element, sep string) string {
	out := make([]string, 0, len(e.Children))
	for _, c := range e.Children {
		if s := f.element(c); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}

func spans(ss []ui.Span) string {
	var b strings.Builder
	for _, s := range ss {
		if s.Bold {
			b.WriteString(bold(s.Text))
			continue
		}
		b.WriteString(esc(s.Text))
	}
	return b.String()
}

func bold(s string) string {
	if s == "" {
		return ""
	}
	return "<b>" + esc(s) + "</b>"
}

func italic(s string) string {
	if s == "" {
		return ""
	}
	return "<i>" + esc(s) + "</i>"
}

func lines(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

// esc escapes text for Telegram's HTML parse mode.
func esc(s string) string {
	return html.EscapeString(s)
}
