package ui

import (
	"strings"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
)

// Options configure interpretation for one surface.
type Options struct {
	// Icons resolves icon names. The zero value uses FeatherIcons.
	Icons IconSet
}

// Interpret maps a validated tree to elements. It never returns nil.
func Interpret(n protocol.Node, opts Options) *Element {
	if opts.Icons.Glyphs == nil && opts.Icons.Fallback == "" {
		opts.Icons = FeatherIcons
	}
	in := interpreter{icons: opts.Icons}
	if e := in.node(n); e != nil {
		return e
	}
	return &Element{Type: TypeStack, Layout: LayoutVertical}
}

type interpreter struct {
	icons IconSet
}

// node returns nil for nodes that render nothing.
func (in interpreter) node(n protocol.Node) *Element {
	switch v := n.(type) {
	case nil:
		return nil

	case protocol.Card:
		return in.stack(RoleCard, LayoutVertical, v.Children)

	case protocol.Header:
		return &Element{Type: TypeText, Role: RoleHeader, Title: v.Title, Text: v.Subtitle}

	case protocol.InlineHeader:
		return &Element{Type: TypeText, Role: RoleInlineHeader, Title: v.Heading, Text: v.Description}

	case protocol.TextContent:
		return &Element{Type: TypeText, Role: RoleMarkdown, Text: v.Markdown, Spans: Spans(v.Markdown)}

	case protocol.CalloutV2:
		return &Element{
			Type:    TypeText,
			Role:    RoleCallout,
			Variant: v.Variant,
			Glyph:   calloutGlyphs[v.Variant],
			Title:   v.Title,
			Text:    v.Description,
		}

	case protocol.MiniCardBlock:
		return in.stack(RoleMiniCards, LayoutHorizontal, v.Children)

	case protocol.MiniCard:
		e := &Element{Type: TypeStack, Role: RoleMiniCard, Layout: LayoutHorizontal}
		e.Children = append(e.Children, in.slot("lhs", v.LHS))
		if v.RHS != nil {
			e.Children = append(e.Children, in.slot("rhs", v.RHS))
		}
		return e

	case protocol.DataTile:
		e := &Element{Type: TypeStack, Role: RoleDataTile, Layout: LayoutVertical, Title: v.Amount, Text: v.Description}
		if c := in.node(v.Child); c != nil {
			e.Children = []*Element{c}
		}
		return e

	case protocol.List:
		e := &Element{Type: TypeStack, Role: RoleList, Variant: v.Variant, Layout: LayoutVertical}
		for i, it := range v.Items {
			item := &Element{Type: TypeText, Role: RoleListItem, Title: it.Title, Text: it.Subtitle, Index: i + 1}
			if v.Variant == protocol.ListIcon {
				item.Glyph = in.icons.Lookup(it.IconName)
			}
			e.Children = append(e.Children, item)
		}
		return e

	case protocol.Steps:
		e := &Element{Type: TypeStack, Role: RoleSteps, Layout: LayoutVertical}
		for i, c := range v.Children {
			e.Children = append(e.Children, in.step(c, i, len(v.Children)))
		}
		return e

	case protocol.StepsItem:
		return in.step(v, 0, 1)

	case protocol.Table:
		return in.table(v)

	case protocol.TagBlock:
		return in.stack(RoleTags, LayoutWrap, v.Children)

	case protocol.Tag:
		if strings.TrimSpace(v.Text) == "" {
			return nil
		}
		return &Element{Type: TypeText, Role: RoleTag, Variant: v.Variant, Text: v.Text}

	case protocol.ButtonGroup:
		layout := LayoutHorizontal
		if v.Variant != protocol.GroupHorizontal {
			layout = LayoutVertical
		}
		e := in.stack(RoleButtons, layout, v.Children)
		e.Variant = v.Variant
		return e

	case protocol.Button:
		return &Element{
			Type:    TypeButton,
			Variant: v.Variant,
			Text:    v.Label,
			Action:  &Action{Type: ActionSendMessage, Text: v.Label},
		}

	case protocol.Icon:
		return &Element{Type: TypeIcon, Text: v.Name, Glyph: in.icons.Lookup(v.Name)}

	case protocol.Stats:
		e := &Element{Type: TypeText, Role: RoleStats, Title: v.Number, Text: v.Label}
		if v.Icon != "" {
			e.Glyph = in.icons.Lookup(v.Icon)
		}
		return e

	case protocol.Accordion:
		e := &Element{Type: TypeStack, Role: RoleAccordion, Layout: LayoutVertical}
		for _, it := range v.Items {
			e.Children = append(e.Children, in.disclosure(RoleAccordion, it.Value, it.Trigger, it.Content))
		}
		return e

	case protocol.SectionBlock:
		e := &Element{Type: TypeStack, Role: RoleSections, Layout: LayoutVertical}
		for _, s := range v.Sections {
			if v.Foldable {
				e.Children = append(e.Children, in.disclosure(RoleSection, s.Value, s.Trigger, s.Content))
				continue
			}
			sec := in.stack(RoleSection, LayoutVertical, s.Content)
			sec.Key = s.Value
			sec.Title = s.Trigger
			e.Children = append(e.Children, sec)
		}
		return e

	case protocol.Unrecognized:
		return &Element{Type: TypePlaceholder, Variant: v.Reason, Text: "Unknown component: " + v.RawKind}

	case protocol.Segments:
		e := &Element{Type: TypeStack, Role: RoleSegments, Layout: LayoutVertical}
		if v.Thinking != "" {
			e.Children = append(e.Children, &Element{Type: TypeText, Role: RoleThinking, Glyph: thinkingGlyph, Text: v.Thinking})
		}
		if v.Content != "" {
			e.Children = append(e.Children, &Element{Type: TypeText, Role: RoleContent, Text: v.Content})
		}
		if v.Artifact != "" {
			e.Children = append(e.Children, &Element{Type: TypeText, Role: RoleArtifact, Glyph: artifactGlyph, Title: "Document", Text: v.Artifact})
		}
		return e

	case protocol.Literal:
		return &Element{Type: TypeText, Role: RoleLiteral, Text: v.Text}
	}
	return &Element{Type: TypePlaceholder, Text: "Unknown component: " + string(n.Kind())}
}

func (in interpreter) stack(role, layout string, children []protocol.Node) *Element {
	e := &Element{Type: TypeStack, Role: role, Layout: layout}
	e.Children = in.list(children)
	return e
}

func (in interpreter) list(nodes []protocol.Node) []*Element {
	var out []*Element
	for _, c := range nodes {
		if e := in.node(c); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (in interpreter) slot(key string, n protocol.Node) *Element {
	e := &Element{Type: TypeStack, Role: RoleSlot, Key: key, Layout: LayoutVertical}
	if c := in.node(n); c != nil {
		e.Children = []*Element{c}
	}
	return e
}

// step numbers children of Steps by position. Nodes other than StepsItem
// still take a number and are shown as the step body.
func (in interpreter) step(n protocol.Node, i, total int) *Element {
	e := &Element{Type: TypeStack, Role: RoleStep, Layout: LayoutVertical, Index: i + 1, Last: i == total-1}
	item, ok := n.(protocol.StepsItem)
	if !ok {
		if c := in.node(n); c != nil {
			e.Children = []*Element{c}
		}
		return e
	}
	e.Title = item.Title
	if item.DetailsText != "" {
		e.Text = item.DetailsText
		e.Spans = Spans(item.DetailsText)
	}
	e.Children = in.list(item.Details)
	return e
}

func (in interpreter) disclosure(role, key, trigger string, content []protocol.Node) *Element {
	return &Element{
		Type:     TypeDisclosure,
		Role:     role,
		Key:      key,
		Title:    trigger,
		Children: in.list(content),
	}
}

func (in interpreter) table(t protocol.Table) *Element {
	e := &Element{Type: TypeTable}
	cols := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	for i := 0; i < cols; i++ {
		e.Columns = append(e.Columns, Column{Index: i, Width: ColumnWidth(i)})
	}
	for _, c := range t.Header {
		e.Header = append(e.Header, in.cell(c))
	}
	for i, r := range t.Rows {
		row := Row{Band: Band(i), Cells: make([]Cell, 0, len(r))}
		for _, c := range r {
			row.Cells = append(row.Cells, in.cell(c))
		}
		e.Rows = append(e.Rows, row)
	}
	return e
}

func (in interpreter) cell(c protocol.TableCell) Cell {
	if c.Node != nil {
		return Cell{Element: in.node(c.Node)}
	}
	return Cell{Text: c.Text}
}
