package protocol

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// maxDepth bounds recursion over untrusted input.
const maxDepth = 64

// Reasons attached to Unrecognized nodes.
const (
	ReasonUnknownKind = "unknown kind"
	ReasonNotANode    = "not a node"
	ReasonTooDeep     = "nesting too deep"
)

// Parse runs the whole decode and validate pipeline over a raw response.
func Parse(raw string) Node {
	return Validate(Decode(raw))
}

// Validate turns a decoder result into a typed tree. It is total: every
// input yields a node and no error is ever reported.
func Validate(d Decoded) Node {
	switch d.Mode {
	case ModeStructured:
		return validateNode(d.Root, 0)
	case ModeSegments:
		return d.Segments
	}
	return Literal{Text: d.Raw}
}

func validateNode(v any, depth int) Node {
	m, ok := v.(map[string]any)
	if !ok {
		return Unrecognized{RawKind: describe(v), Reason: ReasonNotANode}
	}
	name := cast.ToString(m["component"])
	kind, ok := LookupKind(name)
	if !ok {
		return Unrecognized{RawKind: name, Reason: ReasonUnknownKind}
	}
	if depth >= maxDepth {
		return Unrecognized{RawKind: name, Reason: ReasonTooDeep}
	}
	props := m["props"]
	next := depth + 1

	switch kind {
	case KindCard:
		var p cardProps
		decodeProps(props, &p)
		return Card{Children: validateList(p.Children, next)}

	case KindHeader:
		var p headerProps
		decodeProps(props, &p)
		return Header{Title: p.Title, Subtitle: p.Subtitle}

	case KindInlineHeader:
		var p inlineHeaderProps
		decodeProps(props, &p)
		return InlineHeader{Heading: p.Heading, Description: p.Description}

	case KindTextContent:
		var p textContentProps
		decodeProps(props, &p)
		return TextContent{Markdown: p.TextMarkdown}

	case KindCalloutV2:
		var p calloutProps
		decodeProps(props, &p)
		variant := strings.ToLower(strings.TrimSpace(p.Variant))
		if variant == "error" {
			variant = CalloutDanger
		}
		return CalloutV2{
			Variant:     oneOf(variant, CalloutInfo, CalloutInfo, CalloutSuccess, CalloutWarning, CalloutDanger),
			Title:       p.Title,
			Description: p.Description,
		}

	case KindMiniCardBlock:
		var p cardProps
		decodeProps(props, &p)
		return MiniCardBlock{Children: validateList(p.Children, next)}

	case KindMiniCard:
		var p miniCardProps
		decodeProps(props, &p)
		return MiniCard{LHS: validateOptional(p.LHS, next), RHS: validateOptional(p.RHS, next)}

	case KindDataTile:
		var p dataTileProps
		decodeProps(props, &p)
		return DataTile{Amount: p.Amount, Description: p.Description, Child: validateOptional(p.Child, next)}

	case KindList:
		var p listProps
		decodeProps(props, &p)
		return List{Variant: oneOf(p.Variant, ListSimple, ListIcon, ListSimple), Items: listItems(p.Items)}

	case KindSteps:
		var p stepsProps
		decodeProps(props, &p)
		children := validateList(p.Children, next)
		for _, it := range p.Items {
			children = append(children, stepsItem(it, next))
		}
		return Steps{Children: children}

	case KindStepsItem:
		return stepsItem(props, next)

	case KindTable:
		var p tableProps
		decodeProps(props, &p)
		return validateTable(p, next)

	case KindTagBlock:
		var p cardProps
		decodeProps(props, &p)
		return TagBlock{Children: tags(p.Children, next)}

	case KindTag:
		return tag(props)

	case KindButtonGroup:
		var p buttonGroupProps
		decodeProps(props, &p)
		return ButtonGroup{
			Variant:  oneOf(p.Variant, GroupHorizontal, GroupHorizontal, GroupVertical, GroupSuggestion),
			Children: validateList(p.Children, next),
		}

	case KindButton:
		var p buttonProps
		decodeProps(props, &p)
		label := strings.TrimSpace(text(p.Children))
		if label == "" {
			label = strings.TrimSpace(p.Name)
		}
		return Button{
			Label:   label,
			Name:    p.Name,
			Variant: oneOf(p.Variant, ButtonPrimary, ButtonPrimary, ButtonSecondary, ButtonTertiary),
		}

	case KindIcon:
		var p iconProps
		decodeProps(props, &p)
		return Icon{Name: p.Name, Category: p.Category}

	case KindStats:
		var p statsProps
		decodeProps(props, &p)
		return Stats{Number: p.Number, Label: p.Label, Icon: p.Icon}

	case KindAccordion:
		var p accordionProps
		decodeProps(props, &p)
		raws := itemsOf(p.Children)
		keys := itemKeys(raws)
		items := make([]AccordionItem, 0, len(raws))
		for i, ip := range raws {
			items = append(items, AccordionItem{
				Value:   keys[i],
				Trigger: text(ip.Trigger),
				Content: validateList(ip.Content, next),
			})
		}
		return Accordion{Items: items}

	case KindSectionBlock:
		var p sectionBlockProps
		decodeProps(props, &p)
		raws := itemsOf(p.Sections)
		keys := itemKeys(raws)
		sections := make([]Section, 0, len(raws))
		for i, ip := range raws {
			sections = append(sections, Section{
				Value:   keys[i],
				Trigger: text(ip.Trigger),
				Content: validateList(ip.Content, next),
			})
		}
		return SectionBlock{Foldable: p.IsFoldable, Sections: sections}
	}

	// Every vocabulary kind is handled above.
	return Unrecognized{RawKind: name, Reason: ReasonUnknownKind}
}

// validateList accepts a node, a string or an array of either. Bare strings
// become TextContent so prose mixed into containers is not lost.
func validateList(v any, depth int) []Node {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]Node, 0, len(t))
		for _, c := range t {
			if s, ok := c.(string); ok {
				out = append(out, TextContent{Markdown: s})
				continue
			}
			out = append(out, validateNode(c, depth))
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []Node{TextContent{Markdown: t}}
	}
	return []Node{validateNode(v, depth)}
}

func validateOptional(v any, depth int) Node {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return TextContent{Markdown: s}
	}
	return validateNode(v, depth)
}

func listItems(raw []any) []ListItem {
	items := make([]ListItem, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			items = append(items, ListItem{Title: s})
			continue
		}
		var it ListItem
		decodeProps(r, &it)
		items = append(items, it)
	}
	return items
}

func stepsItem(v any, depth int) Node {
	if isNodeValue(v) {
		return validateNode(v, depth)
	}
	if s, ok := v.(string); ok {
		return StepsItem{Title: s}
	}
	var p stepsItemProps
	decodeProps(v, &p)
	item := StepsItem{Title: p.Title}
	switch d := p.Details.(type) {
	case nil:
	case string:
		item.DetailsText = d
	default:
		item.Details = validateList(d, depth)
	}
	return item
}

func tags(v any, depth int) []Node {
	var raw []any
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		raw = t
	default:
		raw = []any{t}
	}
	out := make([]Node, 0, len(raw))
	for _, r := range raw {
		switch {
		case isNodeValue(r):
			out = append(out, validateNode(r, depth))
		case isString(r):
			out = append(out, Tag{Text: r.(string), Variant: TagNeutral})
		default:
			// TagBlock children are usually bare {text, variant} objects.
			out = append(out, tag(r))
		}
	}
	return out
}

func tag(props any) Tag {
	var p tagProps
	decodeProps(props, &p)
	variant := strings.ToLower(strings.TrimSpace(p.Variant))
	if variant == "error" {
		variant = TagDanger
	}
	return Tag{
		Text:    p.Text,
		Variant: oneOf(variant, TagNeutral, TagSuccess, TagInfo, TagWarning, TagDanger, TagNeutral),
	}
}

// validateTable accepts both the row-object shape
// ({rows:[{children:[...]}]}) and plain nested arrays.
func validateTable(p tableProps, depth int) Table {
	var t Table
	for _, h := range rowsOf(p.TableHeader) {
		t.Header = append(t.Header, cell(h, depth))
	}
	for _, r := range rowsOf(p.TableBody) {
		var cells []any
		switch rv := r.(type) {
		case map[string]any:
			if c, ok := rv["children"].([]any); ok {
				cells = c
			}
		case []any:
			cells = rv
		default:
			cells = []any{rv}
		}
		row := make([]TableCell, 0, len(cells))
		for _, c := range cells {
			row = append(row, cell(c, depth))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func rowsOf(v any) []any {
	switch t := v.(type) {
	case map[string]any:
		rows, _ := t["rows"].([]any)
		return rows
	case []any:
		return t
	}
	return nil
}

func cell(v any, depth int) TableCell {
	switch t := v.(type) {
	case nil:
		return TableCell{}
	case string:
		return TableCell{Text: t}
	case float64:
		return TableCell{Text: strconv.FormatFloat(t, 'f', -1, 64)}
	case bool:
		return TableCell{Text: strconv.FormatBool(t)}
	case []any:
		return TableCell{Text: text(t)}
	case map[string]any:
		if isNodeValue(t) {
			return TableCell{Node: validateNode(t, depth)}
		}
		if c, ok := t["children"]; ok {
			return cell(c, depth)
		}
	}
	return TableCell{Node: Unrecognized{RawKind: describe(v), Reason: ReasonNotANode}}
}

func itemsOf(raws []any) []itemProps {
	out := make([]itemProps, len(raws))
	for i, raw := range raws {
		decodeProps(raw, &out[i])
	}
	return out
}

// itemKeys picks the disclosure key of each item: its value, else its
// trigger text, else its position. Explicit values are kept as given; a
// derived key never reuses a key another item already holds.
func itemKeys(items []itemProps) []string {
	keys := make([]string, len(items))
	taken := make(map[string]bool, len(items))
	for i, ip := range items {
		if v := strings.TrimSpace(ip.Value); v != "" {
			keys[i] = v
			taken[v] = true
		}
	}
	for i, ip := range items {
		if keys[i] != "" {
			continue
		}
		k := text(ip.Trigger)
		if k == "" || taken[k] {
			k = "item-" + strconv.Itoa(i)
		}
		for n := 2; taken[k]; n++ {
			k = "item-" + strconv.Itoa(i) + "-" + strconv.Itoa(n)
		}
		keys[i] = k
		taken[k] = true
	}
	return keys
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
