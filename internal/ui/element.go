// Package ui interprets validated protocol trees into surface-neutral
// elements. Everything here is pure: the same tree always yields an equal
// element tree, and elements hold no functions or shared state, so they can
// be serialized as a view model or walked by a terminal renderer.
package ui

// Type is the primitive an element maps to on every surface.
type Type string

const (
	TypeStack       Type = "stack"
	TypeText        Type = "text"
	TypeIcon        Type = "icon"
	TypeTable       Type = "table"
	TypeButton      Type = "button"
	TypeDisclosure  Type = "disclosure"
	TypePlaceholder Type = "placeholder"
)

// Roles tell a surface which styling to apply to a primitive.
const (
	RoleCard         = "card"
	RoleHeader       = "header"
	RoleInlineHeader = "inline-header"
	RoleMarkdown     = "markdown"
	RoleCallout      = "callout"
	RoleMiniCards    = "minicards"
	RoleMiniCard     = "minicard"
	RoleSlot         = "slot"
	RoleDataTile     = "datatile"
	RoleList         = "list"
	RoleListItem     = "list-item"
	RoleSteps        = "steps"
	RoleStep         = "step"
	RoleTags         = "tags"
	RoleTag          = "tag"
	RoleButtons      = "buttons"
	RoleStats        = "stats"
	RoleAccordion    = "accordion"
	RoleSections     = "sections"
	RoleSection      = "section"
	RoleSegments     = "segments"
	RoleThinking     = "thinking"
	RoleContent      = "content"
	RoleArtifact     = "artifact"
	RoleLiteral      = "literal"
)

// Layouts for stacks.
const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
	LayoutWrap       = "wrap"
)

// Row bands for table bodies.
const (
	BandEven = "even"
	BandOdd  = "odd"
)

// Span is a run of inline text.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Column describes one table column.
type Column struct {
	Index int `json:"index"`
	Width int `json:"width"`
}

// Cell is a table cell: plain text or a nested element.
type Cell struct {
	Text    string   `json:"text,omitempty"`
	Element *Element `json:"element,omitempty"`
}

type Row struct {
	Band  string `json:"band"`
	Cells []Cell `json:"cells"`
}

// Element is a renderable primitive.
type Element struct {
	Type     Type       `json:"type"`
	Role     string     `json:"role,omitempty"`
	Variant  string     `json:"variant,omitempty"`
	Layout   string     `json:"layout,omitempty"`
	Title    string     `json:"title,omitempty"`
	Text     string     `json:"text,omitempty"`
	Spans    []Span     `json:"spans,omitempty"`
	Glyph    string     `json:"glyph,omitempty"`
	Key      string     `json:"key,omitempty"`
	Index    int        `json:"index,omitempty"`
	Last     bool       `json:"last,omitempty"`
	Columns  []Column   `json:"columns,omitempty"`
	Header   []Cell     `json:"header,omitempty"`
	Rows     []Row      `json:"rows,omitempty"`
	Action   *Action    `json:"action,omitempty"`
	Children []*Element `json:"children,omitempty"`
}

// Walk visits e and its descendants depth-first, including elements nested
// in table cells. Returning false from fn skips the children of the current
// element.
func Walk(e *Element, fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Header {
		Walk(c.Element, fn)
	}
	for _, r := range e.Rows {
		for _, c := range r.Cells {
			Walk(c.Element, fn)
		}
	}
	for _, c := range e.Children {
		Walk(c, fn)
	}
}

// Find returns every element under root for which match is true, in walk
// order.
func Find(root *Element, match func(*Element) bool) []*Element {
	var out []*Element
	Walk(root, func(e *Element) bool {
		if match(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}
