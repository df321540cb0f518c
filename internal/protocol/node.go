package protocol

// Node is a validated UI node. The set of implementations is closed: one
// struct per vocabulary kind plus Unrecognized, Segments and Literal.
type Node interface {
	Kind() Kind
	node()
}

type Card struct {
	Children []Node
}

type Header struct {
	Title    string
	Subtitle string
}

type InlineHeader struct {
	Heading     string
	Description string
}

type TextContent struct {
	Markdown string
}

// Callout variants after normalization.
const (
	CalloutInfo    = "info"
	CalloutSuccess = "success"
	CalloutWarning = "warning"
	CalloutDanger  = "danger"
)

type CalloutV2 struct {
	Variant     string
	Title       string
	Description string
}

type MiniCardBlock struct {
	Children []Node
}

// MiniCard is an asymmetric two-slot container. RHS is nil when the model
// did not send one; LHS may be nil as well but is still rendered as a slot.
type MiniCard struct {
	LHS Node
	RHS Node
}

type DataTile struct {
	Amount      string
	Description string
	Child       Node
}

const (
	ListIcon   = "icon"
	ListSimple = "simple"
)

type List struct {
	Variant string
	Items   []ListItem
}

type ListItem struct {
	Title        string `mapstructure:"title"`
	Subtitle     string `mapstructure:"subtitle"`
	IconName     string `mapstructure:"iconName"`
	IconCategory string `mapstructure:"iconCategory"`
}

type Steps struct {
	Children []Node
}

// StepsItem details arrive either as prose or as nested nodes.
type StepsItem struct {
	Title       string
	DetailsText string
	Details     []Node
}

// TableCell holds plain text or, when the model nested a component, a node.
type TableCell struct {
	Text string
	Node Node
}

type Table struct {
	Header []TableCell
	Rows   [][]TableCell
}

type TagBlock struct {
	Children []Node
}

const (
	TagSuccess = "success"
	TagInfo    = "info"
	TagWarning = "warning"
	TagDanger  = "danger"
	TagNeutral = "neutral"
)

type Tag struct {
	Text    string
	Variant string
}

const (
	GroupHorizontal = "horizontal"
	GroupVertical   = "vertical"
	GroupSuggestion = "suggestion"
)

type ButtonGroup struct {
	Variant  string
	Children []Node
}

const (
	ButtonPrimary   = "primary"
	ButtonSecondary = "secondary"
	ButtonTertiary  = "tertiary"
)

// Button carries the display label sent back as the next message and the
// model-supplied internal name, which is never sent.
type Button struct {
	Label   string
	Name    string
	Variant string
}

type Icon struct {
	Name     string
	Category string
}

type Stats struct {
	Number string
	Label  string
	Icon   string
}

type Accordion struct {
	Items []AccordionItem
}

// AccordionItem is keyed by Value, a caller-supplied stable identifier.
type AccordionItem struct {
	Value   string
	Trigger string
	Content []Node
}

type SectionBlock struct {
	Foldable bool
	Sections []Section
}

type Section struct {
	Value   string
	Trigger string
	Content []Node
}

// Unrecognized replaces a node whose component is outside the vocabulary or
// that is not a node at all. Its children are never visited.
type Unrecognized struct {
	RawKind string
	Reason  string
}

// Segments is the legacy tagged response. Empty fields are absent segments.
type Segments struct {
	Thinking string
	Content  string
	Artifact string
}

// Literal is a response that matched no protocol at all.
type Literal struct {
	Text string
}

func (Card) Kind() Kind          { return KindCard }
func (Header) Kind() Kind        { return KindHeader }
func (InlineHeader) Kind() Kind  { return KindInlineHeader }
func (TextContent) Kind() Kind   { return KindTextContent }
func (CalloutV2) Kind() Kind     { return KindCalloutV2 }
func (MiniCardBlock) Kind() Kind { return KindMiniCardBlock }
func (MiniCard) Kind() Kind      { return KindMiniCard }
func (DataTile) Kind() Kind      { return KindDataTile }
func (List) Kind() Kind          { return KindList }
func (Steps) Kind() Kind         { return KindSteps }
func (StepsItem) Kind() Kind     { return KindStepsItem }
func (Table) Kind() Kind         { return KindTable }
func (TagBlock) Kind() Kind      { return KindTagBlock }
func (Tag) Kind() Kind           { return KindTag }
func (ButtonGroup) Kind() Kind   { return KindButtonGroup }
func (Button) Kind() Kind        { return KindButton }
func (Icon) Kind() Kind          { return KindIcon }
func (Stats) Kind() Kind         { return KindStats }
func (Accordion) Kind() Kind     { return KindAccordion }
func (SectionBlock) Kind() Kind  { return KindSectionBlock }
func (Unrecognized) Kind() Kind  { return KindUnrecognized }
func (Segments) Kind() Kind      { return KindSegments }
func (Literal) Kind() Kind       { return KindLiteral }

func (Card) node()          {}
func (Header) node()        {}
func (InlineHeader) node()  {}
func (TextContent) node()   {}
func (CalloutV2) node()     {}
func (MiniCardBlock) node() {}
func (MiniCard) node()      {}
func (DataTile) node()      {}
func (List) node()          {}
func (Steps) node()         {}
func (StepsItem) node()     {}
func (Table) node()         {}
func (TagBlock) node()      {}
func (Tag) node()           {}
func (ButtonGroup) node()   {}
func (Button) node()        {}
func (Icon) node()          {}
func (Stats) node()         {}
func (Accordion) node()     {}
func (SectionBlock) node()  {}
func (Unrecognized) node()  {}
func (Segments) node()      {}
func (Literal) node()       {}

// Children returns the nodes directly nested in n, in reading order.
func Children(n Node) []Node {
	switch v := n.(type) {
	case Card:
		return v.Children
	case MiniCardBlock:
		return v.Children
	case MiniCard:
		var out []Node
		if v.LHS != nil {
			out = append(out, v.LHS)
		}
		if v.RHS != nil {
			out = append(out, v.RHS)
		}
		return out
	case DataTile:
		if v.Child != nil {
			return []Node{v.Child}
		}
	case Steps:
		return v.Children
	case StepsItem:
		return v.Details
	case Table:
		var out []Node
		for _, c := range v.Header {
			if c.Node != nil {
				out = append(out, c.Node)
			}
		}
		for _, row := range v.Rows {
			for _, c := range row {
				if c.Node != nil {
					out = append(out, c.Node)
				}
			}
		}
		return out
	case TagBlock:
		return v.Children
	case ButtonGroup:
		return v.Children
	case Accordion:
		var out []Node
		for _, it := range v.Items {
			out = append(out, it.Content...)
		}
		return out
	case SectionBlock:
		var out []Node
		for _, s := range v.Sections {
			out = append(out, s.Content...)
		}
		return out
	}
	return nil
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	total := 0
	Walk(n, func(Node) bool {
		total++
		return true
	})
	return total
}
