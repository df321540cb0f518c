package protocol

// Version identifies the component vocabulary shipped in the system
// instruction. Bump it whenever a kind or a prop name changes.
const Version = "2025-12-30"

// Kind names a node type of the generative UI vocabulary.
type Kind string

const (
	KindCard          Kind = "Card"
	KindHeader        Kind = "Header"
	KindInlineHeader  Kind = "InlineHeader"
	KindTextContent   Kind = "TextContent"
	KindCalloutV2     Kind = "CalloutV2"
	KindMiniCardBlock Kind = "MiniCardBlock"
	KindMiniCard      Kind = "MiniCard"
	KindDataTile      Kind = "DataTile"
	KindList          Kind = "List"
	KindSteps         Kind = "Steps"
	KindStepsItem     Kind = "StepsItem"
	KindTable         Kind = "Table"
	KindTagBlock      Kind = "TagBlock"
	KindTag           Kind = "Tag"
	KindButtonGroup   Kind = "ButtonGroup"
	KindButton        Kind = "Button"
	KindIcon          Kind = "Icon"
	KindStats         Kind = "Stats"
	KindAccordion     Kind = "Accordion"
	KindSectionBlock  Kind = "SectionBlock"
)

// Internal presentation kinds. They never appear on the wire and are not part
// of the vocabulary advertised to the model.
const (
	KindUnrecognized Kind = "Unrecognized"
	KindSegments     Kind = "Segments"
	KindLiteral      Kind = "Literal"
)

var vocabulary = []Kind{
	KindCard,
	KindHeader,
	KindInlineHeader,
	KindTextContent,
	KindCalloutV2,
	KindMiniCardBlock,
	KindMiniCard,
	KindDataTile,
	KindList,
	KindSteps,
	KindStepsItem,
	KindTable,
	KindTagBlock,
	KindTag,
	KindButtonGroup,
	KindButton,
	KindIcon,
	KindStats,
	KindAccordion,
	KindSectionBlock,
}

var known = func() map[Kind]struct{} {
	m := make(map[Kind]struct{}, len(vocabulary))
	for _, k := range vocabulary {
		m[k] = struct{}{}
	}
	return m
}()

// Kinds returns the closed vocabulary in its canonical order.
func Kinds() []Kind {
	return append([]Kind(nil), vocabulary...)
}

// LookupKind reports whether name is a member of the vocabulary. Matching is
// exact: the model is told the names verbatim.
func LookupKind(name string) (Kind, bool) {
	k := Kind(name)
	_, ok := known[k]
	return k, ok
}
