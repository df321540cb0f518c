package term

import "github.com/swarajpanmand/encode-ai-native-health/internal/ui"

// Focusables lists the buttons and disclosures a user can currently reach,
// in reading order. Content of closed disclosures is skipped; table cells
// are not focusable.
func Focusables(root *ui.Element, state *ui.AccordionState) []*ui.Element {
	var out []*ui.Element
	var visit func(e *ui.Element)
	visit = func(e *ui.Element) {
		if e == nil {
			return
		}
		switch e.Type {
		case ui.TypeButton:
			out = append(out, e)
			return
		case ui.TypeDisclosure:
			out = append(out, e)
			if state == nil || !state.IsOpen(e.Key) {
				return
			}
		}
		for _, c := range e.Children {
			visit(c)
		}
	}
	visit(root)
	return out
}
