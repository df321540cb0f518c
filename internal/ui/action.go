package ui

import "strings"

// ActionSendMessage is the only action generated UI can carry.
const ActionSendMessage = "send_message"

// Action is the activation handle of a button. Text is the literal message
// sent when the button is activated.
type Action struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Bridge connects activated buttons back to the conversation.
type Bridge struct {
	OnActivate func(text string)
}

// Activatable reports whether a carries a message that can be sent.
func (a *Action) Activatable() bool {
	return a != nil && a.Type == ActionSendMessage && strings.TrimSpace(a.Text) != ""
}

// Activate sends the action's text through OnActivate. It reports false and
// does nothing for a nil or empty action or when no callback is set.
func (b Bridge) Activate(a *Action) bool {
	if !a.Activatable() || b.OnActivate == nil {
		return false
	}
	b.OnActivate(a.Text)
	return true
}

// Actions lists the button actions under root in reading order.
func Actions(root *Element) []*Action {
	var out []*Action
	Walk(root, func(e *Element) bool {
		if e.Type == TypeButton && e.Action != nil {
			out = append(out, e.Action)
		}
		return true
	})
	return out
}
