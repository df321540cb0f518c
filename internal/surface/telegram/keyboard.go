package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

type callbackKind int

const (
	callbackSend callbackKind = iota
	callbackToggle
)

// callback is what an inline button does when pressed. Telegram limits
// callback data to 64 bytes, so buttons carry a token and the action stays
// here.
type callback struct {
	kind   callbackKind
	key    string
	action *ui.Action
}

// Keyboard builds the inline keyboard of a tree: one toggle button per
// reachable disclosure and one row per button group. Buttons with nothing to
// send are left out; Telegram rejects a whole message over one empty button.
// register stores each callback and returns the token sent as callback data.
func Keyboard(root *ui.Element, state *ui.AccordionState, register func(callback) string) tgbotapi.InlineKeyboardMarkup {
	if state == nil {
		state = &ui.AccordionState{}
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var visit func(e *ui.Element)
	visit = func(e *ui.Element) {
		if e == nil {
			return
		}
		switch {
		case e.Type == ui.TypeButton:
			if e.Action.Activatable() {
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(e, register)))
			}
			return
		case e.Type == ui.TypeStack && e.Role == ui.RoleButtons && e.Layout == ui.LayoutHorizontal:
			var row []tgbotapi.InlineKeyboardButton
			for _, c := range e.Children {
				if c.Type == ui.TypeButton && c.Action.Activatable() {
					row = append(row, button(c, register))
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return
		case e.Type == ui.TypeDisclosure:
			label := "▸ " + e.Title
			if state.IsOpen(e.Key) {
				label = "▾ " + e.Title
			}
			token := register(callback{kind: callbackToggle, key: e.Key})
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, token)))
			if !state.IsOpen(e.Key) {
				return
			}
		}
		for _, c := range e.Children {
			visit(c)
		}
	}
	visit(root)
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func button(e *ui.Element, register func(callback) string) tgbotapi.InlineKeyboardButton {
	label := strings.TrimSpace(e.Text)
	if label == "" {
		label = e.Action.Text
	}
	token := register(callback{kind: callbackSend, action: e.Action})
	return tgbotapi.NewInlineKeyboardButtonData(label, token)
}

// callbacks holds the tokens of one keyboard.
type callbacks map[string]callback

func (cs callbacks) register(cb callback) string {
	token := uuid.NewString()
	cs[token] = cb
	return token
}
