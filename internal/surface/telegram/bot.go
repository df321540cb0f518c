// Package telegram is the chat bot surface. Answers are sent as HTML with an
// inline keyboard: buttons send their message back through the server and
// disclosures toggle in place by editing the message.
package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

const (
	requestTimeout = 45 * time.Second
	pollTimeout    = 30

	greeting     = "Hi! Send me a food, product or ingredient and I'll tell you how healthy it is. /reset starts over."
	clearedText  = "Conversation cleared."
	staleText    = "That answer is no longer active."
	emptyText    = "The answer was empty."
	unsentText   = "Sorry, I couldn't display that answer. Please try again."
	failedPrefix = "⚠️ "
)

// Chatter is the subset of the chat client the bot needs.
type Chatter interface {
	Send(ctx context.Context, conversationID, message string) (*types.ChatResponse, error)
	Clear(ctx context.Context, conversationID string) error
}

// API is the part of *tgbotapi.BotAPI the router uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// chat is the per-chat state. Only the latest answer keeps live buttons.
type chat struct {
	mu        sync.Mutex
	id        int64
	convID    string
	latest    *answer
	pages     []page
	callbacks callbacks
}

// page is one message of an answer. The keyboard rides on the last page.
type page struct {
	id   int
	text string
}

// keyboardMessage is the message holding the live keyboard, 0 if none.
func (c *chat) keyboardMessage() int {
	if len(c.pages) == 0 {
		return 0
	}
	return c.pages[len(c.pages)-1].id
}

func (c *chat) clear() {
	c.latest, c.pages, c.callbacks = nil, nil, nil
}

type Router struct {
	bot    API
	client Chatter
	logger *zap.SugaredLogger

	mu    sync.Mutex
	chats map[int64]*chat
	wg    sync.WaitGroup
}

type Option func(*Router)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Router) { r.logger = l }
}

func NewRouter(bot API, c Chatter, opts ...Option) *Router {
	r := &Router{
		bot:    bot,
		client: c,
		logger: zap.NewNop().Sugar(),
		chats:  make(map[int64]*chat),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run long-polls for updates until ctx is done. Each update is handled on
// its own goroutine; updates of one chat are serialized by the chat lock.
func (r *Router) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := r.bot.GetUpdatesChan(u)
	defer r.wg.Wait()
	defer r.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				r.HandleUpdate(ctx, upd)
			}()
		}
	}
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, upd.CallbackQuery)
		return
	}
	if upd.Message == nil || upd.Message.Chat == nil {
		return
	}
	msg := upd.Message
	if msg.IsCommand() {
		r.handleCommand(ctx, msg)
		return
	}
	if msg.Text == "" {
		return
	}
	c := r.chat(msg.Chat.ID)
	c.mu.Lock()
	defer c.mu.Unlock()
	r.ask(ctx, msg.Chat.ID, c, msg.Text)
}

func (r *Router) chat(id int64) *chat {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		c = &chat{id: id, convID: uuid.NewString()}
		r.chats[id] = c
	}
	return c
}

// ConversationID returns the server conversation a chat talks to.
func (r *Router) ConversationID(chatID int64) string {
	return r.chat(chatID).convID
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		r.send(chatID, greeting)
	case "reset":
		c := r.chat(chatID)
		c.mu.Lock()
		defer c.mu.Unlock()
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		if err := r.reset(ctx, c); err != nil {
			r.logger.Warnw("reset failed", "chat", chatID, "err", err)
			r.send(chatID, failedPrefix+err.Error())
			return
		}
		r.send(chatID, clearedText)
	default:
		r.send(chatID, greeting)
	}
}

// reset deletes the server history of c. c must be locked.
func (r *Router) reset(ctx context.Context, c *chat) error {
	if err := r.client.Clear(ctx, c.convID); err != nil {
		return err
	}
	r.dropKeyboard(c)
	c.clear()
	return nil
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		r.ack(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	c := r.chat(chatID)
	c.mu.Lock()
	defer c.mu.Unlock()

	action, ok := c.callbacks[cb.Data]
	if !ok || cb.Message.MessageID != c.keyboardMessage() {
		r.ack(cb.ID, staleText)
		return
	}
	r.ack(cb.ID, "")

	switch action.kind {
	case callbackToggle:
		c.latest.state.Toggle(action.key)
		r.redraw(c, chatID)
	case callbackSend:
		bridge := ui.Bridge{OnActivate: func(text string) {
			r.ask(ctx, chatID, c, text)
		}}
		if !bridge.Activate(action.action) {
			r.logger.Debugw("button without action", "chat", chatID)
		}
	}
}

// ask sends text to the server and posts the answer. c must be locked.
func (r *Router) ask(ctx context.Context, chatID int64, c *chat, text string) {
	if _, err := r.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		r.logger.Debugw("chat action failed", "chat", chatID, "err", err)
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := r.client.Send(ctx, c.convID, text)
	if err != nil {
		r.logger.Warnw("chat request failed", "chat", chatID, "conversation", c.convID, "err", err)
		r.send(chatID, failedPrefix+err.Error())
		return
	}

	r.dropKeyboard(c)
	c.clear()
	a := prepare(resp.Response)
	cbs := callbacks{}
	kb := Keyboard(a.tree, a.state, cbs.register)
	pages, err := r.post(chatID, a.pages(), 0, kb)
	if err != nil {
		r.logger.Warnw("send answer failed", "chat", chatID, "pages", len(pages), "err", err)
		r.send(chatID, failedPrefix+unsentText)
		return
	}
	c.latest, c.pages, c.callbacks = a, pages, cbs
	r.logger.Debugw("answered", "chat", chatID, "conversation", c.convID, "messages", resp.MessageCount, "pages", len(pages))
}

// post sends texts[from:] as HTML messages, the keyboard on the last one.
func (r *Router) post(chatID int64, texts []string, from int, kb tgbotapi.InlineKeyboardMarkup) ([]page, error) {
	var pages []page
	for i := from; i < len(texts); i++ {
		msg := tgbotapi.NewMessage(chatID, texts[i])
		msg.ParseMode = tgbotapi.ModeHTML
		if i == len(texts)-1 && len(kb.InlineKeyboard) > 0 {
			msg.ReplyMarkup = kb
		}
		sent, err := r.bot.Send(msg)
		if err != nil {
			return pages, err
		}
		pages = append(pages, page{id: sent.MessageID, text: texts[i]})
	}
	return pages, nil
}

// redraw updates the latest answer after a disclosure toggled. Existing
// pages are edited in place, extra pages are appended and surplus ones
// deleted. On failure the answer is deactivated and the user told.
func (r *Router) redraw(c *chat, chatID int64) {
	cbs := callbacks{}
	kb := Keyboard(c.latest.tree, c.latest.state, cbs.register)
	texts := c.latest.pages()

	pages, err := r.repage(c, chatID, texts, kb)
	if err == nil && len(texts) > len(c.pages) {
		var more []page
		more, err = r.post(chatID, texts, len(c.pages), kb)
		pages = append(pages, more...)
	}
	if err != nil {
		r.logger.Warnw("edit answer failed", "chat", chatID, "err", err)
		r.dropKeyboard(c)
		c.clear()
		r.send(chatID, failedPrefix+unsentText)
		return
	}
	for _, p := range c.pages[min(len(texts), len(c.pages)):] {
		if _, err := r.bot.Request(tgbotapi.NewDeleteMessage(chatID, p.id)); err != nil {
			r.logger.Debugw("delete page failed", "chat", chatID, "message", p.id, "err", err)
		}
	}
	c.pages, c.callbacks = pages, cbs
}

// repage edits the pages c already has to show texts. Only the page that
// ends the answer gets kb; a page that used to carry the keyboard loses it.
func (r *Router) repage(c *chat, chatID int64, texts []string, kb tgbotapi.InlineKeyboardMarkup) ([]page, error) {
	oldLast := len(c.pages) - 1
	var pages []page
	for i, p := range c.pages {
		if i >= len(texts) {
			break
		}
		markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		if i == len(texts)-1 {
			markup = kb
		}
		if texts[i] != p.text || i == oldLast || i == len(texts)-1 {
			edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, p.id, texts[i], markup)
			edit.ParseMode = tgbotapi.ModeHTML
			if _, err := r.bot.Send(edit); err != nil {
				return pages, err
			}
		}
		pages = append(pages, page{id: p.id, text: texts[i]})
	}
	return pages, nil
}

// dropKeyboard removes the buttons of the previous answer so only the
// latest one is interactive.
func (r *Router) dropKeyboard(c *chat) {
	if c.keyboardMessage() == 0 || len(c.callbacks) == 0 {
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(c.id, c.keyboardMessage(), tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := r.bot.Send(edit); err != nil {
		r.logger.Debugw("drop keyboard failed", "chat", c.id, "err", err)
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.logger.Warnw("send failed", "chat", chatID, "err", err)
	}
}

func (r *Router) ack(id, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		r.logger.Debugw("callback ack failed", "err", err)
	}
}
