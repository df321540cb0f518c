package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jpillora/eventsource"

	"github.com/swarajpanmand/encode-ai-native-health/internal/protocol"
	"github.com/swarajpanmand/encode-ai-native-health/internal/session"
	"github.com/swarajpanmand/encode-ai-native-health/internal/store"
	"github.com/swarajpanmand/encode-ai-native-health/internal/types"
	"github.com/swarajpanmand/encode-ai-native-health/internal/ui"
)

const (
	msgMessageRequired = "Message is required"
	msgChatFailed      = "Failed to process chat request"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, types.HealthResponse{Status: "ok", Message: "Health copilot server is running"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChat(w, r)
	if !ok {
		return
	}
	id := s.conversationID(r, req.ConversationID)

	reply, err := s.conv.Exchange(r.Context(), id, req.Message)
	if err != nil {
		s.chatError(w, r, id, err)
		return
	}
	s.metrics.ObserveTree(protocol.Parse(reply.Response))

	s.setConversationCookie(w, r, id)
	w.Header().Set(conversationHeader, id)
	render.JSON(w, r, types.ChatResponse{
		Response:       reply.Response,
		ConversationID: id,
		MessageCount:   reply.MessageCount,
	})
}

// handleChatStream answers over server-sent events: "delta" events while the
// provider streams, then one "done" or "error" event.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}
	req, ok := s.decodeChat(w, r)
	if !ok {
		return
	}
	id := s.conversationID(r, req.ConversationID)

	s.setConversationCookie(w, r, id)
	w.Header().Set(conversationHeader, id)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	seq := 0
	send := func(ev types.StreamEvent) bool {
		seq++
		b, err := json.Marshal(ev)
		if err != nil {
			s.logger.Warnw("marshal stream event", "err", err)
			return false
		}
		if err := eventsource.WriteEvent(w, eventsource.Event{ID: strconv.Itoa(seq), Data: b}); err != nil {
			s.logger.Infow("eventsource write fail", "err", err)
			return false
		}
		flusher.Flush()
		return true
	}

	reply, err := s.conv.ExchangeStream(r.Context(), id, req.Message, func(delta string) {
		send(types.StreamEvent{Type: "delta", Delta: delta})
	})
	if err != nil {
		s.logger.Warnw("chat stream failed", "conversation_id", id, "err", err)
		send(types.StreamEvent{Type: "error", Error: msgChatFailed, Details: err.Error()})
		return
	}
	s.metrics.ObserveTree(protocol.Parse(reply.Response))
	send(types.StreamEvent{
		Type:           "done",
		Response:       reply.Response,
		ConversationID: id,
		MessageCount:   reply.MessageCount,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationId")
	turns, err := s.conv.History(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, "Conversation not found", "")
		return
	}
	if err != nil {
		s.logger.Warnw("load history", "conversation_id", id, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "Failed to load conversation", err.Error())
		return
	}

	out := make([]types.Turn, len(turns))
	for i, t := range turns {
		out[i] = types.Turn{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp}
	}
	render.JSON(w, r, types.HistoryResponse{ConversationID: id, Turns: out, MessageCount: len(out)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationId")
	if err := s.conv.Reset(r.Context(), id); err != nil {
		s.logger.Warnw("clear conversation", "conversation_id", id, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "Failed to clear conversation", err.Error())
		return
	}
	if s.conversationCookie(r) == id {
		s.clearConversationCookie(w, r)
	}
	render.JSON(w, r, types.DeleteResponse{Message: "Conversation cleared", ConversationID: id})
}

// handleRender runs a raw model response through the rendering pipeline for
// clients that do not embed it.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	out := ui.Render(req.Response, ui.IconSetFor(req.Surface))
	render.JSON(w, r, types.RenderResponse{Mode: string(out.Mode), Summary: out.Summary, Tree: out.Tree})
}

func (s *Server) decodeChat(w http.ResponseWriter, r *http.Request) (types.ChatRequest, bool) {
	var req types.ChatRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, r, http.StatusBadRequest, msgMessageRequired, "")
		return req, false
	}
	return req, true
}

func (s *Server) chatError(w http.ResponseWriter, r *http.Request, id string, err error) {
	s.logger.Warnw("chat failed", "conversation_id", id, "err", err)

	var upstream *session.UpstreamError
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		s.writeError(w, r, http.StatusBadRequest, msgMessageRequired, "")
	case errors.As(err, &upstream):
		s.writeError(w, r, http.StatusBadGateway, msgChatFailed, upstream.Err.Error())
	default:
		s.writeError(w, r, http.StatusInternalServerError, msgChatFailed, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg, details string) {
	render.Status(r, status)
	render.JSON(w, r, types.ErrorResponse{Error: msg, Details: details})
}
