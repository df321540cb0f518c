package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/swarajpanmand/encode-ai-native-health/internal/session"
)

const (
	// DefaultCookieName holds the conversation id between chat requests.
	DefaultCookieName = "hc_conversation"
	// CookieMaxAge matches the default idle expiry of a conversation.
	CookieMaxAge = 24 * time.Hour

	conversationHeader = "X-Conversation-Id"
)

func (s *Server) setConversationCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func (s *Server) clearConversationCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func (s *Server) conversationCookie(r *http.Request) string {
	c, err := r.Cookie(s.cfg.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// conversationID resolves the id of a chat request: body, then header, then
// cookie, then the default conversation.
func (s *Server) conversationID(r *http.Request, fromBody string) string {
	for _, id := range []string{fromBody, r.Header.Get(conversationHeader), s.conversationCookie(r)} {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return session.DefaultConversationID
}
