// Package session drives conversations: it keeps one history per
// conversation id and serializes exchanges on the same id.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swarajpanmand/encode-ai-native-health/internal/llm"
	"github.com/swarajpanmand/encode-ai-native-health/internal/metrics"
	"github.com/swarajpanmand/encode-ai-native-health/internal/store"
)

// DefaultConversationID is used when the caller names no conversation.
const DefaultConversationID = "default"

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 30 * time.Second

// Reply is the outcome of a successful exchange.
type Reply struct {
	Response     string
	MessageCount int
}

type Service struct {
	store    store.Store
	provider llm.Provider
	system   string

	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
	now     func() time.Time

	locks keyedLock
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) { s.logger = l }
}

// New returns a Service seeding new conversations with the system prompt.
func New(st store.Store, p llm.Provider, system string, opts ...Option) *Service {
	s := &Service{
		store:    st,
		provider: p,
		system:   system,
		timeout:  DefaultTimeout,
		logger:   zap.NewNop().Sugar(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider returns the name of the model provider.
func (s *Service) Provider() string { return s.provider.Name() }

// Exchange appends message to the conversation, asks the provider for the
// next assistant turn and records it.
func (s *Service) Exchange(ctx context.Context, id, message string) (Reply, error) {
	return s.exchange(ctx, id, message, nil)
}

// ExchangeStream is Exchange with incremental delivery. onDelta receives
// each chunk as it arrives; providers without streaming deliver the whole
// reply as one chunk. The conversation stays locked until the stream ends.
func (s *Service) ExchangeStream(ctx context.Context, id, message string, onDelta func(string)) (Reply, error) {
	if onDelta == nil {
		onDelta = func(string) {}
	}
	return s.exchange(ctx, id, message, onDelta)
}

func (s *Service) exchange(ctx context.Context, id, message string, onDelta func(string)) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}
	id = normalizeID(id)

	var reply Reply
	err := s.locks.withLock(ctx, id, func(ctx context.Context) error {
		history, err := s.store.Get(ctx, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load conversation: %w", err)
		}

		var pending []store.Turn
		if len(history) == 0 {
			pending = append(pending, store.Turn{Role: store.RoleSystem, Content: s.system, Timestamp: s.now()})
			s.logger.Debugw("conversation started", "conversation_id", id)
		}
		pending = append(pending, store.Turn{Role: store.RoleUser, Content: message, Timestamp: s.now()})
		if err := s.store.Append(ctx, id, pending...); err != nil {
			return fmt.Errorf("append user turn: %w", err)
		}
		history = append(history, pending...)

		start := time.Now()
		text, err := s.complete(ctx, history, onDelta)
		s.metrics.ObserveExchange(s.provider.Name(), err, time.Since(start))
		if err != nil {
			s.logger.Warnw("provider call failed",
				"conversation_id", id,
				"provider", s.provider.Name(),
				"err", err,
			)
			return &UpstreamError{Provider: s.provider.Name(), Err: err}
		}

		if err := s.store.Append(ctx, id, store.Turn{Role: store.RoleAssistant, Content: text, Timestamp: s.now()}); err != nil {
			return fmt.Errorf("append assistant turn: %w", err)
		}
		reply = Reply{Response: text, MessageCount: len(history) + 1}
		s.logger.Infow("exchange complete",
			"conversation_id", id,
			"message_count", reply.MessageCount,
			"duration", time.Since(start),
		)
		return nil
	})
	return reply, err
}

func (s *Service) complete(ctx context.Context, history []store.Turn, onDelta func(string)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msgs := toMessages(history)
	if onDelta == nil {
		return s.provider.Complete(ctx, msgs)
	}
	if st, ok := s.provider.(llm.Streamer); ok {
		return st.Stream(ctx, msgs, onDelta)
	}
	text, err := s.provider.Complete(ctx, msgs)
	if err != nil {
		return "", err
	}
	onDelta(text)
	return text, nil
}

// Reset forgets the conversation; the next message starts a fresh one.
func (s *Service) Reset(ctx context.Context, id string) error {
	id = normalizeID(id)
	return s.locks.withLock(ctx, id, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete conversation: %w", err)
		}
		s.logger.Infow("conversation cleared", "conversation_id", id)
		return nil
	})
}

// History returns the turns of a conversation, store.ErrNotFound if it has
// none.
func (s *Service) History(ctx context.Context, id string) ([]store.Turn, error) {
	id = normalizeID(id)
	var turns []store.Turn
	err := s.locks.withLock(ctx, id, func(ctx context.Context) error {
		var err error
		turns, err = s.store.Get(ctx, id)
		return err
	})
	return turns, err
}

func normalizeID(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return DefaultConversationID
	}
	return id
}

func toMessages(turns []store.Turn) []llm.Message {
	msgs := make([]llm.Message, len(turns))
	for i, t := range turns {
		msgs[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return msgs
}
