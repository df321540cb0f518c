package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3"
	limitermw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/swarajpanmand/encode-ai-native-health/internal/metrics"
	"github.com/swarajpanmand/encode-ai-native-health/internal/session"
	"github.com/swarajpanmand/encode-ai-native-health/internal/store"
)

// Conversations is the session layer the HTTP handlers drive.
type Conversations interface {
	Exchange(ctx context.Context, id, message string) (session.Reply, error)
	ExchangeStream(ctx context.Context, id, message string, onDelta func(string)) (session.Reply, error)
	Reset(ctx context.Context, id string) error
	History(ctx context.Context, id string) ([]store.Turn, error)
}

type Config struct {
	AllowedOrigins []string
	// RateLimit is a ulule/limiter rate such as "60-M"; empty disables it.
	RateLimit  string
	CookieName string
	Debug      bool

	Metrics *metrics.Metrics
	Logger  *zap.SugaredLogger
}

type Server struct {
	router  *chi.Mux
	conv    Conversations
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
}

func New(conv Conversations, cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(cfg.Logger), middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(cfg.AllowedOrigins)))

	s := &Server{
		router:  r,
		conv:    conv,
		cfg:     cfg,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	limit, err := rateLimit(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	s.routes(limit)

	if cfg.Debug {
		_ = chi.Walk(r, func(method, route string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
			s.logger.Debugw("route", "method", method, "route", route, "middlewares", len(mws))
			return nil
		})
	}
	return s, nil
}

func (s *Server) routes(limit func(http.Handler) http.Handler) {
	s.router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Group(func(r chi.Router) {
			if limit != nil {
				r.Use(limit)
			}
			r.Post("/chat", s.handleChat)
			r.Post("/chat/stream", s.handleChatStream)
			r.Get("/chat/{conversationId}", s.handleHistory)
			r.Delete("/chat/{conversationId}", s.handleDelete)
			r.Post("/render", s.handleRender)
		})
	})
}

func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Infow("listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Infow("shutting down")
	return hs.Shutdown(shutdownCtx)
}

func corsOptions(origins []string) cors.Options {
	allowAll := len(origins) == 0 || len(origins) == 1 && origins[0] == "*"
	if allowAll {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", conversationHeader},
		ExposedHeaders:   []string{conversationHeader},
		AllowCredentials: !allowAll,
		MaxAge:           300,
	}
}

func rateLimit(formatted string) (func(http.Handler) http.Handler, error) {
	if formatted == "" {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", formatted, err)
	}
	mw := limitermw.NewMiddleware(limiter.New(memory.NewStore(), rate))
	return mw.Handler, nil
}
