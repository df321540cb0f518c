package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swarajpanmand/encode-ai-native-health/internal/config"
	"github.com/swarajpanmand/encode-ai-native-health/internal/db"
	"github.com/swarajpanmand/encode-ai-native-health/internal/llm"
	"github.com/swarajpanmand/encode-ai-native-health/internal/metrics"
	"github.com/swarajpanmand/encode-ai-native-health/internal/prompt"
	"github.com/swarajpanmand/encode-ai-native-health/internal/server"
	"github.com/swarajpanmand/encode-ai-native-health/internal/session"
	"github.com/swarajpanmand/encode-ai-native-health/internal/store"
)

const sweepInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
}

func serve(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) error {
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	spec, err := prompt.Load(cfg.PromptFile)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	provider, closeProvider, err := openProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProvider()

	m := metrics.New()
	svc := session.New(st, provider, spec.System(),
		session.WithTimeout(cfg.ModelTimeout),
		session.WithMetrics(m),
		session.WithLogger(logger.Named("session")),
	)

	srv, err := server.New(svc, server.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		CookieName:     cfg.CookieName,
		Debug:          cfg.Debug,
		Metrics:        m,
		Logger:         logger.Named("http"),
	})
	if err != nil {
		return err
	}

	if sw, ok := st.(sweeper); ok {
		go sweep(ctx, sw, logger)
	}

	logger.Infow("starting server",
		"port", cfg.Port,
		"provider", provider.Name(),
		"model", modelName(cfg),
		"store", cfg.StoreBackend,
		"cors_any_origin", cfg.AllowAllOrigins(),
		"prompt_version", spec.Version,
	)
	return srv.ListenAndServe(ctx, ":"+cfg.Port)
}

// sweeper is implemented by stores whose idle expiry needs a periodic pass.
// Redis expires keys itself.
type sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

func sweep(ctx context.Context, sw sweeper, logger *zap.SugaredLogger) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := sw.Sweep(ctx)
			if err != nil {
				logger.Warnw("sweep failed", "err", err)
				continue
			}
			if n > 0 {
				logger.Debugw("expired conversations removed", "count", n)
			}
		}
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (store.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case config.StoreFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("create data dir: %w", err)
		}
		return store.NewFileStore(cfg.DataDir, cfg.HistoryTTL), noop, nil

	case config.StoreRedis:
		rs, err := store.NewRedisStore(cfg.RedisURI,
			store.WithTTL(cfg.HistoryTTL),
			store.WithRedisLogger(logger.Named("redis")),
		)
		if err != nil {
			return nil, noop, err
		}
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		return rs, func() { rs.Close() }, nil

	case config.StorePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, db.WithLogger(logger.Named("db")))
		if err != nil {
			return nil, noop, err
		}
		if err := database.RunMigrations(ctx, db.Migrations); err != nil {
			database.Close()
			return nil, noop, err
		}
		return store.NewDatabaseStore(database, cfg.HistoryTTL), func() { database.Close() }, nil
	}
	return store.NewMemoryStore(cfg.HistoryTTL), noop, nil
}

func openProvider(ctx context.Context, cfg config.Config) (llm.Provider, func(), error) {
	if cfg.ModelProvider == config.ProviderGemini {
		g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, func() {}, err
		}
		return g, func() { g.Close() }, nil
	}
	return llm.NewOpenAI(cfg.APIKey, cfg.Model, llm.WithBaseURL(cfg.BaseURL)), func() {}, nil
}

func modelName(cfg config.Config) string {
	if cfg.ModelProvider == config.ProviderGemini {
		return cfg.GeminiModel
	}
	return cfg.Model
}
