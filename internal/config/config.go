package config

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Providers and store backings accepted by the config.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Port           string   `envconfig:"PORT" default:"3001"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimit      string   `envconfig:"RATE_LIMIT" default:"60-M" desc:"requests per period on /api, ulule/limiter format"`
	Debug          bool     `envconfig:"DEBUG"`

	ModelProvider string        `envconfig:"MODEL_PROVIDER" default:"openai" desc:"openai or gemini"`
	APIKey        string        `envconfig:"THESYS_API_KEY" desc:"key for the OpenAI-compatible endpoint"`
	BaseURL       string        `envconfig:"MODEL_BASE_URL" default:"https://api.thesys.dev/v1/embed"`
	Model         string        `envconfig:"MODEL" default:"c1/anthropic/claude-sonnet-4/v-20251230"`
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	ModelTimeout  time.Duration `envconfig:"MODEL_TIMEOUT" default:"30s"`
	PromptFile    string        `envconfig:"PROMPT_FILE" desc:"YAML system prompt, embedded default when empty"`

	StoreBackend string        `envconfig:"STORE_BACKEND" default:"memory" desc:"memory, file, redis or postgres"`
	HistoryTTL   time.Duration `envconfig:"HISTORY_TTL" default:"24h" desc:"idle time before a conversation expires, 0 keeps it"`
	DataDir      string        `envconfig:"DATA_DIR" default:"data/conversations"`
	RedisURI     string        `envconfig:"REDIS_URI" default:"redis://localhost:6379/1"`
	DatabaseURL  string        `envconfig:"DB_URL"`

	CookieName string `envconfig:"COOKIE_NAME" default:"hc_conversation"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ServerURL        string `envconfig:"CHAT_SERVER_URL" default:"http://localhost:3001"`
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("envconfig process: %w", err)
	}
	cfg.ModelProvider = strings.ToLower(strings.TrimSpace(cfg.ModelProvider))
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.ModelProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("MODEL_PROVIDER must be openai or gemini, got %q", c.ModelProvider)
	}
	switch c.StoreBackend {
	case StoreMemory, StoreFile, StoreRedis, StorePostgres:
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, file, redis or postgres, got %q", c.StoreBackend)
	}
	if c.StoreBackend == StorePostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DB_URL is required for the postgres store")
	}
	if c.ModelTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	}
	return nil
}

// Warnings lists settings that let the server start but will make calls
// fail.
func (c Config) Warnings() []string {
	var out []string
	switch c.ModelProvider {
	case ProviderOpenAI:
		if c.APIKey == "" {
			out = append(out, "THESYS_API_KEY is not set; API calls will fail until provided")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			out = append(out, "GEMINI_API_KEY is not set; API calls will fail until provided")
		}
	}
	return out
}

// AllowAllOrigins reports whether CORS is open to any origin.
func (c Config) AllowAllOrigins() bool {
	return len(c.AllowedOrigins) == 0 ||
		len(c.AllowedOrigins) == 1 && c.AllowedOrigins[0] == "*"
}

// Usage prints the environment variables the config reads.
func Usage(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef("", &Config{}, tw, envconfig.DefaultTableFormat); err != nil {
		return err
	}
	return tw.Flush()
}
