package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PORT", "MODEL_PROVIDER", "STORE_BACKEND", "MODEL_TIMEOUT", "HISTORY_TTL", "ALLOWED_ORIGINS", "THESYS_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.ModelProvider)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 24*time.Hour, cfg.HistoryTTL)
	assert.Equal(t, "https://api.thesys.dev/v1/embed", cfg.BaseURL)
	assert.True(t, cfg.AllowAllOrigins())
	assert.Len(t, cfg.Warnings(), 1)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("MODEL_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.ModelProvider)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AllowAllOrigins())
	assert.Empty(t, cfg.Warnings())
}

func TestValidate(t *testing.T) {
	base := Config{ModelProvider: ProviderOpenAI, StoreBackend: StoreMemory, ModelTimeout: time.Second}
	require.NoError(t, base.Validate())

	bad := base
	bad.ModelProvider = "llama"
	assert.Error(t, bad.Validate())

	bad = base
	bad.StoreBackend = StorePostgres
	assert.Error(t, bad.Validate())
	bad.DatabaseURL = "postgres://localhost/hc"
	assert.NoError(t, bad.Validate())
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Usage(&buf))
	assert.Contains(t, buf.String(), "STORE_BACKEND")
	assert.Contains(t, buf.String(), "THESYS_API_KEY")
}
