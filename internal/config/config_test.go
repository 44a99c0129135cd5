package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, "openrouter", cfg.AIProvider)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.InDelta(t, 0.7, cfg.AITemperature, 1e-9)
	assert.Equal(t, 650, cfg.AIMaxTokens)
	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.OpenRouterModel)
	assert.Equal(t, "Krishna", cfg.DefaultPersona)
	assert.Equal(t, 2, cfg.WorkerConcurrency)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", " sk-test ")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("CHAT_DEFAULT_PERSONA", "Shiva")
	t.Setenv("CORS_ORIGINS", "http://a.test/, http://b.test")
	t.Setenv("WORKER_CONCURRENCY", "500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenRouterAPIKey)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, "Shiva", cfg.DefaultPersona)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 50, cfg.WorkerConcurrency)
}

func TestFromViper_ConcurrencyFloor(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("worker.concurrency", -3)
	assert.Equal(t, 2, fromViper(v).WorkerConcurrency)
}
