package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string

	DBDriver       string
	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// session
	SessionSecret string
	SessionCookie string
	SessionTTL    time.Duration
	SessionSecure bool
	SessionStore  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AI provider
	AIProvider        string
	AITimeout         time.Duration
	AITemperature     float64
	AIMaxTokens       int
	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterSiteURL string
	OpenRouterAppName string
	OllamaBaseURL     string
	OllamaModel       string

	DefaultPersona string

	// rabbitMQ, empty URL disables exchange events
	RabbitURL         string
	RabbitQueue       string
	WorkerConcurrency int

	CORSOrigins []string

	LogLevel  string
	LogPretty bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":5000")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "app.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	v.SetDefault("db.max_open_conns", 0)
	v.SetDefault("db.max_idle_conns", 0)

	v.SetDefault("session.secret", "change_this_secret")
	v.SetDefault("session.cookie", "godchat_session")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.store", "memory")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ai.provider", "openrouter")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 650)
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.model", "openai/gpt-3.5-turbo")
	v.SetDefault("openrouter.site_url", "")
	v.SetDefault("openrouter.app_name", "")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3:latest")

	v.SetDefault("chat.default_persona", "Krishna")

	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.queue", "chat_exchanges")
	v.SetDefault("worker.concurrency", 2)

	v.SetDefault("cors.origins", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Load reads configuration from an optional .env file, an optional
// config.yaml and the environment, in increasing priority.
// Dotted keys map to env names, e.g. db.dsn -> DB_DSN.
func Load() (Config, error) {
	_ = godotenv.Load() // ok if missing

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	concurrency := v.GetInt("worker.concurrency")
	if concurrency <= 0 {
		concurrency = 2
	}
	if concurrency > 50 {
		concurrency = 50
	}

	return Config{
		HTTPAddr: v.GetString("http.addr"),

		DBDriver:       strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
		DBDSN:          v.GetString("db.dsn"),
		DBMaxOpenConns: v.GetInt("db.max_open_conns"),
		DBMaxIdleConns: v.GetInt("db.max_idle_conns"),

		SessionSecret: v.GetString("session.secret"),
		SessionCookie: v.GetString("session.cookie"),
		SessionTTL:    v.GetDuration("session.ttl"),
		SessionSecure: v.GetBool("session.secure"),
		SessionStore:  strings.ToLower(strings.TrimSpace(v.GetString("session.store"))),

		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),

		AIProvider:        strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))),
		AITimeout:         v.GetDuration("ai.timeout"),
		AITemperature:     v.GetFloat64("ai.temperature"),
		AIMaxTokens:       v.GetInt("ai.max_tokens"),
		OpenRouterBaseURL: v.GetString("openrouter.base_url"),
		OpenRouterAPIKey:  strings.TrimSpace(v.GetString("openrouter.api_key")),
		OpenRouterModel:   v.GetString("openrouter.model"),
		OpenRouterSiteURL: v.GetString("openrouter.site_url"),
		OpenRouterAppName: v.GetString("openrouter.app_name"),
		OllamaBaseURL:     v.GetString("ollama.base_url"),
		OllamaModel:       v.GetString("ollama.model"),

		DefaultPersona: v.GetString("chat.default_persona"),

		RabbitURL:         v.GetString("rabbit.url"),
		RabbitQueue:       v.GetString("rabbit.queue"),
		WorkerConcurrency: concurrency,

		CORSOrigins: splitList(v.GetString("cors.origins")),

		LogLevel:  v.GetString("log.level"),
		LogPretty: v.GetBool("log.pretty"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimRight(strings.TrimSpace(p), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
