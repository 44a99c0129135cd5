package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/godchat/internal/ai"
	"github.com/suPer8Hu/godchat/internal/auth"
	"github.com/suPer8Hu/godchat/internal/chat"
	"github.com/suPer8Hu/godchat/internal/config"
	"github.com/suPer8Hu/godchat/internal/db"
	"github.com/suPer8Hu/godchat/internal/httpapi"
	"github.com/suPer8Hu/godchat/internal/httpapi/handlers"
	"github.com/suPer8Hu/godchat/internal/log"
	"github.com/suPer8Hu/godchat/internal/session"
	"github.com/suPer8Hu/godchat/internal/store/rabbitmq"
	"github.com/suPer8Hu/godchat/internal/store/redisstore"
	"github.com/suPer8Hu/godchat/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.L().Fatal().Err(err).Msg("load config")
	}

	log.Init(log.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, ServiceName: "godchat"})
	logger := log.L()
	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(db.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := db.Migrate(gdb, &users.User{}, &chat.Message{}); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		rds, err := redisstore.New(redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, "godchat")
		if err != nil {
			logger.Fatal().Err(err).Msg("connect redis")
		}
		defer rds.Close()
		store = rds
	default:
		mem := session.NewMemoryStore()
		go mem.RunSweeper(ctx, time.Minute)
		store = mem
	}

	if cfg.SessionSecret == "change_this_secret" {
		logger.Warn().Msg("session.secret is the default value; set SESSION_SECRET")
	}
	authSvc := auth.NewService(users.NewRepo(gdb), store, auth.Options{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
	})

	reg := newRegistry(cfg)
	provider, err := reg.Get(ctx, cfg.AIProvider, "")
	if err != nil {
		logger.Fatal().Err(err).Strs("available", reg.Names()).Msg("select ai provider")
	}
	if cfg.AIProvider == "openrouter" && cfg.OpenRouterAPIKey == "" {
		logger.Warn().Msg("OPENROUTER_API_KEY is empty; replies will report the misconfiguration")
	}

	chatOpts := chat.Options{DefaultPersona: cfg.DefaultPersona}
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect rabbitmq")
		}
		defer pub.Close()
		chatOpts.Notifier = pub
	}
	chatSvc := chat.NewService(chat.NewRepo(gdb), ai.NewCompleter(provider, cfg.AITimeout), chatOpts)

	h := handlers.NewHandler(authSvc, chatSvc, handlers.CookieOptions{
		Name:   cfg.SessionCookie,
		Secure: cfg.SessionSecure,
		TTL:    cfg.SessionTTL,
	}, cfg.DefaultPersona)
	r := httpapi.NewRouter(h, httpapi.Options{Logger: *logger, CORSOrigins: cfg.CORSOrigins})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("provider", cfg.AIProvider).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	// in-flight asks may wait on the completion API for up to ai.timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.AITimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()

	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		if m := strings.TrimSpace(model); m != "" {
			cfg.OpenRouterModel = m
		}
		return ai.NewOpenRouterProvider(ai.OpenRouterOptions{
			BaseURL:     cfg.OpenRouterBaseURL,
			APIKey:      cfg.OpenRouterAPIKey,
			Model:       cfg.OpenRouterModel,
			SiteURL:     cfg.OpenRouterSiteURL,
			AppName:     cfg.OpenRouterAppName,
			Temperature: cfg.AITemperature,
			MaxTokens:   cfg.AIMaxTokens,
			Timeout:     cfg.AITimeout,
		}), nil
	})

	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m, cfg.AITemperature, cfg.AIMaxTokens, cfg.AITimeout), nil
	})

	return reg
}
