package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/suPer8Hu/godchat/internal/chat"
	"github.com/suPer8Hu/godchat/internal/config"
	"github.com/suPer8Hu/godchat/internal/db"
	"github.com/suPer8Hu/godchat/internal/log"
	"github.com/suPer8Hu/godchat/internal/store/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.L().Fatal().Err(err).Msg("load config")
	}
	log.Init(log.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, ServiceName: "godchat-worker"})
	logger := log.L()

	if cfg.RabbitURL == "" {
		logger.Fatal().Msg("rabbit.url is empty; nothing to consume")
	}

	gdb, err := db.Connect(db.Options{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	repo := chat.NewRepo(gdb)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbit dial")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbit channel")
	}
	defer ch.Close()

	if err := rabbitmq.DeclareQueues(ch, cfg.RabbitQueue); err != nil {
		logger.Fatal().Err(err).Msg("queue declare")
	}

	// strict concurrency control
	concurrency := cfg.WorkerConcurrency
	if err := ch.Qos(concurrency, 0, false); err != nil {
		logger.Fatal().Err(err).Msg("qos")
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("queue", cfg.RabbitQueue).Int("concurrency", concurrency).Msg("worker started")

	// worker pool
	deliveries := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			wl := logger.With().Int(log.FieldWorker, workerID).Logger()
			for d := range deliveries {
				handleDelivery(ctx, repo, &wl, d)
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker shutting down")
			close(deliveries)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				logger.Error().Msg("delivery channel closed")
				close(deliveries)
				wg.Wait()
				return
			}
			deliveries <- d
		}
	}
}

// handleDelivery audits one event and settles it. The audit runs detached
// from ctx so deliveries drained during shutdown are not dead-lettered.
func handleDelivery(ctx context.Context, repo *chat.Repo, wl *zerolog.Logger, d amqp.Delivery) {
	ev, err := rabbitmq.DecodeExchange(d.Body)
	if err != nil {
		wl.Warn().Err(err).Msg("bad message")
		_ = d.Nack(false, false)
		return
	}

	start := time.Now()
	if err := auditExchange(context.WithoutCancel(ctx), repo, ev); err != nil {
		wl.Error().Err(err).
			Uint64(log.FieldUserID, ev.UserID).
			Uint64("bot_message_id", ev.BotMessageID).
			Dur("cost", time.Since(start)).
			Msg("audit failed")
		_ = d.Nack(false, false)
		return
	}
	logAudit(wl, ev, time.Since(start))

	if err := d.Ack(false); err != nil {
		wl.Warn().Err(err).Uint64("bot_message_id", ev.BotMessageID).Msg("ack failed")
	}
}

var errPairMismatch = errors.New("exchange rows do not form a user/bot pair")

// auditExchange checks that the event points at a committed user row
// followed by its bot row for the same user and persona.
func auditExchange(ctx context.Context, repo *chat.Repo, ev chat.ExchangeEvent) error {
	um, err := repo.GetMessage(ctx, ev.UserMessageID)
	if err != nil {
		return fmt.Errorf("user message %d: %w", ev.UserMessageID, err)
	}
	bm, err := repo.GetMessage(ctx, ev.BotMessageID)
	if err != nil {
		return fmt.Errorf("bot message %d: %w", ev.BotMessageID, err)
	}
	if um.Role != chat.RoleUser || bm.Role != chat.RoleBot ||
		um.UserID != ev.UserID || bm.UserID != ev.UserID ||
		um.Persona != ev.Persona || bm.Persona != ev.Persona ||
		bm.ID <= um.ID {
		return errPairMismatch
	}
	return nil
}

func logAudit(l *zerolog.Logger, ev chat.ExchangeEvent, cost time.Duration) {
	lvl := zerolog.InfoLevel
	if ev.Failure != "" {
		lvl = zerolog.WarnLevel
	}
	l.WithLevel(lvl).
		Str(log.FieldFailure, ev.Failure).
		Uint64(log.FieldUserID, ev.UserID).
		Str(log.FieldPersona, ev.Persona).
		Uint64("user_message_id", ev.UserMessageID).
		Uint64("bot_message_id", ev.BotMessageID).
		Time("at", ev.At).
		Dur("lag", time.Since(ev.At)).
		Dur("cost", cost).
		Msg("exchange audited")
}
