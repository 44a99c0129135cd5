package chat

import (
	"context"
	"time"
)

// ExchangeEvent describes one persisted user/bot pair.
type ExchangeEvent struct {
	UserID        uint64    `json:"user_id"`
	Persona       string    `json:"persona"`
	UserMessageID uint64    `json:"user_message_id"`
	BotMessageID  uint64    `json:"bot_message_id"`
	Failure       string    `json:"failure,omitempty"`
	At            time.Time `json:"at"`
}

// Notifier is told about every completed exchange. Errors are logged by the
// caller and never fail the request.
type Notifier interface {
	PublishExchange(ctx context.Context, ev ExchangeEvent) error
}

type noopNotifier struct{}

func (noopNotifier) PublishExchange(context.Context, ExchangeEvent) error { return nil }
