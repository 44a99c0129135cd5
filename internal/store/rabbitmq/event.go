package rabbitmq

import (
	"encoding/json"
	"errors"

	"github.com/suPer8Hu/godchat/internal/chat"
)

var ErrBadEvent = errors.New("malformed exchange event")

// DecodeExchange parses a delivery body produced by Publisher.
func DecodeExchange(body []byte) (chat.ExchangeEvent, error) {
	var ev chat.ExchangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, errors.Join(ErrBadEvent, err)
	}
	if ev.UserID == 0 || ev.UserMessageID == 0 || ev.BotMessageID == 0 {
		return ev, ErrBadEvent
	}
	return ev, nil
}
