package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suPer8Hu/godchat/internal/ai"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/log"
	"github.com/suPer8Hu/godchat/internal/users"
)

var (
	ErrEmptyMessage = fmt.Errorf("%w: empty message", common.ErrValidation)
	ErrUnauthorized = common.ErrUnauthorized
)

type Completer interface {
	Complete(ctx context.Context, persona, message string) ai.Completion
}

type Options struct {
	// DefaultPersona replaces an empty persona tag.
	DefaultPersona string
	Notifier       Notifier
}

type Service struct {
	repo           *Repo
	completer      Completer
	notifier       Notifier
	defaultPersona string
	locks          *keyedMutex
}

func NewService(repo *Repo, completer Completer, opts Options) *Service {
	if strings.TrimSpace(opts.DefaultPersona) == "" {
		opts.DefaultPersona = ai.DefaultPersona
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	return &Service{
		repo:           repo,
		completer:      completer,
		notifier:       opts.Notifier,
		defaultPersona: opts.DefaultPersona,
		locks:          newKeyedMutex(),
	}
}

func (s *Service) persona(p string) string {
	if p == "" {
		return s.defaultPersona
	}
	return p
}

func (s *Service) History(ctx context.Context, user *users.User, persona string) ([]Entry, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	msgs, err := s.repo.ListMessages(ctx, user.ID, s.persona(persona))
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Entry())
	}
	return out, nil
}

// Ask stores the user's message, relays it to the completion API and stores
// the reply. Any completion failure still yields a bot row and a reply
// string; only storage failures return an error.
func (s *Service) Ask(ctx context.Context, user *users.User, persona, message string) (string, error) {
	if user == nil {
		return "", ErrUnauthorized
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	persona = s.persona(persona)

	l := log.Ctx(ctx).With().Uint64(log.FieldUserID, user.ID).Str(log.FieldPersona, persona).Logger()

	// pairs for one (user, persona) never interleave
	unlock := s.locks.Lock(fmt.Sprintf("%d\x00%s", user.ID, persona))
	defer unlock()

	userMsg, err := s.repo.AppendMessage(ctx, user.ID, persona, RoleUser, message)
	if err != nil {
		l.Error().Err(err).Msg("failed to store user message")
		return "", err
	}

	res := s.completer.Complete(ctx, persona, message)
	reply := res.Reply()

	// the user row is committed, so the bot row must land even if the
	// client has gone away
	botMsg, err := s.repo.AppendMessage(context.WithoutCancel(ctx), user.ID, persona, RoleBot, reply)
	if err != nil {
		l.Error().Err(err).Uint64("user_message_id", userMsg.ID).Msg("failed to store bot message")
		return "", err
	}

	ev := ExchangeEvent{
		UserID:        user.ID,
		Persona:       persona,
		UserMessageID: userMsg.ID,
		BotMessageID:  botMsg.ID,
		Failure:       string(res.Failure),
		At:            time.Now().UTC(),
	}
	if err := s.notifier.PublishExchange(context.WithoutCancel(ctx), ev); err != nil {
		l.Warn().Err(err).Msg("failed to publish exchange event")
	}

	return reply, nil
}
