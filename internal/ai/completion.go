package ai

import (
	"context"
	"errors"
	"time"

	"github.com/suPer8Hu/godchat/internal/log"
)

// Failure tags why a Completion carries no model text.
type Failure string

const (
	FailureNone          Failure = ""
	FailureEmpty         Failure = "empty"
	FailureUpstream      Failure = "upstream"
	FailureMisconfigured Failure = "misconfigured"
)

const (
	EmptyReplyText    = "क्षमा करें, उत्तर उपलब्ध नहीं है।"
	MisconfiguredText = "Server misconfigured: OPENROUTER_API_KEY missing."
	upstreamPrefix    = "API error: "
)

// Completion is the outcome of one proxied call: either model text or a
// tagged failure. It never becomes an error for the caller.
type Completion struct {
	Text    string
	Failure Failure
	Err     error
}

func (c Completion) OK() bool { return c.Failure == FailureNone }

// Reply is the text shown to and stored for the user.
func (c Completion) Reply() string {
	switch c.Failure {
	case FailureNone:
		return c.Text
	case FailureEmpty:
		return EmptyReplyText
	case FailureMisconfigured:
		return MisconfiguredText
	default:
		if c.Err == nil {
			return upstreamPrefix + "unknown error"
		}
		return upstreamPrefix + c.Err.Error()
	}
}

// Completer turns a persona and a user message into a Completion.
type Completer struct {
	provider Provider
	timeout  time.Duration
}

// NewCompleter with a nil provider answers every call as misconfigured
// without touching the network.
func NewCompleter(p Provider, timeout time.Duration) *Completer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Completer{provider: p, timeout: timeout}
}

func (c *Completer) Complete(ctx context.Context, persona, message string) Completion {
	l := log.Ctx(ctx)

	if c.provider == nil {
		l.Warn().Str(log.FieldFailure, string(FailureMisconfigured)).Msg("completion skipped")
		return Completion{Failure: FailureMisconfigured}
	}

	// the client going away must not abort the upstream call
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.provider.Chat(cctx, []Message{
		{Role: RoleSystem, Content: SystemPrompt(persona)},
		{Role: RoleUser, Content: message},
	})
	cost := time.Since(start)

	var out Completion
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		out = Completion{Failure: FailureMisconfigured, Err: err}
	case err != nil:
		out = Completion{Failure: FailureUpstream, Err: err}
	case text == "":
		out = Completion{Failure: FailureEmpty}
	default:
		out = Completion{Text: text}
	}

	if out.OK() {
		l.Debug().Str(log.FieldPersona, persona).Dur("cost", cost).Msg("completion ok")
	} else {
		l.Warn().Err(out.Err).Str(log.FieldPersona, persona).Str(log.FieldFailure, string(out.Failure)).Dur("cost", cost).Msg("completion failed")
	}
	return out
}
