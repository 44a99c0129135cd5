package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Provider sends one chat exchange and returns the first reply's text.
// An empty string with a nil error means the API answered without content.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
