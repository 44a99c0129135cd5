package ai

import "fmt"

const DefaultPersona = "Krishna"

// SystemPrompt is the instruction sent ahead of every user message.
func SystemPrompt(persona string) string {
	if persona == "" {
		persona = DefaultPersona
	}
	return fmt.Sprintf("You are %s. Respond in Hinglish, kind and concise. Keep it respectful.", persona)
}
