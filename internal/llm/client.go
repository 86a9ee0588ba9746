package llm

import (
	"context"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role/content pair of a chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Backend is a single text-generation service. Complete sends the ordered
// messages and returns the assistant's reply text. Implementations report
// failures as *BackendError where they can tell transient from fatal.
type Backend interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// splitSystem separates system instructions from the conversational turns
// for providers that take them as a dedicated field.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
