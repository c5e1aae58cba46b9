package llm

import "context"

type Message struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// Client sends a conversation to a model and returns its text reply.
type Client interface {
	Chat(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}
