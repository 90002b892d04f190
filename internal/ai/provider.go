package ai

import (
	"context"
	"fmt"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider generates a reply for a conversation. Implementations must honor
// ctx cancellation and deadlines.
type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// NewProvider returns the provider selected by name ("pollinations" or "").
func NewProvider(engine string) (Provider, error) {
	switch engine {
	case "pollinations", "":
		return NewPollinationsProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", engine)
	}
}
