package llm

import "context"

// Client is the interface the rest of featureplan programs against.
// It exists so sessions and synthesis can be driven by a fake in tests;
// GeminiClient is the only production implementation.
type Client interface {
	// Chat sends the full turn history and returns the model's next turn.
	Chat(ctx context.Context, model string, messages []Message) (*ChatResponse, error)

	// Generate sends a single standalone prompt (no history).
	Generate(ctx context.Context, model string, prompt string) (*ChatResponse, error)

	// Ping checks if the API is reachable with the configured credential.
	Ping(ctx context.Context) error
}
