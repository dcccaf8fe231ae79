// Package llm provides the Gemini generative-language client.
package llm

import (
	"log/slog"
	"time"
)

// LevelTrace is below Debug, used for wire-level payload logging.
const LevelTrace = slog.Level(-8)

// Gemini chat roles. The API distinguishes only the prompting side
// ("user") and the model side ("model"); system-level instructions are
// carried as an ordinary user turn.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message represents a single chat turn for the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the response to a chat or one-shot generation call.
// All fields use proper Go types — wire format conversion happens at
// the provider boundary (gemini.go).
type ChatResponse struct {
	Model     string
	CreatedAt time.Time
	Content   string

	// Token usage from the API's usage metadata.
	InputTokens  int
	OutputTokens int
}
