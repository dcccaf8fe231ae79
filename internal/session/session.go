// Package session manages the stateful requirements-elicitation chat:
// seeding, turn accumulation, and termination detection. The read loop
// itself lives in the command layer; this package owns the history.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/featureplan/featureplan/internal/llm"
	"github.com/featureplan/featureplan/internal/prompts"
)

// Turn is a single conversation turn. Turns are append-only and never
// mutated after being added to the history.
//
// Seed marks the two synthetic priming turns (system prompt and canned
// acknowledgment). The synthesis stage filters on this marker instead of
// comparing turn text against the system prompt, so a user message that
// happens to match the prompt verbatim is never dropped.
type Turn struct {
	Role    string
	Content string
	Seed    bool
}

// terminationKeywords end the interactive loop. Matching is done on the
// trimmed, lowercased input.
var terminationKeywords = map[string]bool{
	"done":   true,
	"save":   true,
	"finish": true,
	"exit":   true,
	"quit":   true,
	"q":      true,
}

// IsTermination reports whether input (after trimming, case-insensitive)
// is one of the keywords that ends the conversation.
func IsTermination(input string) bool {
	return terminationKeywords[strings.ToLower(strings.TrimSpace(input))]
}

// Session is a single elicitation conversation against one model. Not
// safe for concurrent use; featureplan runs exactly one session per
// process.
type Session struct {
	client llm.Client
	model  string
	logger *slog.Logger
	turns  []Turn
}

// New creates an unstarted session.
func New(client llm.Client, model string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Start seeds the chat with the system prompt and acknowledgment, then
// sends the user's initial idea and returns the model's first response.
// An error here means the chat could not be established at all; callers
// treat it as fatal.
func (s *Session) Start(ctx context.Context, contextJSON, idea string) (string, error) {
	s.turns = append(s.turns,
		Turn{Role: llm.RoleUser, Content: prompts.SystemPrompt(contextJSON), Seed: true},
		Turn{Role: llm.RoleModel, Content: prompts.SeedAcknowledgment, Seed: true},
	)

	reply, err := s.exchange(ctx, prompts.OpeningMessage(idea))
	if err != nil {
		return "", fmt.Errorf("start chat: %w", err)
	}
	return reply, nil
}

// Send appends input as a user turn, sends the full history to the
// model, appends and returns the model's reply.
func (s *Session) Send(ctx context.Context, input string) (string, error) {
	return s.exchange(ctx, input)
}

func (s *Session) exchange(ctx context.Context, input string) (string, error) {
	messages := make([]llm.Message, 0, len(s.turns)+1)
	for _, t := range s.turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	resp, err := s.client.Chat(ctx, s.model, messages)
	if err != nil {
		return "", err
	}

	s.turns = append(s.turns,
		Turn{Role: llm.RoleUser, Content: input},
		Turn{Role: llm.RoleModel, Content: resp.Content},
	)

	s.logger.Debug("turn exchanged",
		"history_len", len(s.turns),
		"input_len", len(input),
		"reply_len", len(resp.Content),
	)

	return resp.Content, nil
}

// Turns returns the full history including seed turns.
func (s *Session) Turns() []Turn {
	return s.turns
}

// Transcript returns the history with the seeded system prompt removed.
// The seed acknowledgment and all real turns are retained — the
// acknowledgment is part of the conversation the synthesis prompts see.
func (s *Session) Transcript() []Turn {
	out := make([]Turn, 0, len(s.turns))
	for _, t := range s.turns {
		if t.Seed && t.Role == llm.RoleUser {
			continue
		}
		out = append(out, t)
	}
	return out
}
