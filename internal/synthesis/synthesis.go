// Package synthesis turns an accumulated conversation into the final
// artifacts: a short feature name, the Feature Plan, and the Execution
// Spec. Each is a one-shot generation call built from the rendered
// transcript.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/featureplan/featureplan/internal/llm"
	"github.com/featureplan/featureplan/internal/prompts"
	"github.com/featureplan/featureplan/internal/session"
)

// ErrEmptySpec is returned when the model produces an empty or
// whitespace-only Execution Spec. Unlike the plan, an empty spec is
// useless to the downstream executor, so it is treated as fatal.
var ErrEmptySpec = errors.New("model generated no content for the execution spec")

// RenderTranscript flattens turns into the text block embedded in the
// synthesis prompts: one "[Role]: content" line per turn, with the role
// name capitalized.
func RenderTranscript(turns []session.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("[%s]: %s", capitalize(t.Role), t.Content))
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Synthesizer issues the one-shot generation calls against a model.
type Synthesizer struct {
	client llm.Client
	model  string
	logger *slog.Logger
}

// New creates a Synthesizer.
func New(client llm.Client, model string, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{client: client, model: model, logger: logger}
}

// FeatureName generates a short feature name from the initial idea.
// Surrounding whitespace is trimmed; the caller is responsible for
// filesystem sanitation and for falling back to the raw idea on error.
func (s *Synthesizer) FeatureName(ctx context.Context, idea string) (string, *llm.ChatResponse, error) {
	resp, err := s.client.Generate(ctx, s.model, prompts.FeatureNamePrompt(idea))
	if err != nil {
		return "", nil, fmt.Errorf("generate feature name: %w", err)
	}
	return strings.TrimSpace(resp.Content), resp, nil
}

// Plan generates the human-readable Feature Plan markdown. The result is
// opaque text; no structural validation is performed.
func (s *Synthesizer) Plan(ctx context.Context, contextJSON, transcript string) (string, *llm.ChatResponse, error) {
	resp, err := s.client.Generate(ctx, s.model, prompts.PlanPrompt(contextJSON, transcript))
	if err != nil {
		return "", nil, fmt.Errorf("generate plan: %w", err)
	}
	s.logger.Debug("plan generated", "len", len(resp.Content))
	return resp.Content, resp, nil
}

// Spec generates the machine-readable Execution Spec markdown. An empty
// or whitespace-only result returns ErrEmptySpec.
func (s *Synthesizer) Spec(ctx context.Context, contextJSON, transcript string) (string, *llm.ChatResponse, error) {
	resp, err := s.client.Generate(ctx, s.model, prompts.SpecPrompt(contextJSON, transcript))
	if err != nil {
		return "", nil, fmt.Errorf("generate spec: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", resp, ErrEmptySpec
	}
	s.logger.Debug("spec generated", "len", len(resp.Content))
	return resp.Content, resp, nil
}
