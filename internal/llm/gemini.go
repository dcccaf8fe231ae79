package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/featureplan/featureplan/internal/httpkit"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient is a client for the Google generative language API
// (the generateContent endpoint).
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiClient creates a new Gemini client. baseURL may be empty to
// use the public endpoint; tests point it at an httptest server.
func NewGeminiClient(apiKey, baseURL string, logger *slog.Logger) *GeminiClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	// Generation calls can think for a long time before sending headers.
	// Use a custom transport with a generous response header timeout.
	t := httpkit.NewTransport()
	t.ResponseHeaderTimeout = 120 * time.Second

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With("provider", "gemini"),
		httpClient: httpkit.NewClient(
			// No global timeout — long syntheses are expected. Rely on
			// ctx deadlines/cancellation for timeout control.
			httpkit.WithTimeout(0),
			httpkit.WithTransport(t),
		),
	}
}

// Gemini request/response wire types.

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata geminiUsage       `json:"usageMetadata"`
	ModelVersion  string            `json:"modelVersion"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Chat sends the full turn history and returns the model's next turn.
func (c *GeminiClient) Chat(ctx context.Context, model string, messages []Message) (*ChatResponse, error) {
	req := geminiRequest{Contents: convertToGemini(messages)}
	return c.generateContent(ctx, model, &req)
}

// Generate sends a single standalone prompt with no history.
func (c *GeminiClient) Generate(ctx context.Context, model string, prompt string) (*ChatResponse, error) {
	req := geminiRequest{Contents: []geminiContent{{
		Role:  RoleUser,
		Parts: []geminiPart{{Text: prompt}},
	}}}
	return c.generateContent(ctx, model, &req)
}

func (c *GeminiClient) generateContent(ctx context.Context, model string, req *geminiRequest) (*ChatResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("preparing request", "model", model, "contents", len(req.Contents))
	c.logger.Log(ctx, LevelTrace, "request payload", "json", string(jsonData))

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody := httpkit.ReadErrorBody(resp.Body, 4096)
		c.logger.Error("API error", "status", resp.StatusCode, "body", errBody)
		return nil, fmt.Errorf("gemini API error %d: %s", resp.StatusCode, errBody)
	}

	var wire geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result, err := convertFromGemini(model, &wire)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("response received",
		"model", result.Model,
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens,
		"content_len", len(result.Content),
	)
	c.logger.Log(ctx, LevelTrace, "response content", "content", result.Content)

	return result, nil
}

// Ping checks if the API is reachable and the credential works. The
// models list endpoint is free and fast, unlike a generation call.
func (c *GeminiClient) Ping(ctx context.Context) error {
	url := c.baseURL + "/v1beta/models?pageSize=1"
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer httpkit.DrainAndClose(resp.Body, 4096)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("invalid API key")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status from Gemini API: %d", resp.StatusCode)
	}
	return nil
}

// convertToGemini converts internal messages to the wire format.
func convertToGemini(messages []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		contents = append(contents, geminiContent{
			Role:  msg.Role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	return contents
}

// convertFromGemini converts a wire response to the internal format.
// A response with no candidates (safety block, quota) is an error.
func convertFromGemini(model string, resp *geminiResponse) (*ChatResponse, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}

	return &ChatResponse{
		Model:        model,
		CreatedAt:    time.Now().UTC(),
		Content:      content.String(),
		InputTokens:  resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	}, nil
}
