package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/featureplan/featureplan/internal/artifact"
	"github.com/featureplan/featureplan/internal/config"
	"github.com/featureplan/featureplan/internal/llm"
	"github.com/featureplan/featureplan/internal/project"
	"github.com/featureplan/featureplan/internal/render"
	"github.com/featureplan/featureplan/internal/session"
	"github.com/featureplan/featureplan/internal/synthesis"
	"github.com/featureplan/featureplan/internal/usage"
)

// runPlan handles the "featureplan plan <idea>" subcommand. It wires the
// real Gemini client and usage store, then hands off to planSession,
// which holds all the conversational logic and is driven directly from
// tests with a scripted client.
func runPlan(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, configPath, idea string) error {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if level, err = config.ParseLogLevel(cfg.LogLevel); err != nil {
			return err
		}
	}
	logger := newLogger(stderr, level, cfg.LogFormat)
	if cfgPath != "" {
		logger.Debug("config loaded", "path", cfgPath)
	}

	// The credential check happens here, before any client is built.
	// There is no point starting a conversation we cannot sustain.
	apiKey := cfg.ResolveCredential()
	if apiKey == "" {
		return fmt.Errorf("no Gemini API key found: set %s in the environment, a .env file, or the config file", config.CredentialVar)
	}

	client := llm.NewGeminiClient(apiKey, cfg.Gemini.BaseURL, logger)

	var m *meter
	if cfg.DataDir != "" {
		store, err := usage.NewStore(filepath.Join(cfg.DataDir, "usage.db"))
		if err != nil {
			// Telemetry is best-effort; a broken store must never block
			// a planning session.
			logger.Warn("usage store unavailable", "error", err)
		} else {
			defer store.Close()
			m = newMeter(store, cfg.Pricing, logger)
		}
	}

	// A single Ctrl-C during the conversation ends the interview and
	// proceeds to synthesis; a second one kills the process outright.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return planSession(ctx, sigCtx, stdin, stdout, client, cfg, idea, m, logger)
}

// planSession runs the full planning flow: feature naming, the
// interactive elicitation loop, and synthesis of the three artifacts.
//
// ctx governs synthesis; loopCtx additionally carries the interrupt
// signal and governs only the conversation, so that a caught Ctrl-C
// ends the interview without aborting the artifact generation that
// follows it.
func planSession(ctx, loopCtx context.Context, stdin io.Reader, stdout io.Writer, client llm.Client, cfg *config.Config, idea string, m *meter, logger *slog.Logger) error {
	out := render.Renderer{Color: true}
	syn := synthesis.New(client, cfg.Gemini.Model, logger)

	fmt.Fprintln(stdout, "--- Product Agent CLI ---")

	name, resp, err := syn.FeatureName(ctx, idea)
	if err != nil || name == "" {
		// Naming is cosmetic. Fall back to the raw idea and move on.
		logger.Warn("feature name generation failed, using raw idea", "error", err)
		name = idea
	} else {
		m.record(ctx, usage.StageNaming, resp)
	}
	fmt.Fprintf(stdout, "Generated Feature Name: %s\n", name)

	projCtx, err := project.Load(project.DefaultContextFile)
	if err != nil {
		fmt.Fprintf(stdout, "Warning: could not parse %s (%v). Proceeding without project context.\n", project.DefaultContextFile, err)
	}
	if projCtx.Summary != "" {
		fmt.Fprintln(stdout, projCtx.Summary)
	}
	fmt.Fprintln(stdout)

	sess := session.New(meteredClient(client, m), cfg.Gemini.Model, logger)

	reply, err := sess.Start(loopCtx, projCtx.JSON, idea)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Agent:\n%s\n", out.Terminal(reply))

	// The input loop reads lines on a goroutine so an interrupt can end
	// the interview even while blocked on a read. The reader goroutine
	// is abandoned on interrupt; the process is about to exit anyway.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

loop:
	for {
		fmt.Fprint(stdout, "You: ")

		var input string
		select {
		case <-loopCtx.Done():
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "Session interrupted.")
			break loop
		case line, ok := <-lines:
			if !ok {
				// EOF ends the interview the same way "done" does.
				fmt.Fprintln(stdout)
				break loop
			}
			input = line
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		if session.IsTermination(input) {
			break loop
		}

		reply, err := sess.Send(loopCtx, input)
		if err != nil {
			if loopCtx.Err() != nil {
				fmt.Fprintln(stdout, "Session interrupted.")
				break loop
			}
			return err
		}
		fmt.Fprintf(stdout, "Agent:\n%s\n", out.Terminal(reply))
	}

	fmt.Fprintln(stdout, "Generating feature plan and execution spec...")

	transcript := synthesis.RenderTranscript(sess.Transcript())
	base := artifact.SanitizeFilename(name)
	writer := artifact.NewWriter(cfg.OutputDir, logger)

	plan, resp, err := syn.Plan(ctx, projCtx.JSON, transcript)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}
	m.record(ctx, usage.StagePlan, resp)

	planPath, err := writer.WritePlan(base, plan)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created: %s\n", planPath)

	spec, resp, err := syn.Spec(ctx, projCtx.JSON, transcript)
	if err != nil {
		return fmt.Errorf("generate spec: %w", err)
	}
	m.record(ctx, usage.StageSpec, resp)

	specPath, err := writer.WriteSpec(base, spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Created: %s\n", specPath)

	instrPath, wrote, err := writer.WriteAgentInstructions()
	if err != nil {
		return err
	}
	if wrote {
		fmt.Fprintf(stdout, "Created: %s\n", instrPath)
	} else {
		fmt.Fprintf(stdout, "Found existing %s, skipping.\n", artifact.AgentInstructionsFile)
	}

	fmt.Fprintln(stdout, "Planning complete. Hand the spec to your execution agent.")
	return nil
}

// meter records per-call token usage into the store, tagged with the
// synthesis stage. A nil meter silently records nothing, which keeps
// every call site unconditional.
type meter struct {
	store     *usage.Store
	pricing   map[string]config.PricingEntry
	sessionID string
	logger    *slog.Logger
}

func newMeter(store *usage.Store, pricing map[string]config.PricingEntry, logger *slog.Logger) *meter {
	return &meter{
		store:     store,
		pricing:   pricing,
		sessionID: uuid.NewString(),
		logger:    logger,
	}
}

func (m *meter) record(ctx context.Context, stage string, resp *llm.ChatResponse) {
	if m == nil || resp == nil {
		return
	}
	rec := usage.Record{
		Timestamp:    time.Now().UTC(),
		SessionID:    m.sessionID,
		Model:        resp.Model,
		Stage:        stage,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      usage.ComputeCost(resp.Model, resp.InputTokens, resp.OutputTokens, m.pricing),
	}
	if err := m.store.Record(ctx, rec); err != nil {
		m.logger.Warn("usage record failed", "stage", stage, "error", err)
	}
}

// chatMeter wraps an llm.Client so every conversational exchange is
// metered under the chat stage. Synthesis calls bypass the wrapper and
// are metered by their callers, which know the stage.
type chatMeter struct {
	llm.Client
	m *meter
}

func meteredClient(c llm.Client, m *meter) llm.Client {
	if m == nil {
		return c
	}
	return &chatMeter{Client: c, m: m}
}

func (c *chatMeter) Chat(ctx context.Context, model string, messages []llm.Message) (*llm.ChatResponse, error) {
	resp, err := c.Client.Chat(ctx, model, messages)
	if err == nil {
		c.m.record(ctx, usage.StageChat, resp)
	}
	return resp, err
}
