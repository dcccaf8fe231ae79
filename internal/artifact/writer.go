// Package artifact derives output filenames and writes the generated
// documents to disk.
package artifact

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/featureplan/featureplan/internal/defaults"
)

// AgentInstructionsFile is the constant filename for the executor agent
// instructions document.
const AgentInstructionsFile = "AGENT_INSTRUCTIONS.md"

// fallbackBase is used when sanitation leaves nothing of the name.
const fallbackBase = "feature_plan"

var (
	spacesAndHyphens = regexp.MustCompile(`[\s-]`)
	notFilenameSafe  = regexp.MustCompile(`[^a-z0-9_]`)
)

// SanitizeFilename converts a feature name into a safe filename base:
// lowercased, spaces and hyphens become underscores, everything else
// non-alphanumeric is stripped, leading/trailing underscores trimmed.
// An empty result falls back to "feature_plan".
func SanitizeFilename(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = spacesAndHyphens.ReplaceAllString(s, "_")
	s = notFilenameSafe.ReplaceAllString(s, "")
	s = strings.Trim(s, "_")
	if s == "" {
		return fallbackBase
	}
	return s
}

// Writer writes generated artifacts into a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer. dir must already exist (or be creatable);
// it is created on first write if missing.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, logger: logger}
}

// WritePlan writes <base>.plan.md, overwriting any previous run's plan.
// Returns the path written.
func (w *Writer) WritePlan(base, content string) (string, error) {
	return w.write(base+".plan.md", content)
}

// WriteSpec writes <base>.spec.md, overwriting any previous run's spec.
// Returns the path written.
func (w *Writer) WriteSpec(base, content string) (string, error) {
	return w.write(base+".spec.md", content)
}

func (w *Writer) write(name, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Debug("artifact written", "path", path, "bytes", len(content))
	return path, nil
}

// WriteAgentInstructions writes the embedded executor instructions to
// AGENT_INSTRUCTIONS.md only if that file does not already exist.
// Returns the path and whether a write happened; an existing file is
// left untouched so user edits survive.
func (w *Writer) WriteAgentInstructions() (string, bool, error) {
	path := filepath.Join(w.dir, AgentInstructionsFile)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create output directory %s: %w", w.dir, err)
	}
	if err := os.WriteFile(path, defaults.AgentInstructionsMD, 0o644); err != nil {
		return "", false, fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Debug("agent instructions written", "path", path)
	return path, true, nil
}
