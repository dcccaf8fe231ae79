// Package project loads the optional per-project context file that
// brownfield runs use to constrain the conversation and the generated
// artifacts.
package project

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultContextFile is the well-known context filename checked in the
// working directory.
const DefaultContextFile = "project.context.json"

// GreenfieldMessage is the summary shown when no context file exists.
const GreenfieldMessage = "Starting a new greenfield plan."

// Context is the loaded project context. Data is the parsed document;
// JSON is the same document pretty-printed for prompt embedding.
type Context struct {
	Data       map[string]any
	JSON       string
	Summary    string
	Greenfield bool
}

// Empty returns the context used when no file is present (or when the
// file could not be parsed).
func Empty() *Context {
	return &Context{
		Data:       map[string]any{},
		JSON:       "{}",
		Summary:    GreenfieldMessage,
		Greenfield: true,
	}
}

// Load reads the context file at path. Three outcomes:
//
//   - file absent: empty context with the greenfield summary, nil error
//   - file unreadable or malformed: empty context with no summary, and
//     the parse error so the caller can report it — degraded, not fatal
//   - file valid: parsed context with a summary naming the product and
//     stack, each defaulted when the payload omits them
func Load(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		c := Empty()
		c.Summary = ""
		return c, fmt.Errorf("read %s: %w", path, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		c := Empty()
		c.Summary = ""
		return c, fmt.Errorf("parse %s: %w", path, err)
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		c := Empty()
		c.Summary = ""
		return c, fmt.Errorf("re-encode %s: %w", path, err)
	}

	return &Context{
		Data:    payload,
		JSON:    string(pretty),
		Summary: summarize(path, payload),
	}, nil
}

// summarize builds the human-readable context acknowledgment, pulling
// product.name and engineering.stack with defaults for missing fields.
func summarize(path string, payload map[string]any) string {
	product := nestedString(payload, "product", "name")
	if product == "" {
		product = "this project"
	}
	stack := nestedString(payload, "engineering", "stack")
	if stack == "" {
		stack = "defined"
	}
	return fmt.Sprintf("Context loaded from ./%s. I see we're working on '%s' with a %s stack.", path, product, stack)
}

// nestedString extracts payload[outer][inner] when both levels are
// present and the leaf is a string.
func nestedString(payload map[string]any, outer, inner string) string {
	m, ok := payload[outer].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[inner].(string)
	return s
}
