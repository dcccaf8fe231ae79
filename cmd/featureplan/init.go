package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/featureplan/featureplan/internal/defaults"
)

// runInit initializes a featureplan working directory with default
// files: an annotated config and an example project context. Existing
// files are never overwritten.
func runInit(w io.Writer, dir string) error {
	fmt.Fprintf(w, "Initializing featureplan workspace in %s\n", dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, "featureplan.yaml")
	if err := writeIfMissing(configPath, defaults.ConfigYAML); err != nil {
		return err
	}
	fmt.Fprintf(w, "  ✓ %s\n", configPath)

	contextPath := filepath.Join(dir, "project.context.json")
	if err := writeIfMissing(contextPath, defaults.ContextJSON); err != nil {
		return err
	}
	fmt.Fprintf(w, "  ✓ %s\n", contextPath)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit featureplan.yaml to customize the model and output directory.")
	fmt.Fprintln(w, "Edit project.context.json to describe an existing codebase, or")
	fmt.Fprintln(w, "delete it to start greenfield.")
	return nil
}

// writeIfMissing writes content to path only if the file does not already
// exist. This ensures init never overwrites user customizations.
func writeIfMissing(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil // already exists, skip
	}
	return os.WriteFile(path, content, 0o644)
}
