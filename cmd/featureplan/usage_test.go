package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunUsage_DisabledWithoutDataDir(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	err := runUsage(&buf, "")
	if err == nil || !strings.Contains(err.Error(), "data_dir") {
		t.Fatalf("err = %v, want data_dir guidance", err)
	}
}

func TestRunUsage_EmptyStore(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg := "data_dir: " + filepath.Join(dir, "data") + "\n"
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("featureplan.yaml", []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runUsage(&buf, ""); err != nil {
		t.Fatalf("runUsage failed: %v", err)
	}
	if !strings.Contains(buf.String(), "0 API calls") {
		t.Errorf("output = %q, want empty totals", buf.String())
	}
}
