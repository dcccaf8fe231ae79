package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	os.WriteFile(path, []byte("gemini:\n  model: gemini-pro-latest\n"), 0600)

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig(%q) error: %v", path, err)
	}
	if got != path {
		t.Errorf("FindConfig(%q) = %q, want %q", path, got, path)
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	_, err := FindConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("FindConfig with missing explicit path should error")
	}
}

func TestFindConfig_NoConfigIsFine(t *testing.T) {
	// With no config anywhere, FindConfig returns empty path, no error —
	// featureplan runs on defaults.
	// (Save and restore CWD to avoid finding the repo's featureplan.yaml)
	dir := t.TempDir()
	orig, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(orig)

	got, err := FindConfig("")
	if err != nil {
		t.Fatalf("FindConfig(\"\") error: %v", err)
	}
	if got != "" {
		t.Errorf("FindConfig(\"\") = %q, want empty", got)
	}
}

func TestFindConfig_CWD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "featureplan.yaml")
	os.WriteFile(path, []byte("log_level: debug\n"), 0600)

	orig, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(orig)

	got, err := FindConfig("")
	if err != nil {
		t.Fatalf("FindConfig(\"\") error: %v", err)
	}
	if got != "featureplan.yaml" {
		t.Errorf("FindConfig(\"\") = %q, want %q", got, "featureplan.yaml")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "featureplan.yaml")
	os.WriteFile(path, []byte("gemini:\n  api_key: ${FEATUREPLAN_TEST_KEY}\n"), 0600)
	os.Setenv("FEATUREPLAN_TEST_KEY", "secret123")
	defer os.Unsetenv("FEATUREPLAN_TEST_KEY")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Gemini.APIKey != "secret123" {
		t.Errorf("api_key = %q, want %q", cfg.Gemini.APIKey, "secret123")
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "featureplan.yaml")
	os.WriteFile(path, []byte("log_level: debug\n"), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Gemini.Model != DefaultModel {
		t.Errorf("model = %q, want default %q", cfg.Gemini.Model, DefaultModel)
	}
	if cfg.OutputDir != "." {
		t.Errorf("output_dir = %q, want %q", cfg.OutputDir, ".")
	}
}

func TestLoad_Pricing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "featureplan.yaml")
	os.WriteFile(path, []byte(`pricing:
  gemini-pro-latest:
    input_per_million: 1.25
    output_per_million: 5.0
`), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	entry, ok := cfg.Pricing["gemini-pro-latest"]
	if !ok {
		t.Fatal("expected pricing entry for gemini-pro-latest")
	}
	if entry.InputPerMillion != 1.25 || entry.OutputPerMillion != 5.0 {
		t.Errorf("pricing = %+v", entry)
	}
}

func TestResolveCredential_Order(t *testing.T) {
	dir := t.TempDir()
	orig, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(orig)

	os.Unsetenv(CredentialVar)

	cfg := Default()
	if got := cfg.ResolveCredential(); got != "" {
		t.Errorf("expected empty credential, got %q", got)
	}

	// .env file is the last resort
	os.WriteFile(".env", []byte(CredentialVar+"=from_dotenv\n"), 0600)
	if got := cfg.ResolveCredential(); got != "from_dotenv" {
		t.Errorf("credential = %q, want from_dotenv", got)
	}

	// Environment beats .env
	os.Setenv(CredentialVar, "from_env")
	defer os.Unsetenv(CredentialVar)
	if got := cfg.ResolveCredential(); got != "from_env" {
		t.Errorf("credential = %q, want from_env", got)
	}

	// Config value beats everything
	cfg.Gemini.APIKey = "from_config"
	if got := cfg.ResolveCredential(); got != "from_config" {
		t.Errorf("credential = %q, want from_config", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"trace", LevelTrace, false},
		{"debug", slog.LevelDebug, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
