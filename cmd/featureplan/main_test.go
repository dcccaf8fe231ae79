package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/featureplan/featureplan/internal/config"
)

func TestRun_NoArgsIsAnError(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, nil)
	if err == nil || !strings.Contains(err.Error(), "no feature idea") {
		t.Fatalf("err = %v, want missing idea error", err)
	}
	if !strings.Contains(out.String(), "Usage: featureplan") {
		t.Errorf("usage text missing:\n%s", out.String())
	}
}

func TestRun_BareArgsAreTheIdea(t *testing.T) {
	// Isolate from any real config or credential: routing a bare idea
	// into a planning session must fail on the missing key, proving the
	// args were accepted as an idea rather than rejected as a command.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.CredentialVar, "")

	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"add", "csv", "export"})
	if err == nil || !strings.Contains(err.Error(), config.CredentialVar) {
		t.Fatalf("err = %v, want credential error from a plan run", err)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"-bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown flag") {
		t.Fatalf("err = %v, want unknown flag", err)
	}
}

func TestRun_BadOutputFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"-o", "xml", "version"})
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("err = %v, want unknown output format", err)
	}
}

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"version"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), "featureplan") {
		t.Errorf("version output missing program name:\n%s", out.String())
	}
}

func TestRun_VersionJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"-o", "json", "version"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("version output is not JSON: %v\n%s", err, out.String())
	}
	if _, ok := info["version"]; !ok {
		t.Errorf("version key missing from JSON output: %v", info)
	}
}

func TestRun_PlanRequiresIdea(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"plan"})
	if err == nil || !strings.Contains(err.Error(), "usage: featureplan plan") {
		t.Fatalf("err = %v, want plan usage error", err)
	}
}

func TestRunPlan_MissingCredential(t *testing.T) {
	// Isolate from any real config, .env, or exported key.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.CredentialVar, "")

	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"plan", "some", "idea"})
	if err == nil || !strings.Contains(err.Error(), config.CredentialVar) {
		t.Fatalf("err = %v, want missing credential error naming %s", err, config.CredentialVar)
	}
}

func TestRun_ExplicitConfigMustExist(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(""), &out, &errOut, []string{"-config", "/nonexistent/f.yaml", "plan", "idea"})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("err = %v, want config not found", err)
	}
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty for defaults", path)
	}
	if cfg.Gemini.Model != config.DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Gemini.Model, config.DefaultModel)
	}
}
