// Package config handles featureplan configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CredentialVar is the environment variable holding the Gemini API key.
const CredentialVar = "GEMINI_API_KEY"

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-pro-latest"

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./featureplan.yaml, ~/.config/featureplan/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"featureplan.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "featureplan", "config.yaml"))
	}

	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns an empty path (and nil error) when no config file is present —
// featureplan runs fine on defaults alone.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", nil
}

// Config holds all featureplan configuration.
type Config struct {
	Gemini    GeminiConfig            `yaml:"gemini"`
	DataDir   string                  `yaml:"data_dir"`
	OutputDir string                  `yaml:"output_dir"`
	LogLevel  string                  `yaml:"log_level"`
	LogFormat string                  `yaml:"log_format"`
	Pricing   map[string]PricingEntry `yaml:"pricing"`
}

// GeminiConfig defines Gemini API settings.
type GeminiConfig struct {
	// APIKey is the credential for the generative language API. Usually
	// left empty in the file and resolved from the environment instead.
	APIKey string `yaml:"api_key"`
	// BaseURL overrides the API endpoint (useful for tests and proxies).
	BaseURL string `yaml:"base_url"`
	// Model is the model name used for chat and synthesis calls.
	Model string `yaml:"model"`
}

// PricingEntry defines per-million-token pricing for a model, used by
// the usage store to compute call costs. Models without an entry are
// treated as free.
type PricingEntry struct {
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model: DefaultModel,
		},
		OutputDir: ".",
	}
}

func (c *Config) applyDefaults() {
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultModel
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// ResolveCredential returns the Gemini API key, checking the config value,
// the process environment, and finally a local .env file. The .env load
// is best-effort: a missing file is not an error, it simply means the
// key must come from somewhere else.
func (c *Config) ResolveCredential() string {
	if c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}
	if key := os.Getenv(CredentialVar); key != "" {
		return key
	}
	if vals, err := godotenv.Read(".env"); err == nil {
		return vals[CredentialVar]
	}
	return ""
}
