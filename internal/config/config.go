// Package config loads uiforge.yaml and applies environment overrides.
// The result is threaded explicitly into the pipeline; nothing here is a
// mutable global.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials marks the fatal start-up condition of a run
// attempted without the completion-service API key.
var ErrMissingCredentials = errors.New("missing completion-service credentials")

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "uiforge.yaml"

// Config is the full tool configuration.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Design DesignConfig `yaml:"design"`
	Output OutputConfig `yaml:"output"`

	// AllowedElements is the closed set of element categories the
	// generator can render. Loaded once, read-only afterward.
	AllowedElements []string `yaml:"allowed_elements"`
}

// Default returns the baseline configuration before file and env loading.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model: "gemini-2.0-flash",
		},
		Output: OutputConfig{
			Dir:       "generated",
			StorePath: ".uiforge/uiforge.db",
		},
		AllowedElements: []string{
			"button", "input", "card", "navbar", "text", "image", "badge", "form",
		},
	}
}

// Load reads the config file at path (Default() values when the file does
// not exist), then applies environment overrides. A present-but-broken
// file is an error; silent fallback would hide typos.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides maps well-known environment variables onto the config.
// Env always wins over the file.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("UIFORGE_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if token := os.Getenv("UIFORGE_DESIGN_TOKEN"); token != "" {
		c.Design.Token = token
	} else if token := os.Getenv("FIGMA_TOKEN"); token != "" && c.Design.Token == "" {
		c.Design.Token = token
	}
	if base := os.Getenv("UIFORGE_DESIGN_BASE_URL"); base != "" {
		c.Design.BaseURL = base
	}

	if dir := os.Getenv("UIFORGE_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
}

// ValidateCredentials checks the fatal precondition: the completion
// service key must be present before any network call is attempted.
func (c *Config) ValidateCredentials() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY or llm.api_key in %s", ErrMissingCredentials, DefaultFileName)
	}
	return nil
}
