// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/glyphos/glyphchat/internal/provider"
	"github.com/glyphos/glyphchat/internal/util"
)

// =============================================================================
// CONFIGURATION TYPE
// =============================================================================

// Config is the root configuration.
type Config struct {
	// DefaultProvider names the provider used when none is requested.
	DefaultProvider string `toml:"default_provider"`

	// RenderWidth caps rendered output width. 0 means detect from the
	// terminal.
	RenderWidth int `toml:"render_width"`

	// HistoryPath overrides the session archive location.
	HistoryPath string `toml:"history_path"`

	// HistoryEnabled turns archiving off entirely when false.
	HistoryEnabled bool `toml:"history_enabled"`

	// Providers maps provider names to their wire configuration.
	Providers map[string]provider.Config `toml:"providers"`
}

// Default returns the shipped configuration: a local NDJSON backend,
// an SSE cloud gateway, and a single-shot fallback. Keys come from the
// environment, never from defaults.
func Default() *Config {
	return &Config{
		DefaultProvider: "local",
		RenderWidth:     0,
		HistoryEnabled:  true,
		Providers: map[string]provider.Config{
			"local": {
				BaseURL:     "http://localhost:11434",
				Path:        "/api/generate",
				Protocol:    provider.ProtocolNDJSON,
				Model:       "llama3.2",
				Temperature: 0.7,
			},
			"openrouter": {
				BaseURL:     "https://openrouter.ai/api/v1",
				Path:        "/chat/completions",
				Protocol:    provider.ProtocolSSE,
				Model:       "meta-llama/llama-3.3-70b-instruct",
				Temperature: 0.7,
				KeyEnv:      "OPENROUTER_API_KEY",
				AuthHeader:  "Authorization",
				AuthScheme:  "Bearer",
			},
			"gemini": {
				BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
				Path:        "/models/{model}:generateContent",
				Protocol:    provider.ProtocolSingleShot,
				Model:       "gemini-2.0-flash",
				Temperature: 0.7,
				KeyEnv:      "GEMINI_API_KEY",
				KeyParam:    "key",
			},
		},
	}
}

// Provider resolves a provider config by name, stamping the name into
// the returned config. Empty name means the default provider.
func (c *Config) Provider(name string) (provider.Config, error) {
	if name == "" {
		name = c.DefaultProvider
	}
	pc, ok := c.Providers[name]
	if !ok {
		return provider.Config{}, fmt.Errorf("unknown provider %q", name)
	}
	pc.Name = name
	return pc, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("default_provider %q is not configured", c.DefaultProvider)
	}
	for name, pc := range c.Providers {
		pc.Name = name
		if err := pc.Validate(); err != nil {
			return err
		}
	}
	if c.RenderWidth < 0 {
		return fmt.Errorf("render_width must not be negative")
	}
	return nil
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the glyphchat config directory, ~/.glyphchat.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".glyphchat"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultHistoryPath returns the archive location used when the config
// does not override it.
func DefaultHistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it does
// not exist. Environment overrides apply either way.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads from an explicit file location.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config with owner-only permissions. Keys resolved
// from the environment are never written back.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the config to an explicit location. The write is
// atomic so a crash mid-save never leaves a truncated config behind.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# glyphchat configuration file")
	fmt.Fprintln(&buf, "# API keys are read from the environment; see key_env per provider.")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides layers per-invocation settings from the
// environment over the loaded file.
//
//	GLYPHCHAT_PROVIDER      selects the default provider
//	GLYPHCHAT_MODEL         overrides the selected provider's model
//	GLYPHCHAT_RENDER_WIDTH  overrides the render width
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GLYPHCHAT_PROVIDER"); v != "" {
		c.DefaultProvider = v
	}
	if v := os.Getenv("GLYPHCHAT_MODEL"); v != "" {
		if pc, ok := c.Providers[c.DefaultProvider]; ok {
			pc.Model = v
			c.Providers[c.DefaultProvider] = pc
		}
	}
	if v := os.Getenv("GLYPHCHAT_RENDER_WIDTH"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			c.RenderWidth = w
		}
	}
}
