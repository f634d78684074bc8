// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/shellsage/internal/ollama"
	"github.com/jeranaias/shellsage/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete shellsage configuration.
type Config struct {
	// Model is the Ollama model used for every call
	Model string `toml:"model"`
	// OllamaURL is the base URL of the Ollama server
	OllamaURL string `toml:"ollama_url"`
	// SystemPrompt is prepended to every prompt when non-empty
	SystemPrompt string `toml:"system_prompt"`

	Log LogConfig `toml:"log"`
	UI  UIConfig  `toml:"ui"`
}

// LogLevels are the log.level values Validate accepts.
var LogLevels = []string{"debug", "info", "warn", "error"}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	// Level is one of: debug, info, warn, error
	Level string `toml:"level"`
	// Format is "console" (human readable) or "json"
	Format string `toml:"format"`
}

// UIConfig controls how answers are rendered in a terminal.
type UIConfig struct {
	// Markdown renders answers as markdown when stdout is a terminal
	Markdown bool `toml:"markdown"`
	// WordWrap is the markdown wrap width (0 = terminal width)
	WordWrap int `toml:"word_wrap"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model:     ollama.DefaultModel,
		OllamaURL: ollama.DefaultBaseURL,
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		UI: UIConfig{
			Markdown: true,
			WordWrap: 80,
		},
	}
}

// ClientConfig returns the Ollama client settings from this configuration.
func (c *Config) ClientConfig() ollama.ClientConfig {
	return ollama.ClientConfig{
		Model:   c.Model,
		BaseURL: c.OllamaURL,
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the shellsage configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".shellsage"), nil
}

// ConfigPath returns the config file path, honoring SHELLSAGE_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv("SHELLSAGE_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file if it exists.
// A missing file is not an error; defaults are used.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents a half-written config
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# shellsage configuration file")
	fmt.Fprintln(&buf, "# Generated by shellsage - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String returns the configuration encoded as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("error encoding config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// DEFAULTS AND ENVIRONMENT
// =============================================================================

// SetDefaults fills any empty fields with default values.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.OllamaURL == "" {
		c.OllamaURL = defaults.OllamaURL
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SHELLSAGE_MODEL: overrides model
//   - SHELLSAGE_OLLAMA_URL: overrides ollama_url
//   - SHELLSAGE_SYSTEM_PROMPT: overrides system_prompt
//   - SHELLSAGE_LOG_LEVEL: overrides log.level
//   - SHELLSAGE_MARKDOWN: "0"/"false" disables markdown rendering
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("SHELLSAGE_MODEL"); model != "" {
		c.Model = model
	}
	if u := os.Getenv("SHELLSAGE_OLLAMA_URL"); u != "" {
		c.OllamaURL = u
	}
	if sp, ok := os.LookupEnv("SHELLSAGE_SYSTEM_PROMPT"); ok {
		c.SystemPrompt = sp
	}
	if level := os.Getenv("SHELLSAGE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if md := os.Getenv("SHELLSAGE_MARKDOWN"); md != "" {
		if v, err := strconv.ParseBool(md); err == nil {
			c.UI.Markdown = v
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, ValidationError{Field: "model", Message: "must not be empty"})
	}

	if u, err := url.Parse(c.OllamaURL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "ollama_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "ollama_url",
			Message: fmt.Sprintf("'%s' must be an absolute http(s) URL", c.OllamaURL),
		})
	}

	if !isLogLevel(c.Log.Level) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: %s", c.Log.Level, strings.Join(LogLevels, ", ")),
		})
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isLogLevel(level string) bool {
	for _, l := range LogLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}
